package metrics

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rhyrak/section-scheduler/internal/scheduler"
	"github.com/rhyrak/section-scheduler/pkg/model"
)

func TestObserveBucket(t *testing.T) {
	m := New()
	m.ObserveBucket(&scheduler.BucketResult{Attempts: 1, Elapsed: time.Millisecond, Assignments: make([]model.Assignment, 4)})
	m.ObserveBucket(&scheduler.BucketResult{Attempts: 2, Err: scheduler.ErrInfeasibleUnit})

	assert.Equal(t, 1.0, testutil.ToFloat64(m.buckets.WithLabelValues("scheduled")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.buckets.WithLabelValues(string(scheduler.CodeInfeasibleUnit))))
	assert.Equal(t, 4.0, testutil.ToFloat64(m.assignments))
}

func TestOutcome(t *testing.T) {
	assert.Equal(t, "scheduled", Outcome(nil))
	assert.Equal(t, "INFEASIBLE_SYNCHRONIZED_SUBJECT", Outcome(scheduler.ErrInfeasibleSynchronized))
	assert.Equal(t, "error", Outcome(errors.New("boom")))
}

func TestHandlerExposesMetrics(t *testing.T) {
	m := New()
	m.ObserveHTTPRequest(http.MethodPost, "/schedule", http.StatusCreated, 10*time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `http_requests_total{method="POST",path="/schedule",status="201"} 1`)

	var nilMetrics *Metrics
	rec = httptest.NewRecorder()
	nilMetrics.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
