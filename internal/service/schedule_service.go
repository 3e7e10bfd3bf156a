package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/rhyrak/section-scheduler/internal/offering"
	"github.com/rhyrak/section-scheduler/internal/scheduler"
	"github.com/rhyrak/section-scheduler/internal/store"
	"github.com/rhyrak/section-scheduler/pkg/model"
)

// ErrStorageDisabled is returned by the run queries when no store is wired.
var ErrStorageDisabled = errors.New("schedule storage is disabled")

// RunStore describes the persistence layer required by ScheduleService.
type RunStore interface {
	Save(ctx context.Context, run *store.Run, assignments []model.Assignment) error
	List(ctx context.Context) ([]store.Run, error)
	Get(ctx context.Context, id string) (*store.Run, error)
	Assignments(ctx context.Context, id string) ([]model.Assignment, error)
	Delete(ctx context.Context, id string) error
}

// GenerateInput carries the parsed tables of one generation request.
type GenerateInput struct {
	Subjects        []model.SubjectRecord
	Rooms           []model.Room
	SectionCounts   []model.SectionCountRecord
	Trimester       string
	Groups          []string
	DefaultSections int
	// Seed overrides the configured seed when set.
	Seed *int64
}

// BucketFailure describes a bucket that got no schedule.
type BucketFailure struct {
	Bucket   string `json:"bucket"`
	Code     string `json:"code"`
	Error    string `json:"error"`
	Attempts int    `json:"attempts"`
}

// GenerateResult is the outcome of one generation.
type GenerateResult struct {
	Run         *store.Run           `json:"run"`
	Assignments []model.Assignment   `json:"-"`
	Failures    []BucketFailure      `json:"failures"`
	Valid       bool                 `json:"valid"`
	Raw         *scheduler.RunResult `json:"-"`
}

// ScheduleService runs the engine over uploaded tables and keeps the runs.
type ScheduleService struct {
	base     *scheduler.Configuration
	runs     RunStore
	observer scheduler.Observer
	logger   *zap.Logger
}

// NewScheduleService constructs the service. runs may be nil, in which case
// generated schedules are returned but not kept.
func NewScheduleService(base *scheduler.Configuration, runs RunStore, observer scheduler.Observer, logger *zap.Logger) *ScheduleService {
	if base == nil {
		base = scheduler.NewDefaultConfiguration()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScheduleService{base: base, runs: runs, observer: observer, logger: logger}
}

// Generate builds the bucket requests, runs the engine, checks the result and
// stores it when a store is wired. Bucket failures are part of the result,
// not an error.
func (s *ScheduleService) Generate(ctx context.Context, in GenerateInput) (*GenerateResult, error) {
	cfg := *s.base
	if in.Seed != nil {
		cfg.Seed = *in.Seed
	}

	requests, err := offering.BuildRequests(in.Subjects, offering.Options{
		Trimester:       in.Trimester,
		Groups:          in.Groups,
		SectionCounts:   in.SectionCounts,
		DefaultSections: in.DefaultSections,
	})
	if err != nil {
		return nil, err
	}
	engine, err := scheduler.NewEngine(&cfg, s.logger, s.observer)
	if err != nil {
		return nil, err
	}

	raw := engine.Run(in.Rooms, requests)
	assignments := raw.Assignments()
	valid, report := scheduler.Validate(assignments, raw.Catalog)

	result := &GenerateResult{Assignments: assignments, Valid: valid, Raw: raw}
	var b strings.Builder
	b.WriteString(report)
	for _, f := range raw.Failed() {
		failure := BucketFailure{Bucket: f.Bucket.String(), Error: f.Err.Error(), Attempts: f.Attempts}
		var serr *scheduler.Error
		if errors.As(f.Err, &serr) {
			failure.Code = string(serr.Code)
		}
		result.Failures = append(result.Failures, failure)
		fmt.Fprintf(&b, "[SKIP]: %s (%s)\n", failure.Bucket, failure.Error)
	}

	result.Run = &store.Run{
		Trimester:     in.Trimester,
		Seed:          cfg.Seed,
		Status:        store.RunStatus(len(raw.Buckets), len(result.Failures)),
		Report:        b.String(),
		Buckets:       len(raw.Buckets),
		FailedBuckets: len(result.Failures),
	}
	if !valid {
		s.logger.Error("generated schedule failed validation", zap.String("report", report))
	}

	if s.runs != nil {
		if err := s.runs.Save(ctx, result.Run, assignments); err != nil {
			return nil, fmt.Errorf("save schedule run: %w", err)
		}
		s.logger.Info("schedule run saved",
			zap.String("run_id", result.Run.ID),
			zap.String("status", result.Run.Status))
	}
	return result, nil
}

// List returns the stored runs.
func (s *ScheduleService) List(ctx context.Context) ([]store.Run, error) {
	if s.runs == nil {
		return nil, ErrStorageDisabled
	}
	return s.runs.List(ctx)
}

// Get returns a stored run with its assignments.
func (s *ScheduleService) Get(ctx context.Context, id string) (*store.Run, []model.Assignment, error) {
	if s.runs == nil {
		return nil, nil, ErrStorageDisabled
	}
	run, err := s.runs.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	assignments, err := s.runs.Assignments(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return run, assignments, nil
}

// Delete removes a stored run.
func (s *ScheduleService) Delete(ctx context.Context, id string) error {
	if s.runs == nil {
		return ErrStorageDisabled
	}
	return s.runs.Delete(ctx, id)
}
