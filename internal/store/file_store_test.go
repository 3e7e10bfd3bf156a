package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rhyrak/section-scheduler/pkg/model"
)

func TestFileStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	older := &Run{Trimester: "First", Seed: 1, Status: StatusSuccess, Buckets: 1, CreatedAt: time.Now().Add(-time.Hour)}
	require.NoError(t, s.Save(ctx, older, []model.Assignment{sampleAssignment()}))
	newer := &Run{Trimester: "Second", Seed: 2, Status: StatusFailed, Buckets: 1, FailedBuckets: 1}
	require.NoError(t, s.Save(ctx, newer, nil))
	require.NotEmpty(t, older.ID)

	runs, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, newer.ID, runs[0].ID)

	got, err := s.Get(ctx, older.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.Seed)

	assignments, err := s.Assignments(ctx, older.ID)
	require.NoError(t, err)
	require.Len(t, assignments, 1)
	assert.Equal(t, sampleAssignment(), assignments[0])

	empty, err := s.Assignments(ctx, newer.ID)
	require.NoError(t, err)
	assert.Empty(t, empty)

	require.NoError(t, s.Delete(ctx, older.ID))
	_, err = s.Get(ctx, older.ID)
	assert.ErrorIs(t, err, ErrRunNotFound)
	assert.ErrorIs(t, s.Delete(ctx, older.ID), ErrRunNotFound)
}

func TestFileStoreRejectsPaths(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	_, err = s.Get(context.Background(), "../etc/passwd")
	assert.ErrorIs(t, err, ErrRunNotFound)
	_, err = s.Assignments(context.Background(), "")
	assert.ErrorIs(t, err, ErrRunNotFound)
}
