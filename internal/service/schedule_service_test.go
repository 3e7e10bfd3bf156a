package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rhyrak/section-scheduler/internal/scheduler"
	"github.com/rhyrak/section-scheduler/internal/store"
	"github.com/rhyrak/section-scheduler/pkg/model"
)

type memoryRuns struct {
	runs        map[string]store.Run
	assignments map[string][]model.Assignment
	saveErr     error
}

func newMemoryRuns() *memoryRuns {
	return &memoryRuns{runs: map[string]store.Run{}, assignments: map[string][]model.Assignment{}}
}

func (m *memoryRuns) Save(_ context.Context, run *store.Run, assignments []model.Assignment) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	run.ID = "run-1"
	m.runs[run.ID] = *run
	m.assignments[run.ID] = assignments
	return nil
}

func (m *memoryRuns) List(context.Context) ([]store.Run, error) {
	out := []store.Run{}
	for _, r := range m.runs {
		out = append(out, r)
	}
	return out, nil
}

func (m *memoryRuns) Get(_ context.Context, id string) (*store.Run, error) {
	r, ok := m.runs[id]
	if !ok {
		return nil, store.ErrRunNotFound
	}
	return &r, nil
}

func (m *memoryRuns) Assignments(_ context.Context, id string) ([]model.Assignment, error) {
	return m.assignments[id], nil
}

func (m *memoryRuns) Delete(_ context.Context, id string) error {
	if _, ok := m.runs[id]; !ok {
		return store.ErrRunNotFound
	}
	delete(m.runs, id)
	return nil
}

func serviceConfig() *scheduler.Configuration {
	cfg := scheduler.NewDefaultConfiguration()
	cfg.MajorCodes = nil
	cfg.MajorRooms = nil
	cfg.SkewRules = nil
	return cfg
}

func rooms(withLabs bool) []model.Room {
	out := []model.Room{
		{Code: "R1", Categories: model.CategoryLecture},
		{Code: "R2", Categories: model.CategoryLecture},
		{Code: "R3", Categories: model.CategoryLecture},
		{Code: "R4", Categories: model.CategoryLecture},
		{Code: "Aud", Categories: model.CategoryAuditorium},
		{Code: "Gym", Categories: model.CategoryGym},
	}
	if withLabs {
		out = append(out,
			model.Room{Code: "L1", Categories: model.CategoryLab},
			model.Room{Code: "L2", Categories: model.CategoryLab})
	}
	return out
}

func subjects() []model.SubjectRecord {
	return []model.SubjectRecord{
		{Program: "BSCS", YearLevel: "First", Trimester: "First", Code: "CC1(Lec)", Description: "Intro (Lec)", Kind: "Lecture", Units: 2},
		{Program: "BSCS", YearLevel: "First", Trimester: "First", Code: "CC1(Lab)", Description: "Intro (Lab)", Kind: "Lab", Units: 1},
		{Program: "BSCS", YearLevel: "First", Trimester: "First", Code: "GE1", Description: "Communication", Kind: "Pure Lecture", Units: 3},
	}
}

func TestGenerateSavesRun(t *testing.T) {
	runs := newMemoryRuns()
	svc := NewScheduleService(serviceConfig(), runs, nil, nil)
	seed := int64(42)

	res, err := svc.Generate(context.Background(), GenerateInput{
		Subjects:        subjects(),
		Rooms:           rooms(true),
		Trimester:       "First",
		DefaultSections: 2,
		Seed:            &seed,
	})
	require.NoError(t, err)
	assert.True(t, res.Valid, res.Run.Report)
	assert.Empty(t, res.Failures)
	assert.Len(t, res.Assignments, 12)
	assert.Equal(t, store.StatusSuccess, res.Run.Status)
	assert.Equal(t, int64(42), res.Run.Seed)
	assert.Equal(t, 2, res.Run.Buckets)
	assert.Equal(t, "run-1", res.Run.ID)

	run, assignments, err := svc.Get(context.Background(), "run-1")
	require.NoError(t, err)
	assert.Equal(t, res.Run.Status, run.Status)
	assert.Len(t, assignments, 12)

	require.NoError(t, svc.Delete(context.Background(), "run-1"))
	_, _, err = svc.Get(context.Background(), "run-1")
	assert.ErrorIs(t, err, store.ErrRunNotFound)
}

func TestGenerateReportsFailedBuckets(t *testing.T) {
	svc := NewScheduleService(serviceConfig(), nil, nil, nil)

	res, err := svc.Generate(context.Background(), GenerateInput{
		Subjects:  subjects(),
		Rooms:     rooms(false),
		Trimester: "First",
		Groups:    []string{"A"},
	})
	require.NoError(t, err)
	require.Len(t, res.Failures, 1)
	assert.Equal(t, string(scheduler.CodeInfeasibleUnit), res.Failures[0].Code)
	assert.Equal(t, store.StatusFailed, res.Run.Status)
	assert.Empty(t, res.Assignments)
	assert.Contains(t, res.Run.Report, "[SKIP]: BSCS First year")
	assert.Empty(t, res.Run.ID)
}

func TestGenerateInputErrors(t *testing.T) {
	svc := NewScheduleService(serviceConfig(), nil, nil, nil)
	_, err := svc.Generate(context.Background(), GenerateInput{Subjects: subjects(), Rooms: rooms(true), Trimester: "Third"})
	assert.Error(t, err)

	bad := serviceConfig()
	bad.RoomAffinity = 2
	svc = NewScheduleService(bad, nil, nil, nil)
	_, err = svc.Generate(context.Background(), GenerateInput{Subjects: subjects(), Rooms: rooms(true), Trimester: "First"})
	assert.ErrorIs(t, err, scheduler.ErrConfiguration)
}

func TestGenerateSaveError(t *testing.T) {
	runs := newMemoryRuns()
	runs.saveErr = errors.New("db down")
	svc := NewScheduleService(serviceConfig(), runs, nil, nil)

	_, err := svc.Generate(context.Background(), GenerateInput{Subjects: subjects(), Rooms: rooms(true), Trimester: "First"})
	assert.ErrorContains(t, err, "db down")
}

func TestStorageDisabled(t *testing.T) {
	svc := NewScheduleService(nil, nil, nil, nil)
	_, err := svc.List(context.Background())
	assert.ErrorIs(t, err, ErrStorageDisabled)
	assert.ErrorIs(t, svc.Delete(context.Background(), "x"), ErrStorageDisabled)
}
