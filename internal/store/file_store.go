package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/rhyrak/section-scheduler/internal/csvio"
	"github.com/rhyrak/section-scheduler/pkg/model"
)

const (
	scheduleSuffix = "-schedule.csv"
	runSuffix      = "-run.json"
)

// FileStore keeps runs as "<id>-run.json" next to the exported
// "<id>-schedule.csv" in one directory.
type FileStore struct {
	dir string
}

func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create schedule directory: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) path(id string, suffix string) (string, error) {
	if id == "" || strings.ContainsAny(id, `/\`) || strings.Contains(id, "..") {
		return "", ErrRunNotFound
	}
	return filepath.Join(s.dir, id+suffix), nil
}

func (s *FileStore) Save(_ context.Context, run *Run, assignments []model.Assignment) error {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}
	schedulePath, err := s.path(run.ID, scheduleSuffix)
	if err != nil {
		return err
	}
	if err := csvio.ExportAssignments(assignments, schedulePath); err != nil {
		return err
	}
	data, err := json.MarshalIndent(run, "", "  ")
	if err != nil {
		return fmt.Errorf("encode schedule run: %w", err)
	}
	runPath, _ := s.path(run.ID, runSuffix)
	if err := os.WriteFile(runPath, data, 0o644); err != nil {
		return fmt.Errorf("write schedule run: %w", err)
	}
	return nil
}

func (s *FileStore) List(ctx context.Context) ([]Run, error) {
	files, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("list schedule runs: %w", err)
	}
	runs := []Run{}
	for _, file := range files {
		if file.IsDir() {
			continue
		}
		id, ok := strings.CutSuffix(file.Name(), runSuffix)
		if !ok {
			continue
		}
		run, err := s.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}
	slices.SortStableFunc(runs, func(a, b Run) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return runs, nil
}

func (s *FileStore) Get(_ context.Context, id string) (*Run, error) {
	p, err := s.path(id, runSuffix)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrRunNotFound
		}
		return nil, fmt.Errorf("read schedule run: %w", err)
	}
	var run Run
	if err := json.Unmarshal(data, &run); err != nil {
		return nil, fmt.Errorf("decode schedule run %s: %w", id, err)
	}
	return &run, nil
}

func (s *FileStore) Assignments(_ context.Context, id string) ([]model.Assignment, error) {
	p, err := s.path(id, scheduleSuffix)
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(p); errors.Is(err, fs.ErrNotExist) {
		return nil, ErrRunNotFound
	}
	return csvio.LoadAssignments(p, ',')
}

func (s *FileStore) Delete(_ context.Context, id string) error {
	runPath, err := s.path(id, runSuffix)
	if err != nil {
		return err
	}
	if err := os.Remove(runPath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ErrRunNotFound
		}
		return fmt.Errorf("delete schedule run: %w", err)
	}
	schedulePath, _ := s.path(id, scheduleSuffix)
	if err := os.Remove(schedulePath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("delete schedule: %w", err)
	}
	return nil
}
