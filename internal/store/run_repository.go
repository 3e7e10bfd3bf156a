package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/rhyrak/section-scheduler/pkg/model"
)

// Run statuses.
const (
	StatusSuccess = "success"
	StatusPartial = "partial"
	StatusFailed  = "failed"
)

var ErrRunNotFound = errors.New("schedule run not found")

// Run is one persisted engine run.
type Run struct {
	ID            string    `db:"id" json:"id"`
	Trimester     string    `db:"trimester" json:"trimester"`
	Seed          int64     `db:"seed" json:"seed"`
	Status        string    `db:"status" json:"status"`
	Report        string    `db:"report" json:"report"`
	Buckets       int       `db:"buckets" json:"buckets"`
	FailedBuckets int       `db:"failed_buckets" json:"failedBuckets"`
	CreatedAt     time.Time `db:"created_at" json:"createdAt"`
}

// RunStatus derives the status from the bucket counts.
func RunStatus(buckets int, failed int) string {
	switch {
	case failed == 0:
		return StatusSuccess
	case failed < buckets:
		return StatusPartial
	}
	return StatusFailed
}

type storedAssignment struct {
	RunID    string `db:"run_id"`
	Position int    `db:"position"`
	model.Assignment
}

// RunRepository persists runs and their assignments.
type RunRepository struct {
	db *sqlx.DB
}

func NewRunRepository(db *sqlx.DB) *RunRepository {
	return &RunRepository{db: db}
}

const insertRunQuery = `INSERT INTO schedule_runs (id, trimester, seed, status, report, buckets, failed_buckets, created_at)
VALUES (:id, :trimester, :seed, :status, :report, :buckets, :failed_buckets, :created_at)`

const insertAssignmentQuery = `INSERT INTO schedule_assignments (run_id, position, section_id, program, year_level, trimester,
	group_name, section, course_code, description, kind, units, day_pattern, start_time, end_time, slot, room_code)
VALUES (:run_id, :position, :section_id, :program, :year_level, :trimester,
	:group_name, :section, :course_code, :description, :kind, :units, :day_pattern, :start_time, :end_time, :slot, :room_code)`

const runColumns = `id, trimester, seed, status, report, buckets, failed_buckets, created_at`

const assignmentColumns = `section_id, program, year_level, trimester, group_name, section, course_code, description,
	kind, units, day_pattern, start_time, end_time, slot, room_code`

// Save stores the run and its assignments in one transaction. An empty ID
// is filled with a new UUID.
func (r *RunRepository) Save(ctx context.Context, run *Run, assignments []model.Assignment) error {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save run tx: %w", err)
	}
	if _, err := tx.NamedExecContext(ctx, insertRunQuery, run); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("insert schedule run: %w", err)
	}
	for i := range assignments {
		row := storedAssignment{RunID: run.ID, Position: i, Assignment: assignments[i]}
		if _, err := tx.NamedExecContext(ctx, insertAssignmentQuery, row); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("insert schedule assignment: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save run tx: %w", err)
	}
	return nil
}

// List returns every run, newest first.
func (r *RunRepository) List(ctx context.Context) ([]Run, error) {
	query := `SELECT ` + runColumns + ` FROM schedule_runs ORDER BY created_at DESC`
	var runs []Run
	if err := r.db.SelectContext(ctx, &runs, query); err != nil {
		return nil, fmt.Errorf("list schedule runs: %w", err)
	}
	return runs, nil
}

// Get fetches a single run by id.
func (r *RunRepository) Get(ctx context.Context, id string) (*Run, error) {
	query := `SELECT ` + runColumns + ` FROM schedule_runs WHERE id = $1`
	var run Run
	if err := r.db.GetContext(ctx, &run, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRunNotFound
		}
		return nil, fmt.Errorf("get schedule run: %w", err)
	}
	return &run, nil
}

// Assignments returns the assignments of a run in insertion order.
func (r *RunRepository) Assignments(ctx context.Context, id string) ([]model.Assignment, error) {
	query := `SELECT ` + assignmentColumns + ` FROM schedule_assignments WHERE run_id = $1 ORDER BY position`
	var assignments []model.Assignment
	if err := r.db.SelectContext(ctx, &assignments, query, id); err != nil {
		return nil, fmt.Errorf("list schedule assignments: %w", err)
	}
	return assignments, nil
}

// Delete removes a run; its assignments cascade.
func (r *RunRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM schedule_runs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete schedule run: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete schedule run: %w", err)
	}
	if n == 0 {
		return ErrRunNotFound
	}
	return nil
}
