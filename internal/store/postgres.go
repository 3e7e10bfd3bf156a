package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/rhyrak/section-scheduler/internal/config"
)

// NewPostgres returns a configured PostgreSQL client.
func NewPostgres(cfg config.DatabaseConfig) (*sqlx.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host,
		cfg.Port,
		cfg.User,
		cfg.Password,
		cfg.Name,
		cfg.SSLMode,
	)

	db, err := sqlx.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}

	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}

	db.SetConnMaxLifetime(1 * time.Hour)
	db.SetConnMaxIdleTime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

const schema = `
CREATE TABLE IF NOT EXISTS schedule_runs (
	id             UUID PRIMARY KEY,
	trimester      TEXT NOT NULL,
	seed           BIGINT NOT NULL,
	status         TEXT NOT NULL,
	report         TEXT NOT NULL DEFAULT '',
	buckets        INT NOT NULL DEFAULT 0,
	failed_buckets INT NOT NULL DEFAULT 0,
	created_at     TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS schedule_assignments (
	run_id      UUID NOT NULL REFERENCES schedule_runs(id) ON DELETE CASCADE,
	position    INT NOT NULL,
	section_id  TEXT NOT NULL,
	program     TEXT NOT NULL,
	year_level  TEXT NOT NULL,
	trimester   TEXT NOT NULL,
	group_name  TEXT NOT NULL,
	section     TEXT NOT NULL,
	course_code TEXT NOT NULL,
	description TEXT NOT NULL,
	kind        TEXT NOT NULL,
	units       INT NOT NULL,
	day_pattern TEXT NOT NULL,
	start_time  TEXT NOT NULL,
	end_time    TEXT NOT NULL,
	slot        INT NOT NULL,
	room_code   TEXT NOT NULL,
	PRIMARY KEY (run_id, position)
);

CREATE INDEX IF NOT EXISTS schedule_assignments_room_idx ON schedule_assignments (run_id, room_code);
`

// Migrate creates the schedule tables when missing.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("migrate schedule schema: %w", err)
	}
	return nil
}
