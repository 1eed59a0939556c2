package store

import (
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a requested run does not exist.
var ErrNotFound = errors.New("not found")

// Run is one journaled detection run.
type Run struct {
	ID         string
	Mode       string
	Source     string
	StartedAt  time.Time
	FinishedAt time.Time
	Frames     int
	OpenCount  int
	FistCount  int
	LeftCount  int
	RightCount int
	NoneCount  int
	KeyPresses int
	Cancelled  bool
	Error      string
}

// Duration returns how long the run took.
func (r *Run) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// RunRepository records and reads detection runs.
type RunRepository struct {
	db *sql.DB
}

// Runs returns the run repository for this store.
func (s *Store) Runs() *RunRepository {
	return &RunRepository{db: s.db}
}

const runColumns = `id, mode, source, started_at, finished_at, frames,
	open_count, fist_count, left_count, right_count, none_count,
	key_presses, cancelled, error`

// Create inserts a run, assigning an ID when it has none.
func (r *RunRepository) Create(run *Run) error {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}

	_, err := r.db.Exec(
		`INSERT INTO runs (`+runColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Mode, run.Source, run.StartedAt.UTC(), run.FinishedAt.UTC(), run.Frames,
		run.OpenCount, run.FistCount, run.LeftCount, run.RightCount, run.NoneCount,
		run.KeyPresses, run.Cancelled, run.Error,
	)
	return err
}

// Get retrieves a run by its ID.
func (r *RunRepository) Get(id string) (*Run, error) {
	run, err := scanRun(r.db.QueryRow(`SELECT `+runColumns+` FROM runs WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return run, nil
}

// List returns the most recent runs first. A limit <= 0 returns all runs.
func (r *RunRepository) List(limit int) ([]*Run, error) {
	if limit <= 0 {
		limit = -1
	}

	rows, err := r.db.Query(
		`SELECT `+runColumns+` FROM runs ORDER BY started_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return runs, nil
}

// Prune removes runs that started before the given time and returns how
// many were removed.
func (r *RunRepository) Prune(before time.Time) (int64, error) {
	result, err := r.db.Exec(`DELETE FROM runs WHERE started_at < ?`, before.UTC())
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(s scanner) (*Run, error) {
	run := &Run{}
	var cancelled int

	err := s.Scan(
		&run.ID, &run.Mode, &run.Source, &run.StartedAt, &run.FinishedAt, &run.Frames,
		&run.OpenCount, &run.FistCount, &run.LeftCount, &run.RightCount, &run.NoneCount,
		&run.KeyPresses, &cancelled, &run.Error,
	)
	if err != nil {
		return nil, err
	}

	run.Cancelled = cancelled != 0
	return run, nil
}
