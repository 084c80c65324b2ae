// Package store persists processing history in a local SQLite database.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/reelify/reelify/internal/types"
)

type Store struct {
	db *sql.DB
}

// Run is one recorded pipeline run plus the reels it produced.
type Run struct {
	ID             string
	InputName      string
	StartedAt      time.Time
	FinishedAt     time.Time
	ReelsRequested int
	ReelsGenerated int
	Status         string
	Error          string
	Reels          []types.Reel
}

const (
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) migrate() error {
	stmts := []string{
		`create table if not exists processing_history (
			id text primary key,
			input_name text not null,
			started_at timestamp not null,
			finished_at timestamp not null,
			reels_requested integer not null,
			reels_generated integer not null,
			status text not null,
			error text
		)`,
		`create table if not exists reels (
			id integer primary key autoincrement,
			run_id text not null references processing_history (id),
			reel_path text not null,
			duration real not null,
			segment_text text,
			start_time real not null,
			end_time real not null
		)`,
	}
	for _, q := range stmts {
		if _, err := s.db.Exec(q); err != nil {
			return fmt.Errorf("migrate history db: %w", err)
		}
	}
	return nil
}

// RecordRun writes the run row and its reels atomically. A missing ID is
// assigned here.
func (s *Store) RecordRun(ctx context.Context, r Run) (string, error) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("record run: begin trx: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`insert into processing_history
			(id, input_name, started_at, finished_at, reels_requested, reels_generated, status, error)
		values ($1, $2, $3, $4, $5, $6, $7, $8)`,
		r.ID, r.InputName, r.StartedAt.UTC(), r.FinishedAt.UTC(),
		r.ReelsRequested, r.ReelsGenerated, r.Status, r.Error,
	)
	if err != nil {
		tx.Rollback()
		return "", fmt.Errorf("record run: insert history: %w", err)
	}

	for _, reel := range r.Reels {
		_, err = tx.ExecContext(ctx,
			`insert into reels (run_id, reel_path, duration, segment_text, start_time, end_time)
			values ($1, $2, $3, $4, $5, $6)`,
			r.ID, reel.FilePath, reel.Duration, reel.SegmentText, reel.StartSec, reel.EndSec,
		)
		if err != nil {
			tx.Rollback()
			return "", fmt.Errorf("record run: insert reel: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("record run: commit: %w", err)
	}
	return r.ID, nil
}

// ListRuns returns the most recent runs, newest first, without reel rows.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`select id, input_name, started_at, finished_at, reels_requested, reels_generated, status, coalesce(error, '')
		from processing_history order by started_at desc limit $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(
			&r.ID, &r.InputName, &r.StartedAt, &r.FinishedAt,
			&r.ReelsRequested, &r.ReelsGenerated, &r.Status, &r.Error,
		); err != nil {
			return nil, fmt.Errorf("list runs: scan: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// RunReels returns the reel rows for one run in insertion order.
func (s *Store) RunReels(ctx context.Context, runID string) ([]types.Reel, error) {
	rows, err := s.db.QueryContext(ctx,
		`select reel_path, duration, coalesce(segment_text, ''), start_time, end_time
		from reels where run_id = $1 order by id`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("run reels: %w", err)
	}
	defer rows.Close()

	var out []types.Reel
	for rows.Next() {
		var r types.Reel
		if err := rows.Scan(&r.FilePath, &r.Duration, &r.SegmentText, &r.StartSec, &r.EndSec); err != nil {
			return nil, fmt.Errorf("run reels: scan: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
