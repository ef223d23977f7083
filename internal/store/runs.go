package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Run records one batch import.
type Run struct {
	ID         string
	Root       string
	StartedAt  time.Time
	FinishedAt *time.Time
	Files      int
	Failures   int
}

// Stats summarises the store's contents.
type Stats struct {
	Analyses   int
	Runs       int
	TotalBytes int64
	ByFamily   map[string]int
}

const runColumns = "id, root, started_at, finished_at, files, failures"

// BeginRun records the start of a batch over root under a fresh run id.
func (s *Store) BeginRun(ctx context.Context, root string) (*Run, error) {
	run := &Run{
		ID:        uuid.NewString(),
		Root:      root,
		StartedAt: s.now().UTC(),
	}
	_, err := s.execWithRetry(ctx,
		"INSERT INTO runs (id, root, started_at) VALUES (?, ?, ?)",
		run.ID, run.Root, formatTime(run.StartedAt),
	)
	if err != nil {
		return nil, fmt.Errorf("begin run: %w", err)
	}
	return run, nil
}

// FinishRun stamps the run's completion and file counts.
func (s *Store) FinishRun(ctx context.Context, id string, files, failures int) error {
	finished := s.now()
	res, err := s.execWithRetry(ctx,
		"UPDATE runs SET finished_at = ?, files = ?, failures = ? WHERE id = ?",
		nullableTime(&finished), files, failures, id,
	)
	if err != nil {
		return fmt.Errorf("finish run %s: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: run %s", ErrNotFound, id)
	}
	return nil
}

// ListRuns returns runs newest first. A non-positive limit returns everything.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	ctx = ensureContext(ctx)
	query := "SELECT " + runColumns + " FROM runs ORDER BY started_at DESC, id"
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		var (
			run         Run
			startedRaw  string
			finishedRaw sql.NullString
		)
		if err := rows.Scan(&run.ID, &run.Root, &startedRaw, &finishedRaw, &run.Files, &run.Failures); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		if started, err := parseTimeString(startedRaw); err == nil {
			run.StartedAt = started
		}
		if finishedRaw.Valid {
			if finished, err := parseTimeString(finishedRaw.String); err == nil {
				run.FinishedAt = &finished
			}
		}
		out = append(out, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return out, nil
}

// Stats counts stored analyses by family along with runs and stored bytes.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	ctx = ensureContext(ctx)
	stats := Stats{ByFamily: map[string]int{}}

	rows, err := s.db.QueryContext(ctx,
		"SELECT family, COUNT(1), COALESCE(SUM(size_bytes), 0) FROM analyses GROUP BY family")
	if err != nil {
		return Stats{}, fmt.Errorf("count analyses: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			family string
			count  int
			bytes  int64
		)
		if err := rows.Scan(&family, &count, &bytes); err != nil {
			return Stats{}, fmt.Errorf("scan analysis counts: %w", err)
		}
		stats.ByFamily[family] = count
		stats.Analyses += count
		stats.TotalBytes += bytes
	}
	if err := rows.Err(); err != nil {
		return Stats{}, fmt.Errorf("iterate analysis counts: %w", err)
	}

	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(1) FROM runs").Scan(&stats.Runs); err != nil {
		return Stats{}, fmt.Errorf("count runs: %w", err)
	}
	return stats, nil
}
