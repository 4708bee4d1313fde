package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/certa-dev/certa/internal/registry"
)

// ErrRunNotFound is returned by ReadRun when no run has the given ID.
var ErrRunNotFound = errors.New("run not found")

// ReadRuns returns the most recent runs, newest first. A limit <= 0 returns
// all runs. Uncovered tags are populated for each run.
func (s *Store) ReadRuns(ctx context.Context, limit int) ([]RunRecord, error) {
	query := `
		SELECT id, created_at, manifest_name, total_functions, registered_cases, covered_count, percentage
		FROM runs
		ORDER BY created_at DESC, id ASC
	`
	var rows *sql.Rows
	var err error
	if limit > 0 {
		rows, err = s.db.QueryContext(ctx, query+" LIMIT ?", limit)
	} else {
		rows, err = s.db.QueryContext(ctx, query)
	}
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []RunRecord
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}

	for i := range runs {
		if err := s.loadUncovered(ctx, &runs[i]); err != nil {
			return nil, err
		}
	}

	return runs, nil
}

// ReadRun returns a single run by ID.
func (s *Store) ReadRun(ctx context.Context, id string) (RunRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, created_at, manifest_name, total_functions, registered_cases, covered_count, percentage
		FROM runs
		WHERE id = ?
	`, id)

	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return RunRecord{}, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if err != nil {
		return RunRecord{}, err
	}

	if err := s.loadUncovered(ctx, &run); err != nil {
		return RunRecord{}, err
	}

	return run, nil
}

// loadUncovered populates run.Uncovered in deterministic order.
func (s *Store) loadUncovered(ctx context.Context, run *RunRecord) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT function_id, function_version
		FROM uncovered_functions
		WHERE run_id = ?
		ORDER BY function_id ASC, function_version ASC
	`, run.ID)
	if err != nil {
		return fmt.Errorf("query uncovered functions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id, version string
		if err := rows.Scan(&id, &version); err != nil {
			return fmt.Errorf("scan uncovered function: %w", err)
		}
		run.Uncovered = append(run.Uncovered, registry.NewTag(id, version))
	}
	return rows.Err()
}

// scanner abstracts *sql.Row and *sql.Rows for scanRun.
type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (RunRecord, error) {
	var run RunRecord
	var createdAt string
	err := row.Scan(
		&run.ID,
		&createdAt,
		&run.ManifestName,
		&run.TotalFunctions,
		&run.RegisteredCases,
		&run.CoveredCount,
		&run.Percentage,
	)
	if err != nil {
		return RunRecord{}, err
	}

	run.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return RunRecord{}, fmt.Errorf("parse run timestamp: %w", err)
	}

	return run, nil
}
