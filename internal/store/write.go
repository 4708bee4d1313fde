package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/certa-dev/certa/internal/coverage"
	"github.com/certa-dev/certa/internal/registry"
)

// RunRecord is one persisted conformance run.
type RunRecord struct {
	ID              string                 `json:"id"`
	CreatedAt       time.Time              `json:"created_at"`
	ManifestName    string                 `json:"manifest_name,omitempty"`
	TotalFunctions  int                    `json:"total_functions"`
	RegisteredCases int                    `json:"registered_cases"`
	CoveredCount    int                    `json:"covered_count"`
	Percentage      float64                `json:"percentage"`
	Uncovered       []registry.FunctionTag `json:"uncovered,omitempty"`
}

// NewRunRecord builds a RunRecord from a computed report, assigning a fresh
// run ID and the current UTC timestamp.
func NewRunRecord(manifestName string, report *coverage.Report) RunRecord {
	return RunRecord{
		ID:              uuid.NewString(),
		CreatedAt:       time.Now().UTC(),
		ManifestName:    manifestName,
		TotalFunctions:  report.TotalFunctions,
		RegisteredCases: report.RegisteredCases,
		CoveredCount:    report.CoveredCount,
		Percentage:      report.Percentage,
		Uncovered:       report.Uncovered,
	}
}

// WriteRun inserts a run and its uncovered tags in one transaction.
func (s *Store) WriteRun(ctx context.Context, run RunRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("write run: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs
		(id, created_at, manifest_name, total_functions, registered_cases, covered_count, percentage)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		run.ID,
		run.CreatedAt.Format(time.RFC3339Nano),
		run.ManifestName,
		run.TotalFunctions,
		run.RegisteredCases,
		run.CoveredCount,
		run.Percentage,
	)
	if err != nil {
		return fmt.Errorf("write run: %w", err)
	}

	for _, tag := range run.Uncovered {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO uncovered_functions (run_id, function_id, function_version)
			VALUES (?, ?, ?)
		`, run.ID, tag.ID, tag.Version)
		if err != nil {
			return fmt.Errorf("write uncovered function: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("write run: %w", err)
	}

	return nil
}
