package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/certa-dev/certa/internal/coverage"
	"github.com/certa-dev/certa/internal/manifest"
	"github.com/certa-dev/certa/internal/registry"
	"github.com/certa-dev/certa/internal/store"
)

// CoverageOptions holds flags for the coverage command.
type CoverageOptions struct {
	*RootOptions
	Min    float64 // fail the run below this percentage; <0 disables the gate
	DBPath string  // record the run in this SQLite database when set
}

// NewCoverageCommand creates the coverage command.
func NewCoverageCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CoverageOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "coverage <manifest> <snapshot.json>",
		Short: "Compute coverage from a registry snapshot",
		Long: `Diff a registry snapshot (exported by a test run) against the
function catalog and print the coverage report.

The universe always comes from the manifest; the snapshot contributes the
case registrations.

Exit codes:
  0 - Report computed (and coverage >= --min when set)
  1 - Coverage below the --min threshold
  2 - Command error (invalid paths, malformed inputs)

Examples:
  certa coverage ./catalog.yaml ./snapshot.json
  certa coverage ./catalog.yaml ./snapshot.json --min 80
  certa coverage ./catalog.yaml ./snapshot.json --db ./runs.db
  certa coverage ./catalog.cue ./snapshot.json --format json`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCoverage(opts, args[0], args[1], cmd)
		},
	}

	cmd.Flags().Float64Var(&opts.Min, "min", -1, "minimum coverage percentage; below it the command exits 1")
	cmd.Flags().StringVar(&opts.DBPath, "db", "", "record the run in this SQLite database")

	return cmd
}

func runCoverage(opts *CoverageOptions, manifestPath, snapshotPath string, cmd *cobra.Command) error {
	w := cmd.OutOrStdout()

	if _, err := os.Stat(manifestPath); os.IsNotExist(err) {
		return NewExitError(ExitCommandError, fmt.Sprintf("manifest not found: %s", manifestPath))
	}
	if _, err := os.Stat(snapshotPath); os.IsNotExist(err) {
		return NewExitError(ExitCommandError, fmt.Sprintf("snapshot not found: %s", snapshotPath))
	}

	m, err := manifest.Load(manifestPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load manifest", err)
	}

	snap, err := registry.LoadSnapshot(snapshotPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load snapshot", err)
	}

	// The manifest is authoritative for the universe; the snapshot
	// contributes the registrations.
	reg := registry.FromSnapshot(snap)
	reg.SetUniverse(m.Tags())

	report := coverage.Compute(reg)

	if opts.DBPath != "" {
		if err := recordRun(m.Name, report, opts.DBPath); err != nil {
			return WrapExitError(ExitCommandError, "failed to record run", err)
		}
	}

	belowMin := opts.Min >= 0 && report.Percentage < opts.Min

	if opts.Format == "json" {
		resp := CLIResponse{Status: "ok", Data: report}
		if belowMin {
			resp.Status = "error"
			resp.Error = &CLIError{
				Code:    "E_COVERAGE_BELOW_MIN",
				Message: fmt.Sprintf("coverage %.1f%% is below required %.1f%%", report.Percentage, opts.Min),
			}
		}
		if err := writeJSON(w, resp); err != nil {
			return err
		}
	} else {
		if err := report.WriteText(w); err != nil {
			return err
		}
	}

	if belowMin {
		return NewExitError(ExitFailure, fmt.Sprintf("coverage %.1f%% is below required %.1f%%", report.Percentage, opts.Min))
	}
	return nil
}

// recordRun persists the computed report to the run-history database.
func recordRun(manifestName string, report *coverage.Report, dbPath string) error {
	st, err := store.Open(dbPath)
	if err != nil {
		return err
	}
	defer st.Close()

	return st.WriteRun(context.Background(), store.NewRunRecord(manifestName, report))
}
