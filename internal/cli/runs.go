package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/certa-dev/certa/internal/store"
)

// RunsOptions holds flags for the runs command.
type RunsOptions struct {
	*RootOptions
	Limit int
}

// NewRunsCommand creates the runs command.
func NewRunsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "runs <db>",
		Short: "List recorded conformance runs",
		Long: `List runs recorded by 'certa coverage --db', newest first.

Exit codes:
  0 - Runs listed (possibly none)
  2 - Command error (database not found)

Examples:
  certa runs ./runs.db
  certa runs ./runs.db --limit 5
  certa runs ./runs.db --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRuns(opts, args[0], cmd)
		},
	}

	cmd.Flags().IntVar(&opts.Limit, "limit", 10, "maximum number of runs to list (0 = all)")

	return cmd
}

func runRuns(opts *RunsOptions, dbPath string, cmd *cobra.Command) error {
	w := cmd.OutOrStdout()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		return NewExitError(ExitCommandError, fmt.Sprintf("database not found: %s", dbPath))
	}

	st, err := store.Open(dbPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	runs, err := st.ReadRuns(context.Background(), opts.Limit)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read runs", err)
	}

	if opts.Format == "json" {
		return writeJSON(w, CLIResponse{Status: "ok", Data: runs})
	}

	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs recorded.")
		return nil
	}

	for _, run := range runs {
		fmt.Fprintf(w, "%s  %s  %s  coverage %.1f%% (%d/%d functions, %d cases)\n",
			run.CreatedAt.Format(time.RFC3339),
			run.ID,
			run.ManifestName,
			run.Percentage,
			run.CoveredCount,
			run.TotalFunctions,
			run.RegisteredCases,
		)
		if opts.Verbose {
			for _, tag := range run.Uncovered {
				fmt.Fprintf(w, "  uncovered: %s\n", tag)
			}
		}
	}
	return nil
}
