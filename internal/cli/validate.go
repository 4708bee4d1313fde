package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/certa-dev/certa/internal/manifest"
)

// ValidateOptions holds flags for the validate command.
type ValidateOptions struct {
	*RootOptions
}

// ValidateResult is the payload reported after validating a manifest.
type ValidateResult struct {
	Name          string `json:"name"`
	Description   string `json:"description,omitempty"`
	FunctionCount int    `json:"function_count"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ValidateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "validate <manifest>",
		Short: "Validate a function catalog",
		Long: `Parse and validate a function catalog (YAML or CUE).

Exit codes:
  0 - Manifest is valid
  1 - Manifest is malformed or fails validation
  2 - Command error (file not found, unsupported format)

Examples:
  certa validate ./catalog.yaml
  certa validate ./catalog.cue --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(opts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *ValidateOptions, path string, cmd *cobra.Command) error {
	w := cmd.OutOrStdout()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return NewExitError(ExitCommandError, fmt.Sprintf("manifest not found: %s", path))
	}

	m, err := manifest.Load(path)
	if err != nil {
		if opts.Format == "json" {
			_ = writeJSON(w, CLIResponse{
				Status: "error",
				Error:  &CLIError{Code: "E_INVALID_MANIFEST", Message: err.Error()},
			})
		}
		return WrapExitError(ExitFailure, "manifest validation failed", err)
	}

	result := ValidateResult{
		Name:          m.Name,
		Description:   m.Description,
		FunctionCount: len(m.Functions),
	}

	if opts.Format == "json" {
		return writeJSON(w, CLIResponse{Status: "ok", Data: result})
	}

	fmt.Fprintf(w, "✓ %s: %d function(s)\n", result.Name, result.FunctionCount)
	if opts.Verbose {
		for _, f := range m.Functions {
			fmt.Fprintf(w, "  - %s:%s\n", f.ID, f.Version)
		}
	}
	return nil
}
