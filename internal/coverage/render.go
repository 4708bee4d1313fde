package coverage

import (
	"fmt"
	"io"
)

// WriteText renders the report in the human-readable form the driver prints
// after all tests finish. The trailing percentage line always carries one
// decimal place.
func (r *Report) WriteText(w io.Writer) error {
	var err error
	p := func(format string, args ...any) {
		if err != nil {
			return
		}
		_, err = fmt.Fprintf(w, format, args...)
	}

	p("=== Conformance Coverage Report ===\n")
	p("Total functions defined: %d\n", r.TotalFunctions)
	p("Test cases registered: %d\n", r.RegisteredCases)

	if len(r.Uncovered) == 0 {
		p("\n✓ All functions are covered!\n")
	} else {
		p("\n✗ Uncovered functions (%d):\n", len(r.Uncovered))
		for _, t := range r.Uncovered {
			p("  - %s\n", t)
		}
	}

	if len(r.Registered) > 0 {
		p("\nRegistered functions:\n")
		for _, tc := range r.Registered {
			if tc.Count > 1 {
				p("  - %s (WARNING: registered %d times)\n", tc.Tag, tc.Count)
			} else {
				p("  - %s\n", tc.Tag)
			}
		}
	}

	if len(r.Extraneous) > 0 {
		p("\nExtraneous functions (not in universe):\n")
		for _, t := range r.Extraneous {
			p("  - %s\n", t)
		}
	}

	p("\nCoverage: %.1f%%\n", r.Percentage)
	p("===================================\n")
	return err
}
