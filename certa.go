// Package certa layers conformance coverage tracking over Go's testing
// package. Test cases self-register against a versioned required-function
// tag; after the run, the registry is diffed against the authoritative
// function universe to report gaps, duplicate coverage, and a percentage.
//
// Typical use: each test file declares its cases from init, the driver sets
// the universe in TestMain, and every test binds its lifecycle hooks first
// thing in the body:
//
//	func init() {
//	    certa.DeclareCase("TestBasicMath", "addition", "MATH_ADD", "v1.0")
//	}
//
//	func TestMain(m *testing.M) {
//	    certa.SetUniverse([]certa.Tag{{ID: "MATH_ADD", Version: "v1.0"}})
//	    code := m.Run()
//	    certa.WriteReport(os.Stdout)
//	    os.Exit(code)
//	}
//
//	func TestBasicMath(t *testing.T) {
//	    t.Run("addition", func(t *testing.T) {
//	        certa.Hooks(t)
//	        // ...
//	    })
//	}
//
// This package front-ends a single process-wide registry so cases can
// register from any file without plumbing. The underlying pieces
// (registry, dispatcher, execution harness, coverage engine) are explicit
// objects in the internal packages.
package certa

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/certa-dev/certa/internal/coverage"
	"github.com/certa-dev/certa/internal/harness"
	"github.com/certa-dev/certa/internal/registry"
)

// Tag identifies one unit of required functionality.
type Tag struct {
	ID      string
	Version string
}

var (
	defaultRegistry   = registry.New()
	defaultHarness    = harness.New(slog.Default())
	defaultDispatcher = harness.NewDispatcher(defaultRegistry, slog.Default())
)

// Reset discards all registrations, the universe, and stored results.
// Intended for tests of the harness itself; do not call mid-run.
func Reset() {
	defaultRegistry = registry.New()
	defaultDispatcher = harness.NewDispatcher(defaultRegistry, slog.Default())
}

// DeclareCase registers a test case against a required function. Call from
// init (or TestMain) so every registration exists before any test runs.
// Re-declaring the same (suite, name) overwrites the previous declaration.
func DeclareCase(suite, name, functionID, functionVersion string) {
	defaultRegistry.Register(
		registry.TestIdentity{Suite: suite, Name: name},
		registry.NewTag(functionID, functionVersion),
	)
}

// DeclareCaseWithHooks is DeclareCase plus optional pre/post-check hooks.
// The pre-check runs at the start of the test (environment validation); the
// post-check runs at teardown, unconditionally, typically to verify a value
// the body handed over via SetResult. Either hook may be nil.
func DeclareCaseWithHooks(suite, name, functionID, functionVersion string, pre, post func() error) {
	defaultRegistry.RegisterWithHooks(
		registry.TestIdentity{Suite: suite, Name: name},
		registry.NewTag(functionID, functionVersion),
		registry.Hook(pre),
		registry.Hook(post),
	)
}

// DeclareCaseWithTimeout is DeclareCase plus a wall-clock budget enforced by
// Guard. The deadline is best-effort: a body that exceeds it is reported as
// failed but keeps running on its abandoned goroutine (see Guard).
func DeclareCaseWithTimeout(suite, name, functionID, functionVersion string, timeout time.Duration) {
	defaultRegistry.RegisterEntry(registry.Entry{
		Identity: registry.TestIdentity{Suite: suite, Name: name},
		Tag:      registry.NewTag(functionID, functionVersion),
		Timeout:  timeout,
	})
}

// SetUniverse replaces the authoritative set of functions the suite must
// cover. Call once, before the run starts. Duplicate tags collapse.
func SetUniverse(tags []Tag) {
	converted := make([]registry.FunctionTag, 0, len(tags))
	for _, t := range tags {
		converted = append(converted, registry.NewTag(t.ID, t.Version))
	}
	defaultRegistry.SetUniverse(converted)
}

// SetResult stores a value for the current test's post-check. The store is
// process-wide and never purged between tests: use distinct keys or accept
// stale reads.
func SetResult(key, value string) {
	defaultRegistry.SetResult(key, value)
}

// GetResult returns the value stored under key, or "" if unset.
func GetResult(key string) string {
	return defaultRegistry.GetResult(key)
}

// Hooks binds the declared lifecycle hooks to t: the pre-check runs
// immediately, the post-check is scheduled via t.Cleanup so it runs exactly
// once regardless of whether the body or pre-check failed. Hook failures
// are recorded with t.Errorf and never abort the run. Call first thing in
// the test body.
func Hooks(t testing.TB) {
	identity := registry.IdentityFromTestName(t.Name())

	t.Cleanup(func() {
		if err := defaultDispatcher.RunPostCheck(identity); err != nil {
			t.Errorf("%v", err)
		}
	})

	if err := defaultDispatcher.RunPreCheck(identity); err != nil {
		t.Errorf("%v", err)
	}
}

// Guard runs body under the timeout declared for the current test. With no
// declared timeout the body runs inline. A body error, panic, or deadline
// overrun is recorded with t.Errorf; the run continues with subsequent
// tests.
//
// On timeout the worker goroutine is abandoned, not stopped: it keeps
// consuming resources for as long as the body actually runs, and its side
// effects must be treated as unknown. True preemption requires process
// isolation, which this harness does not provide.
func Guard(t testing.TB, body func() error) {
	identity := registry.IdentityFromTestName(t.Name())

	entry, ok := defaultRegistry.Lookup(identity)
	if !ok || entry.Timeout <= 0 {
		if err := body(); err != nil {
			t.Errorf("test body failed: %v", err)
		}
		return
	}

	outcome, err := defaultHarness.Execute(body, entry.Timeout)
	switch outcome {
	case harness.OutcomeFailed:
		t.Errorf("test body failed: %v", err)
	case harness.OutcomeTimedOut:
		t.Errorf("test failed or timed out after %d ms", entry.Timeout.Milliseconds())
	}
}

// WriteReport computes the coverage report from the current registry state
// and renders it to w. Compute it only after all tests have finished;
// earlier reports undercount.
func WriteReport(w io.Writer) error {
	return coverage.Compute(defaultRegistry).WriteText(w)
}

// GetCoveragePercentage returns the current coverage percentage, usable by
// a driver to enforce a threshold (e.g., fail the run below 80%).
func GetCoveragePercentage() float64 {
	return coverage.Percentage(defaultRegistry)
}

// SaveSnapshot exports the universe and registrations as JSON for the certa
// CLI (`certa coverage <manifest> <snapshot>`).
func SaveSnapshot(path string) error {
	return defaultRegistry.Snapshot().Save(path)
}
