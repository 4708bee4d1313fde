package harness

import (
	"fmt"
	"io"
	"log/slog"
	"time"
)

// Outcome is the terminal state of one guarded invocation.
type Outcome int

const (
	// OutcomePassed means the body completed before the deadline without
	// an error or panic.
	OutcomePassed Outcome = iota

	// OutcomeFailed means the body completed before the deadline but
	// returned an error or panicked.
	OutcomeFailed

	// OutcomeTimedOut means the deadline elapsed first. The worker was
	// abandoned and may still be running.
	OutcomeTimedOut
)

// String implements fmt.Stringer for log output.
func (o Outcome) String() string {
	switch o {
	case OutcomePassed:
		return "passed"
	case OutcomeFailed:
		return "failed"
	case OutcomeTimedOut:
		return "timed_out"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Harness runs test bodies under a wall-clock deadline.
type Harness struct {
	logger *slog.Logger
}

// New creates a Harness. A nil logger suppresses log output.
func New(logger *slog.Logger) *Harness {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Harness{logger: logger}
}

// Execute runs body on its own goroutine and waits for it to finish, for at
// most timeout. It returns the terminal outcome plus the captured body error
// (non-nil only for OutcomeFailed).
//
// A panic inside the body is recovered on the worker goroutine, converted to
// an error, and never re-raised across the harness boundary. On timeout the
// worker is abandoned, not joined: see the package documentation for the
// resource-leak trade-off. The harness never retries.
func (h *Harness) Execute(body func() error, timeout time.Duration) (Outcome, error) {
	done := make(chan error, 1) // buffered so an abandoned worker can still send and exit

	go func() {
		done <- runGuarded(body)
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case err := <-done:
		if err != nil {
			h.logger.Error("test body failed", "error", err)
			return OutcomeFailed, err
		}
		return OutcomePassed, nil
	case <-timer.C:
		h.logger.Error(
			fmt.Sprintf("test timed out after %d ms (worker abandoned)", timeout.Milliseconds()),
			"timeout_ms", timeout.Milliseconds(),
		)
		return OutcomeTimedOut, nil
	}
}

// ExecuteWithDeadline is the boolean form of Execute: true only for
// OutcomePassed.
func (h *Harness) ExecuteWithDeadline(body func() error, timeout time.Duration) bool {
	out, _ := h.Execute(body, timeout)
	return out == OutcomePassed
}

// runGuarded invokes body and converts any panic into an error so nothing
// escapes the worker goroutine unhandled.
func runGuarded(body func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			switch v := r.(type) {
			case error:
				err = fmt.Errorf("test body panicked: %w", v)
			default:
				err = fmt.Errorf("test body panicked: %v", v)
			}
		}
	}()
	return body()
}
