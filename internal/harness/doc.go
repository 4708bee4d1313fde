// Package harness executes conformance test bodies and their registered
// checks.
//
// Two pieces live here:
//
//   - Dispatcher resolves the currently executing test identity to its
//     registered pre/post-check hooks and invokes them. A hook error or
//     panic is captured and reported as a check failure on the current
//     test; it never aborts the run.
//
//   - Harness bounds a test body's wall-clock duration. The body runs on
//     its own goroutine; the caller waits on a completion channel for at
//     most the configured timeout.
//
// # Timeout Semantics
//
// Cancellation is best-effort only. Go offers no way to forcibly stop a
// goroutine, so when the deadline elapses the harness stops waiting,
// reports failure, and abandons the worker. An abandoned body keeps
// consuming its goroutine's resources for however long it actually runs,
// and its side effects must be treated as unknown and possibly ongoing.
// Callers needing true preemption must isolate the body in a separate
// process and kill it on deadline.
package harness
