// Package testutil provides shared helpers for tests.
package testutil

import (
	"bytes"
	"log/slog"
	"strings"
	"sync"
)

// LogCapture collects slog output so tests can assert on emitted messages,
// e.g. the timeout message logged when a guarded body exceeds its deadline.
//
// Thread-safety: the underlying buffer is guarded by a mutex because the
// execution harness logs from abandoned worker goroutines.
type LogCapture struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

// NewCaptureLogger returns a text-format slog.Logger whose output can be
// inspected through the returned LogCapture.
func NewCaptureLogger() (*slog.Logger, *LogCapture) {
	c := &LogCapture{}
	handler := slog.NewTextHandler(&lockedWriter{c: c}, nil)
	return slog.New(handler), c
}

// String returns everything logged so far.
func (c *LogCapture) String() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.buf.String()
}

// Contains reports whether the captured output contains substr.
func (c *LogCapture) Contains(substr string) bool {
	return strings.Contains(c.String(), substr)
}

type lockedWriter struct {
	c *LogCapture
}

func (w *lockedWriter) Write(p []byte) (int, error) {
	w.c.mu.Lock()
	defer w.c.mu.Unlock()
	return w.c.buf.Write(p)
}
