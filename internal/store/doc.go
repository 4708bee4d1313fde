// Package store persists conformance run history to SQLite.
//
// Each recorded run captures the coverage report computed at the end of a
// test run: counts, percentage, and the uncovered tags. The CLI uses the
// history to show coverage trends across runs; the live report itself is
// always recomputed from the registry, never read back from here.
package store
