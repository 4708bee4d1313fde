package registry

import (
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// FunctionTag identifies one unit of required functionality as an
// (id, version) pair. Tags are immutable values; equality and map hashing
// use both fields.
//
// Both fields are NFC-normalized at construction so that tags assembled from
// different sources (manifest files, string literals, CLI arguments) compare
// equal when they render identically.
type FunctionTag struct {
	ID      string `json:"id"`
	Version string `json:"version"`
}

// NewTag creates a FunctionTag with NFC-normalized fields.
func NewTag(id, version string) FunctionTag {
	return FunctionTag{
		ID:      norm.NFC.String(id),
		Version: norm.NFC.String(version),
	}
}

// String renders the tag in the canonical "id:version" report form.
func (t FunctionTag) String() string {
	return t.ID + ":" + t.Version
}

// ParseTag parses the "id:version" form produced by String.
// The version is everything after the last colon, so ids may contain colons.
func ParseTag(s string) (FunctionTag, error) {
	i := strings.LastIndex(s, ":")
	if i <= 0 || i == len(s)-1 {
		return FunctionTag{}, fmt.Errorf("invalid function tag %q: want id:version", s)
	}
	return NewTag(s[:i], s[i+1:]), nil
}

// TestIdentity identifies one test case as the external runner knows it.
// Suite may be empty for top-level tests.
type TestIdentity struct {
	Suite string `json:"suite"`
	Name  string `json:"name"`
}

// String renders "suite.name", or just the name when the suite is empty,
// matching the key form used in log output.
func (id TestIdentity) String() string {
	if id.Suite == "" {
		return id.Name
	}
	return id.Suite + "." + id.Name
}

// IdentityFromTestName derives a TestIdentity from a testing.T full name.
// A subtest name "TestSuite/case" maps to suite "TestSuite" and name "case"
// (nested subtests keep the remainder as the name); a top-level test name
// maps to an empty suite.
func IdentityFromTestName(full string) TestIdentity {
	if i := strings.Index(full, "/"); i >= 0 {
		return TestIdentity{Suite: full[:i], Name: full[i+1:]}
	}
	return TestIdentity{Name: full}
}
