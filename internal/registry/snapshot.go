package registry

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
)

// Snapshot is the JSON export of a registry: the universe plus every case
// registration. A test driver writes one at the end of a run so the CLI can
// recompute coverage offline. Hooks and timeouts are execution-time concerns
// and are not exported.
type Snapshot struct {
	Universe []FunctionTag `json:"universe"`
	Cases    []CaseRecord  `json:"cases"`
}

// CaseRecord is one registration in a snapshot.
type CaseRecord struct {
	Suite           string `json:"suite,omitempty"`
	Name            string `json:"name"`
	FunctionID      string `json:"function_id"`
	FunctionVersion string `json:"function_version"`
}

// Snapshot exports the registry's universe and registrations, both in
// deterministic (sorted) order.
func (r *Registry) Snapshot() *Snapshot {
	s := &Snapshot{Universe: r.Universe()}
	for _, e := range r.Entries() {
		s.Cases = append(s.Cases, CaseRecord{
			Suite:           e.Identity.Suite,
			Name:            e.Identity.Name,
			FunctionID:      e.Tag.ID,
			FunctionVersion: e.Tag.Version,
		})
	}
	return s
}

// FromSnapshot rebuilds a registry from a snapshot. Hooks are absent by
// construction; the result is suitable for coverage computation only.
func FromSnapshot(s *Snapshot) *Registry {
	r := New()
	r.SetUniverse(s.Universe)
	for _, c := range s.Cases {
		r.Register(
			TestIdentity{Suite: c.Suite, Name: c.Name},
			NewTag(c.FunctionID, c.FunctionVersion),
		)
	}
	return r
}

// Save writes the snapshot as indented JSON.
func (s *Snapshot) Save(path string) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write snapshot file: %w", err)
	}
	return nil
}

// LoadSnapshot reads a snapshot written by Save. Unknown fields are
// rejected so a mistyped export surfaces as an error rather than an
// undercounted report.
func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot file: %w", err)
	}
	var s Snapshot
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("failed to parse snapshot: %w", err)
	}
	return &s, nil
}
