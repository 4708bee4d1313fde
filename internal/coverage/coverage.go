// Package coverage diffs the case registry against the function universe and
// produces the coverage report: covered/uncovered sets, per-tag registration
// counts, and a percentage.
package coverage

import (
	"sort"

	"github.com/certa-dev/certa/internal/registry"
)

// TagCount pairs a registered tag with the number of identities registered
// against it. Count > 1 marks duplicate coverage.
type TagCount struct {
	Tag   registry.FunctionTag `json:"tag"`
	Count int                  `json:"count"`
}

// Report is the computed coverage view. It is derived on demand from the
// registry and universe and is not persisted by this package (the store
// package records runs separately).
type Report struct {
	// TotalFunctions is the universe size.
	TotalFunctions int `json:"total_functions"`

	// RegisteredCases is the number of case registrations (identities).
	RegisteredCases int `json:"registered_cases"`

	// CoveredCount is |universe ∩ registered tags|.
	CoveredCount int `json:"covered_count"`

	// Percentage is 100 * CoveredCount / TotalFunctions, 0 when the
	// universe is empty.
	Percentage float64 `json:"percentage"`

	// Uncovered lists universe tags with no registration, sorted by
	// id:version for stable output.
	Uncovered []registry.FunctionTag `json:"uncovered"`

	// Registered lists every distinct registered tag with its registration
	// count, sorted by id:version. Tags with Count > 1 are rendered with a
	// duplicate warning.
	Registered []TagCount `json:"registered"`

	// Extraneous lists tags that were registered but are absent from the
	// universe. They are a diagnostic only: never an error, never counted
	// toward the percentage.
	Extraneous []registry.FunctionTag `json:"extraneous,omitempty"`
}

// Compute builds a Report from the registry's current state.
//
// A tag registered by two identities counts once toward coverage but is
// flagged as a duplicate. Coverage computed before all registrations have
// occurred will undercount; callers are expected to compute after the run.
func Compute(reg *registry.Registry) *Report {
	universe := reg.Universe()
	entries := reg.Entries()

	counts := make(map[registry.FunctionTag]int, len(entries))
	for _, e := range entries {
		counts[e.Tag]++
	}

	inUniverse := make(map[registry.FunctionTag]struct{}, len(universe))
	for _, t := range universe {
		inUniverse[t] = struct{}{}
	}

	r := &Report{
		TotalFunctions:  len(universe),
		RegisteredCases: len(entries),
	}

	for _, t := range universe {
		if counts[t] > 0 {
			r.CoveredCount++
		} else {
			r.Uncovered = append(r.Uncovered, t)
		}
	}

	// entries is sorted by identity; re-walk tags in sorted tag order.
	for _, t := range sortedTags(counts) {
		r.Registered = append(r.Registered, TagCount{Tag: t, Count: counts[t]})
		if _, ok := inUniverse[t]; !ok {
			r.Extraneous = append(r.Extraneous, t)
		}
	}

	if r.TotalFunctions > 0 {
		r.Percentage = 100 * float64(r.CoveredCount) / float64(r.TotalFunctions)
	}

	return r
}

// Percentage is a convenience for drivers that only gate on the number,
// e.g. failing the run when coverage drops below a threshold.
func Percentage(reg *registry.Registry) float64 {
	return Compute(reg).Percentage
}

// Duplicates returns the registration count for every tag registered more
// than once.
func (r *Report) Duplicates() map[registry.FunctionTag]int {
	dups := make(map[registry.FunctionTag]int)
	for _, tc := range r.Registered {
		if tc.Count > 1 {
			dups[tc.Tag] = tc.Count
		}
	}
	return dups
}

func sortedTags(counts map[registry.FunctionTag]int) []registry.FunctionTag {
	tags := make([]registry.FunctionTag, 0, len(counts))
	for t := range counts {
		tags = append(tags, t)
	}
	// Same ordering as registry.Universe: id first, then version.
	sort.Slice(tags, func(i, j int) bool {
		if tags[i].ID != tags[j].ID {
			return tags[i].ID < tags[j].ID
		}
		return tags[i].Version < tags[j].Version
	})
	return tags
}
