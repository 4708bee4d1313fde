package registry

import (
	"sort"
	"sync"
	"time"
)

// Hook is a pre-check or post-check callable bound to a test identity.
// A nil Hook means "no check registered".
type Hook func() error

// Entry is one case registration: the identity, its required-function tag,
// optional pre/post-check hooks, and an optional wall-clock budget for the
// test body (zero means unguarded).
type Entry struct {
	Identity  TestIdentity
	Tag       FunctionTag
	PreCheck  Hook
	PostCheck Hook
	Timeout   time.Duration // 0 = no deadline
}

// Registry is the single source of truth for what was actually tested.
// It owns three pieces of process-scoped state behind one mutex: the case
// map, the function universe, and the result store. See the package
// documentation for the locking discipline.
//
// The zero value is not usable; call New.
type Registry struct {
	mu       sync.Mutex
	entries  map[TestIdentity]Entry
	universe map[FunctionTag]struct{}
	results  map[string]string
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{
		entries:  make(map[TestIdentity]Entry),
		universe: make(map[FunctionTag]struct{}),
		results:  make(map[string]string),
	}
}

// Register inserts or overwrites the entry for identity with the given tag
// and no hooks. Overwrite is silent and intentional: the last registration
// for a given identity wins. Register has no failure mode.
func (r *Registry) Register(identity TestIdentity, tag FunctionTag) {
	r.RegisterEntry(Entry{Identity: identity, Tag: tag})
}

// RegisterWithHooks is Register plus optional pre/post-check hooks.
// Either hook may be nil.
func (r *Registry) RegisterWithHooks(identity TestIdentity, tag FunctionTag, pre, post Hook) {
	r.RegisterEntry(Entry{Identity: identity, Tag: tag, PreCheck: pre, PostCheck: post})
}

// RegisterEntry inserts or overwrites the full entry for e.Identity.
func (r *Registry) RegisterEntry(e Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[e.Identity] = e
}

// Lookup returns the entry registered for identity, or ok=false if none.
func (r *Registry) Lookup(identity TestIdentity) (Entry, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[identity]
	return e, ok
}

// Entries returns a snapshot of all registrations, sorted by identity for
// deterministic enumeration.
func (r *Registry) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Entry, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Identity.String() < out[j].Identity.String()
	})
	return out
}

// Len returns the number of registered cases.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// SetUniverse atomically replaces the function universe. Duplicate tags
// collapse (set semantics). Calling it mid-run is legal; coverage computed
// afterward reflects the new universe — no snapshot isolation is provided.
func (r *Registry) SetUniverse(tags []FunctionTag) {
	u := make(map[FunctionTag]struct{}, len(tags))
	for _, t := range tags {
		u[t] = struct{}{}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.universe = u
}

// Universe returns the universe as a sorted slice.
func (r *Registry) Universe() []FunctionTag {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]FunctionTag, 0, len(r.universe))
	for t := range r.universe {
		out = append(out, t)
	}
	sortTags(out)
	return out
}

// UniverseSize returns the number of tags in the universe.
func (r *Registry) UniverseSize() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.universe)
}

// SetResult stores a value under key in the result store. Last write wins.
// Results are never purged between tests; callers use distinct keys or
// accept stale reads.
func (r *Registry) SetResult(key, value string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.results[key] = value
}

// GetResult returns the value stored under key, or "" if the key is unset.
func (r *Registry) GetResult(key string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.results[key]
}

func sortTags(tags []FunctionTag) {
	sort.Slice(tags, func(i, j int) bool {
		if tags[i].ID != tags[j].ID {
			return tags[i].ID < tags[j].ID
		}
		return tags[i].Version < tags[j].Version
	})
}
