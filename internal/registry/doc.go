// Package registry holds the shared state of a conformance run: the case
// registry mapping test identities to required-function tags and optional
// pre/post-check hooks, the function universe that must be covered, and the
// keyed result store used to hand values from a test body to its post-check.
//
// # Registration Model
//
// Each conformance test self-registers exactly once before the run starts,
// typically from an init function or TestMain:
//
//	func init() {
//	    reg.Register(
//	        registry.TestIdentity{Suite: "TestBasicMath", Name: "addition"},
//	        registry.NewTag("MATH_ADD", "v1.0"),
//	    )
//	}
//
// Re-registering the same identity silently overwrites the previous entry
// (map semantics, last write wins). Registering the same tag under two
// distinct identities is legal; the coverage engine counts the tag once and
// flags it as a duplicate.
//
// # Locking
//
// One coarse mutex guards the case map, the universe, and the result store.
// It is held only for the duration of a single map operation, never across a
// blocking wait, so a slow or timed-out test cannot stall unrelated
// registrations or result reads. No atomicity is provided across two separate
// calls.
package registry
