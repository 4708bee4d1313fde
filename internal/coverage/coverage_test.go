package coverage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/certa-dev/certa/internal/registry"
)

func TestCompute_PartialCoverage(t *testing.T) {
	// Universe {A, B, C}; A and B registered -> uncovered [C], 66.7%.
	reg := registry.New()
	reg.SetUniverse([]registry.FunctionTag{
		registry.NewTag("MATH_ADD", "v1.0"),
		registry.NewTag("MATH_MULTIPLY", "v1.0"),
		registry.NewTag("PERF_QUICK", "v1.0"),
	})
	reg.Register(registry.TestIdentity{Suite: "TestBasicMath", Name: "addition"}, registry.NewTag("MATH_ADD", "v1.0"))
	reg.Register(registry.TestIdentity{Suite: "TestBasicMath", Name: "multiplication"}, registry.NewTag("MATH_MULTIPLY", "v1.0"))

	r := Compute(reg)

	assert.Equal(t, 3, r.TotalFunctions)
	assert.Equal(t, 2, r.RegisteredCases)
	assert.Equal(t, 2, r.CoveredCount)
	assert.Equal(t, []registry.FunctionTag{registry.NewTag("PERF_QUICK", "v1.0")}, r.Uncovered)
	assert.InDelta(t, 66.6667, r.Percentage, 0.001)
}

func TestCompute_DuplicateTagCountsOnce(t *testing.T) {
	// Same tag under identities X and Y: duplicates[tag] == 2 and the
	// percentage matches registering it once.
	tag := registry.NewTag("MATH_ADD", "v1.0")

	once := registry.New()
	once.SetUniverse([]registry.FunctionTag{tag})
	once.Register(registry.TestIdentity{Suite: "TestX", Name: "x"}, tag)

	twice := registry.New()
	twice.SetUniverse([]registry.FunctionTag{tag})
	twice.Register(registry.TestIdentity{Suite: "TestX", Name: "x"}, tag)
	twice.Register(registry.TestIdentity{Suite: "TestY", Name: "y"}, tag)

	rOnce := Compute(once)
	rTwice := Compute(twice)

	assert.Equal(t, rOnce.Percentage, rTwice.Percentage)
	assert.Equal(t, 1, rTwice.CoveredCount)

	dups := rTwice.Duplicates()
	require.Len(t, dups, 1)
	assert.Equal(t, 2, dups[tag])
	assert.Empty(t, rOnce.Duplicates())
}

func TestCompute_EmptyUniverse(t *testing.T) {
	// Registry entries without a universe: 0.0%, empty uncovered, no
	// division by zero.
	reg := registry.New()
	reg.Register(registry.TestIdentity{Suite: "TestA", Name: "a"}, registry.NewTag("A", "v1"))
	reg.Register(registry.TestIdentity{Suite: "TestB", Name: "b"}, registry.NewTag("B", "v1"))
	reg.Register(registry.TestIdentity{Suite: "TestC", Name: "c"}, registry.NewTag("C", "v1"))

	r := Compute(reg)

	assert.Equal(t, 0, r.TotalFunctions)
	assert.Equal(t, 3, r.RegisteredCases)
	assert.Zero(t, r.Percentage)
	assert.Empty(t, r.Uncovered)
}

func TestCompute_ExtraneousTagIgnoredByPercentage(t *testing.T) {
	reg := registry.New()
	reg.SetUniverse([]registry.FunctionTag{registry.NewTag("MATH_ADD", "v1.0")})
	reg.Register(registry.TestIdentity{Suite: "TestA", Name: "a"}, registry.NewTag("MATH_ADD", "v1.0"))
	reg.Register(registry.TestIdentity{Suite: "TestB", Name: "b"}, registry.NewTag("LEGACY_OP", "v0.9"))

	r := Compute(reg)

	assert.Equal(t, 100.0, r.Percentage, "extraneous tag must not dilute coverage")
	assert.Equal(t, []registry.FunctionTag{registry.NewTag("LEGACY_OP", "v0.9")}, r.Extraneous)
	assert.Empty(t, r.Uncovered)
}

func TestCompute_UncoveredOrderStable(t *testing.T) {
	reg := registry.New()
	reg.SetUniverse([]registry.FunctionTag{
		registry.NewTag("Z_OP", "v1"),
		registry.NewTag("A_OP", "v2"),
		registry.NewTag("A_OP", "v1"),
	})

	r := Compute(reg)

	require.Len(t, r.Uncovered, 3)
	assert.Equal(t, "A_OP:v1", r.Uncovered[0].String())
	assert.Equal(t, "A_OP:v2", r.Uncovered[1].String())
	assert.Equal(t, "Z_OP:v1", r.Uncovered[2].String())
}

func TestPercentage(t *testing.T) {
	reg := registry.New()
	reg.SetUniverse([]registry.FunctionTag{
		registry.NewTag("A", "v1"),
		registry.NewTag("B", "v1"),
	})
	reg.Register(registry.TestIdentity{Suite: "TestA", Name: "a"}, registry.NewTag("A", "v1"))

	assert.Equal(t, 50.0, Percentage(reg))
}
