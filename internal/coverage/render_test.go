package coverage

import (
	"bytes"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/certa-dev/certa/internal/registry"
)

func renderReport(t *testing.T, r *Report) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, r.WriteText(&buf))
	return buf.Bytes()
}

func TestWriteText_PartialCoverageGolden(t *testing.T) {
	reg := registry.New()
	reg.SetUniverse([]registry.FunctionTag{
		registry.NewTag("MATH_ADD", "v1.0"),
		registry.NewTag("MATH_MULTIPLY", "v1.0"),
		registry.NewTag("PERF_QUICK", "v1.0"),
	})
	reg.Register(registry.TestIdentity{Suite: "TestBasicMath", Name: "addition"}, registry.NewTag("MATH_ADD", "v1.0"))
	reg.Register(registry.TestIdentity{Suite: "TestRegression", Name: "addition_again"}, registry.NewTag("MATH_ADD", "v1.0"))
	reg.Register(registry.TestIdentity{Suite: "TestBasicMath", Name: "multiplication"}, registry.NewTag("MATH_MULTIPLY", "v1.0"))
	reg.Register(registry.TestIdentity{Suite: "TestLegacy", Name: "old_op"}, registry.NewTag("LEGACY_OP", "v0.9"))

	out := renderReport(t, Compute(reg))

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "report_partial", out)
}

func TestWriteText_FullCoverageGolden(t *testing.T) {
	reg := registry.New()
	reg.SetUniverse([]registry.FunctionTag{
		registry.NewTag("MATH_ADD", "v1.0"),
		registry.NewTag("MATH_MULTIPLY", "v1.0"),
	})
	reg.Register(registry.TestIdentity{Suite: "TestBasicMath", Name: "addition"}, registry.NewTag("MATH_ADD", "v1.0"))
	reg.Register(registry.TestIdentity{Suite: "TestBasicMath", Name: "multiplication"}, registry.NewTag("MATH_MULTIPLY", "v1.0"))

	out := renderReport(t, Compute(reg))

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "report_full", out)
}

func TestWriteText_DuplicateWarningLine(t *testing.T) {
	tag := registry.NewTag("MATH_ADD", "v1.0")
	reg := registry.New()
	reg.SetUniverse([]registry.FunctionTag{tag})
	reg.Register(registry.TestIdentity{Suite: "TestX", Name: "x"}, tag)
	reg.Register(registry.TestIdentity{Suite: "TestY", Name: "y"}, tag)

	out := string(renderReport(t, Compute(reg)))

	assert.Contains(t, out, "MATH_ADD:v1.0 (WARNING: registered 2 times)")
	assert.Contains(t, out, "Coverage: 100.0%")
}

func TestWriteText_OneDecimalPercentage(t *testing.T) {
	reg := registry.New()
	reg.SetUniverse([]registry.FunctionTag{
		registry.NewTag("A", "v1"),
		registry.NewTag("B", "v1"),
		registry.NewTag("C", "v1"),
	})
	reg.Register(registry.TestIdentity{Suite: "TestA", Name: "a"}, registry.NewTag("A", "v1"))
	reg.Register(registry.TestIdentity{Suite: "TestB", Name: "b"}, registry.NewTag("B", "v1"))

	out := string(renderReport(t, Compute(reg)))

	assert.Contains(t, out, "Coverage: 66.7%")
	assert.Contains(t, out, "Uncovered functions (1):")
	assert.True(t, strings.Contains(out, "  - C:v1\n"))
}

func TestWriteText_EmptyUniverse(t *testing.T) {
	reg := registry.New()
	reg.Register(registry.TestIdentity{Suite: "TestA", Name: "a"}, registry.NewTag("A", "v1"))

	out := string(renderReport(t, Compute(reg)))

	assert.Contains(t, out, "Total functions defined: 0")
	assert.Contains(t, out, "Coverage: 0.0%")
	assert.Contains(t, out, "✓ All functions are covered!")
}
