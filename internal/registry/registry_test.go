package registry

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_RegisterAndLookup(t *testing.T) {
	reg := New()
	id := TestIdentity{Suite: "TestBasicMath", Name: "addition"}
	tag := NewTag("MATH_ADD", "v1.0")

	reg.Register(id, tag)

	e, ok := reg.Lookup(id)
	require.True(t, ok)
	assert.Equal(t, tag, e.Tag)
	assert.Nil(t, e.PreCheck)
	assert.Nil(t, e.PostCheck)
}

func TestRegistry_LookupMissing(t *testing.T) {
	reg := New()

	_, ok := reg.Lookup(TestIdentity{Name: "TestUnknown"})
	assert.False(t, ok)
}

func TestRegistry_ReregisterOverwrites(t *testing.T) {
	reg := New()
	id := TestIdentity{Suite: "TestBasicMath", Name: "addition"}

	reg.Register(id, NewTag("MATH_ADD", "v1.0"))
	reg.Register(id, NewTag("MATH_ADD", "v2.0"))

	e, ok := reg.Lookup(id)
	require.True(t, ok)
	assert.Equal(t, NewTag("MATH_ADD", "v2.0"), e.Tag, "last write wins")
	assert.Equal(t, 1, reg.Len())
}

func TestRegistry_RegisterWithHooks(t *testing.T) {
	reg := New()
	id := TestIdentity{Suite: "TestNetwork", Name: "good_connection"}
	hookErr := errors.New("connection left open")

	reg.RegisterWithHooks(id, NewTag("NETWORK_GOOD", "v2.0"),
		func() error { return nil },
		func() error { return hookErr },
	)

	e, ok := reg.Lookup(id)
	require.True(t, ok)
	require.NotNil(t, e.PreCheck)
	require.NotNil(t, e.PostCheck)
	assert.NoError(t, e.PreCheck())
	assert.ErrorIs(t, e.PostCheck(), hookErr)
}

func TestRegistry_EntriesSorted(t *testing.T) {
	reg := New()
	reg.Register(TestIdentity{Suite: "TestB", Name: "b"}, NewTag("B", "v1"))
	reg.Register(TestIdentity{Suite: "TestA", Name: "a"}, NewTag("A", "v1"))
	reg.Register(TestIdentity{Name: "TestTop"}, NewTag("C", "v1"))

	entries := reg.Entries()
	require.Len(t, entries, 3)
	assert.Equal(t, "TestA.a", entries[0].Identity.String())
	assert.Equal(t, "TestB.b", entries[1].Identity.String())
	assert.Equal(t, "TestTop", entries[2].Identity.String())
}

func TestRegistry_SetUniverseCollapsesDuplicates(t *testing.T) {
	reg := New()
	reg.SetUniverse([]FunctionTag{
		NewTag("A", "v1"),
		NewTag("A", "v1"),
		NewTag("B", "v1"),
	})

	assert.Equal(t, 2, reg.UniverseSize())
	assert.Equal(t, []FunctionTag{NewTag("A", "v1"), NewTag("B", "v1")}, reg.Universe())
}

func TestRegistry_SetUniverseReplaces(t *testing.T) {
	reg := New()
	reg.SetUniverse([]FunctionTag{NewTag("A", "v1")})
	reg.SetUniverse([]FunctionTag{NewTag("B", "v1"), NewTag("C", "v1")})

	assert.Equal(t, []FunctionTag{NewTag("B", "v1"), NewTag("C", "v1")}, reg.Universe())
}

func TestRegistry_ResultStore(t *testing.T) {
	reg := New()

	assert.Equal(t, "", reg.GetResult("unset"), "unset key reads empty")

	reg.SetResult("calculation_result", "84")
	assert.Equal(t, "84", reg.GetResult("calculation_result"))

	// Last write wins, no purging between tests.
	reg.SetResult("calculation_result", "42")
	assert.Equal(t, "42", reg.GetResult("calculation_result"))
}

func TestRegistry_ConcurrentRegistration(t *testing.T) {
	reg := New()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			id := TestIdentity{Suite: "TestConcurrent", Name: fmt.Sprintf("case_%02d", n)}
			reg.Register(id, NewTag(fmt.Sprintf("FUNC_%02d", n), "v1.0"))
			reg.SetResult(fmt.Sprintf("key_%02d", n), "v")
			_, _ = reg.Lookup(id)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 50, reg.Len())
}
