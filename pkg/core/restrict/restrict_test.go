package restrict_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/veeg-labs/disir-go/pkg/core/model"
	"github.com/veeg-labs/disir-go/pkg/core/restrict"
)

func v(major, minor uint) model.Version { return model.Version{Major: major, Minor: minor} }

func intVal(i int64) model.Value {
	var val model.Value
	val.SetInteger(i)
	return val
}

// TestDefaultListActiveScenarioA exercises Scenario A from the spec:
// a "threads" keyval with defaults 1.0->4 and 2.0->8.
func TestDefaultListActiveScenarioA(t *testing.T) {
	var l restrict.DefaultList
	require.NoError(t, l.Add(restrict.Default{Introduced: v(1, 0), Value: intVal(4)}))
	require.NoError(t, l.Add(restrict.Default{Introduced: v(2, 0), Value: intVal(8)}))

	d, ok := l.Active(v(1, 0))
	require.True(t, ok)
	assert.Equal(t, int64(4), d.Value.GetInteger())

	d, ok = l.Active(v(1, 5))
	require.True(t, ok)
	assert.Equal(t, int64(4), d.Value.GetInteger())

	d, ok = l.Active(v(2, 0))
	require.True(t, ok)
	assert.Equal(t, int64(8), d.Value.GetInteger())
}

func TestDefaultListActiveBeforeEarliest(t *testing.T) {
	var l restrict.DefaultList
	require.NoError(t, l.Add(restrict.Default{Introduced: v(2, 0), Value: intVal(8)}))
	d, ok := l.Active(v(1, 0))
	require.True(t, ok)
	assert.Equal(t, int64(8), d.Value.GetInteger())
}

func TestDefaultListRejectsDuplicateVersion(t *testing.T) {
	var l restrict.DefaultList
	require.NoError(t, l.Add(restrict.Default{Introduced: v(1, 0), Value: intVal(1)}))
	err := l.Add(restrict.Default{Introduced: v(1, 0), Value: intVal(2)})
	require.Error(t, err)
}

// TestDefaultListActiveMonotonic is property 5 from spec.md §8: for
// V1 < V2, active(V1) must not have a greater Introduced version than
// active(V2).
func TestDefaultListActiveMonotonic(t *testing.T) {
	var l restrict.DefaultList
	require.NoError(t, l.Add(restrict.Default{Introduced: v(1, 0), Value: intVal(1)}))
	require.NoError(t, l.Add(restrict.Default{Introduced: v(1, 5), Value: intVal(2)}))
	require.NoError(t, l.Add(restrict.Default{Introduced: v(3, 0), Value: intVal(3)}))

	versions := []model.Version{v(1, 0), v(1, 2), v(1, 5), v(2, 0), v(3, 0), v(4, 0)}
	var lastIntroduced model.Version
	for i, target := range versions {
		d, ok := l.Active(target)
		require.True(t, ok)
		if i > 0 {
			assert.False(t, d.Introduced.Less(lastIntroduced))
		}
		lastIntroduced = d.Introduced
	}
}

func TestRestrictionMaxEntriesScenarioC(t *testing.T) {
	var l restrict.List
	l.Add(restrict.Restriction{Type: restrict.MaximumEntries, Introduced: v(1, 0), Count: 2})
	min, max := l.MinMaxEntries(v(1, 0))
	assert.Equal(t, 0, min)
	require.NotNil(t, max)
	assert.Equal(t, 2, *max)
}

func TestRestrictionMinMaxInactiveDefaults(t *testing.T) {
	var l restrict.List
	min, max := l.MinMaxEntries(v(1, 0))
	assert.Equal(t, 0, min)
	require.NotNil(t, max)
	assert.Equal(t, 1, *max) // optional-single when no MaximumEntries restriction is declared
}

func TestRestrictionDeprecation(t *testing.T) {
	var l restrict.List
	dep := v(2, 0)
	l.Add(restrict.Restriction{
		Type: restrict.MaximumEntries, Introduced: v(1, 0),
		Deprecated: &dep, Count: 1,
	})
	l.Add(restrict.Restriction{Type: restrict.MaximumEntries, Introduced: v(2, 0), Count: 5})

	_, max := l.MinMaxEntries(v(1, 5))
	require.NotNil(t, max)
	assert.Equal(t, 1, *max)

	_, max = l.MinMaxEntries(v(2, 0))
	require.NotNil(t, max)
	assert.Equal(t, 5, *max)
}

// TestRestrictionValueEnumUnion exercises the explicit union semantic
// from spec.md §4.4: duplicates/entries across active VALUE_ENUM
// restrictions accumulate rather than only the latest applying.
func TestRestrictionValueEnumUnion(t *testing.T) {
	var l restrict.List
	l.Add(restrict.Restriction{Type: restrict.ValueEnum, Introduced: v(1, 0), EnumMember: "red"})
	l.Add(restrict.Restriction{Type: restrict.ValueEnum, Introduced: v(2, 0), EnumMember: "blue"})

	assert.ElementsMatch(t, []string{"red"}, l.ActiveEnumMembers(v(1, 0)))
	assert.ElementsMatch(t, []string{"red", "blue"}, l.ActiveEnumMembers(v(2, 0)))
}

func TestVerifyRangeInvertedBoundary(t *testing.T) {
	lo, hi := 10, 5
	err := restrict.VerifyRange(7, &lo, &hi)
	require.Error(t, err)
	assert.True(t, err.InvalidRange)
}

func TestVerifyRangeOutOfBounds(t *testing.T) {
	lo, hi := 0, 10
	err := restrict.VerifyRange(15, &lo, &hi)
	require.Error(t, err)
	assert.False(t, err.LessThanMin)

	err = restrict.VerifyRange(-1, &lo, &hi)
	require.Error(t, err)
	assert.True(t, err.LessThanMin)

	assert.Nil(t, restrict.VerifyRange(5, &lo, &hi))
}
