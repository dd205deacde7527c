package element_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/veeg-labs/disir-go/pkg/core/element"
)

type item struct {
	name string
	tag  int
}

func (i item) Name() string { return i.name }

func equalItem(a, b item) bool { return a.tag == b.tag }

func TestStorageInsertionOrder(t *testing.T) {
	s := element.New[item]()
	s.Append(item{"a", 1})
	s.Append(item{"b", 2})
	s.Append(item{"a", 3})

	require.Equal(t, 3, s.Count())
	all := s.All()
	assert.Equal(t, []int{1, 2, 3}, tags(all))
}

func TestStorageFindIndexed(t *testing.T) {
	s := element.New[item]()
	s.Append(item{"worker", 1})
	s.Append(item{"worker", 2})

	first, ok := s.FindFirst("worker")
	require.True(t, ok)
	assert.Equal(t, 1, first.tag)

	second, ok := s.FindIndexed("worker", 1)
	require.True(t, ok)
	assert.Equal(t, 2, second.tag)

	_, ok = s.FindIndexed("worker", 2)
	assert.False(t, ok)
}

func TestStorageCountName(t *testing.T) {
	s := element.New[item]()
	s.Append(item{"x", 1})
	s.Append(item{"y", 2})
	s.Append(item{"x", 3})
	assert.Equal(t, 2, s.CountName("x"))
	assert.Equal(t, 1, s.CountName("y"))
	assert.Equal(t, 0, s.CountName("z"))
}

// TestStorageRemovePreservesRelativeOrder exercises the element storage
// invariant: removing a same-named sibling does not disturb the
// relative ordering (or the 0-based index) of the siblings that remain.
func TestStorageRemovePreservesRelativeOrder(t *testing.T) {
	s := element.New[item]()
	s.Append(item{"w", 1})
	s.Append(item{"w", 2})
	s.Append(item{"w", 3})

	require.True(t, s.Remove("w", 1)) // remove the middle "w" (tag 2)
	assert.Equal(t, []int{1, 3}, tags(s.All()))

	second, ok := s.FindIndexed("w", 1)
	require.True(t, ok)
	assert.Equal(t, 3, second.tag)
}

func TestStorageRemoveElementByIdentity(t *testing.T) {
	s := element.New[item]()
	target := item{"w", 2}
	s.Append(item{"w", 1})
	s.Append(target)
	s.Append(item{"w", 3})

	require.True(t, s.RemoveElement(target, equalItem))
	assert.Equal(t, []int{1, 3}, tags(s.All()))
	assert.False(t, s.RemoveElement(target, equalItem))
}

func TestStorageIndexOf(t *testing.T) {
	s := element.New[item]()
	a := item{"w", 1}
	b := item{"w", 2}
	s.Append(a)
	s.Append(b)

	assert.Equal(t, 0, s.IndexOf(a, equalItem))
	assert.Equal(t, 1, s.IndexOf(b, equalItem))
	assert.Equal(t, -1, s.IndexOf(item{"w", 99}, equalItem))
}

func tags(items []item) []int {
	out := make([]int, len(items))
	for i, it := range items {
		out[i] = it.tag
	}
	return out
}
