// Package element implements the insertion-ordered, name-keyed
// multimap used by every mold/config tree node to hold its children.
// It is generic over the stored element type so that the context
// engine (pkg/core/dctx) can instantiate Storage[*dctx.Context]
// without this package importing dctx back.
package element

// Named is implemented by anything a Storage can hold: it must be able
// to report the name under which it was inserted.
type Named interface {
	Name() string
}

// Storage is a stable, insertion-ordered multimap of name to child
// element. Duplicate names are legal and distinguished by a 0-based
// index among same-named siblings (first has index 0). Iteration order
// is insertion order across all entries, regardless of name.
type Storage[T Named] struct {
	entries []T
}

// New returns an empty Storage.
func New[T Named]() *Storage[T] {
	return &Storage[T]{}
}

// Append adds e at the end of the insertion order.
func (s *Storage[T]) Append(e T) {
	s.entries = append(s.entries, e)
}

// Count returns the total number of elements, regardless of name.
func (s *Storage[T]) Count() int {
	return len(s.entries)
}

// CountName returns the number of elements currently sharing the given
// name.
func (s *Storage[T]) CountName(name string) int {
	n := 0
	for _, e := range s.entries {
		if e.Name() == name {
			n++
		}
	}
	return n
}

// FindFirst returns the first element with the given name, and whether
// one was found. It is equivalent to FindIndexed(name, 0).
func (s *Storage[T]) FindFirst(name string) (T, bool) {
	return s.FindIndexed(name, 0)
}

// FindIndexed returns the index-th element (0-based, among same-named
// siblings) with the given name, and whether one was found.
func (s *Storage[T]) FindIndexed(name string, index int) (T, bool) {
	seen := 0
	for _, e := range s.entries {
		if e.Name() != name {
			continue
		}
		if seen == index {
			return e, true
		}
		seen++
	}
	var zero T
	return zero, false
}

// Remove removes the index-th element (0-based among same-named
// siblings) with the given name. It reports whether an element was
// found and removed. Removal preserves the relative insertion order of
// all surviving entries; the index of a surviving same-named sibling
// is recomputed at each call, not stored permanently.
func (s *Storage[T]) Remove(name string, index int) bool {
	seen := 0
	for i, e := range s.entries {
		if e.Name() != name {
			continue
		}
		if seen == index {
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			return true
		}
		seen++
	}
	return false
}

// RemoveElement removes the first occurrence of e by identity (using
// the equal function to compare), regardless of its name or index.
func (s *Storage[T]) RemoveElement(e T, equal func(a, b T) bool) bool {
	for i, c := range s.entries {
		if equal(c, e) {
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			return true
		}
	}
	return false
}

// All returns every element in insertion order. The returned slice
// aliases internal storage and must not be mutated by the caller.
func (s *Storage[T]) All() []T {
	return s.entries
}

// ByName returns every element sharing the given name, in insertion
// order.
func (s *Storage[T]) ByName(name string) []T {
	var out []T
	for _, e := range s.entries {
		if e.Name() == name {
			out = append(out, e)
		}
	}
	return out
}

// IndexOf returns the 0-based index of e among its same-named siblings,
// or -1 if e is not present. Comparison is by identity via equal.
func (s *Storage[T]) IndexOf(e T, equal func(a, b T) bool) int {
	idx := 0
	for _, c := range s.entries {
		if c.Name() != e.Name() {
			continue
		}
		if equal(c, e) {
			return idx
		}
		idx++
	}
	return -1
}
