package restrict

import (
	"fmt"

	"github.com/veeg-labs/disir-go/pkg/core/model"
	"github.com/veeg-labs/disir-go/pkg/core/status"
)

// Default is one version-tagged value a mold keyval resolves to in the
// absence of an explicit config assignment.
type Default struct {
	Introduced model.Version
	Value      model.Value
}

// DefaultList holds a keyval's DEFAULT children, kept sorted by
// Introduced version ascending. Duplicate Introduced versions are
// rejected.
type DefaultList struct {
	items []Default
}

// Add inserts d into the list in Introduced-ascending order. It returns
// a *status.Error with status.ConflictingSemver if another default
// already occupies the same Introduced version.
func (l *DefaultList) Add(d Default) error {
	pos := 0
	for i, existing := range l.items {
		switch existing.Introduced.Compare(d.Introduced) {
		case 0:
			return status.New(
				status.ConflictingSemver,
				"duplicate default at version %s", d.Introduced,
			)
		case -1:
			pos = i + 1
		}
	}
	l.items = append(l.items, Default{})
	copy(l.items[pos+1:], l.items[pos:])
	l.items[pos] = d
	return nil
}

// Len returns the number of defaults in the list.
func (l *DefaultList) Len() int { return len(l.items) }

// All returns every default, sorted by Introduced ascending. The
// returned slice aliases internal storage and must not be mutated.
func (l *DefaultList) All() []Default { return l.items }

// Active returns the default that applies at the given target version:
// the one with the greatest Introduced version that is <= target, or,
// if none qualifies (target predates every default), the earliest
// (first) default in the list. Active returns false only when the list
// is empty.
func (l *DefaultList) Active(target model.Version) (Default, bool) {
	if len(l.items) == 0 {
		return Default{}, false
	}
	best := l.items[0]
	found := false
	for _, d := range l.items {
		if d.Introduced.LessEq(target) {
			best = d
			found = true
		}
	}
	if !found {
		return l.items[0], true
	}
	return best, true
}

// String renders the list as a debug-friendly summary, e.g.
// "[1.0->4 2.0->8]".
func (l *DefaultList) String() string {
	s := "["
	for i, d := range l.items {
		if i > 0 {
			s += " "
		}
		s += fmt.Sprintf("%s->%s", d.Introduced, d.Value.Stringify())
	}
	return s + "]"
}
