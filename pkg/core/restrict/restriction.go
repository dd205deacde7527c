package restrict

import "github.com/veeg-labs/disir-go/pkg/core/model"

// Type identifies the kind of restriction a Restriction entry carries.
type Type int

const (
	MinimumEntries Type = iota
	MaximumEntries
	ValueEnum
	ValueRange
	ValueNumeric
)

func (t Type) String() string {
	switch t {
	case MinimumEntries:
		return "MINIMUM_ENTRIES"
	case MaximumEntries:
		return "MAXIMUM_ENTRIES"
	case ValueEnum:
		return "VALUE_ENUM"
	case ValueRange:
		return "VALUE_RANGE"
	case ValueNumeric:
		return "VALUE_NUMERIC"
	default:
		return "UNKNOWN_RESTRICTION"
	}
}

// Restriction is a declarative, versioned bound on cardinality or
// value, owned by a KEYVAL or SECTION. Only the fields relevant to
// Type are meaningful:
//   - MinimumEntries/MaximumEntries: Count
//   - ValueEnum: EnumMember
//   - ValueRange: RangeLo, RangeHi
//   - ValueNumeric: Numeric
type Restriction struct {
	Type       Type
	Introduced model.Version
	Deprecated *model.Version // nil means never deprecated
	Doc        string

	Count      int
	EnumMember string
	RangeLo    model.Value
	RangeHi    model.Value
	Numeric    model.Value
}

// activeAt reports whether r applies at the target version: its
// Introduced version must be <= target, and, if it has a Deprecated
// version, that version must be > target.
func (r Restriction) activeAt(target model.Version) bool {
	if target.Less(r.Introduced) {
		return false
	}
	if r.Deprecated != nil && !target.Less(*r.Deprecated) {
		return false
	}
	return true
}

// List is the flat set of restrictions owned by one KEYVAL or SECTION.
type List struct {
	items []Restriction
}

// Add appends r to the list.
func (l *List) Add(r Restriction) { l.items = append(l.items, r) }

// Len returns the number of restriction entries, across all types.
func (l *List) Len() int { return len(l.items) }

// All returns every restriction entry. The returned slice aliases
// internal storage and must not be mutated.
func (l *List) All() []Restriction { return l.items }

// ActiveSingle resolves the single active restriction of the given type
// at the target version: the entry with the greatest Introduced version
// that is <= target and not yet deprecated at target. This is the
// resolution rule for MinimumEntries, MaximumEntries, ValueRange, and
// ValueNumeric, each of which has exactly one restriction in force at
// any version.
func (l *List) ActiveSingle(t Type, target model.Version) (Restriction, bool) {
	var best Restriction
	found := false
	for _, r := range l.items {
		if r.Type != t || !r.activeAt(target) {
			continue
		}
		if !found || best.Introduced.Less(r.Introduced) {
			best = r
			found = true
		}
	}
	return best, found
}

// ActiveEnumMembers returns the union of every ValueEnum restriction's
// EnumMember that is active at the target version. Unlike the
// cardinality/numeric restriction types, VALUE_ENUM entries accumulate:
// each entry names one allowed member, introduced and optionally
// deprecated independently, and the legal set at a version is the union
// of every member whose entry is active there.
func (l *List) ActiveEnumMembers(target model.Version) []string {
	seen := make(map[string]bool)
	var out []string
	for _, r := range l.items {
		if r.Type != ValueEnum || !r.activeAt(target) {
			continue
		}
		if !seen[r.EnumMember] {
			seen[r.EnumMember] = true
			out = append(out, r.EnumMember)
		}
	}
	return out
}

// MinMaxEntries resolves the active minimum/maximum cardinality bounds
// at the target version. An inactive MinimumEntries resolves to 0. A
// keyval/section with no active MaximumEntries restriction defaults to
// max=1 (optional-single), not "no limit" — an explicit MaximumEntries
// restriction is the only way to raise that ceiling.
func (l *List) MinMaxEntries(target model.Version) (min int, max *int) {
	if r, ok := l.ActiveSingle(MinimumEntries, target); ok {
		min = r.Count
	}
	m := 1
	if r, ok := l.ActiveSingle(MaximumEntries, target); ok {
		m = r.Count
	}
	max = &m
	return min, max
}
