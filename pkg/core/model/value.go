package model

import (
	"fmt"
	"math"
)

// ValueType identifies the scalar kind stored by a Value.
type ValueType int

const (
	// Unknown is the zero ValueType; a Value of this type has never
	// been assigned a type by set_value_type.
	Unknown ValueType = iota
	String
	Integer
	Float
	Boolean
	Enum
)

// String returns the canonical upper-case name of vt, as used in error
// messages and log attributes.
func (vt ValueType) String() string {
	switch vt {
	case String:
		return "STRING"
	case Integer:
		return "INTEGER"
	case Float:
		return "FLOAT"
	case Boolean:
		return "BOOLEAN"
	case Enum:
		return "ENUM"
	default:
		return "UNKNOWN"
	}
}

// MinInt is the sentinel returned by Value.Compare when the two values
// being compared have different types, matching the spec's INT_MIN
// "incomparable" sentinel.
const MinInt = math.MinInt

// Value is a typed scalar container. Its zero value is the Unknown,
// untyped value. ENUM values are string-valued; the set of legal ENUM
// members is not tracked by Value itself — it is resolved against the
// owning keyval's active VALUE_ENUM restriction at the version in
// force, since a mold may grow or shrink an enum's member set over
// time.
type Value struct {
	typ ValueType
	s   string
	i   int64
	f   float64
	b   bool
}

// Type returns the ValueType currently held by v.
func (v Value) Type() ValueType { return v.typ }

// SetString assigns a STRING value. An empty s empties the value (the
// spec's "null/zero-size pointer empties the value" rule, translated to
// Go's always-present string).
func (v *Value) SetString(s string) {
	v.typ = String
	v.s = s
}

// GetString returns the string payload of v. Valid only when
// v.Type() == String.
func (v Value) GetString() string { return v.s }

// SetEnum assigns an ENUM value carrying the given member string.
// Whether s is a legal member of the owning keyval's active restriction
// is validated by the restrict package, not here.
func (v *Value) SetEnum(s string) {
	v.typ = Enum
	v.s = s
}

// GetEnum returns the enum member string of v. Valid only when
// v.Type() == Enum.
func (v Value) GetEnum() string { return v.s }

// SetInteger assigns an INTEGER value.
func (v *Value) SetInteger(i int64) {
	v.typ = Integer
	v.i = i
}

// GetInteger returns the integer payload of v. Valid only when
// v.Type() == Integer.
func (v Value) GetInteger() int64 { return v.i }

// SetFloat assigns a FLOAT value.
func (v *Value) SetFloat(f float64) {
	v.typ = Float
	v.f = f
}

// GetFloat returns the float payload of v. Valid only when
// v.Type() == Float.
func (v Value) GetFloat() float64 { return v.f }

// SetBoolean assigns a BOOLEAN value.
func (v *Value) SetBoolean(b bool) {
	v.typ = Boolean
	v.b = b
}

// GetBoolean returns the boolean payload of v. Valid only when
// v.Type() == Boolean.
func (v Value) GetBoolean() bool { return v.b }

// Stringify produces the canonical textual representation of v:
// "True"/"False" for booleans, a six fractional digit "%f" for floats,
// plain decimal for integers, the raw string for STRING/ENUM, and the
// empty string for Unknown.
func (v Value) Stringify() string {
	switch v.typ {
	case String, Enum:
		return v.s
	case Integer:
		return fmt.Sprintf("%d", v.i)
	case Float:
		return fmt.Sprintf("%f", v.f)
	case Boolean:
		if v.b {
			return "True"
		}
		return "False"
	default:
		return ""
	}
}

// Compare returns a signed comparison of v and other: negative if
// v < other, zero if equal, positive if v > other, and model.MinInt
// when the two values have different types (they are, by definition,
// incomparable).
func (v Value) Compare(other Value) int {
	if v.typ != other.typ {
		return MinInt
	}
	switch v.typ {
	case String, Enum:
		switch {
		case v.s < other.s:
			return -1
		case v.s > other.s:
			return 1
		default:
			return 0
		}
	case Integer:
		switch {
		case v.i < other.i:
			return -1
		case v.i > other.i:
			return 1
		default:
			return 0
		}
	case Float:
		switch {
		case v.f < other.f:
			return -1
		case v.f > other.f:
			return 1
		default:
			return 0
		}
	case Boolean:
		switch {
		case v.b == other.b:
			return 0
		case !v.b && other.b:
			return -1
		default:
			return 1
		}
	default:
		return 0
	}
}

// Equal reports whether v and other hold the same type and payload.
func (v Value) Equal(other Value) bool { return v.Compare(other) == 0 }

// Copy returns a deep copy of v. Since Value holds only scalar fields,
// a plain struct copy already is a deep copy; Copy exists so callers
// don't need to know that and can treat Value like a reference type
// elsewhere in the tree.
func (v Value) Copy() Value { return v }

// ZeroFor returns the trivial zero-valued Value for the given type:
// empty string for STRING/ENUM, 0 for INTEGER/FLOAT, false for
// BOOLEAN.
func ZeroFor(vt ValueType) Value {
	var v Value
	switch vt {
	case String:
		v.SetString("")
	case Enum:
		v.SetEnum("")
	case Integer:
		v.SetInteger(0)
	case Float:
		v.SetFloat(0)
	case Boolean:
		v.SetBoolean(false)
	}
	return v
}
