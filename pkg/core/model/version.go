// Package model contains the value types which are shared across the
// context engine, the defaults/restrictions system, and the query and
// update engines: semantic Version and the typed scalar Value.
// These types carry no third-party dependency themselves; they are
// the vocabulary every other pkg/core package is built from.
package model

import (
	"fmt"
	"strconv"
	"strings"
)

// Version is a major.minor semantic version, used to key defaults and
// restrictions and to stamp mold and config trees. Unlike a released
// software version, a mold/config Version carries no patch component:
// the patch level has no visible effect on the tree shape, so it is
// not tracked here.
//
// The zero Version{} compares as the smallest possible version; callers
// that want "1.0" as the default version should use Default().
type Version struct {
	Major uint
	Minor uint
}

// Default returns the 1.0 version, which is the implicit version of a
// mold or config that never declared one explicitly.
func Default() Version {
	return Version{Major: 1, Minor: 0}
}

// ParseVersion parses a "major.minor" string into a Version. Extra
// components (e.g. a patch number) are rejected, since a mold/config
// Version has exactly two components.
func ParseVersion(s string) (Version, error) {
	p := strings.Split(s, ".")
	if len(p) != 2 {
		return Version{}, fmt.Errorf(
			"version %q must have exactly two components", s,
		)
	}
	major, err := strconv.ParseUint(p[0], 10, 64)
	if err != nil {
		return Version{}, fmt.Errorf("major component %q: %w", p[0], err)
	}
	minor, err := strconv.ParseUint(p[1], 10, 64)
	if err != nil {
		return Version{}, fmt.Errorf("minor component %q: %w", p[1], err)
	}
	return Version{Major: uint(major), Minor: uint(minor)}, nil
}

// UnmarshalText implements encoding.TextUnmarshaler so a Version can be
// decoded from YAML/TOML/JSON text fields (e.g. bootstrap config files
// or archive metadata).
func (v *Version) UnmarshalText(text []byte) error {
	pv, err := ParseVersion(string(text))
	if err != nil {
		return err
	}
	*v = pv
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (v Version) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// String returns the "major.minor" representation of v.
func (v Version) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// Compare returns a negative number if v < other, zero if v == other,
// and a positive number if v > other, comparing Major first and then
// Minor — a standard lexicographic ordering of the two components.
func (v Version) Compare(other Version) int {
	if v.Major != other.Major {
		if v.Major < other.Major {
			return -1
		}
		return 1
	}
	switch {
	case v.Minor < other.Minor:
		return -1
	case v.Minor > other.Minor:
		return 1
	default:
		return 0
	}
}

// Less reports whether v is strictly less than other.
func (v Version) Less(other Version) bool { return v.Compare(other) < 0 }

// LessEq reports whether v is less than or equal to other.
func (v Version) LessEq(other Version) bool { return v.Compare(other) <= 0 }

// Greater reports whether v is strictly greater than other.
func (v Version) Greater(other Version) bool { return v.Compare(other) > 0 }
