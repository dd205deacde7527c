// Package query implements the dotted, indexed path language used to
// address a descendant of a mold or config tree: parsing, resolve,
// ensure-ancestors, and the typed get/set convenience operations of
// spec.md §4.6.
package query

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/veeg-labs/disir-go/pkg/core/status"
)

// Segment is one dotted component of a parsed path: a name and its
// 0-based index among same-named siblings (0 when @index was omitted).
type Segment struct {
	Name  string
	Index int
}

// Parse splits path into its dotted segments, validating the grammar:
//
//	path     := segment ('.' segment)*
//	segment  := name ('@' index)?
//	name     := [a-zA-Z_][a-zA-Z0-9_]*
//	index    := decimal integer >= 0
//
// Any violation — a leading dot, a leading '@', an empty segment, an
// empty index, or a non-digit index — is reported as INVALID_ARGUMENT
// naming the offending segment.
func Parse(path string) ([]Segment, error) {
	if path == "" {
		return nil, status.New(status.InvalidArgument, "path must not be empty")
	}
	raw := strings.Split(path, ".")
	segs := make([]Segment, 0, len(raw))
	for _, part := range raw {
		if part == "" {
			return nil, status.New(status.InvalidArgument, "empty path segment in %q", path)
		}
		seg, err := parseSegment(part)
		if err != nil {
			return nil, err
		}
		segs = append(segs, seg)
	}
	return segs, nil
}

func parseSegment(part string) (Segment, error) {
	at := strings.IndexByte(part, '@')
	namePart, idxPart := part, ""
	if at >= 0 {
		namePart, idxPart = part[:at], part[at+1:]
	}
	if !validName(namePart) {
		return Segment{}, status.New(status.InvalidArgument, "invalid segment name %q", part)
	}
	index := 0
	if at >= 0 {
		if idxPart == "" || !allDigits(idxPart) {
			return Segment{}, status.New(status.InvalidArgument, "invalid segment index %q", part)
		}
		n, err := strconv.Atoi(idxPart)
		if err != nil {
			return Segment{}, status.New(status.InvalidArgument, "invalid segment index %q", part)
		}
		index = n
	}
	return Segment{Name: namePart, Index: index}, nil
}

func validName(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_':
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// String renders segs back into its canonical dotted form, omitting
// "@0" since a missing index already means index 0.
func String(segs []Segment) string {
	parts := make([]string, len(segs))
	for i, s := range segs {
		if s.Index == 0 {
			parts[i] = s.Name
		} else {
			parts[i] = fmt.Sprintf("%s@%d", s.Name, s.Index)
		}
	}
	return strings.Join(parts, ".")
}
