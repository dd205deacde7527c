// Package dctx implements the context engine: the polymorphic, refcounted
// tree of typed nodes that every mold and config is built from. A Context
// is the single node type for MOLD, CONFIG, SECTION, KEYVAL, DEFAULT,
// DOCUMENTATION, RESTRICTION and FREE_TEXT trees; begin/finalize/destroy
// drive its construction lifecycle, and the mold/config/query/update
// packages are all thin callers of this package.
package dctx

import "github.com/veeg-labs/disir-go/pkg/core/model"

// Tag identifies which of the eight node kinds a Context is. A Context's
// tag is fixed at Begin and never changes for the lifetime of the node.
type Tag int

const (
	TagMold Tag = iota
	TagConfig
	TagSection
	TagKeyval
	TagDefault
	TagDocumentation
	TagRestriction
	TagFreeText
)

func (t Tag) String() string {
	switch t {
	case TagMold:
		return "MOLD"
	case TagConfig:
		return "CONFIG"
	case TagSection:
		return "SECTION"
	case TagKeyval:
		return "KEYVAL"
	case TagDefault:
		return "DEFAULT"
	case TagDocumentation:
		return "DOCUMENTATION"
	case TagRestriction:
		return "RESTRICTION"
	case TagFreeText:
		return "FREE_TEXT"
	default:
		return "UNKNOWN_TAG"
	}
}

// State is a Context's lifecycle state, independent of its validity bit.
type State int

const (
	StateConstructing State = iota
	StateFinalized
	StateDestroyed
)

func (s State) String() string {
	switch s {
	case StateConstructing:
		return "CONSTRUCTING"
	case StateFinalized:
		return "FINALIZED"
	case StateDestroyed:
		return "DESTROYED"
	default:
		return "UNKNOWN_STATE"
	}
}

// RootType reports the root-defining tag (MOLD or CONFIG) that a tree's
// root was created with. A context's root-type is fixed at creation and
// never changes, per the data model's final invariant.
type RootType = Tag

// Documentation is a single version-tagged doc string attached to a MOLD,
// SECTION or KEYVAL owner.
type Documentation struct {
	Introduced model.Version
	Text       string
}
