package dctx

import (
	"github.com/veeg-labs/disir-go/pkg/core/element"
	"github.com/veeg-labs/disir-go/pkg/core/model"
	"github.com/veeg-labs/disir-go/pkg/core/restrict"
	"github.com/veeg-labs/disir-go/pkg/core/status"
)

// Context is the single polymorphic node type every mold and config tree
// is built from. Which fields are meaningful is determined by Tag; the
// zero value of any field not owned by the current tag is simply unused,
// in the same spirit as a C tagged union but laid out flat since Go has
// no variant types.
//
// The engine is single-threaded and cooperative (§5): refcount and state
// are plain fields, not atomics.
type Context struct {
	tag     Tag
	state   State
	invalid bool

	refcount int
	parent   *Context
	root     *Context // the toplevel MOLD or CONFIG of this tree

	name string
	err  error // fatal error captured by fatal_error/setters, surfaced by ContextError

	// MOLD, CONFIG, SECTION: children, insertion-ordered.
	children *element.Storage[*Context]

	// MOLD root: cached max version over all descendants' introduced
	// versions, refreshed at finalize.
	maxVersion model.Version

	// CONFIG root: the version this config is valid against, and an
	// owning reference to the bound mold's root (held so the mold
	// cannot be destroyed out from under the config, per §5).
	version model.Version
	mold    *Context

	// SECTION, KEYVAL under a MOLD: the version the node was
	// introduced/deprecated at. Forbidden under a CONFIG.
	introduced *model.Version
	deprecated *model.Version

	// SECTION, KEYVAL under a CONFIG: the corresponding node in the
	// mold tree, resolved by name at finalize.
	moldEquiv *Context

	// SECTION, KEYVAL: documentation and restriction lists. A CONFIG
	// node defers to its moldEquiv for both rather than carrying its
	// own.
	docs         []Documentation
	restrictions restrict.List

	// KEYVAL: the declared scalar type, shared by mold and config
	// nodes alike (a config keyval's type must equal its moldEquiv's).
	valueType model.ValueType

	// KEYVAL under a MOLD: the version-ordered default list.
	defaults restrict.DefaultList

	// KEYVAL under a CONFIG: the assigned value and disabled flag.
	value    model.Value
	disabled bool

	// DEFAULT (transient, folds into the owning KEYVAL's defaults at
	// finalize): the introduced version and value being built.
	defaultBuild restrict.Default

	// DOCUMENTATION (transient, folds into the owner's docs at
	// finalize).
	docBuild Documentation

	// RESTRICTION (transient, folds into the owner's restrictions at
	// finalize).
	restrictionBuild restrict.Restriction

	// FREE_TEXT: an unstructured text payload, used by DOCUMENTATION
	// builders that want a multi-line body distinct from a one-line
	// Text.
	freeText string
}

// Tag returns the node's fixed kind.
func (c *Context) Tag() Tag { return c.tag }

// State returns the node's current lifecycle state.
func (c *Context) State() State { return c.state }

// Invalid reports whether a deferred invariant failed on this node
// during construction. A FINALIZED node may still be Invalid; it
// remains attached and reachable but contributes to whole-tree
// invalidity (§3 Invariants, §4.7).
func (c *Context) Invalid() bool { return c.invalid }

// Name returns the node's name, satisfying element.Named so a Context
// can be stored directly in element.Storage[*Context].
func (c *Context) Name() string { return c.name }

// Parent returns the non-owning parent back-reference, or nil for a
// tree root.
func (c *Context) Parent() *Context { return c.parent }

// Root returns the toplevel MOLD or CONFIG context of this node's tree.
func (c *Context) Root() *Context { return c.root }

// RootTag returns the tag the tree's root was created with (TagMold or
// TagConfig), fixed for the node's lifetime.
func (c *Context) RootTag() Tag {
	if c.root == nil {
		return c.tag
	}
	return c.root.tag
}

// ContextError returns the fatal error string previously captured on
// this node by a failing setter or finalize, or nil if none.
func (c *Context) ContextError() error { return c.err }

// FatalError records msg as this node's fatal error, to be retrieved
// later via ContextError. It does not change lifecycle state by itself;
// a fatal error set while CONSTRUCTING causes the subsequent finalize to
// mark the node INVALID (§4.1 "Error capture").
func (c *Context) FatalError(format string, args ...any) {
	c.err = status.New(status.FatalContext, format, args...)
}

// TransferLogwarn copies from's captured fatal error to to, without
// clearing it on from, so an ancestor can batch-report a descendant's
// failure (§5 "Error propagation", §11).
func TransferLogwarn(from, to *Context) {
	if from.err == nil {
		return
	}
	to.err = from.err
}

func newContext(tag Tag) *Context {
	return &Context{tag: tag, state: StateConstructing, refcount: 1}
}

// legalChild reports whether child may be begun directly under a parent
// of tag parentTag.
func legalChild(parentTag, child Tag) bool {
	switch parentTag {
	case TagMold, TagConfig:
		switch child {
		case TagSection, TagKeyval, TagDocumentation:
			return true
		}
		return false
	case TagSection:
		switch child {
		case TagSection, TagKeyval, TagDocumentation, TagRestriction:
			return true
		}
		return false
	case TagKeyval:
		switch child {
		case TagDefault, TagDocumentation, TagRestriction:
			return true
		}
		return false
	case TagDocumentation:
		return child == TagFreeText
	default:
		return false
	}
}

// BeginMold starts construction of a new, rootless MOLD tree.
func BeginMold() *Context {
	c := newContext(TagMold)
	c.children = element.New[*Context]()
	c.root = c
	return c
}

// BeginConfig starts construction of a new CONFIG tree bound to mold,
// which must already be FINALIZED and not DESTROYED. BeginConfig takes a
// reference on mold's root (released at Destroy of the config root),
// enforcing that the mold outlives every config bound to it (§5).
func BeginConfig(mold *Context) (*Context, error) {
	if mold == nil || mold.tag != TagMold {
		return nil, status.New(status.WrongContext, "mold argument must be a MOLD context")
	}
	moldRoot := mold.root
	if moldRoot.state == StateDestroyed {
		return nil, status.New(status.DestroyedContext, "mold is destroyed")
	}
	if moldRoot.state != StateFinalized {
		return nil, status.New(status.ContextInWrongState, "mold must be finalized before a config can bind to it")
	}
	c := newContext(TagConfig)
	c.children = element.New[*Context]()
	c.root = c
	c.mold = moldRoot
	c.version = moldRoot.maxVersion
	moldRoot.refcount++
	return c, nil
}

// Begin starts construction of a new child context of tag under parent.
// parent must be CONSTRUCTING or FINALIZED and not DESTROYED; the
// returned child is attached to parent's element storage only once it
// is later finalized successfully.
func Begin(parent *Context, tag Tag) (*Context, error) {
	if parent == nil {
		return nil, status.New(status.InvalidArgument, "parent must not be nil for tag %s", tag)
	}
	if parent.state == StateDestroyed {
		return nil, status.New(status.DestroyedContext, "parent is destroyed")
	}
	if !legalChild(parent.tag, tag) {
		return nil, status.New(status.WrongContext, "%s cannot contain a %s child", parent.tag, tag)
	}
	c := newContext(tag)
	c.parent = parent
	c.root = parent.root
	switch tag {
	case TagSection, TagKeyval:
		c.children = element.New[*Context]()
	}
	return c, nil
}

// Destroy recursively detaches ctx from its parent (if attached) and
// transitions ctx and its whole subtree to DESTROYED, releasing the
// parent's reference. Remaining external handles keep the node's Go
// memory alive (ordinary GC), but every further operation on a
// DESTROYED context returns DESTROYED_CONTEXT.
func Destroy(ctx *Context) error {
	if ctx == nil {
		return status.New(status.InvalidArgument, "ctx must not be nil")
	}
	if ctx.state == StateDestroyed {
		return status.New(status.DestroyedContext, "context already destroyed")
	}
	if ctx.children != nil {
		for _, child := range append([]*Context(nil), ctx.children.All()...) {
			_ = Destroy(child)
		}
	}
	if ctx.parent != nil && ctx.parent.children != nil {
		ctx.parent.children.RemoveElement(ctx, func(a, b *Context) bool { return a == b })
	}
	if ctx.tag == TagConfig && ctx.mold != nil {
		ctx.mold.refcount--
		ctx.mold = nil
	}
	ctx.state = StateDestroyed
	ctx.refcount--
	return nil
}

// PutContext releases one external handle reference previously obtained
// from Begin/BeginMold/BeginConfig or a lookup operation. It never
// destroys an attached node; destruction of the tree happens only
// through Destroy.
func PutContext(ctx *Context) error {
	if ctx == nil {
		return status.New(status.InvalidArgument, "ctx must not be nil")
	}
	if ctx.state == StateDestroyed {
		return status.New(status.DestroyedContext, "context already destroyed")
	}
	if ctx.refcount > 0 {
		ctx.refcount--
	}
	return nil
}

// requireState returns CONTEXT_IN_WRONG_STATE unless ctx is in one of
// the given states, or DESTROYED_CONTEXT if ctx has been destroyed.
func requireState(ctx *Context, allowed ...State) error {
	if ctx.state == StateDestroyed {
		return status.New(status.DestroyedContext, "operation on destroyed context")
	}
	for _, s := range allowed {
		if ctx.state == s {
			return nil
		}
	}
	return status.New(status.ContextInWrongState, "operation not valid in state %s", ctx.state)
}

// requireTag returns WRONG_CONTEXT unless ctx's tag is one of the given
// tags.
func requireTag(ctx *Context, allowed ...Tag) error {
	for _, t := range allowed {
		if ctx.tag == t {
			return nil
		}
	}
	return status.New(status.WrongContext, "operation not valid on a %s context", ctx.tag)
}
