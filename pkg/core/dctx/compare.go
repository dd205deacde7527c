package dctx

import "github.com/veeg-labs/disir-go/pkg/core/status"

// Collection is an enumeration of contexts gathered by a traversal, most
// commonly the invalid contexts found by a Valid operation (§4.7). It
// mirrors the original's iterate-to-exhaustion collection API as a plain
// Go slice (§11 "Collection enumerations").
type Collection struct {
	items []*Context
}

// Add appends ctx to the collection.
func (c *Collection) Add(ctx *Context) { c.items = append(c.items, ctx) }

// Len returns the number of contexts gathered.
func (c *Collection) Len() int { return len(c.items) }

// All returns every gathered context, in traversal order.
func (c *Collection) All() []*Context { return c.items }

// Names returns the Name() of every gathered context, in traversal
// order, as a convenience for error reporting.
func (c *Collection) Names() []string {
	out := make([]string, len(c.items))
	for i, ctx := range c.items {
		out[i] = ctx.name
	}
	return out
}

// CollectInvalid walks root's subtree and returns a Collection of every
// context carrying the INVALID bit for a reason of its own, in insertion
// (traversal) order. A context whose INVALID bit was only propagated up
// from an invalid descendant (no error of its own, or only the generic
// INVALID_CONTEXT one) is not collected; the descendant is.
func CollectInvalid(root *Context) *Collection {
	var col Collection
	var walk func(*Context)
	walk = func(ctx *Context) {
		childInvalid := false
		if ctx.children != nil {
			for _, child := range ctx.children.All() {
				if anyInvalid(child) {
					childInvalid = true
					break
				}
			}
		}
		inherited := childInvalid && (ctx.err == nil || status.Of(ctx.err) == status.InvalidContext)
		if ctx.invalid && !inherited {
			col.Add(ctx)
		}
		if ctx.children != nil {
			for _, child := range ctx.children.All() {
				walk(child)
			}
		}
	}
	walk(root)
	return &col
}

// Compare performs a deep, order-sensitive comparison of two context
// trees rooted at a and b. It returns 0 when the trees are structurally
// and value-equal (§11 "disir_compare deep equality") and a nonzero
// value otherwise; the sign carries no ordering meaning beyond
// not-equal.
func Compare(a, b *Context) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil || b == nil:
		return 1
	}
	if a.tag != b.tag || a.name != b.name {
		return 1
	}
	switch a.tag {
	case TagKeyval:
		if a.valueType != b.valueType {
			return 1
		}
		if a.RootTag() == TagConfig {
			if !a.value.Equal(b.value) || a.disabled != b.disabled {
				return 1
			}
		} else if a.defaults.Len() != b.defaults.Len() {
			return 1
		} else {
			for i, d := range a.defaults.All() {
				o := b.defaults.All()[i]
				if d.Introduced.Compare(o.Introduced) != 0 || !d.Value.Equal(o.Value) {
					return 1
				}
			}
		}
	case TagSection, TagMold, TagConfig:
		if a.children == nil || b.children == nil {
			if a.children != b.children {
				return 1
			}
		} else {
			ac, bc := a.children.All(), b.children.All()
			if len(ac) != len(bc) {
				return 1
			}
			for i := range ac {
				if Compare(ac[i], bc[i]) != 0 {
					return 1
				}
			}
		}
	}
	return 0
}
