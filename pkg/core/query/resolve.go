package query

import (
	"github.com/veeg-labs/disir-go/pkg/core/dctx"
	"github.com/veeg-labs/disir-go/pkg/core/status"
)

// Resolve walks path segment by segment from root (a MOLD, CONFIG or
// SECTION context), returning NOT_EXIST for any segment that cannot be
// found.
func Resolve(root *dctx.Context, path string) (*dctx.Context, error) {
	segs, err := Parse(path)
	if err != nil {
		return nil, err
	}
	return resolveSegments(root, segs)
}

func resolveSegments(root *dctx.Context, segs []Segment) (*dctx.Context, error) {
	cur := root
	for _, seg := range segs {
		next, ok := cur.FindChildIndexed(seg.Name, seg.Index)
		if !ok {
			return nil, status.New(status.NotExist, "no %q at index %d under %q", seg.Name, seg.Index, cur.Name())
		}
		cur = next
	}
	return cur, nil
}

// indexAmongSiblings returns ctx's 0-based position among its same-named
// siblings under parent, for PathTo's reverse traversal.
func indexAmongSiblings(parent, ctx *dctx.Context) int {
	if parent == nil {
		return 0
	}
	idx := 0
	for _, c := range parent.Children() {
		if c == ctx {
			return idx
		}
		if c.Name() == ctx.Name() {
			idx++
		}
	}
	return 0
}

// PathTo returns the dotted path from ctx's tree root down to ctx,
// the left-inverse companion to Resolve/EnsureAncestors used by the
// round-trip testable property in spec.md §8 item 7 (§11
// "resolve_root_name").
func PathTo(ctx *dctx.Context) string {
	var segs []Segment
	cur := ctx
	for cur != nil && cur.Parent() != nil {
		segs = append([]Segment{{
			Name:  cur.Name(),
			Index: indexAmongSiblings(cur.Parent(), cur),
		}}, segs...)
		cur = cur.Parent()
	}
	return String(segs)
}
