package query

import (
	"github.com/veeg-labs/disir-go/pkg/core/dctx"
	"github.com/veeg-labs/disir-go/pkg/core/status"
)

// ensureAncestors walks segs[:len(segs)-1] under root, resolving each
// intermediate SECTION or synthesizing a new one. A SECTION may only be
// auto-created when its index equals the current count of same-named
// siblings (append-next); any other missing index returns NO_CAN_DO. A
// segment that resolves to an existing KEYVAL where a SECTION is needed
// returns CONFLICT. Newly created sections are left CONSTRUCTING (not
// yet attached); on any failure the whole synthesized prefix is
// destroyed atomically by the caller. The caller finalizes the
// synthesized chain, outermost first, only once the leaf write itself
// is confirmed to succeed.
func ensureAncestors(root *dctx.Context, segs []Segment) (parent *dctx.Context, created []*dctx.Context, err error) {
	cur := root
	for _, seg := range segs {
		next, ok := cur.FindChildIndexed(seg.Name, seg.Index)
		if ok {
			if next.Tag() != dctx.TagSection {
				return nil, created, status.New(status.Conflict, "%q is a keyval, not a section", seg.Name)
			}
			cur = next
			continue
		}
		if seg.Index != cur.CountChildName(seg.Name) {
			return nil, created, status.New(status.NoCanDo, "cannot create %q@%d: index skips an unpopulated slot", seg.Name, seg.Index)
		}
		sect, berr := dctx.Begin(cur, dctx.TagSection)
		if berr != nil {
			return nil, created, berr
		}
		if serr := dctx.SetName(sect, seg.Name); serr != nil {
			return nil, created, serr
		}
		created = append(created, sect)
		cur = sect
	}
	return cur, created, nil
}

// destroyChain destroys the outermost synthesized ancestor, which
// recursively destroys every descendant created after it.
func destroyChain(created []*dctx.Context) {
	if len(created) == 0 {
		return
	}
	_ = dctx.Destroy(created[0])
}

// finalizeChain finalizes a synthesized ancestor chain outermost-first,
// so each section's mold_equiv resolves against its already-finalized
// immediate parent.
func finalizeChain(created []*dctx.Context) error {
	for _, sect := range created {
		if err := dctx.Finalize(sect); err != nil {
			return err
		}
	}
	return nil
}

// EnsureAncestors is the exported form used by callers (and tests) that
// want the intermediate sections of path to exist under root without
// performing a leaf write, returning the resolved innermost parent
// ready to host the final segment.
func EnsureAncestors(root *dctx.Context, path string) (*dctx.Context, error) {
	segs, err := Parse(path)
	if err != nil {
		return nil, err
	}
	if len(segs) < 2 {
		return root, nil
	}
	parent, created, err := ensureAncestors(root, segs[:len(segs)-1])
	if err != nil {
		destroyChain(created)
		return nil, err
	}
	if err := finalizeChain(created); err != nil {
		destroyChain(created)
		return nil, err
	}
	return parent, nil
}
