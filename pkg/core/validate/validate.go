// Package validate implements the whole-tree and per-node validity
// checks of spec.md §4.7: config_valid, mold_valid and context_valid.
package validate

import (
	"github.com/veeg-labs/disir-go/pkg/core/dctx"
	"github.com/veeg-labs/disir-go/pkg/core/status"
)

// ConfigValid traverses config and returns status.InvalidContext plus
// the collection of every invalid context (as dctx.CollectInvalid
// gathers it) if any deferred invariant from §3 was violated, or nil and
// an empty collection otherwise.
func ConfigValid(cfg *dctx.Context) (*dctx.Collection, error) {
	return wholeTreeValid(cfg, dctx.TagConfig)
}

// MoldValid is ConfigValid's mold-tree analogue.
func MoldValid(mold *dctx.Context) (*dctx.Collection, error) {
	return wholeTreeValid(mold, dctx.TagMold)
}

func wholeTreeValid(root *dctx.Context, want dctx.Tag) (*dctx.Collection, error) {
	if root == nil || root.Tag() != want {
		return nil, status.New(status.WrongContext, "expected a %s root", want)
	}
	// A minimum-entries shortfall is only observable over the whole
	// tree's population, not at any single insertion, so it is checked
	// here rather than during construction (no-op on a mold root).
	dctx.CheckMinEntries(root)
	col := dctx.CollectInvalid(root)
	if col.Len() > 0 {
		return col, status.New(status.InvalidContext, "%d invalid context(s) found", col.Len())
	}
	return col, nil
}

// ContextValid checks only ctx's own INVALID bit, without descending
// into its subtree.
func ContextValid(ctx *dctx.Context) error {
	if ctx.Invalid() {
		return status.New(status.InvalidContext, "%q is invalid", ctx.Name())
	}
	return nil
}
