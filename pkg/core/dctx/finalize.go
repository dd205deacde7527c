package dctx

import (
	"github.com/veeg-labs/disir-go/pkg/core/model"
	"github.com/veeg-labs/disir-go/pkg/core/status"
)

// Finalize attaches ctx to its parent (on first successful finalize) and
// runs its tag's construction invariants. A clean finalize transitions
// ctx to FINALIZED; a dirty one still transitions to FINALIZED but sets
// the INVALID bit and returns status.InvalidContext, except for the
// cardinality race described in §4.1: a child that loses the race for
// the last cardinality slot is left CONSTRUCTING, unattached, so the
// caller can destroy it explicitly.
func Finalize(ctx *Context) error {
	if err := requireState(ctx, StateConstructing); err != nil {
		return err
	}
	switch ctx.tag {
	case TagDefault:
		return finalizeDefault(ctx)
	case TagDocumentation:
		return finalizeDocumentation(ctx)
	case TagRestriction:
		return finalizeRestriction(ctx)
	case TagKeyval:
		return finalizeKeyval(ctx)
	case TagSection:
		return finalizeSection(ctx)
	case TagMold:
		return finalizeMold(ctx)
	case TagConfig:
		return finalizeConfig(ctx)
	case TagFreeText:
		ctx.state = StateFinalized
		return nil
	default:
		return status.New(status.InternalError, "finalize: unreachable tag %s", ctx.tag)
	}
}

func finalizeDefault(ctx *Context) error {
	owner := ctx.parent
	if owner == nil || owner.tag != TagKeyval {
		return status.New(status.WrongContext, "DEFAULT must be owned by a KEYVAL")
	}
	ctx.state = StateFinalized
	if err := owner.defaults.Add(ctx.defaultBuild); err != nil {
		ctx.invalid = true
		ctx.err = err
		owner.invalid = true
		if owner.err == nil {
			owner.err = err
		}
		return status.Wrap(status.InvalidContext, err)
	}
	return nil
}

func finalizeDocumentation(ctx *Context) error {
	owner := ctx.parent
	if owner == nil {
		return status.New(status.WrongContext, "DOCUMENTATION must have an owner")
	}
	ctx.state = StateFinalized
	if ctx.docBuild.Introduced == (model.Version{}) {
		ctx.docBuild.Introduced = model.Default()
	}
	if len(owner.docs) > 0 {
		ctx.invalid = true
		ctx.FatalError("owner already has a documentation entry")
		return status.New(status.Exists, "owner already has a documentation entry")
	}
	owner.docs = append(owner.docs, ctx.docBuild)
	return nil
}

func finalizeRestriction(ctx *Context) error {
	owner := ctx.parent
	if owner == nil || (owner.tag != TagKeyval && owner.tag != TagSection) {
		return status.New(status.WrongContext, "RESTRICTION must be owned by a KEYVAL or SECTION")
	}
	owner.restrictions.Add(ctx.restrictionBuild)
	ctx.state = StateFinalized
	return nil
}

// attachUnderCardinality enforces the max-entries ceiling before a
// SECTION/KEYVAL is attached to a CONFIG-tree parent, implementing the
// "race on finalize" rule of §4.1: whichever finalize sees count==max
// returns RESTRICTION_VIOLATED and leaves ctx CONSTRUCTING. MinMaxEntries
// always resolves a concrete max (1 when no MaximumEntries restriction
// is declared), so an absent restriction still caps same-named siblings
// at one.
func attachUnderCardinality(ctx, parent *Context, moldEquiv *Context) error {
	if moldEquiv == nil {
		return nil
	}
	_, max := moldEquiv.restrictions.MinMaxEntries(ctx.root.version)
	if max == nil {
		return nil
	}
	if parent.children.CountName(ctx.name) >= *max {
		return status.New(status.RestrictionViolated, "%q already has %d entries, the maximum allowed", ctx.name, *max)
	}
	return nil
}

// resolveMoldEquiv finds ctx's mold counterpart: the SECTION/KEYVAL with
// the same name among parent's mold-side children.
func resolveMoldEquiv(ctx, parent *Context) *Context {
	var moldSiblings *Context
	if parent.tag == TagConfig {
		moldSiblings = parent.mold
	} else {
		moldSiblings = parent.moldEquiv
	}
	if moldSiblings == nil || moldSiblings.children == nil {
		return nil
	}
	eq, ok := moldSiblings.children.FindFirst(ctx.name)
	if !ok {
		return nil
	}
	return eq
}

func finalizeKeyval(ctx *Context) error {
	parent := ctx.parent
	if ctx.name == "" {
		ctx.invalid = true
		ctx.FatalError("keyval has no name")
	}

	if ctx.RootTag() == TagConfig {
		if ctx.name != "" {
			ctx.moldEquiv = resolveMoldEquiv(ctx, parent)
		}
		if ctx.moldEquiv == nil {
			ctx.invalid = true
			ctx.err = status.New(status.MoldMissing, "keyval %q has no mold equivalent", ctx.name)
		} else if ctx.valueType != ctx.moldEquiv.valueType {
			ctx.invalid = true
			ctx.err = status.New(status.WrongValueType, "keyval %q: %s does not match mold's %s", ctx.name, ctx.valueType, ctx.moldEquiv.valueType)
		}
		if err := attachUnderCardinality(ctx, parent, ctx.moldEquiv); err != nil {
			return err // left CONSTRUCTING, not attached
		}
	} else {
		if ctx.valueType == model.Unknown {
			ctx.invalid = true
			ctx.FatalError("keyval %q has no value type", ctx.name)
		}
		if ctx.defaults.Len() == 0 {
			ctx.invalid = true
			ctx.FatalError("keyval %q has no default", ctx.name)
		}
		if ctx.introduced == nil {
			v := model.Default()
			ctx.introduced = &v
		}
	}

	parent.children.Append(ctx)
	ctx.state = StateFinalized
	if ctx.invalid {
		return status.Wrap(status.InvalidContext, ctx.err)
	}
	return nil
}

func finalizeSection(ctx *Context) error {
	parent := ctx.parent
	if ctx.name == "" {
		ctx.invalid = true
		ctx.FatalError("section has no name")
	}

	if ctx.RootTag() == TagConfig {
		if ctx.name != "" {
			ctx.moldEquiv = resolveMoldEquiv(ctx, parent)
		}
		if ctx.moldEquiv == nil {
			ctx.invalid = true
			ctx.err = status.New(status.MoldMissing, "section %q has no mold equivalent", ctx.name)
		}
		if err := attachUnderCardinality(ctx, parent, ctx.moldEquiv); err != nil {
			return err
		}
	} else if ctx.introduced == nil {
		v := model.Default()
		ctx.introduced = &v
	}

	parent.children.Append(ctx)
	ctx.state = StateFinalized
	if !ctx.invalid && anyInvalid(ctx) {
		ctx.invalid = true
	}
	if ctx.invalid {
		if ctx.err == nil {
			ctx.err = status.New(status.InvalidContext, "section %q has one or more invalid children", ctx.name)
		}
		return status.Wrap(status.InvalidContext, ctx.err)
	}
	return nil
}

// collectMaxVersion walks ctx's subtree, folding in every introduced and
// deprecated version it finds, updating acc in place.
func collectMaxVersion(ctx *Context, acc *model.Version) {
	bump := func(v *model.Version) {
		if v != nil && acc.Less(*v) {
			*acc = *v
		}
	}
	bump(ctx.introduced)
	bump(ctx.deprecated)
	for _, d := range ctx.defaults.All() {
		if acc.Less(d.Introduced) {
			*acc = d.Introduced
		}
	}
	for _, r := range ctx.restrictions.All() {
		bump(&r.Introduced)
		bump(r.Deprecated)
	}
	if ctx.children != nil {
		for _, child := range ctx.children.All() {
			collectMaxVersion(child, acc)
		}
	}
}

// anyInvalid reports whether ctx or any descendant carries the INVALID
// bit.
func anyInvalid(ctx *Context) bool {
	if ctx.invalid {
		return true
	}
	if ctx.children != nil {
		for _, child := range ctx.children.All() {
			if anyInvalid(child) {
				return true
			}
		}
	}
	return false
}

func finalizeMold(ctx *Context) error {
	ctx.state = StateFinalized
	acc := model.Default()
	collectMaxVersion(ctx, &acc)
	ctx.maxVersion = acc
	if anyInvalid(ctx) {
		ctx.invalid = true
		return status.New(status.InvalidContext, "mold has one or more invalid descendants")
	}
	return nil
}

func finalizeConfig(ctx *Context) error {
	ctx.state = StateFinalized
	if ctx.mold != nil && ctx.mold.maxVersion.Less(ctx.version) {
		ctx.invalid = true
		ctx.err = status.New(status.ConflictingSemver, "config version %s exceeds mold version %s", ctx.version, ctx.mold.maxVersion)
	}
	if anyInvalid(ctx) {
		ctx.invalid = true
	}
	if ctx.invalid {
		if ctx.err == nil {
			ctx.err = status.New(status.InvalidContext, "config has one or more invalid descendants")
		}
		return status.Wrap(status.InvalidContext, ctx.err)
	}
	return nil
}
