package dctx

import (
	"github.com/veeg-labs/disir-go/pkg/core/model"
	"github.com/veeg-labs/disir-go/pkg/core/restrict"
	"github.com/veeg-labs/disir-go/pkg/core/status"
)

// SetName assigns ctx's name. Valid on CONSTRUCTING SECTION and KEYVAL
// contexts only.
func SetName(ctx *Context, name string) error {
	if err := requireTag(ctx, TagSection, TagKeyval); err != nil {
		return err
	}
	if err := requireState(ctx, StateConstructing); err != nil {
		return err
	}
	if name == "" {
		ctx.FatalError("name must not be empty")
		return status.New(status.InvalidArgument, "name must not be empty")
	}
	ctx.name = name
	return nil
}

// SetValueType declares the scalar type of a CONSTRUCTING KEYVAL. Once
// set, a call with a different type returns EXISTS; repeating the same
// type is accepted.
func SetValueType(ctx *Context, vt model.ValueType) error {
	if err := requireTag(ctx, TagKeyval); err != nil {
		return err
	}
	if err := requireState(ctx, StateConstructing); err != nil {
		return err
	}
	if ctx.valueType != model.Unknown && ctx.valueType != vt {
		return status.New(status.Exists, "value type already set to %s", ctx.valueType)
	}
	ctx.valueType = vt
	return nil
}

// activeRestrictions returns the restriction list that governs ctx's
// assigned value: a config-rooted keyval defers to its moldEquiv (the
// schema's declared restrictions), falling back to its own list when it
// has no moldEquiv yet resolved.
func activeRestrictions(ctx *Context) *restrict.List {
	if ctx.moldEquiv != nil {
		return &ctx.moldEquiv.restrictions
	}
	return &ctx.restrictions
}

func checkValueRestrictions(ctx *Context, v model.Value) error {
	target := ctx.root.version
	rl := activeRestrictions(ctx)
	if v.Type() == model.Enum {
		members := rl.ActiveEnumMembers(target)
		if len(members) > 0 {
			ok := false
			for _, m := range members {
				if m == v.GetEnum() {
					ok = true
					break
				}
			}
			if !ok {
				return status.New(status.RestrictionViolated, "%q is not an active enum member", v.GetEnum())
			}
		}
	}
	if v.Type() == model.Integer || v.Type() == model.Float {
		if r, ok := rl.ActiveSingle(restrict.ValueRange, target); ok {
			if r.RangeLo.Type() != model.Unknown && v.Compare(r.RangeLo) < 0 {
				return status.New(status.RestrictionViolated, "value is below the active minimum")
			}
			if r.RangeHi.Type() != model.Unknown && v.Compare(r.RangeHi) > 0 {
				return status.New(status.RestrictionViolated, "value is above the active maximum")
			}
		}
		if r, ok := rl.ActiveSingle(restrict.ValueNumeric, target); ok {
			if !v.Equal(r.Numeric) {
				return status.New(status.RestrictionViolated, "value does not equal the required numeric restriction")
			}
		}
	}
	return nil
}

// setValue is the shared implementation behind the typed SetValue*
// setters (§4.1: value setters are permitted on CONSTRUCTING keyvals and,
// additionally, on FINALIZED config-rooted keyvals where they re-run the
// restriction check).
func setValue(ctx *Context, v model.Value) error {
	if err := requireTag(ctx, TagKeyval); err != nil {
		return err
	}
	switch ctx.state {
	case StateConstructing:
		ctx.value = v
		if err := checkValueRestrictions(ctx, v); err != nil {
			ctx.invalid = true
			return err
		}
		return nil
	case StateFinalized:
		if ctx.RootTag() != TagConfig {
			return status.New(status.ContextInWrongState, "value cannot be set on a finalized mold keyval")
		}
		if err := checkValueRestrictions(ctx, v); err != nil {
			return err // value is not changed, node remains valid
		}
		ctx.value = v
		return nil
	default:
		return status.New(status.DestroyedContext, "operation on destroyed context")
	}
}

// SetValueString assigns a STRING value.
func SetValueString(ctx *Context, s string) error {
	var v model.Value
	v.SetString(s)
	return setValue(ctx, v)
}

// SetValueEnum assigns an ENUM value.
func SetValueEnum(ctx *Context, s string) error {
	var v model.Value
	v.SetEnum(s)
	return setValue(ctx, v)
}

// SetValueInteger assigns an INTEGER value.
func SetValueInteger(ctx *Context, i int64) error {
	var v model.Value
	v.SetInteger(i)
	return setValue(ctx, v)
}

// SetValueFloat assigns a FLOAT value.
func SetValueFloat(ctx *Context, f float64) error {
	var v model.Value
	v.SetFloat(f)
	return setValue(ctx, v)
}

// SetValueBoolean assigns a BOOLEAN value.
func SetValueBoolean(ctx *Context, b bool) error {
	var v model.Value
	v.SetBoolean(b)
	return setValue(ctx, v)
}

// SetDisabled toggles a config-rooted keyval's disabled flag.
func SetDisabled(ctx *Context, disabled bool) error {
	if err := requireTag(ctx, TagKeyval); err != nil {
		return err
	}
	if ctx.RootTag() != TagConfig {
		return status.New(status.WrongContext, "disabled flag only applies to a config keyval")
	}
	ctx.disabled = disabled
	return nil
}

// Disabled reports a config-rooted keyval's disabled flag.
func (c *Context) Disabled() bool { return c.disabled }

// Value returns a config-rooted keyval's assigned value.
func (c *Context) Value() model.Value { return c.value }

// ValueType returns a keyval's declared scalar type.
func (c *Context) ValueType() model.ValueType { return c.valueType }

// MoldEquiv returns a config-rooted SECTION/KEYVAL's resolved mold
// counterpart, or nil if unresolved (construction not finalized yet, or
// MOLD_MISSING).
func (c *Context) MoldEquiv() *Context { return c.moldEquiv }

// AddIntroduced stamps a mold SECTION/KEYVAL/DEFAULT/RESTRICTION with
// the version it was introduced at. Forbidden on a CONFIG-rooted node.
func AddIntroduced(ctx *Context, v model.Version) error {
	if err := requireState(ctx, StateConstructing); err != nil {
		return err
	}
	if ctx.RootTag() == TagConfig {
		return status.New(status.WrongContext, "introduced version is not settable on a config node")
	}
	switch ctx.tag {
	case TagSection, TagKeyval:
		ctx.introduced = &v
	case TagDefault:
		ctx.defaultBuild.Introduced = v
	case TagRestriction:
		ctx.restrictionBuild.Introduced = v
	case TagDocumentation:
		ctx.docBuild.Introduced = v
	default:
		return status.New(status.WrongContext, "introduced version not applicable to a %s context", ctx.tag)
	}
	return nil
}

// AddDeprecated stamps a mold SECTION/KEYVAL/RESTRICTION with the
// version at which it is deprecated.
func AddDeprecated(ctx *Context, v model.Version) error {
	if err := requireState(ctx, StateConstructing); err != nil {
		return err
	}
	if ctx.RootTag() == TagConfig {
		return status.New(status.WrongContext, "deprecated version is not settable on a config node")
	}
	switch ctx.tag {
	case TagSection, TagKeyval:
		ctx.deprecated = &v
	case TagRestriction:
		ctx.restrictionBuild.Deprecated = &v
	default:
		return status.New(status.WrongContext, "deprecated version not applicable to a %s context", ctx.tag)
	}
	return nil
}

// AddDocumentation sets the DOCUMENTATION (or RESTRICTION doc string /
// FREE_TEXT) text being built; any other tag returns WRONG_CONTEXT.
func AddDocumentation(ctx *Context, text string) error {
	if err := requireState(ctx, StateConstructing); err != nil {
		return err
	}
	switch ctx.tag {
	case TagDocumentation:
		ctx.docBuild.Text = text
	case TagRestriction:
		ctx.restrictionBuild.Doc = text
	case TagFreeText:
		ctx.freeText = text
	default:
		return status.New(status.WrongContext, "documentation text not applicable to a %s context", ctx.tag)
	}
	return nil
}

// SetDefaultValue assigns the value a DEFAULT context under construction
// will carry once finalized.
func SetDefaultValue(ctx *Context, v model.Value) error {
	if err := requireTag(ctx, TagDefault); err != nil {
		return err
	}
	if err := requireState(ctx, StateConstructing); err != nil {
		return err
	}
	ctx.defaultBuild.Value = v
	return nil
}

// SetRestrictionType declares which restriction kind a RESTRICTION
// context under construction will carry. It is only settable while
// CONSTRUCTING; §4.1's state table explicitly rejects it once FINALIZED.
func SetRestrictionType(ctx *Context, t restrict.Type) error {
	if err := requireTag(ctx, TagRestriction); err != nil {
		return err
	}
	if err := requireState(ctx, StateConstructing); err != nil {
		return err
	}
	ctx.restrictionBuild.Type = t
	return nil
}

// SetRestrictionEntries sets the Count payload for a MINIMUM_ENTRIES or
// MAXIMUM_ENTRIES restriction under construction.
func SetRestrictionEntries(ctx *Context, count int) error {
	if err := requireTag(ctx, TagRestriction); err != nil {
		return err
	}
	ctx.restrictionBuild.Count = count
	return nil
}

// SetRestrictionEnumMember sets the EnumMember payload for a VALUE_ENUM
// restriction under construction.
func SetRestrictionEnumMember(ctx *Context, member string) error {
	if err := requireTag(ctx, TagRestriction); err != nil {
		return err
	}
	ctx.restrictionBuild.EnumMember = member
	return nil
}

// SetRestrictionRange sets the RangeLo/RangeHi payload for a VALUE_RANGE
// restriction under construction. A zero-value bound means unbounded on
// that side.
func SetRestrictionRange(ctx *Context, lo, hi model.Value) error {
	if err := requireTag(ctx, TagRestriction); err != nil {
		return err
	}
	ctx.restrictionBuild.RangeLo = lo
	ctx.restrictionBuild.RangeHi = hi
	return nil
}

// SetRestrictionNumeric sets the Numeric payload for a VALUE_NUMERIC
// restriction under construction.
func SetRestrictionNumeric(ctx *Context, v model.Value) error {
	if err := requireTag(ctx, TagRestriction); err != nil {
		return err
	}
	ctx.restrictionBuild.Numeric = v
	return nil
}
