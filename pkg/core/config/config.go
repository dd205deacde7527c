// Package config provides the CONFIG-tree builder surface over the
// context engine: config_begin/config_finalize, keyval/section
// convenience constructors, and the keyval_set_default supplement
// (SPEC_FULL.md §11) that resets a keyval back to its mold-declared
// default.
package config

import (
	"github.com/veeg-labs/disir-go/pkg/core/dctx"
	"github.com/veeg-labs/disir-go/pkg/core/model"
	"github.com/veeg-labs/disir-go/pkg/core/status"
)

// Begin starts construction of a new CONFIG bound to mold, which must
// already be finalized.
func Begin(mold *dctx.Context) (*dctx.Context, error) {
	return dctx.BeginConfig(mold)
}

// Finalize finalizes a CONFIG root, bumping in any deferred invalidity
// from its descendants.
func Finalize(cfg *dctx.Context) error {
	return dctx.Finalize(cfg)
}

// BeginSection starts construction of a child SECTION under a
// CONFIG/SECTION parent, resolving its mold_equiv and checking
// cardinality at Finalize.
func BeginSection(parent *dctx.Context, name string) (*dctx.Context, error) {
	sect, err := dctx.Begin(parent, dctx.TagSection)
	if err != nil {
		return nil, err
	}
	if err := dctx.SetName(sect, name); err != nil {
		return nil, err
	}
	return sect, nil
}

func addKeyval(
	parent *dctx.Context, name string, vt model.ValueType, set func(*dctx.Context) error,
) (*dctx.Context, error) {
	kv, err := dctx.Begin(parent, dctx.TagKeyval)
	if err != nil {
		return nil, err
	}
	if err := dctx.SetName(kv, name); err != nil {
		return nil, err
	}
	if err := dctx.SetValueType(kv, vt); err != nil {
		return nil, err
	}
	if err := set(kv); err != nil {
		return nil, err
	}
	if err := dctx.Finalize(kv); err != nil {
		return kv, err
	}
	return kv, nil
}

// AddKeyvalString builds, assigns and finalizes a STRING keyval named
// name under parent.
func AddKeyvalString(parent *dctx.Context, name, value string) (*dctx.Context, error) {
	return addKeyval(parent, name, model.String, func(kv *dctx.Context) error {
		return dctx.SetValueString(kv, value)
	})
}

// AddKeyvalInteger builds, assigns and finalizes an INTEGER keyval named
// name under parent.
func AddKeyvalInteger(parent *dctx.Context, name string, value int64) (*dctx.Context, error) {
	return addKeyval(parent, name, model.Integer, func(kv *dctx.Context) error {
		return dctx.SetValueInteger(kv, value)
	})
}

// AddKeyvalFloat builds, assigns and finalizes a FLOAT keyval named name
// under parent.
func AddKeyvalFloat(parent *dctx.Context, name string, value float64) (*dctx.Context, error) {
	return addKeyval(parent, name, model.Float, func(kv *dctx.Context) error {
		return dctx.SetValueFloat(kv, value)
	})
}

// AddKeyvalBoolean builds, assigns and finalizes a BOOLEAN keyval named
// name under parent.
func AddKeyvalBoolean(parent *dctx.Context, name string, value bool) (*dctx.Context, error) {
	return addKeyval(parent, name, model.Boolean, func(kv *dctx.Context) error {
		return dctx.SetValueBoolean(kv, value)
	})
}

// ResetToDefault resets a FINALIZED config keyval's value back to its
// mold_equiv's active default at the config root's version (§11
// "keyval_set_default").
func ResetToDefault(ctx *dctx.Context) error {
	moldEquiv := ctx.MoldEquiv()
	if moldEquiv == nil {
		return status.New(status.MoldMissing, "keyval has no mold equivalent to reset to")
	}
	d, err := moldEquiv.ActiveDefault(ctx.Version())
	if err != nil {
		return err
	}
	return setValueOfType(ctx, d.Value)
}

func setValueOfType(ctx *dctx.Context, v model.Value) error {
	switch v.Type() {
	case model.String:
		return dctx.SetValueString(ctx, v.GetString())
	case model.Enum:
		return dctx.SetValueEnum(ctx, v.GetEnum())
	case model.Integer:
		return dctx.SetValueInteger(ctx, v.GetInteger())
	case model.Float:
		return dctx.SetValueFloat(ctx, v.GetFloat())
	case model.Boolean:
		return dctx.SetValueBoolean(ctx, v.GetBoolean())
	default:
		return nil
	}
}
