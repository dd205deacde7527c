// Package generate implements generate_config_from_mold (spec.md §4.9):
// producing a config whose shape and values are entirely derived from a
// mold's structure and active defaults at a target version.
package generate

import (
	"github.com/veeg-labs/disir-go/pkg/core/dctx"
	"github.com/veeg-labs/disir-go/pkg/core/model"
)

// FromMold walks mold and produces a fully populated config at target
// (the mold's own version when target is nil): every mold SECTION/
// KEYVAL is instantiated min_entries times (1 when min_entries is 0,
// the "optional-single by default" convention), recursing into
// sections, and every generated keyval copies its mold's active default
// at target.
func FromMold(mold *dctx.Context, target *model.Version) (*dctx.Context, error) {
	v := mold.Version()
	if target != nil {
		v = *target
	}
	cfg, err := dctx.BeginConfig(mold)
	if err != nil {
		return nil, err
	}
	if err := dctx.SetVersion(cfg, v); err != nil {
		return nil, err
	}
	if err := populate(mold, cfg, v); err != nil {
		return nil, err
	}
	if err := dctx.Finalize(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func populate(moldParent, cfgParent *dctx.Context, target model.Version) error {
	for _, moldChild := range moldParent.Children() {
		min, _ := moldChild.Restrictions().MinMaxEntries(target)
		count := min
		if count == 0 {
			count = 1
		}
		for i := 0; i < count; i++ {
			if err := instantiate(moldChild, cfgParent, target); err != nil {
				return err
			}
		}
	}
	return nil
}

func instantiate(moldChild, cfgParent *dctx.Context, target model.Version) error {
	switch moldChild.Tag() {
	case dctx.TagSection:
		sect, err := dctx.Begin(cfgParent, dctx.TagSection)
		if err != nil {
			return err
		}
		if err := dctx.SetName(sect, moldChild.Name()); err != nil {
			return err
		}
		if err := dctx.Finalize(sect); err != nil {
			return err
		}
		return populate(moldChild, sect, target)
	case dctx.TagKeyval:
		kv, err := dctx.Begin(cfgParent, dctx.TagKeyval)
		if err != nil {
			return err
		}
		if err := dctx.SetName(kv, moldChild.Name()); err != nil {
			return err
		}
		if err := dctx.SetValueType(kv, moldChild.ValueType()); err != nil {
			return err
		}
		d, err := moldChild.ActiveDefault(target)
		if err != nil {
			return err
		}
		if err := setValue(kv, d.Value); err != nil {
			return err
		}
		return dctx.Finalize(kv)
	default:
		return nil
	}
}

func setValue(ctx *dctx.Context, v model.Value) error {
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
