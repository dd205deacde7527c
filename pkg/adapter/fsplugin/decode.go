package fsplugin

import (
	"github.com/veeg-labs/disir-go/pkg/core/config"
	"github.com/veeg-labs/disir-go/pkg/core/dctx"
	"github.com/veeg-labs/disir-go/pkg/core/mold"
	"github.com/veeg-labs/disir-go/pkg/core/model"
	"github.com/veeg-labs/disir-go/pkg/core/restrict"
	"github.com/veeg-labs/disir-go/pkg/core/status"
)

func buildConfig(moldRoot *dctx.Context, wc wireConfig) (*dctx.Context, error) {
	cfg, err := config.Begin(moldRoot)
	if err != nil {
		return nil, err
	}
	version, err := model.ParseVersion(wc.Version)
	if err != nil {
		return nil, err
	}
	if err := dctx.SetVersion(cfg, version); err != nil {
		return nil, err
	}
	for _, node := range wc.Root {
		if err := buildConfigNode(cfg, node); err != nil {
			return nil, err
		}
	}
	if err := config.Finalize(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func buildConfigNode(parent *dctx.Context, node wireConfigNode) error {
	if node.Kind == "section" {
		sect, err := config.BeginSection(parent, node.Name)
		if err != nil {
			return err
		}
		for _, child := range node.Children {
			if err := buildConfigNode(sect, child); err != nil {
				return err
			}
		}
		return dctx.Finalize(sect)
	}

	vt, err := parseValueType(node.Value.Type)
	if err != nil {
		return err
	}
	kv, err := dctx.Begin(parent, dctx.TagKeyval)
	if err != nil {
		return err
	}
	if err := dctx.SetName(kv, node.Name); err != nil {
		return err
	}
	if err := dctx.SetValueType(kv, vt); err != nil {
		return err
	}
	v, err := decodeValue(*node.Value)
	if err != nil {
		return err
	}
	if err := setConfigValue(kv, v); err != nil {
		return err
	}
	if node.Disabled {
		if err := dctx.SetDisabled(kv, true); err != nil {
			return err
		}
	}
	return dctx.Finalize(kv)
}

func setConfigValue(ctx *dctx.Context, v model.Value) error {
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
		return status.New(status.WrongValueType, "unsupported value type %s", v.Type())
	}
}

func buildMold(wm wireMold) (*dctx.Context, error) {
	m := mold.Begin()
	for _, node := range wm.Root {
		if err := buildMoldNode(m, node); err != nil {
			return nil, err
		}
	}
	if err := mold.Finalize(m); err != nil {
		return m, err
	}
	return m, nil
}

func buildMoldNode(parent *dctx.Context, node wireMoldNode) error {
	introduced, err := parseVersionOrZero(node.Introduced)
	if err != nil {
		return err
	}

	if node.Kind == "section" {
		sect, err := mold.BeginSection(parent, node.Name)
		if err != nil {
			return err
		}
		if err := dctx.AddIntroduced(sect, introduced); err != nil {
			return err
		}
		if node.Deprecated != "" {
			dep, err := model.ParseVersion(node.Deprecated)
			if err != nil {
				return err
			}
			if err := dctx.AddDeprecated(sect, dep); err != nil {
				return err
			}
		}
		if err := attachDocsAndRestrictions(sect, node.Docs, node.Restrictions); err != nil {
			return err
		}
		for _, child := range node.Children {
			if err := buildMoldNode(sect, child); err != nil {
				return err
			}
		}
		return dctx.Finalize(sect)
	}

	vt, err := parseValueType(node.ValueType)
	if err != nil {
		return err
	}
	kv, err := dctx.Begin(parent, dctx.TagKeyval)
	if err != nil {
		return err
	}
	if err := dctx.SetName(kv, node.Name); err != nil {
		return err
	}
	if err := dctx.SetValueType(kv, vt); err != nil {
		return err
	}
	if err := dctx.AddIntroduced(kv, introduced); err != nil {
		return err
	}
	if node.Deprecated != "" {
		dep, err := model.ParseVersion(node.Deprecated)
		if err != nil {
			return err
		}
		if err := dctx.AddDeprecated(kv, dep); err != nil {
			return err
		}
	}
	if err := attachDocsAndRestrictions(kv, node.Docs, node.Restrictions); err != nil {
		return err
	}
	for _, d := range node.Defaults {
		if err := attachDefault(kv, d); err != nil {
			return err
		}
	}
	return dctx.Finalize(kv)
}

func attachDocsAndRestrictions(owner *dctx.Context, docs []string, restrictions []wireRestriction) error {
	for _, text := range docs {
		d, err := dctx.Begin(owner, dctx.TagDocumentation)
		if err != nil {
			return err
		}
		if err := dctx.AddDocumentation(d, text); err != nil {
			return err
		}
		if err := dctx.Finalize(d); err != nil {
			return err
		}
	}
	for _, r := range restrictions {
		if err := attachRestriction(owner, r); err != nil {
			return err
		}
	}
	return nil
}

func attachDefault(kv *dctx.Context, wd wireDefault) error {
	introduced, err := model.ParseVersion(wd.Introduced)
	if err != nil {
		return err
	}
	v, err := decodeValue(wd.Value)
	if err != nil {
		return err
	}
	d, err := dctx.Begin(kv, dctx.TagDefault)
	if err != nil {
		return err
	}
	if err := dctx.AddIntroduced(d, introduced); err != nil {
		return err
	}
	if err := dctx.SetDefaultValue(d, v); err != nil {
		return err
	}
	return dctx.Finalize(d)
}

func attachRestriction(owner *dctx.Context, wr wireRestriction) error {
	rtype, err := parseRestrictionType(wr.Type)
	if err != nil {
		return err
	}
	introduced, err := model.ParseVersion(wr.Introduced)
	if err != nil {
		return err
	}
	r, err := dctx.Begin(owner, dctx.TagRestriction)
	if err != nil {
		return err
	}
	if err := dctx.SetRestrictionType(r, rtype); err != nil {
		return err
	}
	if err := dctx.AddIntroduced(r, introduced); err != nil {
		return err
	}
	if wr.Deprecated != "" {
		dep, err := model.ParseVersion(wr.Deprecated)
		if err != nil {
			return err
		}
		if err := dctx.AddDeprecated(r, dep); err != nil {
			return err
		}
	}
	if wr.Doc != "" {
		if err := dctx.AddDocumentation(r, wr.Doc); err != nil {
			return err
		}
	}
	switch rtype {
	case restrict.MinimumEntries, restrict.MaximumEntries:
		if err := dctx.SetRestrictionEntries(r, wr.Count); err != nil {
			return err
		}
	case restrict.ValueEnum:
		if err := dctx.SetRestrictionEnumMember(r, wr.EnumMember); err != nil {
			return err
		}
	case restrict.ValueRange:
		lo, err := decodeValue(*wr.RangeLo)
		if err != nil {
			return err
		}
		hi, err := decodeValue(*wr.RangeHi)
		if err != nil {
			return err
		}
		if err := dctx.SetRestrictionRange(r, lo, hi); err != nil {
			return err
		}
	case restrict.ValueNumeric:
		n, err := decodeValue(*wr.Numeric)
		if err != nil {
			return err
		}
		if err := dctx.SetRestrictionNumeric(r, n); err != nil {
			return err
		}
	}
	return dctx.Finalize(r)
}
