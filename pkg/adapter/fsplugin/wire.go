// Package fsplugin is a concrete plugin backend that persists molds and
// configs as JSON files on the local filesystem, registered the way
// spec.md §6's dio_register_plugin describes: one plugin.Record per
// group, every optional operation backed by a real implementation.
//
// It is the disir-go analogue of the teacher's postgres adapter: where
// pkg/core only knows the plugin.Record ABI, fsplugin is one concrete
// wiring of it, storing bytes the way a real deployment would.
package fsplugin

import (
	"github.com/goccy/go-json"
	"github.com/veeg-labs/disir-go/pkg/core/model"
	"github.com/veeg-labs/disir-go/pkg/core/restrict"
	"github.com/veeg-labs/disir-go/pkg/core/status"
)

// wireValue is model.Value's on-disk shape: a discriminated union tagged
// by Type, carrying only the field that type uses.
type wireValue struct {
	Type    string  `json:"type"`
	String  string  `json:"string,omitempty"`
	Integer int64   `json:"integer,omitempty"`
	Float   float64 `json:"float,omitempty"`
	Boolean bool    `json:"boolean,omitempty"`
}

func encodeValue(v model.Value) wireValue {
	w := wireValue{Type: v.Type().String()}
	switch v.Type() {
	case model.String:
		w.String = v.GetString()
	case model.Enum:
		w.String = v.GetEnum()
	case model.Integer:
		w.Integer = v.GetInteger()
	case model.Float:
		w.Float = v.GetFloat()
	case model.Boolean:
		w.Boolean = v.GetBoolean()
	}
	return w
}

func decodeValue(w wireValue) (model.Value, error) {
	var v model.Value
	switch w.Type {
	case "STRING":
		v.SetString(w.String)
	case "ENUM":
		v.SetEnum(w.String)
	case "INTEGER":
		v.SetInteger(w.Integer)
	case "FLOAT":
		v.SetFloat(w.Float)
	case "BOOLEAN":
		v.SetBoolean(w.Boolean)
	default:
		return v, status.New(status.WrongValueType, "unknown wire value type %q", w.Type)
	}
	return v, nil
}

func parseValueType(s string) (model.ValueType, error) {
	switch s {
	case "STRING":
		return model.String, nil
	case "ENUM":
		return model.Enum, nil
	case "INTEGER":
		return model.Integer, nil
	case "FLOAT":
		return model.Float, nil
	case "BOOLEAN":
		return model.Boolean, nil
	default:
		return model.Unknown, status.New(status.WrongValueType, "unknown value type %q", s)
	}
}

// wireConfigNode is one SECTION or KEYVAL of a serialized config tree.
type wireConfigNode struct {
	Name     string           `json:"name"`
	Kind     string           `json:"kind"` // "section" | "keyval"
	Disabled bool             `json:"disabled,omitempty"`
	Value    *wireValue       `json:"value,omitempty"`
	Children []wireConfigNode `json:"children,omitempty"`
}

type wireConfig struct {
	Version string           `json:"version"`
	Root    []wireConfigNode `json:"root"`
}

// wireDefault is one DEFAULT entry of a mold keyval.
type wireDefault struct {
	Introduced string    `json:"introduced"`
	Value      wireValue `json:"value"`
}

// wireRestriction is one RESTRICTION entry of a mold keyval/section.
type wireRestriction struct {
	Type       string     `json:"type"`
	Introduced string     `json:"introduced"`
	Deprecated string     `json:"deprecated,omitempty"`
	Doc        string     `json:"doc,omitempty"`
	Count      int        `json:"count,omitempty"`
	EnumMember string     `json:"enum_member,omitempty"`
	RangeLo    *wireValue `json:"range_lo,omitempty"`
	RangeHi    *wireValue `json:"range_hi,omitempty"`
	Numeric    *wireValue `json:"numeric,omitempty"`
}

// wireMoldNode is one SECTION or KEYVAL of a serialized mold tree.
type wireMoldNode struct {
	Name         string            `json:"name"`
	Kind         string            `json:"kind"` // "section" | "keyval"
	ValueType    string            `json:"value_type,omitempty"`
	Introduced   string            `json:"introduced"`
	Deprecated   string            `json:"deprecated,omitempty"`
	Docs         []string          `json:"docs,omitempty"`
	Defaults     []wireDefault     `json:"defaults,omitempty"`
	Restrictions []wireRestriction `json:"restrictions,omitempty"`
	Children     []wireMoldNode    `json:"children,omitempty"`
}

type wireMold struct {
	Root []wireMoldNode `json:"root"`
}

func marshalJSON(v any) ([]byte, error) {
	return json.MarshalIndent(v, "", "  ")
}

func unmarshalJSON(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

func restrictionTypeString(t restrict.Type) string {
	return t.String()
}

func parseRestrictionType(s string) (restrict.Type, error) {
	switch s {
	case "MINIMUM_ENTRIES":
		return restrict.MinimumEntries, nil
	case "MAXIMUM_ENTRIES":
		return restrict.MaximumEntries, nil
	case "VALUE_ENUM":
		return restrict.ValueEnum, nil
	case "VALUE_RANGE":
		return restrict.ValueRange, nil
	case "VALUE_NUMERIC":
		return restrict.ValueNumeric, nil
	default:
		return 0, status.New(status.WrongContext, "unknown restriction type %q", s)
	}
}

func parseVersionOrZero(s string) (model.Version, error) {
	if s == "" {
		return model.Version{}, nil
	}
	return model.ParseVersion(s)
}
