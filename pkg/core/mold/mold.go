// Package mold provides the MOLD-tree builder surface over the context
// engine: mold_begin/mold_finalize plus the add_keyval_* convenience
// constructors from spec.md §4.5, which atomically build, populate and
// finalize a single-default keyval.
package mold

import (
	"github.com/veeg-labs/disir-go/pkg/core/dctx"
	"github.com/veeg-labs/disir-go/pkg/core/model"
)

// Begin starts construction of a new, rootless mold.
func Begin() *dctx.Context {
	return dctx.BeginMold()
}

// Finalize finalizes a MOLD root. If any descendant is invalid the
// returned error wraps status.InvalidContext, but the caller's mold
// handle remains usable for inspection.
func Finalize(mold *dctx.Context) error {
	return dctx.Finalize(mold)
}

// BeginSection starts construction of a child SECTION under parent
// (a MOLD or another SECTION).
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

// addKeyval is the shared implementation behind the typed convenience
// constructors: it begins a KEYVAL, sets its name/type, attaches a
// documentation entry (when doc != ""), adds one DEFAULT of value at
// version, and finalizes.
func addKeyval(
	parent *dctx.Context, name string, vt model.ValueType,
	value model.Value, doc string, version model.Version,
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
	if err := dctx.AddIntroduced(kv, version); err != nil {
		return nil, err
	}
	if doc != "" {
		docCtx, err := dctx.Begin(kv, dctx.TagDocumentation)
		if err != nil {
			return nil, err
		}
		if err := dctx.AddDocumentation(docCtx, doc); err != nil {
			return nil, err
		}
		if err := dctx.Finalize(docCtx); err != nil {
			return nil, err
		}
	}

	def, err := dctx.Begin(kv, dctx.TagDefault)
	if err != nil {
		return nil, err
	}
	if err := dctx.AddIntroduced(def, version); err != nil {
		return nil, err
	}
	if err := dctx.SetDefaultValue(def, value); err != nil {
		return nil, err
	}
	if err := dctx.Finalize(def); err != nil {
		return nil, err
	}

	if err := dctx.Finalize(kv); err != nil {
		return kv, err
	}
	return kv, nil
}

// AddKeyvalString builds, populates and finalizes a STRING keyval named
// name under parent, with a single default at version.
func AddKeyvalString(
	parent *dctx.Context, name, defaultValue, doc string, version model.Version,
) (*dctx.Context, error) {
	var v model.Value
	v.SetString(defaultValue)
	return addKeyval(parent, name, model.String, v, doc, version)
}

// AddKeyvalInteger builds, populates and finalizes an INTEGER keyval
// named name under parent, with a single default at version.
func AddKeyvalInteger(
	parent *dctx.Context, name string, defaultValue int64, doc string, version model.Version,
) (*dctx.Context, error) {
	var v model.Value
	v.SetInteger(defaultValue)
	return addKeyval(parent, name, model.Integer, v, doc, version)
}

// AddKeyvalFloat builds, populates and finalizes a FLOAT keyval named
// name under parent, with a single default at version.
func AddKeyvalFloat(
	parent *dctx.Context, name string, defaultValue float64, doc string, version model.Version,
) (*dctx.Context, error) {
	var v model.Value
	v.SetFloat(defaultValue)
	return addKeyval(parent, name, model.Float, v, doc, version)
}

// AddKeyvalBoolean builds, populates and finalizes a BOOLEAN keyval
// named name under parent, with a single default at version.
func AddKeyvalBoolean(
	parent *dctx.Context, name string, defaultValue bool, doc string, version model.Version,
) (*dctx.Context, error) {
	var v model.Value
	v.SetBoolean(defaultValue)
	return addKeyval(parent, name, model.Boolean, v, doc, version)
}
