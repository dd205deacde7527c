package query

import (
	"github.com/veeg-labs/disir-go/pkg/core/dctx"
	"github.com/veeg-labs/disir-go/pkg/core/model"
	"github.com/veeg-labs/disir-go/pkg/core/status"
)

func getTyped(root *dctx.Context, path string, want model.ValueType) (model.Value, error) {
	ctx, err := Resolve(root, path)
	if err != nil {
		return model.Value{}, err
	}
	if ctx.Tag() != dctx.TagKeyval {
		return model.Value{}, status.New(status.WrongContext, "%q is not a keyval", path)
	}
	if ctx.ValueType() != want {
		return model.Value{}, status.New(status.WrongValueType, "%q is %s, not %s", path, ctx.ValueType(), want)
	}
	return ctx.Value(), nil
}

// GetString resolves path under root and reads its STRING value.
func GetString(root *dctx.Context, path string) (string, error) {
	v, err := getTyped(root, path, model.String)
	if err != nil {
		return "", err
	}
	return v.GetString(), nil
}

// GetInteger resolves path under root and reads its INTEGER value.
func GetInteger(root *dctx.Context, path string) (int64, error) {
	v, err := getTyped(root, path, model.Integer)
	if err != nil {
		return 0, err
	}
	return v.GetInteger(), nil
}

// GetFloat resolves path under root and reads its FLOAT value.
func GetFloat(root *dctx.Context, path string) (float64, error) {
	v, err := getTyped(root, path, model.Float)
	if err != nil {
		return 0, err
	}
	return v.GetFloat(), nil
}

// GetBoolean resolves path under root and reads its BOOLEAN value.
func GetBoolean(root *dctx.Context, path string) (bool, error) {
	v, err := getTyped(root, path, model.Boolean)
	if err != nil {
		return false, err
	}
	return v.GetBoolean(), nil
}

// setLeaf writes v at path under root: if path already resolves to a
// keyval, it is written in place; otherwise the missing ancestor chain
// and the leaf keyval are synthesized together and, on any failure
// (including a moldEquiv/cardinality/type rejection on the leaf
// itself), destroyed atomically.
func setLeaf(root *dctx.Context, path string, vt model.ValueType, v model.Value) error {
	segs, err := Parse(path)
	if err != nil {
		return err
	}
	if existing, rerr := resolveSegments(root, segs); rerr == nil {
		if existing.Tag() != dctx.TagKeyval {
			return status.New(status.WrongContext, "%q is not a keyval", path)
		}
		return setValueTyped(existing, v)
	}

	leaf := segs[len(segs)-1]
	parent, created, err := ensureAncestors(root, segs[:len(segs)-1])
	if err != nil {
		destroyChain(created)
		return err
	}
	if leaf.Index != parent.CountChildName(leaf.Name) {
		destroyChain(created)
		return status.New(status.NoCanDo, "cannot create %q@%d: index skips an unpopulated slot", leaf.Name, leaf.Index)
	}

	kv, err := dctx.Begin(parent, dctx.TagKeyval)
	if err != nil {
		destroyChain(created)
		return err
	}
	if err := dctx.SetName(kv, leaf.Name); err != nil {
		destroyChain(created)
		return err
	}
	if err := dctx.SetValueType(kv, vt); err != nil {
		destroyChain(created)
		return err
	}
	if err := setValueTyped(kv, v); err != nil {
		destroyChain(created)
		return err
	}
	if err := finalizeChain(created); err != nil {
		destroyChain(created)
		return err
	}
	if err := dctx.Finalize(kv); err != nil {
		destroyChain(created)
		_ = dctx.Destroy(kv)
		return err
	}
	return nil
}

func setValueTyped(ctx *dctx.Context, v model.Value) error {
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
		return status.New(status.InvalidArgument, "value has no type")
	}
}

// SetString writes a STRING value at path under root, auto-creating
// ancestors and the leaf keyval if needed.
func SetString(root *dctx.Context, path, value string) error {
	var v model.Value
	v.SetString(value)
	return setLeaf(root, path, model.String, v)
}

// SetInteger writes an INTEGER value at path under root.
func SetInteger(root *dctx.Context, path string, value int64) error {
	var v model.Value
	v.SetInteger(value)
	return setLeaf(root, path, model.Integer, v)
}

// SetFloat writes a FLOAT value at path under root.
func SetFloat(root *dctx.Context, path string, value float64) error {
	var v model.Value
	v.SetFloat(value)
	return setLeaf(root, path, model.Float, v)
}

// SetBoolean writes a BOOLEAN value at path under root.
func SetBoolean(root *dctx.Context, path string, value bool) error {
	var v model.Value
	v.SetBoolean(value)
	return setLeaf(root, path, model.Boolean, v)
}
