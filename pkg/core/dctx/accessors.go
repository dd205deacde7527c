package dctx

import (
	"github.com/veeg-labs/disir-go/pkg/core/model"
	"github.com/veeg-labs/disir-go/pkg/core/restrict"
	"github.com/veeg-labs/disir-go/pkg/core/status"
)

// Children returns a MOLD/CONFIG/SECTION's element storage of child
// SECTION/KEYVAL contexts, or nil for a KEYVAL/DEFAULT/DOCUMENTATION/
// RESTRICTION/FREE_TEXT node, which has none.
func (c *Context) Children() []*Context {
	if c.children == nil {
		return nil
	}
	return c.children.All()
}

// FindChild resolves the first child named name under a MOLD/CONFIG/
// SECTION context.
func (c *Context) FindChild(name string) (*Context, bool) {
	if c.children == nil {
		return nil, false
	}
	return c.children.FindFirst(name)
}

// FindChildIndexed resolves the index-th (0-based) same-named child
// under a MOLD/CONFIG/SECTION context.
func (c *Context) FindChildIndexed(name string, index int) (*Context, bool) {
	if c.children == nil {
		return nil, false
	}
	return c.children.FindIndexed(name, index)
}

// CountChildName counts the same-named children under a MOLD/CONFIG/
// SECTION context.
func (c *Context) CountChildName(name string) int {
	if c.children == nil {
		return 0
	}
	return c.children.CountName(name)
}

// Version returns a CONFIG root's version, or a MOLD root's cached
// maximum descendant version (the mold's effective version).
func (c *Context) Version() model.Version {
	switch c.tag {
	case TagMold:
		return c.maxVersion
	case TagConfig:
		return c.version
	default:
		return c.root.Version()
	}
}

// BumpConfigVersion assigns a new version to an already-FINALIZED
// CONFIG root. Unlike SetVersion, it is valid after finalize — it
// exists solely for the update engine (§4.8), which stamps the config
// with its target version only once a migration completes.
func BumpConfigVersion(ctx *Context, v model.Version) error {
	if err := requireTag(ctx, TagConfig); err != nil {
		return err
	}
	if ctx.state == StateDestroyed {
		return status.New(status.DestroyedContext, "operation on destroyed context")
	}
	ctx.version = v
	return nil
}

// SetVersion assigns a CONSTRUCTING CONFIG root's explicit version.
func SetVersion(ctx *Context, v model.Version) error {
	if err := requireTag(ctx, TagConfig); err != nil {
		return err
	}
	if err := requireState(ctx, StateConstructing); err != nil {
		return err
	}
	ctx.version = v
	return nil
}

// Mold returns a CONFIG root's bound mold root.
func (c *Context) Mold() *Context {
	if c.tag != TagConfig {
		return nil
	}
	return c.mold
}

// Introduced returns a mold SECTION/KEYVAL's introduced version, or the
// zero Version if unset (not yet finalized).
func (c *Context) Introduced() model.Version {
	if c.introduced == nil {
		return model.Version{}
	}
	return *c.introduced
}

// Deprecated returns a mold SECTION/KEYVAL's deprecated version and
// whether one was set.
func (c *Context) Deprecated() (model.Version, bool) {
	if c.deprecated == nil {
		return model.Version{}, false
	}
	return *c.deprecated, true
}

// Documentation returns the owner's documentation list.
func (c *Context) Documentation() []Documentation { return c.docs }

// Restrictions returns the owner's restriction list. For a config
// keyval/section this is its own (typically empty) list; callers that
// want the restrictions actually governing a config node should consult
// its MoldEquiv instead.
func (c *Context) Restrictions() *restrict.List { return &c.restrictions }

// Defaults returns a mold keyval's version-ordered default list.
func (c *Context) Defaults() *restrict.DefaultList { return &c.defaults }

// ActiveDefault resolves a mold keyval's active default at the given
// target version, returning DEFAULT_MISSING if the keyval has none.
func (c *Context) ActiveDefault(target model.Version) (restrict.Default, error) {
	if err := requireTag(c, TagKeyval); err != nil {
		return restrict.Default{}, err
	}
	d, ok := c.defaults.Active(target)
	if !ok {
		return restrict.Default{}, status.New(status.DefaultMissing, "keyval %q has no default", c.name)
	}
	return d, nil
}
