// Package instance implements the instance lifecycle of spec.md §6:
// the object that owns a plugin registry and an error message buffer,
// and tears plugins down in reverse registration order on Destroy.
package instance

import (
	"context"
	"log/slog"

	"github.com/veeg-labs/disir-go/pkg/core/dlog"
	"github.com/veeg-labs/disir-go/pkg/core/plugin"
	"github.com/veeg-labs/disir-go/pkg/core/status"
)

// Instance holds the plugin registry and the error buffer described by
// spec.md §6's "instance_create" (the instance's own libdisir-config is
// decoded and validated by pkg/adapter/bootstrap and is not held by an
// Instance — this package only owns the plugin/error-buffer machinery
// that is independent of that config format).
type Instance struct {
	registry *plugin.Registry
	errors   []string
}

// Create returns a new, empty Instance.
func Create() *Instance {
	return &Instance{registry: plugin.NewRegistry()}
}

// RegisterPlugin invokes fn, the plugin's dio_register_plugin entry
// point, passing it a Registrar bound to this instance's registry.
func (i *Instance) RegisterPlugin(name string, fn plugin.RegisterFunc) error {
	if fn == nil {
		return status.New(status.InvalidArgument, "plugin %q has no register function", name)
	}
	if err := fn(plugin.NewRegistrar(i.registry), name); err != nil {
		return status.Wrap(status.PluginError, err)
	}
	return nil
}

// Registry returns the instance's plugin registry, for dispatch by the
// archive and CLI layers.
func (i *Instance) Registry() *plugin.Registry { return i.registry }

// PushError appends msg to the instance's error message buffer, for
// callers that want to accumulate non-fatal diagnostics across a batch
// of operations (e.g. archive import) before reporting them together.
func (i *Instance) PushError(msg string) {
	i.errors = append(i.errors, msg)
}

// Errors returns every message pushed via PushError, oldest first.
func (i *Instance) Errors() []string { return i.errors }

// Destroy tears down every registered plugin in reverse registration
// order, calling each one's optional PluginFinished hook (spec.md §6
// "instance_destroy"). It collects and returns the first error
// encountered, but still attempts every plugin's teardown.
func (i *Instance) Destroy(ctx context.Context) error {
	recs := i.registry.Ordered()
	var first error
	for idx := len(recs) - 1; idx >= 0; idx-- {
		rec := recs[idx]
		if rec.PluginFinished == nil {
			continue
		}
		if err := rec.PluginFinished(); err != nil {
			dlog.Warn(ctx, "plugin_finished failed", slog.String("plugin", rec.Name), dlog.Err("error", err))
			if first == nil {
				first = status.Wrap(status.PluginError, err)
			}
		}
	}
	return first
}
