// Package plugin implements the I/O backend ABI of spec.md §4.10 and
// §6: a registry of per-group-id operation records that the archive
// and CLI layers dispatch through, without any dynamic (dlopen-style)
// loading — plugins are registered in-process by calling a RegisterFunc
// (spec.md's "Non-goal: dynamic loading of plugin shared objects").
package plugin

import (
	"io"

	"github.com/veeg-labs/disir-go/pkg/core/dctx"
	"github.com/veeg-labs/disir-go/pkg/core/status"
)

// Record is one registered backend's operation table (spec.md §6
// "Plugin ABI"). A nil function field signals that operation is
// unsupported by this backend; dispatch returns status.NotSupported.
type Record struct {
	Name        string
	Description string
	Type        string // e.g. "filesystem", "archive"
	Storage     string // backend-specific storage identifier

	GroupID      string
	ConfigBaseID string
	MoldBaseID   string

	ConfigEntryType string
	MoldEntryType   string

	ConfigRead    func(entryID string, mold *dctx.Context) (*dctx.Context, error)
	ConfigWrite   func(entryID string, cfg *dctx.Context) error
	ConfigEntries func() ([]string, error)
	ConfigQuery   func(entryID string) (bool, error)
	ConfigFDRead  func(entryID string) (io.ReadCloser, error)
	ConfigFDWrite func(entryID string) (io.WriteCloser, error)

	MoldRead    func(entryID string) (*dctx.Context, error)
	MoldWrite   func(entryID string, mold *dctx.Context) error
	MoldEntries func() ([]string, error)
	MoldQuery   func(entryID string) (bool, error)
	MoldFDRead  func(entryID string) (io.ReadCloser, error)
	MoldFDWrite func(entryID string) (io.WriteCloser, error)

	// PluginFinished is called once, in reverse registration order, by
	// instance teardown (spec.md §6 "instance_destroy").
	PluginFinished func() error
}

// RegisterFunc is the plugin ABI entry point (spec.md's
// "dio_register_plugin(instance, plugin_name)"): a plugin calls back
// into the core via reg to enqueue one or more Records.
type RegisterFunc func(reg *Registrar, pluginName string) error

// Registrar is the callback surface a RegisterFunc uses to enqueue
// Records into a Registry during plugin registration.
type Registrar struct {
	registry *Registry
}

// NewRegistrar returns a Registrar that enqueues into registry. Instance
// construction (pkg/core/instance) is the only caller that should need
// this directly; a RegisterFunc receives its Registrar as an argument.
func NewRegistrar(registry *Registry) *Registrar {
	return &Registrar{registry: registry}
}

// Register enqueues rec into the registry backing this Registrar.
func (r *Registrar) Register(rec Record) error {
	return r.registry.add(rec)
}

// Registry holds every registered Record, keyed by group id for
// dispatch and also in a flat registration-order slice for teardown.
type Registry struct {
	byGroup map[string][]*Record
	ordered []*Record
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{byGroup: make(map[string][]*Record)}
}

func (r *Registry) add(rec Record) error {
	if rec.GroupID == "" {
		return status.New(status.InvalidArgument, "plugin record must declare a group id")
	}
	stored := rec
	r.byGroup[rec.GroupID] = append(r.byGroup[rec.GroupID], &stored)
	r.ordered = append(r.ordered, &stored)
	return nil
}

// Lookup resolves the first Record registered under groupID, or
// status.GroupMissing if none was registered.
func (r *Registry) Lookup(groupID string) (*Record, error) {
	recs, ok := r.byGroup[groupID]
	if !ok || len(recs) == 0 {
		return nil, status.New(status.GroupMissing, "no plugin registered for group %q", groupID)
	}
	return recs[0], nil
}

// Groups returns every distinct group id with at least one registered
// Record, in first-registration order.
func (r *Registry) Groups() []string {
	seen := make(map[string]bool)
	var out []string
	for _, rec := range r.ordered {
		if !seen[rec.GroupID] {
			seen[rec.GroupID] = true
			out = append(out, rec.GroupID)
		}
	}
	return out
}

// Ordered returns every registered Record in registration order.
func (r *Registry) Ordered() []*Record { return r.ordered }

// ConfigRead dispatches config_read to the backend registered under
// groupID.
func (r *Registry) ConfigRead(groupID, entryID string, mold *dctx.Context) (*dctx.Context, error) {
	rec, err := r.Lookup(groupID)
	if err != nil {
		return nil, err
	}
	if rec.ConfigRead == nil {
		return nil, status.New(status.NotSupported, "group %q does not support config_read", groupID)
	}
	return rec.ConfigRead(entryID, mold)
}

// ConfigWrite dispatches config_write to the backend registered under
// groupID.
func (r *Registry) ConfigWrite(groupID, entryID string, cfg *dctx.Context) error {
	rec, err := r.Lookup(groupID)
	if err != nil {
		return err
	}
	if rec.ConfigWrite == nil {
		return status.New(status.NotSupported, "group %q does not support config_write", groupID)
	}
	return rec.ConfigWrite(entryID, cfg)
}

// ConfigEntries dispatches config_entries to the backend registered
// under groupID.
func (r *Registry) ConfigEntries(groupID string) ([]string, error) {
	rec, err := r.Lookup(groupID)
	if err != nil {
		return nil, err
	}
	if rec.ConfigEntries == nil {
		return nil, status.New(status.NotSupported, "group %q does not support config_entries", groupID)
	}
	return rec.ConfigEntries()
}

// MoldRead dispatches mold_read to the backend registered under
// groupID.
func (r *Registry) MoldRead(groupID, entryID string) (*dctx.Context, error) {
	rec, err := r.Lookup(groupID)
	if err != nil {
		return nil, err
	}
	if rec.MoldRead == nil {
		return nil, status.New(status.NotSupported, "group %q does not support mold_read", groupID)
	}
	return rec.MoldRead(entryID)
}

// MoldWrite dispatches mold_write to the backend registered under
// groupID.
func (r *Registry) MoldWrite(groupID, entryID string, mold *dctx.Context) error {
	rec, err := r.Lookup(groupID)
	if err != nil {
		return err
	}
	if rec.MoldWrite == nil {
		return status.New(status.NotSupported, "group %q does not support mold_write", groupID)
	}
	return rec.MoldWrite(entryID, mold)
}
