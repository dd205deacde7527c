// Package archive implements spec.md §4.11 and SPEC_FULL.md §4.11.a:
// bundling multiple configs into a backend-agnostic archive. Packing
// and unpacking raw bytes is delegated to a Container implementation
// (pkg/adapter/archivefs supplies the real tar+xz one) so this package
// never touches tar/xz bytes directly, matching the original's
// stage-then-pack framing.
package archive

import (
	"io"

	"github.com/veeg-labs/disir-go/pkg/core/dctx"
	"github.com/veeg-labs/disir-go/pkg/core/plugin"
	"github.com/veeg-labs/disir-go/pkg/core/status"
)

// EntryRef names one staged entry by its group and entry id.
type EntryRef struct {
	Group   string
	EntryID string
}

// Entry is one packed or unpacked archive entry: the serialized bytes a
// plugin produced for one config, plus which group/entry id it belongs
// to.
type Entry struct {
	Group   string
	EntryID string
	Data    []byte
}

// Metadata is the archive-wide header: the implementation version that
// packed it, the org (caller-defined schema generation) version it
// expects on import, and which backend type handled each group.
type Metadata struct {
	ImplementationVersion string
	OrgVersion            string
	Backends              map[string]string
}

// Stager accumulates entries in a scratch area before they are packed,
// and gives import access to unpacked entries before they are resolved
// into configs. The default in-memory implementation (NewMemStager) is
// sufficient for tests and small archives; a filesystem-backed Stager
// lives in pkg/adapter/archivefs for large ones.
type Stager interface {
	Put(group, entryID string, data []byte) error
	Get(group, entryID string) ([]byte, error)
	List() []EntryRef
}

// Container packs a Metadata header plus a set of Entries into a single
// byte stream, and reverses that operation on import. pkg/adapter/
// archivefs implements this over archive/tar and ulikunitz/xz with a
// BurntSushi/toml-encoded metadata.toml/entries.toml pair, matching the
// original implementation's on-disk layout (§4.11.a).
type Container interface {
	Pack(meta Metadata, entries []Entry) ([]byte, error)
	Unpack(data []byte) (Metadata, []Entry, error)
}

// Archive accumulates configs to export, or holds unpacked entries
// pending import resolution.
type Archive struct {
	stager    Stager
	container Container
	registry  *plugin.Registry
	meta      Metadata
}

// New starts a fresh archive (or one resumed from an existing Stager)
// that will dispatch plugin operations through registry and pack/unpack
// through container.
func New(stager Stager, container Container, registry *plugin.Registry, implVersion, orgVersion string) *Archive {
	return &Archive{
		stager:    stager,
		container: container,
		registry:  registry,
		meta: Metadata{
			ImplementationVersion: implVersion,
			OrgVersion:            orgVersion,
			Backends:              make(map[string]string),
		},
	}
}

// AppendConfig serializes cfg via the groupID backend's config_write/
// config_fd_read operations (the plugin round-trips the config through
// its own storage so the archive captures exactly the bytes a restore
// would read back) and stages the result under (groupID, entryID).
func (a *Archive) AppendConfig(groupID, entryID string, cfg *dctx.Context) error {
	rec, err := a.registry.Lookup(groupID)
	if err != nil {
		return err
	}
	if rec.ConfigWrite == nil || rec.ConfigFDRead == nil {
		return status.New(status.NotSupported, "group %q cannot serialize configs for archiving", groupID)
	}
	if err := rec.ConfigWrite(entryID, cfg); err != nil {
		return err
	}
	rc, err := rec.ConfigFDRead(entryID)
	if err != nil {
		return err
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return status.Wrap(status.FSError, err)
	}
	a.meta.Backends[groupID] = rec.Type
	return a.stager.Put(groupID, entryID, data)
}

// AppendGroup appends every config in configs (keyed by entry id) under
// groupID.
func (a *Archive) AppendGroup(groupID string, configs map[string]*dctx.Context) error {
	for entryID, cfg := range configs {
		if err := a.AppendConfig(groupID, entryID, cfg); err != nil {
			return err
		}
	}
	return nil
}

// Finalize packs every staged entry plus the archive's metadata into a
// single byte stream via the Container.
func (a *Archive) Finalize() ([]byte, error) {
	refs := a.stager.List()
	entries := make([]Entry, 0, len(refs))
	for _, ref := range refs {
		data, err := a.stager.Get(ref.Group, ref.EntryID)
		if err != nil {
			return nil, err
		}
		entries = append(entries, Entry{Group: ref.Group, EntryID: ref.EntryID, Data: data})
	}
	return a.container.Pack(a.meta, entries)
}
