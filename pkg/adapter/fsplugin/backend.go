package fsplugin

import (
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/veeg-labs/disir-go/pkg/core/dctx"
	"github.com/veeg-labs/disir-go/pkg/core/plugin"
	"github.com/veeg-labs/disir-go/pkg/core/status"
)

// Backend is a filesystem-rooted plugin storage: one "config" and one
// "mold" subdirectory, each holding one JSON file per entry id.
type Backend struct {
	dir string
}

// NewBackend returns a Backend rooted at dir, which is created (along
// with its config/mold subdirectories) on first Register call.
func NewBackend(dir string) *Backend {
	return &Backend{dir: dir}
}

func (b *Backend) configDir() string { return filepath.Join(b.dir, "config") }
func (b *Backend) moldDir() string   { return filepath.Join(b.dir, "mold") }

func (b *Backend) configPath(entryID string) string {
	return filepath.Join(b.configDir(), entryID+".json")
}

func (b *Backend) moldPath(entryID string) string {
	return filepath.Join(b.moldDir(), entryID+".json")
}

// Register returns a plugin.RegisterFunc that enqueues one Record
// backed by b, under the given groupID/configBaseID/moldBaseID (spec.md
// §6's register_plugin fields).
func (b *Backend) Register(groupID, configBaseID, moldBaseID string) plugin.RegisterFunc {
	return func(reg *plugin.Registrar, pluginName string) error {
		if err := os.MkdirAll(b.configDir(), 0o755); err != nil {
			return status.Wrap(status.FSError, err)
		}
		if err := os.MkdirAll(b.moldDir(), 0o755); err != nil {
			return status.Wrap(status.FSError, err)
		}
		return reg.Register(plugin.Record{
			Name:         pluginName,
			Description:  "local filesystem JSON-backed plugin",
			Type:         "filesystem",
			Storage:      b.dir,
			GroupID:      groupID,
			ConfigBaseID: configBaseID,
			MoldBaseID:   moldBaseID,

			ConfigRead:    b.configRead,
			ConfigWrite:   b.configWrite,
			ConfigEntries: b.configEntries,
			ConfigQuery:   b.configQuery,
			ConfigFDRead:  b.configFDRead,
			ConfigFDWrite: b.configFDWrite,

			MoldRead:    b.moldRead,
			MoldWrite:   b.moldWrite,
			MoldEntries: b.moldEntries,
			MoldQuery:   b.moldQuery,
			MoldFDRead:  b.moldFDRead,
			MoldFDWrite: b.moldFDWrite,
		})
	}
}

func (b *Backend) configRead(entryID string, moldRoot *dctx.Context) (*dctx.Context, error) {
	data, err := os.ReadFile(b.configPath(entryID))
	if err != nil {
		return nil, status.Wrap(status.FSError, err)
	}
	var wc wireConfig
	if err := unmarshalJSON(data, &wc); err != nil {
		return nil, status.Wrap(status.ConfigInvalid, err)
	}
	return buildConfig(moldRoot, wc)
}

func (b *Backend) configWrite(entryID string, cfg *dctx.Context) error {
	wc := encodeConfigTree(cfg)
	data, err := marshalJSON(wc)
	if err != nil {
		return err
	}
	if err := os.WriteFile(b.configPath(entryID), data, 0o644); err != nil {
		return status.Wrap(status.FSError, err)
	}
	return nil
}

func (b *Backend) configEntries() ([]string, error) {
	return listEntries(b.configDir())
}

func (b *Backend) configQuery(entryID string) (bool, error) {
	return fileExists(b.configPath(entryID)), nil
}

func (b *Backend) configFDRead(entryID string) (io.ReadCloser, error) {
	f, err := os.Open(b.configPath(entryID))
	if err != nil {
		return nil, status.Wrap(status.FSError, err)
	}
	return f, nil
}

func (b *Backend) configFDWrite(entryID string) (io.WriteCloser, error) {
	f, err := os.Create(b.configPath(entryID))
	if err != nil {
		return nil, status.Wrap(status.FSError, err)
	}
	return f, nil
}

func (b *Backend) moldRead(entryID string) (*dctx.Context, error) {
	data, err := os.ReadFile(b.moldPath(entryID))
	if err != nil {
		return nil, status.Wrap(status.FSError, err)
	}
	var wm wireMold
	if err := unmarshalJSON(data, &wm); err != nil {
		return nil, status.Wrap(status.ConfigInvalid, err)
	}
	return buildMold(wm)
}

func (b *Backend) moldWrite(entryID string, moldRoot *dctx.Context) error {
	wm := encodeMoldTree(moldRoot)
	data, err := marshalJSON(wm)
	if err != nil {
		return err
	}
	if err := os.WriteFile(b.moldPath(entryID), data, 0o644); err != nil {
		return status.Wrap(status.FSError, err)
	}
	return nil
}

func (b *Backend) moldEntries() ([]string, error) {
	return listEntries(b.moldDir())
}

func (b *Backend) moldQuery(entryID string) (bool, error) {
	return fileExists(b.moldPath(entryID)), nil
}

func (b *Backend) moldFDRead(entryID string) (io.ReadCloser, error) {
	f, err := os.Open(b.moldPath(entryID))
	if err != nil {
		return nil, status.Wrap(status.FSError, err)
	}
	return f, nil
}

func (b *Backend) moldFDWrite(entryID string) (io.WriteCloser, error) {
	f, err := os.Create(b.moldPath(entryID))
	if err != nil {
		return nil, status.Wrap(status.FSError, err)
	}
	return f, nil
}

func listEntries(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, status.Wrap(status.FSError, err)
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		out = append(out, strings.TrimSuffix(e.Name(), ".json"))
	}
	sort.Strings(out)
	return out, nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
