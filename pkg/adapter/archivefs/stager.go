package archivefs

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/veeg-labs/disir-go/pkg/core/archive"
	"github.com/veeg-labs/disir-go/pkg/core/status"
)

// orderIndex is FSStager's sidecar record of staging order, since a
// directory listing alone does not preserve insertion order.
type orderIndex struct {
	Refs []archive.EntryRef `toml:"refs"`
}

// FSStager is a filesystem-backed archive.Stager: each staged entry is
// one file under dir, plus an order.toml sidecar recording staging
// order. Large archives should use this instead of archive.MemStager,
// which holds every entry's bytes in memory at once.
type FSStager struct {
	dir string
}

// NewFSStager returns an FSStager rooted at dir, creating it if needed.
func NewFSStager(dir string) (*FSStager, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, status.Wrap(status.FSError, err)
	}
	return &FSStager{dir: dir}, nil
}

func (s *FSStager) entryPath(group, entryID string) string {
	return filepath.Join(s.dir, sanitize(group)+"__"+sanitize(entryID)+".bin")
}

func (s *FSStager) indexPath() string { return filepath.Join(s.dir, "order.toml") }

func (s *FSStager) readIndex() (orderIndex, error) {
	var idx orderIndex
	data, err := os.ReadFile(s.indexPath())
	if os.IsNotExist(err) {
		return idx, nil
	}
	if err != nil {
		return idx, status.Wrap(status.FSError, err)
	}
	if _, err := toml.Decode(string(data), &idx); err != nil {
		return idx, status.Wrap(status.FSError, err)
	}
	return idx, nil
}

func (s *FSStager) writeIndex(idx orderIndex) error {
	data, err := marshalTOML(idx)
	if err != nil {
		return err
	}
	if err := os.WriteFile(s.indexPath(), data, 0o644); err != nil {
		return status.Wrap(status.FSError, err)
	}
	return nil
}

// Put implements archive.Stager.
func (s *FSStager) Put(group, entryID string, data []byte) error {
	if err := os.WriteFile(s.entryPath(group, entryID), data, 0o644); err != nil {
		return status.Wrap(status.FSError, err)
	}
	idx, err := s.readIndex()
	if err != nil {
		return err
	}
	ref := archive.EntryRef{Group: group, EntryID: entryID}
	for _, existing := range idx.Refs {
		if existing == ref {
			return nil
		}
	}
	idx.Refs = append(idx.Refs, ref)
	return s.writeIndex(idx)
}

// Get implements archive.Stager.
func (s *FSStager) Get(group, entryID string) ([]byte, error) {
	data, err := os.ReadFile(s.entryPath(group, entryID))
	if err != nil {
		return nil, status.Wrap(status.FSError, err)
	}
	return data, nil
}

// List implements archive.Stager.
func (s *FSStager) List() []archive.EntryRef {
	idx, err := s.readIndex()
	if err != nil {
		return nil
	}
	return idx.Refs
}

func marshalTOML(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(v); err != nil {
		return nil, status.Wrap(status.InternalError, err)
	}
	return buf.Bytes(), nil
}
