// Package archivefs is the real-world Container/Stager pair the core
// pkg/core/archive package defers to (SPEC_FULL.md §4.11.a): a tar
// stream, xz-compressed, carrying a TOML metadata header plus one file
// per archived entry — and a filesystem-backed Stager for archives too
// large to hold entirely in memory.
package archivefs

import (
	"archive/tar"
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/google/uuid"
	"github.com/ulikunitz/xz"
	"github.com/veeg-labs/disir-go/pkg/core/archive"
	"github.com/veeg-labs/disir-go/pkg/core/status"
)

const (
	metadataName = "metadata.toml"
	indexName    = "entries.toml"
)

// tomlIndexEntry is one entries.toml row: which staged (group, entryID)
// pair a tar member holds, preserving the order entries were packed in.
type tomlIndexEntry struct {
	Group   string `toml:"group"`
	EntryID string `toml:"entry_id"`
	File    string `toml:"file"`
}

type tomlIndex struct {
	Entries []tomlIndexEntry `toml:"entries"`
}

// Container packs/unpacks archives as xz-compressed tar streams with a
// metadata.toml and entries.toml header, per SPEC_FULL.md §4.11.a.
type Container struct{}

// NewContainer returns the tar+xz+toml Container.
func NewContainer() *Container { return &Container{} }

// Pack implements archive.Container.
func (Container) Pack(meta archive.Metadata, entries []archive.Entry) ([]byte, error) {
	var metaBuf bytes.Buffer
	if err := toml.NewEncoder(&metaBuf).Encode(meta); err != nil {
		return nil, status.Wrap(status.InternalError, err)
	}

	idx := tomlIndex{}
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = entryFileName(e)
		idx.Entries = append(idx.Entries, tomlIndexEntry{
			Group:   e.Group,
			EntryID: e.EntryID,
			File:    names[i],
		})
	}
	var idxBuf bytes.Buffer
	if err := toml.NewEncoder(&idxBuf).Encode(idx); err != nil {
		return nil, status.Wrap(status.InternalError, err)
	}

	var out bytes.Buffer
	xw, err := xz.NewWriter(&out)
	if err != nil {
		return nil, status.Wrap(status.InternalError, err)
	}
	tw := tar.NewWriter(xw)

	if err := writeTarFile(tw, metadataName, metaBuf.Bytes()); err != nil {
		return nil, err
	}
	if err := writeTarFile(tw, indexName, idxBuf.Bytes()); err != nil {
		return nil, err
	}
	for i, e := range entries {
		if err := writeTarFile(tw, names[i], e.Data); err != nil {
			return nil, err
		}
	}

	if err := tw.Close(); err != nil {
		return nil, status.Wrap(status.InternalError, err)
	}
	if err := xw.Close(); err != nil {
		return nil, status.Wrap(status.InternalError, err)
	}
	return out.Bytes(), nil
}

// Unpack implements archive.Container.
func (Container) Unpack(data []byte) (archive.Metadata, []archive.Entry, error) {
	xr, err := xz.NewReader(bytes.NewReader(data))
	if err != nil {
		return archive.Metadata{}, nil, status.Wrap(status.LoadError, err)
	}
	tr := tar.NewReader(xr)

	files := make(map[string][]byte)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return archive.Metadata{}, nil, status.Wrap(status.LoadError, err)
		}
		buf, err := io.ReadAll(tr)
		if err != nil {
			return archive.Metadata{}, nil, status.Wrap(status.LoadError, err)
		}
		files[hdr.Name] = buf
	}

	metaBytes, ok := files[metadataName]
	if !ok {
		return archive.Metadata{}, nil, status.New(status.LoadError, "archive is missing %s", metadataName)
	}
	var meta archive.Metadata
	if _, err := toml.Decode(string(metaBytes), &meta); err != nil {
		return archive.Metadata{}, nil, status.Wrap(status.LoadError, err)
	}

	idxBytes, ok := files[indexName]
	if !ok {
		return archive.Metadata{}, nil, status.New(status.LoadError, "archive is missing %s", indexName)
	}
	var idx tomlIndex
	if _, err := toml.Decode(string(idxBytes), &idx); err != nil {
		return archive.Metadata{}, nil, status.Wrap(status.LoadError, err)
	}

	entries := make([]archive.Entry, 0, len(idx.Entries))
	for _, row := range idx.Entries {
		data, ok := files[row.File]
		if !ok {
			return archive.Metadata{}, nil, status.New(status.LoadError, "archive index references missing file %q", row.File)
		}
		entries = append(entries, archive.Entry{Group: row.Group, EntryID: row.EntryID, Data: data})
	}
	return meta, entries, nil
}

func writeTarFile(tw *tar.Writer, name string, data []byte) error {
	hdr := &tar.Header{Name: name, Size: int64(len(data)), Mode: 0o644}
	if err := tw.WriteHeader(hdr); err != nil {
		return status.Wrap(status.InternalError, err)
	}
	if _, err := tw.Write(data); err != nil {
		return status.Wrap(status.InternalError, err)
	}
	return nil
}

// entryFileName mints a unique tar member name for e, of the form
// entries/<group>-<entry>-<uuid>.bin. The group/entry
// id pair alone isn't guaranteed unique across an archive's lifetime
// (an entry can be re-staged under the same id), so each packed member
// gets a fresh uuid rather than reusing the caller-supplied identifiers
// as the on-disk name.
func entryFileName(e archive.Entry) string {
	g := sanitize(e.Group)
	id := sanitize(e.EntryID)
	return fmt.Sprintf("entries/%s-%s-%s.bin", g, id, uuid.NewString())
}

func sanitize(s string) string {
	return strings.NewReplacer("/", "_", "\\", "_", " ", "_").Replace(s)
}
