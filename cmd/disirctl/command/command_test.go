package command

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/veeg-labs/disir-go/pkg/adapter/archivefs"
	"github.com/veeg-labs/disir-go/pkg/adapter/fsplugin"
	"github.com/veeg-labs/disir-go/pkg/core/archive"
	"github.com/veeg-labs/disir-go/pkg/core/dctx"
	"github.com/veeg-labs/disir-go/pkg/core/mold"
	"github.com/veeg-labs/disir-go/pkg/core/model"
	"github.com/veeg-labs/disir-go/pkg/core/plugin"
)

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w
	fn()
	require.NoError(t, w.Close())
	os.Stdout = old
	out, err := io.ReadAll(r)
	require.NoError(t, err)
	return string(out)
}

func writeBootstrapFile(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "bootstrap.yaml")
	contents := `
plugins:
  - plugin_filepath: ` + dir + `
    io_id: app
    group_id: app
    config_base_id: base
    mold_base_id: base
`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func buildThreadsMold(t *testing.T) *dctx.Context {
	t.Helper()
	m := mold.Begin()
	_, err := mold.AddKeyvalInteger(m, "threads", 4, "worker pool size", model.Default())
	require.NoError(t, err)
	require.NoError(t, mold.Finalize(m))
	require.False(t, m.Invalid())
	return m
}

func TestMoldValidateReportsValidMold(t *testing.T) {
	storeDir := t.TempDir()
	registry := plugin.NewRegistry()
	backend := fsplugin.NewBackend(storeDir)
	require.NoError(t, backend.Register("app", "base", "base")(plugin.NewRegistrar(registry), "app"))
	rec, err := registry.Lookup("app")
	require.NoError(t, err)
	require.NoError(t, rec.MoldWrite("base", buildThreadsMold(t)))

	bootstrapPath = writeBootstrapFile(t, t.TempDir())
	rootCmd.SetArgs([]string{"mold", "validate", storeDir})
	out := captureStdout(t, func() {
		require.NoError(t, rootCmd.Execute())
	})
	assert.Contains(t, out, "is valid")
}

func TestArchiveListPrintsMetadataAndEntries(t *testing.T) {
	c := archivefs.NewContainer()
	packed, err := c.Pack(
		archive.Metadata{ImplementationVersion: "1.0", OrgVersion: "demo", Backends: map[string]string{"app": "filesystem"}},
		[]archive.Entry{{Group: "app", EntryID: "base", Data: []byte(`{"threads":4}`)}},
	)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "bundle.disirarchive")
	require.NoError(t, os.WriteFile(path, packed, 0o644))

	rootCmd.SetArgs([]string{"archive", "list", path})
	out := captureStdout(t, func() {
		require.NoError(t, rootCmd.Execute())
	})
	assert.True(t, bytes.Contains([]byte(out), []byte("demo")))
	assert.True(t, bytes.Contains([]byte(out), []byte("base")))
}
