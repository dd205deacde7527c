package fsplugin_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/veeg-labs/disir-go/pkg/adapter/fsplugin"
	"github.com/veeg-labs/disir-go/pkg/core/config"
	"github.com/veeg-labs/disir-go/pkg/core/dctx"
	"github.com/veeg-labs/disir-go/pkg/core/mold"
	"github.com/veeg-labs/disir-go/pkg/core/model"
	"github.com/veeg-labs/disir-go/pkg/core/plugin"
)

func buildThreadsMold(t *testing.T) *dctx.Context {
	t.Helper()
	m := mold.Begin()
	_, err := mold.AddKeyvalInteger(m, "threads", 4, "worker pool size", model.Default())
	require.NoError(t, err)
	worker, err := mold.BeginSection(m, "worker")
	require.NoError(t, err)
	_, err = mold.AddKeyvalString(worker, "host", "localhost", "bind address", model.Default())
	require.NoError(t, err)
	require.NoError(t, dctx.Finalize(worker))
	require.NoError(t, mold.Finalize(m))
	require.False(t, m.Invalid())
	return m
}

func registerBackend(t *testing.T, dir, groupID string) *plugin.Registry {
	t.Helper()
	registry := plugin.NewRegistry()
	backend := fsplugin.NewBackend(dir)
	require.NoError(t, backend.Register(groupID, "/etc/disir/"+groupID, "/usr/share/disir/"+groupID)(plugin.NewRegistrar(registry), groupID))
	return registry
}

func TestMoldRoundTripThroughFilesystem(t *testing.T) {
	dir := t.TempDir()
	registry := registerBackend(t, dir, "app")
	m := buildThreadsMold(t)

	rec, err := registry.Lookup("app")
	require.NoError(t, err)
	require.NoError(t, rec.MoldWrite("base", m))

	loaded, err := rec.MoldRead("base")
	require.NoError(t, err)
	assert.False(t, loaded.Invalid())

	kv, ok := loaded.FindChild("threads")
	require.True(t, ok)
	d, err := kv.ActiveDefault(model.Default())
	require.NoError(t, err)
	assert.Equal(t, int64(4), d.Value.GetInteger())

	sect, ok := loaded.FindChild("worker")
	require.True(t, ok)
	host, ok := sect.FindChild("host")
	require.True(t, ok)
	hd, err := host.ActiveDefault(model.Default())
	require.NoError(t, err)
	assert.Equal(t, "localhost", hd.Value.GetString())

	entries, err := rec.MoldEntries()
	require.NoError(t, err)
	assert.Equal(t, []string{"base"}, entries)
}

func TestConfigRoundTripThroughFilesystem(t *testing.T) {
	dir := t.TempDir()
	registry := registerBackend(t, dir, "app")
	m := buildThreadsMold(t)

	cfg, err := config.Begin(m)
	require.NoError(t, err)
	require.NoError(t, dctx.SetVersion(cfg, model.Default()))
	_, err = config.AddKeyvalInteger(cfg, "threads", 16)
	require.NoError(t, err)
	sect, err := config.BeginSection(cfg, "worker")
	require.NoError(t, err)
	_, err = config.AddKeyvalString(sect, "host", "0.0.0.0")
	require.NoError(t, err)
	require.NoError(t, dctx.Finalize(sect))
	require.NoError(t, config.Finalize(cfg))

	rec, err := registry.Lookup("app")
	require.NoError(t, err)
	require.NoError(t, rec.ConfigWrite("entry-1", cfg))

	ok, err := rec.ConfigQuery("entry-1")
	require.NoError(t, err)
	assert.True(t, ok)

	loaded, err := rec.ConfigRead("entry-1", m)
	require.NoError(t, err)
	assert.False(t, loaded.Invalid())

	kv, found := loaded.FindChild("threads")
	require.True(t, found)
	assert.Equal(t, int64(16), kv.Value().GetInteger())

	loadedSect, found := loaded.FindChild("worker")
	require.True(t, found)
	host, found := loadedSect.FindChild("host")
	require.True(t, found)
	assert.Equal(t, "0.0.0.0", host.Value().GetString())
}

func TestConfigFDWriteThenFDReadRoundTripsRawBytes(t *testing.T) {
	dir := t.TempDir()
	registry := registerBackend(t, dir, "app")

	rec, err := registry.Lookup("app")
	require.NoError(t, err)

	w, err := rec.ConfigFDWrite("entry-2")
	require.NoError(t, err)
	_, err = w.Write([]byte(`{"version":"1.0","root":[]}`))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	r, err := rec.ConfigFDRead("entry-2")
	require.NoError(t, err)
	defer r.Close()
	buf := make([]byte, 64)
	n, _ := r.Read(buf)
	assert.Contains(t, string(buf[:n]), "version")
}
