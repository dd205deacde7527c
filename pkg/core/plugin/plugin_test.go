package plugin_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/veeg-labs/disir-go/pkg/core/dctx"
	"github.com/veeg-labs/disir-go/pkg/core/plugin"
	"github.com/veeg-labs/disir-go/pkg/core/status"
)

func registerFilesystemPlugin(reg *plugin.Registrar, name string) error {
	return reg.Register(plugin.Record{
		Name:    name,
		GroupID: "fs",
		Type:    "filesystem",
		MoldRead: func(entryID string) (*dctx.Context, error) {
			m := dctx.BeginMold()
			return m, dctx.Finalize(m)
		},
	})
}

func TestRegistryDispatchesToRegisteredGroup(t *testing.T) {
	registry := plugin.NewRegistry()
	reg := plugin.NewRegistrar(registry)
	require.NoError(t, registerFilesystemPlugin(reg, "fs-plugin"))

	m, err := registry.MoldRead("fs", "entry-1")
	require.NoError(t, err)
	assert.False(t, m.Invalid())

	_, err = registry.MoldRead("missing-group", "entry-1")
	require.Error(t, err)
	assert.Equal(t, status.GroupMissing, status.Of(err))

	_, err = registry.ConfigRead("fs", "entry-1", m)
	require.Error(t, err)
	assert.Equal(t, status.NotSupported, status.Of(err))
}

func TestGroupsReturnsFirstRegistrationOrder(t *testing.T) {
	registry := plugin.NewRegistry()
	reg := plugin.NewRegistrar(registry)
	require.NoError(t, reg.Register(plugin.Record{GroupID: "b"}))
	require.NoError(t, reg.Register(plugin.Record{GroupID: "a"}))
	require.NoError(t, reg.Register(plugin.Record{GroupID: "b"}))

	assert.Equal(t, []string{"b", "a"}, registry.Groups())
	assert.Len(t, registry.Ordered(), 3)
}
