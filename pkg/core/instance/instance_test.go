package instance_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/veeg-labs/disir-go/pkg/core/instance"
	"github.com/veeg-labs/disir-go/pkg/core/plugin"
)

func TestDestroyCallsPluginFinishedInReverseOrder(t *testing.T) {
	var order []string
	register := func(name string) plugin.RegisterFunc {
		return func(reg *plugin.Registrar, pluginName string) error {
			return reg.Register(plugin.Record{
				Name:    name,
				GroupID: name,
				PluginFinished: func() error {
					order = append(order, name)
					return nil
				},
			})
		}
	}

	inst := instance.Create()
	require.NoError(t, inst.RegisterPlugin("first", register("first")))
	require.NoError(t, inst.RegisterPlugin("second", register("second")))
	require.NoError(t, inst.RegisterPlugin("third", register("third")))

	require.NoError(t, inst.Destroy(context.Background()))
	assert.Equal(t, []string{"third", "second", "first"}, order)
}

func TestPushErrorAccumulates(t *testing.T) {
	inst := instance.Create()
	inst.PushError("first problem")
	inst.PushError("second problem")
	assert.Equal(t, []string{"first problem", "second problem"}, inst.Errors())
}

func TestRegisterPluginRejectsNilFunc(t *testing.T) {
	inst := instance.Create()
	err := inst.RegisterPlugin("broken", nil)
	require.Error(t, err)
}
