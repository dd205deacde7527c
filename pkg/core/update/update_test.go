package update_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/veeg-labs/disir-go/pkg/core/config"
	"github.com/veeg-labs/disir-go/pkg/core/dctx"
	"github.com/veeg-labs/disir-go/pkg/core/model"
	"github.com/veeg-labs/disir-go/pkg/core/status"
	"github.com/veeg-labs/disir-go/pkg/core/update"
)

// buildThreadsMold builds a mold with an INTEGER keyval "threads"
// defaulting to 4 at 1.0 and 8 at 2.0, matching spec.md's Scenario A/B
// fixture.
func buildThreadsMold(t *testing.T) *dctx.Context {
	t.Helper()
	m := dctx.BeginMold()
	kv, err := dctx.Begin(m, dctx.TagKeyval)
	require.NoError(t, err)
	require.NoError(t, dctx.SetName(kv, "threads"))
	require.NoError(t, dctx.SetValueType(kv, model.Integer))

	d1, err := dctx.Begin(kv, dctx.TagDefault)
	require.NoError(t, err)
	require.NoError(t, dctx.AddIntroduced(d1, model.Version{Major: 1, Minor: 0}))
	var v4 model.Value
	v4.SetInteger(4)
	require.NoError(t, dctx.SetDefaultValue(d1, v4))
	require.NoError(t, dctx.Finalize(d1))

	d2, err := dctx.Begin(kv, dctx.TagDefault)
	require.NoError(t, err)
	require.NoError(t, dctx.AddIntroduced(d2, model.Version{Major: 2, Minor: 0}))
	var v8 model.Value
	v8.SetInteger(8)
	require.NoError(t, dctx.SetDefaultValue(d2, v8))
	require.NoError(t, dctx.Finalize(d2))

	require.NoError(t, dctx.Finalize(kv))
	require.NoError(t, dctx.Finalize(m))
	require.False(t, m.Invalid())
	return m
}

func buildThreadsConfig(t *testing.T, mold *dctx.Context, value int64) *dctx.Context {
	t.Helper()
	cfg, err := config.Begin(mold)
	require.NoError(t, err)
	require.NoError(t, dctx.SetVersion(cfg, model.Version{Major: 1, Minor: 0}))
	_, err = config.AddKeyvalInteger(cfg, "threads", value)
	require.NoError(t, err)
	require.NoError(t, config.Finalize(cfg))
	return cfg
}

// TestScenarioAFollowsMoldWhenUnchanged mirrors spec.md Scenario A: a
// config value that still matches the old active default is silently
// carried forward to the new one, with no conflict raised.
func TestScenarioAFollowsMoldWhenUnchanged(t *testing.T) {
	m := buildThreadsMold(t)
	cfg := buildThreadsConfig(t, m, 4)

	u, err := update.Begin(cfg, nil)
	require.NoError(t, err)
	assert.True(t, u.Finished())
	assert.False(t, u.InConflict())

	kv, ok := cfg.FindChild("threads")
	require.True(t, ok)
	assert.Equal(t, int64(8), kv.Value().GetInteger())
	assert.Equal(t, model.Version{Major: 2, Minor: 0}, cfg.Version())
	assert.Len(t, u.ChangeLog(), 1)
}

// TestScenarioBConflictKeep mirrors spec.md Scenario B, resolving the
// conflict by keeping the user's customized value.
func TestScenarioBConflictKeep(t *testing.T) {
	m := buildThreadsMold(t)
	cfg := buildThreadsConfig(t, m, 16)

	u, err := update.Begin(cfg, nil)
	require.NoError(t, err)
	require.True(t, u.InConflict())

	c, ok := u.Conflict()
	require.True(t, ok)
	assert.Equal(t, "threads", c.Name)
	assert.Equal(t, "16", c.ConfigValue)
	assert.Equal(t, "8", c.MoldValue)

	require.NoError(t, update.Resolve(u, update.Keep))
	require.NoError(t, update.Continue(u))
	assert.True(t, u.Finished())

	kv, ok := cfg.FindChild("threads")
	require.True(t, ok)
	assert.Equal(t, int64(16), kv.Value().GetInteger())
	assert.Equal(t, model.Version{Major: 2, Minor: 0}, cfg.Version())
}

// TestScenarioBConflictDiscard mirrors spec.md Scenario B's discard
// resolution: the mold's new default wins over the user's old value.
func TestScenarioBConflictDiscard(t *testing.T) {
	m := buildThreadsMold(t)
	cfg := buildThreadsConfig(t, m, 16)

	u, err := update.Begin(cfg, nil)
	require.NoError(t, err)
	require.True(t, u.InConflict())

	require.NoError(t, update.Resolve(u, update.Discard))
	require.NoError(t, update.Continue(u))
	assert.True(t, u.Finished())

	kv, ok := cfg.FindChild("threads")
	require.True(t, ok)
	assert.Equal(t, int64(8), kv.Value().GetInteger())
}

// TestRunKeepAllDrivesEveryConflict exercises the auto-keep convenience
// variant end to end.
func TestRunKeepAllDrivesEveryConflict(t *testing.T) {
	m := buildThreadsMold(t)
	cfg := buildThreadsConfig(t, m, 16)

	u, err := update.Begin(cfg, nil)
	require.NoError(t, err)
	require.NoError(t, update.RunKeepAll(u))
	assert.True(t, u.Finished())

	kv, ok := cfg.FindChild("threads")
	require.True(t, ok)
	assert.Equal(t, int64(16), kv.Value().GetInteger())
}

// TestBeginRejectsEqualVersions matches §4.8's "equal versions return
// NO_CAN_DO" failure semantics.
func TestBeginRejectsEqualVersions(t *testing.T) {
	m := buildThreadsMold(t)
	cfg, err := config.Begin(m)
	require.NoError(t, err)
	require.NoError(t, dctx.SetVersion(cfg, model.Version{Major: 2, Minor: 0}))
	_, err = config.AddKeyvalInteger(cfg, "threads", 8)
	require.NoError(t, err)
	require.NoError(t, config.Finalize(cfg))

	_, err = update.Begin(cfg, nil)
	require.Error(t, err)
	assert.Equal(t, status.NoCanDo, status.Of(err))
}

// TestBeginRejectsHigherSourceVersion matches §4.8's "A > B returns
// CONFLICTING_SEMVER" failure semantics.
func TestBeginRejectsHigherSourceVersion(t *testing.T) {
	m := buildThreadsMold(t)
	cfg, err := config.Begin(m)
	require.NoError(t, err)
	require.NoError(t, dctx.SetVersion(cfg, model.Version{Major: 2, Minor: 0}))
	_, err = config.AddKeyvalInteger(cfg, "threads", 8)
	require.NoError(t, err)
	require.NoError(t, config.Finalize(cfg))

	older := model.Version{Major: 1, Minor: 0}
	_, err = update.Begin(cfg, &older)
	require.Error(t, err)
	assert.Equal(t, status.ConflictingSemver, status.Of(err))
}
