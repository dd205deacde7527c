package archive_test

import (
	"bytes"
	"encoding/gob"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/veeg-labs/disir-go/pkg/core/archive"
	"github.com/veeg-labs/disir-go/pkg/core/config"
	"github.com/veeg-labs/disir-go/pkg/core/dctx"
	"github.com/veeg-labs/disir-go/pkg/core/model"
	"github.com/veeg-labs/disir-go/pkg/core/plugin"
	"github.com/veeg-labs/disir-go/pkg/core/status"
)

// gobContainer is a minimal Container used only to exercise the
// archive package's own orchestration; pkg/adapter/archivefs supplies
// the real tar+xz+toml one.
type gobContainer struct{}

type wireEnvelope struct {
	Meta    archive.Metadata
	Entries []archive.Entry
}

func (gobContainer) Pack(meta archive.Metadata, entries []archive.Entry) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(wireEnvelope{Meta: meta, Entries: entries}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (gobContainer) Unpack(data []byte) (archive.Metadata, []archive.Entry, error) {
	var env wireEnvelope
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&env); err != nil {
		return archive.Metadata{}, nil, err
	}
	return env.Meta, env.Entries, nil
}

// memBackend is a minimal plugin backend that round-trips a config
// through an in-memory byte map, standing in for a real filesystem
// plugin in these tests.
type memBackend struct {
	mold  *dctx.Context
	store map[string][]byte
}

func newMemBackend(m *dctx.Context) *memBackend {
	return &memBackend{mold: m, store: make(map[string][]byte)}
}

func (b *memBackend) register(groupID string) plugin.RegisterFunc {
	return func(reg *plugin.Registrar, name string) error {
		return reg.Register(plugin.Record{
			Name:    name,
			GroupID: groupID,
			Type:    "mem",
			ConfigWrite: func(entryID string, cfg *dctx.Context) error {
				b.store[entryID] = encodeConfig(cfg)
				return nil
			},
			ConfigFDRead: func(entryID string) (io.ReadCloser, error) {
				data, ok := b.store[entryID]
				if !ok {
					return nil, status.New(status.NotExist, "no entry %q", entryID)
				}
				return io.NopCloser(bytes.NewReader(data)), nil
			},
			ConfigFDWrite: func(entryID string) (io.WriteCloser, error) {
				return &memWriter{entryID: entryID, backend: b}, nil
			},
			ConfigRead: func(entryID string, mold *dctx.Context) (*dctx.Context, error) {
				data, ok := b.store[entryID]
				if !ok {
					return nil, status.New(status.NotExist, "no entry %q", entryID)
				}
				return decodeConfig(data, mold)
			},
		})
	}
}

type memWriter struct {
	entryID string
	backend *memBackend
	buf     bytes.Buffer
}

func (w *memWriter) Write(p []byte) (int, error) { return w.buf.Write(p) }
func (w *memWriter) Close() error {
	w.backend.store[w.entryID] = append([]byte(nil), w.buf.Bytes()...)
	return nil
}

// encodeConfig/decodeConfig stand in for a real wire codec: they carry
// just enough (version + threads value) for these tests.
type wireConfig struct {
	Major, Minor uint
	Threads      int64
}

func encodeConfig(cfg *dctx.Context) []byte {
	kv, _ := cfg.FindChild("threads")
	var buf bytes.Buffer
	v := cfg.Version()
	_ = gob.NewEncoder(&buf).Encode(wireConfig{Major: v.Major, Minor: v.Minor, Threads: kv.Value().GetInteger()})
	return buf.Bytes()
}

func decodeConfig(data []byte, mold *dctx.Context) (*dctx.Context, error) {
	var wc wireConfig
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&wc); err != nil {
		return nil, err
	}
	cfg, err := config.Begin(mold)
	if err != nil {
		return nil, err
	}
	if err := dctx.SetVersion(cfg, model.Version{Major: wc.Major, Minor: wc.Minor}); err != nil {
		return nil, err
	}
	if _, err := config.AddKeyvalInteger(cfg, "threads", wc.Threads); err != nil {
		return nil, err
	}
	if err := config.Finalize(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

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
	return m
}

func buildThreadsConfig(t *testing.T, m *dctx.Context, version model.Version, value int64) *dctx.Context {
	t.Helper()
	cfg, err := config.Begin(m)
	require.NoError(t, err)
	require.NoError(t, dctx.SetVersion(cfg, version))
	_, err = config.AddKeyvalInteger(cfg, "threads", value)
	require.NoError(t, err)
	require.NoError(t, config.Finalize(cfg))
	return cfg
}

func TestAppendFinalizeRoundTrip(t *testing.T) {
	m := buildThreadsMold(t)
	cfg := buildThreadsConfig(t, m, model.Version{Major: 2, Minor: 0}, 8)

	registry := plugin.NewRegistry()
	backend := newMemBackend(m)
	require.NoError(t, mustRegister(registry, "app", backend.register("app")))

	ar := archive.New(archive.NewMemStager(), gobContainer{}, registry, "1.0", "test-org")
	require.NoError(t, ar.AppendConfig("app", "entry-1", cfg))

	packed, err := ar.Finalize()
	require.NoError(t, err)
	assert.NotEmpty(t, packed)
}

func TestImportClassifiesOKConflictAndConflictingSemver(t *testing.T) {
	m := buildThreadsMold(t)
	registry := plugin.NewRegistry()
	backend := newMemBackend(m)
	require.NoError(t, mustRegister(registry, "app", backend.register("app")))

	stager := archive.NewMemStager()
	ar := archive.New(stager, gobContainer{}, registry, "1.0", "test-org")

	okCfg := buildThreadsConfig(t, m, model.Version{Major: 1, Minor: 0}, 4) // matches default at 1.0, clean migration
	conflictCfg := buildThreadsConfig(t, m, model.Version{Major: 1, Minor: 0}, 16)
	semverCfg, err := config.Begin(m)
	require.NoError(t, err)
	require.NoError(t, dctx.SetVersion(semverCfg, model.Version{Major: 9, Minor: 0}))
	_, err = config.AddKeyvalInteger(semverCfg, "threads", 1)
	require.NoError(t, err)
	// A config newer than its mold finalizes as invalid but is still archived.
	assert.Equal(t, status.InvalidContext, status.Of(config.Finalize(semverCfg)))

	require.NoError(t, ar.AppendConfig("app", "ok-entry", okCfg))
	require.NoError(t, ar.AppendConfig("app", "conflict-entry", conflictCfg))
	require.NoError(t, ar.AppendConfig("app", "semver-entry", semverCfg))

	packed, err := ar.Finalize()
	require.NoError(t, err)

	report, err := archive.Import(gobContainer{}, registry, packed, "1.0", "test-org", func(group string) (*dctx.Context, error) {
		return m, nil
	})
	require.NoError(t, err)
	require.Len(t, report.Entries, 3)

	byID := make(map[string]*archive.ImportedEntry)
	for _, e := range report.Entries {
		byID[e.EntryID] = e
	}
	assert.Equal(t, archive.StatusOK, byID["ok-entry"].Status)
	assert.Equal(t, archive.StatusConflict, byID["conflict-entry"].Status)
	assert.Equal(t, archive.StatusConflictingSemver, byID["semver-entry"].Status)
}

func TestImportRejectsMismatchedOrgVersion(t *testing.T) {
	m := buildThreadsMold(t)
	registry := plugin.NewRegistry()
	backend := newMemBackend(m)
	require.NoError(t, mustRegister(registry, "app", backend.register("app")))
	stager := archive.NewMemStager()
	ar := archive.New(stager, gobContainer{}, registry, "1.0", "test-org")
	cfg := buildThreadsConfig(t, m, model.Version{Major: 1, Minor: 0}, 4)
	require.NoError(t, ar.AppendConfig("app", "e", cfg))
	packed, err := ar.Finalize()
	require.NoError(t, err)

	_, err = archive.Import(gobContainer{}, registry, packed, "1.0", "other-org", func(string) (*dctx.Context, error) { return m, nil })
	require.Error(t, err)
	assert.Equal(t, status.LoadError, status.Of(err))
}

func TestResolveConflictWithUpdateKeepsUserValue(t *testing.T) {
	m := buildThreadsMold(t)
	registry := plugin.NewRegistry()
	backend := newMemBackend(m)
	require.NoError(t, mustRegister(registry, "app", backend.register("app")))
	stager := archive.NewMemStager()
	ar := archive.New(stager, gobContainer{}, registry, "1.0", "test-org")

	conflictCfg := buildThreadsConfig(t, m, model.Version{Major: 1, Minor: 0}, 16)
	require.NoError(t, ar.AppendConfig("app", "entry", conflictCfg))
	packed, err := ar.Finalize()
	require.NoError(t, err)

	report, err := archive.Import(gobContainer{}, registry, packed, "1.0", "test-org", func(string) (*dctx.Context, error) { return m, nil })
	require.NoError(t, err)
	entry := report.Entries[0]
	require.Equal(t, archive.StatusConflict, entry.Status)

	require.NoError(t, archive.Resolve(entry, archive.ResolutionUpdate))
	require.NoError(t, archive.ApplyResolutions(report, registry))
	assert.True(t, entry.Applied())

	kv, ok := entry.Config().FindChild("threads")
	require.True(t, ok)
	assert.Equal(t, int64(16), kv.Value().GetInteger())
}

func TestResolveDiscardSkipsApply(t *testing.T) {
	m := buildThreadsMold(t)
	registry := plugin.NewRegistry()
	backend := newMemBackend(m)
	require.NoError(t, mustRegister(registry, "app", backend.register("app")))
	stager := archive.NewMemStager()
	ar := archive.New(stager, gobContainer{}, registry, "1.0", "test-org")

	cfg := buildThreadsConfig(t, m, model.Version{Major: 1, Minor: 0}, 4)
	require.NoError(t, ar.AppendConfig("app", "entry", cfg))
	packed, err := ar.Finalize()
	require.NoError(t, err)

	report, err := archive.Import(gobContainer{}, registry, packed, "1.0", "test-org", func(string) (*dctx.Context, error) { return m, nil })
	require.NoError(t, err)
	entry := report.Entries[0]

	require.NoError(t, archive.Resolve(entry, archive.ResolutionDiscard))
	require.NoError(t, archive.ApplyResolutions(report, registry))
	assert.False(t, entry.Applied())
}

func mustRegister(registry *plugin.Registry, groupID string, fn plugin.RegisterFunc) error {
	return fn(plugin.NewRegistrar(registry), groupID)
}
