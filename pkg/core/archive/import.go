package archive

import (
	"errors"

	"github.com/veeg-labs/disir-go/pkg/core/dctx"
	"github.com/veeg-labs/disir-go/pkg/core/plugin"
	"github.com/veeg-labs/disir-go/pkg/core/status"
	"github.com/veeg-labs/disir-go/pkg/core/update"
	"github.com/veeg-labs/disir-go/pkg/core/validate"
)

// EntryStatus classifies one imported entry, per spec.md §4.11's
// five-way classification.
type EntryStatus int

const (
	// StatusOK means the entry's config is valid and either already at
	// its mold's version or cleanly migratable with no conflicts.
	StatusOK EntryStatus = iota
	// StatusConflict means migrating the entry to its mold's version
	// surfaced at least one update-engine conflict.
	StatusConflict
	// StatusConflictingSemver means the entry's config version is newer
	// than its mold's version.
	StatusConflictingSemver
	// StatusConfigInvalid means the entry failed to deserialize or
	// failed config_valid.
	StatusConfigInvalid
	// StatusNoCanDo means the entry's mold could not be loaded, or
	// another precondition made the entry unprocessable.
	StatusNoCanDo
)

func (s EntryStatus) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusConflict:
		return "conflict"
	case StatusConflictingSemver:
		return "conflicting-semver"
	case StatusConfigInvalid:
		return "config-invalid"
	case StatusNoCanDo:
		return "no-can-do"
	default:
		return "unknown"
	}
}

// Resolution is the caller's choice for how to finalize one imported
// entry, per spec.md §4.11's five resolutions.
type Resolution int

const (
	// ResolutionUpdate migrates the entry, keeping the user's
	// customized values for any conflict (§4.8 Decision Keep).
	ResolutionUpdate Resolution = iota
	// ResolutionForce writes the entry through as-is, bypassing its
	// classified status entirely.
	ResolutionForce
	// ResolutionDo applies the entry only if its status is StatusOK;
	// any other status is left unresolved.
	ResolutionDo
	// ResolutionDiscard drops the entry; it is not written.
	ResolutionDiscard
	// ResolutionUpdateWithDiscard migrates the entry, discarding the
	// user's customized values in favor of the new mold default for
	// any conflict (§4.8 Decision Discard).
	ResolutionUpdateWithDiscard
)

// ImportedEntry is one entry's classification and, once resolved, its
// final config.
type ImportedEntry struct {
	Group   string
	EntryID string
	Status  EntryStatus

	mold   *dctx.Context
	config *dctx.Context
	update *update.Update

	resolved  bool
	discarded bool
	applied   bool
}

// Config returns the entry's current config object (pre- or
// post-resolution).
func (e *ImportedEntry) Config() *dctx.Context { return e.config }

// Mold returns the entry's loaded mold.
func (e *ImportedEntry) Mold() *dctx.Context { return e.mold }

// Report is the result of importing an archive: every entry's
// classification, and, after ApplyResolutions, which ones were written.
type Report struct {
	Entries []*ImportedEntry
}

// MoldLoader resolves the mold that governs entries in the given group,
// keyed the way plugin.Record.GroupID is.
type MoldLoader func(group string) (*dctx.Context, error)

// Import unpacks data via container, validates its metadata against the
// caller's expected org version and this build's implementation
// version, and classifies every entry.
func Import(container Container, registry *plugin.Registry, data []byte, implVersion, expectOrgVersion string, loadMold MoldLoader) (*Report, error) {
	meta, entries, err := container.Unpack(data)
	if err != nil {
		return nil, err
	}
	if meta.ImplementationVersion != implVersion {
		return nil, status.New(status.LoadError, "archive implementation version %q does not match %q", meta.ImplementationVersion, implVersion)
	}
	if meta.OrgVersion != expectOrgVersion {
		return nil, status.New(status.LoadError, "archive org version %q does not match expected %q", meta.OrgVersion, expectOrgVersion)
	}

	report := &Report{}
	for _, entry := range entries {
		imported := &ImportedEntry{Group: entry.Group, EntryID: entry.EntryID}
		report.Entries = append(report.Entries, imported)

		mold, err := loadMold(entry.Group)
		if err != nil {
			imported.Status = StatusNoCanDo
			continue
		}
		imported.mold = mold

		rec, err := registry.Lookup(entry.Group)
		if err != nil {
			imported.Status = StatusNoCanDo
			continue
		}
		cfg, err := loadEntryConfig(rec, entry, mold)
		if err != nil {
			// A config newer than its mold fails to finalize with a
			// CONFLICTING_SEMVER cause wrapped in INVALID_CONTEXT.
			imported.Status = StatusConfigInvalid
			for e := error(err); e != nil; e = errors.Unwrap(e) {
				if se, ok := e.(*status.Error); ok && se.Code == status.ConflictingSemver {
					imported.Status = StatusConflictingSemver
					break
				}
			}
			continue
		}
		if col, verr := validate.ConfigValid(cfg); verr != nil {
			_ = col
			imported.Status = StatusConfigInvalid
			continue
		}
		imported.config = cfg
		imported.Status = classify(cfg, mold, imported)
	}
	return report, nil
}

func loadEntryConfig(rec *plugin.Record, entry Entry, mold *dctx.Context) (*dctx.Context, error) {
	if rec.ConfigFDWrite == nil || rec.ConfigRead == nil {
		return nil, status.New(status.NotSupported, "group %q cannot deserialize archived configs", entry.Group)
	}
	w, err := rec.ConfigFDWrite(entry.EntryID)
	if err != nil {
		return nil, err
	}
	if _, werr := w.Write(entry.Data); werr != nil {
		w.Close()
		return nil, status.Wrap(status.FSError, werr)
	}
	if err := w.Close(); err != nil {
		return nil, status.Wrap(status.FSError, err)
	}
	return rec.ConfigRead(entry.EntryID, mold)
}

// classify determines an entry's status once its config has
// deserialized and passed config_valid, stashing a prepared *update.
// Update on imported when the entry needs migration.
func classify(cfg, mold *dctx.Context, imported *ImportedEntry) EntryStatus {
	from := cfg.Version()
	to := mold.Version()
	if from.Greater(to) {
		return StatusConflictingSemver
	}
	if from.Compare(to) == 0 {
		return StatusOK
	}
	u, err := update.Begin(cfg, nil)
	if err != nil {
		return StatusNoCanDo
	}
	imported.update = u
	if u.InConflict() {
		return StatusConflict
	}
	return StatusOK
}
