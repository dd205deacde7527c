package archive

import (
	"github.com/veeg-labs/disir-go/pkg/core/plugin"
	"github.com/veeg-labs/disir-go/pkg/core/status"
	"github.com/veeg-labs/disir-go/pkg/core/update"
)

// Resolve records decision as entry's chosen resolution and, for
// ResolutionUpdate/ResolutionUpdateWithDiscard, drives the entry's
// prepared update.Update to completion so Config() reflects the
// migrated value. It does not write the entry through a plugin; call
// ApplyResolutions for that.
func Resolve(entry *ImportedEntry, decision Resolution) error {
	switch decision {
	case ResolutionDiscard:
		entry.resolved = true
		entry.discarded = true
		return nil
	case ResolutionForce:
		entry.resolved = true
		return nil
	case ResolutionDo:
		if entry.Status != StatusOK {
			return status.New(status.NoCanDo, "entry %s/%s is %s, not ok", entry.Group, entry.EntryID, entry.Status)
		}
		entry.resolved = true
		return nil
	case ResolutionUpdate:
		return resolveWithUpdate(entry, update.RunKeepAll)
	case ResolutionUpdateWithDiscard:
		return resolveWithUpdate(entry, update.RunDiscardAll)
	default:
		return status.New(status.InvalidArgument, "unknown resolution %d", decision)
	}
}

func resolveWithUpdate(entry *ImportedEntry, run func(*update.Update) error) error {
	if entry.Status == StatusConflictingSemver || entry.Status == StatusConfigInvalid || entry.Status == StatusNoCanDo {
		return status.New(status.NoCanDo, "entry %s/%s (%s) cannot be migrated", entry.Group, entry.EntryID, entry.Status)
	}
	if entry.update != nil {
		if err := run(entry.update); err != nil {
			return err
		}
	}
	entry.resolved = true
	return nil
}

// ApplyResolutions writes every resolved, non-discarded entry's config
// back through its group's config_write, in report order, and returns
// the first error encountered while still attempting the rest.
func ApplyResolutions(report *Report, registry *plugin.Registry) error {
	var first error
	for _, entry := range report.Entries {
		if !entry.resolved || entry.discarded || entry.config == nil {
			continue
		}
		rec, err := registry.Lookup(entry.Group)
		if err != nil {
			if first == nil {
				first = err
			}
			continue
		}
		if rec.ConfigWrite == nil {
			if first == nil {
				first = status.New(status.NotSupported, "group %q cannot write configs", entry.Group)
			}
			continue
		}
		if err := rec.ConfigWrite(entry.EntryID, entry.config); err != nil {
			if first == nil {
				first = err
			}
			continue
		}
		entry.applied = true
	}
	return first
}

// Applied reports whether entry was successfully written by the most
// recent ApplyResolutions call.
func (e *ImportedEntry) Applied() bool { return e.applied }
