// Package update implements the resume-style three-way merge described
// in spec.md §4.8: migrating a config from its current version up to a
// target version, surfacing conflicts one at a time for the caller to
// resolve rather than failing the whole operation on the first one.
package update

import (
	"fmt"

	"github.com/veeg-labs/disir-go/pkg/core/dctx"
	"github.com/veeg-labs/disir-go/pkg/core/model"
	"github.com/veeg-labs/disir-go/pkg/core/status"
)

// Decision is the caller's choice when resolving a pending Conflict.
type Decision int

const (
	// Keep retains the config's current value (val_config).
	Keep Decision = iota
	// Discard adopts the mold's new active default (val_mold).
	Discard
	// Explicit assigns a caller-supplied value, passed alongside the
	// decision to Resolve.
	Explicit
)

// Conflict describes one keyval whose config value diverged from both
// its old and new active defaults, per rule 5 of §4.8.
type Conflict struct {
	Name         string
	ConfigValue  string
	MoldValue    string
	keyval       *dctx.Context
	newDefault   model.Value
}

// Update is the suspended state of one migration: the cursor over the
// old config's keyvals, the pending conflict (if any), and the change
// log accumulated so far. The zero Update is not usable; obtain one
// from Begin.
type Update struct {
	cfg     *dctx.Context
	from    model.Version
	to      model.Version
	pending []*dctx.Context
	idx     int

	current    *Conflict
	resolution *model.Value
	finished   bool

	changeLog []string
}

// Begin starts a migration of cfg to target (the mold's own version
// when target is nil), immediately advancing through every keyval that
// resolves without a conflict. The returned Update is either Finished
// or has a pending Conflict.
func Begin(cfg *dctx.Context, target *model.Version) (*Update, error) {
	mold := cfg.Mold()
	if mold == nil {
		return nil, status.New(status.MoldMissing, "config has no bound mold")
	}
	to := mold.Version()
	if target != nil {
		to = *target
	}
	from := cfg.Version()
	if from.Greater(to) {
		return nil, status.New(status.ConflictingSemver, "config version %s is newer than target %s", from, to)
	}
	if from.Compare(to) == 0 {
		return nil, status.New(status.NoCanDo, "config is already at version %s", to)
	}
	u := &Update{
		cfg:     cfg,
		from:    from,
		to:      to,
		pending: flattenKeyvals(cfg),
	}
	if err := u.advance(); err != nil {
		return nil, err
	}
	return u, nil
}

// flattenKeyvals walks cfg's tree depth-first, in insertion order at
// every level, collecting every KEYVAL — matching the update engine's
// required visiting order (§5 "Ordering").
func flattenKeyvals(ctx *dctx.Context) []*dctx.Context {
	var out []*dctx.Context
	for _, child := range ctx.Children() {
		switch child.Tag() {
		case dctx.TagKeyval:
			out = append(out, child)
		case dctx.TagSection:
			out = append(out, flattenKeyvals(child)...)
		}
	}
	return out
}

// advance resumes scanning pending keyvals from idx, applying the
// no-conflict rules (1-4) of §4.8 and stopping either at the first
// conflict (rule 5) or at the end of the list.
func (u *Update) advance() error {
	for ; u.idx < len(u.pending); u.idx++ {
		kv := u.pending[u.idx]
		me := kv.MoldEquiv()
		if me == nil {
			continue // rule 1: mold_equiv unreachable in B
		}
		activeB, err := me.ActiveDefault(u.to)
		if err != nil {
			continue // keyval has no default at all; nothing to migrate
		}
		if activeB.Introduced.LessEq(u.from) {
			continue // rule 2: no newer default appeared since A
		}
		if kv.Value().Equal(activeB.Value) {
			continue // rule 3: already matches the new default
		}
		if activeA, errA := me.ActiveDefault(u.from); errA == nil && kv.Value().Equal(activeA.Value) {
			// rule 4: user never customized away from the old default
			if err := applyResolution(kv, activeB.Value); err != nil {
				return err
			}
			u.changeLog = append(u.changeLog, fmt.Sprintf("%s: %s -> %s (followed mold)", kv.Name(), activeA.Value.Stringify(), activeB.Value.Stringify()))
			continue
		}
		// rule 5: conflict
		u.current = &Conflict{
			Name:        kv.Name(),
			ConfigValue: kv.Value().Stringify(),
			MoldValue:   activeB.Value.Stringify(),
			keyval:      kv,
			newDefault:  activeB.Value,
		}
		return nil
	}
	u.finished = true
	u.current = nil
	return dctx.BumpConfigVersion(u.cfg, u.to)
}

func applyResolution(kv *dctx.Context, v model.Value) error {
	switch v.Type() {
	case model.String:
		return dctx.SetValueString(kv, v.GetString())
	case model.Enum:
		return dctx.SetValueEnum(kv, v.GetEnum())
	case model.Integer:
		return dctx.SetValueInteger(kv, v.GetInteger())
	case model.Float:
		return dctx.SetValueFloat(kv, v.GetFloat())
	case model.Boolean:
		return dctx.SetValueBoolean(kv, v.GetBoolean())
	default:
		return nil
	}
}

// InConflict reports whether u currently has a pending Conflict.
func (u *Update) InConflict() bool { return u.current != nil }

// Finished reports whether the migration has completed.
func (u *Update) Finished() bool { return u.finished }

// Conflict returns the currently pending conflict and true, or a zero
// Conflict and false when none is pending.
func (u *Update) Conflict() (Conflict, bool) {
	if u.current == nil {
		return Conflict{}, false
	}
	return *u.current, true
}

// ChangeLog returns a human-readable record of every automatic and
// resolved change applied so far, oldest first.
func (u *Update) ChangeLog() []string { return u.changeLog }

// Resolve records decision (and, for Explicit, the accompanying value)
// as the resolution for the current pending conflict. It does not apply
// the resolution or advance the cursor; call Continue for that. Calling
// Resolve without a pending conflict returns NO_CAN_DO.
func Resolve(u *Update, decision Decision, explicit ...model.Value) error {
	if u.current == nil {
		return status.New(status.NoCanDo, "no pending conflict to resolve")
	}
	var v model.Value
	switch decision {
	case Keep:
		v = u.current.keyval.Value()
	case Discard:
		v = u.current.newDefault
	case Explicit:
		if len(explicit) == 0 {
			return status.New(status.InvalidArgument, "explicit decision requires a value")
		}
		v = explicit[0]
	default:
		return status.New(status.InvalidArgument, "unknown decision %d", decision)
	}
	u.resolution = &v
	return nil
}

// Continue applies the resolution previously recorded by Resolve and
// resumes scanning for the next conflict (or completion). A resolution
// that violates a restriction at the target version returns
// RESTRICTION_VIOLATED and leaves the conflict pending so the caller
// can Resolve again with a different decision.
func Continue(u *Update) error {
	if u.current == nil {
		return status.New(status.NoCanDo, "no pending conflict")
	}
	if u.resolution == nil {
		return status.New(status.NoCanDo, "call Resolve before Continue")
	}
	kv := u.current.keyval
	oldVal := kv.Value().Stringify()
	if err := applyResolution(kv, *u.resolution); err != nil {
		return err
	}
	u.changeLog = append(u.changeLog, fmt.Sprintf("%s: %s -> %s (resolved)", kv.Name(), oldVal, u.resolution.Stringify()))
	u.resolution = nil
	u.current = nil
	u.idx++
	return u.advance()
}

// RunKeepAll drives u to completion, resolving every conflict with Keep.
func RunKeepAll(u *Update) error { return run(u, Keep) }

// RunDiscardAll drives u to completion, resolving every conflict with
// Discard.
func RunDiscardAll(u *Update) error { return run(u, Discard) }

func run(u *Update, decision Decision) error {
	for !u.finished {
		if u.current == nil {
			break
		}
		if err := Resolve(u, decision); err != nil {
			return err
		}
		if err := Continue(u); err != nil {
			return err
		}
	}
	return nil
}
