package metrics

import (
	"time"

	"github.com/veeg-labs/disir-go/pkg/core/dctx"
	"github.com/veeg-labs/disir-go/pkg/core/update"
)

// Begin wraps dctx.Begin, recording the child's tag on success.
func (r *Recorder) Begin(parent *dctx.Context, tag dctx.Tag) (*dctx.Context, error) {
	ctx, err := dctx.Begin(parent, tag)
	if err != nil {
		return nil, err
	}
	r.ContextBegun(tag.String())
	return ctx, nil
}

// RunKeepAll wraps update.RunKeepAll, observing run duration and
// counting every conflict the run drives through.
func (r *Recorder) RunKeepAll(u *update.Update) error {
	start := time.Now()
	defer func() { r.ObserveUpdateDuration(time.Since(start).Seconds()) }()
	for u.InConflict() {
		r.UpdateConflict()
		if err := update.Resolve(u, update.Keep); err != nil {
			return err
		}
		if err := update.Continue(u); err != nil {
			return err
		}
	}
	return nil
}
