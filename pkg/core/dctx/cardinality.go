package dctx

import "github.com/veeg-labs/disir-go/pkg/core/status"

// CheckMinEntries walks a finalized CONFIG tree, comparing each parent's
// same-named child counts against the mold-resolved MinimumEntries
// bound at the config's version, and marks any parent whose group falls
// short as invalid. Unlike MaximumEntries, which is enforced at
// finalize time by attachUnderCardinality (the "race on finalize" of
// §4.1), a minimum-entries shortfall can only be observed once the
// whole tree is built — there is no context to reject, since the
// missing entries were simply never added. It is a no-op on a MOLD
// root or anything else passed by mistake.
func CheckMinEntries(root *Context) {
	if root == nil || root.tag != TagConfig {
		return
	}
	version := root.version
	var walk func(cfgParent, moldParent *Context)
	walk = func(cfgParent, moldParent *Context) {
		if moldParent != nil {
			seen := make(map[string]bool)
			for _, moldChild := range moldParent.Children() {
				if seen[moldChild.name] {
					continue
				}
				seen[moldChild.name] = true
				min, _ := moldChild.restrictions.MinMaxEntries(version)
				if min > 0 && cfgParent.CountChildName(moldChild.name) < min {
					cfgParent.invalid = true
					if cfgParent.err == nil {
						cfgParent.err = status.New(
							status.RestrictionViolated,
							"%q has %d entries named %q, fewer than the minimum of %d",
							cfgParent.name, cfgParent.CountChildName(moldChild.name), moldChild.name, min,
						)
					}
				}
			}
		}
		for _, child := range cfgParent.Children() {
			walk(child, child.moldEquiv)
		}
	}
	walk(root, root.mold)
}
