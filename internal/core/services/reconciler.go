// Package services contains the core fitsync services: the reconciler that
// decides create/update/skip per entry, the session manager that keeps the
// upstream login reusable, and the sync runner that ties one run together.
package services

import (
	"github.com/openfit-labs/fitsync-cli/internal/core/domain"
)

// Reconciler decides, for each transformed entry, whether the destination
// needs a create, an update, or nothing. Decisions are made against an
// index of existing entries built once per run, so reconciling N entries
// costs zero destination lookups.
type Reconciler struct {
	// Force bypasses the skip branch: every matched entry yields an
	// update. Used to regenerate derived page content after a formatting
	// change without re-fetching source data.
	Force bool
}

// NewReconciler creates a reconciler. force enables rebuild mode.
func NewReconciler(force bool) *Reconciler {
	return &Reconciler{Force: force}
}

// Reconcile returns the action for one entry given the index of existing
// destination entries keyed by natural key.
func (r *Reconciler) Reconcile(entry domain.Entry, index map[string]domain.Existing) domain.Action {
	existing, ok := index[entry.Key]
	if !ok {
		return domain.Action{Type: domain.ActionCreate}
	}

	if r.Force || changed(entry.Props, existing.Props) {
		return domain.Action{Type: domain.ActionUpdate, PageID: existing.ID}
	}

	return domain.Action{Type: domain.ActionSkip, PageID: existing.ID}
}

// changed reports whether any tracked attribute differs from the stored
// entry. Only properties present on the candidate are tracked; extra
// properties on the stored entry are ignored so that manual edits to
// untracked columns never trigger rewrites.
func changed(want, have map[string]domain.Value) bool {
	for name, v := range want {
		stored, ok := have[name]
		if !ok {
			return true
		}
		// Tag sets grow when two sources share one entry; a stored set
		// covering the candidate's tags counts as unchanged.
		if v.Kind == domain.ValueTags {
			if !stored.ContainsTags(v) {
				return true
			}
			continue
		}
		if !v.Equal(stored) {
			return true
		}
	}
	return false
}
