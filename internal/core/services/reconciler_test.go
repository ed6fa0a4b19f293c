package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/openfit-labs/fitsync-cli/internal/core/domain"
)

func stepsEntry(date string, steps float64) domain.Entry {
	return domain.Entry{
		Kind:  domain.KindSteps,
		Key:   date,
		Title: date,
		Props: map[string]domain.Value{
			"Steps": domain.NumberValue(steps),
		},
	}
}

func stepsIndex(date string, id string, steps float64) map[string]domain.Existing {
	return map[string]domain.Existing{
		date: {
			ID: id,
			Props: map[string]domain.Value{
				"Steps": domain.NumberValue(steps),
			},
		},
	}
}

func TestReconciler_Reconcile_AbsentKeyCreates(t *testing.T) {
	r := NewReconciler(false)
	index := stepsIndex("2024-01-01", "page-a", 8000)

	action := r.Reconcile(stepsEntry("2024-01-02", 9000), index)

	assert.Equal(t, domain.ActionCreate, action.Type)
	assert.Empty(t, action.PageID)
}

func TestReconciler_Reconcile_MatchingEntrySkips(t *testing.T) {
	r := NewReconciler(false)
	index := stepsIndex("2024-01-01", "page-a", 8000)

	action := r.Reconcile(stepsEntry("2024-01-01", 8000), index)

	assert.Equal(t, domain.ActionSkip, action.Type)
	assert.Equal(t, "page-a", action.PageID)
}

func TestReconciler_Reconcile_ChangedAttributeUpdates(t *testing.T) {
	r := NewReconciler(false)
	index := stepsIndex("2024-01-01", "page-a", 8000)

	action := r.Reconcile(stepsEntry("2024-01-01", 8500), index)

	assert.Equal(t, domain.ActionUpdate, action.Type)
	assert.Equal(t, "page-a", action.PageID)
}

func TestReconciler_Reconcile_WithinToleranceSkips(t *testing.T) {
	r := NewReconciler(false)

	entry := domain.Entry{
		Kind: domain.KindActivities,
		Key:  "garmin-1",
		Props: map[string]domain.Value{
			"Distance (km)": domain.NumberValue(10.000),
		},
	}
	index := map[string]domain.Existing{
		"garmin-1": {
			ID: "page-b",
			Props: map[string]domain.Value{
				"Distance (km)": domain.NumberValue(10.005),
			},
		},
	}

	action := r.Reconcile(entry, index)
	assert.Equal(t, domain.ActionSkip, action.Type)
}

func TestReconciler_Reconcile_MissingStoredPropertyUpdates(t *testing.T) {
	r := NewReconciler(false)

	entry := stepsEntry("2024-01-01", 8000)
	entry.Props["Step Goal"] = domain.NumberValue(10000)
	index := stepsIndex("2024-01-01", "page-a", 8000)

	action := r.Reconcile(entry, index)
	assert.Equal(t, domain.ActionUpdate, action.Type)
}

func TestReconciler_Reconcile_ExtraStoredPropertyIgnored(t *testing.T) {
	r := NewReconciler(false)

	index := stepsIndex("2024-01-01", "page-a", 8000)
	index["2024-01-01"].Props["Mood"] = domain.SelectValue("Great")

	action := r.Reconcile(stepsEntry("2024-01-01", 8000), index)
	assert.Equal(t, domain.ActionSkip, action.Type)
}

func TestReconciler_Reconcile_ForceUpdatesMatchedEntries(t *testing.T) {
	r := NewReconciler(true)
	index := stepsIndex("2024-01-01", "page-a", 8000)

	matched := r.Reconcile(stepsEntry("2024-01-01", 8000), index)
	assert.Equal(t, domain.ActionUpdate, matched.Type)
	assert.Equal(t, "page-a", matched.PageID)

	// Force never invents entries: absent keys still create.
	absent := r.Reconcile(stepsEntry("2024-01-02", 8000), index)
	assert.Equal(t, domain.ActionCreate, absent.Type)
}

func TestReconciler_Reconcile_Idempotent(t *testing.T) {
	r := NewReconciler(false)
	index := stepsIndex("2024-01-01", "page-a", 8000)

	first := r.Reconcile(stepsEntry("2024-01-01", 8000), index)
	second := r.Reconcile(stepsEntry("2024-01-01", 8000), index)

	assert.Equal(t, first, second)
	assert.Equal(t, domain.ActionSkip, second.Type)
}
