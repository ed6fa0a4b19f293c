package domain

import "fmt"

// Kind identifies one of the synchronised data kinds. Each kind maps to one
// Notion database and one upstream fetch.
type Kind string

const (
	// KindActivities is Garmin Connect activities.
	KindActivities Kind = "activities"
	// KindRecords is Garmin Connect personal records.
	KindRecords Kind = "records"
	// KindSteps is daily step totals.
	KindSteps Kind = "steps"
	// KindSleep is daily sleep summaries.
	KindSleep Kind = "sleep"
	// KindWorkouts is strength workouts from Strong CSV exports.
	KindWorkouts Kind = "workouts"
	// KindExercises is per-exercise progress rows derived from workouts.
	KindExercises Kind = "exercises"
)

// AllKinds lists the kinds a plain `fitsync sync` covers, in sync order.
// KindExercises is derived from KindWorkouts and is not synced on its own.
func AllKinds() []Kind {
	return []Kind{KindActivities, KindRecords, KindSteps, KindSleep, KindWorkouts}
}

// ParseKind validates a user-supplied kind name.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindActivities, KindRecords, KindSteps, KindSleep, KindWorkouts:
		return Kind(s), nil
	default:
		return "", fmt.Errorf("%w: unknown data kind %q", ErrInvalidInput, s)
	}
}

// String implements fmt.Stringer.
func (k Kind) String() string {
	return string(k)
}
