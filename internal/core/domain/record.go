package domain

import (
	"fmt"
	"time"
)

// Record is a source-side fact fetched from an upstream service. Records are
// ephemeral: they exist only for the duration of one run. Each concrete type
// carries an explicit schema; missing upstream fields stay at their zero
// value rather than being looked up dynamically.
type Record interface {
	// RecordKind reports which data kind this record belongs to.
	RecordKind() Kind
	// NaturalKey is the stable identifier used to detect "same underlying
	// fact" across runs. Kinds without a source-assigned ID key by calendar
	// date in the destination timezone.
	NaturalKey() string
}

// Activity is one Garmin Connect activity.
type Activity struct {
	ActivityID       int64
	Name             string
	TypeKey          string // e.g. "running", "trail_running", "cycling"
	StartLocal       time.Time
	DurationSec      float64
	DistanceMeters   float64
	Calories         float64
	AvgSpeedMPS      float64
	AvgPowerWatts    float64
	MaxPowerWatts    float64
	AerobicEffect    float64
	AnaerobicEffect  float64
	TrainingEffect   string
	PersonalRecord   bool
}

// RecordKind implements Record.
func (a Activity) RecordKind() Kind { return KindActivities }

// NaturalKey implements Record. Garmin activity IDs are stable across
// re-fetches of the same activity.
func (a Activity) NaturalKey() string { return fmt.Sprintf("garmin-%d", a.ActivityID) }

// PersonalRecord is one Garmin personal record (fastest 1K, longest run, ...).
type PersonalRecord struct {
	TypeID     int
	Label      string // resolved from TypeID by the transformer
	Value      float64
	ActivityID int64
	When       time.Time
}

// RecordKind implements Record.
func (p PersonalRecord) RecordKind() Kind { return KindRecords }

// NaturalKey implements Record. One destination row exists per record type;
// improving a record updates the row in place.
func (p PersonalRecord) NaturalKey() string { return fmt.Sprintf("pr-%d", p.TypeID) }

// DailySteps is one day's step totals.
type DailySteps struct {
	Date           string // YYYY-MM-DD in the destination timezone
	TotalSteps     int
	StepGoal       int
	DistanceMeters float64
}

// RecordKind implements Record.
func (d DailySteps) RecordKind() Kind { return KindSteps }

// NaturalKey implements Record. Steps have no source ID; the calendar date
// makes the upsert idempotent per day.
func (d DailySteps) NaturalKey() string { return d.Date }

// SleepEntry is one night's sleep summary.
type SleepEntry struct {
	Date          string // YYYY-MM-DD in the destination timezone
	BedTime       time.Time
	WakeTime      time.Time
	TotalSec      int
	DeepSec       int
	LightSec      int
	RemSec        int
	AwakeSec      int
	Score         int
}

// RecordKind implements Record.
func (s SleepEntry) RecordKind() Kind { return KindSleep }

// NaturalKey implements Record.
func (s SleepEntry) NaturalKey() string { return s.Date }

// Workout is one strength workout parsed from a Strong CSV export.
type Workout struct {
	// StartedAt is the workout timestamp exactly as it appears in the CSV
	// ("2006-01-02 15:04:05"). It doubles as the grouping key for the
	// export's set rows.
	StartedAt   string
	Name        string
	DurationSec int
	Exercises   []ExerciseSet
}

// ExerciseSet is one set row (or note row) within a workout.
type ExerciseSet struct {
	Exercise       string
	SetOrder       string // "1", "2", ... or "Note"
	WeightKg       float64
	HasWeight      bool
	Reps           int
	DistanceMeters float64
	Seconds        float64
	Notes          string
}

// RecordKind implements Record.
func (w Workout) RecordKind() Kind { return KindWorkouts }

// NaturalKey implements Record. Strong exports the same timestamp for every
// set of a workout, so it identifies the workout across re-imports.
func (w Workout) NaturalKey() string { return "strong-" + w.StartedAt }

// IsNote reports whether this row is a free-text note rather than a set.
func (e ExerciseSet) IsNote() bool { return e.SetOrder == "Note" }
