package transform

import (
	"fmt"
	"time"

	"github.com/openfit-labs/fitsync-cli/internal/core/domain"
	"github.com/openfit-labs/fitsync-cli/internal/core/ports/driven"
)

// Activity categories by type key. Type keys outside the table fall into
// the "Other" category; the sync still runs.
var activityCategories = map[string]string{
	"running":             "Running",
	"trail_running":       "Running",
	"treadmill_running":   "Running",
	"cycling":             "Cycling",
	"indoor_cycling":      "Cycling",
	"lap_swimming":        "Swimming",
	"open_water_swimming": "Swimming",
	"walking":             "Walking",
	"hiking":              "Hiking",
	"strength_training":   "Strength",
	"yoga":                "Yoga",
}

var _ driven.Transformer = (*ActivityTransformer)(nil)

// ActivityTransformer maps Garmin activities onto the activities database
// schema.
type ActivityTransformer struct {
	loc *time.Location
}

// NewActivityTransformer creates a transformer normalizing times into loc.
func NewActivityTransformer(loc *time.Location) *ActivityTransformer {
	if loc == nil {
		loc = time.Local
	}
	return &ActivityTransformer{loc: loc}
}

// Transform implements driven.Transformer.
func (t *ActivityTransformer) Transform(record domain.Record) (domain.Entry, error) {
	activity, ok := record.(domain.Activity)
	if !ok {
		return domain.Entry{}, fmt.Errorf("%w: expected activity, got %T", domain.ErrInvalidInput, record)
	}

	category, ok := activityCategories[activity.TypeKey]
	if !ok {
		category = "Other"
	}

	start := activity.StartLocal.In(t.loc)
	end := start.Add(time.Duration(activity.DurationSec) * time.Second)

	title := activity.Name
	if title == "" {
		title = displayName(activity.TypeKey)
	}

	return domain.Entry{
		Kind:    domain.KindActivities,
		Key:     activity.NaturalKey(),
		Title:   title,
		IconURL: IconFor(activity.TypeKey),
		Props: map[string]domain.Value{
			"Garmin ID":        domain.TagsValue(activity.NaturalKey()),
			"Date":             domain.DateRangeValue(start, end),
			"Activity Type":    domain.SelectValue(category),
			"Subactivity Type": domain.SelectValue(displayName(activity.TypeKey)),
			"Distance (km)":    domain.NumberValue(round2(activity.DistanceMeters / 1000)),
			"Duration (min)":   domain.NumberValue(round2(activity.DurationSec / 60)),
			"Calories":         domain.NumberValue(activity.Calories),
			"Avg Pace":         domain.TextValue(formatPace(activity.AvgSpeedMPS)),
			"Avg Power":        domain.NumberValue(activity.AvgPowerWatts),
			"Max Power":        domain.NumberValue(activity.MaxPowerWatts),
			"Aerobic":          domain.NumberValue(round2(activity.AerobicEffect)),
			"Anaerobic":        domain.NumberValue(round2(activity.AnaerobicEffect)),
			"Training Effect":  domain.SelectValue(trainingEffectLabel(activity.TrainingEffect)),
			"PR":               domain.FlagValue(activity.PersonalRecord),
		},
	}, nil
}

// trainingEffectLabel turns the API's shouted labels ("TEMPO") into the
// select option names the database uses ("Tempo").
func trainingEffectLabel(label string) string {
	if label == "" {
		return "Unknown"
	}
	return displayName(toSnakeLower(label))
}

func toSnakeLower(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if r >= 'A' && r <= 'Z' {
			r += 'a' - 'A'
		}
		out = append(out, r)
	}
	return string(out)
}
