package transform

import (
	"fmt"
	"time"

	"github.com/openfit-labs/fitsync-cli/internal/core/domain"
	"github.com/openfit-labs/fitsync-cli/internal/core/ports/driven"
)

var _ driven.Transformer = (*SleepTransformer)(nil)

// SleepTransformer maps nightly sleep summaries onto the sleep database
// schema. Stage durations are stored in hours to two decimals.
type SleepTransformer struct {
	loc *time.Location
}

// NewSleepTransformer creates a transformer normalizing times into loc.
func NewSleepTransformer(loc *time.Location) *SleepTransformer {
	if loc == nil {
		loc = time.Local
	}
	return &SleepTransformer{loc: loc}
}

// Transform implements driven.Transformer.
func (t *SleepTransformer) Transform(record domain.Record) (domain.Entry, error) {
	sleep, ok := record.(domain.SleepEntry)
	if !ok {
		return domain.Entry{}, fmt.Errorf("%w: expected sleep entry, got %T", domain.ErrInvalidInput, record)
	}

	date, err := time.Parse("2006-01-02", sleep.Date)
	if err != nil {
		return domain.Entry{}, fmt.Errorf("%w: bad calendar date %q", domain.ErrInvalidInput, sleep.Date)
	}

	props := map[string]domain.Value{
		"Date":       domain.DateValue(date),
		"Total (h)":  domain.NumberValue(hours(sleep.TotalSec)),
		"Deep (h)":   domain.NumberValue(hours(sleep.DeepSec)),
		"Light (h)":  domain.NumberValue(hours(sleep.LightSec)),
		"REM (h)":    domain.NumberValue(hours(sleep.RemSec)),
		"Awake (h)":  domain.NumberValue(hours(sleep.AwakeSec)),
		"Score":      domain.NumberValue(float64(sleep.Score)),
	}
	if !sleep.BedTime.IsZero() && !sleep.WakeTime.IsZero() {
		props["Time in Bed"] = domain.DateRangeValue(
			sleep.BedTime.In(t.loc), sleep.WakeTime.In(t.loc))
	}

	return domain.Entry{
		Kind:    domain.KindSleep,
		Key:     sleep.NaturalKey(),
		Title:   date.Format("Mon, Jan 2"),
		IconURL: "https://img.icons8.com/?size=100&id=24903&format=png&color=000000",
		Props:   props,
	}, nil
}

func hours(seconds int) float64 {
	return round2(float64(seconds) / 3600)
}
