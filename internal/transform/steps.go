package transform

import (
	"fmt"
	"time"

	"github.com/openfit-labs/fitsync-cli/internal/core/domain"
	"github.com/openfit-labs/fitsync-cli/internal/core/ports/driven"
)

var _ driven.Transformer = (*StepsTransformer)(nil)

// StepsTransformer maps daily step totals onto the steps database schema.
// The date property doubles as the natural key, so the transformer writes
// it as a date-only value.
type StepsTransformer struct{}

// NewStepsTransformer creates a steps transformer.
func NewStepsTransformer() *StepsTransformer { return &StepsTransformer{} }

// Transform implements driven.Transformer.
func (t *StepsTransformer) Transform(record domain.Record) (domain.Entry, error) {
	steps, ok := record.(domain.DailySteps)
	if !ok {
		return domain.Entry{}, fmt.Errorf("%w: expected daily steps, got %T", domain.ErrInvalidInput, record)
	}

	date, err := time.Parse("2006-01-02", steps.Date)
	if err != nil {
		return domain.Entry{}, fmt.Errorf("%w: bad calendar date %q", domain.ErrInvalidInput, steps.Date)
	}

	goalMet := steps.StepGoal > 0 && steps.TotalSteps >= steps.StepGoal
	return domain.Entry{
		Kind:    domain.KindSteps,
		Key:     steps.NaturalKey(),
		Title:   date.Format("Mon, Jan 2"),
		IconURL: "https://img.icons8.com/?size=100&id=9820&format=png&color=000000",
		Props: map[string]domain.Value{
			"Date":          domain.DateValue(date),
			"Steps":         domain.NumberValue(float64(steps.TotalSteps)),
			"Goal":          domain.NumberValue(float64(steps.StepGoal)),
			"Distance (km)": domain.NumberValue(round2(steps.DistanceMeters / 1000)),
			"Goal Met":      domain.FlagValue(goalMet),
		},
	}, nil
}
