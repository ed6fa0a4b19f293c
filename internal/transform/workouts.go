package transform

import (
	"fmt"
	"time"

	"github.com/openfit-labs/fitsync-cli/internal/core/domain"
	"github.com/openfit-labs/fitsync-cli/internal/core/ports/driven"
)

// workoutTimeLayout is the timestamp format Strong writes per set row.
const workoutTimeLayout = "2006-01-02 15:04:05"

var (
	_ driven.Transformer = (*WorkoutTransformer)(nil)
	_ driven.Expander    = (*ExerciseExpander)(nil)
)

// WorkoutTransformer maps strength workouts onto the activities database
// schema, so watch-recorded and app-recorded training share one table. The
// page body gets a heading, notes and a sets table per exercise.
type WorkoutTransformer struct {
	loc *time.Location
}

// NewWorkoutTransformer creates a transformer normalizing times into loc.
func NewWorkoutTransformer(loc *time.Location) *WorkoutTransformer {
	if loc == nil {
		loc = time.Local
	}
	return &WorkoutTransformer{loc: loc}
}

// Transform implements driven.Transformer.
func (t *WorkoutTransformer) Transform(record domain.Record) (domain.Entry, error) {
	workout, ok := record.(domain.Workout)
	if !ok {
		return domain.Entry{}, fmt.Errorf("%w: expected workout, got %T", domain.ErrInvalidInput, record)
	}

	start, err := time.ParseInLocation(workoutTimeLayout, workout.StartedAt, t.loc)
	if err != nil {
		return domain.Entry{}, fmt.Errorf("%w: bad workout timestamp %q", domain.ErrInvalidInput, workout.StartedAt)
	}
	end := start.Add(time.Duration(workout.DurationSec) * time.Second)

	return domain.Entry{
		Kind:    domain.KindWorkouts,
		Key:     workout.NaturalKey(),
		Title:   workout.Name,
		IconURL: StrengthIcon,
		Props: map[string]domain.Value{
			"Garmin ID":        domain.TagsValue(workout.NaturalKey()),
			"Date":             domain.DateRangeValue(start, end),
			"Activity Type":    domain.SelectValue("Strength"),
			"Subactivity Type": domain.SelectValue("Strength Training"),
			"Duration (min)":   domain.NumberValue(round2(float64(workout.DurationSec) / 60)),
		},
		Content: workoutContent(workout),
	}, nil
}

// exerciseGroup is the sets and notes of one exercise, in export order.
type exerciseGroup struct {
	name  string
	sets  []domain.ExerciseSet
	notes []string
}

func groupExercises(sets []domain.ExerciseSet) []exerciseGroup {
	var groups []exerciseGroup
	byName := make(map[string]int)
	for _, set := range sets {
		i, ok := byName[set.Exercise]
		if !ok {
			i = len(groups)
			byName[set.Exercise] = i
			groups = append(groups, exerciseGroup{name: set.Exercise})
		}
		if set.IsNote() {
			groups[i].notes = append(groups[i].notes, set.Notes)
		} else {
			groups[i].sets = append(groups[i].sets, set)
		}
	}
	return groups
}

// workoutContent builds the page body: per exercise a heading, italic
// notes, a sets table, and a divider between exercises.
func workoutContent(workout domain.Workout) []domain.Block {
	groups := groupExercises(workout.Exercises)

	var blocks []domain.Block
	for i, group := range groups {
		blocks = append(blocks, domain.HeadingBlock(group.name))
		for _, note := range group.notes {
			blocks = append(blocks, domain.ParagraphBlock(note, true))
		}
		if len(group.sets) > 0 {
			rows := make([][]string, len(group.sets))
			for j, set := range group.sets {
				weight, reps := formatSet(set)
				rows[j] = []string{set.SetOrder, weight, reps}
			}
			blocks = append(blocks, domain.TableContentBlock([]string{"Set", "Weight (kg)", "Reps"}, rows))
		}
		if i < len(groups)-1 {
			blocks = append(blocks, domain.DividerBlock())
		}
	}
	return blocks
}

// formatSet renders one set's weight and reps cells. Distance sets show
// kilometers and a time, timed bodyweight sets show just the time, and
// weighted sets show kilograms with "BW" for bodyweight.
func formatSet(set domain.ExerciseSet) (weight, reps string) {
	switch {
	case set.DistanceMeters > 0:
		weight = fmt.Sprintf("%.2f km", set.DistanceMeters/1000)
		if set.Seconds > 0 {
			reps = formatDuration(set.Seconds)
		}
	case set.Seconds > 0 && !set.HasWeight:
		reps = formatDuration(set.Seconds)
	default:
		if set.HasWeight && set.WeightKg > 0 {
			weight = fmt.Sprintf("%g", set.WeightKg)
		} else {
			weight = "BW"
		}
		if set.Reps > 0 {
			reps = fmt.Sprintf("%d", set.Reps)
		}
	}
	return weight, reps
}

// ExerciseExpander derives per-exercise progress rows from each workout:
// max weight, total volume, set count and total reps, keyed by calendar
// date and exercise name.
type ExerciseExpander struct {
	loc *time.Location
}

// NewExerciseExpander creates an expander normalizing times into loc.
func NewExerciseExpander(loc *time.Location) *ExerciseExpander {
	if loc == nil {
		loc = time.Local
	}
	return &ExerciseExpander{loc: loc}
}

// Expand implements driven.Expander.
func (e *ExerciseExpander) Expand(record domain.Record) ([]domain.Entry, error) {
	workout, ok := record.(domain.Workout)
	if !ok {
		return nil, fmt.Errorf("%w: expected workout, got %T", domain.ErrInvalidInput, record)
	}

	start, err := time.ParseInLocation(workoutTimeLayout, workout.StartedAt, e.loc)
	if err != nil {
		return nil, fmt.Errorf("%w: bad workout timestamp %q", domain.ErrInvalidInput, workout.StartedAt)
	}
	date := start.Format("2006-01-02")

	var entries []domain.Entry
	for _, group := range groupExercises(workout.Exercises) {
		if len(group.sets) == 0 {
			continue
		}

		var maxWeight, totalVolume float64
		var totalReps int
		for _, set := range group.sets {
			if set.WeightKg > maxWeight {
				maxWeight = set.WeightKg
			}
			totalVolume += set.WeightKg * float64(set.Reps)
			totalReps += set.Reps
		}

		entries = append(entries, domain.Entry{
			Kind:    domain.KindExercises,
			Key:     date + "/" + group.name,
			Title:   group.name,
			IconURL: StrengthIcon,
			Props: map[string]domain.Value{
				"Date":              domain.DateValue(start),
				"Max Weight (kg)":   domain.NumberValue(maxWeight),
				"Total Volume (kg)": domain.NumberValue(round2(totalVolume)),
				"Sets":              domain.NumberValue(float64(len(group.sets))),
				"Total Reps":        domain.NumberValue(float64(totalReps)),
				"Workout":           domain.TextValue(workout.Name),
			},
		})
	}
	return entries, nil
}
