package transform

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openfit-labs/fitsync-cli/internal/core/domain"
)

func TestActivityTransformer_Transform(t *testing.T) {
	tr := NewActivityTransformer(time.UTC)

	t.Run("maps a run onto the activities schema", func(t *testing.T) {
		start := time.Date(2025, 1, 15, 7, 30, 0, 0, time.UTC)
		entry, err := tr.Transform(domain.Activity{
			ActivityID:      18123456789,
			Name:            "Morning Run",
			TypeKey:         "running",
			StartLocal:      start,
			DurationSec:     1800,
			DistanceMeters:  5000,
			Calories:        320,
			AvgSpeedMPS:     2.78,
			AvgPowerWatts:   250,
			MaxPowerWatts:   410,
			AerobicEffect:   3.14159,
			AnaerobicEffect: 0.4,
			TrainingEffect:  "TEMPO",
			PersonalRecord:  true,
		})

		require.NoError(t, err)
		assert.Equal(t, domain.KindActivities, entry.Kind)
		assert.Equal(t, "garmin-18123456789", entry.Key)
		assert.Equal(t, "Morning Run", entry.Title)
		assert.Equal(t, activityIcons["running"], entry.IconURL)

		assert.True(t, entry.Props["Garmin ID"].Equal(domain.TagsValue("garmin-18123456789")))
		assert.True(t, entry.Props["Activity Type"].Equal(domain.SelectValue("Running")))
		assert.True(t, entry.Props["Distance (km)"].Equal(domain.NumberValue(5)))
		assert.True(t, entry.Props["Duration (min)"].Equal(domain.NumberValue(30)))
		assert.True(t, entry.Props["Aerobic"].Equal(domain.NumberValue(3.14)))
		assert.True(t, entry.Props["Training Effect"].Equal(domain.SelectValue("Tempo")))
		assert.True(t, entry.Props["PR"].Equal(domain.FlagValue(true)))

		date := entry.Props["Date"]
		assert.Equal(t, start, date.Start)
		assert.Equal(t, start.Add(30*time.Minute), date.End)

		// 2.78 m/s is a 5:59.xx /km pace.
		assert.Equal(t, "5:59 /km", entry.Props["Avg Pace"].Text)
	})

	t.Run("unknown type falls back to generic category and icon", func(t *testing.T) {
		entry, err := tr.Transform(domain.Activity{
			ActivityID: 1,
			TypeKey:    "inline_skating",
			StartLocal: time.Now(),
		})

		require.NoError(t, err)
		assert.True(t, entry.Props["Activity Type"].Equal(domain.SelectValue("Other")))
		assert.True(t, entry.Props["Subactivity Type"].Equal(domain.SelectValue("Inline Skating")))
		assert.Equal(t, GenericIcon, entry.IconURL)
		assert.Equal(t, "Inline Skating", entry.Title, "nameless activities title by type")
	})

	t.Run("rejects foreign record types", func(t *testing.T) {
		_, err := tr.Transform(domain.DailySteps{Date: "2025-01-01"})

		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestRecordTransformer_Transform(t *testing.T) {
	tr := NewRecordTransformer(time.UTC)

	t.Run("labels known record types", func(t *testing.T) {
		entry, err := tr.Transform(domain.PersonalRecord{
			TypeID:     3,
			Value:      1245.3,
			ActivityID: 42,
			When:       time.Date(2025, 1, 15, 7, 30, 0, 0, time.UTC),
		})

		require.NoError(t, err)
		assert.Equal(t, "pr-3", entry.Key)
		assert.Equal(t, "5km", entry.Title)
		assert.True(t, entry.Props["Record ID"].Equal(domain.TextValue("pr-3")))
		assert.True(t, entry.Props["Value"].Equal(domain.NumberValue(1245.3)))
		assert.Equal(t, "20:45", entry.Props["Display"].Text)
	})

	t.Run("distance records display kilometers", func(t *testing.T) {
		entry, err := tr.Transform(domain.PersonalRecord{TypeID: 7, Value: 21097.5})

		require.NoError(t, err)
		assert.Equal(t, "Longest Run", entry.Title)
		assert.Equal(t, "21.10 km", entry.Props["Display"].Text)
	})

	t.Run("unknown type gets a generated label", func(t *testing.T) {
		entry, err := tr.Transform(domain.PersonalRecord{TypeID: 99, Value: 12})

		require.NoError(t, err)
		assert.Equal(t, "Record 99", entry.Title)
		assert.Equal(t, "12", entry.Props["Display"].Text)
	})
}

func TestStepsTransformer_Transform(t *testing.T) {
	tr := NewStepsTransformer()

	t.Run("keys by calendar date", func(t *testing.T) {
		entry, err := tr.Transform(domain.DailySteps{
			Date:           "2025-01-10",
			TotalSteps:     10432,
			StepGoal:       8000,
			DistanceMeters: 8123.4,
		})

		require.NoError(t, err)
		assert.Equal(t, "2025-01-10", entry.Key)
		assert.True(t, entry.Props["Steps"].Equal(domain.NumberValue(10432)))
		assert.True(t, entry.Props["Distance (km)"].Equal(domain.NumberValue(8.12)))
		assert.True(t, entry.Props["Goal Met"].Equal(domain.FlagValue(true)))
		assert.Equal(t, "2025-01-10", entry.Props["Date"].Start.Format("2006-01-02"))
	})

	t.Run("bad date is invalid input", func(t *testing.T) {
		_, err := tr.Transform(domain.DailySteps{Date: "Jan 10"})

		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestSleepTransformer_Transform(t *testing.T) {
	tr := NewSleepTransformer(time.UTC)

	t.Run("stores stage durations in hours", func(t *testing.T) {
		entry, err := tr.Transform(domain.SleepEntry{
			Date:     "2025-01-10",
			BedTime:  time.Date(2025, 1, 9, 22, 30, 0, 0, time.UTC),
			WakeTime: time.Date(2025, 1, 10, 6, 15, 0, 0, time.UTC),
			TotalSec: 27000,
			DeepSec:  5400,
			LightSec: 16200,
			RemSec:   4500,
			AwakeSec: 900,
			Score:    82,
		})

		require.NoError(t, err)
		assert.Equal(t, "2025-01-10", entry.Key)
		assert.True(t, entry.Props["Total (h)"].Equal(domain.NumberValue(7.5)))
		assert.True(t, entry.Props["Deep (h)"].Equal(domain.NumberValue(1.5)))
		assert.True(t, entry.Props["Score"].Equal(domain.NumberValue(82)))

		inBed := entry.Props["Time in Bed"]
		assert.Equal(t, 22, inBed.Start.Hour())
		assert.Equal(t, 6, inBed.End.Hour())
	})

	t.Run("missing bed times omit the range", func(t *testing.T) {
		entry, err := tr.Transform(domain.SleepEntry{Date: "2025-01-10", TotalSec: 100})

		require.NoError(t, err)
		_, ok := entry.Props["Time in Bed"]
		assert.False(t, ok)
	})
}

func sampleWorkout() domain.Workout {
	return domain.Workout{
		StartedAt:   "2025-03-10 18:02:11",
		Name:        "Push Day",
		DurationSec: 3600,
		Exercises: []domain.ExerciseSet{
			{Exercise: "Bench Press (Barbell)", SetOrder: "1", WeightKg: 80, HasWeight: true, Reps: 8},
			{Exercise: "Bench Press (Barbell)", SetOrder: "2", WeightKg: 82.5, HasWeight: true, Reps: 6},
			{Exercise: "Bench Press (Barbell)", SetOrder: "Note", Notes: "Felt strong today"},
			{Exercise: "Plank", SetOrder: "1", Seconds: 60},
			{Exercise: "Running", SetOrder: "1", DistanceMeters: 5000, Seconds: 1650},
		},
	}
}

func TestWorkoutTransformer_Transform(t *testing.T) {
	tr := NewWorkoutTransformer(time.UTC)

	t.Run("maps a workout onto the activities schema", func(t *testing.T) {
		entry, err := tr.Transform(sampleWorkout())

		require.NoError(t, err)
		assert.Equal(t, "strong-2025-03-10 18:02:11", entry.Key)
		assert.Equal(t, "Push Day", entry.Title)
		assert.Equal(t, StrengthIcon, entry.IconURL)
		assert.True(t, entry.Props["Activity Type"].Equal(domain.SelectValue("Strength")))
		assert.True(t, entry.Props["Duration (min)"].Equal(domain.NumberValue(60)))

		date := entry.Props["Date"]
		assert.Equal(t, 18, date.Start.Hour())
		assert.Equal(t, 19, date.End.Hour())
	})

	t.Run("builds a heading, notes and table per exercise", func(t *testing.T) {
		entry, err := tr.Transform(sampleWorkout())

		require.NoError(t, err)
		blocks := entry.Content
		// bench: heading, note, table; divider; plank: heading, table;
		// divider; running: heading, table
		require.Len(t, blocks, 9)

		assert.Equal(t, domain.BlockHeading, blocks[0].Type)
		assert.Equal(t, "Bench Press (Barbell)", blocks[0].Text)
		assert.Equal(t, domain.BlockParagraph, blocks[1].Type)
		assert.True(t, blocks[1].Italic)

		table := blocks[2]
		require.Equal(t, domain.BlockTable, table.Type)
		assert.Equal(t, []string{"Set", "Weight (kg)", "Reps"}, table.Table.Header)
		assert.Equal(t, []string{"1", "80", "8"}, table.Table.Rows[0])
		assert.Equal(t, []string{"2", "82.5", "6"}, table.Table.Rows[1])

		assert.Equal(t, domain.BlockDivider, blocks[3].Type)

		plankTable := blocks[5]
		assert.Equal(t, []string{"1", "", "1:00"}, plankTable.Table.Rows[0])

		runTable := blocks[8]
		assert.Equal(t, []string{"1", "5.00 km", "27:30"}, runTable.Table.Rows[0])
	})

	t.Run("bad timestamp is invalid input", func(t *testing.T) {
		_, err := tr.Transform(domain.Workout{StartedAt: "yesterday"})

		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestFormatSet(t *testing.T) {
	t.Run("bodyweight sets show BW", func(t *testing.T) {
		weight, reps := formatSet(domain.ExerciseSet{SetOrder: "1", Reps: 12})

		assert.Equal(t, "BW", weight)
		assert.Equal(t, "12", reps)
	})

	t.Run("long durations show hours", func(t *testing.T) {
		_, reps := formatSet(domain.ExerciseSet{SetOrder: "1", Seconds: 3725})

		assert.Equal(t, "1:02:05", reps)
	})
}

func TestExerciseExpander_Expand(t *testing.T) {
	ex := NewExerciseExpander(time.UTC)

	t.Run("derives one progress row per exercise with sets", func(t *testing.T) {
		entries, err := ex.Expand(sampleWorkout())

		require.NoError(t, err)
		require.Len(t, entries, 3)

		bench := entries[0]
		assert.Equal(t, "2025-03-10/Bench Press (Barbell)", bench.Key)
		assert.Equal(t, domain.KindExercises, bench.Kind)
		assert.True(t, bench.Props["Max Weight (kg)"].Equal(domain.NumberValue(82.5)))
		// 80*8 + 82.5*6 = 1135
		assert.True(t, bench.Props["Total Volume (kg)"].Equal(domain.NumberValue(1135)))
		assert.True(t, bench.Props["Sets"].Equal(domain.NumberValue(2)))
		assert.True(t, bench.Props["Total Reps"].Equal(domain.NumberValue(14)))
		assert.True(t, bench.Props["Workout"].Equal(domain.TextValue("Push Day")))
	})

	t.Run("note-only exercises derive nothing", func(t *testing.T) {
		entries, err := ex.Expand(domain.Workout{
			StartedAt: "2025-03-10 18:02:11",
			Exercises: []domain.ExerciseSet{
				{Exercise: "Stretching", SetOrder: "Note", Notes: "skipped"},
			},
		})

		require.NoError(t, err)
		assert.Empty(t, entries)
	})
}
