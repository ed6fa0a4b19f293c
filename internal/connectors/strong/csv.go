// Package strong reads Strong app CSV exports: a flat, semicolon-delimited
// file where every row is one set and rows sharing a Date belong to one
// workout.
package strong

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/openfit-labs/fitsync-cli/internal/core/domain"
	"github.com/openfit-labs/fitsync-cli/internal/core/ports/driven"
	"github.com/openfit-labs/fitsync-cli/internal/logger"
)

// Column headers as Strong writes them. Exports from older app versions
// may omit the optional columns; missing columns read as empty.
const (
	colDate        = "Date"
	colWorkoutName = "Workout Name"
	colDuration    = "Duration (sec)"
	colExercise    = "Exercise Name"
	colSetOrder    = "Set Order"
	colWeight      = "Weight (kg)"
	colReps        = "Reps"
	colDistance    = "Distance (meters)"
	colSeconds     = "Seconds"
	colNotes       = "Notes"
)

// restTimerRow marks synthetic rows the app inserts between sets.
const restTimerRow = "Rest Timer"

var _ driven.Fetcher = (*CSVFetcher)(nil)

// CSVFetcher parses one Strong export file into workouts. The fetch window
// is ignored: the export is authoritative for whatever span it covers, and
// the reconciler already skips workouts that exist downstream.
type CSVFetcher struct {
	path string
}

// NewCSVFetcher creates a fetcher reading the export at path.
func NewCSVFetcher(path string) *CSVFetcher {
	return &CSVFetcher{path: path}
}

// Kind implements driven.Fetcher.
func (f *CSVFetcher) Kind() domain.Kind { return domain.KindWorkouts }

// Fetch implements driven.Fetcher.
func (f *CSVFetcher) Fetch(ctx context.Context, _ domain.Window) ([]domain.Record, error) {
	file, err := os.Open(f.path)
	if err != nil {
		return nil, fmt.Errorf("%w: open export: %v", domain.ErrInvalidInput, err)
	}
	defer file.Close()

	workouts, err := Parse(ctx, file)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", f.path, err)
	}

	records := make([]domain.Record, len(workouts))
	for i, w := range workouts {
		records[i] = w
	}
	logger.Debug("Parsed %d workouts from %s", len(records), f.path)
	return records, nil
}

// Parse reads a Strong CSV export and groups set rows into workouts,
// preserving the export's row order within and across workouts.
func Parse(ctx context.Context, r io.Reader) ([]domain.Workout, error) {
	reader := csv.NewReader(r)
	reader.Comma = ';'
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: export is empty", domain.ErrInvalidInput)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read header: %v", domain.ErrInvalidInput, err)
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(name)] = i
	}
	for _, required := range []string{colDate, colWorkoutName, colExercise, colSetOrder} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("%w: export is missing column %q", domain.ErrInvalidInput, required)
		}
	}

	var (
		order    []string
		byDate   = make(map[string]*domain.Workout)
		rowIndex = 1
	)
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: %v", domain.ErrInvalidInput, rowIndex, err)
		}
		rowIndex++

		field := func(name string) string {
			i, ok := cols[name]
			if !ok || i >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[i])
		}

		setOrder := field(colSetOrder)
		if setOrder == restTimerRow {
			continue
		}

		date := field(colDate)
		if date == "" {
			continue
		}
		workout, ok := byDate[date]
		if !ok {
			duration, _ := strconv.Atoi(field(colDuration))
			workout = &domain.Workout{
				StartedAt:   date,
				Name:        field(colWorkoutName),
				DurationSec: duration,
			}
			byDate[date] = workout
			order = append(order, date)
		}

		set := domain.ExerciseSet{
			Exercise: field(colExercise),
			SetOrder: setOrder,
			Notes:    field(colNotes),
		}
		if raw := field(colWeight); raw != "" {
			if kg, err := strconv.ParseFloat(raw, 64); err == nil {
				set.WeightKg = kg
				set.HasWeight = true
			}
		}
		if raw := field(colReps); raw != "" {
			set.Reps, _ = strconv.Atoi(raw)
		}
		if raw := field(colDistance); raw != "" {
			set.DistanceMeters, _ = strconv.ParseFloat(raw, 64)
		}
		if raw := field(colSeconds); raw != "" {
			set.Seconds, _ = strconv.ParseFloat(raw, 64)
		}
		workout.Exercises = append(workout.Exercises, set)
	}

	workouts := make([]domain.Workout, len(order))
	for i, date := range order {
		workouts[i] = *byDate[date]
	}
	return workouts, nil
}
