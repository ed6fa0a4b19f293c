package transform

import (
	"fmt"
	"time"

	"github.com/openfit-labs/fitsync-cli/internal/core/domain"
	"github.com/openfit-labs/fitsync-cli/internal/core/ports/driven"
)

// Personal record labels by Garmin type ID. Unknown type IDs get a
// generated label rather than failing the run.
var recordLabels = map[int]string{
	1:  "1km",
	2:  "1 mile",
	3:  "5km",
	4:  "10km",
	5:  "Half Marathon",
	6:  "Marathon",
	7:  "Longest Run",
	8:  "Longest Ride",
	9:  "Total Ascent",
	10: "Max Avg Power (20 min)",
	12: "Most Steps in a Day",
	13: "Most Steps in a Week",
	14: "Most Steps in a Month",
	15: "Longest Goal Streak",
}

// Record types whose value is a time in seconds; the rest are distances
// in meters or plain counts.
var timedRecordTypes = map[int]bool{
	1: true, 2: true, 3: true, 4: true, 5: true, 6: true,
}

var _ driven.Transformer = (*RecordTransformer)(nil)

// RecordTransformer maps Garmin personal records onto the records database
// schema. One row exists per record type; a beaten record updates its row.
type RecordTransformer struct {
	loc *time.Location
}

// NewRecordTransformer creates a transformer normalizing times into loc.
func NewRecordTransformer(loc *time.Location) *RecordTransformer {
	if loc == nil {
		loc = time.Local
	}
	return &RecordTransformer{loc: loc}
}

// Transform implements driven.Transformer.
func (t *RecordTransformer) Transform(record domain.Record) (domain.Entry, error) {
	pr, ok := record.(domain.PersonalRecord)
	if !ok {
		return domain.Entry{}, fmt.Errorf("%w: expected personal record, got %T", domain.ErrInvalidInput, record)
	}

	label, ok := recordLabels[pr.TypeID]
	if !ok {
		label = fmt.Sprintf("Record %d", pr.TypeID)
	}

	return domain.Entry{
		Kind:    domain.KindRecords,
		Key:     pr.NaturalKey(),
		Title:   label,
		IconURL: "https://img.icons8.com/?size=100&id=33622&format=png&color=000000",
		Props: map[string]domain.Value{
			"Record ID":       domain.TextValue(pr.NaturalKey()),
			"Value":           domain.NumberValue(round2(pr.Value)),
			"Display":         domain.TextValue(formatRecordValue(pr.TypeID, pr.Value)),
			"Date":            domain.DateValue(pr.When.In(t.loc)),
			"Garmin Activity": domain.NumberValue(float64(pr.ActivityID)),
		},
	}, nil
}

// formatRecordValue renders the record value in its natural unit: a time
// for race distances, kilometers for distance records, a bare count
// otherwise.
func formatRecordValue(typeID int, value float64) string {
	switch {
	case timedRecordTypes[typeID]:
		return formatDuration(value)
	case typeID == 7 || typeID == 8:
		return fmt.Sprintf("%.2f km", value/1000)
	default:
		return fmt.Sprintf("%.0f", value)
	}
}
