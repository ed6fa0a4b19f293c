// Package transform maps fetched records into destination entries: field
// renames, unit conversions, timezone normalization and icon lookup. All
// transformers are pure; the only inputs besides the record are the
// configured timezone and the static mapping tables in this package.
package transform

import "github.com/openfit-labs/fitsync-cli/internal/logger"

// Page icons by activity type key. Strength pages and exercise progress
// rows use StrengthIcon regardless of this table.
var activityIcons = map[string]string{
	"running":             "https://img.icons8.com/?size=100&id=k1l1XFkME39t&format=png&color=000000",
	"trail_running":       "https://img.icons8.com/?size=100&id=9807&format=png&color=000000",
	"treadmill_running":   "https://img.icons8.com/?size=100&id=9794&format=png&color=000000",
	"cycling":             "https://img.icons8.com/?size=100&id=9806&format=png&color=000000",
	"indoor_cycling":      "https://img.icons8.com/?size=100&id=47443&format=png&color=000000",
	"lap_swimming":        "https://img.icons8.com/?size=100&id=9777&format=png&color=000000",
	"open_water_swimming": "https://img.icons8.com/?size=100&id=9777&format=png&color=000000",
	"walking":             "https://img.icons8.com/?size=100&id=9807&format=png&color=000000",
	"hiking":              "https://img.icons8.com/?size=100&id=9844&format=png&color=000000",
	"strength_training":   "https://img.icons8.com/?size=100&id=107640&format=png&color=000000",
	"yoga":                "https://img.icons8.com/?size=100&id=9783&format=png&color=000000",
}

// GenericIcon is the fallback for activity types outside the table. An
// unknown type never fails a run; it just looks plain.
const GenericIcon = "https://img.icons8.com/?size=100&id=62235&format=png&color=000000"

// StrengthIcon marks strength workout pages and exercise progress rows.
const StrengthIcon = "https://img.icons8.com/?size=100&id=107640&format=png&color=000000"

// IconFor resolves the page icon for an activity type key.
func IconFor(typeKey string) string {
	if url, ok := activityIcons[typeKey]; ok {
		return url
	}
	logger.Debug("No icon mapping for activity type %q, using generic", typeKey)
	return GenericIcon
}
