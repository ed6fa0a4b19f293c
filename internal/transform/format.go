package transform

import (
	"fmt"
	"math"
	"strings"
)

// formatDuration renders seconds as mm:ss, or h:mm:ss past the hour.
func formatDuration(totalSeconds float64) string {
	total := int(totalSeconds)
	hours := total / 3600
	minutes := (total % 3600) / 60
	seconds := total % 60
	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, seconds)
	}
	return fmt.Sprintf("%d:%02d", minutes, seconds)
}

// formatPace renders meters-per-second speed as a min/km pace string.
// Returns empty for non-moving activities.
func formatPace(speedMPS float64) string {
	if speedMPS <= 0 {
		return ""
	}
	secPerKm := 1000 / speedMPS
	return formatDuration(secPerKm) + " /km"
}

// displayName turns an API type key like "trail_running" into
// "Trail Running".
func displayName(typeKey string) string {
	words := strings.Split(typeKey, "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// round2 rounds to two decimals, matching the precision the destination
// stores for distances and durations.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
