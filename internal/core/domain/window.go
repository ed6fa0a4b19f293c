package domain

import "time"

// DefaultWindowDays is the default trailing fetch window. The window length
// is a documented contract: records older than the window are never fetched
// and therefore never reconciled, so it must cover the longest expected gap
// between runs.
const DefaultWindowDays = 30

// Window is the half-open time range [Start, End) that bounds a fetch. No
// cursor is persisted between runs; each run re-fetches a trailing window
// and relies on the reconciler to skip records that already exist.
type Window struct {
	Start time.Time
	End   time.Time
}

// TrailingWindow returns a window covering the last days days, ending now.
func TrailingWindow(now time.Time, days int) Window {
	if days <= 0 {
		days = DefaultWindowDays
	}
	return Window{Start: now.AddDate(0, 0, -days), End: now}
}

// StartDate returns the window start formatted as YYYY-MM-DD.
func (w Window) StartDate() string { return w.Start.Format("2006-01-02") }

// EndDate returns the window end formatted as YYYY-MM-DD.
func (w Window) EndDate() string { return w.End.Format("2006-01-02") }

// Days returns the window length in whole days, rounding up.
func (w Window) Days() int {
	d := w.End.Sub(w.Start)
	days := int(d / (24 * time.Hour))
	if d%(24*time.Hour) != 0 {
		days++
	}
	return days
}
