package domain

import "time"

// EntryFailure records one per-entry sink failure. Failures do not abort
// the run; they are reported in the summary and the run exits zero.
type EntryFailure struct {
	Key   string
	Error string
}

// RunSummary is the outcome of one sync run for one data kind.
type RunSummary struct {
	ID         string
	Kind       Kind
	StartedAt  time.Time
	FinishedAt time.Time
	Created    int
	Updated    int
	Skipped    int
	Failures   []EntryFailure
}

// Failed returns the number of per-entry failures.
func (r *RunSummary) Failed() int {
	return len(r.Failures)
}

// Total returns the number of entries the run looked at.
func (r *RunSummary) Total() int {
	return r.Created + r.Updated + r.Skipped + len(r.Failures)
}
