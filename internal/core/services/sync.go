package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/openfit-labs/fitsync-cli/internal/core/domain"
	"github.com/openfit-labs/fitsync-cli/internal/core/ports/driven"
	"github.com/openfit-labs/fitsync-cli/internal/core/ports/driving"
	"github.com/openfit-labs/fitsync-cli/internal/logger"
)

// Ensure SyncRunner implements the interface.
var _ driving.SyncRunner = (*SyncRunner)(nil)

// Job bundles the pipeline for one data kind: where records come from, how
// they map to entries, and where entries go.
type Job struct {
	Fetcher     driven.Fetcher
	Transformer driven.Transformer
	Sink        driven.Sink

	// Expander and DerivedSink are optional. When set, each record also
	// produces derived entries reconciled against DerivedSink.
	Expander    driven.Expander
	DerivedSink driven.Sink
}

// SyncRunner executes sync runs. One runner serves all configured kinds;
// kinds without a registered job report domain.ErrNotConfigured.
type SyncRunner struct {
	jobs  map[domain.Kind]Job
	runs  driven.RunStore // optional
	force bool
}

// NewSyncRunner creates a runner. runs may be nil to disable run history.
// force switches the reconciler into rebuild mode.
func NewSyncRunner(runs driven.RunStore, force bool) *SyncRunner {
	return &SyncRunner{
		jobs:  make(map[domain.Kind]Job),
		runs:  runs,
		force: force,
	}
}

// Register wires the pipeline for one kind.
func (r *SyncRunner) Register(kind domain.Kind, job Job) {
	r.jobs[kind] = job
}

// Configured reports whether a kind has a registered job.
func (r *SyncRunner) Configured(kind domain.Kind) bool {
	_, ok := r.jobs[kind]
	return ok
}

// Run implements driving.SyncRunner.
//
// Auth and upstream failures abort with an error. Per-entry sink failures
// are collected in the summary and never abort the run.
func (r *SyncRunner) Run(ctx context.Context, kind domain.Kind, window domain.Window) (*domain.RunSummary, error) {
	job, ok := r.jobs[kind]
	if !ok {
		return nil, fmt.Errorf("%s: %w", kind, domain.ErrNotConfigured)
	}

	summary := &domain.RunSummary{
		ID:        uuid.NewString(),
		Kind:      kind,
		StartedAt: time.Now(),
	}

	logger.Section(fmt.Sprintf("sync %s", kind))
	logger.Info("Fetching %s for %s .. %s", kind, window.StartDate(), window.EndDate())

	records, err := job.Fetcher.Fetch(ctx, window)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", kind, err)
	}
	logger.Info("Fetched %d %s records", len(records), kind)

	// One index query per sink per run bounds destination reads regardless
	// of record count.
	index, err := job.Sink.Index(ctx)
	if err != nil {
		return nil, fmt.Errorf("index %s: %w", kind, err)
	}

	var derivedIndex map[string]domain.Existing
	if job.Expander != nil && job.DerivedSink != nil {
		derivedIndex, err = job.DerivedSink.Index(ctx)
		if err != nil {
			return nil, fmt.Errorf("index derived %s: %w", kind, err)
		}
	}

	reconciler := NewReconciler(r.force)

	for _, record := range records {
		entry, err := job.Transformer.Transform(record)
		if err != nil {
			logger.Warn("Dropping %s record %s: %v", kind, record.NaturalKey(), err)
			summary.Failures = append(summary.Failures, domain.EntryFailure{
				Key:   record.NaturalKey(),
				Error: err.Error(),
			})
			continue
		}

		r.apply(ctx, job.Sink, reconciler, entry, index, summary)

		if job.Expander != nil && job.DerivedSink != nil {
			derived, err := job.Expander.Expand(record)
			if err != nil {
				logger.Warn("Deriving entries for %s failed: %v", record.NaturalKey(), err)
				summary.Failures = append(summary.Failures, domain.EntryFailure{
					Key:   record.NaturalKey(),
					Error: err.Error(),
				})
				continue
			}
			for _, d := range derived {
				r.apply(ctx, job.DerivedSink, reconciler, d, derivedIndex, summary)
			}
		}
	}

	summary.FinishedAt = time.Now()
	logger.Info("Done: %d created, %d updated, %d skipped, %d failed",
		summary.Created, summary.Updated, summary.Skipped, summary.Failed())

	if r.runs != nil {
		if err := r.runs.Record(ctx, summary); err != nil {
			logger.Warn("Recording run history failed: %v", err)
		}
	}

	return summary, nil
}

// apply reconciles one entry and performs the resulting sink call. Sink
// failures are recorded on the summary; the caller keeps going.
func (r *SyncRunner) apply(
	ctx context.Context,
	sink driven.Sink,
	reconciler *Reconciler,
	entry domain.Entry,
	index map[string]domain.Existing,
	summary *domain.RunSummary,
) {
	action := reconciler.Reconcile(entry, index)

	switch action.Type {
	case domain.ActionCreate:
		id, err := sink.Create(ctx, entry)
		if err != nil {
			logger.Warn("Create %s failed: %v", entry.Key, err)
			summary.Failures = append(summary.Failures, domain.EntryFailure{Key: entry.Key, Error: err.Error()})
			return
		}
		// Keep the index current so a duplicate key later in the same run
		// cannot create a second entry.
		index[entry.Key] = domain.Existing{ID: id, Props: entry.Props}
		summary.Created++
		logger.Debug("Created %s (%s)", entry.Key, id)

	case domain.ActionUpdate:
		// Tags written by other sources must survive the overwrite.
		if existing, ok := index[entry.Key]; ok {
			for name, v := range entry.Props {
				if v.Kind == domain.ValueTags {
					entry.Props[name] = domain.MergeTags(existing.Props[name], v)
				}
			}
		}
		if err := sink.Update(ctx, action.PageID, entry); err != nil {
			logger.Warn("Update %s failed: %v", entry.Key, err)
			summary.Failures = append(summary.Failures, domain.EntryFailure{Key: entry.Key, Error: err.Error()})
			return
		}
		index[entry.Key] = domain.Existing{ID: action.PageID, Props: entry.Props}
		summary.Updated++
		logger.Debug("Updated %s (%s)", entry.Key, action.PageID)

	case domain.ActionSkip:
		summary.Skipped++
		logger.Debug("Skipped %s", entry.Key)
	}
}
