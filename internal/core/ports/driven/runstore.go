package driven

import (
	"context"

	"github.com/openfit-labs/fitsync-cli/internal/core/domain"
)

// RunStore records run summaries for `fitsync history`. Recording is best
// effort: a run never fails because its summary could not be written.
type RunStore interface {
	// Record persists one run summary.
	Record(ctx context.Context, summary *domain.RunSummary) error
	// Recent returns the most recent run summaries, newest first.
	Recent(ctx context.Context, limit int) ([]domain.RunSummary, error)
	// Close releases the backing store.
	Close() error
}
