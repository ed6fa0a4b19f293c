package driven

import (
	"context"

	"github.com/openfit-labs/fitsync-cli/internal/core/domain"
)

// Sink writes destination entries for one data kind. Implementations wrap
// one destination database.
type Sink interface {
	// Index queries every existing entry once, keyed by natural key. It is
	// called once per run so change detection never issues per-record
	// lookups.
	Index(ctx context.Context) (map[string]domain.Existing, error)
	// Create writes a new entry and returns its destination ID.
	Create(ctx context.Context, entry domain.Entry) (string, error)
	// Update overwrites the tracked properties of an existing entry and,
	// when the entry carries content, regenerates the page body.
	Update(ctx context.Context, id string, entry domain.Entry) error
}
