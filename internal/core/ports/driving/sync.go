package driving

import (
	"context"

	"github.com/openfit-labs/fitsync-cli/internal/core/domain"
)

// SyncRunner executes one sync run: fetch, transform, reconcile, write.
type SyncRunner interface {
	// Run syncs one data kind over the window and returns its summary.
	// Fatal errors (auth, upstream) return a nil summary; per-entry sink
	// failures are reported inside the summary instead.
	Run(ctx context.Context, kind domain.Kind, window domain.Window) (*domain.RunSummary, error)
}

// SessionManager supplies a valid upstream session, re-authenticating only
// when the persisted one is missing or expired.
type SessionManager interface {
	// Acquire returns a usable session. Within the validity window this
	// performs zero network calls.
	Acquire(ctx context.Context) (*domain.Session, error)
	// Invalidate destroys the persisted session, forcing the next Acquire
	// to perform a primary login.
	Invalidate(ctx context.Context) error
}
