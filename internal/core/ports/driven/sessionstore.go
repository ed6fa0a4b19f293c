package driven

import (
	"context"

	"github.com/openfit-labs/fitsync-cli/internal/core/domain"
)

// SessionStore persists the upstream session credential between runs.
// Implementations must store the artifact with owner-only permissions;
// callers treat the stored form as sensitive.
type SessionStore interface {
	// Load returns the persisted session, or domain.ErrNotFound.
	Load(ctx context.Context) (*domain.Session, error)
	// Save persists the session, replacing any previous one.
	Save(ctx context.Context, session *domain.Session) error
	// Delete removes the persisted session. Deleting a missing session is
	// not an error.
	Delete(ctx context.Context) error
}
