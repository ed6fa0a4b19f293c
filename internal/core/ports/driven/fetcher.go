package driven

import (
	"context"

	"github.com/openfit-labs/fitsync-cli/internal/core/domain"
)

// Fetcher retrieves the records of one data kind from an upstream source
// for a bounded time window. The returned slice is finite and a single run
// consumes it exactly once. Errors are fatal for the run.
type Fetcher interface {
	// Kind reports the data kind this fetcher produces.
	Kind() domain.Kind
	// Fetch returns all records inside the window, oldest first.
	Fetch(ctx context.Context, window domain.Window) ([]domain.Record, error)
}

// Authenticator performs the primary upstream login. It is only invoked
// when no persisted session is usable.
type Authenticator interface {
	// Login exchanges primary credentials for a fresh session.
	// Returns domain.ErrAuthInvalid when the credentials are rejected.
	Login(ctx context.Context, email, password string) (*domain.Session, error)
}
