package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotConfigured indicates a data kind has no destination database
	// configured. The kind is skipped rather than failing the run.
	ErrNotConfigured = errors.New("not configured")

	// Authentication errors. All of them are fatal for a run.

	// ErrAuthRequired indicates no persisted session and no primary
	// credentials are available.
	ErrAuthRequired = errors.New("authentication required")

	// ErrAuthExpired indicates the persisted session is past its validity
	// window and must be regenerated.
	ErrAuthExpired = errors.New("session expired")

	// ErrAuthInvalid indicates the primary credentials were rejected.
	ErrAuthInvalid = errors.New("authentication invalid")

	// Upstream errors. Fatal for a run: without a complete fetch the
	// reconciler cannot make safe decisions.

	// ErrUpstream indicates the upstream fitness API failed.
	ErrUpstream = errors.New("upstream request failed")

	// ErrRateLimited indicates an API rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")

	// Recoverable errors. Caught at per-record scope.

	// ErrNoMapping indicates a record's category has no known mapping.
	// Policy: fall back to the generic category, never abort the run.
	ErrNoMapping = errors.New("no category mapping")

	// ErrSink indicates a destination write failed for one entry.
	// Logged and counted; the run continues with the next entry.
	ErrSink = errors.New("destination write failed")
)
