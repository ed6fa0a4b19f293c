package domain

import "time"

// SessionValidity is how long a persisted upstream session stays reusable
// before a fresh primary login is forced. Garmin sessions are honoured for
// roughly 30 days; staying just inside that avoids mid-run rejections.
const SessionValidity = 30 * 24 * time.Hour

// Session is the reusable upstream authentication artifact. It is persisted
// between runs so that most runs perform zero login calls. The token is
// opaque to everything except the upstream client; treat the persisted form
// as sensitive.
type Session struct {
	// ID is a UUID assigned at login, used only for diagnostics.
	ID string `json:"id"`
	// Token is the bearer token obtained from the primary login.
	Token string `json:"token"`
	// CreatedAt is when the primary login happened. The session is valid
	// for SessionValidity from this instant.
	CreatedAt time.Time `json:"created_at"`
}

// Age returns how long ago the session was created.
func (s *Session) Age() time.Duration {
	return time.Since(s.CreatedAt)
}

// Expired reports whether the session is past the given validity window.
func (s *Session) Expired(window time.Duration) bool {
	return s.Age() >= window
}
