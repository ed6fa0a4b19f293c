// Package memory provides in-memory implementations of the driven storage
// ports. They back unit tests and any wiring that does not need
// persistence.
package memory

import (
	"context"
	"sync"

	"github.com/openfit-labs/fitsync-cli/internal/core/domain"
	"github.com/openfit-labs/fitsync-cli/internal/core/ports/driven"
)

// Ensure SessionStore implements the interface.
var _ driven.SessionStore = (*SessionStore)(nil)

// SessionStore is an in-memory implementation of driven.SessionStore.
type SessionStore struct {
	mu      sync.RWMutex
	session *domain.Session
}

// NewSessionStore creates a new in-memory session store.
func NewSessionStore() *SessionStore {
	return &SessionStore{}
}

// Load returns the stored session, or domain.ErrNotFound.
func (s *SessionStore) Load(_ context.Context) (*domain.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.session == nil {
		return nil, domain.ErrNotFound
	}
	copied := *s.session
	return &copied, nil
}

// Save stores the session, replacing any previous one.
func (s *SessionStore) Save(_ context.Context, session *domain.Session) error {
	if session == nil {
		return domain.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *session
	s.session = &copied
	return nil
}

// Delete removes the stored session.
func (s *SessionStore) Delete(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = nil
	return nil
}
