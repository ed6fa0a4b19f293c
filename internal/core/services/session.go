package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/openfit-labs/fitsync-cli/internal/core/domain"
	"github.com/openfit-labs/fitsync-cli/internal/core/ports/driven"
	"github.com/openfit-labs/fitsync-cli/internal/core/ports/driving"
	"github.com/openfit-labs/fitsync-cli/internal/logger"
)

// Ensure SessionManager implements the interface.
var _ driving.SessionManager = (*SessionManager)(nil)

// SessionManager owns the upstream session credential. A persisted session
// inside its validity window is returned unchanged with no network call;
// otherwise a primary login runs and the new session is persisted with a
// fresh timestamp. There is no partial refresh: the session is
// all-or-nothing.
type SessionManager struct {
	store    driven.SessionStore
	auth     driven.Authenticator
	email    string
	password string
	validity time.Duration
}

// NewSessionManager creates a session manager. validity <= 0 uses
// domain.SessionValidity.
func NewSessionManager(
	store driven.SessionStore,
	auth driven.Authenticator,
	email, password string,
	validity time.Duration,
) *SessionManager {
	if validity <= 0 {
		validity = domain.SessionValidity
	}
	return &SessionManager{
		store:    store,
		auth:     auth,
		email:    email,
		password: password,
		validity: validity,
	}
}

// Acquire implements driving.SessionManager.
func (m *SessionManager) Acquire(ctx context.Context) (*domain.Session, error) {
	session, err := m.store.Load(ctx)
	switch {
	case err == nil:
		if !session.Expired(m.validity) {
			logger.Debug("Reusing session %s (age %s)", session.ID, session.Age().Round(time.Minute))
			return session, nil
		}
		logger.Info("Session %s expired after %s, re-authenticating", session.ID, session.Age().Round(time.Hour))
	case errors.Is(err, domain.ErrNotFound):
		logger.Debug("No persisted session, performing primary login")
	default:
		return nil, fmt.Errorf("load session: %w", err)
	}

	return m.login(ctx)
}

// Invalidate implements driving.SessionManager.
func (m *SessionManager) Invalidate(ctx context.Context) error {
	if err := m.store.Delete(ctx); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// login performs the primary login and persists the result. Failure is
// fatal for the caller; no retry happens here.
func (m *SessionManager) login(ctx context.Context) (*domain.Session, error) {
	if m.email == "" || m.password == "" {
		return nil, fmt.Errorf("%w: no session and no primary credentials configured", domain.ErrAuthRequired)
	}

	session, err := m.auth.Login(ctx, m.email, m.password)
	if err != nil {
		return nil, fmt.Errorf("primary login: %w", err)
	}

	if err := m.store.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("persist session: %w", err)
	}

	logger.Info("New session %s persisted", session.ID)
	return session, nil
}
