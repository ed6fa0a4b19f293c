package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openfit-labs/fitsync-cli/internal/adapters/driven/storage/memory"
	"github.com/openfit-labs/fitsync-cli/internal/core/domain"
)

// countingAuthenticator records login calls.
type countingAuthenticator struct {
	logins int
	fail   error
}

func (a *countingAuthenticator) Login(_ context.Context, _, _ string) (*domain.Session, error) {
	a.logins++
	if a.fail != nil {
		return nil, a.fail
	}
	return &domain.Session{
		ID:        uuid.NewString(),
		Token:     "token-from-login",
		CreatedAt: time.Now(),
	}, nil
}

func TestSessionManager_Acquire_ReusesValidSession(t *testing.T) {
	ctx := context.Background()
	store := memory.NewSessionStore()
	auth := &countingAuthenticator{}

	persisted := &domain.Session{ID: "s-1", Token: "persisted", CreatedAt: time.Now().Add(-24 * time.Hour)}
	require.NoError(t, store.Save(ctx, persisted))

	m := NewSessionManager(store, auth, "user@example.com", "secret", 0)

	first, err := m.Acquire(ctx)
	require.NoError(t, err)
	second, err := m.Acquire(ctx)
	require.NoError(t, err)

	assert.Equal(t, "persisted", first.Token)
	assert.Equal(t, "persisted", second.Token)
	assert.Zero(t, auth.logins, "acquire within the validity window must not log in")
}

func TestSessionManager_Acquire_ExpiredSessionTriggersLogin(t *testing.T) {
	ctx := context.Background()
	store := memory.NewSessionStore()
	auth := &countingAuthenticator{}

	stale := &domain.Session{ID: "s-old", Token: "stale", CreatedAt: time.Now().Add(-31 * 24 * time.Hour)}
	require.NoError(t, store.Save(ctx, stale))

	m := NewSessionManager(store, auth, "user@example.com", "secret", 0)

	session, err := m.Acquire(ctx)
	require.NoError(t, err)

	assert.Equal(t, 1, auth.logins)
	assert.Equal(t, "token-from-login", session.Token)
	assert.NotEqual(t, "s-old", session.ID)

	// The stored credential was overwritten with a fresh timestamp.
	saved, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, session.ID, saved.ID)
	assert.False(t, saved.Expired(domain.SessionValidity))
}

func TestSessionManager_Acquire_NoSessionNoCredentials(t *testing.T) {
	ctx := context.Background()
	m := NewSessionManager(memory.NewSessionStore(), &countingAuthenticator{}, "", "", 0)

	_, err := m.Acquire(ctx)
	assert.ErrorIs(t, err, domain.ErrAuthRequired)
}

func TestSessionManager_Acquire_LoginFailureIsFatal(t *testing.T) {
	ctx := context.Background()
	auth := &countingAuthenticator{fail: domain.ErrAuthInvalid}
	m := NewSessionManager(memory.NewSessionStore(), auth, "user@example.com", "wrong", 0)

	_, err := m.Acquire(ctx)
	assert.ErrorIs(t, err, domain.ErrAuthInvalid)
	assert.Equal(t, 1, auth.logins, "no retry inside the session manager")
}

func TestSessionManager_Invalidate(t *testing.T) {
	ctx := context.Background()
	store := memory.NewSessionStore()
	require.NoError(t, store.Save(ctx, &domain.Session{ID: "s-1", CreatedAt: time.Now()}))

	m := NewSessionManager(store, &countingAuthenticator{}, "user@example.com", "secret", 0)
	require.NoError(t, m.Invalidate(ctx))

	_, err := store.Load(ctx)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
