package cli

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openfit-labs/fitsync-cli/internal/core/domain"
)

func TestLoginCmd_CredentialsFromEnv(t *testing.T) {
	_, sessions, auth := setupCLITest(t)
	auth.session = &domain.Session{ID: "s-1", Token: "tok", CreatedAt: time.Now()}
	t.Setenv(envGarminEmail, "runner@example.com")
	t.Setenv(envGarminPassword, "secret")

	out, err := executeCommand("login")

	require.NoError(t, err)
	assert.Equal(t, 1, auth.calls)
	assert.Contains(t, out, "Logged in as runner@example.com")
	assert.Contains(t, out, "30 days")

	stored, err := sessions.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tok", stored.Token)
}

func TestLoginCmd_CredentialsFromConfig(t *testing.T) {
	config, _, auth := setupCLITest(t)
	auth.session = &domain.Session{ID: "s-2", Token: "tok", CreatedAt: time.Now()}
	require.NoError(t, config.Set(keyGarminEmail, "runner@example.com"))
	require.NoError(t, config.Set(keyGarminPassword, "secret"))

	_, err := executeCommand("login")

	require.NoError(t, err)
	assert.Equal(t, 1, auth.calls)
}

func TestLoginCmd_RejectedCredentials(t *testing.T) {
	_, sessions, auth := setupCLITest(t)
	auth.err = domain.ErrAuthInvalid
	t.Setenv(envGarminEmail, "runner@example.com")
	t.Setenv(envGarminPassword, "wrong")

	_, err := executeCommand("login")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrAuthInvalid)

	_, err = sessions.Load(context.Background())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
