package cli

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	filestore "github.com/openfit-labs/fitsync-cli/internal/adapters/driven/storage/file"
	"github.com/openfit-labs/fitsync-cli/internal/core/domain"
)

func TestSessionStatusCmd_NoSession(t *testing.T) {
	setupCLITest(t)

	out, err := executeCommand("session", "status")

	require.NoError(t, err)
	assert.Contains(t, out, "No session")
}

func TestSessionStatusCmd_Valid(t *testing.T) {
	_, sessions, _ := setupCLITest(t)
	session := &domain.Session{ID: "s-1", Token: "tok", CreatedAt: time.Now().Add(-48 * time.Hour)}
	require.NoError(t, sessions.Save(context.Background(), session))

	out, err := executeCommand("session", "status")

	require.NoError(t, err)
	assert.Contains(t, out, "Session s-1")
	assert.Contains(t, out, "2d ago")
	assert.Contains(t, out, "valid for 27d more")
}

func TestSessionStatusCmd_Expired(t *testing.T) {
	_, sessions, _ := setupCLITest(t)
	session := &domain.Session{ID: "s-2", Token: "tok",
		CreatedAt: time.Now().Add(-domain.SessionValidity - time.Hour)}
	require.NoError(t, sessions.Save(context.Background(), session))

	out, err := executeCommand("session", "status")

	require.NoError(t, err)
	assert.Contains(t, out, "expired")
}

func TestSessionClearCmd(t *testing.T) {
	_, sessions, _ := setupCLITest(t)
	session := &domain.Session{ID: "s-3", Token: "tok", CreatedAt: time.Now()}
	require.NoError(t, sessions.Save(context.Background(), session))

	out, err := executeCommand("session", "clear")

	require.NoError(t, err)
	assert.Contains(t, out, "Session deleted")
	_, err = sessions.Load(context.Background())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSessionExportImportCmd_RoundTrip(t *testing.T) {
	setupCLITest(t)
	store, err := filestore.NewSessionStore(t.TempDir())
	require.NoError(t, err)
	sessionStore = store

	session := &domain.Session{ID: "s-4", Token: "tok", CreatedAt: time.Now()}
	require.NoError(t, store.Save(context.Background(), session))

	out, err := executeCommand("session", "export")
	require.NoError(t, err)
	blob := strings.TrimSpace(out)
	require.NotEmpty(t, blob)

	require.NoError(t, store.Delete(context.Background()))

	out, err = executeCommand("session", "import", blob)
	require.NoError(t, err)
	assert.Contains(t, out, "Session installed")

	restored, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "s-4", restored.ID)
	assert.Equal(t, "tok", restored.Token)
}

func TestSessionExportCmd_UnsupportedStore(t *testing.T) {
	setupCLITest(t)

	_, err := executeCommand("session", "export")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
