package cli

import (
	"context"
	"testing"

	"github.com/openfit-labs/fitsync-cli/internal/adapters/driven/storage/memory"
	"github.com/openfit-labs/fitsync-cli/internal/core/domain"
	"github.com/openfit-labs/fitsync-cli/internal/core/ports/driven"
)

// fakeConfig is an in-memory driven.ConfigStore for command tests.
type fakeConfig struct {
	values map[string]any
}

func newFakeConfig() *fakeConfig {
	return &fakeConfig{values: make(map[string]any)}
}

func (c *fakeConfig) Get(key string) (any, bool) {
	v, ok := c.values[key]
	return v, ok
}

func (c *fakeConfig) GetString(key string) string {
	if v, ok := c.values[key].(string); ok {
		return v
	}
	return ""
}

func (c *fakeConfig) GetInt(key string) int {
	if v, ok := c.values[key].(int); ok {
		return v
	}
	return 0
}

func (c *fakeConfig) GetBool(key string) bool {
	if v, ok := c.values[key].(bool); ok {
		return v
	}
	return false
}

func (c *fakeConfig) Set(key string, value any) error {
	c.values[key] = value
	return nil
}

func (c *fakeConfig) Save() error { return nil }
func (c *fakeConfig) Load() error { return nil }

var _ driven.ConfigStore = (*fakeConfig)(nil)

// stubAuth returns a canned login result.
type stubAuth struct {
	session *domain.Session
	err     error
	calls   int
}

func (a *stubAuth) Login(_ context.Context, _, _ string) (*domain.Session, error) {
	a.calls++
	if a.err != nil {
		return nil, a.err
	}
	return a.session, nil
}

var _ driven.Authenticator = (*stubAuth)(nil)

// setupCLITest swaps every service var for an in-memory fake and restores
// the originals when the test ends.
func setupCLITest(t *testing.T) (*fakeConfig, *memory.SessionStore, *stubAuth) {
	t.Helper()

	oldConfig := configStore
	oldSessions := sessionStore
	oldManager := sessionManager
	oldAuth := authenticator
	oldRuns := runStore

	config := newFakeConfig()
	sessions := memory.NewSessionStore()
	auth := &stubAuth{}

	configStore = config
	sessionStore = sessions
	sessionManager = nil
	authenticator = auth
	runStore = memory.NewRunStore()

	t.Cleanup(func() {
		configStore = oldConfig
		sessionStore = oldSessions
		sessionManager = oldManager
		authenticator = oldAuth
		runStore = oldRuns
	})
	return config, sessions, auth
}
