// Package file provides the file-backed session credential store. The
// session is a sensitive artifact: it is written with owner-only
// permissions and can be round-tripped through base64 for injection into a
// CI secret store.
package file

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/openfit-labs/fitsync-cli/internal/core/domain"
	"github.com/openfit-labs/fitsync-cli/internal/core/ports/driven"
)

// sessionFile is the file name inside the fitsync config directory.
const sessionFile = "session.json"

// Ensure SessionStore implements the interface.
var _ driven.SessionStore = (*SessionStore)(nil)

// SessionStore persists the session credential as a JSON file.
type SessionStore struct {
	path string
}

// NewSessionStore creates a session store rooted at dir.
// If dir is empty, defaults to ~/.fitsync.
func NewSessionStore(dir string) (*SessionStore, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		dir = filepath.Join(home, ".fitsync")
	}

	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, err
	}

	return &SessionStore{path: filepath.Join(dir, sessionFile)}, nil
}

// Path returns the session file path.
func (s *SessionStore) Path() string {
	return s.path
}

// Load implements driven.SessionStore.
func (s *SessionStore) Load(_ context.Context) (*domain.Session, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("read session file: %w", err)
	}

	var session domain.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("decode session file: %w", err)
	}
	if session.Token == "" {
		return nil, fmt.Errorf("%w: session file has no token", domain.ErrInvalidInput)
	}

	return &session, nil
}

// Save implements driven.SessionStore.
func (s *SessionStore) Save(_ context.Context, session *domain.Session) error {
	if session == nil {
		return domain.ErrInvalidInput
	}

	data, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	// Owner-only: the blob is as sensitive as a password.
	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("write session file: %w", err)
	}
	return nil
}

// Delete implements driven.SessionStore.
func (s *SessionStore) Delete(_ context.Context) error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove session file: %w", err)
	}
	return nil
}

// Export returns the persisted session as a base64 string, suitable for a
// remote execution environment's secret store.
func (s *SessionStore) Export(ctx context.Context) (string, error) {
	if _, err := s.Load(ctx); err != nil {
		return "", err
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return "", fmt.Errorf("read session file: %w", err)
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

// Import decodes a base64 session blob and installs it as the persisted
// session, validating it parses first.
func (s *SessionStore) Import(ctx context.Context, encoded string) error {
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return fmt.Errorf("%w: not valid base64: %v", domain.ErrInvalidInput, err)
	}

	var session domain.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return fmt.Errorf("%w: not a session blob: %v", domain.ErrInvalidInput, err)
	}
	if session.Token == "" {
		return fmt.Errorf("%w: session blob has no token", domain.ErrInvalidInput)
	}

	return s.Save(ctx, &session)
}
