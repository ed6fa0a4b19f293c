package garmin

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/openfit-labs/fitsync-cli/internal/core/domain"
)

// testLimit keeps tests fast by removing the request pacing.
var testLimit = RateLimitConfig{RequestsPerSecond: 1000, BurstSize: 1000}

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(
		WithBaseURL(srv.URL),
		WithHTTPClient(srv.Client()),
		WithRateLimit(testLimit),
	)
}

func TestClient_Login(t *testing.T) {
	t.Run("exchanges credentials for a session", func(t *testing.T) {
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, http.MethodPost, r.Method)
			require.Equal(t, loginPath, r.URL.Path)
			require.NoError(t, r.ParseForm())
			assert.Equal(t, "user@example.com", r.FormValue("username"))
			assert.Equal(t, "hunter2", r.FormValue("password"))
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"access_token":"tok-abc"}`))
		}))

		session, err := client.Login(context.Background(), "user@example.com", "hunter2")

		require.NoError(t, err)
		assert.Equal(t, "tok-abc", session.Token)
		assert.NotEmpty(t, session.ID)
		assert.WithinDuration(t, time.Now(), session.CreatedAt, time.Minute)
	})

	t.Run("rejected credentials are an auth error", func(t *testing.T) {
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))

		_, err := client.Login(context.Background(), "user@example.com", "wrong")

		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrAuthInvalid)
	})

	t.Run("server failure is an upstream error", func(t *testing.T) {
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))

		_, err := client.Login(context.Background(), "user@example.com", "hunter2")

		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrUpstream)
	})

	t.Run("empty token in response is an upstream error", func(t *testing.T) {
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{}`))
		}))

		_, err := client.Login(context.Background(), "user@example.com", "hunter2")

		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrUpstream)
	})
}

func TestClient_getJSON(t *testing.T) {
	t.Run("sends bearer token from the token source", func(t *testing.T) {
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "Bearer tok-xyz", r.Header.Get("Authorization"))
			_, _ = w.Write([]byte(`{"ok":true}`))
		}))
		client.SetTokenSource(oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "tok-xyz"}))

		var out struct {
			OK bool `json:"ok"`
		}
		err := client.getJSON(context.Background(), "/ping", nil, &out)

		require.NoError(t, err)
		assert.True(t, out.OK)
	})

	t.Run("fails without a token source", func(t *testing.T) {
		client := NewClient(WithRateLimit(testLimit))

		err := client.getJSON(context.Background(), "/ping", nil, &struct{}{})

		assert.ErrorIs(t, err, domain.ErrAuthRequired)
	})

	t.Run("401 surfaces as expired auth", func(t *testing.T) {
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		client.SetTokenSource(oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "stale"}))

		err := client.getJSON(context.Background(), "/ping", nil, &struct{}{})

		assert.ErrorIs(t, err, domain.ErrAuthExpired)
		assert.True(t, IsUnauthorized(err))
	})

	t.Run("429 surfaces as rate limited and backs off", func(t *testing.T) {
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Retry-After", "30")
			w.WriteHeader(http.StatusTooManyRequests)
		}))
		client.SetTokenSource(oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "tok"}))

		err := client.getJSON(context.Background(), "/ping", nil, &struct{}{})

		require.ErrorIs(t, err, domain.ErrRateLimited)
		assert.True(t, IsRateLimited(err))
		var rle *RateLimitError
		require.ErrorAs(t, err, &rle)
		assert.WithinDuration(t, time.Now().Add(30*time.Second), rle.RetryAt, time.Minute)
	})
}

func TestSessionTokenSource(t *testing.T) {
	t.Run("draws token from the managed session", func(t *testing.T) {
		sessions := &stubSessionManager{session: &domain.Session{
			ID:        "s-1",
			Token:     "managed-token",
			CreatedAt: time.Now(),
		}}

		ts := SessionTokenSource(context.Background(), sessions)
		token, err := ts.Token()

		require.NoError(t, err)
		assert.Equal(t, "managed-token", token.AccessToken)
		assert.Equal(t, "Bearer", token.TokenType)
	})

	t.Run("propagates acquire failures", func(t *testing.T) {
		sessions := &stubSessionManager{err: domain.ErrAuthRequired}

		ts := SessionTokenSource(context.Background(), sessions)
		_, err := ts.Token()

		assert.ErrorIs(t, err, domain.ErrAuthRequired)
	})
}

type stubSessionManager struct {
	session *domain.Session
	err     error
}

func (s *stubSessionManager) Acquire(_ context.Context) (*domain.Session, error) {
	return s.session, s.err
}

func (s *stubSessionManager) Invalidate(_ context.Context) error { return nil }
