// Package garmin is the Garmin Connect connector: primary login plus
// bounded fetches for activities, personal records, daily steps and sleep.
package garmin

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"github.com/openfit-labs/fitsync-cli/internal/core/domain"
	"github.com/openfit-labs/fitsync-cli/internal/core/ports/driven"
	"github.com/openfit-labs/fitsync-cli/internal/core/ports/driving"
	"github.com/openfit-labs/fitsync-cli/internal/logger"
)

// DefaultBaseURL is the Garmin Connect API gateway.
const DefaultBaseURL = "https://connectapi.garmin.com"

// API paths. The login exchange mirrors what the Connect mobile clients
// do: primary credentials in, bearer token out.
const (
	loginPath      = "/auth/login"
	activitiesPath = "/activitylist-service/activities/search/activities"
	stepsPath      = "/usersummary-service/stats/steps/daily"
	sleepPath      = "/wellness-service/stats/sleep/daily"
	recordsPath    = "/personalrecord-service/personalrecord/prs"
)

// activityPageSize is how many activities one list request returns.
const activityPageSize = 100

// Ensure Client implements the primary login port.
var _ driven.Authenticator = (*Client)(nil)

// Client is a rate-limited Garmin Connect HTTP client. Authorized requests
// draw their bearer token from an oauth2.TokenSource, normally the session
// manager adapter, so callers never touch the token directly.
type Client struct {
	baseURL string
	httpc   *http.Client
	limiter *RateLimiter
	tokens  oauth2.TokenSource
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API gateway URL. Used by tests.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(httpc *http.Client) Option {
	return func(c *Client) { c.httpc = httpc }
}

// WithRateLimit overrides the default rate limit.
func WithRateLimit(cfg RateLimitConfig) Option {
	return func(c *Client) { c.limiter = NewRateLimiter(cfg) }
}

// NewClient creates a Garmin Connect client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		httpc:   &http.Client{Timeout: 30 * time.Second},
		limiter: NewRateLimiter(DefaultRateLimit),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetTokenSource wires the token source used for authorized requests.
func (c *Client) SetTokenSource(ts oauth2.TokenSource) {
	c.tokens = ts
}

// SessionTokenSource adapts a session manager to oauth2.TokenSource so the
// client (and anything else speaking oauth2) can draw bearer tokens from
// the managed session.
func SessionTokenSource(ctx context.Context, sessions driving.SessionManager) oauth2.TokenSource {
	return &sessionTokenSource{ctx: ctx, sessions: sessions}
}

type sessionTokenSource struct {
	ctx      context.Context
	sessions driving.SessionManager
}

// Token implements oauth2.TokenSource.
func (s *sessionTokenSource) Token() (*oauth2.Token, error) {
	session, err := s.sessions.Acquire(s.ctx)
	if err != nil {
		return nil, err
	}
	return &oauth2.Token{AccessToken: session.Token, TokenType: "Bearer"}, nil
}

// Login implements driven.Authenticator: it exchanges primary credentials
// for a fresh session. Rejected credentials surface domain.ErrAuthInvalid.
func (c *Client) Login(ctx context.Context, email, password string) (*domain.Session, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	form := url.Values{}
	form.Set("username", email)
	form.Set("password", password)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+loginPath, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("create login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: login: %v", domain.ErrUpstream, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, fmt.Errorf("%w: credentials rejected for %s", domain.ErrAuthInvalid, email)
	default:
		return nil, fmt.Errorf("%w: %w", domain.ErrUpstream, c.apiError(resp, loginPath))
	}

	var body struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: decode login response: %v", domain.ErrUpstream, err)
	}
	if body.AccessToken == "" {
		return nil, fmt.Errorf("%w: login response carried no token", domain.ErrUpstream)
	}

	logger.Debug("Garmin login succeeded for %s", email)
	return &domain.Session{
		ID:        uuid.NewString(),
		Token:     body.AccessToken,
		CreatedAt: time.Now(),
	}, nil
}

// getJSON performs an authorized GET and decodes the JSON response into
// out. All fetch paths go through here so rate limiting, auth and error
// mapping stay in one place.
func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	if c.tokens == nil {
		return domain.ErrAuthRequired
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	token, err := c.tokens.Token()
	if err != nil {
		return fmt.Errorf("acquire session: %w", err)
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, http.NoBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	token.SetAuthHeader(req)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrUpstream, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusTooManyRequests:
		retryAfter, _ := strconv.Atoi(resp.Header.Get("Retry-After"))
		c.limiter.RecordRateLimitError(retryAfter)
		return fmt.Errorf("%w: %w", domain.ErrRateLimited,
			&RateLimitError{RetryAt: time.Now().Add(time.Duration(retryAfter) * time.Second)})
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: %w", domain.ErrAuthExpired, c.apiError(resp, path))
	default:
		return fmt.Errorf("%w: %w", domain.ErrUpstream, c.apiError(resp, path))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode %s: %v", domain.ErrUpstream, path, err)
	}
	return nil
}

// apiError builds an APIError from a non-200 response, draining a little
// of the body for the message.
func (c *Client) apiError(resp *http.Response, path string) *APIError {
	msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return &APIError{
		StatusCode: resp.StatusCode,
		Message:    strings.TrimSpace(string(msg)),
		URL:        c.baseURL + path,
	}
}
