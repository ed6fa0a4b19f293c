// Package notion is the destination adapter: it writes entries into Notion
// databases through the official API and reads them back for duplicate
// detection.
package notion

import (
	"net/http"
	"time"

	"github.com/jomei/notionapi"
	"golang.org/x/time/rate"
)

// Notion allows an average of 3 requests per second per integration.
const (
	requestsPerSecond = 3
	burstSize         = 3
)

// NewClient creates a Notion API client whose requests are paced under the
// integration rate limit.
func NewClient(token string, opts ...notionapi.ClientOption) *notionapi.Client {
	httpc := &http.Client{
		Timeout: 30 * time.Second,
		Transport: &throttledTransport{
			base:    http.DefaultTransport,
			limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), burstSize),
		},
	}
	opts = append([]notionapi.ClientOption{notionapi.WithHTTPClient(httpc)}, opts...)
	return notionapi.NewClient(notionapi.Token(token), opts...)
}

// throttledTransport paces outgoing requests with a token bucket.
type throttledTransport struct {
	base    http.RoundTripper
	limiter *rate.Limiter
}

// RoundTrip implements http.RoundTripper.
func (t *throttledTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := t.limiter.Wait(req.Context()); err != nil {
		return nil, err
	}
	return t.base.RoundTrip(req)
}
