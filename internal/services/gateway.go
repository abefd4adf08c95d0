package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/evently/evently/internal/models"
	"github.com/evently/evently/internal/shared"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

// Credentials is the gateway's view of the credential store: a read for
// outbound bearer injection, a clear for 401 invalidation. Satisfied by
// session.Store.
type Credentials interface {
	Get() models.Session
	Clear() error
}

// APIError is a non-2xx response from the event service. Message is the
// server's verbatim `message` field and is what the user sees.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("request failed with status %d", e.Status)
}

// Is maps status codes onto the shared sentinel errors so callers can branch
// with errors.Is without inspecting status codes themselves.
func (e *APIError) Is(target error) bool {
	switch target {
	case shared.ErrUnauthorized:
		return e.Status == http.StatusUnauthorized
	case shared.ErrNotFound:
		return e.Status == http.StatusNotFound
	case shared.ErrAlreadyJoined:
		return e.Status == http.StatusConflict
	}
	return false
}

// Gateway is the single configured HTTP client used by every remote call.
type Gateway struct {
	baseURL    string
	httpClient *http.Client
	creds      Credentials
	limiter    *rate.Limiter
	logger     *log.Logger

	mu          sync.Mutex
	subscribers []func()
}

// GatewayOpts contains construction options for a Gateway.
type GatewayOpts struct {
	BaseURL     string
	Client      *http.Client
	Credentials Credentials
	RateLimit   float64 // requests per second; <=0 disables throttling
	Logger      *log.Logger
}

// NewGateway creates a Gateway for the given API base URL.
func NewGateway(opts GatewayOpts) *Gateway {
	if opts.BaseURL == "" {
		opts.BaseURL = "http://localhost:8080/api"
	}
	if opts.Client == nil {
		opts.Client = http.DefaultClient
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}

	var limiter *rate.Limiter
	if opts.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), 1)
	}

	return &Gateway{
		baseURL:    opts.BaseURL,
		httpClient: opts.Client,
		creds:      opts.Credentials,
		limiter:    limiter,
		logger:     opts.Logger,
	}
}

// OnSessionInvalid registers fn to run whenever a 401 invalidates the
// session. Subscribers (the TUI, the router of a future frontend) react;
// the Gateway itself never navigates.
func (g *Gateway) OnSessionInvalid(fn func()) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.subscribers = append(g.subscribers, fn)
}

// Do performs one request against the API. body (when non-nil) is sent as
// JSON; out (when non-nil) receives the decoded 2xx response body. Non-2xx
// responses return *APIError; transport failures wrap shared.ErrAPIRequest.
func (g *Gateway) Do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", shared.GenerateID())

	if sess := g.creds.Get(); sess.Authenticated() {
		tok := &oauth2.Token{AccessToken: sess.Token, TokenType: "Bearer"}
		tok.SetAuthHeader(req)
	}

	if g.limiter != nil {
		if err := g.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
		}
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: failed to read response: %v", shared.ErrAPIRequest, err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		g.invalidateSession()
		return &APIError{Status: resp.StatusCode, Message: serverMessage(raw)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{Status: resp.StatusCode, Message: serverMessage(raw)}
	}

	if out != nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("%w: failed to decode response: %v", shared.ErrAPIRequest, err)
		}
	}

	return nil
}

// invalidateSession clears the credential store and notifies subscribers.
// This is the only 401 handler in the client.
func (g *Gateway) invalidateSession() {
	if err := g.creds.Clear(); err != nil {
		g.logger.Error("failed to clear credentials after 401", "error", err)
	}
	g.logger.Warn("session invalidated by server")

	g.mu.Lock()
	subs := make([]func(), len(g.subscribers))
	copy(subs, g.subscribers)
	g.mu.Unlock()

	for _, fn := range subs {
		fn()
	}
}

// serverMessage extracts the `message` field every non-2xx response carries.
// Non-JSON bodies yield an empty message and APIError falls back to the
// status code.
func serverMessage(raw []byte) string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return ""
	}
	return payload.Message
}

// IsAPIError unwraps err to an *APIError when one is present.
func IsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}
