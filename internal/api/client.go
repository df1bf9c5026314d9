// Package api is the HTTP client for the marketplace REST backend.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"learnhub-storefront/internal/auth"
	"learnhub-storefront/internal/i18n"
	"learnhub-storefront/internal/metrics"
	"learnhub-storefront/internal/middleware"
	"learnhub-storefront/internal/model"
	"learnhub-storefront/internal/prefs"
	"learnhub-storefront/internal/transport"
)

// =============================================================================
// BACKEND API CLIENT
// =============================================================================
//
// Every call:
//   1. waits on the token-bucket limiter
//   2. attaches Authorization: Bearer <token> from the credential store,
//      Accept-Language from the request locale, and X-Request-ID
//   3. maps the response status onto the APIError taxonomy
//
// A 401 on any call goes through the auth Guard, which clears credentials
// and emits one unauthorized signal per cooldown window. Callers only see
// ErrUnauthorized; they never handle the signal themselves.
//
// A failure before any response arrives is a NETWORK_ERROR. Callers treat it
// as fail-safe: local state is left unchanged.
// =============================================================================

const (
	// service names the backend in error messages.
	service = "backend"

	userAgent = "LearnHub-Storefront/1.0"

	// maxResponseBytes bounds how much of a response body is read.
	maxResponseBytes = 4 << 20
)

// Config holds backend client configuration.
type Config struct {
	BaseURL       string
	Locale        i18n.Locale   // Accept-Language when the request carries none
	RateLimit     float64       // Requests per second; 0 disables pacing
	Burst         int           // Limiter burst; defaults to 1
	MinAPIVersion string        // Oldest backend X-API-Version that is not warned about
	ChromeTLS     bool          // Present a Chrome TLS fingerprint
	Timeout       time.Duration // Per-call timeout; defaults to 30s

	// Transport overrides the transport built from the options above.
	Transport http.RoundTripper
	// Metrics records backend calls. Optional.
	Metrics *metrics.Metrics
}

// Client calls the backend on behalf of one user.
type Client struct {
	httpClient *http.Client
	baseURL    string
	locale     i18n.Locale
	limiter    *rate.Limiter
	creds      auth.CredentialStore
	guard      *auth.Guard
	metrics    *metrics.Metrics
	logger     *slog.Logger

	minVersion  string
	versionOnce sync.Once
	versionMu   sync.RWMutex
	version     string // last X-API-Version seen
}

// New creates a backend client.
func New(cfg Config, creds auth.CredentialStore, guard *auth.Guard, logger *slog.Logger) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base URL is required")
	}
	if creds == nil {
		return nil, fmt.Errorf("credential store is required")
	}
	if guard == nil {
		return nil, fmt.Errorf("auth guard is required")
	}
	if cfg.MinAPIVersion != "" && !validVersion(cfg.MinAPIVersion) {
		return nil, fmt.Errorf("invalid minimum API version %q", cfg.MinAPIVersion)
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	rt := cfg.Transport
	if rt == nil {
		rt = transport.New(transport.Options{
			DialTimeout: timeout,
			ChromeTLS:   cfg.ChromeTLS,
			UserAgent:   userAgent,
		})
	}

	limit := rate.Inf
	if cfg.RateLimit > 0 {
		limit = rate.Limit(cfg.RateLimit)
	}
	burst := cfg.Burst
	if burst < 1 {
		burst = 1
	}

	locale := cfg.Locale
	if locale == "" {
		locale = i18n.Default
	}

	return &Client{
		httpClient: &http.Client{Timeout: timeout, Transport: rt},
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		locale:     locale,
		limiter:    rate.NewLimiter(limit, burst),
		creds:      creds,
		guard:      guard,
		metrics:    cfg.Metrics,
		logger:     logger,
		minVersion: cfg.MinAPIVersion,
	}, nil
}

// === HTTP Helpers ===

// newRequest creates a request with the bearer token and locale headers.
// The token is read per call so a login or a 401 takes effect immediately.
func (c *Client) newRequest(ctx context.Context, method, path string, body interface{}) (*http.Request, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshaling request: %w", err)
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Language", string(prefs.LocaleFromContext(ctx, c.locale)))

	requestID := middleware.RequestIDFromContext(ctx)
	if requestID == "" {
		requestID = uuid.NewString()
	}
	req.Header.Set(middleware.RequestIDHeader, requestID)

	if token := auth.Token(c.creds); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return req, nil
}

// do executes the request and returns the raw response body.
// endpoint labels the call in logs and metrics.
func (c *Client) do(req *http.Request, endpoint string) ([]byte, error) {
	ctx := req.Context()

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("waiting for rate limiter: %w", err)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.ObserveBackend(endpoint, 0, time.Since(start))
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("%s: %w", endpoint, ctxErr)
		}
		c.logger.WarnContext(ctx, "backend unreachable",
			slog.String("endpoint", endpoint),
			slog.String("error", err.Error()))
		return nil, model.NewNetworkError(service, err)
	}
	defer resp.Body.Close()
	c.metrics.ObserveBackend(endpoint, resp.StatusCode, time.Since(start))

	c.checkVersion(ctx, resp.Header)

	// A 401 body is never read, so a broken body cannot swallow the signal.
	if resp.StatusCode == http.StatusUnauthorized {
		if c.guard.Unauthorized(ctx) {
			c.metrics.Unauthorized()
		}
		return nil, model.NewUnauthorizedError("session expired")
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, model.NewNetworkError(service, fmt.Errorf("reading response: %w", err))
	}

	if resp.StatusCode >= 400 {
		return nil, c.parseError(resp.StatusCode, body)
	}

	c.logger.DebugContext(ctx, "backend call",
		slog.String("endpoint", endpoint),
		slog.Int("status", resp.StatusCode),
		slog.Duration("duration", time.Since(start)))

	return body, nil
}

// call builds and executes a request in one step.
func (c *Client) call(ctx context.Context, method, path string, body interface{}) ([]byte, error) {
	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return nil, err
	}
	return c.do(req, method+" "+endpointLabel(path))
}

// errorResponse is the backend's error body.
type errorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// parseError converts backend errors to model.APIError.
// Only 401 is special to the client; it is handled in do.
func (c *Client) parseError(statusCode int, body []byte) error {
	var errResp errorResponse
	json.Unmarshal(body, &errResp) // Best effort parse

	msg := errResp.Message
	if msg == "" {
		msg = errResp.Error
	}

	switch statusCode {
	case http.StatusForbidden:
		return model.NewUnauthorizedError("access denied")
	case http.StatusNotFound:
		return model.NewNotFoundError("resource")
	case http.StatusTooManyRequests:
		return model.NewRateLimitError(service)
	case http.StatusBadRequest, http.StatusConflict, http.StatusUnprocessableEntity:
		if msg == "" {
			msg = "invalid request"
		}
		if strings.Contains(strings.ToLower(msg), "coupon") {
			return model.NewValidationError("couponCode", msg)
		}
		return model.NewValidationError("request", msg)
	default:
		return model.NewUpstreamError(service,
			fmt.Errorf("status %d: %s", statusCode, msg))
	}
}

// endpointLabel collapses path parameters so metrics stay low-cardinality.
// /cart/abc123 → /cart/{id}
func endpointLabel(path string) string {
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) == 2 && (parts[0] == "cart" || parts[0] == "wishlist") {
		return "/" + parts[0] + "/{id}"
	}
	return path
}

// IsNetworkError reports whether err means no response reached the client.
func IsNetworkError(err error) bool {
	return errors.Is(err, model.ErrNetwork)
}
