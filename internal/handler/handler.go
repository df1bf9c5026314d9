// Package handler provides the HTTP and MCP surfaces of the storefront.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"learnhub-storefront/internal/i18n"
	"learnhub-storefront/internal/metrics"
	"learnhub-storefront/internal/model"
	"learnhub-storefront/internal/prefs"
	"learnhub-storefront/internal/storefront"
)

// Handler holds dependencies for HTTP handlers.
type Handler struct {
	svc      *storefront.Service
	defaults prefs.Prefs
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

// New creates a new Handler over svc. defaults apply when a request carries
// no usable preferences. m may be nil to disable /metrics.
func New(svc *storefront.Service, defaults prefs.Prefs, m *metrics.Metrics, logger *slog.Logger) *Handler {
	if defaults.Locale == "" {
		defaults.Locale = i18n.Default
	}
	if defaults.Currency == "" {
		defaults.Currency = "USD"
	}
	return &Handler{
		svc:      svc,
		defaults: defaults,
		metrics:  m,
		logger:   logger,
	}
}

// RegisterRoutes registers all HTTP routes with the given ServeMux.
// Uses Go 1.22+ method routing patterns.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	// Session
	mux.HandleFunc("POST /session", h.handleLogin)
	mux.HandleFunc("DELETE /session", h.handleLogout)

	// Cart
	mux.HandleFunc("GET /cart", h.handleGetCart)
	mux.HandleFunc("POST /cart", h.handleAddToCart)
	mux.HandleFunc("DELETE /cart/{id}", h.handleRemoveFromCart)
	mux.HandleFunc("DELETE /cart", h.handleClearCart)

	// Wishlist
	mux.HandleFunc("GET /wishlist", h.handleGetWishlist)
	mux.HandleFunc("POST /wishlist/toggle", h.handleToggleWishlist)
	mux.HandleFunc("DELETE /wishlist/{id}", h.handleRemoveFromWishlist)

	// Checkout
	mux.HandleFunc("POST /selection", h.handleSetSelection)
	mux.HandleFunc("POST /coupon", h.handleApplyCoupon)
	mux.HandleFunc("POST /checkout", h.handleCheckout)
	mux.HandleFunc("GET /orders", h.handleListOrders)

	// MCP transport - JSON-RPC endpoint using official MCP SDK
	mux.Handle("/mcp", h.NewMCPHandler())

	// Health check
	mux.HandleFunc("GET /health", h.handleHealth)
	mux.HandleFunc("GET /healthz", h.handleHealth)

	if h.metrics != nil {
		mux.Handle("GET /metrics", h.metrics.Handler())
	}
}

// handleHealth returns a simple health check response.
// GET /health, GET /healthz
func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, healthResponse{
		Status:  "ok",
		Pending: h.svc.Pending(),
	})
}

type healthResponse struct {
	Status  string   `json:"status"`
	Pending []string `json:"pending,omitempty"`
}

// === Request Preferences ===

// prefs returns the request's preferences, or the defaults outside the
// prefs middleware.
func (h *Handler) prefs(ctx context.Context) prefs.Prefs {
	p, ok := prefs.FromContext(ctx)
	if !ok {
		return h.defaults
	}
	if p.Locale == "" {
		p.Locale = h.defaults.Locale
	}
	if p.Currency == "" {
		p.Currency = h.defaults.Currency
	}
	return p
}

// formatter builds the price formatter for ctx. An unsupported currency
// falls back to the default currency.
func (h *Handler) formatter(ctx context.Context) *i18n.Formatter {
	p := h.prefs(ctx)
	f, err := i18n.NewFormatter(p.Locale, p.Currency)
	if err == nil {
		return f
	}
	h.logger.DebugContext(ctx, "falling back to default currency",
		slog.String("currency", p.Currency),
		slog.String("error", err.Error()))
	f, err = i18n.NewFormatter(p.Locale, h.defaults.Currency)
	if err != nil {
		f, _ = i18n.NewFormatter(i18n.Default, "USD")
	}
	return f
}

// === Response Helpers ===

// writeJSON sends a JSON response with the given status code.
func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode response", slog.String("error", err.Error()))
	}
}

// writeError sends an error response, extracting status/code from APIError if present.
// Uses errors.As() to unwrap error chains (e.g., fmt.Errorf wrapping).
// The notification is the localized text a consumer shows the user.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	apiErr := h.toAPIError(r.Context(), err)
	locale := h.prefs(r.Context()).Locale

	h.writeJSON(w, apiErr.StatusCode, errorResponse{
		Error: errorBody{
			Code:         apiErr.Code,
			Message:      apiErr.Message,
			Field:        apiErr.Field,
			Notification: i18n.Describe(locale, err),
		},
	})
}

// toAPIError finds the APIError in err's chain or wraps err as an internal error.
func (h *Handler) toAPIError(ctx context.Context, err error) *model.APIError {
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}

	if errors.Is(err, storefront.ErrInProgress) {
		return &model.APIError{
			Code:       "IN_PROGRESS",
			Message:    "operation already in progress",
			StatusCode: http.StatusConflict,
			Err:        err,
		}
	}

	// Wrap unexpected errors
	h.logger.ErrorContext(ctx, "internal error", slog.String("error", err.Error()))
	return model.NewInternalError(err)
}

// errorResponse is the JSON structure for error responses.
type errorResponse struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	Field        string `json:"field,omitempty"`
	Notification string `json:"notification,omitempty"`
}

// MaxRequestBodySize limits JSON request bodies to 1MB to prevent DoS.
const MaxRequestBodySize = 1 << 20 // 1MB

// decodeJSON reads JSON from request body into v.
// Limits body size to MaxRequestBodySize to prevent memory exhaustion.
// Returns an APIError if decoding fails.
func decodeJSON(r *http.Request, v interface{}) error {
	// Limit request body size to prevent DoS
	r.Body = http.MaxBytesReader(nil, r.Body, MaxRequestBodySize)

	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		// Don't expose internal error details to client
		return model.NewValidationError("body", "invalid JSON")
	}
	return nil
}
