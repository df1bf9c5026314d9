package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"

	"learnhub-storefront/internal/model"
)

// API paths, relative to the configured base URL.
const (
	pathCart        = "/cart"
	pathWishlist    = "/wishlist"
	pathLogin       = "/auth/login"
	pathApplyCoupon = "/coupons/apply"
	pathOrders      = "/orders"
)

// Endpoints return raw payloads; shape reconciliation happens in the
// normalize package so one malformed record cannot fail the call.

// === Cart ===

// GetCart fetches the cart.
func (c *Client) GetCart(ctx context.Context) (json.RawMessage, error) {
	return c.call(ctx, http.MethodGet, pathCart, nil)
}

// AddToCart adds ref to the cart. The response carries the cart.
func (c *Client) AddToCart(ctx context.Context, ref model.Reference) (json.RawMessage, error) {
	return c.call(ctx, http.MethodPost, pathCart, ref)
}

// RemoveFromCart removes the item keyed by referenceID.
func (c *Client) RemoveFromCart(ctx context.Context, referenceID string) error {
	return c.callMessage(ctx, http.MethodDelete, pathCart+"/"+url.PathEscape(referenceID))
}

// ClearCart removes every cart item.
func (c *Client) ClearCart(ctx context.Context) error {
	return c.callMessage(ctx, http.MethodDelete, pathCart)
}

// === Wishlist ===

// GetWishlist fetches the wishlist.
func (c *Client) GetWishlist(ctx context.Context) (json.RawMessage, error) {
	return c.call(ctx, http.MethodGet, pathWishlist, nil)
}

// AddToWishlist adds ref to the wishlist.
func (c *Client) AddToWishlist(ctx context.Context, ref model.Reference) (json.RawMessage, error) {
	return c.call(ctx, http.MethodPost, pathWishlist, ref)
}

// RemoveFromWishlist removes the item keyed by referenceID.
func (c *Client) RemoveFromWishlist(ctx context.Context, referenceID string) error {
	return c.callMessage(ctx, http.MethodDelete, pathWishlist+"/"+url.PathEscape(referenceID))
}

// === Session, coupons, orders ===

// Login exchanges email and password for a token.
func (c *Client) Login(ctx context.Context, req model.LoginRequest) (json.RawMessage, error) {
	return c.call(ctx, http.MethodPost, pathLogin, req)
}

// ApplyCoupon prices a coupon against the given items.
func (c *Client) ApplyCoupon(ctx context.Context, req model.CouponRequest) (json.RawMessage, error) {
	return c.call(ctx, http.MethodPost, pathApplyCoupon, req)
}

// CreateOrder places an order.
func (c *Client) CreateOrder(ctx context.Context, req model.OrderRequest) (json.RawMessage, error) {
	return c.call(ctx, http.MethodPost, pathOrders, req)
}

// ListOrders fetches the user's orders.
func (c *Client) ListOrders(ctx context.Context) (json.RawMessage, error) {
	return c.call(ctx, http.MethodGet, pathOrders, nil)
}

// callMessage runs a call whose success body is {message}.
func (c *Client) callMessage(ctx context.Context, method, path string) error {
	body, err := c.call(ctx, method, path, nil)
	if err != nil {
		return err
	}

	var msg struct {
		Message string `json:"message"`
	}
	json.Unmarshal(body, &msg) // Best effort; the status already says it worked
	c.logger.DebugContext(ctx, "backend message",
		slog.String("path", path),
		slog.String("message", msg.Message))
	return nil
}
