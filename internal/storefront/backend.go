// Package storefront ties the backend client, payload normalization and the
// client-side store into the operations consumers call: load, add, remove,
// toggle, select and check out.
package storefront

import (
	"context"
	"encoding/json"

	"learnhub-storefront/internal/model"
)

// Backend is the marketplace REST API as seen by the service.
// Implemented by api.Client; payloads are returned raw and normalized here.
type Backend interface {
	// GetCart returns the raw cart payload.
	GetCart(ctx context.Context) (json.RawMessage, error)

	// AddToCart adds one course or private lesson. The response carries at
	// least the new item; the service refetches for the full cart.
	AddToCart(ctx context.Context, ref model.Reference) (json.RawMessage, error)

	// RemoveFromCart deletes every entry keyed by referenceID.
	RemoveFromCart(ctx context.Context, referenceID string) error

	// ClearCart deletes all entries.
	ClearCart(ctx context.Context) error

	GetWishlist(ctx context.Context) (json.RawMessage, error)
	AddToWishlist(ctx context.Context, ref model.Reference) (json.RawMessage, error)
	RemoveFromWishlist(ctx context.Context, referenceID string) error

	// Login exchanges credentials for a token/user pair.
	Login(ctx context.Context, req model.LoginRequest) (json.RawMessage, error)

	// ApplyCoupon prices a coupon. It does not change the cart.
	ApplyCoupon(ctx context.Context, req model.CouponRequest) (json.RawMessage, error)

	// CreateOrder places an order for the given items.
	CreateOrder(ctx context.Context, req model.OrderRequest) (json.RawMessage, error)

	ListOrders(ctx context.Context) (json.RawMessage, error)
}
