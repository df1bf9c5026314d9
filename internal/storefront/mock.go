package storefront

import (
	"context"
	"encoding/json"

	"learnhub-storefront/internal/model"
)

// Mock implements Backend for testing.
// Each method can be configured via function fields.
type Mock struct {
	GetCartFunc            func(ctx context.Context) (json.RawMessage, error)
	AddToCartFunc          func(ctx context.Context, ref model.Reference) (json.RawMessage, error)
	RemoveFromCartFunc     func(ctx context.Context, referenceID string) error
	ClearCartFunc          func(ctx context.Context) error
	GetWishlistFunc        func(ctx context.Context) (json.RawMessage, error)
	AddToWishlistFunc      func(ctx context.Context, ref model.Reference) (json.RawMessage, error)
	RemoveFromWishlistFunc func(ctx context.Context, referenceID string) error
	LoginFunc              func(ctx context.Context, req model.LoginRequest) (json.RawMessage, error)
	ApplyCouponFunc        func(ctx context.Context, req model.CouponRequest) (json.RawMessage, error)
	CreateOrderFunc        func(ctx context.Context, req model.OrderRequest) (json.RawMessage, error)
	ListOrdersFunc         func(ctx context.Context) (json.RawMessage, error)
}

var emptyCollection = json.RawMessage(`{"items":[]}`)

// GetCart calls the configured GetCartFunc or returns an empty cart.
func (m *Mock) GetCart(ctx context.Context) (json.RawMessage, error) {
	if m.GetCartFunc != nil {
		return m.GetCartFunc(ctx)
	}
	return emptyCollection, nil
}

// AddToCart calls the configured AddToCartFunc or returns an empty cart.
func (m *Mock) AddToCart(ctx context.Context, ref model.Reference) (json.RawMessage, error) {
	if m.AddToCartFunc != nil {
		return m.AddToCartFunc(ctx, ref)
	}
	return emptyCollection, nil
}

// RemoveFromCart calls the configured RemoveFromCartFunc or succeeds.
func (m *Mock) RemoveFromCart(ctx context.Context, referenceID string) error {
	if m.RemoveFromCartFunc != nil {
		return m.RemoveFromCartFunc(ctx, referenceID)
	}
	return nil
}

// ClearCart calls the configured ClearCartFunc or succeeds.
func (m *Mock) ClearCart(ctx context.Context) error {
	if m.ClearCartFunc != nil {
		return m.ClearCartFunc(ctx)
	}
	return nil
}

// GetWishlist calls the configured GetWishlistFunc or returns an empty wishlist.
func (m *Mock) GetWishlist(ctx context.Context) (json.RawMessage, error) {
	if m.GetWishlistFunc != nil {
		return m.GetWishlistFunc(ctx)
	}
	return emptyCollection, nil
}

// AddToWishlist calls the configured AddToWishlistFunc or returns an empty wishlist.
func (m *Mock) AddToWishlist(ctx context.Context, ref model.Reference) (json.RawMessage, error) {
	if m.AddToWishlistFunc != nil {
		return m.AddToWishlistFunc(ctx, ref)
	}
	return emptyCollection, nil
}

// RemoveFromWishlist calls the configured RemoveFromWishlistFunc or succeeds.
func (m *Mock) RemoveFromWishlist(ctx context.Context, referenceID string) error {
	if m.RemoveFromWishlistFunc != nil {
		return m.RemoveFromWishlistFunc(ctx, referenceID)
	}
	return nil
}

// Login calls the configured LoginFunc or returns an error.
func (m *Mock) Login(ctx context.Context, req model.LoginRequest) (json.RawMessage, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, req)
	}
	return nil, model.NewUnauthorizedError("invalid credentials")
}

// ApplyCoupon calls the configured ApplyCouponFunc or returns an error.
func (m *Mock) ApplyCoupon(ctx context.Context, req model.CouponRequest) (json.RawMessage, error) {
	if m.ApplyCouponFunc != nil {
		return m.ApplyCouponFunc(ctx, req)
	}
	return nil, model.NewNotFoundError("coupon")
}

// CreateOrder calls the configured CreateOrderFunc or returns an error.
func (m *Mock) CreateOrder(ctx context.Context, req model.OrderRequest) (json.RawMessage, error) {
	if m.CreateOrderFunc != nil {
		return m.CreateOrderFunc(ctx, req)
	}
	return nil, model.NewInternalError(nil)
}

// ListOrders calls the configured ListOrdersFunc or returns no orders.
func (m *Mock) ListOrders(ctx context.Context) (json.RawMessage, error) {
	if m.ListOrdersFunc != nil {
		return m.ListOrdersFunc(ctx)
	}
	return json.RawMessage(`{"orders":[]}`), nil
}

// Verify Mock implements Backend at compile time.
var _ Backend = (*Mock)(nil)
