package handler

import (
	"log/slog"
	"net/http"

	"learnhub-storefront/internal/i18n"
)

// selectionRequest is the body of POST /selection.
// All selects the whole cart and wins over Items.
type selectionRequest struct {
	Items []string `json:"items"`
	All   bool     `json:"all,omitempty"`
}

// handleSetSelection replaces the checkout selection.
// POST /selection
func (h *Handler) handleSetSelection(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req selectionRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	var selected []string
	if req.All {
		selected = h.svc.SelectAll()
	} else {
		var err error
		selected, err = h.svc.SetSelection(ctx, req.Items)
		if err != nil {
			h.writeError(w, r, err)
			return
		}
	}

	h.writeJSON(w, http.StatusOK, collectionView(h.formatter(ctx), h.svc.Cart(), selected))
}

// couponRequest is the body of POST /coupon.
type couponRequest struct {
	Code string `json:"couponCode"`
}

// handleApplyCoupon prices a coupon against the selection.
// POST /coupon
func (h *Handler) handleApplyCoupon(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req couponRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	quote, err := h.svc.ApplyCoupon(ctx, req.Code)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	view := quoteView(h.formatter(ctx), quote)
	view.Notification = i18n.Text(h.prefs(ctx).Locale, i18n.CouponApplied)
	h.writeJSON(w, http.StatusOK, view)
}

// checkoutRequest is the body of POST /checkout. The body is optional.
type checkoutRequest struct {
	CouponCode string `json:"couponCode,omitempty"`
}

// handleCheckout places an order for the selected items.
// POST /checkout
func (h *Handler) handleCheckout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req checkoutRequest
	if r.ContentLength != 0 {
		if err := decodeJSON(r, &req); err != nil {
			h.writeError(w, r, err)
			return
		}
	}

	h.logger.InfoContext(ctx, "checking out",
		slog.Int("selected", len(h.svc.Selected())),
		slog.Bool("has_coupon", req.CouponCode != ""),
	)

	order, err := h.svc.Checkout(ctx, req.CouponCode)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	view := orderView(h.formatter(ctx), order)
	view.Notification = i18n.Text(h.prefs(ctx).Locale, i18n.OrderPlaced)
	h.writeJSON(w, http.StatusCreated, view)
}

// handleListOrders returns the user's orders.
// GET /orders
func (h *Handler) handleListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.svc.ListOrders(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, ordersView(h.formatter(r.Context()), orders))
}
