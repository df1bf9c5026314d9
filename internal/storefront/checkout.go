package storefront

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"learnhub-storefront/internal/model"
	"learnhub-storefront/internal/normalize"
	"learnhub-storefront/internal/reconcile"
	"learnhub-storefront/internal/validate"
)

// ============================================================================
// Selection
// ============================================================================

// Select adds referenceID to the checkout selection. Ids not in the cart are
// ignored.
func (s *Service) Select(referenceID string) bool {
	if !s.store.Cart.Snapshot().Collection.Contains(referenceID) {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if slices.Contains(s.selection, referenceID) {
		return false
	}
	s.selection = append(s.selection, referenceID)
	return true
}

// Deselect drops referenceID from the checkout selection.
func (s *Service) Deselect(referenceID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := slices.Index(s.selection, referenceID)
	if i < 0 {
		return false
	}
	s.selection = slices.Delete(s.selection, i, i+1)
	return true
}

// SetSelection replaces the selection with ids. Every id must be in the cart.
func (s *Service) SetSelection(ctx context.Context, ids []string) ([]string, error) {
	cart := s.store.Cart.Snapshot().Collection
	for _, id := range ids {
		if !cart.Contains(id) {
			return s.Selected(), model.NewValidationError("items", fmt.Sprintf("%q is not in the cart", id))
		}
	}

	desired := unique(reconcile.Retain(ids, cart.ReferenceIDs()))

	s.mu.Lock()
	diff := reconcile.DiffReferences(s.selection, desired)
	s.selection = desired
	s.mu.Unlock()

	if !diff.IsEmpty() {
		s.logger.DebugContext(ctx, "selection changed",
			slog.Any("added", diff.Added),
			slog.Any("removed", diff.Removed))
	}
	return s.Selected(), nil
}

// SelectAll selects every item currently in the cart.
func (s *Service) SelectAll() []string {
	ids := s.store.Cart.Snapshot().Collection.ReferenceIDs()

	s.mu.Lock()
	s.selection = unique(reconcile.Retain(ids, ids))
	s.mu.Unlock()
	return s.Selected()
}

// Selected returns the selection in selection order.
func (s *Service) Selected() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.selection)
}

// pruneSelection drops selected ids that are no longer available.
func (s *Service) pruneSelection(available []string) {
	s.mu.Lock()
	if len(s.selection) == 0 {
		s.mu.Unlock()
		return
	}
	kept := reconcile.Retain(s.selection, available)
	diff := reconcile.DiffReferences(s.selection, kept)
	s.selection = kept
	s.mu.Unlock()

	if !diff.IsEmpty() {
		s.logger.Debug("selection pruned", slog.Any("removed", diff.Removed))
	}
}

func unique(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := ids[:0]
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

// selectedReferences rebuilds mutation references for the selected items in
// selection order.
func (s *Service) selectedReferences() []model.Reference {
	cart := s.store.Cart.Snapshot().Collection
	byID := make(map[string]model.Item, len(cart.Items))
	for _, item := range cart.Items {
		if _, ok := byID[item.ReferenceID]; !ok {
			byID[item.ReferenceID] = item
		}
	}

	var refs []model.Reference
	for _, id := range s.Selected() {
		if item, ok := byID[id]; ok {
			refs = append(refs, model.ReferenceOf(item))
		}
	}
	return refs
}

// ============================================================================
// Coupon and checkout
// ============================================================================

// ApplyCoupon prices code against the selected items. An empty code fails
// before any request is sent. The quote is kept for Checkout.
func (s *Service) ApplyCoupon(ctx context.Context, code string) (model.CouponQuote, error) {
	req := model.CouponRequest{
		Code:  strings.TrimSpace(code),
		Items: s.selectedReferences(),
	}
	if err := validate.Check(req); err != nil {
		return model.CouponQuote{}, err
	}

	done, err := s.startMutation(OpApplyCoupon, "")
	if err != nil {
		return model.CouponQuote{}, err
	}
	defer done()

	raw, err := s.backend.ApplyCoupon(ctx, req)
	if err != nil {
		return model.CouponQuote{}, fmt.Errorf("applying coupon %q: %w", req.Code, err)
	}

	quote, err := normalize.NormalizeCouponQuote(raw, req.Code)
	if err != nil {
		return model.CouponQuote{}, model.NewUpstreamError("backend", err)
	}

	s.mu.Lock()
	s.coupon = &quote
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "coupon applied",
		slog.String("code", quote.Code),
		slog.String("discount", quote.Discount.String()))
	return quote, nil
}

// Coupon returns the last applied coupon quote, if any.
func (s *Service) Coupon() (model.CouponQuote, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.coupon == nil {
		return model.CouponQuote{}, false
	}
	return *s.coupon, true
}

// Checkout places an order for the selected items. With an empty coupon the
// last applied quote's code is used. An empty selection fails before any
// request is sent. The cart is refetched right after the order is placed.
func (s *Service) Checkout(ctx context.Context, coupon string) (model.Order, error) {
	coupon = strings.TrimSpace(coupon)
	if coupon == "" {
		if quote, ok := s.Coupon(); ok {
			coupon = quote.Code
		}
	}

	req := model.OrderRequest{
		Items:      s.selectedReferences(),
		CouponCode: coupon,
	}
	if err := validate.Check(req); err != nil {
		return model.Order{}, err
	}

	done, err := s.startMutation(OpCheckout, "")
	if err != nil {
		return model.Order{}, err
	}
	defer done()

	raw, err := s.backend.CreateOrder(ctx, req)
	if err != nil {
		return model.Order{}, fmt.Errorf("placing order: %w", err)
	}

	order, err := normalize.NormalizeOrder(raw)
	if err != nil {
		return model.Order{}, model.NewUpstreamError("backend", err)
	}

	s.mu.Lock()
	s.coupon = nil
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "order placed",
		slog.String("order_id", order.ID),
		slog.Int("items", len(order.Items)),
		slog.String("total", order.Total.String()))

	if _, err := s.LoadCart(ctx); err != nil {
		s.logger.WarnContext(ctx, "cart refresh after checkout failed",
			slog.String("error", err.Error()))
	}
	return order, nil
}

// ListOrders returns the signed-in user's orders.
func (s *Service) ListOrders(ctx context.Context) ([]model.Order, error) {
	raw, err := s.backend.ListOrders(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing orders: %w", err)
	}

	orders, err := normalize.NormalizeOrders(raw)
	if err != nil {
		return nil, model.NewUpstreamError("backend", err)
	}
	return orders, nil
}
