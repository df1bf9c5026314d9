package storefront

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"learnhub-storefront/internal/model"
	"learnhub-storefront/internal/normalize"
	"learnhub-storefront/internal/store"
	"learnhub-storefront/internal/validate"
)

// LoadCart fetches the cart and replaces local state with it. On failure the
// current cart is returned unchanged together with the error.
func (s *Service) LoadCart(ctx context.Context) (store.Snapshot, error) {
	return s.load(ctx, s.store.Cart, OpLoadCart, s.getCart, normalize.NormalizeCart)
}

func (s *Service) getCart(ctx context.Context) ([]byte, error) {
	return s.backend.GetCart(ctx)
}

// AddToCart adds one course or private lesson and refetches the cart.
func (s *Service) AddToCart(ctx context.Context, ref model.Reference) (store.Snapshot, error) {
	if err := validate.Check(ref); err != nil {
		return s.Cart(), err
	}

	done, err := s.startMutation(OpAddToCart, ref.ID())
	if err != nil {
		return s.Cart(), err
	}
	defer done()

	if _, err := s.backend.AddToCart(ctx, ref); err != nil {
		return s.Cart(), fmt.Errorf("adding %s %s to cart: %w", ref.Type(), ref.ID(), err)
	}

	s.logger.InfoContext(ctx, "added to cart",
		slog.String("reference_id", ref.ID()),
		slog.String("reference_type", string(ref.Type())))

	return s.LoadCart(ctx)
}

// RemoveFromCart drops every entry keyed by referenceID locally, then asks the
// backend to do the same. The local removal stands even if the call fails;
// the next load restores authoritative state.
func (s *Service) RemoveFromCart(ctx context.Context, referenceID string) (store.Snapshot, error) {
	referenceID = strings.TrimSpace(referenceID)
	if referenceID == "" {
		return s.Cart(), model.NewValidationError("referenceId", "reference id is required")
	}

	done, err := s.startMutation(OpRemoveFromCart, referenceID)
	if err != nil {
		return s.Cart(), err
	}
	defer done()

	s.Deselect(referenceID)
	s.store.Cart.RemoveOne(referenceID)

	if err := s.backend.RemoveFromCart(ctx, referenceID); err != nil {
		s.logger.WarnContext(ctx, "cart removal not confirmed",
			slog.String("reference_id", referenceID),
			slog.String("error", err.Error()))
		return s.Cart(), fmt.Errorf("removing %s from cart: %w", referenceID, err)
	}
	return s.Cart(), nil
}

// ClearCart empties the cart locally, then on the backend.
func (s *Service) ClearCart(ctx context.Context) (store.Snapshot, error) {
	done, err := s.startMutation(OpClearCart, "")
	if err != nil {
		return s.Cart(), err
	}
	defer done()

	s.store.Cart.Clear()

	if err := s.backend.ClearCart(ctx); err != nil {
		s.logger.WarnContext(ctx, "cart clear not confirmed",
			slog.String("error", err.Error()))
		return s.Cart(), fmt.Errorf("clearing cart: %w", err)
	}
	return s.Cart(), nil
}
