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

// LoadWishlist fetches the wishlist and replaces local state with it.
func (s *Service) LoadWishlist(ctx context.Context) (store.Snapshot, error) {
	return s.load(ctx, s.store.Wishlist, OpLoadWishlist, s.getWishlist, normalize.NormalizeWishlist)
}

func (s *Service) getWishlist(ctx context.Context) ([]byte, error) {
	return s.backend.GetWishlist(ctx)
}

// InWishlist reports whether referenceID is in the local wishlist.
func (s *Service) InWishlist(referenceID string) bool {
	return s.store.Wishlist.Snapshot().Collection.Contains(referenceID)
}

// AddToWishlist adds ref and refetches the wishlist.
func (s *Service) AddToWishlist(ctx context.Context, ref model.Reference) (store.Snapshot, error) {
	if err := validate.Check(ref); err != nil {
		return s.Wishlist(), err
	}

	done, err := s.startMutation(OpAddToWishlist, ref.ID())
	if err != nil {
		return s.Wishlist(), err
	}
	defer done()

	if _, err := s.backend.AddToWishlist(ctx, ref); err != nil {
		return s.Wishlist(), fmt.Errorf("adding %s %s to wishlist: %w", ref.Type(), ref.ID(), err)
	}
	return s.LoadWishlist(ctx)
}

// RemoveFromWishlist drops referenceID locally, then on the backend.
func (s *Service) RemoveFromWishlist(ctx context.Context, referenceID string) (store.Snapshot, error) {
	referenceID = strings.TrimSpace(referenceID)
	if referenceID == "" {
		return s.Wishlist(), model.NewValidationError("referenceId", "reference id is required")
	}

	done, err := s.startMutation(OpRemoveFromWishlist, referenceID)
	if err != nil {
		return s.Wishlist(), err
	}
	defer done()

	s.store.Wishlist.RemoveOne(referenceID)

	if err := s.backend.RemoveFromWishlist(ctx, referenceID); err != nil {
		s.logger.WarnContext(ctx, "wishlist removal not confirmed",
			slog.String("reference_id", referenceID),
			slog.String("error", err.Error()))
		return s.Wishlist(), fmt.Errorf("removing %s from wishlist: %w", referenceID, err)
	}
	return s.Wishlist(), nil
}

// ToggleWishlist removes ref when it is in the local wishlist and adds it
// otherwise. added reports which way it went.
func (s *Service) ToggleWishlist(ctx context.Context, ref model.Reference) (added bool, snap store.Snapshot, err error) {
	if err := validate.Check(ref); err != nil {
		return false, s.Wishlist(), err
	}

	if s.InWishlist(ref.ID()) {
		snap, err = s.RemoveFromWishlist(ctx, ref.ID())
		return false, snap, err
	}
	snap, err = s.AddToWishlist(ctx, ref)
	return err == nil, snap, err
}
