package storefront

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"learnhub-storefront/internal/model"
	"learnhub-storefront/internal/normalize"
	"learnhub-storefront/internal/validate"
)

// Login exchanges email and password for a token and persists the pair.
func (s *Service) Login(ctx context.Context, email, password string) (*model.User, error) {
	req := model.LoginRequest{
		Email:    strings.TrimSpace(email),
		Password: password,
	}
	if err := validate.Check(req); err != nil {
		return nil, err
	}

	done, err := s.startMutation(OpLogin, "")
	if err != nil {
		return nil, err
	}
	defer done()

	raw, err := s.backend.Login(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("signing in: %w", err)
	}

	creds, err := normalize.NormalizeCredentials(raw)
	if err != nil {
		return nil, model.NewUpstreamError("backend", err)
	}

	if err := s.creds.Save(creds); err != nil {
		return nil, fmt.Errorf("saving credentials: %w", err)
	}

	if creds.User != nil {
		s.logger.InfoContext(ctx, "signed in", slog.String("user_id", creds.User.ID))
	}
	return creds.User, nil
}

// Logout forgets the stored credentials and the local cache.
func (s *Service) Logout(ctx context.Context) error {
	if err := s.creds.Clear(); err != nil {
		return fmt.Errorf("clearing credentials: %w", err)
	}
	s.reset()
	s.logger.InfoContext(ctx, "signed out")
	return nil
}

// handleUnauthorized runs once per guard signal. The guard has already
// cleared the stored credentials.
func (s *Service) handleUnauthorized(ctx context.Context) {
	s.logger.WarnContext(ctx, "session expired, dropping local state")
	s.reset()
}

func (s *Service) reset() {
	s.store.Cart.Clear()
	s.store.Wishlist.Clear()

	s.mu.Lock()
	s.selection = nil
	s.coupon = nil
	s.mu.Unlock()
}
