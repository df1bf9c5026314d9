package storefront

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"learnhub-storefront/internal/auth"
	"learnhub-storefront/internal/metrics"
	"learnhub-storefront/internal/model"
	"learnhub-storefront/internal/store"
)

// ErrInProgress is returned when the same operation is already running.
var ErrInProgress = errors.New("operation already in progress")

// Operation names tracked in the store's pending set.
const (
	OpLoadCart           = "loadCart"
	OpLoadWishlist       = "loadWishlist"
	OpAddToCart          = "addToCart"
	OpRemoveFromCart     = "removeFromCart"
	OpClearCart          = "clearCart"
	OpAddToWishlist      = "addToWishlist"
	OpRemoveFromWishlist = "removeFromWishlist"
	OpApplyCoupon        = "applyCoupon"
	OpCheckout           = "checkout"
	OpLogin              = "login"
)

// Service is the consumer-facing storefront.
//
// Data flow for every read: backend call → raw payload → normalize →
// store.Apply with the ticket taken before the call. Mutations that remove
// state are optimistic: the store changes first and the backend call
// follows. Mutations that add state call the backend and then refetch.
//
// Network failures never clear existing state. Validation failures are
// returned before any request is sent.
type Service struct {
	backend Backend
	store   *store.Store
	creds   auth.CredentialStore
	logger  *slog.Logger
	metrics *metrics.Metrics

	closed atomic.Bool

	mu        sync.Mutex
	selection []string
	coupon    *model.CouponQuote

	unsubscribe []func()
}

// Options configures optional collaborators of a Service.
type Options struct {
	// Guard, when set, resets local state on an unauthorized signal.
	Guard   *auth.Guard
	Metrics *metrics.Metrics
}

// New creates a service over backend and st.
func New(backend Backend, st *store.Store, creds auth.CredentialStore, logger *slog.Logger, opts Options) *Service {
	s := &Service{
		backend: backend,
		store:   st,
		creds:   creds,
		logger:  logger,
		metrics: opts.Metrics,
	}

	// Items leaving the cart, by refetch or optimistic removal, leave the
	// selection too.
	s.unsubscribe = append(s.unsubscribe, st.Cart.Subscribe(func(snap store.Snapshot) {
		s.pruneSelection(snap.Collection.ReferenceIDs())
	}))

	if opts.Guard != nil {
		s.unsubscribe = append(s.unsubscribe, opts.Guard.OnUnauthorized(s.handleUnauthorized))
	}
	return s
}

// Close marks the service inactive. Responses that resolve afterwards are
// not applied to the store. In-flight calls are not canceled.
func (s *Service) Close() {
	if s.closed.Swap(true) {
		return
	}
	for _, fn := range s.unsubscribe {
		fn()
	}
}

// Active reports whether the service still applies responses.
func (s *Service) Active() bool {
	return !s.closed.Load()
}

// Store exposes the underlying state container for subscribers.
func (s *Service) Store() *store.Store {
	return s.store
}

// Cart returns the current cart snapshot.
func (s *Service) Cart() store.Snapshot {
	return s.store.Cart.Snapshot()
}

// Wishlist returns the current wishlist snapshot.
func (s *Service) Wishlist() store.Snapshot {
	return s.store.Wishlist.Snapshot()
}

// Pending lists the operations in flight.
func (s *Service) Pending() []string {
	return s.store.Pending.List()
}

// load fetches, normalizes and applies one collection. The ticket is taken
// before the call so that a slower, older response cannot overwrite newer
// state.
func (s *Service) load(
	ctx context.Context,
	slice *store.Slice,
	op string,
	fetch func(context.Context) ([]byte, error),
	normalize func([]byte) (model.Collection, error),
) (store.Snapshot, error) {
	done, _ := s.store.Pending.Start(op)
	defer done()

	ticket := slice.Begin()

	raw, err := fetch(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "load failed, keeping local state",
			slog.String("op", op),
			slog.String("error", err.Error()))
		return slice.Snapshot(), fmt.Errorf("%s: %w", op, err)
	}

	c, err := normalize(raw)
	if err != nil {
		s.logger.WarnContext(ctx, "unreadable payload, keeping local state",
			slog.String("op", op),
			slog.String("error", err.Error()))
		return slice.Snapshot(), model.NewUpstreamError("backend", err)
	}

	s.apply(ctx, slice, ticket, c)
	return slice.Snapshot(), nil
}

// apply installs c unless the service is closed or the response is stale.
func (s *Service) apply(ctx context.Context, slice *store.Slice, ticket store.Ticket, c model.Collection) bool {
	kind := string(slice.Snapshot().Kind)

	if !s.Active() {
		s.logger.DebugContext(ctx, "service closed, dropping response",
			slog.String("collection", kind))
		return false
	}

	for _, item := range c.Items {
		s.metrics.NormalizedItem(string(item.Type))
		if item.Type == model.ReferenceUnknown {
			s.logger.WarnContext(ctx, "record matched no known shape",
				slog.String("collection", kind),
				slog.String("reference_id", item.ReferenceID))
		}
	}

	if !slice.Apply(ticket, c) {
		s.metrics.StaleDiscarded(kind)
		s.logger.DebugContext(ctx, "stale response discarded",
			slog.String("collection", kind),
			slog.Uint64("ticket", uint64(ticket)))
		return false
	}
	return true
}

// startMutation claims op for one reference, or for the whole collection
// when id is empty.
func (s *Service) startMutation(op, id string) (func(), error) {
	key := op
	if id != "" {
		key = op + ":" + id
	}
	done, ok := s.store.Pending.Start(key)
	if !ok {
		return nil, fmt.Errorf("%s: %w", key, ErrInProgress)
	}
	return done, nil
}
