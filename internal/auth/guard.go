package auth

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Cooldown is how long duplicate 401s are suppressed after a signal.
const Cooldown = time.Second

// State is the guard's position in the auth-expiry state machine.
type State int

const (
	// Authenticated means the next 401 will signal.
	Authenticated State = iota
	// SignalingUnauthorized means a signal was just emitted and further 401s
	// are suppressed until the cooldown elapses.
	SignalingUnauthorized
)

func (s State) String() string {
	switch s {
	case Authenticated:
		return "authenticated"
	case SignalingUnauthorized:
		return "signaling-unauthorized"
	default:
		return "unknown"
	}
}

// Guard debounces 401 responses into one unauthorized notification.
//
// On the first 401 it clears stored credentials and notifies subscribers.
// Further 401s within Cooldown are suppressed. After Cooldown the guard is
// back in Authenticated whether or not the user signed in again; this only
// re-arms the signal, it never restores credentials.
type Guard struct {
	store  CredentialStore
	logger *slog.Logger
	now    func() time.Time

	mu         sync.Mutex
	lastSignal time.Time
	signaled   bool
	listeners  map[int]func(context.Context)
	nextID     int
}

// GuardOption configures a Guard.
type GuardOption func(*Guard)

// WithClock injects the time source.
func WithClock(now func() time.Time) GuardOption {
	return func(g *Guard) { g.now = now }
}

// NewGuard creates a guard that clears store on a 401.
func NewGuard(store CredentialStore, logger *slog.Logger, opts ...GuardOption) *Guard {
	g := &Guard{
		store:     store,
		logger:    logger,
		now:       time.Now,
		listeners: make(map[int]func(context.Context)),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// State reports the current state. The reset to Authenticated is derived from
// the clock, so no timer goroutine is involved.
func (g *Guard) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.stateLocked()
}

func (g *Guard) stateLocked() State {
	if g.signaled && g.now().Sub(g.lastSignal) < Cooldown {
		return SignalingUnauthorized
	}
	return Authenticated
}

// Unauthorized records a 401. Returns true if this call emitted the signal.
func (g *Guard) Unauthorized(ctx context.Context) bool {
	g.mu.Lock()
	if g.stateLocked() == SignalingUnauthorized {
		g.mu.Unlock()
		g.logger.DebugContext(ctx, "suppressed duplicate unauthorized signal")
		return false
	}
	g.signaled = true
	g.lastSignal = g.now()
	listeners := g.listenersLocked()
	g.mu.Unlock()

	if err := g.store.Clear(); err != nil {
		g.logger.ErrorContext(ctx, "failed to clear credentials", "error", err)
	}
	g.logger.InfoContext(ctx, "session expired, credentials cleared")

	for _, fn := range listeners {
		fn(ctx)
	}
	return true
}

// OnUnauthorized subscribes fn to the signal. The returned function
// unsubscribes.
func (g *Guard) OnUnauthorized(fn func(context.Context)) func() {
	g.mu.Lock()
	id := g.nextID
	g.nextID++
	g.listeners[id] = fn
	g.mu.Unlock()

	return func() {
		g.mu.Lock()
		delete(g.listeners, id)
		g.mu.Unlock()
	}
}

func (g *Guard) listenersLocked() []func(context.Context) {
	fns := make([]func(context.Context), 0, len(g.listeners))
	for id := 0; id < g.nextID; id++ {
		if fn, ok := g.listeners[id]; ok {
			fns = append(fns, fn)
		}
	}
	return fns
}
