package auth

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"learnhub-storefront/internal/model"
)

// fakeClock is a manually advanced time source.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func testGuard(store CredentialStore, clock *fakeClock) *Guard {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewGuard(store, logger, WithClock(clock.Now))
}

func TestGuard_ConcurrentUnauthorizedSignalsOnce(t *testing.T) {
	clock := newFakeClock()
	store := NewMemoryStore("tok")
	g := testGuard(store, clock)

	var notified atomic.Int32
	g.OnUnauthorized(func(context.Context) { notified.Add(1) })

	// Three parallel fetches fail within 200ms of each other.
	var wg sync.WaitGroup
	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			g.Unauthorized(context.Background())
		}()
	}
	wg.Wait()
	clock.Advance(200 * time.Millisecond)
	g.Unauthorized(context.Background())

	if got := notified.Load(); got != 1 {
		t.Fatalf("notifications = %d, want 1", got)
	}
	if g.State() != SignalingUnauthorized {
		t.Errorf("State() = %v, want %v", g.State(), SignalingUnauthorized)
	}
	if _, err := store.Load(); !errors.Is(err, ErrNoCredentials) {
		t.Errorf("Load() error = %v, want ErrNoCredentials", err)
	}

	// A fourth 401 after the cooldown signals again.
	clock.Advance(Cooldown)
	if g.State() != Authenticated {
		t.Errorf("State() after cooldown = %v, want %v", g.State(), Authenticated)
	}
	if !g.Unauthorized(context.Background()) {
		t.Error("Unauthorized() after cooldown = false, want true")
	}
	if got := notified.Load(); got != 2 {
		t.Errorf("notifications = %d, want 2", got)
	}
}

func TestGuard_CooldownBoundary(t *testing.T) {
	tests := []struct {
		name    string
		elapsed time.Duration
		want    bool
	}{
		{"just inside window", Cooldown - time.Millisecond, false},
		{"exactly at cooldown", Cooldown, true},
		{"well after", 5 * time.Second, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clock := newFakeClock()
			g := testGuard(NewMemoryStore("tok"), clock)

			if !g.Unauthorized(context.Background()) {
				t.Fatal("first Unauthorized() = false, want true")
			}
			clock.Advance(tt.elapsed)
			if got := g.Unauthorized(context.Background()); got != tt.want {
				t.Errorf("Unauthorized() after %v = %v, want %v", tt.elapsed, got, tt.want)
			}
		})
	}
}

func TestGuard_ResetDoesNotRestoreCredentials(t *testing.T) {
	clock := newFakeClock()
	store := NewMemoryStore("tok")
	g := testGuard(store, clock)

	g.Unauthorized(context.Background())
	clock.Advance(2 * Cooldown)

	if g.State() != Authenticated {
		t.Errorf("State() = %v, want %v", g.State(), Authenticated)
	}
	if tok := Token(store); tok != "" {
		t.Errorf("Token() = %q after reset, want empty", tok)
	}
}

func TestGuard_Unsubscribe(t *testing.T) {
	clock := newFakeClock()
	g := testGuard(NewMemoryStore("tok"), clock)

	var calls int
	unsubscribe := g.OnUnauthorized(func(context.Context) { calls++ })
	unsubscribe()

	g.Unauthorized(context.Background())
	if calls != 0 {
		t.Errorf("calls = %d after unsubscribe, want 0", calls)
	}
}

func TestState_String(t *testing.T) {
	if Authenticated.String() != "authenticated" {
		t.Errorf("Authenticated.String() = %q", Authenticated.String())
	}
	if SignalingUnauthorized.String() != "signaling-unauthorized" {
		t.Errorf("SignalingUnauthorized.String() = %q", SignalingUnauthorized.String())
	}
}

func TestFileStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "credentials.json")
	store := NewFileStore(path)

	if _, err := store.Load(); !errors.Is(err, ErrNoCredentials) {
		t.Fatalf("Load() on missing file error = %v, want ErrNoCredentials", err)
	}

	creds := model.Credentials{
		Token: "tok-123",
		User:  &model.User{ID: "u1", Name: "Sara", Email: "sara@example.com", Role: "student"},
	}
	if err := store.Save(creds); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat() error = %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("file mode = %o, want 600", perm)
	}

	got, err := store.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if diff := cmp.Diff(creds, got); diff != "" {
		t.Errorf("Load() mismatch (-want +got):\n%s", diff)
	}

	if err := store.Clear(); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if err := store.Clear(); err != nil {
		t.Errorf("second Clear() error = %v", err)
	}
	if _, err := store.Load(); !errors.Is(err, ErrNoCredentials) {
		t.Errorf("Load() after Clear error = %v, want ErrNoCredentials", err)
	}
}

func TestFileStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}

	_, err := NewFileStore(path).Load()
	if err == nil || errors.Is(err, ErrNoCredentials) {
		t.Errorf("Load() error = %v, want parse error", err)
	}
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore("")
	if Token(store) != "" {
		t.Error("Token() on empty store != \"\"")
	}

	store.Save(model.Credentials{Token: "abc"})
	if Token(store) != "abc" {
		t.Errorf("Token() = %q, want abc", Token(store))
	}

	store.Clear()
	if _, err := store.Load(); !errors.Is(err, ErrNoCredentials) {
		t.Errorf("Load() after Clear error = %v, want ErrNoCredentials", err)
	}
}
