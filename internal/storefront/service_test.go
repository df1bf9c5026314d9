package storefront

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"learnhub-storefront/internal/auth"
	"learnhub-storefront/internal/model"
	"learnhub-storefront/internal/store"
)

const cartPayload = `{"cart":{"user":"u1","items":[
	{"course":{"_id":"c1","title":"Algebra I","price":100}},
	{"privateLesson":{"_id":"p1","title":"Essay coaching","oneLessonPrice":50}}
]}}`

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestService(t *testing.T, backend Backend) (*Service, *store.Store) {
	t.Helper()
	st := store.New()
	svc := New(backend, st, auth.NewMemoryStore("tok"), discardLogger(), Options{})
	t.Cleanup(svc.Close)
	return svc, st
}

func mustNotCall(t *testing.T) *Mock {
	t.Helper()
	fail := func(name string) { t.Fatalf("%s called, want no request", name) }
	return &Mock{
		AddToCartFunc: func(context.Context, model.Reference) (json.RawMessage, error) {
			fail("AddToCart")
			return nil, nil
		},
		AddToWishlistFunc: func(context.Context, model.Reference) (json.RawMessage, error) {
			fail("AddToWishlist")
			return nil, nil
		},
		RemoveFromCartFunc: func(context.Context, string) error {
			fail("RemoveFromCart")
			return nil
		},
		LoginFunc: func(context.Context, model.LoginRequest) (json.RawMessage, error) {
			fail("Login")
			return nil, nil
		},
		ApplyCouponFunc: func(context.Context, model.CouponRequest) (json.RawMessage, error) {
			fail("ApplyCoupon")
			return nil, nil
		},
		CreateOrderFunc: func(context.Context, model.OrderRequest) (json.RawMessage, error) {
			fail("CreateOrder")
			return nil, nil
		},
	}
}

func loadedCart(t *testing.T, svc *Service) {
	t.Helper()
	if _, err := svc.LoadCart(context.Background()); err != nil {
		t.Fatalf("LoadCart() error: %v", err)
	}
}

func TestLoadCart(t *testing.T) {
	svc, _ := newTestService(t, &Mock{
		GetCartFunc: func(context.Context) (json.RawMessage, error) {
			return json.RawMessage(cartPayload), nil
		},
	})

	snap, err := svc.LoadCart(context.Background())
	if err != nil {
		t.Fatalf("LoadCart() error: %v", err)
	}

	if !snap.Loaded {
		t.Error("Loaded = false, want true")
	}
	if diff := cmp.Diff([]string{"c1", "p1"}, snap.Collection.ReferenceIDs()); diff != "" {
		t.Errorf("ids mismatch (-want +got):\n%s", diff)
	}
	if snap.Collection.Total != model.FromMajor(150) {
		t.Errorf("Total = %s, want 150.00", snap.Collection.Total)
	}
	if snap.Collection.OwnerID != "u1" {
		t.Errorf("OwnerID = %q, want u1", snap.Collection.OwnerID)
	}
}

func TestLoadCart_FailureKeepsState(t *testing.T) {
	fail := false
	svc, _ := newTestService(t, &Mock{
		GetCartFunc: func(context.Context) (json.RawMessage, error) {
			if fail {
				return nil, model.NewNetworkError("backend", errors.New("connection refused"))
			}
			return json.RawMessage(cartPayload), nil
		},
	})
	loadedCart(t, svc)

	fail = true
	snap, err := svc.LoadCart(context.Background())
	if !errors.Is(err, model.ErrNetwork) {
		t.Fatalf("error = %v, want ErrNetwork", err)
	}
	if len(snap.Collection.Items) != 2 {
		t.Errorf("items = %d after failed refresh, want 2", len(snap.Collection.Items))
	}
	if snap.Collection.Total != model.FromMajor(150) {
		t.Errorf("Total = %s, want 150.00", snap.Collection.Total)
	}
}

func TestLoadCart_FirstLoadFailureIsEmpty(t *testing.T) {
	svc, _ := newTestService(t, &Mock{
		GetCartFunc: func(context.Context) (json.RawMessage, error) {
			return nil, model.NewNetworkError("backend", errors.New("timeout"))
		},
	})

	snap, err := svc.LoadCart(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if snap.Loaded {
		t.Error("Loaded = true, want false")
	}
	if len(snap.Collection.Items) != 0 || snap.Collection.Total != 0 {
		t.Errorf("collection = %+v, want empty", snap.Collection)
	}
}

func TestLoadCart_UnreadablePayload(t *testing.T) {
	svc, _ := newTestService(t, &Mock{
		GetCartFunc: func(context.Context) (json.RawMessage, error) {
			return json.RawMessage(`<html>`), nil
		},
	})

	_, err := svc.LoadCart(context.Background())
	if !errors.Is(err, model.ErrUpstreamError) {
		t.Errorf("error = %v, want ErrUpstreamError", err)
	}
}

func TestLoadCart_UnknownRecordKept(t *testing.T) {
	svc, _ := newTestService(t, &Mock{
		GetCartFunc: func(context.Context) (json.RawMessage, error) {
			return json.RawMessage(`{"items":[{"courseId":"c9","price":12},{"course":{"_id":"c1","price":10}}]}`), nil
		},
	})

	snap, err := svc.LoadCart(context.Background())
	if err != nil {
		t.Fatalf("LoadCart() error: %v", err)
	}
	if got := snap.Collection.Items[0].Type; got != model.ReferenceUnknown {
		t.Errorf("Type = %s, want unknown", got)
	}
	if snap.Collection.Total != model.FromMajor(22) {
		t.Errorf("Total = %s, want 22.00", snap.Collection.Total)
	}
}

func TestRemoveFromCart(t *testing.T) {
	var removed []string
	svc, _ := newTestService(t, &Mock{
		GetCartFunc: func(context.Context) (json.RawMessage, error) {
			return json.RawMessage(cartPayload), nil
		},
		RemoveFromCartFunc: func(_ context.Context, id string) error {
			removed = append(removed, id)
			return nil
		},
	})
	loadedCart(t, svc)

	snap, err := svc.RemoveFromCart(context.Background(), "c1")
	if err != nil {
		t.Fatalf("RemoveFromCart() error: %v", err)
	}

	if diff := cmp.Diff([]string{"p1"}, snap.Collection.ReferenceIDs()); diff != "" {
		t.Errorf("ids mismatch (-want +got):\n%s", diff)
	}
	if snap.Collection.Total != model.FromMajor(50) {
		t.Errorf("Total = %s, want 50.00", snap.Collection.Total)
	}
	if diff := cmp.Diff([]string{"c1"}, removed); diff != "" {
		t.Errorf("backend removals mismatch (-want +got):\n%s", diff)
	}
}

func TestRemoveFromCart_OptimisticStateStandsOnFailure(t *testing.T) {
	svc, _ := newTestService(t, &Mock{
		GetCartFunc: func(context.Context) (json.RawMessage, error) {
			return json.RawMessage(cartPayload), nil
		},
		RemoveFromCartFunc: func(context.Context, string) error {
			return model.NewNetworkError("backend", errors.New("reset by peer"))
		},
	})
	loadedCart(t, svc)

	snap, err := svc.RemoveFromCart(context.Background(), "c1")
	if !errors.Is(err, model.ErrNetwork) {
		t.Fatalf("error = %v, want ErrNetwork", err)
	}
	if snap.Collection.Contains("c1") {
		t.Error("c1 restored after failed removal, want optimistic state kept")
	}
}

func TestRemoveFromCart_AbsentIsNoOp(t *testing.T) {
	svc, st := newTestService(t, &Mock{
		GetCartFunc: func(context.Context) (json.RawMessage, error) {
			return json.RawMessage(cartPayload), nil
		},
	})
	loadedCart(t, svc)
	before := st.Cart.Snapshot()

	snap, err := svc.RemoveFromCart(context.Background(), "missing")
	if err != nil {
		t.Fatalf("RemoveFromCart() error: %v", err)
	}
	if diff := cmp.Diff(before.Collection, snap.Collection); diff != "" {
		t.Errorf("collection changed (-before +after):\n%s", diff)
	}
	if snap.Version != before.Version {
		t.Errorf("Version = %d, want %d", snap.Version, before.Version)
	}
}

func TestClearCart(t *testing.T) {
	svc, _ := newTestService(t, &Mock{
		GetCartFunc: func(context.Context) (json.RawMessage, error) {
			return json.RawMessage(cartPayload), nil
		},
	})
	loadedCart(t, svc)
	svc.SelectAll()

	snap, err := svc.ClearCart(context.Background())
	if err != nil {
		t.Fatalf("ClearCart() error: %v", err)
	}
	if len(snap.Collection.Items) != 0 || snap.Collection.Total != 0 {
		t.Errorf("collection = %+v, want empty", snap.Collection)
	}
	if got := svc.Selected(); len(got) != 0 {
		t.Errorf("Selected() = %v, want empty", got)
	}
}

func TestValidationBeforeNetwork(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name      string
		call      func(*Service) error
		wantField string
	}{
		{
			name: "add without reference",
			call: func(s *Service) error {
				_, err := s.AddToCart(ctx, model.Reference{})
				return err
			},
			wantField: "courseId",
		},
		{
			name: "add with both ids",
			call: func(s *Service) error {
				_, err := s.AddToCart(ctx, model.Reference{CourseID: "c1", PrivateLessonID: "p1"})
				return err
			},
			wantField: "courseId",
		},
		{
			name: "toggle without reference",
			call: func(s *Service) error {
				_, _, err := s.ToggleWishlist(ctx, model.Reference{})
				return err
			},
			wantField: "courseId",
		},
		{
			name: "remove empty id",
			call: func(s *Service) error {
				_, err := s.RemoveFromCart(ctx, "  ")
				return err
			},
			wantField: "referenceId",
		},
		{
			name: "empty coupon code",
			call: func(s *Service) error {
				_, err := s.ApplyCoupon(ctx, "   ")
				return err
			},
			wantField: "couponCode",
		},
		{
			name: "checkout with nothing selected",
			call: func(s *Service) error {
				_, err := s.Checkout(ctx, "")
				return err
			},
			wantField: "items",
		},
		{
			name: "login with bad email",
			call: func(s *Service) error {
				_, err := s.Login(ctx, "not-an-email", "secret")
				return err
			},
			wantField: "email",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newTestService(t, mustNotCall(t))

			err := tt.call(svc)
			if !errors.Is(err, model.ErrInvalidRequest) {
				t.Fatalf("error = %v, want ErrInvalidRequest", err)
			}
			var apiErr *model.APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("error %T is not *APIError", err)
			}
			if apiErr.Field != tt.wantField {
				t.Errorf("Field = %q, want %q", apiErr.Field, tt.wantField)
			}
		})
	}
}

func TestLoadCart_StaleResponseDiscarded(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	calls := 0
	var mu sync.Mutex

	svc, _ := newTestService(t, &Mock{
		GetCartFunc: func(context.Context) (json.RawMessage, error) {
			mu.Lock()
			calls++
			n := calls
			mu.Unlock()
			if n == 2 {
				close(started)
				<-release
			}
			return json.RawMessage(cartPayload), nil
		},
	})
	loadedCart(t, svc)

	done := make(chan error)
	go func() {
		_, err := svc.LoadCart(context.Background())
		done <- err
	}()

	<-started
	if _, err := svc.RemoveFromCart(context.Background(), "c1"); err != nil {
		t.Fatalf("RemoveFromCart() error: %v", err)
	}
	close(release)

	if err := <-done; err != nil {
		t.Fatalf("LoadCart() error: %v", err)
	}

	snap := svc.Cart()
	if snap.Collection.Contains("c1") {
		t.Error("stale fetch resurrected c1")
	}
	if snap.Collection.Total != model.FromMajor(50) {
		t.Errorf("Total = %s, want 50.00", snap.Collection.Total)
	}
}

func TestClose_SuppressesApply(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})

	st := store.New()
	svc := New(&Mock{
		GetCartFunc: func(context.Context) (json.RawMessage, error) {
			close(started)
			<-release
			return json.RawMessage(cartPayload), nil
		},
	}, st, auth.NewMemoryStore("tok"), discardLogger(), Options{})

	done := make(chan struct{})
	go func() {
		defer close(done)
		svc.LoadCart(context.Background())
	}()

	<-started
	svc.Close()
	close(release)
	<-done

	if svc.Active() {
		t.Error("Active() = true after Close")
	}
	if snap := st.Cart.Snapshot(); snap.Loaded || len(snap.Collection.Items) != 0 {
		t.Errorf("snapshot = %+v, want untouched", snap)
	}
}

func TestAddToCart_Refetches(t *testing.T) {
	var added []model.Reference
	svc, _ := newTestService(t, &Mock{
		AddToCartFunc: func(_ context.Context, ref model.Reference) (json.RawMessage, error) {
			added = append(added, ref)
			return json.RawMessage(`{"course":{"_id":"c1"}}`), nil
		},
		GetCartFunc: func(context.Context) (json.RawMessage, error) {
			return json.RawMessage(cartPayload), nil
		},
	})

	snap, err := svc.AddToCart(context.Background(), model.CourseRef("c1"))
	if err != nil {
		t.Fatalf("AddToCart() error: %v", err)
	}
	if diff := cmp.Diff([]model.Reference{model.CourseRef("c1")}, added); diff != "" {
		t.Errorf("backend adds mismatch (-want +got):\n%s", diff)
	}
	if len(snap.Collection.Items) != 2 {
		t.Errorf("items = %d, want refetched cart of 2", len(snap.Collection.Items))
	}
	if got := svc.Pending(); len(got) != 0 {
		t.Errorf("Pending() = %v after completion, want none", got)
	}
}

func TestAddToCart_DuplicateInFlight(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	svc, _ := newTestService(t, &Mock{
		AddToCartFunc: func(context.Context, model.Reference) (json.RawMessage, error) {
			close(started)
			<-release
			return nil, nil
		},
	})

	done := make(chan struct{})
	go func() {
		defer close(done)
		svc.AddToCart(context.Background(), model.CourseRef("c1"))
	}()

	<-started
	_, err := svc.AddToCart(context.Background(), model.CourseRef("c1"))
	close(release)
	<-done

	if !errors.Is(err, ErrInProgress) {
		t.Errorf("error = %v, want ErrInProgress", err)
	}
}

func TestToggleWishlist(t *testing.T) {
	wishlist := `{"wishlist":{"items":[]}}`
	var removed []string
	svc, _ := newTestService(t, &Mock{
		GetWishlistFunc: func(context.Context) (json.RawMessage, error) {
			return json.RawMessage(wishlist), nil
		},
		AddToWishlistFunc: func(_ context.Context, ref model.Reference) (json.RawMessage, error) {
			wishlist = `{"wishlist":{"items":[{"privateLesson":{"_id":"` + ref.ID() + `","packagePrice":80}}]}}`
			return nil, nil
		},
		RemoveFromWishlistFunc: func(_ context.Context, id string) error {
			removed = append(removed, id)
			return nil
		},
	})
	ctx := context.Background()

	added, snap, err := svc.ToggleWishlist(ctx, model.PrivateLessonRef("p1"))
	if err != nil {
		t.Fatalf("ToggleWishlist() error: %v", err)
	}
	if !added || !snap.Collection.Contains("p1") {
		t.Fatalf("added = %v, items = %v; want p1 added", added, snap.Collection.ReferenceIDs())
	}
	if !svc.InWishlist("p1") {
		t.Error("InWishlist(p1) = false")
	}

	added, snap, err = svc.ToggleWishlist(ctx, model.PrivateLessonRef("p1"))
	if err != nil {
		t.Fatalf("ToggleWishlist() error: %v", err)
	}
	if added || snap.Collection.Contains("p1") {
		t.Errorf("added = %v, items = %v; want p1 removed", added, snap.Collection.ReferenceIDs())
	}
	if diff := cmp.Diff([]string{"p1"}, removed); diff != "" {
		t.Errorf("backend removals mismatch (-want +got):\n%s", diff)
	}
}

func TestSelection(t *testing.T) {
	svc, _ := newTestService(t, &Mock{
		GetCartFunc: func(context.Context) (json.RawMessage, error) {
			return json.RawMessage(cartPayload), nil
		},
	})
	loadedCart(t, svc)
	ctx := context.Background()

	if svc.Select("missing") {
		t.Error("Select(missing) = true, want false")
	}
	if !svc.Select("p1") || svc.Select("p1") {
		t.Error("Select(p1) should succeed once")
	}

	got, err := svc.SetSelection(ctx, []string{"c1", "p1", "c1"})
	if err != nil {
		t.Fatalf("SetSelection() error: %v", err)
	}
	if diff := cmp.Diff([]string{"c1", "p1"}, got); diff != "" {
		t.Errorf("selection mismatch (-want +got):\n%s", diff)
	}

	if _, err := svc.SetSelection(ctx, []string{"c1", "x"}); !errors.Is(err, model.ErrInvalidRequest) {
		t.Errorf("SetSelection(unknown) error = %v, want ErrInvalidRequest", err)
	}

	if !svc.Deselect("c1") || svc.Deselect("c1") {
		t.Error("Deselect(c1) should succeed once")
	}
	if diff := cmp.Diff([]string{"p1"}, svc.Selected()); diff != "" {
		t.Errorf("selection mismatch (-want +got):\n%s", diff)
	}
}

func TestSelection_PrunedOnCartReplace(t *testing.T) {
	payload := cartPayload
	svc, _ := newTestService(t, &Mock{
		GetCartFunc: func(context.Context) (json.RawMessage, error) {
			return json.RawMessage(payload), nil
		},
	})
	loadedCart(t, svc)
	svc.SelectAll()

	payload = `{"items":[{"privateLesson":{"_id":"p1","packagePrice":80}}]}`
	loadedCart(t, svc)

	if diff := cmp.Diff([]string{"p1"}, svc.Selected()); diff != "" {
		t.Errorf("selection mismatch (-want +got):\n%s", diff)
	}
}

func TestSelection_PruneLogsRemovedIDs(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))

	payload := cartPayload
	svc := New(&Mock{
		GetCartFunc: func(context.Context) (json.RawMessage, error) {
			return json.RawMessage(payload), nil
		},
	}, store.New(), auth.NewMemoryStore("tok"), logger, Options{})
	t.Cleanup(svc.Close)

	loadedCart(t, svc)
	svc.SelectAll()
	logs.Reset()

	payload = `{"items":[{"privateLesson":{"_id":"p1","packagePrice":80}}]}`
	loadedCart(t, svc)

	out := logs.String()
	if !strings.Contains(out, "selection pruned") || !strings.Contains(out, "c1") {
		t.Errorf("log output = %q, want a prune entry naming c1", out)
	}
	if strings.Contains(out, "p1]") {
		t.Errorf("log output = %q, p1 was kept and should not be listed", out)
	}

	// A refresh that keeps every selected id logs nothing.
	logs.Reset()
	loadedCart(t, svc)
	if strings.Contains(logs.String(), "selection pruned") {
		t.Errorf("unchanged refresh logged a prune: %q", logs.String())
	}
}

func TestCheckout(t *testing.T) {
	var gotReq model.OrderRequest
	cartCalls := 0
	svc, _ := newTestService(t, &Mock{
		GetCartFunc: func(context.Context) (json.RawMessage, error) {
			cartCalls++
			if cartCalls > 1 {
				return json.RawMessage(`{"items":[]}`), nil
			}
			return json.RawMessage(cartPayload), nil
		},
		ApplyCouponFunc: func(_ context.Context, req model.CouponRequest) (json.RawMessage, error) {
			return json.RawMessage(`{"discount":15,"finalPrice":135}`), nil
		},
		CreateOrderFunc: func(_ context.Context, req model.OrderRequest) (json.RawMessage, error) {
			gotReq = req
			return json.RawMessage(`{"order":{"_id":"o1","status":"paid","totalPrice":135,"items":[
				{"course":{"_id":"c1","price":100}},
				{"privateLesson":{"_id":"p1","oneLessonPrice":50}}
			]}}`), nil
		},
	})
	loadedCart(t, svc)
	ctx := context.Background()
	svc.SelectAll()

	quote, err := svc.ApplyCoupon(ctx, " SAVE10 ")
	if err != nil {
		t.Fatalf("ApplyCoupon() error: %v", err)
	}
	wantQuote := model.CouponQuote{Code: "SAVE10", Discount: model.FromMajor(15), FinalPrice: model.FromMajor(135)}
	if diff := cmp.Diff(wantQuote, quote); diff != "" {
		t.Errorf("quote mismatch (-want +got):\n%s", diff)
	}

	order, err := svc.Checkout(ctx, "")
	if err != nil {
		t.Fatalf("Checkout() error: %v", err)
	}

	wantReq := model.OrderRequest{
		Items:      []model.Reference{model.CourseRef("c1"), model.PrivateLessonRef("p1")},
		CouponCode: "SAVE10",
	}
	if diff := cmp.Diff(wantReq, gotReq); diff != "" {
		t.Errorf("order request mismatch (-want +got):\n%s", diff)
	}
	if order.ID != "o1" || order.Total != model.FromMajor(135) {
		t.Errorf("order = %+v, want o1 totalling 135.00", order)
	}
	if cartCalls != 2 {
		t.Errorf("cart fetched %d times, want refetch after checkout", cartCalls)
	}
	if snap := svc.Cart(); len(snap.Collection.Items) != 0 {
		t.Errorf("cart items = %d after checkout, want 0", len(snap.Collection.Items))
	}
	if _, ok := svc.Coupon(); ok {
		t.Error("coupon kept after checkout")
	}
}

func TestListOrders(t *testing.T) {
	svc, _ := newTestService(t, &Mock{
		ListOrdersFunc: func(context.Context) (json.RawMessage, error) {
			return json.RawMessage(`{"orders":[{"_id":"o1","orderItems":[{"course":{"_id":"c1","price":20}}]}]}`), nil
		},
	})

	orders, err := svc.ListOrders(context.Background())
	if err != nil {
		t.Fatalf("ListOrders() error: %v", err)
	}
	if len(orders) != 1 || orders[0].Total != model.FromMajor(20) {
		t.Errorf("orders = %+v, want one order totalling 20.00", orders)
	}
}

func TestLogin(t *testing.T) {
	creds := auth.NewMemoryStore("")
	svc := New(&Mock{
		LoginFunc: func(_ context.Context, req model.LoginRequest) (json.RawMessage, error) {
			if req.Email != "sara@example.com" {
				t.Errorf("Email = %q", req.Email)
			}
			return json.RawMessage(`{"token":"tok-new","user":{"_id":"u1","name":"Sara","email":"sara@example.com"}}`), nil
		},
	}, store.New(), creds, discardLogger(), Options{})
	defer svc.Close()

	user, err := svc.Login(context.Background(), " sara@example.com ", "secret")
	if err != nil {
		t.Fatalf("Login() error: %v", err)
	}
	if user == nil || user.ID != "u1" {
		t.Errorf("user = %+v, want u1", user)
	}
	if got := auth.Token(creds); got != "tok-new" {
		t.Errorf("stored token = %q, want tok-new", got)
	}

	if err := svc.Logout(context.Background()); err != nil {
		t.Fatalf("Logout() error: %v", err)
	}
	if _, err := creds.Load(); !errors.Is(err, auth.ErrNoCredentials) {
		t.Errorf("Load() after Logout error = %v, want ErrNoCredentials", err)
	}
}

func TestUnauthorizedResetsLocalState(t *testing.T) {
	creds := auth.NewMemoryStore("tok")
	guard := auth.NewGuard(creds, discardLogger())
	st := store.New()
	svc := New(&Mock{
		GetCartFunc: func(context.Context) (json.RawMessage, error) {
			return json.RawMessage(cartPayload), nil
		},
	}, st, creds, discardLogger(), Options{Guard: guard})
	defer svc.Close()

	loadedCart(t, svc)
	svc.SelectAll()

	if !guard.Unauthorized(context.Background()) {
		t.Fatal("Unauthorized() = false, want signal")
	}

	if snap := svc.Cart(); len(snap.Collection.Items) != 0 {
		t.Errorf("cart items = %d, want 0", len(snap.Collection.Items))
	}
	if diff := cmp.Diff([]string{}, svc.Selected(), cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("selection mismatch (-want +got):\n%s", diff)
	}
}
