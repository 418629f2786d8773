package service

import (
	"context"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"connectrpc.com/connect"

	"github.com/mmynk/splitorder/internal/events"
	"github.com/mmynk/splitorder/internal/middleware"
	"github.com/mmynk/splitorder/internal/models"
	"github.com/mmynk/splitorder/internal/session"
	"github.com/mmynk/splitorder/internal/storage/sqlite"
	"github.com/mmynk/splitorder/pkg/splitapi"
)

// testAuthInterceptor returns a Connect interceptor that sets a test customer ID in the context.
func testAuthInterceptor(customerID string) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			return next(middleware.WithCustomer(ctx, customerID, ""), req)
		}
	}
}

// capturePublisher keeps every published event.
type capturePublisher struct {
	keys   []string
	events []any
	err    error
}

func (p *capturePublisher) PublishJSON(_ context.Context, routingKey string, v any) error {
	p.keys = append(p.keys, routingKey)
	p.events = append(p.events, v)
	return p.err
}

type testEnv struct {
	client    splitapi.SplitServiceClient
	store     *sqlite.SQLiteStore
	sessions  *session.MemoryStores
	publisher *capturePublisher
}

// setupTestServer creates a test server backed by a temp SQLite database.
// The caller is authenticated as customerID.
func setupTestServer(t *testing.T, customerID string) *testEnv {
	t.Helper()

	tmpFile, err := os.CreateTemp("", "test-*.db")
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	tmpFile.Close()
	t.Cleanup(func() { os.Remove(tmpFile.Name()) })

	store, err := sqlite.New(tmpFile.Name())
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	sessions := session.NewMemoryStores()
	publisher := &capturePublisher{}
	svc := NewSplitService(store,
		WithSessions(sessions),
		WithPublisher(publisher),
		WithOwnerCheck(),
	)

	path, handler := splitapi.NewSplitServiceHandler(svc,
		connect.WithInterceptors(testAuthInterceptor(customerID), middleware.LoggingInterceptor()))
	mux := http.NewServeMux()
	mux.Handle(path, handler)
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return &testEnv{
		client:    splitapi.NewSplitServiceClient(http.DefaultClient, server.URL),
		store:     store,
		sessions:  sessions,
		publisher: publisher,
	}
}

// fourItemCart is the cart from the checkout examples: prices 10..40, tax 1 each, shipping 8.
func fourItemCart(method models.CheckoutMethod) *models.Cart {
	cart := &models.Cart{
		StoreID:        1,
		CheckoutMethod: method,
		Customer:       models.Customer{ID: "cust-1", Email: "owner@example.com", GroupID: 1},
		Addresses: []*models.Address{
			{AddressData: models.AddressData{Type: models.AddressTypeBilling, Email: "a@example.com", City: "Oslo"}},
			{AddressData: models.AddressData{Type: models.AddressTypeShipping, City: "Oslo", ShippingAmount: 8}},
		},
		Payment: &models.Payment{Method: "checkmo"},
	}
	for _, price := range []float64{10, 20, 30, 40} {
		cart.Items = append(cart.Items, models.LineItem{
			SKU: "sku", Name: "Item", Price: price, Qty: 1, TaxAmount: 1, Visible: true,
		})
	}
	if method == models.CheckoutMethodGuest {
		cart.Customer = models.Customer{}
	}
	return cart
}

func saveCart(t *testing.T, env *testEnv, cart *models.Cart) string {
	t.Helper()
	if err := env.store.SaveCart(context.Background(), cart); err != nil {
		t.Fatalf("SaveCart failed: %v", err)
	}
	return cart.ID
}

func assertTotals(t *testing.T, label string, got *splitapi.Totals, subtotal, tax, shipping, grandTotal float64) {
	t.Helper()
	if math.Abs(got.Subtotal-subtotal) > 1e-9 {
		t.Errorf("%s subtotal: expected %v, got %v", label, subtotal, got.Subtotal)
	}
	if math.Abs(got.Tax-tax) > 1e-9 {
		t.Errorf("%s tax: expected %v, got %v", label, tax, got.Tax)
	}
	if math.Abs(got.Shipping-shipping) > 1e-9 {
		t.Errorf("%s shipping: expected %v, got %v", label, shipping, got.Shipping)
	}
	if math.Abs(got.GrandTotal-grandTotal) > 1e-9 {
		t.Errorf("%s grand total: expected %v, got %v", label, grandTotal, got.GrandTotal)
	}
}

func TestPreviewSplit_FourItems(t *testing.T) {
	env := setupTestServer(t, "cust-1")
	cartID := saveCart(t, env, fourItemCart(models.CheckoutMethodCustomer))

	resp, err := env.client.PreviewSplit(context.Background(), connect.NewRequest(&splitapi.PreviewSplitRequest{CartID: cartID}))
	if err != nil {
		t.Fatalf("PreviewSplit failed: %v", err)
	}

	if len(resp.Msg.Splits) != 2 {
		t.Fatalf("expected 2 splits, got %d", len(resp.Msg.Splits))
	}
	assertTotals(t, "split A", resp.Msg.Splits[0].Totals, 30, 2, 4, 36)
	assertTotals(t, "split B", resp.Msg.Splits[1].Totals, 70, 2, 4, 76)
	assertTotals(t, "original", resp.Msg.Original, 100, 4, 8, 112)

	if resp.Msg.Splits[0].Items[0].Price != 10 || resp.Msg.Splits[1].Items[0].Price != 30 {
		t.Errorf("unexpected item order")
	}
	if resp.Msg.Splits[0].CustomerID != "cust-1" || resp.Msg.Splits[0].PaymentMethod != "checkmo" {
		t.Errorf("unexpected split context: %+v", resp.Msg.Splits[0])
	}
}

func TestPreviewSplit_GuestOverride(t *testing.T) {
	env := setupTestServer(t, "")
	cart := fourItemCart(models.CheckoutMethodGuest)
	// A stale customer reference must not survive guest checkout
	cart.Customer = models.Customer{ID: "stale", GroupID: 3}
	cartID := saveCart(t, env, cart)

	resp, err := env.client.PreviewSplit(context.Background(), connect.NewRequest(&splitapi.PreviewSplitRequest{CartID: cartID}))
	if err != nil {
		t.Fatalf("PreviewSplit failed: %v", err)
	}

	for i, split := range resp.Msg.Splits {
		if split.CustomerID != "" || !split.IsGuest || split.CustomerEmail != "a@example.com" {
			t.Errorf("split %d customer = (%q,%v,%q), want guest a@example.com",
				i, split.CustomerID, split.IsGuest, split.CustomerEmail)
		}
	}
}

func TestPlaceSplitOrders(t *testing.T) {
	env := setupTestServer(t, "cust-1")
	cartID := saveCart(t, env, fourItemCart(models.CheckoutMethodCustomer))

	resp, err := env.client.PlaceSplitOrders(context.Background(), connect.NewRequest(&splitapi.PlaceSplitOrdersRequest{
		CartID:    cartID,
		SessionID: "sess-1",
	}))
	if err != nil {
		t.Fatalf("PlaceSplitOrders failed: %v", err)
	}

	if len(resp.Msg.Orders) != 2 {
		t.Fatalf("expected 2 orders, got %d", len(resp.Msg.Orders))
	}
	assertTotals(t, "order A", resp.Msg.Orders[0].Totals, 30, 2, 4, 36)
	assertTotals(t, "order B", resp.Msg.Orders[1].Totals, 70, 2, 4, 76)

	// Orders are persisted against their own split carts
	for _, o := range resp.Msg.Orders {
		stored, err := env.store.GetOrder(context.Background(), o.OrderID)
		if err != nil {
			t.Fatalf("GetOrder failed: %v", err)
		}
		if stored.CartID == cartID {
			t.Errorf("order %s placed against the original cart", o.OrderID)
		}
		if _, err := env.store.GetCart(context.Background(), stored.CartID); err != nil {
			t.Errorf("split cart %s not stored: %v", stored.CartID, err)
		}
	}

	snap := env.sessions.Get("sess-1").Snapshot()
	last := resp.Msg.Orders[1]
	if snap.LastOrderID != last.OrderID || snap.LastRealOrderID != last.IncrementID {
		t.Errorf("session last order = (%q,%q), want (%q,%q)",
			snap.LastOrderID, snap.LastRealOrderID, last.OrderID, last.IncrementID)
	}
	if snap.LastQuoteID != last.CartID || snap.LastSuccessQuoteID != last.CartID {
		t.Errorf("session last quote = %q, want %q", snap.LastQuoteID, last.CartID)
	}
	if snap.LastOrderStatus != models.OrderStatusPending {
		t.Errorf("session status = %q, want pending", snap.LastOrderStatus)
	}
	if len(snap.OrderIDs) != 2 || snap.OrderIDs[0] != resp.Msg.Orders[0].OrderID {
		t.Errorf("session order IDs = %v", snap.OrderIDs)
	}

	if len(env.publisher.keys) != 1 || env.publisher.keys[0] != events.RKSplitOrdersPlaced {
		t.Fatalf("published keys = %v", env.publisher.keys)
	}
	evt := env.publisher.events[0].(events.SplitOrdersPlaced)
	if evt.CartID != cartID || len(evt.Orders) != 2 {
		t.Errorf("unexpected event: %+v", evt)
	}
}

func TestPlaceSplitOrders_SingleItemPlacesOneOrder(t *testing.T) {
	env := setupTestServer(t, "cust-1")
	cart := fourItemCart(models.CheckoutMethodCustomer)
	cart.Items = cart.Items[:1]
	cartID := saveCart(t, env, cart)

	resp, err := env.client.PlaceSplitOrders(context.Background(), connect.NewRequest(&splitapi.PlaceSplitOrdersRequest{
		CartID:    cartID,
		SessionID: "sess-single",
	}))
	if err != nil {
		t.Fatalf("PlaceSplitOrders failed: %v", err)
	}

	if len(resp.Msg.Orders) != 1 {
		t.Fatalf("expected 1 order, got %d", len(resp.Msg.Orders))
	}
	assertTotals(t, "order", resp.Msg.Orders[0].Totals, 10, 1, 4, 15)

	snap := env.sessions.Get("sess-single").Snapshot()
	if snap.LastOrderID != resp.Msg.Orders[0].OrderID || len(snap.OrderIDs) != 1 {
		t.Errorf("session = %+v, want the single order", snap)
	}
}

func TestPlaceSplitOrders_Errors(t *testing.T) {
	env := setupTestServer(t, "cust-1")
	ctx := context.Background()

	otherCustomer := fourItemCart(models.CheckoutMethodCustomer)
	otherCustomer.Customer.ID = "cust-2"
	otherID := saveCart(t, env, otherCustomer)

	empty := fourItemCart(models.CheckoutMethodCustomer)
	empty.Items = nil
	emptyID := saveCart(t, env, empty)

	noShipping := fourItemCart(models.CheckoutMethodCustomer)
	noShipping.Addresses = noShipping.Addresses[:1]
	noShippingID := saveCart(t, env, noShipping)

	guestNoBilling := fourItemCart(models.CheckoutMethodGuest)
	guestNoBilling.Addresses = guestNoBilling.Addresses[1:]
	guestNoBillingID := saveCart(t, env, guestNoBilling)

	tests := []struct {
		name     string
		req      *splitapi.PlaceSplitOrdersRequest
		wantCode connect.Code
	}{
		{name: "missing session", req: &splitapi.PlaceSplitOrdersRequest{CartID: otherID}, wantCode: connect.CodeInvalidArgument},
		{name: "missing cart id", req: &splitapi.PlaceSplitOrdersRequest{SessionID: "s"}, wantCode: connect.CodeInvalidArgument},
		{name: "unknown cart", req: &splitapi.PlaceSplitOrdersRequest{CartID: "nope", SessionID: "s"}, wantCode: connect.CodeNotFound},
		{name: "cart of another customer", req: &splitapi.PlaceSplitOrdersRequest{CartID: otherID, SessionID: "s"}, wantCode: connect.CodePermissionDenied},
		{name: "no visible items", req: &splitapi.PlaceSplitOrdersRequest{CartID: emptyID, SessionID: "s"}, wantCode: connect.CodeFailedPrecondition},
		{name: "no shipping address", req: &splitapi.PlaceSplitOrdersRequest{CartID: noShippingID, SessionID: "s"}, wantCode: connect.CodeFailedPrecondition},
		{name: "guest without billing", req: &splitapi.PlaceSplitOrdersRequest{CartID: guestNoBillingID, SessionID: "s"}, wantCode: connect.CodeFailedPrecondition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.client.PlaceSplitOrders(ctx, connect.NewRequest(tt.req))
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if code := connect.CodeOf(err); code != tt.wantCode {
				t.Errorf("code = %v, want %v (err: %v)", code, tt.wantCode, err)
			}
		})
	}
}

// failingOrders wraps a store and fails order creation.
type failingOrders struct {
	*sqlite.SQLiteStore
	err error
}

func (f failingOrders) CreateOrder(context.Context, *models.Cart) (*models.Order, error) {
	return nil, f.err
}

// failingSessions hands out a store that fails every write.
type failingSessions struct{ err error }

func (f failingSessions) ForSession(string) session.Store { return failingSessionStore(f) }

type failingSessionStore struct{ err error }

func (f failingSessionStore) SetLastQuoteID(context.Context, string) error        { return f.err }
func (f failingSessionStore) SetLastSuccessQuoteID(context.Context, string) error { return f.err }
func (f failingSessionStore) SetLastOrderID(context.Context, string) error        { return f.err }
func (f failingSessionStore) SetLastRealOrderID(context.Context, string) error    { return f.err }
func (f failingSessionStore) SetLastOrderStatus(context.Context, models.OrderStatus) error {
	return f.err
}
func (f failingSessionStore) SetOrderIDs(context.Context, []string) error { return f.err }

func TestPlace_PropagatesCollaboratorErrors(t *testing.T) {
	env := setupTestServer(t, "")
	errDown := errors.New("collaborator down")
	ctx := context.Background()

	t.Run("order creation", func(t *testing.T) {
		svc := NewSplitService(failingOrders{SQLiteStore: env.store, err: errDown})
		_, err := svc.Place(ctx, fourItemCart(models.CheckoutMethodCustomer), "s")
		if !errors.Is(err, errDown) {
			t.Errorf("err = %v, want wrapped %v", err, errDown)
		}
	})

	t.Run("session store", func(t *testing.T) {
		svc := NewSplitService(env.store, WithSessions(failingSessions{err: errDown}))
		_, err := svc.Place(ctx, fourItemCart(models.CheckoutMethodCustomer), "s")
		if !errors.Is(err, errDown) {
			t.Errorf("err = %v, want wrapped %v", err, errDown)
		}
	})

	t.Run("publisher failure does not fail placed orders", func(t *testing.T) {
		svc := NewSplitService(env.store, WithPublisher(&capturePublisher{err: errDown}))
		orders, err := svc.Place(ctx, fourItemCart(models.CheckoutMethodCustomer), "s")
		if err != nil {
			t.Fatalf("Place failed: %v", err)
		}
		if len(orders) != 2 {
			t.Errorf("expected 2 orders, got %d", len(orders))
		}
	})
}

func TestPrepare(t *testing.T) {
	svc := NewSplitService(nil)

	t.Run("single item still yields two splits sharing shipping", func(t *testing.T) {
		cart := fourItemCart(models.CheckoutMethodCustomer)
		cart.Items = cart.Items[:1]

		prepared, err := svc.Prepare(cart)
		if err != nil {
			t.Fatalf("Prepare failed: %v", err)
		}
		if len(prepared.Splits) != 2 {
			t.Fatalf("expected 2 splits, got %d", len(prepared.Splits))
		}
		if n := len(prepared.Splits[1].Items); n != 0 {
			t.Errorf("second split has %d items, want 0", n)
		}
		for i, split := range prepared.Splits {
			if got := split.Totals.Shipping; got != 4 {
				t.Errorf("split %d shipping = %v, want 4", i+1, got)
			}
		}
		if !prepared.Drift.Balanced() {
			t.Errorf("unexpected drift: %+v", prepared.Drift)
		}
	})

	t.Run("no visible items", func(t *testing.T) {
		cart := fourItemCart(models.CheckoutMethodCustomer)
		cart.Items = nil

		if _, err := svc.Prepare(cart); !errors.Is(err, ErrNothingToSplit) {
			t.Errorf("err = %v, want ErrNothingToSplit", err)
		}
	})

	t.Run("virtual split leaves shipping drift", func(t *testing.T) {
		cart := fourItemCart(models.CheckoutMethodCustomer)
		cart.ShippingAddress().ShippingAmount = 10
		cart.Items[0].IsVirtual = true

		prepared, err := svc.Prepare(cart)
		if err != nil {
			t.Fatalf("Prepare failed: %v", err)
		}
		if prepared.Splits[0].Totals.Shipping != 0 || prepared.Splits[1].Totals.Shipping != 5 {
			t.Errorf("shipping shares = %v, %v, want 0, 5",
				prepared.Splits[0].Totals.Shipping, prepared.Splits[1].Totals.Shipping)
		}
		if math.Abs(prepared.Drift.Shipping-5) > 1e-9 {
			t.Errorf("shipping drift = %v, want 5", prepared.Drift.Shipping)
		}
	})

	t.Run("original cart is left untouched", func(t *testing.T) {
		cart := fourItemCart(models.CheckoutMethodGuest)
		prepared, err := svc.Prepare(cart)
		if err != nil {
			t.Fatalf("Prepare failed: %v", err)
		}
		prepared.Splits[0].BillingAddress().City = "Bergen"

		if cart.BillingAddress().City != "Oslo" {
			t.Error("split mutation reached the original billing address")
		}
		if cart.ShippingAddress().ShippingAmount != 8 {
			t.Errorf("original shipping changed to %v", cart.ShippingAddress().ShippingAmount)
		}
		if len(cart.Items) != 4 {
			t.Errorf("original items changed: %d", len(cart.Items))
		}
	})
}
