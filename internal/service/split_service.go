package service

import (
	"context"
	"errors"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/splitorder/internal/events"
	"github.com/mmynk/splitorder/internal/metrics"
	"github.com/mmynk/splitorder/internal/middleware"
	"github.com/mmynk/splitorder/internal/models"
	"github.com/mmynk/splitorder/internal/quote"
	"github.com/mmynk/splitorder/internal/session"
	"github.com/mmynk/splitorder/internal/storage"
	"github.com/mmynk/splitorder/pkg/splitapi"
)

var _ splitapi.SplitServiceHandler = (*SplitService)(nil)

// SplitService splits carts into two payable carts and places their orders.
// It implements the Connect SplitService.
type SplitService struct {
	carts     storage.CartStore
	orders    storage.OrderStore
	sessions  session.Provider
	recorder  *session.Recorder
	publisher events.Publisher
	metrics   *metrics.Metrics

	// checkOwner rejects registered carts whose customer is not the caller.
	checkOwner bool
}

// Option configures a SplitService.
type Option func(*SplitService)

// WithSessions sets where checkout sessions are recorded. Defaults to in-memory.
func WithSessions(p session.Provider) Option {
	return func(s *SplitService) { s.sessions = p }
}

// WithPublisher sets the event publisher. Defaults to a no-op publisher.
func WithPublisher(p events.Publisher) Option {
	return func(s *SplitService) { s.publisher = p }
}

// WithMetrics sets the Prometheus collectors.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *SplitService) { s.metrics = m }
}

// WithOwnerCheck requires callers to be the customer owning a registered cart.
func WithOwnerCheck() Option {
	return func(s *SplitService) { s.checkOwner = true }
}

// NewSplitService creates a new SplitService with the given storage backend.
func NewSplitService(store storage.Store, opts ...Option) *SplitService {
	s := &SplitService{
		carts:     store,
		orders:    store,
		sessions:  session.NewMemoryStores(),
		recorder:  session.NewRecorder(),
		publisher: events.Nop{},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.metrics == nil {
		s.metrics = metrics.NewNop()
	}
	return s
}

// loadCart fetches a cart and checks the caller may split it.
func (s *SplitService) loadCart(ctx context.Context, cartID string) (*models.Cart, error) {
	if cartID == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("cart_id is required"))
	}

	cart, err := s.carts.GetCart(ctx, cartID)
	if err != nil {
		s.metrics.SplitFailures.WithLabelValues(metrics.StageLoad).Inc()
		return nil, toConnectError(err)
	}

	if s.checkOwner && cart.CheckoutMethod != models.CheckoutMethodGuest && cart.Customer.ID != "" &&
		cart.Customer.ID != middleware.GetCustomerID(ctx) {
		return nil, connect.NewError(connect.CodePermissionDenied, ErrCartNotOwned)
	}
	return cart, nil
}

// PreviewSplit shows how a cart would be split without placing orders.
func (s *SplitService) PreviewSplit(ctx context.Context, req *connect.Request[splitapi.PreviewSplitRequest]) (*connect.Response[splitapi.PreviewSplitResponse], error) {
	cart, err := s.loadCart(ctx, req.Msg.CartID)
	if err != nil {
		return nil, err
	}

	prepared, err := s.Prepare(cart)
	if err != nil {
		slog.Error("PreviewSplit failed", "cart_id", cart.ID, "error", err)
		return nil, toConnectError(err)
	}

	resp := &splitapi.PreviewSplitResponse{
		CartID:   cart.ID,
		Original: originalTotals(prepared),
		Splits:   make([]*splitapi.SplitCart, len(prepared.Splits)),
	}
	for i, split := range prepared.Splits {
		resp.Splits[i] = toSplitCart(split)
	}
	return connect.NewResponse(resp), nil
}

// PlaceSplitOrders splits a cart and places one order per split.
func (s *SplitService) PlaceSplitOrders(ctx context.Context, req *connect.Request[splitapi.PlaceSplitOrdersRequest]) (*connect.Response[splitapi.PlaceSplitOrdersResponse], error) {
	if req.Msg.SessionID == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, ErrSessionMissing)
	}
	cart, err := s.loadCart(ctx, req.Msg.CartID)
	if err != nil {
		return nil, err
	}

	orders, err := s.Place(ctx, cart, req.Msg.SessionID)
	if err != nil {
		slog.Error("PlaceSplitOrders failed", "cart_id", cart.ID, "error", err)
		return nil, toConnectError(err)
	}

	resp := &splitapi.PlaceSplitOrdersResponse{Orders: make([]*splitapi.Order, len(orders))}
	for i, o := range orders {
		resp.Orders[i] = toOrder(o)
	}
	return connect.NewResponse(resp), nil
}

// toConnectError maps domain and storage errors to Connect codes.
func toConnectError(err error) error {
	var connectErr *connect.Error
	switch {
	case errors.As(err, &connectErr):
		return err
	case errors.Is(err, storage.ErrNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, ErrSessionMissing):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.Is(err, ErrNothingToSplit),
		errors.Is(err, quote.ErrMissingAddress),
		errors.Is(err, quote.ErrGuestEmailUnavailable):
		return connect.NewError(connect.CodeFailedPrecondition, err)
	case errors.Is(err, context.Canceled):
		return connect.NewError(connect.CodeCanceled, err)
	case errors.Is(err, context.DeadlineExceeded):
		return connect.NewError(connect.CodeDeadlineExceeded, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}

func originalTotals(p *Prepared) *splitapi.Totals {
	t := &splitapi.Totals{}
	for _, split := range p.Splits {
		t.Subtotal += split.Totals.Subtotal
		t.Tax += split.Totals.Tax
		t.Discount += split.Totals.Discount
	}
	if ship := p.Original.ShippingAddress(); ship != nil && ship.ShippingAmount > 0 {
		t.Shipping = ship.ShippingAmount
	}
	t.GrandTotal = t.Subtotal + t.Shipping + t.Tax - t.Discount
	return t
}

func toTotals(t models.Totals) *splitapi.Totals {
	return &splitapi.Totals{
		Subtotal:   t.Subtotal,
		Tax:        t.Tax,
		Discount:   t.Discount,
		Shipping:   t.Shipping,
		GrandTotal: t.GrandTotal,
	}
}

func toItems(items []models.LineItem) []*splitapi.Item {
	out := make([]*splitapi.Item, len(items))
	for i, item := range items {
		out[i] = &splitapi.Item{
			SKU:            item.SKU,
			Name:           item.Name,
			Price:          item.Price,
			Qty:            item.Qty,
			TaxAmount:      item.TaxAmount,
			DiscountAmount: item.DiscountAmount,
			IsVirtual:      item.IsVirtual,
		}
	}
	return out
}

func toSplitCart(split *models.Cart) *splitapi.SplitCart {
	sc := &splitapi.SplitCart{
		CustomerID:    split.Customer.ID,
		CustomerEmail: split.Customer.Email,
		IsGuest:       split.Customer.IsGuest,
		Items:         toItems(split.Items),
		Totals:        toTotals(split.Totals),
	}
	if split.Payment != nil {
		sc.PaymentMethod = split.Payment.Method
	}
	return sc
}

func toOrder(o *models.Order) *splitapi.Order {
	return &splitapi.Order{
		OrderID:     o.ID,
		IncrementID: o.IncrementID,
		CartID:      o.CartID,
		Status:      string(o.Status),
		Items:       toItems(o.Items),
		Totals:      toTotals(o.Totals),
	}
}
