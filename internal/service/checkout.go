package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mmynk/splitorder/internal/calculator"
	"github.com/mmynk/splitorder/internal/events"
	"github.com/mmynk/splitorder/internal/metrics"
	"github.com/mmynk/splitorder/internal/models"
	"github.com/mmynk/splitorder/internal/quote"
)

var (
	ErrNothingToSplit = errors.New("cart has no visible items to split")
	ErrCartNotOwned   = errors.New("cart belongs to another customer")
	ErrSessionMissing = errors.New("session_id is required")
)

// Prepared is an original cart together with the splits cut from it.
type Prepared struct {
	Original *models.Cart
	Splits   []*models.Cart
	Drift    calculator.Drift
}

// Prepare cuts cart into two split carts ready to be placed. Nothing is persisted.
// Both splits always exist so shipping is shared by two; with a single visible
// item the second split carries no items.
func (s *SplitService) Prepare(cart *models.Cart) (*Prepared, error) {
	first, second := quote.NormalizeItems(cart)
	groups := [][]models.LineItem{first, second}
	if len(first) == 0 && len(second) == 0 {
		s.metrics.SplitFailures.WithLabelValues(metrics.StageValidate).Inc()
		return nil, ErrNothingToSplit
	}

	addrs, err := quote.CollectAddresses(cart)
	if err != nil {
		s.metrics.SplitFailures.WithLabelValues(metrics.StageValidate).Inc()
		return nil, fmt.Errorf("collect addresses: %w", err)
	}

	splits := make([]*models.Cart, len(groups))
	for i := range splits {
		splits[i] = &models.Cart{}
	}

	for i, split := range splits {
		if err := quote.SetCustomerData(cart, split); err != nil {
			s.metrics.SplitFailures.WithLabelValues(metrics.StageValidate).Inc()
			return nil, fmt.Errorf("set customer data: %w", err)
		}
		if err := quote.Populate(splits, split, groups[i], addrs, cart.Payment); err != nil {
			s.metrics.SplitFailures.WithLabelValues(metrics.StagePrepare).Inc()
			return nil, fmt.Errorf("populate split %d: %w", i+1, err)
		}
		slog.Debug("Split prepared",
			"cart_id", cart.ID,
			"split", i+1,
			"items", len(split.Items),
			"subtotal", split.Totals.Subtotal,
			"shipping", split.Totals.Shipping,
			"grand_total", split.Totals.GrandTotal,
		)
	}

	totals := make([]models.Totals, len(splits))
	for i, split := range splits {
		totals[i] = split.Totals
	}
	drift := calculator.Reconcile(calculator.SumItems(cart.VisibleItems()), addrs.Shipping.ShippingAmount, totals)
	if !drift.Balanced() {
		s.metrics.ShippingDrift.Inc()
		slog.Warn("Split totals do not add up to the original cart",
			"cart_id", cart.ID,
			"subtotal_drift", drift.Subtotal,
			"tax_drift", drift.Tax,
			"discount_drift", drift.Discount,
			"shipping_drift", drift.Shipping,
		)
	}

	s.metrics.SplitsPrepared.WithLabelValues(string(cart.CheckoutMethod)).Inc()
	return &Prepared{Original: cart, Splits: splits, Drift: drift}, nil
}

// Place prepares cart, places one order per split, and records the result on the
// checkout session identified by sessionID. A split without items gets no order.
// Collaborator errors are returned wrapped.
func (s *SplitService) Place(ctx context.Context, cart *models.Cart, sessionID string) ([]*models.Order, error) {
	if sessionID == "" {
		return nil, ErrSessionMissing
	}

	prepared, err := s.Prepare(cart)
	if err != nil {
		return nil, err
	}

	var (
		orders    = make([]*models.Order, 0, len(prepared.Splits))
		orderIDs  = make([]string, 0, len(prepared.Splits))
		lastSplit *models.Cart
	)
	for i, split := range prepared.Splits {
		if len(split.Items) == 0 {
			slog.Debug("Skipping empty split", "cart_id", cart.ID, "split", i+1)
			continue
		}
		order, err := s.orders.CreateOrder(ctx, split)
		if err != nil {
			s.metrics.SplitFailures.WithLabelValues(metrics.StageOrder).Inc()
			return nil, fmt.Errorf("create order for split %d: %w", i+1, err)
		}
		s.metrics.OrdersPlaced.Inc()
		s.metrics.SplitGrandTotal.Observe(order.Totals.GrandTotal)
		orders = append(orders, order)
		orderIDs = append(orderIDs, order.ID)
		lastSplit = split
	}

	lastOrder := orders[len(orders)-1]
	if err := s.recorder.Record(ctx, s.sessions.ForSession(sessionID), lastSplit, lastOrder, orderIDs); err != nil {
		s.metrics.SplitFailures.WithLabelValues(metrics.StageSession).Inc()
		return nil, fmt.Errorf("record session: %w", err)
	}

	slog.Info("Split orders placed",
		"cart_id", cart.ID,
		"session_id", sessionID,
		"order_ids", orderIDs,
	)

	s.publishPlaced(ctx, cart, orders)
	return orders, nil
}

// publishPlaced announces the placed orders. Orders already exist at this point,
// so a publish failure is logged rather than returned.
func (s *SplitService) publishPlaced(ctx context.Context, cart *models.Cart, orders []*models.Order) {
	evt := events.SplitOrdersPlaced{
		CartID:         cart.ID,
		CheckoutMethod: string(cart.CheckoutMethod),
		CustomerID:     orders[0].Customer.ID,
		CustomerEmail:  orders[0].Customer.Email,
	}
	for _, o := range orders {
		evt.Orders = append(evt.Orders, events.PlacedOrderEvt{
			OrderID:     o.ID,
			IncrementID: o.IncrementID,
			CartID:      o.CartID,
			ItemCount:   len(o.Items),
			Subtotal:    o.Totals.Subtotal,
			Shipping:    o.Totals.Shipping,
			GrandTotal:  o.Totals.GrandTotal,
		})
	}

	if err := s.publisher.PublishJSON(ctx, events.RKSplitOrdersPlaced, evt); err != nil {
		s.metrics.SplitFailures.WithLabelValues(metrics.StagePublish).Inc()
		slog.Error("Failed to publish split orders event", "cart_id", cart.ID, "error", err)
	}
}
