// Package events publishes checkout domain events.
package events

import "context"

// Routing keys published by the split checkout.
const (
	RKSplitOrdersPlaced = "order.split.placed"
)

// Publisher sends a JSON-encoded event under a routing key.
type Publisher interface {
	PublishJSON(ctx context.Context, routingKey string, v any) error
}

// SplitOrdersPlaced is published once both split orders exist.
type SplitOrdersPlaced struct {
	CartID         string           `json:"cart_id"`
	CheckoutMethod string           `json:"checkout_method"`
	CustomerID     string           `json:"customer_id,omitempty"`
	CustomerEmail  string           `json:"customer_email,omitempty"`
	Orders         []PlacedOrderEvt `json:"orders"`
}

// PlacedOrderEvt describes one order inside SplitOrdersPlaced.
type PlacedOrderEvt struct {
	OrderID     string  `json:"order_id"`
	IncrementID string  `json:"increment_id"`
	CartID      string  `json:"cart_id"`
	ItemCount   int     `json:"item_count"`
	Subtotal    float64 `json:"subtotal"`
	Shipping    float64 `json:"shipping"`
	GrandTotal  float64 `json:"grand_total"`
}

// Nop discards every event.
type Nop struct{}

func (Nop) PublishJSON(context.Context, string, any) error { return nil }
