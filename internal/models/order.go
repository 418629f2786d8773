package models

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusCanceled   OrderStatus = "canceled"
)

// Order is a placed split cart.
type Order struct {
	// ID is the unique identifier for the order (UUID format).
	ID string

	// IncrementID is the human-readable order number, e.g. "000000042".
	IncrementID string

	// CartID is the split cart this order was placed from.
	CartID string

	StoreID       int64
	Status        OrderStatus
	Customer      Customer
	PaymentMethod string
	Items         []LineItem
	Totals        Totals

	// CreatedAt is the Unix timestamp when the order was placed.
	CreatedAt int64
}
