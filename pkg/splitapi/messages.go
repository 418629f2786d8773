// Package splitapi defines the SplitService RPC contract: messages, procedures,
// a JSON codec, and Connect handler and client constructors.
//
// The messages mirror a splitorder.v1 .proto contract and are written by hand in
// place of protoc-gen-connect-go output: handler and client constructors follow the
// generated protoconnect layout, field names follow proto JSON names, and request
// messages carry nil-safe Get accessors like generated code. Swapping in generated
// types later keeps procedure paths and the wire shape unchanged.
package splitapi

// PreviewSplitRequest asks how a cart would be split without placing orders.
type PreviewSplitRequest struct {
	CartID string `json:"cart_id"`
}

func (r *PreviewSplitRequest) GetCartID() string {
	if r == nil {
		return ""
	}
	return r.CartID
}

// PreviewSplitResponse holds the two prepared split carts.
type PreviewSplitResponse struct {
	CartID   string       `json:"cart_id"`
	Original *Totals      `json:"original"`
	Splits   []*SplitCart `json:"splits"`
}

// PlaceSplitOrdersRequest splits a cart and places one order per split.
type PlaceSplitOrdersRequest struct {
	CartID string `json:"cart_id"`

	// SessionID identifies the checkout session that records the placed orders.
	SessionID string `json:"session_id"`
}

func (r *PlaceSplitOrdersRequest) GetCartID() string {
	if r == nil {
		return ""
	}
	return r.CartID
}

func (r *PlaceSplitOrdersRequest) GetSessionID() string {
	if r == nil {
		return ""
	}
	return r.SessionID
}

// PlaceSplitOrdersResponse lists the placed orders in split order.
type PlaceSplitOrdersResponse struct {
	Orders []*Order `json:"orders"`
}

// SplitCart is one prepared split.
type SplitCart struct {
	CustomerID    string  `json:"customer_id,omitempty"`
	CustomerEmail string  `json:"customer_email,omitempty"`
	IsGuest       bool    `json:"is_guest"`
	PaymentMethod string  `json:"payment_method,omitempty"`
	Items         []*Item `json:"items"`
	Totals        *Totals `json:"totals"`
}

// Order is a placed split order.
type Order struct {
	OrderID     string  `json:"order_id"`
	IncrementID string  `json:"increment_id"`
	CartID      string  `json:"cart_id"`
	Status      string  `json:"status"`
	Items       []*Item `json:"items"`
	Totals      *Totals `json:"totals"`
}

// Item is a line item on a split.
type Item struct {
	SKU            string  `json:"sku"`
	Name           string  `json:"name"`
	Price          float64 `json:"price"`
	Qty            float64 `json:"qty"`
	TaxAmount      float64 `json:"tax_amount"`
	DiscountAmount float64 `json:"discount_amount"`
	IsVirtual      bool    `json:"is_virtual"`
}

// Totals is a financial breakdown.
type Totals struct {
	Subtotal   float64 `json:"subtotal"`
	Tax        float64 `json:"tax"`
	Discount   float64 `json:"discount"`
	Shipping   float64 `json:"shipping"`
	GrandTotal float64 `json:"grand_total"`
}
