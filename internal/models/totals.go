package models

// Totals is the financial breakdown of a cart, address or order.
// GrandTotal = Subtotal + Tax + Shipping - Discount.
type Totals struct {
	Subtotal       float64
	BaseSubtotal   float64
	Tax            float64
	BaseTax        float64
	Discount       float64
	Shipping       float64
	GrandTotal     float64
	BaseGrandTotal float64
}
