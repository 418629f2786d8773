package calculator

import "github.com/mmynk/splitorder/internal/models"

// Sums holds the item-level amounts accumulated for one split.
type Sums struct {
	Subtotal float64 // sum of price × qty
	Tax      float64
	Discount float64
}

// SumItems accumulates tax, discount and price × qty across items.
// Stored row totals are ignored so discounts applied only on the original cart
// do not leak into the subtotal.
func SumItems(items []models.LineItem) Sums {
	var s Sums
	for _, item := range items {
		s.Tax += item.TaxAmount
		s.Discount += item.DiscountAmount
		s.Subtotal += item.Price * item.Qty
	}
	return s
}

// ShippingShare returns the shipping amount one split carries.
// A split holding any virtual item carries no shipping. Otherwise the original
// shipping total is divided evenly by the number of splits, whether or not the
// other splits are virtual.
func ShippingShare(originalShipping float64, splitCount int, virtual bool) float64 {
	if virtual || splitCount <= 0 || originalShipping <= 0 {
		return 0
	}
	return originalShipping / float64(splitCount)
}

// GrandTotal computes subtotal + shipping + tax - discount.
func GrandTotal(s Sums, shipping float64) float64 {
	return (s.Subtotal + shipping + s.Tax) - s.Discount
}

// Recollect builds the totals record for a split from its item sums and shipping share.
func Recollect(s Sums, shipping float64) models.Totals {
	grandTotal := GrandTotal(s, shipping)
	return models.Totals{
		Subtotal:       s.Subtotal,
		BaseSubtotal:   s.Subtotal,
		Tax:            s.Tax,
		BaseTax:        s.Tax,
		Discount:       s.Discount,
		Shipping:       shipping,
		GrandTotal:     grandTotal,
		BaseGrandTotal: grandTotal,
	}
}
