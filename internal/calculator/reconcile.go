package calculator

import (
	"math"

	"github.com/mmynk/splitorder/internal/models"
)

// Tolerance is the float drift below which two amounts are considered equal.
const Tolerance = 1e-9

// Drift is the difference between the original cart and the sum of its splits.
// Positive values mean the splits carry less than the original.
type Drift struct {
	Subtotal float64
	Tax      float64
	Discount float64
	Shipping float64
}

// Balanced reports whether every component is within Tolerance.
func (d Drift) Balanced() bool {
	return math.Abs(d.Subtotal) <= Tolerance &&
		math.Abs(d.Tax) <= Tolerance &&
		math.Abs(d.Discount) <= Tolerance &&
		math.Abs(d.Shipping) <= Tolerance
}

// Reconcile compares the original cart's sums and shipping against the split totals.
//
// Algorithm:
// - Aggregate subtotal, tax, discount and shipping across all splits
// - Subtract each aggregate from the original amount
//
// Shipping drift is expected when a split holds virtual items, since that
// split's share is not handed to the others.
func Reconcile(original Sums, originalShipping float64, splits []models.Totals) Drift {
	var got models.Totals
	for _, t := range splits {
		got.Subtotal += t.Subtotal
		got.Tax += t.Tax
		got.Discount += t.Discount
		got.Shipping += t.Shipping
	}

	return Drift{
		Subtotal: original.Subtotal - got.Subtotal,
		Tax:      original.Tax - got.Tax,
		Discount: original.Discount - got.Discount,
		Shipping: math.Max(originalShipping, 0) - got.Shipping,
	}
}
