package calculator

import (
	"math"
	"testing"

	"github.com/mmynk/splitorder/internal/models"
)

func TestReconcile(t *testing.T) {
	items := []models.LineItem{
		{Price: 10, Qty: 1, TaxAmount: 1},
		{Price: 20, Qty: 1, TaxAmount: 1},
		{Price: 30, Qty: 1, TaxAmount: 1},
		{Price: 40, Qty: 1, TaxAmount: 1},
	}
	original := SumItems(items)

	t.Run("physical splits conserve everything", func(t *testing.T) {
		first, second := Partition(items)
		splits := []models.Totals{
			Recollect(SumItems(first), ShippingShare(8, 2, false)),
			Recollect(SumItems(second), ShippingShare(8, 2, false)),
		}

		drift := Reconcile(original, 8, splits)
		if !drift.Balanced() {
			t.Errorf("expected balanced drift, got %+v", drift)
		}
	})

	t.Run("virtual split leaves its shipping share unclaimed", func(t *testing.T) {
		first, second := Partition(items)
		splits := []models.Totals{
			Recollect(SumItems(first), ShippingShare(10, 2, true)),
			Recollect(SumItems(second), ShippingShare(10, 2, false)),
		}

		drift := Reconcile(original, 10, splits)
		if drift.Balanced() {
			t.Error("expected shipping drift")
		}
		if math.Abs(drift.Shipping-5) > 1e-9 {
			t.Errorf("shipping drift = %v, want 5", drift.Shipping)
		}
		if math.Abs(drift.Subtotal) > 1e-9 || math.Abs(drift.Tax) > 1e-9 {
			t.Errorf("unexpected item drift: %+v", drift)
		}
	})
}
