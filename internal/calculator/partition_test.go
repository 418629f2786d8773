package calculator

import (
	"fmt"
	"testing"

	"github.com/mmynk/splitorder/internal/models"
)

func makeItems(n int) []models.LineItem {
	items := make([]models.LineItem, n)
	for i := range items {
		items[i] = models.LineItem{SKU: fmt.Sprintf("sku-%d", i+1), Price: float64(i + 1), Qty: 1, Visible: true}
	}
	return items
}

func TestPartition(t *testing.T) {
	tests := []struct {
		name       string
		n          int
		wantFirst  int
		wantSecond int
	}{
		{name: "empty cart", n: 0, wantFirst: 0, wantSecond: 0},
		{name: "single item rounds half up", n: 1, wantFirst: 1, wantSecond: 0},
		{name: "two items", n: 2, wantFirst: 1, wantSecond: 1},
		{name: "three items", n: 3, wantFirst: 2, wantSecond: 1},
		{name: "four items", n: 4, wantFirst: 2, wantSecond: 2},
		{name: "seven items", n: 7, wantFirst: 4, wantSecond: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items := makeItems(tt.n)
			first, second := Partition(items)

			if len(first) != tt.wantFirst || len(second) != tt.wantSecond {
				t.Fatalf("Partition(%d) = (%d,%d), want (%d,%d)",
					tt.n, len(first), len(second), tt.wantFirst, tt.wantSecond)
			}

			// Concatenating both halves must rebuild the original sequence
			joined := append(append([]models.LineItem{}, first...), second...)
			if len(joined) != len(items) {
				t.Fatalf("joined length = %d, want %d", len(joined), len(items))
			}
			for i := range items {
				if joined[i].SKU != items[i].SKU {
					t.Errorf("item %d = %s, want %s", i, joined[i].SKU, items[i].SKU)
				}
			}
		})
	}
}

func TestPartition_ReturnsCopies(t *testing.T) {
	items := makeItems(2)
	first, _ := Partition(items)
	first[0].SKU = "changed"

	if items[0].SKU != "sku-1" {
		t.Errorf("mutating a half changed the input: %s", items[0].SKU)
	}
}

func TestMidpoint(t *testing.T) {
	want := map[int]int{-1: 0, 0: 0, 1: 1, 2: 1, 3: 2, 4: 2, 5: 3, 10: 5}
	for n, mid := range want {
		if got := Midpoint(n); got != mid {
			t.Errorf("Midpoint(%d) = %d, want %d", n, got, mid)
		}
	}
}
