package calculator

import "github.com/mmynk/splitorder/internal/models"

// Partition splits items into two ordered halves.
// The first half gets round(n/2) items, rounding half up, so an odd count
// puts the extra item in the first half: 1 -> (1,0), 3 -> (2,1).
func Partition(items []models.LineItem) (first, second []models.LineItem) {
	mid := Midpoint(len(items))
	first = append([]models.LineItem{}, items[:mid]...)
	second = append([]models.LineItem{}, items[mid:]...)
	return first, second
}

// Midpoint returns round(n/2) with halves rounded up.
func Midpoint(n int) int {
	if n <= 0 {
		return 0
	}
	return (n + 1) / 2
}
