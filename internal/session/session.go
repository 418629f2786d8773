// Package session records the outcome of a split checkout onto the caller's checkout session.
package session

import (
	"context"
	"fmt"

	"github.com/mmynk/splitorder/internal/models"
)

// Store is the checkout session a Recorder writes to.
// Implementations return their own errors; Recorder passes them through.
type Store interface {
	SetLastQuoteID(ctx context.Context, cartID string) error
	SetLastSuccessQuoteID(ctx context.Context, cartID string) error
	SetLastOrderID(ctx context.Context, orderID string) error
	SetLastRealOrderID(ctx context.Context, incrementID string) error
	SetLastOrderStatus(ctx context.Context, status models.OrderStatus) error
	SetOrderIDs(ctx context.Context, orderIDs []string) error
}

// Provider resolves the Store for a checkout session ID.
type Provider interface {
	ForSession(sessionID string) Store
}

// Recorder writes the last placed split and order onto a session Store.
type Recorder struct{}

// NewRecorder creates a Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Record stores the split cart ID, the order's IDs and status, and every order ID
// placed in this checkout. It stops at the first store error.
func (r *Recorder) Record(ctx context.Context, store Store, split *models.Cart, order *models.Order, orderIDs []string) error {
	if split == nil || order == nil {
		return fmt.Errorf("record session: split and order are required")
	}

	steps := []func() error{
		func() error { return store.SetLastQuoteID(ctx, split.ID) },
		func() error { return store.SetLastSuccessQuoteID(ctx, split.ID) },
		func() error { return store.SetLastOrderID(ctx, order.ID) },
		func() error { return store.SetLastRealOrderID(ctx, order.IncrementID) },
		func() error { return store.SetLastOrderStatus(ctx, order.Status) },
		func() error { return store.SetOrderIDs(ctx, orderIDs) },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}
	return nil
}
