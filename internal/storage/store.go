// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/splitorder/internal/models"
)

// ErrNotFound is returned when a cart or order does not exist.
var ErrNotFound = errors.New("not found")

// CartStore loads and saves carts.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the service layer.
type CartStore interface {
	// SaveCart inserts or replaces a cart with its items, addresses and payment.
	// Empty IDs on the cart and its records are generated by the store.
	SaveCart(ctx context.Context, cart *models.Cart) error

	// GetCart retrieves a fully loaded cart by ID.
	// Returns an error wrapping ErrNotFound if the cart does not exist.
	GetCart(ctx context.Context, cartID string) (*models.Cart, error)
}

// OrderStore places orders from split carts.
type OrderStore interface {
	// CreateOrder persists split and an order placed from it.
	// split.ID is populated when empty; the returned order carries its ID,
	// increment ID and status.
	CreateOrder(ctx context.Context, split *models.Cart) (*models.Order, error)

	// GetOrder retrieves an order by ID.
	// Returns an error wrapping ErrNotFound if the order does not exist.
	GetOrder(ctx context.Context, orderID string) (*models.Order, error)
}

// Store combines cart and order storage.
type Store interface {
	CartStore
	OrderStore

	// Close releases any resources held by the store.
	Close() error
}
