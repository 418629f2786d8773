package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/splitorder/internal/models"
	"github.com/mmynk/splitorder/internal/storage"
)

// incrementIDFormat renders the order sequence as a human-readable order number.
const incrementIDFormat = "%09d"

// CreateOrder saves split and places a pending order from it in one transaction.
func (s *SQLiteStore) CreateOrder(ctx context.Context, split *models.Cart) (*models.Order, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := saveCart(ctx, tx, split); err != nil {
		return nil, err
	}

	var seq int64
	if err := tx.QueryRowContext(ctx, "SELECT COALESCE(MAX(seq), 0) + 1 FROM orders").Scan(&seq); err != nil {
		return nil, fmt.Errorf("failed to allocate increment id: %w", err)
	}

	order := &models.Order{
		ID:          uuid.New().String(),
		IncrementID: fmt.Sprintf(incrementIDFormat, seq),
		CartID:      split.ID,
		StoreID:     split.StoreID,
		Status:      models.OrderStatusPending,
		Customer:    split.Customer,
		Items:       append([]models.LineItem(nil), split.Items...),
		Totals:      split.Totals,
		CreatedAt:   time.Now().Unix(),
	}
	if split.Payment != nil {
		order.PaymentMethod = split.Payment.Method
	}

	totals, err := jsonText(order.Totals)
	if err != nil {
		return nil, fmt.Errorf("failed to encode order totals: %w", err)
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO orders (id, seq, increment_id, cart_id, store_id, status, customer_id, customer_email,
		 customer_group_id, customer_is_guest, payment_method, totals, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		order.ID, seq, order.IncrementID, order.CartID, order.StoreID, string(order.Status),
		nullString(order.Customer.ID), order.Customer.Email, order.Customer.GroupID,
		boolInt(order.Customer.IsGuest), order.PaymentMethod, totals, order.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert order: %w", err)
	}

	for i, item := range order.Items {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO order_items (order_id, position, sku, name, price, qty, tax_amount, discount_amount, is_virtual)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			order.ID, i, item.SKU, item.Name, item.Price, item.Qty, item.TaxAmount, item.DiscountAmount,
			boolInt(item.IsVirtual),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to insert order item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return order, nil
}

// GetOrder retrieves an order by ID, including its items.
func (s *SQLiteStore) GetOrder(ctx context.Context, orderID string) (*models.Order, error) {
	order := &models.Order{}
	var (
		status     string
		customerID sql.NullString
		isGuest    int
		totals     sql.NullString
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, increment_id, cart_id, store_id, status, customer_id, customer_email, customer_group_id,
		 customer_is_guest, payment_method, totals, created_at
		 FROM orders WHERE id = ?`,
		orderID,
	).Scan(&order.ID, &order.IncrementID, &order.CartID, &order.StoreID, &status, &customerID,
		&order.Customer.Email, &order.Customer.GroupID, &isGuest, &order.PaymentMethod, &totals, &order.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("order %s: %w", orderID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	order.Status = models.OrderStatus(status)
	order.Customer.ID = customerID.String
	order.Customer.IsGuest = isGuest == 1
	if err := scanJSON(totals, &order.Totals); err != nil {
		return nil, fmt.Errorf("failed to decode order totals: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT sku, name, price, qty, tax_amount, discount_amount, is_virtual
		 FROM order_items WHERE order_id = ? ORDER BY position`,
		orderID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get order items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		item := models.LineItem{Visible: true}
		var isVirtual int
		if err := rows.Scan(&item.SKU, &item.Name, &item.Price, &item.Qty, &item.TaxAmount,
			&item.DiscountAmount, &isVirtual); err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		item.IsVirtual = isVirtual == 1
		order.Items = append(order.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate order items: %w", err)
	}

	return order, nil
}
