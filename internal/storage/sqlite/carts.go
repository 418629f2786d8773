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

// SaveCart persists a cart, replacing any stored version with the same ID.
func (s *SQLiteStore) SaveCart(ctx context.Context, cart *models.Cart) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := saveCart(ctx, tx, cart); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// saveCart writes cart and its child records inside tx.
// Missing IDs are generated and ownership fields point at the cart.
func saveCart(ctx context.Context, tx *sql.Tx, cart *models.Cart) error {
	if cart.ID == "" {
		cart.ID = uuid.New().String()
	}
	if cart.CreatedAt == 0 {
		cart.CreatedAt = time.Now().Unix()
	}

	// Children cascade with the cart row
	if _, err := tx.ExecContext(ctx, "DELETE FROM carts WHERE id = ?", cart.ID); err != nil {
		return fmt.Errorf("failed to replace cart: %w", err)
	}

	totals, err := jsonText(cart.Totals)
	if err != nil {
		return fmt.Errorf("failed to encode cart totals: %w", err)
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO carts (id, store_id, checkout_method, customer_id, customer_email, customer_group_id,
		 customer_firstname, customer_lastname, customer_is_guest, totals, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		cart.ID, cart.StoreID, string(cart.CheckoutMethod), nullString(cart.Customer.ID),
		cart.Customer.Email, cart.Customer.GroupID, cart.Customer.Firstname, cart.Customer.Lastname,
		boolInt(cart.Customer.IsGuest), totals, cart.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert cart: %w", err)
	}

	for i := range cart.Items {
		item := &cart.Items[i]
		if item.ID == "" {
			item.ID = uuid.New().String()
		}
		item.CartID = cart.ID

		_, err = tx.ExecContext(ctx,
			`INSERT INTO cart_items (id, cart_id, position, sku, name, price, qty, tax_amount,
			 discount_amount, is_virtual, visible) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			item.ID, cart.ID, i, item.SKU, item.Name, item.Price, item.Qty, item.TaxAmount,
			item.DiscountAmount, boolInt(item.IsVirtual), boolInt(item.Visible),
		)
		if err != nil {
			return fmt.Errorf("failed to insert cart item: %w", err)
		}
	}

	for i, addr := range cart.Addresses {
		if addr == nil {
			continue
		}
		if err := insertAddress(ctx, tx, cart.ID, i, addr); err != nil {
			return err
		}
	}

	if p := cart.Payment; p != nil {
		if p.ID == "" {
			p.ID = uuid.New().String()
		}
		p.CartID = cart.ID

		data, err := jsonText(p.AdditionalData)
		if err != nil {
			return fmt.Errorf("failed to encode payment data: %w", err)
		}
		_, err = tx.ExecContext(ctx,
			"INSERT INTO cart_payments (id, cart_id, method, additional_data) VALUES (?, ?, ?, ?)",
			p.ID, cart.ID, p.Method, data,
		)
		if err != nil {
			return fmt.Errorf("failed to insert payment: %w", err)
		}
	}

	return nil
}

func insertAddress(ctx context.Context, tx *sql.Tx, cartID string, position int, addr *models.Address) error {
	if addr.ID == "" {
		addr.ID = uuid.New().String()
	}
	addr.CartID = cartID

	extra, err := jsonText(addr.Extra)
	if err != nil {
		return fmt.Errorf("failed to encode address fields: %w", err)
	}
	totals, err := jsonText(addr.Totals)
	if err != nil {
		return fmt.Errorf("failed to encode address totals: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO cart_addresses (id, cart_id, position, address_type, email, firstname, lastname,
		 street, city, region, postcode, country_id, telephone, shipping_method, shipping_amount, extra, totals)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		addr.ID, cartID, position, string(addr.Type), addr.Email, addr.Firstname, addr.Lastname,
		addr.Street, addr.City, addr.Region, addr.Postcode, addr.CountryID, addr.Telephone,
		addr.ShippingMethod, addr.ShippingAmount, extra, totals,
	)
	if err != nil {
		return fmt.Errorf("failed to insert address: %w", err)
	}
	return nil
}

// GetCart retrieves a cart by ID, including items, addresses and payment.
func (s *SQLiteStore) GetCart(ctx context.Context, cartID string) (*models.Cart, error) {
	cart := &models.Cart{}
	var (
		method     string
		customerID sql.NullString
		isGuest    int
		totals     sql.NullString
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, store_id, checkout_method, customer_id, customer_email, customer_group_id,
		 customer_firstname, customer_lastname, customer_is_guest, totals, created_at
		 FROM carts WHERE id = ?`,
		cartID,
	).Scan(&cart.ID, &cart.StoreID, &method, &customerID, &cart.Customer.Email, &cart.Customer.GroupID,
		&cart.Customer.Firstname, &cart.Customer.Lastname, &isGuest, &totals, &cart.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("cart %s: %w", cartID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}
	cart.CheckoutMethod = models.CheckoutMethod(method)
	cart.Customer.ID = customerID.String
	cart.Customer.IsGuest = isGuest == 1
	if err := scanJSON(totals, &cart.Totals); err != nil {
		return nil, fmt.Errorf("failed to decode cart totals: %w", err)
	}

	if cart.Items, err = s.getCartItems(ctx, cartID); err != nil {
		return nil, err
	}
	if cart.Addresses, err = s.getCartAddresses(ctx, cartID); err != nil {
		return nil, err
	}
	if cart.Payment, err = s.getCartPayment(ctx, cartID); err != nil {
		return nil, err
	}

	return cart, nil
}

func (s *SQLiteStore) getCartItems(ctx context.Context, cartID string) ([]models.LineItem, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, cart_id, sku, name, price, qty, tax_amount, discount_amount, is_virtual, visible
		 FROM cart_items WHERE cart_id = ? ORDER BY position`,
		cartID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get cart items: %w", err)
	}
	defer rows.Close()

	var items []models.LineItem
	for rows.Next() {
		var item models.LineItem
		var isVirtual, visible int
		if err := rows.Scan(&item.ID, &item.CartID, &item.SKU, &item.Name, &item.Price, &item.Qty,
			&item.TaxAmount, &item.DiscountAmount, &isVirtual, &visible); err != nil {
			return nil, fmt.Errorf("failed to scan cart item: %w", err)
		}
		item.IsVirtual = isVirtual == 1
		item.Visible = visible == 1
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate cart items: %w", err)
	}
	return items, nil
}

func (s *SQLiteStore) getCartAddresses(ctx context.Context, cartID string) ([]*models.Address, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, cart_id, address_type, email, firstname, lastname, street, city, region, postcode,
		 country_id, telephone, shipping_method, shipping_amount, extra, totals
		 FROM cart_addresses WHERE cart_id = ? ORDER BY position`,
		cartID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get cart addresses: %w", err)
	}
	defer rows.Close()

	var addresses []*models.Address
	for rows.Next() {
		addr := &models.Address{}
		var addrType string
		var extra, totals sql.NullString
		if err := rows.Scan(&addr.ID, &addr.CartID, &addrType, &addr.Email, &addr.Firstname, &addr.Lastname,
			&addr.Street, &addr.City, &addr.Region, &addr.Postcode, &addr.CountryID, &addr.Telephone,
			&addr.ShippingMethod, &addr.ShippingAmount, &extra, &totals); err != nil {
			return nil, fmt.Errorf("failed to scan address: %w", err)
		}
		addr.Type = models.AddressType(addrType)
		if err := scanJSON(extra, &addr.Extra); err != nil {
			return nil, fmt.Errorf("failed to decode address fields: %w", err)
		}
		if err := scanJSON(totals, &addr.Totals); err != nil {
			return nil, fmt.Errorf("failed to decode address totals: %w", err)
		}
		addresses = append(addresses, addr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate addresses: %w", err)
	}
	return addresses, nil
}

func (s *SQLiteStore) getCartPayment(ctx context.Context, cartID string) (*models.Payment, error) {
	p := &models.Payment{}
	var data sql.NullString
	err := s.db.QueryRowContext(ctx,
		"SELECT id, cart_id, method, additional_data FROM cart_payments WHERE cart_id = ?",
		cartID,
	).Scan(&p.ID, &p.CartID, &p.Method, &data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}
	if err := scanJSON(data, &p.AdditionalData); err != nil {
		return nil, fmt.Errorf("failed to decode payment data: %w", err)
	}
	return p, nil
}
