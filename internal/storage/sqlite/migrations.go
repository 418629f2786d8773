package sqlite

import "database/sql"

// schema contains the SQL statements to set up the database schema.
// These run on startup to ensure tables exist.
// Totals and free-form maps are stored as JSON text.
const schema = `
CREATE TABLE IF NOT EXISTS carts (
    id TEXT PRIMARY KEY,
    store_id INTEGER NOT NULL,
    checkout_method TEXT NOT NULL,
    customer_id TEXT,
    customer_email TEXT NOT NULL DEFAULT '',
    customer_group_id INTEGER NOT NULL DEFAULT 0,
    customer_firstname TEXT NOT NULL DEFAULT '',
    customer_lastname TEXT NOT NULL DEFAULT '',
    customer_is_guest INTEGER NOT NULL DEFAULT 0,
    totals TEXT NOT NULL,
    created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS cart_items (
    id TEXT PRIMARY KEY,
    cart_id TEXT NOT NULL,
    position INTEGER NOT NULL,
    sku TEXT NOT NULL,
    name TEXT NOT NULL,
    price REAL NOT NULL,
    qty REAL NOT NULL,
    tax_amount REAL NOT NULL,
    discount_amount REAL NOT NULL,
    is_virtual INTEGER NOT NULL,
    visible INTEGER NOT NULL,
    FOREIGN KEY (cart_id) REFERENCES carts(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS cart_addresses (
    id TEXT PRIMARY KEY,
    cart_id TEXT NOT NULL,
    position INTEGER NOT NULL,
    address_type TEXT NOT NULL,
    email TEXT NOT NULL,
    firstname TEXT NOT NULL,
    lastname TEXT NOT NULL,
    street TEXT NOT NULL,
    city TEXT NOT NULL,
    region TEXT NOT NULL,
    postcode TEXT NOT NULL,
    country_id TEXT NOT NULL,
    telephone TEXT NOT NULL,
    shipping_method TEXT NOT NULL,
    shipping_amount REAL NOT NULL,
    extra TEXT,
    totals TEXT NOT NULL,
    FOREIGN KEY (cart_id) REFERENCES carts(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS cart_payments (
    id TEXT PRIMARY KEY,
    cart_id TEXT NOT NULL UNIQUE,
    method TEXT NOT NULL,
    additional_data TEXT,
    FOREIGN KEY (cart_id) REFERENCES carts(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS orders (
    id TEXT PRIMARY KEY,
    seq INTEGER NOT NULL UNIQUE,
    increment_id TEXT NOT NULL UNIQUE,
    cart_id TEXT NOT NULL,
    store_id INTEGER NOT NULL,
    status TEXT NOT NULL,
    customer_id TEXT,
    customer_email TEXT NOT NULL DEFAULT '',
    customer_group_id INTEGER NOT NULL DEFAULT 0,
    customer_is_guest INTEGER NOT NULL DEFAULT 0,
    payment_method TEXT NOT NULL,
    totals TEXT NOT NULL,
    created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS order_items (
    order_id TEXT NOT NULL,
    position INTEGER NOT NULL,
    sku TEXT NOT NULL,
    name TEXT NOT NULL,
    price REAL NOT NULL,
    qty REAL NOT NULL,
    tax_amount REAL NOT NULL,
    discount_amount REAL NOT NULL,
    is_virtual INTEGER NOT NULL,
    PRIMARY KEY (order_id, position),
    FOREIGN KEY (order_id) REFERENCES orders(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_cart_items_cart_id ON cart_items(cart_id);
CREATE INDEX IF NOT EXISTS idx_cart_addresses_cart_id ON cart_addresses(cart_id);
CREATE INDEX IF NOT EXISTS idx_orders_cart_id ON orders(cart_id);
`

// runMigrations executes the schema setup.
func runMigrations(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
