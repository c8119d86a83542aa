package repository

import (
	"context"
	"database/sql"
)

// Schema bootstrap. The products table is owned by catalog management; it
// is created here as well so a fresh development database can serve
// placements immediately.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS products (
		id UUID PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		price DECIMAL(10,2) NOT NULL,
		stock INTEGER NOT NULL DEFAULT 0 CHECK (stock >= 0)
	)`,
	`CREATE TABLE IF NOT EXISTS orders (
		id UUID PRIMARY KEY,
		buyer_id UUID NOT NULL,
		total_price DECIMAL(10,2) NOT NULL,
		tax_price DECIMAL(10,2) NOT NULL,
		shipping_price DECIMAL(10,2) NOT NULL,
		payment_method VARCHAR(20) DEFAULT 'COD',
		payment_info VARCHAR(255),
		order_status VARCHAR(50) DEFAULT 'Processing',
		paid_at TIMESTAMP,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS order_items (
		id UUID PRIMARY KEY,
		order_id UUID NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
		product_id UUID NOT NULL,
		quantity INTEGER NOT NULL CHECK (quantity > 0),
		price DECIMAL(10,2) NOT NULL,
		image VARCHAR(512),
		title VARCHAR(255)
	)`,
	`CREATE TABLE IF NOT EXISTS shipping_info (
		order_id UUID PRIMARY KEY REFERENCES orders(id) ON DELETE CASCADE,
		full_name VARCHAR(255) NOT NULL,
		state VARCHAR(100) NOT NULL,
		city VARCHAR(100) NOT NULL,
		country VARCHAR(100) NOT NULL,
		address VARCHAR(512) NOT NULL,
		pincode VARCHAR(20) NOT NULL,
		phone VARCHAR(30) NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_orders_buyer_id ON orders (buyer_id)`,
	`CREATE INDEX IF NOT EXISTS idx_order_items_order_id ON order_items (order_id)`,
}

// EnsureSchema creates the order tables if they do not exist yet.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
