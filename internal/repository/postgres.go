package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/bloomkart/bloomkart-orders-service/internal/apperrors"
	"github.com/bloomkart/bloomkart-orders-service/internal/logging"
	"github.com/bloomkart/bloomkart-orders-service/internal/models"
)

// PostgresOrderRepository implements service.OrderRepository using PostgreSQL.
type PostgresOrderRepository struct {
	db     *sql.DB
	logger *logging.Logger
}

// NewPostgresOrderRepository creates a new PostgreSQL order repository.
func NewPostgresOrderRepository(db *sql.DB, logger *logging.Logger) *PostgresOrderRepository {
	return &PostgresOrderRepository{
		db:     db,
		logger: logger,
	}
}

// GetProductsByIDs returns authoritative product records for the given ids.
func (r *PostgresOrderRepository) GetProductsByIDs(ctx context.Context, ids []string) ([]*models.Product, error) {
	query := `SELECT id, name, price, stock FROM products WHERE id = ANY($1::uuid[])`

	rows, err := r.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		r.logger.Error("Failed to read products", logging.Fields{"error": err.Error()})
		return nil, err
	}
	defer rows.Close()

	products := make([]*models.Product, 0, len(ids))
	for rows.Next() {
		var p models.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Price, &p.Stock); err != nil {
			return nil, err
		}
		products = append(products, &p)
	}
	return products, rows.Err()
}

// CreateOrder writes the order header, items and shipping info and
// decrements product stock in one transaction. Stock is re-read FOR UPDATE
// inside the transaction: the pre-validation check raced against other
// placements, this one cannot.
func (r *PostgresOrderRepository) CreateOrder(ctx context.Context, order *models.Order) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	requested := make(map[string]int)
	ids := make([]string, 0, len(order.OrderItems))
	for _, item := range order.OrderItems {
		if requested[item.ProductID] == 0 {
			ids = append(ids, item.ProductID)
		}
		// Quantities for the same product are summed across the cart so
		// split lines cannot sneak past the stock check.
		requested[item.ProductID] += item.Quantity
	}

	lockQuery := `SELECT id, name, stock FROM products WHERE id = ANY($1::uuid[]) FOR UPDATE`
	rows, err := tx.QueryContext(ctx, lockQuery, pq.Array(ids))
	if err != nil {
		return r.mapTxError(err)
	}

	type lockedProduct struct {
		name  string
		stock int
	}
	locked := make(map[string]lockedProduct, len(ids))
	for rows.Next() {
		var id, name string
		var stock int
		if err := rows.Scan(&id, &name, &stock); err != nil {
			rows.Close()
			return err
		}
		locked[id] = lockedProduct{name: name, stock: stock}
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return err
	}
	rows.Close()

	for _, id := range ids {
		p, ok := locked[id]
		if !ok {
			return apperrors.NewNotFoundError(fmt.Sprintf("product not found: %s", id))
		}
		if p.stock < requested[id] {
			return apperrors.NewInsufficientStockError(p.name, p.stock, requested[id])
		}
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO orders
			(id, buyer_id, total_price, tax_price, shipping_price,
			 payment_method, payment_info, order_status, paid_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`,
		order.ID,
		order.BuyerID,
		order.TotalPrice,
		order.TaxPrice,
		order.ShippingPrice,
		order.PaymentMethod,
		order.PaymentInfo,
		order.OrderStatus,
		order.PaidAt,
		order.CreatedAt,
	)
	if err != nil {
		return r.mapTxError(err)
	}

	for _, item := range order.OrderItems {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO order_items (id, order_id, product_id, quantity, price, image, title)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`,
			item.ID, item.OrderID, item.ProductID, item.Quantity, item.Price, item.Image, item.Title,
		)
		if err != nil {
			return r.mapTxError(err)
		}
	}

	s := order.ShippingInfo
	_, err = tx.ExecContext(ctx, `
		INSERT INTO shipping_info (order_id, full_name, state, city, country, address, pincode, phone)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`,
		order.ID, s.FullName, s.State, s.City, s.Country, s.Address, s.Pincode, s.Phone,
	)
	if err != nil {
		return r.mapTxError(err)
	}

	for _, id := range ids {
		_, err = tx.ExecContext(ctx,
			`UPDATE products SET stock = stock - $1 WHERE id = $2`,
			requested[id], id,
		)
		if err != nil {
			return r.mapTxError(err)
		}
	}

	if err := tx.Commit(); err != nil {
		return r.mapTxError(err)
	}

	r.logger.Info("Order persisted", logging.Fields{
		"order_id":   order.ID,
		"item_count": len(order.OrderItems),
	})
	return nil
}

// mapTxError surfaces database concurrency aborts as ConflictError.
func (r *PostgresOrderRepository) mapTxError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		// 40001 serialization_failure, 40P01 deadlock_detected
		if pqErr.Code == "40001" || pqErr.Code == "40P01" {
			return apperrors.NewConflictError("order placement lost a concurrent stock race, retry")
		}
	}
	return err
}

// enrichedOrderSelect joins each order with its items (aggregated into a
// JSON array) and its shipping record, the same projection the storefront
// and dashboard render.
const enrichedOrderSelect = `
	SELECT o.id, o.buyer_id, o.total_price, o.tax_price, o.shipping_price,
	       o.payment_method, o.payment_info, o.order_status, o.paid_at, o.created_at,
	       COALESCE(
	         json_agg(
	           json_build_object(
	             'order_item_id', oi.id,
	             'order_id', oi.order_id,
	             'product_id', oi.product_id,
	             'quantity', oi.quantity,
	             'price', oi.price,
	             'image', oi.image,
	             'title', oi.title
	           )
	         ) FILTER (WHERE oi.id IS NOT NULL), '[]'
	       ) AS order_items,
	       json_build_object(
	         'full_name', s.full_name,
	         'state', s.state,
	         'city', s.city,
	         'country', s.country,
	         'address', s.address,
	         'pincode', s.pincode,
	         'phone', s.phone
	       ) AS shipping_info
	FROM orders o
	LEFT JOIN order_items oi ON o.id = oi.order_id
	LEFT JOIN shipping_info s ON o.id = s.order_id
`

const enrichedOrderGroupBy = ` GROUP BY o.id, s.order_id`

// GetByID retrieves one enriched order.
func (r *PostgresOrderRepository) GetByID(ctx context.Context, id string) (*models.Order, error) {
	query := enrichedOrderSelect + ` WHERE o.id = $1` + enrichedOrderGroupBy

	row := r.db.QueryRowContext(ctx, query, id)
	order, err := scanEnrichedOrder(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFoundError("order not found")
	}
	if err != nil {
		r.logger.Error("Failed to fetch order", logging.Fields{
			"order_id": id,
			"error":    err.Error(),
		})
		return nil, err
	}
	return order, nil
}

// GetByBuyerID retrieves all of a buyer's enriched orders, newest first.
func (r *PostgresOrderRepository) GetByBuyerID(ctx context.Context, buyerID string) ([]*models.Order, error) {
	query := enrichedOrderSelect + ` WHERE o.buyer_id = $1` + enrichedOrderGroupBy +
		` ORDER BY o.created_at DESC`
	return r.queryOrders(ctx, query, buyerID)
}

// ListAll retrieves every enriched order, newest first.
func (r *PostgresOrderRepository) ListAll(ctx context.Context) ([]*models.Order, error) {
	query := enrichedOrderSelect + enrichedOrderGroupBy + ` ORDER BY o.created_at DESC`
	return r.queryOrders(ctx, query)
}

func (r *PostgresOrderRepository) queryOrders(ctx context.Context, query string, args ...any) ([]*models.Order, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to list orders", logging.Fields{"error": err.Error()})
		return nil, err
	}
	defer rows.Close()

	orders := make([]*models.Order, 0)
	for rows.Next() {
		order, err := scanEnrichedOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, rows.Err()
}

// UpdateStatus overwrites an order's status and returns the enriched record.
func (r *PostgresOrderRepository) UpdateStatus(ctx context.Context, id string, status models.OrderStatus) (*models.Order, error) {
	var returnedID string
	err := r.db.QueryRowContext(ctx,
		`UPDATE orders SET order_status = $1 WHERE id = $2 RETURNING id`,
		status, id,
	).Scan(&returnedID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFoundError("order not found")
	}
	if err != nil {
		r.logger.Error("Failed to update order status", logging.Fields{
			"order_id": id,
			"error":    err.Error(),
		})
		return nil, err
	}

	return r.GetByID(ctx, id)
}

// Delete removes an order permanently; order_items and shipping_info rows
// follow via ON DELETE CASCADE. The enriched record is read first so the
// caller gets the full removed order back.
func (r *PostgresOrderRepository) Delete(ctx context.Context, id string) (*models.Order, error) {
	order, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	result, err := r.db.ExecContext(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Failed to delete order", logging.Fields{
			"order_id": id,
			"error":    err.Error(),
		})
		return nil, err
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return nil, apperrors.NewNotFoundError("order not found")
	}

	return order, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEnrichedOrder(row rowScanner) (*models.Order, error) {
	var order models.Order
	var itemsJSON, shippingJSON []byte
	var paidAt sql.NullTime

	err := row.Scan(
		&order.ID,
		&order.BuyerID,
		&order.TotalPrice,
		&order.TaxPrice,
		&order.ShippingPrice,
		&order.PaymentMethod,
		&order.PaymentInfo,
		&order.OrderStatus,
		&paidAt,
		&order.CreatedAt,
		&itemsJSON,
		&shippingJSON,
	)
	if err != nil {
		return nil, err
	}

	if paidAt.Valid {
		order.PaidAt = &paidAt.Time
	}
	if err := json.Unmarshal(itemsJSON, &order.OrderItems); err != nil {
		return nil, err
	}
	var shipping models.ShippingInfo
	if err := json.Unmarshal(shippingJSON, &shipping); err != nil {
		return nil, err
	}
	shipping.OrderID = order.ID
	order.ShippingInfo = &shipping

	return &order, nil
}
