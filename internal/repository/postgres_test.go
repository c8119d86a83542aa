package repository

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bloomkart/bloomkart-orders-service/internal/apperrors"
	"github.com/bloomkart/bloomkart-orders-service/internal/logging"
	"github.com/bloomkart/bloomkart-orders-service/internal/models"
)

// stubRow feeds canned column values to scanEnrichedOrder.
type stubRow struct {
	values []any
}

func (r stubRow) Scan(dest ...any) error {
	if len(dest) != len(r.values) {
		return fmt.Errorf("scan expected %d columns, got %d", len(r.values), len(dest))
	}
	for i, d := range dest {
		switch d := d.(type) {
		case *string:
			*d = r.values[i].(string)
		case *decimal.Decimal:
			*d = r.values[i].(decimal.Decimal)
		case *models.OrderStatus:
			*d = r.values[i].(models.OrderStatus)
		case *sql.NullTime:
			*d = r.values[i].(sql.NullTime)
		case *time.Time:
			*d = r.values[i].(time.Time)
		case *[]byte:
			*d = r.values[i].([]byte)
		default:
			return fmt.Errorf("unsupported scan destination %T", d)
		}
	}
	return nil
}

func TestScanEnrichedOrder(t *testing.T) {
	paidAt := time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC)
	createdAt := paidAt

	row := stubRow{values: []any{
		"ord-1",
		"buyer-1",
		decimal.RequireFromString("522"),
		decimal.RequireFromString("72"),
		decimal.RequireFromString("50"),
		"COD",
		"Cash On Delivery",
		models.OrderStatusProcessing,
		sql.NullTime{Time: paidAt, Valid: true},
		createdAt,
		[]byte(`[{"order_item_id":"item-1","order_id":"ord-1","product_id":"p-1","quantity":4,"price":100,"image":"https://cdn/x.jpg","title":"Clay Vase"}]`),
		[]byte(`{"full_name":"Asha Rao","state":"Karnataka","city":"Bengaluru","country":"India","address":"12 MG Road","pincode":"560001","phone":"9876543210"}`),
	}}

	order, err := scanEnrichedOrder(row)
	require.NoError(t, err)

	assert.Equal(t, "ord-1", order.ID)
	assert.True(t, order.TotalPrice.Equal(decimal.RequireFromString("522")))
	require.NotNil(t, order.PaidAt)
	assert.Equal(t, paidAt, *order.PaidAt)
	require.Len(t, order.OrderItems, 1)
	assert.Equal(t, "Clay Vase", order.OrderItems[0].Title)
	assert.Equal(t, 4, order.OrderItems[0].Quantity)
	require.NotNil(t, order.ShippingInfo)
	assert.Equal(t, "Asha Rao", order.ShippingInfo.FullName)
	assert.Equal(t, "ord-1", order.ShippingInfo.OrderID, "shipping record keyed to the scanned order")
}

func TestScanEnrichedOrderNoItemsNoPaidAt(t *testing.T) {
	row := stubRow{values: []any{
		"ord-2",
		"buyer-1",
		decimal.Zero,
		decimal.Zero,
		decimal.Zero,
		"COD",
		"Cash On Delivery",
		models.OrderStatusCancelled,
		sql.NullTime{},
		time.Now().UTC(),
		[]byte(`[]`),
		[]byte(`{}`),
	}}

	order, err := scanEnrichedOrder(row)
	require.NoError(t, err)
	assert.Nil(t, order.PaidAt)
	assert.Empty(t, order.OrderItems)
}

func TestMapTxError(t *testing.T) {
	repo := &PostgresOrderRepository{logger: logging.New("repository-test")}

	assert.True(t, apperrors.IsConflict(repo.mapTxError(&pq.Error{Code: "40001"})))
	assert.True(t, apperrors.IsConflict(repo.mapTxError(&pq.Error{Code: "40P01"})))

	unique := &pq.Error{Code: "23505"}
	assert.Equal(t, error(unique), repo.mapTxError(unique))

	plain := fmt.Errorf("connection reset")
	assert.Equal(t, plain, repo.mapTxError(plain))
}

// Exercises the real SQL paths against a local database. Run with
// ORDERS_TEST_DSN set, e.g.
// "host=localhost user=bloomkart dbname=bloomkart_orders_test sslmode=disable".
func TestPostgresOrderRepositoryIntegration(t *testing.T) {
	dsn := os.Getenv("ORDERS_TEST_DSN")
	if dsn == "" {
		t.Skip("requires a running PostgreSQL instance; set ORDERS_TEST_DSN")
	}

	db, err := sql.Open("postgres", dsn)
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()
	require.NoError(t, EnsureSchema(ctx, db))
	repo := NewPostgresOrderRepository(db, logging.New("repository-test"))

	productID := uuid.NewString()
	_, err = db.ExecContext(ctx,
		`INSERT INTO products (id, name, price, stock) VALUES ($1, $2, $3, $4)`,
		productID, "Clay Vase", "100", 10,
	)
	require.NoError(t, err)

	now := time.Now().UTC()
	order := &models.Order{
		ID:            uuid.NewString(),
		BuyerID:       uuid.NewString(),
		TotalPrice:    decimal.RequireFromString("522"),
		TaxPrice:      decimal.RequireFromString("72"),
		ShippingPrice: decimal.RequireFromString("50"),
		PaymentMethod: "COD",
		PaymentInfo:   "Cash On Delivery",
		OrderStatus:   models.OrderStatusProcessing,
		PaidAt:        &now,
		CreatedAt:     now,
		OrderItems: []models.OrderItem{{
			ID:        uuid.NewString(),
			ProductID: productID,
			Quantity:  4,
			Price:     decimal.RequireFromString("100"),
			Title:     "Clay Vase",
		}},
		ShippingInfo: &models.ShippingInfo{
			FullName: "Asha Rao",
			State:    "Karnataka",
			City:     "Bengaluru",
			Country:  "India",
			Address:  "12 MG Road",
			Pincode:  "560001",
			Phone:    "9876543210",
		},
	}
	order.OrderItems[0].OrderID = order.ID
	require.NoError(t, repo.CreateOrder(ctx, order))

	var stock int
	require.NoError(t, db.QueryRowContext(ctx,
		`SELECT stock FROM products WHERE id = $1`, productID).Scan(&stock))
	assert.Equal(t, 6, stock)

	fetched, err := repo.GetByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.ID, fetched.ID)
	require.Len(t, fetched.OrderItems, 1)

	_, err = repo.Delete(ctx, order.ID)
	require.NoError(t, err)
	_, err = repo.GetByID(ctx, order.ID)
	assert.True(t, apperrors.IsNotFound(err))
}
