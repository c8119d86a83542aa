package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/bloomkart/bloomkart-orders-service/internal/apperrors"
	"github.com/bloomkart/bloomkart-orders-service/internal/config"
	"github.com/bloomkart/bloomkart-orders-service/internal/logging"
	"github.com/bloomkart/bloomkart-orders-service/internal/models"
)

// OrderService implements the order placement flow, the read-side queries
// and the status lifecycle on top of the repository, cache and event
// publisher boundaries.
type OrderService struct {
	repo           OrderRepository
	cache          OrderCache
	publisher      EventPublisher
	buyerValidator BuyerValidator
	config         *config.Config
	logger         *logging.Logger
}

// NewOrderService creates a new order service. buyerValidator may be nil
// when buyer validation is disabled.
func NewOrderService(
	repo OrderRepository,
	cache OrderCache,
	publisher EventPublisher,
	buyerValidator BuyerValidator,
	cfg *config.Config,
) *OrderService {
	return &OrderService{
		repo:           repo,
		cache:          cache,
		publisher:      publisher,
		buyerValidator: buyerValidator,
		config:         cfg,
		logger:         logging.New("order-service"),
	}
}

// PlaceOrder validates a submitted cart against authoritative catalog state
// and atomically creates the order, its items and shipping record while
// decrementing stock. Client-submitted prices are ignored; every financial
// value is re-derived from the catalog read.
func (s *OrderService) PlaceOrder(ctx context.Context, buyerID string, req *models.PlaceOrderRequest) (*models.PlacedOrder, error) {
	s.logger.Info("Placing order", logging.Fields{"buyer_id": buyerID})

	if err := ValidateShippingDetails(req); err != nil {
		return nil, err
	}

	items, err := req.Items()
	if err != nil {
		return nil, apperrors.NewValidationError("invalid orderedItems payload")
	}
	if err := ValidateCart(items); err != nil {
		return nil, err
	}
	if err := ValidatePaymentMethod(req.PaymentMethod); err != nil {
		return nil, err
	}

	if s.config.Features.EnableBuyerValidation && s.buyerValidator != nil {
		valid, err := s.buyerValidator.ValidateBuyer(ctx, buyerID)
		if err != nil {
			s.logger.Error("Buyer validation failed", logging.Fields{
				"buyer_id": buyerID,
				"error":    err.Error(),
			})
			return nil, err
		}
		if !valid {
			return nil, apperrors.NewValidationError("buyer not found or inactive")
		}
	}

	products, err := s.lookupProducts(ctx, items)
	if err != nil {
		return nil, err
	}

	orderID := uuid.NewString()
	orderItems := make([]models.OrderItem, 0, len(items))
	for _, item := range items {
		product := products[item.Product.ID]
		if product.Stock < item.Quantity {
			return nil, apperrors.NewInsufficientStockError(product.Name, product.Stock, item.Quantity)
		}
		orderItems = append(orderItems, models.OrderItem{
			ID:        uuid.NewString(),
			OrderID:   orderID,
			ProductID: product.ID,
			Quantity:  item.Quantity,
			Price:     product.Price,
			Image:     item.Product.FirstImageURL(),
			Title:     product.Name,
		})
	}

	totals := ComputeTotals(orderItems, s.config.Pricing)

	now := time.Now().UTC()
	order := &models.Order{
		ID:            orderID,
		BuyerID:       buyerID,
		TotalPrice:    totals.Total,
		TaxPrice:      totals.Tax,
		ShippingPrice: totals.Shipping,
		PaymentMethod: PaymentMethodCOD,
		PaymentInfo:   "Cash On Delivery",
		OrderStatus:   models.OrderStatusProcessing,
		PaidAt:        &now,
		CreatedAt:     now,
		OrderItems:    orderItems,
		ShippingInfo: &models.ShippingInfo{
			OrderID:  orderID,
			FullName: req.FullName,
			State:    req.State,
			City:     req.City,
			Country:  req.Country,
			Address:  req.Address,
			Pincode:  req.Pincode,
			Phone:    req.Phone,
		},
	}

	if err := s.repo.CreateOrder(ctx, order); err != nil {
		return nil, err
	}

	if s.config.Features.EnableOrderCaching {
		if err := s.cache.Set(ctx, order); err != nil {
			s.logger.Error("Failed to cache order", logging.Fields{
				"order_id": order.ID,
				"error":    err.Error(),
			})
		}
		s.cache.InvalidateByBuyerID(ctx, buyerID)
	}

	if s.config.Features.EnableOrderEvents {
		if err := s.publisher.PublishOrderPlaced(ctx, order); err != nil {
			s.logger.Error("Failed to publish order placed event", logging.Fields{
				"order_id": order.ID,
				"error":    err.Error(),
			})
		}
	}

	s.logger.Info("Order placed", logging.Fields{
		"order_id": order.ID,
		"buyer_id": buyerID,
		"total":    totals.Total.String(),
	})

	return &models.PlacedOrder{
		OrderID:    order.ID,
		TotalPrice: order.TotalPrice,
	}, nil
}

// lookupProducts performs the authoritative catalog read for every distinct
// product the cart references.
func (s *OrderService) lookupProducts(ctx context.Context, items []models.OrderedItem) (map[string]*models.Product, error) {
	ids := make([]string, 0, len(items))
	seen := make(map[string]bool, len(items))
	for _, item := range items {
		if !seen[item.Product.ID] {
			seen[item.Product.ID] = true
			ids = append(ids, item.Product.ID)
		}
	}

	products, err := s.repo.GetProductsByIDs(ctx, ids)
	if err != nil {
		s.logger.Error("Failed to read products", logging.Fields{"error": err.Error()})
		return nil, err
	}

	byID := make(map[string]*models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	for _, id := range ids {
		if _, ok := byID[id]; !ok {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("product not found: %s", id))
		}
	}
	return byID, nil
}

// FetchMyOrders returns all of a buyer's orders, enriched with items and
// shipping info, newest first.
func (s *OrderService) FetchMyOrders(ctx context.Context, buyerID string) ([]*models.Order, error) {
	s.logger.Debug("Fetching buyer orders", logging.Fields{"buyer_id": buyerID})

	if s.config.Features.EnableOrderCaching {
		if orders, err := s.cache.GetByBuyerID(ctx, buyerID); err == nil && orders != nil {
			return orders, nil
		}
	}

	orders, err := s.repo.GetByBuyerID(ctx, buyerID)
	if err != nil {
		return nil, err
	}

	if s.config.Features.EnableOrderCaching {
		s.cache.SetByBuyerID(ctx, buyerID, orders)
	}

	return orders, nil
}

// FetchSingleOrder returns one enriched order.
func (s *OrderService) FetchSingleOrder(ctx context.Context, orderID string) (*models.Order, error) {
	if err := ValidateOrderID(orderID); err != nil {
		return nil, err
	}

	if s.config.Features.EnableOrderCaching {
		if order, err := s.cache.Get(ctx, orderID); err == nil && order != nil {
			return order, nil
		}
	}

	order, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if s.config.Features.EnableOrderCaching {
		s.cache.Set(ctx, order)
	}

	return order, nil
}

// FetchAllOrders returns every order, enriched, for the admin view.
// Unpaged; acceptable at current volume but a known scalability gap.
func (s *OrderService) FetchAllOrders(ctx context.Context) ([]*models.Order, error) {
	orders, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("Fetched all orders", logging.Fields{"count": len(orders)})
	return orders, nil
}

// UpdateStatus overwrites an order's status. Any valid status may be set
// from any other; the admin dashboard relies on that.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID string, status models.OrderStatus) (*models.Order, error) {
	if err := ValidateStatus(status); err != nil {
		return nil, err
	}
	if err := ValidateOrderID(orderID); err != nil {
		return nil, err
	}

	previous, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	order, err := s.repo.UpdateStatus(ctx, orderID, status)
	if err != nil {
		return nil, err
	}

	if s.config.Features.EnableOrderCaching {
		s.cache.Delete(ctx, orderID)
		s.cache.InvalidateByBuyerID(ctx, order.BuyerID)
	}

	if s.config.Features.EnableOrderEvents {
		if err := s.publisher.PublishOrderStatusChanged(ctx, order, previous.OrderStatus); err != nil {
			s.logger.Error("Failed to publish status change event", logging.Fields{
				"order_id": orderID,
				"error":    err.Error(),
			})
		}
	}

	s.logger.Info("Order status updated", logging.Fields{
		"order_id":   orderID,
		"new_status": string(status),
	})

	return order, nil
}

// DeleteOrder permanently removes an order; items and shipping info go with
// it via cascade. Returns the removed record for confirmation.
func (s *OrderService) DeleteOrder(ctx context.Context, orderID string) (*models.Order, error) {
	if err := ValidateOrderID(orderID); err != nil {
		return nil, err
	}

	order, err := s.repo.Delete(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if s.config.Features.EnableOrderCaching {
		s.cache.Delete(ctx, orderID)
		s.cache.InvalidateByBuyerID(ctx, order.BuyerID)
	}

	if s.config.Features.EnableOrderEvents {
		if err := s.publisher.PublishOrderDeleted(ctx, order); err != nil {
			s.logger.Error("Failed to publish order deleted event", logging.Fields{
				"order_id": orderID,
				"error":    err.Error(),
			})
		}
	}

	s.logger.Info("Order deleted", logging.Fields{"order_id": orderID})
	return order, nil
}
