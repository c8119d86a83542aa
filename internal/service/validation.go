package service

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/bloomkart/bloomkart-orders-service/internal/apperrors"
	"github.com/bloomkart/bloomkart-orders-service/internal/models"
)

// PaymentMethodCOD is the only payment method the service accepts. Orders
// are marked paid at placement time as a bookkeeping convention.
const PaymentMethodCOD = "COD"

// ValidateShippingDetails checks that every shipping field is present.
func ValidateShippingDetails(req *models.PlaceOrderRequest) error {
	if req.FullName == "" ||
		req.State == "" ||
		req.City == "" ||
		req.Country == "" ||
		req.Address == "" ||
		req.Pincode == "" ||
		req.Phone == "" {
		return apperrors.NewValidationError("please provide complete shipping details")
	}
	return nil
}

// ValidateCart checks the decoded cart lines: non-empty, positive
// quantities, well-formed product references.
func ValidateCart(items []models.OrderedItem) error {
	if len(items) == 0 {
		return apperrors.NewValidationError("your cart is empty")
	}

	for _, item := range items {
		if item.Product.ID == "" {
			return apperrors.NewValidationError("cart item is missing a product reference")
		}
		if uuid.Validate(item.Product.ID) != nil {
			return apperrors.NewNotFoundError(fmt.Sprintf("product not found: %s", item.Product.ID))
		}
		if item.Quantity <= 0 {
			return apperrors.NewValidationError("item quantity must be positive")
		}
	}
	return nil
}

// ValidatePaymentMethod accepts COD only. An empty value defaults to COD.
func ValidatePaymentMethod(method string) error {
	if method != "" && method != PaymentMethodCOD {
		return apperrors.NewValidationError("unsupported payment method")
	}
	return nil
}

// ValidateStatus checks enum membership only. Any valid status may be set
// from any other; transition legality is intentionally not enforced.
func ValidateStatus(status models.OrderStatus) error {
	if status == "" {
		return apperrors.NewValidationError("provide a valid status")
	}
	if !status.Valid() {
		return apperrors.NewValidationError(fmt.Sprintf("invalid order status: %s", status))
	}
	return nil
}

// ValidateOrderID checks that id is a well-formed order identifier.
func ValidateOrderID(id string) error {
	if id == "" || uuid.Validate(id) != nil {
		return apperrors.NewNotFoundError("order not found")
	}
	return nil
}
