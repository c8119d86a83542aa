package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/bloomkart/bloomkart-orders-service/internal/apperrors"
	"github.com/bloomkart/bloomkart-orders-service/internal/config"
	"github.com/bloomkart/bloomkart-orders-service/internal/logging"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestHandleErrorStatusMapping(t *testing.T) {
	h := &Handlers{config: &config.Config{}, logger: logging.New("handlers-test")}

	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   string
	}{
		{"validation", apperrors.NewValidationError("your cart is empty"), http.StatusBadRequest, "your cart is empty"},
		{"insufficient stock", apperrors.NewInsufficientStockError("Clay Vase", 3, 5), http.StatusBadRequest, "only 3 left for Clay Vase"},
		{"not found", apperrors.NewNotFoundError("order not found"), http.StatusNotFound, "order not found"},
		{"conflict", apperrors.NewConflictError("order placement lost a concurrent stock race, retry"), http.StatusConflict, "retry"},
		{"internal", errors.New("pq: connection reset"), http.StatusInternalServerError, "internal server error"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			h.handleError(c, tc.err)

			assert.Equal(t, tc.wantStatus, w.Code)
			assert.Contains(t, w.Body.String(), tc.wantBody)
			assert.Contains(t, w.Body.String(), `"success":false`)
		})
	}
}

func TestHandleErrorHidesInternalDetails(t *testing.T) {
	h := &Handlers{config: &config.Config{}, logger: logging.New("handlers-test")}

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	h.handleError(c, errors.New("pq: password authentication failed for user"))

	assert.NotContains(t, w.Body.String(), "password")
}
