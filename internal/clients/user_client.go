package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/bloomkart/bloomkart-orders-service/internal/config"
	"github.com/bloomkart/bloomkart-orders-service/internal/logging"
	"github.com/bloomkart/bloomkart-orders-service/internal/service"
)

var _ service.BuyerValidator = (*HTTPUserClient)(nil)

// HTTPUserClient checks buyer accounts against the user service. The JWT
// middleware already authenticates the request; this client additionally
// confirms the account still exists and is active, behind a feature flag.
type HTTPUserClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *logging.Logger
}

// NewHTTPUserClient creates a new HTTP-based user client.
func NewHTTPUserClient(cfg config.ServiceConfig, logger *logging.Logger) *HTTPUserClient {
	return &HTTPUserClient{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger: logger,
	}
}

// ValidateBuyer reports whether the buyer exists and is active.
func (c *HTTPUserClient) ValidateBuyer(ctx context.Context, buyerID string) (bool, error) {
	url := fmt.Sprintf("%s/api/v1/users/%s", c.baseURL, buyerID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false, err
	}
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("User service request failed", logging.Fields{
			"buyer_id": buyerID,
			"error":    err.Error(),
		})
		return false, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return false, nil
	}
	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("user service returned status %d", resp.StatusCode)
	}

	var user struct {
		Active bool `json:"active"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return false, err
	}
	return user.Active, nil
}
