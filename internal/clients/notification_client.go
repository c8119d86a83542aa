package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/bloomkart/bloomkart-orders-service/internal/config"
	"github.com/bloomkart/bloomkart-orders-service/internal/events"
	"github.com/bloomkart/bloomkart-orders-service/internal/logging"
	"github.com/bloomkart/bloomkart-orders-service/internal/models"
)

var _ events.NotificationSender = (*HTTPNotificationClient)(nil)

// HTTPNotificationClient hands notifications to the external notification
// service over HTTP. Email templates and delivery live there, not here.
type HTTPNotificationClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *logging.Logger
}

// NewHTTPNotificationClient creates a new HTTP-based notification client.
func NewHTTPNotificationClient(cfg config.ServiceConfig, logger *logging.Logger) *HTTPNotificationClient {
	return &HTTPNotificationClient{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger: logger,
	}
}

// Send posts a notification to the notification service.
func (c *HTTPNotificationClient) Send(ctx context.Context, notification *models.Notification) error {
	body, err := json.Marshal(notification)
	if err != nil {
		return err
	}

	url := c.baseURL + "/api/v1/notifications"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("Failed to send notification", logging.Fields{
			"recipient": notification.Recipient,
			"error":     err.Error(),
		})
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		return fmt.Errorf("notification service returned status %d", resp.StatusCode)
	}

	c.logger.Debug("Notification sent", logging.Fields{
		"recipient": notification.Recipient,
		"subject":   notification.Subject,
	})
	return nil
}
