package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/google/uuid"
	"github.com/rookgm/storefront/internal/models"
)

// PaymentsByOrder returns payments made for an order
func (c *Client) PaymentsByOrder(ctx context.Context, orderID string) ([]models.Payment, error) {
	var payments []models.Payment
	if err := c.call(ctx, http.MethodGet, "/payments/order/"+url.PathEscape(orderID), nil, &payments); err != nil {
		return nil, err
	}
	return payments, nil
}

// Payment returns payment by reference
func (c *Client) Payment(ctx context.Context, ref string) (*models.Payment, error) {
	var payment models.Payment
	if err := c.call(ctx, http.MethodGet, "/payments/"+url.PathEscape(ref), nil, &payment); err != nil {
		return nil, err
	}
	return &payment, nil
}

// RefundPayment refunds a payment. A fresh idempotency key is generated when
// key is empty, pass the same key to repeat a refund safely.
func (c *Client) RefundPayment(ctx context.Context, ref, reason, key string) (*models.Payment, error) {
	if key == "" {
		key = uuid.NewString()
	}
	req := models.RefundRequest{
		Reason:         reason,
		IdempotencyKey: key,
	}

	var payment models.Payment
	path := "/payments/" + url.PathEscape(ref) + "/refund"
	if err := c.call(ctx, http.MethodPost, path, req, &payment, WithHeader("Idempotency-Key", key)); err != nil {
		return nil, err
	}
	return &payment, nil
}
