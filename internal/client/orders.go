package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/rookgm/storefront/internal/models"
)

// MyOrders returns orders of the signed in user
func (c *Client) MyOrders(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	if err := c.call(ctx, http.MethodGet, "/orders/mine", nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// ListOrders returns a page of all orders
func (c *Client) ListOrders(ctx context.Context, q models.PageQuery) (*models.Page[models.Order], error) {
	var page models.Page[models.Order]
	if err := c.call(ctx, http.MethodGet, withQuery("/orders", q), nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// Order returns order by id
func (c *Client) Order(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order
	if err := c.call(ctx, http.MethodGet, orderPath(id), nil, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// CreateOrder places new order
func (c *Client) CreateOrder(ctx context.Context, req models.OrderCreateRequest) (*models.Order, error) {
	var order models.Order
	if err := c.call(ctx, http.MethodPost, "/orders", req, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// UpdateOrder adjusts items or status of an order
func (c *Client) UpdateOrder(ctx context.Context, id string, req models.OrderUpdateRequest) (*models.Order, error) {
	var order models.Order
	if err := c.call(ctx, http.MethodPut, orderPath(id), req, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// CancelOrder requests cancellation, the server answers with a text confirmation
func (c *Client) CancelOrder(ctx context.Context, id string) (string, error) {
	var msg string
	if err := c.call(ctx, http.MethodDelete, orderPath(id), nil, &msg); err != nil {
		return "", err
	}
	return msg, nil
}

func orderPath(id string) string {
	return "/orders/" + url.PathEscape(id)
}
