package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/rookgm/storefront/internal/models"
)

// ListProducts returns a page of the catalog
func (c *Client) ListProducts(ctx context.Context, q models.PageQuery) (*models.Page[models.Product], error) {
	var page models.Page[models.Product]
	if err := c.call(ctx, http.MethodGet, withQuery("/products", q), nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// Product returns product by id
func (c *Client) Product(ctx context.Context, id uint64) (*models.Product, error) {
	var product models.Product
	if err := c.call(ctx, http.MethodGet, productPath(id), nil, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// ProductAvailability returns stock information of a SKU
func (c *Client) ProductAvailability(ctx context.Context, sku string) (*models.Product, error) {
	// GET /products/sku/{sku}/availability
	var product models.Product
	path := "/products/sku/" + url.PathEscape(sku) + "/availability"
	if err := c.call(ctx, http.MethodGet, path, nil, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// CreateProduct adds product to the catalog
func (c *Client) CreateProduct(ctx context.Context, req models.ProductRequest) (*models.Product, error) {
	var product models.Product
	if err := c.call(ctx, http.MethodPost, "/products", req, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// UpdateProduct changes the set fields of a product
func (c *Client) UpdateProduct(ctx context.Context, id uint64, req models.ProductRequest) (*models.Product, error) {
	var product models.Product
	if err := c.call(ctx, http.MethodPut, productPath(id), req, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// DeleteProduct removes product from the catalog
func (c *Client) DeleteProduct(ctx context.Context, id uint64) error {
	return c.call(ctx, http.MethodDelete, productPath(id), nil, nil)
}

func productPath(id uint64) string {
	return "/products/" + strconv.FormatUint(id, 10)
}
