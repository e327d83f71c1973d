package models

import "github.com/shopspring/decimal"

// Product is catalog entity
type Product struct {
	ID          uint64          `json:"id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	Reserved    int             `json:"reserved,omitempty"`
	Description string          `json:"description,omitempty"`
	SKU         string          `json:"sku,omitempty"`
	CategoryID  uint64          `json:"categoryId,omitempty"`
	ImageURL    string          `json:"imageUrl,omitempty"`
}

// Available returns stock not held by reservations
func (p Product) Available() int {
	if p.Reserved >= p.Stock {
		return 0
	}
	return p.Stock - p.Reserved
}

// ProductRequest is payload of product create and update.
// Nil fields are left unchanged by an update.
type ProductRequest struct {
	Name        *string          `json:"name,omitempty"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	Stock       *int             `json:"stock,omitempty"`
	Description *string          `json:"description,omitempty"`
	SKU         *string          `json:"sku,omitempty"`
	ImageURL    *string          `json:"imageUrl,omitempty"`
	CategoryID  *uint64          `json:"categoryId,omitempty"`
}
