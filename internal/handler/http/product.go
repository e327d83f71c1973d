package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rookgm/storefront/internal/models"
)

type ProductStore interface {
	CreateProduct(ctx context.Context, product models.Product) (*models.Product, error)
	GetProduct(ctx context.Context, id uint64) (*models.Product, error)
	GetProductBySKU(ctx context.Context, sku string) (*models.Product, error)
	ListProducts(ctx context.Context, q models.PageQuery) models.Page[models.Product]
	UpdateProduct(ctx context.Context, id uint64, req models.ProductRequest) (*models.Product, error)
	DeleteProduct(ctx context.Context, id uint64) error
}

// ProductHandler represents HTTP handler for catalog requests
type ProductHandler struct {
	store ProductStore
}

// NewProductHandler creates new ProductHandler instance
func NewProductHandler(store ProductStore) *ProductHandler {
	return &ProductHandler{store: store}
}

// ListProducts returns page of products
func (ph *ProductHandler) ListProducts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q, violations := parsePageQuery(r)
		if len(violations) > 0 {
			writeViolations(w, violations)
			return
		}
		writeJSON(w, http.StatusOK, ph.store.ListProducts(r.Context(), q))
	}
}

// GetProduct returns product by id
func (ph *ProductHandler) GetProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseID(chi.URLParam(r, "id"))
		if !ok {
			writeText(w, http.StatusBadRequest, "Invalid product id")
			return
		}

		product, err := ph.store.GetProduct(r.Context(), id)
		if err != nil {
			ph.writeStoreError(w, r, err, id)
			return
		}
		writeJSON(w, http.StatusOK, product)
	}
}

// Availability returns stock of a SKU. Lookups are served by the inventory
// service, so its failures come back gateway-wrapped.
func (ph *ProductHandler) Availability() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sku, err := url.PathUnescape(chi.URLParam(r, "sku"))
		if err != nil {
			writeText(w, http.StatusBadRequest, "Invalid SKU")
			return
		}

		product, err := ph.store.GetProductBySKU(r.Context(), sku)
		if err != nil {
			if errors.Is(err, models.ErrDataNotFound) {
				writeGateway(w, http.StatusNotFound, http.MethodGet,
					inventoryURL+"/sku/"+sku, "InventoryClient#availability(String)",
					fmt.Sprintf("SKU %s not found", sku))
				return
			}
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, product)
	}
}

// CreateProduct adds product to the catalog
func (ph *ProductHandler) CreateProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.ProductRequest
		if !decodeBody(w, r, &req) {
			return
		}
		if violations := validateProduct(req); len(violations) > 0 {
			writeViolations(w, violations)
			return
		}

		product := models.Product{
			Name:  strings.TrimSpace(*req.Name),
			Price: *req.Price,
			Stock: *req.Stock,
		}
		if req.Description != nil {
			product.Description = *req.Description
		}
		if req.SKU != nil {
			product.SKU = *req.SKU
		}
		if req.ImageURL != nil {
			product.ImageURL = *req.ImageURL
		}
		if req.CategoryID != nil {
			product.CategoryID = *req.CategoryID
		}

		created, err := ph.store.CreateProduct(r.Context(), product)
		if err != nil {
			ph.writeStoreError(w, r, err, 0)
			return
		}
		writeJSON(w, http.StatusCreated, created)
	}
}

// UpdateProduct changes set fields of a product
func (ph *ProductHandler) UpdateProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseID(chi.URLParam(r, "id"))
		if !ok {
			writeText(w, http.StatusBadRequest, "Invalid product id")
			return
		}
		var req models.ProductRequest
		if !decodeBody(w, r, &req) {
			return
		}

		product, err := ph.store.UpdateProduct(r.Context(), id, req)
		if err != nil {
			ph.writeStoreError(w, r, err, id)
			return
		}
		writeJSON(w, http.StatusOK, product)
	}
}

// DeleteProduct removes product from the catalog
func (ph *ProductHandler) DeleteProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseID(chi.URLParam(r, "id"))
		if !ok {
			writeText(w, http.StatusBadRequest, "Invalid product id")
			return
		}

		if err := ph.store.DeleteProduct(r.Context(), id); err != nil {
			ph.writeStoreError(w, r, err, id)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func (ph *ProductHandler) writeStoreError(w http.ResponseWriter, r *http.Request, err error, id uint64) {
	switch {
	case errors.Is(err, models.ErrDataNotFound):
		writeMessage(w, r, http.StatusNotFound, fmt.Sprintf("Product %d not found", id))
	case errors.Is(err, models.ErrConflictData):
		writeMessage(w, r, http.StatusConflict, "SKU already exists")
	default:
		w.WriteHeader(http.StatusInternalServerError)
	}
}

func validateProduct(req models.ProductRequest) []violation {
	var violations []violation
	if req.Name == nil || strings.TrimSpace(*req.Name) == "" {
		violations = append(violations, violation{Field: "name", Message: "Name is required"})
	}
	if req.Price == nil || req.Price.IsNegative() {
		violations = append(violations, violation{Field: "price", Message: "Price must be zero or positive"})
	}
	if req.Stock == nil || *req.Stock < 0 {
		violations = append(violations, violation{Field: "stock", Message: "Stock must be zero or positive"})
	}
	return violations
}
