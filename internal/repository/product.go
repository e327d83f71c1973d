package repository

import (
	"cmp"
	"context"
	"slices"
	"strings"

	"github.com/rookgm/storefront/internal/models"
)

type productRecord struct {
	product models.Product
}

// ProductRepository implements catalog storage
type ProductRepository struct {
	db *DB
}

// NewProductRepository creates new ProductRepository instance
func NewProductRepository(db *DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// CreateProduct stores new product
func (pr *ProductRepository) CreateProduct(ctx context.Context, product models.Product) (*models.Product, error) {
	pr.db.mu.Lock()
	defer pr.db.mu.Unlock()

	if product.SKU != "" {
		if _, ok := pr.bySKU(product.SKU); ok {
			return nil, models.ErrConflictData
		}
	}

	product.ID = pr.db.nextID()
	pr.db.products[product.ID] = productRecord{product: product}
	return &product, nil
}

// GetProduct returns product by id
func (pr *ProductRepository) GetProduct(ctx context.Context, id uint64) (*models.Product, error) {
	pr.db.mu.RLock()
	defer pr.db.mu.RUnlock()

	rec, ok := pr.db.products[id]
	if !ok {
		return nil, models.ErrDataNotFound
	}
	product := rec.product
	return &product, nil
}

// GetProductBySKU returns product by SKU
func (pr *ProductRepository) GetProductBySKU(ctx context.Context, sku string) (*models.Product, error) {
	pr.db.mu.RLock()
	defer pr.db.mu.RUnlock()

	product, ok := pr.bySKU(sku)
	if !ok {
		return nil, models.ErrDataNotFound
	}
	return &product, nil
}

func (pr *ProductRepository) bySKU(sku string) (models.Product, bool) {
	for _, rec := range pr.db.products {
		if strings.EqualFold(rec.product.SKU, sku) {
			return rec.product, true
		}
	}
	return models.Product{}, false
}

// ListProducts returns page of products matching q
func (pr *ProductRepository) ListProducts(ctx context.Context, q models.PageQuery) models.Page[models.Product] {
	pr.db.mu.RLock()
	defer pr.db.mu.RUnlock()

	search := strings.ToLower(q.Search)
	var products []models.Product
	for _, rec := range pr.db.products {
		if search != "" && !strings.Contains(strings.ToLower(rec.product.Name), search) {
			continue
		}
		products = append(products, rec.product)
	}

	slices.SortFunc(products, func(a, b models.Product) int {
		var c int
		switch q.SortBy {
		case "name":
			c = strings.Compare(a.Name, b.Name)
		case "price":
			c = a.Price.Cmp(b.Price)
		}
		if c == 0 {
			c = cmp.Compare(a.ID, b.ID)
		}
		if q.SortDir == models.SortDesc {
			c = -c
		}
		return c
	})

	return paginate(products, q)
}

// UpdateProduct applies set fields of req
func (pr *ProductRepository) UpdateProduct(ctx context.Context, id uint64, req models.ProductRequest) (*models.Product, error) {
	pr.db.mu.Lock()
	defer pr.db.mu.Unlock()

	rec, ok := pr.db.products[id]
	if !ok {
		return nil, models.ErrDataNotFound
	}
	p := &rec.product
	if req.SKU != nil && !strings.EqualFold(*req.SKU, p.SKU) {
		if _, taken := pr.bySKU(*req.SKU); taken {
			return nil, models.ErrConflictData
		}
		p.SKU = *req.SKU
	}
	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.Price != nil {
		p.Price = *req.Price
	}
	if req.Stock != nil {
		p.Stock = *req.Stock
	}
	if req.Description != nil {
		p.Description = *req.Description
	}
	if req.ImageURL != nil {
		p.ImageURL = *req.ImageURL
	}
	if req.CategoryID != nil {
		p.CategoryID = *req.CategoryID
	}
	pr.db.products[id] = rec

	product := rec.product
	return &product, nil
}

// DeleteProduct removes product
func (pr *ProductRepository) DeleteProduct(ctx context.Context, id uint64) error {
	pr.db.mu.Lock()
	defer pr.db.mu.Unlock()

	if _, ok := pr.db.products[id]; !ok {
		return models.ErrDataNotFound
	}
	delete(pr.db.products, id)
	return nil
}

// default page size
const defaultPageSize = 20

func paginate[T any](items []T, q models.PageQuery) models.Page[T] {
	pageNo, pageSize := 0, defaultPageSize
	if q.PageNo != nil && *q.PageNo > 0 {
		pageNo = *q.PageNo
	}
	if q.PageSize != nil && *q.PageSize > 0 {
		pageSize = *q.PageSize
	}

	total := len(items)
	totalPages := (total + pageSize - 1) / pageSize
	start := min(pageNo*pageSize, total)
	end := min(start+pageSize, total)

	return models.Page[T]{
		Content:       append([]T{}, items[start:end]...),
		PageNo:        pageNo,
		PageSize:      pageSize,
		TotalElements: int64(total),
		TotalPages:    totalPages,
		Last:          pageNo >= totalPages-1,
	}
}
