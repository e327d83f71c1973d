package repository

import (
	"cmp"
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/rookgm/storefront/internal/models"
	"github.com/shopspring/decimal"
)

type orderRecord struct {
	order models.Order
	seq   uint64
}

// OrderRepository implements order storage.
// Creating, adjusting and cancelling orders moves product reservations in the same step.
type OrderRepository struct {
	db *DB
}

// NewOrderRepository creates new OrderRepository instance
func NewOrderRepository(db *DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// CreateOrder reserves stock for the requested items and stores the order with its payment.
// Lines without any available stock are skipped, partially available lines are backordered.
// It returns models.ErrInsufficientStock when no line could be reserved.
func (or *OrderRepository) CreateOrder(ctx context.Context, userID uint64, req models.OrderCreateRequest) (*models.Order, error) {
	or.db.mu.Lock()
	defer or.db.mu.Unlock()

	for _, item := range req.Items {
		if _, ok := or.db.products[item.ProductID]; !ok {
			return nil, fmt.Errorf("product %d: %w", item.ProductID, models.ErrDataNotFound)
		}
	}

	or.db.orderSeq++
	ts := or.db.timestamp()
	order := models.Order{
		OrderID:     fmt.Sprintf("ORD-%06d", or.db.orderSeq),
		UserID:      userID,
		OrderStatus: models.OrderStatusCreated,
		CreatedAt:   ts,
		UpdatedAt:   ts,
		Items:       []models.OrderItem{},
	}

	for _, item := range req.Items {
		qty := 1
		if item.Quantity != nil {
			qty = *item.Quantity
		}
		rec := or.db.products[item.ProductID]
		available := rec.product.Available()
		if available == 0 {
			order.SkippedSKUs = append(order.SkippedSKUs, skuOf(rec.product))
			continue
		}
		if available < qty {
			qty = available
			order.HasBackorderedItems = true
		}
		rec.product.Reserved += qty
		or.db.products[item.ProductID] = rec
		order.Items = append(order.Items, newItem(or.db.nextID(), rec.product, qty))
	}

	if len(order.Items) == 0 {
		or.db.orderSeq--
		return nil, models.ErrInsufficientStock
	}
	order.TotalAmount = total(order.Items)

	or.db.orders[order.OrderID] = orderRecord{order: order, seq: or.db.orderSeq}
	or.db.addPayment(order, req)

	return &order, nil
}

// GetOrder returns order by id
func (or *OrderRepository) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	or.db.mu.RLock()
	defer or.db.mu.RUnlock()

	rec, ok := or.db.orders[id]
	if !ok {
		return nil, models.ErrDataNotFound
	}
	return cloneOrder(rec.order), nil
}

// ListUserOrders returns orders of user in creation order
func (or *OrderRepository) ListUserOrders(ctx context.Context, userID uint64) ([]models.Order, error) {
	or.db.mu.RLock()
	defer or.db.mu.RUnlock()

	orders := make([]models.Order, 0)
	for _, rec := range or.sorted() {
		if rec.order.UserID == userID {
			orders = append(orders, *cloneOrder(rec.order))
		}
	}
	return orders, nil
}

// ListOrders returns page of all orders, newest first unless sortDir is asc
func (or *OrderRepository) ListOrders(ctx context.Context, q models.PageQuery) models.Page[models.Order] {
	or.db.mu.RLock()
	defer or.db.mu.RUnlock()

	recs := or.sorted()
	if q.SortDir != models.SortAsc {
		slices.Reverse(recs)
	}

	status := strings.ToUpper(q.Search)
	orders := make([]models.Order, 0, len(recs))
	for _, rec := range recs {
		if status != "" && rec.order.OrderStatus != status && !strings.Contains(rec.order.OrderID, status) {
			continue
		}
		orders = append(orders, *cloneOrder(rec.order))
	}
	return paginate(orders, q)
}

func (or *OrderRepository) sorted() []orderRecord {
	recs := make([]orderRecord, 0, len(or.db.orders))
	for _, rec := range or.db.orders {
		recs = append(recs, rec)
	}
	slices.SortFunc(recs, func(a, b orderRecord) int {
		return cmp.Compare(a.seq, b.seq)
	})
	return recs
}

// UpdateOrder removes or adjusts lines and moves the order to a new status.
// actor is recorded in the status history.
func (or *OrderRepository) UpdateOrder(ctx context.Context, id string, req models.OrderUpdateRequest, actor string) (*models.Order, error) {
	or.db.mu.Lock()
	defer or.db.mu.Unlock()

	rec, ok := or.db.orders[id]
	if !ok {
		return nil, models.ErrDataNotFound
	}
	order := cloneOrder(rec.order)
	if !models.IsCancelableStatus(order.OrderStatus) && (len(req.RemoveProductIDs) > 0 || len(req.AdjustItems) > 0) {
		return nil, fmt.Errorf("order %s is %s: %w", id, order.OrderStatus, models.ErrConflictData)
	}

	// reservations are restored when an adjustment fails halfway
	products := maps.Clone(or.db.products)
	for _, productID := range req.RemoveProductIDs {
		if err := or.setQuantity(order, productID, 0); err != nil {
			or.db.products = products
			return nil, err
		}
	}
	for _, adj := range req.AdjustItems {
		qty := 0
		if adj.Quantity != nil && !adj.Remove {
			qty = *adj.Quantity
		}
		if err := or.setQuantity(order, adj.ProductID, qty); err != nil {
			or.db.products = products
			return nil, err
		}
	}
	order.TotalAmount = total(order.Items)

	ts := or.db.timestamp()
	if status := strings.ToUpper(req.CurrentStatus); status != "" && status != order.OrderStatus {
		or.changeStatus(order, status, ts, actor, "")
	}
	order.UpdatedAt = ts

	rec.order = *order
	or.db.orders[id] = rec
	return cloneOrder(rec.order), nil
}

// setQuantity sets quantity of the line for productID, zero removes it
func (or *OrderRepository) setQuantity(order *models.Order, productID uint64, qty int) error {
	idx := slices.IndexFunc(order.Items, func(item models.OrderItem) bool {
		return item.ProductID == productID
	})
	if idx == -1 {
		if qty == 0 {
			return nil
		}
		return fmt.Errorf("product %d is not in order %s: %w", productID, order.OrderID, models.ErrDataNotFound)
	}

	prec, ok := or.db.products[productID]
	delta := qty - order.Items[idx].Quantity
	if ok {
		if delta > prec.product.Available() {
			return models.ErrInsufficientStock
		}
		prec.product.Reserved += delta
		or.db.products[productID] = prec
	}

	if qty == 0 {
		order.Items = slices.Delete(order.Items, idx, idx+1)
		return nil
	}
	item := &order.Items[idx]
	item.Quantity = qty
	item.TotalPrice = item.UnitPrice.Mul(decimal.NewFromInt(int64(qty)))
	return nil
}

// changeStatus appends a history entry, the initial status is recorded first
// when the order has no history yet
func (or *OrderRepository) changeStatus(order *models.Order, status, ts, actor, description string) {
	if len(order.StatusHistory) == 0 {
		order.StatusHistory = append(order.StatusHistory, models.StatusUpdate{
			Status:    order.OrderStatus,
			ChangedAt: order.CreatedAt,
		})
	}
	order.StatusHistory = append(order.StatusHistory, models.StatusUpdate{
		Status:      status,
		ChangedAt:   ts,
		Description: description,
		Actor:       actor,
	})
	order.OrderStatus = status
}

// CancelOrder releases reservations, refunds completed payments and marks the order cancelled.
// It returns models.ErrOrderNotCancelable for orders past the cancelable statuses.
func (or *OrderRepository) CancelOrder(ctx context.Context, id, actor string) (*models.Order, error) {
	or.db.mu.Lock()
	defer or.db.mu.Unlock()

	rec, ok := or.db.orders[id]
	if !ok {
		return nil, models.ErrDataNotFound
	}
	order := cloneOrder(rec.order)
	if !models.IsCancelableStatus(order.OrderStatus) {
		return nil, fmt.Errorf("order %s is %s: %w", id, order.OrderStatus, models.ErrOrderNotCancelable)
	}

	for _, item := range order.Items {
		if prec, ok := or.db.products[item.ProductID]; ok {
			prec.product.Reserved = max(prec.product.Reserved-item.Quantity, 0)
			or.db.products[item.ProductID] = prec
		}
	}

	ts := or.db.timestamp()
	or.changeStatus(order, models.OrderStatusCancelled, ts, actor, "Order cancelled by request.")
	order.UpdatedAt = ts
	rec.order = *order
	or.db.orders[id] = rec

	for ref, prec := range or.db.payments {
		if prec.payment.OrderID == id && prec.payment.Status == models.PaymentStatusCompleted {
			prec.payment.Status = models.PaymentStatusRefunded
			prec.payment.RefundStatus = models.PaymentStatusCompleted
			prec.payment.RefundReason = "Order cancelled"
			prec.payment.UpdatedAt = ts
			or.db.payments[ref] = prec
		}
	}

	return cloneOrder(rec.order), nil
}

// AddNote records a fulfillment note. An empty recordedBy stores the note in the legacy text form.
func (or *OrderRepository) AddNote(ctx context.Context, id, note, recordedBy string) (*models.Order, error) {
	or.db.mu.Lock()
	defer or.db.mu.Unlock()

	rec, ok := or.db.orders[id]
	if !ok {
		return nil, models.ErrDataNotFound
	}
	order := cloneOrder(rec.order)

	if recordedBy == "" {
		order.FulfillmentNotes = append(order.FulfillmentNotes, models.FulfillmentNote{Note: note, Legacy: true})
	} else {
		noteID := fmt.Sprintf("N%d", or.db.nextID())
		order.FulfillmentNotes = append(order.FulfillmentNotes, models.FulfillmentNote{
			ID:         &noteID,
			Note:       note,
			CreatedAt:  or.db.timestamp(),
			RecordedBy: recordedBy,
		})
	}

	rec.order = *order
	or.db.orders[id] = rec
	return cloneOrder(rec.order), nil
}

func newItem(id uint64, product models.Product, qty int) models.OrderItem {
	return models.OrderItem{
		ID:          id,
		ProductID:   product.ID,
		ProductName: product.Name,
		UnitPrice:   product.Price,
		Quantity:    qty,
		TotalPrice:  product.Price.Mul(decimal.NewFromInt(int64(qty))),
	}
}

func total(items []models.OrderItem) decimal.Decimal {
	sum := decimal.Zero
	for _, item := range items {
		sum = sum.Add(item.TotalPrice)
	}
	return sum
}

func skuOf(p models.Product) string {
	if p.SKU != "" {
		return p.SKU
	}
	return fmt.Sprintf("PRODUCT-%d", p.ID)
}

// cloneOrder copies the slices so callers cannot alias stored state
func cloneOrder(o models.Order) *models.Order {
	o.Items = slices.Clone(o.Items)
	o.SkippedSKUs = slices.Clone(o.SkippedSKUs)
	o.StatusHistory = slices.Clone(o.StatusHistory)
	o.FulfillmentNotes = slices.Clone(o.FulfillmentNotes)
	return &o
}
