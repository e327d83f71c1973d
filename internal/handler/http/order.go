package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rookgm/storefront/internal/models"
)

//go:generate mockgen -destination=mocks/order_store.go -package=mocks . OrderStore

type OrderStore interface {
	CreateOrder(ctx context.Context, userID uint64, req models.OrderCreateRequest) (*models.Order, error)
	GetOrder(ctx context.Context, id string) (*models.Order, error)
	ListUserOrders(ctx context.Context, userID uint64) ([]models.Order, error)
	ListOrders(ctx context.Context, q models.PageQuery) models.Page[models.Order]
	UpdateOrder(ctx context.Context, id string, req models.OrderUpdateRequest, actor string) (*models.Order, error)
	CancelOrder(ctx context.Context, id, actor string) (*models.Order, error)
}

// OrderHandler represents HTTP handler for order-related requests
type OrderHandler struct {
	store OrderStore
}

// NewOrderHandler creates new OrderHandler instance
func NewOrderHandler(store OrderStore) *OrderHandler {
	return &OrderHandler{store: store}
}

// CreateOrder places order for the token owner
// 201: order created, possibly with skipped or backordered lines.
// 404: unknown product.
// 409: nothing could be reserved, gateway-wrapped inventory failure.
// 422: no items.
func (oh *OrderHandler) CreateOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, ok := getAuthPayload(r.Context())
		if !ok {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		var req models.OrderCreateRequest
		if !decodeBody(w, r, &req) {
			return
		}
		if violations := validateOrder(req); len(violations) > 0 {
			writeViolations(w, violations)
			return
		}

		order, err := oh.store.CreateOrder(r.Context(), payload.UserID, req)
		switch {
		case errors.Is(err, models.ErrInsufficientStock):
			writeGateway(w, http.StatusConflict, http.MethodPost,
				inventoryURL+"/reserve", "InventoryClient#reserve(ReservationRequest)",
				"Insufficient stock for requested items")
		case errors.Is(err, models.ErrDataNotFound):
			writeMessage(w, r, http.StatusNotFound, "Product not found")
		case err != nil:
			w.WriteHeader(http.StatusInternalServerError)
		default:
			writeJSON(w, http.StatusCreated, order)
		}
	}
}

// MyOrders returns orders of the token owner
func (oh *OrderHandler) MyOrders() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, ok := getAuthPayload(r.Context())
		if !ok {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		orders, err := oh.store.ListUserOrders(r.Context(), payload.UserID)
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, orders)
	}
}

// ListOrders returns page of all orders
func (oh *OrderHandler) ListOrders() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q, violations := parsePageQuery(r)
		if len(violations) > 0 {
			writeViolations(w, violations)
			return
		}
		writeJSON(w, http.StatusOK, oh.store.ListOrders(r.Context(), q))
	}
}

// GetOrder returns order visible to the token owner
// 200: order found.
// 403: order of another user, empty body.
// 404: no such order.
func (oh *OrderHandler) GetOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		order, ok := oh.loadOwned(w, r)
		if !ok {
			return
		}
		writeJSON(w, http.StatusOK, order)
	}
}

// UpdateOrder adjusts items of an order. Status changes are reserved for administrators.
func (oh *OrderHandler) UpdateOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := oh.loadOwned(w, r); !ok {
			return
		}
		payload, _ := getAuthPayload(r.Context())

		var req models.OrderUpdateRequest
		if !decodeBody(w, r, &req) {
			return
		}
		if req.CurrentStatus != "" && !models.IsAdminRole(payload.Role) {
			w.WriteHeader(http.StatusForbidden)
			return
		}

		id := chi.URLParam(r, "id")
		order, err := oh.store.UpdateOrder(r.Context(), id, req, payload.Email)
		switch {
		case errors.Is(err, models.ErrInsufficientStock):
			writeGateway(w, http.StatusConflict, http.MethodPost,
				inventoryURL+"/reserve", "InventoryClient#reserve(ReservationRequest)",
				"Insufficient stock for requested items")
		case errors.Is(err, models.ErrDataNotFound):
			writeMessage(w, r, http.StatusNotFound, "Product is not part of the order")
		case errors.Is(err, models.ErrConflictData):
			writeMessage(w, r, http.StatusConflict, fmt.Sprintf("Order %s can no longer be changed", id))
		case err != nil:
			w.WriteHeader(http.StatusInternalServerError)
		default:
			writeJSON(w, http.StatusOK, order)
		}
	}
}

// CancelOrder cancels an order and answers with a text confirmation
// 200: cancelled, text body.
// 409: order past cancelable statuses, {"message"} body.
func (oh *OrderHandler) CancelOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		current, ok := oh.loadOwned(w, r)
		if !ok {
			return
		}
		payload, _ := getAuthPayload(r.Context())

		order, err := oh.store.CancelOrder(r.Context(), current.OrderID, payload.Email)
		switch {
		case errors.Is(err, models.ErrOrderNotCancelable):
			writeMessage(w, r, http.StatusConflict,
				fmt.Sprintf("Order %s cannot be cancelled in status %s", current.OrderID, current.OrderStatus))
		case errors.Is(err, models.ErrDataNotFound):
			writeMessage(w, r, http.StatusNotFound, fmt.Sprintf("Order %s not found", current.OrderID))
		case err != nil:
			w.WriteHeader(http.StatusInternalServerError)
		default:
			writeText(w, http.StatusOK, fmt.Sprintf("Order %s cancelled", order.OrderID))
		}
	}
}

// loadOwned loads the order named in the path and checks the token owner may see it.
// On failure the response is already written.
func (oh *OrderHandler) loadOwned(w http.ResponseWriter, r *http.Request) (*models.Order, bool) {
	payload, ok := getAuthPayload(r.Context())
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		return nil, false
	}

	id := chi.URLParam(r, "id")
	order, err := oh.store.GetOrder(r.Context(), id)
	if err != nil {
		if errors.Is(err, models.ErrDataNotFound) {
			writeMessage(w, r, http.StatusNotFound, fmt.Sprintf("Order %s not found", id))
			return nil, false
		}
		w.WriteHeader(http.StatusInternalServerError)
		return nil, false
	}

	if order.UserID != payload.UserID && !models.IsAdminRole(payload.Role) {
		w.WriteHeader(http.StatusForbidden)
		return nil, false
	}
	return order, true
}

func validateOrder(req models.OrderCreateRequest) []violation {
	if len(req.Items) == 0 {
		return []violation{{Field: "items", Message: "Order must contain at least one item"}}
	}
	var violations []violation
	for i, item := range req.Items {
		if item.Quantity != nil && *item.Quantity <= 0 {
			violations = append(violations, violation{
				Field:   fmt.Sprintf("items[%d].quantity", i),
				Message: "Quantity must be positive",
			})
		}
	}
	return violations
}
