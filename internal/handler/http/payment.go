package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rookgm/storefront/internal/models"
)

type PaymentStore interface {
	ListByOrder(ctx context.Context, orderID string) ([]models.Payment, error)
	GetPayment(ctx context.Context, ref string) (*models.Payment, error)
	Refund(ctx context.Context, ref string, req models.RefundRequest) (*models.Payment, error)
}

// PaymentHandler represents HTTP handler for payment requests
type PaymentHandler struct {
	payments PaymentStore
	orders   *OrderHandler
}

// NewPaymentHandler creates new PaymentHandler instance.
// Order ownership is checked through orders.
func NewPaymentHandler(payments PaymentStore, orders *OrderHandler) *PaymentHandler {
	return &PaymentHandler{payments: payments, orders: orders}
}

// PaymentsByOrder returns payments of an order visible to the token owner
func (ph *PaymentHandler) PaymentsByOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		order, ok := ph.orders.loadOwned(w, r)
		if !ok {
			return
		}

		payments, err := ph.payments.ListByOrder(r.Context(), order.OrderID)
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, payments)
	}
}

// GetPayment returns payment by reference
func (ph *PaymentHandler) GetPayment() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ref := chi.URLParam(r, "ref")

		payment, err := ph.payments.GetPayment(r.Context(), ref)
		if err != nil {
			ph.writeStoreError(w, r, err, ref)
			return
		}
		writeJSON(w, http.StatusOK, payment)
	}
}

// Refund refunds a completed payment
// 200: refunded, repeated keys return the same payment.
// 409: payment cannot be refunded, {"error"} body.
// 422: reason or idempotency key missing.
func (ph *PaymentHandler) Refund() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ref := chi.URLParam(r, "ref")

		var req models.RefundRequest
		if !decodeBody(w, r, &req) {
			return
		}
		if req.IdempotencyKey == "" {
			req.IdempotencyKey = r.Header.Get("Idempotency-Key")
		}

		var violations []violation
		if strings.TrimSpace(req.Reason) == "" {
			violations = append(violations, violation{Field: "reason", Message: "Refund reason is required"})
		}
		if req.IdempotencyKey == "" {
			violations = append(violations, violation{Field: "idempotencyKey", Message: "Idempotency key is required"})
		}
		if len(violations) > 0 {
			writeViolations(w, violations)
			return
		}

		payment, err := ph.payments.Refund(r.Context(), ref, req)
		if err != nil {
			ph.writeStoreError(w, r, err, ref)
			return
		}
		writeJSON(w, http.StatusOK, payment)
	}
}

func (ph *PaymentHandler) writeStoreError(w http.ResponseWriter, r *http.Request, err error, ref string) {
	switch {
	case errors.Is(err, models.ErrDataNotFound):
		writeMessage(w, r, http.StatusNotFound, fmt.Sprintf("Payment %s not found", ref))
	case errors.Is(err, models.ErrConflictData):
		writeError(w, http.StatusConflict, fmt.Sprintf("Payment %s cannot be refunded", ref))
	default:
		w.WriteHeader(http.StatusInternalServerError)
	}
}
