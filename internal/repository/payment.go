package repository

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/rookgm/storefront/internal/models"
)

type paymentRecord struct {
	payment models.Payment
	seq     uint64
}

// addPayment stores the payment of a new order, callers hold the write lock.
// Orders without a payment method stay pending.
func (db *DB) addPayment(order models.Order, req models.OrderCreateRequest) {
	db.paymentSeq++
	currency := req.Currency
	if currency == "" {
		currency = "USD"
	}

	payment := models.Payment{
		PaymentReference: fmt.Sprintf("PAY-%06d", db.paymentSeq),
		OrderID:          order.OrderID,
		Amount:           order.TotalAmount,
		Currency:         currency,
		Status:           models.PaymentStatusPending,
		CreatedAt:        order.CreatedAt,
		UpdatedAt:        order.CreatedAt,
	}
	if pm := req.PaymentMethod; pm.Type != "" {
		payment.Status = models.PaymentStatusCompleted
		payment.Method = &models.PaymentMethod{
			Type:           pm.Type,
			Last4:          pm.Last4,
			CardholderName: pm.CardholderName,
			Provider:       pm.ProviderReference,
		}
	}

	db.payments[payment.PaymentReference] = paymentRecord{payment: payment, seq: db.paymentSeq}
}

// PaymentRepository implements payment storage
type PaymentRepository struct {
	db *DB
}

// NewPaymentRepository creates new PaymentRepository instance
func NewPaymentRepository(db *DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// ListByOrder returns payments of order, oldest first
func (pr *PaymentRepository) ListByOrder(ctx context.Context, orderID string) ([]models.Payment, error) {
	pr.db.mu.RLock()
	defer pr.db.mu.RUnlock()

	if _, ok := pr.db.orders[orderID]; !ok {
		return nil, models.ErrDataNotFound
	}

	var recs []paymentRecord
	for _, rec := range pr.db.payments {
		if rec.payment.OrderID == orderID {
			recs = append(recs, rec)
		}
	}
	slices.SortFunc(recs, func(a, b paymentRecord) int {
		return cmp.Compare(a.seq, b.seq)
	})

	payments := make([]models.Payment, 0, len(recs))
	for _, rec := range recs {
		payments = append(payments, rec.payment)
	}
	return payments, nil
}

// GetPayment returns payment by reference
func (pr *PaymentRepository) GetPayment(ctx context.Context, ref string) (*models.Payment, error) {
	pr.db.mu.RLock()
	defer pr.db.mu.RUnlock()

	rec, ok := pr.db.payments[ref]
	if !ok {
		return nil, models.ErrDataNotFound
	}
	payment := rec.payment
	return &payment, nil
}

// Refund marks a completed payment refunded. Repeating a refund with the same
// idempotency key returns the already refunded payment.
func (pr *PaymentRepository) Refund(ctx context.Context, ref string, req models.RefundRequest) (*models.Payment, error) {
	pr.db.mu.Lock()
	defer pr.db.mu.Unlock()

	rec, ok := pr.db.payments[ref]
	if !ok {
		return nil, models.ErrDataNotFound
	}

	if req.IdempotencyKey != "" {
		if prev, seen := pr.db.refunds[req.IdempotencyKey]; seen {
			if prev != ref {
				return nil, fmt.Errorf("idempotency key used for %s: %w", prev, models.ErrConflictData)
			}
			payment := rec.payment
			return &payment, nil
		}
	}

	if rec.payment.Status != models.PaymentStatusCompleted {
		return nil, fmt.Errorf("payment %s is %s: %w", ref, rec.payment.Status, models.ErrConflictData)
	}

	rec.payment.Status = models.PaymentStatusRefunded
	rec.payment.RefundStatus = models.PaymentStatusCompleted
	rec.payment.RefundReason = req.Reason
	rec.payment.UpdatedAt = pr.db.timestamp()
	pr.db.payments[ref] = rec
	if req.IdempotencyKey != "" {
		pr.db.refunds[req.IdempotencyKey] = ref
	}

	payment := rec.payment
	return &payment, nil
}
