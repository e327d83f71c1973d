package models

import "github.com/shopspring/decimal"

// payment status
const (
	PaymentStatusPending   = "PENDING"
	PaymentStatusCompleted = "COMPLETED"
	PaymentStatusFailed    = "FAILED"
	PaymentStatusRefunded  = "REFUNDED"
)

// PaymentMethod is instrument a payment was made with
type PaymentMethod struct {
	Type           string `json:"type"`
	Last4          string `json:"last4,omitempty"`
	CardholderName string `json:"cardholderName,omitempty"`
	Provider       string `json:"provider,omitempty"`
}

// Payment is payment entity
type Payment struct {
	PaymentReference string          `json:"paymentReference"`
	OrderID          string          `json:"orderId"`
	Amount           decimal.Decimal `json:"amount"`
	Currency         string          `json:"currency"`
	Status           string          `json:"status"`
	CreatedAt        string          `json:"createdAt"`
	UpdatedAt        string          `json:"updatedAt"`
	Method           *PaymentMethod  `json:"method,omitempty"`
	RefundReason     string          `json:"refundReason,omitempty"`
	RefundStatus     string          `json:"refundStatus,omitempty"`
}

// RefundRequest is payload of POST /payments/{ref}/refund
type RefundRequest struct {
	Reason         string `json:"reason"`
	IdempotencyKey string `json:"idempotencyKey"`
}
