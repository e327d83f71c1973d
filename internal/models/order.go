package models

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// order status
const (
	OrderStatusCreated   = "CREATED"
	OrderStatusPending   = "PENDING"
	OrderStatusPaid      = "PAID"
	OrderStatusShipped   = "SHIPPED"
	OrderStatusDelivered = "DELIVERED"
	OrderStatusFulfilled = "FULFILLED"
	OrderStatusCompleted = "COMPLETED"
	OrderStatusCanceled  = "CANCELED"
	OrderStatusCancelled = "CANCELLED"
)

var nonCancelableStatuses = map[string]struct{}{
	OrderStatusCanceled:  {},
	OrderStatusCancelled: {},
	OrderStatusShipped:   {},
	OrderStatusDelivered: {},
	OrderStatusFulfilled: {},
	OrderStatusCompleted: {},
}

// IsCancelableStatus reports whether an order in status can still be cancelled.
func IsCancelableStatus(status string) bool {
	if status == "" {
		return false
	}
	_, final := nonCancelableStatuses[strings.ToUpper(status)]
	return !final
}

// Order is order entity as returned by the API.
// Timestamps are kept as sent, the backend does not always include a zone.
type Order struct {
	OrderID             string            `json:"orderId"`
	UserID              uint64            `json:"userId"`
	TotalAmount         decimal.Decimal   `json:"totalAmount"`
	OrderStatus         string            `json:"orderStatus"`
	CreatedAt           string            `json:"createdAt"`
	UpdatedAt           string            `json:"updatedAt"`
	Items               []OrderItem       `json:"items"`
	SkippedSKUs         []string          `json:"skippedSkus,omitempty"`
	HasBackorderedItems bool              `json:"hasBackorderedItems"`
	StatusHistory       []StatusUpdate    `json:"statusHistory,omitempty"`
	FulfillmentNotes    []FulfillmentNote `json:"fulfillmentNotes,omitempty"`
}

// OrderItem is a line of an order
type OrderItem struct {
	ID          uint64          `json:"id"`
	ProductID   uint64          `json:"productId"`
	ProductName string          `json:"productName"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Quantity    int             `json:"quantity"`
	TotalPrice  decimal.Decimal `json:"totalPrice"`
}

// StatusUpdate is one entry of an order status history
type StatusUpdate struct {
	Status      string `json:"status"`
	ChangedAt   string `json:"changedAt"`
	Description string `json:"description,omitempty"`
	Actor       string `json:"actor,omitempty"`
}

// FulfillmentNote is a note recorded by operations.
// Older backends send notes as plain strings, those decode with Legacy set.
type FulfillmentNote struct {
	// ID is nil when the backend sent no id.
	ID         *string
	Note       string
	CreatedAt  string
	RecordedBy string
	Legacy     bool
}

type fulfillmentNoteJSON struct {
	ID         json.RawMessage `json:"id,omitempty"`
	Note       string          `json:"note"`
	CreatedAt  string          `json:"createdAt,omitempty"`
	RecordedBy string          `json:"recordedBy,omitempty"`
}

func (n *FulfillmentNote) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var text string
		if err := json.Unmarshal(data, &text); err != nil {
			return err
		}
		*n = FulfillmentNote{Note: text, Legacy: true}
		return nil
	}

	var raw fulfillmentNoteJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*n = FulfillmentNote{
		Note:       raw.Note,
		CreatedAt:  raw.CreatedAt,
		RecordedBy: raw.RecordedBy,
	}

	// id is either a string or a number
	id := bytes.TrimSpace(raw.ID)
	switch {
	case len(id) == 0, string(id) == "null":
	case id[0] == '"':
		var s string
		if err := json.Unmarshal(id, &s); err != nil {
			return err
		}
		n.ID = &s
	default:
		s := string(id)
		n.ID = &s
	}

	return nil
}

func (n FulfillmentNote) MarshalJSON() ([]byte, error) {
	if n.Legacy {
		return json.Marshal(n.Note)
	}
	raw := fulfillmentNoteJSON{
		Note:       n.Note,
		CreatedAt:  n.CreatedAt,
		RecordedBy: n.RecordedBy,
	}
	if n.ID != nil {
		id, err := json.Marshal(*n.ID)
		if err != nil {
			return nil, err
		}
		raw.ID = id
	}
	return json.Marshal(raw)
}

// OrderItemAdjustment changes quantity of an order line or removes it
type OrderItemAdjustment struct {
	ProductID uint64 `json:"productId"`
	Quantity  *int   `json:"quantity,omitempty"`
	Remove    bool   `json:"remove,omitempty"`
}

// PaymentMethodRequest describes how a new order is paid
type PaymentMethodRequest struct {
	Type              string `json:"type"`
	InstrumentID      string `json:"instrumentId,omitempty"`
	ProviderReference string `json:"providerReference,omitempty"`
	Last4             string `json:"last4,omitempty"`
	CardholderName    string `json:"cardholderName,omitempty"`
}

// OrderCreateRequest is payload of POST /orders
type OrderCreateRequest struct {
	Items         []OrderItemAdjustment `json:"items"`
	Currency      string                `json:"currency"`
	PaymentMethod PaymentMethodRequest  `json:"paymentMethod"`
}

// OrderUpdateRequest is payload of PUT /orders/{id}
type OrderUpdateRequest struct {
	RemoveProductIDs []uint64              `json:"removeProductIds,omitempty"`
	AdjustItems      []OrderItemAdjustment `json:"adjustItems,omitempty"`
	CurrentStatus    string                `json:"currentStatus,omitempty"`
}
