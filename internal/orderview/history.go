// Package orderview rebuilds the status timeline and fulfillment notes of an
// order for display. Entries the backend did not send are derived from the
// order fields, every entry gets an id that is stable across reloads.
package orderview

import (
	"fmt"
	"slices"
	"time"

	"github.com/rookgm/storefront/internal/models"
)

// DisplayStatus is one entry of an order timeline
type DisplayStatus struct {
	ID          string
	Status      string
	ChangedAt   string
	Description string
	Actor       string
	// Derived is set for entries built locally rather than received.
	Derived bool
}

const (
	createdDescription = "Order submitted and awaiting processing."
	currentDescription = "Latest status reported by the service."
)

// timestampLayouts are tried in order, zone-less values are read as UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// StatusHistory returns the order timeline, most recent first.
func StatusHistory(order models.Order) []DisplayStatus {
	if len(order.StatusHistory) > 0 {
		return sortedHistory(order)
	}

	history := []DisplayStatus{{
		ID:          fmt.Sprintf("%s-created", order.OrderID),
		Status:      models.OrderStatusCreated,
		ChangedAt:   order.CreatedAt,
		Description: createdDescription,
		Derived:     true,
	}}

	// no second entry for an order that never moved
	if order.OrderStatus != models.OrderStatusCreated || order.UpdatedAt != order.CreatedAt {
		history = append(history, DisplayStatus{
			ID:          fmt.Sprintf("%s-current", order.OrderID),
			Status:      order.OrderStatus,
			ChangedAt:   order.UpdatedAt,
			Description: currentDescription,
			Derived:     true,
		})
	}

	return history
}

type timedStatus struct {
	DisplayStatus
	at     time.Time
	parsed bool
}

func sortedHistory(order models.Order) []DisplayStatus {
	entries := make([]timedStatus, 0, len(order.StatusHistory))
	for i, update := range order.StatusHistory {
		at, ok := ParseTimestamp(update.ChangedAt)
		entries = append(entries, timedStatus{
			DisplayStatus: DisplayStatus{
				ID:          fmt.Sprintf("%s-status-%d", order.OrderID, i),
				Status:      update.Status,
				ChangedAt:   update.ChangedAt,
				Description: update.Description,
				Actor:       update.Actor,
			},
			at:     at,
			parsed: ok,
		})
	}

	// equal timestamps keep input order, unparsable ones go last
	slices.SortStableFunc(entries, func(a, b timedStatus) int {
		switch {
		case a.parsed && b.parsed:
			return b.at.Compare(a.at)
		case a.parsed:
			return -1
		case b.parsed:
			return 1
		default:
			return 0
		}
	})

	history := make([]DisplayStatus, len(entries))
	for i, entry := range entries {
		history[i] = entry.DisplayStatus
	}
	return history
}

// ParseTimestamp reads an API timestamp, with or without zone.
func ParseTimestamp(value string) (time.Time, bool) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
