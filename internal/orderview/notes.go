package orderview

import (
	"fmt"
	"strings"

	"github.com/rookgm/storefront/internal/models"
)

// DisplayNote is a fulfillment note ready for display
type DisplayNote struct {
	ID         string
	Text       string
	CreatedAt  string
	RecordedBy string
	Derived    bool
}

const backorderNote = "Operations flagged this order for backorder handling. " +
	"You will receive shipment alerts as soon as inventory is released."

// FulfillmentNotes returns the notes recorded for the order, or advisories
// derived from its backorder and skipped SKU flags when none were recorded.
func FulfillmentNotes(order models.Order) []DisplayNote {
	if len(order.FulfillmentNotes) > 0 {
		notes := make([]DisplayNote, 0, len(order.FulfillmentNotes))
		for i, note := range order.FulfillmentNotes {
			notes = append(notes, providedNote(order.OrderID, i, note))
		}
		return notes
	}

	var derived []DisplayNote
	if order.HasBackorderedItems {
		derived = append(derived, DisplayNote{
			ID:      fmt.Sprintf("%s-backorder", order.OrderID),
			Text:    backorderNote,
			Derived: true,
		})
	}
	if len(order.SkippedSKUs) > 0 {
		derived = append(derived, DisplayNote{
			ID:      fmt.Sprintf("%s-skipped", order.OrderID),
			Text:    fmt.Sprintf("The following SKUs could not be reserved: %s.", strings.Join(order.SkippedSKUs, ", ")),
			Derived: true,
		})
	}
	return derived
}

func providedNote(orderID string, index int, note models.FulfillmentNote) DisplayNote {
	if note.Legacy {
		return DisplayNote{
			ID:   fmt.Sprintf("%s-note-%d", orderID, index),
			Text: note.Note,
		}
	}

	key := fmt.Sprint(index)
	if note.ID != nil {
		key = *note.ID
	}
	return DisplayNote{
		ID:         fmt.Sprintf("%s-note-%s", orderID, key),
		Text:       note.Note,
		CreatedAt:  note.CreatedAt,
		RecordedBy: note.RecordedBy,
	}
}
