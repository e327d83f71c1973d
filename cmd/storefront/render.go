package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rookgm/storefront/internal/models"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	headerStyle = lipgloss.NewStyle().Bold(true).Underline(true)
	mutedStyle  = lipgloss.NewStyle().Faint(true)
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))

	statusColors = map[string]lipgloss.Color{
		models.OrderStatusCreated:    lipgloss.Color("3"),
		models.OrderStatusPending:    lipgloss.Color("3"),
		models.OrderStatusPaid:       lipgloss.Color("4"),
		models.OrderStatusShipped:    lipgloss.Color("4"),
		models.OrderStatusDelivered:  lipgloss.Color("2"),
		models.OrderStatusFulfilled:  lipgloss.Color("2"),
		models.OrderStatusCompleted:  lipgloss.Color("2"),
		models.OrderStatusCanceled:   lipgloss.Color("1"),
		models.OrderStatusCancelled:  lipgloss.Color("1"),
		models.PaymentStatusFailed:   lipgloss.Color("1"),
		models.PaymentStatusRefunded: lipgloss.Color("5"),
	}
)

// status renders an order or payment status in its color
func status(s string) string {
	color, ok := statusColors[strings.ToUpper(s)]
	if !ok {
		return s
	}
	return lipgloss.NewStyle().Foreground(color).Bold(true).Render(s)
}

// table prints rows in aligned columns
type table struct {
	headers []string
	rows    [][]string
}

func newTable(headers ...string) *table {
	return &table{headers: headers}
}

func (t *table) add(cells ...string) {
	t.rows = append(t.rows, cells)
}

func (t *table) render(w io.Writer) {
	widths := make([]int, len(t.headers))
	for i, h := range t.headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range t.rows {
		for i, cell := range row {
			if i < len(widths) {
				widths[i] = max(widths[i], lipgloss.Width(cell))
			}
		}
	}

	line := func(cells []string, style *lipgloss.Style) {
		var sb strings.Builder
		for i, cell := range cells {
			if i >= len(widths) {
				break
			}
			pad := widths[i] - lipgloss.Width(cell)
			if style != nil {
				cell = style.Render(cell)
			}
			sb.WriteString(cell)
			if i < len(cells)-1 {
				sb.WriteString(strings.Repeat(" ", pad+2))
			}
		}
		fmt.Fprintln(w, sb.String())
	}

	line(t.headers, &headerStyle)
	for _, row := range t.rows {
		line(row, nil)
	}
}

func orZero(s, zero string) string {
	if s == "" {
		return mutedStyle.Render(zero)
	}
	return s
}
