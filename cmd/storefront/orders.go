package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rookgm/storefront/internal/models"
	"github.com/rookgm/storefront/internal/orderview"
	"github.com/rookgm/storefront/internal/service"
	"github.com/rookgm/storefront/internal/worker"
	"github.com/spf13/cobra"
)

func newOrdersCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "orders",
		Short: "Browse, place and cancel orders",
	}
	cmd.AddCommand(
		newOrdersMineCmd(a),
		newOrdersListCmd(a),
		newOrdersShowCmd(a),
		newOrdersCreateCmd(a),
		newOrdersCancelCmd(a),
		newOrdersWatchCmd(a),
	)
	return cmd
}

func newOrdersMineCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "mine",
		Short: "List your orders, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			orders, err := service.NewOrderService(a.api).MyOrders(cmd.Context())
			if err != nil {
				return err
			}
			a.printOrders(orders)
			return nil
		},
	}
}

func newOrdersListCmd(a *app) *cobra.Command {
	var pq pageFlags

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all orders (administrators)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			page, err := a.api.ListOrders(cmd.Context(), pq.query(cmd))
			if err != nil {
				return err
			}
			a.printOrders(page.Content)
			a.printPage(page.PageNo, page.TotalPages, page.TotalElements)
			return nil
		},
	}
	pq.register(cmd)
	return cmd
}

func (a *app) printOrders(orders []models.Order) {
	if len(orders) == 0 {
		a.printf("No orders yet\n")
		return
	}
	t := newTable("ORDER", "STATUS", "TOTAL", "ITEMS", "CREATED")
	for _, o := range orders {
		t.add(o.OrderID, status(o.OrderStatus), o.TotalAmount.StringFixed(2), strconv.Itoa(len(o.Items)), orZero(o.CreatedAt, "-"))
	}
	t.render(a.out)
}

func newOrdersShowCmd(a *app) *cobra.Command {
	var withPayments bool

	cmd := &cobra.Command{
		Use:   "show ORDER_ID",
		Short: "Show an order with its status timeline and fulfillment notes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			details, err := service.NewOrderService(a.api).Details(cmd.Context(), args[0], withPayments)
			if err != nil {
				return err
			}
			a.printDetails(details, withPayments)
			return nil
		},
	}
	cmd.Flags().BoolVar(&withPayments, "payments", true, "also load payments of the order")
	return cmd
}

func (a *app) printDetails(d *service.OrderDetails, withPayments bool) {
	o := d.Order
	a.printf("%s  %s\n", titleStyle.Render("Order "+o.OrderID), status(o.OrderStatus))
	a.printf("created %s, updated %s, total %s\n\n", orZero(o.CreatedAt, "-"), orZero(o.UpdatedAt, "-"), o.TotalAmount.StringFixed(2))

	items := newTable("PRODUCT", "QTY", "UNIT", "TOTAL")
	for _, item := range o.Items {
		items.add(item.ProductName, strconv.Itoa(item.Quantity), item.UnitPrice.StringFixed(2), item.TotalPrice.StringFixed(2))
	}
	items.render(a.out)

	a.printf("\n%s\n", titleStyle.Render("Timeline"))
	for _, entry := range d.History {
		a.printf("  %s  %s", orZero(entry.ChangedAt, "unknown time"), status(entry.Status))
		if entry.Actor != "" {
			a.printf(" by %s", entry.Actor)
		}
		a.printf("\n")
		if entry.Description != "" {
			a.printf("      %s\n", mutedStyle.Render(entry.Description))
		}
	}

	if len(d.Notes) > 0 {
		a.printf("\n%s\n", titleStyle.Render("Fulfillment notes"))
		for _, note := range d.Notes {
			text := note.Text
			if note.Derived {
				text = warnStyle.Render(text)
			}
			a.printf("  - %s\n", text)
			if note.RecordedBy != "" || note.CreatedAt != "" {
				a.printf("    %s\n", mutedStyle.Render(strings.TrimSpace(note.RecordedBy+" "+note.CreatedAt)))
			}
		}
	}

	if !withPayments {
		return
	}
	a.printf("\n%s\n", titleStyle.Render("Payments"))
	if d.PaymentsErr != nil {
		a.printf("  %s\n", warnStyle.Render("Payments unavailable: "+d.PaymentsErr.Error()))
		return
	}
	a.printPayments(d.Payments)
}

func newOrdersCreateCmd(a *app) *cobra.Command {
	var (
		items    []string
		currency string
		method   models.PaymentMethodRequest
	)

	cmd := &cobra.Command{
		Use:     "create",
		Short:   "Place an order",
		Example: "  storefront orders create --item 4:2 --item 5 --pay CARD --last4 4242",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req := models.OrderCreateRequest{Currency: currency, PaymentMethod: method}
			for _, spec := range items {
				item, err := parseItem(spec)
				if err != nil {
					return err
				}
				req.Items = append(req.Items, item)
			}

			order, err := a.api.CreateOrder(cmd.Context(), req)
			if err != nil {
				return err
			}
			a.printf("Placed order %s, total %s %s\n", order.OrderID, order.TotalAmount.StringFixed(2), currency)
			for _, note := range orderview.FulfillmentNotes(*order) {
				a.printf("%s\n", warnStyle.Render(note.Text))
			}
			return nil
		},
	}
	cmd.Flags().StringArrayVarP(&items, "item", "i", nil, "PRODUCT_ID[:QUANTITY], repeatable")
	cmd.Flags().StringVar(&currency, "currency", "USD", "order currency")
	cmd.Flags().StringVar(&method.Type, "pay", "", "payment method type, e.g. CARD")
	cmd.Flags().StringVar(&method.Last4, "last4", "", "last four digits of the card")
	cmd.Flags().StringVar(&method.CardholderName, "cardholder", "", "name on the card")
	_ = cmd.MarkFlagRequired("item")
	return cmd
}

// parseItem reads PRODUCT_ID[:QUANTITY]
func parseItem(spec string) (models.OrderItemAdjustment, error) {
	idText, qtyText, hasQty := strings.Cut(spec, ":")
	id, err := strconv.ParseUint(idText, 10, 64)
	if err != nil {
		return models.OrderItemAdjustment{}, fmt.Errorf("item %q: invalid product id", spec)
	}
	item := models.OrderItemAdjustment{ProductID: id}
	if hasQty {
		qty, err := strconv.Atoi(qtyText)
		if err != nil || qty <= 0 {
			return models.OrderItemAdjustment{}, fmt.Errorf("item %q: quantity must be a positive number", spec)
		}
		item.Quantity = &qty
	}
	return item, nil
}

func newOrdersCancelCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "cancel ORDER_ID",
		Short: "Cancel an order that has not shipped",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			msg, err := service.NewOrderService(a.api).Cancel(cmd.Context(), args[0])
			if err != nil {
				if errors.Is(err, models.ErrOrderNotCancelable) {
					return fmt.Errorf("order %s: %w", args[0], err)
				}
				return err
			}
			a.printf("%s\n", orZero(msg, "Order "+args[0]+" cancelled"))
			return nil
		},
	}
}

func newOrdersWatchCmd(a *app) *cobra.Command {
	var interval time.Duration

	cmd := &cobra.Command{
		Use:   "watch ORDER_ID",
		Short: "Print status changes of an order until it ships or is cancelled",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			watcher := worker.NewOrderWatcher(a.api, interval)
			return watcher.Watch(cmd.Context(), args[0], func(entry orderview.DisplayStatus) {
				a.printf("%s  %s", orZero(entry.ChangedAt, "unknown time"), status(entry.Status))
				if entry.Description != "" {
					a.printf("  %s", mutedStyle.Render(entry.Description))
				}
				a.printf("\n")
			})
		},
	}
	cmd.Flags().DurationVar(&interval, "interval", 5*time.Second, "poll interval")
	return cmd
}

// pageFlags are the listing flags shared by list commands
type pageFlags struct {
	pageNo   int
	pageSize int
	sortBy   string
	sortDir  string
	search   string
}

func (p *pageFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&p.pageNo, "page", 0, "page number, starting at 0")
	cmd.Flags().IntVar(&p.pageSize, "size", 20, "page size")
	cmd.Flags().StringVar(&p.sortBy, "sort-by", "", "sort field")
	cmd.Flags().StringVar(&p.sortDir, "sort-dir", "", "sort direction, asc or desc")
	cmd.Flags().StringVarP(&p.search, "search", "s", "", "search text")
}

// query sends only the paging flags set on the command line
func (p *pageFlags) query(cmd *cobra.Command) models.PageQuery {
	q := models.PageQuery{SortBy: p.sortBy, SortDir: p.sortDir, Search: p.search}
	if cmd.Flags().Changed("page") {
		q.PageNo = &p.pageNo
	}
	if cmd.Flags().Changed("size") {
		q.PageSize = &p.pageSize
	}
	return q
}

func (a *app) printPage(pageNo, totalPages int, total int64) {
	a.printf("%s\n", mutedStyle.Render(fmt.Sprintf("page %d of %d, %d total", pageNo+1, max(totalPages, 1), total)))
}
