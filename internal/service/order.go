package service

import (
	"context"
	"fmt"
	"slices"

	"github.com/rookgm/storefront/internal/models"
	"github.com/rookgm/storefront/internal/orderview"
	"golang.org/x/sync/errgroup"
)

//go:generate mockgen -destination=mocks/order_api.go -package=mocks . OrderAPI

// OrderAPI is the part of the API client the order service needs
type OrderAPI interface {
	// MyOrders returns orders of the signed in user
	MyOrders(ctx context.Context) ([]models.Order, error)
	// Order returns order by id
	Order(ctx context.Context, id string) (*models.Order, error)
	// PaymentsByOrder returns payments of an order
	PaymentsByOrder(ctx context.Context, orderID string) ([]models.Payment, error)
	// CancelOrder requests order cancellation
	CancelOrder(ctx context.Context, id string) (string, error)
}

// OrderDetails is everything shown for a single order
type OrderDetails struct {
	Order    models.Order
	History  []orderview.DisplayStatus
	Notes    []orderview.DisplayNote
	Payments []models.Payment
	// PaymentsErr is set when payments could not be loaded, the rest of the
	// details are still valid.
	PaymentsErr error
}

// OrderService composes order views out of API calls
type OrderService struct {
	api OrderAPI
}

// NewOrderService creates new OrderService instance
func NewOrderService(api OrderAPI) *OrderService {
	return &OrderService{api: api}
}

// MyOrders returns orders of the signed in user, newest first
func (os *OrderService) MyOrders(ctx context.Context) ([]models.Order, error) {
	orders, err := os.api.MyOrders(ctx)
	if err != nil {
		return nil, err
	}

	sorted := slices.Clone(orders)
	slices.SortStableFunc(sorted, func(a, b models.Order) int {
		at, _ := orderview.ParseTimestamp(a.CreatedAt)
		bt, _ := orderview.ParseTimestamp(b.CreatedAt)
		return bt.Compare(at)
	})
	return sorted, nil
}

// Details loads order and, when withPayments is set, its payments concurrently
func (os *OrderService) Details(ctx context.Context, id string, withPayments bool) (*OrderDetails, error) {
	var (
		order       *models.Order
		payments    []models.Payment
		paymentsErr error
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		order, err = os.api.Order(ctx, id)
		return err
	})
	if withPayments {
		g.Go(func() error {
			payments, paymentsErr = os.api.PaymentsByOrder(ctx, id)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &OrderDetails{
		Order:       *order,
		History:     orderview.StatusHistory(*order),
		Notes:       orderview.FulfillmentNotes(*order),
		Payments:    payments,
		PaymentsErr: paymentsErr,
	}, nil
}

// Cancel requests cancellation of an order that is still cancelable
func (os *OrderService) Cancel(ctx context.Context, id string) (string, error) {
	order, err := os.api.Order(ctx, id)
	if err != nil {
		return "", err
	}
	if !models.IsCancelableStatus(order.OrderStatus) {
		return "", fmt.Errorf("%w: status %s", models.ErrOrderNotCancelable, order.OrderStatus)
	}
	return os.api.CancelOrder(ctx, id)
}
