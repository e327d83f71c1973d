package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/rookgm/storefront/internal/apierr"
	"github.com/rookgm/storefront/internal/auth"
	"github.com/rookgm/storefront/internal/client"
	"github.com/rookgm/storefront/internal/models"
	"github.com/rookgm/storefront/internal/orderview"
	"github.com/rookgm/storefront/internal/repository"
	"github.com/rookgm/storefront/internal/service"
	"github.com/rookgm/storefront/internal/tokenstore"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// newSeededStub starts seeded stub whose clock advances a minute per timestamp
func newSeededStub(t *testing.T) *httptest.Server {
	t.Helper()

	db := repository.New()
	base := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	tick := 0
	db.SetClock(func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	})

	stub := New(db, auth.NewAuthToken([]byte("test-key")), zap.NewNop())
	require.NoError(t, stub.Seed(context.Background()))

	srv := httptest.NewServer(stub)
	t.Cleanup(srv.Close)
	return srv
}

// signedIn returns client holding a token of the demo account
func signedIn(t *testing.T, srv *httptest.Server, email, password string) *client.Client {
	t.Helper()
	tokens := tokenstore.NewMemory("")
	c := client.New(srv.URL, client.WithHTTPClient(srv.Client()), client.WithTokenSource(tokens))

	resp, err := c.SignIn(context.Background(), models.LoginRequest{Email: email, Password: password})
	require.NoError(t, err)
	assert.Equal(t, "Bearer", resp.TokenType)
	require.NoError(t, tokens.Set(resp.Token))
	return c
}

func TestStub_SeededOrderDetails(t *testing.T) {
	srv := newSeededStub(t)
	c := signedIn(t, srv, "shopper@storefront.local", "shopper123")
	ctx := context.Background()

	orders, err := service.NewOrderService(c).MyOrders(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 1)

	order := orders[0]
	assert.Equal(t, "ORD-000001", order.OrderID)
	assert.Equal(t, models.OrderStatusShipped, order.OrderStatus)
	assert.Equal(t, []string{"KIT-FILTERS"}, order.SkippedSKUs)
	assert.True(t, order.HasBackorderedItems)
	assert.True(t, decimal.RequireFromString("61.90").Equal(order.TotalAmount), order.TotalAmount.String())

	details, err := service.NewOrderService(c).Details(ctx, order.OrderID, true)
	require.NoError(t, err)
	require.NoError(t, details.PaymentsErr)

	wantHistory := []orderview.DisplayStatus{
		{ID: "ORD-000001-status-2", Status: "SHIPPED", ChangedAt: "2024-05-01T09:03:00", Actor: "admin@storefront.local"},
		{ID: "ORD-000001-status-1", Status: "PAID", ChangedAt: "2024-05-01T09:02:00", Actor: "admin@storefront.local"},
		{ID: "ORD-000001-status-0", Status: "CREATED", ChangedAt: "2024-05-01T09:01:00"},
	}
	if diff := cmp.Diff(wantHistory, details.History); diff != "" {
		t.Errorf("history mismatch (-want +got):\n%s", diff)
	}

	wantNotes := []orderview.DisplayNote{
		{ID: "ORD-000001-note-0", Text: "Packed in a single box."},
		{
			ID:         "ORD-000001-note-N10",
			Text:       "Handed to carrier, tracking 1Z999AA10123456784.",
			CreatedAt:  "2024-05-01T09:04:00",
			RecordedBy: "warehouse@storefront.local",
		},
	}
	if diff := cmp.Diff(wantNotes, details.Notes); diff != "" {
		t.Errorf("notes mismatch (-want +got):\n%s", diff)
	}

	require.Len(t, details.Payments, 1)
	assert.Equal(t, models.PaymentStatusCompleted, details.Payments[0].Status)
	assert.Equal(t, "4242", details.Payments[0].Method.Last4)
}

func TestStub_FailureMessages(t *testing.T) {
	srv := newSeededStub(t)
	shopper := signedIn(t, srv, "shopper@storefront.local", "shopper123")
	anonymous := client.New(srv.URL, client.WithHTTPClient(srv.Client()))
	one := 1

	tests := []struct {
		name       string
		call       func(ctx context.Context) error
		wantStatus int
		wantMsg    string
	}{
		{
			name: "bad_credentials_message_field",
			call: func(ctx context.Context) error {
				_, err := anonymous.SignIn(ctx, models.LoginRequest{Email: "shopper@storefront.local", Password: "wrong"})
				return err
			},
			wantStatus: http.StatusUnauthorized,
			wantMsg:    "Invalid email or password",
		},
		{
			name: "duplicate_email_error_field",
			call: func(ctx context.Context) error {
				_, err := anonymous.Register(ctx, models.User{Name: "Sam", Email: "shopper@storefront.local", Password: "secret1"})
				return err
			},
			wantStatus: http.StatusConflict,
			wantMsg:    "Email already registered",
		},
		{
			name: "validation_array",
			call: func(ctx context.Context) error {
				_, err := anonymous.Register(ctx, models.User{Email: "new@storefront.local", Password: "secret1"})
				return err
			},
			wantStatus: http.StatusUnprocessableEntity,
			wantMsg:    "Name is required",
		},
		{
			name: "empty_body_unauthorized",
			call: func(ctx context.Context) error {
				_, err := anonymous.MyOrders(ctx)
				return err
			},
			wantStatus: http.StatusUnauthorized,
			wantMsg:    "Not authorized. Please sign in again.",
		},
		{
			name: "empty_body_forbidden",
			call: func(ctx context.Context) error {
				_, err := shopper.RefundPayment(ctx, "PAY-000001", "changed my mind", "")
				return err
			},
			wantStatus: http.StatusForbidden,
			wantMsg:    "You do not have permission to perform this action.",
		},
		{
			name: "gateway_wrapped_not_found",
			call: func(ctx context.Context) error {
				_, err := anonymous.ProductAvailability(ctx, "NO SUCH/SKU")
				return err
			},
			wantStatus: http.StatusNotFound,
			wantMsg:    "SKU NO SUCH/SKU not found",
		},
		{
			name: "gateway_wrapped_conflict",
			call: func(ctx context.Context) error {
				_, err := shopper.CreateOrder(ctx, models.OrderCreateRequest{
					Items: []models.OrderItemAdjustment{{ProductID: 7, Quantity: &one}},
				})
				return err
			},
			wantStatus: http.StatusConflict,
			wantMsg:    "Insufficient stock for requested items",
		},
		{
			name: "not_cancelable_message_field",
			call: func(ctx context.Context) error {
				_, err := shopper.CancelOrder(ctx, "ORD-000001")
				return err
			},
			wantStatus: http.StatusConflict,
			wantMsg:    "Order ORD-000001 cannot be cancelled in status SHIPPED",
		},
		{
			name: "malformed_page_query",
			call: func(ctx context.Context) error {
				_, err := anonymous.ListProducts(ctx, models.PageQuery{SortDir: "sideways"})
				return err
			},
			wantStatus: http.StatusUnprocessableEntity,
			wantMsg:    "sortDir must be asc or desc",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.call(context.Background())
			require.Error(t, err)

			var apiErr *apierr.Error
			require.True(t, errors.As(err, &apiErr), err)
			assert.Equal(t, tt.wantStatus, apiErr.StatusCode)
			assert.Equal(t, tt.wantMsg, err.Error())
		})
	}
}

func TestStub_OrderLifecycle(t *testing.T) {
	srv := newSeededStub(t)
	shopper := signedIn(t, srv, "shopper@storefront.local", "shopper123")
	desk := signedIn(t, srv, "payments@storefront.local", "payments123")
	ctx := context.Background()
	two := 2

	order, err := shopper.CreateOrder(ctx, models.OrderCreateRequest{
		Items:         []models.OrderItemAdjustment{{ProductID: 5, Quantity: &two}},
		Currency:      "EUR",
		PaymentMethod: models.PaymentMethodRequest{Type: "CARD", Last4: "1111"},
	})
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusCreated, order.OrderStatus)

	// never moved, the timeline is a single derived entry
	history := orderview.StatusHistory(*order)
	require.Len(t, history, 1)
	assert.Equal(t, order.OrderID+"-created", history[0].ID)

	product, err := shopper.ProductAvailability(ctx, "KIT-KETTLE")
	require.NoError(t, err)
	assert.Equal(t, 3, product.Available())

	msg, err := service.NewOrderService(shopper).Cancel(ctx, order.OrderID)
	require.NoError(t, err)
	assert.Equal(t, "Order "+order.OrderID+" cancelled", msg)

	product, err = shopper.ProductAvailability(ctx, "KIT-KETTLE")
	require.NoError(t, err)
	assert.Equal(t, 5, product.Available())

	payments, err := shopper.PaymentsByOrder(ctx, order.OrderID)
	require.NoError(t, err)
	require.Len(t, payments, 1)
	assert.Equal(t, models.PaymentStatusRefunded, payments[0].Status)

	// seeded payment can be refunded once per key
	refunded, err := desk.RefundPayment(ctx, "PAY-000001", "damaged in transit", "key-1")
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusRefunded, refunded.Status)

	again, err := desk.RefundPayment(ctx, "PAY-000001", "damaged in transit", "key-1")
	require.NoError(t, err)
	assert.Equal(t, refunded.UpdatedAt, again.UpdatedAt)

	_, err = desk.RefundPayment(ctx, "PAY-000001", "damaged in transit", "key-2")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apierr.ErrConflict))
	assert.Equal(t, "Payment PAY-000001 cannot be refunded", err.Error())
}

func TestStub_CurrentUserAndLogout(t *testing.T) {
	srv := newSeededStub(t)
	tokens := tokenstore.NewMemory("")
	c := client.New(srv.URL, client.WithHTTPClient(srv.Client()), client.WithTokenSource(tokens))
	ctx := context.Background()

	resp, err := c.SignIn(ctx, models.LoginRequest{Email: "admin@storefront.local", Password: "admin123"})
	require.NoError(t, err)

	profile, err := c.CurrentUser(ctx, resp.Token)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, profile.Role)

	claims, err := auth.ParseUnverified(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, profile.ID, claims.UserID)

	msg, err := c.Logout(ctx, resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "Logged out successfully", msg)
}
