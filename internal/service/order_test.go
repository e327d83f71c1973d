package service

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/google/go-cmp/cmp"
	"github.com/rookgm/storefront/internal/apierr"
	"github.com/rookgm/storefront/internal/models"
	"github.com/rookgm/storefront/internal/service/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderService_MyOrders(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(t *testing.T) *mocks.MockOrderAPI
		wantIDs []string
		wantErr bool
	}{
		{
			name: "sorted_newest_first",
			setup: func(t *testing.T) *mocks.MockOrderAPI {
				ctrl := gomock.NewController(t)
				apiMock := mocks.NewMockOrderAPI(ctrl)
				apiMock.EXPECT().MyOrders(gomock.Any()).Return([]models.Order{
					{OrderID: "old", CreatedAt: "2024-01-01T00:00:00Z"},
					{OrderID: "new", CreatedAt: "2024-03-01T00:00:00"},
					{OrderID: "mid", CreatedAt: "2024-02-01T00:00:00Z"},
				}, nil)
				return apiMock
			},
			wantIDs: []string{"new", "mid", "old"},
		},
		{
			name: "api_error",
			setup: func(t *testing.T) *mocks.MockOrderAPI {
				ctrl := gomock.NewController(t)
				apiMock := mocks.NewMockOrderAPI(ctrl)
				apiMock.EXPECT().MyOrders(gomock.Any()).Return(nil, apierr.NewError(http.StatusUnauthorized, "", ""))
				return apiMock
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewOrderService(tt.setup(t))
			orders, err := svc.MyOrders(context.Background())
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)

			var ids []string
			for _, o := range orders {
				ids = append(ids, o.OrderID)
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestOrderService_Details(t *testing.T) {
	order := &models.Order{
		OrderID:             "ord-1",
		OrderStatus:         models.OrderStatusShipped,
		CreatedAt:           "2024-01-01T00:00:00Z",
		UpdatedAt:           "2024-01-02T00:00:00Z",
		HasBackorderedItems: true,
	}
	payments := []models.Payment{{PaymentReference: "pay-1", OrderID: "ord-1", Status: models.PaymentStatusCompleted}}
	paymentsErr := apierr.NewError(http.StatusForbidden, "", "")

	tests := []struct {
		name            string
		withPayments    bool
		setup           func(t *testing.T) *mocks.MockOrderAPI
		wantErr         error
		wantPayments    []models.Payment
		wantPaymentsErr error
	}{
		{
			name:         "order_and_payments",
			withPayments: true,
			setup: func(t *testing.T) *mocks.MockOrderAPI {
				ctrl := gomock.NewController(t)
				apiMock := mocks.NewMockOrderAPI(ctrl)
				apiMock.EXPECT().Order(gomock.Any(), "ord-1").Return(order, nil)
				apiMock.EXPECT().PaymentsByOrder(gomock.Any(), "ord-1").Return(payments, nil)
				return apiMock
			},
			wantPayments: payments,
		},
		{
			name: "payments_not_requested",
			setup: func(t *testing.T) *mocks.MockOrderAPI {
				ctrl := gomock.NewController(t)
				apiMock := mocks.NewMockOrderAPI(ctrl)
				apiMock.EXPECT().Order(gomock.Any(), "ord-1").Return(order, nil)
				apiMock.EXPECT().PaymentsByOrder(gomock.Any(), gomock.Any()).Times(0)
				return apiMock
			},
		},
		{
			name:         "payments_failure_kept_aside",
			withPayments: true,
			setup: func(t *testing.T) *mocks.MockOrderAPI {
				ctrl := gomock.NewController(t)
				apiMock := mocks.NewMockOrderAPI(ctrl)
				apiMock.EXPECT().Order(gomock.Any(), "ord-1").Return(order, nil)
				apiMock.EXPECT().PaymentsByOrder(gomock.Any(), "ord-1").Return(nil, paymentsErr)
				return apiMock
			},
			wantPaymentsErr: apierr.ErrForbidden,
		},
		{
			name:         "order_failure",
			withPayments: true,
			setup: func(t *testing.T) *mocks.MockOrderAPI {
				ctrl := gomock.NewController(t)
				apiMock := mocks.NewMockOrderAPI(ctrl)
				apiMock.EXPECT().Order(gomock.Any(), "ord-1").Return(nil, apierr.NewError(http.StatusNotFound, "", ""))
				apiMock.EXPECT().PaymentsByOrder(gomock.Any(), "ord-1").Return(nil, nil).AnyTimes()
				return apiMock
			},
			wantErr: apierr.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewOrderService(tt.setup(t))
			details, err := svc.Details(context.Background(), "ord-1", tt.withPayments)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, details)
				return
			}
			require.NoError(t, err)

			assert.Equal(t, "ord-1", details.Order.OrderID)
			require.Len(t, details.History, 2)
			assert.Equal(t, models.OrderStatusShipped, details.History[1].Status)
			require.Len(t, details.Notes, 1)
			assert.Equal(t, "ord-1-backorder", details.Notes[0].ID)

			if diff := cmp.Diff(tt.wantPayments, details.Payments); diff != "" {
				t.Errorf("payments mismatch (-want +got):\n%s", diff)
			}
			if tt.wantPaymentsErr != nil {
				assert.ErrorIs(t, details.PaymentsErr, tt.wantPaymentsErr)
			} else {
				assert.NoError(t, details.PaymentsErr)
			}
		})
	}
}

func TestOrderService_Cancel(t *testing.T) {
	tests := []struct {
		name    string
		status  string
		setup   func(apiMock *mocks.MockOrderAPI)
		want    string
		wantErr error
	}{
		{
			name:   "cancelable",
			status: models.OrderStatusCreated,
			setup: func(apiMock *mocks.MockOrderAPI) {
				apiMock.EXPECT().CancelOrder(gomock.Any(), "ord-1").Return("Order ord-1 cancelled", nil)
			},
			want: "Order ord-1 cancelled",
		},
		{
			name:   "already_shipped",
			status: "shipped",
			setup: func(apiMock *mocks.MockOrderAPI) {
				apiMock.EXPECT().CancelOrder(gomock.Any(), gomock.Any()).Times(0)
			},
			wantErr: models.ErrOrderNotCancelable,
		},
		{
			name:   "server_refuses",
			status: models.OrderStatusPaid,
			setup: func(apiMock *mocks.MockOrderAPI) {
				apiMock.EXPECT().CancelOrder(gomock.Any(), "ord-1").Return("", apierr.NewError(http.StatusConflict, "", `{"message":"Payment is being captured"}`))
			},
			wantErr: apierr.ErrConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			apiMock := mocks.NewMockOrderAPI(ctrl)
			apiMock.EXPECT().Order(gomock.Any(), "ord-1").Return(&models.Order{OrderID: "ord-1", OrderStatus: tt.status}, nil)
			tt.setup(apiMock)

			got, err := NewOrderService(apiMock).Cancel(context.Background(), "ord-1")
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr), err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
