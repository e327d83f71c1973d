package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/go-cmp/cmp"
	"github.com/rookgm/storefront/internal/apierr"
	"github.com/rookgm/storefront/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type staticToken string

func (s staticToken) Get() string { return string(s) }

func newTestClient(t *testing.T, router http.Handler, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	opts = append([]Option{WithHTTPClient(srv.Client())}, opts...)
	return New(srv.URL+"/", opts...)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestClient_URL(t *testing.T) {
	c := New("http://api.local/")
	assert.Equal(t, "http://api.local/orders", c.URL("orders"))
	assert.Equal(t, "http://api.local/orders", c.URL("/orders"))

	c = New("")
	assert.Equal(t, "/orders", c.URL("orders"))
}

func TestWithTimeout_CopiesHTTPClient(t *testing.T) {
	shared := &http.Client{Timeout: time.Minute}

	c := New("http://api.local", WithHTTPClient(shared), WithTimeout(time.Second))

	assert.Equal(t, time.Minute, shared.Timeout)
	assert.Equal(t, time.Second, c.client.Timeout)
}

func TestClient_SendHeaders(t *testing.T) {
	var mu sync.Mutex
	got := map[string]http.Header{}

	router := chi.NewRouter()
	record := func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		got[r.URL.Path] = r.Header.Clone()
		mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	}
	router.Get("/orders/mine", record)
	router.Post("/auth/logout", record)

	c := newTestClient(t, router, WithTokenSource(staticToken("stored")))

	_, err := c.MyOrders(context.Background())
	require.NoError(t, err)
	_, err = c.Logout(context.Background(), "explicit")
	require.NoError(t, err)

	assert.Equal(t, "Bearer stored", got["/orders/mine"].Get("Authorization"))
	assert.Equal(t, "application/json", got["/orders/mine"].Get("Content-Type"))
	assert.Equal(t, "Bearer explicit", got["/auth/logout"].Get("Authorization"))
}

func TestClient_NoTokenNoAuthorization(t *testing.T) {
	var auth []string
	router := chi.NewRouter()
	router.Get("/products/{id}", func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Values("Authorization")
		writeJSON(w, http.StatusOK, models.Product{ID: 7, Name: "Mug"})
	})

	c := newTestClient(t, router, WithTokenSource(staticToken("")))
	product, err := c.Product(context.Background(), 7)
	require.NoError(t, err)

	assert.Empty(t, auth)
	assert.Equal(t, "Mug", product.Name)
}

func TestClient_OrderFailures(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		contentType string
		body        string
		wantMessage string
		wantIs      error
	}{
		{
			name:        "spring_error_object",
			status:      http.StatusNotFound,
			contentType: "application/json",
			body:        `{"timestamp":"2024-01-01T00:00:00","status":404,"error":"Not Found","message":"Order ord-9 not found"}`,
			wantMessage: "Order ord-9 not found",
			wantIs:      apierr.ErrNotFound,
		},
		{
			name:        "feign_wrapped",
			status:      http.StatusConflict,
			contentType: "text/plain",
			body:        `[409 Conflict] during [POST] to [http://inventory/api/reserve] [InventoryClient#reserve(ReserveRequest)]: [{"message":"Insufficient stock"}]`,
			wantMessage: "Insufficient stock",
			wantIs:      apierr.ErrConflict,
		},
		{
			name:        "empty_object",
			status:      http.StatusUnauthorized,
			contentType: "application/json",
			body:        `{}`,
			wantMessage: "Not authorized. Please sign in again.",
			wantIs:      apierr.ErrUnauthorized,
		},
		{
			name:        "unknown_status_no_body",
			status:      http.StatusBadGateway,
			wantMessage: "Bad Gateway",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := chi.NewRouter()
			router.Get("/orders/{id}", func(w http.ResponseWriter, r *http.Request) {
				if tt.contentType != "" {
					w.Header().Set("Content-Type", tt.contentType)
				}
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			})

			c := newTestClient(t, router)
			order, err := c.Order(context.Background(), "ord-9")
			require.Error(t, err)
			assert.Nil(t, order)
			assert.Equal(t, tt.wantMessage, err.Error())
			assert.Equal(t, tt.status, apierr.StatusCode(err))
			if tt.wantIs != nil {
				assert.True(t, errors.Is(err, tt.wantIs))
			}
		})
	}
}

func TestClient_TransportFailure(t *testing.T) {
	router := chi.NewRouter()
	router.Get("/orders/mine", func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(time.Second):
		case <-r.Context().Done():
		}
	})

	c := newTestClient(t, router)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := c.MyOrders(ctx)
	require.Error(t, err)

	var te *apierr.TransportError
	require.True(t, errors.As(err, &te))
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
	assert.Equal(t, http.MethodGet, te.Method)
	assert.Equal(t, 0, apierr.StatusCode(err))
}

func TestClient_ListProductsQuery(t *testing.T) {
	var rawQuery string
	router := chi.NewRouter()
	router.Get("/products", func(w http.ResponseWriter, r *http.Request) {
		rawQuery = r.URL.RawQuery
		writeJSON(w, http.StatusOK, models.Page[models.Product]{
			Content:  []models.Product{{ID: 1, Name: "Mug"}},
			PageNo:   2,
			PageSize: 10,
			Last:     true,
		})
	})

	c := newTestClient(t, router)
	pageNo, pageSize := 2, 10
	page, err := c.ListProducts(context.Background(), models.PageQuery{
		PageNo:   &pageNo,
		PageSize: &pageSize,
		SortBy:   "name",
		SortDir:  models.SortAsc,
		Search:   "mug cup",
	})
	require.NoError(t, err)

	assert.Equal(t, "pageNo=2&pageSize=10&search=mug+cup&sortBy=name&sortDir=asc", rawQuery)
	assert.Equal(t, 2, page.PageNo)
	require.Len(t, page.Content, 1)
	assert.Equal(t, "Mug", page.Content[0].Name)
}

func TestWithQuery_NothingSet(t *testing.T) {
	assert.Equal(t, "/orders", withQuery("/orders", models.PageQuery{}))
	zero := 0
	assert.Equal(t, "/orders?pageNo=0", withQuery("/orders", models.PageQuery{PageNo: &zero}))
}

func TestClient_CreateOrderBody(t *testing.T) {
	var got models.OrderCreateRequest
	router := chi.NewRouter()
	router.Post("/orders", func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		writeJSON(w, http.StatusCreated, models.Order{OrderID: "ord-1", OrderStatus: models.OrderStatusCreated})
	})

	qty := 2
	req := models.OrderCreateRequest{
		Items:         []models.OrderItemAdjustment{{ProductID: 5, Quantity: &qty}},
		Currency:      "USD",
		PaymentMethod: models.PaymentMethodRequest{Type: "CARD", Last4: "4242"},
	}

	c := newTestClient(t, router)
	order, err := c.CreateOrder(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, "ord-1", order.OrderID)
	if diff := cmp.Diff(req, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestClient_CancelOrderText(t *testing.T) {
	router := chi.NewRouter()
	router.Delete("/orders/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = io.WriteString(w, "Order "+chi.URLParam(r, "id")+" cancelled")
	})

	c := newTestClient(t, router)
	msg, err := c.CancelOrder(context.Background(), "ord-3")
	require.NoError(t, err)
	assert.Equal(t, "Order ord-3 cancelled", msg)
}

func TestClient_RefundIdempotencyKey(t *testing.T) {
	var header string
	var body models.RefundRequest
	router := chi.NewRouter()
	router.Post("/payments/{ref}/refund", func(w http.ResponseWriter, r *http.Request) {
		header = r.Header.Get("Idempotency-Key")
		_ = json.NewDecoder(r.Body).Decode(&body)
		writeJSON(w, http.StatusOK, models.Payment{PaymentReference: chi.URLParam(r, "ref"), Status: models.PaymentStatusRefunded})
	})

	c := newTestClient(t, router)

	payment, err := c.RefundPayment(context.Background(), "pay-1", "damaged", "")
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusRefunded, payment.Status)
	assert.Len(t, header, 36)
	assert.Equal(t, header, body.IdempotencyKey)
	assert.Equal(t, "damaged", body.Reason)

	_, err = c.RefundPayment(context.Background(), "pay-1", "damaged", "fixed-key")
	require.NoError(t, err)
	assert.Equal(t, "fixed-key", header)
}

func TestClient_ConcurrentRequests(t *testing.T) {
	router := chi.NewRouter()
	router.Get("/orders/{id}", func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if id == "bad" {
			writeJSON(w, http.StatusNotFound, map[string]string{"message": "Order bad not found"})
			return
		}
		writeJSON(w, http.StatusOK, models.Order{OrderID: id})
	})

	c := newTestClient(t, router)
	ids := []string{"a", "bad", "c", "d"}
	errs := make([]error, len(ids))
	orders := make([]*models.Order, len(ids))

	var wg sync.WaitGroup
	for i, id := range ids {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			orders[i], errs[i] = c.Order(context.Background(), id)
		}(i, id)
	}
	wg.Wait()

	for i, id := range ids {
		if id == "bad" {
			assert.EqualError(t, errs[i], "Order bad not found")
			continue
		}
		require.NoError(t, errs[i])
		assert.Equal(t, id, orders[i].OrderID)
	}
}
