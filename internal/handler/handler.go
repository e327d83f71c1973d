// Package handler assembles the stub commerce backend: in-memory repositories,
// services and HTTP handlers behind a chi router.
package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httph "github.com/rookgm/storefront/internal/handler/http"
	"github.com/rookgm/storefront/internal/middleware"
	"github.com/rookgm/storefront/internal/models"
	"github.com/rookgm/storefront/internal/repository"
	"github.com/rookgm/storefront/internal/service"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Stub is the commerce backend served by `storefront stub`
type Stub struct {
	accounts *service.AccountService
	users    *repository.UserRepository
	products *repository.ProductRepository
	orders   *repository.OrderRepository
	payments *repository.PaymentRepository
	router   chi.Router
}

// New creates stub backend over db
func New(db *repository.DB, tokens service.TokenService, logger *zap.Logger) *Stub {
	s := &Stub{
		users:    repository.NewUserRepository(db),
		products: repository.NewProductRepository(db),
		orders:   repository.NewOrderRepository(db),
		payments: repository.NewPaymentRepository(db),
	}
	s.accounts = service.NewAccountService(s.users, tokens)

	authHandler := httph.NewAuthHandler(s.accounts)
	userHandler := httph.NewUserHandler(s.users)
	productHandler := httph.NewProductHandler(s.products)
	orderHandler := httph.NewOrderHandler(s.orders)
	paymentHandler := httph.NewPaymentHandler(s.payments, orderHandler)

	authenticated := middleware.Auth(tokens)
	admin := httph.RequireRole(models.IsAdminRole)
	paymentAdmin := httph.RequireRole(models.CanManagePayments)

	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(middleware.Logging(logger))

	r.Route("/auth", func(r chi.Router) {
		r.Post("/signin", authHandler.SignIn())
		r.Post("/register", authHandler.Register())
		r.With(authenticated).Post("/logout", authHandler.Logout())
	})

	r.Route("/products", func(r chi.Router) {
		r.Get("/", productHandler.ListProducts())
		r.Get("/{id}", productHandler.GetProduct())
		r.Get("/sku/{sku}/availability", productHandler.Availability())
		r.Group(func(r chi.Router) {
			r.Use(authenticated, admin)
			r.Post("/", productHandler.CreateProduct())
			r.Put("/{id}", productHandler.UpdateProduct())
			r.Delete("/{id}", productHandler.DeleteProduct())
		})
	})

	r.Group(func(r chi.Router) {
		r.Use(authenticated)

		r.Route("/users", func(r chi.Router) {
			r.Get("/me", userHandler.CurrentUser())
			r.With(admin).Get("/", userHandler.ListUsers())
			r.With(admin).Put("/{id}", userHandler.UpdateUser())
			r.With(admin).Delete("/{id}", userHandler.DeleteUser())
		})

		r.Route("/orders", func(r chi.Router) {
			r.With(admin).Get("/", orderHandler.ListOrders())
			r.Post("/", orderHandler.CreateOrder())
			r.Get("/mine", orderHandler.MyOrders())
			r.Get("/{id}", orderHandler.GetOrder())
			r.Put("/{id}", orderHandler.UpdateOrder())
			r.Delete("/{id}", orderHandler.CancelOrder())
		})

		r.Route("/payments", func(r chi.Router) {
			r.Get("/order/{id}", paymentHandler.PaymentsByOrder())
			r.With(paymentAdmin).Get("/{ref}", paymentHandler.GetPayment())
			r.With(paymentAdmin).Post("/{ref}/refund", paymentHandler.Refund())
		})
	})

	s.router = r
	return s
}

func (s *Stub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// demo accounts created by Seed
var demoUsers = []models.User{
	{Name: "Store Admin", Email: "admin@storefront.local", Password: "admin123", Role: models.RoleAdmin},
	{Name: "Payments Desk", Email: "payments@storefront.local", Password: "payments123", Role: models.RolePaymentAdmin},
	{Name: "Sam Shopper", Email: "shopper@storefront.local", Password: "shopper123", Role: models.RoleUser},
}

// Seed fills the backend with demo accounts, a catalog and one shipped order of the shopper
func (s *Stub) Seed(ctx context.Context) error {
	var shopper *models.UserProfile
	for _, user := range demoUsers {
		profile, err := s.accounts.Register(ctx, user)
		if err != nil {
			return fmt.Errorf("seed user %s: %w", user.Email, err)
		}
		if profile.Role == models.RoleUser {
			shopper = profile
		}
	}

	catalog := []models.Product{
		{Name: "Espresso Beans 1kg", Price: decimal.RequireFromString("24.90"), Stock: 40, SKU: "COF-ESP-1KG"},
		{Name: "Pour-over Kettle", Price: decimal.RequireFromString("59.00"), Stock: 5, SKU: "KIT-KETTLE"},
		{Name: "Ceramic Dripper", Price: decimal.RequireFromString("18.50"), Stock: 2, SKU: "KIT-DRIPPER"},
		{Name: "Paper Filters x100", Price: decimal.RequireFromString("6.99"), Stock: 0, SKU: "KIT-FILTERS"},
	}
	ids := make([]uint64, 0, len(catalog))
	for _, product := range catalog {
		created, err := s.products.CreateProduct(ctx, product)
		if err != nil {
			return fmt.Errorf("seed product %s: %w", product.SKU, err)
		}
		ids = append(ids, created.ID)
	}

	one, three := 1, 3
	order, err := s.orders.CreateOrder(ctx, shopper.ID, models.OrderCreateRequest{
		Items: []models.OrderItemAdjustment{
			{ProductID: ids[0], Quantity: &one},
			{ProductID: ids[2], Quantity: &three},
			{ProductID: ids[3], Quantity: &one},
		},
		Currency:      "USD",
		PaymentMethod: models.PaymentMethodRequest{Type: "CARD", Last4: "4242", CardholderName: "Sam Shopper"},
	})
	if err != nil {
		return fmt.Errorf("seed order: %w", err)
	}

	for _, status := range []string{models.OrderStatusPaid, models.OrderStatusShipped} {
		if _, err := s.orders.UpdateOrder(ctx, order.OrderID, models.OrderUpdateRequest{CurrentStatus: status}, "admin@storefront.local"); err != nil {
			return fmt.Errorf("seed order status %s: %w", status, err)
		}
	}
	if _, err := s.orders.AddNote(ctx, order.OrderID, "Packed in a single box.", ""); err != nil {
		return fmt.Errorf("seed order note: %w", err)
	}
	if _, err := s.orders.AddNote(ctx, order.OrderID, "Handed to carrier, tracking 1Z999AA10123456784.", "warehouse@storefront.local"); err != nil {
		return fmt.Errorf("seed order note: %w", err)
	}

	return nil
}
