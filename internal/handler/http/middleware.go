package handler

import (
	"context"
	"net/http"

	"github.com/rookgm/storefront/internal/middleware"
	"github.com/rookgm/storefront/internal/models"
)

// RequireRole lets through requests whose token role passes allowed.
// Others get 403 with an empty body.
func RequireRole(allowed func(models.Role) bool) func(handler http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			payload, ok := getAuthPayload(r.Context())
			if !ok {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			if !allowed(payload.Role) {
				w.WriteHeader(http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// getAuthPayload extracts authorization token payload from context
func getAuthPayload(ctx context.Context) (*models.TokenPayload, bool) {
	return middleware.Payload(ctx)
}
