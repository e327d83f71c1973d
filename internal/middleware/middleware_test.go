package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rookgm/storefront/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type tokenVerifier map[string]*models.TokenPayload

func (tv tokenVerifier) CreateToken(*models.User) (string, error) {
	return "", errors.New("not implemented")
}

func (tv tokenVerifier) VerifyToken(token string) (*models.TokenPayload, error) {
	if payload, ok := tv[token]; ok {
		return payload, nil
	}
	return nil, errors.New("invalid token")
}

func TestAuth(t *testing.T) {
	verifier := tokenVerifier{"good": {UserID: 5, Role: models.RoleUser}}

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantUserID uint64
	}{
		{name: "valid_token", header: "Bearer good", wantStatus: http.StatusOK, wantUserID: 5},
		{name: "lowercase_scheme", header: "bearer good", wantStatus: http.StatusOK, wantUserID: 5},
		{name: "missing_header", wantStatus: http.StatusUnauthorized},
		{name: "basic_scheme", header: "Basic dXNlcjpwYXNz", wantStatus: http.StatusUnauthorized},
		{name: "empty_token", header: "Bearer  ", wantStatus: http.StatusUnauthorized},
		{name: "invalid_token", header: "Bearer bad", wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotUserID uint64
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				payload, ok := Payload(r.Context())
				require.True(t, ok)
				gotUserID = payload.UserID
			})

			req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			Auth(verifier)(next).ServeHTTP(w, req)

			res := w.Result()
			defer res.Body.Close()
			assert.Equal(t, tt.wantStatus, res.StatusCode)
			assert.Equal(t, tt.wantUserID, gotUserID)
			if tt.wantStatus == http.StatusUnauthorized {
				assert.Zero(t, w.Body.Len())
			}
		})
	}
}

func TestLogging(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("short and stout"))
	})

	req := httptest.NewRequest(http.MethodGet, "/products?search=tea", nil)
	Logging(zap.New(core))(next).ServeHTTP(httptest.NewRecorder(), req)

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "/products?search=tea", fields["uri"])
	assert.EqualValues(t, http.StatusTeapot, fields["status"])
	assert.EqualValues(t, len("short and stout"), fields["size"])
}
