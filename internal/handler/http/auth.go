package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/mail"
	"strings"

	"github.com/rookgm/storefront/internal/models"
)

// minimal password length accepted on registration
const minPasswordLen = 6

type AccountService interface {
	// Register stores new user
	Register(ctx context.Context, user models.User) (*models.UserProfile, error)
	// SignIn returns bearer token for valid credentials
	SignIn(ctx context.Context, req models.LoginRequest) (string, error)
}

// AuthHandler represents HTTP handler for sign in and registration
type AuthHandler struct {
	svc AccountService
}

// NewAuthHandler creates new AuthHandler instance
func NewAuthHandler(svc AccountService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

// SignIn authenticates user
// 200: token issued.
// 400: malformed request.
// 401: invalid email or password, {"message"} body.
func (ah *AuthHandler) SignIn() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.LoginRequest
		if !decodeBody(w, r, &req) {
			return
		}

		token, err := ah.svc.SignIn(r.Context(), req)
		if err != nil {
			if errors.Is(err, models.ErrInvalidCredentials) {
				writeMessage(w, r, http.StatusUnauthorized, "Invalid email or password")
				return
			}
			w.WriteHeader(http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, models.AuthResponse{Token: token, TokenType: "Bearer"})
	}
}

// Register creates new account
// 201: user created.
// 400: malformed request.
// 409: email already registered, {"error"} body.
// 422: validation failed, array body.
func (ah *AuthHandler) Register() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var user models.User
		if !decodeBody(w, r, &user) {
			return
		}

		if violations := validateUser(user); len(violations) > 0 {
			writeViolations(w, violations)
			return
		}
		// roles are granted by administrators only
		user.Role = models.RoleUser

		profile, err := ah.svc.Register(r.Context(), user)
		if err != nil {
			if errors.Is(err, models.ErrConflictData) {
				writeError(w, http.StatusConflict, "Email already registered")
				return
			}
			w.WriteHeader(http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusCreated, models.User{
			ID:    profile.ID,
			Name:  profile.Name,
			Email: profile.Email,
			Role:  profile.Role,
		})
	}
}

// Logout answers with a text confirmation, tokens are stateless
func (ah *AuthHandler) Logout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeText(w, http.StatusOK, "Logged out successfully")
	}
}

func validateUser(user models.User) []violation {
	var violations []violation
	if strings.TrimSpace(user.Name) == "" {
		violations = append(violations, violation{Field: "name", Message: "Name is required"})
	}
	if _, err := mail.ParseAddress(user.Email); err != nil {
		violations = append(violations, violation{Field: "email", Message: "Email must be a valid address"})
	}
	if len(user.Password) < minPasswordLen {
		violations = append(violations, violation{Field: "password", Message: "Password must be at least 6 characters"})
	}
	return violations
}

// decodeBody reads JSON request body, a malformed body is answered with 400 plain text
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeText(w, http.StatusBadRequest, "Malformed JSON request")
		return false
	}
	return true
}
