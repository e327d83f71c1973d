package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rookgm/storefront/internal/models"
)

type UserStore interface {
	GetUser(ctx context.Context, id uint64) (*models.UserProfile, error)
	ListUsers(ctx context.Context, q models.PageQuery) models.Page[models.UserProfile]
	UpdateUser(ctx context.Context, id uint64, patch models.UserPatch) (*models.UserProfile, error)
	DeleteUser(ctx context.Context, id uint64) error
}

// UserHandler represents HTTP handler for user-related requests
type UserHandler struct {
	store UserStore
}

// NewUserHandler creates new UserHandler instance
func NewUserHandler(store UserStore) *UserHandler {
	return &UserHandler{store: store}
}

// CurrentUser returns profile of the token owner
func (uh *UserHandler) CurrentUser() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, ok := getAuthPayload(r.Context())
		if !ok {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		profile, err := uh.store.GetUser(r.Context(), payload.UserID)
		if err != nil {
			// token of a deleted account
			if errors.Is(err, models.ErrDataNotFound) {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			w.WriteHeader(http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, profile)
	}
}

// ListUsers returns page of users
func (uh *UserHandler) ListUsers() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q, violations := parsePageQuery(r)
		if len(violations) > 0 {
			writeViolations(w, violations)
			return
		}
		writeJSON(w, http.StatusOK, uh.store.ListUsers(r.Context(), q))
	}
}

// UpdateUser changes name, email or role of a user
func (uh *UserHandler) UpdateUser() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseID(chi.URLParam(r, "id"))
		if !ok {
			writeText(w, http.StatusBadRequest, "Invalid user id")
			return
		}
		var patch models.UserPatch
		if !decodeBody(w, r, &patch) {
			return
		}

		profile, err := uh.store.UpdateUser(r.Context(), id, patch)
		switch {
		case errors.Is(err, models.ErrDataNotFound):
			writeMessage(w, r, http.StatusNotFound, fmt.Sprintf("User %d not found", id))
		case errors.Is(err, models.ErrConflictData):
			writeError(w, http.StatusConflict, "Email already registered")
		case err != nil:
			w.WriteHeader(http.StatusInternalServerError)
		default:
			writeJSON(w, http.StatusOK, profile)
		}
	}
}

// DeleteUser removes a user
func (uh *UserHandler) DeleteUser() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseID(chi.URLParam(r, "id"))
		if !ok {
			writeText(w, http.StatusBadRequest, "Invalid user id")
			return
		}

		err := uh.store.DeleteUser(r.Context(), id)
		switch {
		case errors.Is(err, models.ErrDataNotFound):
			writeMessage(w, r, http.StatusNotFound, fmt.Sprintf("User %d not found", id))
		case err != nil:
			w.WriteHeader(http.StatusInternalServerError)
		default:
			w.WriteHeader(http.StatusNoContent)
		}
	}
}
