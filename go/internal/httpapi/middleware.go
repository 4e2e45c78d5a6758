package httpapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/FaneD1/Pomadoro/go/internal/apperrors"
	"github.com/FaneD1/Pomadoro/go/internal/models"
)

type contextKey string

const userContextKey contextKey = "user"

// requireAuth resolves the identity cookie to a user and stashes it on the
// request context. A missing, malformed, or stale cookie is a 401.
func (a *API) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie("userId")
		if err != nil {
			respondError(w, r, fmt.Errorf("missing identity cookie: %w", apperrors.ErrNotAuthenticated))
			return
		}

		userID, err := uuid.Parse(cookie.Value)
		if err != nil {
			respondError(w, r, fmt.Errorf("malformed identity cookie: %w", apperrors.ErrNotAuthenticated))
			return
		}

		user, err := a.users.GetUser(r.Context(), userID)
		if err != nil {
			respondError(w, r, err)
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// userFrom returns the authenticated user placed on the context by
// requireAuth.
func userFrom(r *http.Request) *models.User {
	return r.Context().Value(userContextKey).(*models.User)
}
