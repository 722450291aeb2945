package middleware

import (
	"context"
	"net/http"

	"invest/internal/models"
)

type RoleStore interface {
	GetRole(ctx context.Context, userID string) (string, error)
}

// RequireAdmin verifies the caller's role against the store on every
// request rather than trusting token claims minted before a role
// change. superOnly restricts the route to super_admin.
func RequireAdmin(roles RoleStore, superOnly bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := UserIDFromContext(r.Context())
			if !ok {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			role, err := roles.GetRole(r.Context(), userID)
			if err != nil {
				http.Error(w, "unable to verify role", http.StatusInternalServerError)
				return
			}
			if role == models.RoleSuperAdmin {
				next.ServeHTTP(w, r)
				return
			}
			if superOnly || role != models.RoleAdmin {
				http.Error(w, "admin privileges required", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
