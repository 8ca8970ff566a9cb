package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/finexpress/storefront/internal/domain/admin"
)

// sessionCookie is the name of the HttpOnly cookie carrying the admin token.
const sessionCookie = "adminToken"

type requestingAdminKey struct{}

// AdminFromContext returns the authenticated admin account placed into the
// context by requireAuth, or nil.
func AdminFromContext(ctx context.Context) *admin.Account {
	a, _ := ctx.Value(requestingAdminKey{}).(*admin.Account)
	return a
}

// sessionToken extracts the admin token from the Authorization bearer
// header, falling back to the session cookie.
func sessionToken(r *http.Request) string {
	if auth := r.Header.Get("Authorization"); auth != "" {
		if token, ok := strings.CutPrefix(auth, "Bearer "); ok {
			return token
		}
	}
	if c, err := r.Cookie(sessionCookie); err == nil {
		return c.Value
	}
	return ""
}

// requireAuth resolves the session token to an admin account and threads it
// through the request context. Missing or invalid tokens get 401.
func (h *Handler) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := sessionToken(r)
		if token == "" {
			writeError(w, http.StatusUnauthorized, "not authorized")
			return
		}

		account, err := h.admins.Authenticate(r.Context(), token)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "not authorized")
			return
		}

		ctx := context.WithValue(r.Context(), requestingAdminKey{}, account)
		next(w, r.WithContext(ctx))
	}
}

// requireManager is requireAuth plus a role check for management endpoints.
func (h *Handler) requireManager(next http.HandlerFunc) http.HandlerFunc {
	return h.requireAuth(func(w http.ResponseWriter, r *http.Request) {
		if a := AdminFromContext(r.Context()); a == nil || !a.Role.CanManage() {
			writeError(w, http.StatusForbidden, "insufficient permissions")
			return
		}
		next(w, r)
	})
}
