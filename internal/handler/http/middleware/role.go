package middleware

import (
	"net/http"

	"github.com/cmlabs-hris/hrm-api/internal/domain/auth"
	"github.com/cmlabs-hris/hrm-api/internal/domain/user"
	"github.com/cmlabs-hris/hrm-api/internal/handler/http/response"
)

// RequireRole admits only callers holding role. It reads the caller stored
// by AuthRequired, not the token claims, so a role change applies at once.
func RequireRole(role user.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			caller, ok := CallerFromContext(r.Context())
			if !ok {
				response.HandleError(w, auth.ErrTokenRequired)
				return
			}

			if !caller.HasRole(role) {
				if role == user.RoleAdmin {
					response.HandleError(w, user.ErrAdminPrivilegeRequired)
					return
				}
				response.Forbidden(w, "Insufficient permissions: required '"+string(role)+"'")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// AdminOnly is RequireRole(user.RoleAdmin).
func AdminOnly(next http.Handler) http.Handler {
	return RequireRole(user.RoleAdmin)(next)
}
