package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/cmlabs-hris/hrm-api/internal/domain/auth"
	"github.com/cmlabs-hris/hrm-api/internal/domain/user"
	"github.com/cmlabs-hris/hrm-api/internal/handler/http/response"
	"github.com/cmlabs-hris/hrm-api/internal/pkg/jwt"
	"github.com/go-chi/jwtauth/v5"
)

// CallerResolver loads the account named by a token subject.
type CallerResolver interface {
	ResolveCaller(ctx context.Context, subject string) (user.User, error)
}

// AuthRequired must run after jwtauth.Verifier. A missing token is 401; an
// expired, invalid or non-access token, or one whose subject no longer
// exists, is 403.
func AuthRequired(resolver CallerResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		hfn := func(w http.ResponseWriter, r *http.Request) {
			token, claims, err := jwtauth.FromContext(r.Context())

			switch {
			case errors.Is(err, jwtauth.ErrNoTokenFound):
				response.HandleError(w, auth.ErrTokenRequired)
				return
			case errors.Is(err, jwtauth.ErrExpired):
				response.HandleError(w, auth.ErrTokenExpired)
				return
			case err != nil, token == nil:
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			tokenType, ok := claims["type"].(string)
			if tokenType != jwt.TokenTypeAccess || !ok {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			caller, err := resolver.ResolveCaller(r.Context(), token.Subject())
			if err != nil {
				if errors.Is(err, auth.ErrUserNotFound) || errors.Is(err, auth.ErrInvalidToken) {
					response.Forbidden(w, "User no longer exists")
					return
				}
				response.HandleError(w, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithCaller(r.Context(), caller)))
		}
		return http.HandlerFunc(hfn)
	}
}
