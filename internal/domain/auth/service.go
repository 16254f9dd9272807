package auth

import (
	"context"

	"github.com/cmlabs-hris/hrm-api/internal/domain/user"
)

type AuthService interface {
	Login(ctx context.Context, req LoginRequest) (LoginResponse, error)
	RefreshToken(ctx context.Context, req RefreshTokenRequest) (AccessTokenResponse, error)

	// ResolveCaller loads the account named by an access token subject.
	ResolveCaller(ctx context.Context, subject string) (user.User, error)
}
