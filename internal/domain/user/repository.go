package user

import (
	"context"
)

type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (User, error)
	GetByID(ctx context.Context, id int) (User, error)
	GetByRefreshToken(ctx context.Context, token string) (User, error)
	Create(ctx context.Context, newUser User) (User, error)
	SaveSession(ctx context.Context, id int, accessToken, refreshToken string) error
	SaveAccessToken(ctx context.Context, id int, accessToken string) error
	List(ctx context.Context) ([]User, error)
}
