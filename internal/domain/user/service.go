package user

import (
	"context"

	"github.com/cmlabs-hris/hrm-api/internal/pkg/listing"
)

type UserService interface {
	// ListUsers lists accounts without credentials or session tokens
	ListUsers(ctx context.Context, params listing.Params) (ListUserResponse, error)
}
