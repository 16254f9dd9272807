package user

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/hrm-api/internal/domain/user"
	"github.com/cmlabs-hris/hrm-api/internal/pkg/listing"
)

type UserServiceImpl struct {
	user.UserRepository
}

func NewUserService(repo user.UserRepository) user.UserService {
	return &UserServiceImpl{UserRepository: repo}
}

// ListUsers implements user.UserService.
func (s *UserServiceImpl) ListUsers(ctx context.Context, params listing.Params) (user.ListUserResponse, error) {
	users, err := s.UserRepository.List(ctx)
	if err != nil {
		return user.ListUserResponse{}, fmt.Errorf("failed to list users: %w", err)
	}

	out := make([]user.UserResponse, 0, len(users))
	for _, u := range users {
		if !listing.MatchName(u.Name, params.Name) || !listing.MatchQuery(params.Query, u.Name, u.Email) {
			continue
		}
		out = append(out, u.Sanitize())
	}
	return listing.Apply(out, params, user.SortFields)
}
