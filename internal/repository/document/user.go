package document

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/cmlabs-hris/hrm-api/internal/domain/user"
)

type userRepositoryImpl struct {
	store *Store
	now   func() time.Time
}

func NewUserRepository(store *Store) user.UserRepository {
	return &userRepositoryImpl{store: store, now: time.Now}
}

func (r *userRepositoryImpl) find(ctx context.Context, match func(u user.User) bool) (user.User, error) {
	var found user.User
	err := r.store.View(ctx, func(doc *Document) error {
		i := slices.IndexFunc(doc.Users, match)
		if i < 0 {
			return user.ErrUserNotFound
		}
		found = doc.Users[i]
		return nil
	})
	return found, err
}

// GetByEmail matches case-insensitively.
func (r *userRepositoryImpl) GetByEmail(ctx context.Context, email string) (user.User, error) {
	return r.find(ctx, func(u user.User) bool { return strings.EqualFold(u.Email, email) })
}

func (r *userRepositoryImpl) GetByID(ctx context.Context, id int) (user.User, error) {
	return r.find(ctx, func(u user.User) bool { return u.ID == id })
}

func (r *userRepositoryImpl) GetByRefreshToken(ctx context.Context, token string) (user.User, error) {
	if token == "" {
		return user.User{}, user.ErrUserNotFound
	}
	return r.find(ctx, func(u user.User) bool { return u.RefreshToken == token })
}

func (r *userRepositoryImpl) Create(ctx context.Context, newUser user.User) (user.User, error) {
	err := r.store.update(ctx, func(doc *Document) error {
		if slices.ContainsFunc(doc.Users, func(u user.User) bool { return strings.EqualFold(u.Email, newUser.Email) }) {
			return user.ErrUserEmailExists
		}
		newUser.ID = doc.NextID(CollectionUsers)
		doc.Users = append(doc.Users, newUser)
		return nil
	})
	if err != nil {
		return user.User{}, err
	}
	return newUser, nil
}

// SaveSession overwrites both stored tokens; one session per user.
func (r *userRepositoryImpl) SaveSession(ctx context.Context, id int, accessToken, refreshToken string) error {
	return r.modify(ctx, id, func(u *user.User) {
		u.AccessToken = accessToken
		u.RefreshToken = refreshToken
	})
}

func (r *userRepositoryImpl) SaveAccessToken(ctx context.Context, id int, accessToken string) error {
	return r.modify(ctx, id, func(u *user.User) {
		u.AccessToken = accessToken
	})
}

func (r *userRepositoryImpl) List(ctx context.Context) ([]user.User, error) {
	var out []user.User
	err := r.store.View(ctx, func(doc *Document) error {
		out = append([]user.User{}, doc.Users...)
		return nil
	})
	return out, err
}

func (r *userRepositoryImpl) modify(ctx context.Context, id int, fn func(u *user.User)) error {
	return r.store.update(ctx, func(doc *Document) error {
		i := slices.IndexFunc(doc.Users, func(u user.User) bool { return u.ID == id })
		if i < 0 {
			return user.ErrUserNotFound
		}
		fn(&doc.Users[i])
		doc.Users[i].UpdatedAt = r.now()
		return nil
	})
}
