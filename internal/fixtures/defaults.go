package fixtures

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hrm-api/internal/domain/master/position"
	"github.com/cmlabs-hris/hrm-api/internal/domain/user"
	"github.com/cmlabs-hris/hrm-api/internal/pkg/database"
	serviceAuth "github.com/cmlabs-hris/hrm-api/internal/service/auth"
)

// ==========================================
// DEFAULT POSITIONS
// ==========================================

// GetDefaultPositions returns the standard job positions of a fresh directory
func GetDefaultPositions() []position.Position {
	return []position.Position{
		{Name: "Director"},
		{Name: "Manager"},
		{Name: "Supervisor"},
		{Name: "Team Lead"},
		{Name: "Senior Staff"},
		{Name: "Staff"},
		{Name: "Junior Staff"},
		{Name: "Intern"},
	}
}

// ==========================================
// BOOTSTRAP ADMIN
// ==========================================

// Admin describes the first account created in an empty document.
type Admin struct {
	Email    string
	Password string
}

// Seeder fills an empty document with default positions and the bootstrap admin.
type Seeder struct {
	db           database.Transactor
	userRepo     user.UserRepository
	positionRepo position.PositionRepository
	now          func() time.Time
}

func NewSeeder(db database.Transactor, userRepo user.UserRepository, positionRepo position.PositionRepository) *Seeder {
	return &Seeder{db: db, userRepo: userRepo, positionRepo: positionRepo, now: time.Now}
}

// Seed is a no-op for collections that already hold data, so it is safe on
// every start. An admin with an empty email or password is skipped.
func (s *Seeder) Seed(ctx context.Context, admin Admin) error {
	return s.db.WithWriteLock(ctx, func(txCtx context.Context) error {
		positions, err := s.positionRepo.List(txCtx)
		if err != nil {
			return fmt.Errorf("failed to list positions: %w", err)
		}
		if len(positions) == 0 {
			for _, p := range GetDefaultPositions() {
				if _, err := s.positionRepo.Create(txCtx, p); err != nil {
					return fmt.Errorf("failed to seed position %q: %w", p.Name, err)
				}
			}
			slog.Info("Seeded default positions", "count", len(GetDefaultPositions()))
		}

		users, err := s.userRepo.List(txCtx)
		if err != nil {
			return fmt.Errorf("failed to list users: %w", err)
		}
		if len(users) > 0 || admin.Email == "" || admin.Password == "" {
			return nil
		}

		hash, err := serviceAuth.HashPassword(admin.Password)
		if err != nil {
			return fmt.Errorf("failed to hash admin password: %w", err)
		}
		now := s.now()
		created, err := s.userRepo.Create(txCtx, user.User{
			Email:     admin.Email,
			Password:  hash,
			Name:      "Administrator",
			Role:      user.RoleAdmin,
			Verified:  true,
			CreatedAt: now,
			UpdatedAt: now,
		})
		if err != nil {
			return fmt.Errorf("failed to seed admin: %w", err)
		}
		slog.Info("Seeded bootstrap admin", "user_id", created.ID, "email", created.Email)
		return nil
	})
}
