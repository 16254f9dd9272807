package user

import (
	"time"

	"github.com/cmlabs-hris/hrm-api/internal/pkg/listing"
)

// UserResponse represents user data in API responses
type UserResponse struct {
	ID        int       `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name,omitempty"`
	Role      string    `json:"role"`
	Verified  bool      `json:"verified"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type ListUserResponse = listing.Result[UserResponse]

// SortFields lists the keys accepted by _sort on GET /users.
var SortFields = listing.Comparators[UserResponse]{
	"id":        func(a, b UserResponse) int { return listing.CompareInt(a.ID, b.ID) },
	"email":     func(a, b UserResponse) int { return listing.CompareString(a.Email, b.Email) },
	"name":      func(a, b UserResponse) int { return listing.CompareString(a.Name, b.Name) },
	"role":      func(a, b UserResponse) int { return listing.CompareString(a.Role, b.Role) },
	"createdAt": func(a, b UserResponse) int { return a.CreatedAt.Compare(b.CreatedAt) },
}
