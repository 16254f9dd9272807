package user

import "time"

type Role string

const (
	RoleAdmin Role = "admin" // Full access to the directory and projects
	RoleUser  Role = "user"  // Read-only access
)

type User struct {
	ID           int       `json:"id"`
	Email        string    `json:"email"`
	Password     string    `json:"password"`
	Name         string    `json:"name"`
	Role         Role      `json:"role"`
	Verified     bool      `json:"verified"`
	AccessToken  string    `json:"accessToken,omitempty"`
	RefreshToken string    `json:"refreshToken,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// IsAdmin checks if user is an administrator
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// HasRole checks if user holds exactly the given role
func (u *User) HasRole(role Role) bool {
	return u.Role == role
}

// Sanitize strips the password hash and session tokens.
func (u User) Sanitize() UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      string(u.Role),
		Verified:  u.Verified,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
