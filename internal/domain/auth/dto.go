package auth

import (
	"github.com/cmlabs-hris/hrm-api/internal/domain/user"
	"github.com/cmlabs-hris/hrm-api/internal/pkg/validator"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *LoginRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Email) {
		errs = append(errs, validator.ValidationError{
			Field:   "email",
			Message: "email is required",
		})
	} else if !validator.IsValidEmail(r.Email) {
		errs = append(errs, validator.ValidationError{
			Field:   "email",
			Message: "email must be a valid email address",
		})
	}

	if validator.IsEmpty(r.Password) {
		errs = append(errs, validator.ValidationError{
			Field:   "password",
			Message: "password is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// RefreshTokenRequest carries the refresh token in the body; the handler
// falls back to the refresh_token cookie when the body is empty.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type LoginResponse struct {
	User                 user.UserResponse `json:"user"`
	AccessToken          string            `json:"accessToken"`
	AccessTokenExpiresIn int64             `json:"accessTokenExpiresIn"`
	RefreshToken         string            `json:"refreshToken"`

	// RefreshTokenExpires is the unix expiry of the refresh token, 0 when it never expires.
	RefreshTokenExpires int64 `json:"-"`
}

type AccessTokenResponse struct {
	AccessToken          string `json:"accessToken"`
	AccessTokenExpiresIn int64  `json:"accessTokenExpiresIn"`
}
