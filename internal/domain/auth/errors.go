package auth

import "errors"

var (
	ErrInvalidCredentials   = errors.New("password does not match")
	ErrUnverified           = errors.New("account is not verified")
	ErrUserNotFound         = errors.New("user not found")
	ErrTokenRequired        = errors.New("access token is required")
	ErrInvalidToken         = errors.New("invalid token")
	ErrTokenExpired         = errors.New("token has expired")
	ErrRefreshTokenRequired = errors.New("refresh token is required")
	ErrRefreshTokenNotFound = errors.New("refresh token not recognised")
)
