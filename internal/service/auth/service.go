package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/cmlabs-hris/hrm-api/internal/domain/auth"
	"github.com/cmlabs-hris/hrm-api/internal/domain/user"
	"github.com/cmlabs-hris/hrm-api/internal/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
)

type AuthServiceImpl struct {
	user.UserRepository
	jwt.Service
	now func() time.Time
}

func NewAuthService(userRepository user.UserRepository, jwtService jwt.Service) auth.AuthService {
	return &AuthServiceImpl{
		UserRepository: userRepository,
		Service:        jwtService,
		now:            time.Now,
	}
}

// HashPassword hashes a plain password with bcrypt's default cost.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword reports auth.ErrInvalidCredentials on a mismatch and any
// other bcrypt failure as-is.
func VerifyPassword(hash, password string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return auth.ErrInvalidCredentials
	}
	return err
}

// Login implements auth.AuthService.
func (a *AuthServiceImpl) Login(ctx context.Context, loginReq auth.LoginRequest) (auth.LoginResponse, error) {
	userData, err := a.UserRepository.GetByEmail(ctx, loginReq.Email)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return auth.LoginResponse{}, auth.ErrUserNotFound
		}
		return auth.LoginResponse{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	if !userData.Verified {
		return auth.LoginResponse{}, auth.ErrUnverified
	}

	if err := VerifyPassword(userData.Password, loginReq.Password); err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			return auth.LoginResponse{}, err
		}
		return auth.LoginResponse{}, fmt.Errorf("failed to compare password: %w", err)
	}

	accessToken, accessExp, err := a.Service.GenerateAccessToken(userData.ID, userData.Email, userData.Role)
	if err != nil {
		return auth.LoginResponse{}, fmt.Errorf("failed to create access token: %w", err)
	}
	refreshToken, refreshExp, err := a.Service.GenerateRefreshToken(userData.ID)
	if err != nil {
		return auth.LoginResponse{}, fmt.Errorf("failed to create refresh token: %w", err)
	}

	if err := a.UserRepository.SaveSession(ctx, userData.ID, accessToken, refreshToken); err != nil {
		return auth.LoginResponse{}, fmt.Errorf("failed to save session: %w", err)
	}

	return auth.LoginResponse{
		User:                 userData.Sanitize(),
		AccessToken:          accessToken,
		AccessTokenExpiresIn: a.expiresIn(accessExp),
		RefreshToken:         refreshToken,
		RefreshTokenExpires:  refreshExp,
	}, nil
}

// RefreshToken implements auth.AuthService.
func (a *AuthServiceImpl) RefreshToken(ctx context.Context, req auth.RefreshTokenRequest) (auth.AccessTokenResponse, error) {
	if req.RefreshToken == "" {
		return auth.AccessTokenResponse{}, auth.ErrRefreshTokenRequired
	}

	userData, err := a.UserRepository.GetByRefreshToken(ctx, req.RefreshToken)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return auth.AccessTokenResponse{}, auth.ErrRefreshTokenNotFound
		}
		return auth.AccessTokenResponse{}, fmt.Errorf("failed to get user by refresh token: %w", err)
	}

	subject, err := a.Service.VerifyRefreshToken(req.RefreshToken)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return auth.AccessTokenResponse{}, auth.ErrTokenExpired
		}
		return auth.AccessTokenResponse{}, auth.ErrInvalidToken
	}
	if subject != userData.ID {
		return auth.AccessTokenResponse{}, auth.ErrInvalidToken
	}

	accessToken, accessExp, err := a.Service.GenerateAccessToken(userData.ID, userData.Email, userData.Role)
	if err != nil {
		return auth.AccessTokenResponse{}, fmt.Errorf("failed to create access token: %w", err)
	}
	if err := a.UserRepository.SaveAccessToken(ctx, userData.ID, accessToken); err != nil {
		return auth.AccessTokenResponse{}, fmt.Errorf("failed to save access token: %w", err)
	}

	return auth.AccessTokenResponse{
		AccessToken:          accessToken,
		AccessTokenExpiresIn: a.expiresIn(accessExp),
	}, nil
}

// ResolveCaller implements auth.AuthService.
func (a *AuthServiceImpl) ResolveCaller(ctx context.Context, subject string) (user.User, error) {
	id, err := strconv.Atoi(subject)
	if err != nil {
		return user.User{}, auth.ErrInvalidToken
	}
	caller, err := a.UserRepository.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return user.User{}, auth.ErrUserNotFound
		}
		return user.User{}, err
	}
	return caller, nil
}

func (a *AuthServiceImpl) expiresIn(expiresAt int64) int64 {
	return max(0, expiresAt-a.now().Unix())
}
