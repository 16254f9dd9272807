package jwt

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/cmlabs-hris/hrm-api/internal/domain/user"
	"github.com/go-chi/jwtauth/v5"
	"github.com/google/uuid"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

var (
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("token invalid")
)

type Service interface {
	GenerateAccessToken(userID int, email string, role user.Role) (token string, expiresAt int64, err error)

	// GenerateRefreshToken signs with the refresh secret. expiresAt is 0 when
	// refresh tokens are configured without expiry.
	GenerateRefreshToken(userID int) (token string, expiresAt int64, err error)

	// VerifyRefreshToken checks signature, type and expiry and returns the subject.
	VerifyRefreshToken(token string) (userID int, err error)

	JWTAuth() *jwtauth.JWTAuth
	RefreshTokenCookie(token string, expiresAt int64) *http.Cookie
}

type JWTService struct {
	accessTokenExpirationTime  string
	refreshTokenExpirationTime string
	tokenAuth                  *jwtauth.JWTAuth
	refreshAuth                *jwtauth.JWTAuth
	now                        func() time.Time
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func NewJWTService(secretKey, refreshSecretKey, accessTokenExpirationTime, refreshTokenExpirationTime string) (Service, error) {
	if _, err := time.ParseDuration(accessTokenExpirationTime); err != nil {
		return nil, fmt.Errorf("invalid access token expiration %q: %w", accessTokenExpirationTime, err)
	}
	if refreshTokenExpirationTime != "" {
		if _, err := time.ParseDuration(refreshTokenExpirationTime); err != nil {
			return nil, fmt.Errorf("invalid refresh token expiration %q: %w", refreshTokenExpirationTime, err)
		}
	}

	return &JWTService{
		accessTokenExpirationTime:  accessTokenExpirationTime,
		refreshTokenExpirationTime: refreshTokenExpirationTime,
		tokenAuth:                  jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
		refreshAuth:                jwtauth.New("HS256", []byte(refreshSecretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
		now:                        time.Now,
	}, nil
}

func (j *JWTService) GenerateAccessToken(userID int, email string, role user.Role) (token string, expiresAt int64, err error) {
	expDuration, err := time.ParseDuration(j.accessTokenExpirationTime)
	if err != nil {
		return "", 0, err
	}
	now := j.now()
	expiresAt = now.Add(expDuration).Unix()

	claims := map[string]interface{}{
		jwt.SubjectKey:    strconv.Itoa(userID),
		jwt.JwtIDKey:      uuid.NewString(),
		jwt.IssuedAtKey:   now.Unix(),
		jwt.ExpirationKey: expiresAt,
		"email":           email,
		"role":            string(role),
		"type":            TokenTypeAccess,
	}

	_, tokenString, err := j.tokenAuth.Encode(claims)
	return tokenString, expiresAt, err
}

func (j *JWTService) GenerateRefreshToken(userID int) (token string, expiresAt int64, err error) {
	now := j.now()
	claims := map[string]interface{}{
		jwt.SubjectKey:  strconv.Itoa(userID),
		jwt.JwtIDKey:    uuid.NewString(),
		jwt.IssuedAtKey: now.Unix(),
		"type":          TokenTypeRefresh,
	}

	if j.refreshTokenExpirationTime != "" {
		expDuration, err := time.ParseDuration(j.refreshTokenExpirationTime)
		if err != nil {
			return "", 0, err
		}
		expiresAt = now.Add(expDuration).Unix()
		claims[jwt.ExpirationKey] = expiresAt
	}

	_, tokenString, err := j.refreshAuth.Encode(claims)
	return tokenString, expiresAt, err
}

func (j *JWTService) VerifyRefreshToken(tokenString string) (int, error) {
	token, err := jwtauth.VerifyToken(j.refreshAuth, tokenString)
	if err != nil {
		if errors.Is(err, jwtauth.ErrExpired) {
			return 0, ErrTokenExpired
		}
		return 0, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}

	tokenType, ok := token.Get("type")
	if !ok || tokenType != TokenTypeRefresh {
		return 0, ErrTokenInvalid
	}

	userID, err := strconv.Atoi(token.Subject())
	if err != nil {
		return 0, ErrTokenInvalid
	}
	return userID, nil
}

func (j *JWTService) RefreshTokenCookie(token string, expiresAt int64) *http.Cookie {
	cookie := &http.Cookie{
		Name:     "refresh_token",
		Value:    token,
		Path:     "/refresh-token",
		HttpOnly: true,
		Secure:   false,
		SameSite: http.SameSiteStrictMode,
	}
	if expiresAt > 0 {
		cookie.Expires = time.Unix(expiresAt, 0)
	}
	return cookie
}
