package jwt

import (
	"testing"
	"time"

	"github.com/cmlabs-hris/hrm-api/internal/domain/user"
	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService(t *testing.T, refreshExp string) *JWTService {
	t.Helper()
	svc, err := NewJWTService("access-secret", "refresh-secret", "1h", refreshExp)
	require.NoError(t, err)
	return svc.(*JWTService)
}

func TestGenerateAccessToken_Claims(t *testing.T) {
	svc := newService(t, "")

	token, expiresAt, err := svc.GenerateAccessToken(7, "admin@example.com", user.RoleAdmin)
	require.NoError(t, err)
	assert.InDelta(t, time.Now().Add(time.Hour).Unix(), expiresAt, 5)

	parsed, err := jwtauth.VerifyToken(svc.JWTAuth(), token)
	require.NoError(t, err)
	assert.Equal(t, "7", parsed.Subject())
	role, _ := parsed.Get("role")
	assert.Equal(t, "admin", role)
	typ, _ := parsed.Get("type")
	assert.Equal(t, TokenTypeAccess, typ)
}

func TestGenerateAccessToken_Unique(t *testing.T) {
	svc := newService(t, "")

	a, _, err := svc.GenerateAccessToken(1, "a@example.com", user.RoleUser)
	require.NoError(t, err)
	b, _, err := svc.GenerateAccessToken(1, "a@example.com", user.RoleUser)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestRefreshToken_NoExpiryByDefault(t *testing.T) {
	svc := newService(t, "")

	token, expiresAt, err := svc.GenerateRefreshToken(3)
	require.NoError(t, err)
	assert.Zero(t, expiresAt)

	id, err := svc.VerifyRefreshToken(token)
	require.NoError(t, err)
	assert.Equal(t, 3, id)
}

func TestRefreshToken_SignedWithSeparateSecret(t *testing.T) {
	svc := newService(t, "")

	access, _, err := svc.GenerateAccessToken(3, "a@example.com", user.RoleUser)
	require.NoError(t, err)
	_, err = svc.VerifyRefreshToken(access)
	assert.ErrorIs(t, err, ErrTokenInvalid)

	refresh, _, err := svc.GenerateRefreshToken(3)
	require.NoError(t, err)
	_, err = jwtauth.VerifyToken(svc.JWTAuth(), refresh)
	assert.Error(t, err)
}

func TestRefreshToken_Expired(t *testing.T) {
	svc := newService(t, "1m")
	svc.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	token, expiresAt, err := svc.GenerateRefreshToken(3)
	require.NoError(t, err)
	assert.NotZero(t, expiresAt)

	_, err = svc.VerifyRefreshToken(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestRefreshToken_Garbage(t *testing.T) {
	svc := newService(t, "")
	_, err := svc.VerifyRefreshToken("not-a-token")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestNewJWTService_InvalidDurations(t *testing.T) {
	_, err := NewJWTService("a", "b", "soon", "")
	assert.Error(t, err)
	_, err = NewJWTService("a", "b", "1h", "later")
	assert.Error(t, err)
}

func TestRefreshTokenCookie(t *testing.T) {
	svc := newService(t, "")

	c := svc.RefreshTokenCookie("tok", 0)
	assert.True(t, c.Expires.IsZero())
	assert.True(t, c.HttpOnly)

	c = svc.RefreshTokenCookie("tok", 1700000000)
	assert.Equal(t, int64(1700000000), c.Expires.Unix())
}
