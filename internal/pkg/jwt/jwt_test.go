package jwt

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/hr-portal-backend-go/internal/domain/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) Service {
	t.Helper()
	svc, err := NewJWTService("test-secret", "1h", "24h", false)
	require.NoError(t, err)
	return svc
}

func TestNewJWTServiceRejectsBadDuration(t *testing.T) {
	_, err := NewJWTService("secret", "soon", "24h", false)
	assert.Error(t, err)
}

func TestAccessTokenRoundTrip(t *testing.T) {
	svc := newTestService(t)

	token, exp, err := svc.GenerateAccessToken("u-1", "a@example.com", user.RoleAdmin)
	require.NoError(t, err)
	assert.Greater(t, exp, time.Now().Unix())

	id, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "u-1", id.UserID)
	assert.Equal(t, "a@example.com", id.Email)
	assert.Equal(t, user.RoleAdmin, id.Role)
}

func TestVerifyRejectsOtherTokenTypes(t *testing.T) {
	svc := newTestService(t)

	refresh, _, err := svc.GenerateRefreshToken("u-1")
	require.NoError(t, err)
	_, err = svc.Verify(refresh)
	assert.ErrorIs(t, err, ErrWrongTokenType)

	sse, _, err := svc.GenerateSSEToken("u-1")
	require.NoError(t, err)
	_, err = svc.Verify(sse)
	assert.ErrorIs(t, err, ErrWrongTokenType)
}

func TestVerifyRejectsRevokedAndForeignTokens(t *testing.T) {
	svc := newTestService(t)
	token, _, err := svc.GenerateAccessToken("u-1", "a@example.com", user.RoleUser)
	require.NoError(t, err)

	svc.RevokeToken(token)
	assert.True(t, svc.IsTokenRevoked(token))
	_, err = svc.Verify(token)
	assert.Error(t, err)

	other, err := NewJWTService("another-secret", "1h", "24h", false)
	require.NoError(t, err)
	foreign, _, err := other.GenerateAccessToken("u-1", "a@example.com", user.RoleAdmin)
	require.NoError(t, err)
	_, err = svc.Verify(foreign)
	assert.Error(t, err)
}

func TestRefreshTokensAreDistinct(t *testing.T) {
	svc := newTestService(t)
	a, _, err := svc.GenerateRefreshToken("u-1")
	require.NoError(t, err)
	b, _, err := svc.GenerateRefreshToken("u-1")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)

	userID, err := svc.VerifyRefresh(context.Background(), a)
	require.NoError(t, err)
	assert.Equal(t, "u-1", userID)
}

func TestSSEToken(t *testing.T) {
	svc := newTestService(t)
	token, expiresIn, err := svc.GenerateSSEToken("u-9")
	require.NoError(t, err)
	assert.Equal(t, 300, expiresIn)

	userID, err := svc.ValidateSSEToken(token)
	require.NoError(t, err)
	assert.Equal(t, "u-9", userID)

	access, _, err := svc.GenerateAccessToken("u-9", "x@example.com", user.RoleUser)
	require.NoError(t, err)
	_, err = svc.ValidateSSEToken(access)
	assert.ErrorIs(t, err, ErrWrongTokenType)
}

func TestPurgeRevoked(t *testing.T) {
	svc := newTestService(t)
	svc.RevokeToken("old")
	svc.RevokeToken("new")

	assert.Equal(t, 0, svc.PurgeRevoked(time.Now()))
	assert.Equal(t, 2, svc.PurgeRevoked(time.Now().Add(2*time.Hour)))
	assert.False(t, svc.IsTokenRevoked("old"))
}
