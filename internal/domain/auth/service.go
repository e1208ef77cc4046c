package auth

import (
	"context"
	"time"

	"github.com/cmlabs-hris/hr-portal-backend-go/internal/domain/user"
)

type AuthService interface {
	// Register creates a pending user with default leave balances.
	Register(ctx context.Context, req RegisterRequest, session SessionTrackingRequest) (TokenResponse, error)
	Login(ctx context.Context, req LoginRequest, session SessionTrackingRequest) (TokenResponse, error)

	// LoginWithGoogle links by email or registers a pending user.
	LoginWithGoogle(ctx context.Context, profile GoogleProfile, session SessionTrackingRequest) (TokenResponse, error)

	RefreshToken(ctx context.Context, req RefreshTokenRequest) (AccessTokenResponse, error)
	Logout(ctx context.Context, refreshToken string) error
	Me(ctx context.Context) (user.UserResponse, error)

	PurgeExpiredTokens(ctx context.Context, now time.Time) (int64, error)
}

// TokenRepository stores hashed refresh tokens.
type TokenRepository interface {
	CreateRefreshToken(ctx context.Context, userID string, token string, expiresAt int64, session SessionTrackingRequest) error

	// GetRefreshTokenOwner returns the owning user and whether the token is revoked or expired.
	GetRefreshTokenOwner(ctx context.Context, token string, now time.Time) (userID string, revoked bool, err error)
	RevokeRefreshToken(ctx context.Context, token string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
