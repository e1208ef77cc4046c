package auth

import "errors"

var (
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrAccountDisabled     = errors.New("account is inactive")
	ErrInvalidToken        = errors.New("invalid or expired token")
	ErrRefreshTokenRevoked = errors.New("refresh token has been revoked")
	ErrOAuthNotConfigured  = errors.New("google sign-in is not configured")
	ErrOAuthInvalidState   = errors.New("invalid oauth state")
	ErrEmailNotVerified    = errors.New("google account email is not verified")
)
