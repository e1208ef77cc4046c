package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/cmlabs-hris/hr-portal-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hr-portal-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/hr-portal-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/hr-portal-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/hr-portal-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/hr-portal-backend-go/internal/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
)

const providerGoogle = "google"

// DefaultBalances are granted to every new account.
type DefaultBalances struct {
	Sick      int
	Annual    int
	Emergency int
}

type AuthServiceImpl struct {
	user.UserRepository
	jwt.Service
	tokenRepo    auth.TokenRepository
	balanceRepo  leave.BalanceRepository
	tx           database.Transactor
	defaults     DefaultBalances
	onlineWindow time.Duration
	now          func() time.Time
	bcryptCost   int
}

func NewAuthService(
	userRepository user.UserRepository,
	balanceRepository leave.BalanceRepository,
	tokenRepository auth.TokenRepository,
	jwtService jwt.Service,
	tx database.Transactor,
	defaults DefaultBalances,
	onlineWindow time.Duration,
) auth.AuthService {
	return &AuthServiceImpl{
		UserRepository: userRepository,
		Service:        jwtService,
		tokenRepo:      tokenRepository,
		balanceRepo:    balanceRepository,
		tx:             tx,
		defaults:       defaults,
		onlineWindow:   onlineWindow,
		now:            time.Now,
		bcryptCost:     bcrypt.DefaultCost,
	}
}

func (a *AuthServiceImpl) hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), a.bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// issueTokens mints an access/refresh pair and stores the refresh token.
func (a *AuthServiceImpl) issueTokens(ctx context.Context, u user.User, session auth.SessionTrackingRequest) (auth.TokenResponse, error) {
	var tokenResponse auth.TokenResponse
	var err error

	tokenResponse.AccessToken, tokenResponse.AccessTokenExpiresIn, err = a.Service.GenerateAccessToken(u.ID, u.Email, u.Role)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to create access token: %w", err)
	}
	tokenResponse.RefreshToken, tokenResponse.RefreshTokenExpiresIn, err = a.Service.GenerateRefreshToken(u.ID)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to create refresh token: %w", err)
	}

	if err := a.tokenRepo.CreateRefreshToken(ctx, u.ID, tokenResponse.RefreshToken, tokenResponse.RefreshTokenExpiresIn, session); err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to save refresh token to database: %w", err)
	}
	return tokenResponse, nil
}

// createAccount inserts the user and the starting balances together.
func (a *AuthServiceImpl) createAccount(ctx context.Context, newUser user.User, session auth.SessionTrackingRequest) (auth.TokenResponse, error) {
	var tokenResponse auth.TokenResponse
	err := a.tx.WithinTx(ctx, func(txCtx context.Context) error {
		created, err := a.UserRepository.Create(txCtx, newUser)
		if err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}
		if _, err := a.balanceRepo.Create(txCtx, leave.Balance{
			UserID:         created.ID,
			SickLeave:      a.defaults.Sick,
			AnnualLeave:    a.defaults.Annual,
			EmergencyLeave: a.defaults.Emergency,
		}); err != nil {
			return fmt.Errorf("failed to create leave balance: %w", err)
		}
		tokenResponse, err = a.issueTokens(txCtx, created, session)
		return err
	})
	if err != nil {
		return auth.TokenResponse{}, err
	}
	return tokenResponse, nil
}

// Register implements auth.AuthService.
func (a *AuthServiceImpl) Register(ctx context.Context, req auth.RegisterRequest, session auth.SessionTrackingRequest) (auth.TokenResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.TokenResponse{}, err
	}

	_, err := a.UserRepository.GetByEmail(ctx, req.Email)
	if err == nil {
		return auth.TokenResponse{}, user.ErrUserEmailExists
	}
	if !errors.Is(err, user.ErrUserNotFound) {
		return auth.TokenResponse{}, fmt.Errorf("failed to get user data by email: %w", err)
	}

	hashedPassword, err := a.hashPassword(req.Password)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to hash password: %w", err)
	}

	tokens, err := a.createAccount(ctx, user.User{
		DisplayName:  req.DisplayName,
		Email:        req.Email,
		PasswordHash: &hashedPassword,
		Role:         user.RoleUser,
		Status:       user.StatusPending,
	}, session)
	if err != nil {
		return auth.TokenResponse{}, err
	}

	slog.Info("User registered", "email", req.Email)
	return tokens, nil
}

// Login implements auth.AuthService.
func (a *AuthServiceImpl) Login(ctx context.Context, req auth.LoginRequest, session auth.SessionTrackingRequest) (auth.TokenResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.TokenResponse{}, err
	}

	userData, err := a.UserRepository.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return auth.TokenResponse{}, auth.ErrInvalidCredentials
		}
		return auth.TokenResponse{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	if userData.PasswordHash == nil {
		return auth.TokenResponse{}, auth.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*userData.PasswordHash), []byte(req.Password)); err != nil {
		return auth.TokenResponse{}, auth.ErrInvalidCredentials
	}
	if userData.Status == user.StatusInactive {
		return auth.TokenResponse{}, auth.ErrAccountDisabled
	}

	return a.issueTokens(ctx, userData, session)
}

// LoginWithGoogle implements auth.AuthService.
func (a *AuthServiceImpl) LoginWithGoogle(ctx context.Context, profile auth.GoogleProfile, session auth.SessionTrackingRequest) (auth.TokenResponse, error) {
	if !profile.VerifiedEmail {
		return auth.TokenResponse{}, auth.ErrEmailNotVerified
	}
	email := strings.ToLower(strings.TrimSpace(profile.Email))

	userData, err := a.UserRepository.GetByOAuth(ctx, providerGoogle, profile.ID)
	if err != nil && !errors.Is(err, user.ErrUserNotFound) {
		return auth.TokenResponse{}, fmt.Errorf("failed to get user by oauth id: %w", err)
	}

	if err != nil {
		userData, err = a.UserRepository.GetByEmail(ctx, email)
		switch {
		case err == nil:
			// existing password account, link it
			if err := a.UserRepository.LinkOAuth(ctx, userData.ID, providerGoogle, profile.ID); err != nil {
				return auth.TokenResponse{}, fmt.Errorf("failed to link google account: %w", err)
			}
		case errors.Is(err, user.ErrUserNotFound):
			provider, providerID := providerGoogle, profile.ID
			newUser := user.User{
				DisplayName:     displayNameFor(profile),
				Email:           email,
				OAuthProvider:   &provider,
				OAuthProviderID: &providerID,
				Role:            user.RoleUser,
				Status:          user.StatusPending,
			}
			if profile.Picture != "" {
				picture := profile.Picture
				newUser.PhotoURL = &picture
			}
			return a.createAccount(ctx, newUser, session)
		default:
			return auth.TokenResponse{}, fmt.Errorf("failed to get user data by email: %w", err)
		}
	}

	if userData.Status == user.StatusInactive {
		return auth.TokenResponse{}, auth.ErrAccountDisabled
	}
	return a.issueTokens(ctx, userData, session)
}

func displayNameFor(profile auth.GoogleProfile) string {
	if name := strings.TrimSpace(profile.Name); name != "" {
		return name
	}
	local, _, _ := strings.Cut(profile.Email, "@")
	return local
}

// RefreshToken implements auth.AuthService.
func (a *AuthServiceImpl) RefreshToken(ctx context.Context, req auth.RefreshTokenRequest) (auth.AccessTokenResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.AccessTokenResponse{}, err
	}

	subject, err := a.Service.VerifyRefresh(ctx, req.RefreshToken)
	if err != nil {
		return auth.AccessTokenResponse{}, auth.ErrInvalidToken
	}

	ownerID, revoked, err := a.tokenRepo.GetRefreshTokenOwner(ctx, req.RefreshToken, a.now())
	if err != nil {
		if errors.Is(err, auth.ErrInvalidToken) {
			return auth.AccessTokenResponse{}, auth.ErrInvalidToken
		}
		return auth.AccessTokenResponse{}, fmt.Errorf("failed to look up refresh token: %w", err)
	}
	if revoked {
		return auth.AccessTokenResponse{}, auth.ErrRefreshTokenRevoked
	}
	if ownerID != subject {
		return auth.AccessTokenResponse{}, auth.ErrInvalidToken
	}

	userData, err := a.UserRepository.GetByID(ctx, ownerID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return auth.AccessTokenResponse{}, auth.ErrInvalidToken
		}
		return auth.AccessTokenResponse{}, fmt.Errorf("failed to get user: %w", err)
	}
	if userData.Status == user.StatusInactive {
		return auth.AccessTokenResponse{}, auth.ErrAccountDisabled
	}

	var resp auth.AccessTokenResponse
	resp.AccessToken, resp.AccessTokenExpiresIn, err = a.Service.GenerateAccessToken(userData.ID, userData.Email, userData.Role)
	if err != nil {
		return auth.AccessTokenResponse{}, fmt.Errorf("failed to generate access token: %w", err)
	}
	return resp, nil
}

// Logout implements auth.AuthService. Unknown tokens are ignored.
func (a *AuthServiceImpl) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	if err := a.tokenRepo.RevokeRefreshToken(ctx, refreshToken); err != nil {
		return fmt.Errorf("failed to revoke refresh token: %w", err)
	}
	return nil
}

// Me implements auth.AuthService.
func (a *AuthServiceImpl) Me(ctx context.Context) (user.UserResponse, error) {
	p, err := user.PrincipalFromContext(ctx)
	if err != nil {
		return user.UserResponse{}, err
	}
	u, err := a.UserRepository.GetByID(ctx, p.UserID)
	if err != nil {
		return user.UserResponse{}, fmt.Errorf("failed to get user: %w", err)
	}
	return user.NewUserResponse(u, attendance.IsActive(u.LastActive, a.now(), a.onlineWindow)), nil
}

// PurgeExpiredTokens implements auth.AuthService.
func (a *AuthServiceImpl) PurgeExpiredTokens(ctx context.Context, now time.Time) (int64, error) {
	return a.tokenRepo.DeleteExpired(ctx, now)
}
