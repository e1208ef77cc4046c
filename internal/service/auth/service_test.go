package auth

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/cmlabs-hris/hr-portal-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/hr-portal-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/hr-portal-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/hr-portal-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/hr-portal-backend-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const (
	testAccessExp  = "1h"
	testRefreshExp = "24h"
	testSecret     = "test-secret-key-for-jwt"
)

type fakeUsers struct {
	user.UserRepository
	byID map[string]user.User
	seq  int
}

func (f *fakeUsers) Create(ctx context.Context, u user.User) (user.User, error) {
	for _, existing := range f.byID {
		if existing.Email == u.Email {
			return user.User{}, user.ErrUserEmailExists
		}
	}
	f.seq++
	u.ID = fmt.Sprintf("00000000-0000-4000-8000-%012d", f.seq)
	f.byID[u.ID] = u
	return u, nil
}

func (f *fakeUsers) GetByID(ctx context.Context, id string) (user.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeUsers) GetByEmail(ctx context.Context, email string) (user.User, error) {
	for _, u := range f.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return user.User{}, user.ErrUserNotFound
}

func (f *fakeUsers) GetByOAuth(ctx context.Context, provider, providerID string) (user.User, error) {
	for _, u := range f.byID {
		if u.OAuthProvider != nil && *u.OAuthProvider == provider && u.OAuthProviderID != nil && *u.OAuthProviderID == providerID {
			return u, nil
		}
	}
	return user.User{}, user.ErrUserNotFound
}

func (f *fakeUsers) LinkOAuth(ctx context.Context, id, provider, providerID string) error {
	u, ok := f.byID[id]
	if !ok {
		return user.ErrUserNotFound
	}
	u.OAuthProvider, u.OAuthProviderID = &provider, &providerID
	f.byID[id] = u
	return nil
}

type fakeBalances struct {
	leave.BalanceRepository
	created map[string]leave.Balance
}

func (f *fakeBalances) Create(ctx context.Context, b leave.Balance) (leave.Balance, error) {
	f.created[b.UserID] = b
	return b, nil
}

type storedToken struct {
	userID    string
	expiresAt int64
	revoked   bool
}

type fakeTokens struct {
	tokens map[string]*storedToken
}

func (f *fakeTokens) CreateRefreshToken(ctx context.Context, userID string, token string, expiresAt int64, session auth.SessionTrackingRequest) error {
	f.tokens[token] = &storedToken{userID: userID, expiresAt: expiresAt}
	return nil
}

func (f *fakeTokens) GetRefreshTokenOwner(ctx context.Context, token string, now time.Time) (string, bool, error) {
	t, ok := f.tokens[token]
	if !ok {
		return "", false, auth.ErrInvalidToken
	}
	return t.userID, t.revoked || t.expiresAt <= now.Unix(), nil
}

func (f *fakeTokens) RevokeRefreshToken(ctx context.Context, token string) error {
	if t, ok := f.tokens[token]; ok {
		t.revoked = true
	}
	return nil
}

func (f *fakeTokens) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	var n int64
	for k, t := range f.tokens {
		if t.revoked || t.expiresAt <= now.Unix() {
			delete(f.tokens, k)
			n++
		}
	}
	return n, nil
}

type passthroughTx struct{}

func (passthroughTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fixture struct {
	svc      *AuthServiceImpl
	jwt      jwt.Service
	users    *fakeUsers
	balances *fakeBalances
	tokens   *fakeTokens
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	jwtService, err := jwt.NewJWTService(testSecret, testAccessExp, testRefreshExp, false)
	require.NoError(t, err)

	f := &fixture{
		jwt:      jwtService,
		users:    &fakeUsers{byID: map[string]user.User{}},
		balances: &fakeBalances{created: map[string]leave.Balance{}},
		tokens:   &fakeTokens{tokens: map[string]*storedToken{}},
	}
	f.svc = NewAuthService(f.users, f.balances, f.tokens, jwtService, passthroughTx{},
		DefaultBalances{Sick: 7, Annual: 12, Emergency: 3}, 5*time.Minute).(*AuthServiceImpl)
	f.svc.bcryptCost = bcrypt.MinCost
	return f
}

func registerReq(email string) auth.RegisterRequest {
	return auth.RegisterRequest{
		DisplayName:     "Alice",
		Email:           email,
		Password:        "password123",
		ConfirmPassword: "password123",
	}
}

func TestRegister_CreatesPendingUserWithBalances(t *testing.T) {
	f := newFixture(t)

	tokens, err := f.svc.Register(context.Background(), registerReq("Alice@Example.com"), auth.SessionTrackingRequest{})
	require.NoError(t, err)
	assert.NotEmpty(t, tokens.AccessToken)
	assert.NotEmpty(t, tokens.RefreshToken)

	u, err := f.users.GetByEmail(context.Background(), "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.RoleUser, u.Role)
	assert.Equal(t, user.StatusPending, u.Status)
	require.NotNil(t, u.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(*u.PasswordHash), []byte("password123")))

	b := f.balances.created[u.ID]
	assert.Equal(t, 7, b.SickLeave)
	assert.Equal(t, 12, b.AnnualLeave)
	assert.Equal(t, 3, b.EmergencyLeave)

	identity, err := f.jwt.Verify(tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, u.ID, identity.UserID)
	assert.Equal(t, user.RoleUser, identity.Role)

	assert.Contains(t, f.tokens.tokens, tokens.RefreshToken)
}

func TestRegister_Rejections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Register(ctx, registerReq("alice@example.com"), auth.SessionTrackingRequest{})
	require.NoError(t, err)

	_, err = f.svc.Register(ctx, registerReq("alice@example.com"), auth.SessionTrackingRequest{})
	assert.ErrorIs(t, err, user.ErrUserEmailExists)

	bad := registerReq("bob@example.com")
	bad.ConfirmPassword = "different1"
	_, err = f.svc.Register(ctx, bad, auth.SessionTrackingRequest{})
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs.ToMap(), "confirm_password")
}

func TestLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.svc.Register(ctx, registerReq("alice@example.com"), auth.SessionTrackingRequest{})
	require.NoError(t, err)

	tokens, err := f.svc.Login(ctx, auth.LoginRequest{Email: "ALICE@example.com", Password: "password123"}, auth.SessionTrackingRequest{})
	require.NoError(t, err)
	assert.NotEmpty(t, tokens.AccessToken)

	_, err = f.svc.Login(ctx, auth.LoginRequest{Email: "alice@example.com", Password: "wrong-password"}, auth.SessionTrackingRequest{})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)

	_, err = f.svc.Login(ctx, auth.LoginRequest{Email: "nobody@example.com", Password: "password123"}, auth.SessionTrackingRequest{})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)

	u, _ := f.users.GetByEmail(ctx, "alice@example.com")
	u.Status = user.StatusInactive
	f.users.byID[u.ID] = u
	_, err = f.svc.Login(ctx, auth.LoginRequest{Email: "alice@example.com", Password: "password123"}, auth.SessionTrackingRequest{})
	assert.ErrorIs(t, err, auth.ErrAccountDisabled)
}

func TestRefreshAndLogout(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tokens, err := f.svc.Register(ctx, registerReq("alice@example.com"), auth.SessionTrackingRequest{})
	require.NoError(t, err)

	refreshed, err := f.svc.RefreshToken(ctx, auth.RefreshTokenRequest{RefreshToken: tokens.RefreshToken})
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)

	// an access token is not a refresh token
	_, err = f.svc.RefreshToken(ctx, auth.RefreshTokenRequest{RefreshToken: tokens.AccessToken})
	assert.ErrorIs(t, err, auth.ErrInvalidToken)

	require.NoError(t, f.svc.Logout(ctx, tokens.RefreshToken))
	_, err = f.svc.RefreshToken(ctx, auth.RefreshTokenRequest{RefreshToken: tokens.RefreshToken})
	assert.ErrorIs(t, err, auth.ErrRefreshTokenRevoked)

	purged, err := f.svc.PurgeExpiredTokens(ctx, time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(1), purged)
}

func TestLoginWithGoogle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.LoginWithGoogle(ctx, auth.GoogleProfile{ID: "g-1", Email: "new@example.com"}, auth.SessionTrackingRequest{})
	assert.ErrorIs(t, err, auth.ErrEmailNotVerified)

	// unknown email registers a pending account
	_, err = f.svc.LoginWithGoogle(ctx, auth.GoogleProfile{ID: "g-1", Email: "new@example.com", VerifiedEmail: true, Name: "Newcomer"}, auth.SessionTrackingRequest{})
	require.NoError(t, err)
	created, err := f.users.GetByEmail(ctx, "new@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Newcomer", created.DisplayName)
	assert.Equal(t, user.StatusPending, created.Status)
	assert.Contains(t, f.balances.created, created.ID)

	// existing password account gets linked by email
	_, err = f.svc.Register(ctx, registerReq("alice@example.com"), auth.SessionTrackingRequest{})
	require.NoError(t, err)
	_, err = f.svc.LoginWithGoogle(ctx, auth.GoogleProfile{ID: "g-2", Email: "alice@example.com", VerifiedEmail: true}, auth.SessionTrackingRequest{})
	require.NoError(t, err)
	linked, err := f.users.GetByOAuth(ctx, "google", "g-2")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", linked.Email)
	assert.Len(t, f.users.byID, 2)
}

func TestMe(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.svc.Register(ctx, registerReq("alice@example.com"), auth.SessionTrackingRequest{})
	require.NoError(t, err)
	u, _ := f.users.GetByEmail(ctx, "alice@example.com")

	_, err = f.svc.Me(ctx)
	assert.ErrorIs(t, err, user.ErrMissingPrincipal)

	me, err := f.svc.Me(user.WithPrincipal(ctx, user.Principal{UserID: u.ID, Role: user.RoleUser}))
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", me.Email)
	assert.False(t, me.Online)
}
