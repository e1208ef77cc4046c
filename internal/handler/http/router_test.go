package http

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cmlabs-hris/hr-portal-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/hr-portal-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/hr-portal-backend-go/internal/pkg/cache"
	"github.com/cmlabs-hris/hr-portal-backend-go/internal/pkg/jwt"
	userService "github.com/cmlabs-hris/hr-portal-backend-go/internal/service/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	handlerTestAccessExp  = "1h"
	handlerTestRefreshExp = "24h"
	handlerTestSecret     = "test-secret-key-for-jwt"

	adminID = "00000000-0000-4000-8000-00000000000a"
	aliceID = "00000000-0000-4000-8000-0000000000a1"
)

type memUsers struct {
	user.UserRepository
	byID map[string]user.User
}

func (m *memUsers) GetByID(ctx context.Context, id string) (user.User, error) {
	u, ok := m.byID[id]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	return u, nil
}

func (m *memUsers) List(ctx context.Context, filter user.ListUsersFilter) ([]user.User, int64, error) {
	out := make([]user.User, 0, len(m.byID))
	for _, u := range m.byID {
		out = append(out, u)
	}
	return out, int64(len(out)), nil
}

func (m *memUsers) UpdateRole(ctx context.Context, id string, role user.Role) error {
	u, ok := m.byID[id]
	if !ok {
		return user.ErrUserNotFound
	}
	u.Role = role
	m.byID[id] = u
	return nil
}

type routerFixture struct {
	router http.Handler
	jwt    jwt.Service
	users  *memUsers
}

func newRouterFixture(t *testing.T) *routerFixture {
	t.Helper()
	jwtSvc, err := jwt.NewJWTService(handlerTestSecret, handlerTestAccessExp, handlerTestRefreshExp, false)
	require.NoError(t, err)

	users := &memUsers{byID: map[string]user.User{
		adminID: {ID: adminID, Email: "admin@example.com", DisplayName: "Admin", Role: user.RoleAdmin, Status: user.StatusActive},
		aliceID: {ID: aliceID, Email: "alice@example.com", DisplayName: "Alice", Role: user.RoleUser, Status: user.StatusActive},
	}}
	userSvc := userService.NewUserService(users, cache.NewMemoryCache(), time.Minute, 5*time.Minute)

	h := Handlers{
		Auth:         NewAuthHandler(jwtSvc, nil, nil, "http://localhost:3000", false),
		Attendance:   NewAttendanceHandler(nil),
		User:         NewUserHandler(userSvc),
		Leave:        NewLeaveHandler(nil),
		Document:     NewDocumentHandler(nil),
		Notification: NewNotificationHandler(nil, jwtSvc),
		Announcement: NewAnnouncementHandler(nil),
		Note:         NewNoteHandler(nil),
		Dashboard:    NewDashboardHandler(nil),
	}
	opts := RouterOptions{Env: "test", Version: "test", AllowedOrigins: []string{"http://localhost:3000"}, LogLevel: slog.LevelError}
	return &routerFixture{router: NewRouter(opts, jwtSvc, users, h), jwt: jwtSvc, users: users}
}

func (f *routerFixture) token(t *testing.T, id string, role user.Role) string {
	t.Helper()
	tok, _, err := f.jwt.GenerateAccessToken(id, id+"@example.com", role)
	require.NoError(t, err)
	return tok
}

func (f *routerFixture) do(t *testing.T, method, path, token string, body any) (*httptest.ResponseRecorder, response.Response) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	var resp response.Response
	if rec.Body.Len() > 0 {
		_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	}
	return rec, resp
}

func TestRouter_RequiresToken(t *testing.T) {
	f := newRouterFixture(t)

	rec, _ := f.do(t, http.MethodGet, "/api/v1/users/"+aliceID, "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _ = f.do(t, http.MethodGet, "/api/v1/users/"+aliceID, "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	refresh, _, err := f.jwt.GenerateRefreshToken(aliceID)
	require.NoError(t, err)
	rec, _ = f.do(t, http.MethodGet, "/api/v1/users/"+aliceID, refresh, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code, "refresh tokens are not access tokens")
}

func TestRouter_RevokedAccessTokenIsRejected(t *testing.T) {
	f := newRouterFixture(t)
	tok := f.token(t, aliceID, user.RoleUser)

	rec, _ := f.do(t, http.MethodGet, "/api/v1/users/"+aliceID, tok, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	f.jwt.RevokeToken(tok)
	rec, _ = f.do(t, http.MethodGet, "/api/v1/users/"+aliceID, tok, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_UserDirectoryIsAdminOnly(t *testing.T) {
	f := newRouterFixture(t)

	rec, resp := f.do(t, http.MethodGet, "/api/v1/users", f.token(t, aliceID, user.RoleUser), nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "FORBIDDEN", resp.Error.Code)

	rec, resp = f.do(t, http.MethodGet, "/api/v1/users?page=1&limit=10", f.token(t, adminID, user.RoleAdmin), nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, resp.Success)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, int64(2), resp.Meta.TotalItems)
}

func TestRouter_ProfileGate(t *testing.T) {
	f := newRouterFixture(t)
	alice := f.token(t, aliceID, user.RoleUser)

	rec, _ := f.do(t, http.MethodGet, "/api/v1/users/"+aliceID, alice, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = f.do(t, http.MethodGet, "/api/v1/users/"+adminID, alice, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, _ = f.do(t, http.MethodGet, "/api/v1/users/"+aliceID, f.token(t, adminID, user.RoleAdmin), nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_UpdateRole(t *testing.T) {
	f := newRouterFixture(t)
	admin := f.token(t, adminID, user.RoleAdmin)

	rec, _ := f.do(t, http.MethodPut, "/api/v1/users/"+aliceID+"/role", f.token(t, aliceID, user.RoleUser), map[string]string{"role": "admin"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, resp := f.do(t, http.MethodPut, "/api/v1/users/"+aliceID+"/role", admin, map[string]string{"role": "admin"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, resp.Success)
	assert.Equal(t, user.RoleAdmin, f.users.byID[aliceID].Role)

	rec, resp = f.do(t, http.MethodPut, "/api/v1/users/"+aliceID+"/role", admin, map[string]string{"role": "owner"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.NotNil(t, resp.Error)
	assert.Contains(t, resp.Error.Details, "role")

	rec, _ = f.do(t, http.MethodPut, "/api/v1/users/"+adminID+"/role", admin, map[string]string{"role": "user"})
	assert.Equal(t, http.StatusBadRequest, rec.Code, "admins cannot demote themselves")
}

func TestRouter_RoleClaimFallsBackToDirectory(t *testing.T) {
	f := newRouterFixture(t)
	// a token minted without a role still resolves the admin from the user record
	tok, _, err := f.jwt.GenerateAccessToken(adminID, "admin@example.com", "")
	require.NoError(t, err)

	rec, _ := f.do(t, http.MethodGet, "/api/v1/users", tok, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_RoleChangeAppliesToIssuedTokens(t *testing.T) {
	f := newRouterFixture(t)
	admin := f.token(t, adminID, user.RoleAdmin)

	rec, _ := f.do(t, http.MethodPut, "/api/v1/users/"+aliceID+"/role", admin, map[string]string{"role": "admin"})
	require.Equal(t, http.StatusOK, rec.Code)

	// alice still holds the token minted while she was a regular user
	rec, _ = f.do(t, http.MethodGet, "/api/v1/users", f.token(t, aliceID, user.RoleUser), nil)
	assert.Equal(t, http.StatusOK, rec.Code, "promotion applies without a refresh")

	aliceAsAdmin := f.token(t, aliceID, user.RoleAdmin)
	rec, _ = f.do(t, http.MethodPut, "/api/v1/users/"+aliceID+"/role", admin, map[string]string{"role": "user"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec, resp := f.do(t, http.MethodGet, "/api/v1/users", aliceAsAdmin, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "FORBIDDEN", resp.Error.Code)

	rec, _ = f.do(t, http.MethodPut, "/api/v1/users/"+adminID+"/role", aliceAsAdmin, map[string]string{"role": "user"})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, user.RoleAdmin, f.users.byID[adminID].Role)
}

func TestRouter_DeactivatedAccountIsRejected(t *testing.T) {
	f := newRouterFixture(t)
	tok := f.token(t, aliceID, user.RoleUser)

	alice := f.users.byID[aliceID]
	alice.Status = user.StatusInactive
	f.users.byID[aliceID] = alice

	rec, _ := f.do(t, http.MethodGet, "/api/v1/users/"+aliceID, tok, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRouter_UnknownSubjectIsRejected(t *testing.T) {
	f := newRouterFixture(t)
	tok := f.token(t, "00000000-0000-4000-8000-0000000000ff", user.RoleAdmin)

	rec, _ := f.do(t, http.MethodGet, "/api/v1/users", tok, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_GoogleNotConfigured(t *testing.T) {
	f := newRouterFixture(t)
	rec, _ := f.do(t, http.MethodGet, "/api/v1/auth/login/oauth/google", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
