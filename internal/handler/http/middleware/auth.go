package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/hr-portal-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/hr-portal-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/hr-portal-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/hr-portal-backend-go/internal/pkg/jwt"
	"github.com/go-chi/jwtauth/v5"
)

// UserLookup resolves the current role and status of a token subject.
type UserLookup interface {
	GetByID(ctx context.Context, id string) (user.User, error)
}

// AuthRequired runs after jwtauth.Verifier and turns the verified access
// token into a user.Principal on the request context. The role always comes
// from the directory so role and status changes apply to tokens already issued.
func AuthRequired(jwtService jwt.Service, users UserLookup) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		hfn := func(w http.ResponseWriter, r *http.Request) {
			token, _, err := jwtauth.FromContext(r.Context())
			if err != nil || token == nil {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}
			if jwtService.IsTokenRevoked(jwtauth.TokenFromHeader(r)) {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			identity, err := jwt.IdentityFromToken(token)
			if err != nil {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			u, err := users.GetByID(r.Context(), identity.UserID)
			if err != nil {
				slog.Warn("Token subject could not be resolved", "user_id", identity.UserID, "error", err)
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}
			if u.Status == user.StatusInactive {
				response.HandleError(w, auth.ErrAccountDisabled)
				return
			}
			if identity.Role != "" && identity.Role != u.Role {
				slog.Debug("Token role is stale", "user_id", u.ID, "token_role", identity.Role, "role", u.Role)
			}

			ctx := user.WithPrincipal(r.Context(), user.Principal{UserID: identity.UserID, Role: u.Role})
			next.ServeHTTP(w, r.WithContext(ctx))
		}
		return http.HandlerFunc(hfn)
	}
}
