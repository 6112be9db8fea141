package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/simplechat/backend/internal/model/user"
	"github.com/simplechat/backend/internal/service/auth"
	"github.com/simplechat/backend/pkg/utils"
)

type contextKey string

const userContextKey contextKey = "authenticatedUser"

// Authenticate gates a route on a valid bearer token and attaches the
// resolved account to the request context.
func Authenticate(authSvc *auth.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				utils.RespondError(w, http.StatusUnauthorized, "authentication required")
				return
			}

			u, err := authSvc.UserFromToken(strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				utils.RespondError(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), userContextKey, u)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserFrom extracts the authenticated account placed by Authenticate.
func UserFrom(ctx context.Context) (user.User, bool) {
	u, ok := ctx.Value(userContextKey).(user.User)
	return u, ok
}
