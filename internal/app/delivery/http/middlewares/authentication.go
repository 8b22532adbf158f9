package middlewares

import (
	"context"
	"fmt"
	"medbook-service/internal/app/models"
	"medbook-service/internal/pkg/constvars"
	"medbook-service/internal/pkg/exceptions"
	"medbook-service/internal/pkg/utils"
	"net/http"
	"strings"
	"time"
)

// Authenticate parses the bearer token, then re-verifies the session in
// redis so a logged-out token stops working immediately. The resulting
// principal is attached to the request context.
func (m *Middlewares) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get(constvars.HeaderAuthorization)
		if authHeader == "" {
			utils.BuildErrorResponse(m.Log, w, exceptions.ErrTokenMissing(nil))
			return
		}

		token := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := utils.ParseAuthJWT(token, m.InternalConfig.JWT.Secret)
		if err != nil {
			utils.BuildErrorResponse(m.Log, w, err)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()

		principal, err := m.SessionService.GetSession(ctx, claims.SessionID)
		if err != nil {
			if err == context.DeadlineExceeded {
				utils.BuildErrorResponse(m.Log, w, exceptions.ErrServerDeadlineExceeded(err))
				return
			}
			utils.BuildErrorResponse(m.Log, w, err)
			return
		}

		// The token and the stored session must describe the same actor.
		if principal.ID != claims.UserID {
			utils.BuildErrorResponse(m.Log, w, exceptions.ErrTokenInvalidOrExpired(fmt.Errorf("token subject does not match session")))
			return
		}
		principal.SessionID = claims.SessionID

		reqCtx := context.WithValue(r.Context(), constvars.CONTEXT_PRINCIPAL_KEY, principal)
		next.ServeHTTP(w, r.WithContext(reqCtx))
	})
}

// RequireRole gates a route to the given roles. It runs after Authenticate
// and reads the role from the stored session, not from the token, so a role
// change takes effect without reissuing tokens.
func (m *Middlewares) RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := r.Context().Value(constvars.CONTEXT_PRINCIPAL_KEY).(*models.Principal)
			if !ok || principal == nil {
				utils.BuildErrorResponse(m.Log, w, exceptions.ErrTokenMissing(nil))
				return
			}

			for _, role := range roles {
				if principal.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			utils.BuildErrorResponse(m.Log, w, exceptions.ErrRoleNotAllowed(fmt.Errorf("role %s is not allowed on %s", principal.Role, r.URL.Path)))
		})
	}
}
