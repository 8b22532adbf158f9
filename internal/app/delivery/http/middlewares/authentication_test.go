package middlewares

import (
	"context"
	"fmt"
	"medbook-service/internal/app/config"
	"medbook-service/internal/app/models"
	"medbook-service/internal/pkg/constvars"
	"medbook-service/internal/pkg/exceptions"
	"medbook-service/internal/pkg/utils"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testJWTSecret = "test-jwt-secret"

type fakeSessionService struct {
	sessions map[string]*models.Principal
}

func newFakeSessionService() *fakeSessionService {
	return &fakeSessionService{sessions: make(map[string]*models.Principal)}
}

func (f *fakeSessionService) CreateSession(ctx context.Context, principal *models.Principal) (string, error) {
	sessionID := fmt.Sprintf("session-%d", len(f.sessions)+1)
	clone := *principal
	f.sessions[sessionID] = &clone
	return sessionID, nil
}

func (f *fakeSessionService) GetSession(ctx context.Context, sessionID string) (*models.Principal, error) {
	principal, ok := f.sessions[sessionID]
	if !ok {
		return nil, exceptions.ErrSessionNotFound(fmt.Errorf("session %s not found", sessionID))
	}
	clone := *principal
	return &clone, nil
}

func (f *fakeSessionService) DeleteSession(ctx context.Context, sessionID string) error {
	delete(f.sessions, sessionID)
	return nil
}

func newTestMiddlewares(sessionService *fakeSessionService) *Middlewares {
	return &Middlewares{
		SessionService: sessionService,
		InternalConfig: &config.InternalConfig{
			JWT: config.JWT{Secret: testJWTSecret, ExpTimeInHour: 1},
		},
		Log: zap.NewNop(),
	}
}

func loginAs(t *testing.T, sessionService *fakeSessionService, userID, role string) string {
	t.Helper()
	sessionID, err := sessionService.CreateSession(context.Background(), &models.Principal{ID: userID, Role: role})
	require.NoError(t, err)
	token, err := utils.GenerateAuthJWT(utils.AuthClaims{SessionID: sessionID, UserID: userID, Role: role}, testJWTSecret, 1)
	require.NoError(t, err)
	return token
}

func principalEcho() (http.Handler, *models.Principal) {
	captured := &models.Principal{}
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if principal, ok := r.Context().Value(constvars.CONTEXT_PRINCIPAL_KEY).(*models.Principal); ok {
			*captured = *principal
		}
		w.WriteHeader(http.StatusOK)
	})
	return handler, captured
}

func TestAuthenticate(t *testing.T) {
	t.Run("attaches the principal for a valid token", func(t *testing.T) {
		sessionService := newFakeSessionService()
		middlewares := newTestMiddlewares(sessionService)
		token := loginAs(t, sessionService, "user-1", constvars.RoleUser)

		handler, captured := principalEcho()
		request := httptest.NewRequest(http.MethodGet, "/reservations", nil)
		request.Header.Set(constvars.HeaderAuthorization, "Bearer "+token)
		recorder := httptest.NewRecorder()

		middlewares.Authenticate(handler).ServeHTTP(recorder, request)

		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.Equal(t, "user-1", captured.ID)
		assert.Equal(t, constvars.RoleUser, captured.Role)
		assert.NotEmpty(t, captured.SessionID)
	})

	t.Run("rejects a request without a token", func(t *testing.T) {
		middlewares := newTestMiddlewares(newFakeSessionService())
		handler, _ := principalEcho()
		request := httptest.NewRequest(http.MethodGet, "/reservations", nil)
		recorder := httptest.NewRecorder()

		middlewares.Authenticate(handler).ServeHTTP(recorder, request)

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})

	t.Run("rejects a token signed with another secret", func(t *testing.T) {
		sessionService := newFakeSessionService()
		middlewares := newTestMiddlewares(sessionService)
		sessionID, _ := sessionService.CreateSession(context.Background(), &models.Principal{ID: "user-1", Role: constvars.RoleUser})
		forged, err := utils.GenerateAuthJWT(utils.AuthClaims{SessionID: sessionID, UserID: "user-1", Role: constvars.RoleUser}, "attacker-secret", 1)
		require.NoError(t, err)

		handler, _ := principalEcho()
		request := httptest.NewRequest(http.MethodGet, "/reservations", nil)
		request.Header.Set(constvars.HeaderAuthorization, "Bearer "+forged)
		recorder := httptest.NewRecorder()

		middlewares.Authenticate(handler).ServeHTTP(recorder, request)

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})

	t.Run("rejects a token whose session was deleted", func(t *testing.T) {
		sessionService := newFakeSessionService()
		middlewares := newTestMiddlewares(sessionService)
		token := loginAs(t, sessionService, "user-1", constvars.RoleUser)

		// Logout: the token is still well formed but the session is gone.
		require.NoError(t, sessionService.DeleteSession(context.Background(), "session-1"))

		handler, _ := principalEcho()
		request := httptest.NewRequest(http.MethodGet, "/reservations", nil)
		request.Header.Set(constvars.HeaderAuthorization, "Bearer "+token)
		recorder := httptest.NewRecorder()

		middlewares.Authenticate(handler).ServeHTTP(recorder, request)

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})

	t.Run("rejects a token pointing at someone else's session", func(t *testing.T) {
		sessionService := newFakeSessionService()
		middlewares := newTestMiddlewares(sessionService)
		sessionID, _ := sessionService.CreateSession(context.Background(), &models.Principal{ID: "user-1", Role: constvars.RoleUser})
		crossed, err := utils.GenerateAuthJWT(utils.AuthClaims{SessionID: sessionID, UserID: "user-2", Role: constvars.RoleUser}, testJWTSecret, 1)
		require.NoError(t, err)

		handler, _ := principalEcho()
		request := httptest.NewRequest(http.MethodGet, "/reservations", nil)
		request.Header.Set(constvars.HeaderAuthorization, "Bearer "+crossed)
		recorder := httptest.NewRecorder()

		middlewares.Authenticate(handler).ServeHTTP(recorder, request)

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})
}

func TestRequireRole(t *testing.T) {
	t.Run("lets a matching role through", func(t *testing.T) {
		sessionService := newFakeSessionService()
		middlewares := newTestMiddlewares(sessionService)
		token := loginAs(t, sessionService, "admin-1", constvars.RoleAdmin)

		handler, _ := principalEcho()
		chained := middlewares.Authenticate(middlewares.RequireRole(constvars.RoleAdmin)(handler))
		request := httptest.NewRequest(http.MethodGet, "/admin/reservations", nil)
		request.Header.Set(constvars.HeaderAuthorization, "Bearer "+token)
		recorder := httptest.NewRecorder()

		chained.ServeHTTP(recorder, request)

		assert.Equal(t, http.StatusOK, recorder.Code)
	})

	t.Run("blocks a role outside the allow list", func(t *testing.T) {
		sessionService := newFakeSessionService()
		middlewares := newTestMiddlewares(sessionService)
		token := loginAs(t, sessionService, "user-1", constvars.RoleUser)

		handler, _ := principalEcho()
		chained := middlewares.Authenticate(middlewares.RequireRole(constvars.RoleAdmin)(handler))
		request := httptest.NewRequest(http.MethodGet, "/admin/reservations", nil)
		request.Header.Set(constvars.HeaderAuthorization, "Bearer "+token)
		recorder := httptest.NewRecorder()

		chained.ServeHTTP(recorder, request)

		assert.Equal(t, http.StatusForbidden, recorder.Code)
	})

	t.Run("enforces the stored role, not the token's", func(t *testing.T) {
		sessionService := newFakeSessionService()
		middlewares := newTestMiddlewares(sessionService)
		sessionID, _ := sessionService.CreateSession(context.Background(), &models.Principal{ID: "user-1", Role: constvars.RoleUser})
		// Token claims admin, but the session on record says user.
		inflated, err := utils.GenerateAuthJWT(utils.AuthClaims{SessionID: sessionID, UserID: "user-1", Role: constvars.RoleAdmin}, testJWTSecret, 1)
		require.NoError(t, err)

		handler, _ := principalEcho()
		chained := middlewares.Authenticate(middlewares.RequireRole(constvars.RoleAdmin)(handler))
		request := httptest.NewRequest(http.MethodGet, "/admin/reservations", nil)
		request.Header.Set(constvars.HeaderAuthorization, "Bearer "+inflated)
		recorder := httptest.NewRecorder()

		chained.ServeHTTP(recorder, request)

		assert.Equal(t, http.StatusForbidden, recorder.Code)
	})
}
