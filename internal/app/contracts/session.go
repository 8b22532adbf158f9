package contracts

import (
	"context"
	"medbook-service/internal/app/models"
)

// SessionService stores login sessions so tokens can be revoked. The guard
// reloads the session on every authenticated call.
type SessionService interface {
	CreateSession(ctx context.Context, principal *models.Principal) (sessionID string, err error)
	GetSession(ctx context.Context, sessionID string) (*models.Principal, error)
	DeleteSession(ctx context.Context, sessionID string) error
}
