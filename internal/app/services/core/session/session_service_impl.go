package session

import (
	"context"
	"fmt"
	"medbook-service/internal/app/contracts"
	"medbook-service/internal/app/models"
	"medbook-service/internal/pkg/constvars"
	"medbook-service/internal/pkg/exceptions"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	sessionServiceInstance contracts.SessionService
	onceSessionService     sync.Once
)

type sessionService struct {
	redisRepo  contracts.RedisRepository
	sessionTTL time.Duration
	Log        *zap.Logger
}

func NewSessionService(repo contracts.RedisRepository, expTimeInHour int, logger *zap.Logger) contracts.SessionService {
	onceSessionService.Do(func() {
		instance := &sessionService{
			redisRepo:  repo,
			sessionTTL: time.Duration(expTimeInHour) * time.Hour,
			Log:        logger,
		}
		sessionServiceInstance = instance
	})
	return sessionServiceInstance
}

func (s *sessionService) CreateSession(ctx context.Context, principal *models.Principal) (string, error) {
	sessionID := uuid.NewString()
	principal.SessionID = sessionID

	key := fmt.Sprintf(constvars.RedisSessionKeyFormat, sessionID)
	if err := s.redisRepo.Set(ctx, key, principal, s.sessionTTL); err != nil {
		return "", err
	}
	return sessionID, nil
}

func (s *sessionService) GetSession(ctx context.Context, sessionID string) (*models.Principal, error) {
	key := fmt.Sprintf(constvars.RedisSessionKeyFormat, sessionID)
	data, err := s.redisRepo.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if data == "" {
		return nil, exceptions.ErrSessionNotFound(nil)
	}

	principal := new(models.Principal)
	if err := json.Unmarshal([]byte(data), principal); err != nil {
		return nil, exceptions.ErrCannotParseJSON(err)
	}
	return principal, nil
}

func (s *sessionService) DeleteSession(ctx context.Context, sessionID string) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	s.Log.Info("sessionService.DeleteSession called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	key := fmt.Sprintf(constvars.RedisSessionKeyFormat, sessionID)
	return s.redisRepo.Delete(ctx, key)
}
