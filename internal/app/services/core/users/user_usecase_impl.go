package users

import (
	"context"
	"fmt"
	"medbook-service/internal/app/contracts"
	"medbook-service/internal/app/models"
	"medbook-service/internal/pkg/constvars"
	"medbook-service/internal/pkg/dto/requests"
	"medbook-service/internal/pkg/exceptions"
	"sync"
	"time"

	"go.uber.org/zap"
)

var (
	userUsecaseInstance contracts.UserUsecase
	onceUserUsecase     sync.Once
)

type userUsecase struct {
	userRepository contracts.UserRepository
	Log            *zap.Logger
}

func NewUserUsecase(userRepository contracts.UserRepository, logger *zap.Logger) contracts.UserUsecase {
	onceUserUsecase.Do(func() {
		instance := &userUsecase{
			userRepository: userRepository,
			Log:            logger,
		}
		userUsecaseInstance = instance
	})
	return userUsecaseInstance
}

func (uc *userUsecase) GetProfile(ctx context.Context, principal *models.Principal) (*models.User, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("userUsecase.GetProfile called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPrincipalIDKey, principal.ID),
	)

	user, err := uc.userRepository.FindByID(ctx, principal.ID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, exceptions.ErrSessionNotFound(fmt.Errorf("user %s no longer exists", principal.ID))
	}
	return user, nil
}

func (uc *userUsecase) UpdateProfile(ctx context.Context, principal *models.Principal, request *requests.UpdateProfile) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("userUsecase.UpdateProfile called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPrincipalIDKey, principal.ID),
	)

	user, err := uc.userRepository.FindByID(ctx, principal.ID)
	if err != nil {
		return err
	}
	if user == nil {
		return exceptions.ErrSessionNotFound(fmt.Errorf("user %s no longer exists", principal.ID))
	}

	user.Name = request.Name
	user.Phone = request.Phone
	user.Address = request.Address
	user.UpdatedAt = time.Now().UTC()
	return uc.userRepository.UpdateUser(ctx, user)
}
