package auth

import (
	"context"
	"fmt"
	"medbook-service/internal/app/config"
	"medbook-service/internal/app/contracts"
	"medbook-service/internal/app/models"
	"medbook-service/internal/pkg/constvars"
	"medbook-service/internal/pkg/dto/requests"
	"medbook-service/internal/pkg/dto/responses"
	"medbook-service/internal/pkg/exceptions"
	"medbook-service/internal/pkg/utils"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

var (
	authUsecaseInstance contracts.AuthUsecase
	onceAuthUsecase     sync.Once
)

type authUsecase struct {
	userRepository     contracts.UserRepository
	resourceRepository contracts.ResourceRepository
	sessionService     contracts.SessionService
	internalConfig     *config.InternalConfig
	Log                *zap.Logger
}

func NewAuthUsecase(
	userRepository contracts.UserRepository,
	resourceRepository contracts.ResourceRepository,
	sessionService contracts.SessionService,
	internalConfig *config.InternalConfig,
	logger *zap.Logger,
) contracts.AuthUsecase {
	onceAuthUsecase.Do(func() {
		instance := &authUsecase{
			userRepository:     userRepository,
			resourceRepository: resourceRepository,
			sessionService:     sessionService,
			internalConfig:     internalConfig,
			Log:                logger,
		}
		authUsecaseInstance = instance
	})
	return authUsecaseInstance
}

func (uc *authUsecase) Register(ctx context.Context, request *requests.RegisterUser) (*responses.Login, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("authUsecase.Register called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	email := strings.ToLower(strings.TrimSpace(request.Email))
	existing, err := uc.userRepository.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, exceptions.ErrEmailAlreadyExist(fmt.Errorf("email %s already registered", email))
	}

	hashedPassword, err := utils.HashPassword(request.Password)
	if err != nil {
		return nil, exceptions.ErrHashPassword(err)
	}

	now := time.Now().UTC()
	user := &models.User{
		Name:      request.Name,
		Email:     email,
		Password:  hashedPassword,
		Role:      constvars.RoleUser,
		CreatedAt: now,
		UpdatedAt: now,
	}
	userID, err := uc.userRepository.CreateUser(ctx, user)
	if err != nil {
		return nil, err
	}
	user.ID = userID

	return uc.issueToken(ctx, user)
}

// RegisterDoctor provisions a doctor: the catalog entry and the account are
// created together so the account's resourceId linkage is never dangling.
// Appointments reference the catalog entry; the professional-capacity checks
// resolve the caller through this linkage.
func (uc *authUsecase) RegisterDoctor(ctx context.Context, principal *models.Principal, request *requests.RegisterDoctor) (*models.User, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("authUsecase.RegisterDoctor called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPrincipalIDKey, principal.ID),
	)

	if !principal.IsAdmin() {
		return nil, exceptions.ErrRoleNotAllowed(fmt.Errorf("role %s cannot provision doctors", principal.Role))
	}

	email := strings.ToLower(strings.TrimSpace(request.Email))
	existing, err := uc.userRepository.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, exceptions.ErrEmailAlreadyExist(fmt.Errorf("email %s already registered", email))
	}

	hashedPassword, err := utils.HashPassword(request.Password)
	if err != nil {
		return nil, exceptions.ErrHashPassword(err)
	}

	now := time.Now().UTC()
	resourceID, err := uc.resourceRepository.CreateResource(ctx, &models.Resource{
		Kind:       constvars.ResourceKindDoctor,
		Name:       request.Name,
		Speciality: request.Speciality,
		Price:      request.Fee,
		Available:  true,
		CreatedAt:  now,
	})
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:       request.Name,
		Email:      email,
		Password:   hashedPassword,
		Role:       constvars.RoleDoctor,
		ResourceID: resourceID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	userID, err := uc.userRepository.CreateUser(ctx, user)
	if err != nil {
		// Keep the catalog entry out of booking until the account exists.
		if _, hideErr := uc.resourceRepository.SetAvailability(ctx, resourceID, false); hideErr != nil {
			uc.Log.Error("authUsecase.RegisterDoctor error hiding orphaned resource",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.String(constvars.LoggingResourceIDKey, resourceID),
				zap.Error(hideErr),
			)
		}
		return nil, err
	}
	user.ID = userID
	user.Password = ""

	uc.Log.Info("authUsecase.RegisterDoctor provisioned",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingResourceIDKey, resourceID),
	)
	return user, nil
}

func (uc *authUsecase) Login(ctx context.Context, request *requests.LoginUser) (*responses.Login, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("authUsecase.Login called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	email := strings.ToLower(strings.TrimSpace(request.Email))
	user, err := uc.userRepository.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil || !utils.CheckPasswordHash(request.Password, user.Password) {
		return nil, exceptions.ErrInvalidUsernameOrPassword(fmt.Errorf("credentials rejected"))
	}

	return uc.issueToken(ctx, user)
}

func (uc *authUsecase) Logout(ctx context.Context, principal *models.Principal) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("authUsecase.Logout called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPrincipalIDKey, principal.ID),
	)

	return uc.sessionService.DeleteSession(ctx, principal.SessionID)
}

func (uc *authUsecase) issueToken(ctx context.Context, user *models.User) (*responses.Login, error) {
	principal := &models.Principal{
		ID:         user.ID,
		Role:       user.Role,
		ResourceID: user.ResourceID,
	}
	sessionID, err := uc.sessionService.CreateSession(ctx, principal)
	if err != nil {
		return nil, err
	}

	token, err := utils.GenerateAuthJWT(utils.AuthClaims{
		SessionID: sessionID,
		UserID:    user.ID,
		Role:      user.Role,
	}, uc.internalConfig.JWT.Secret, uc.internalConfig.JWT.ExpTimeInHour)
	if err != nil {
		return nil, err
	}

	return &responses.Login{Token: token}, nil
}
