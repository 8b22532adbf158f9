package resources

import (
	"context"
	"fmt"
	"medbook-service/internal/app/contracts"
	"medbook-service/internal/app/models"
	"medbook-service/internal/pkg/constvars"
	"medbook-service/internal/pkg/exceptions"
	"sync"
	"time"

	"go.uber.org/zap"
)

var (
	resourceUsecaseInstance contracts.ResourceUsecase
	onceResourceUsecase     sync.Once
)

type resourceUsecase struct {
	resourceRepository contracts.ResourceRepository
	slotLedger         contracts.SlotLedger
	Log                *zap.Logger
}

func NewResourceUsecase(
	resourceRepository contracts.ResourceRepository,
	slotLedger contracts.SlotLedger,
	logger *zap.Logger,
) contracts.ResourceUsecase {
	onceResourceUsecase.Do(func() {
		instance := &resourceUsecase{
			resourceRepository: resourceRepository,
			slotLedger:         slotLedger,
			Log:                logger,
		}
		resourceUsecaseInstance = instance
	})
	return resourceUsecaseInstance
}

func (uc *resourceUsecase) GetByID(ctx context.Context, resourceID string) (*models.Resource, error) {
	resource, err := uc.resourceRepository.FindByID(ctx, resourceID)
	if err != nil {
		return nil, err
	}
	if resource == nil {
		return nil, exceptions.ErrResourceNotFound(fmt.Errorf("resource %s not found", resourceID))
	}
	return resource, nil
}

func (uc *resourceUsecase) ListByKind(ctx context.Context, kind string) ([]models.Resource, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("resourceUsecase.ListByKind called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String("kind", kind),
	)

	return uc.resourceRepository.ListByKind(ctx, kind)
}

// ListTakenSlots exposes the ledger's view so clients can grey out taken
// slots. It is advisory only; the claim itself is re-checked atomically at
// booking time.
func (uc *resourceUsecase) ListTakenSlots(ctx context.Context, resourceID string) (map[string][]string, error) {
	resource, err := uc.resourceRepository.FindByID(ctx, resourceID)
	if err != nil {
		return nil, err
	}
	if resource == nil {
		return nil, exceptions.ErrResourceNotFound(fmt.Errorf("resource %s not found", resourceID))
	}
	return uc.slotLedger.ListTaken(ctx, resourceID)
}

func (uc *resourceUsecase) CreateResource(ctx context.Context, principal *models.Principal, resource *models.Resource) (*models.Resource, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("resourceUsecase.CreateResource called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPrincipalIDKey, principal.ID),
	)

	if !principal.IsAdmin() {
		return nil, exceptions.ErrRoleNotAllowed(fmt.Errorf("role %s cannot manage the catalog", principal.Role))
	}

	resource.CreatedAt = time.Now().UTC()
	resourceID, err := uc.resourceRepository.CreateResource(ctx, resource)
	if err != nil {
		return nil, err
	}
	resource.ID = resourceID
	return resource, nil
}

func (uc *resourceUsecase) SetAvailability(ctx context.Context, principal *models.Principal, resourceID string, available bool) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("resourceUsecase.SetAvailability called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingResourceIDKey, resourceID),
		zap.Bool("available", available),
	)

	if !principal.IsAdmin() {
		return exceptions.ErrRoleNotAllowed(fmt.Errorf("role %s cannot manage the catalog", principal.Role))
	}

	matched, err := uc.resourceRepository.SetAvailability(ctx, resourceID, available)
	if err != nil {
		return err
	}
	if !matched {
		return exceptions.ErrResourceNotFound(fmt.Errorf("resource %s not found", resourceID))
	}
	return nil
}
