package contracts

import (
	"context"
	"medbook-service/internal/app/models"
)

type ResourceRepository interface {
	CreateResource(ctx context.Context, resource *models.Resource) (resourceID string, err error)
	FindByID(ctx context.Context, resourceID string) (*models.Resource, error)
	ListByKind(ctx context.Context, kind string) ([]models.Resource, error)
	SetAvailability(ctx context.Context, resourceID string, available bool) (matched bool, err error)
}

type ResourceUsecase interface {
	GetByID(ctx context.Context, resourceID string) (*models.Resource, error)
	ListByKind(ctx context.Context, kind string) ([]models.Resource, error)
	ListTakenSlots(ctx context.Context, resourceID string) (map[string][]string, error)
	CreateResource(ctx context.Context, principal *models.Principal, resource *models.Resource) (*models.Resource, error)
	SetAvailability(ctx context.Context, principal *models.Principal, resourceID string, available bool) error
}
