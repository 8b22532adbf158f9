package contracts

import (
	"context"
	"medbook-service/internal/app/models"
	"medbook-service/internal/pkg/dto/requests"
	"medbook-service/internal/pkg/dto/responses"
)

type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) (userID string, err error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, userID string) (*models.User, error)
	UpdateUser(ctx context.Context, user *models.User) error
}

type AuthUsecase interface {
	Register(ctx context.Context, request *requests.RegisterUser) (*responses.Login, error)
	Login(ctx context.Context, request *requests.LoginUser) (*responses.Login, error)
	Logout(ctx context.Context, principal *models.Principal) error
	// RegisterDoctor is admin-only provisioning: it creates the catalog
	// entry and the doctor account in one step, linking the account to the
	// entry it practices as.
	RegisterDoctor(ctx context.Context, principal *models.Principal, request *requests.RegisterDoctor) (*models.User, error)
}

type UserUsecase interface {
	GetProfile(ctx context.Context, principal *models.Principal) (*models.User, error)
	UpdateProfile(ctx context.Context, principal *models.Principal, request *requests.UpdateProfile) error
}
