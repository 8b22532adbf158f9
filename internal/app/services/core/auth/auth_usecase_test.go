package auth

import (
	"context"
	"fmt"
	"medbook-service/internal/app/config"
	"medbook-service/internal/app/models"
	"medbook-service/internal/pkg/constvars"
	"medbook-service/internal/pkg/dto/requests"
	"medbook-service/internal/pkg/exceptions"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeUserRepository struct {
	users map[string]*models.User
}

func newFakeUserRepository() *fakeUserRepository {
	return &fakeUserRepository{users: make(map[string]*models.User)}
}

func (f *fakeUserRepository) CreateUser(ctx context.Context, user *models.User) (string, error) {
	id := fmt.Sprintf("user-%d", len(f.users)+1)
	clone := *user
	clone.ID = id
	f.users[id] = &clone
	return id, nil
}

func (f *fakeUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, user := range f.users {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepository) FindByID(ctx context.Context, userID string) (*models.User, error) {
	user, ok := f.users[userID]
	if !ok {
		return nil, nil
	}
	clone := *user
	return &clone, nil
}

func (f *fakeUserRepository) UpdateUser(ctx context.Context, user *models.User) error {
	clone := *user
	f.users[user.ID] = &clone
	return nil
}

type fakeResourceRepository struct {
	resources map[string]*models.Resource
}

func newFakeResourceRepository() *fakeResourceRepository {
	return &fakeResourceRepository{resources: make(map[string]*models.Resource)}
}

func (f *fakeResourceRepository) CreateResource(ctx context.Context, resource *models.Resource) (string, error) {
	id := fmt.Sprintf("resource-%d", len(f.resources)+1)
	clone := *resource
	clone.ID = id
	f.resources[id] = &clone
	return id, nil
}

func (f *fakeResourceRepository) FindByID(ctx context.Context, resourceID string) (*models.Resource, error) {
	resource, ok := f.resources[resourceID]
	if !ok {
		return nil, nil
	}
	clone := *resource
	return &clone, nil
}

func (f *fakeResourceRepository) ListByKind(ctx context.Context, kind string) ([]models.Resource, error) {
	var out []models.Resource
	for _, resource := range f.resources {
		if resource.Kind == kind {
			out = append(out, *resource)
		}
	}
	return out, nil
}

func (f *fakeResourceRepository) SetAvailability(ctx context.Context, resourceID string, available bool) (bool, error) {
	resource, ok := f.resources[resourceID]
	if !ok {
		return false, nil
	}
	resource.Available = available
	return true, nil
}

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

func newTestAuthUsecase() (*authUsecase, *fakeUserRepository, *fakeResourceRepository, *fakeSessionService) {
	userRepository := newFakeUserRepository()
	resourceRepository := newFakeResourceRepository()
	sessionService := newFakeSessionService()
	uc := &authUsecase{
		userRepository:     userRepository,
		resourceRepository: resourceRepository,
		sessionService:     sessionService,
		internalConfig: &config.InternalConfig{
			JWT: config.JWT{Secret: "test-jwt-secret", ExpTimeInHour: 1},
		},
		Log: zap.NewNop(),
	}
	return uc, userRepository, resourceRepository, sessionService
}

func TestRegisterDoctor(t *testing.T) {
	admin := &models.Principal{ID: "admin-1", Role: constvars.RoleAdmin}
	request := &requests.RegisterDoctor{
		Name:       "Dr. Rao",
		Email:      "rao@example.com",
		Password:   "s3cret-pass",
		Speciality: "Cardiology",
		Fee:        50000,
	}

	t.Run("creates the catalog entry and the linked account together", func(t *testing.T) {
		uc, userRepository, resourceRepository, _ := newTestAuthUsecase()

		doctor, err := uc.RegisterDoctor(context.Background(), admin, request)
		require.NoError(t, err)
		assert.Equal(t, constvars.RoleDoctor, doctor.Role)
		require.NotEmpty(t, doctor.ResourceID)
		assert.Empty(t, doctor.Password)

		resource, err := resourceRepository.FindByID(context.Background(), doctor.ResourceID)
		require.NoError(t, err)
		require.NotNil(t, resource)
		assert.Equal(t, constvars.ResourceKindDoctor, resource.Kind)
		assert.Equal(t, int64(50000), resource.Price)
		assert.True(t, resource.Available)

		stored, err := userRepository.FindByEmail(context.Background(), "rao@example.com")
		require.NoError(t, err)
		require.NotNil(t, stored)
		assert.Equal(t, resource.ID, stored.ResourceID)
	})

	t.Run("a non-admin cannot provision doctors", func(t *testing.T) {
		uc, _, resourceRepository, _ := newTestAuthUsecase()

		_, err := uc.RegisterDoctor(context.Background(), &models.Principal{ID: "user-1", Role: constvars.RoleUser}, request)
		require.Error(t, err)
		customErr, ok := err.(*exceptions.CustomError)
		require.True(t, ok)
		assert.Equal(t, constvars.StatusForbidden, customErr.StatusCode)
		assert.Empty(t, resourceRepository.resources)
	})

	t.Run("rejects an email already registered", func(t *testing.T) {
		uc, userRepository, resourceRepository, _ := newTestAuthUsecase()
		_, err := userRepository.CreateUser(context.Background(), &models.User{Email: "rao@example.com", Role: constvars.RoleUser})
		require.NoError(t, err)

		_, err = uc.RegisterDoctor(context.Background(), admin, request)
		require.Error(t, err)
		assert.Empty(t, resourceRepository.resources)
	})
}

func TestLoginCarriesDoctorLinkage(t *testing.T) {
	uc, _, _, sessionService := newTestAuthUsecase()
	admin := &models.Principal{ID: "admin-1", Role: constvars.RoleAdmin}

	doctor, err := uc.RegisterDoctor(context.Background(), admin, &requests.RegisterDoctor{
		Name:     "Dr. Rao",
		Email:    "rao@example.com",
		Password: "s3cret-pass",
		Fee:      50000,
	})
	require.NoError(t, err)

	_, err = uc.Login(context.Background(), &requests.LoginUser{Email: "rao@example.com", Password: "s3cret-pass"})
	require.NoError(t, err)

	// The session principal must carry the catalog linkage so the
	// professional-capacity checks can resolve the caller.
	var principal *models.Principal
	for _, stored := range sessionService.sessions {
		principal = stored
	}
	require.NotNil(t, principal)
	assert.Equal(t, constvars.RoleDoctor, principal.Role)
	assert.Equal(t, doctor.ResourceID, principal.ResourceID)
}
