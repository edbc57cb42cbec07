package services_test

import (
	"fmt"
	"testing"

	"robokart/internal/models"
	"robokart/internal/repositories"
	"robokart/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockUserRepository is a mock implementation of repositories.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByEmail(email string) (*models.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(id string) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func TestAuthService_IssueAndAuthenticate(t *testing.T) {
	mockRepo := new(MockUserRepository)
	service := services.NewAuthService(mockRepo, "test_jwt_secret")

	user := &models.User{ID: "user-1", Name: "Asha", Email: "asha@example.com", Role: models.RoleUser}
	token, err := service.IssueToken(user)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	mockRepo.On("GetByID", "user-1").Return(user, nil).Once()
	identity, err := service.Authenticate(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", identity.UserID)
	assert.Equal(t, models.RoleUser, identity.Role)
	mockRepo.AssertExpectations(t)
}

func TestAuthService_Authenticate_RoleIsReadFresh(t *testing.T) {
	mockRepo := new(MockUserRepository)
	service := services.NewAuthService(mockRepo, "test_jwt_secret")

	user := &models.User{ID: "user-1", Name: "Asha", Email: "asha@example.com", Role: models.RoleUser}
	token, err := service.IssueToken(user)
	require.NoError(t, err)

	// The user was promoted after the token was issued; the identity must
	// carry the current role, not a stale one.
	promoted := &models.User{ID: "user-1", Name: "Asha", Email: "asha@example.com", Role: models.RoleAdmin}
	mockRepo.On("GetByID", "user-1").Return(promoted, nil).Once()

	identity, err := service.Authenticate(token)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, identity.Role)
}

func TestAuthService_Authenticate_InvalidToken(t *testing.T) {
	mockRepo := new(MockUserRepository)
	service := services.NewAuthService(mockRepo, "test_jwt_secret")

	_, err := service.Authenticate("not-a-token")
	assert.Error(t, err)

	// A token signed with a different secret is rejected.
	other := services.NewAuthService(mockRepo, "other_secret")
	token, err := other.IssueToken(&models.User{ID: "user-1"})
	require.NoError(t, err)
	_, err = service.Authenticate(token)
	assert.Error(t, err)
	mockRepo.AssertNotCalled(t, "GetByID", mock.Anything)
}

func TestAuthService_Authenticate_UnknownUser(t *testing.T) {
	mockRepo := new(MockUserRepository)
	service := services.NewAuthService(mockRepo, "test_jwt_secret")

	token, err := service.IssueToken(&models.User{ID: "ghost"})
	require.NoError(t, err)

	mockRepo.On("GetByID", "ghost").
		Return(nil, fmt.Errorf("user with ID ghost: %w", repositories.ErrNotFound)).Once()
	_, err = service.Authenticate(token)
	assert.Error(t, err)
	mockRepo.AssertExpectations(t)
}
