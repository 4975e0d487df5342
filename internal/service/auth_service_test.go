package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"surveydesk/internal/auth"
	apperrors "surveydesk/internal/errors"
	"surveydesk/internal/model"
)

func TestAuthService_Verify(t *testing.T) {
	admin := &model.User{ID: 1, Username: "admin", Role: model.RoleAdministrator}

	tests := []struct {
		name          string
		username      string
		password      string
		setupMock     func(*MockUserRepository)
		expectedError error
	}{
		{
			name:     "valid credentials",
			username: "admin",
			password: "admin123",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByCredentials", mock.Anything, "admin", auth.HashPassword("admin123")).Return(admin, nil)
			},
		},
		{
			name:     "wrong password",
			username: "admin",
			password: "nope",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByCredentials", mock.Anything, "admin", auth.HashPassword("nope")).Return(nil, gorm.ErrRecordNotFound)
			},
			expectedError: apperrors.ErrInvalidCredentials,
		},
		{
			name:          "empty username never reaches the store",
			username:      "",
			password:      "admin123",
			setupMock:     func(m *MockUserRepository) {},
			expectedError: apperrors.ErrValidation,
		},
		{
			name:          "empty password never reaches the store",
			username:      "admin",
			password:      "",
			setupMock:     func(m *MockUserRepository) {},
			expectedError: apperrors.ErrValidation,
		},
		{
			name:     "store fault",
			username: "admin",
			password: "admin123",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByCredentials", mock.Anything, "admin", mock.Anything).Return(nil, errors.New("connection reset"))
			},
			expectedError: apperrors.ErrPersistence,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			tt.setupMock(mockRepo)

			service := NewAuthService(mockRepo, auth.NewJWTService("test-secret"), new(MockTokenStore), nil, nil)
			user, err := service.Verify(context.Background(), tt.username, tt.password)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, user)
			} else {
				require.NoError(t, err)
				assert.Equal(t, admin, user)
			}
			mockRepo.AssertExpectations(t)
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	manager := &model.User{ID: 2, Username: "gestor", Role: model.RoleManager}

	mockRepo := new(MockUserRepository)
	mockRepo.On("FindByCredentials", mock.Anything, "gestor", auth.HashPassword("gestor123")).Return(manager, nil)
	mockTokenStore := new(MockTokenStore)
	mockTokenStore.On("StoreRefreshToken", mock.Anything, mock.Anything, uint(2), "gestor", auth.RefreshTokenExpiry).Return(nil)

	jwtService := auth.NewJWTService("test-secret")
	service := NewAuthService(mockRepo, jwtService, mockTokenStore, nil, nil)

	accessToken, refreshToken, user, err := service.Login(context.Background(), "gestor", "gestor123")
	require.NoError(t, err)
	assert.Equal(t, manager, user)

	claims, err := jwtService.ValidateToken(accessToken)
	require.NoError(t, err)
	assert.Equal(t, model.RoleManager, claims.Role)
	assert.Equal(t, uint(2), claims.UserID)

	tokenID, err := jwtService.ExtractTokenID(refreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, tokenID)

	mockRepo.AssertExpectations(t)
	mockTokenStore.AssertExpectations(t)
}

func TestAuthService_LoginInvalid(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockRepo.On("FindByCredentials", mock.Anything, "admin", mock.Anything).Return(nil, gorm.ErrRecordNotFound)
	mockTokenStore := new(MockTokenStore)

	service := NewAuthService(mockRepo, auth.NewJWTService("test-secret"), mockTokenStore, nil, nil)
	accessToken, refreshToken, user, err := service.Login(context.Background(), "admin", "wrong")

	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	assert.Empty(t, accessToken)
	assert.Empty(t, refreshToken)
	assert.Nil(t, user)
	assert.Empty(t, mockTokenStore.Calls)
}

func TestAuthService_RefreshToken(t *testing.T) {
	admin := &model.User{ID: 1, Username: "admin", Role: model.RoleAdministrator}
	jwtService := auth.NewJWTService("test-secret")
	tokenID, refreshToken, err := jwtService.GenerateRefreshToken(admin)
	require.NoError(t, err)

	t.Run("valid token", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockRepo.On("FindByID", mock.Anything, uint(1)).Return(admin, nil)
		mockTokenStore := new(MockTokenStore)
		mockTokenStore.On("GetRefreshToken", mock.Anything, tokenID).Return(uint(1), "admin", nil)

		service := NewAuthService(mockRepo, jwtService, mockTokenStore, nil, nil)
		accessToken, err := service.RefreshToken(context.Background(), refreshToken)
		require.NoError(t, err)
		assert.NotEmpty(t, accessToken)
	})

	t.Run("revoked token", func(t *testing.T) {
		mockTokenStore := new(MockTokenStore)
		mockTokenStore.On("GetRefreshToken", mock.Anything, tokenID).Return(uint(0), "", errors.New("refresh token not found"))

		service := NewAuthService(new(MockUserRepository), jwtService, mockTokenStore, nil, nil)
		_, err := service.RefreshToken(context.Background(), refreshToken)
		assert.ErrorIs(t, err, apperrors.ErrInvalidRefreshToken)
	})

	t.Run("removed account", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockRepo.On("FindByID", mock.Anything, uint(1)).Return(nil, gorm.ErrRecordNotFound)
		mockTokenStore := new(MockTokenStore)
		mockTokenStore.On("GetRefreshToken", mock.Anything, tokenID).Return(uint(1), "admin", nil)
		mockTokenStore.On("DeleteRefreshToken", mock.Anything, tokenID).Return(nil)

		service := NewAuthService(mockRepo, jwtService, mockTokenStore, nil, nil)
		_, err := service.RefreshToken(context.Background(), refreshToken)
		assert.ErrorIs(t, err, apperrors.ErrInvalidRefreshToken)
		mockTokenStore.AssertExpectations(t)
	})

	t.Run("garbage token", func(t *testing.T) {
		service := NewAuthService(new(MockUserRepository), jwtService, new(MockTokenStore), nil, nil)
		_, err := service.RefreshToken(context.Background(), "not-a-jwt")
		assert.ErrorIs(t, err, apperrors.ErrInvalidRefreshToken)
	})
}

func TestAuthService_Logout(t *testing.T) {
	admin := &model.User{ID: 1, Username: "admin", Role: model.RoleAdministrator}
	jwtService := auth.NewJWTService("test-secret")
	tokenID, refreshToken, err := jwtService.GenerateRefreshToken(admin)
	require.NoError(t, err)

	mockTokenStore := new(MockTokenStore)
	mockTokenStore.On("DeleteRefreshToken", mock.Anything, tokenID).Return(nil)

	service := NewAuthService(new(MockUserRepository), jwtService, mockTokenStore, nil, nil)
	require.NoError(t, service.Logout(context.Background(), refreshToken))
	mockTokenStore.AssertExpectations(t)

	assert.ErrorIs(t, service.Logout(context.Background(), "bad"), apperrors.ErrInvalidRefreshToken)
}
