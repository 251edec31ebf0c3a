package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"spreadsheet-analytics-server/config"
	"spreadsheet-analytics-server/internal/model"
	"spreadsheet-analytics-server/internal/security"
	"spreadsheet-analytics-server/internal/service"
)

type MockJWTService struct{ mock.Mock }

func (m *MockJWTService) GenerateAccessRefreshTokens(userUUID string) (*model.TokensPair, *model.RefreshToken, error) {
	args := m.Called(userUUID)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*model.TokensPair), args.Get(1).(*model.RefreshToken), args.Error(2)
}

func (m *MockJWTService) ValidateJWT(tokenString string, secret []byte) (*security.Claims, error) {
	args := m.Called(tokenString, secret)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*security.Claims), args.Error(1)
}

type MockJWTRepository struct{ mock.Mock }

func (m *MockJWTRepository) FindByUUID(ctx context.Context, uuid string) (*model.RefreshToken, error) {
	args := m.Called(ctx, uuid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.RefreshToken), args.Error(1)
}

func (m *MockJWTRepository) MarkRefreshTokenUsedByUUID(ctx context.Context, uuid string) error {
	return m.Called(ctx, uuid).Error(0)
}

func (m *MockJWTRepository) SaveRefreshToken(ctx context.Context, token *model.RefreshToken) error {
	return m.Called(ctx, token).Error(0)
}

func newTestUserService() (*service.UserService, *MockUserRepository, *MockJWTService, *MockJWTRepository) {
	userRepo := new(MockUserRepository)
	jwtService := new(MockJWTService)
	jwtRepo := new(MockJWTRepository)

	svc := service.NewUserService(userRepo, jwtService, jwtRepo, &config.Database{})
	return svc, userRepo, jwtService, jwtRepo
}

func TestRegister_AllCases(t *testing.T) {
	ctx := context.Background()
	tokens := &model.TokensPair{AccessToken: "access", RefreshToken: "refresh"}
	refresh := &model.RefreshToken{UUID: "rt-1"}

	tests := []struct {
		name        string
		login       string
		password    string
		setupMocks  func(userRepo *MockUserRepository, jwtService *MockJWTService, jwtRepo *MockJWTRepository)
		expectError string
	}{
		{
			name:     "успешная регистрация",
			login:    "analyst1",
			password: "Str0ng!pass",
			setupMocks: func(userRepo *MockUserRepository, jwtService *MockJWTService, jwtRepo *MockJWTRepository) {
				userRepo.On("CreateUser", ctx, mock.Anything, mock.Anything).
					Return(&model.User{UUID: "user-1", Login: "analyst1"}, nil).Once()
				jwtService.On("GenerateAccessRefreshTokens", "user-1").Return(tokens, refresh, nil).Once()
				jwtRepo.On("SaveRefreshToken", ctx, refresh).Return(nil).Once()
			},
		},
		{
			name:        "короткий логин",
			login:       "ab",
			password:    "Str0ng!pass",
			setupMocks:  func(*MockUserRepository, *MockJWTService, *MockJWTRepository) {},
			expectError: "логин",
		},
		{
			name:        "логин с недопустимыми символами",
			login:       "user name",
			password:    "Str0ng!pass",
			setupMocks:  func(*MockUserRepository, *MockJWTService, *MockJWTRepository) {},
			expectError: "логин",
		},
		{
			name:        "пароль без цифр",
			login:       "analyst1",
			password:    "NoDigits!here",
			setupMocks:  func(*MockUserRepository, *MockJWTService, *MockJWTRepository) {},
			expectError: "цифру",
		},
		{
			name:        "пароль без спецсимволов",
			login:       "analyst1",
			password:    "NoSpecials123",
			setupMocks:  func(*MockUserRepository, *MockJWTService, *MockJWTRepository) {},
			expectError: "специальный символ",
		},
		{
			name:     "логин занят",
			login:    "analyst1",
			password: "Str0ng!pass",
			setupMocks: func(userRepo *MockUserRepository, jwtService *MockJWTService, jwtRepo *MockJWTRepository) {
				userRepo.On("CreateUser", ctx, mock.Anything, mock.Anything).
					Return(nil, errors.New("duplicate key")).Once()
			},
			expectError: "ошибка создания пользователя",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, userRepo, jwtService, jwtRepo := newTestUserService()
			tt.setupMocks(userRepo, jwtService, jwtRepo)

			got, err := svc.Register(ctx, tt.login, tt.password)

			if tt.expectError != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectError)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tokens, got)
			userRepo.AssertExpectations(t)
			jwtRepo.AssertExpectations(t)
		})
	}
}

func TestGetUser_AllCases(t *testing.T) {
	user := &model.User{UUID: "user-1", Login: "analyst1"}

	t.Run("пользователь читает свой профиль", func(t *testing.T) {
		svc, userRepo, _, _ := newTestUserService()
		ctx := context.WithValue(context.Background(), security.UserContextKey, &security.Claims{UserUUID: "user-1"})

		userRepo.On("FindByUUID", ctx, mock.Anything, "user-1").Return(user, nil).Once()

		got, err := svc.GetUser(ctx, "user-1")

		require.NoError(t, err)
		assert.Equal(t, user, got)
	})

	t.Run("чужой профиль запрещён", func(t *testing.T) {
		svc, _, _, _ := newTestUserService()
		ctx := context.WithValue(context.Background(), security.UserContextKey, &security.Claims{UserUUID: "user-2"})

		_, err := svc.GetUser(ctx, "user-1")

		assert.ErrorContains(t, err, "доступ запрещён")
	})

	t.Run("админ читает любой профиль", func(t *testing.T) {
		svc, userRepo, _, _ := newTestUserService()
		ctx := context.WithValue(context.Background(), security.UserContextKey, &security.Claims{UserUUID: "admin", IsAdmin: true})

		userRepo.On("FindByUUID", ctx, mock.Anything, "user-1").Return(user, nil).Once()

		_, err := svc.GetUser(ctx, "user-1")

		assert.NoError(t, err)
	})

	t.Run("без авторизации", func(t *testing.T) {
		svc, _, _, _ := newTestUserService()

		_, err := svc.GetUser(context.Background(), "user-1")

		assert.ErrorContains(t, err, "не авторизован")
	})
}
