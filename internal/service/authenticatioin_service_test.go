package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"spreadsheet-analytics-server/config"
	"spreadsheet-analytics-server/internal/model"
	"spreadsheet-analytics-server/internal/security"
	"spreadsheet-analytics-server/internal/service"
)

func newTestAuthenticationService() (*service.AuthenticationService, *MockUserRepository, *MockJWTService, *MockJWTRepository) {
	userRepo := new(MockUserRepository)
	jwtService := new(MockJWTService)
	jwtRepo := new(MockJWTRepository)

	svc := service.NewAuthenticationService(
		jwtRepo,
		jwtService,
		userRepo,
		&config.Database{},
		&config.JWTConfig{SecretKey: "test-secret"},
	)
	return svc, userRepo, jwtService, jwtRepo
}

func TestLogin_AllCases(t *testing.T) {
	ctx := context.Background()

	passwordHash, err := bcrypt.GenerateFromPassword([]byte("Str0ng!pass"), bcrypt.DefaultCost)
	require.NoError(t, err)

	user := &model.User{UUID: "user-1", Login: "analyst1", PasswordHash: string(passwordHash)}
	tokens := &model.TokensPair{AccessToken: "access", RefreshToken: "refresh"}
	refresh := &model.RefreshToken{UUID: "rt-1", UserUUID: "user-1"}

	t.Run("успешный вход", func(t *testing.T) {
		svc, userRepo, jwtService, jwtRepo := newTestAuthenticationService()

		userRepo.On("FindByLogin", ctx, mock.Anything, "analyst1").Return(user, nil).Once()
		jwtService.On("GenerateAccessRefreshTokens", "user-1").Return(tokens, refresh, nil).Once()
		jwtRepo.On("SaveRefreshToken", ctx, refresh).Return(nil).Once()

		got, err := svc.Login(ctx, "analyst1", "Str0ng!pass")

		require.NoError(t, err)
		assert.Equal(t, tokens, got)
		jwtRepo.AssertExpectations(t)
	})

	t.Run("неверный пароль", func(t *testing.T) {
		svc, userRepo, jwtService, _ := newTestAuthenticationService()

		userRepo.On("FindByLogin", ctx, mock.Anything, "analyst1").Return(user, nil).Once()

		_, err := svc.Login(ctx, "analyst1", "wrong-password")

		assert.ErrorContains(t, err, "неверный пароль")
		jwtService.AssertNotCalled(t, "GenerateAccessRefreshTokens", mock.Anything)
	})

	t.Run("пользователь не найден", func(t *testing.T) {
		svc, userRepo, _, _ := newTestAuthenticationService()

		userRepo.On("FindByLogin", ctx, mock.Anything, "ghost").
			Return(nil, errors.New("sql: no rows in result set")).Once()

		_, err := svc.Login(ctx, "ghost", "Str0ng!pass")

		assert.ErrorContains(t, err, "пользователь не найден")
	})
}

func TestRefreshToken_AllCases(t *testing.T) {
	ctx := context.Background()
	secret := []byte("test-secret")

	refreshHash, err := bcrypt.GenerateFromPassword([]byte("old-refresh"), bcrypt.DefaultCost)
	require.NoError(t, err)

	claims := &security.Claims{UserUUID: "user-1", RefreshTokenUUID: "rt-1"}
	newTokens := &model.TokensPair{AccessToken: "new-access", RefreshToken: "new-refresh"}
	newRefresh := &model.RefreshToken{UUID: "rt-2", UserUUID: "user-1"}

	storedToken := func() *model.RefreshToken {
		return &model.RefreshToken{
			UUID:      "rt-1",
			UserUUID:  "user-1",
			TokenHash: string(refreshHash),
			ExpireAt:  time.Now().UTC().Add(time.Hour),
		}
	}

	t.Run("успешное обновление пары", func(t *testing.T) {
		svc, _, jwtService, jwtRepo := newTestAuthenticationService()

		jwtService.On("ValidateJWT", "old-access", secret).Return(claims, nil).Once()
		jwtRepo.On("FindByUUID", ctx, "rt-1").Return(storedToken(), nil).Once()
		jwtRepo.On("MarkRefreshTokenUsedByUUID", ctx, "rt-1").Return(nil).Once()
		jwtService.On("GenerateAccessRefreshTokens", "user-1").Return(newTokens, newRefresh, nil).Once()
		jwtRepo.On("SaveRefreshToken", ctx, newRefresh).Return(nil).Once()

		got, err := svc.RefreshToken(ctx, "old-access", "old-refresh")

		require.NoError(t, err)
		assert.Equal(t, newTokens, got)
		jwtRepo.AssertExpectations(t)
	})

	t.Run("токен уже использован", func(t *testing.T) {
		svc, _, jwtService, jwtRepo := newTestAuthenticationService()

		used := storedToken()
		used.Used = true

		jwtService.On("ValidateJWT", "old-access", secret).Return(claims, nil).Once()
		jwtRepo.On("FindByUUID", ctx, "rt-1").Return(used, nil).Once()

		_, err := svc.RefreshToken(ctx, "old-access", "old-refresh")

		assert.ErrorContains(t, err, "невалидный токен")
		jwtRepo.AssertNotCalled(t, "MarkRefreshTokenUsedByUUID", mock.Anything, mock.Anything)
	})

	t.Run("токен просрочен", func(t *testing.T) {
		svc, _, jwtService, jwtRepo := newTestAuthenticationService()

		expired := storedToken()
		expired.ExpireAt = time.Now().UTC().Add(-time.Hour)

		jwtService.On("ValidateJWT", "old-access", secret).Return(claims, nil).Once()
		jwtRepo.On("FindByUUID", ctx, "rt-1").Return(expired, nil).Once()

		_, err := svc.RefreshToken(ctx, "old-access", "old-refresh")

		assert.ErrorContains(t, err, "невалидный токен")
	})

	t.Run("refresh от другой пары", func(t *testing.T) {
		svc, _, jwtService, jwtRepo := newTestAuthenticationService()

		jwtService.On("ValidateJWT", "old-access", secret).Return(claims, nil).Once()
		jwtRepo.On("FindByUUID", ctx, "rt-1").Return(storedToken(), nil).Once()

		_, err := svc.RefreshToken(ctx, "old-access", "foreign-refresh")

		assert.ErrorContains(t, err, "невалидный токен")
		jwtRepo.AssertNotCalled(t, "MarkRefreshTokenUsedByUUID", mock.Anything, mock.Anything)
	})

	t.Run("битый access токен", func(t *testing.T) {
		svc, _, jwtService, jwtRepo := newTestAuthenticationService()

		jwtService.On("ValidateJWT", "garbage", secret).
			Return(nil, errors.New("token is malformed")).Once()

		_, err := svc.RefreshToken(ctx, "garbage", "old-refresh")

		assert.Error(t, err)
		jwtRepo.AssertNotCalled(t, "FindByUUID", mock.Anything, mock.Anything)
	})
}
