package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"golang.org/x/crypto/bcrypt"

	"spreadsheet-analytics-server/config"
	"spreadsheet-analytics-server/internal/model"
	"spreadsheet-analytics-server/internal/ports"
	"spreadsheet-analytics-server/internal/security"
	"spreadsheet-analytics-server/internal/util"
)

type AuthenticationService struct {
	jwtRepository  ports.JWTRepositoryInterface
	jwtService     ports.JWTServiceInterface
	userRepository ports.UserRepository
	database       *config.Database
	jwtConfig      *config.JWTConfig
}

func NewAuthenticationService(
	jwtRepository ports.JWTRepositoryInterface,
	jwtService ports.JWTServiceInterface,
	userRepository ports.UserRepository,
	database *config.Database,
	jwtConfig *config.JWTConfig,
) *AuthenticationService {
	return &AuthenticationService{
		jwtRepository:  jwtRepository,
		jwtService:     jwtService,
		userRepository: userRepository,
		database:       database,
		jwtConfig:      jwtConfig,
	}
}

func (s *AuthenticationService) Login(ctx context.Context, login string, password string) (*model.TokensPair, error) {
	user, err := s.userRepository.FindByLogin(ctx, s.database.DB, login)
	if err != nil {
		return nil, fmt.Errorf("пользователь не найден: %w", err)
	}

	if !security.CheckPassword(password, user.PasswordHash) {
		return nil, fmt.Errorf("неверный пароль")
	}

	tokens, refreshToken, err := s.jwtService.GenerateAccessRefreshTokens(user.UUID)
	if err != nil {
		return nil, fmt.Errorf("ошибка генерации токенов: %w", err)
	}

	if err := s.jwtRepository.SaveRefreshToken(ctx, refreshToken); err != nil {
		return nil, fmt.Errorf("ошибка сохранения refresh токена: %w", err)
	}

	return tokens, nil
}

// RefreshToken выдаёт новую пару токенов.
// Операцию можно выполнить только той парой токенов, которая была выдана
// вместе: refresh сверяется с bcrypt-хэшем, привязанным к access-токену,
// и помечается использованным.
func (s *AuthenticationService) RefreshToken(ctx context.Context, accessToken string, refreshToken string) (*model.TokensPair, error) {
	claims, err := s.jwtService.ValidateJWT(accessToken, []byte(s.jwtConfig.SecretKey))
	if err != nil {
		return nil, util.LogError("не удалось провалидировать токен", err)
	}

	refreshTokenUUID := claims.RefreshTokenUUID
	userUUID := claims.UserUUID

	storedRefreshToken, err := s.jwtRepository.FindByUUID(ctx, refreshTokenUUID)
	if err != nil {
		return nil, util.LogError("не удалось найти рефреш токен", err)
	}
	if storedRefreshToken.Used {
		log.Printf("refresh token %s уже был использован", refreshTokenUUID)
		return nil, fmt.Errorf("невалидный токен")
	}

	if time.Now().UTC().After(storedRefreshToken.ExpireAt) {
		log.Printf("refresh token %s просрочен", refreshTokenUUID)
		return nil, fmt.Errorf("невалидный токен")
	}

	err = bcrypt.CompareHashAndPassword([]byte(storedRefreshToken.TokenHash), []byte(refreshToken))
	if err != nil {
		return nil, util.LogError("невалидный токен", err)
	}

	if err := s.jwtRepository.MarkRefreshTokenUsedByUUID(ctx, refreshTokenUUID); err != nil {
		return nil, util.LogError("не удалось использовать токен", err)
	}

	tokensPair, newRefreshToken, err := s.jwtService.GenerateAccessRefreshTokens(userUUID)
	if err != nil {
		return nil, util.LogError("ошибка генерации токенов", err)
	}

	if err := s.jwtRepository.SaveRefreshToken(ctx, newRefreshToken); err != nil {
		return nil, util.LogError("не удалось сохранить рефреш токен", err)
	}

	return tokensPair, nil
}
