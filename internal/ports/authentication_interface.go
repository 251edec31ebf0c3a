package ports

import (
	"context"

	"spreadsheet-analytics-server/internal/model"
)

type AuthenticationService interface {
	Login(ctx context.Context, login string, password string) (*model.TokensPair, error)
	RefreshToken(ctx context.Context, accessToken string, refreshToken string) (*model.TokensPair, error)
}
