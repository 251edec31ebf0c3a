package ports

import (
	"context"

	"github.com/jmoiron/sqlx"

	"spreadsheet-analytics-server/internal/model"
)

type UserRepository interface {
	CreateUser(ctx context.Context, exec sqlx.ExtContext, user *model.User) (*model.User, error)
	FindByUUID(ctx context.Context, exec sqlx.ExtContext, uuid string) (*model.User, error)
	FindByLogin(ctx context.Context, exec sqlx.ExtContext, login string) (*model.User, error)
	Exists(ctx context.Context, exec sqlx.ExtContext, uuid string) (bool, error)
}

type UserService interface {
	Register(ctx context.Context, login string, password string) (*model.TokensPair, error)
	GetUser(ctx context.Context, uuid string) (*model.User, error)
}
