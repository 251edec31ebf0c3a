package ports

import (
	"context"

	"spreadsheet-analytics-server/internal/model"
)

// CacheRepository : Redis слой для метаданных файлов и колонок
type CacheRepository interface {
	SetFile(ctx context.Context, file *model.UploadedFile) error
	GetFile(ctx context.Context, uuid string) (*model.UploadedFile, error)
	DeleteFile(ctx context.Context, uuid string) error
	SetColumns(ctx context.Context, fileUUID string, sheetName string, columns *model.ColumnsResult) error
	GetColumns(ctx context.Context, fileUUID string, sheetName string) (*model.ColumnsResult, error)
	DeleteColumns(ctx context.Context, fileUUID string) error
}
