package ports

import (
	"context"

	"github.com/jmoiron/sqlx"

	"spreadsheet-analytics-server/internal/model"
	"spreadsheet-analytics-server/internal/parser"
	"spreadsheet-analytics-server/internal/worker"
)

// FileRepository : SQL слой для записей о загруженных файлах
type FileRepository interface {
	Create(ctx context.Context, exec sqlx.ExtContext, file *model.UploadedFile) error
	GetByUUID(ctx context.Context, exec sqlx.ExtContext, fileUUID string) (*model.UploadedFile, error)
	List(ctx context.Context, exec sqlx.ExtContext, filter model.FileFilter) ([]model.UploadedFile, int, error)
	UpdateStatus(ctx context.Context, exec sqlx.ExtContext, fileUUID string, fromStatus string, toStatus string) error
	MarkCompleted(ctx context.Context, exec sqlx.ExtContext, fileUUID string, totalRows int, totalColumns int, sheets model.SheetSummaries, processingMs int64) error
	MarkError(ctx context.Context, exec sqlx.ExtContext, fileUUID string, message string) error
	UpdateMetadata(ctx context.Context, exec sqlx.ExtContext, fileUUID string, update model.FileMetadataUpdate) error
	TouchLastAccessed(ctx context.Context, exec sqlx.ExtContext, fileUUID string) error
	Delete(ctx context.Context, exec sqlx.ExtContext, fileUUID string, ownerUUID string) (string, error)
	BeginTX(ctx context.Context) (sqlx.ExtContext, func() error, func() error, error)
}

// RowRepository : SQL слой для строк данных
type RowRepository interface {
	InsertBatch(ctx context.Context, exec sqlx.ExtContext, rows []model.DataRow) error
	ListByFile(ctx context.Context, exec sqlx.ExtContext, fileUUID string, sheetName string, limit int, offset int) ([]model.DataRow, int, error)
	DeleteByFile(ctx context.Context, exec sqlx.ExtContext, fileUUID string) error
}

// ShareRepository : права доступа к файлам других пользователей
type ShareRepository interface {
	Upsert(ctx context.Context, exec sqlx.ExtContext, share *model.FileShare) error
	Remove(ctx context.Context, exec sqlx.ExtContext, fileUUID string, targetUserUUID string) error
	HasAccess(ctx context.Context, exec sqlx.ExtContext, fileUUID string, userUUID string) (bool, error)
	ListShares(ctx context.Context, exec sqlx.ExtContext, fileUUID string) ([]model.FileShare, error)
}

// FileParser : разбор книги на листы
type FileParser interface {
	ParseFile(path string, originalName string) (*parser.ParseResult, error)
}

// TaskPool : пул фоновой обработки загруженных файлов
type TaskPool interface {
	Submit(name string, fn worker.Task) (*worker.Handle, error)
}

// FileService : сценарии работы с файлами
type FileService interface {
	UploadFile(ctx context.Context, upload *model.FileUpload) (*model.UploadedFile, error)
	GetFile(ctx context.Context, fileUUID string, userUUID string) (*model.FileDetails, error)
	ListFiles(ctx context.Context, userUUID string, filter model.FileFilter) ([]model.UploadedFile, int, error)
	GetFileRows(ctx context.Context, fileUUID string, userUUID string, sheetName string, page int, limit int) ([]model.DataRow, int, error)
	UpdateFile(ctx context.Context, fileUUID string, userUUID string, update model.FileMetadataUpdate) (*model.UploadedFile, error)
	DeleteFile(ctx context.Context, fileUUID string, userUUID string) error
	ShareFile(ctx context.Context, fileUUID string, ownerUUID string, targetUserUUID string, permission string) error
}
