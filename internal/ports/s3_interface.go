package ports

import (
	"context"
	"io"
	"time"
)

// ObjectStorage : архив исходных байтов файлов в S3
type ObjectStorage interface {
	UploadObject(ctx context.Context, key string, body io.Reader, contentType string) error
	GeneratePresignedGetURL(ctx context.Context, key string, expire time.Duration) (string, error)
	DeleteObject(ctx context.Context, key string) error
}
