package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"spreadsheet-analytics-server/config"
	"spreadsheet-analytics-server/internal/model"
	"spreadsheet-analytics-server/internal/util"
)

// ErrStatusConflict : переход нарушает порядок uploading -> processing -> completed|error
var ErrStatusConflict = errors.New("недопустимый переход статуса файла")

// fileColumns : полный список колонок таблицы files
const fileColumns = `uuid, owner_uuid, filename, original_name, storage_path, size_bytes, mime_type,
	status, processing_error, total_rows, total_columns, sheets, description, tags, is_public,
	processing_ms, upload_date, last_accessed, created_at, updated_at`

// допустимые поля сортировки списка файлов
var fileSortColumns = map[string]string{
	"uploadDate":   "upload_date",
	"originalName": "original_name",
	"sizeBytes":    "size_bytes",
	"totalRows":    "total_rows",
	"status":       "status",
}

type FileRepository struct {
	*config.Database
}

func NewFileRepository(database *config.Database) *FileRepository {
	return &FileRepository{database}
}

// Create : сохраняет запись о загруженном файле
func (r *FileRepository) Create(ctx context.Context, exec sqlx.ExtContext, file *model.UploadedFile) error {
	query := `
		INSERT INTO files (uuid, owner_uuid, filename, original_name, storage_path, size_bytes,
			mime_type, status, sheets, description, tags, is_public)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err := exec.ExecContext(
		ctx,
		query,
		file.UUID,
		file.OwnerUUID,
		file.Filename,
		file.OriginalName,
		file.StoragePath,
		file.SizeBytes,
		file.MimeType,
		file.Status,
		file.Sheets,
		file.Description,
		file.Tags,
		file.IsPublic,
	)

	return err
}

// GetByUUID : возвращает запись о файле без проверки доступа
func (r *FileRepository) GetByUUID(ctx context.Context, exec sqlx.ExtContext, fileUUID string) (*model.UploadedFile, error) {
	query := `SELECT ` + fileColumns + ` FROM files WHERE uuid = $1`

	var file model.UploadedFile
	if err := sqlx.GetContext(ctx, exec, &file, query, fileUUID); err != nil {
		return nil, err
	}

	return &file, nil
}

// List : файлы, принадлежащие пользователю или доступные ему по шарингу;
// фильтр по статусу и поиск по имени, описанию и тегам
func (r *FileRepository) List(ctx context.Context, exec sqlx.ExtContext, filter model.FileFilter) ([]model.UploadedFile, int, error) {
	conditions := []string{"(f.owner_uuid = $1 OR s.target_user_uuid IS NOT NULL)"}
	args := []interface{}{filter.OwnerUUID}

	if filter.Status != "" && filter.Status != "all" {
		args = append(args, filter.Status)
		conditions = append(conditions, fmt.Sprintf("f.status = $%d", len(args)))
	}

	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		n := len(args)
		conditions = append(conditions, fmt.Sprintf(
			"(f.original_name ILIKE $%d OR f.description ILIKE $%d OR EXISTS (SELECT 1 FROM unnest(f.tags) AS tag WHERE tag ILIKE $%d))",
			n, n, n))
	}

	base := `
		FROM files AS f
		LEFT JOIN file_shares AS s
		  ON f.uuid = s.file_uuid AND s.target_user_uuid = $1
		WHERE ` + strings.Join(conditions, " AND ")

	var total int
	if err := sqlx.GetContext(ctx, exec, &total, "SELECT COUNT(*) "+base, args...); err != nil {
		return nil, 0, util.LogError("[FileRepo] не удалось посчитать файлы", err)
	}

	sortColumn, ok := fileSortColumns[filter.SortBy]
	if !ok {
		sortColumn = "upload_date"
	}
	sortOrder := "DESC"
	if strings.EqualFold(filter.SortOrder, "asc") {
		sortOrder = "ASC"
	}

	args = append(args, filter.Limit, filter.Offset())
	query := fmt.Sprintf("SELECT f.* %s ORDER BY f.%s %s LIMIT $%d OFFSET $%d",
		base, sortColumn, sortOrder, len(args)-1, len(args))

	files := []model.UploadedFile{}
	rows, err := exec.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, 0, util.LogError("[FileRepo] не удалось получить список файлов", err)
	}
	defer rows.Close()

	for rows.Next() {
		var file model.UploadedFile
		if err := rows.StructScan(&file); err != nil {
			return nil, 0, err
		}
		files = append(files, file)
	}

	return files, total, rows.Err()
}

// UpdateStatus : переводит файл из fromStatus в toStatus.
// Условие по текущему статусу гарантирует монотонность переходов.
func (r *FileRepository) UpdateStatus(ctx context.Context, exec sqlx.ExtContext, fileUUID string, fromStatus string, toStatus string) error {
	query := `UPDATE files SET status = $1, updated_at = NOW() WHERE uuid = $2 AND status = $3`

	result, err := exec.ExecContext(ctx, query, toStatus, fileUUID, fromStatus)
	if err != nil {
		return util.LogError("[FileRepo] не удалось обновить статус", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s -> %s", ErrStatusConflict, fromStatus, toStatus)
	}

	return nil
}

// MarkCompleted : завершает обработку файла агрегатами и списком листов
func (r *FileRepository) MarkCompleted(ctx context.Context, exec sqlx.ExtContext, fileUUID string, totalRows int, totalColumns int, sheets model.SheetSummaries, processingMs int64) error {
	query := `
		UPDATE files
		SET status = $1, total_rows = $2, total_columns = $3, sheets = $4,
		    processing_ms = $5, processing_error = NULL, updated_at = NOW()
		WHERE uuid = $6 AND status = $7
	`

	result, err := exec.ExecContext(ctx, query,
		model.FileStatusCompleted, totalRows, totalColumns, sheets, processingMs,
		fileUUID, model.FileStatusProcessing)
	if err != nil {
		return util.LogError("[FileRepo] не удалось завершить обработку файла", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("%w: processing -> completed", ErrStatusConflict)
	}

	return nil
}

// MarkError : переводит файл в error с текстом ошибки; из завершённого
// состояния файл в error не переводится
func (r *FileRepository) MarkError(ctx context.Context, exec sqlx.ExtContext, fileUUID string, message string) error {
	query := `
		UPDATE files
		SET status = $1, processing_error = $2, updated_at = NOW()
		WHERE uuid = $3 AND status IN ($4, $5)
	`

	_, err := exec.ExecContext(ctx, query,
		model.FileStatusError, message, fileUUID,
		model.FileStatusUploading, model.FileStatusProcessing)
	if err != nil {
		return util.LogError("[FileRepo] не удалось записать ошибку обработки", err)
	}

	return nil
}

// UpdateMetadata : обновляет описание, теги и публичность
func (r *FileRepository) UpdateMetadata(ctx context.Context, exec sqlx.ExtContext, fileUUID string, update model.FileMetadataUpdate) error {
	sets := []string{"updated_at = NOW()"}
	args := []interface{}{}

	if update.Description != nil {
		args = append(args, *update.Description)
		sets = append(sets, fmt.Sprintf("description = $%d", len(args)))
	}
	if update.Tags != nil {
		args = append(args, pq.StringArray(update.Tags))
		sets = append(sets, fmt.Sprintf("tags = $%d", len(args)))
	}
	if update.IsPublic != nil {
		args = append(args, *update.IsPublic)
		sets = append(sets, fmt.Sprintf("is_public = $%d", len(args)))
	}

	args = append(args, fileUUID)
	query := fmt.Sprintf("UPDATE files SET %s WHERE uuid = $%d", strings.Join(sets, ", "), len(args))

	if _, err := exec.ExecContext(ctx, query, args...); err != nil {
		return util.LogError("[FileRepo] не удалось обновить метаданные", err)
	}

	return nil
}

// TouchLastAccessed : отмечает время последнего чтения файла
func (r *FileRepository) TouchLastAccessed(ctx context.Context, exec sqlx.ExtContext, fileUUID string) error {
	_, err := exec.ExecContext(ctx, `UPDATE files SET last_accessed = NOW() WHERE uuid = $1`, fileUUID)
	return err
}

// Delete : удаляет запись файла, только владелец; строки данных удаляются
// каскадом по внешнему ключу. Возвращает storage_path для очистки байтов.
func (r *FileRepository) Delete(ctx context.Context, exec sqlx.ExtContext, fileUUID string, ownerUUID string) (string, error) {
	query := `DELETE FROM files WHERE uuid = $1 AND owner_uuid = $2 RETURNING storage_path`

	var storagePath string
	if err := sqlx.GetContext(ctx, exec, &storagePath, query, fileUUID, ownerUUID); err != nil {
		return "", err
	}

	return storagePath, nil
}

func (r *FileRepository) BeginTX(ctx context.Context) (sqlx.ExtContext, func() error, func() error, error) {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return nil, nil, nil, err
	}
	return tx, func() error { return tx.Rollback() }, func() error { return tx.Commit() }, nil
}
