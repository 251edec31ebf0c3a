package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"spreadsheet-analytics-server/config"
	"spreadsheet-analytics-server/internal/model"
	"spreadsheet-analytics-server/internal/util"
)

type RowRepository struct {
	*config.Database
}

func NewRowRepository(database *config.Database) *RowRepository {
	return &RowRepository{database}
}

// InsertBatch : вставляет партию строк одного листа одним запросом.
// Разбиение на партии делает сервис, репозиторий вставляет как есть.
func (r *RowRepository) InsertBatch(ctx context.Context, exec sqlx.ExtContext, rows []model.DataRow) error {
	if len(rows) == 0 {
		return nil
	}

	query := `
		INSERT INTO file_rows (file_uuid, sheet_name, row_index, data, headers, data_types,
			validation_status, validation_errors, searchable_text, processed_at)
		VALUES (:file_uuid, :sheet_name, :row_index, :data, :headers, :data_types,
			:validation_status, :validation_errors, :searchable_text, :processed_at)
	`

	bound, args, err := sqlx.Named(query, rows)
	if err != nil {
		return util.LogError("[RowRepo] не удалось собрать запрос вставки строк", err)
	}

	if _, err := exec.ExecContext(ctx, exec.Rebind(bound), args...); err != nil {
		return util.LogError(fmt.Sprintf("[RowRepo] не удалось вставить партию из %d строк", len(rows)), err)
	}

	return nil
}

// ListByFile : строки файла в порядке row_index; sheetName пустой — все листы
func (r *RowRepository) ListByFile(ctx context.Context, exec sqlx.ExtContext, fileUUID string, sheetName string, limit int, offset int) ([]model.DataRow, int, error) {
	countQuery := `SELECT COUNT(*) FROM file_rows WHERE file_uuid = $1 AND ($2 = '' OR sheet_name = $2)`

	var total int
	if err := sqlx.GetContext(ctx, exec, &total, countQuery, fileUUID, sheetName); err != nil {
		return nil, 0, util.LogError("[RowRepo] не удалось посчитать строки файла", err)
	}

	query := `
		SELECT file_uuid, sheet_name, row_index, data, headers, data_types,
		       validation_status, validation_errors, searchable_text, processed_at
		FROM file_rows
		WHERE file_uuid = $1 AND ($2 = '' OR sheet_name = $2)
		ORDER BY sheet_name ASC, row_index ASC
		LIMIT $3 OFFSET $4
	`

	rows := []model.DataRow{}
	if err := sqlx.SelectContext(ctx, exec, &rows, query, fileUUID, sheetName, limit, offset); err != nil {
		return nil, 0, util.LogError("[RowRepo] не удалось получить строки файла", err)
	}

	return rows, total, nil
}

// DeleteByFile : удаляет все строки файла
func (r *RowRepository) DeleteByFile(ctx context.Context, exec sqlx.ExtContext, fileUUID string) error {
	if _, err := exec.ExecContext(ctx, `DELETE FROM file_rows WHERE file_uuid = $1`, fileUUID); err != nil {
		return util.LogError("[RowRepo] не удалось удалить строки файла", err)
	}
	return nil
}
