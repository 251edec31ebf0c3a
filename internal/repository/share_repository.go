package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"spreadsheet-analytics-server/config"
	"spreadsheet-analytics-server/internal/model"
	"spreadsheet-analytics-server/internal/util"
)

type ShareRepository struct {
	*config.Database
}

func NewShareRepository(database *config.Database) *ShareRepository {
	return &ShareRepository{database}
}

// Upsert : выдаёт или обновляет право доступа пользователю
func (r *ShareRepository) Upsert(ctx context.Context, exec sqlx.ExtContext, share *model.FileShare) error {
	query := `
		INSERT INTO file_shares (file_uuid, owner_uuid, target_user_uuid, permission)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (file_uuid, target_user_uuid)
		DO UPDATE SET permission = EXCLUDED.permission, updated_at = NOW()
	`

	_, err := exec.ExecContext(ctx, query, share.FileUUID, share.OwnerUUID, share.TargetUserUUID, share.Permission)
	if err != nil {
		return util.LogError("[ShareRepo] не удалось выдать доступ", err)
	}

	return nil
}

// Remove : отзывает доступ пользователя к файлу
func (r *ShareRepository) Remove(ctx context.Context, exec sqlx.ExtContext, fileUUID string, targetUserUUID string) error {
	query := `DELETE FROM file_shares WHERE file_uuid = $1 AND target_user_uuid = $2`

	if _, err := exec.ExecContext(ctx, query, fileUUID, targetUserUUID); err != nil {
		return util.LogError("[ShareRepo] не удалось отозвать доступ", err)
	}

	return nil
}

// HasAccess : доступен ли файл пользователю: владелец, публичный или расшарен
func (r *ShareRepository) HasAccess(ctx context.Context, exec sqlx.ExtContext, fileUUID string, userUUID string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM files f
			WHERE f.uuid = $1
			  AND (f.owner_uuid = $2
			       OR f.is_public
			       OR EXISTS (SELECT 1 FROM file_shares s
			                  WHERE s.file_uuid = f.uuid AND s.target_user_uuid = $2))
		)
	`

	var allowed bool
	if err := sqlx.GetContext(ctx, exec, &allowed, query, fileUUID, userUUID); err != nil {
		return false, util.LogError("[ShareRepo] не удалось проверить доступ", err)
	}

	return allowed, nil
}

// ListShares : все выданные на файл права
func (r *ShareRepository) ListShares(ctx context.Context, exec sqlx.ExtContext, fileUUID string) ([]model.FileShare, error) {
	query := `
		SELECT file_uuid, owner_uuid, target_user_uuid, permission, created_at, updated_at
		FROM file_shares
		WHERE file_uuid = $1
		ORDER BY created_at ASC
	`

	shares := []model.FileShare{}
	if err := sqlx.SelectContext(ctx, exec, &shares, query, fileUUID); err != nil {
		return nil, util.LogError("[ShareRepo] не удалось получить список доступов", err)
	}

	return shares, nil
}
