package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spreadsheet-analytics-server/config"
	"spreadsheet-analytics-server/internal/model"
)

func newMockDatabase(t *testing.T) (*config.Database, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return &config.Database{DB: sqlx.NewDb(db, "sqlmock")}, mock
}

func TestFileRepository_UpdateStatus_AllCases(t *testing.T) {
	ctx := context.Background()

	t.Run("успешный переход uploading -> processing", func(t *testing.T) {
		database, mock := newMockDatabase(t)
		repo := NewFileRepository(database)

		mock.ExpectExec(regexp.QuoteMeta(`UPDATE files SET status = $1, updated_at = NOW() WHERE uuid = $2 AND status = $3`)).
			WithArgs(model.FileStatusProcessing, "file-1", model.FileStatusUploading).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.UpdateStatus(ctx, database.DB, "file-1", model.FileStatusUploading, model.FileStatusProcessing)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("переход из чужого статуса не проходит", func(t *testing.T) {
		database, mock := newMockDatabase(t)
		repo := NewFileRepository(database)

		mock.ExpectExec(regexp.QuoteMeta(`UPDATE files SET status = $1, updated_at = NOW() WHERE uuid = $2 AND status = $3`)).
			WithArgs(model.FileStatusProcessing, "file-1", model.FileStatusUploading).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.UpdateStatus(ctx, database.DB, "file-1", model.FileStatusUploading, model.FileStatusProcessing)

		assert.ErrorIs(t, err, ErrStatusConflict)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestFileRepository_MarkCompleted_AllCases(t *testing.T) {
	ctx := context.Background()
	sheets := model.SheetSummaries{{Name: "Sheet1", RowCount: 3, ColumnCount: 2}}

	t.Run("завершение из processing", func(t *testing.T) {
		database, mock := newMockDatabase(t)
		repo := NewFileRepository(database)

		mock.ExpectExec("UPDATE files").
			WithArgs(model.FileStatusCompleted, 3, 2, sheets, int64(120), "file-1", model.FileStatusProcessing).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.MarkCompleted(ctx, database.DB, "file-1", 3, 2, sheets, 120)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("завершение уже завершённого файла не проходит", func(t *testing.T) {
		database, mock := newMockDatabase(t)
		repo := NewFileRepository(database)

		mock.ExpectExec("UPDATE files").
			WithArgs(model.FileStatusCompleted, 3, 2, sheets, int64(120), "file-1", model.FileStatusProcessing).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.MarkCompleted(ctx, database.DB, "file-1", 3, 2, sheets, 120)

		assert.ErrorIs(t, err, ErrStatusConflict)
	})
}

func TestFileRepository_MarkError(t *testing.T) {
	database, mock := newMockDatabase(t)
	repo := NewFileRepository(database)

	mock.ExpectExec("UPDATE files").
		WithArgs(model.FileStatusError, "файл повреждён", "file-1",
			model.FileStatusUploading, model.FileStatusProcessing).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.MarkError(context.Background(), database.DB, "file-1", "файл повреждён")

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFileRepository_Delete_AllCases(t *testing.T) {
	ctx := context.Background()

	t.Run("владелец удаляет файл и получает storage_path", func(t *testing.T) {
		database, mock := newMockDatabase(t)
		repo := NewFileRepository(database)

		mock.ExpectQuery(regexp.QuoteMeta(`DELETE FROM files WHERE uuid = $1 AND owner_uuid = $2 RETURNING storage_path`)).
			WithArgs("file-1", "owner-1").
			WillReturnRows(sqlmock.NewRows([]string{"storage_path"}).AddRow("uploads/file-1.xlsx"))

		path, err := repo.Delete(ctx, database.DB, "file-1", "owner-1")

		require.NoError(t, err)
		assert.Equal(t, "uploads/file-1.xlsx", path)
	})

	t.Run("не владелец ничего не удаляет", func(t *testing.T) {
		database, mock := newMockDatabase(t)
		repo := NewFileRepository(database)

		mock.ExpectQuery("DELETE FROM files").
			WithArgs("file-1", "stranger").
			WillReturnError(errors.New("sql: no rows in result set"))

		_, err := repo.Delete(ctx, database.DB, "file-1", "stranger")

		assert.Error(t, err)
	})
}
