package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spreadsheet-analytics-server/internal/model"
)

func TestRowRepository_InsertBatch_AllCases(t *testing.T) {
	ctx := context.Background()

	t.Run("пустая партия не трогает БД", func(t *testing.T) {
		database, mock := newMockDatabase(t)
		repo := NewRowRepository(database)

		err := repo.InsertBatch(ctx, database.DB, nil)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("партия вставляется одним запросом", func(t *testing.T) {
		database, mock := newMockDatabase(t)
		repo := NewRowRepository(database)

		rows := []model.DataRow{
			{
				FileUUID:         "file-1",
				SheetName:        "Sheet1",
				RowIndex:         1,
				Data:             model.RowData{"a": model.NumberCell(1)},
				Headers:          pq.StringArray{"a"},
				DataTypes:        pq.StringArray{"number"},
				ValidationStatus: model.RowValid,
				SearchableText:   "1",
				ProcessedAt:      time.Now(),
			},
			{
				FileUUID:         "file-1",
				SheetName:        "Sheet1",
				RowIndex:         2,
				Data:             model.RowData{"a": model.NumberCell(2)},
				Headers:          pq.StringArray{"a"},
				DataTypes:        pq.StringArray{"number"},
				ValidationStatus: model.RowValid,
				SearchableText:   "2",
				ProcessedAt:      time.Now(),
			},
		}

		mock.ExpectExec("INSERT INTO file_rows").
			WillReturnResult(sqlmock.NewResult(0, 2))

		err := repo.InsertBatch(ctx, database.DB, rows)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRowRepository_ListByFile(t *testing.T) {
	database, mock := newMockDatabase(t)
	repo := NewRowRepository(database)

	mock.ExpectQuery("SELECT COUNT").
		WithArgs("file-1", "Sheet1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	mock.ExpectQuery("SELECT file_uuid, sheet_name, row_index").
		WithArgs("file-1", "Sheet1", 50, 0).
		WillReturnRows(sqlmock.NewRows([]string{
			"file_uuid", "sheet_name", "row_index", "data", "headers", "data_types",
			"validation_status", "validation_errors", "searchable_text", "processed_at",
		}).
			AddRow("file-1", "Sheet1", 1, []byte(`{"a":{"t":"number","v":1}}`), pq.StringArray{"a"}, pq.StringArray{"number"}, model.RowValid, nil, "1", time.Now()).
			AddRow("file-1", "Sheet1", 2, []byte(`{"a":{"t":"number","v":2}}`), pq.StringArray{"a"}, pq.StringArray{"number"}, model.RowValid, nil, "2", time.Now()))

	rows, total, err := repo.ListByFile(context.Background(), database.DB, "file-1", "Sheet1", 50, 0)

	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, rows, 2)
	assert.Equal(t, 1, rows[0].RowIndex)
	assert.Equal(t, 2, rows[1].RowIndex)

	value, ok := rows[1].Data["a"].Float()
	assert.True(t, ok)
	assert.Equal(t, 2.0, value)
	assert.NoError(t, mock.ExpectationsWereMet())
}
