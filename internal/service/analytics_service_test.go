package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"spreadsheet-analytics-server/config"
	"spreadsheet-analytics-server/internal/model"
	"spreadsheet-analytics-server/internal/service"
)

func newTestAnalyticsService() (*service.AnalyticsService, *MockFileRepository, *MockRowRepository, *MockShareRepository, *MockCacheRepository) {
	fileRepo := new(MockFileRepository)
	rowRepo := new(MockRowRepository)
	shareRepo := new(MockShareRepository)
	cache := new(MockCacheRepository)

	svc := service.NewAnalyticsService(fileRepo, rowRepo, shareRepo, cache, &config.Database{})
	return svc, fileRepo, rowRepo, shareRepo, cache
}

func completedFile() *model.UploadedFile {
	return &model.UploadedFile{
		UUID:      "file-1",
		OwnerUUID: "user-1",
		Status:    model.FileStatusCompleted,
		Sheets: model.SheetSummaries{
			{
				Name:        "Продажи",
				RowCount:    3,
				ColumnCount: 2,
				Headers:     []string{"city", "sales"},
				DataTypes:   []model.ColumnType{model.ColumnString, model.ColumnNumber},
			},
			{
				Name:        "Склад",
				RowCount:    1,
				ColumnCount: 1,
				Headers:     []string{"item"},
				DataTypes:   []model.ColumnType{model.ColumnString},
			},
		},
	}
}

func analyticsRows() []model.DataRow {
	return []model.DataRow{
		{RowIndex: 1, Data: model.RowData{"city": model.StringCell("A"), "sales": model.NumberCell(3)}},
		{RowIndex: 2, Data: model.RowData{"city": model.StringCell("B"), "sales": model.NumberCell(2)}},
		{RowIndex: 3, Data: model.RowData{"city": model.StringCell("A"), "sales": model.NumberCell(5)}},
	}
}

func TestGetChartData_AllCases(t *testing.T) {
	ctx := context.Background()

	t.Run("bar по первому листу", func(t *testing.T) {
		svc, fileRepo, rowRepo, shareRepo, _ := newTestAnalyticsService()

		shareRepo.On("HasAccess", ctx, mock.Anything, "file-1", "user-1").Return(true, nil).Once()
		fileRepo.On("GetByUUID", ctx, mock.Anything, "file-1").Return(completedFile(), nil).Once()
		rowRepo.On("ListByFile", ctx, mock.Anything, "file-1", "Продажи", 1000, 0).
			Return(analyticsRows(), 3, nil).Once()

		result, err := svc.GetChartData(ctx, model.ChartQuery{
			FileUUID:  "file-1",
			UserUUID:  "user-1",
			ChartType: model.ChartBar,
			XAxis:     "city",
			YAxis:     "sales",
		})

		require.NoError(t, err)
		assert.Equal(t, model.ChartBar, result.ChartType)
		assert.Equal(t, []string{"city", "sales"}, result.Headers)
		assert.Equal(t, 3, result.TotalRecords)
		require.Len(t, result.Data, 3)
		assert.Equal(t, "A", result.Data[0].Label)
	})

	t.Run("файл ещё обрабатывается", func(t *testing.T) {
		svc, fileRepo, _, shareRepo, _ := newTestAnalyticsService()

		processing := completedFile()
		processing.Status = model.FileStatusProcessing
		shareRepo.On("HasAccess", ctx, mock.Anything, "file-1", "user-1").Return(true, nil).Once()
		fileRepo.On("GetByUUID", ctx, mock.Anything, "file-1").Return(processing, nil).Once()

		_, err := svc.GetChartData(ctx, model.ChartQuery{FileUUID: "file-1", UserUUID: "user-1"})

		assert.ErrorIs(t, err, service.ErrInvalidArgument)
	})

	t.Run("нет доступа", func(t *testing.T) {
		svc, _, _, shareRepo, _ := newTestAnalyticsService()

		shareRepo.On("HasAccess", ctx, mock.Anything, "file-1", "stranger").Return(false, nil).Once()

		_, err := svc.GetChartData(ctx, model.ChartQuery{FileUUID: "file-1", UserUUID: "stranger"})

		assert.ErrorIs(t, err, service.ErrAccessDenied)
	})

	t.Run("несуществующий лист", func(t *testing.T) {
		svc, fileRepo, _, shareRepo, _ := newTestAnalyticsService()

		shareRepo.On("HasAccess", ctx, mock.Anything, "file-1", "user-1").Return(true, nil).Once()
		fileRepo.On("GetByUUID", ctx, mock.Anything, "file-1").Return(completedFile(), nil).Once()

		_, err := svc.GetChartData(ctx, model.ChartQuery{
			FileUUID: "file-1", UserUUID: "user-1", SheetName: "Нет такого",
		})

		assert.ErrorIs(t, err, service.ErrInvalidArgument)
	})
}

func TestGetColumns_AllCases(t *testing.T) {
	ctx := context.Background()

	t.Run("промах кэша: колонки строятся и кэшируются", func(t *testing.T) {
		svc, fileRepo, _, shareRepo, cache := newTestAnalyticsService()

		file := completedFile()
		file.Sheets[0].Headers = []string{"city", "sales", "city"}
		file.Sheets[0].DataTypes = []model.ColumnType{model.ColumnString, model.ColumnNumber, model.ColumnString}

		shareRepo.On("HasAccess", ctx, mock.Anything, "file-1", "user-1").Return(true, nil).Once()
		fileRepo.On("GetByUUID", ctx, mock.Anything, "file-1").Return(file, nil).Once()
		cache.On("GetColumns", ctx, "file-1", "Продажи").Return(nil, nil).Once()
		cache.On("SetColumns", ctx, "file-1", "Продажи", mock.Anything).Return(nil).Once()

		result, err := svc.GetColumns(ctx, "file-1", "user-1", "")

		require.NoError(t, err)
		require.Len(t, result.Columns, 3)

		// дубликат заголовка получает порядковый номер
		assert.Equal(t, "city", result.Columns[0].DisplayName)
		assert.Equal(t, "city (2)", result.Columns[2].DisplayName)
		assert.Equal(t, 2, result.Columns[2].OriginalIndex)

		// числовая колонка годится для всех осей
		assert.Equal(t, []string{"x", "y", "z"}, result.Columns[1].SuitableFor)
		assert.Equal(t, []string{"x", "label"}, result.Columns[0].SuitableFor)

		assert.Equal(t, "Продажи", result.SelectedSheet)
		assert.Equal(t, []string{"Продажи", "Склад"}, result.AvailableSheets)
		cache.AssertExpectations(t)
	})

	t.Run("попадание в кэш: БД строк не трогается", func(t *testing.T) {
		svc, fileRepo, _, shareRepo, cache := newTestAnalyticsService()

		cached := &model.ColumnsResult{SelectedSheet: "Продажи"}
		shareRepo.On("HasAccess", ctx, mock.Anything, "file-1", "user-1").Return(true, nil).Once()
		fileRepo.On("GetByUUID", ctx, mock.Anything, "file-1").Return(completedFile(), nil).Once()
		cache.On("GetColumns", ctx, "file-1", "Продажи").Return(cached, nil).Once()

		result, err := svc.GetColumns(ctx, "file-1", "user-1", "Продажи")

		require.NoError(t, err)
		assert.Same(t, cached, result)
		cache.AssertNotCalled(t, "SetColumns", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestGetSummary(t *testing.T) {
	ctx := context.Background()
	svc, fileRepo, rowRepo, shareRepo, _ := newTestAnalyticsService()

	shareRepo.On("HasAccess", ctx, mock.Anything, "file-1", "user-1").Return(true, nil).Once()
	fileRepo.On("GetByUUID", ctx, mock.Anything, "file-1").Return(completedFile(), nil).Once()
	rowRepo.On("ListByFile", ctx, mock.Anything, "file-1", "Продажи", 3, 0).
		Return(analyticsRows(), 3, nil).Once()

	result, err := svc.GetSummary(ctx, "file-1", "user-1", "")

	require.NoError(t, err)
	assert.Equal(t, 3, result.TotalRecords)

	sales, ok := result.Summary["sales"]
	require.True(t, ok)
	require.NotNil(t, sales.Numeric)
	assert.Equal(t, 2.0, sales.Numeric.Min)
	assert.Equal(t, 5.0, sales.Numeric.Max)
	assert.Equal(t, 10.0, sales.Numeric.Total)
	assert.Equal(t, 3, sales.Numeric.Count)
	assert.InDelta(t, 10.0/3.0, sales.Numeric.Avg, 1e-9)

	city, ok := result.Summary["city"]
	require.True(t, ok)
	require.NotNil(t, city.Strings)
	assert.Equal(t, 2, city.Strings.UniqueCount)
	assert.Equal(t, 3, city.Strings.TotalCount)
	assert.Equal(t, []string{"A", "B"}, city.Strings.SampleValues)
}
