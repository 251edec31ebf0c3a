package ports

import (
	"context"

	"spreadsheet-analytics-server/internal/model"
)

// AnalyticsService : подготовка данных для графиков и сводок
type AnalyticsService interface {
	GetChartData(ctx context.Context, query model.ChartQuery) (*model.ChartResult, error)
	GetColumns(ctx context.Context, fileUUID string, userUUID string, sheetName string) (*model.ColumnsResult, error)
	GetSummary(ctx context.Context, fileUUID string, userUUID string, sheetName string) (*model.SummaryResult, error)
}
