package service

import (
	"context"
	"fmt"
	"log"

	"spreadsheet-analytics-server/config"
	"spreadsheet-analytics-server/internal/model"
	"spreadsheet-analytics-server/internal/ports"
	"spreadsheet-analytics-server/internal/util"
)

// maxChartRows : верхняя граница строк, попадающих в один график
const maxChartRows = 1000

// summarySampleValues : сколько уникальных значений показываем в сводке
const summarySampleValues = 10

type AnalyticsService struct {
	fileRepository  ports.FileRepository
	rowRepository   ports.RowRepository
	shareRepository ports.ShareRepository
	cacheRepository ports.CacheRepository
	database        *config.Database
}

func NewAnalyticsService(
	fileRepository ports.FileRepository,
	rowRepository ports.RowRepository,
	shareRepository ports.ShareRepository,
	cacheRepository ports.CacheRepository,
	database *config.Database,
) *AnalyticsService {
	return &AnalyticsService{
		fileRepository:  fileRepository,
		rowRepository:   rowRepository,
		shareRepository: shareRepository,
		cacheRepository: cacheRepository,
		database:        database,
	}
}

// GetChartData : строки выбранного листа, подготовленные под вид графика
func (s *AnalyticsService) GetChartData(ctx context.Context, query model.ChartQuery) (*model.ChartResult, error) {
	_, sheet, err := s.resolveSheet(ctx, query.FileUUID, query.UserUUID, query.SheetName)
	if err != nil {
		return nil, err
	}

	limit := query.Limit
	if limit <= 0 || limit > maxChartRows {
		limit = maxChartRows
	}

	rows, total, err := s.rowRepository.ListByFile(ctx, s.database.DB, query.FileUUID, sheet.Name, limit, 0)
	if err != nil {
		return nil, err
	}

	data := make([]model.RowData, len(rows))
	for i, row := range rows {
		data[i] = row.Data
	}

	return &model.ChartResult{
		Data:         PrepareChartData(data, query.ChartType, query.XAxis, query.YAxis, sheet.Headers),
		Headers:      sheet.Headers,
		ChartType:    query.ChartType,
		XAxis:        query.XAxis,
		YAxis:        query.YAxis,
		TotalRecords: total,
	}, nil
}

// GetColumns : колонки листа для выбора осей; ответ кэшируется в Redis.
// Повторяющиеся заголовки получают порядковый номер в displayName.
func (s *AnalyticsService) GetColumns(ctx context.Context, fileUUID string, userUUID string, sheetName string) (*model.ColumnsResult, error) {
	file, sheet, err := s.resolveSheet(ctx, fileUUID, userUUID, sheetName)
	if err != nil {
		return nil, err
	}

	cached, err := s.cacheRepository.GetColumns(ctx, fileUUID, sheet.Name)
	if err != nil {
		log.Printf("[Analytics] ошибка чтения кэша колонок: %v", err)
	}
	if cached != nil {
		log.Printf("[Analytics] колонки файла %s взяты из кэша Redis", fileUUID)
		return cached, nil
	}

	columns := make([]model.ColumnInfo, 0, len(sheet.Headers))
	for i, header := range sheet.Headers {
		duplicates := 0
		for _, prev := range sheet.Headers[:i] {
			if prev == header {
				duplicates++
			}
		}

		displayName := header
		if duplicates > 0 {
			displayName = fmt.Sprintf("%s (%d)", header, duplicates+1)
		}

		columnType := model.ColumnString
		if i < len(sheet.DataTypes) {
			columnType = sheet.DataTypes[i]
		}

		columns = append(columns, model.ColumnInfo{
			Name:          header,
			DisplayName:   displayName,
			Type:          columnType,
			SuitableFor:   suitableAxes(columnType),
			OriginalIndex: i,
		})
	}

	sheetNames := make([]string, 0, len(file.Sheets))
	for _, summary := range file.Sheets {
		sheetNames = append(sheetNames, summary.Name)
	}

	result := &model.ColumnsResult{
		Columns:         columns,
		SelectedSheet:   sheet.Name,
		AvailableSheets: sheetNames,
	}

	if err := s.cacheRepository.SetColumns(ctx, fileUUID, sheet.Name, result); err != nil {
		log.Printf("[Analytics] ошибка кэширования колонок: %v", err)
	}

	return result, nil
}

// GetSummary : сводная статистика листа: числовые колонки считаются по
// min/max/avg/count/total, строковые — по уникальным значениям
func (s *AnalyticsService) GetSummary(ctx context.Context, fileUUID string, userUUID string, sheetName string) (*model.SummaryResult, error) {
	_, sheet, err := s.resolveSheet(ctx, fileUUID, userUUID, sheetName)
	if err != nil {
		return nil, err
	}

	rows, total, err := s.rowRepository.ListByFile(ctx, s.database.DB, fileUUID, sheet.Name, sheet.RowCount, 0)
	if err != nil {
		return nil, err
	}

	dataTypes := make(map[string]model.ColumnType, len(sheet.Headers))
	for i, header := range sheet.Headers {
		if i < len(sheet.DataTypes) {
			dataTypes[header] = sheet.DataTypes[i]
		} else {
			dataTypes[header] = model.ColumnString
		}
	}

	summary := make(map[string]model.ColumnSummary)
	for _, header := range sheet.Headers {
		switch dataTypes[header] {
		case model.ColumnNumber:
			if numeric := summarizeNumeric(rows, header); numeric != nil {
				summary[header] = model.ColumnSummary{Numeric: numeric}
			}
		case model.ColumnString:
			if strings := summarizeStrings(rows, header); strings != nil {
				summary[header] = model.ColumnSummary{Strings: strings}
			}
		}
	}

	return &model.SummaryResult{
		Summary:      summary,
		TotalRecords: total,
		Headers:      sheet.Headers,
		DataTypes:    dataTypes,
	}, nil
}

// resolveSheet : проверка доступа + выбор листа (по имени или первый)
func (s *AnalyticsService) resolveSheet(ctx context.Context, fileUUID string, userUUID string, sheetName string) (*model.UploadedFile, *model.SheetSummary, error) {
	allowed, err := s.shareRepository.HasAccess(ctx, s.database.DB, fileUUID, userUUID)
	if err != nil {
		return nil, nil, err
	}
	if !allowed {
		return nil, nil, ErrAccessDenied
	}

	file, err := s.fileRepository.GetByUUID(ctx, s.database.DB, fileUUID)
	if err != nil {
		return nil, nil, util.LogError("[Analytics] файл не найден", err)
	}

	if file.Status != model.FileStatusCompleted {
		return nil, nil, fmt.Errorf("%w: файл ещё не обработан (статус %s)", ErrInvalidArgument, file.Status)
	}
	if len(file.Sheets) == 0 {
		return nil, nil, fmt.Errorf("%w: в файле нет листов с данными", ErrInvalidArgument)
	}

	if sheetName == "" {
		return file, &file.Sheets[0], nil
	}
	for i := range file.Sheets {
		if file.Sheets[i].Name == sheetName {
			return file, &file.Sheets[i], nil
		}
	}

	return nil, nil, fmt.Errorf("%w: лист %q не найден", ErrInvalidArgument, sheetName)
}

// suitableAxes : на какие оси графика годится колонка данного типа
func suitableAxes(columnType model.ColumnType) []string {
	switch columnType {
	case model.ColumnNumber:
		return []string{"x", "y", "z"}
	case model.ColumnString:
		return []string{"x", "label"}
	default: // date, boolean
		return []string{"x", "y"}
	}
}

func summarizeNumeric(rows []model.DataRow, header string) *model.NumericSummary {
	var numeric *model.NumericSummary

	for _, row := range rows {
		value, ok := row.Data[header].Float()
		if !ok {
			continue
		}

		if numeric == nil {
			numeric = &model.NumericSummary{Min: value, Max: value}
		}
		if value < numeric.Min {
			numeric.Min = value
		}
		if value > numeric.Max {
			numeric.Max = value
		}
		numeric.Total += value
		numeric.Count++
	}

	if numeric != nil {
		numeric.Avg = numeric.Total / float64(numeric.Count)
	}
	return numeric
}

func summarizeStrings(rows []model.DataRow, header string) *model.StringSummary {
	seen := make(map[string]bool)
	result := &model.StringSummary{}

	for _, row := range rows {
		cell, ok := row.Data[header]
		if !ok || cell.Kind != model.CellString || cell.Str == "" {
			continue
		}

		result.TotalCount++
		if !seen[cell.Str] {
			seen[cell.Str] = true
			if len(result.SampleValues) < summarySampleValues {
				result.SampleValues = append(result.SampleValues, cell.Str)
			}
		}
	}

	if result.TotalCount == 0 {
		return nil
	}
	result.UniqueCount = len(seen)
	return result
}
