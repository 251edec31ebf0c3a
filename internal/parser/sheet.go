package parser

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"spreadsheet-analytics-server/internal/model"
)

// previewRows : сколько первых строк данных попадает в превью листа
const previewRows = 5

// ParsedSheet : результат разбора одного листа
type ParsedSheet struct {
	Summary model.SheetSummary
	Rows    []model.RowData
	IsEmpty bool
	Error   string
}

// ParseSheet : превращает сырую таблицу листа в заголовки, типизированные
// строки и превью. Строка 0 считается строкой заголовков; полностью пустые
// строки данных отбрасываются. Ошибка разбора одного листа не прерывает
// обработку книги: лист помечается пустым с текстом ошибки.
func ParseSheet(name string, grid [][]string) (sheet *ParsedSheet) {
	defer func() {
		if r := recover(); r != nil {
			sheet = erroredSheet(name, fmt.Sprintf("%v", r))
		}
	}()

	if len(grid) == 0 {
		return emptySheet(name)
	}

	headers := deriveHeaders(grid[0])

	dataRows := make([][]string, 0, len(grid)-1)
	for _, row := range grid[1:] {
		if !isBlankRow(row) {
			dataRows = append(dataRows, row)
		}
	}

	if len(dataRows) == 0 {
		return emptySheet(name)
	}

	dataTypes := inferDataTypes(dataRows, headers)

	preview := make([][]string, 0, previewRows)
	for _, row := range dataRows {
		if len(preview) == previewRows {
			break
		}
		previewRow := make([]string, len(headers))
		for i := range headers {
			previewRow[i] = cellAt(row, i)
		}
		preview = append(preview, previewRow)
	}

	rows := make([]model.RowData, 0, len(dataRows))
	for _, row := range dataRows {
		data := make(model.RowData, len(headers))
		for i, header := range headers {
			data[header] = convertCell(cellAt(row, i), dataTypes[i])
		}
		rows = append(rows, data)
	}

	return &ParsedSheet{
		Summary: model.SheetSummary{
			Name:        name,
			RowCount:    len(dataRows),
			ColumnCount: len(headers),
			Headers:     headers,
			DataPreview: preview,
			DataTypes:   dataTypes,
		},
		Rows: rows,
	}
}

// deriveHeaders : обрезает пробелы в ячейках заголовка; пустой заголовок
// заменяется синтетическим именем Column_<позиция> по собственному индексу
// ячейки, поэтому несколько пустых заголовков получают разные имена
func deriveHeaders(headerRow []string) []string {
	headers := make([]string, len(headerRow))
	for i, cell := range headerRow {
		header := strings.TrimSpace(cell)
		if header == "" {
			header = fmt.Sprintf("Column_%d", i+1)
		}
		headers[i] = header
	}
	return headers
}

// inferDataTypes : определяет тип каждой колонки по непустым значениям,
// не более maxTypeSamples значений на колонку
func inferDataTypes(dataRows [][]string, headers []string) []model.ColumnType {
	dataTypes := make([]model.ColumnType, len(headers))

	for colIndex := range headers {
		samples := make([]string, 0, maxTypeSamples)
		for _, row := range dataRows {
			value := strings.TrimSpace(cellAt(row, colIndex))
			if value == "" {
				continue
			}
			samples = append(samples, value)
			if len(samples) == maxTypeSamples {
				break
			}
		}
		dataTypes[colIndex] = ClassifyColumn(samples)
	}

	return dataTypes
}

// convertCell : приводит сырую ячейку к типу колонки; при неудаче
// преобразования значение остаётся строкой
func convertCell(raw string, columnType model.ColumnType) model.CellValue {
	value := strings.TrimSpace(raw)
	if value == "" {
		return model.StringCell("")
	}

	switch columnType {
	case model.ColumnNumber:
		if number, err := strconv.ParseFloat(value, 64); err == nil && !math.IsInf(number, 0) && !math.IsNaN(number) {
			return model.NumberCell(number)
		}
	case model.ColumnBoolean:
		if truthy, ok := booleanLiterals[strings.ToLower(value)]; ok {
			return model.BoolCell(truthy)
		}
	case model.ColumnDate:
		if t, ok := parseDate(value); ok {
			return model.DateCell(t)
		}
	}

	return model.StringCell(raw)
}

// ValidateRow : проверяет соответствие значений строки типам колонок.
// Несовпадения не блокируют сохранение, строка помечается warning.
func ValidateRow(data model.RowData, headers []string, dataTypes []model.ColumnType) (string, model.ValidationIssues) {
	var issues model.ValidationIssues

	for i, header := range headers {
		if i >= len(dataTypes) {
			break
		}
		value, ok := data[header]
		if !ok || value.IsEmpty() {
			continue
		}

		var valid bool
		switch dataTypes[i] {
		case model.ColumnNumber:
			valid = value.Kind == model.CellNumber
		case model.ColumnDate:
			valid = value.Kind == model.CellDate
		case model.ColumnBoolean:
			valid = value.Kind == model.CellBoolean
		default:
			valid = true
		}

		if !valid {
			issues = append(issues, model.ValidationIssue{
				Column:  header,
				Message: fmt.Sprintf("ожидался тип %s, получено %q", dataTypes[i], value.String()),
				Type:    "type_mismatch",
			})
		}
	}

	if len(issues) == 0 {
		return model.RowValid, nil
	}
	return model.RowWarning, issues
}

// SearchableText : строит поисковый текст строки — значения ячеек в нижнем
// регистре через пробел, в порядке заголовков
func SearchableText(data model.RowData, headers []string) string {
	parts := make([]string, 0, len(headers))
	for _, header := range headers {
		if value, ok := data[header]; ok && !value.IsEmpty() {
			parts = append(parts, value.String())
		}
	}
	return strings.ToLower(strings.Join(parts, " "))
}

func emptySheet(name string) *ParsedSheet {
	return &ParsedSheet{
		Summary: model.SheetSummary{
			Name:        name,
			Headers:     []string{},
			DataPreview: [][]string{},
			DataTypes:   []model.ColumnType{},
		},
		IsEmpty: true,
	}
}

func erroredSheet(name string, message string) *ParsedSheet {
	sheet := emptySheet(name)
	sheet.Error = message
	return sheet
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func cellAt(row []string, index int) string {
	if index < len(row) {
		return row[index]
	}
	return ""
}
