package parser

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"

	"spreadsheet-analytics-server/internal/model"
)

// SupportedFormats : допустимые расширения загружаемых таблиц
var SupportedFormats = []string{".xlsx", ".xls", ".csv"}

// IsSupportedFormat : проверяет расширение (с точкой, без учёта регистра)
func IsSupportedFormat(ext string) bool {
	ext = strings.ToLower(ext)
	for _, supported := range SupportedFormats {
		if ext == supported {
			return true
		}
	}
	return false
}

// ParseResult : результат разбора всей книги
type ParseResult struct {
	Sheets      []*ParsedSheet
	TotalSheets int
}

// TotalRows : суммарное число строк данных по всем листам
func (r *ParseResult) TotalRows() int {
	total := 0
	for _, sheet := range r.Sheets {
		total += sheet.Summary.RowCount
	}
	return total
}

// TotalColumns : максимальное число колонок среди листов
func (r *ParseResult) TotalColumns() int {
	max := 0
	for _, sheet := range r.Sheets {
		if sheet.Summary.ColumnCount > max {
			max = sheet.Summary.ColumnCount
		}
	}
	return max
}

// Summaries : метаданные листов в порядке следования в книге
func (r *ParseResult) Summaries() model.SheetSummaries {
	summaries := make(model.SheetSummaries, 0, len(r.Sheets))
	for _, sheet := range r.Sheets {
		summaries = append(summaries, sheet.Summary)
	}
	return summaries
}

// rawSheet : сырая таблица одного листа; Err заполняется, когда лист
// не удалось прочитать (такой лист изолируется, книга разбирается дальше)
type rawSheet struct {
	Name string
	Grid [][]string
	Err  error
}

// WorkbookParser : открывает файл таблицы и разбирает каждый лист
type WorkbookParser struct{}

func NewWorkbookParser() *WorkbookParser {
	return &WorkbookParser{}
}

// ParseFile : разбирает файл по пути path. Расширение берётся из
// оригинального имени файла, порядок листов книги сохраняется.
func (p *WorkbookParser) ParseFile(path string, originalName string) (*ParseResult, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	if !IsSupportedFormat(ext) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}

	var sheets []rawSheet
	var err error

	switch ext {
	case ".csv":
		sheets, err = readCSV(path)
	case ".xls":
		sheets, err = readXLS(path)
	default:
		sheets, err = readXLSX(path)
	}
	if err != nil {
		return nil, fmt.Errorf("не удалось разобрать файл %s: %w", originalName, err)
	}

	result := &ParseResult{TotalSheets: len(sheets)}
	for _, raw := range sheets {
		if raw.Err != nil {
			result.Sheets = append(result.Sheets, erroredSheet(raw.Name, raw.Err.Error()))
			continue
		}
		result.Sheets = append(result.Sheets, ParseSheet(raw.Name, raw.Grid))
	}

	return result, nil
}

func readXLSX(path string) ([]rawSheet, error) {
	file, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var sheets []rawSheet
	for _, sheetName := range file.GetSheetList() {
		grid, err := file.GetRows(sheetName)
		if err != nil {
			sheets = append(sheets, rawSheet{Name: sheetName, Err: err})
			continue
		}
		sheets = append(sheets, rawSheet{Name: sheetName, Grid: grid})
	}

	return sheets, nil
}

func readXLS(path string) ([]rawSheet, error) {
	workbook, err := xls.Open(path, "utf-8")
	if err != nil {
		return nil, err
	}

	var sheets []rawSheet
	for i := 0; i < workbook.NumSheets(); i++ {
		sheet := workbook.GetSheet(i)
		if sheet == nil {
			continue
		}

		grid := make([][]string, 0, int(sheet.MaxRow)+1)
		for rowIndex := 0; rowIndex <= int(sheet.MaxRow); rowIndex++ {
			row := sheet.Row(rowIndex)
			if row == nil {
				grid = append(grid, nil)
				continue
			}
			cells := make([]string, row.LastCol()+1)
			for colIndex := 0; colIndex <= row.LastCol(); colIndex++ {
				cells[colIndex] = row.Col(colIndex)
			}
			grid = append(grid, cells)
		}

		sheets = append(sheets, rawSheet{Name: sheet.Name, Grid: grid})
	}

	return sheets, nil
}

// readCSV : csv-файл представляется книгой с единственным листом Sheet1
func readCSV(path string) ([]rawSheet, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	grid, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}

	return []rawSheet{{Name: "Sheet1", Grid: grid}}, nil
}
