package parser

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"spreadsheet-analytics-server/internal/model"
)

func TestParseFile_UnsupportedFormat(t *testing.T) {
	p := NewWorkbookParser()

	_, err := p.ParseFile("/tmp/ignored", "report.pdf")

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestParseFile_CSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.csv")
	require.NoError(t, os.WriteFile(path, []byte("a,b\n1,10\n2,20\n3,30\n"), 0o644))

	p := NewWorkbookParser()
	result, err := p.ParseFile(path, "data.csv")

	require.NoError(t, err)
	require.Equal(t, 1, result.TotalSheets)

	sheet := result.Sheets[0]
	assert.Equal(t, "Sheet1", sheet.Summary.Name)
	assert.Equal(t, []string{"a", "b"}, sheet.Summary.Headers)
	assert.Equal(t, []model.ColumnType{model.ColumnNumber, model.ColumnNumber}, sheet.Summary.DataTypes)
	assert.Equal(t, 3, sheet.Summary.RowCount)
	assert.Equal(t, 3, result.TotalRows())
	assert.Equal(t, 2, result.TotalColumns())
}

func TestParseFile_XLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.xlsx")

	book := excelize.NewFile()
	require.NoError(t, book.SetSheetRow("Sheet1", "A1", &[]interface{}{"a", "b"}))
	require.NoError(t, book.SetSheetRow("Sheet1", "A2", &[]interface{}{1, "x"}))
	require.NoError(t, book.SetSheetRow("Sheet1", "A3", &[]interface{}{2, "y"}))
	require.NoError(t, book.SetSheetRow("Sheet1", "A4", &[]interface{}{3, "z"}))
	require.NoError(t, book.SaveAs(path))
	require.NoError(t, book.Close())

	p := NewWorkbookParser()
	result, err := p.ParseFile(path, "data.xlsx")

	require.NoError(t, err)
	require.Equal(t, 1, result.TotalSheets)

	sheet := result.Sheets[0]
	assert.Equal(t, []string{"a", "b"}, sheet.Summary.Headers)
	assert.Equal(t, []model.ColumnType{model.ColumnNumber, model.ColumnString}, sheet.Summary.DataTypes)
	assert.Equal(t, 3, sheet.Summary.RowCount)
	assert.False(t, sheet.IsEmpty)
}

// Лист без данных не попадает в сохранение, но порядок листов сохраняется
func TestParseFile_EmptySecondSheet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.xlsx")

	book := excelize.NewFile()
	require.NoError(t, book.SetSheetRow("Sheet1", "A1", &[]interface{}{"a"}))
	require.NoError(t, book.SetSheetRow("Sheet1", "A2", &[]interface{}{"v"}))
	_, err := book.NewSheet("Empty")
	require.NoError(t, err)
	require.NoError(t, book.SaveAs(path))
	require.NoError(t, book.Close())

	p := NewWorkbookParser()
	result, err := p.ParseFile(path, "data.xlsx")

	require.NoError(t, err)
	require.Equal(t, 2, result.TotalSheets)
	assert.Equal(t, "Sheet1", result.Sheets[0].Summary.Name)
	assert.False(t, result.Sheets[0].IsEmpty)
	assert.Equal(t, "Empty", result.Sheets[1].Summary.Name)
	assert.True(t, result.Sheets[1].IsEmpty)
}

func TestParseFile_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.xlsx")
	require.NoError(t, os.WriteFile(path, []byte("это не zip-архив"), 0o644))

	p := NewWorkbookParser()
	_, err := p.ParseFile(path, "broken.xlsx")

	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUnsupportedFormat)
}
