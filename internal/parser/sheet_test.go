package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spreadsheet-analytics-server/internal/model"
)

func TestParseSheet_HeaderSynthesis(t *testing.T) {
	grid := [][]string{
		{"Name", "", "Age"},
		{"Alice", "x", "30"},
	}

	sheet := ParseSheet("Sheet1", grid)

	assert.Equal(t, []string{"Name", "Column_2", "Age"}, sheet.Summary.Headers)
}

// Несколько пустых заголовков получают разные синтетические имена:
// позиция берётся из индекса ячейки, а не из поиска первого пустого значения
func TestParseSheet_DuplicateEmptyHeaders(t *testing.T) {
	grid := [][]string{
		{"", "Name", ""},
		{"1", "Alice", "2"},
	}

	sheet := ParseSheet("Sheet1", grid)

	assert.Equal(t, []string{"Column_1", "Name", "Column_3"}, sheet.Summary.Headers)
}

func TestParseSheet_BlankRowFiltering(t *testing.T) {
	grid := [][]string{
		{"a", "b"},
		{"1", "x"},
		{"", ""},
		{"  ", ""},
		{"2", "y"},
	}

	sheet := ParseSheet("Sheet1", grid)

	assert.Equal(t, 2, sheet.Summary.RowCount)
	assert.Len(t, sheet.Rows, 2)
}

func TestParseSheet_Invariant(t *testing.T) {
	grids := [][][]string{
		{{"a", "b", "c"}, {"1", "x", "true"}},
		{{"", "", ""}, {"1", "2", "3"}},
		{{"one"}, {"v1"}, {"v2"}},
	}

	for _, grid := range grids {
		sheet := ParseSheet("Sheet1", grid)
		require.False(t, sheet.IsEmpty)
		assert.Len(t, sheet.Summary.Headers, sheet.Summary.ColumnCount)
		assert.Len(t, sheet.Summary.DataTypes, sheet.Summary.ColumnCount)
	}
}

func TestParseSheet_Preview(t *testing.T) {
	grid := [][]string{{"a", "b"}}
	for i := 0; i < 10; i++ {
		grid = append(grid, []string{"1"}) // вторая ячейка отсутствует
	}

	sheet := ParseSheet("Sheet1", grid)

	require.Len(t, sheet.Summary.DataPreview, 5)
	for _, row := range sheet.Summary.DataPreview {
		assert.Equal(t, []string{"1", ""}, row)
	}
}

func TestParseSheet_Empty(t *testing.T) {
	headerOnly := ParseSheet("Sheet1", [][]string{{"a", "b"}})
	assert.True(t, headerOnly.IsEmpty)
	assert.Equal(t, 0, headerOnly.Summary.RowCount)
	assert.Equal(t, 0, headerOnly.Summary.ColumnCount)
	assert.Empty(t, headerOnly.Summary.Headers)

	empty := ParseSheet("Sheet1", nil)
	assert.True(t, empty.IsEmpty)
}

func TestParseSheet_TypedRows(t *testing.T) {
	grid := [][]string{
		{"n", "s", "b", "d"},
		{"1.5", "apple", "yes", "2024-01-01"},
		{"2", "banana", "no", "2024-02-01"},
	}

	sheet := ParseSheet("Sheet1", grid)

	require.Equal(t, []model.ColumnType{
		model.ColumnNumber, model.ColumnString, model.ColumnBoolean, model.ColumnDate,
	}, sheet.Summary.DataTypes)

	first := sheet.Rows[0]
	assert.Equal(t, model.NumberCell(1.5), first["n"])
	assert.Equal(t, model.StringCell("apple"), first["s"])
	assert.Equal(t, model.CellBoolean, first["b"].Kind)
	assert.True(t, first["b"].Bool)
	assert.Equal(t, model.CellDate, first["d"].Kind)
}

// Значение, не приводимое к типу колонки, остаётся строкой и даёт warning
func TestValidateRow_TypeMismatch(t *testing.T) {
	grid := [][]string{
		{"n"},
		{"1"}, {"2"}, {"3"}, {"oops"},
	}

	sheet := ParseSheet("Sheet1", grid)
	require.Equal(t, []model.ColumnType{model.ColumnNumber}, sheet.Summary.DataTypes)

	status, issues := ValidateRow(sheet.Rows[3], sheet.Summary.Headers, sheet.Summary.DataTypes)
	assert.Equal(t, model.RowWarning, status)
	require.Len(t, issues, 1)
	assert.Equal(t, "n", issues[0].Column)

	status, issues = ValidateRow(sheet.Rows[0], sheet.Summary.Headers, sheet.Summary.DataTypes)
	assert.Equal(t, model.RowValid, status)
	assert.Empty(t, issues)
}

func TestSearchableText(t *testing.T) {
	data := model.RowData{
		"a": model.StringCell("Hello"),
		"b": model.NumberCell(42),
		"c": model.StringCell(""),
	}

	text := SearchableText(data, []string{"a", "b", "c"})

	assert.Equal(t, "hello 42", text)
}
