package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"spreadsheet-analytics-server/internal/model"
)

func TestClassifyColumn_AllCases(t *testing.T) {
	tests := []struct {
		name     string
		values   []string
		expected model.ColumnType
	}{
		{"числа", []string{"1", "2", "3"}, model.ColumnNumber},
		{"булевы литералы", []string{"true", "false", "yes"}, model.ColumnBoolean},
		{"даты ISO", []string{"2024-01-01", "2024-02-01"}, model.ColumnDate},
		{"строки", []string{"apple", "banana"}, model.ColumnString},
		{"пустая выборка", []string{}, model.ColumnString},
		{"nil выборка", nil, model.ColumnString},
		{"пробельные значения пропускаются", []string{"  ", "", "apple"}, model.ColumnString},
		{"большинство решает", []string{"1.5", "2.5", "apple"}, model.ColumnNumber},
		{"ничья string против number", []string{"1.5", "apple"}, model.ColumnString},
		{"ничья number против date", []string{"2024-01-01", "1.5"}, model.ColumnNumber},
		{"ничья date против boolean", []string{"2024-01-01", "yes"}, model.ColumnDate},
		{"единица считается булевой", []string{"1", "1", "2"}, model.ColumnBoolean},
		{"американский формат даты", []string{"01/15/2024", "02/20/2024"}, model.ColumnDate},
		{"невалидная дата это строка", []string{"13/45/2024", "99/99/9999"}, model.ColumnString},
		{"дата с дефисами", []string{"1-2-06", "3-4-2006"}, model.ColumnDate},
		{"смешанный регистр булевых", []string{"TRUE", "No", "Y"}, model.ColumnBoolean},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ClassifyColumn(tt.values))
		})
	}
}

func TestClassifyColumn_Deterministic(t *testing.T) {
	values := []string{"1", "apple", "2024-01-01", "true", "2.5", "banana"}

	first := ClassifyColumn(values)
	second := ClassifyColumn(values)

	assert.Equal(t, first, second)
}

func TestParseDate_Shapes(t *testing.T) {
	valid := []string{"2024-01-01", "01/15/2024", "01-15-2024", "1/2/06", "1-2-2006"}
	for _, value := range valid {
		_, ok := parseDate(value)
		assert.True(t, ok, value)
	}

	invalid := []string{"2024-13-01", "99/99/9999", "not-a-date", "2024/01/01", ""}
	for _, value := range invalid {
		_, ok := parseDate(value)
		assert.False(t, ok, value)
	}
}
