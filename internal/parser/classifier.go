package parser

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"spreadsheet-analytics-server/internal/model"
)

// maxTypeSamples : максимальный размер выборки значений колонки для
// определения типа; ограничивает стоимость на больших колонках
const maxTypeSamples = 100

var booleanLiterals = map[string]bool{
	"true": true, "yes": true, "y": true, "1": true,
	"false": false, "no": false, "n": false, "0": false,
}

// dateShapes : распознаваемые формы дат и layout-ы для проверки валидности
var dateShapes = []struct {
	re      *regexp.Regexp
	layouts []string
}{
	{regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`), []string{"2006-01-02"}},
	{regexp.MustCompile(`^\d{2}/\d{2}/\d{4}$`), []string{"01/02/2006"}},
	{regexp.MustCompile(`^\d{2}-\d{2}-\d{4}$`), []string{"01-02-2006"}},
	{regexp.MustCompile(`^\d{1,2}/\d{1,2}/\d{2,4}$`), []string{"1/2/2006", "1/2/06"}},
	{regexp.MustCompile(`^\d{1,2}-\d{1,2}-\d{2,4}$`), []string{"1-2-2006", "1-2-06"}},
}

// ClassifyColumn : определяет наиболее вероятный тип колонки по выборке
// значений. Для каждого значения проверки идут в строгом порядке:
// булев литерал -> конечное число -> дата -> строка. Пустые значения
// не учитываются. Побеждает тип со строго наибольшим счётчиком, при
// равенстве счётчиков действует явный порядок string > number > date > boolean.
// Полностью пустая колонка считается string.
func ClassifyColumn(values []string) model.ColumnType {
	counts := make(map[model.ColumnType]int, 4)

	for _, raw := range values {
		value := strings.TrimSpace(raw)
		if value == "" {
			continue
		}

		switch {
		case isBooleanLiteral(value):
			counts[model.ColumnBoolean]++
		case isFiniteNumber(value):
			counts[model.ColumnNumber]++
		case isDateLiteral(value):
			counts[model.ColumnDate]++
		default:
			counts[model.ColumnString]++
		}
	}

	precedence := []model.ColumnType{
		model.ColumnString,
		model.ColumnNumber,
		model.ColumnDate,
		model.ColumnBoolean,
	}

	best := model.ColumnString
	bestCount := 0
	for _, columnType := range precedence {
		if counts[columnType] > bestCount {
			best = columnType
			bestCount = counts[columnType]
		}
	}

	return best
}

func isBooleanLiteral(value string) bool {
	_, ok := booleanLiterals[strings.ToLower(value)]
	return ok
}

func isFiniteNumber(value string) bool {
	number, err := strconv.ParseFloat(value, 64)
	return err == nil && !math.IsInf(number, 0) && !math.IsNaN(number)
}

func isDateLiteral(value string) bool {
	_, ok := parseDate(value)
	return ok
}

// parseDate : проверяет, что строка имеет одну из поддерживаемых форм даты
// и действительно разбирается в валидную дату
func parseDate(value string) (time.Time, bool) {
	for _, shape := range dateShapes {
		if !shape.re.MatchString(value) {
			continue
		}
		for _, layout := range shape.layouts {
			if t, err := time.Parse(layout, value); err == nil {
				return t, true
			}
		}
	}
	return time.Time{}, false
}
