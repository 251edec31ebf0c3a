package service

import (
	"spreadsheet-analytics-server/internal/model"
)

// PrepareChartData : превращает строки листа в точки графика.
// Чистая функция: при неизвестной или незаданной оси возвращает пустой срез.
func PrepareChartData(rows []model.RowData, chartType string, xColumn string, yColumn string, headers []string) []model.ChartPoint {
	if xColumn == "" || yColumn == "" {
		return []model.ChartPoint{}
	}
	if indexOf(headers, xColumn) < 0 || indexOf(headers, yColumn) < 0 {
		return []model.ChartPoint{}
	}

	switch chartType {
	case model.ChartPie, model.ChartDoughnut:
		return preparePieData(rows, xColumn, yColumn)
	case model.Chart3DScatter:
		// третья колонка листа задаёт глубину; при её отсутствии берём ось Y
		zColumn := yColumn
		if len(headers) > 2 {
			zColumn = headers[2]
		}
		return prepare3DScatterData(rows, xColumn, yColumn, zColumn)
	case model.Chart3DBar:
		points := make([]model.ChartPoint, 0, len(rows))
		for _, row := range rows {
			x := row[xColumn]
			points = append(points, model.ChartPoint{
				X:     x.Raw(),
				Y:     row[yColumn].Raw(),
				Z:     0.0,
				Label: x.String(),
			})
		}
		return points
	default: // line, bar, scatter и всё прочее
		points := make([]model.ChartPoint, 0, len(rows))
		for _, row := range rows {
			x := row[xColumn]
			points = append(points, model.ChartPoint{
				X:     x.Raw(),
				Y:     row[yColumn].Raw(),
				Label: x.String(),
			})
		}
		return points
	}
}

// preparePieData : группирует по строковой форме X и суммирует Y;
// порядок секторов — порядок первого появления ключа
func preparePieData(rows []model.RowData, xColumn string, yColumn string) []model.ChartPoint {
	sums := make(map[string]float64)
	order := make([]string, 0)

	for _, row := range rows {
		key := row[xColumn].String()
		if key == "" {
			key = "Unknown"
		}

		value, ok := row[yColumn].Float()
		if !ok {
			value = 0
		}

		if _, seen := sums[key]; !seen {
			order = append(order, key)
		}
		sums[key] += value
	}

	points := make([]model.ChartPoint, 0, len(order))
	for _, key := range order {
		total := sums[key]
		points = append(points, model.ChartPoint{Label: key, Value: &total})
	}
	return points
}

func prepare3DScatterData(rows []model.RowData, xColumn string, yColumn string, zColumn string) []model.ChartPoint {
	points := make([]model.ChartPoint, 0, len(rows))
	for _, row := range rows {
		x := row[xColumn]

		var z interface{} = 0.0
		if cell, ok := row[zColumn]; ok && !cell.IsEmpty() {
			z = cell.Raw()
		}

		points = append(points, model.ChartPoint{
			X:     x.Raw(),
			Y:     row[yColumn].Raw(),
			Z:     z,
			Label: x.String(),
		})
	}
	return points
}

func indexOf(values []string, target string) int {
	for i, v := range values {
		if v == target {
			return i
		}
	}
	return -1
}
