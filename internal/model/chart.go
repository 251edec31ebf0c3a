package model

// Виды графиков, поддерживаемые подготовкой данных
const (
	ChartLine      = "line"
	ChartBar       = "bar"
	ChartScatter   = "scatter"
	ChartPie       = "pie"
	ChartDoughnut  = "doughnut"
	Chart3DScatter = "3d-scatter"
	Chart3DBar     = "3d-bar"
)

// ChartPoint : точка графика.
// Для line/bar/scatter заполняются X, Y и Label;
// для 3d-вариантов дополнительно Z; для pie/doughnut — Label и Value.
type ChartPoint struct {
	X     interface{} `json:"x,omitempty"`
	Y     interface{} `json:"y,omitempty"`
	Z     interface{} `json:"z,omitempty"`
	Label string      `json:"label"`
	Value *float64    `json:"value,omitempty"`
}

// ColumnInfo : колонка для выбора осей на UI
type ColumnInfo struct {
	Name          string     `json:"name"`
	DisplayName   string     `json:"displayName"`
	Type          ColumnType `json:"type"`
	SuitableFor   []string   `json:"suitableFor"`
	OriginalIndex int        `json:"originalIndex"`
}

// NumericSummary : статистика числовой колонки
type NumericSummary struct {
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Avg   float64 `json:"avg"`
	Count int     `json:"count"`
	Total float64 `json:"total"`
}

// StringSummary : статистика строковой колонки
type StringSummary struct {
	UniqueCount  int      `json:"uniqueCount"`
	TotalCount   int      `json:"totalCount"`
	SampleValues []string `json:"sampleValues"`
}

// ColumnSummary : сводка по одной колонке (заполняется одно из полей)
type ColumnSummary struct {
	Numeric *NumericSummary `json:"numeric,omitempty"`
	Strings *StringSummary  `json:"strings,omitempty"`
}
