package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/lib/pq"
)

// CellKind : дискриминатор значения ячейки
type CellKind string

const (
	CellString  CellKind = "string"
	CellNumber  CellKind = "number"
	CellBoolean CellKind = "boolean"
	CellDate    CellKind = "date"
	CellNull    CellKind = "null"
)

// CellValue : значение ячейки как tagged union.
// В jsonb сериализуется как {"t": <kind>, "v": <значение>}.
type CellValue struct {
	Kind CellKind
	Str  string
	Num  float64
	Bool bool
	Time time.Time
}

func StringCell(s string) CellValue  { return CellValue{Kind: CellString, Str: s} }
func NumberCell(f float64) CellValue { return CellValue{Kind: CellNumber, Num: f} }
func BoolCell(b bool) CellValue      { return CellValue{Kind: CellBoolean, Bool: b} }
func DateCell(t time.Time) CellValue { return CellValue{Kind: CellDate, Time: t} }
func NullCell() CellValue            { return CellValue{Kind: CellNull} }

// String : отображаемая форма значения
func (c CellValue) String() string {
	switch c.Kind {
	case CellNumber:
		return strconv.FormatFloat(c.Num, 'f', -1, 64)
	case CellBoolean:
		return strconv.FormatBool(c.Bool)
	case CellDate:
		return c.Time.Format("2006-01-02")
	case CellNull:
		return ""
	default:
		return c.Str
	}
}

// Float : числовая форма значения; для нечисловых значений возвращает 0, false.
// Строки вида "5 шт." считаются числом по ведущему числовому префиксу
func (c CellValue) Float() (float64, bool) {
	switch c.Kind {
	case CellNumber:
		return c.Num, true
	case CellString:
		return parseLeadingFloat(strings.TrimSpace(c.Str))
	default:
		return 0, false
	}
}

// parseLeadingFloat : парсит самый длинный числовой префикс строки
func parseLeadingFloat(s string) (float64, bool) {
	for end := len(s); end > 0; end-- {
		f, err := strconv.ParseFloat(s[:end], 64)
		if err != nil {
			continue
		}
		if math.IsInf(f, 0) || math.IsNaN(f) {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

// IsEmpty : пустое значение (null либо пустая строка)
func (c CellValue) IsEmpty() bool {
	return c.Kind == CellNull || (c.Kind == CellString && strings.TrimSpace(c.Str) == "")
}

// Raw : значение для JSON-ответов графиков
func (c CellValue) Raw() interface{} {
	switch c.Kind {
	case CellNumber:
		return c.Num
	case CellBoolean:
		return c.Bool
	case CellDate:
		return c.Time.Format("2006-01-02")
	case CellNull:
		return nil
	default:
		return c.Str
	}
}

type cellValueJSON struct {
	T CellKind        `json:"t"`
	V json.RawMessage `json:"v,omitempty"`
}

func (c CellValue) MarshalJSON() ([]byte, error) {
	var v interface{}
	switch c.Kind {
	case CellNumber:
		v = c.Num
	case CellBoolean:
		v = c.Bool
	case CellDate:
		v = c.Time.Format(time.RFC3339)
	case CellNull:
		return json.Marshal(cellValueJSON{T: CellNull})
	default:
		v = c.Str
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return json.Marshal(cellValueJSON{T: c.Kind, V: raw})
}

func (c *CellValue) UnmarshalJSON(data []byte) error {
	var aux cellValueJSON
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	switch aux.T {
	case CellNumber:
		c.Kind = CellNumber
		return json.Unmarshal(aux.V, &c.Num)
	case CellBoolean:
		c.Kind = CellBoolean
		return json.Unmarshal(aux.V, &c.Bool)
	case CellDate:
		c.Kind = CellDate
		var s string
		if err := json.Unmarshal(aux.V, &s); err != nil {
			return err
		}
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return err
		}
		c.Time = t
		return nil
	case CellNull:
		c.Kind = CellNull
		return nil
	default:
		c.Kind = CellString
		return json.Unmarshal(aux.V, &c.Str)
	}
}

// RowData : отображение заголовок -> значение ячейки; хранится как jsonb
type RowData map[string]CellValue

func (d RowData) Value() (driver.Value, error) {
	return json.Marshal(d)
}

func (d *RowData) Scan(src interface{}) error {
	switch data := src.(type) {
	case []byte:
		return json.Unmarshal(data, d)
	case string:
		return json.Unmarshal([]byte(data), d)
	case nil:
		*d = nil
		return nil
	default:
		return fmt.Errorf("неподдерживаемый тип для RowData: %T", src)
	}
}

// Статусы валидации строки
const (
	RowValid   = "valid"
	RowWarning = "warning"
	RowError   = "error"
)

// ValidationIssue : несоответствие значения типу колонки
type ValidationIssue struct {
	Column  string `json:"column"`
	Message string `json:"message"`
	Type    string `json:"type"`
}

type ValidationIssues []ValidationIssue

func (v ValidationIssues) Value() (driver.Value, error) {
	if len(v) == 0 {
		return []byte("[]"), nil
	}
	return json.Marshal(v)
}

func (v *ValidationIssues) Scan(src interface{}) error {
	switch data := src.(type) {
	case []byte:
		return json.Unmarshal(data, v)
	case string:
		return json.Unmarshal([]byte(data), v)
	case nil:
		*v = nil
		return nil
	default:
		return fmt.Errorf("неподдерживаемый тип для ValidationIssues: %T", src)
	}
}

// DataRow : одна строка данных одного листа; после вставки не изменяется.
// rowIndex уникален в пределах (file_uuid, sheet_name), нумерация с 1.
type DataRow struct {
	FileUUID         string           `db:"file_uuid" json:"file_uuid"`
	SheetName        string           `db:"sheet_name" json:"sheet_name"`
	RowIndex         int              `db:"row_index" json:"row_index"`
	Data             RowData          `db:"data" json:"data"`
	Headers          pq.StringArray   `db:"headers" json:"headers"`
	DataTypes        pq.StringArray   `db:"data_types" json:"data_types"`
	ValidationStatus string           `db:"validation_status" json:"validation_status"`
	ValidationErrors ValidationIssues `db:"validation_errors" json:"validation_errors,omitempty"`
	SearchableText   string           `db:"searchable_text" json:"-"`
	ProcessedAt      time.Time        `db:"processed_at" json:"processed_at"`
}
