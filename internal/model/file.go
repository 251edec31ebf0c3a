package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lib/pq"
)

// Статусы жизненного цикла файла.
// Допустимые переходы: uploading -> processing -> completed | error.
const (
	FileStatusUploading  = "uploading"
	FileStatusProcessing = "processing"
	FileStatusCompleted  = "completed"
	FileStatusError      = "error"
)

// ColumnType : тип данных колонки, определённый классификатором
type ColumnType string

const (
	ColumnString  ColumnType = "string"
	ColumnNumber  ColumnType = "number"
	ColumnDate    ColumnType = "date"
	ColumnBoolean ColumnType = "boolean"
)

// UploadedFile : запись о загруженной таблице (xlsx/xls/csv)
type UploadedFile struct {
	UUID            string         `db:"uuid" json:"uuid"`
	OwnerUUID       string         `db:"owner_uuid" json:"owner_uuid"`
	Filename        string         `db:"filename" json:"filename"`
	OriginalName    string         `db:"original_name" json:"original_name"`
	StoragePath     string         `db:"storage_path" json:"storage_path"`
	SizeBytes       int64          `db:"size_bytes" json:"size_bytes"`
	MimeType        string         `db:"mime_type" json:"mime_type"`
	Status          string         `db:"status" json:"status"`
	ProcessingError *string        `db:"processing_error" json:"processing_error,omitempty"`
	TotalRows       int            `db:"total_rows" json:"total_rows"`
	TotalColumns    int            `db:"total_columns" json:"total_columns"`
	Sheets          SheetSummaries `db:"sheets" json:"sheets"`
	Description     string         `db:"description" json:"description"`
	Tags            pq.StringArray `db:"tags" json:"tags"`
	IsPublic        bool           `db:"is_public" json:"is_public"`
	ProcessingMs    int64          `db:"processing_ms" json:"processing_ms"`
	UploadDate      time.Time      `db:"upload_date" json:"upload_date"`
	LastAccessed    time.Time      `db:"last_accessed" json:"last_accessed"`
	CreatedAt       time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time      `db:"updated_at" json:"updated_at"`
}

// SheetSummary : метаданные одного листа; создаётся парсером один раз,
// после записи не изменяется
type SheetSummary struct {
	Name        string       `json:"name"`
	RowCount    int          `json:"rowCount"`
	ColumnCount int          `json:"columnCount"`
	Headers     []string     `json:"headers"`
	DataPreview [][]string   `json:"dataPreview"`
	DataTypes   []ColumnType `json:"dataTypes"`
}

// SheetSummaries хранится в колонке sheets как jsonb
type SheetSummaries []SheetSummary

func (s SheetSummaries) Value() (driver.Value, error) {
	return json.Marshal(s)
}

func (s *SheetSummaries) Scan(src interface{}) error {
	switch data := src.(type) {
	case []byte:
		return json.Unmarshal(data, s)
	case string:
		return json.Unmarshal([]byte(data), s)
	case nil:
		*s = nil
		return nil
	default:
		return fmt.Errorf("неподдерживаемый тип для SheetSummaries: %T", src)
	}
}

// FileShare : право доступа к чужому файлу
type FileShare struct {
	FileUUID       string    `db:"file_uuid" json:"file_uuid"`
	OwnerUUID      string    `db:"owner_uuid" json:"owner_uuid"`
	TargetUserUUID string    `db:"target_user_uuid" json:"target_user_uuid"`
	Permission     string    `db:"permission" json:"permission"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

const (
	PermissionRead  = "read"
	PermissionWrite = "write"
	PermissionAdmin = "admin"
)
