package model

// FileUpload : принятый из запроса файл до валидации
type FileUpload struct {
	OwnerUUID    string
	OriginalName string
	MimeType     string
	Content      []byte
}

// FileFilter : параметры списка файлов пользователя
type FileFilter struct {
	OwnerUUID string
	Status    string
	Search    string
	SortBy    string
	SortOrder string
	Page      int
	Limit     int
}

func (f FileFilter) Offset() int {
	page := f.Page
	if page < 1 {
		page = 1
	}
	return (page - 1) * f.Limit
}

// FileMetadataUpdate : частичное обновление метаданных файла владельцем
type FileMetadataUpdate struct {
	Description *string
	Tags        []string
	IsPublic    *bool
}

// FileDetails : файл вместе с правами доступа и ссылкой на скачивание
type FileDetails struct {
	File        *UploadedFile
	Shares      []FileShare
	DownloadURL string
}

// ChartQuery : запрос данных графика
type ChartQuery struct {
	FileUUID  string
	UserUUID  string
	SheetName string
	ChartType string
	XAxis     string
	YAxis     string
	Limit     int
}

// ChartResult : подготовленные данные графика
type ChartResult struct {
	Data         []ChartPoint `json:"data"`
	Headers      []string     `json:"headers"`
	ChartType    string       `json:"chartType"`
	XAxis        string       `json:"xAxis"`
	YAxis        string       `json:"yAxis"`
	TotalRecords int          `json:"totalRecords"`
}

// ColumnsResult : колонки листа для выбора осей
type ColumnsResult struct {
	Columns         []ColumnInfo `json:"columns"`
	SelectedSheet   string       `json:"selectedSheet"`
	AvailableSheets []string     `json:"availableSheets"`
}

// SummaryResult : сводная статистика листа
type SummaryResult struct {
	Summary      map[string]ColumnSummary `json:"summary"`
	TotalRecords int                      `json:"totalRecords"`
	Headers      []string                 `json:"headers"`
	DataTypes    map[string]ColumnType    `json:"dataTypes"`
}
