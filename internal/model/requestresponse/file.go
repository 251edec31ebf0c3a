package requestresponse

import "spreadsheet-analytics-server/internal/model"

// UploadFileResponse : ответ на загрузку файла; обработка идёт в фоне,
// статус на этот момент processing
type UploadFileResponse struct {
	Data *model.UploadedFile `json:"data"`
}

// ListFilesResponse : страница списка файлов пользователя
type ListFilesResponse struct {
	Data struct {
		Files []model.UploadedFile `json:"files"`
	} `json:"data"`
	Total int `json:"total"`
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// GetFileResponse : файл с правами доступа и ссылкой на оригинал
type GetFileResponse struct {
	Data struct {
		File        *model.UploadedFile `json:"file"`
		Shares      []model.FileShare   `json:"shares,omitempty"`
		DownloadURL string              `json:"download_url,omitempty"`
	} `json:"data"`
}

// FileRowsResponse : страница строк данных файла
type FileRowsResponse struct {
	Data  []model.DataRow `json:"data"`
	Total int             `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}

// UpdateFileRequest : частичное обновление метаданных; nil-поля не трогаются
type UpdateFileRequest struct {
	Description *string  `json:"description,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	IsPublic    *bool    `json:"is_public,omitempty" example:"false"`
}

// ShareFileRequest : предоставление доступа другому пользователю
type ShareFileRequest struct {
	TargetUserUUID string `json:"target_user_uuid" example:"123e4567-e89b-12d3-a456-426614174000"`
	Permission     string `json:"permission" example:"read"`
}

// ResponseMessage : универсальный ответ-подтверждение
type ResponseMessage struct {
	Response map[string]interface{} `json:"response"`
}
