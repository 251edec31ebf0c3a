package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"spreadsheet-analytics-server/config"
	"spreadsheet-analytics-server/internal/model"
	"spreadsheet-analytics-server/internal/model/requestresponse"
	"spreadsheet-analytics-server/internal/ports"
	"spreadsheet-analytics-server/internal/security"
	"spreadsheet-analytics-server/internal/service"
	"spreadsheet-analytics-server/internal/util"
)

type FileHandler struct {
	ports.FileService
	uploadConfig *config.UploadConfig
}

func NewFileHandler(fileService ports.FileService, uploadConfig *config.UploadConfig) *FileHandler {
	return &FileHandler{fileService, uploadConfig}
}

// UploadFile godoc
// @Summary Загрузка таблицы
// @Description Принимает ровно один файл xlsx/xls/csv, сохраняет его и ставит разбор в очередь.
// Ответ возвращается сразу, обработка идёт в фоне.
// @Tags Files
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Файл таблицы (xlsx, xls или csv)"
// @Param description formData string false "Описание файла"
// @Param Authorization header string true "Bearer токен" default(Bearer <access_token>)
// @Success 201 {object} requestresponse.UploadFileResponse "Файл принят, статус processing"
// @Failure 400 {object} requestresponse.ErrorResponse "Нет файла, несколько файлов или неподдерживаемый формат"
// @Failure 401 {object} requestresponse.ErrorResponse "Пользователь не авторизован"
// @Failure 413 {object} requestresponse.ErrorResponse "Файл превышает допустимый размер"
// @Failure 500 {object} requestresponse.ErrorResponse "Внутренняя ошибка сервера"
// @Router /api/files [post]
func (h *FileHandler) UploadFile(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	claims, ok := ctx.Value(security.UserContextKey).(*security.Claims)
	if ok == false || claims == nil {
		util.HandleError(w, "пользователь не авторизован", http.StatusUnauthorized)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.uploadConfig.MaxSizeBytes+1<<20)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		util.HandleError(w, "неверный формат запроса", http.StatusBadRequest)
		return
	}

	// принимаем строго один файл за запрос
	if files := r.MultipartForm.File["file"]; len(files) != 1 {
		util.HandleError(w, "ожидается ровно один файл в поле file", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		util.HandleError(w, "файл не найден в запросе", http.StatusBadRequest)
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		util.HandleError(w, "ошибка чтения файла", http.StatusInternalServerError)
		return
	}

	if int64(len(content)) > h.uploadConfig.MaxSizeBytes {
		util.HandleError(w, "файл превышает допустимый размер", http.StatusRequestEntityTooLarge)
		return
	}

	upload := &model.FileUpload{
		OwnerUUID:    claims.UserUUID,
		OriginalName: header.Filename,
		MimeType:     header.Header.Get("Content-Type"),
		Content:      content,
	}

	uploaded, err := h.FileService.UploadFile(ctx, upload)
	if err != nil {
		log.Println(err)
		switch {
		case errors.Is(err, service.ErrInvalidUpload):
			util.HandleError(w, "неподдерживаемый файл", http.StatusBadRequest)
		default:
			util.HandleError(w, "внутренняя ошибка сервера", http.StatusInternalServerError)
		}
		return
	}

	resp := requestresponse.UploadFileResponse{Data: uploaded}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(resp)
}

// ListFiles godoc
// @Summary Список файлов пользователя
// @Description Возвращает собственные и доступные по шарингу файлы с фильтрацией, поиском и пагинацией
// @Tags Files
// @Produce json
// @Param status query string false "Фильтр по статусу (uploading, processing, completed, error, all)"
// @Param search query string false "Поиск по имени, описанию и тегам"
// @Param sortBy query string false "Поле сортировки" default(uploadDate)
// @Param sortOrder query string false "Направление сортировки (asc/desc)" default(desc)
// @Param page query int false "Номер страницы" default(1) minimum(1)
// @Param limit query int false "Файлов на странице" default(20) minimum(1) maximum(100)
// @Param Authorization header string true "Bearer токен" default(Bearer <access_token>)
// @Success 200 {object} requestresponse.ListFilesResponse
// @Failure 401 {object} requestresponse.ErrorResponse
// @Failure 500 {object} requestresponse.ErrorResponse
// @Router /api/files [get]
func (h *FileHandler) ListFiles(w http.ResponseWriter, r *http.Request) {
	claims, ok := r.Context().Value(security.UserContextKey).(*security.Claims)
	if ok == false || claims == nil {
		util.HandleError(w, "пользователь не авторизован", http.StatusUnauthorized)
		return
	}

	query := r.URL.Query()
	filter := model.FileFilter{
		Status:    query.Get("status"),
		Search:    query.Get("search"),
		SortBy:    query.Get("sortBy"),
		SortOrder: query.Get("sortOrder"),
		Page:      parsePositiveInt(query.Get("page"), 1),
		Limit:     parsePositiveInt(query.Get("limit"), 20),
	}

	files, total, err := h.FileService.ListFiles(r.Context(), claims.UserUUID, filter)
	if err != nil {
		log.Println(err)
		util.HandleError(w, "внутренняя ошибка сервера", http.StatusInternalServerError)
		return
	}

	resp := requestresponse.ListFilesResponse{
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}
	resp.Data.Files = files

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// GetFile godoc
// @Summary Получение файла по ID
// @Description Возвращает метаданные файла, список выданных прав (для владельца)
// и pre-signed ссылку на оригинал для завершённых файлов
// @Tags Files
// @Produce json
// @Param file_id path string true "UUID файла"
// @Param Authorization header string true "Bearer токен" default(Bearer <access_token>)
// @Success 200 {object} requestresponse.GetFileResponse
// @Failure 400 {object} requestresponse.ErrorResponse
// @Failure 403 {object} requestresponse.ErrorResponse
// @Failure 404 {object} requestresponse.ErrorResponse
// @Failure 500 {object} requestresponse.ErrorResponse
// @Router /api/files/{file_id} [get]
func (h *FileHandler) GetFile(w http.ResponseWriter, r *http.Request) {
	fileUUID := chi.URLParam(r, "file_id")
	if fileUUID == "" {
		util.HandleError(w, "ID файла обязателен", http.StatusBadRequest)
		return
	}

	claims, ok := r.Context().Value(security.UserContextKey).(*security.Claims)
	if ok == false || claims == nil {
		util.HandleError(w, "пользователь не авторизован", http.StatusUnauthorized)
		return
	}

	details, err := h.FileService.GetFile(r.Context(), fileUUID, claims.UserUUID)
	if err != nil {
		log.Println(err)
		switch {
		case errors.Is(err, service.ErrAccessDenied):
			util.HandleError(w, "доступ запрещён", http.StatusForbidden)
		case errors.Is(err, sql.ErrNoRows):
			util.HandleError(w, "файл не найден", http.StatusNotFound)
		default:
			util.HandleError(w, "внутренняя ошибка сервера", http.StatusInternalServerError)
		}
		return
	}

	resp := requestresponse.GetFileResponse{}
	resp.Data.File = details.File
	resp.Data.Shares = details.Shares
	resp.Data.DownloadURL = details.DownloadURL

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// GetFileData godoc
// @Summary Строки данных файла
// @Description Возвращает страницу строк выбранного листа в исходном порядке
// @Tags Files
// @Produce json
// @Param file_id path string true "UUID файла"
// @Param sheet query string false "Имя листа (по умолчанию все листы)"
// @Param page query int false "Номер страницы" default(1) minimum(1)
// @Param limit query int false "Строк на странице" default(100) minimum(1) maximum(1000)
// @Param Authorization header string true "Bearer токен" default(Bearer <access_token>)
// @Success 200 {object} requestresponse.FileRowsResponse
// @Failure 403 {object} requestresponse.ErrorResponse
// @Failure 404 {object} requestresponse.ErrorResponse
// @Failure 500 {object} requestresponse.ErrorResponse
// @Router /api/files/{file_id}/data [get]
func (h *FileHandler) GetFileData(w http.ResponseWriter, r *http.Request) {
	fileUUID := chi.URLParam(r, "file_id")
	if fileUUID == "" {
		util.HandleError(w, "ID файла обязателен", http.StatusBadRequest)
		return
	}

	claims, ok := r.Context().Value(security.UserContextKey).(*security.Claims)
	if ok == false || claims == nil {
		util.HandleError(w, "пользователь не авторизован", http.StatusUnauthorized)
		return
	}

	query := r.URL.Query()
	page := parsePositiveInt(query.Get("page"), 1)
	limit := parsePositiveInt(query.Get("limit"), 100)

	rows, total, err := h.FileService.GetFileRows(r.Context(), fileUUID, claims.UserUUID, query.Get("sheet"), page, limit)
	if err != nil {
		log.Println(err)
		switch {
		case errors.Is(err, service.ErrAccessDenied):
			util.HandleError(w, "доступ запрещён", http.StatusForbidden)
		case errors.Is(err, sql.ErrNoRows):
			util.HandleError(w, "файл не найден", http.StatusNotFound)
		default:
			util.HandleError(w, "внутренняя ошибка сервера", http.StatusInternalServerError)
		}
		return
	}

	resp := requestresponse.FileRowsResponse{
		Data:  rows,
		Total: total,
		Page:  page,
		Limit: limit,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// UpdateFile godoc
// @Summary Обновление метаданных файла
// @Description Обновляет описание, теги и публичность. Доступно только владельцу.
// @Tags Files
// @Accept json
// @Produce json
// @Param file_id path string true "UUID файла"
// @Param body body requestresponse.UpdateFileRequest true "Тело запроса"
// @Param Authorization header string true "Bearer токен" default(Bearer <access_token>)
// @Success 200 {object} requestresponse.GetFileResponse
// @Failure 400 {object} requestresponse.ErrorResponse
// @Failure 403 {object} requestresponse.ErrorResponse
// @Failure 404 {object} requestresponse.ErrorResponse
// @Failure 500 {object} requestresponse.ErrorResponse
// @Router /api/files/{file_id} [put]
func (h *FileHandler) UpdateFile(w http.ResponseWriter, r *http.Request) {
	fileUUID := chi.URLParam(r, "file_id")
	if fileUUID == "" {
		util.HandleError(w, "ID файла обязателен", http.StatusBadRequest)
		return
	}

	claims, ok := r.Context().Value(security.UserContextKey).(*security.Claims)
	if ok == false || claims == nil {
		util.HandleError(w, "пользователь не авторизован", http.StatusUnauthorized)
		return
	}

	var req requestresponse.UpdateFileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		util.HandleError(w, "неверный формат запроса", http.StatusBadRequest)
		return
	}

	update := model.FileMetadataUpdate{
		Description: req.Description,
		Tags:        req.Tags,
		IsPublic:    req.IsPublic,
	}

	updated, err := h.FileService.UpdateFile(r.Context(), fileUUID, claims.UserUUID, update)
	if err != nil {
		log.Println(err)
		switch {
		case errors.Is(err, service.ErrAccessDenied):
			util.HandleError(w, "доступ запрещён", http.StatusForbidden)
		case errors.Is(err, sql.ErrNoRows):
			util.HandleError(w, "файл не найден", http.StatusNotFound)
		default:
			util.HandleError(w, "внутренняя ошибка сервера", http.StatusInternalServerError)
		}
		return
	}

	resp := requestresponse.GetFileResponse{}
	resp.Data.File = updated

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// DeleteFile godoc
// @Summary Удаление файла
// @Description Удаляет файл вместе со строками данных, правами доступа и копией в хранилище.
// Доступно только владельцу.
// @Tags Files
// @Produce json
// @Param file_id path string true "UUID файла"
// @Param Authorization header string true "Bearer токен" default(Bearer <access_token>)
// @Success 200 {object} requestresponse.ResponseMessage
// @Failure 403 {object} requestresponse.ErrorResponse
// @Failure 404 {object} requestresponse.ErrorResponse
// @Failure 500 {object} requestresponse.ErrorResponse
// @Router /api/files/{file_id} [delete]
func (h *FileHandler) DeleteFile(w http.ResponseWriter, r *http.Request) {
	fileUUID := chi.URLParam(r, "file_id")
	if fileUUID == "" {
		util.HandleError(w, "ID файла обязателен", http.StatusBadRequest)
		return
	}

	claims, ok := r.Context().Value(security.UserContextKey).(*security.Claims)
	if ok == false || claims == nil {
		util.HandleError(w, "пользователь не авторизован", http.StatusUnauthorized)
		return
	}

	if err := h.FileService.DeleteFile(r.Context(), fileUUID, claims.UserUUID); err != nil {
		log.Println(err)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			util.HandleError(w, "файл не найден или не принадлежит вам", http.StatusNotFound)
		default:
			util.HandleError(w, "внутренняя ошибка сервера", http.StatusInternalServerError)
		}
		return
	}

	resp := requestresponse.ResponseMessage{Response: map[string]interface{}{fileUUID: true}}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// ShareFile godoc
// @Summary Предоставление доступа к файлу
// @Description Выдаёт или обновляет право доступа другому пользователю. Доступно только владельцу.
// @Tags Files
// @Accept json
// @Produce json
// @Param file_id path string true "UUID файла"
// @Param body body requestresponse.ShareFileRequest true "Тело запроса"
// @Param Authorization header string true "Bearer токен" default(Bearer <access_token>)
// @Success 200 {object} requestresponse.ResponseMessage
// @Failure 400 {object} requestresponse.ErrorResponse
// @Failure 403 {object} requestresponse.ErrorResponse
// @Failure 404 {object} requestresponse.ErrorResponse
// @Failure 500 {object} requestresponse.ErrorResponse
// @Router /api/files/{file_id}/share [post]
func (h *FileHandler) ShareFile(w http.ResponseWriter, r *http.Request) {
	fileUUID := chi.URLParam(r, "file_id")
	if fileUUID == "" {
		util.HandleError(w, "ID файла обязателен", http.StatusBadRequest)
		return
	}

	claims, ok := r.Context().Value(security.UserContextKey).(*security.Claims)
	if ok == false || claims == nil {
		util.HandleError(w, "пользователь не авторизован", http.StatusUnauthorized)
		return
	}

	var req requestresponse.ShareFileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		util.HandleError(w, "неверный формат запроса", http.StatusBadRequest)
		return
	}
	if req.TargetUserUUID == "" {
		util.HandleError(w, "target_user_uuid обязателен", http.StatusBadRequest)
		return
	}

	err := h.FileService.ShareFile(r.Context(), fileUUID, claims.UserUUID, req.TargetUserUUID, req.Permission)
	if err != nil {
		log.Println(err)
		switch {
		case errors.Is(err, service.ErrInvalidArgument):
			util.HandleError(w, "неизвестный уровень доступа", http.StatusBadRequest)
		case errors.Is(err, service.ErrAccessDenied):
			util.HandleError(w, "доступ запрещён", http.StatusForbidden)
		case errors.Is(err, sql.ErrNoRows):
			util.HandleError(w, "файл не найден", http.StatusNotFound)
		default:
			util.HandleError(w, "внутренняя ошибка сервера", http.StatusInternalServerError)
		}
		return
	}

	resp := requestresponse.ResponseMessage{Response: map[string]interface{}{fileUUID: true}}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// parsePositiveInt : числовой query-параметр; нечисловые и
// неположительные значения заменяются на значение по умолчанию
func parsePositiveInt(value string, fallback int) int {
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed < 1 {
		return fallback
	}
	return parsed
}
