package handler

import (
	"database/sql"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"spreadsheet-analytics-server/internal/model"
	"spreadsheet-analytics-server/internal/ports"
	"spreadsheet-analytics-server/internal/security"
	"spreadsheet-analytics-server/internal/service"
	"spreadsheet-analytics-server/internal/util"
)

type AnalyticsHandler struct {
	ports.AnalyticsService
}

func NewAnalyticsHandler(analyticsService ports.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsService}
}

// GetChartData godoc
// @Summary Данные для графика
// @Description Возвращает точки графика по выбранным осям. Для pie/doughnut значения
// группируются по категориям, для 3d-графиков добавляется ось z.
// @Tags Analytics
// @Produce json
// @Param file_id path string true "UUID файла"
// @Param sheet query string false "Имя листа (по умолчанию первый лист)"
// @Param chartType query string false "Вид графика (line, bar, pie, doughnut, scatter, 3d-scatter, 3d-bar)" default(line)
// @Param xAxis query string true "Колонка оси X"
// @Param yAxis query string true "Колонка оси Y"
// @Param limit query int false "Максимум строк" default(1000) minimum(1) maximum(1000)
// @Param Authorization header string true "Bearer токен" default(Bearer <access_token>)
// @Success 200 {object} model.ChartResult
// @Failure 400 {object} requestresponse.ErrorResponse "Файл не обработан или лист не найден"
// @Failure 403 {object} requestresponse.ErrorResponse
// @Failure 404 {object} requestresponse.ErrorResponse
// @Failure 500 {object} requestresponse.ErrorResponse
// @Router /api/analytics/{file_id}/chart-data [get]
func (h *AnalyticsHandler) GetChartData(w http.ResponseWriter, r *http.Request) {
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

	params := r.URL.Query()
	chartType := params.Get("chartType")
	if chartType == "" {
		chartType = "line"
	}

	query := model.ChartQuery{
		FileUUID:  fileUUID,
		UserUUID:  claims.UserUUID,
		SheetName: params.Get("sheet"),
		ChartType: chartType,
		XAxis:     params.Get("xAxis"),
		YAxis:     params.Get("yAxis"),
		Limit:     parsePositiveInt(params.Get("limit"), 0),
	}

	result, err := h.AnalyticsService.GetChartData(r.Context(), query)
	if err != nil {
		h.handleAnalyticsError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

// GetColumns godoc
// @Summary Колонки листа
// @Description Возвращает колонки выбранного листа с типами и подходящими осями.
// Повторяющиеся заголовки получают порядковый номер в displayName.
// @Tags Analytics
// @Produce json
// @Param file_id path string true "UUID файла"
// @Param sheet query string false "Имя листа (по умолчанию первый лист)"
// @Param Authorization header string true "Bearer токен" default(Bearer <access_token>)
// @Success 200 {object} model.ColumnsResult
// @Failure 400 {object} requestresponse.ErrorResponse
// @Failure 403 {object} requestresponse.ErrorResponse
// @Failure 404 {object} requestresponse.ErrorResponse
// @Failure 500 {object} requestresponse.ErrorResponse
// @Router /api/analytics/{file_id}/columns [get]
func (h *AnalyticsHandler) GetColumns(w http.ResponseWriter, r *http.Request) {
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

	result, err := h.AnalyticsService.GetColumns(r.Context(), fileUUID, claims.UserUUID, r.URL.Query().Get("sheet"))
	if err != nil {
		h.handleAnalyticsError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

// GetSummary godoc
// @Summary Сводная статистика листа
// @Description Возвращает по числовым колонкам min/max/avg/count/total,
// по строковым — количество уникальных значений и примеры
// @Tags Analytics
// @Produce json
// @Param file_id path string true "UUID файла"
// @Param sheet query string false "Имя листа (по умолчанию первый лист)"
// @Param Authorization header string true "Bearer токен" default(Bearer <access_token>)
// @Success 200 {object} model.SummaryResult
// @Failure 400 {object} requestresponse.ErrorResponse
// @Failure 403 {object} requestresponse.ErrorResponse
// @Failure 404 {object} requestresponse.ErrorResponse
// @Failure 500 {object} requestresponse.ErrorResponse
// @Router /api/analytics/{file_id}/summary [get]
func (h *AnalyticsHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
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

	result, err := h.AnalyticsService.GetSummary(r.Context(), fileUUID, claims.UserUUID, r.URL.Query().Get("sheet"))
	if err != nil {
		h.handleAnalyticsError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

func (h *AnalyticsHandler) handleAnalyticsError(w http.ResponseWriter, err error) {
	log.Println(err)
	switch {
	case errors.Is(err, service.ErrAccessDenied):
		util.HandleError(w, "доступ запрещён", http.StatusForbidden)
	case errors.Is(err, service.ErrInvalidArgument):
		util.HandleError(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, sql.ErrNoRows):
		util.HandleError(w, "файл не найден", http.StatusNotFound)
	default:
		util.HandleError(w, "внутренняя ошибка сервера", http.StatusInternalServerError)
	}
}
