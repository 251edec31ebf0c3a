package util

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
)

// LogError : логирует ошибку и возвращает её обёрнутой тем же сообщением,
// чтобы вызывающий мог и отдать её наверх, и проверить через errors.Is
func LogError(message string, err error) error {
	log.Printf("%s: %v", message, err)
	return fmt.Errorf("%s: %w", message, err)
}

// HandleError : пишет JSON-ошибку с заданным статусом
func HandleError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	errorResponse := struct {
		Error   string `json:"error"`
		Message string `json:"message"`
		Code    int    `json:"code"`
	}{
		Error:   http.StatusText(statusCode),
		Message: message,
		Code:    statusCode,
	}

	json.NewEncoder(w).Encode(errorResponse)
}
