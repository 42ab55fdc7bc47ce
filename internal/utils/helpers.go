package utils

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/senyabanana/tender-engine/internal/models"
)

// SendErrorResponse отправляет типизированную ошибку в формате JSON.
func SendErrorResponse(w http.ResponseWriter, errResp *models.ErrorResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(errResp.StatusCode)

	if err := json.NewEncoder(w).Encode(errResp); err != nil {
		log.Println(err)
	}
}

// SendInternalError отправляет ошибку 500 с указанным сообщением.
func SendInternalError(w http.ResponseWriter, message string) {
	SendErrorResponse(w, models.NewErrorResponse(http.StatusInternalServerError, models.ErrInternal, message))
}

// SendJSON отправляет успешный JSON-ответ.
func SendJSON(w http.ResponseWriter, statusCode int, v interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(v)
}
