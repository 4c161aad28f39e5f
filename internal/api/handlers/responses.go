package handlers

import (
	"encoding/json"
	"net/http"
)

type errorResponse struct {
	Error string `json:"error"`
}

// RespondJSON пишет ответ в формате JSON с указанным статусом
func RespondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if payload != nil {
		_ = json.NewEncoder(w).Encode(payload)
	}
}

// RespondBadRequest пишет ответ 400 с сообщением об ошибке
func RespondBadRequest(w http.ResponseWriter, message string) {
	RespondJSON(w, http.StatusBadRequest, errorResponse{Error: message})
}

// RespondUnauthorized пишет ответ 401 с сообщением об ошибке
func RespondUnauthorized(w http.ResponseWriter, message string) {
	RespondJSON(w, http.StatusUnauthorized, errorResponse{Error: message})
}

// RespondForbidden пишет ответ 403 с сообщением об ошибке
func RespondForbidden(w http.ResponseWriter, message string) {
	RespondJSON(w, http.StatusForbidden, errorResponse{Error: message})
}

// RespondNotFound пишет ответ 404 с сообщением об ошибке
func RespondNotFound(w http.ResponseWriter, message string) {
	RespondJSON(w, http.StatusNotFound, errorResponse{Error: message})
}

// RespondInternalError пишет ответ 500 с обезличенным сообщением
func RespondInternalError(w http.ResponseWriter) {
	RespondJSON(w, http.StatusInternalServerError, errorResponse{Error: "внутренняя ошибка сервиса"})
}
