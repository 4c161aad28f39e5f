package update_url

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ParserStorageService/internal/api/handlers"
	"github.com/m04kA/SMC-ParserStorageService/internal/domain"
	"github.com/m04kA/SMC-ParserStorageService/internal/service/storage"
)

const (
	msgInvalidID     = "некорректный идентификатор url"
	msgInvalidBody   = "некорректное тело запроса"
	msgInvalidStatus = "некорректный статус url"
	msgURLNotFound   = "url не найден"
)

type Handler struct {
	service StorageService
	logger  Logger
}

func NewHandler(service StorageService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PUT /api/v1/urls/{url_id}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["url_id"], 10, 64)
	if err != nil {
		h.logger.Warn("PUT /urls/{url_id} - Invalid id: %v", err)
		handlers.RespondBadRequest(w, msgInvalidID)
		return
	}

	var req UpdateURLRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("PUT /urls/{url_id} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBody)
		return
	}

	if req.Status != nil && !validStatus(*req.Status) {
		h.logger.Warn("PUT /urls/{url_id} - Invalid status: %q", *req.Status)
		handlers.RespondBadRequest(w, msgInvalidStatus)
		return
	}

	updated, err := h.service.UpdateURL(r.Context(), id, req.Name, req.Status)
	if err != nil {
		if errors.Is(err, storage.ErrURLNotFound) {
			h.logger.Warn("PUT /urls/{url_id} - URL not found: id=%d", id)
			handlers.RespondNotFound(w, msgURLNotFound)
			return
		}
		h.logger.Error("PUT /urls/{url_id} - Failed to update url: id=%d: %v", id, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("PUT /urls/{url_id} - URL updated: id=%d", id)
	handlers.RespondJSON(w, http.StatusOK, updated)
}

func validStatus(status string) bool {
	switch domain.URLStatus(status) {
	case domain.URLStatusActive, domain.URLStatusPaused, domain.URLStatusDisabled:
		return true
	}
	return false
}
