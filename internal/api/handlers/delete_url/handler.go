package delete_url

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ParserStorageService/internal/api/handlers"
	"github.com/m04kA/SMC-ParserStorageService/internal/service/storage"
)

const (
	msgInvalidID   = "некорректный идентификатор url"
	msgURLNotFound = "url не найден"
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

// Handle DELETE /api/v1/urls/{url_id}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["url_id"], 10, 64)
	if err != nil {
		h.logger.Warn("DELETE /urls/{url_id} - Invalid id: %v", err)
		handlers.RespondBadRequest(w, msgInvalidID)
		return
	}

	if err := h.service.DeleteURL(r.Context(), id); err != nil {
		if errors.Is(err, storage.ErrURLNotFound) {
			h.logger.Warn("DELETE /urls/{url_id} - URL not found: id=%d", id)
			handlers.RespondNotFound(w, msgURLNotFound)
			return
		}
		h.logger.Error("DELETE /urls/{url_id} - Failed to delete url: id=%d: %v", id, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("DELETE /urls/{url_id} - URL deleted: id=%d", id)
	handlers.RespondJSON(w, http.StatusNoContent, nil)
}
