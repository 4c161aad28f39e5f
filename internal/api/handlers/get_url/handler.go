package get_url

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

// Handle GET /api/v1/urls/{url_id}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["url_id"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /urls/{url_id} - Invalid id: %v", err)
		handlers.RespondBadRequest(w, msgInvalidID)
		return
	}

	url, err := h.service.GetURL(r.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrURLNotFound) {
			h.logger.Warn("GET /urls/{url_id} - URL not found: id=%d", id)
			handlers.RespondNotFound(w, msgURLNotFound)
			return
		}
		h.logger.Error("GET /urls/{url_id} - Failed to get url: id=%d: %v", id, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /urls/{url_id} - Returned url: id=%d", id)
	handlers.RespondJSON(w, http.StatusOK, url)
}
