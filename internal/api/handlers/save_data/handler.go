package save_data

import (
	"encoding/json"
	"net/http"

	"github.com/m04kA/SMC-ParserStorageService/internal/api/handlers"
)

const (
	msgInvalidBody = "некорректное тело запроса"
	msgMissingURL  = "не указан url источника"
	msgSaveFailed  = "данные не сохранены"
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

// Handle POST /api/v1/data
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req SaveDataRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("POST /data - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBody)
		return
	}

	if req.URL == "" {
		h.logger.Warn("POST /data - Missing source url")
		handlers.RespondBadRequest(w, msgMissingURL)
		return
	}

	saved := h.service.SaveBookingData(r.Context(), req.URL, req.Records)
	if !saved {
		h.logger.Error("POST /data - Save failed: url=%s, records=%d", req.URL, len(req.Records))
		handlers.RespondJSON(w, http.StatusInternalServerError, SaveDataResponse{
			Saved:   false,
			Message: msgSaveFailed,
		})
		return
	}

	h.logger.Info("POST /data - Records accepted: url=%s, records=%d", req.URL, len(req.Records))
	handlers.RespondJSON(w, http.StatusOK, SaveDataResponse{Saved: true})
}
