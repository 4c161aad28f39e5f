package get_status

import (
	"net/http"

	"github.com/m04kA/SMC-ParserStorageService/internal/api/handlers"
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

// Handle GET /api/v1/status
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	stats := h.service.GetStatistics(r.Context())

	status := http.StatusOK
	if !stats.Connected {
		status = http.StatusServiceUnavailable
		h.logger.Error("GET /status - Store is not connected: %s", stats.Error)
	}

	handlers.RespondJSON(w, status, stats)
}
