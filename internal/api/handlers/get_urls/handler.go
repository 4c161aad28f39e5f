package get_urls

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

// Handle GET /api/v1/urls
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	urls, err := h.service.ListURLs(r.Context())
	if err != nil {
		h.logger.Error("GET /urls - Failed to list urls: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /urls - Returned %d urls", len(urls))
	handlers.RespondJSON(w, http.StatusOK, urls)
}
