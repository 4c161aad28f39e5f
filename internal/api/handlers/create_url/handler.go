package create_url

import (
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/m04kA/SMC-ParserStorageService/internal/api/handlers"
)

const (
	msgInvalidBody = "некорректное тело запроса"
	msgInvalidURL  = "некорректный url"
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

// Handle POST /api/v1/urls
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateURLRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("POST /urls - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBody)
		return
	}

	parsed, err := url.ParseRequestURI(req.URL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		h.logger.Warn("POST /urls - Invalid url: %q", req.URL)
		handlers.RespondBadRequest(w, msgInvalidURL)
		return
	}

	created, err := h.service.CreateURL(r.Context(), req.URL, req.Name)
	if err != nil {
		h.logger.Error("POST /urls - Failed to create url: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("POST /urls - URL registered: id=%d url=%s", created.ID, created.URL)
	handlers.RespondJSON(w, http.StatusCreated, created)
}
