package get_data

import (
	"net/http"
	"strconv"

	"github.com/m04kA/SMC-ParserStorageService/internal/api/handlers"
)

const (
	msgInvalidLimit  = "некорректное значение limit"
	msgInvalidOffset = "некорректное значение offset"

	maxLimit = 1000
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

// Handle GET /api/v1/data?limit=&offset=
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", 100)
	if err != nil || limit < 0 || limit > maxLimit {
		h.logger.Warn("GET /data - Invalid limit: %v", r.URL.Query().Get("limit"))
		handlers.RespondBadRequest(w, msgInvalidLimit)
		return
	}

	offset, err := queryInt(r, "offset", 0)
	if err != nil || offset < 0 {
		h.logger.Warn("GET /data - Invalid offset: %v", r.URL.Query().Get("offset"))
		handlers.RespondBadRequest(w, msgInvalidOffset)
		return
	}

	records := h.service.GetBookingData(r.Context(), limit, offset)

	h.logger.Info("GET /data - Returned %d records (limit=%d, offset=%d)", len(records), limit, offset)
	handlers.RespondJSON(w, http.StatusOK, GetDataResponse{
		Records: records,
		Count:   len(records),
		Limit:   limit,
		Offset:  offset,
	})
}

func queryInt(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}
