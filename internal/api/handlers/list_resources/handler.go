package list_resources

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-VenueBooking/internal/api/handlers"
	"github.com/m04kA/SMC-VenueBooking/internal/service/catalog"
)

const msgInvalidKind = "invalid kind, expected room, booth or seat"

type Handler struct {
	service CatalogService
	logger  Logger
}

func NewHandler(service CatalogService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/resources
// Query params: kind (опционально)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var kind *string
	if value := r.URL.Query().Get("kind"); value != "" {
		kind = &value
	}

	result, err := h.service.ListResources(r.Context(), kind)
	if err != nil {
		switch {
		case errors.Is(err, catalog.ErrInvalidInput):
			h.logger.Warn("GET /resources - Invalid kind: %v", err)
			handlers.RespondBadRequest(w, msgInvalidKind)

		default:
			h.logger.Error("GET /resources - Failed to list resources: error=%v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /resources - Resources listed: count=%d", len(result.Resources))
	handlers.RespondJSON(w, http.StatusOK, result)
}
