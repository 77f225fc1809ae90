package get_resource

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-VenueBooking/internal/api/handlers"
	"github.com/m04kA/SMC-VenueBooking/internal/service/catalog"
)

const (
	msgInvalidResourceID = "invalid resource ID"
	msgNotFound          = "this item is no longer available"
)

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

// Handle GET /api/v1/resources/{resourceId}
// Публичный endpoint
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	resourceID := mux.Vars(r)["resourceId"]

	result, err := h.service.GetResource(r.Context(), resourceID)
	if err != nil {
		switch {
		case errors.Is(err, catalog.ErrResourceNotFound):
			h.logger.Warn("GET /resources/{id} - Resource not found: resource_id=%s", resourceID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, catalog.ErrInvalidInput):
			h.logger.Warn("GET /resources/{id} - Invalid resource ID: %v", err)
			handlers.RespondBadRequest(w, msgInvalidResourceID)

		default:
			h.logger.Error("GET /resources/{id} - Failed to get resource: resource_id=%s, error=%v", resourceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /resources/{id} - Resource retrieved successfully: resource_id=%s", resourceID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
