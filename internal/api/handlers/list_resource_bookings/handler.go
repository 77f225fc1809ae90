package list_resource_bookings

import (
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-VenueBooking/internal/api/handlers"
	"github.com/m04kA/SMC-VenueBooking/internal/service/bookings"
)

const (
	msgInvalidParams    = "invalid query parameters, expected date=YYYY-MM-DD and includeCancelled=true|false"
	msgResourceNotFound = "this item is no longer available"
	msgInvalidInput     = "invalid resource ID"
)

type Handler struct {
	service  BookingService
	location *time.Location
	logger   Logger
}

func NewHandler(service BookingService, location *time.Location, logger Logger) *Handler {
	if location == nil {
		location = time.UTC
	}
	return &Handler{
		service:  service,
		location: location,
		logger:   logger,
	}
}

// Handle GET /api/v1/resources/{resourceId}/bookings
// Query params: date, includeCancelled (опционально)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	resourceID := mux.Vars(r)["resourceId"]
	query := r.URL.Query()

	serviceReq, err := ToServiceRequest(resourceID, query.Get("date"), query.Get("includeCancelled"), h.location)
	if err != nil {
		h.logger.Warn("GET /resources/{id}/bookings - Invalid parameters: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	result, err := h.service.ListResourceBookings(r.Context(), serviceReq)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrResourceNotFound):
			h.logger.Warn("GET /resources/{id}/bookings - Resource not found: resource_id=%s", resourceID)
			handlers.RespondNotFound(w, msgResourceNotFound)

		case errors.Is(err, bookings.ErrInvalidInput):
			h.logger.Warn("GET /resources/{id}/bookings - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("GET /resources/{id}/bookings - Failed to get bookings: resource_id=%s, error=%v", resourceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /resources/{id}/bookings - Bookings retrieved successfully: resource_id=%s, count=%d",
		resourceID, len(result.Bookings))
	handlers.RespondJSON(w, http.StatusOK, result)
}
