package get_availability

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/m04kA/SMC-VenueBooking/internal/api/handlers"
	getAvailability "github.com/m04kA/SMC-VenueBooking/internal/usecase/get_availability"
)

const (
	msgMissingResourceID  = "resourceId is required"
	msgMissingDate        = "date is required"
	msgInvalidQuery       = "invalid date or duration, expected date=YYYY-MM-DD and an integer duration"
	msgInvalidDuration    = "invalid duration"
	msgInvalidSlotFormat  = "invalid slot format, expected e.g. 6:00 PM"
	msgInvalidInput       = "invalid availability request"
	msgResourceNotFound   = "this item is no longer available"
	maxQueriedResourceIDs = 50
)

type Handler struct {
	useCase  GetAvailabilityUseCase
	location *time.Location
	logger   Logger
}

func NewHandler(useCase GetAvailabilityUseCase, location *time.Location, logger Logger) *Handler {
	if location == nil {
		location = time.UTC
	}
	return &Handler{
		useCase:  useCase,
		location: location,
		logger:   logger,
	}
}

// Handle GET /api/v1/availability
// Query params: resourceId (повторяемый), date (YYYY-MM-DD), duration (часы, по умолчанию 1), slot (опционально)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	resourceIDs := make([]string, 0, len(query["resourceId"]))
	for _, id := range query["resourceId"] {
		if id = strings.TrimSpace(id); id != "" {
			resourceIDs = append(resourceIDs, id)
		}
	}
	if len(resourceIDs) == 0 || len(resourceIDs) > maxQueriedResourceIDs {
		h.logger.Warn("GET /availability - Missing or too many resource IDs: count=%d", len(resourceIDs))
		handlers.RespondBadRequest(w, msgMissingResourceID)
		return
	}

	dateStr := query.Get("date")
	if dateStr == "" {
		h.logger.Warn("GET /availability - Missing date")
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}

	useCaseReq, err := ToUseCaseRequest(resourceIDs, dateStr, query.Get("duration"), query.Get("slot"), h.location)
	if err != nil {
		h.logger.Warn("GET /availability - Invalid query: %v", err)
		handlers.RespondBadRequest(w, msgInvalidQuery)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, getAvailability.ErrResourceNotFound):
			h.logger.Warn("GET /availability - Resource not found: resource_ids=%v", resourceIDs)
			handlers.RespondNotFound(w, msgResourceNotFound)

		case errors.Is(err, getAvailability.ErrInvalidDuration):
			h.logger.Warn("GET /availability - Invalid duration: %v", err)
			handlers.RespondBadRequest(w, msgInvalidDuration)

		case errors.Is(err, getAvailability.ErrInvalidSlotFormat):
			h.logger.Warn("GET /availability - Invalid slot: %v", err)
			handlers.RespondBadRequest(w, msgInvalidSlotFormat)

		case errors.Is(err, getAvailability.ErrInvalidInput):
			h.logger.Warn("GET /availability - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("GET /availability - Failed to compute availability: resource_ids=%v, error=%v", resourceIDs, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /availability - Availability computed: resource_ids=%v, date=%s, blocked=%d, cached=%t",
		resourceIDs, dateStr, len(result.BlockedSlots), result.Cached)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
