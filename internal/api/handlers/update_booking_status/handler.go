package update_booking_status

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-VenueBooking/internal/api/handlers"
	"github.com/m04kA/SMC-VenueBooking/internal/service/bookings"
	"github.com/m04kA/SMC-VenueBooking/internal/service/bookings/models"
)

const (
	msgInvalidBookingID = "invalid booking ID"
	msgUnknownAction    = "unknown action, expected confirm or complete"
	msgNotFound         = "booking not found"
	msgInvalidStatus    = "the booking cannot move to the requested status"
)

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/bookings/{bookingId}/{action:confirm|complete}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	action := vars["action"]

	bookingID, err := strconv.ParseInt(vars["bookingId"], 10, 64)
	if err != nil || bookingID <= 0 {
		h.logger.Warn("PATCH /bookings/{id}/%s - Invalid booking ID: %s", action, vars["bookingId"])
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	var apply func(ctx context.Context, bookingID int64) (*models.BookingResponse, error)
	switch action {
	case "confirm":
		apply = h.service.Confirm
	case "complete":
		apply = h.service.Complete
	default:
		h.logger.Warn("PATCH /bookings/{id}/{action} - Unknown action: %s", action)
		handlers.RespondBadRequest(w, msgUnknownAction)
		return
	}

	booking, err := apply(r.Context(), bookingID)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrBookingNotFound):
			h.logger.Warn("PATCH /bookings/{id}/%s - Booking not found: booking_id=%d", action, bookingID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, bookings.ErrInvalidTransition):
			h.logger.Warn("PATCH /bookings/{id}/%s - Invalid transition: booking_id=%d", action, bookingID)
			handlers.RespondConflict(w, msgInvalidStatus)

		default:
			h.logger.Error("PATCH /bookings/{id}/%s - Failed to update status: booking_id=%d, error=%v", action, bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /bookings/{id}/%s - Status updated: booking_id=%d, status=%s", action, bookingID, booking.Status)
	handlers.RespondJSON(w, http.StatusOK, booking)
}
