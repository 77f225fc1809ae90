package admit_booking

import (
	"errors"
	"net/http"
	"time"

	"github.com/m04kA/SMC-VenueBooking/internal/api/handlers"
	admitBooking "github.com/m04kA/SMC-VenueBooking/internal/usecase/admit_booking"
)

const (
	msgInvalidRequestBody = "invalid request body"
	msgInvalidDate        = "invalid date format, expected YYYY-MM-DD"
	msgSlotConflict       = "that time was just taken, please choose another slot"
	msgResourceNotFound   = "this item is no longer available"
	msgDateUnavailable    = "this item cannot be booked on the selected day"
	msgInvalidTimeSlot    = "the selected time is not offered for this item"
	msgInvalidSlotFormat  = "invalid slot format, expected e.g. 6:00 PM"
	msgInvalidDuration    = "invalid duration"
	msgInvalidInput       = "invalid booking request"
)

type Handler struct {
	useCase  AdmitBookingUseCase
	location *time.Location
	logger   Logger
}

func NewHandler(useCase AdmitBookingUseCase, location *time.Location, logger Logger) *Handler {
	if location == nil {
		location = time.UTC
	}
	return &Handler{
		useCase:  useCase,
		location: location,
		logger:   logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req AdmitBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(h.location)
	if err != nil {
		h.logger.Warn("POST /bookings - Invalid date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, admitBooking.ErrSlotConflict):
			h.logger.Warn("POST /bookings - Slot conflict: resource_ids=%v, date=%s, slot=%s", req.ResourceIDs, req.Date, req.Slot)
			handlers.RespondConflict(w, msgSlotConflict)

		case errors.Is(err, admitBooking.ErrResourceNotFound):
			h.logger.Warn("POST /bookings - Resource not found: resource_ids=%v", req.ResourceIDs)
			handlers.RespondNotFound(w, msgResourceNotFound)

		case errors.Is(err, admitBooking.ErrDateUnavailable):
			h.logger.Warn("POST /bookings - Date unavailable: resource_ids=%v, date=%s", req.ResourceIDs, req.Date)
			handlers.RespondUnprocessable(w, msgDateUnavailable)

		case errors.Is(err, admitBooking.ErrInvalidTimeSlot):
			h.logger.Warn("POST /bookings - Slot not offered: resource_ids=%v, slot=%s", req.ResourceIDs, req.Slot)
			handlers.RespondBadRequest(w, msgInvalidTimeSlot)

		case errors.Is(err, admitBooking.ErrInvalidSlotFormat):
			h.logger.Warn("POST /bookings - Invalid slot format: slot=%s", req.Slot)
			handlers.RespondBadRequest(w, msgInvalidSlotFormat)

		case errors.Is(err, admitBooking.ErrInvalidDuration):
			h.logger.Warn("POST /bookings - Invalid duration: duration=%d", req.DurationHours)
			handlers.RespondBadRequest(w, msgInvalidDuration)

		case errors.Is(err, admitBooking.ErrInvalidInput):
			h.logger.Warn("POST /bookings - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("POST /bookings - Failed to admit booking: resource_ids=%v, error=%v", req.ResourceIDs, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings - Booking admitted: booking_id=%d, resource_ids=%v, status=%s",
		result.ID, result.ResourceIDs, result.Status)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
