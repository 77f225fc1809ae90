package admit_booking

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/m04kA/SMC-VenueBooking/internal/domain"
	"github.com/m04kA/SMC-VenueBooking/pkg/slottime"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request, maxDurationHours int) error {
	if len(req.ResourceIDs) == 0 {
		return fmt.Errorf("%w: at least one resourceId is required", ErrInvalidInput)
	}
	if len(req.ResourceIDs) > domain.MaxResourcesPerBooking {
		return fmt.Errorf("%w: at most %d resources per booking", ErrInvalidInput, domain.MaxResourcesPerBooking)
	}

	seen := make(map[string]struct{}, len(req.ResourceIDs))
	for _, id := range req.ResourceIDs {
		if strings.TrimSpace(id) == "" {
			return fmt.Errorf("%w: resourceId must not be empty", ErrInvalidInput)
		}
		if _, ok := seen[id]; ok {
			return fmt.Errorf("%w: duplicate resourceId %q", ErrInvalidInput, id)
		}
		seen[id] = struct{}{}
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if req.DurationHours < domain.MinDurationHours {
		return fmt.Errorf("%w: duration must be at least %d hour", ErrInvalidDuration, domain.MinDurationHours)
	}
	if maxDurationHours > 0 && req.DurationHours > maxDurationHours {
		return fmt.Errorf("%w: duration must be at most %d hours", ErrInvalidDuration, maxDurationHours)
	}

	if strings.TrimSpace(req.SlotLabel) == "" {
		return fmt.Errorf("%w: slot is required", ErrInvalidInput)
	}
	if err := slottime.ValidateLabel(req.SlotLabel); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidSlotFormat, req.SlotLabel)
	}

	name := strings.TrimSpace(req.CustomerName)
	if name == "" {
		return fmt.Errorf("%w: customerName is required", ErrInvalidInput)
	}
	if utf8.RuneCountInString(name) > domain.MaxCustomerNameLength {
		return fmt.Errorf("%w: customerName must be at most %d characters", ErrInvalidInput, domain.MaxCustomerNameLength)
	}

	if req.Notes != nil && utf8.RuneCountInString(*req.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes must be at most %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	return nil
}

// validateResources проверяет состав бронирования, день недели и слот по сетке
func validateResources(resources []*domain.Resource, req *Request) error {
	if len(resources) > 1 {
		for _, r := range resources {
			if r.Kind != domain.KindSeat {
				return fmt.Errorf("%w: only café seats can be booked together", ErrInvalidInput)
			}
		}
	}

	for _, r := range resources {
		if !r.IsAvailableOn(req.Date) {
			return fmt.Errorf("%w: %s is not bookable on %s", ErrDateUnavailable, r.ID, req.Date.Weekday())
		}
		if !r.HasSlot(req.SlotLabel) {
			return fmt.Errorf("%w: %q is not in the grid of %s", ErrInvalidTimeSlot, req.SlotLabel, r.ID)
		}
	}

	return nil
}

// totalPrice считает стоимость: сумма цен ресурсов за час, умноженная на длительность
func totalPrice(resources []*domain.Resource, durationHours int) float64 {
	var perHour float64
	for _, r := range resources {
		perHour += r.PricePerHour
	}
	return perHour * float64(durationHours)
}

// initialStatus бесплатные бронирования подтверждаются сразу, платные ждут подтверждения
func initialStatus(resources []*domain.Resource) domain.BookingStatus {
	for _, r := range resources {
		if !r.IsFree() {
			return domain.StatusPending
		}
	}
	return domain.StatusConfirmed
}
