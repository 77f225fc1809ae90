package get_availability

import (
	"fmt"
	"strings"

	"github.com/m04kA/SMC-VenueBooking/pkg/slottime"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request, maxDurationHours int) error {
	if len(req.ResourceIDs) == 0 {
		return fmt.Errorf("%w: at least one resourceId is required", ErrInvalidInput)
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

	if req.DurationHours <= 0 {
		return fmt.Errorf("%w: duration must be positive", ErrInvalidDuration)
	}
	if maxDurationHours > 0 && req.DurationHours > maxDurationHours {
		return fmt.Errorf("%w: duration must be at most %d hours", ErrInvalidDuration, maxDurationHours)
	}

	if req.SlotLabel != "" {
		if err := slottime.ValidateLabel(req.SlotLabel); err != nil {
			return fmt.Errorf("%w: %q", ErrInvalidSlotFormat, req.SlotLabel)
		}
	}

	return nil
}
