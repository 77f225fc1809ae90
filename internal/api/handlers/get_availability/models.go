package get_availability

import (
	"strconv"
	"time"

	getAvailability "github.com/m04kA/SMC-VenueBooking/internal/usecase/get_availability"
	"github.com/m04kA/SMC-VenueBooking/pkg/slottime"
)

// AvailabilityResponse HTTP ответ с доступностью
type AvailabilityResponse struct {
	Date          string                  `json:"date"`
	ResourceIDs   []string                `json:"resourceIds"`
	DurationHours int                     `json:"durationHours"`
	DateAvailable bool                    `json:"dateAvailable"`
	BlockedSlots  []string                `json:"blockedSlots"`
	FullyBooked   bool                    `json:"fullyBooked"`
	Seats         map[string]SeatResponse `json:"seats,omitempty"`
}

// SeatResponse доступность отдельного места кафе
type SeatResponse struct {
	BlockedSlots []string `json:"blockedSlots"`
	FullyBooked  bool     `json:"fullyBooked"`
	Available    *bool    `json:"available,omitempty"`
}

// ToUseCaseRequest конвертирует query параметры в запрос use case
func ToUseCaseRequest(resourceIDs []string, dateStr, durationStr, slot string, loc *time.Location) (*getAvailability.Request, error) {
	date, err := slottime.ParseDate(dateStr, loc)
	if err != nil {
		return nil, err
	}

	duration := 1
	if durationStr != "" {
		duration, err = strconv.Atoi(durationStr)
		if err != nil {
			return nil, err
		}
	}

	return &getAvailability.Request{
		ResourceIDs:   resourceIDs,
		Date:          date,
		DurationHours: duration,
		SlotLabel:     slot,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP ответ
func FromUseCaseResponse(resp *getAvailability.Response) *AvailabilityResponse {
	result := &AvailabilityResponse{
		Date:          resp.Date.Format(slottime.DateFormat),
		ResourceIDs:   resp.ResourceIDs,
		DurationHours: resp.DurationHours,
		DateAvailable: resp.DateAvailable,
		BlockedSlots:  nonNil(resp.BlockedSlots),
		FullyBooked:   resp.FullyBooked,
	}

	if len(resp.Seats) > 0 {
		result.Seats = make(map[string]SeatResponse, len(resp.Seats))
		for id, seat := range resp.Seats {
			result.Seats[id] = SeatResponse{
				BlockedSlots: nonNil(seat.BlockedSlots),
				FullyBooked:  seat.FullyBooked,
				Available:    seat.Available,
			}
		}
	}

	return result
}

func nonNil(labels []string) []string {
	if labels == nil {
		return []string{}
	}
	return labels
}
