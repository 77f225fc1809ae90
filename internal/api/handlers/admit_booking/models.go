package admit_booking

import (
	"time"

	admitBooking "github.com/m04kA/SMC-VenueBooking/internal/usecase/admit_booking"
	"github.com/m04kA/SMC-VenueBooking/pkg/slottime"
)

// AdmitBookingRequest HTTP request model
type AdmitBookingRequest struct {
	ResourceIDs   []string `json:"resourceIds"`
	Date          string   `json:"date"`          // "2026-10-17"
	Slot          string   `json:"slot"`          // "6:00 PM"
	DurationHours int      `json:"durationHours"` // 1..max
	CustomerName  string   `json:"customerName"`
	CustomerPhone *string  `json:"customerPhone,omitempty"`
	Notes         *string  `json:"notes,omitempty"`
}

// BookingResponse HTTP response model
type BookingResponse struct {
	ID                    int64    `json:"id"`
	ResourceIDs           []string `json:"resourceIds"`
	Date                  string   `json:"date"`
	Slot                  string   `json:"slot"`
	StartDateTime         string   `json:"startDateTime"`
	EndDateTime           string   `json:"endDateTime"`
	DurationHours         int      `json:"durationHours"`
	CleaningBufferMinutes int      `json:"cleaningBufferMinutes"`
	Status                string   `json:"status"`
	TotalPrice            float64  `json:"totalPrice"`
	CustomerName          string   `json:"customerName"`
	CustomerPhone         *string  `json:"customerPhone,omitempty"`
	Notes                 *string  `json:"notes,omitempty"`
	CreatedAt             string   `json:"createdAt"`
	UpdatedAt             string   `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
// Дата разбирается в часовом поясе площадки
func (r *AdmitBookingRequest) ToUseCaseRequest(loc *time.Location) (*admitBooking.Request, error) {
	date, err := slottime.ParseDate(r.Date, loc)
	if err != nil {
		return nil, err
	}

	return &admitBooking.Request{
		ResourceIDs:   r.ResourceIDs,
		Date:          date,
		SlotLabel:     r.Slot,
		DurationHours: r.DurationHours,
		CustomerName:  r.CustomerName,
		CustomerPhone: r.CustomerPhone,
		Notes:         r.Notes,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *admitBooking.Response) *BookingResponse {
	return &BookingResponse{
		ID:                    resp.ID,
		ResourceIDs:           resp.ResourceIDs,
		Date:                  resp.StartDateTime.Format(slottime.DateFormat),
		Slot:                  slottime.FormatLabel(resp.StartDateTime),
		StartDateTime:         resp.StartDateTime.Format(time.RFC3339),
		EndDateTime:           resp.EndDateTime.Format(time.RFC3339),
		DurationHours:         resp.DurationHours,
		CleaningBufferMinutes: resp.CleaningBufferMinutes,
		Status:                resp.Status,
		TotalPrice:            resp.TotalPrice,
		CustomerName:          resp.CustomerName,
		CustomerPhone:         resp.CustomerPhone,
		Notes:                 resp.Notes,
		CreatedAt:             resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:             resp.UpdatedAt.Format(time.RFC3339),
	}
}
