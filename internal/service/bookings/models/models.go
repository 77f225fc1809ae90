package models

import (
	"time"

	"github.com/m04kA/SMC-VenueBooking/internal/domain"
	"github.com/m04kA/SMC-VenueBooking/pkg/slottime"
)

// Request модели

// CancelBookingRequest запрос на отмену бронирования
type CancelBookingRequest struct {
	CancellationReason string `json:"cancellationReason"`
}

// ListResourceBookingsRequest запрос на получение бронирований ресурса
type ListResourceBookingsRequest struct {
	ResourceID       string
	Date             *time.Time // начало дня в часовом поясе площадки (опционально)
	IncludeCancelled bool
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *ListResourceBookingsRequest) ToDomainFilter() domain.ResourceBookingsFilter {
	filter := domain.ResourceBookingsFilter{
		ResourceID:       r.ResourceID,
		IncludeCancelled: r.IncludeCancelled,
	}

	if r.Date != nil {
		from := slottime.StartOfDay(*r.Date)
		to := from.AddDate(0, 0, 1)
		filter.From = &from
		filter.To = &to
	}

	return filter
}

// Response модели

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID                    int64    `json:"id"`
	ResourceIDs           []string `json:"resourceIds"`
	Date                  string   `json:"date"`          // "2024-06-15"
	Slot                  string   `json:"slot"`          // "6:00 PM"
	StartDateTime         string   `json:"startDateTime"` // RFC 3339
	EndDateTime           string   `json:"endDateTime"`
	DurationHours         int      `json:"durationHours"`
	CleaningBufferMinutes int      `json:"cleaningBufferMinutes"`
	Status                string   `json:"status"`
	TotalPrice            float64  `json:"totalPrice"`

	CustomerName  string  `json:"customerName"`
	CustomerPhone *string `json:"customerPhone,omitempty"`
	Notes         *string `json:"notes,omitempty"`

	CancellationReason *string `json:"cancellationReason,omitempty"`
	CancelledAt        *string `json:"cancelledAt,omitempty"` // RFC 3339

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// Методы конвертации

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}

	resp := &BookingResponse{
		ID:                    b.ID,
		ResourceIDs:           b.ResourceIDs,
		Date:                  b.StartDateTime.Format(domain.DateFormat),
		Slot:                  slottime.FormatLabel(b.StartDateTime),
		StartDateTime:         b.StartDateTime.Format(time.RFC3339),
		EndDateTime:           b.EndDateTime.Format(time.RFC3339),
		DurationHours:         b.DurationHours,
		CleaningBufferMinutes: b.CleaningBufferMinutes,
		Status:                string(b.Status),
		TotalPrice:            b.TotalPrice,
		CustomerName:          b.CustomerName,
		CustomerPhone:         b.CustomerPhone,
		Notes:                 b.Notes,
		CancellationReason:    b.CancellationReason,
		CreatedAt:             b.CreatedAt,
		UpdatedAt:             b.UpdatedAt,
	}

	if b.CancelledAt != nil {
		cancelledStr := b.CancelledAt.Format(time.RFC3339)
		resp.CancelledAt = &cancelledStr
	}

	return resp
}

// FromDomainBookingList конвертирует список domain моделей в DTO
func FromDomainBookingList(bookings []*domain.Booking) *BookingListResponse {
	resp := &BookingListResponse{
		Bookings: make([]BookingResponse, 0, len(bookings)),
	}

	for _, booking := range bookings {
		if bookingResp := FromDomainBooking(booking); bookingResp != nil {
			resp.Bookings = append(resp.Bookings, *bookingResp)
		}
	}

	return resp
}
