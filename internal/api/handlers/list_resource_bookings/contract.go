package list_resource_bookings

import (
	"context"

	"github.com/m04kA/SMC-VenueBooking/internal/service/bookings/models"
)

type BookingService interface {
	ListResourceBookings(ctx context.Context, req *models.ListResourceBookingsRequest) (*models.BookingListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
