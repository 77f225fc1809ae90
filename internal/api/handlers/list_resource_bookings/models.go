package list_resource_bookings

import (
	"strconv"
	"time"

	"github.com/m04kA/SMC-VenueBooking/internal/service/bookings/models"
	"github.com/m04kA/SMC-VenueBooking/pkg/slottime"
)

// ToServiceRequest конвертирует параметры запроса в модель сервиса
func ToServiceRequest(resourceID, dateStr, includeCancelledStr string, loc *time.Location) (*models.ListResourceBookingsRequest, error) {
	req := &models.ListResourceBookingsRequest{
		ResourceID: resourceID,
	}

	if dateStr != "" {
		date, err := slottime.ParseDate(dateStr, loc)
		if err != nil {
			return nil, err
		}
		req.Date = &date
	}

	if includeCancelledStr != "" {
		include, err := strconv.ParseBool(includeCancelledStr)
		if err != nil {
			return nil, err
		}
		req.IncludeCancelled = include
	}

	return req, nil
}
