package memory

import (
	"fmt"

	bookingRepo "github.com/m04kA/SMC-VenueBooking/internal/infra/storage/booking"
)

// Ошибки хранилища в памяти оборачивают ошибки репозитория PostgreSQL,
// чтобы сервисы обрабатывали оба драйвера одинаково.

func errResourceNotFound(resourceID string) error {
	return fmt.Errorf("%w: %s", bookingRepo.ErrResourceNotFound, resourceID)
}

func errSlotConflict(resourceID string, bookingID int64) error {
	return fmt.Errorf("%w: resource %s overlaps booking %d", bookingRepo.ErrSlotConflict, resourceID, bookingID)
}
