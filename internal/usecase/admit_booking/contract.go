package admit_booking

import (
	"context"
	"time"

	"github.com/m04kA/SMC-VenueBooking/internal/domain"
	"github.com/m04kA/SMC-VenueBooking/internal/integrations/backoffice"
)

// ResourceCatalog интерфейс каталога ресурсов
type ResourceCatalog interface {
	ResolveMany(ctx context.Context, ids []string) ([]*domain.Resource, error)
}

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	LockResources(ctx context.Context, resourceIDs []string) error
	ActiveBookingsFor(ctx context.Context, resourceID string, from, to time.Time) ([]*domain.Booking, error)
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// AvailabilityNotifier сообщает об изменении занятости ресурсов
type AvailabilityNotifier interface {
	BookingChanged(ctx context.Context, b *domain.Booking)
}

// BackofficeClient интерфейс клиента бэк-офиса персонала
type BackofficeClient interface {
	NotifyBookingCreated(ctx context.Context, notification backoffice.BookingNotification)
}

// MetricsRecorder интерфейс для записи метрик допуска
type MetricsRecorder interface {
	RecordAdmission(result string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
