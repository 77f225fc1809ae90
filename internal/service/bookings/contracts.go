package bookings

import (
	"context"

	"github.com/m04kA/SMC-VenueBooking/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	ListByResource(ctx context.Context, filter domain.ResourceBookingsFilter) ([]*domain.Booking, error)
	UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error
	Cancel(ctx context.Context, id int64, reason string) error
}

// ResourceCatalog интерфейс каталога ресурсов
type ResourceCatalog interface {
	Resolve(ctx context.Context, id string) (*domain.Resource, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// AvailabilityNotifier сообщает об изменении занятости ресурсов
type AvailabilityNotifier interface {
	BookingChanged(ctx context.Context, b *domain.Booking)
}

// MetricsRecorder интерфейс для записи метрик переходов статусов
type MetricsRecorder interface {
	RecordTransition(status string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
