package get_availability

import (
	"context"
	"time"

	"github.com/m04kA/SMC-VenueBooking/internal/domain"
)

// ResourceCatalog интерфейс каталога ресурсов
type ResourceCatalog interface {
	ResolveMany(ctx context.Context, ids []string) ([]*domain.Resource, error)
}

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	// ActiveBookingsFor получает не отмененные бронирования ресурса, пересекающие [from, to)
	ActiveBookingsFor(ctx context.Context, resourceID string, from, to time.Time) ([]*domain.Booking, error)
}

// AvailabilityCache интерфейс кэша результатов доступности
type AvailabilityCache interface {
	Lookup(ctx context.Context, q domain.SlotQuery) (*domain.AvailabilityResult, string, bool, error)
	Store(ctx context.Context, token string, result *domain.AvailabilityResult) error
}

// MetricsRecorder интерфейс для записи метрик кэша
type MetricsRecorder interface {
	RecordCacheLookup(result string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
