package catalog

import (
	"context"

	"github.com/m04kA/SMC-VenueBooking/internal/domain"
)

// ResourceRepository интерфейс репозитория каталога ресурсов
type ResourceRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Resource, error)
	List(ctx context.Context, kind *domain.ResourceKind, activeOnly bool) ([]*domain.Resource, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
