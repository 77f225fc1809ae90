package availability

import (
	"context"

	"github.com/m04kA/SMC-VenueBooking/internal/domain"
)

// CacheInvalidator сбрасывает закэшированную доступность ресурса
type CacheInvalidator interface {
	Invalidate(ctx context.Context, resourceID string) error
}

// EventPublisher рассылает события изменения доступности
type EventPublisher interface {
	Publish(event domain.AvailabilityEvent)
}

// Logger интерфейс для логирования
type Logger interface {
	Warn(format string, v ...interface{})
}

// Notifier сообщает об изменении занятости ресурсов после коммита
type Notifier struct {
	cache     CacheInvalidator
	publisher EventPublisher
	logger    Logger
}

// NewNotifier создает notifier; publisher может быть nil
func NewNotifier(cache CacheInvalidator, publisher EventPublisher, logger Logger) *Notifier {
	return &Notifier{
		cache:     cache,
		publisher: publisher,
		logger:    logger,
	}
}

// BookingChanged сбрасывает кэш и рассылает событие для каждого ресурса бронирования
// Ошибки кэша не прерывают операцию: запись в хранилище уже зафиксирована
func (n *Notifier) BookingChanged(ctx context.Context, b *domain.Booking) {
	date := b.StartDateTime.Format(domain.DateFormat)

	for _, resourceID := range b.ResourceIDs {
		if n.cache != nil {
			if err := n.cache.Invalidate(ctx, resourceID); err != nil {
				n.logger.Warn("BookingChanged: failed to invalidate cache for resource=%s: %v", resourceID, err)
			}
		}

		if n.publisher != nil {
			n.publisher.Publish(domain.AvailabilityEvent{
				Type:       domain.EventAvailabilityChanged,
				ResourceID: resourceID,
				Date:       date,
				BookingID:  b.ID,
				Status:     string(b.Status),
			})
		}
	}
}
