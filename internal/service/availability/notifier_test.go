package availability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-VenueBooking/internal/domain"
	"github.com/m04kA/SMC-VenueBooking/pkg/logger"
)

type recordingCache struct {
	invalidated []string
	err         error
}

func (c *recordingCache) Invalidate(_ context.Context, resourceID string) error {
	c.invalidated = append(c.invalidated, resourceID)
	return c.err
}

type recordingPublisher struct {
	events []domain.AvailabilityEvent
}

func (p *recordingPublisher) Publish(event domain.AvailabilityEvent) {
	p.events = append(p.events, event)
}

func TestNotifier_BookingChanged(t *testing.T) {
	cache := &recordingCache{err: errors.New("redis down")}
	pub := &recordingPublisher{}
	n := NewNotifier(cache, pub, logger.NewNop())

	n.BookingChanged(context.Background(), &domain.Booking{
		ID:            3,
		ResourceIDs:   []string{"seat-1", "seat-2"},
		StartDateTime: time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC),
		Status:        domain.StatusConfirmed,
	})

	assert.Equal(t, []string{"seat-1", "seat-2"}, cache.invalidated)
	assert.Len(t, pub.events, 2)
	assert.Equal(t, domain.AvailabilityEvent{
		Type:       domain.EventAvailabilityChanged,
		ResourceID: "seat-2",
		Date:       "2024-06-15",
		BookingID:  3,
		Status:     "confirmed",
	}, pub.events[1])
}

func TestNotifier_NilPublisher(t *testing.T) {
	cache := &recordingCache{}
	n := NewNotifier(cache, nil, logger.NewNop())

	n.BookingChanged(context.Background(), &domain.Booking{ResourceIDs: []string{"room-A"}})
	assert.Equal(t, []string{"room-A"}, cache.invalidated)
}
