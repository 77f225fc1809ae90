package cache

import (
	"context"

	"github.com/m04kA/SMC-VenueBooking/internal/domain"
)

// Noop кэш, который ничего не хранит (redis.enabled = false)
type Noop struct{}

func (Noop) Lookup(context.Context, domain.SlotQuery) (*domain.AvailabilityResult, string, bool, error) {
	return nil, "", false, nil
}

func (Noop) Store(context.Context, string, *domain.AvailabilityResult) error { return nil }

func (Noop) Invalidate(context.Context, string) error { return nil }
