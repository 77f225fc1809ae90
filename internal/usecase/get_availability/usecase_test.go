package get_availability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-VenueBooking/internal/domain"
	"github.com/m04kA/SMC-VenueBooking/internal/infra/cache"
	"github.com/m04kA/SMC-VenueBooking/internal/infra/storage/memory"
	"github.com/m04kA/SMC-VenueBooking/internal/service/availability"
	"github.com/m04kA/SMC-VenueBooking/internal/service/catalog"
	"github.com/m04kA/SMC-VenueBooking/pkg/logger"
	"github.com/m04kA/SMC-VenueBooking/pkg/metrics"
	"github.com/m04kA/SMC-VenueBooking/pkg/slottime"
)

var saturday = time.Date(2025, time.July, 26, 0, 0, 0, 0, time.UTC)

type fixture struct {
	store *memory.Store
	tx    *memory.TxManager
	repo  *memory.BookingRepository
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	store.PutResource(&domain.Resource{
		ID: "room-A", Kind: domain.KindRoom, IsActive: true,
		SlotGrid:        []string{"2:00 PM", "3:00 PM", "4:00 PM"},
		AllowedWeekdays: []string{"Saturday", "Sunday"},
	})
	store.PutResource(&domain.Resource{ID: "seat-1", Kind: domain.KindSeat, IsActive: true})
	store.PutResource(&domain.Resource{ID: "seat-2", Kind: domain.KindSeat, IsActive: true})
	return &fixture{store: store, tx: memory.NewTxManager(store), repo: memory.NewBookingRepository(store)}
}

func (f *fixture) book(t *testing.T, label string, hours int, ids ...string) {
	t.Helper()
	start, err := slottime.ParseSlotLabel(label, saturday)
	require.NoError(t, err)
	err = f.tx.DoSerializable(context.Background(), func(ctx context.Context) error {
		_, err := f.repo.Create(ctx, &domain.Booking{
			ResourceIDs:   ids,
			StartDateTime: start,
			DurationHours: hours,
			EndDateTime:   slottime.ComputeEndTime(start, hours, 5),
			Status:        domain.StatusConfirmed,
		})
		return err
	})
	require.NoError(t, err)
}

func (f *fixture) useCase(c AvailabilityCache) *UseCase {
	log := logger.NewNop()
	cat := catalog.NewService(memory.NewResourceRepository(f.store), []string{"10:00 AM", "11:00 AM", "12:00 PM"}, log)
	var m *metrics.Metrics
	return NewUseCase(cat, f.repo, availability.NewEngine(time.Hour), c, m, domain.DefaultMaxDurationHours, log)
}

func TestUseCase_RoomScenario(t *testing.T) {
	f := newFixture(t)
	f.book(t, "4:00 PM", 1, "room-A")
	uc := f.useCase(cache.Noop{})

	resp, err := uc.Execute(context.Background(), &Request{ResourceIDs: []string{"room-A"}, Date: saturday, DurationHours: 1})
	require.NoError(t, err)
	assert.True(t, resp.DateAvailable)
	assert.Equal(t, []string{"4:00 PM"}, resp.BlockedSlots)
	assert.False(t, resp.FullyBooked)

	resp, err = uc.Execute(context.Background(), &Request{ResourceIDs: []string{"room-A"}, Date: saturday, DurationHours: 2})
	require.NoError(t, err)
	assert.Equal(t, []string{"3:00 PM", "4:00 PM"}, resp.BlockedSlots)
}

func TestUseCase_WeekdayNotAllowed(t *testing.T) {
	f := newFixture(t)
	uc := f.useCase(cache.Noop{})

	monday := saturday.AddDate(0, 0, 2)
	resp, err := uc.Execute(context.Background(), &Request{ResourceIDs: []string{"room-A"}, Date: monday, DurationHours: 1})
	require.NoError(t, err)
	assert.False(t, resp.DateAvailable)
	assert.Empty(t, resp.BlockedSlots)
	assert.False(t, resp.FullyBooked)
}

func TestUseCase_CafeSeats(t *testing.T) {
	f := newFixture(t)
	f.book(t, "10:00 AM", 1, "seat-2")
	uc := f.useCase(cache.Noop{})

	resp, err := uc.Execute(context.Background(), &Request{
		ResourceIDs:   []string{"seat-1", "seat-2"},
		Date:          saturday,
		DurationHours: 1,
		SlotLabel:     "10:00 AM",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"10:00 AM"}, resp.BlockedSlots)
	require.Contains(t, resp.Seats, "seat-1")
	require.Contains(t, resp.Seats, "seat-2")
	assert.True(t, *resp.Seats["seat-1"].Available)
	assert.False(t, *resp.Seats["seat-2"].Available)
}

func TestUseCase_Errors(t *testing.T) {
	f := newFixture(t)
	uc := f.useCase(cache.Noop{})

	tests := []struct {
		name    string
		req     *Request
		wantErr error
	}{
		{"no resources", &Request{Date: saturday, DurationHours: 1}, ErrInvalidInput},
		{"duplicate ids", &Request{ResourceIDs: []string{"seat-1", "seat-1"}, Date: saturday, DurationHours: 1}, ErrInvalidInput},
		{"zero duration", &Request{ResourceIDs: []string{"room-A"}, Date: saturday}, ErrInvalidDuration},
		{"too long", &Request{ResourceIDs: []string{"room-A"}, Date: saturday, DurationHours: 13}, ErrInvalidDuration},
		{"bad slot", &Request{ResourceIDs: []string{"seat-1"}, Date: saturday, DurationHours: 1, SlotLabel: "noonish"}, ErrInvalidSlotFormat},
		{"unknown resource", &Request{ResourceIDs: []string{"ghost"}, Date: saturday, DurationHours: 1}, ErrResourceNotFound},
		{"room with seat", &Request{ResourceIDs: []string{"room-A", "seat-1"}, Date: saturday, DurationHours: 1}, ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Execute(context.Background(), tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

type memoCache struct {
	stored map[string]*domain.AvailabilityResult
}

func (c *memoCache) Lookup(_ context.Context, q domain.SlotQuery) (*domain.AvailabilityResult, string, bool, error) {
	token := q.ResourceIDs[0] + q.Date.Format(domain.DateFormat)
	res, ok := c.stored[token]
	return res, token, ok, nil
}

func (c *memoCache) Store(_ context.Context, token string, result *domain.AvailabilityResult) error {
	c.stored[token] = result
	return nil
}

func TestUseCase_ServesFromCache(t *testing.T) {
	f := newFixture(t)
	c := &memoCache{stored: make(map[string]*domain.AvailabilityResult)}
	uc := f.useCase(c)
	req := &Request{ResourceIDs: []string{"room-A"}, Date: saturday, DurationHours: 1}

	first, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.False(t, first.Cached)

	// Бронирование без сброса кэша не видно до инвалидации
	f.book(t, "2:00 PM", 1, "room-A")

	second, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Empty(t, second.BlockedSlots)
}
