package memory

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-VenueBooking/internal/domain"
	bookingRepo "github.com/m04kA/SMC-VenueBooking/internal/infra/storage/booking"
	resourceRepo "github.com/m04kA/SMC-VenueBooking/internal/infra/storage/resource"
)

var day = time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)

func newFixture(t *testing.T) (*Store, *TxManager, *BookingRepository) {
	t.Helper()
	store := NewStore()
	for _, id := range []string{"room-A", "seat-1", "seat-2"} {
		kind := domain.KindSeat
		if id == "room-A" {
			kind = domain.KindRoom
		}
		store.PutResource(&domain.Resource{ID: id, Kind: kind, IsActive: true, SlotGrid: []string{"2:00 PM", "3:00 PM"}})
	}
	return store, NewTxManager(store), NewBookingRepository(store)
}

func booking(start time.Time, hours int, ids ...string) *domain.Booking {
	return &domain.Booking{
		ResourceIDs:           ids,
		StartDateTime:         start,
		DurationHours:         hours,
		EndDateTime:           start.Add(time.Duration(hours)*time.Hour - 5*time.Minute),
		CleaningBufferMinutes: 5,
		Status:                domain.StatusPending,
		CustomerName:          "Ann",
	}
}

// admit повторяет шаги допуска: блокировка, проверка пересечений, создание
func admit(ctx context.Context, tm *TxManager, repo *BookingRepository, b *domain.Booking) error {
	return tm.DoSerializable(ctx, func(ctx context.Context) error {
		if err := repo.LockResources(ctx, b.ResourceIDs); err != nil {
			return err
		}
		for _, id := range b.ResourceIDs {
			existing, err := repo.ActiveBookingsFor(ctx, id, b.StartDateTime, b.EndDateTime)
			if err != nil {
				return err
			}
			if len(existing) > 0 {
				return bookingRepo.ErrSlotConflict
			}
		}
		_, err := repo.Create(ctx, b)
		return err
	})
}

func TestConcurrentAdmissions_NoDoubleBooking(t *testing.T) {
	_, tm, repo := newFixture(t)
	start := day.Add(14 * time.Hour)

	const workers = 20
	var admitted, conflicts atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := admit(context.Background(), tm, repo, booking(start, 2, "room-A"))
			switch {
			case err == nil:
				admitted.Add(1)
			case errors.Is(err, bookingRepo.ErrSlotConflict):
				conflicts.Add(1)
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), admitted.Load())
	assert.Equal(t, int32(workers-1), conflicts.Load())

	active, err := repo.ActiveBookingsFor(context.Background(), "room-A", day, day.Add(24*time.Hour))
	require.NoError(t, err)
	assert.Len(t, active, 1)
}

func TestMultiSeatAdmission_IsAtomic(t *testing.T) {
	_, tm, repo := newFixture(t)
	ctx := context.Background()
	start := day.Add(14 * time.Hour)

	require.NoError(t, admit(ctx, tm, repo, booking(start, 1, "seat-2")))

	err := admit(ctx, tm, repo, booking(start, 1, "seat-1", "seat-2"))
	assert.ErrorIs(t, err, bookingRepo.ErrSlotConflict)

	seat1, err := repo.ActiveBookingsFor(ctx, "seat-1", day, day.Add(24*time.Hour))
	require.NoError(t, err)
	assert.Empty(t, seat1)
}

func TestInsert_RechecksOverlap(t *testing.T) {
	_, tm, repo := newFixture(t)
	ctx := context.Background()
	start := day.Add(14 * time.Hour)

	require.NoError(t, admit(ctx, tm, repo, booking(start, 2, "room-A")))

	// Без проверки в коде допуска хранилище все равно отклоняет пересечение
	err := tm.DoSerializable(ctx, func(ctx context.Context) error {
		_, err := repo.Create(ctx, booking(start.Add(time.Hour), 1, "room-A"))
		return err
	})
	assert.ErrorIs(t, err, bookingRepo.ErrSlotConflict)
}

func TestRollback_RemovesCreatedBooking(t *testing.T) {
	_, tm, repo := newFixture(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := tm.DoSerializable(ctx, func(ctx context.Context) error {
		if _, err := repo.Create(ctx, booking(day.Add(14*time.Hour), 1, "room-A")); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	active, err := repo.ActiveBookingsFor(ctx, "room-A", day, day.Add(24*time.Hour))
	require.NoError(t, err)
	assert.Empty(t, active)
}

func TestCancel_FreesSlot(t *testing.T) {
	_, tm, repo := newFixture(t)
	ctx := context.Background()
	start := day.Add(14 * time.Hour)

	require.NoError(t, admit(ctx, tm, repo, booking(start, 1, "room-A")))
	require.NoError(t, repo.Cancel(ctx, 1, "changed plans"))

	cancelled, err := repo.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, cancelled.Status)
	require.NotNil(t, cancelled.CancellationReason)
	assert.Equal(t, "changed plans", *cancelled.CancellationReason)
	assert.NotNil(t, cancelled.CancelledAt)

	require.NoError(t, admit(ctx, tm, repo, booking(start, 1, "room-A")))

	all, err := repo.ListByResource(ctx, domain.ResourceBookingsFilter{ResourceID: "room-A", IncludeCancelled: true})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestLockResources(t *testing.T) {
	_, tm, repo := newFixture(t)
	ctx := context.Background()

	err := repo.LockResources(ctx, []string{"room-A"})
	assert.ErrorIs(t, err, bookingRepo.ErrTransaction)

	err = tm.DoSerializable(ctx, func(ctx context.Context) error {
		return repo.LockResources(ctx, []string{"room-A", "ghost"})
	})
	assert.ErrorIs(t, err, bookingRepo.ErrResourceNotFound)

	// Повторная блокировка в одной транзакции не приводит к взаимоблокировке
	err = tm.DoSerializable(ctx, func(ctx context.Context) error {
		if err := repo.LockResources(ctx, []string{"seat-2", "seat-1"}); err != nil {
			return err
		}
		return repo.LockResources(ctx, []string{"seat-1"})
	})
	assert.NoError(t, err)
}

func TestUpdateStatus_NotFound(t *testing.T) {
	_, _, repo := newFixture(t)
	err := repo.UpdateStatus(context.Background(), 42, domain.StatusConfirmed)
	assert.ErrorIs(t, err, bookingRepo.ErrBookingNotFound)
}

func TestResourceRepository(t *testing.T) {
	store, _, _ := newFixture(t)
	repo := NewResourceRepository(store)
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, &domain.Resource{ID: "booth-1", Kind: domain.KindBooth, IsActive: false}))

	res, err := repo.GetByID(ctx, "booth-1")
	require.NoError(t, err)
	assert.Equal(t, domain.KindBooth, res.Kind)

	_, err = repo.GetByID(ctx, "ghost")
	assert.ErrorIs(t, err, resourceRepo.ErrResourceNotFound)

	seat := domain.KindSeat
	seats, err := repo.List(ctx, &seat, true)
	require.NoError(t, err)
	require.Len(t, seats, 2)
	assert.Equal(t, "seat-1", seats[0].ID)

	all, err := repo.List(ctx, nil, true)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	bad := domain.ResourceKind("pool")
	_, err = repo.List(ctx, &bad, false)
	assert.ErrorIs(t, err, resourceRepo.ErrInvalidKind)
}
