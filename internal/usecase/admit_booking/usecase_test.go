package admit_booking

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-VenueBooking/internal/domain"
	"github.com/m04kA/SMC-VenueBooking/internal/infra/storage/memory"
	"github.com/m04kA/SMC-VenueBooking/internal/integrations/backoffice"
	"github.com/m04kA/SMC-VenueBooking/internal/service/availability"
	"github.com/m04kA/SMC-VenueBooking/internal/service/catalog"
	"github.com/m04kA/SMC-VenueBooking/pkg/logger"
	"github.com/m04kA/SMC-VenueBooking/pkg/metrics"
	"github.com/m04kA/SMC-VenueBooking/pkg/ptr"
)

var saturday = time.Date(2025, time.July, 26, 0, 0, 0, 0, time.UTC)

type recordingNotifier struct {
	mu      sync.Mutex
	changed []*domain.Booking
}

func (n *recordingNotifier) BookingChanged(_ context.Context, b *domain.Booking) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.changed = append(n.changed, b)
}

type recordingBackoffice struct {
	mu   sync.Mutex
	sent []backoffice.BookingNotification
}

func (b *recordingBackoffice) NotifyBookingCreated(_ context.Context, n backoffice.BookingNotification) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sent = append(b.sent, n)
}

type fixture struct {
	repo      *memory.BookingRepository
	notifier  *recordingNotifier
	backoffic *recordingBackoffice
	uc        *UseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	store.PutResource(&domain.Resource{
		ID: "room-A", Kind: domain.KindRoom, IsActive: true, PricePerHour: 25,
		SlotGrid:        []string{"2:00 PM", "3:00 PM", "4:00 PM", "5:00 PM", "6:00 PM"},
		AllowedWeekdays: []string{"Saturday", "Sunday"},
	})
	store.PutResource(&domain.Resource{ID: "seat-1", Kind: domain.KindSeat, IsActive: true})
	store.PutResource(&domain.Resource{ID: "seat-2", Kind: domain.KindSeat, IsActive: true})
	store.PutResource(&domain.Resource{ID: "booth-old", Kind: domain.KindBooth, IsActive: false, SlotGrid: []string{"6:00 PM"}})

	log := logger.NewNop()
	repo := memory.NewBookingRepository(store)
	f := &fixture{repo: repo, notifier: &recordingNotifier{}, backoffic: &recordingBackoffice{}}

	var m *metrics.Metrics
	f.uc = NewUseCase(
		catalog.NewService(memory.NewResourceRepository(store), []string{"10:00 AM", "11:00 AM"}, log),
		repo,
		availability.NewEngine(time.Hour),
		memory.NewTxManager(store),
		f.notifier,
		f.backoffic,
		m,
		Config{CleaningBufferMinutes: 5, MaxDurationHours: 12},
		log,
	)
	return f
}

func roomRequest(slot string, hours int) *Request {
	return &Request{
		ResourceIDs:   []string{"room-A"},
		Date:          saturday,
		SlotLabel:     slot,
		DurationHours: hours,
		CustomerName:  "Ann",
		CustomerPhone: ptr.Ptr("+1 555 0100"),
	}
}

func TestUseCase_AdmitsPaidRoomAsPending(t *testing.T) {
	f := newFixture(t)

	resp, err := f.uc.Execute(context.Background(), roomRequest("5:00 PM", 2))
	require.NoError(t, err)

	assert.Equal(t, "pending", resp.Status)
	assert.Equal(t, 50.0, resp.TotalPrice)
	assert.Equal(t, time.Date(2025, time.July, 26, 17, 0, 0, 0, time.UTC), resp.StartDateTime)
	assert.Equal(t, time.Date(2025, time.July, 26, 18, 55, 0, 0, time.UTC), resp.EndDateTime)
	assert.Equal(t, 5, resp.CleaningBufferMinutes)

	require.Len(t, f.notifier.changed, 1)
	require.Len(t, f.backoffic.sent, 1)
	assert.Equal(t, resp.ID, f.backoffic.sent[0].BookingID)
}

func TestUseCase_FreeSeatsAreConfirmed(t *testing.T) {
	f := newFixture(t)

	resp, err := f.uc.Execute(context.Background(), &Request{
		ResourceIDs:   []string{"seat-2", "seat-1"},
		Date:          saturday,
		SlotLabel:     "10:00 AM",
		DurationHours: 1,
		CustomerName:  "Bo",
	})
	require.NoError(t, err)
	assert.Equal(t, "confirmed", resp.Status)
	assert.Equal(t, 0.0, resp.TotalPrice)
	assert.ElementsMatch(t, []string{"seat-1", "seat-2"}, resp.ResourceIDs)
}

func TestUseCase_ConflictingAdmission(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.uc.Execute(ctx, roomRequest("4:00 PM", 1))
	require.NoError(t, err)

	// [15:00, 16:55) пересекает [16:00, 16:55)
	_, err = f.uc.Execute(ctx, roomRequest("3:00 PM", 2))
	assert.ErrorIs(t, err, ErrSlotConflict)

	// Граница полуинтервала: 2:00 PM на 1 час заканчивается в 14:55
	_, err = f.uc.Execute(ctx, roomRequest("2:00 PM", 1))
	assert.NoError(t, err)

	// Буфер уборки освобождает следующий час: 5:00 PM начинается после 16:55
	_, err = f.uc.Execute(ctx, roomRequest("5:00 PM", 1))
	assert.NoError(t, err)

	assert.Len(t, f.notifier.changed, 3)
}

func TestUseCase_MultiSeatConflictWritesNothing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.uc.Execute(ctx, &Request{
		ResourceIDs: []string{"seat-2"}, Date: saturday, SlotLabel: "10:00 AM", DurationHours: 1, CustomerName: "A",
	})
	require.NoError(t, err)

	_, err = f.uc.Execute(ctx, &Request{
		ResourceIDs: []string{"seat-1", "seat-2"}, Date: saturday, SlotLabel: "10:00 AM", DurationHours: 1, CustomerName: "B",
	})
	assert.ErrorIs(t, err, ErrSlotConflict)

	seat1, err := f.repo.ActiveBookingsFor(ctx, "seat-1", saturday, saturday.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Empty(t, seat1)
}

func TestUseCase_ConcurrentAdmissionsAdmitExactlyOne(t *testing.T) {
	f := newFixture(t)

	const workers = 16
	results := make(chan error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.uc.Execute(context.Background(), roomRequest("6:00 PM", 1))
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	admitted := 0
	for err := range results {
		if err == nil {
			admitted++
			continue
		}
		assert.True(t, errors.Is(err, ErrSlotConflict), "unexpected error: %v", err)
	}
	assert.Equal(t, 1, admitted)
}

func TestUseCase_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(r *Request)
		wantErr error
	}{
		{"zero duration", func(r *Request) { r.DurationHours = 0 }, ErrInvalidDuration},
		{"over max duration", func(r *Request) { r.DurationHours = 13 }, ErrInvalidDuration},
		{"no resources", func(r *Request) { r.ResourceIDs = nil }, ErrInvalidInput},
		{"duplicate resources", func(r *Request) { r.ResourceIDs = []string{"seat-1", "seat-1"} }, ErrInvalidInput},
		{"missing name", func(r *Request) { r.CustomerName = " " }, ErrInvalidInput},
		{"malformed slot", func(r *Request) { r.SlotLabel = "25:99" }, ErrInvalidSlotFormat},
		{"slot outside grid", func(r *Request) { r.SlotLabel = "9:00 AM" }, ErrInvalidTimeSlot},
		{"weekday not allowed", func(r *Request) { r.Date = saturday.AddDate(0, 0, 2) }, ErrDateUnavailable},
		{"unknown resource", func(r *Request) { r.ResourceIDs = []string{"ghost"} }, ErrResourceNotFound},
		{"inactive resource", func(r *Request) { r.ResourceIDs = []string{"booth-old"}; r.SlotLabel = "6:00 PM" }, ErrResourceNotFound},
		{"room with seat", func(r *Request) { r.ResourceIDs = []string{"room-A", "seat-1"} }, ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			req := roomRequest("2:00 PM", 1)
			tt.mutate(req)

			_, err := f.uc.Execute(context.Background(), req)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, f.notifier.changed)
			assert.Empty(t, f.backoffic.sent)
		})
	}
}

func TestAdmissionResult(t *testing.T) {
	assert.Equal(t, metrics.AdmissionConflict, admissionResult(ErrSlotConflict))
	assert.Equal(t, metrics.AdmissionError, admissionResult(ErrInternal))
	assert.Equal(t, metrics.AdmissionRejected, admissionResult(ErrDateUnavailable))
}
