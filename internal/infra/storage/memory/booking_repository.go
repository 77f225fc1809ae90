package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/m04kA/SMC-VenueBooking/internal/domain"
	bookingRepo "github.com/m04kA/SMC-VenueBooking/internal/infra/storage/booking"
)

// BookingRepository репозиторий бронирований поверх Store
type BookingRepository struct {
	store *Store
}

// NewBookingRepository создает репозиторий бронирований в памяти
func NewBookingRepository(store *Store) *BookingRepository {
	return &BookingRepository{store: store}
}

// Create сохраняет бронирование; внутри транзакции запись удаляется при откате
func (r *BookingRepository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	tx, ok := txFromContext(ctx)
	if !ok {
		return nil, fmt.Errorf("%w: Create", bookingRepo.ErrTransaction)
	}

	created, err := r.store.insert(booking)
	if err != nil {
		return nil, err
	}
	tx.created = append(tx.created, created.ID)

	return created, nil
}

// GetByID получает бронирование по ID
func (r *BookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	b, ok := r.store.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrBookingNotFound
	}
	return copyBooking(b), nil
}

// ActiveBookingsFor возвращает не отмененные бронирования ресурса, пересекающие [from, to)
func (r *BookingRepository) ActiveBookingsFor(ctx context.Context, resourceID string, from, to time.Time) ([]*domain.Booking, error) {
	return r.ListByResource(ctx, domain.ResourceBookingsFilter{
		ResourceID: resourceID,
		From:       &from,
		To:         &to,
	})
}

// ListByResource получает бронирования ресурса с фильтрацией
func (r *BookingRepository) ListByResource(ctx context.Context, filter domain.ResourceBookingsFilter) ([]*domain.Booking, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	result := make([]*domain.Booking, 0)
	for _, id := range r.store.byResource[filter.ResourceID] {
		b := r.store.bookings[id]

		if filter.To != nil && !b.StartDateTime.Before(*filter.To) {
			continue
		}
		if filter.From != nil && !b.EndDateTime.After(*filter.From) {
			continue
		}
		if filter.Status != nil {
			if b.Status != *filter.Status {
				continue
			}
		} else if !filter.IncludeCancelled && !b.IsActive() {
			continue
		}

		result = append(result, copyBooking(b))
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].StartDateTime.Equal(result[j].StartDateTime) {
			return result[i].ID < result[j].ID
		}
		return result[i].StartDateTime.Before(result[j].StartDateTime)
	})

	return result, nil
}

// LockResources захватывает мьютексы ресурсов в порядке ID до конца транзакции
func (r *BookingRepository) LockResources(ctx context.Context, resourceIDs []string) error {
	tx, ok := txFromContext(ctx)
	if !ok {
		return fmt.Errorf("%w: LockResources", bookingRepo.ErrTransaction)
	}

	ids := sortedUnique(resourceIDs)

	r.store.mu.RLock()
	for _, id := range ids {
		if _, ok := r.store.resources[id]; !ok {
			r.store.mu.RUnlock()
			return errResourceNotFound(id)
		}
	}
	r.store.mu.RUnlock()

	for _, id := range ids {
		tx.lock(id, r.store.resourceLock(id))
	}

	return nil
}

// UpdateStatus обновляет статус бронирования
func (r *BookingRepository) UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	b, ok := r.store.bookings[id]
	if !ok {
		return bookingRepo.ErrBookingNotFound
	}
	b.Status = status
	b.UpdatedAt = r.store.now()

	return nil
}

// Cancel отменяет бронирование с указанием причины
func (r *BookingRepository) Cancel(ctx context.Context, id int64, reason string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	b, ok := r.store.bookings[id]
	if !ok {
		return bookingRepo.ErrBookingNotFound
	}

	now := r.store.now()
	b.Status = domain.StatusCancelled
	b.CancellationReason = &reason
	b.CancelledAt = &now
	b.UpdatedAt = now

	return nil
}
