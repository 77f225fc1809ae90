package get_availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-VenueBooking/internal/domain"
	"github.com/m04kA/SMC-VenueBooking/internal/service/availability"
	"github.com/m04kA/SMC-VenueBooking/internal/service/catalog"
	"github.com/m04kA/SMC-VenueBooking/pkg/metrics"
	"github.com/m04kA/SMC-VenueBooking/pkg/slottime"
)

// UseCase use case для расчета доступных слотов ресурса на дату
type UseCase struct {
	catalog          ResourceCatalog
	bookingRepo      BookingRepository
	engine           *availability.Engine
	cache            AvailabilityCache
	metrics          MetricsRecorder
	maxDurationHours int
	logger           Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	catalog ResourceCatalog,
	bookingRepo BookingRepository,
	engine *availability.Engine,
	cache AvailabilityCache,
	metrics MetricsRecorder,
	maxDurationHours int,
	logger Logger,
) *UseCase {
	return &UseCase{
		catalog:          catalog,
		bookingRepo:      bookingRepo,
		engine:           engine,
		cache:            cache,
		metrics:          metrics,
		maxDurationHours: maxDurationHours,
		logger:           logger,
	}
}

// Execute выполняет use case получения доступности
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailability: resources=%v, date=%s, duration=%d, slot=%q",
		req.ResourceIDs, req.Date.Format(domain.DateFormat), req.DurationHours, req.SlotLabel)

	// 1. Валидация входных данных
	if err := validateRequest(req, uc.maxDurationHours); err != nil {
		uc.logger.Warn("GetAvailability: validation failed: %v", err)
		return nil, err
	}

	date := slottime.StartOfDay(req.Date)

	// 2. Получаем ресурсы из каталога
	resources, err := uc.catalog.ResolveMany(ctx, req.ResourceIDs)
	if err != nil {
		if errors.Is(err, catalog.ErrResourceNotFound) {
			uc.logger.Warn("GetAvailability: %v", err)
			return nil, fmt.Errorf("%w: %v", ErrResourceNotFound, err)
		}
		uc.logger.Error("GetAvailability: failed to resolve resources: %v", err)
		return nil, fmt.Errorf("%w: failed to resolve resources: %v", ErrInternal, err)
	}

	// 3. Несколько ресурсов допустимы только для мест кафе
	if len(resources) > 1 {
		for _, r := range resources {
			if r.Kind != domain.KindSeat {
				uc.logger.Warn("GetAvailability: multi-resource query includes non-seat resource=%s", r.ID)
				return nil, fmt.Errorf("%w: only café seats can be queried together", ErrInvalidInput)
			}
		}
	}

	query := domain.SlotQuery{
		ResourceIDs:   req.ResourceIDs,
		Date:          date,
		DurationHours: req.DurationHours,
		SlotLabel:     req.SlotLabel,
	}

	// 4. Пробуем кэш
	cached, token, hit, err := uc.cache.Lookup(ctx, query)
	if err != nil {
		uc.logger.Warn("GetAvailability: cache lookup failed: %v", err)
	}
	if hit {
		uc.metrics.RecordCacheLookup(metrics.CacheHit)
		return toResponse(req, date, cached, true), nil
	}
	uc.metrics.RecordCacheLookup(metrics.CacheMiss)

	// 5. Загружаем активные бронирования за окно дня (только если день разрешен)
	bookings := make(map[string][]*domain.Booking, len(resources))
	if allAvailableOn(resources, date) {
		bookings, err = uc.loadBookings(ctx, resources, date, req.DurationHours)
		if err != nil {
			return nil, err
		}
	}

	// 6. Считаем доступность
	result, err := uc.engine.Evaluate(availability.Input{
		Resources:     resources,
		Bookings:      bookings,
		Date:          date,
		DurationHours: req.DurationHours,
		SlotLabel:     req.SlotLabel,
		OnMalformedLabel: func(resourceID, label string, err error) {
			uc.logger.Warn("GetAvailability: skipping malformed slot %q of resource=%s: %v", label, resourceID, err)
		},
	})
	if err != nil {
		if errors.Is(err, availability.ErrInvalidDuration) {
			return nil, ErrInvalidDuration
		}
		uc.logger.Error("GetAvailability: engine failed: %v", err)
		return nil, fmt.Errorf("%w: engine failed: %v", ErrInternal, err)
	}

	// 7. Сохраняем в кэш
	if err := uc.cache.Store(ctx, token, result); err != nil {
		uc.logger.Warn("GetAvailability: cache store failed: %v", err)
	}

	uc.logger.Info("GetAvailability: %d blocked slots, fullyBooked=%t, dateAvailable=%t",
		len(result.BlockedSlots), result.FullyBooked, result.DateAvailable)

	return toResponse(req, date, result, false), nil
}

// loadBookings загружает бронирования каждого ресурса за окно
// [начало дня, конец дня + длительность), чтобы учесть интервалы через полночь
func (uc *UseCase) loadBookings(
	ctx context.Context,
	resources []*domain.Resource,
	date time.Time,
	durationHours int,
) (map[string][]*domain.Booking, error) {
	from := date
	to := date.AddDate(0, 0, 1).Add(time.Duration(durationHours) * time.Hour)

	result := make(map[string][]*domain.Booking, len(resources))
	for _, r := range resources {
		bookings, err := uc.bookingRepo.ActiveBookingsFor(ctx, r.ID, from, to)
		if err != nil {
			uc.logger.Error("GetAvailability: failed to load bookings for resource=%s: %v", r.ID, err)
			return nil, fmt.Errorf("%w: failed to load bookings: %v", ErrInternal, err)
		}
		result[r.ID] = bookings
	}

	return result, nil
}

func allAvailableOn(resources []*domain.Resource, date time.Time) bool {
	for _, r := range resources {
		if !r.IsAvailableOn(date) {
			return false
		}
	}
	return true
}

func toResponse(req *Request, date time.Time, result *domain.AvailabilityResult, cached bool) *Response {
	resp := &Response{
		Date:          date,
		ResourceIDs:   req.ResourceIDs,
		DurationHours: req.DurationHours,
		DateAvailable: result.DateAvailable,
		BlockedSlots:  result.BlockedSlots,
		FullyBooked:   result.FullyBooked,
		Cached:        cached,
	}

	if result.Seats != nil {
		resp.Seats = make(map[string]SeatAvailability, len(result.Seats))
		for id, seat := range result.Seats {
			resp.Seats[id] = SeatAvailability{
				BlockedSlots: seat.BlockedSlots,
				FullyBooked:  seat.FullyBooked,
				Available:    seat.Available,
			}
		}
	}

	return resp
}
