package admit_booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-VenueBooking/internal/domain"
	bookingRepo "github.com/m04kA/SMC-VenueBooking/internal/infra/storage/booking"
	"github.com/m04kA/SMC-VenueBooking/internal/integrations/backoffice"
	"github.com/m04kA/SMC-VenueBooking/internal/service/availability"
	"github.com/m04kA/SMC-VenueBooking/internal/service/catalog"
	"github.com/m04kA/SMC-VenueBooking/pkg/metrics"
	"github.com/m04kA/SMC-VenueBooking/pkg/slottime"
)

// UseCase use case для допуска бронирования
type UseCase struct {
	catalog     ResourceCatalog
	bookingRepo BookingRepository
	engine      *availability.Engine
	txManager   TransactionManager
	notifier    AvailabilityNotifier
	backoffice  BackofficeClient
	metrics     MetricsRecorder
	cfg         Config
	logger      Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	catalog ResourceCatalog,
	bookingRepo BookingRepository,
	engine *availability.Engine,
	txManager TransactionManager,
	notifier AvailabilityNotifier,
	backoffice BackofficeClient,
	metrics MetricsRecorder,
	cfg Config,
	logger Logger,
) *UseCase {
	if cfg.CleaningBufferMinutes < 0 {
		cfg.CleaningBufferMinutes = domain.DefaultCleaningBufferMinutes
	}
	if cfg.MaxDurationHours <= 0 {
		cfg.MaxDurationHours = domain.DefaultMaxDurationHours
	}

	return &UseCase{
		catalog:     catalog,
		bookingRepo: bookingRepo,
		engine:      engine,
		txManager:   txManager,
		notifier:    notifier,
		backoffice:  backoffice,
		metrics:     metrics,
		cfg:         cfg,
		logger:      logger,
	}
}

// Execute выполняет use case допуска бронирования
// Проверка пересечений и запись выполняются в одной сериализуемой транзакции
// под блокировкой всех ресурсов бронирования
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("AdmitBooking: resources=%v, date=%s, slot=%q, duration=%d",
		req.ResourceIDs, req.Date.Format(domain.DateFormat), req.SlotLabel, req.DurationHours)

	result, err := uc.admit(ctx, req)
	if err != nil {
		uc.metrics.RecordAdmission(admissionResult(err))
		return nil, err
	}
	uc.metrics.RecordAdmission(metrics.AdmissionAdmitted)

	uc.logger.Info("AdmitBooking: successfully admitted booking id=%d, status=%s", result.ID, result.Status)

	// Изменение видно следующим запросам доступности сразу после коммита
	uc.notifier.BookingChanged(ctx, result)
	uc.backoffice.NotifyBookingCreated(ctx, toNotification(result))

	return toResponse(result), nil
}

func (uc *UseCase) admit(ctx context.Context, req *Request) (*domain.Booking, error) {
	// 1. Валидация входных данных
	if err := validateRequest(req, uc.cfg.MaxDurationHours); err != nil {
		uc.logger.Warn("AdmitBooking: validation failed: %v", err)
		return nil, err
	}

	date := slottime.StartOfDay(req.Date)

	// 2. Получаем ресурсы из каталога
	resources, err := uc.catalog.ResolveMany(ctx, req.ResourceIDs)
	if err != nil {
		if errors.Is(err, catalog.ErrResourceNotFound) {
			uc.logger.Warn("AdmitBooking: %v", err)
			return nil, fmt.Errorf("%w: %v", ErrResourceNotFound, err)
		}
		uc.logger.Error("AdmitBooking: failed to resolve resources: %v", err)
		return nil, fmt.Errorf("%w: failed to resolve resources: %v", ErrInternal, err)
	}

	// 3. Состав, день недели и слот по сетке
	if err := validateResources(resources, req); err != nil {
		uc.logger.Warn("AdmitBooking: %v", err)
		return nil, err
	}

	// 4. Интервал вычисляется на сервере, данные клиента не используются
	start, err := slottime.ParseSlotLabel(strings.TrimSpace(req.SlotLabel), date)
	if err != nil {
		uc.logger.Warn("AdmitBooking: failed to parse slot %q: %v", req.SlotLabel, err)
		return nil, fmt.Errorf("%w: %q", ErrInvalidSlotFormat, req.SlotLabel)
	}
	end := slottime.ComputeEndTime(start, req.DurationHours, uc.cfg.CleaningBufferMinutes)
	windowEnd := start.Add(time.Duration(req.DurationHours) * time.Hour)

	var created *domain.Booking

	// 5. Проверка и запись в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 5.1. Блокируем все ресурсы в порядке ID
		if err := uc.bookingRepo.LockResources(txCtx, req.ResourceIDs); err != nil {
			if errors.Is(err, bookingRepo.ErrResourceNotFound) {
				return fmt.Errorf("%w: %v", ErrResourceNotFound, err)
			}
			return fmt.Errorf("%w: failed to lock resources: %w", ErrInternal, err)
		}

		// 5.2. Та же проверка окон, что и при расчете доступности
		for _, r := range resources {
			bookings, err := uc.bookingRepo.ActiveBookingsFor(txCtx, r.ID, start, windowEnd)
			if err != nil {
				return fmt.Errorf("%w: failed to load bookings: %w", ErrInternal, err)
			}

			if uc.engine.IsBlocked(start, req.DurationHours, bookings) {
				return fmt.Errorf("%w: %s at %s", ErrSlotConflict, r.ID, req.SlotLabel)
			}
		}

		// 5.3. Создаем бронирование со всеми ресурсами одной записью
		booking := &domain.Booking{
			ResourceIDs:           req.ResourceIDs,
			StartDateTime:         start,
			DurationHours:         req.DurationHours,
			EndDateTime:           end,
			CleaningBufferMinutes: uc.cfg.CleaningBufferMinutes,
			Status:                initialStatus(resources),
			TotalPrice:            totalPrice(resources, req.DurationHours),
			CustomerName:          strings.TrimSpace(req.CustomerName),
			CustomerPhone:         req.CustomerPhone,
			Notes:                 req.Notes,
		}

		result, err := uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			switch {
			case errors.Is(err, bookingRepo.ErrSlotConflict):
				return fmt.Errorf("%w: %v", ErrSlotConflict, err)
			case errors.Is(err, bookingRepo.ErrResourceNotFound):
				return fmt.Errorf("%w: %v", ErrResourceNotFound, err)
			}
			return fmt.Errorf("%w: failed to create booking: %w", ErrInternal, err)
		}

		created = result
		return nil
	})

	if err != nil {
		if errors.Is(err, ErrSlotConflict) || errors.Is(err, ErrResourceNotFound) {
			uc.logger.Warn("AdmitBooking: rejected: %v", err)
		} else {
			uc.logger.Error("AdmitBooking: transaction failed: %v", err)
		}
		return nil, err
	}

	return created, nil
}

// admissionResult метка метрики для отказа в допуске
func admissionResult(err error) string {
	switch {
	case errors.Is(err, ErrSlotConflict):
		return metrics.AdmissionConflict
	case errors.Is(err, ErrInternal):
		return metrics.AdmissionError
	default:
		return metrics.AdmissionRejected
	}
}

func toResponse(b *domain.Booking) *Response {
	return &Response{
		ID:                    b.ID,
		ResourceIDs:           b.ResourceIDs,
		StartDateTime:         b.StartDateTime,
		EndDateTime:           b.EndDateTime,
		DurationHours:         b.DurationHours,
		CleaningBufferMinutes: b.CleaningBufferMinutes,
		Status:                string(b.Status),
		TotalPrice:            b.TotalPrice,
		CustomerName:          b.CustomerName,
		CustomerPhone:         b.CustomerPhone,
		Notes:                 b.Notes,
		CreatedAt:             b.CreatedAt,
		UpdatedAt:             b.UpdatedAt,
	}
}

func toNotification(b *domain.Booking) backoffice.BookingNotification {
	return backoffice.BookingNotification{
		BookingID:     b.ID,
		ResourceIDs:   b.ResourceIDs,
		StartDateTime: b.StartDateTime.Format(time.RFC3339),
		EndDateTime:   b.EndDateTime.Format(time.RFC3339),
		DurationHours: b.DurationHours,
		Status:        string(b.Status),
		TotalPrice:    b.TotalPrice,
		CustomerName:  b.CustomerName,
		CustomerPhone: b.CustomerPhone,
	}
}
