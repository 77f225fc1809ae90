package bookings

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/m04kA/SMC-VenueBooking/internal/domain"
	bookingRepo "github.com/m04kA/SMC-VenueBooking/internal/infra/storage/booking"
	"github.com/m04kA/SMC-VenueBooking/internal/service/bookings/models"
	"github.com/m04kA/SMC-VenueBooking/internal/service/catalog"
)

// Service сервис для работы с бронированиями: просмотр и смена статусов персоналом
type Service struct {
	bookingRepo BookingRepository
	catalog     ResourceCatalog
	txManager   TransactionManager
	notifier    AvailabilityNotifier
	metrics     MetricsRecorder
	logger      Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	catalog ResourceCatalog,
	txManager TransactionManager,
	notifier AvailabilityNotifier,
	metrics MetricsRecorder,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo: bookingRepo,
		catalog:     catalog,
		txManager:   txManager,
		notifier:    notifier,
		metrics:     metrics,
		logger:      logger,
	}
}

// GetByID получает бронирование по ID
func (s *Service) GetByID(ctx context.Context, id int64) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%d", id)

	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("GetByID: booking id=%d not found", id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("GetByID: repository error for booking id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainBooking(booking), nil
}

// ListResourceBookings получает бронирования ресурса (для персонала)
// По умолчанию отмененные бронирования не возвращаются
func (s *Service) ListResourceBookings(ctx context.Context, req *models.ListResourceBookingsRequest) (*models.BookingListResponse, error) {
	logMsg := fmt.Sprintf("ListResourceBookings: fetching bookings for resource=%s", req.ResourceID)
	if req.Date != nil {
		logMsg += fmt.Sprintf(", date=%s", req.Date.Format(domain.DateFormat))
	}
	if req.IncludeCancelled {
		logMsg += ", includeCancelled=true"
	}
	s.logger.Info(logMsg)

	if strings.TrimSpace(req.ResourceID) == "" {
		return nil, fmt.Errorf("%w: resourceId is required", ErrInvalidInput)
	}

	if _, err := s.catalog.Resolve(ctx, req.ResourceID); err != nil {
		if errors.Is(err, catalog.ErrResourceNotFound) {
			s.logger.Warn("ListResourceBookings: resource=%s not found", req.ResourceID)
			return nil, ErrResourceNotFound
		}
		return nil, fmt.Errorf("%w: ListResourceBookings - catalog error: %v", ErrInternal, err)
	}

	bookings, err := s.bookingRepo.ListByResource(ctx, req.ToDomainFilter())
	if err != nil {
		s.logger.Error("ListResourceBookings: repository error for resource=%s: %v", req.ResourceID, err)
		return nil, fmt.Errorf("%w: ListResourceBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ListResourceBookings: fetched %d bookings for resource=%s", len(bookings), req.ResourceID)
	return models.FromDomainBookingList(bookings), nil
}

// Confirm подтверждает бронирование (pending -> confirmed)
func (s *Service) Confirm(ctx context.Context, bookingID int64) (*models.BookingResponse, error) {
	return s.transition(ctx, bookingID, domain.StatusConfirmed, "")
}

// Complete завершает бронирование (confirmed -> completed)
func (s *Service) Complete(ctx context.Context, bookingID int64) (*models.BookingResponse, error) {
	return s.transition(ctx, bookingID, domain.StatusCompleted, "")
}

// Cancel отменяет бронирование (pending|confirmed -> cancelled) и освобождает его интервал
func (s *Service) Cancel(ctx context.Context, bookingID int64, req *models.CancelBookingRequest) (*models.BookingResponse, error) {
	reason := strings.TrimSpace(req.CancellationReason)
	if utf8.RuneCountInString(reason) > domain.MaxCancellationReasonLength {
		s.logger.Warn("Cancel: reason too long for booking id=%d", bookingID)
		return nil, fmt.Errorf("%w: cancellationReason must be at most %d characters",
			ErrInvalidInput, domain.MaxCancellationReasonLength)
	}

	return s.transition(ctx, bookingID, domain.StatusCancelled, reason)
}

// transition выполняет смену статуса в транзакции: чтение с блокировкой строки,
// проверка допустимости перехода и запись
func (s *Service) transition(ctx context.Context, bookingID int64, next domain.BookingStatus, reason string) (*models.BookingResponse, error) {
	s.logger.Info("UpdateStatus: moving booking id=%d to status=%s", bookingID, next)

	var result *domain.Booking

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		booking, err := s.bookingRepo.GetByID(txCtx, bookingID)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return ErrBookingNotFound
			}
			return fmt.Errorf("%w: UpdateStatus - get booking: %v", ErrInternal, err)
		}

		if !booking.CanTransitionTo(next) {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, booking.Status, next)
		}

		if next == domain.StatusCancelled {
			err = s.bookingRepo.Cancel(txCtx, bookingID, reason)
		} else {
			err = s.bookingRepo.UpdateStatus(txCtx, bookingID, next)
		}
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return ErrBookingNotFound
			}
			return fmt.Errorf("%w: UpdateStatus - write status: %v", ErrInternal, err)
		}

		updated, err := s.bookingRepo.GetByID(txCtx, bookingID)
		if err != nil {
			return fmt.Errorf("%w: UpdateStatus - reload booking: %v", ErrInternal, err)
		}

		result = updated
		return nil
	})

	if err != nil {
		switch {
		case errors.Is(err, ErrBookingNotFound):
			s.logger.Warn("UpdateStatus: booking id=%d not found", bookingID)
		case errors.Is(err, ErrInvalidTransition):
			s.logger.Warn("UpdateStatus: booking id=%d: %v", bookingID, err)
		default:
			s.logger.Error("UpdateStatus: failed for booking id=%d: %v", bookingID, err)
		}
		return nil, err
	}

	s.notifier.BookingChanged(ctx, result)
	s.metrics.RecordTransition(string(next))

	s.logger.Info("UpdateStatus: booking id=%d is now %s", bookingID, result.Status)
	return models.FromDomainBooking(result), nil
}
