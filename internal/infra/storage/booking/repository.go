package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-VenueBooking/internal/domain"
	"github.com/m04kA/SMC-VenueBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-VenueBooking/pkg/psqlbuilder"
)

// SQLSTATE ошибок PostgreSQL, которые маппятся на доменные ошибки
const (
	codeExclusionViolation  pq.ErrorCode = "23P01"
	codeForeignKeyViolation pq.ErrorCode = "23503"
)

// bookingColumns колонки бронирования; resource_ids собирается из booking_resources
var bookingColumns = []string{
	"b.id",
	"ARRAY(SELECT x.resource_id FROM booking_resources x WHERE x.booking_id = b.id ORDER BY x.resource_id) AS resource_ids",
	"b.start_date_time",
	"b.duration_hours",
	"b.end_date_time",
	"b.cleaning_buffer_minutes",
	"b.status",
	"b.total_price",
	"b.customer_name",
	"b.customer_phone",
	"b.notes",
	"b.cancellation_reason",
	"b.cancelled_at",
	"b.created_at",
	"b.updated_at",
}

// Repository репозиторий для работы с бронированиями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает бронирование и связи со всеми его ресурсами
// Требует транзакцию в контексте: строка бронирования и связи пишутся одной единицей.
// Пересечение с активным бронированием ресурса отсекается exclusion constraint
// на booking_resources и возвращается как ErrSlotConflict.
func (r *Repository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	if !dbmetrics.IsInTransaction(ctx) {
		return nil, fmt.Errorf("%w: Create", ErrTransaction)
	}
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("bookings").
		Columns(
			"start_date_time",
			"duration_hours",
			"end_date_time",
			"cleaning_buffer_minutes",
			"status",
			"total_price",
			"customer_name",
			"customer_phone",
			"notes",
		).
		Values(
			booking.StartDateTime,
			booking.DurationHours,
			booking.EndDateTime,
			booking.CleaningBufferMinutes,
			booking.Status,
			booking.TotalPrice,
			booking.CustomerName,
			booking.CustomerPhone,
			booking.Notes,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&booking.ID,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, mapWriteError("Create - execute insert", err)
	}

	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	// Связи бронирования с ресурсами
	linkBuilder := psqlbuilder.Insert("booking_resources").
		Columns("booking_id", "resource_id", "start_date_time", "end_date_time", "active")
	for _, resourceID := range booking.ResourceIDs {
		linkBuilder = linkBuilder.Values(booking.ID, resourceID, booking.StartDateTime, booking.EndDateTime, true)
	}

	query, args, err = linkBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build links query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return nil, mapWriteError("Create - insert links", err)
	}

	return booking, nil
}

// GetByID получает бронирование по ID
// Внутри транзакции строка блокируется (FOR UPDATE) для смены статуса
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings b").
		Where(squirrel.Eq{"b.id": id})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE OF b")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan booking: %v", ErrScanRow, err)
	}

	return booking, nil
}

// ActiveBookingsFor возвращает не отмененные бронирования ресурса,
// интервал которых пересекается с [from, to)
func (r *Repository) ActiveBookingsFor(ctx context.Context, resourceID string, from, to time.Time) ([]*domain.Booking, error) {
	return r.ListByResource(ctx, domain.ResourceBookingsFilter{
		ResourceID: resourceID,
		From:       &from,
		To:         &to,
	})
}

// ListByResource получает бронирования ресурса с фильтрацией
// По умолчанию отмененные бронирования исключаются
func (r *Repository) ListByResource(ctx context.Context, filter domain.ResourceBookingsFilter) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings b").
		Where(squirrel.Expr(
			"EXISTS (SELECT 1 FROM booking_resources br WHERE br.booking_id = b.id AND br.resource_id = ?)",
			filter.ResourceID,
		))

	// Пересечение полуинтервалов: start < to AND end > from
	if filter.To != nil {
		selectBuilder = selectBuilder.Where(squirrel.Lt{"b.start_date_time": *filter.To})
	}
	if filter.From != nil {
		selectBuilder = selectBuilder.Where(squirrel.Gt{"b.end_date_time": *filter.From})
	}

	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"b.status": string(*filter.Status)})
	} else if !filter.IncludeCancelled {
		inactive := make([]string, len(domain.InactiveStatuses))
		for i, s := range domain.InactiveStatuses {
			inactive[i] = string(s)
		}
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"b.status": inactive})
	}

	query, args, err := selectBuilder.OrderBy("b.start_date_time ASC", "b.id ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByResource - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByResource - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// LockResources блокирует строки ресурсов (FOR UPDATE) в порядке ID
// Сериализует допуск бронирований на один ресурс; разные ресурсы не мешают друг другу
func (r *Repository) LockResources(ctx context.Context, resourceIDs []string) error {
	if !dbmetrics.IsInTransaction(ctx) {
		return fmt.Errorf("%w: LockResources", ErrTransaction)
	}
	executor := dbmetrics.GetExecutor(ctx, r.db)

	ids := uniqueSorted(resourceIDs)

	query, args, err := psqlbuilder.Select("id").
		From("resources").
		Where(squirrel.Eq{"id": ids}).
		OrderBy("id").
		Suffix("FOR UPDATE").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: LockResources - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: LockResources - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	locked := 0
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return fmt.Errorf("%w: LockResources - scan id: %v", ErrScanRow, err)
		}
		locked++
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("%w: LockResources - rows error: %w", ErrScanRow, err)
	}

	if locked != len(ids) {
		return fmt.Errorf("%w: locked %d of %d", ErrResourceNotFound, locked, len(ids))
	}

	return nil
}

// UpdateStatus обновляет статус бронирования
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("status", string(status)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - execute update: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrBookingNotFound
	}

	return nil
}

// Cancel отменяет бронирование с указанием причины и освобождает его ресурсы
// Два запроса: вызывать внутри транзакции
func (r *Repository) Cancel(ctx context.Context, id int64, reason string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("status", string(domain.StatusCancelled)).
		Set("cancellation_reason", reason).
		Set("cancelled_at", squirrel.Expr("NOW()")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Cancel - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Cancel - execute update: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Cancel - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrBookingNotFound
	}

	// Снимаем связи с exclusion constraint, чтобы интервал снова можно было занять
	query, args, err = psqlbuilder.Update("booking_resources").
		Set("active", false).
		Where(squirrel.Eq{"booking_id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Cancel - build links update query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: Cancel - release links: %w", ErrExecQuery, err)
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBooking(row rowScanner) (*domain.Booking, error) {
	var booking domain.Booking
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&booking.ID,
		pq.Array(&booking.ResourceIDs),
		&booking.StartDateTime,
		&booking.DurationHours,
		&booking.EndDateTime,
		&booking.CleaningBufferMinutes,
		&booking.Status,
		&booking.TotalPrice,
		&booking.CustomerName,
		&booking.CustomerPhone,
		&booking.Notes,
		&booking.CancellationReason,
		&booking.CancelledAt,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return &booking, nil
}

// scanBookings сканирует результаты запроса в слайс бронирований
func scanBookings(rows *sql.Rows) ([]*domain.Booking, error) {
	bookings := make([]*domain.Booking, 0)

	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanBookings - scan row: %v", ErrScanRow, err)
		}
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanBookings - rows error: %w", ErrScanRow, err)
	}

	return bookings, nil
}

// mapWriteError переводит ошибки ограничений PostgreSQL в ошибки репозитория
func mapWriteError(op string, err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case codeExclusionViolation:
			return fmt.Errorf("%w: %s: constraint %s", ErrSlotConflict, op, pqErr.Constraint)
		case codeForeignKeyViolation:
			return fmt.Errorf("%w: %s: constraint %s", ErrResourceNotFound, op, pqErr.Constraint)
		}
	}
	return fmt.Errorf("%w: %s: %w", ErrExecQuery, op, err)
}

func uniqueSorted(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	result := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		result = append(result, id)
	}
	sort.Strings(result)
	return result
}
