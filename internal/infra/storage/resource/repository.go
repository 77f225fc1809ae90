package resource

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-VenueBooking/internal/domain"
	"github.com/m04kA/SMC-VenueBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-VenueBooking/pkg/psqlbuilder"
)

type DBExecutor = dbmetrics.DBExecutor

var resourceColumns = []string{
	"id",
	"kind",
	"name",
	"slot_grid",
	"allowed_weekdays",
	"capacity_per_slot",
	"price_per_hour",
	"is_active",
	"created_at",
	"updated_at",
}

// Repository репозиторий каталога ресурсов (комнаты, будки, места кафе)
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория ресурсов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByID получает ресурс по ID
func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Resource, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(resourceColumns...).
		From("resources").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	res, err := scanResource(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrResourceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan resource: %v", ErrScanRow, err)
	}

	return res, nil
}

// List получает ресурсы каталога
// kind == nil - все типы; activeOnly - только доступные для бронирования
func (r *Repository) List(ctx context.Context, kind *domain.ResourceKind, activeOnly bool) ([]*domain.Resource, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(resourceColumns...).From("resources")

	if kind != nil {
		if !kind.IsValid() {
			return nil, fmt.Errorf("%w: %q", ErrInvalidKind, *kind)
		}
		selectBuilder = selectBuilder.Where(squirrel.Eq{"kind": string(*kind)})
	}
	if activeOnly {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"is_active": true})
	}

	query, args, err := selectBuilder.OrderBy("kind ASC", "id ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	resources := make([]*domain.Resource, 0)
	for rows.Next() {
		res, err := scanResource(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: List - scan row: %v", ErrScanRow, err)
		}
		resources = append(resources, res)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: List - rows error: %v", ErrScanRow, err)
	}

	return resources, nil
}

// Upsert создает или обновляет ресурс (загрузка каталога при старте)
func (r *Repository) Upsert(ctx context.Context, res *domain.Resource) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("resources").
		Columns(
			"id",
			"kind",
			"name",
			"slot_grid",
			"allowed_weekdays",
			"capacity_per_slot",
			"price_per_hour",
			"is_active",
		).
		Values(
			res.ID,
			string(res.Kind),
			res.Name,
			pq.Array(res.SlotGrid),
			pq.Array(res.AllowedWeekdays),
			res.CapacityPerSlot,
			res.PricePerHour,
			res.IsActive,
		).
		Suffix(`ON CONFLICT (id) DO UPDATE SET
			kind = EXCLUDED.kind,
			name = EXCLUDED.name,
			slot_grid = EXCLUDED.slot_grid,
			allowed_weekdays = EXCLUDED.allowed_weekdays,
			capacity_per_slot = EXCLUDED.capacity_per_slot,
			price_per_hour = EXCLUDED.price_per_hour,
			is_active = EXCLUDED.is_active,
			updated_at = NOW()`).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Upsert - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: Upsert - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanResource(row rowScanner) (*domain.Resource, error) {
	var res domain.Resource
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&res.ID,
		&res.Kind,
		&res.Name,
		pq.Array(&res.SlotGrid),
		pq.Array(&res.AllowedWeekdays),
		&res.CapacityPerSlot,
		&res.PricePerHour,
		&res.IsActive,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	res.CreatedAt = createdAt.Time
	res.UpdatedAt = updatedAt.Time

	return &res, nil
}
