package catalogfile

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/m04kA/SMC-VenueBooking/internal/domain"
	"github.com/m04kA/SMC-VenueBooking/pkg/logger"
)

var (
	// ErrReadCatalog возвращается при ошибке чтения файла каталога
	ErrReadCatalog = errors.New("catalogfile: failed to read catalog")

	// ErrInvalidResource возвращается при некорректном описании ресурса
	ErrInvalidResource = errors.New("catalogfile: invalid resource")
)

type file struct {
	Resources []resourceEntry `toml:"resources"`
}

type resourceEntry struct {
	ID              string   `toml:"id"`
	Kind            string   `toml:"kind"`
	Name            string   `toml:"name"`
	SlotGrid        []string `toml:"slot_grid"`
	AllowedWeekdays []string `toml:"allowed_weekdays"`
	CapacityPerSlot int      `toml:"capacity_per_slot"`
	PricePerHour    float64  `toml:"price_per_hour"`
	IsActive        *bool    `toml:"is_active"`
}

// Upserter хранилище каталога, принимающее ресурсы
type Upserter interface {
	Upsert(ctx context.Context, res *domain.Resource) error
}

// Load читает каталог ресурсов из TOML файла
func Load(path string) ([]*domain.Resource, error) {
	var f file
	if _, err := toml.DecodeFile(path, &f); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrReadCatalog, path, err)
	}
	return f.toResources()
}

// Parse разбирает каталог ресурсов из TOML строки
func Parse(data string) ([]*domain.Resource, error) {
	var f file
	if _, err := toml.Decode(data, &f); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReadCatalog, err)
	}
	return f.toResources()
}

func (f file) toResources() ([]*domain.Resource, error) {
	seen := make(map[string]struct{}, len(f.Resources))
	resources := make([]*domain.Resource, 0, len(f.Resources))

	for i, e := range f.Resources {
		id := strings.TrimSpace(e.ID)
		if id == "" {
			return nil, fmt.Errorf("%w: entry %d has empty id", ErrInvalidResource, i)
		}
		if _, ok := seen[id]; ok {
			return nil, fmt.Errorf("%w: duplicate id %q", ErrInvalidResource, id)
		}
		seen[id] = struct{}{}

		kind := domain.ResourceKind(strings.ToLower(strings.TrimSpace(e.Kind)))
		if !kind.IsValid() {
			return nil, fmt.Errorf("%w: %q has unknown kind %q", ErrInvalidResource, id, e.Kind)
		}
		if e.PricePerHour < 0 {
			return nil, fmt.Errorf("%w: %q has negative price", ErrInvalidResource, id)
		}

		capacity := e.CapacityPerSlot
		if capacity <= 0 {
			capacity = 1
		}
		active := true
		if e.IsActive != nil {
			active = *e.IsActive
		}

		resources = append(resources, &domain.Resource{
			ID:              id,
			Kind:            kind,
			Name:            e.Name,
			SlotGrid:        e.SlotGrid,
			AllowedWeekdays: e.AllowedWeekdays,
			CapacityPerSlot: capacity,
			PricePerHour:    e.PricePerHour,
			IsActive:        active,
		})
	}

	return resources, nil
}

// Seed загружает ресурсы в хранилище
func Seed(ctx context.Context, store Upserter, resources []*domain.Resource, log *logger.Logger) error {
	for _, res := range resources {
		if err := store.Upsert(ctx, res); err != nil {
			return fmt.Errorf("seed resource %s: %w", res.ID, err)
		}
	}
	log.Info("Catalog seeded: %d resources", len(resources))
	return nil
}
