package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/m04kA/SMC-VenueBooking/internal/domain"
	resourceRepo "github.com/m04kA/SMC-VenueBooking/internal/infra/storage/resource"
)

// ResourceRepository каталог ресурсов поверх Store
type ResourceRepository struct {
	store *Store
}

// NewResourceRepository создает репозиторий каталога в памяти
func NewResourceRepository(store *Store) *ResourceRepository {
	return &ResourceRepository{store: store}
}

// GetByID получает ресурс по ID
func (r *ResourceRepository) GetByID(ctx context.Context, id string) (*domain.Resource, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	res, ok := r.store.resources[id]
	if !ok {
		return nil, resourceRepo.ErrResourceNotFound
	}
	return copyResource(res), nil
}

// List получает ресурсы каталога, упорядоченные по типу и ID
func (r *ResourceRepository) List(ctx context.Context, kind *domain.ResourceKind, activeOnly bool) ([]*domain.Resource, error) {
	if kind != nil && !kind.IsValid() {
		return nil, fmt.Errorf("%w: %q", resourceRepo.ErrInvalidKind, *kind)
	}

	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	resources := make([]*domain.Resource, 0, len(r.store.resources))
	for _, res := range r.store.resources {
		if kind != nil && res.Kind != *kind {
			continue
		}
		if activeOnly && !res.IsActive {
			continue
		}
		resources = append(resources, copyResource(res))
	}

	sort.Slice(resources, func(i, j int) bool {
		if resources[i].Kind == resources[j].Kind {
			return resources[i].ID < resources[j].ID
		}
		return resources[i].Kind < resources[j].Kind
	})

	return resources, nil
}

// Upsert создает или обновляет ресурс
func (r *ResourceRepository) Upsert(ctx context.Context, res *domain.Resource) error {
	if !res.Kind.IsValid() {
		return fmt.Errorf("%w: %q", resourceRepo.ErrInvalidKind, res.Kind)
	}
	r.store.PutResource(res)
	return nil
}
