package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/m04kA/SMC-VenueBooking/internal/domain"
	resourceRepo "github.com/m04kA/SMC-VenueBooking/internal/infra/storage/resource"
	"github.com/m04kA/SMC-VenueBooking/internal/service/catalog/models"
)

// Service сервис каталога ресурсов (только чтение)
type Service struct {
	resourceRepo ResourceRepository
	cafeSlotGrid []string
	logger       Logger
}

// NewService создает новый экземпляр сервиса каталога
// cafeSlotGrid - общая сетка кафе для мест без собственной сетки
func NewService(resourceRepo ResourceRepository, cafeSlotGrid []string, logger Logger) *Service {
	return &Service{
		resourceRepo: resourceRepo,
		cafeSlotGrid: cafeSlotGrid,
		logger:       logger,
	}
}

// Resolve получает активный ресурс для расчета доступности и бронирования
func (s *Service) Resolve(ctx context.Context, id string) (*domain.Resource, error) {
	res, err := s.resourceRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, resourceRepo.ErrResourceNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrResourceNotFound, id)
		}
		s.logger.Error("Resolve: repository error for resource=%s: %v", id, err)
		return nil, fmt.Errorf("%w: Resolve - repository error: %v", ErrInternal, err)
	}

	if !res.IsActive {
		return nil, fmt.Errorf("%w: %s is inactive", ErrResourceNotFound, id)
	}

	return s.withVenueGrid(res), nil
}

// ResolveMany получает набор активных ресурсов в порядке ids
func (s *Service) ResolveMany(ctx context.Context, ids []string) ([]*domain.Resource, error) {
	resources := make([]*domain.Resource, 0, len(ids))
	for _, id := range ids {
		res, err := s.Resolve(ctx, id)
		if err != nil {
			return nil, err
		}
		resources = append(resources, res)
	}
	return resources, nil
}

// GetResource получает ресурс каталога по ID
func (s *Service) GetResource(ctx context.Context, id string) (*models.ResourceResponse, error) {
	s.logger.Info("GetResource: fetching resource=%s", id)

	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("%w: resourceId is required", ErrInvalidInput)
	}

	res, err := s.Resolve(ctx, id)
	if err != nil {
		if errors.Is(err, ErrResourceNotFound) {
			s.logger.Warn("GetResource: resource=%s not found", id)
		}
		return nil, err
	}

	return models.FromDomainResource(res), nil
}

// ListResources получает активные ресурсы, опционально одного типа
func (s *Service) ListResources(ctx context.Context, kind *string) (*models.ResourceListResponse, error) {
	var domainKind *domain.ResourceKind
	if kind != nil && *kind != "" {
		k := domain.ResourceKind(strings.ToLower(*kind))
		if !k.IsValid() {
			s.logger.Warn("ListResources: invalid kind=%s", *kind)
			return nil, fmt.Errorf("%w: unknown kind %q", ErrInvalidInput, *kind)
		}
		domainKind = &k
	}

	resources, err := s.resourceRepo.List(ctx, domainKind, true)
	if err != nil {
		s.logger.Error("ListResources: repository error: %v", err)
		return nil, fmt.Errorf("%w: ListResources - repository error: %v", ErrInternal, err)
	}

	for i, res := range resources {
		resources[i] = s.withVenueGrid(res)
	}

	s.logger.Info("ListResources: fetched %d resources", len(resources))
	return models.FromDomainResourceList(resources), nil
}

// withVenueGrid подставляет общую сетку кафе местам без собственной сетки
func (s *Service) withVenueGrid(res *domain.Resource) *domain.Resource {
	if res.Kind != domain.KindSeat || len(res.SlotGrid) > 0 || len(s.cafeSlotGrid) == 0 {
		return res
	}
	cp := *res
	cp.SlotGrid = append([]string(nil), s.cafeSlotGrid...)
	return &cp
}
