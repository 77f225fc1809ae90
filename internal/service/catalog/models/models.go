package models

import (
	"github.com/m04kA/SMC-VenueBooking/internal/domain"
)

// ResourceResponse ответ с данными ресурса каталога
type ResourceResponse struct {
	ID              string   `json:"id"`
	Kind            string   `json:"kind"`
	Name            string   `json:"name"`
	SlotGrid        []string `json:"slotGrid"`
	AllowedWeekdays []string `json:"allowedWeekdays,omitempty"` // пусто = любой день
	CapacityPerSlot int      `json:"capacityPerSlot"`
	PricePerHour    float64  `json:"pricePerHour"`
}

// ResourceListResponse ответ со списком ресурсов
type ResourceListResponse struct {
	Resources []ResourceResponse `json:"resources"`
}

// FromDomainResource конвертирует domain модель в DTO
func FromDomainResource(r *domain.Resource) *ResourceResponse {
	if r == nil {
		return nil
	}

	grid := r.SlotGrid
	if grid == nil {
		grid = []string{}
	}

	return &ResourceResponse{
		ID:              r.ID,
		Kind:            string(r.Kind),
		Name:            r.Name,
		SlotGrid:        grid,
		AllowedWeekdays: r.AllowedWeekdays,
		CapacityPerSlot: r.CapacityPerSlot,
		PricePerHour:    r.PricePerHour,
	}
}

// FromDomainResourceList конвертирует список domain моделей в DTO
func FromDomainResourceList(resources []*domain.Resource) *ResourceListResponse {
	resp := &ResourceListResponse{
		Resources: make([]ResourceResponse, 0, len(resources)),
	}

	for _, r := range resources {
		if item := FromDomainResource(r); item != nil {
			resp.Resources = append(resp.Resources, *item)
		}
	}

	return resp
}
