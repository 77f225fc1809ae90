package domain

import (
	"strings"
	"time"
)

// ResourceKind represents the kind of a bookable unit
type ResourceKind string

const (
	KindRoom  ResourceKind = "room"  // karaoke room
	KindBooth ResourceKind = "booth" // N64 booth
	KindSeat  ResourceKind = "seat"  // café seat
)

// IsValid returns true if the kind is one of the known kinds
func (k ResourceKind) IsValid() bool {
	return k == KindRoom || k == KindBooth || k == KindSeat
}

// Resource represents a bookable unit of the venue
type Resource struct {
	ID   string
	Kind ResourceKind
	Name string

	// SlotGrid ordered start-time labels offered per day, e.g. "6:00 PM".
	// Café seats use the venue-wide grid.
	SlotGrid []string
	// AllowedWeekdays weekday names; empty means every day is allowed
	AllowedWeekdays []string

	CapacityPerSlot int
	PricePerHour    float64
	IsActive        bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsAvailableOn returns true if the resource may be booked on the weekday of date
func (r *Resource) IsAvailableOn(date time.Time) bool {
	if len(r.AllowedWeekdays) == 0 {
		return true
	}

	weekday := date.Weekday().String()
	for _, allowed := range r.AllowedWeekdays {
		if strings.EqualFold(strings.TrimSpace(allowed), weekday) {
			return true
		}
	}
	return false
}

// HasSlot returns true if label belongs to the resource grid
func (r *Resource) HasSlot(label string) bool {
	label = strings.TrimSpace(label)
	for _, s := range r.SlotGrid {
		if strings.EqualFold(strings.TrimSpace(s), label) {
			return true
		}
	}
	return false
}

// IsFree returns true for resources booked without payment
func (r *Resource) IsFree() bool {
	return r.PricePerHour == 0
}
