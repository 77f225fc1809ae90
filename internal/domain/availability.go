package domain

import "time"

// SlotQuery asks which slots of the given resources are selectable on a date
type SlotQuery struct {
	ResourceIDs   []string
	Date          time.Time
	DurationHours int
	// SlotLabel optional; when set, per-seat availability of that exact start is reported
	SlotLabel string
}

// AvailabilityResult result of an availability computation
type AvailabilityResult struct {
	DateAvailable bool
	BlockedSlots  []string // grid order
	FullyBooked   bool

	// Seats per-seat availability for multi-seat (café) queries
	Seats map[string]*SeatAvailability
}

// SeatAvailability availability of a single seat inside a multi-seat query
type SeatAvailability struct {
	BlockedSlots []string
	FullyBooked  bool
	Available    *bool
}

// IsBlocked returns true if label is among the blocked slots
func (r *AvailabilityResult) IsBlocked(label string) bool {
	for _, s := range r.BlockedSlots {
		if s == label {
			return true
		}
	}
	return false
}

// AvailabilityEvent is pushed to booking UIs when a resource's day changes
type AvailabilityEvent struct {
	Type       string `json:"type"`
	ResourceID string `json:"resourceId"`
	Date       string `json:"date"`
	BookingID  int64  `json:"bookingId,omitempty"`
	Status     string `json:"status,omitempty"`
}

const EventAvailabilityChanged = "availability_changed"
