package domain

import "time"

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCancelled BookingStatus = "cancelled"
	StatusCompleted BookingStatus = "completed"
)

// allowedTransitions pending -> confirmed -> completed, pending|confirmed -> cancelled
var allowedTransitions = map[BookingStatus][]BookingStatus{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCompleted, StatusCancelled},
}

// IsValid returns true if the status is one of the known statuses
func (s BookingStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted:
		return true
	}
	return false
}

// Booking represents a reservation of one resource (room, booth)
// or of several café seats sharing identical timing
type Booking struct {
	ID          int64
	ResourceIDs []string

	StartDateTime time.Time
	DurationHours int
	// EndDateTime = StartDateTime + DurationHours - CleaningBufferMinutes
	EndDateTime           time.Time
	CleaningBufferMinutes int

	Status     BookingStatus
	TotalPrice float64

	CustomerName  string
	CustomerPhone *string
	Notes         *string

	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the booking occupies its resources
func (b *Booking) IsActive() bool {
	return b.Status != StatusCancelled
}

// CanTransitionTo returns true if the booking may move to the given status
func (b *Booking) CanTransitionTo(next BookingStatus) bool {
	for _, allowed := range allowedTransitions[b.Status] {
		if allowed == next {
			return true
		}
	}
	return false
}

// References returns true if the booking reserves the given resource
func (b *Booking) References(resourceID string) bool {
	for _, id := range b.ResourceIDs {
		if id == resourceID {
			return true
		}
	}
	return false
}

// Overlaps returns true if [start, end) intersects the booking interval
func (b *Booking) Overlaps(start, end time.Time) bool {
	return IntervalsOverlap(b.StartDateTime, b.EndDateTime, start, end)
}

// IntervalsOverlap checks half-open intervals [aStart, aEnd) and [bStart, bEnd).
// Touching intervals do not overlap.
func IntervalsOverlap(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// ResourceBookingsFilter filter for listing bookings of a resource
type ResourceBookingsFilter struct {
	ResourceID       string
	From             *time.Time // inclusive lower bound of the interval (optional)
	To               *time.Time // exclusive upper bound of the interval (optional)
	Status           *BookingStatus
	IncludeCancelled bool
}
