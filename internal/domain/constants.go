package domain

import "time"

// Default configuration values
const (
	DefaultCleaningBufferMinutes = 5
	DefaultSlotGranularity       = time.Hour
	DefaultMaxDurationHours      = 12
)

// Business validation constants
const (
	MinDurationHours            = 1
	MaxCustomerNameLength       = 200
	MaxNotesLength              = 500
	MaxCancellationReasonLength = 500
	MaxResourcesPerBooking      = 50
)

// Time format constants
const (
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// ActiveStatuses statuses that occupy a resource
var ActiveStatuses = []BookingStatus{
	StatusPending,
	StatusConfirmed,
	StatusCompleted,
}

// InactiveStatuses statuses that free a resource
var InactiveStatuses = []BookingStatus{
	StatusCancelled,
}
