package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBooking_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from BookingStatus
		to   BookingStatus
		want bool
	}{
		{StatusPending, StatusConfirmed, true},
		{StatusPending, StatusCancelled, true},
		{StatusPending, StatusCompleted, false},
		{StatusConfirmed, StatusCompleted, true},
		{StatusConfirmed, StatusCancelled, true},
		{StatusConfirmed, StatusPending, false},
		{StatusCancelled, StatusConfirmed, false},
		{StatusCancelled, StatusPending, false},
		{StatusCompleted, StatusCancelled, false},
		{StatusCompleted, StatusConfirmed, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			b := &Booking{Status: tt.from}
			assert.Equal(t, tt.want, b.CanTransitionTo(tt.to))
		})
	}
}

func TestIntervalsOverlap_HalfOpen(t *testing.T) {
	at := func(h, m int) time.Time { return time.Date(2025, 7, 26, h, m, 0, 0, time.UTC) }

	assert.False(t, IntervalsOverlap(at(14, 0), at(15, 0), at(15, 0), at(16, 0)), "touching intervals")
	assert.False(t, IntervalsOverlap(at(15, 0), at(16, 0), at(14, 0), at(15, 0)), "touching intervals reversed")
	assert.True(t, IntervalsOverlap(at(14, 0), at(14, 55), at(14, 30), at(15, 30)))
	assert.True(t, IntervalsOverlap(at(13, 0), at(18, 0), at(14, 0), at(14, 55)), "containment")
	assert.False(t, IntervalsOverlap(at(14, 0), at(14, 55), at(15, 0), at(16, 0)))
}

func TestResource_IsAvailableOn(t *testing.T) {
	saturday := time.Date(2025, 7, 26, 0, 0, 0, 0, time.UTC)
	monday := time.Date(2025, 7, 28, 0, 0, 0, 0, time.UTC)

	weekend := &Resource{AllowedWeekdays: []string{"Saturday", "sunday"}}
	assert.True(t, weekend.IsAvailableOn(saturday))
	assert.False(t, weekend.IsAvailableOn(monday))

	always := &Resource{}
	assert.True(t, always.IsAvailableOn(monday))
}

func TestResource_HasSlot(t *testing.T) {
	r := &Resource{SlotGrid: []string{"2:00 PM", "3:00 PM"}}
	assert.True(t, r.HasSlot("3:00 PM"))
	assert.True(t, r.HasSlot(" 3:00 pm"))
	assert.False(t, r.HasSlot("4:00 PM"))
}
