package slottime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testDay = time.Date(2025, time.July, 26, 13, 45, 0, 0, time.UTC)

func TestParseSlotLabel(t *testing.T) {
	tests := []struct {
		name       string
		label      string
		wantHour   int
		wantMinute int
	}{
		{name: "12-hour pm", label: "6:00 PM", wantHour: 18},
		{name: "12-hour am", label: "9:30 AM", wantHour: 9, wantMinute: 30},
		{name: "midnight", label: "12:00 AM", wantHour: 0},
		{name: "noon", label: "12:00 PM", wantHour: 12},
		{name: "lower case without space", label: "6:00pm", wantHour: 18},
		{name: "hour only", label: "7 PM", wantHour: 19},
		{name: "dotted suffix", label: "11:00 p.m.", wantHour: 23},
		{name: "24-hour", label: "18:00", wantHour: 18},
		{name: "24-hour single digit", label: "6:15", wantHour: 6, wantMinute: 15},
		{name: "surrounding spaces", label: "  2:00 PM ", wantHour: 14},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSlotLabel(tt.label, testDay)
			require.NoError(t, err)

			want := time.Date(2025, time.July, 26, tt.wantHour, tt.wantMinute, 0, 0, time.UTC)
			assert.True(t, want.Equal(got), "want %s, got %s", want, got)
		})
	}
}

func TestParseSlotLabel_Invalid(t *testing.T) {
	labels := []string{"", "evening", "25:00", "13:00 PM", "0:00 AM", "6:75 PM", "18-00", "6:00 XM"}

	for _, label := range labels {
		t.Run(label, func(t *testing.T) {
			_, err := ParseSlotLabel(label, testDay)
			assert.ErrorIs(t, err, ErrInvalidSlotFormat)
		})
	}
}

func TestParseSlotLabel_KeepsLocation(t *testing.T) {
	loc := time.FixedZone("venue", 3*60*60)
	day := time.Date(2025, time.July, 26, 0, 0, 0, 0, loc)

	got, err := ParseSlotLabel("6:00 PM", day)
	require.NoError(t, err)
	assert.Equal(t, loc, got.Location())
	assert.Equal(t, 18, got.Hour())
}

func TestComputeEndTime(t *testing.T) {
	tests := []struct {
		name     string
		label    string
		duration int
		want     string
	}{
		{name: "one hour evening", label: "6:00 PM", duration: 1, want: "6:55 PM"},
		{name: "midnight stays on same day", label: "12:00 AM", duration: 1, want: "12:55 AM"},
		{name: "two hours from noon", label: "12:00 PM", duration: 2, want: "1:55 PM"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, err := ParseSlotLabel(tt.label, testDay)
			require.NoError(t, err)

			end := ComputeEndTime(start, tt.duration, 5)
			assert.Equal(t, tt.want, FormatLabel(end))
			assert.Equal(t, testDay.Day(), end.Day())
		})
	}
}

func TestComputeEndTime_RollsOverMidnight(t *testing.T) {
	start, err := ParseSlotLabel("11:00 PM", testDay)
	require.NoError(t, err)

	end := ComputeEndTime(start, 2, 5)
	assert.Equal(t, time.Date(2025, time.July, 27, 0, 55, 0, 0, time.UTC), end)
}

func TestParseDate(t *testing.T) {
	got, err := ParseDate("2025-07-26", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, time.Saturday, got.Weekday())

	_, err = ParseDate("26.07.2025", time.UTC)
	assert.Error(t, err)
}
