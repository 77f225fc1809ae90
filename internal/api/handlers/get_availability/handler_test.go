package get_availability

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	getAvailability "github.com/m04kA/SMC-VenueBooking/internal/usecase/get_availability"
	"github.com/m04kA/SMC-VenueBooking/pkg/logger"
)

type mockUseCase struct {
	mock.Mock
}

func (m *mockUseCase) Execute(ctx context.Context, req *getAvailability.Request) (*getAvailability.Response, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*getAvailability.Response), args.Error(1)
}

func TestHandler_Handle_Success(t *testing.T) {
	uc := new(mockUseCase)
	loc := time.FixedZone("venue", -5*3600)
	h := NewHandler(uc, loc, logger.NewNop())

	date := time.Date(2026, 10, 17, 0, 0, 0, 0, loc)
	uc.On("Execute", mock.Anything, mock.MatchedBy(func(req *getAvailability.Request) bool {
		return req.Date.Equal(date) && req.DurationHours == 2 &&
			len(req.ResourceIDs) == 2 && req.SlotLabel == "6:00 PM"
	})).Return(&getAvailability.Response{
		Date:          date,
		ResourceIDs:   []string{"seat-1", "seat-2"},
		DurationHours: 2,
		DateAvailable: true,
		BlockedSlots:  []string{"6:00 PM"},
		Seats: map[string]getAvailability.SeatAvailability{
			"seat-1": {BlockedSlots: []string{"6:00 PM"}},
			"seat-2": {},
		},
	}, nil)

	req := httptest.NewRequest(http.MethodGet,
		"/api/v1/availability?resourceId=seat-1&resourceId=seat-2&date=2026-10-17&duration=2&slot=6:00%20PM", nil)
	rec := httptest.NewRecorder()
	h.Handle(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body AvailabilityResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "2026-10-17", body.Date)
	assert.Equal(t, []string{"6:00 PM"}, body.BlockedSlots)
	assert.Equal(t, []string{}, body.Seats["seat-2"].BlockedSlots)
	uc.AssertExpectations(t)
}

func TestHandler_Handle_DefaultDuration(t *testing.T) {
	uc := new(mockUseCase)
	h := NewHandler(uc, nil, logger.NewNop())

	uc.On("Execute", mock.Anything, mock.MatchedBy(func(req *getAvailability.Request) bool {
		return req.DurationHours == 1
	})).Return(&getAvailability.Response{Date: time.Now()}, nil)

	rec := httptest.NewRecorder()
	h.Handle(rec, httptest.NewRequest(http.MethodGet, "/api/v1/availability?resourceId=room-A&date=2026-10-17", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	uc.AssertExpectations(t)
}

func TestHandler_Handle_Errors(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		ucErr      error
		wantStatus int
	}{
		{"missing resource", "date=2026-10-17", nil, http.StatusBadRequest},
		{"missing date", "resourceId=room-A", nil, http.StatusBadRequest},
		{"bad date", "resourceId=room-A&date=17/10/2026", nil, http.StatusBadRequest},
		{"bad duration", "resourceId=room-A&date=2026-10-17&duration=two", nil, http.StatusBadRequest},
		{"not found", "resourceId=room-Z&date=2026-10-17", getAvailability.ErrResourceNotFound, http.StatusNotFound},
		{"invalid duration", "resourceId=room-A&date=2026-10-17&duration=0", getAvailability.ErrInvalidDuration, http.StatusBadRequest},
		{"invalid slot", "resourceId=room-A&date=2026-10-17&slot=soon", getAvailability.ErrInvalidSlotFormat, http.StatusBadRequest},
		{"internal", "resourceId=room-A&date=2026-10-17", getAvailability.ErrInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := new(mockUseCase)
			if tt.ucErr != nil {
				uc.On("Execute", mock.Anything, mock.Anything).Return(nil, tt.ucErr)
			}
			h := NewHandler(uc, nil, logger.NewNop())

			rec := httptest.NewRecorder()
			h.Handle(rec, httptest.NewRequest(http.MethodGet, "/api/v1/availability?"+tt.query, nil))

			assert.Equal(t, tt.wantStatus, rec.Code)
			uc.AssertExpectations(t)
		})
	}
}
