package list_resource_bookings

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-VenueBooking/internal/service/bookings"
	"github.com/m04kA/SMC-VenueBooking/internal/service/bookings/models"
	"github.com/m04kA/SMC-VenueBooking/pkg/logger"
)

type mockService struct {
	mock.Mock
}

func (m *mockService) ListResourceBookings(ctx context.Context, req *models.ListResourceBookingsRequest) (*models.BookingListResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BookingListResponse), args.Error(1)
}

func serve(h *Handler, path string) *httptest.ResponseRecorder {
	router := mux.NewRouter()
	router.HandleFunc("/resources/{resourceId}/bookings", h.Handle).Methods(http.MethodGet)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestToServiceRequest(t *testing.T) {
	loc := time.FixedZone("venue", 3600)

	req, err := ToServiceRequest("room-A", "2026-10-17", "true", loc)
	require.NoError(t, err)
	require.NotNil(t, req.Date)
	assert.True(t, req.Date.Equal(time.Date(2026, 10, 17, 0, 0, 0, 0, loc)))
	assert.True(t, req.IncludeCancelled)

	req, err = ToServiceRequest("room-A", "", "", loc)
	require.NoError(t, err)
	assert.Nil(t, req.Date)
	assert.False(t, req.IncludeCancelled)

	_, err = ToServiceRequest("room-A", "", "maybe", loc)
	assert.Error(t, err)
}

func TestHandler_Handle(t *testing.T) {
	svc := new(mockService)
	svc.On("ListResourceBookings", mock.Anything, mock.MatchedBy(func(req *models.ListResourceBookingsRequest) bool {
		return req.ResourceID == "room-A"
	})).Return(&models.BookingListResponse{Bookings: []models.BookingResponse{{ID: 1}, {ID: 2}}}, nil)
	svc.On("ListResourceBookings", mock.Anything, mock.MatchedBy(func(req *models.ListResourceBookingsRequest) bool {
		return req.ResourceID == "room-Z"
	})).Return(nil, bookings.ErrResourceNotFound)

	h := NewHandler(svc, nil, logger.NewNop())

	rec := serve(h, "/resources/room-A/bookings?date=2026-10-17")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"bookings"`)

	assert.Equal(t, http.StatusNotFound, serve(h, "/resources/room-Z/bookings").Code)
	assert.Equal(t, http.StatusBadRequest, serve(h, "/resources/room-A/bookings?date=tomorrow").Code)
}
