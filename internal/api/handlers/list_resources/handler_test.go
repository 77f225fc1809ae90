package list_resources

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-VenueBooking/internal/service/catalog"
	"github.com/m04kA/SMC-VenueBooking/internal/service/catalog/models"
	"github.com/m04kA/SMC-VenueBooking/pkg/logger"
)

type mockService struct {
	mock.Mock
}

func (m *mockService) ListResources(ctx context.Context, kind *string) (*models.ResourceListResponse, error) {
	args := m.Called(ctx, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ResourceListResponse), args.Error(1)
}

func TestHandler_Handle_ByKind(t *testing.T) {
	svc := new(mockService)
	svc.On("ListResources", mock.Anything, mock.MatchedBy(func(kind *string) bool {
		return kind != nil && *kind == "booth"
	})).Return(&models.ResourceListResponse{Resources: []models.ResourceResponse{{ID: "booth-1", Kind: "booth"}}}, nil)

	rec := httptest.NewRecorder()
	NewHandler(svc, logger.NewNop()).Handle(rec, httptest.NewRequest(http.MethodGet, "/api/v1/resources?kind=booth", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body models.ResourceListResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	require.Len(t, body.Resources, 1)
	assert.Equal(t, "booth-1", body.Resources[0].ID)
}

func TestHandler_Handle_AllKinds(t *testing.T) {
	svc := new(mockService)
	svc.On("ListResources", mock.Anything, (*string)(nil)).Return(&models.ResourceListResponse{}, nil)

	rec := httptest.NewRecorder()
	NewHandler(svc, logger.NewNop()).Handle(rec, httptest.NewRequest(http.MethodGet, "/api/v1/resources", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	svc.AssertExpectations(t)
}

func TestHandler_Handle_InvalidKind(t *testing.T) {
	svc := new(mockService)
	svc.On("ListResources", mock.Anything, mock.Anything).Return(nil, catalog.ErrInvalidInput)

	rec := httptest.NewRecorder()
	NewHandler(svc, logger.NewNop()).Handle(rec, httptest.NewRequest(http.MethodGet, "/api/v1/resources?kind=pool", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_Handle_Internal(t *testing.T) {
	svc := new(mockService)
	svc.On("ListResources", mock.Anything, mock.Anything).Return(nil, catalog.ErrInternal)

	rec := httptest.NewRecorder()
	NewHandler(svc, logger.NewNop()).Handle(rec, httptest.NewRequest(http.MethodGet, "/api/v1/resources", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
