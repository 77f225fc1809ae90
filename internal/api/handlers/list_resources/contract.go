package list_resources

import (
	"context"

	"github.com/m04kA/SMC-VenueBooking/internal/service/catalog/models"
)

type CatalogService interface {
	ListResources(ctx context.Context, kind *string) (*models.ResourceListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
