package get_resource

import (
	"context"

	"github.com/m04kA/SMC-VenueBooking/internal/service/catalog/models"
)

type CatalogService interface {
	GetResource(ctx context.Context, id string) (*models.ResourceResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
