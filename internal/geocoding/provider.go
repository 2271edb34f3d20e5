package geocoding

import (
	"context"

	"github.com/UnknownOlympus/functions/internal/models"
)

// Provider resolves a free-form address into coordinates.
type Provider interface {
	Geocode(ctx context.Context, address string) (*models.Coordinates, error)
}
