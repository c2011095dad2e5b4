package ports

import (
	"context"

	"shipment-tracker/internal/features/geocoding/domain"
)

// Geocoder resolves free-text addresses to coordinates. Implementations
// return an error on failure; callers degrade to domain.Fallback rather than
// propagating it.
type Geocoder interface {
	Resolve(ctx context.Context, address string) (domain.Location, error)
}
