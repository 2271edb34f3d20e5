package functions

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/UnknownOlympus/functions/internal/dataset"
	"github.com/UnknownOlympus/functions/internal/geocoding"
	"github.com/UnknownOlympus/functions/internal/models"
	"github.com/UnknownOlympus/functions/internal/proximity"
)

type nearestRequest struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Length    *int     `json:"length"  validate:"omitempty,min=0"`
	Address   string   `json:"address" validate:"omitempty,max=512"`
}

type nearestResponse struct {
	Schools []proximity.Scored[models.School] `json:"schools"`
}

// ProcessLargeData returns the schools closest to a given point.
type ProcessLargeData struct {
	schools  *dataset.Schools
	geocoder geocoding.Provider
	log      *slog.Logger
}

// NewProcessLargeData creates the function over schools. geocoder may be nil, in which case
// requests must carry explicit coordinates.
func NewProcessLargeData(schools *dataset.Schools, geocoder geocoding.Provider, log *slog.Logger) *ProcessLargeData {
	return &ProcessLargeData{schools: schools, geocoder: geocoder, log: log}
}

func (f *ProcessLargeData) Name() string { return "processlargedata" }

// Invoke ranks the dataset by distance from the requested point and returns the first length entries.
func (f *ProcessLargeData) Invoke(ctx context.Context, event Event) (any, error) {
	f.log.InfoContext(ctx, fmt.Sprintf("Invoking %s with payload %s", f.Name(), payloadString(event.Data)))

	var req nearestRequest
	if err := decodePayload(event.Data, &req); err != nil {
		return nil, err
	}

	origin := proximity.Origin{Latitude: req.Latitude, Longitude: req.Longitude}
	if (origin.Latitude == nil || origin.Longitude == nil) && req.Address != "" && f.geocoder != nil {
		resolved, err := f.resolve(ctx, req.Address)
		if err != nil {
			return nil, err
		}
		origin = resolved
	}

	limit := proximity.DefaultLimit
	if req.Length != nil {
		limit = *req.Length
	}

	nearest, err := proximity.Nearest(origin, f.schools.All(), limit)
	if err != nil {
		return nil, err
	}

	f.log.InfoContext(ctx, fmt.Sprintf("successfully filtered %d schools", len(nearest)))

	return nearestResponse{Schools: nearest}, nil
}

func (f *ProcessLargeData) resolve(ctx context.Context, address string) (proximity.Origin, error) {
	coords, err := f.geocoder.Geocode(ctx, address)
	switch {
	case errors.Is(err, geocoding.ErrEmptyResponse), errors.Is(err, geocoding.ErrNominatimEmptyResponse):
		return proximity.Origin{}, fmt.Errorf("%w: address %q could not be found", ErrInvalidArgument, address)
	case err != nil:
		return proximity.Origin{}, fmt.Errorf("%w: failed to geocode address: %w", ErrUnavailable, err)
	}

	f.log.DebugContext(ctx, "Address resolved", "address", address, "lat", coords.Latitude, "lon", coords.Longitude)

	return proximity.NewOrigin(coords.Latitude, coords.Longitude), nil
}
