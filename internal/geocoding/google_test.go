package geocoding_test

import (
	"log/slog"
	"testing"

	"github.com/UnknownOlympus/functions/internal/geocoding"
	"github.com/UnknownOlympus/functions/test/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"googlemaps.github.io/maps"
)

func TestGoogleProvider_Geocode(t *testing.T) {
	mockClient := mocks.NewGoogleAPIClient(t)
	provider := geocoding.NewGoogleProvider(mockClient, slog.Default())
	ctx := t.Context()

	t.Run("api returns error", func(t *testing.T) {
		address := "nowhere at all"
		req := &maps.GeocodingRequest{Address: address, Language: "en"}

		mockClient.On("Geocode", ctx, req).Return(nil, assert.AnError).Once()

		coords, err := provider.Geocode(ctx, address)

		require.Nil(t, coords)
		require.ErrorIs(t, err, assert.AnError)
		require.ErrorContains(t, err, "failed to geocode address")
	})

	t.Run("api returns empty response", func(t *testing.T) {
		address := "nowhere at all"
		req := &maps.GeocodingRequest{Address: address, Language: "en"}

		mockClient.On("Geocode", ctx, req).Return(nil, nil).Once()

		coords, err := provider.Geocode(ctx, address)

		require.Nil(t, coords)
		require.ErrorIs(t, err, geocoding.ErrEmptyResponse)
	})

	t.Run("first result wins", func(t *testing.T) {
		address := "500 Fremont St, Las Vegas, NV"
		req := &maps.GeocodingRequest{Address: address, Language: "en"}
		response := []maps.GeocodingResult{
			{Geometry: maps.AddressGeometry{Location: maps.LatLng{Lat: 36.172497, Lng: -115.140579}}},
			{Geometry: maps.AddressGeometry{Location: maps.LatLng{Lat: 1, Lng: 1}}},
		}

		mockClient.On("Geocode", ctx, req).Return(response, nil).Once()

		coords, err := provider.Geocode(ctx, address)

		require.NoError(t, err)
		require.NotNil(t, coords)
		assert.InDelta(t, 36.172497, coords.Latitude, 1e-9)
		assert.InDelta(t, -115.140579, coords.Longitude, 1e-9)
	})
}
