package geocoding_test

import (
	"log/slog"
	"testing"

	"github.com/UnknownOlympus/functions/internal/geocoding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProvider(t *testing.T) {
	logger := slog.Default()

	t.Run("google provider", func(t *testing.T) {
		provider, err := geocoding.NewProvider(geocoding.ProviderConfig{
			Type:      geocoding.ProviderTypeGoogle,
			APIKey:    "test-api-key",
			RateLimit: 10,
			Logger:    logger,
		})

		require.NoError(t, err)
		_, ok := provider.(*geocoding.GoogleProvider)
		assert.True(t, ok, "expected provider to be *GoogleProvider")
	})

	t.Run("google provider without API key", func(t *testing.T) {
		provider, err := geocoding.NewProvider(geocoding.ProviderConfig{
			Type:   geocoding.ProviderTypeGoogle,
			Logger: logger,
		})

		require.ErrorContains(t, err, "API key is required for Google provider")
		assert.Nil(t, provider)
	})

	t.Run("nominatim provider", func(t *testing.T) {
		provider, err := geocoding.NewProvider(geocoding.ProviderConfig{
			Type:   geocoding.ProviderTypeNominatim,
			Logger: logger,
		})

		require.NoError(t, err)
		_, ok := provider.(*geocoding.NominatimProvider)
		assert.True(t, ok, "expected provider to be *NominatimProvider")
	})

	t.Run("disabled", func(t *testing.T) {
		for _, kind := range []geocoding.ProviderType{geocoding.ProviderTypeNone, ""} {
			provider, err := geocoding.NewProvider(geocoding.ProviderConfig{Type: kind, Logger: logger})

			require.NoError(t, err)
			assert.Nil(t, provider)
		}
	})

	t.Run("unsupported provider type", func(t *testing.T) {
		provider, err := geocoding.NewProvider(geocoding.ProviderConfig{
			Type:   geocoding.ProviderType("visicom"),
			Logger: logger,
		})

		require.ErrorContains(t, err, "unsupported provider type: visicom")
		assert.Nil(t, provider)
	})
}
