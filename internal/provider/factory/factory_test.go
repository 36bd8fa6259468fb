package factory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saturnino-fabrica-de-software/presenca/internal/config"
	"github.com/saturnino-fabrica-de-software/presenca/internal/provider/deepface"
	"github.com/saturnino-fabrica-de-software/presenca/internal/provider/mock"
)

func TestNewFaceProvider(t *testing.T) {
	t.Run("deepface", func(t *testing.T) {
		cfg := &config.Config{ProviderType: "deepface", DeepFaceURL: "http://deepface:5005"}

		p, err := NewFaceProvider(cfg)
		require.NoError(t, err)
		assert.IsType(t, &deepface.Provider{}, p)
	})

	t.Run("mock", func(t *testing.T) {
		cfg := &config.Config{ProviderType: "mock", EmbeddingDim: 128}

		p, err := NewFaceProvider(cfg)
		require.NoError(t, err)
		assert.IsType(t, &mock.Provider{}, p)
	})

	t.Run("unknown", func(t *testing.T) {
		cfg := &config.Config{ProviderType: "hologram"}

		_, err := NewFaceProvider(cfg)
		assert.ErrorContains(t, err, "unknown provider type")
	})
}
