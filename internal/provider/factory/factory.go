package factory

import (
	"fmt"

	"github.com/saturnino-fabrica-de-software/presenca/internal/config"
	"github.com/saturnino-fabrica-de-software/presenca/internal/provider"
	"github.com/saturnino-fabrica-de-software/presenca/internal/provider/deepface"
	"github.com/saturnino-fabrica-de-software/presenca/internal/provider/mock"
)

// NewFaceProvider cria o FaceProvider configurado via PROVIDER_TYPE
func NewFaceProvider(cfg *config.Config) (provider.FaceProvider, error) {
	switch cfg.ProviderType {
	case "deepface":
		dfConfig := deepface.DefaultConfig()
		dfConfig.BaseURL = cfg.DeepFaceURL
		return deepface.NewProvider(dfConfig), nil
	case "mock":
		return mock.NewProvider(cfg.EmbeddingDim), nil
	default:
		return nil, fmt.Errorf("unknown provider type: %q", cfg.ProviderType)
	}
}
