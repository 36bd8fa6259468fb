package provider

import (
	"context"

	"github.com/saturnino-fabrica-de-software/presenca/internal/domain"
)

// FaceProvider define a interface para provedores de reconhecimento facial.
// It covers the two per-frame operations of the pipeline: locating face
// regions and extracting a fixed-length embedding for one region.
type FaceProvider interface {
	// DetectFaces localiza faces no frame e retorna uma região por face.
	// Zero results is a normal outcome, not an error. Callers assume no
	// ordering between regions.
	DetectFaces(ctx context.Context, image []byte) ([]DetectedFace, error)

	// ExtractEmbedding produz o vetor de embedding para uma região do frame.
	// Given identical frame bytes and region the output is bit-reproducible;
	// providers must not apply randomized augmentation at inference time.
	// Fails with domain.ErrRegionUnsuitable when the region cannot be
	// embedded; callers skip that region and continue with its siblings.
	ExtractEmbedding(ctx context.Context, image []byte, region domain.Region) ([]float64, error)
}

// DetectedFace represents a detected face in the frame
type DetectedFace struct {
	Region     domain.Region `json:"region"`
	Confidence float64       `json:"confidence"`
}
