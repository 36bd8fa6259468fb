// Package mock fornece uma implementação determinística de FaceProvider
// para desenvolvimento e testes, sem dependência de serviço externo.
package mock

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"math"

	"github.com/saturnino-fabrica-de-software/presenca/internal/domain"
	"github.com/saturnino-fabrica-de-software/presenca/internal/provider"
)

const (
	// DefaultDimension matches the embedding size the matcher expects
	DefaultDimension = 128

	// minImageSize é o tamanho mínimo em bytes para uma imagem válida
	minImageSize = 16
)

// Provider implementa provider.FaceProvider de forma determinística.
// O embedding é derivado por hash dos bytes do frame e da região, então
// entradas idênticas produzem sempre o mesmo vetor.
type Provider struct {
	dimension int
}

// NewProvider cria um novo provider mock com a dimensão informada.
// Dimensão zero ou negativa usa DefaultDimension.
func NewProvider(dimension int) *Provider {
	if dimension <= 0 {
		dimension = DefaultDimension
	}
	return &Provider{dimension: dimension}
}

// DetectFaces retorna uma única região central derivada do tamanho da imagem
func (p *Provider) DetectFaces(_ context.Context, image []byte) ([]provider.DetectedFace, error) {
	if len(image) < minImageSize {
		return nil, domain.ErrInvalidImage
	}

	// Region placement varies with content so distinct frames look distinct
	hash := sha256.Sum256(image)
	offset := int(hash[0]) % 32

	return []provider.DetectedFace{
		{
			Region: domain.Region{
				X:      64 + offset,
				Y:      48 + offset,
				Width:  128,
				Height: 160,
			},
			Confidence: 0.95,
		},
	}, nil
}

// ExtractEmbedding gera um embedding determinístico e normalizado a partir
// dos bytes da imagem e da região
func (p *Provider) ExtractEmbedding(_ context.Context, image []byte, region domain.Region) ([]float64, error) {
	if len(image) < minImageSize {
		return nil, domain.ErrInvalidImage
	}
	if region.Width <= 0 || region.Height <= 0 {
		return nil, domain.ErrRegionUnsuitable
	}

	seed := make([]byte, 0, len(image)+16)
	seed = append(seed, image...)
	seed = binary.BigEndian.AppendUint32(seed, uint32(region.X))
	seed = binary.BigEndian.AppendUint32(seed, uint32(region.Y))
	seed = binary.BigEndian.AppendUint32(seed, uint32(region.Width))
	seed = binary.BigEndian.AppendUint32(seed, uint32(region.Height))

	return embeddingFromSeed(seed, p.dimension), nil
}

// embeddingFromSeed expands a seed into a unit-length vector by chaining
// sha256 blocks, mapping each byte into [-1, 1] before normalizing.
func embeddingFromSeed(seed []byte, dimension int) []float64 {
	embedding := make([]float64, dimension)

	block := sha256.Sum256(seed)
	idx := 0
	for i := 0; i < dimension; i++ {
		if idx >= len(block) {
			block = sha256.Sum256(block[:])
			idx = 0
		}
		embedding[i] = float64(block[idx])/127.5 - 1.0
		idx++
	}

	var norm float64
	for _, v := range embedding {
		norm += v * v
	}
	norm = math.Sqrt(norm)
	if norm > 0 {
		for i := range embedding {
			embedding[i] /= norm
		}
	}

	return embedding
}
