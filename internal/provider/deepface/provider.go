package deepface

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/saturnino-fabrica-de-software/presenca/internal/domain"
	"github.com/saturnino-fabrica-de-software/presenca/internal/provider"
)

// minFaceArea é a área mínima em pixels para considerar um rosto utilizável
const minFaceArea = 2500

// Provider implementa provider.FaceProvider usando o serviço DeepFace
type Provider struct {
	client *Client
}

// NewProvider cria um novo provider DeepFace
func NewProvider(config Config) *Provider {
	return &Provider{
		client: NewClient(config),
	}
}

// DetectFaces localiza rostos na imagem via POST /represent
func (p *Provider) DetectFaces(ctx context.Context, image []byte) ([]provider.DetectedFace, error) {
	if len(image) == 0 {
		return nil, domain.ErrInvalidImage
	}

	resp, err := p.client.Represent(ctx, encodeImage(image))
	if err != nil {
		return nil, fmt.Errorf("represent: %w", err)
	}

	faces := make([]provider.DetectedFace, 0, len(resp.Results))
	for _, result := range resp.Results {
		faces = append(faces, provider.DetectedFace{
			Region: domain.Region{
				X:      result.FacialArea.X,
				Y:      result.FacialArea.Y,
				Width:  result.FacialArea.W,
				Height: result.FacialArea.H,
			},
			Confidence: calculateConfidence(result),
		})
	}

	return faces, nil
}

// ExtractEmbedding gera o embedding do rosto na região indicada.
// O DeepFace processa o frame inteiro; o resultado escolhido é o que
// melhor sobrepõe a região solicitada.
func (p *Provider) ExtractEmbedding(ctx context.Context, image []byte, region domain.Region) ([]float64, error) {
	if len(image) == 0 {
		return nil, domain.ErrInvalidImage
	}

	resp, err := p.client.Represent(ctx, encodeImage(image))
	if err != nil {
		return nil, fmt.Errorf("represent: %w", err)
	}

	result, ok := bestOverlap(resp.Results, region)
	if !ok {
		return nil, domain.ErrRegionUnsuitable.WithError(ErrNoFaceInRegion)
	}

	if len(result.Embedding) == 0 {
		return nil, domain.ErrRegionUnsuitable.WithError(ErrNoFaceInRegion)
	}

	return result.Embedding, nil
}

// bestOverlap selects the represent result whose facial area has the
// highest intersection-over-union with the requested region.
func bestOverlap(results []RepresentResult, region domain.Region) (RepresentResult, bool) {
	var best RepresentResult
	bestIoU := 0.0
	found := false

	for _, result := range results {
		iou := intersectionOverUnion(result.FacialArea, region)
		if iou > bestIoU {
			best = result
			bestIoU = iou
			found = true
		}
	}

	return best, found
}

func intersectionOverUnion(area FacialArea, region domain.Region) float64 {
	x1 := max(area.X, region.X)
	y1 := max(area.Y, region.Y)
	x2 := min(area.X+area.W, region.X+region.Width)
	y2 := min(area.Y+area.H, region.Y+region.Height)

	if x2 <= x1 || y2 <= y1 {
		return 0
	}

	intersection := float64((x2 - x1) * (y2 - y1))
	union := float64(area.W*area.H) + float64(region.Width*region.Height) - intersection
	if union <= 0 {
		return 0
	}

	return intersection / union
}

// calculateConfidence derives a confidence score from the detector's own
// confidence when present, falling back to face area quality.
func calculateConfidence(result RepresentResult) float64 {
	if result.FaceConfidence > 0 {
		return result.FaceConfidence
	}

	area := result.FacialArea.W * result.FacialArea.H
	if area < minFaceArea {
		return 0.3
	}
	if area < minFaceArea*4 {
		return 0.7
	}
	return 0.9
}

func encodeImage(image []byte) string {
	return base64.StdEncoding.EncodeToString(image)
}
