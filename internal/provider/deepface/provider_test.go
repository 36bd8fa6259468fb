package deepface

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saturnino-fabrica-de-software/presenca/internal/domain"
)

func newTestProvider(t *testing.T, handler http.HandlerFunc) *Provider {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	config := DefaultConfig()
	config.BaseURL = server.URL
	config.RetryCount = 0
	return NewProvider(config)
}

func representHandler(t *testing.T, resp RepresentResponse) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/represent", r.URL.Path)

		var req RepresentRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.NotEmpty(t, req.Img)

		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}
}

func TestProvider_DetectFaces(t *testing.T) {
	resp := RepresentResponse{
		Results: []RepresentResult{
			{
				Embedding:      []float64{0.1, 0.2},
				FacialArea:     FacialArea{X: 10, Y: 20, W: 100, H: 120},
				FaceConfidence: 0.98,
			},
			{
				Embedding:  []float64{0.3, 0.4},
				FacialArea: FacialArea{X: 300, Y: 40, W: 30, H: 30},
			},
		},
	}

	p := newTestProvider(t, representHandler(t, resp))

	faces, err := p.DetectFaces(context.Background(), []byte("fake-jpeg-bytes"))
	require.NoError(t, err)
	require.Len(t, faces, 2)

	assert.Equal(t, domain.Region{X: 10, Y: 20, Width: 100, Height: 120}, faces[0].Region)
	assert.Equal(t, 0.98, faces[0].Confidence)

	// Small face with no detector confidence gets area-based fallback
	assert.Equal(t, 0.3, faces[1].Confidence)
}

func TestProvider_DetectFaces_EmptyImage(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("server should not be called")
	})

	_, err := p.DetectFaces(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidImage)
}

func TestProvider_DetectFaces_ServerError(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := p.DetectFaces(context.Background(), []byte("fake-jpeg-bytes"))
	assert.ErrorIs(t, err, ErrDeepFaceUnavailable)
}

func TestProvider_ExtractEmbedding(t *testing.T) {
	resp := RepresentResponse{
		Results: []RepresentResult{
			{
				Embedding:  []float64{0.9, 0.9},
				FacialArea: FacialArea{X: 500, Y: 500, W: 80, H: 80},
			},
			{
				Embedding:  []float64{0.1, 0.2, 0.3},
				FacialArea: FacialArea{X: 12, Y: 18, W: 98, H: 122},
			},
		},
	}

	p := newTestProvider(t, representHandler(t, resp))

	// Region matches the second result, not the first
	embedding, err := p.ExtractEmbedding(context.Background(), []byte("fake-jpeg-bytes"), domain.Region{X: 10, Y: 20, Width: 100, Height: 120})
	require.NoError(t, err)
	assert.Equal(t, []float64{0.1, 0.2, 0.3}, embedding)
}

func TestProvider_ExtractEmbedding_NoOverlap(t *testing.T) {
	resp := RepresentResponse{
		Results: []RepresentResult{
			{
				Embedding:  []float64{0.9, 0.9},
				FacialArea: FacialArea{X: 500, Y: 500, W: 80, H: 80},
			},
		},
	}

	p := newTestProvider(t, representHandler(t, resp))

	_, err := p.ExtractEmbedding(context.Background(), []byte("fake-jpeg-bytes"), domain.Region{X: 0, Y: 0, Width: 50, Height: 50})
	assert.ErrorIs(t, err, domain.ErrRegionUnsuitable)
}

func TestProvider_ExtractEmbedding_EmptyEmbedding(t *testing.T) {
	resp := RepresentResponse{
		Results: []RepresentResult{
			{
				FacialArea: FacialArea{X: 0, Y: 0, W: 50, H: 50},
			},
		},
	}

	p := newTestProvider(t, representHandler(t, resp))

	_, err := p.ExtractEmbedding(context.Background(), []byte("fake-jpeg-bytes"), domain.Region{X: 0, Y: 0, Width: 50, Height: 50})
	assert.ErrorIs(t, err, domain.ErrRegionUnsuitable)
}

func TestCalculateBackoff(t *testing.T) {
	tests := []struct {
		attempt int
		want    string
	}{
		{0, "1s"},
		{1, "1s"},
		{2, "2s"},
		{3, "4s"},
		{4, "8s"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, calculateBackoff(tt.attempt).String())
	}
}

func TestIntersectionOverUnion(t *testing.T) {
	region := domain.Region{X: 0, Y: 0, Width: 100, Height: 100}

	assert.Equal(t, 1.0, intersectionOverUnion(FacialArea{X: 0, Y: 0, W: 100, H: 100}, region))
	assert.Equal(t, 0.0, intersectionOverUnion(FacialArea{X: 200, Y: 200, W: 50, H: 50}, region))

	half := intersectionOverUnion(FacialArea{X: 0, Y: 0, W: 50, H: 100}, region)
	assert.InDelta(t, 0.5, half, 1e-9)
}
