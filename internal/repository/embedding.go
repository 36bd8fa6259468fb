package repository

import (
	"context"
	"fmt"

	"github.com/pgvector/pgvector-go"
)

// StudentEmbedding is one reference embedding row joined with the owning
// student's stable key, the shape the encoding store loads at startup.
type StudentEmbedding struct {
	ExternalID string
	Vector     []float64
}

type EmbeddingRepository struct {
	pool PgxPool
}

func NewEmbeddingRepository(pool PgxPool) *EmbeddingRepository {
	return &EmbeddingRepository{pool: pool}
}

// ListAll returns every reference embedding with its student key, ordered by
// key then insertion time so the encoding store sees a stable sequence.
func (r *EmbeddingRepository) ListAll(ctx context.Context) ([]StudentEmbedding, error) {
	query := `
		SELECT s.external_id, e.embedding
		FROM reference_embeddings e
		INNER JOIN students s ON s.id = e.student_id
		ORDER BY s.external_id, e.created_at
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list embeddings: %w", err)
	}
	defer rows.Close()

	var out []StudentEmbedding
	for rows.Next() {
		var externalID string
		var vec pgvector.Vector

		if err := rows.Scan(&externalID, &vec); err != nil {
			return nil, fmt.Errorf("scan embedding: %w", err)
		}

		floats := vec.Slice()
		vector := make([]float64, len(floats))
		for i, v := range floats {
			vector[i] = float64(v)
		}

		out = append(out, StudentEmbedding{ExternalID: externalID, Vector: vector})
	}

	return out, rows.Err()
}
