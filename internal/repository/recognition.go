package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/saturnino-fabrica-de-software/presenca/internal/domain"
)

type RecognitionRepository struct {
	pool PgxPool
}

func NewRecognitionRepository(pool PgxPool) *RecognitionRepository {
	return &RecognitionRepository{pool: pool}
}

func (r *RecognitionRepository) Create(ctx context.Context, rec *domain.Recognition) error {
	query := `
		INSERT INTO recognitions (id, student_id, distance, matched, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING created_at
	`

	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}

	err := r.pool.QueryRow(ctx, query,
		rec.ID,
		rec.StudentID,
		rec.Distance,
		rec.Matched,
	).Scan(&rec.CreatedAt)

	if err != nil {
		return fmt.Errorf("create recognition: %w", err)
	}

	return nil
}
