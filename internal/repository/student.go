package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/saturnino-fabrica-de-software/presenca/internal/domain"
)

type StudentRepository struct {
	pool PgxPool
}

func NewStudentRepository(pool PgxPool) *StudentRepository {
	return &StudentRepository{pool: pool}
}

func (r *StudentRepository) List(ctx context.Context) ([]domain.Student, error) {
	query := `
		SELECT id, external_id, name, guardian_email, guardian_phone, created_at, updated_at
		FROM students
		ORDER BY external_id
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	defer rows.Close()

	var students []domain.Student
	for rows.Next() {
		var s domain.Student
		var email, phone *string

		err := rows.Scan(&s.ID, &s.ExternalID, &s.Name, &email, &phone, &s.CreatedAt, &s.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan student: %w", err)
		}

		if email != nil {
			s.GuardianEmail = *email
		}
		if phone != nil {
			s.GuardianPhone = *phone
		}

		students = append(students, s)
	}

	return students, rows.Err()
}

func (r *StudentRepository) GetByExternalID(ctx context.Context, externalID string) (*domain.Student, error) {
	query := `
		SELECT id, external_id, name, guardian_email, guardian_phone, created_at, updated_at
		FROM students
		WHERE external_id = $1
	`

	var s domain.Student
	var email, phone *string

	err := r.pool.QueryRow(ctx, query, externalID).Scan(
		&s.ID, &s.ExternalID, &s.Name, &email, &phone, &s.CreatedAt, &s.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrStudentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get student by external_id: %w", err)
	}

	if email != nil {
		s.GuardianEmail = *email
	}
	if phone != nil {
		s.GuardianPhone = *phone
	}

	return &s, nil
}
