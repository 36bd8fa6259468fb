package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/saturnino-fabrica-de-software/presenca/internal/domain"
)

type AttendanceRepository struct {
	pool PgxPool
}

func NewAttendanceRepository(pool PgxPool) *AttendanceRepository {
	return &AttendanceRepository{pool: pool}
}

// Create inserts the first-of-day record. A unique violation on
// (student_id, date) comes back as domain.ErrAttendanceExists; callers treat
// that as "already marked", not as a failure.
func (r *AttendanceRepository) Create(ctx context.Context, rec *domain.AttendanceRecord) error {
	query := `
		INSERT INTO attendance (id, student_id, date, hour, marked_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}

	err := r.pool.QueryRow(ctx, query,
		rec.ID,
		rec.StudentID,
		rec.Date,
		rec.Hour,
		rec.MarkedAt,
	).Scan(&rec.ID)

	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrAttendanceExists
		}
		return fmt.Errorf("create attendance: %w", err)
	}

	return nil
}

func (r *AttendanceRepository) GetByStudentDate(ctx context.Context, externalID, date string) (*domain.AttendanceRecord, error) {
	query := `
		SELECT a.id, a.student_id, s.external_id, a.date::text, a.hour, a.marked_at
		FROM attendance a
		INNER JOIN students s ON s.id = a.student_id
		WHERE s.external_id = $1 AND a.date = $2
	`

	var rec domain.AttendanceRecord
	err := r.pool.QueryRow(ctx, query, externalID, date).Scan(
		&rec.ID, &rec.StudentID, &rec.ExternalID, &rec.Date, &rec.Hour, &rec.MarkedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get attendance: %w", err)
	}

	return &rec, nil
}

func (r *AttendanceRepository) ListByDate(ctx context.Context, date string) ([]domain.AttendanceRecord, error) {
	query := `
		SELECT a.id, a.student_id, s.external_id, a.date::text, a.hour, a.marked_at
		FROM attendance a
		INNER JOIN students s ON s.id = a.student_id
		WHERE a.date = $1
		ORDER BY a.marked_at
	`

	rows, err := r.pool.Query(ctx, query, date)
	if err != nil {
		return nil, fmt.Errorf("list attendance: %w", err)
	}
	defer rows.Close()

	var records []domain.AttendanceRecord
	for rows.Next() {
		var rec domain.AttendanceRecord
		err := rows.Scan(&rec.ID, &rec.StudentID, &rec.ExternalID, &rec.Date, &rec.Hour, &rec.MarkedAt)
		if err != nil {
			return nil, fmt.Errorf("scan attendance: %w", err)
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}

// ListPresentByDate returns the external IDs of students whose first sighting
// on the given date happened at or before the given hour slot. The absence
// report diffs this set against the full enrolled set.
func (r *AttendanceRepository) ListPresentByDate(ctx context.Context, date string, hour int) ([]string, error) {
	query := `
		SELECT s.external_id
		FROM attendance a
		INNER JOIN students s ON s.id = a.student_id
		WHERE a.date = $1 AND a.hour <= $2
		ORDER BY s.external_id
	`

	rows, err := r.pool.Query(ctx, query, date, hour)
	if err != nil {
		return nil, fmt.Errorf("list present: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan present: %w", err)
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}

// StudentStats is the per-student aggregate for the stats endpoint.
type StudentStats struct {
	ExternalID string  `json:"external_id"`
	Name       string  `json:"name"`
	DaysSeen   int     `json:"days_seen"`
	Percentage float64 `json:"percentage"`
}

// Stats returns per-student presence counts and the number of distinct days
// with at least one record.
func (r *AttendanceRepository) Stats(ctx context.Context) ([]StudentStats, int, error) {
	var totalDays int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(DISTINCT date) FROM attendance`).Scan(&totalDays)
	if err != nil {
		return nil, 0, fmt.Errorf("count days: %w", err)
	}

	query := `
		SELECT s.external_id, s.name, COUNT(a.id) AS days_seen
		FROM students s
		LEFT JOIN attendance a ON a.student_id = s.id
		GROUP BY s.external_id, s.name
		ORDER BY s.external_id
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("query stats: %w", err)
	}
	defer rows.Close()

	var stats []StudentStats
	for rows.Next() {
		var st StudentStats
		if err := rows.Scan(&st.ExternalID, &st.Name, &st.DaysSeen); err != nil {
			return nil, 0, fmt.Errorf("scan stats: %w", err)
		}
		if totalDays > 0 {
			st.Percentage = float64(st.DaysSeen) / float64(totalDays) * 100
		}
		stats = append(stats, st)
	}

	return stats, totalDays, rows.Err()
}
