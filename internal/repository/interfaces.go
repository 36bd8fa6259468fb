package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/saturnino-fabrica-de-software/presenca/internal/domain"
)

// PgxPool is the subset of pgxpool.Pool the repositories use. pgxmock
// implements it, which keeps repository tests off a live database.
type PgxPool interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// StudentRepositoryInterface defines operations for enrolled-identity access
type StudentRepositoryInterface interface {
	List(ctx context.Context) ([]domain.Student, error)
	GetByExternalID(ctx context.Context, externalID string) (*domain.Student, error)
}

// EmbeddingRepositoryInterface defines read access to reference embeddings
type EmbeddingRepositoryInterface interface {
	ListAll(ctx context.Context) ([]StudentEmbedding, error)
}

// AttendanceRepositoryInterface defines operations for attendance records
type AttendanceRepositoryInterface interface {
	Create(ctx context.Context, rec *domain.AttendanceRecord) error
	GetByStudentDate(ctx context.Context, externalID, date string) (*domain.AttendanceRecord, error)
	ListByDate(ctx context.Context, date string) ([]domain.AttendanceRecord, error)
	ListPresentByDate(ctx context.Context, date string, hour int) ([]string, error)
	Stats(ctx context.Context) ([]StudentStats, int, error)
}

// RecognitionRepositoryInterface defines append-only audit logging
type RecognitionRepositoryInterface interface {
	Create(ctx context.Context, rec *domain.Recognition) error
}
