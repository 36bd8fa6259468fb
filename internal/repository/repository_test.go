package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/pgvector/pgvector-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saturnino-fabrica-de-software/presenca/internal/domain"
)

// AttendanceRepository tests

func TestAttendanceRepository_Create(t *testing.T) {
	studentID := uuid.New()
	markedAt := time.Now()

	tests := []struct {
		name      string
		record    *domain.AttendanceRecord
		mockSetup func(mock pgxmock.PgxPoolIface)
		wantErr   error
	}{
		{
			name: "first mark of the day",
			record: &domain.AttendanceRecord{
				StudentID: studentID,
				Date:      "2024-05-01",
				Hour:      9,
				MarkedAt:  markedAt,
			},
			mockSetup: func(mock pgxmock.PgxPoolIface) {
				recID := uuid.New()
				mock.ExpectQuery(`INSERT INTO attendance \(id, student_id, date, hour, marked_at\)`).
					WithArgs(pgxmock.AnyArg(), studentID, "2024-05-01", 9, markedAt).
					WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(recID))
			},
			wantErr: nil,
		},
		{
			name: "duplicate day maps to already marked",
			record: &domain.AttendanceRecord{
				StudentID: studentID,
				Date:      "2024-05-01",
				Hour:      10,
				MarkedAt:  markedAt,
			},
			mockSetup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`INSERT INTO attendance \(id, student_id, date, hour, marked_at\)`).
					WithArgs(pgxmock.AnyArg(), studentID, "2024-05-01", 10, markedAt).
					WillReturnError(errors.New(`ERROR: duplicate key value violates unique constraint "attendance_student_date_key" (SQLSTATE 23505)`))
			},
			wantErr: domain.ErrAttendanceExists,
		},
		{
			name: "storage failure surfaces",
			record: &domain.AttendanceRecord{
				StudentID: studentID,
				Date:      "2024-05-01",
				Hour:      10,
				MarkedAt:  markedAt,
			},
			mockSetup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`INSERT INTO attendance \(id, student_id, date, hour, marked_at\)`).
					WithArgs(pgxmock.AnyArg(), studentID, "2024-05-01", 10, markedAt).
					WillReturnError(errors.New("connection refused"))
			},
			wantErr: errors.New("create attendance"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, err := pgxmock.NewPool()
			require.NoError(t, err)
			defer mock.Close()

			tt.mockSetup(mock)

			repo := NewAttendanceRepository(mock)
			err = repo.Create(context.Background(), tt.record)

			if tt.wantErr == nil {
				assert.NoError(t, err)
				assert.NotEqual(t, uuid.Nil, tt.record.ID)
			} else if errors.Is(tt.wantErr, domain.ErrAttendanceExists) {
				assert.ErrorIs(t, err, domain.ErrAttendanceExists)
			} else {
				assert.Error(t, err)
				assert.NotErrorIs(t, err, domain.ErrAttendanceExists)
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestAttendanceRepository_GetByStudentDate(t *testing.T) {
	recID := uuid.New()
	studentID := uuid.New()
	markedAt := time.Now()

	tests := []struct {
		name       string
		externalID string
		date       string
		mockSetup  func(mock pgxmock.PgxPoolIface)
		want       *domain.AttendanceRecord
		wantErr    error
	}{
		{
			name:       "record exists",
			externalID: "S042",
			date:       "2024-05-01",
			mockSetup: func(mock pgxmock.PgxPoolIface) {
				rows := pgxmock.NewRows([]string{"id", "student_id", "external_id", "date", "hour", "marked_at"}).
					AddRow(recID, studentID, "S042", "2024-05-01", 9, markedAt)
				mock.ExpectQuery(`SELECT a.id, a.student_id, s.external_id, a.date::text, a.hour, a.marked_at FROM attendance a`).
					WithArgs("S042", "2024-05-01").
					WillReturnRows(rows)
			},
			want: &domain.AttendanceRecord{
				ID:         recID,
				StudentID:  studentID,
				ExternalID: "S042",
				Date:       "2024-05-01",
				Hour:       9,
				MarkedAt:   markedAt,
			},
		},
		{
			name:       "no record for day",
			externalID: "S042",
			date:       "2024-05-02",
			mockSetup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`SELECT a.id, a.student_id, s.external_id, a.date::text, a.hour, a.marked_at FROM attendance a`).
					WithArgs("S042", "2024-05-02").
					WillReturnError(pgx.ErrNoRows)
			},
			wantErr: domain.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, err := pgxmock.NewPool()
			require.NoError(t, err)
			defer mock.Close()

			tt.mockSetup(mock)

			repo := NewAttendanceRepository(mock)
			got, err := repo.GetByStudentDate(context.Background(), tt.externalID, tt.date)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestAttendanceRepository_ListPresentByDate(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	rows := pgxmock.NewRows([]string{"external_id"}).
		AddRow("S001").
		AddRow("S003")
	mock.ExpectQuery(`SELECT s.external_id FROM attendance a`).
		WithArgs("2024-05-01", 10).
		WillReturnRows(rows)

	repo := NewAttendanceRepository(mock)
	ids, err := repo.ListPresentByDate(context.Background(), "2024-05-01", 10)

	require.NoError(t, err)
	assert.Equal(t, []string{"S001", "S003"}, ids)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// StudentRepository tests

func TestStudentRepository_GetByExternalID(t *testing.T) {
	studentID := uuid.New()
	now := time.Now()

	tests := []struct {
		name       string
		externalID string
		mockSetup  func(mock pgxmock.PgxPoolIface)
		want       *domain.Student
		wantErr    error
	}{
		{
			name:       "student found",
			externalID: "S042",
			mockSetup: func(mock pgxmock.PgxPoolIface) {
				email := "parent@example.com"
				phone := "+919876543210"
				rows := pgxmock.NewRows([]string{"id", "external_id", "name", "guardian_email", "guardian_phone", "created_at", "updated_at"}).
					AddRow(studentID, "S042", "Alice Kumar", &email, &phone, now, now)
				mock.ExpectQuery(`SELECT id, external_id, name, guardian_email, guardian_phone, created_at, updated_at FROM students`).
					WithArgs("S042").
					WillReturnRows(rows)
			},
			want: &domain.Student{
				ID:            studentID,
				ExternalID:    "S042",
				Name:          "Alice Kumar",
				GuardianEmail: "parent@example.com",
				GuardianPhone: "+919876543210",
				CreatedAt:     now,
				UpdatedAt:     now,
			},
		},
		{
			name:       "student not found",
			externalID: "S999",
			mockSetup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`SELECT id, external_id, name, guardian_email, guardian_phone, created_at, updated_at FROM students`).
					WithArgs("S999").
					WillReturnError(pgx.ErrNoRows)
			},
			wantErr: domain.ErrStudentNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, err := pgxmock.NewPool()
			require.NoError(t, err)
			defer mock.Close()

			tt.mockSetup(mock)

			repo := NewStudentRepository(mock)
			got, err := repo.GetByExternalID(context.Background(), tt.externalID)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

// EmbeddingRepository tests

func TestEmbeddingRepository_ListAll(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	rows := pgxmock.NewRows([]string{"external_id", "embedding"}).
		AddRow("S001", pgvector.NewVector([]float32{0.1, 0.2, 0.3})).
		AddRow("S001", pgvector.NewVector([]float32{0.4, 0.5, 0.6})).
		AddRow("S002", pgvector.NewVector([]float32{0.7, 0.8, 0.9}))
	mock.ExpectQuery(`SELECT s.external_id, e.embedding FROM reference_embeddings e`).
		WillReturnRows(rows)

	repo := NewEmbeddingRepository(mock)
	got, err := repo.ListAll(context.Background())

	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "S001", got[0].ExternalID)
	assert.Equal(t, "S002", got[2].ExternalID)
	assert.InDelta(t, 0.1, got[0].Vector[0], 1e-6)
	assert.InDelta(t, 0.9, got[2].Vector[2], 1e-6)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// RecognitionRepository tests

func TestRecognitionRepository_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	studentID := uuid.New()
	mock.ExpectQuery(`INSERT INTO recognitions \(id, student_id, distance, matched, created_at\)`).
		WithArgs(pgxmock.AnyArg(), &studentID, 0.23, true).
		WillReturnRows(pgxmock.NewRows([]string{"created_at"}).AddRow(time.Now()))

	repo := NewRecognitionRepository(mock)
	err = repo.Create(context.Background(), &domain.Recognition{
		StudentID: &studentID,
		Distance:  0.23,
		Matched:   true,
	})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
