// Package ledger implementa a marcação de presença com garantia de
// no máximo um registro por aluno por dia.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/saturnino-fabrica-de-software/presenca/internal/domain"
	"github.com/saturnino-fabrica-de-software/presenca/internal/repository"
)

// MarkResult reports the outcome of a mark attempt
type MarkResult struct {
	// Created is true when this call produced the day's record,
	// false when the student was already marked for the date
	Created bool
	Record  *domain.AttendanceRecord
	Student *domain.Student
}

// Ledger marks attendance durably. The database unique constraint on
// (student_id, date) is the authority for at-most-once; the per-identity
// locks only avoid redundant round trips when the same face shows up in
// consecutive frames.
type Ledger struct {
	students   repository.StudentRepositoryInterface
	attendance repository.AttendanceRepositoryInterface
	location   *time.Location
	logger     *slog.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// New creates a Ledger writing dates in the given location
func New(
	students repository.StudentRepositoryInterface,
	attendance repository.AttendanceRepositoryInterface,
	location *time.Location,
	logger *slog.Logger,
) *Ledger {
	if location == nil {
		location = time.Local
	}
	return &Ledger{
		students:   students,
		attendance: attendance,
		location:   location,
		logger:     logger,
		locks:      make(map[string]*sync.Mutex),
	}
}

// TryMark records attendance for the identified student at the given
// instant. The first call of the day creates the record; later calls on
// the same date return the existing record with Created false.
func (l *Ledger) TryMark(ctx context.Context, externalID string, seenAt time.Time) (*MarkResult, error) {
	lock := l.identityLock(externalID)
	lock.Lock()
	defer lock.Unlock()

	local := seenAt.In(l.location)
	date := local.Format(time.DateOnly)

	student, err := l.students.GetByExternalID(ctx, externalID)
	if err != nil {
		return nil, fmt.Errorf("resolve student %s: %w", externalID, err)
	}

	record := &domain.AttendanceRecord{
		ID:         uuid.New(),
		StudentID:  student.ID,
		ExternalID: externalID,
		Date:       date,
		Hour:       local.Hour(),
		MarkedAt:   local,
	}

	err = l.attendance.Create(ctx, record)
	if err == nil {
		l.logger.Info("attendance marked",
			slog.String("student", externalID),
			slog.String("date", date),
			slog.Int("hour", record.Hour),
		)
		return &MarkResult{Created: true, Record: record, Student: student}, nil
	}

	if errors.Is(err, domain.ErrAttendanceExists) {
		existing, getErr := l.attendance.GetByStudentDate(ctx, externalID, date)
		if getErr != nil {
			return nil, fmt.Errorf("fetch existing record for %s on %s: %w", externalID, date, getErr)
		}
		return &MarkResult{Created: false, Record: existing, Student: student}, nil
	}

	return nil, domain.ErrLedgerWrite.WithError(err)
}

func (l *Ledger) identityLock(externalID string) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()

	lock, ok := l.locks[externalID]
	if !ok {
		lock = &sync.Mutex{}
		l.locks[externalID] = lock
	}
	return lock
}
