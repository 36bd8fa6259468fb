// Package report gera os resumos de ausência e as estatísticas de
// frequência a partir do ledger.
package report

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/saturnino-fabrica-de-software/presenca/internal/domain"
	"github.com/saturnino-fabrica-de-software/presenca/internal/notify"
	"github.com/saturnino-fabrica-de-software/presenca/internal/repository"
)

// Reporter compara a lista de alunos matriculados com os presentes de
// cada horário e emite os resumos de ausência.
type Reporter struct {
	students   repository.StudentRepositoryInterface
	attendance repository.AttendanceRepositoryInterface
	sink       notify.Sink
	logger     *slog.Logger
}

func New(
	students repository.StudentRepositoryInterface,
	attendance repository.AttendanceRepositoryInterface,
	sink notify.Sink,
	logger *slog.Logger,
) *Reporter {
	return &Reporter{
		students:   students,
		attendance: attendance,
		sink:       sink,
		logger:     logger,
	}
}

// AbsencesForSlot lists the enrolled students with no attendance record
// up to the given hour of the date. A student marked at 08h is present
// for the 10h slot as well; presence within a day never expires.
func (r *Reporter) AbsencesForSlot(ctx context.Context, date string, hour int) (*notify.AbsenceEvent, error) {
	if err := validateDate(date); err != nil {
		return nil, err
	}

	enrolled, err := r.students.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}

	presentIDs, err := r.attendance.ListPresentByDate(ctx, date, hour)
	if err != nil {
		return nil, fmt.Errorf("list present for %s hour %d: %w", date, hour, err)
	}

	present := make(map[string]struct{}, len(presentIDs))
	for _, id := range presentIDs {
		present[id] = struct{}{}
	}

	event := &notify.AbsenceEvent{Date: date, Hour: hour}
	for _, student := range enrolled {
		if _, ok := present[student.ExternalID]; ok {
			continue
		}
		event.Absent = append(event.Absent, notify.AbsentStudent{
			ExternalID:    student.ExternalID,
			Name:          student.Name,
			GuardianEmail: student.GuardianEmail,
			GuardianPhone: student.GuardianPhone,
		})
	}

	return event, nil
}

// Notify emits one absence summary per hour slot through the sink
func (r *Reporter) Notify(ctx context.Context, date string, hours []int) error {
	for _, hour := range hours {
		event, err := r.AbsencesForSlot(ctx, date, hour)
		if err != nil {
			return err
		}

		r.logger.Info("absence summary",
			slog.String("date", date),
			slog.Int("hour", hour),
			slog.Int("absent", len(event.Absent)),
		)

		if err := r.sink.NotifyAbsences(ctx, *event); err != nil {
			return fmt.Errorf("notify absences for %s hour %d: %w", date, hour, err)
		}
	}
	return nil
}

// DayRecords returns every attendance record of the date
func (r *Reporter) DayRecords(ctx context.Context, date string) ([]domain.AttendanceRecord, error) {
	if err := validateDate(date); err != nil {
		return nil, err
	}
	return r.attendance.ListByDate(ctx, date)
}

// Stats returns per-student attendance counts and the number of
// distinct school days seen so far
func (r *Reporter) Stats(ctx context.Context) ([]repository.StudentStats, int, error) {
	return r.attendance.Stats(ctx)
}

func validateDate(date string) error {
	if _, err := time.Parse(time.DateOnly, date); err != nil {
		return domain.ErrInvalidDate.WithError(err)
	}
	return nil
}
