package report

import (
	"context"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saturnino-fabrica-de-software/presenca/internal/domain"
	"github.com/saturnino-fabrica-de-software/presenca/internal/notify"
	"github.com/saturnino-fabrica-de-software/presenca/internal/repository"
)

type fakeStudentRepo struct {
	students []domain.Student
}

func (f *fakeStudentRepo) List(_ context.Context) ([]domain.Student, error) {
	return f.students, nil
}

func (f *fakeStudentRepo) GetByExternalID(_ context.Context, externalID string) (*domain.Student, error) {
	for i := range f.students {
		if f.students[i].ExternalID == externalID {
			return &f.students[i], nil
		}
	}
	return nil, domain.ErrStudentNotFound
}

type fakeAttendanceRepo struct {
	// presentByHour maps an hour slot to external IDs marked by then
	presentByHour map[int][]string
	records       []domain.AttendanceRecord
	stats         []repository.StudentStats
	days          int
}

func (f *fakeAttendanceRepo) Create(_ context.Context, _ *domain.AttendanceRecord) error {
	return nil
}

func (f *fakeAttendanceRepo) GetByStudentDate(_ context.Context, _, _ string) (*domain.AttendanceRecord, error) {
	return nil, domain.ErrNotFound
}

func (f *fakeAttendanceRepo) ListByDate(_ context.Context, _ string) ([]domain.AttendanceRecord, error) {
	return f.records, nil
}

func (f *fakeAttendanceRepo) ListPresentByDate(_ context.Context, _ string, hour int) ([]string, error) {
	return f.presentByHour[hour], nil
}

func (f *fakeAttendanceRepo) Stats(_ context.Context) ([]repository.StudentStats, int, error) {
	return f.stats, f.days, nil
}

type recordingSink struct {
	absences []notify.AbsenceEvent
}

func (s *recordingSink) NotifyPresent(_ context.Context, _ notify.PresentEvent) error { return nil }

func (s *recordingSink) NotifyAbsences(_ context.Context, event notify.AbsenceEvent) error {
	s.absences = append(s.absences, event)
	return nil
}

func newTestReporter(t *testing.T, attendance *fakeAttendanceRepo) (*Reporter, *recordingSink) {
	t.Helper()

	students := &fakeStudentRepo{students: []domain.Student{
		{ID: uuid.New(), ExternalID: "alice", Name: "Alice", GuardianEmail: "alice.mom@example.com"},
		{ID: uuid.New(), ExternalID: "bob", Name: "Bob"},
		{ID: uuid.New(), ExternalID: "carol", Name: "Carol"},
	}}

	sink := &recordingSink{}
	logger := slog.New(slog.NewTextHandler(testWriter{t}, nil))
	return New(students, attendance, sink, logger), sink
}

type testWriter struct{ t *testing.T }

func (w testWriter) Write(p []byte) (int, error) {
	w.t.Log(string(p))
	return len(p), nil
}

func TestReporter_AbsencesForSlot(t *testing.T) {
	attendance := &fakeAttendanceRepo{
		presentByHour: map[int][]string{
			8:  {"alice"},
			10: {"alice", "bob"},
		},
	}
	r, _ := newTestReporter(t, attendance)

	event, err := r.AbsencesForSlot(context.Background(), "2026-08-29", 8)
	require.NoError(t, err)

	require.Len(t, event.Absent, 2)
	assert.Equal(t, "bob", event.Absent[0].ExternalID)
	assert.Equal(t, "carol", event.Absent[1].ExternalID)
}

func TestReporter_PresenceCarriesForward(t *testing.T) {
	// Bob arrived between the 8h and 10h slots; only carol is still absent
	attendance := &fakeAttendanceRepo{
		presentByHour: map[int][]string{
			10: {"alice", "bob"},
		},
	}
	r, _ := newTestReporter(t, attendance)

	event, err := r.AbsencesForSlot(context.Background(), "2026-08-29", 10)
	require.NoError(t, err)

	require.Len(t, event.Absent, 1)
	assert.Equal(t, "carol", event.Absent[0].ExternalID)
}

func TestReporter_AbsencesIncludeGuardianContact(t *testing.T) {
	attendance := &fakeAttendanceRepo{presentByHour: map[int][]string{}}
	r, _ := newTestReporter(t, attendance)

	event, err := r.AbsencesForSlot(context.Background(), "2026-08-29", 8)
	require.NoError(t, err)

	require.Len(t, event.Absent, 3)
	assert.Equal(t, "alice.mom@example.com", event.Absent[0].GuardianEmail)
	assert.Empty(t, event.Absent[1].GuardianEmail)
}

func TestReporter_AbsencesForSlot_BadDate(t *testing.T) {
	r, _ := newTestReporter(t, &fakeAttendanceRepo{})

	_, err := r.AbsencesForSlot(context.Background(), "29/08/2026", 8)
	assert.ErrorIs(t, err, domain.ErrInvalidDate)
}

func TestReporter_Notify(t *testing.T) {
	attendance := &fakeAttendanceRepo{
		presentByHour: map[int][]string{
			8:  {"alice"},
			10: {"alice", "bob"},
		},
	}
	r, sink := newTestReporter(t, attendance)

	require.NoError(t, r.Notify(context.Background(), "2026-08-29", []int{8, 10}))

	require.Len(t, sink.absences, 2)
	assert.Equal(t, 8, sink.absences[0].Hour)
	assert.Len(t, sink.absences[0].Absent, 2)
	assert.Equal(t, 10, sink.absences[1].Hour)
	assert.Len(t, sink.absences[1].Absent, 1)
}

func TestReporter_Stats(t *testing.T) {
	attendance := &fakeAttendanceRepo{
		stats: []repository.StudentStats{
			{ExternalID: "alice", Name: "Alice", DaysSeen: 9, Percentage: 90},
		},
		days: 10,
	}
	r, _ := newTestReporter(t, attendance)

	stats, days, err := r.Stats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 10, days)
	require.Len(t, stats, 1)
	assert.Equal(t, 90.0, stats[0].Percentage)
}
