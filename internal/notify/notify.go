// Package notify entrega os eventos de presença e ausência aos
// destinos configurados.
package notify

import (
	"context"
	"time"
)

// Event types emitted by the attendance pipeline
const (
	EventPresent       = "attendance.present"
	EventAbsentSummary = "attendance.absent_summary"
)

// PresentEvent is emitted once per student per day, when the day's
// attendance record is created
type PresentEvent struct {
	ExternalID string    `json:"external_id"`
	Name       string    `json:"name"`
	Date       string    `json:"date"`
	Hour       int       `json:"hour"`
	Distance   float64   `json:"distance"`
	MarkedAt   time.Time `json:"marked_at"`
}

// AbsentStudent identifies one enrolled student missing from a slot
type AbsentStudent struct {
	ExternalID    string `json:"external_id"`
	Name          string `json:"name"`
	GuardianEmail string `json:"guardian_email,omitempty"`
	GuardianPhone string `json:"guardian_phone,omitempty"`
}

// AbsenceEvent summarizes who was missing for a date and hour slot
type AbsenceEvent struct {
	Date   string          `json:"date"`
	Hour   int             `json:"hour"`
	Absent []AbsentStudent `json:"absent"`
}

// Sink recebe os eventos do pipeline. Implementações não devem bloquear
// o ciclo de reconhecimento por muito tempo.
type Sink interface {
	NotifyPresent(ctx context.Context, event PresentEvent) error
	NotifyAbsences(ctx context.Context, event AbsenceEvent) error
}

// MultiSink fans events out to every sink, returning the first error
// after all sinks were attempted
type MultiSink []Sink

func (m MultiSink) NotifyPresent(ctx context.Context, event PresentEvent) error {
	var firstErr error
	for _, sink := range m {
		if err := sink.NotifyPresent(ctx, event); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (m MultiSink) NotifyAbsences(ctx context.Context, event AbsenceEvent) error {
	var firstErr error
	for _, sink := range m {
		if err := sink.NotifyAbsences(ctx, event); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
