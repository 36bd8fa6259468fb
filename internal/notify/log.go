package notify

import (
	"context"
	"log/slog"
)

// LogSink writes events to the structured log. Always registered, so a
// deployment without webhooks still has a visible attendance trail.
type LogSink struct {
	logger *slog.Logger
}

func NewLogSink(logger *slog.Logger) *LogSink {
	return &LogSink{logger: logger}
}

func (s *LogSink) NotifyPresent(_ context.Context, event PresentEvent) error {
	s.logger.Info("student present",
		slog.String("student", event.ExternalID),
		slog.String("name", event.Name),
		slog.String("date", event.Date),
		slog.Int("hour", event.Hour),
		slog.Float64("distance", event.Distance),
	)
	return nil
}

func (s *LogSink) NotifyAbsences(_ context.Context, event AbsenceEvent) error {
	for _, student := range event.Absent {
		s.logger.Warn("student absent",
			slog.String("student", student.ExternalID),
			slog.String("name", student.Name),
			slog.String("date", event.Date),
			slog.Int("hour", event.Hour),
		)
	}
	return nil
}
