package webhook

import (
	"context"

	"github.com/saturnino-fabrica-de-software/presenca/internal/notify"
)

// Sink adapts the webhook service to the pipeline's notification interface
type Sink struct {
	service *Service
}

func NewSink(service *Service) *Sink {
	return &Sink{service: service}
}

func (s *Sink) NotifyPresent(ctx context.Context, event notify.PresentEvent) error {
	return s.service.Dispatch(ctx, notify.EventPresent, event)
}

func (s *Sink) NotifyAbsences(ctx context.Context, event notify.AbsenceEvent) error {
	return s.service.Dispatch(ctx, notify.EventAbsentSummary, event)
}
