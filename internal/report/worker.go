package report

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Worker emits the absence summary for each configured hour slot once the
// slot's hour has passed, once per day per slot.
type Worker struct {
	reporter *Reporter
	logger   *slog.Logger
	location *time.Location
	slots    []int
	interval time.Duration
	done     chan struct{}

	fired map[string]struct{}
	now   func() time.Time
}

func NewWorker(reporter *Reporter, logger *slog.Logger, location *time.Location, slots []int, interval time.Duration) *Worker {
	if interval == 0 {
		interval = 30 * time.Second
	}
	if location == nil {
		location = time.Local
	}

	return &Worker{
		reporter: reporter,
		logger:   logger,
		location: location,
		slots:    slots,
		interval: interval,
		done:     make(chan struct{}),
		fired:    make(map[string]struct{}),
		now:      time.Now,
	}
}

func (w *Worker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.logger.Info("absence report worker started",
		slog.Any("slots", w.slots),
		slog.Duration("interval", w.interval),
	)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("absence report worker stopped")
			return
		case <-w.done:
			w.logger.Info("absence report worker stopped")
			return
		case <-ticker.C:
			w.process(ctx)
		}
	}
}

func (w *Worker) Stop() {
	close(w.done)
}

func (w *Worker) process(ctx context.Context) {
	now := w.now().In(w.location)
	date := now.Format(time.DateOnly)

	for _, slot := range w.slots {
		if now.Hour() < slot {
			continue
		}

		key := fmt.Sprintf("%s|%02d", date, slot)
		if _, ok := w.fired[key]; ok {
			continue
		}

		if err := w.reporter.Notify(ctx, date, []int{slot}); err != nil {
			w.logger.Error("failed to emit absence summary",
				slog.String("date", date),
				slog.Int("hour", slot),
				slog.Any("error", err),
			)
			continue
		}
		w.fired[key] = struct{}{}
	}

	// Entries from previous days are never consulted again
	for key := range w.fired {
		if len(key) >= 10 && key[:10] != date {
			delete(w.fired, key)
		}
	}
}
