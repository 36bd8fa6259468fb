// Package pipeline liga captura, localização, matching e marcação de
// presença em um ciclo contínuo.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"

	"github.com/saturnino-fabrica-de-software/presenca/internal/capture"
	"github.com/saturnino-fabrica-de-software/presenca/internal/domain"
	"github.com/saturnino-fabrica-de-software/presenca/internal/encoding"
	"github.com/saturnino-fabrica-de-software/presenca/internal/ledger"
	"github.com/saturnino-fabrica-de-software/presenca/internal/matcher"
	"github.com/saturnino-fabrica-de-software/presenca/internal/notify"
	"github.com/saturnino-fabrica-de-software/presenca/internal/provider"
	"github.com/saturnino-fabrica-de-software/presenca/internal/repository"
)

// Options tunes the pipeline's failure handling
type Options struct {
	// AcquireBackoff is the pause after a failed frame read before retrying
	AcquireBackoff time.Duration
	// LedgerRetryBase is the initial backoff for a failed attendance write
	LedgerRetryBase time.Duration
	// LedgerRetryMax bounds the total time spent retrying one attendance
	// write before the pipeline gives up and stops
	LedgerRetryMax time.Duration
}

// DefaultOptions returns the production defaults
func DefaultOptions() Options {
	return Options{
		AcquireBackoff:  2 * time.Second,
		LedgerRetryBase: 500 * time.Millisecond,
		LedgerRetryMax:  30 * time.Second,
	}
}

// Pipeline executa o ciclo frame, rostos, embeddings, matching, marcação.
// Regiões inválidas e rostos desconhecidos são descartados sem afetar os
// demais rostos do mesmo frame.
type Pipeline struct {
	source       capture.FrameSource
	faces        provider.FaceProvider
	store        *encoding.Store
	matcher      *matcher.Matcher
	ledger       *ledger.Ledger
	recognitions repository.RecognitionRepositoryInterface
	sink         notify.Sink
	logger       *slog.Logger
	opts         Options
}

func New(
	source capture.FrameSource,
	faces provider.FaceProvider,
	store *encoding.Store,
	m *matcher.Matcher,
	l *ledger.Ledger,
	recognitions repository.RecognitionRepositoryInterface,
	sink notify.Sink,
	logger *slog.Logger,
	opts Options,
) *Pipeline {
	return &Pipeline{
		source:       source,
		faces:        faces,
		store:        store,
		matcher:      m,
		ledger:       l,
		recognitions: recognitions,
		sink:         sink,
		logger:       logger,
		opts:         opts,
	}
}

// Run processes frames until the context is cancelled, the source is
// exhausted, or an attendance write fails past its retry budget.
func (p *Pipeline) Run(ctx context.Context) error {
	p.logger.Info("pipeline started",
		slog.Int("identities", p.store.Identities()),
		slog.Float64("threshold", p.matcher.Threshold()),
	)

	for {
		if err := ctx.Err(); err != nil {
			p.logger.Info("pipeline stopped")
			return nil
		}

		frame, err := p.source.Next(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				p.logger.Info("pipeline stopped")
				return nil
			}
			if errors.Is(err, capture.ErrSourceExhausted) || errors.Is(err, capture.ErrSourceClosed) {
				p.logger.Info("frame source finished, pipeline stopping")
				return nil
			}

			p.logger.Warn("frame acquisition failed, retrying",
				slog.String("error", err.Error()),
				slog.Duration("backoff", p.opts.AcquireBackoff),
			)
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(p.opts.AcquireBackoff):
			}
			continue
		}

		if err := p.processFrame(ctx, frame); err != nil {
			return err
		}
	}
}

// processFrame runs one full cycle over a single frame
func (p *Pipeline) processFrame(ctx context.Context, frame *capture.Frame) error {
	faces, err := p.faces.DetectFaces(ctx, frame.Bytes)
	if err != nil {
		p.logger.Warn("face detection failed, skipping frame", slog.String("error", err.Error()))
		return nil
	}
	if len(faces) == 0 {
		return nil
	}

	matches := p.matchFaces(ctx, frame, faces)

	// Attendance writes are serialized so two faces of the same student
	// in one frame cannot race each other
	for _, m := range matches {
		if m.Unknown {
			p.auditRecognition(ctx, m, nil)
			continue
		}

		result, err := p.markWithRetry(ctx, m.ExternalID, frame.Timestamp)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("attendance write for %s exhausted retries: %w", m.ExternalID, err)
		}
		if result == nil {
			p.auditRecognition(ctx, m, nil)
			continue
		}
		p.auditRecognition(ctx, m, result.Student)

		if result.Created {
			event := notify.PresentEvent{
				ExternalID: result.Record.ExternalID,
				Name:       result.Student.Name,
				Date:       result.Record.Date,
				Hour:       result.Record.Hour,
				Distance:   m.Distance,
				MarkedAt:   result.Record.MarkedAt,
			}
			if err := p.sink.NotifyPresent(ctx, event); err != nil {
				p.logger.Warn("present notification failed",
					slog.String("student", m.ExternalID),
					slog.String("error", err.Error()),
				)
			}
		}
	}

	return nil
}

// matchFaces extracts embeddings and matches them concurrently. A face
// whose region is degenerate or whose embedding fails is dropped without
// touching the others.
func (p *Pipeline) matchFaces(ctx context.Context, frame *capture.Frame, faces []provider.DetectedFace) []domain.MatchResult {
	results := make([]domain.MatchResult, len(faces))
	valid := make([]bool, len(faces))

	var wg sync.WaitGroup
	for i, face := range faces {
		if !face.Region.Valid(frame.Width, frame.Height) {
			p.logger.Debug("discarding degenerate region",
				slog.Int("x", face.Region.X),
				slog.Int("y", face.Region.Y),
				slog.Int("width", face.Region.Width),
				slog.Int("height", face.Region.Height),
			)
			continue
		}

		wg.Add(1)
		go func(i int, face provider.DetectedFace) {
			defer wg.Done()

			embedding, err := p.faces.ExtractEmbedding(ctx, frame.Bytes, face.Region)
			if err != nil {
				if errors.Is(err, domain.ErrRegionUnsuitable) {
					p.logger.Debug("region unsuitable for embedding, skipping face")
				} else {
					p.logger.Warn("embedding extraction failed, skipping face",
						slog.String("error", err.Error()),
					)
				}
				return
			}

			results[i] = p.matcher.Match(embedding, p.store)
			valid[i] = true
		}(i, face)
	}
	wg.Wait()

	out := make([]domain.MatchResult, 0, len(faces))
	for i := range results {
		if valid[i] {
			out = append(out, results[i])
		}
	}
	return out
}

// markWithRetry wraps the ledger write in bounded exponential backoff.
// A student lookup miss is not retried; the identity was removed since
// the encoding store was loaded.
func (p *Pipeline) markWithRetry(ctx context.Context, externalID string, seenAt time.Time) (*ledger.MarkResult, error) {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = p.opts.LedgerRetryBase
	policy.MaxElapsedTime = p.opts.LedgerRetryMax

	var result *ledger.MarkResult
	operation := func() error {
		var err error
		result, err = p.ledger.TryMark(ctx, externalID, seenAt)
		if err != nil {
			if errors.Is(err, domain.ErrStudentNotFound) {
				p.logger.Warn("matched student no longer enrolled", slog.String("student", externalID))
				result = nil
				return nil
			}
			p.logger.Warn("attendance write failed, retrying",
				slog.String("student", externalID),
				slog.String("error", err.Error()),
			)
		}
		return err
	}

	if err := backoff.Retry(operation, backoff.WithContext(policy, ctx)); err != nil {
		return nil, err
	}
	return result, nil
}

// auditRecognition records the match decision. Audit failures never stop
// the pipeline.
func (p *Pipeline) auditRecognition(ctx context.Context, m domain.MatchResult, student *domain.Student) {
	rec := &domain.Recognition{
		ID:        uuid.New(),
		Distance:  m.Distance,
		Matched:   !m.Unknown,
		CreatedAt: time.Now(),
	}
	if student != nil {
		rec.StudentID = &student.ID
		rec.ExternalID = m.ExternalID
	}

	if err := p.recognitions.Create(ctx, rec); err != nil {
		p.logger.Warn("recognition audit write failed", slog.String("error", err.Error()))
	}
}
