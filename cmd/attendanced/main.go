package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/saturnino-fabrica-de-software/presenca/internal/api"
	"github.com/saturnino-fabrica-de-software/presenca/internal/capture"
	"github.com/saturnino-fabrica-de-software/presenca/internal/config"
	"github.com/saturnino-fabrica-de-software/presenca/internal/database"
	"github.com/saturnino-fabrica-de-software/presenca/internal/encoding"
	"github.com/saturnino-fabrica-de-software/presenca/internal/ledger"
	"github.com/saturnino-fabrica-de-software/presenca/internal/matcher"
	"github.com/saturnino-fabrica-de-software/presenca/internal/notify"
	"github.com/saturnino-fabrica-de-software/presenca/internal/notify/webhook"
	"github.com/saturnino-fabrica-de-software/presenca/internal/pipeline"
	"github.com/saturnino-fabrica-de-software/presenca/internal/provider/factory"
	"github.com/saturnino-fabrica-de-software/presenca/internal/report"
	"github.com/saturnino-fabrica-de-software/presenca/internal/repository"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := config.NewLogger(cfg.Environment)
	slog.SetDefault(logger)

	location, err := cfg.Location()
	if err != nil {
		return err
	}

	logger.Info("starting attendance daemon",
		slog.String("environment", cfg.Environment),
		slog.String("provider", cfg.ProviderType),
		slog.Float64("threshold", cfg.MatchThreshold),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := database.NewPgxPool(ctx, database.DefaultPoolConfig(cfg.DatabaseURL))
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()

	studentRepo := repository.NewStudentRepository(pool)
	embeddingRepo := repository.NewEmbeddingRepository(pool)
	attendanceRepo := repository.NewAttendanceRepository(pool)
	recognitionRepo := repository.NewRecognitionRepository(pool)

	// A bad identity set is fatal: running without it would mark nobody
	store, err := encoding.Load(ctx, embeddingRepo, cfg.EmbeddingDim)
	if err != nil {
		return fmt.Errorf("failed to load reference encodings: %w", err)
	}
	logger.Info("reference encodings loaded",
		slog.Int("identities", store.Identities()),
		slog.Int("embeddings", store.Size()),
	)

	faceProvider, err := factory.NewFaceProvider(cfg)
	if err != nil {
		return err
	}

	m, err := matcher.New(cfg.MatchThreshold)
	if err != nil {
		return err
	}

	source, err := capture.NewWebcamSource(cfg.CameraDevice, cfg.FrameInterval)
	if err != nil {
		return fmt.Errorf("failed to open camera: %w", err)
	}
	defer func() { _ = source.Close() }()

	webhookService := webhook.NewService(pool)
	webhookWorker := webhook.NewWorker(pool, webhookService, logger)
	go webhookWorker.Run(ctx)

	sink := notify.MultiSink{
		notify.NewLogSink(logger),
		webhook.NewSink(webhookService),
	}

	led := ledger.New(studentRepo, attendanceRepo, location, logger)

	pipe := pipeline.New(source, faceProvider, store, m, led, recognitionRepo, sink, logger, pipeline.Options{
		AcquireBackoff:  cfg.AcquireBackoff,
		LedgerRetryBase: cfg.LedgerRetryBase,
		LedgerRetryMax:  cfg.LedgerRetryMax,
	})

	reporter := report.New(studentRepo, attendanceRepo, sink, logger)

	reportWorker := report.NewWorker(reporter, logger, location, cfg.ReportHours, 30*time.Second)
	go reportWorker.Start(ctx)

	router := api.NewRouter(logger, &api.Dependencies{
		StudentRepo:    studentRepo,
		Reporter:       reporter,
		WebhookService: webhookService,
		DB:             pool,
		APIToken:       cfg.APIToken,
		Location:       location,
	})
	router.Setup()

	errChan := make(chan error, 2)

	go func() {
		addr := fmt.Sprintf(":%d", cfg.Port)
		logger.Info("server listening", slog.String("addr", addr))
		if err := router.Listen(addr); err != nil {
			errChan <- fmt.Errorf("server error: %w", err)
		}
	}()

	go func() {
		if err := pipe.Run(ctx); err != nil {
			errChan <- fmt.Errorf("pipeline error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errChan:
		stop()
		_ = router.Shutdown()
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	logger.Info("shutting down...")
	if err := router.Shutdown(); err != nil {
		logger.Error("shutdown error", slog.Any("error", err))
	}

	<-shutdownCtx.Done()
	logger.Info("stopped")

	return nil
}
