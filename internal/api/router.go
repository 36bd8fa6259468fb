package api

import (
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/saturnino-fabrica-de-software/presenca/internal/api/handler"
	"github.com/saturnino-fabrica-de-software/presenca/internal/api/middleware"
	"github.com/saturnino-fabrica-de-software/presenca/internal/notify/webhook"
	"github.com/saturnino-fabrica-de-software/presenca/internal/report"
	"github.com/saturnino-fabrica-de-software/presenca/internal/repository"
)

type Dependencies struct {
	StudentRepo    repository.StudentRepositoryInterface
	Reporter       *report.Reporter
	WebhookService *webhook.Service
	DB             *pgxpool.Pool
	APIToken       string
	Location       *time.Location
}

type Router struct {
	app    *fiber.App
	logger *slog.Logger
	deps   *Dependencies
}

func NewRouter(logger *slog.Logger, deps *Dependencies) *Router {
	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorHandler(logger),
		AppName:      "Presenca API",
	})

	return &Router{
		app:    app,
		logger: logger,
		deps:   deps,
	}
}

func (r *Router) Setup() {
	// Global middlewares
	r.app.Use(requestid.New())
	r.app.Use(middleware.Recover(r.logger))
	r.app.Use(middleware.Logger(r.logger))
	r.app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
	}))

	// Health check endpoints (no auth required)
	var db *pgxpool.Pool
	if r.deps != nil {
		db = r.deps.DB
	}
	healthHandler := handler.NewHealthHandler(db)
	r.app.Get("/health", healthHandler.Health)
	r.app.Get("/ready", healthHandler.Ready)

	if r.deps == nil {
		return
	}

	// API v1 group with authentication
	v1 := r.app.Group("/v1")
	v1.Use(middleware.Auth(r.deps.APIToken))

	attendanceHandler := handler.NewAttendanceHandler(r.deps.Reporter, r.deps.Location, r.logger)
	v1.Get("/attendance/today", attendanceHandler.Today)
	v1.Get("/attendance/:date", attendanceHandler.ByDate)
	v1.Get("/attendance/:date/absences", attendanceHandler.Absences)
	v1.Get("/stats", attendanceHandler.Stats)

	studentsHandler := handler.NewStudentsHandler(r.deps.StudentRepo, r.logger)
	v1.Get("/students", studentsHandler.List)
	v1.Get("/students/:external_id", studentsHandler.Get)

	if r.deps.WebhookService != nil {
		webhooksHandler := handler.NewWebhooksHandler(r.deps.WebhookService, r.logger)
		v1.Get("/webhooks", webhooksHandler.List)
		v1.Post("/webhooks", webhooksHandler.Create)
		v1.Delete("/webhooks/:id", webhooksHandler.Delete)
	}
}

func (r *Router) App() *fiber.App {
	return r.app
}

func (r *Router) Listen(addr string) error {
	return r.app.Listen(addr)
}

func (r *Router) Shutdown() error {
	return r.app.Shutdown()
}
