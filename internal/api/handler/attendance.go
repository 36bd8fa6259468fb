package handler

import (
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/saturnino-fabrica-de-software/presenca/internal/domain"
	"github.com/saturnino-fabrica-de-software/presenca/internal/report"
)

type AttendanceHandler struct {
	reporter *report.Reporter
	location *time.Location
	logger   *slog.Logger
}

func NewAttendanceHandler(reporter *report.Reporter, location *time.Location, logger *slog.Logger) *AttendanceHandler {
	if location == nil {
		location = time.Local
	}
	return &AttendanceHandler{
		reporter: reporter,
		location: location,
		logger:   logger,
	}
}

type AttendanceResponse struct {
	Date    string                    `json:"date"`
	Records []domain.AttendanceRecord `json:"records"`
}

// Today lists the attendance records of the current school day
func (h *AttendanceHandler) Today(c *fiber.Ctx) error {
	date := time.Now().In(h.location).Format(time.DateOnly)
	return h.byDate(c, date)
}

// ByDate lists the attendance records of the date in the path
func (h *AttendanceHandler) ByDate(c *fiber.Ctx) error {
	return h.byDate(c, c.Params("date"))
}

func (h *AttendanceHandler) byDate(c *fiber.Ctx, date string) error {
	records, err := h.reporter.DayRecords(c.Context(), date)
	if err != nil {
		return err
	}

	if records == nil {
		records = []domain.AttendanceRecord{}
	}

	return c.JSON(AttendanceResponse{
		Date:    date,
		Records: records,
	})
}

type AbsencesResponse struct {
	Date   string          `json:"date"`
	Hour   int             `json:"hour"`
	Absent []AbsentStudent `json:"absent"`
}

type AbsentStudent struct {
	ExternalID string `json:"external_id"`
	Name       string `json:"name"`
}

// Absences lists enrolled students with no record up to the given hour.
// The hour query parameter defaults to the current hour.
func (h *AttendanceHandler) Absences(c *fiber.Ctx) error {
	date := c.Params("date")
	hour := c.QueryInt("hour", time.Now().In(h.location).Hour())

	if hour < 0 || hour > 23 {
		return domain.ErrBadRequest
	}

	event, err := h.reporter.AbsencesForSlot(c.Context(), date, hour)
	if err != nil {
		return err
	}

	absent := make([]AbsentStudent, 0, len(event.Absent))
	for _, s := range event.Absent {
		absent = append(absent, AbsentStudent{
			ExternalID: s.ExternalID,
			Name:       s.Name,
		})
	}

	return c.JSON(AbsencesResponse{
		Date:   event.Date,
		Hour:   event.Hour,
		Absent: absent,
	})
}

type StatsResponse struct {
	TotalDays int            `json:"total_days"`
	Students  []StudentStats `json:"students"`
}

type StudentStats struct {
	ExternalID string  `json:"external_id"`
	Name       string  `json:"name"`
	DaysSeen   int     `json:"days_seen"`
	Percentage float64 `json:"percentage"`
}

// Stats returns per-student attendance counts over all recorded days
func (h *AttendanceHandler) Stats(c *fiber.Ctx) error {
	stats, totalDays, err := h.reporter.Stats(c.Context())
	if err != nil {
		h.logger.Error("failed to compute stats", slog.Any("error", err))
		return domain.ErrInternal.WithError(err)
	}

	students := make([]StudentStats, 0, len(stats))
	for _, s := range stats {
		students = append(students, StudentStats{
			ExternalID: s.ExternalID,
			Name:       s.Name,
			DaysSeen:   s.DaysSeen,
			Percentage: s.Percentage,
		})
	}

	return c.JSON(StatsResponse{
		TotalDays: totalDays,
		Students:  students,
	})
}
