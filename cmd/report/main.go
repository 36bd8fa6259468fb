package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/saturnino-fabrica-de-software/presenca/internal/config"
	"github.com/saturnino-fabrica-de-software/presenca/internal/database"
	"github.com/saturnino-fabrica-de-software/presenca/internal/notify"
	"github.com/saturnino-fabrica-de-software/presenca/internal/notify/webhook"
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
	date := flag.String("date", "", "Report date, YYYY-MM-DD (default today)")
	hours := flag.String("hours", "8,10,14", "Comma-separated hour slots")
	stats := flag.Bool("stats", false, "Print attendance statistics instead of absences")
	dispatch := flag.Bool("webhooks", false, "Also deliver absence summaries to registered webhooks")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := config.NewLogger(cfg.Environment)

	location, err := cfg.Location()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := database.NewPgxPool(ctx, database.DefaultPoolConfig(cfg.DatabaseURL))
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()

	studentRepo := repository.NewStudentRepository(pool)
	attendanceRepo := repository.NewAttendanceRepository(pool)

	sink := notify.MultiSink{notify.NewLogSink(logger)}
	if *dispatch {
		sink = append(sink, webhook.NewSink(webhook.NewService(pool)))
	}

	reporter := report.New(studentRepo, attendanceRepo, sink, logger)

	if *stats {
		return printStats(ctx, reporter)
	}

	reportDate := *date
	if reportDate == "" {
		reportDate = time.Now().In(location).Format(time.DateOnly)
	}

	slots, err := parseHours(*hours)
	if err != nil {
		return err
	}

	return reporter.Notify(ctx, reportDate, slots)
}

func printStats(ctx context.Context, reporter *report.Reporter) error {
	stats, totalDays, err := reporter.Stats(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("School days recorded: %d\n", totalDays)
	for _, s := range stats {
		fmt.Printf("%-20s %-30s %3d days  %6.1f%%\n", s.ExternalID, s.Name, s.DaysSeen, s.Percentage)
	}
	return nil
}

func parseHours(raw string) ([]int, error) {
	parts := strings.Split(raw, ",")
	slots := make([]int, 0, len(parts))
	for _, part := range parts {
		hour, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || hour < 0 || hour > 23 {
			return nil, fmt.Errorf("invalid hour slot %q", part)
		}
		slots = append(slots, hour)
	}
	return slots, nil
}
