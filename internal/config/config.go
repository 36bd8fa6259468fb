package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	// Server
	Port        int    `envconfig:"PORT" default:"3000"`
	Environment string `envconfig:"ENV" default:"development"`
	APIToken    string `envconfig:"API_TOKEN"`

	// Database
	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`

	// Provider
	ProviderType string `envconfig:"PROVIDER_TYPE" default:"deepface"`
	DeepFaceURL  string `envconfig:"DEEPFACE_URL" default:"http://localhost:5005"`

	// Recognition
	MatchThreshold float64 `envconfig:"MATCH_THRESHOLD" default:"0.5"`
	EmbeddingDim   int     `envconfig:"EMBEDDING_DIM" default:"128"`

	// Capture
	CameraDevice  int           `envconfig:"CAMERA_DEVICE" default:"0"`
	FrameInterval time.Duration `envconfig:"FRAME_INTERVAL" default:"300ms"`

	// Attendance
	Timezone    string `envconfig:"TIMEZONE" default:"Local"`
	ReportHours []int  `envconfig:"REPORT_HOURS" default:"8,10,14"`

	// Resilience
	AcquireBackoff  time.Duration `envconfig:"ACQUIRE_BACKOFF" default:"2s"`
	LedgerRetryMax  time.Duration `envconfig:"LEDGER_RETRY_MAX" default:"30s"`
	LedgerRetryBase time.Duration `envconfig:"LEDGER_RETRY_BASE" default:"500ms"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if cfg.MatchThreshold <= 0 {
		return nil, fmt.Errorf("load config: MATCH_THRESHOLD must be greater than zero")
	}
	if cfg.EmbeddingDim <= 0 {
		return nil, fmt.Errorf("load config: EMBEDDING_DIM must be greater than zero")
	}
	return &cfg, nil
}

// Location resolves the configured deployment time zone. Calendar dates for
// attendance records are always derived in this zone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("resolve timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
