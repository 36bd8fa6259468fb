package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		envVars map[string]string
		wantErr bool
		check   func(*Config) bool
	}{
		{
			name: "loads with all required vars",
			envVars: map[string]string{
				"PORT":            "8080",
				"ENV":             "production",
				"DATABASE_URL":    "postgres://localhost/test",
				"MATCH_THRESHOLD": "0.3",
				"TIMEZONE":        "Asia/Kolkata",
				"FRAME_INTERVAL":  "500ms",
			},
			wantErr: false,
			check: func(c *Config) bool {
				return c.Port == 8080 &&
					c.Environment == "production" &&
					c.DatabaseURL == "postgres://localhost/test" &&
					c.MatchThreshold == 0.3 &&
					c.Timezone == "Asia/Kolkata" &&
					c.FrameInterval == 500*time.Millisecond
			},
		},
		{
			name: "uses defaults when optional vars missing",
			envVars: map[string]string{
				"DATABASE_URL": "postgres://localhost/test",
			},
			wantErr: false,
			check: func(c *Config) bool {
				return c.Port == 3000 &&
					c.Environment == "development" &&
					c.ProviderType == "deepface" &&
					c.MatchThreshold == 0.5 &&
					c.EmbeddingDim == 128 &&
					c.Timezone == "Local"
			},
		},
		{
			name:    "fails when DATABASE_URL missing",
			envVars: map[string]string{},
			wantErr: true,
			check:   nil,
		},
		{
			name: "fails on non-positive threshold",
			envVars: map[string]string{
				"DATABASE_URL":    "postgres://localhost/test",
				"MATCH_THRESHOLD": "0",
			},
			wantErr: true,
			check:   nil,
		},
		{
			name: "fails on non-positive embedding dim",
			envVars: map[string]string{
				"DATABASE_URL":  "postgres://localhost/test",
				"EMBEDDING_DIM": "-1",
			},
			wantErr: true,
			check:   nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Clear environment
			os.Clearenv()

			// Set test environment variables
			for k, v := range tt.envVars {
				os.Setenv(k, v)
			}

			cfg, err := Load()

			if tt.wantErr {
				if err == nil {
					t.Errorf("Load() expected error, got nil")
				}
				return
			}

			if err != nil {
				t.Errorf("Load() unexpected error: %v", err)
				return
			}

			if tt.check != nil && !tt.check(cfg) {
				t.Errorf("Load() config check failed, got: %+v", cfg)
			}
		})
	}
}

func TestConfig_Location(t *testing.T) {
	c := &Config{Timezone: "Asia/Kolkata"}
	loc, err := c.Location()
	if err != nil {
		t.Fatalf("Location() unexpected error: %v", err)
	}
	if loc.String() != "Asia/Kolkata" {
		t.Errorf("Location() = %v, want Asia/Kolkata", loc)
	}

	c = &Config{Timezone: "Not/AZone"}
	if _, err := c.Location(); err == nil {
		t.Errorf("Location() expected error for bogus zone")
	}
}

func TestConfig_IsDevelopment(t *testing.T) {
	tests := []struct {
		name string
		env  string
		want bool
	}{
		{"development", "development", true},
		{"production", "production", false},
		{"staging", "staging", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Config{Environment: tt.env}
			if got := c.IsDevelopment(); got != tt.want {
				t.Errorf("IsDevelopment() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestConfig_IsProduction(t *testing.T) {
	tests := []struct {
		name string
		env  string
		want bool
	}{
		{"production", "production", true},
		{"development", "development", false},
		{"staging", "staging", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Config{Environment: tt.env}
			if got := c.IsProduction(); got != tt.want {
				t.Errorf("IsProduction() = %v, want %v", got, tt.want)
			}
		})
	}
}
