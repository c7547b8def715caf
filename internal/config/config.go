// Package config loads and validates application configuration from
// environment variables via cleanenv.
package config

import (
	"fmt"
	"strings"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/pkordes/border-registry/backend/internal/domain"
)

// Config holds all configuration values for the API server.
// Values are populated by Load from environment variables; defaults come from
// the env-default tags.
type Config struct {
	// Port is the TCP port the HTTP server listens on.
	Port string `env:"PORT" env-default:"8080"`

	// DatabaseURL is the Postgres connection string. Required.
	DatabaseURL string `env:"DATABASE_URL"`

	// LogLevel controls the minimum log level.
	// Valid values: debug, info, warn, error.
	LogLevel string `env:"LOG_LEVEL" env-default:"info"`

	// CORSOriginsRaw is a comma-separated list of allowed cross-origin
	// request origins. Use CORSOrigins() for the parsed slice.
	CORSOriginsRaw string `env:"CORS_ORIGINS" env-default:"http://localhost:5173"`

	// DateFormat is the one date convention this deployment accepts for dob,
	// travel_date, and date range bounds. It must be set deliberately per
	// deployment; input in any other format is rejected, never guessed at.
	// Valid values: YYYY-MM-DD, MM-DD-YY, DD/MM/YYYY.
	DateFormat domain.DateFormat `env:"DATE_FORMAT" env-default:"YYYY-MM-DD"`

	// DateRangeScope controls whether date_from/date_to match against both
	// dob and travel_date ("both") or travel_date only ("travel_date").
	DateRangeScope domain.DateRangeScope `env:"DATE_RANGE_SCOPE" env-default:"both"`

	// MaxUploadBytes caps the size of an uploaded CSV file.
	MaxUploadBytes int64 `env:"MAX_UPLOAD_BYTES" env-default:"10485760"`

	// MaxPerPage caps the per_page listing parameter.
	MaxPerPage int `env:"MAX_PER_PAGE" env-default:"50"`

	// JWTSecret is the HMAC key used to verify bearer tokens issued by the
	// authentication collaborator. Required.
	JWTSecret string `env:"JWT_SECRET"`
}

// Load reads configuration from environment variables and returns a Config.
// Returns an error naming any required or invalid values.
func Load() (Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}

	var missing []string
	if cfg.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}
	if cfg.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}
	if len(missing) > 0 {
		return Config{}, fmt.Errorf("required environment variables not set: %s", strings.Join(missing, ", "))
	}

	if !cfg.DateFormat.Valid() {
		return Config{}, fmt.Errorf("DATE_FORMAT must be one of %s, %s, %s",
			domain.DateFormatISO, domain.DateFormatShortMDY, domain.DateFormatSlashDMY)
	}
	if !cfg.DateRangeScope.Valid() {
		return Config{}, fmt.Errorf("DATE_RANGE_SCOPE must be %q or %q",
			domain.DateRangeBoth, domain.DateRangeTravelDate)
	}
	if cfg.MaxUploadBytes < 1 {
		return Config{}, fmt.Errorf("MAX_UPLOAD_BYTES must be positive")
	}
	if cfg.MaxPerPage < 1 {
		return Config{}, fmt.Errorf("MAX_PER_PAGE must be positive")
	}

	return cfg, nil
}

// CORSOrigins returns the parsed allowed-origins list.
func (c Config) CORSOrigins() []string {
	var out []string
	for _, part := range strings.Split(c.CORSOriginsRaw, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}
