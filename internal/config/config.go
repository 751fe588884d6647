package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

type AppConfig struct {
	// Archive location.
	BaseURL   string `validate:"required,url"`
	CityID    int    `validate:"gt=0"`
	CityName  string `validate:"required"`
	UserAgent string `validate:"required"`

	// HTTPTimeout bounds each page request (0 = no timeout).
	HTTPTimeout time.Duration `validate:"gte=0"`
	// FetchRetries is the number of retries after the first attempt.
	FetchRetries int `validate:"gte=0,lte=10"`
	// BreakerFailures consecutive failed months open the circuit. Off (0) by
	// default so one month's failure never costs another.
	BreakerFailures int `validate:"gte=0"`
	// Workers is the number of months fetched at once.
	Workers int `validate:"gte=1,lte=12"`

	OutputDir     string   `validate:"required"`
	OutputFormats []string `validate:"required,min=1,dive,oneof=csv xlsx sqlite"`
	SQLiteFile    string   `validate:"required"`

	LogLevel        string `validate:"oneof=debug info warn error"`
	MetricsTextfile string
}

var validate = validator.New()

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}
	cfg := &AppConfig{}

	cfg.BaseURL = getenvDefault("ARCHIVE_BASE_URL", "https://www.gismeteo.ru")
	cfg.CityID = getenvInt("ARCHIVE_CITY_ID", 4618)
	cfg.CityName = getenvDefault("ARCHIVE_CITY_NAME", "samara")
	cfg.UserAgent = getenvDefault("USER_AGENT", "Mozilla/5.0")

	timeout, err := time.ParseDuration(getenvDefault("HTTP_TIMEOUT", "30s"))
	if err != nil {
		return nil, fmt.Errorf("invalid HTTP_TIMEOUT: %w", err)
	}
	cfg.HTTPTimeout = timeout

	cfg.FetchRetries = getenvInt("FETCH_RETRIES", 0)
	cfg.BreakerFailures = getenvInt("BREAKER_FAILURES", 0)
	cfg.Workers = getenvInt("WORKERS", 1)

	cfg.OutputDir = getenvDefault("OUTPUT_DIR", "dataset")
	cfg.OutputFormats = splitList(getenvDefault("OUTPUT_FORMATS", "csv"))
	cfg.SQLiteFile = getenvDefault("SQLITE_FILE", "weather.db")

	cfg.LogLevel = strings.ToLower(getenvDefault("LOG_LEVEL", "info"))
	cfg.MetricsTextfile = os.Getenv("METRICS_TEXTFILE")

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// HasFormat reports whether output format f is enabled.
func (c *AppConfig) HasFormat(f string) bool {
	for _, v := range c.OutputFormats {
		if v == f {
			return true
		}
	}
	return false
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}
