package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// rawEnv mirrors the process environment one field per variable.
type rawEnv struct {
	Port     string `env:"PORT"`
	Provider string `env:"PROVIDER"`

	ClientID     string `env:"MSF_CLIENT_ID,required,notEmpty"`
	ClientSecret string `env:"MSF_CLIENT_SECRET,required,notEmpty"`
	APIKey       string `env:"MSF_API_KEY"`
	TokenURL     string `env:"MSF_TOKEN_URL"`
	BaseURL      string `env:"MSF_BASE_URL"`
	CountersPath string `env:"MSF_COUNTERS_PATH"`
	UserAgent    string `env:"MSF_USER_AGENT"`

	UpstreamTimeout time.Duration `env:"UPSTREAM_TIMEOUT"`
	TokenCache      bool          `env:"TOKEN_CACHE_ENABLED" envDefault:"true"`
	RefreshSkew     time.Duration `env:"TOKEN_REFRESH_SKEW"`
	RetryAttempts   int           `env:"COUNTER_RETRY_ATTEMPTS"`
	RetryBackoff    time.Duration `env:"COUNTER_RETRY_BACKOFF"`

	CORSOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:","`

	MetricsEnabled bool   `env:"METRICS_ENABLED" envDefault:"true"`
	MetricsPort    string `env:"METRICS_PORT"`
	OtlpEndpoint   string `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	ServiceName    string `env:"OTEL_SERVICE_NAME"`
	OtlpInsecure   bool   `env:"OTEL_EXPORTER_OTLP_INSECURE" envDefault:"true"`

	AdminToken string `env:"ADMIN_TOKEN"`

	LogLevel  string `env:"LOG_LEVEL"`
	LogFormat string `env:"LOG_FORMAT"`
}

// loadDotEnv populates the environment from files without overriding variables already set.
// A missing file is not an error.
func loadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{envFile}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

func parseEnv() (rawEnv, error) {
	var raw rawEnv
	if err := env.Parse(&raw); err != nil {
		return rawEnv{}, fmt.Errorf("parse env: %w", err)
	}
	return raw, nil
}

func stringOrDefault(val, defaultValue string) string {
	if val != "" {
		return val
	}
	return defaultValue
}

func durationOrDefault(val, defaultValue time.Duration) time.Duration {
	if val <= 0 {
		return defaultValue
	}
	return val
}

func intOrDefault(val, defaultValue int) int {
	if val <= 0 {
		return defaultValue
	}
	return val
}

func trimEmpty(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
