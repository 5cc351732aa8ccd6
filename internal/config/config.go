package config

import "strings"

// Config holds runtime configuration for the server. It is loaded once at startup and passed by value.
type Config struct {
	Port     string
	Provider string
	MSF      MSFConfig
	Counters CountersConfig
	CORS     CORSConfig
	Metrics  MetricsConfig
	Log      LogConfig

	// AdminToken guards the admin routes. Empty disables them.
	AdminToken string
}

// CORSConfig lists browser origins allowed to call the API. Empty means any origin.
type CORSConfig struct {
	AllowedOrigins []string
}

// LogConfig is handed to logging.NewLogger.
type LogConfig struct {
	Level  string
	Format string
}

// Load reads configuration from an optional .env file and the environment.
// Missing client credentials are reported as an error; callers treat that as fatal.
func Load(envFiles ...string) (Config, error) {
	if err := loadDotEnv(envFiles...); err != nil {
		return Config{}, err
	}
	raw, err := parseEnv()
	if err != nil {
		return Config{}, err
	}

	return Config{
		Port:     stringOrDefault(raw.Port, defaultPort),
		Provider: stringOrDefault(raw.Provider, defaultProvider),
		MSF:      loadMSF(raw),
		Counters: loadCounters(raw),
		CORS:     CORSConfig{AllowedOrigins: trimEmpty(raw.CORSOrigins)},
		Metrics:  loadMetrics(raw),
		Log:      LogConfig{Level: raw.LogLevel, Format: raw.LogFormat},

		AdminToken: strings.TrimSpace(raw.AdminToken),
	}, nil
}
