package config

// MetricsConfig controls telemetry export settings.
type MetricsConfig struct {
	Enabled      bool
	Port         string
	OtlpEndpoint string
	ServiceName  string
	OtlpInsecure bool
}

func loadMetrics(raw rawEnv) MetricsConfig {
	return MetricsConfig{
		Enabled:      raw.MetricsEnabled,
		Port:         stringOrDefault(raw.MetricsPort, defaultMetricsPort),
		OtlpEndpoint: raw.OtlpEndpoint,
		ServiceName:  stringOrDefault(raw.ServiceName, defaultServiceName),
		OtlpInsecure: raw.OtlpInsecure,
	}
}
