package config

import "time"

const (
	envFile = ".env"

	defaultPort     = "3001"
	defaultProvider = ProviderMSF

	defaultTokenURL     = "https://hydra-public.prod.m3.scopelypv.com/oauth2/token"
	defaultBaseURL      = "https://api.marvelstrikeforce.com"
	defaultCountersPath = "/game/v1/counters"
	defaultUserAgent    = "msf-counter-service"

	// Both outbound calls share this bound; a request never waits longer than twice this.
	defaultUpstreamTimeout = 10 * time.Second
	defaultRefreshSkew     = 30 * time.Second
	defaultRetryAttempts   = 1
	defaultRetryBackoff    = 200 * time.Millisecond

	defaultMetricsPort = "9090"
	defaultServiceName = "msf-counter-service"
)

// Provider names accepted by PROVIDER.
const (
	ProviderMSF         = "msf"
	ProviderPlaceholder = "placeholder"
)
