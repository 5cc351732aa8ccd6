package config

import "time"

// Credentials are the static client credentials presented to the token endpoint.
type Credentials struct {
	ClientID     string
	ClientSecret string
	APIKey       string
}

// MSFConfig controls how we talk to the game API and its token endpoint.
type MSFConfig struct {
	Credentials  Credentials
	TokenURL     string
	BaseURL      string
	CountersPath string
	UserAgent    string
	Timeout      time.Duration
}

// CountersConfig tunes the counter proxy around the upstream calls.
type CountersConfig struct {
	TokenCacheEnabled bool
	RefreshSkew       time.Duration
	RetryAttempts     int
	RetryBackoff      time.Duration
}

func loadMSF(raw rawEnv) MSFConfig {
	return MSFConfig{
		Credentials: Credentials{
			ClientID:     raw.ClientID,
			ClientSecret: raw.ClientSecret,
			APIKey:       raw.APIKey,
		},
		TokenURL:     stringOrDefault(raw.TokenURL, defaultTokenURL),
		BaseURL:      stringOrDefault(raw.BaseURL, defaultBaseURL),
		CountersPath: stringOrDefault(raw.CountersPath, defaultCountersPath),
		UserAgent:    stringOrDefault(raw.UserAgent, defaultUserAgent),
		Timeout:      durationOrDefault(raw.UpstreamTimeout, defaultUpstreamTimeout),
	}
}

func loadCounters(raw rawEnv) CountersConfig {
	return CountersConfig{
		TokenCacheEnabled: raw.TokenCache,
		RefreshSkew:       durationOrDefault(raw.RefreshSkew, defaultRefreshSkew),
		RetryAttempts:     intOrDefault(raw.RetryAttempts, defaultRetryAttempts),
		RetryBackoff:      durationOrDefault(raw.RetryBackoff, defaultRetryBackoff),
	}
}
