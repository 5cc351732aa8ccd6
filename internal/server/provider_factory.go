package server

import (
	"log/slog"

	"github.com/preston-bernstein/msf-counter-service/internal/config"
	"github.com/preston-bernstein/msf-counter-service/internal/metrics"
	"github.com/preston-bernstein/msf-counter-service/internal/providers"
	"github.com/preston-bernstein/msf-counter-service/internal/providers/msf"
	"github.com/preston-bernstein/msf-counter-service/internal/providers/placeholder"
	"github.com/preston-bernstein/msf-counter-service/internal/providers/tokencache"
)

// upstream bundles the token and counter sources a Service talks to.
type upstream struct {
	name string
	// tokens serves request traffic and may be cached.
	tokens providers.TokenFetcher
	// exchange always performs a fresh round trip.
	exchange providers.TokenFetcher
	counters providers.CounterProvider
	// resetter is set when tokens are cached.
	resetter *tokencache.Source
	message  string
}

// providerFactory assembles the providers with shared wrappers (token cache + retry).
type providerFactory struct {
	logger  *slog.Logger
	metrics *metrics.Recorder
}

func newProviderFactory(logger *slog.Logger, metrics *metrics.Recorder) providerFactory {
	return providerFactory{logger: logger, metrics: metrics}
}

func (f providerFactory) build(cfg config.Config) upstream {
	up := f.selectProvider(cfg)

	up.tokens = up.exchange
	if cfg.Counters.TokenCacheEnabled {
		cache := tokencache.New(tokencache.Options{
			RefreshSkew: cfg.Counters.RefreshSkew,
			Recorder:    f.metrics,
		})
		up.resetter = cache.Bind(tokencache.Key(cfg.MSF.TokenURL, cfg.MSF.Credentials.ClientID), up.exchange)
		up.tokens = up.resetter
	}

	up.counters = providers.NewRetryingProvider(up.counters, f.logger, up.name, cfg.Counters.RetryAttempts, cfg.Counters.RetryBackoff)
	return up
}

func (f providerFactory) selectProvider(cfg config.Config) upstream {
	name := normalizeProviderName(cfg.Provider)
	switch name {
	case config.ProviderMSF:
		return upstream{
			name: name,
			exchange: msf.NewTokenClient(msf.TokenConfig{
				TokenURL:     cfg.MSF.TokenURL,
				ClientID:     cfg.MSF.Credentials.ClientID,
				ClientSecret: cfg.MSF.Credentials.ClientSecret,
				APIKey:       cfg.MSF.Credentials.APIKey,
				UserAgent:    cfg.MSF.UserAgent,
				Timeout:      cfg.MSF.Timeout,
				Recorder:     f.metrics,
			}),
			counters: msf.NewClient(msf.Config{
				BaseURL:      cfg.MSF.BaseURL,
				CountersPath: cfg.MSF.CountersPath,
				APIKey:       cfg.MSF.Credentials.APIKey,
				UserAgent:    cfg.MSF.UserAgent,
				Timeout:      cfg.MSF.Timeout,
				Recorder:     f.metrics,
				Logger:       f.logger,
			}),
		}
	case config.ProviderPlaceholder:
		return placeholderUpstream()
	default:
		if f.logger != nil {
			f.logger.Warn("unknown provider, falling back to placeholder", slog.String("provider", cfg.Provider))
		}
		return placeholderUpstream()
	}
}

func placeholderUpstream() upstream {
	return upstream{
		name:     config.ProviderPlaceholder,
		exchange: placeholder.NewTokenFetcher(),
		counters: placeholder.New(),
		message:  placeholder.Message,
	}
}
