package counters

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	domaincounters "github.com/preston-bernstein/msf-counter-service/internal/domain/counters"
	"github.com/preston-bernstein/msf-counter-service/internal/logging"
	"github.com/preston-bernstein/msf-counter-service/internal/providers"
)

const (
	defaultMessage = "Counter recommendations retrieved successfully."
	previewLength  = 10

	opValidate   = "validate team"
	opFetchToken = "fetch token"
	opFetch      = "fetch counters"
)

// invalidator is implemented by cached token sources.
type invalidator interface {
	Invalidate()
}

// Service proxies counter requests: validate, obtain a token, fetch from the data endpoint.
type Service struct {
	tokens   providers.TokenFetcher
	exchange providers.TokenFetcher
	provider providers.CounterProvider
	logger   *slog.Logger
	message  string
}

// Option customizes a Service.
type Option func(*Service)

// WithMessage sets the message returned with successful responses.
func WithMessage(msg string) Option {
	return func(s *Service) {
		if msg != "" {
			s.message = msg
		}
	}
}

// WithExchange sets the uncached token fetcher used by Diagnose. Defaults to the request token fetcher.
func WithExchange(exchange providers.TokenFetcher) Option {
	return func(s *Service) {
		if exchange != nil {
			s.exchange = exchange
		}
	}
}

// NewService constructs a Service.
func NewService(tokens providers.TokenFetcher, provider providers.CounterProvider, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{
		tokens:   tokens,
		exchange: tokens,
		provider: provider,
		logger:   logger,
		message:  defaultMessage,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Message is the text sent with successful responses.
func (s *Service) Message() string {
	return s.message
}

// HandleCounterRequest returns the typed recommendation list or a *providers.Error describing which stage failed.
// Invalid requests never reach the network, and a failed token exchange never reaches the data endpoint.
func (s *Service) HandleCounterRequest(ctx context.Context, req domaincounters.TeamRequest) ([]domaincounters.Recommendation, error) {
	logger := logging.FromContext(ctx, s.logger)

	if err := req.Validate(); err != nil {
		return nil, providers.NewValidationError(opValidate, err)
	}
	req.GameMode = req.GameMode.Canonical()
	if s.tokens == nil || s.provider == nil {
		return nil, providers.NewInternalError(opFetch, providers.ErrProviderUnavailable)
	}

	tok, err := s.tokens.FetchToken(ctx)
	if err != nil {
		logging.Error(logger, "credential exchange failed", err)
		if providers.IsKind(err, providers.KindCredentialExchange) {
			return nil, err
		}
		return nil, providers.NewCredentialError(opFetchToken, 0, "", err)
	}

	recs, err := s.provider.FetchCounters(ctx, tok.AccessToken, req)
	if err != nil {
		pErr, ok := providers.AsError(err)
		if !ok {
			pErr = providers.NewInternalError(opFetch, err)
		}
		if pErr.StatusCode == http.StatusUnauthorized {
			s.invalidateToken(logger)
		}
		logging.Error(logger, "counter fetch failed", pErr, logging.FieldErrorKind, string(pErr.Kind))
		return nil, pErr
	}

	logging.Info(logger, "counters fetched",
		logging.FieldGameMode, string(req.GameMode),
		logging.FieldCount, len(recs),
	)
	return recs, nil
}

// Diagnosis reports the outcome of a diagnostic token exchange.
type Diagnosis struct {
	TokenPreview string
	ExpiresAt    time.Time
}

// Diagnose performs a fresh token exchange and returns a truncated preview of the token.
func (s *Service) Diagnose(ctx context.Context) (Diagnosis, error) {
	if s.exchange == nil {
		return Diagnosis{}, providers.NewInternalError(opFetchToken, providers.ErrProviderUnavailable)
	}
	tok, err := s.exchange.FetchToken(ctx)
	if err != nil {
		if providers.IsKind(err, providers.KindCredentialExchange) {
			return Diagnosis{}, err
		}
		return Diagnosis{}, providers.NewCredentialError(opFetchToken, 0, "", err)
	}
	return Diagnosis{TokenPreview: preview(tok.AccessToken), ExpiresAt: tok.Expiry}, nil
}

func (s *Service) invalidateToken(logger *slog.Logger) {
	if inv, ok := s.tokens.(invalidator); ok {
		inv.Invalidate()
		logging.Warn(logger, "data endpoint rejected token, cached token dropped")
	}
}

func preview(token string) string {
	if len(token) <= previewLength {
		return token + "..."
	}
	return token[:previewLength] + "..."
}
