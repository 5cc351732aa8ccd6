package providers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/preston-bernstein/msf-counter-service/internal/domain/counters"
	"github.com/preston-bernstein/msf-counter-service/internal/logging"
)

const (
	defaultBackoff  = 200 * time.Millisecond
	opRetryCounters = "fetch counters"
)

// retryingProvider wraps a CounterProvider and repeats transport-level failures with exponential backoff.
type retryingProvider struct {
	inner       CounterProvider
	logger      *slog.Logger
	name        string
	maxAttempts int
	newBackOff  func() backoff.BackOff
}

// NewRetryingProvider wraps the given provider with retries. With maxAttempts <= 1 the provider is returned
// unchanged, so every failure surfaces after a single attempt.
func NewRetryingProvider(inner CounterProvider, logger *slog.Logger, name string, maxAttempts int, initial time.Duration) CounterProvider {
	if maxAttempts <= 1 || inner == nil {
		return inner
	}
	if initial <= 0 {
		initial = defaultBackoff
	}
	return &retryingProvider{
		inner:       inner,
		logger:      logger,
		name:        name,
		maxAttempts: maxAttempts,
		newBackOff: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = initial
			b.MaxElapsedTime = 0
			return b
		},
	}
}

func (r *retryingProvider) FetchCounters(ctx context.Context, accessToken string, req counters.TeamRequest) ([]counters.Recommendation, error) {
	var (
		recs    []counters.Recommendation
		lastErr error
	)
	attempt := 0

	op := func() error {
		attempt++
		var err error
		recs, err = r.inner.FetchCounters(ctx, accessToken, req)
		if err == nil {
			return nil
		}
		lastErr = err
		if pErr, ok := AsError(err); ok && pErr.Retryable() {
			return err
		}
		return backoff.Permanent(err)
	}

	notify := func(err error, delay time.Duration) {
		logWithProvider(ctx, logging.FromContext(ctx, r.logger), slog.LevelWarn, r.name, "counter fetch retry",
			slog.Int(logging.FieldAttempt, attempt),
			slog.Int("max_attempts", r.maxAttempts),
			slog.Duration("delay", delay),
			slog.Any("error", err),
		)
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(r.newBackOff(), uint64(r.maxAttempts-1)), ctx)
	if err := backoff.RetryNotify(op, policy, notify); err != nil {
		if _, ok := AsError(err); ok || ctx.Err() == nil || !errors.Is(err, ctx.Err()) {
			return nil, err
		}
		// ctx ended while backing off; keep the failure typed.
		if lastErr != nil {
			err = fmt.Errorf("%w after %d attempts: %v", err, attempt, lastErr)
		}
		return nil, NewTransportError(opRetryCounters, err)
	}
	return recs, nil
}
