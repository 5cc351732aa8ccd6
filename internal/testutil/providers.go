package testutil

import (
	"context"
	"time"

	"golang.org/x/oauth2"

	"github.com/preston-bernstein/msf-counter-service/internal/domain/counters"
	"github.com/preston-bernstein/msf-counter-service/internal/providers"
)

// GoodProvider returns the provided recommendations with no error.
type GoodProvider struct {
	Recommendations []counters.Recommendation
}

func (p GoodProvider) FetchCounters(ctx context.Context, accessToken string, req counters.TeamRequest) ([]counters.Recommendation, error) {
	_ = ctx
	_ = accessToken
	_ = req
	return p.Recommendations, nil
}

// ErrProvider always returns the provided error.
type ErrProvider struct {
	Err error
}

func (p ErrProvider) FetchCounters(ctx context.Context, accessToken string, req counters.TeamRequest) ([]counters.Recommendation, error) {
	return nil, p.Err
}

// EmptyProvider returns no recommendations, no error.
type EmptyProvider struct{}

func (EmptyProvider) FetchCounters(ctx context.Context, accessToken string, req counters.TeamRequest) ([]counters.Recommendation, error) {
	return []counters.Recommendation{}, nil
}

// UnavailableProvider returns ErrProviderUnavailable.
type UnavailableProvider struct{}

func (UnavailableProvider) FetchCounters(ctx context.Context, accessToken string, req counters.TeamRequest) ([]counters.Recommendation, error) {
	return nil, providers.ErrProviderUnavailable
}

// StaticToken returns a fetcher that always yields the given access token, valid for an hour.
func StaticToken(accessToken string) providers.TokenFetcher {
	return providers.TokenFetcherFunc(func(ctx context.Context) (*oauth2.Token, error) {
		_ = ctx
		return &oauth2.Token{AccessToken: accessToken, TokenType: "Bearer", Expiry: time.Now().Add(time.Hour)}, nil
	})
}
