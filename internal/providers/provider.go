package providers

import (
	"context"

	"golang.org/x/oauth2"

	"github.com/preston-bernstein/msf-counter-service/internal/domain/counters"
)

// TokenFetcher obtains a bearer token for the data endpoint.
type TokenFetcher interface {
	FetchToken(ctx context.Context) (*oauth2.Token, error)
}

// CounterProvider fetches counter recommendations for a team using an already obtained token.
type CounterProvider interface {
	FetchCounters(ctx context.Context, accessToken string, req counters.TeamRequest) ([]counters.Recommendation, error)
}

// TokenFetcherFunc adapts a function to TokenFetcher.
type TokenFetcherFunc func(ctx context.Context) (*oauth2.Token, error)

func (f TokenFetcherFunc) FetchToken(ctx context.Context) (*oauth2.Token, error) { return f(ctx) }
