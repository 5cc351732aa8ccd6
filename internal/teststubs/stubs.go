package teststubs

import (
	"context"
	"sync/atomic"
	"time"

	"golang.org/x/oauth2"

	"github.com/preston-bernstein/msf-counter-service/internal/domain/counters"
)

// StubTokenFetcher is a test double for providers.TokenFetcher.
type StubTokenFetcher struct {
	AccessToken string
	Expiry      time.Time
	Err         error
	Calls       atomic.Int32
}

// FetchToken returns the configured token or error while tracking calls.
func (s *StubTokenFetcher) FetchToken(ctx context.Context) (*oauth2.Token, error) {
	_ = ctx
	s.Calls.Add(1)
	if s.Err != nil {
		return nil, s.Err
	}
	return &oauth2.Token{AccessToken: s.AccessToken, TokenType: "Bearer", Expiry: s.Expiry}, nil
}

// InvalidatingTokenFetcher is a StubTokenFetcher that also records invalidations.
type InvalidatingTokenFetcher struct {
	StubTokenFetcher
	Invalidations atomic.Int32
}

// Invalidate records a dropped token.
func (s *InvalidatingTokenFetcher) Invalidate() {
	s.Invalidations.Add(1)
}

// StubCounterProvider is a test double for providers.CounterProvider.
type StubCounterProvider struct {
	Recommendations []counters.Recommendation
	Err             error
	Calls           atomic.Int32

	LastToken   string
	LastRequest counters.TeamRequest
}

// FetchCounters returns configured recommendations and error while tracking calls and arguments.
func (s *StubCounterProvider) FetchCounters(ctx context.Context, accessToken string, req counters.TeamRequest) ([]counters.Recommendation, error) {
	_ = ctx
	s.Calls.Add(1)
	s.LastToken = accessToken
	s.LastRequest = req
	return s.Recommendations, s.Err
}
