// Package placeholder serves a canned recommendation without calling the game API.
// It backs PROVIDER=placeholder for local development and frontend work.
package placeholder

import (
	"context"
	"time"

	"golang.org/x/oauth2"

	"github.com/preston-bernstein/msf-counter-service/internal/domain/counters"
	"github.com/preston-bernstein/msf-counter-service/internal/providers"
)

// Message is returned alongside placeholder counters.
const Message = "Data received successfully. AI call is not yet implemented."

const staticToken = "placeholder-token"

// Provider returns a fixed counter set for any team.
type Provider struct{}

// New creates a placeholder provider.
func New() *Provider {
	return &Provider{}
}

// FetchCounters ignores the token and team and returns the canned recommendation.
func (p *Provider) FetchCounters(ctx context.Context, accessToken string, req counters.TeamRequest) ([]counters.Recommendation, error) {
	_ = accessToken
	_ = req
	if err := ctx.Err(); err != nil {
		return nil, providers.NewTransportError("fetch counters", err)
	}
	return []counters.Recommendation{
		{
			TeamName: "Placeholder Counter 1",
			Team:     []string{"Black Knight", "Apocalypse", "Ms. Marvel (Hard Light)", "Doctor Doom", "Kang the Conqueror"},
			Why:      "This team provides a mix of high damage, survivability, and turn meter control that can overwhelm many meta defenses. Black Knight's taunt and damage immunity is key to survival.",
			Risk:     "This is a powerful but expensive team. It may be susceptible to ability block or trauma from specific enemy compositions.",
		},
	}, nil
}

// TokenFetcher issues a static, long-lived token so the proxy path stays identical in placeholder mode.
type TokenFetcher struct {
	now func() time.Time
}

// NewTokenFetcher creates a static token fetcher.
func NewTokenFetcher() *TokenFetcher {
	return &TokenFetcher{now: time.Now}
}

func (f *TokenFetcher) FetchToken(ctx context.Context) (*oauth2.Token, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &oauth2.Token{
		AccessToken: staticToken,
		TokenType:   "Bearer",
		Expiry:      f.now().Add(24 * time.Hour),
	}, nil
}
