package msf

import (
	"context"
	"errors"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/preston-bernstein/msf-counter-service/internal/metrics"
	"github.com/preston-bernstein/msf-counter-service/internal/providers"
)

var errMissingToken = errors.New("token response has no access token")

// TokenConfig controls how the client-credentials exchange reaches the token endpoint.
type TokenConfig struct {
	TokenURL     string
	ClientID     string
	ClientSecret string
	APIKey       string
	UserAgent    string
	Timeout      time.Duration
	HTTPClient   *http.Client
	Recorder     *metrics.Recorder
}

// TokenClient exchanges static client credentials for a bearer token. Every call performs a fresh round trip;
// wrap it in a tokencache.Source to reuse tokens.
type TokenClient struct {
	creds      clientcredentials.Config
	httpClient *http.Client
	recorder   *metrics.Recorder
}

// NewTokenClient constructs a TokenClient. Credentials are sent as HTTP Basic auth.
func NewTokenClient(cfg TokenConfig) *TokenClient {
	tokenURL := cfg.TokenURL
	if tokenURL == "" {
		tokenURL = defaultTokenURL
	}
	return &TokenClient{
		creds: clientcredentials.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			TokenURL:     tokenURL,
			AuthStyle:    oauth2.AuthStyleInHeader,
		},
		httpClient: resolveHTTPClient(cfg.HTTPClient, cfg.APIKey, cfg.UserAgent, cfg.Timeout),
		recorder:   cfg.Recorder,
	}
}

// TokenURL returns the endpoint this client exchanges against.
func (c *TokenClient) TokenURL() string {
	return c.creds.TokenURL
}

// FetchToken posts grant_type=client_credentials and returns the issued token.
// Failures are always *providers.Error with KindCredentialExchange.
func (c *TokenClient) FetchToken(ctx context.Context) (*oauth2.Token, error) {
	start := time.Now()
	tok, err := c.fetch(ctx)
	c.recorder.RecordUpstreamAttempt(metrics.UpstreamToken, time.Since(start), err)
	return tok, err
}

func (c *TokenClient) fetch(ctx context.Context) (*oauth2.Token, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)

	tok, err := c.creds.Token(ctx)
	if err != nil {
		return nil, classifyTokenError(err)
	}
	if tok == nil || tok.AccessToken == "" {
		return nil, providers.NewCredentialError(opFetchToken, 0, "", errMissingToken)
	}
	return tok, nil
}

// classifyTokenError keeps the upstream status and body when the endpoint answered.
func classifyTokenError(err error) error {
	var rErr *oauth2.RetrieveError
	if errors.As(err, &rErr) {
		status := 0
		if rErr.Response != nil {
			status = rErr.Response.StatusCode
		}
		return providers.NewCredentialError(opFetchToken, status, string(rErr.Body), err)
	}
	return providers.NewCredentialError(opFetchToken, 0, "", err)
}
