package msf

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/preston-bernstein/msf-counter-service/internal/domain/counters"
	"github.com/preston-bernstein/msf-counter-service/internal/logging"
	"github.com/preston-bernstein/msf-counter-service/internal/metrics"
	"github.com/preston-bernstein/msf-counter-service/internal/providers"
)

var errMissingCounters = errors.New("response has no counters field")

// Config controls how the data client reaches the counters endpoint.
type Config struct {
	BaseURL      string
	CountersPath string
	APIKey       string
	UserAgent    string
	Timeout      time.Duration
	HTTPClient   *http.Client
	Recorder     *metrics.Recorder
	Logger       *slog.Logger
}

// Client fetches counter recommendations from the game API.
type Client struct {
	baseURL    string
	path       string
	httpClient httpDoer
	recorder   *metrics.Recorder
	logger     *slog.Logger
}

// NewClient constructs a data client with the provided configuration.
func NewClient(cfg Config) *Client {
	return &Client{
		baseURL:    normalizeBaseURL(cfg.BaseURL),
		path:       normalizePath(cfg.CountersPath),
		httpClient: resolveHTTPClient(cfg.HTTPClient, cfg.APIKey, cfg.UserAgent, cfg.Timeout),
		recorder:   cfg.Recorder,
		logger:     cfg.Logger,
	}
}

// FetchCounters issues an authenticated GET carrying the team as query parameters and decodes the typed list.
func (c *Client) FetchCounters(ctx context.Context, accessToken string, req counters.TeamRequest) ([]counters.Recommendation, error) {
	start := time.Now()
	recs, err := c.fetch(ctx, accessToken, req)
	c.recorder.RecordUpstreamAttempt(metrics.UpstreamCounters, time.Since(start), err)
	return recs, err
}

func (c *Client) fetch(ctx context.Context, accessToken string, teamReq counters.TeamRequest) ([]counters.Recommendation, error) {
	req, err := c.buildRequest(ctx, accessToken, teamReq)
	if err != nil {
		return nil, providers.NewInternalError(opFetchCounters, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, providers.NewTransportError(opFetchCounters, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		pErr := providers.NewUpstreamDataError(opFetchCounters, resp.StatusCode, strings.TrimSpace(string(body)),
			fmt.Errorf("unexpected status %d", resp.StatusCode))
		if resp.StatusCode == http.StatusTooManyRequests {
			pErr.RetryAfter = parseRetryAfter(resp.Header.Get("Retry-After"))
			c.recorder.RecordRateLimit(metrics.UpstreamCounters, pErr.RetryAfter)
		}
		logging.Warn(logging.FromContext(ctx, c.logger), "counters endpoint returned error status",
			logging.FieldProvider, providerName,
			logging.FieldStatusCode, resp.StatusCode,
		)
		return nil, pErr
	}

	var payload countersResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, providers.NewTransportError(opFetchCounters, ctxErr)
		}
		return nil, providers.NewUpstreamDataError(opFetchCounters, resp.StatusCode, "", fmt.Errorf("decode response: %w", err))
	}
	if payload.Counters == nil {
		return nil, providers.NewUpstreamDataError(opFetchCounters, resp.StatusCode, "", errMissingCounters)
	}

	recs, err := mapRecommendations(*payload.Counters)
	if err != nil {
		return nil, providers.NewUpstreamDataError(opFetchCounters, resp.StatusCode, "", err)
	}
	return recs, nil
}

func (c *Client) buildRequest(ctx context.Context, accessToken string, teamReq counters.TeamRequest) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+c.path, nil)
	if err != nil {
		return nil, err
	}

	q := req.URL.Query()
	for _, name := range teamReq.Names() {
		q.Add("character", name)
	}
	if teamReq.GameMode != "" {
		q.Set("gameMode", string(teamReq.GameMode))
	}
	q.Set("useRoster", strconv.FormatBool(teamReq.UseRoster))
	for _, name := range teamReq.RosterNames() {
		q.Add("roster", name)
	}
	req.URL.RawQuery = q.Encode()

	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/json")
	return req, nil
}

func parseRetryAfter(raw string) time.Duration {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}
	if secs, err := strconv.Atoi(raw); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	if at, err := http.ParseTime(raw); err == nil {
		if d := time.Until(at); d > 0 {
			return d
		}
	}
	return 0
}
