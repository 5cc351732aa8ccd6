// Package client calls the counter service the way the browser frontend does and renders the result.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/preston-bernstein/msf-counter-service/internal/domain/counters"
	"github.com/preston-bernstein/msf-counter-service/internal/formatter"
)

const (
	// DefaultBaseURL matches the server's default port.
	DefaultBaseURL = "http://localhost:3001"
	defaultTimeout = 30 * time.Second

	pathGetCounter = "/api/getCounter"
	pathCharacters = "/api/characters"
	pathGameModes  = "/api/gameModes"

	maxErrorBytes = 4096
)

// APIError is a non-2xx answer from the service.
type APIError struct {
	StatusCode int
	Message    string
	Detail     string
	Kind       string
	RequestID  string
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("server returned status %d", e.StatusCode)
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Detail != "" && e.Detail != e.Message {
		msg += " (" + e.Detail + ")"
	}
	if e.RequestID != "" {
		msg += " [request " + e.RequestID + "]"
	}
	return msg
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient overrides the HTTP client used for requests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// Client talks to a running counter service.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New constructs a Client for the service at baseURL.
func New(baseURL string, opts ...Option) *Client {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FindCounters submits the filled slots of enemyTeam and returns the formatted recommendations.
// Nil slots are dropped; a team with no filled slot is rejected without a request.
func (c *Client) FindCounters(ctx context.Context, enemyTeam []*counters.Character, gameMode counters.GameMode, useRoster bool) (string, error) {
	filled := make([]counters.Character, 0, len(enemyTeam))
	for _, slot := range enemyTeam {
		if slot != nil {
			filled = append(filled, *slot)
		}
	}
	if len(filled) == 0 {
		return "", counters.ErrEmptyTeam
	}

	resp, err := c.GetCounter(ctx, counters.TeamRequest{
		EnemyTeam:  filled,
		GameMode:   gameMode,
		UseRoster:  useRoster,
		UserRoster: []counters.Character{},
	})
	if err != nil {
		return "", err
	}
	return formatter.Format(resp.Counters), nil
}

// GetCounter posts req to /api/getCounter and returns the decoded response.
func (c *Client) GetCounter(ctx context.Context, req counters.TeamRequest) (counters.Response, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return counters.Response{}, fmt.Errorf("encode request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+pathGetCounter, bytes.NewReader(payload))
	if err != nil {
		return counters.Response{}, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	var resp counters.Response
	if err := c.do(httpReq, &resp); err != nil {
		return counters.Response{}, err
	}
	return resp, nil
}

// Characters lists the selectable characters, filtered by search when non-empty.
func (c *Client) Characters(ctx context.Context, search string) ([]string, error) {
	u := c.baseURL + pathCharacters
	if search = strings.TrimSpace(search); search != "" {
		u += "?" + url.Values{"search": {search}}.Encode()
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Characters []string `json:"characters"`
	}
	if err := c.do(httpReq, &resp); err != nil {
		return nil, err
	}
	return resp.Characters, nil
}

// GameModes lists the game modes the service accepts.
func (c *Client) GameModes(ctx context.Context) ([]counters.GameMode, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+pathGameModes, nil)
	if err != nil {
		return nil, err
	}

	var resp struct {
		GameModes []counters.GameMode `json:"gameModes"`
	}
	if err := c.do(httpReq, &resp); err != nil {
		return nil, err
	}
	return resp.GameModes, nil
}

func (c *Client) do(req *http.Request, dest any) error {
	req.Header.Set("Accept", "application/json")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach the counter service at %s: %w", c.baseURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBytes))

	var payload struct {
		Message   string `json:"message"`
		Error     string `json:"error"`
		Kind      string `json:"kind"`
		RequestID string `json:"requestId"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		apiErr.Message = payload.Message
		apiErr.Detail = payload.Error
		apiErr.Kind = payload.Kind
		apiErr.RequestID = payload.RequestID
	} else {
		apiErr.Detail = strings.TrimSpace(string(body))
	}
	if apiErr.RequestID == "" {
		apiErr.RequestID = resp.Header.Get("X-Request-ID")
	}
	return apiErr
}
