package msf

import (
	"net/http"
	"strings"
	"time"
)

type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// headerTransport stamps the static API key and user agent on every outbound request.
type headerTransport struct {
	apiKey    string
	userAgent string
	next      http.RoundTripper
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	clone := req.Clone(req.Context())
	if t.apiKey != "" {
		clone.Header.Set(headerAPIKey, t.apiKey)
	}
	if t.userAgent != "" {
		clone.Header.Set("User-Agent", t.userAgent)
	}
	return t.next.RoundTrip(clone)
}

// resolveHTTPClient returns a client whose transport adds the MSF headers. A caller-supplied client keeps its
// own transport underneath and a zero timeout is replaced with the default.
func resolveHTTPClient(client *http.Client, apiKey, userAgent string, timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}
	base := http.DefaultTransport
	if client != nil {
		if client.Transport != nil {
			base = client.Transport
		}
		if client.Timeout > 0 {
			timeout = client.Timeout
		}
	}
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	return &http.Client{
		Timeout:   timeout,
		Transport: &headerTransport{apiKey: apiKey, userAgent: userAgent, next: base},
	}
}

func normalizeBaseURL(raw string) string {
	if raw == "" {
		raw = defaultBaseURL
	}
	return strings.TrimSuffix(raw, "/")
}

func normalizePath(raw string) string {
	if raw == "" {
		raw = defaultCountersPath
	}
	if !strings.HasPrefix(raw, "/") {
		raw = "/" + raw
	}
	return raw
}
