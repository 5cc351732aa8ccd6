package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/preston-bernstein/msf-counter-service/internal/config"
	"github.com/preston-bernstein/msf-counter-service/internal/domain/counters"
	"github.com/preston-bernstein/msf-counter-service/internal/formatter"
	"github.com/preston-bernstein/msf-counter-service/internal/metrics"
	"github.com/preston-bernstein/msf-counter-service/internal/testutil"
)

const thanosBody = `{"enemyTeam":[{"id":1,"name":"Thanos","power":"","t4s":"","iso":""}],"gameMode":"War","useRoster":false,"userRoster":[]}`

// fakeGameAPI serves the token and counters endpoints and counts hits on each.
type fakeGameAPI struct {
	tokenHits    atomic.Int32
	counterHits  atomic.Int32
	counterAuth  atomic.Value
	counterQuery atomic.Value
	srv          *httptest.Server
}

func newFakeGameAPI(t *testing.T) *fakeGameAPI {
	t.Helper()
	api := &fakeGameAPI{}
	mux := http.NewServeMux()
	mux.HandleFunc("/oauth2/token", func(w http.ResponseWriter, r *http.Request) {
		api.tokenHits.Add(1)
		if _, _, ok := r.BasicAuth(); !ok {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"tok123","token_type":"Bearer","expires_in":3600}`))
	})
	mux.HandleFunc("/game/v1/counters", func(w http.ResponseWriter, r *http.Request) {
		api.counterHits.Add(1)
		api.counterAuth.Store(r.Header.Get("Authorization"))
		api.counterQuery.Store(r.URL.RawQuery)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"counters":[{"teamName":"X","team":["A","B"],"why":"w","risk":"r"}]}`))
	})
	api.srv = httptest.NewServer(mux)
	t.Cleanup(api.srv.Close)
	return api
}

func (a *fakeGameAPI) config() config.Config {
	return config.Config{
		Port:     "0",
		Provider: config.ProviderMSF,
		MSF: config.MSFConfig{
			Credentials:  config.Credentials{ClientID: "id", ClientSecret: "secret", APIKey: "key"},
			TokenURL:     a.srv.URL + "/oauth2/token",
			BaseURL:      a.srv.URL,
			CountersPath: "/game/v1/counters",
			UserAgent:    "test-agent",
			Timeout:      2 * time.Second,
		},
		Counters: config.CountersConfig{TokenCacheEnabled: true, RefreshSkew: time.Second, RetryAttempts: 1},
	}
}

func TestServerProxiesCounterRequestEndToEnd(t *testing.T) {
	api := newFakeGameAPI(t)
	srv := newServerWithMetrics(api.config(), nil, nil, metrics.NewRecorder())

	rr := testutil.Serve(srv.Handler(), http.MethodPost, "/api/getCounter", strings.NewReader(thanosBody))
	testutil.AssertStatus(t, rr, http.StatusOK)

	var resp counters.Response
	testutil.DecodeJSON(t, rr, &resp)
	if got := api.counterAuth.Load(); got != "Bearer tok123" {
		t.Fatalf("expected bearer token forwarded, got %v", got)
	}
	if q, _ := api.counterQuery.Load().(string); !strings.Contains(q, "character=Thanos") || !strings.Contains(q, "gameMode=War") {
		t.Fatalf("expected team in query, got %q", q)
	}

	got := formatter.Format(resp.Counters)
	for _, want := range []string{"X", "A, B", "w", "r"} {
		if !strings.Contains(got, want) {
			t.Fatalf("expected %q in formatted output %q", want, got)
		}
	}
	if strings.Contains(got, formatter.Separator) {
		t.Fatalf("expected no separator for one block, got %q", got)
	}
}

func TestServerReusesCachedToken(t *testing.T) {
	api := newFakeGameAPI(t)
	rec := metrics.NewRecorder()
	srv := newServerWithMetrics(api.config(), nil, nil, rec)

	for i := 0; i < 3; i++ {
		rr := testutil.Serve(srv.Handler(), http.MethodPost, "/api/getCounter", strings.NewReader(thanosBody))
		testutil.AssertStatus(t, rr, http.StatusOK)
	}
	if api.tokenHits.Load() != 1 {
		t.Fatalf("expected one token exchange, got %d", api.tokenHits.Load())
	}
	if api.counterHits.Load() != 3 {
		t.Fatalf("expected three data calls, got %d", api.counterHits.Load())
	}
	if rec.TokenCacheHits() != 2 || rec.TokenCacheMisses() != 1 {
		t.Fatalf("unexpected cache stats hits=%d misses=%d", rec.TokenCacheHits(), rec.TokenCacheMisses())
	}
}

func TestServerExchangesPerRequestWhenCacheDisabled(t *testing.T) {
	api := newFakeGameAPI(t)
	cfg := api.config()
	cfg.Counters.TokenCacheEnabled = false
	srv := newServerWithMetrics(cfg, nil, nil, metrics.NewRecorder())

	for i := 0; i < 2; i++ {
		testutil.Serve(srv.Handler(), http.MethodPost, "/api/getCounter", strings.NewReader(thanosBody))
	}
	if api.tokenHits.Load() != 2 {
		t.Fatalf("expected a token exchange per request, got %d", api.tokenHits.Load())
	}
}

func TestServerEmptyTeamNeverReachesUpstream(t *testing.T) {
	api := newFakeGameAPI(t)
	srv := newServerWithMetrics(api.config(), nil, nil, metrics.NewRecorder())

	rr := testutil.Serve(srv.Handler(), http.MethodPost, "/api/getCounter", strings.NewReader(`{"enemyTeam":[],"gameMode":"War"}`))
	testutil.AssertStatus(t, rr, http.StatusBadRequest)
	if api.tokenHits.Load() != 0 || api.counterHits.Load() != 0 {
		t.Fatalf("expected zero upstream calls, got token=%d data=%d", api.tokenHits.Load(), api.counterHits.Load())
	}
}

func TestServerTokenFailureSkipsDataEndpoint(t *testing.T) {
	api := newFakeGameAPI(t)
	cfg := api.config()
	cfg.MSF.TokenURL = api.srv.URL + "/missing-token-endpoint"
	srv := newServerWithMetrics(cfg, nil, nil, metrics.NewRecorder())

	rr := testutil.Serve(srv.Handler(), http.MethodPost, "/api/getCounter", strings.NewReader(thanosBody))
	testutil.AssertStatus(t, rr, http.StatusBadGateway)

	var body map[string]any
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatalf("decode failure body: %v", err)
	}
	if body["kind"] != "credential_exchange" {
		t.Fatalf("expected credential_exchange kind, got %v", body)
	}
	if api.counterHits.Load() != 0 {
		t.Fatalf("expected data endpoint untouched, got %d", api.counterHits.Load())
	}
}

func TestServerDiagnosticBypassesCache(t *testing.T) {
	api := newFakeGameAPI(t)
	srv := newServerWithMetrics(api.config(), nil, nil, metrics.NewRecorder())

	testutil.Serve(srv.Handler(), http.MethodPost, "/api/getCounter", strings.NewReader(thanosBody))
	rr := testutil.Serve(srv.Handler(), http.MethodGet, "/api/test", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)

	if api.tokenHits.Load() != 2 {
		t.Fatalf("expected diagnostic to exchange afresh, got %d exchanges", api.tokenHits.Load())
	}
}

func TestServerPlaceholderMode(t *testing.T) {
	srv := newServerWithMetrics(placeholderConfig(), nil, nil, metrics.NewRecorder())

	rr := testutil.Serve(srv.Handler(), http.MethodPost, "/api/getCounter", strings.NewReader(thanosBody))
	testutil.AssertStatus(t, rr, http.StatusOK)

	var resp counters.Response
	testutil.DecodeJSON(t, rr, &resp)
	if resp.Message == "" || len(resp.Counters) != 1 || resp.Counters[0].TeamName != "Placeholder Counter 1" {
		t.Fatalf("unexpected placeholder response %+v", resp)
	}
}

func TestServerAdminRouteRequiresTokenAndCache(t *testing.T) {
	cfg := placeholderConfig()
	cfg.AdminToken = "secret"
	srv := newServerWithMetrics(cfg, nil, nil, metrics.NewRecorder())
	rr := testutil.Serve(srv.Handler(), http.MethodPost, "/admin/token/reset", nil)
	testutil.AssertStatus(t, rr, http.StatusNotFound)

	cfg.Counters.TokenCacheEnabled = true
	srv = newServerWithMetrics(cfg, nil, nil, metrics.NewRecorder())
	req := httptest.NewRequest(http.MethodPost, "/admin/token/reset", nil)
	req.Header.Set("Authorization", "Bearer secret")
	rr = testutil.ServeRequest(srv.Handler(), req)
	testutil.AssertStatus(t, rr, http.StatusOK)
}

func TestNewConstructsServer(t *testing.T) {
	srv := New(placeholderConfig(), nil)
	if srv == nil || srv.Handler() == nil || srv.service == nil {
		t.Fatalf("expected server with handler and service")
	}
}

func TestGracefulShutdownCallsShutdownAndFailsReadiness(t *testing.T) {
	srv := newServerWithMetrics(placeholderConfig(), nil, nil, metrics.NewRecorder())
	httpSrv := &testutil.StubHTTPServer{HandlerVal: srv.Handler()}
	srv.httpServer = httpSrv

	testutil.AssertStatus(t, testutil.Serve(srv.Handler(), http.MethodGet, "/ready", nil), http.StatusOK)
	srv.gracefulShutdown()

	if httpSrv.ShutdownCalls != 1 {
		t.Fatalf("expected server Shutdown to be called once, got %d", httpSrv.ShutdownCalls)
	}
	testutil.AssertStatus(t, testutil.Serve(srv.Handler(), http.MethodGet, "/ready", nil), http.StatusServiceUnavailable)
}

func TestGracefulShutdownTimesOutLongRunningShutdown(t *testing.T) {
	blocking := &testutil.BlockingHTTPServer{
		AddrVal:    ":0",
		HandlerVal: http.NewServeMux(),
		Unblock:    make(chan struct{}),
	}

	original := shutdownTimeout
	shutdownTimeout = 5 * time.Millisecond
	defer func() { shutdownTimeout = original }()

	srv := newServerWithDeps(config.Config{}, nil, nil, blocking)

	start := time.Now()
	srv.gracefulShutdown()
	elapsed := time.Since(start)

	if blocking.ShutdownCalls != 1 {
		t.Fatalf("expected server Shutdown to be called once, got %d", blocking.ShutdownCalls)
	}
	if elapsed > 200*time.Millisecond {
		t.Fatalf("shutdown took too long: %s", elapsed)
	}
}

func TestGracefulShutdownStopsMetrics(t *testing.T) {
	httpSrv := &testutil.StubHTTPServer{}
	metricsSrv := &testutil.StubHTTPServer{}
	stopped := false

	srv := newServerWithDeps(config.Config{}, nil, nil, httpSrv)
	srv.metricsServer = metricsSrv
	srv.metricsStop = func(context.Context) error {
		stopped = true
		return nil
	}
	srv.gracefulShutdown()

	if metricsSrv.ShutdownCalls != 1 || !stopped {
		t.Fatalf("expected metrics server and provider stopped, got calls=%d stopped=%v", metricsSrv.ShutdownCalls, stopped)
	}
}

func TestServerStartHandlesListenErrorAndStops(t *testing.T) {
	srv := newServerWithDeps(config.Config{}, nil, nil, &testutil.ErrHTTPServer{})

	var wg sync.WaitGroup
	wg.Add(1)
	stopCalled := make(chan struct{})
	stop := func() {
		close(stopCalled)
		wg.Done()
	}

	srv.startServer(stop)

	select {
	case <-stopCalled:
	case <-time.After(200 * time.Millisecond):
		t.Fatal("expected stop to be called on listen failure")
	}

	wg.Wait()
}

func TestRunCancelsAndStopsComponents(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	httpSrv := &testutil.CloseableHTTPServer{}
	srv := newServerWithDeps(config.Config{}, nil, nil, httpSrv)

	done := make(chan struct{})
	go func() {
		srv.Run(ctx, cancel)
		close(done)
	}()

	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(500 * time.Millisecond):
		t.Fatal("run did not return after cancel")
	}

	if httpSrv.ShutdownCalls != 1 {
		t.Fatalf("expected server Shutdown called once, got %d", httpSrv.ShutdownCalls)
	}
}
