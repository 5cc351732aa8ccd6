package testutil

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/preston-bernstein/msf-counter-service/internal/domain/counters"
	"github.com/preston-bernstein/msf-counter-service/internal/providers"
)

func TestFixturesHelper(t *testing.T) {
	req := SampleTeamRequest("Thanos", "Nova")
	if len(req.EnemyTeam) != 2 || req.EnemyTeam[1].Name != "Nova" || req.EnemyTeam[1].ID != 2 {
		t.Fatalf("unexpected team request %+v", req)
	}
	if err := req.Validate(); err != nil {
		t.Fatalf("expected sample request to be valid, got %v", err)
	}
	rec := SampleRecommendation("X")
	if rec.TeamName != "X" || len(rec.Team) == 0 {
		t.Fatalf("unexpected recommendation %+v", rec)
	}
}

func TestServeHelpers(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})

	rr := Serve(handler, http.MethodPost, "/test", strings.NewReader("{}"))
	AssertStatus(t, rr, http.StatusCreated)
	var body map[string]bool
	DecodeJSON(t, rr, &body)
	if !body["ok"] {
		t.Fatalf("expected ok=true")
	}

	req := httptest.NewRequest(http.MethodGet, "/req", nil)
	rr2 := ServeRequest(handler, req)
	AssertStatus(t, rr2, http.StatusCreated)
}

func TestServerStubs(t *testing.T) {
	sh := &StubHTTPServer{ListenErr: errors.New("boom"), ShutdownErr: errors.New("down")}
	sh.HandlerVal = http.NewServeMux()
	_ = sh.ListenAndServe()
	_ = sh.Shutdown(context.Background())
	_ = sh.Handler()
	_ = sh.Addr()
	if sh.ListenCalls != 1 || sh.ShutdownCalls != 1 {
		t.Fatalf("expected listen/shutdown calls, got %+v", sh)
	}

	b := &BlockingHTTPServer{Unblock: make(chan struct{}), HandlerVal: http.NewServeMux()}
	if err := b.ListenAndServe(); err != nil {
		t.Fatalf("expected nil listen error for blocking server")
	}
	done := make(chan error, 1)
	go func() { done <- b.Shutdown(context.Background()) }()
	close(b.Unblock)
	if err := <-done; err != nil {
		t.Fatalf("expected nil shutdown err, got %v", err)
	}
	if b.ShutdownCalls != 1 {
		t.Fatalf("expected shutdown called once")
	}

	e := &ErrHTTPServer{}
	if err := e.ListenAndServe(); err == nil {
		t.Fatalf("expected listen error from ErrHTTPServer")
	}
	_ = e.Shutdown(context.Background())
	if e.Addr() == "" || e.ShutdownCalls != 1 {
		t.Fatalf("unexpected ErrHTTPServer state %+v", e)
	}

	c := &CloseableHTTPServer{}
	if err := c.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		t.Fatalf("expected ErrServerClosed, got %v", err)
	}
	_ = c.Shutdown(context.Background())
	if c.ShutdownCalls != 1 {
		t.Fatalf("expected shutdown call for CloseableHTTPServer")
	}
}

func TestLoggerAndMetricsHelpers(t *testing.T) {
	logger, buf := NewBufferLogger()
	logger.Info("hello", "k", "v")
	if buf.Len() == 0 {
		t.Fatalf("expected buffered log output")
	}
	rec, shutdown := NewRecorderWithShutdown()
	if rec == nil || shutdown == nil {
		t.Fatalf("expected recorder and shutdown")
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("expected nil shutdown error, got %v", err)
	}
}

func TestProviderHelpers(t *testing.T) {
	ctx := context.Background()
	req := SampleTeamRequest("Thanos")
	recs := []counters.Recommendation{SampleRecommendation("X")}

	if got, _ := (GoodProvider{Recommendations: recs}).FetchCounters(ctx, "tok", req); len(got) != 1 {
		t.Fatalf("expected recommendations from GoodProvider")
	}

	errProv := ErrProvider{Err: errors.New("boom")}
	if _, err := errProv.FetchCounters(ctx, "tok", req); !errors.Is(err, errProv.Err) {
		t.Fatalf("expected error passthrough")
	}

	if got, err := (EmptyProvider{}).FetchCounters(ctx, "tok", req); err != nil || len(got) != 0 {
		t.Fatalf("expected empty result, got %v err %v", got, err)
	}

	if _, err := (UnavailableProvider{}).FetchCounters(ctx, "tok", req); !errors.Is(err, providers.ErrProviderUnavailable) {
		t.Fatalf("expected provider unavailable")
	}

	tok, err := StaticToken("abc").FetchToken(ctx)
	if err != nil || tok.AccessToken != "abc" || !tok.Valid() {
		t.Fatalf("expected valid static token, got %+v err %v", tok, err)
	}
}

func TestNewServiceWithCounters(t *testing.T) {
	svc := NewServiceWithCounters([]counters.Recommendation{SampleRecommendation("X")})
	got, err := svc.HandleCounterRequest(context.Background(), SampleTeamRequest("Thanos"))
	if err != nil || len(got) != 1 {
		t.Fatalf("expected one recommendation, got %v err %v", got, err)
	}
}
