package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync/atomic"

	appcounters "github.com/preston-bernstein/msf-counter-service/internal/app/counters"
	"github.com/preston-bernstein/msf-counter-service/internal/catalog"
	"github.com/preston-bernstein/msf-counter-service/internal/config"
	httpserver "github.com/preston-bernstein/msf-counter-service/internal/http"
	"github.com/preston-bernstein/msf-counter-service/internal/http/handlers"
	"github.com/preston-bernstein/msf-counter-service/internal/logging"
	"github.com/preston-bernstein/msf-counter-service/internal/metrics"
)

var metricsSetup = metrics.Setup

var errDraining = errors.New("shutting down")

type Server struct {
	cfg           config.Config
	logger        *slog.Logger
	metrics       *metrics.Recorder
	service       *appcounters.Service
	httpServer    httpServer
	metricsServer httpServer
	metricsStop   func(context.Context) error
	draining      *atomic.Bool
}

// New constructs a server with the provider selected by cfg.
func New(cfg config.Config, logger *slog.Logger) *Server {
	return newServerWithMetrics(cfg, logger, nil, nil)
}

// newServerWithMetrics builds the server; up and recorder override the configured ones when non-nil.
func newServerWithMetrics(cfg config.Config, logger *slog.Logger, up *upstream, recorder *metrics.Recorder) *Server {
	if logger == nil {
		logger = logging.NewLogger(logging.Config{})
	}
	recorder, metricsSrv, metricsShutdown := buildMetrics(cfg, logger, recorder)

	var built upstream
	if up != nil {
		built = *up
	} else {
		built = newProviderFactory(logger, recorder).build(cfg)
	}

	svc := buildService(built, logger)
	draining := &atomic.Bool{}
	httpSrv := buildHTTPServer(cfg, svc, built, logger, recorder, draining)

	logger.Info("counter service configured",
		slog.String(logging.FieldProvider, built.name),
		slog.Bool("token_cache", built.resetter != nil),
		slog.Int("retry_attempts", cfg.Counters.RetryAttempts),
	)

	return &Server{
		cfg:           cfg,
		logger:        logger,
		metrics:       recorder,
		service:       svc,
		httpServer:    httpSrv,
		metricsServer: metricsSrv,
		metricsStop:   metricsShutdown,
		draining:      draining,
	}
}

// newServerWithDeps is used for testing to inject custom components.
func newServerWithDeps(cfg config.Config, logger *slog.Logger, svc *appcounters.Service, httpSrv httpServer) *Server {
	return &Server{
		cfg:        cfg,
		logger:     logger,
		service:    svc,
		httpServer: httpSrv,
		draining:   &atomic.Bool{},
	}
}

func buildService(up upstream, logger *slog.Logger) *appcounters.Service {
	return appcounters.NewService(up.tokens, up.counters, logger,
		appcounters.WithExchange(up.exchange),
		appcounters.WithMessage(up.message),
	)
}

func buildHTTPServer(cfg config.Config, svc *appcounters.Service, up upstream, logger *slog.Logger, recorder *metrics.Recorder, draining *atomic.Bool) httpServer {
	ready := func() error {
		if draining.Load() {
			return errDraining
		}
		return nil
	}
	handler := handlers.NewHandler(svc, catalog.NewDefault(), logger, ready)

	opts := httpserver.RouterOptions{
		Logger:         logger,
		Recorder:       recorder,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
	}
	// Mount the admin token reset only when a token is configured and tokens are cached.
	if cfg.AdminToken != "" && up.resetter != nil {
		opts.Admin = handlers.NewAdminHandler(up.resetter, cfg.AdminToken, logger)
	}
	router := httpserver.NewRouter(handler, opts)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadTimeout:       readTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
		WriteTimeout:      writeTimeoutFor(cfg.MSF.Timeout),
		IdleTimeout:       idleTimeout,
	}

	return netHTTPServer{srv: srv}
}

// Run starts the HTTP servers, then waits for context cancellation to shut down gracefully.
func (s *Server) Run(ctx context.Context, stop context.CancelFunc) {
	s.startMetrics()
	s.startServer(stop)

	<-ctx.Done()
	if s.logger != nil {
		s.logger.Info("shutdown signal received")
	}

	s.gracefulShutdown()
}

func (s *Server) startServer(stop context.CancelFunc) {
	if s.logger != nil {
		s.logger.Info("http server starting", slog.String("addr", s.httpServer.Addr()))
	}
	launchServer("http", s.httpServer, s.logger, func(err error) {
		if stop != nil {
			stop()
		}
	})
}

func (s *Server) startMetrics() {
	if s.metricsServer == nil {
		return
	}
	if s.logger != nil {
		s.logger.Info("metrics server starting", slog.String("addr", s.metricsServer.Addr()))
	}
	launchServer("metrics", s.metricsServer, s.logger, nil)
}

func (s *Server) gracefulShutdown() {
	// Fail readiness first so load balancers stop routing new requests.
	s.draining.Store(true)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil && s.logger != nil {
		s.logger.Error("graceful shutdown failed", "error", err)
	}

	if s.metricsServer != nil {
		if err := s.metricsServer.Shutdown(shutdownCtx); err != nil && s.logger != nil {
			s.logger.Warn("metrics server shutdown failed", "error", err)
		}
	}

	if s.metricsStop != nil {
		if err := s.metricsStop(shutdownCtx); err != nil && s.logger != nil {
			s.logger.Warn("metrics shutdown failed", "error", err)
		}
	}

	if s.logger != nil {
		s.logger.Info("shutdown complete")
	}
}

func buildMetrics(cfg config.Config, logger *slog.Logger, recorder *metrics.Recorder) (*metrics.Recorder, httpServer, func(context.Context) error) {
	if recorder != nil {
		return recorder, nil, nil
	}

	recCfg := metrics.TelemetryConfig{
		Enabled:      cfg.Metrics.Enabled,
		Port:         cfg.Metrics.Port,
		ServiceName:  cfg.Metrics.ServiceName,
		OtlpEndpoint: cfg.Metrics.OtlpEndpoint,
		OtlpInsecure: cfg.Metrics.OtlpInsecure,
	}

	rec, handler, shutdown, err := metricsSetup(context.Background(), recCfg)
	if err != nil {
		if logger != nil {
			logger.Warn("metrics setup failed, continuing without telemetry", "err", err)
		}
		return metrics.NewRecorder(), nil, nil
	}

	var metricsSrv httpServer
	if handler != nil && recCfg.Enabled {
		metricsSrv = netHTTPServer{
			srv: &http.Server{
				Addr:              ":" + recCfg.Port,
				Handler:           handler,
				ReadHeaderTimeout: readHeaderTimeout,
			},
		}
	}

	return rec, metricsSrv, shutdown
}

func launchServer(name string, srv httpServer, logger *slog.Logger, onError func(error)) {
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			if logger != nil {
				logger.Warn(name+" server failed", "error", err)
			}
			if onError != nil {
				onError(err)
			}
		}
	}()
}

// Handler exposes the HTTP handler (useful for tests).
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler()
}
