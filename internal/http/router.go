package http

import (
	"log/slog"
	nethttp "net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/preston-bernstein/msf-counter-service/internal/http/handlers"
	"github.com/preston-bernstein/msf-counter-service/internal/http/middleware"
	"github.com/preston-bernstein/msf-counter-service/internal/metrics"
)

// RouterOptions carries the cross-cutting pieces the router wraps around handlers.
type RouterOptions struct {
	Logger         *slog.Logger
	Recorder       *metrics.Recorder
	AllowedOrigins []string
	// Admin is mounted under /admin when set.
	Admin *handlers.AdminHandler
}

// NewRouter registers HTTP routes on a chi router.
func NewRouter(handler *handlers.Handler, opts RouterOptions) nethttp.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logging(opts.Logger, opts.Recorder))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS(opts.AllowedOrigins))

	r.Get("/health", handler.Health)
	r.Get("/ready", handler.Ready)

	r.Route("/api", func(r chi.Router) {
		r.Post("/getCounter", handler.GetCounter)
		r.Get("/test", handler.Test)
		r.Get("/characters", handler.Characters)
		r.Get("/gameModes", handler.GameModes)
	})

	if opts.Admin != nil {
		r.Post("/admin/token/reset", opts.Admin.ResetToken)
	}
	return r
}
