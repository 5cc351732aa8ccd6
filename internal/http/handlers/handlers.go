package handlers

import (
	"log/slog"
	"net/http"

	appcounters "github.com/preston-bernstein/msf-counter-service/internal/app/counters"
	"github.com/preston-bernstein/msf-counter-service/internal/catalog"
	"github.com/preston-bernstein/msf-counter-service/internal/domain/counters"
)

// Handler wires HTTP routes to the counter service and the character catalog.
type Handler struct {
	svc     *appcounters.Service
	catalog *catalog.Catalog
	logger  *slog.Logger
	readyFn func() error
}

// NewHandler constructs a Handler. readyFn may be nil, in which case the service is always ready.
func NewHandler(svc *appcounters.Service, cat *catalog.Catalog, logger *slog.Logger, readyFn func() error) *Handler {
	if cat == nil {
		cat = catalog.NewDefault()
	}
	return &Handler{
		svc:     svc,
		catalog: cat,
		logger:  logger,
		readyFn: readyFn,
	}
}

// Health reports the service health.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if err := r.Context().Err(); err != nil {
		writeError(w, r, http.StatusServiceUnavailable, "shutting down", h.logger)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"}, h.logger)
}

// Ready reports readiness for traffic (e.g., for Kubernetes probes).
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	if h.readyFn != nil {
		if err := h.readyFn(); err != nil {
			writeError(w, r, http.StatusServiceUnavailable, err.Error(), h.logger)
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"}, h.logger)
}

type charactersResponse struct {
	Characters []string `json:"characters"`
}

// Characters lists the selectable characters, filtered by the optional search query.
func (h *Handler) Characters(w http.ResponseWriter, r *http.Request) {
	names := h.catalog.Search(r.URL.Query().Get("search"))
	writeJSON(w, http.StatusOK, charactersResponse{Characters: names}, loggerFromContext(r, h.logger))
}

type gameModesResponse struct {
	GameModes   []counters.GameMode `json:"gameModes"`
	MaxTeamSize int                 `json:"maxTeamSize"`
}

// GameModes lists the selectable game modes.
func (h *Handler) GameModes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, gameModesResponse{
		GameModes:   h.catalog.GameModes(),
		MaxTeamSize: counters.MaxTeamSize,
	}, loggerFromContext(r, h.logger))
}
