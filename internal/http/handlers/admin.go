package handlers

import (
	"crypto/subtle"
	"log/slog"
	"net/http"

	"github.com/preston-bernstein/msf-counter-service/internal/http/requestutil"
	"github.com/preston-bernstein/msf-counter-service/internal/logging"
)

// TokenResetter drops cached bearer tokens.
type TokenResetter interface {
	Invalidate()
}

// AdminHandler exposes admin-only endpoints (e.g., token reset).
type AdminHandler struct {
	tokens TokenResetter
	token  string
	logger *slog.Logger
}

// NewAdminHandler constructs an AdminHandler.
func NewAdminHandler(tokens TokenResetter, token string, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{
		tokens: tokens,
		token:  token,
		logger: logger,
	}
}

// ResetToken drops the cached bearer token so the next request performs a fresh exchange.
// Guarded by ADMIN_TOKEN; returns 401 if missing/invalid.
func (h *AdminHandler) ResetToken(w http.ResponseWriter, r *http.Request) {
	if !h.authorize(r) {
		logging.Warn(h.logger, "admin unauthorized",
			slog.String(logging.FieldPath, r.URL.Path),
			slog.String("client_ip", requestutil.ClientIP(r)),
		)
		writeError(w, r, http.StatusUnauthorized, "unauthorized", h.logger)
		return
	}
	if h.tokens == nil {
		writeError(w, r, http.StatusServiceUnavailable, "token cache not configured", h.logger)
		return
	}

	h.tokens.Invalidate()
	logging.Info(loggerFromContext(r, h.logger), "admin token reset")
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"}, h.logger)
}

func (h *AdminHandler) authorize(r *http.Request) bool {
	if h.token == "" {
		return false
	}
	got := r.Header.Get("Authorization")
	want := "Bearer " + h.token
	return subtle.ConstantTimeCompare([]byte(got), []byte(want)) == 1
}
