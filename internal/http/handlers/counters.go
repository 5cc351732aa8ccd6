package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/preston-bernstein/msf-counter-service/internal/domain/counters"
	"github.com/preston-bernstein/msf-counter-service/internal/logging"
	"github.com/preston-bernstein/msf-counter-service/internal/providers"
)

const (
	maxRequestBytes = 1 << 20

	msgCounterFailed = "Failed to get counter recommendations."
	msgTestOK        = "Token exchange succeeded."
	msgTestFailed    = "Token exchange failed."
)

// GetCounter proxies a team to the counter data endpoint and relays the structured result.
func (h *Handler) GetCounter(w http.ResponseWriter, r *http.Request) {
	logger := loggerFromContext(r, h.logger)
	if h.svc == nil {
		writeFailure(w, r, msgCounterFailed, providers.NewInternalError("get counter", providers.ErrProviderUnavailable), logger)
		return
	}

	var req counters.TeamRequest
	body := http.MaxBytesReader(w, r.Body, maxRequestBytes)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		logging.Warn(logger, "invalid counter request body", "error", err)
		writeFailure(w, r, msgCounterFailed, providers.NewValidationError("decode request", errors.New("invalid request body")), logger)
		return
	}

	recs, err := h.svc.HandleCounterRequest(r.Context(), req)
	if err != nil {
		writeFailure(w, r, msgCounterFailed, err, logger)
		return
	}
	writeJSON(w, http.StatusOK, counters.NewResponse(h.svc.Message(), recs), logger)
}

type testResponse struct {
	Success      bool       `json:"success"`
	Message      string     `json:"message"`
	TokenPreview string     `json:"tokenPreview,omitempty"`
	ExpiresAt    *time.Time `json:"expiresAt,omitempty"`
	Error        string     `json:"error,omitempty"`
	Kind         string     `json:"kind,omitempty"`
}

// Test performs a diagnostic token exchange.
func (h *Handler) Test(w http.ResponseWriter, r *http.Request) {
	logger := loggerFromContext(r, h.logger)
	if h.svc == nil {
		writeJSON(w, http.StatusInternalServerError, testResponse{
			Message: msgTestFailed,
			Error:   providers.ErrProviderUnavailable.Error(),
			Kind:    string(providers.KindInternal),
		}, logger)
		return
	}

	diag, err := h.svc.Diagnose(r.Context())
	if err != nil {
		kind := providers.KindOf(err)
		status := statusForKind(kind)
		if providers.IsTimeout(err) {
			status = http.StatusGatewayTimeout
		}
		logging.Warn(logger, "diagnostic token exchange failed", logging.FieldErrorKind, string(kind), "error", err)
		writeJSON(w, status, testResponse{
			Message: msgTestFailed,
			Error:   err.Error(),
			Kind:    string(kind),
		}, logger)
		return
	}

	resp := testResponse{Success: true, Message: msgTestOK, TokenPreview: diag.TokenPreview}
	if !diag.ExpiresAt.IsZero() {
		exp := diag.ExpiresAt.UTC()
		resp.ExpiresAt = &exp
	}
	writeJSON(w, http.StatusOK, resp, logger)
}
