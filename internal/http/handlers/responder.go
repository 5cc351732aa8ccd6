package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/preston-bernstein/msf-counter-service/internal/http/middleware"
	"github.com/preston-bernstein/msf-counter-service/internal/http/requestutil"
	"github.com/preston-bernstein/msf-counter-service/internal/logging"
	"github.com/preston-bernstein/msf-counter-service/internal/providers"
)

// failureBody is the JSON shape of every non-2xx API response.
type failureBody struct {
	Message        string `json:"message"`
	Error          string `json:"error"`
	Kind           string `json:"kind,omitempty"`
	UpstreamStatus int    `json:"upstreamStatus,omitempty"`
	UpstreamBody   string `json:"upstreamBody,omitempty"`
	RequestID      string `json:"requestId,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logging.Error(logger, "failed to encode response", err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, message string, logger *slog.Logger) {
	writeJSON(w, status, failureBody{
		Message:   message,
		Error:     message,
		RequestID: requestID(r),
	}, logger)
}

// writeFailure maps a typed failure to its HTTP status and body.
func writeFailure(w http.ResponseWriter, r *http.Request, message string, err error, logger *slog.Logger) {
	pErr, ok := providers.AsError(err)
	if !ok {
		pErr = providers.NewInternalError("", err)
	}
	body := failureBody{
		Message:        message,
		Error:          describe(pErr),
		Kind:           string(pErr.Kind),
		UpstreamStatus: pErr.StatusCode,
		UpstreamBody:   pErr.Body,
		RequestID:      requestID(r),
	}
	writeJSON(w, statusForError(pErr), body, logger)
}

// statusForError maps a typed failure to a status; any deadline-caused failure answers 504.
func statusForError(pErr *providers.Error) int {
	if pErr.Timeout() {
		return http.StatusGatewayTimeout
	}
	return statusForKind(pErr.Kind)
}

func statusForKind(kind providers.Kind) int {
	switch kind {
	case providers.KindValidation:
		return http.StatusBadRequest
	case providers.KindCredentialExchange, providers.KindUpstreamData, providers.KindTransport:
		return http.StatusBadGateway
	case providers.KindTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// describe keeps validation messages user-facing and hides internal detail otherwise.
func describe(pErr *providers.Error) string {
	switch pErr.Kind {
	case providers.KindValidation:
		if pErr.Err != nil {
			return pErr.Err.Error()
		}
	case providers.KindInternal:
		if errors.Is(pErr, providers.ErrProviderUnavailable) {
			return providers.ErrProviderUnavailable.Error()
		}
		return "internal error"
	}
	return pErr.Error()
}

func requestID(r *http.Request) string {
	if r == nil {
		return ""
	}
	if id := middleware.RequestIDFromContext(r.Context()); id != "" {
		return id
	}
	return r.Header.Get(requestutil.HeaderRequestID)
}

func loggerFromContext(r *http.Request, fallback *slog.Logger) *slog.Logger {
	if r == nil {
		return fallback
	}
	return logging.FromContext(r.Context(), fallback)
}
