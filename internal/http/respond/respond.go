// Package respond writes JSON bodies and maps ledger errors to HTTP statuses.
package respond

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/MrJamesThe3rd/caixa/internal/cash"
)

type errorResponse struct {
	Error string    `json:"error"`
	Kind  cash.Kind `json:"kind,omitempty"`
}

func JSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// Error writes err with the status its kind maps to. Unexpected errors are
// logged and reported with a generic message.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	status, body := classify(err)

	if status == http.StatusInternalServerError {
		slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	}

	JSON(w, status, body)
}

func classify(err error) (int, errorResponse) {
	var validation *cash.ValidationError
	if errors.As(err, &validation) {
		return http.StatusBadRequest, errorResponse{Error: validation.Message, Kind: validation.Kind}
	}

	switch {
	case errors.Is(err, cash.ErrMissingOrganization), errors.Is(err, cash.ErrSessionNotOpen):
		return http.StatusBadRequest, errorResponse{Error: err.Error()}
	case errors.Is(err, cash.ErrUnauthenticated):
		return http.StatusUnauthorized, errorResponse{Error: err.Error()}
	case errors.Is(err, cash.ErrAuthorizationDenied):
		return http.StatusForbidden, errorResponse{Error: err.Error()}
	case errors.Is(err, cash.ErrSessionNotFound), errors.Is(err, cash.ErrMovementNotFound):
		return http.StatusNotFound, errorResponse{Error: err.Error()}
	default:
		return http.StatusInternalServerError, errorResponse{Error: "internal error"}
	}
}

// BadRequest reports a malformed request that never reached the ledger.
func BadRequest(w http.ResponseWriter, message string) {
	JSON(w, http.StatusBadRequest, errorResponse{Error: message})
}
