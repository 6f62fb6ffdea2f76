package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/manan0901/Vibecoder-sub002/internal/contracts"
	"github.com/manan0901/Vibecoder-sub002/internal/domain"
)

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if body != nil {
		_ = json.NewEncoder(w).Encode(body)
	}
}

func writeSuccess(w http.ResponseWriter, status int, message string, data any) {
	writeJSON(w, status, contracts.SuccessResponse{
		Status:  "success",
		Message: message,
		Data:    data,
	})
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, code, message := mapDomainError(err)
	if status >= http.StatusInternalServerError {
		slog.Default().ErrorContext(r.Context(), "request failed",
			"module", "http",
			"layer", "adapter",
			"operation", r.Method+" "+r.URL.Path,
			"outcome", "error",
			"error", err,
		)
	}
	writeJSON(w, status, contracts.ErrorResponse{
		Status: "error",
		Error: contracts.ErrorPayload{
			Code:      code,
			Message:   message,
			RequestID: middleware.GetReqID(r.Context()),
		},
	})
}

// mapDomainError translates sentinel errors into the wire taxonomy. Unknown
// errors become opaque 500s; their detail stays in the logs.
func mapDomainError(err error) (int, string, string) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, "invalid_input", "request validation failed"
	case errors.Is(err, domain.ErrInvalidSignature):
		return http.StatusBadRequest, "invalid_signature", "signature verification failed"
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, "invalid_credentials", "invalid email or password"
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, "unauthorized", "authentication required"
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "forbidden", "not allowed"
	case errors.Is(err, domain.ErrNotPurchased):
		return http.StatusForbidden, "not_purchased", "project has not been purchased"
	case errors.Is(err, domain.ErrSessionExpired):
		return http.StatusForbidden, "session_expired", "download session has expired"
	case errors.Is(err, domain.ErrSessionExhausted):
		return http.StatusForbidden, "session_exhausted", "download limit reached"
	case errors.Is(err, domain.ErrSessionRevoked):
		return http.StatusForbidden, "session_revoked", "download session was revoked"
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "not_found", "resource not found"
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict, "conflict", "resource already exists"
	case errors.Is(err, domain.ErrIllegalTransition):
		return http.StatusConflict, "illegal_transition", "transaction state does not allow this operation"
	case errors.Is(err, domain.ErrGatewayUnavailable):
		return http.StatusBadGateway, "gateway_unavailable", "payment gateway request failed"
	default:
		return http.StatusInternalServerError, "internal_error", "internal server error"
	}
}

func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, 1<<20))
	if err := dec.Decode(dst); err != nil {
		return domain.ErrInvalidInput
	}
	return nil
}
