package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/example/workplace-insights/internal/application"
	"github.com/example/workplace-insights/internal/logging"
)

const (
	codeBadRequest      = "BAD_REQUEST"
	codeUnauthenticated = "UNAUTHENTICATED"
	codeInvalidLogin    = "INVALID_CREDENTIALS"
	codeForbidden       = "FORBIDDEN"
	codeNotFound        = "NOT_FOUND"
	codeMethod          = "METHOD_NOT_ALLOWED"
	codeValidation      = "VALIDATION_FAILED"
	codeInternal        = "INTERNAL_ERROR"
)

var (
	errBadRequestBody      = errors.New("Invalid request body")
	errMissingSessionToken = errors.New("Authentication required")
	errInvalidSession      = errors.New("Session is invalid or has expired. Please sign in again.")
)

type responder struct {
	logger *slog.Logger
}

func newResponder(logger *slog.Logger) responder {
	return responder{logger: logging.OrDefault(logger)}
}

func (r responder) writeJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	if w == nil {
		return
	}

	if status == http.StatusNoContent || payload == nil {
		w.WriteHeader(status)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		r.loggerFor(ctx).ErrorContext(ctx, "failed to encode response", "error", err)
	}
}

// writeError writes err's text as the client message. Only pass errors meant for clients.
func (r responder) writeError(ctx context.Context, w http.ResponseWriter, status int, code string, err error) {
	message := statusMessage(status)
	if err != nil && err.Error() != "" {
		message = err.Error()
	}
	r.writeJSON(ctx, w, status, errorResponse{Message: message, ErrorCode: code})
}

// handleServiceError maps application errors onto HTTP responses. Unexpected
// errors are logged and replaced by a generic message.
func (r responder) handleServiceError(ctx context.Context, w http.ResponseWriter, err error) {
	if err == nil {
		err = errors.New("unknown error")
	}

	var vErr *application.ValidationError
	var nfErr *application.NotFoundError

	switch {
	case errors.As(err, &vErr):
		r.writeJSON(ctx, w, http.StatusUnprocessableEntity, errorResponse{
			Message:   statusMessage(http.StatusUnprocessableEntity),
			ErrorCode: codeValidation,
			Errors:    vErr.FieldErrors,
		})
	case errors.As(err, &nfErr) && nfErr.Message != "":
		r.writeError(ctx, w, http.StatusNotFound, codeNotFound, errors.New(nfErr.Message))
	case errors.Is(err, application.ErrNotFound):
		r.writeError(ctx, w, http.StatusNotFound, codeNotFound, nil)
	case errors.Is(err, application.ErrUnauthorized):
		r.writeError(ctx, w, http.StatusForbidden, codeForbidden, nil)
	case errors.Is(err, application.ErrInvalidCredentials),
		errors.Is(err, application.ErrSessionExpired),
		errors.Is(err, application.ErrSessionRevoked):
		r.writeError(ctx, w, http.StatusUnauthorized, codeUnauthenticated, errInvalidSession)
	default:
		r.loggerFor(ctx).ErrorContext(ctx, "request failed", "error", err, "error_kind", application.ErrorKind(err))
		r.writeError(ctx, w, http.StatusInternalServerError, codeInternal, nil)
	}
}

func (r responder) loggerFor(ctx context.Context) *slog.Logger {
	return logging.Scoped(ctx, r.logger)
}

func statusMessage(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "Bad request"
	case http.StatusUnauthorized:
		return "Authentication required"
	case http.StatusForbidden:
		return "You do not have permission to perform this action"
	case http.StatusNotFound:
		return "Resource not found"
	case http.StatusMethodNotAllowed:
		return "Method not allowed"
	case http.StatusUnprocessableEntity:
		return "Invalid request parameters"
	default:
		return "Internal server error"
	}
}

type errorResponse struct {
	Message   string            `json:"error"`
	ErrorCode string            `json:"errorCode,omitempty"`
	Errors    map[string]string `json:"errors,omitempty"`
}
