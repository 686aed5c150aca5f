package http

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/example/workplace-insights/internal/application"
)

// serveReport runs a read-only report and writes it as JSON.
func serveReport[T any](w http.ResponseWriter, r *http.Request, resp responder, logger *slog.Logger, fn func(context.Context) (T, error)) {
	report, err := fn(r.Context())
	if err != nil {
		logger.DebugContext(r.Context(), "report failed", "error", err, "error_kind", application.ErrorKind(err))
		resp.handleServiceError(r.Context(), w, err)
		return
	}
	resp.writeJSON(r.Context(), w, http.StatusOK, report)
}

// intQuery parses an optional integer query parameter. An absent or blank
// value yields fallback; any value present is returned as given.
func intQuery(r *http.Request, name string, fallback int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &application.ValidationError{FieldErrors: map[string]string{name: "must be an integer"}}
	}
	return value, nil
}
