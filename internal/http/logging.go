package http

import (
	"context"
	"log/slog"

	"github.com/example/workplace-insights/internal/logging"
)

// handlerLogger tags log records with the handler and operation serving the request.
func handlerLogger(ctx context.Context, fallback *slog.Logger, handlerName, operation string, attrs ...any) *slog.Logger {
	return logging.Scoped(ctx, fallback, append([]any{"handler", handlerName, "operation", operation}, attrs...)...)
}

// logRejected records a request turned away before reaching a service.
func logRejected(ctx context.Context, logger *slog.Logger, status int, reason string, attrs ...any) {
	logger.InfoContext(ctx, "request rejected", append([]any{"status", status, "reason", reason}, attrs...)...)
}
