package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/example/workplace-insights/internal/application"
	"github.com/example/workplace-insights/internal/logging"
)

type employeeService interface {
	EmployeeDetail(ctx context.Context, employeeID string) (application.EmployeeDetail, error)
}

type alertService interface {
	AlertDetail(ctx context.Context, alertID string) (application.AlertDetail, error)
	ResolveAlert(ctx context.Context, principal application.Principal, alertID string) (application.AlertDetail, error)
}

// EmployeeHandler serves /api/employees/{id}.
type EmployeeHandler struct {
	service   employeeService
	responder responder
	logger    *slog.Logger
}

func NewEmployeeHandler(service employeeService, logger *slog.Logger) *EmployeeHandler {
	base := logging.OrDefault(logger)
	return &EmployeeHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *EmployeeHandler) Detail(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	logger := handlerLogger(r.Context(), h.logger, "EmployeeHandler", "Detail", "employee_id", id)
	serveReport(w, r, h.responder, logger, func(ctx context.Context) (application.EmployeeDetail, error) {
		return h.service.EmployeeDetail(ctx, id)
	})
}

// AlertHandler serves alert detail and resolution.
type AlertHandler struct {
	service   alertService
	responder responder
	logger    *slog.Logger
}

func NewAlertHandler(service alertService, logger *slog.Logger) *AlertHandler {
	base := logging.OrDefault(logger)
	return &AlertHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *AlertHandler) Detail(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	logger := handlerLogger(r.Context(), h.logger, "AlertHandler", "Detail", "alert_id", id)
	serveReport(w, r, h.responder, logger, func(ctx context.Context) (application.AlertDetail, error) {
		return h.service.AlertDetail(ctx, id)
	})
}

// Resolve marks the alert resolved. Only administrators may resolve alerts.
func (h *AlertHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	principal, ok := PrincipalFromContext(r.Context())
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusUnauthorized, codeUnauthenticated, errMissingSessionToken)
		return
	}

	logger := handlerLogger(r.Context(), h.logger, "AlertHandler", "Resolve", "alert_id", id, "actor_id", principal.UserID)
	detail, err := h.service.ResolveAlert(r.Context(), principal, id)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	logger.InfoContext(r.Context(), "alert resolved")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, detail)
}
