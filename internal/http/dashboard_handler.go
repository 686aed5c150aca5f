package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/example/workplace-insights/internal/application"
	"github.com/example/workplace-insights/internal/logging"
)

type dashboardService interface {
	GlynacScore(ctx context.Context) (application.GlynacScoreReport, error)
	RiskAlerts(ctx context.Context) ([]application.RiskAlertItem, error)
	SentimentAnalysis(ctx context.Context, windowDays int) (application.SentimentAnalysisReport, error)
	WorkloadAnalysis(ctx context.Context) (application.WorkloadReport, error)
	FileActivity(ctx context.Context) ([]application.FileActivityItem, error)
	EmployeeInsights(ctx context.Context) ([]application.EmployeeInsight, error)
}

// DashboardHandler serves the /api/dashboard/* widgets.
type DashboardHandler struct {
	service   dashboardService
	responder responder
	logger    *slog.Logger
}

func NewDashboardHandler(service dashboardService, logger *slog.Logger) *DashboardHandler {
	base := logging.OrDefault(logger)
	return &DashboardHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *DashboardHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return handlerLogger(ctx, h.logger, "DashboardHandler", operation, attrs...)
}

func (h *DashboardHandler) GlynacScore(w http.ResponseWriter, r *http.Request) {
	serveReport(w, r, h.responder, h.log(r.Context(), "GlynacScore"), h.service.GlynacScore)
}

func (h *DashboardHandler) RiskAlerts(w http.ResponseWriter, r *http.Request) {
	serveReport(w, r, h.responder, h.log(r.Context(), "RiskAlerts"), h.service.RiskAlerts)
}

// SentimentAnalysis accepts an optional ?days= window.
func (h *DashboardHandler) SentimentAnalysis(w http.ResponseWriter, r *http.Request) {
	days, err := intQuery(r, "days", application.DefaultSentimentWindow)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	serveReport(w, r, h.responder, h.log(r.Context(), "SentimentAnalysis", "days", days), func(ctx context.Context) (application.SentimentAnalysisReport, error) {
		return h.service.SentimentAnalysis(ctx, days)
	})
}

func (h *DashboardHandler) WorkloadAnalysis(w http.ResponseWriter, r *http.Request) {
	serveReport(w, r, h.responder, h.log(r.Context(), "WorkloadAnalysis"), h.service.WorkloadAnalysis)
}

func (h *DashboardHandler) FileActivity(w http.ResponseWriter, r *http.Request) {
	serveReport(w, r, h.responder, h.log(r.Context(), "FileActivity"), h.service.FileActivity)
}

func (h *DashboardHandler) EmployeeInsights(w http.ResponseWriter, r *http.Request) {
	serveReport(w, r, h.responder, h.log(r.Context(), "EmployeeInsights"), h.service.EmployeeInsights)
}
