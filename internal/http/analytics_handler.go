package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/example/workplace-insights/internal/application"
	"github.com/example/workplace-insights/internal/logging"
)

type performanceService interface {
	Drags(ctx context.Context) ([]application.PerformanceDrag, error)
	Efficiency(ctx context.Context) (application.EfficiencyReport, error)
	ResponseTimes(ctx context.Context) ([]application.ResponseTimeItem, error)
	NegativeCommunication(ctx context.Context) ([]application.NegativeCommunicationItem, error)
	OverdueTasks(ctx context.Context) ([]application.OverdueTaskItem, error)
}

type retentionService interface {
	Rate(ctx context.Context) (application.RetentionRateReport, error)
	FlightRisk(ctx context.Context) ([]application.FlightRiskItem, error)
	Communication(ctx context.Context) (application.CommunicationReport, error)
	Sentiment(ctx context.Context) (application.RetentionSentimentReport, error)
	Meetings(ctx context.Context) (application.MeetingReport, error)
}

type riskService interface {
	Complaints(ctx context.Context) ([]application.ComplaintPeriod, error)
	Harassment(ctx context.Context) ([]application.HarassmentItem, error)
	Security(ctx context.Context) ([]application.SecurityRiskItem, error)
}

// AnalyticsHandler serves the performance, retention and risk report families.
type AnalyticsHandler struct {
	performance performanceService
	retention   retentionService
	risks       riskService
	responder   responder
	logger      *slog.Logger
}

func NewAnalyticsHandler(performance performanceService, retention retentionService, risks riskService, logger *slog.Logger) *AnalyticsHandler {
	base := logging.OrDefault(logger)
	return &AnalyticsHandler{
		performance: performance,
		retention:   retention,
		risks:       risks,
		responder:   newResponder(base),
		logger:      base,
	}
}

func (h *AnalyticsHandler) log(ctx context.Context, operation string) *slog.Logger {
	return handlerLogger(ctx, h.logger, "AnalyticsHandler", operation)
}

func (h *AnalyticsHandler) PerformanceDrags(w http.ResponseWriter, r *http.Request) {
	serveReport(w, r, h.responder, h.log(r.Context(), "PerformanceDrags"), h.performance.Drags)
}

func (h *AnalyticsHandler) PerformanceEfficiency(w http.ResponseWriter, r *http.Request) {
	serveReport(w, r, h.responder, h.log(r.Context(), "PerformanceEfficiency"), h.performance.Efficiency)
}

func (h *AnalyticsHandler) PerformanceResponseTimes(w http.ResponseWriter, r *http.Request) {
	serveReport(w, r, h.responder, h.log(r.Context(), "PerformanceResponseTimes"), h.performance.ResponseTimes)
}

func (h *AnalyticsHandler) PerformanceNegativeCommunication(w http.ResponseWriter, r *http.Request) {
	serveReport(w, r, h.responder, h.log(r.Context(), "PerformanceNegativeCommunication"), h.performance.NegativeCommunication)
}

func (h *AnalyticsHandler) PerformanceOverdueTasks(w http.ResponseWriter, r *http.Request) {
	serveReport(w, r, h.responder, h.log(r.Context(), "PerformanceOverdueTasks"), h.performance.OverdueTasks)
}

func (h *AnalyticsHandler) RetentionRate(w http.ResponseWriter, r *http.Request) {
	serveReport(w, r, h.responder, h.log(r.Context(), "RetentionRate"), h.retention.Rate)
}

func (h *AnalyticsHandler) RetentionFlightRisk(w http.ResponseWriter, r *http.Request) {
	serveReport(w, r, h.responder, h.log(r.Context(), "RetentionFlightRisk"), h.retention.FlightRisk)
}

func (h *AnalyticsHandler) RetentionCommunication(w http.ResponseWriter, r *http.Request) {
	serveReport(w, r, h.responder, h.log(r.Context(), "RetentionCommunication"), h.retention.Communication)
}

func (h *AnalyticsHandler) RetentionSentiment(w http.ResponseWriter, r *http.Request) {
	serveReport(w, r, h.responder, h.log(r.Context(), "RetentionSentiment"), h.retention.Sentiment)
}

func (h *AnalyticsHandler) RetentionMeetings(w http.ResponseWriter, r *http.Request) {
	serveReport(w, r, h.responder, h.log(r.Context(), "RetentionMeetings"), h.retention.Meetings)
}

func (h *AnalyticsHandler) RiskComplaints(w http.ResponseWriter, r *http.Request) {
	serveReport(w, r, h.responder, h.log(r.Context(), "RiskComplaints"), h.risks.Complaints)
}

func (h *AnalyticsHandler) RiskHarassment(w http.ResponseWriter, r *http.Request) {
	serveReport(w, r, h.responder, h.log(r.Context(), "RiskHarassment"), h.risks.Harassment)
}

func (h *AnalyticsHandler) RiskSecurity(w http.ResponseWriter, r *http.Request) {
	serveReport(w, r, h.responder, h.log(r.Context(), "RiskSecurity"), h.risks.Security)
}
