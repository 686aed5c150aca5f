package http

import (
	"context"
	"net/http"
	"strings"
)

// RouterConfig wires handlers into the API surface. Nil handlers leave their routes unregistered.
type RouterConfig struct {
	Auth       *AuthHandler
	Dashboard  *DashboardHandler
	Employees  *EmployeeHandler
	Alerts     *AlertHandler
	Analytics  *AnalyticsHandler
	Health     func(ctx context.Context) error
	Middleware []func(http.Handler) http.Handler
}

// NewRouter builds the HTTP handler. Middleware runs in slice order, first entry outermost.
func NewRouter(cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()
	resp := newResponder(nil)

	get := func(pattern string, fn http.HandlerFunc) {
		mux.HandleFunc(pattern, allow(http.MethodGet, fn))
	}
	post := func(pattern string, fn http.HandlerFunc) {
		mux.HandleFunc(pattern, allow(http.MethodPost, fn))
	}

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		resp.writeError(r.Context(), w, http.StatusNotFound, codeNotFound, nil)
	})

	get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if cfg.Health != nil {
			if err := cfg.Health(r.Context()); err != nil {
				resp.loggerFor(r.Context()).ErrorContext(r.Context(), "health check failed", "error", err)
				resp.writeJSON(r.Context(), w, http.StatusServiceUnavailable, healthResponse{Status: "unavailable"})
				return
			}
		}
		resp.writeJSON(r.Context(), w, http.StatusOK, healthResponse{Status: "ok"})
	})

	if cfg.Auth != nil {
		post("/api/auth/login", cfg.Auth.Login)
		post("/api/auth/logout", cfg.Auth.Logout)
		get("/api/auth/session", cfg.Auth.Session)
	}

	if cfg.Dashboard != nil {
		get("/api/dashboard/glynac-score", cfg.Dashboard.GlynacScore)
		get("/api/dashboard/risk-alerts", cfg.Dashboard.RiskAlerts)
		get("/api/dashboard/sentiment-analysis", cfg.Dashboard.SentimentAnalysis)
		get("/api/dashboard/workload-analysis", cfg.Dashboard.WorkloadAnalysis)
		get("/api/dashboard/file-activity", cfg.Dashboard.FileActivity)
		get("/api/dashboard/employee-insights", cfg.Dashboard.EmployeeInsights)
	}

	if cfg.Employees != nil {
		get("/api/employees/{id}", cfg.Employees.Detail)
	}

	if cfg.Alerts != nil {
		get("/api/alerts/{id}", cfg.Alerts.Detail)
		post("/api/alerts/{id}/resolve", cfg.Alerts.Resolve)
	}

	if cfg.Analytics != nil {
		a := cfg.Analytics
		get("/api/performance/drags", a.PerformanceDrags)
		get("/api/performance/efficiency", a.PerformanceEfficiency)
		get("/api/performance/response-times", a.PerformanceResponseTimes)
		get("/api/performance/negative-communication", a.PerformanceNegativeCommunication)
		get("/api/performance/overdue-tasks", a.PerformanceOverdueTasks)

		get("/api/retention/rate", a.RetentionRate)
		get("/api/retention/flight-risk", a.RetentionFlightRisk)
		get("/api/retention/communication", a.RetentionCommunication)
		get("/api/retention/sentiment", a.RetentionSentiment)
		get("/api/retention/meetings", a.RetentionMeetings)

		get("/api/risks/complaints", a.RiskComplaints)
		get("/api/risks/harassment", a.RiskHarassment)
		get("/api/risks/security", a.RiskSecurity)
	}

	var handler http.Handler = mux
	for i := len(cfg.Middleware) - 1; i >= 0; i-- {
		if cfg.Middleware[i] != nil {
			handler = cfg.Middleware[i](handler)
		}
	}

	return handler
}

// allow restricts fn to a single method. GET routes also answer HEAD.
func allow(method string, fn http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method == method || (method == http.MethodGet && r.Method == http.MethodHead) {
			fn(w, r)
			return
		}
		methodNotAllowed(w, r, method)
	}
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request, allowed ...string) {
	if len(allowed) > 0 {
		w.Header().Set("Allow", strings.Join(allowed, ", "))
	}
	newResponder(nil).writeError(r.Context(), w, http.StatusMethodNotAllowed, codeMethod, nil)
}

type healthResponse struct {
	Status string `json:"status"`
}
