package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/workplace-insights/internal/application"
)

func newTestRouter(validator SessionValidator, health func(context.Context) error) http.Handler {
	dashboard := &fakeDashboardService{}
	return NewRouter(RouterConfig{
		Auth:      NewAuthHandler(&fakeAuthService{err: application.ErrInvalidCredentials}, false, nil),
		Dashboard: NewDashboardHandler(dashboard, nil),
		Employees: NewEmployeeHandler(&fakeEmployeeService{}, nil),
		Alerts:    NewAlertHandler(&fakeAlertService{}, nil),
		Analytics: NewAnalyticsHandler(nil, nil, nil, nil),
		Health:    health,
		Middleware: []func(http.Handler) http.Handler{
			RequestLogger(nil),
			RequireSession(validator, nil),
		},
	})
}

func TestRouterRequiresSessionForAPIRoutes(t *testing.T) {
	t.Parallel()

	router := newTestRouter(&fakeSessionValidator{err: application.ErrSessionExpired}, nil)

	routes := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/api/auth/logout"},
		{http.MethodGet, "/api/auth/session"},
		{http.MethodGet, "/api/dashboard/glynac-score"},
		{http.MethodGet, "/api/dashboard/risk-alerts"},
		{http.MethodGet, "/api/dashboard/sentiment-analysis"},
		{http.MethodGet, "/api/dashboard/workload-analysis"},
		{http.MethodGet, "/api/dashboard/file-activity"},
		{http.MethodGet, "/api/dashboard/employee-insights"},
		{http.MethodGet, "/api/employees/e1"},
		{http.MethodGet, "/api/alerts/a1"},
		{http.MethodPost, "/api/alerts/a1/resolve"},
		{http.MethodGet, "/api/performance/drags"},
		{http.MethodGet, "/api/performance/efficiency"},
		{http.MethodGet, "/api/performance/response-times"},
		{http.MethodGet, "/api/performance/negative-communication"},
		{http.MethodGet, "/api/performance/overdue-tasks"},
		{http.MethodGet, "/api/retention/rate"},
		{http.MethodGet, "/api/retention/flight-risk"},
		{http.MethodGet, "/api/retention/communication"},
		{http.MethodGet, "/api/retention/sentiment"},
		{http.MethodGet, "/api/retention/meetings"},
		{http.MethodGet, "/api/risks/complaints"},
		{http.MethodGet, "/api/risks/harassment"},
		{http.MethodGet, "/api/risks/security"},
		{http.MethodGet, "/api/unknown"},
	}

	for _, route := range routes {
		t.Run(route.method+" "+route.path, func(t *testing.T) {
			t.Parallel()

			for _, withToken := range []bool{false, true} {
				req := httptest.NewRequest(route.method, route.path, nil)
				if withToken {
					req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: "stale"})
				}
				rec := httptest.NewRecorder()
				router.ServeHTTP(rec, req)

				assert.Equal(t, http.StatusUnauthorized, rec.Code)
				assert.Equal(t, codeUnauthenticated, decodeError(t, rec).ErrorCode)
			}
		})
	}
}

func TestRouterLoginIsReachableWithoutSession(t *testing.T) {
	t.Parallel()

	router := newTestRouter(&fakeSessionValidator{err: application.ErrSessionExpired}, nil)
	req := httptest.NewRequest(http.MethodPost, loginPath, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	// Empty body reaches the handler and fails decoding.
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouterMethodNotAllowed(t *testing.T) {
	t.Parallel()

	router := newTestRouter(&fakeSessionValidator{principal: application.Principal{UserID: "u1"}}, nil)

	tests := []struct {
		method, path, allow string
	}{
		{http.MethodPost, "/api/dashboard/glynac-score", http.MethodGet},
		{http.MethodDelete, "/api/alerts/a1", http.MethodGet},
		{http.MethodGet, "/api/alerts/a1/resolve", http.MethodPost},
		{http.MethodGet, loginPath, http.MethodPost},
	}
	for _, tc := range tests {
		req := httptest.NewRequest(tc.method, tc.path, nil)
		req.Header.Set("Authorization", "Bearer tok")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code, tc.path)
		assert.Equal(t, tc.allow, rec.Header().Get("Allow"), tc.path)
		assert.Equal(t, codeMethod, decodeError(t, rec).ErrorCode)
	}
}

func TestRouterHealthAndUnknownPaths(t *testing.T) {
	t.Parallel()

	healthy := newTestRouter(&fakeSessionValidator{}, func(context.Context) error { return nil })
	rec := httptest.NewRecorder()
	healthy.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	healthy.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/index.html", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, codeNotFound, decodeError(t, rec).ErrorCode)

	unhealthy := newTestRouter(&fakeSessionValidator{}, func(context.Context) error { return errors.New("closed") })
	rec = httptest.NewRecorder()
	unhealthy.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.JSONEq(t, `{"status":"unavailable"}`, rec.Body.String())
}
