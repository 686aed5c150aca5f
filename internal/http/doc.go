// Package http exposes the workplace insights API.
//
// Every route under /api/ except POST /api/auth/login requires a session,
// supplied either as the session_token cookie or an Authorization: Bearer
// header. Requests without a valid session receive 401.
//
//   - POST /api/auth/login, POST /api/auth/logout, GET /api/auth/session
//   - GET /api/dashboard/{glynac-score,risk-alerts,sentiment-analysis,
//     workload-analysis,file-activity,employee-insights}
//   - GET /api/employees/{id}
//   - GET /api/alerts/{id}, POST /api/alerts/{id}/resolve (admin only)
//   - GET /api/performance/{drags,efficiency,response-times,
//     negative-communication,overdue-tasks}
//   - GET /api/retention/{rate,flight-risk,communication,sentiment,meetings}
//   - GET /api/risks/{complaints,harassment,security}
//   - GET /healthz
//
// Report bodies use the JSON shapes declared in the application package.
// Errors are written as {"error","errorCode","errors"}.
package http
