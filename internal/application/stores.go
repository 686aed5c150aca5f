package application

import (
	"context"
	"time"
)

// UserReader exposes the user directory.
type UserReader interface {
	GetUser(ctx context.Context, id string) (User, error)
	ListUsers(ctx context.Context, query UserQuery) ([]User, error)
}

// DepartmentReader lists departments.
type DepartmentReader interface {
	ListDepartments(ctx context.Context) ([]Department, error)
}

// MessageReader lists communications.
type MessageReader interface {
	ListMessages(ctx context.Context, query MessageQuery) ([]Message, error)
}

// AlertStore reads risk alerts and records their resolution.
type AlertStore interface {
	GetAlert(ctx context.Context, id string) (RiskAlert, error)
	ListAlerts(ctx context.Context, query AlertQuery) ([]RiskAlert, error)
	ListFlaggedMessages(ctx context.Context, alertID string) ([]Message, error)
	ResolveAlert(ctx context.Context, id string, resolvedAt time.Time) (RiskAlert, error)
}

// CalendarReader lists calendar items.
type CalendarReader interface {
	ListCalendarItems(ctx context.Context, query CalendarQuery) ([]CalendarItem, error)
}

// MetricsReader exposes the per-user metric snapshots and the composite score history.
type MetricsReader interface {
	ListPerformance(ctx context.Context) ([]PerformanceData, error)
	ListRetention(ctx context.Context) ([]RetentionData, error)
	GetRetention(ctx context.Context, userID string) (RetentionData, error)
	// LatestGlynacScores returns up to limit scores, most recent first.
	LatestGlynacScores(ctx context.Context, limit int) ([]GlynacScore, error)
}

// FileReader lists files and their access log.
type FileReader interface {
	ListFiles(ctx context.Context, query FileQuery) ([]File, error)
	ListFileActivities(ctx context.Context, query FileActivityQuery) ([]FileActivity, error)
	GetFile(ctx context.Context, id string) (File, error)
}

// Repositories bundles the read models the reporting services aggregate over.
type Repositories struct {
	Users       UserReader
	Departments DepartmentReader
	Messages    MessageReader
	Alerts      AlertStore
	Calendar    CalendarReader
	Metrics     MetricsReader
	Files       FileReader
}
