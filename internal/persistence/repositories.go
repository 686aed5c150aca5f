package persistence

import (
	"context"
	"time"
)

// UserFilter narrows user listings.
type UserFilter struct {
	ExcludeAdmins bool
}

// UserRepository stores user accounts.
type UserRepository interface {
	CreateUser(ctx context.Context, user User) error
	GetUser(ctx context.Context, id string) (User, error)
	GetUserByEmail(ctx context.Context, email string) (User, error)
	// ListUsers returns users ordered by name.
	ListUsers(ctx context.Context, filter UserFilter) ([]User, error)
	CountUsers(ctx context.Context) (int, error)
}

// DepartmentRepository stores departments.
type DepartmentRepository interface {
	CreateDepartment(ctx context.Context, department Department) error
	// ListDepartments returns departments ordered by name.
	ListDepartments(ctx context.Context) ([]Department, error)
}

// SessionRepository stores authentication session state.
type SessionRepository interface {
	CreateSession(ctx context.Context, session Session) (Session, error)
	GetSession(ctx context.Context, token string) (Session, error)
	RevokeSession(ctx context.Context, token string, revokedAt time.Time) (Session, error)
	DeleteExpiredSessions(ctx context.Context, reference time.Time) error
}

// MessageFilter narrows message queries. Results are ordered by sent time.
type MessageFilter struct {
	SenderID  string
	SentAfter *time.Time
	// NegativeOrBelow keeps messages flagged negative or scored below the value.
	NegativeOrBelow *float64
	Descending      bool
	Limit           int
}

// MessageRepository stores communications.
type MessageRepository interface {
	CreateMessage(ctx context.Context, message Message) error
	ListMessages(ctx context.Context, filter MessageFilter) ([]Message, error)
}

// AlertFilter narrows risk alert queries. Results are ordered by timestamp.
type AlertFilter struct {
	EmployeeID     string
	Type           string
	UnresolvedOnly bool
	Descending     bool
	Limit          int
}

// AlertRepository stores risk alerts and the messages that triggered them.
type AlertRepository interface {
	// CreateAlert stores the alert and links the given messages in order.
	CreateAlert(ctx context.Context, alert RiskAlert, messageIDs []string) error
	GetAlert(ctx context.Context, id string) (RiskAlert, error)
	ListAlerts(ctx context.Context, filter AlertFilter) ([]RiskAlert, error)
	ListAlertMessages(ctx context.Context, alertID string) ([]Message, error)
	// ResolveAlert marks the alert resolved. An already resolved alert keeps its original resolution time.
	ResolveAlert(ctx context.Context, id string, resolvedAt time.Time) (RiskAlert, error)
}

// CalendarFilter narrows calendar queries. Results are ordered by start time.
// StartsAfter is inclusive and StartsBefore exclusive.
type CalendarFilter struct {
	UserID       string
	StartsAfter  *time.Time
	StartsBefore *time.Time
}

// CalendarRepository stores calendar items.
type CalendarRepository interface {
	CreateCalendarItem(ctx context.Context, item CalendarItem) error
	ListCalendarItems(ctx context.Context, filter CalendarFilter) ([]CalendarItem, error)
}

// MetricsRepository stores per-user metric snapshots and the composite score history.
type MetricsRepository interface {
	UpsertPerformance(ctx context.Context, data PerformanceData) error
	UpsertRetention(ctx context.Context, data RetentionData) error
	ListPerformance(ctx context.Context) ([]PerformanceData, error)
	ListRetention(ctx context.Context) ([]RetentionData, error)
	GetRetention(ctx context.Context, userID string) (RetentionData, error)
	CreateGlynacScore(ctx context.Context, score GlynacScore) error
	// LatestGlynacScores returns up to limit scores, most recent first.
	LatestGlynacScores(ctx context.Context, limit int) ([]GlynacScore, error)
}

// FileActivityFilter narrows file activity queries. Results are ordered newest first.
type FileActivityFilter struct {
	UserID  string
	FileID  string
	Since   *time.Time
	Actions []string
	Limit   int
}

// FileRepository stores files and their access log.
type FileRepository interface {
	CreateFile(ctx context.Context, file File) error
	GetFile(ctx context.Context, id string) (File, error)
	// ListFiles returns files ordered by last modification, oldest first.
	ListFiles(ctx context.Context, limit int) ([]File, error)
	CreateFileActivity(ctx context.Context, activity FileActivity) error
	ListFileActivities(ctx context.Context, filter FileActivityFilter) ([]FileActivity, error)
}
