package application

import "time"

// Principal represents the authenticated user invoking a service method.
type Principal struct {
	UserID  string
	IsAdmin bool
}

// User represents an employee account.
type User struct {
	ID         string
	Name       string
	Email      string
	Department string
	IsAdmin    bool
	JoinDate   time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// UserCredentials models the authentication attributes persisted for a user.
type UserCredentials struct {
	User         User
	PasswordHash string
}

// Session represents an authenticated session issued to a user.
type Session struct {
	ID          string
	UserID      string
	Token       string
	Fingerprint string
	ExpiresAt   time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
	RevokedAt   *time.Time
}

// AuthenticateParams captures the data required to authenticate a user.
type AuthenticateParams struct {
	Email       string
	Password    string
	Fingerprint string
}

// AuthenticateResult captures the outcome of a successful authentication attempt.
type AuthenticateResult struct {
	User    User
	Session Session
}

// Department groups users for workload reporting.
type Department struct {
	ID   string
	Name string
}

// Message is a single communication with precomputed sentiment flags.
type Message struct {
	ID             string
	SenderID       string
	ReceiverID     string
	Content        string
	SentimentScore float64
	IsPositive     bool
	IsNegative     bool
	IsNeutral      bool
	Channel        string
	SentAt         time.Time
}

// AlertType classifies a risk alert.
type AlertType string

const (
	AlertTypeHarassment       AlertType = "harassment"
	AlertTypeBurnout          AlertType = "burnout"
	AlertTypeSecurity         AlertType = "security"
	AlertTypeComplaint        AlertType = "complaint"
	AlertTypeCalendarOverload AlertType = "calendar_overload"
)

// Valid reports whether t is a known alert type.
func (t AlertType) Valid() bool {
	switch t {
	case AlertTypeHarassment, AlertTypeBurnout, AlertTypeSecurity, AlertTypeComplaint, AlertTypeCalendarOverload:
		return true
	}
	return false
}

// Severity ranks a risk alert.
type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityLow    Severity = "low"
)

// Rank orders severities: high=3, medium=2, low=1, unknown=0.
func (s Severity) Rank() int {
	switch s {
	case SeverityHigh:
		return 3
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 1
	}
	return 0
}

// RiskAlert flags an employee for follow-up.
type RiskAlert struct {
	ID          string
	EmployeeID  string
	Type        AlertType
	Severity    Severity
	Title       string
	Description string
	IsResolved  bool
	ResolvedAt  *time.Time
	Timestamp   time.Time
}

// PerformanceData holds the per-user performance snapshot.
type PerformanceData struct {
	UserID              string
	RespondTime         float64
	TaskCompletionRate  float64
	CommunicationVolume int
	NegativityScore     float64
	MeetingAttendance   float64
	OverdueTasks        int
}

// RetentionData holds the per-user retention snapshot.
type RetentionData struct {
	UserID           string
	RetentionRisk    int
	ComplaintCount   int
	CalendarOverload bool
	PositiveLanguage int
	NegativeLanguage int
	MeetingLoad      int
}

// CalendarItem is a meeting or focus block owned by one user.
type CalendarItem struct {
	ID          string
	UserID      string
	Title       string
	Start       time.Time
	End         time.Time
	IsFocusTime bool
	IsRecurring bool
	IsOptional  bool
}

// File is a tracked document.
type File struct {
	ID           string
	Name         string
	Path         string
	Type         string
	CreatorID    string
	LastModified time.Time
}

// FileActivity is one access event against a file.
type FileActivity struct {
	ID        string
	FileID    string
	UserID    string
	Action    string
	Timestamp time.Time
}

// GlynacScore is the composite workplace-health score recorded for a date.
type GlynacScore struct {
	ID            string
	Date          time.Time
	Overall       int
	Communication int
	Workload      int
	Wellbeing     int
}

// UserQuery filters user listings.
type UserQuery struct {
	ExcludeAdmins bool
}

// MessageQuery filters message listings. Results are ordered by sent time,
// newest first when Descending is set.
type MessageQuery struct {
	SenderID  string
	SentAfter *time.Time
	// NegativeOrBelow keeps only messages flagged negative or scored under the threshold.
	NegativeOrBelow *float64
	Descending      bool
	Limit           int
}

// AlertQuery filters risk alert listings. Results are ordered by timestamp,
// newest first when Descending is set.
type AlertQuery struct {
	EmployeeID     string
	Type           AlertType
	UnresolvedOnly bool
	Descending     bool
	Limit          int
}

// CalendarQuery filters calendar items.
type CalendarQuery struct {
	UserID       string
	StartsAfter  *time.Time
	StartsBefore *time.Time
}

// FileQuery filters file listings ordered by last modification, oldest first.
type FileQuery struct {
	Limit int
}

// FileActivityQuery filters file activity listings ordered newest first.
type FileActivityQuery struct {
	UserID  string
	FileID  string
	Since   *time.Time
	Actions []string
	Limit   int
}
