package persistence

import "time"

// Department is a named organisational unit.
type Department struct {
	ID   string
	Name string
}

// User represents an employee account together with its credentials.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	// Department holds the department name, empty when unassigned.
	Department string
	IsAdmin    bool
	JoinDate   time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Session represents an authentication session persisted for a user.
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

// Message is a stored communication with its sentiment classification.
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

// RiskAlert is a flagged concern about one employee.
type RiskAlert struct {
	ID          string
	EmployeeID  string
	Type        string
	Severity    string
	Title       string
	Description string
	IsResolved  bool
	ResolvedAt  *time.Time
	Timestamp   time.Time
}

// PerformanceData is the performance snapshot kept per user.
type PerformanceData struct {
	UserID              string
	RespondTime         float64
	TaskCompletionRate  float64
	CommunicationVolume int
	NegativityScore     float64
	MeetingAttendance   float64
	OverdueTasks        int
}

// RetentionData is the retention snapshot kept per user.
type RetentionData struct {
	UserID           string
	RetentionRisk    int
	ComplaintCount   int
	CalendarOverload bool
	PositiveLanguage int
	NegativeLanguage int
	MeetingLoad      int
}

// CalendarItem is a meeting or focus block.
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

// FileActivity records one access to a file.
type FileActivity struct {
	ID        string
	FileID    string
	UserID    string
	Action    string
	Timestamp time.Time
}

// GlynacScore is one dated composite score.
type GlynacScore struct {
	ID            string
	Date          time.Time
	Overall       int
	Communication int
	Workload      int
	Wellbeing     int
}
