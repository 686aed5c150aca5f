package testfixtures

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/example/workplace-insights/internal/persistence"
)

// Store is the set of repositories a Dataset is written through.
type Store interface {
	persistence.DepartmentRepository
	persistence.UserRepository
	persistence.MessageRepository
	persistence.AlertRepository
	persistence.CalendarRepository
	persistence.MetricsRepository
	persistence.FileRepository
}

// AlertFixture pairs an alert with the messages flagged for it.
type AlertFixture struct {
	Alert      persistence.RiskAlert
	MessageIDs []string
}

// Dataset accumulates deterministic records relative to a fixed now and
// writes them in dependency order.
type Dataset struct {
	Now time.Time
	IDs *IDGenerator

	Departments []persistence.Department
	Users       []persistence.User
	Messages    []persistence.Message
	Alerts      []AlertFixture
	Calendar    []persistence.CalendarItem
	Performance []persistence.PerformanceData
	Retention   []persistence.RetentionData
	Files       []persistence.File
	Activities  []persistence.FileActivity
	Scores      []persistence.GlynacScore
}

// NewDataset starts an empty dataset anchored at now, or ReferenceTime when now is zero.
func NewDataset(now time.Time) *Dataset {
	if now.IsZero() {
		now = ReferenceTime()
	}
	return &Dataset{Now: now, IDs: NewIDGenerator()}
}

// UserOption customises a user fixture.
type UserOption func(*persistence.User)

func WithAdmin() UserOption {
	return func(u *persistence.User) { u.IsAdmin = true }
}

func WithPasswordHash(hash string) UserOption {
	return func(u *persistence.User) { u.PasswordHash = hash }
}

func WithJoinDate(joined time.Time) UserOption {
	return func(u *persistence.User) { u.JoinDate = joined }
}

// Department registers a department once and returns it.
func (d *Dataset) Department(name string) persistence.Department {
	for _, existing := range d.Departments {
		if existing.Name == name {
			return existing
		}
	}
	dept := persistence.Department{ID: d.IDs.Next("dept"), Name: name}
	d.Departments = append(d.Departments, dept)
	return dept
}

// User adds an employee in department. The email is derived from the name.
func (d *Dataset) User(name, department string, opts ...UserOption) persistence.User {
	if department != "" {
		d.Department(department)
	}
	user := persistence.User{
		ID:           d.IDs.Next("user"),
		Name:         name,
		Email:        strings.ReplaceAll(strings.ToLower(name), " ", ".") + "@company.com",
		PasswordHash: "unused",
		Department:   department,
		JoinDate:     d.Now.AddDate(-2, 0, 0),
		CreatedAt:    d.Now.AddDate(-2, 0, 0),
		UpdatedAt:    d.Now.AddDate(-2, 0, 0),
	}
	for _, opt := range opts {
		opt(&user)
	}
	d.Users = append(d.Users, user)
	return user
}

// Message records a message sent ago before now. Flags follow the score:
// above 0.3 is positive, below -0.3 negative, anything else neutral.
func (d *Dataset) Message(from, to persistence.User, score float64, ago time.Duration) persistence.Message {
	msg := persistence.Message{
		ID:             d.IDs.Next("msg"),
		SenderID:       from.ID,
		ReceiverID:     to.ID,
		Content:        fmt.Sprintf("message from %s to %s", from.Name, to.Name),
		SentimentScore: score,
		IsPositive:     score > 0.3,
		IsNegative:     score < -0.3,
		IsNeutral:      score >= -0.3 && score <= 0.3,
		Channel:        "email",
		SentAt:         d.Now.Add(-ago),
	}
	d.Messages = append(d.Messages, msg)
	return msg
}

// Alert records an unresolved alert raised ago before now.
func (d *Dataset) Alert(employee persistence.User, alertType, severity string, ago time.Duration, flagged ...persistence.Message) persistence.RiskAlert {
	alert := persistence.RiskAlert{
		ID:          d.IDs.Next("alert"),
		EmployeeID:  employee.ID,
		Type:        alertType,
		Severity:    severity,
		Title:       fmt.Sprintf("%s alert for %s", alertType, employee.Name),
		Description: "raised by fixture",
		Timestamp:   d.Now.Add(-ago),
	}
	ids := make([]string, 0, len(flagged))
	for _, m := range flagged {
		ids = append(ids, m.ID)
	}
	d.Alerts = append(d.Alerts, AlertFixture{Alert: alert, MessageIDs: ids})
	return alert
}

// Meeting books a calendar item for user starting at start.
func (d *Dataset) Meeting(user persistence.User, start time.Time, length time.Duration, focus bool) persistence.CalendarItem {
	title := "Meeting"
	if focus {
		title = "Focus Time"
	}
	item := persistence.CalendarItem{
		ID:          d.IDs.Next("cal"),
		UserID:      user.ID,
		Title:       title,
		Start:       start,
		End:         start.Add(length),
		IsFocusTime: focus,
	}
	d.Calendar = append(d.Calendar, item)
	return item
}

// Metrics stores the performance and retention snapshots for user.
func (d *Dataset) Metrics(user persistence.User, perf persistence.PerformanceData, retention persistence.RetentionData) {
	perf.UserID = user.ID
	retention.UserID = user.ID
	d.Performance = append(d.Performance, perf)
	d.Retention = append(d.Retention, retention)
}

// Score appends a composite score recorded monthsAgo months before now.
func (d *Dataset) Score(monthsAgo, overall int) persistence.GlynacScore {
	score := persistence.GlynacScore{
		ID:            d.IDs.Next("score"),
		Date:          d.Now.AddDate(0, -monthsAgo, 0),
		Overall:       overall,
		Communication: overall - 5,
		Workload:      overall + 2,
		Wellbeing:     overall - 3,
	}
	d.Scores = append(d.Scores, score)
	return score
}

// File adds a document created by creator and last modified ago before now.
func (d *Dataset) File(creator persistence.User, name string, ago time.Duration) persistence.File {
	ext := "txt"
	if i := strings.LastIndex(name, "."); i >= 0 && i < len(name)-1 {
		ext = name[i+1:]
	}
	file := persistence.File{
		ID:           d.IDs.Next("file"),
		Name:         name,
		Path:         "/documents/" + name,
		Type:         ext,
		CreatorID:    creator.ID,
		LastModified: d.Now.Add(-ago),
	}
	d.Files = append(d.Files, file)
	return file
}

// Access logs user performing action on file ago before now.
func (d *Dataset) Access(user persistence.User, file persistence.File, action string, ago time.Duration) persistence.FileActivity {
	activity := persistence.FileActivity{
		ID:        d.IDs.Next("act"),
		FileID:    file.ID,
		UserID:    user.ID,
		Action:    action,
		Timestamp: d.Now.Add(-ago),
	}
	d.Activities = append(d.Activities, activity)
	return activity
}

// Load writes the dataset through store.
func (d *Dataset) Load(ctx context.Context, store Store) error {
	for _, dept := range d.Departments {
		if err := store.CreateDepartment(ctx, dept); err != nil {
			return fmt.Errorf("department %s: %w", dept.Name, err)
		}
	}
	for _, user := range d.Users {
		if err := store.CreateUser(ctx, user); err != nil {
			return fmt.Errorf("user %s: %w", user.Name, err)
		}
	}
	for _, msg := range d.Messages {
		if err := store.CreateMessage(ctx, msg); err != nil {
			return fmt.Errorf("message %s: %w", msg.ID, err)
		}
	}
	for _, a := range d.Alerts {
		if err := store.CreateAlert(ctx, a.Alert, a.MessageIDs); err != nil {
			return fmt.Errorf("alert %s: %w", a.Alert.ID, err)
		}
	}
	for _, item := range d.Calendar {
		if err := store.CreateCalendarItem(ctx, item); err != nil {
			return fmt.Errorf("calendar item %s: %w", item.ID, err)
		}
	}
	for _, perf := range d.Performance {
		if err := store.UpsertPerformance(ctx, perf); err != nil {
			return fmt.Errorf("performance %s: %w", perf.UserID, err)
		}
	}
	for _, ret := range d.Retention {
		if err := store.UpsertRetention(ctx, ret); err != nil {
			return fmt.Errorf("retention %s: %w", ret.UserID, err)
		}
	}
	for _, score := range d.Scores {
		if err := store.CreateGlynacScore(ctx, score); err != nil {
			return fmt.Errorf("glynac score %s: %w", score.ID, err)
		}
	}
	for _, file := range d.Files {
		if err := store.CreateFile(ctx, file); err != nil {
			return fmt.Errorf("file %s: %w", file.Name, err)
		}
	}
	for _, act := range d.Activities {
		if err := store.CreateFileActivity(ctx, act); err != nil {
			return fmt.Errorf("file activity %s: %w", act.ID, err)
		}
	}
	return nil
}
