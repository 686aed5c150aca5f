package application

import (
	"context"
	"slices"
	"sort"
	"time"
)

// memStore is an in-memory implementation of every reader the reporting services use.
type memStore struct {
	users       []User
	departments []Department
	messages    []Message
	alerts      []RiskAlert
	links       map[string][]string
	calendar    []CalendarItem
	performance []PerformanceData
	retention   []RetentionData
	files       []File
	activities  []FileActivity
	scores      []GlynacScore
	err         error
}

func (m *memStore) repos() Repositories {
	return Repositories{
		Users:       m,
		Departments: m,
		Messages:    m,
		Alerts:      m,
		Calendar:    m,
		Metrics:     m,
		Files:       m,
	}
}

func (m *memStore) GetUser(_ context.Context, id string) (User, error) {
	if m.err != nil {
		return User{}, m.err
	}
	for _, u := range m.users {
		if u.ID == id {
			return u, nil
		}
	}
	return User{}, ErrNotFound
}

func (m *memStore) ListUsers(_ context.Context, query UserQuery) ([]User, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := make([]User, 0, len(m.users))
	for _, u := range m.users {
		if query.ExcludeAdmins && u.IsAdmin {
			continue
		}
		out = append(out, u)
	}
	return out, nil
}

func (m *memStore) ListDepartments(context.Context) ([]Department, error) {
	if m.err != nil {
		return nil, m.err
	}
	return slices.Clone(m.departments), nil
}

func (m *memStore) ListMessages(_ context.Context, query MessageQuery) ([]Message, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := make([]Message, 0)
	for _, msg := range m.messages {
		if query.SenderID != "" && msg.SenderID != query.SenderID {
			continue
		}
		if query.SentAfter != nil && msg.SentAt.Before(*query.SentAfter) {
			continue
		}
		if query.NegativeOrBelow != nil && !(msg.IsNegative || msg.SentimentScore < *query.NegativeOrBelow) {
			continue
		}
		out = append(out, msg)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if query.Descending {
			return out[i].SentAt.After(out[j].SentAt)
		}
		return out[i].SentAt.Before(out[j].SentAt)
	})
	return limit(out, query.Limit), nil
}

func (m *memStore) GetAlert(_ context.Context, id string) (RiskAlert, error) {
	if m.err != nil {
		return RiskAlert{}, m.err
	}
	for _, a := range m.alerts {
		if a.ID == id {
			return a, nil
		}
	}
	return RiskAlert{}, ErrNotFound
}

func (m *memStore) ListAlerts(_ context.Context, query AlertQuery) ([]RiskAlert, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := make([]RiskAlert, 0)
	for _, a := range m.alerts {
		if query.EmployeeID != "" && a.EmployeeID != query.EmployeeID {
			continue
		}
		if query.Type != "" && a.Type != query.Type {
			continue
		}
		if query.UnresolvedOnly && a.IsResolved {
			continue
		}
		out = append(out, a)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if query.Descending {
			return out[i].Timestamp.After(out[j].Timestamp)
		}
		return out[i].Timestamp.Before(out[j].Timestamp)
	})
	return limit(out, query.Limit), nil
}

func (m *memStore) ListFlaggedMessages(_ context.Context, alertID string) ([]Message, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := make([]Message, 0)
	for _, id := range m.links[alertID] {
		for _, msg := range m.messages {
			if msg.ID == id {
				out = append(out, msg)
			}
		}
	}
	return out, nil
}

func (m *memStore) ResolveAlert(_ context.Context, id string, resolvedAt time.Time) (RiskAlert, error) {
	if m.err != nil {
		return RiskAlert{}, m.err
	}
	for i := range m.alerts {
		if m.alerts[i].ID == id {
			m.alerts[i].IsResolved = true
			at := resolvedAt
			m.alerts[i].ResolvedAt = &at
			return m.alerts[i], nil
		}
	}
	return RiskAlert{}, ErrNotFound
}

func (m *memStore) ListCalendarItems(_ context.Context, query CalendarQuery) ([]CalendarItem, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := make([]CalendarItem, 0)
	for _, item := range m.calendar {
		if query.UserID != "" && item.UserID != query.UserID {
			continue
		}
		if query.StartsAfter != nil && item.Start.Before(*query.StartsAfter) {
			continue
		}
		if query.StartsBefore != nil && !item.Start.Before(*query.StartsBefore) {
			continue
		}
		out = append(out, item)
	}
	return out, nil
}

func (m *memStore) ListPerformance(context.Context) ([]PerformanceData, error) {
	if m.err != nil {
		return nil, m.err
	}
	return slices.Clone(m.performance), nil
}

func (m *memStore) ListRetention(context.Context) ([]RetentionData, error) {
	if m.err != nil {
		return nil, m.err
	}
	return slices.Clone(m.retention), nil
}

func (m *memStore) GetRetention(_ context.Context, userID string) (RetentionData, error) {
	if m.err != nil {
		return RetentionData{}, m.err
	}
	for _, r := range m.retention {
		if r.UserID == userID {
			return r, nil
		}
	}
	return RetentionData{}, ErrNotFound
}

func (m *memStore) LatestGlynacScores(_ context.Context, n int) ([]GlynacScore, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := slices.Clone(m.scores)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return limit(out, n), nil
}

func (m *memStore) ListFiles(_ context.Context, query FileQuery) ([]File, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := slices.Clone(m.files)
	sort.SliceStable(out, func(i, j int) bool { return out[i].LastModified.Before(out[j].LastModified) })
	return limit(out, query.Limit), nil
}

func (m *memStore) GetFile(_ context.Context, id string) (File, error) {
	if m.err != nil {
		return File{}, m.err
	}
	for _, f := range m.files {
		if f.ID == id {
			return f, nil
		}
	}
	return File{}, ErrNotFound
}

func (m *memStore) ListFileActivities(_ context.Context, query FileActivityQuery) ([]FileActivity, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := make([]FileActivity, 0)
	for _, a := range m.activities {
		if query.UserID != "" && a.UserID != query.UserID {
			continue
		}
		if query.FileID != "" && a.FileID != query.FileID {
			continue
		}
		if query.Since != nil && a.Timestamp.Before(*query.Since) {
			continue
		}
		if len(query.Actions) > 0 && !slices.Contains(query.Actions, a.Action) {
			continue
		}
		out = append(out, a)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	return limit(out, query.Limit), nil
}

func limit[T any](items []T, n int) []T {
	if n > 0 && len(items) > n {
		return items[:n]
	}
	return items
}

// fixedNow is Wednesday 2025-06-18 14:30 UTC.
var fixedNow = time.Date(2025, time.June, 18, 14, 30, 0, 0, time.UTC)

func nowFunc() time.Time { return fixedNow }

func daysAgo(days int) time.Time {
	return fixedNow.AddDate(0, 0, -days)
}

func msg(id, sender string, score float64, sentAt time.Time) Message {
	m := Message{ID: id, SenderID: sender, ReceiverID: "u-admin", Content: "content " + id, SentimentScore: score, SentAt: sentAt, Channel: "email"}
	switch {
	case score > 0.3:
		m.IsPositive = true
	case score < -0.3:
		m.IsNegative = true
	default:
		m.IsNeutral = true
	}
	return m
}

func baseUsers() []User {
	return []User{
		{ID: "u-admin", Name: "Admin User", Department: "HR", IsAdmin: true, JoinDate: daysAgo(900)},
		{ID: "u-sarah", Name: "Sarah Johnson", Department: "Marketing", JoinDate: daysAgo(400)},
		{ID: "u-james", Name: "James Wilson", Department: "Engineering", JoinDate: daysAgo(100)},
		{ID: "u-emily", Name: "Emily Rodriguez", Department: "Product", JoinDate: daysAgo(800)},
	}
}
