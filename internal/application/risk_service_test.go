package application

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeekOfYear(t *testing.T) {
	cases := []struct {
		ts   time.Time
		want int
	}{
		{time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC), 0},
		{time.Date(2025, 1, 2, 10, 0, 0, 0, time.UTC), 1},
		{time.Date(2025, 1, 8, 0, 0, 0, 0, time.UTC), 1},
		{time.Date(2025, 1, 9, 0, 0, 0, 0, time.UTC), 2},
		{time.Date(2025, 2, 1, 12, 0, 0, 0, time.UTC), 5},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, weekOfYear(tc.ts, time.UTC), tc.ts.String())
	}
}

func TestRiskService_Complaints(t *testing.T) {
	store := &memStore{alerts: []RiskAlert{
		{ID: "c1", Type: AlertTypeComplaint, Timestamp: time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)},
		{ID: "c2", Type: AlertTypeComplaint, Timestamp: time.Date(2025, 1, 9, 10, 0, 0, 0, time.UTC)},
		{ID: "c3", Type: AlertTypeComplaint, Timestamp: time.Date(2025, 1, 10, 10, 0, 0, 0, time.UTC)},
		{ID: "c4", Type: AlertTypeComplaint, IsResolved: true, Timestamp: time.Date(2025, 2, 1, 12, 0, 0, 0, time.UTC)},
		{ID: "b1", Type: AlertTypeBurnout, Timestamp: time.Date(2025, 1, 9, 10, 0, 0, 0, time.UTC)},
	}}

	periods, err := NewRiskService(store.repos(), nowFunc, time.UTC).Complaints(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []ComplaintPeriod{
		{Period: "Week 0", Count: 1},
		{Period: "Week 2", Count: 2},
		{Period: "Week 5", Count: 1},
	}, periods)
}

func TestRiskService_Harassment(t *testing.T) {
	neutralButLow := msg("m3", "u-sarah", 0, daysAgo(3))
	neutralButLow.SentimentScore = -0.55
	boundary := msg("m6", "u-sarah", 0, daysAgo(1))
	boundary.SentimentScore = -0.5

	store := &memStore{
		users: baseUsers(),
		messages: []Message{
			msg("m1", "u-james", -0.4, daysAgo(5)),
			msg("m2", "u-james", -0.8, daysAgo(4)),
			neutralButLow,
			msg("m5", "u-james", 0.5, daysAgo(2)),
			boundary,
		},
	}

	items, err := NewRiskService(store.repos(), nowFunc, time.UTC).Harassment(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 3)

	assert.Equal(t, "m3", items[0].ID)
	assert.Equal(t, SeverityMedium, items[0].Severity)
	assert.Equal(t, "Sarah Johnson", items[0].Sender)
	assert.Equal(t, "Admin User", items[0].Receiver)

	assert.Equal(t, "m2", items[1].ID)
	assert.Equal(t, SeverityHigh, items[1].Severity)
	assert.Equal(t, "m1", items[2].ID)
	assert.Equal(t, SeverityLow, items[2].Severity)
	assert.Equal(t, "2025-06-13T14:30:00.000Z", items[2].Timestamp)
}

func TestRiskService_HarassmentKeepsNewestTen(t *testing.T) {
	store := &memStore{users: baseUsers()}
	for i := 0; i < 12; i++ {
		store.messages = append(store.messages, msg(fmt.Sprintf("m%02d", i), "u-james", -0.9, daysAgo(i)))
	}
	items, err := NewRiskService(store.repos(), nowFunc, time.UTC).Harassment(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 10)
	assert.Equal(t, "m00", items[0].ID)
	assert.Equal(t, "m09", items[9].ID)
}

func TestHarassmentSeverityBoundaries(t *testing.T) {
	assert.Equal(t, SeverityHigh, harassmentSeverity(-0.71))
	assert.Equal(t, SeverityMedium, harassmentSeverity(-0.7))
	assert.Equal(t, SeverityMedium, harassmentSeverity(-0.51))
	assert.Equal(t, SeverityLow, harassmentSeverity(-0.5))
	assert.Equal(t, SeverityLow, harassmentSeverity(-0.31))
}

func TestRiskService_Security(t *testing.T) {
	store := &memStore{
		users: baseUsers(),
		alerts: []RiskAlert{
			{ID: "s1", EmployeeID: "u-sarah", Type: AlertTypeSecurity, Severity: SeverityLow, Description: "Bulk downloads", Timestamp: daysAgo(1)},
			{ID: "s2", EmployeeID: "u-sarah", Type: AlertTypeSecurity, Severity: SeverityMedium, Description: "Unusual access", Timestamp: daysAgo(3)},
			{ID: "s3", EmployeeID: "u-james", Type: AlertTypeSecurity, Severity: SeverityHigh, Timestamp: daysAgo(2)},
			{ID: "s4", EmployeeID: "u-emily", Type: AlertTypeSecurity, Severity: SeverityHigh, IsResolved: true, Timestamp: daysAgo(1)},
			{ID: "b1", EmployeeID: "u-emily", Type: AlertTypeBurnout, Severity: SeverityHigh, Timestamp: daysAgo(1)},
		},
	}
	for i := 0; i < 4; i++ {
		store.activities = append(store.activities, FileActivity{ID: fmt.Sprintf("sa%d", i), FileID: "f1", UserID: "u-sarah", Action: "download", Timestamp: daysAgo(i)})
	}
	for i := 0; i < 2; i++ {
		store.activities = append(store.activities, FileActivity{ID: fmt.Sprintf("ja%d", i), FileID: "f1", UserID: "u-james", Action: "view", Timestamp: daysAgo(i)})
	}

	items, err := NewRiskService(store.repos(), nowFunc, time.UTC).Security(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []SecurityRiskItem{
		{
			ID:                  "u-james",
			EmployeeID:          "u-james",
			EmployeeName:        "James Wilson",
			RiskLevel:           SeverityHigh,
			RiskScore:           75,
			ActivityDescription: "No specific activity detected",
			Timestamp:           "2025-06-16T14:30:00.000Z",
		},
		{
			ID:                  "u-sarah",
			EmployeeID:          "u-sarah",
			EmployeeName:        "Sarah Johnson",
			RiskLevel:           SeverityMedium,
			RiskScore:           60,
			ActivityDescription: "Unusual access",
			Timestamp:           "2025-06-15T14:30:00.000Z",
		},
	}, items)
}

func TestSecurityScoreIsMonotonic(t *testing.T) {
	severities := []Severity{SeverityLow, SeverityMedium, SeverityHigh}
	for i, severity := range severities {
		assert.Equal(t, securityScore(severity, 3)+10, securityScore(severity, 4))
		assert.Equal(t, securityScore(severity, 0), securityScore(severity, 3))
		if i > 0 {
			assert.Greater(t, securityScore(severity, 0), securityScore(severities[i-1], 5))
		}
	}
}
