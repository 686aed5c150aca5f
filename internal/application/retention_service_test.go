package application

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func retentionFixture() *memStore {
	return &memStore{
		users: baseUsers(),
		retention: []RetentionData{
			{UserID: "u-sarah", RetentionRisk: 75, ComplaintCount: 2, CalendarOverload: true, PositiveLanguage: 55, NegativeLanguage: 15, MeetingLoad: 35},
			{UserID: "u-james", RetentionRisk: 45, PositiveLanguage: 65, NegativeLanguage: 10, MeetingLoad: 25},
			{UserID: "u-emily", RetentionRisk: 20, PositiveLanguage: 90, NegativeLanguage: 2, MeetingLoad: 18},
			{UserID: "u-admin", RetentionRisk: 90},
		},
		alerts: []RiskAlert{
			{ID: "a1", EmployeeID: "u-sarah", Severity: SeverityMedium, Timestamp: daysAgo(1)},
			{ID: "a2", EmployeeID: "u-james", Severity: SeverityHigh, IsResolved: true, Timestamp: daysAgo(2)},
		},
	}
}

func TestRetentionService_Rate(t *testing.T) {
	t.Run("counts non-admin employees", func(t *testing.T) {
		svc := NewRetentionService(retentionFixture().repos(), nowFunc, time.UTC)
		report, err := svc.Rate(context.Background())
		require.NoError(t, err)
		assert.Equal(t, RetentionRateReport{Rate: 67, IndustryAverage: 82, Trend: -15, TotalEmployees: 3, AtRisk: 1}, report)
	})

	t.Run("no employees", func(t *testing.T) {
		svc := NewRetentionService((&memStore{}).repos(), nowFunc, time.UTC)
		report, err := svc.Rate(context.Background())
		require.NoError(t, err)
		assert.Zero(t, report.Rate)
		assert.Equal(t, -82, report.Trend)
	})

	t.Run("stays within bounds", func(t *testing.T) {
		for atRisk := 0; atRisk <= 4; atRisk++ {
			store := &memStore{}
			for i := 0; i < 4; i++ {
				id := fmt.Sprintf("u%d", i)
				store.users = append(store.users, User{ID: id, Name: id})
				risk := 10
				if i < atRisk {
					risk = 61
				}
				store.retention = append(store.retention, RetentionData{UserID: id, RetentionRisk: risk})
			}
			report, err := NewRetentionService(store.repos(), nowFunc, time.UTC).Rate(context.Background())
			require.NoError(t, err)
			assert.Equal(t, roundInt(100*(1-float64(atRisk)/4)), report.Rate)
			assert.GreaterOrEqual(t, report.Rate, 0)
			assert.LessOrEqual(t, report.Rate, 100)
		}
	})
}

func TestRetentionService_FlightRisk(t *testing.T) {
	svc := NewRetentionService(retentionFixture().repos(), nowFunc, time.UTC)
	items, err := svc.FlightRisk(context.Background())
	require.NoError(t, err)

	require.Len(t, items, 3)
	assert.Equal(t, FlightRiskItem{
		ID:         "u-admin",
		Name:       "Admin User",
		Risk:       90,
		Department: "HR",
		Tenure:     "3 years",
		Factors:    []string{"Low positive language"},
	}, items[0])
	assert.Equal(t, FlightRiskItem{
		ID:         "u-sarah",
		Name:       "Sarah Johnson",
		Risk:       75,
		Department: "Marketing",
		Tenure:     "2 years",
		Factors: []string{
			"Calendar overload",
			"High meeting load",
			"Low positive language",
			"High negative language",
			"Has filed complaints",
			"Active risk alerts",
		},
	}, items[1])
	assert.Equal(t, "James Wilson", items[2].Name)
	assert.Equal(t, "1 year", items[2].Tenure)
	assert.Empty(t, items[2].Factors)

	for i, item := range items {
		assert.Greater(t, item.Risk, 40)
		if i > 0 {
			assert.GreaterOrEqual(t, items[i-1].Risk, item.Risk)
		}
	}
}

func TestTenureLabel(t *testing.T) {
	assert.Equal(t, "1 year", tenureLabel(time.Time{}, fixedNow))
	assert.Equal(t, "1 year", tenureLabel(daysAgo(10), fixedNow))
	assert.Equal(t, "1 year", tenureLabel(daysAgo(365), fixedNow))
	assert.Equal(t, "2 years", tenureLabel(daysAgo(366), fixedNow))
}

func TestRetentionService_Communication(t *testing.T) {
	store := &memStore{users: baseUsers()}
	for i, days := range []int{60, 61, 62, 30, 35, 1, 2, 3, 4} {
		store.messages = append(store.messages, msg(fmt.Sprintf("m%d", i), "u-sarah", 0.5, daysAgo(days)))
	}

	report, err := NewRetentionService(store.repos(), nowFunc, time.UTC).Communication(context.Background())
	require.NoError(t, err)
	assert.Equal(t, CommunicationReport{
		Total:          9,
		EngagementRate: 30,
		Trend:          100,
		VolumeByMonth: []MonthlyVolume{
			{Month: "Apr", Volume: 3},
			{Month: "May", Volume: 2},
			{Month: "Jun", Volume: 4},
		},
	}, report)

	t.Run("engagement is capped", func(t *testing.T) {
		busy := &memStore{users: []User{{ID: "u1", Name: "Solo"}}}
		for i := 0; i < 25; i++ {
			busy.messages = append(busy.messages, msg(fmt.Sprintf("b%d", i), "u1", 0, daysAgo(1)))
		}
		report, err := NewRetentionService(busy.repos(), nowFunc, time.UTC).Communication(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 100, report.EngagementRate)
		assert.Zero(t, report.Trend)
	})
}

func TestRetentionService_Sentiment(t *testing.T) {
	store := &memStore{messages: []Message{
		msg("m1", "u-sarah", 0.8, daysAgo(1)),
		msg("m2", "u-sarah", -0.8, daysAgo(2)),
		msg("m3", "u-sarah", 0.8, daysAgo(25)),
		msg("m4", "u-sarah", 0.0, daysAgo(45)),
		msg("m5", "u-sarah", 0.8, daysAgo(300)),
	}}

	report, err := NewRetentionService(store.repos(), nowFunc, time.UTC).Sentiment(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []NamedValue{
		{Name: "Positive", Value: 67},
		{Name: "Neutral", Value: 0},
		{Name: "Negative", Value: 33},
	}, report.Distribution)
	assert.Equal(t, []SentimentPoint{
		{Month: "May", Positive: 50, Neutral: 50},
		{Month: "Jun", Positive: 50, Negative: 50},
	}, report.HistoricalData)
	assert.Zero(t, report.Trend)
}

func TestRetentionService_Meetings(t *testing.T) {
	store := &memStore{users: baseUsers()}
	for i := 0; i < 26; i++ {
		store.calendar = append(store.calendar, meeting(fmt.Sprintf("s%d", i), "u-sarah", at(i, 10), 1))
	}
	store.calendar = append(store.calendar,
		focus("sf", "u-sarah", at(2, 14)),
		meeting("j1", "u-james", at(1, 10), 1),
		meeting("j2", "u-james", at(2, 10), 1),
		focus("jf1", "u-james", at(1, 14)),
		focus("jf2", "u-james", at(2, 14)),
		meeting("a1", "u-admin", at(1, 10), 1),
	)

	report, err := NewRetentionService(store.repos(), nowFunc, time.UTC).Meetings(context.Background())
	require.NoError(t, err)
	assert.Equal(t, MeetingReport{
		AverageMeetings:  9,
		AverageFocusTime: 1,
		OptimalBalance:   33,
		EmployeeData: []EmployeeMeetingLoad{
			{Employee: "Emily Rodriguez"},
			{Employee: "James Wilson", Meetings: 2, FocusTime: 2},
			{Employee: "Sarah Johnson", Meetings: 26, FocusTime: 1},
		},
	}, report)
}
