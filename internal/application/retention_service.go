package application

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"time"
)

const (
	industryRetentionAverage  = 82
	rateAtRiskThreshold       = 60
	flightRiskThreshold       = 40
	factorMeetingLoad         = 25
	factorPositiveLanguage    = 60
	factorNegativeLanguage    = 10
	engagementMessagesTarget  = 10
	historicalSentimentMonths = 6
	balanceRatioLow           = 0.5
	balanceRatioHigh          = 2.0
	daysPerYear               = 365
)

// RetentionService computes attrition-related metrics.
type RetentionService struct {
	reporter
}

// NewRetentionService constructs a RetentionService.
func NewRetentionService(repos Repositories, now func() time.Time, loc *time.Location) *RetentionService {
	return NewRetentionServiceWithLogger(repos, now, loc, nil)
}

// NewRetentionServiceWithLogger constructs a RetentionService with a specified logger.
func NewRetentionServiceWithLogger(repos Repositories, now func() time.Time, loc *time.Location, logger *slog.Logger) *RetentionService {
	return &RetentionService{reporter: newReporter("RetentionService", repos, now, loc, logger)}
}

// Rate reports the share of non-admin employees not at risk of leaving.
func (s *RetentionService) Rate(ctx context.Context) (report RetentionRateReport, err error) {
	if s == nil {
		err = fmt.Errorf("RetentionService is nil")
		return
	}
	if s.repos.Metrics == nil {
		err = fmt.Errorf("metrics reader not configured")
		return
	}
	logger := s.loggerWith(ctx, "Rate")
	defer func() { s.logOutcome(ctx, logger, err, "rate", report.Rate) }()

	var employees map[string]User
	if employees, _, err = s.usersByID(ctx, UserQuery{ExcludeAdmins: true}); err != nil {
		return
	}
	var retention []RetentionData
	if retention, err = s.repos.Metrics.ListRetention(ctx); err != nil {
		err = fmt.Errorf("list retention: %w", err)
		return
	}

	atRisk := 0
	for _, r := range retention {
		if _, ok := employees[r.UserID]; ok && r.RetentionRisk > rateAtRiskThreshold {
			atRisk++
		}
	}

	total := len(employees)
	rate := 0
	if total > 0 {
		rate = roundInt(float64(total-atRisk) / float64(total) * 100)
	}
	report = RetentionRateReport{
		Rate:            rate,
		IndustryAverage: industryRetentionAverage,
		Trend:           rate - industryRetentionAverage,
		TotalEmployees:  total,
		AtRisk:          atRisk,
	}
	return
}

// FlightRisk lists employees above the flight-risk threshold with their contributing factors.
func (s *RetentionService) FlightRisk(ctx context.Context) (items []FlightRiskItem, err error) {
	if s == nil {
		err = fmt.Errorf("RetentionService is nil")
		return
	}
	if s.repos.Metrics == nil || s.repos.Alerts == nil {
		err = fmt.Errorf("retention readers not configured")
		return
	}
	logger := s.loggerWith(ctx, "FlightRisk")
	defer func() { s.logOutcome(ctx, logger, err, "count", len(items)) }()

	var users map[string]User
	if users, _, err = s.usersByID(ctx, UserQuery{}); err != nil {
		return
	}
	var retention []RetentionData
	if retention, err = s.repos.Metrics.ListRetention(ctx); err != nil {
		err = fmt.Errorf("list retention: %w", err)
		return
	}
	var alerts []RiskAlert
	if alerts, err = s.repos.Alerts.ListAlerts(ctx, AlertQuery{UnresolvedOnly: true}); err != nil {
		err = fmt.Errorf("list unresolved alerts: %w", err)
		return
	}
	activeAlerts := make(map[string]bool, len(alerts))
	for _, a := range alerts {
		activeAlerts[a.EmployeeID] = true
	}

	now := s.clock()
	items = make([]FlightRiskItem, 0)
	for _, r := range retention {
		if r.RetentionRisk <= flightRiskThreshold {
			continue
		}
		user, ok := users[r.UserID]
		if !ok {
			continue
		}
		items = append(items, FlightRiskItem{
			ID:         user.ID,
			Name:       user.Name,
			Risk:       r.RetentionRisk,
			Department: user.Department,
			Tenure:     tenureLabel(user.JoinDate, now),
			Factors:    flightRiskFactors(r, activeAlerts[user.ID]),
		})
	}
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Risk != items[j].Risk {
			return items[i].Risk > items[j].Risk
		}
		return items[i].Name < items[j].Name
	})
	return
}

func flightRiskFactors(r RetentionData, hasActiveAlerts bool) []string {
	factors := make([]string, 0, 6)
	if r.CalendarOverload {
		factors = append(factors, "Calendar overload")
	}
	if r.MeetingLoad > factorMeetingLoad {
		factors = append(factors, "High meeting load")
	}
	if r.PositiveLanguage < factorPositiveLanguage {
		factors = append(factors, "Low positive language")
	}
	if r.NegativeLanguage > factorNegativeLanguage {
		factors = append(factors, "High negative language")
	}
	if r.ComplaintCount > 0 {
		factors = append(factors, "Has filed complaints")
	}
	if hasActiveAlerts {
		factors = append(factors, "Active risk alerts")
	}
	return factors
}

// tenureLabel rounds the time since joining up to whole years, never below one.
func tenureLabel(joinDate, now time.Time) string {
	years := 1
	if !joinDate.IsZero() {
		days := math.Abs(now.Sub(joinDate).Hours() / 24)
		if y := int(math.Ceil(days / daysPerYear)); y > 1 {
			years = y
		}
	}
	if years == 1 {
		return "1 year"
	}
	return fmt.Sprintf("%d years", years)
}

// Communication reports message volume per month and an engagement rate.
func (s *RetentionService) Communication(ctx context.Context) (report CommunicationReport, err error) {
	if s == nil {
		err = fmt.Errorf("RetentionService is nil")
		return
	}
	if s.repos.Messages == nil {
		err = fmt.Errorf("message reader not configured")
		return
	}
	logger := s.loggerWith(ctx, "Communication")
	defer func() { s.logOutcome(ctx, logger, err, "total", report.Total) }()

	var messages []Message
	if messages, err = s.repos.Messages.ListMessages(ctx, MessageQuery{}); err != nil {
		err = fmt.Errorf("list messages: %w", err)
		return
	}
	var employees []User
	if _, employees, err = s.usersByID(ctx, UserQuery{ExcludeAdmins: true}); err != nil {
		return
	}

	counts := make(map[string]int)
	labels := make(map[string]string)
	for _, m := range messages {
		key := monthKey(m.SentAt, s.loc)
		counts[key]++
		labels[key] = monthLabel(m.SentAt, s.loc)
	}
	keys := make([]string, 0, len(counts))
	for key := range counts {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	volume := make([]MonthlyVolume, 0, len(keys))
	for _, key := range keys {
		volume = append(volume, MonthlyVolume{Month: labels[key], Volume: counts[key]})
	}

	userCount := len(employees)
	if userCount == 0 {
		userCount = 1
	}
	perUser := float64(len(messages)) / float64(userCount)
	engagement := roundInt(perUser / engagementMessagesTarget * 100)
	if engagement > 100 {
		engagement = 100
	}

	trend := 0
	if n := len(keys); n >= 2 {
		latest, previous := counts[keys[n-1]], counts[keys[n-2]]
		if previous > 0 {
			trend = roundInt(float64(latest-previous) / float64(previous) * 100)
		}
	}

	report = CommunicationReport{
		Total:          len(messages),
		EngagementRate: engagement,
		Trend:          trend,
		VolumeByMonth:  volume,
	}
	return
}

// Sentiment reports the 30-day sentiment distribution and the monthly history of the last six months.
func (s *RetentionService) Sentiment(ctx context.Context) (report RetentionSentimentReport, err error) {
	if s == nil {
		err = fmt.Errorf("RetentionService is nil")
		return
	}
	if s.repos.Messages == nil {
		err = fmt.Errorf("message reader not configured")
		return
	}
	logger := s.loggerWith(ctx, "Sentiment")
	defer func() { s.logOutcome(ctx, logger, err, "months", len(report.HistoricalData)) }()

	now := s.clock()
	historyStart := now.AddDate(0, -historicalSentimentMonths, 0)
	var messages []Message
	if messages, err = s.repos.Messages.ListMessages(ctx, MessageQuery{SentAfter: &historyStart}); err != nil {
		err = fmt.Errorf("list messages: %w", err)
		return
	}

	windowStart := now.Add(-activityWindow)
	var window sentimentTally
	monthly := make(map[string]*sentimentTally)
	labels := make(map[string]string)
	for _, m := range messages {
		if !m.SentAt.Before(windowStart) {
			window.add(m)
		}
		key := monthKey(m.SentAt, s.loc)
		if monthly[key] == nil {
			monthly[key] = &sentimentTally{}
			labels[key] = monthLabel(m.SentAt, s.loc)
		}
		monthly[key].add(m)
	}
	keys := make([]string, 0, len(monthly))
	for key := range monthly {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	history := make([]SentimentPoint, 0, len(keys))
	for _, key := range keys {
		history = append(history, monthly[key].point(labels[key]))
	}

	trend := 0
	if n := len(history); n >= 2 {
		trend = history[n-1].Positive - history[n-2].Positive
	}

	report = RetentionSentimentReport{
		Distribution: []NamedValue{
			{Name: "Positive", Value: percent(window.positive, window.total)},
			{Name: "Neutral", Value: percent(window.neutral, window.total)},
			{Name: "Negative", Value: percent(window.negative, window.total)},
		},
		HistoricalData: history,
		Trend:          trend,
	}
	return
}

// Meetings reports meeting and focus block counts per employee.
func (s *RetentionService) Meetings(ctx context.Context) (report MeetingReport, err error) {
	if s == nil {
		err = fmt.Errorf("RetentionService is nil")
		return
	}
	if s.repos.Calendar == nil {
		err = fmt.Errorf("calendar reader not configured")
		return
	}
	logger := s.loggerWith(ctx, "Meetings")
	defer func() { s.logOutcome(ctx, logger, err, "employees", len(report.EmployeeData)) }()

	var employees []User
	if _, employees, err = s.usersByID(ctx, UserQuery{ExcludeAdmins: true}); err != nil {
		return
	}
	var items []CalendarItem
	if items, err = s.repos.Calendar.ListCalendarItems(ctx, CalendarQuery{}); err != nil {
		err = fmt.Errorf("list calendar items: %w", err)
		return
	}
	byUser := make(map[string][]CalendarItem)
	for _, item := range items {
		byUser[item.UserID] = append(byUser[item.UserID], item)
	}

	sort.Slice(employees, func(i, j int) bool { return employees[i].Name < employees[j].Name })

	rows := make([]EmployeeMeetingLoad, 0, len(employees))
	var totalMeetings, totalFocus, balanced int
	for _, user := range employees {
		stats := summarizeCalendar(byUser[user.ID], s.loc)
		rows = append(rows, EmployeeMeetingLoad{Employee: user.Name, Meetings: stats.meetings, FocusTime: stats.focusBlocks})
		totalMeetings += stats.meetings
		totalFocus += stats.focusBlocks

		focus := stats.focusBlocks
		if focus == 0 {
			focus = 1
		}
		ratio := float64(stats.meetings) / float64(focus)
		if ratio >= balanceRatioLow && ratio <= balanceRatioHigh {
			balanced++
		}
	}

	report = MeetingReport{EmployeeData: rows}
	if n := len(employees); n > 0 {
		report.AverageMeetings = roundInt(float64(totalMeetings) / float64(n))
		report.AverageFocusTime = roundInt(float64(totalFocus) / float64(n))
		report.OptimalBalance = percent(balanced, n)
	}
	return
}
