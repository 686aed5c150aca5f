package application

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"
)

// DefaultSentimentWindow is the sentiment split window used when a caller names none.
const DefaultSentimentWindow = 30

const (
	riskFeedLimit           = 10
	fileActivityLimit       = 10
	sentimentTrendMonths    = 10
	maxSentimentWindow      = 365
	insightMessageSample    = 10
	activityWindow          = 30 * 24 * time.Hour
	statusAtRiskThreshold   = 60
	statusWarningThreshold  = 30
	overloadedMeetingLoad   = 30
	underloadedMeetingLoad  = 15
	glynacScoreHistoryDepth = 2
)

// DashboardService builds the summary cards of the dashboard home page.
type DashboardService struct {
	reporter
}

// NewDashboardService constructs a DashboardService.
func NewDashboardService(repos Repositories, now func() time.Time, loc *time.Location) *DashboardService {
	return NewDashboardServiceWithLogger(repos, now, loc, nil)
}

// NewDashboardServiceWithLogger constructs a DashboardService with a specified logger.
func NewDashboardServiceWithLogger(repos Repositories, now func() time.Time, loc *time.Location, logger *slog.Logger) *DashboardService {
	return &DashboardService{reporter: newReporter("DashboardService", repos, now, loc, logger)}
}

// GlynacScore returns the most recent composite score and its change from the previous one.
func (s *DashboardService) GlynacScore(ctx context.Context) (report GlynacScoreReport, err error) {
	if s == nil {
		err = fmt.Errorf("DashboardService is nil")
		return
	}
	if s.repos.Metrics == nil {
		err = fmt.Errorf("metrics reader not configured")
		return
	}

	logger := s.loggerWith(ctx, "GlynacScore")
	defer func() { s.logOutcome(ctx, logger, err, "overall", report.OverallScore) }()

	var scores []GlynacScore
	scores, err = s.repos.Metrics.LatestGlynacScores(ctx, glynacScoreHistoryDepth)
	if err != nil {
		err = fmt.Errorf("latest glynac scores: %w", err)
		return
	}
	if len(scores) == 0 {
		err = notFound("glynac score", "", "No Glynac score data available")
		return
	}

	latest := scores[0]
	report = GlynacScoreReport{
		OverallScore:       latest.Overall,
		CommunicationScore: latest.Communication,
		WorkloadScore:      latest.Workload,
		WellbeingScore:     latest.Wellbeing,
		Date:               latest.Date.In(s.loc).Format(time.DateOnly),
	}
	if len(scores) > 1 {
		report.Trend = latest.Overall - scores[1].Overall
	}
	return
}

// RiskAlerts lists the newest unresolved alerts with the affected employee.
func (s *DashboardService) RiskAlerts(ctx context.Context) (items []RiskAlertItem, err error) {
	if s == nil {
		err = fmt.Errorf("DashboardService is nil")
		return
	}
	if s.repos.Alerts == nil {
		err = fmt.Errorf("alert store not configured")
		return
	}

	logger := s.loggerWith(ctx, "RiskAlerts")
	defer func() { s.logOutcome(ctx, logger, err, "count", len(items)) }()

	var alerts []RiskAlert
	alerts, err = s.repos.Alerts.ListAlerts(ctx, AlertQuery{UnresolvedOnly: true, Descending: true, Limit: riskFeedLimit})
	if err != nil {
		err = fmt.Errorf("list unresolved alerts: %w", err)
		return
	}

	var users map[string]User
	users, _, err = s.usersByID(ctx, UserQuery{})
	if err != nil {
		return
	}

	now := s.clock()
	items = make([]RiskAlertItem, 0, len(alerts))
	for _, alert := range alerts {
		items = append(items, RiskAlertItem{
			ID:           alert.ID,
			Title:        alert.Title,
			Description:  alert.Description,
			Type:         alert.Type,
			Severity:     alert.Severity,
			Time:         elapsedLabel(alert.Timestamp, now, s.loc),
			EmployeeID:   alert.EmployeeID,
			EmployeeName: nameOf(users, alert.EmployeeID),
		})
	}
	return
}

// ValidateSentimentWindow checks that days lies within 1..365.
func ValidateSentimentWindow(days int) (int, error) {
	if days < 1 || days > maxSentimentWindow {
		vErr := &ValidationError{}
		vErr.add("days", fmt.Sprintf("must be between 1 and %d", maxSentimentWindow))
		return 0, vErr
	}
	return days, nil
}

// SentimentAnalysis splits messages in the trailing window by sentiment and
// derives a monthly trend from stored history.
func (s *DashboardService) SentimentAnalysis(ctx context.Context, windowDays int) (report SentimentAnalysisReport, err error) {
	if s == nil {
		err = fmt.Errorf("DashboardService is nil")
		return
	}
	if s.repos.Messages == nil {
		err = fmt.Errorf("message reader not configured")
		return
	}

	logger := s.loggerWith(ctx, "SentimentAnalysis", "window_days", windowDays)
	defer func() { s.logOutcome(ctx, logger, err, "messages", report.TotalMessages) }()

	windowDays, err = ValidateSentimentWindow(windowDays)
	if err != nil {
		return
	}

	now := s.clock()
	windowStart := now.AddDate(0, 0, -windowDays)
	starts := monthStarts(now, sentimentTrendMonths, s.loc)
	historyStart := starts[0]
	if windowStart.Before(historyStart) {
		historyStart = windowStart
	}

	var messages []Message
	messages, err = s.repos.Messages.ListMessages(ctx, MessageQuery{SentAfter: &historyStart})
	if err != nil {
		err = fmt.Errorf("list messages: %w", err)
		return
	}

	var window sentimentTally
	for _, m := range messages {
		if !m.SentAt.Before(windowStart) {
			window.add(m)
		}
	}

	tallies := monthlySentiment(messages, starts, s.loc)
	data := make([]SentimentPoint, 0, len(starts))
	for i, start := range starts {
		data = append(data, tallies[i].point(monthLabel(start, s.loc)))
	}

	report = SentimentAnalysisReport{
		Data:               data,
		PositivePercentage: percent(window.positive, window.total),
		NeutralPercentage:  percent(window.neutral, window.total),
		NegativePercentage: percent(window.negative, window.total),
		TotalMessages:      window.total,
		WindowDays:         windowDays,
	}
	return
}

// WorkloadAnalysis reports meeting load per department from calendar items in the trailing month.
func (s *DashboardService) WorkloadAnalysis(ctx context.Context) (report WorkloadReport, err error) {
	if s == nil {
		err = fmt.Errorf("DashboardService is nil")
		return
	}
	if s.repos.Departments == nil || s.repos.Calendar == nil {
		err = fmt.Errorf("department or calendar reader not configured")
		return
	}

	logger := s.loggerWith(ctx, "WorkloadAnalysis")
	defer func() { s.logOutcome(ctx, logger, err, "departments", len(report.Data)) }()

	var departments []Department
	departments, err = s.repos.Departments.ListDepartments(ctx)
	if err != nil {
		err = fmt.Errorf("list departments: %w", err)
		return
	}

	var employees []User
	_, employees, err = s.usersByID(ctx, UserQuery{ExcludeAdmins: true})
	if err != nil {
		return
	}

	now := s.clock()
	since := now.Add(-activityWindow)
	var items []CalendarItem
	items, err = s.repos.Calendar.ListCalendarItems(ctx, CalendarQuery{StartsAfter: &since, StartsBefore: &now})
	if err != nil {
		err = fmt.Errorf("list calendar items: %w", err)
		return
	}

	byUser := make(map[string][]CalendarItem)
	for _, item := range items {
		byUser[item.UserID] = append(byUser[item.UserID], item)
	}

	type deptTotals struct {
		members    int
		hours      float64
		meetings   int
		afterHours int
	}
	totals := make(map[string]*deptTotals, len(departments))
	for _, dept := range departments {
		totals[dept.Name] = &deptTotals{}
	}

	var orgHours float64
	var orgMeetings, orgAfterHours, orgFocus int
	for _, user := range employees {
		stats := summarizeCalendar(byUser[user.ID], s.loc)
		orgHours += stats.meetingHours
		orgMeetings += stats.meetings
		orgAfterHours += stats.afterHoursCount
		orgFocus += stats.focusBlocks

		t, ok := totals[user.Department]
		if !ok {
			continue
		}
		t.members++
		t.hours += stats.meetingHours
		t.meetings += stats.meetings
		t.afterHours += stats.afterHoursCount
	}

	data := make([]DepartmentWorkload, 0, len(departments))
	for _, dept := range departments {
		t := totals[dept.Name]
		row := DepartmentWorkload{Department: dept.Name, Members: t.members}
		if t.members > 0 {
			row.MeetingHours = round1(t.hours / float64(t.members))
		}
		row.AfterHours = percent(t.afterHours, t.meetings)
		data = append(data, row)
	}

	report = WorkloadReport{
		Data:                 data,
		AfterHoursPercentage: percent(orgAfterHours, orgMeetings),
	}
	if n := len(employees); n > 0 {
		report.AvgMeetingHours = round1(orgHours / float64(n))
		report.AvgFocusBlocks = roundInt(float64(orgFocus) / float64(n))
	}
	return
}

// FileActivity lists the least recently modified files with their recent view counts.
func (s *DashboardService) FileActivity(ctx context.Context) (items []FileActivityItem, err error) {
	if s == nil {
		err = fmt.Errorf("DashboardService is nil")
		return
	}
	if s.repos.Files == nil {
		err = fmt.Errorf("file reader not configured")
		return
	}

	logger := s.loggerWith(ctx, "FileActivity")
	defer func() { s.logOutcome(ctx, logger, err, "count", len(items)) }()

	var files []File
	files, err = s.repos.Files.ListFiles(ctx, FileQuery{Limit: fileActivityLimit})
	if err != nil {
		err = fmt.Errorf("list files: %w", err)
		return
	}

	var users map[string]User
	users, _, err = s.usersByID(ctx, UserQuery{})
	if err != nil {
		return
	}

	now := s.clock()
	since := now.Add(-activityWindow)
	items = make([]FileActivityItem, 0, len(files))
	for _, file := range files {
		var activities []FileActivity
		activities, err = s.repos.Files.ListFileActivities(ctx, FileActivityQuery{
			FileID:  file.ID,
			Since:   &since,
			Actions: []string{"view", "edit"},
		})
		if err != nil {
			err = fmt.Errorf("list activities for file %s: %w", file.ID, err)
			return
		}
		items = append(items, FileActivityItem{
			ID:           file.ID,
			Name:         file.Name,
			Type:         file.Type,
			Creator:      nameOf(users, file.CreatorID),
			LastModified: elapsedLabel(file.LastModified, now, s.loc),
			Views:        len(activities),
		})
	}
	return
}

// EmployeeInsights tags every non-admin employee with status, sentiment, workload and risk labels.
func (s *DashboardService) EmployeeInsights(ctx context.Context) (insights []EmployeeInsight, err error) {
	if s == nil {
		err = fmt.Errorf("DashboardService is nil")
		return
	}
	if s.repos.Metrics == nil || s.repos.Messages == nil || s.repos.Alerts == nil {
		err = fmt.Errorf("insight readers not configured")
		return
	}

	logger := s.loggerWith(ctx, "EmployeeInsights")
	defer func() { s.logOutcome(ctx, logger, err, "count", len(insights)) }()

	var employees []User
	_, employees, err = s.usersByID(ctx, UserQuery{ExcludeAdmins: true})
	if err != nil {
		return
	}

	var retention []RetentionData
	retention, err = s.repos.Metrics.ListRetention(ctx)
	if err != nil {
		err = fmt.Errorf("list retention: %w", err)
		return
	}
	retentionByUser := make(map[string]RetentionData, len(retention))
	for _, r := range retention {
		retentionByUser[r.UserID] = r
	}

	var alerts []RiskAlert
	alerts, err = s.repos.Alerts.ListAlerts(ctx, AlertQuery{UnresolvedOnly: true})
	if err != nil {
		err = fmt.Errorf("list unresolved alerts: %w", err)
		return
	}
	alertsByUser := make(map[string][]RiskAlert)
	for _, a := range alerts {
		alertsByUser[a.EmployeeID] = append(alertsByUser[a.EmployeeID], a)
	}

	sort.Slice(employees, func(i, j int) bool { return employees[i].Name < employees[j].Name })

	insights = make([]EmployeeInsight, 0, len(employees))
	for _, user := range employees {
		var recent []Message
		recent, err = s.repos.Messages.ListMessages(ctx, MessageQuery{SenderID: user.ID, Descending: true, Limit: insightMessageSample})
		if err != nil {
			err = fmt.Errorf("list messages for %s: %w", user.ID, err)
			return
		}
		var tally sentimentTally
		for _, m := range recent {
			tally.add(m)
		}

		r, hasRetention := retentionByUser[user.ID]
		insights = append(insights, EmployeeInsight{
			ID:        user.ID,
			Name:      user.Name,
			Status:    retentionStatus(r.RetentionRisk),
			Sentiment: tally.dominant(),
			Workload:  workloadLabel(r.MeetingLoad, hasRetention),
			RiskLevel: highestSeverity(alertsByUser[user.ID]),
		})
	}
	return
}

func retentionStatus(risk int) string {
	switch {
	case risk > statusAtRiskThreshold:
		return "at_risk"
	case risk > statusWarningThreshold:
		return "warning"
	default:
		return "good"
	}
}

func workloadLabel(meetingLoad int, known bool) string {
	if !known {
		return "balanced"
	}
	switch {
	case meetingLoad > overloadedMeetingLoad:
		return "overloaded"
	case meetingLoad < underloadedMeetingLoad:
		return "underloaded"
	default:
		return "balanced"
	}
}

// highestSeverity collapses a set of alerts to high, medium or low.
func highestSeverity(alerts []RiskAlert) Severity {
	level := SeverityLow
	for _, a := range alerts {
		if a.Severity.Rank() > level.Rank() {
			level = a.Severity
		}
	}
	return level
}
