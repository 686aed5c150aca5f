package application

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

const (
	employeeRecentLimit = 5
	employeeTrendMonths = 5
	highLoadSummary     = "High meeting load this week. Several days with meetings exceeding 8 hours. Limited focus time."
	lowLoadSummary      = "Low meeting load. Significantly underutilized based on company average."
	balancedLoadSummary = "Balanced workload. Good mix of meetings and focus time."
)

// EmployeeService assembles the single-employee drill-down.
type EmployeeService struct {
	reporter
}

// NewEmployeeService constructs an EmployeeService.
func NewEmployeeService(repos Repositories, now func() time.Time, loc *time.Location) *EmployeeService {
	return NewEmployeeServiceWithLogger(repos, now, loc, nil)
}

// NewEmployeeServiceWithLogger constructs an EmployeeService with a specified logger.
func NewEmployeeServiceWithLogger(repos Repositories, now func() time.Time, loc *time.Location, logger *slog.Logger) *EmployeeService {
	return &EmployeeService{reporter: newReporter("EmployeeService", repos, now, loc, logger)}
}

// EmployeeDetail returns calendar, alert, file and sentiment summaries for one employee.
func (s *EmployeeService) EmployeeDetail(ctx context.Context, employeeID string) (detail EmployeeDetail, err error) {
	if s == nil {
		err = fmt.Errorf("EmployeeService is nil")
		return
	}
	if s.repos.Users == nil || s.repos.Calendar == nil || s.repos.Alerts == nil ||
		s.repos.Files == nil || s.repos.Messages == nil || s.repos.Metrics == nil {
		err = fmt.Errorf("employee readers not configured")
		return
	}

	employeeID = strings.TrimSpace(employeeID)
	logger := s.loggerWith(ctx, "EmployeeDetail", "employee_id", employeeID)
	defer func() { s.logOutcome(ctx, logger, err) }()

	if employeeID == "" {
		err = notFound("user", "", "User not found")
		return
	}

	var user User
	user, err = s.repos.Users.GetUser(ctx, employeeID)
	if err != nil {
		if isNotFound(err) {
			err = notFound("user", employeeID, "User not found")
			return
		}
		err = fmt.Errorf("get user: %w", err)
		return
	}

	now := s.clock()
	since := now.Add(-activityWindow)

	var items []CalendarItem
	items, err = s.repos.Calendar.ListCalendarItems(ctx, CalendarQuery{UserID: user.ID, StartsAfter: &since})
	if err != nil {
		err = fmt.Errorf("list calendar items: %w", err)
		return
	}
	stats := summarizeCalendar(items, s.loc)

	meetingHours := stats.meetings
	var retention RetentionData
	retention, err = s.repos.Metrics.GetRetention(ctx, user.ID)
	switch {
	case err == nil:
		if retention.MeetingLoad > 0 {
			meetingHours = retention.MeetingLoad
		}
	case isNotFound(err):
		err = nil
	default:
		err = fmt.Errorf("get retention: %w", err)
		return
	}

	var alerts []RiskAlert
	alerts, err = s.repos.Alerts.ListAlerts(ctx, AlertQuery{
		EmployeeID:     user.ID,
		UnresolvedOnly: true,
		Descending:     true,
		Limit:          employeeRecentLimit,
	})
	if err != nil {
		err = fmt.Errorf("list alerts: %w", err)
		return
	}
	recentAlerts := make([]EmployeeAlertSummary, 0, len(alerts))
	for _, a := range alerts {
		recentAlerts = append(recentAlerts, EmployeeAlertSummary{ID: a.ID, Type: a.Type, Title: a.Title, Severity: a.Severity})
	}

	var activities []FileActivity
	activities, err = s.repos.Files.ListFileActivities(ctx, FileActivityQuery{UserID: user.ID, Limit: employeeRecentLimit})
	if err != nil {
		err = fmt.Errorf("list file activities: %w", err)
		return
	}
	recentFiles := make([]EmployeeFileSummary, 0, len(activities))
	for _, activity := range activities {
		var file File
		file, err = s.repos.Files.GetFile(ctx, activity.FileID)
		if err != nil {
			err = fmt.Errorf("get file %s: %w", activity.FileID, err)
			return
		}
		recentFiles = append(recentFiles, EmployeeFileSummary{
			ID:     file.ID,
			Name:   file.Name,
			Type:   file.Type,
			Action: pastTense(activity.Action),
			Date:   activity.Timestamp.In(s.loc).Format(longDateLayout),
		})
	}

	starts := monthStarts(now, employeeTrendMonths, s.loc)
	var messages []Message
	messages, err = s.repos.Messages.ListMessages(ctx, MessageQuery{SenderID: user.ID, SentAfter: &starts[0]})
	if err != nil {
		err = fmt.Errorf("list messages: %w", err)
		return
	}
	tallies := monthlySentiment(messages, starts, s.loc)
	trend := make([]MonthlySentiment, 0, len(starts))
	for i, start := range starts {
		point := tallies[i].point(monthLabel(start, s.loc))
		trend = append(trend, MonthlySentiment{Month: point.Month, Positive: point.Positive, Negative: point.Negative})
	}

	detail = EmployeeDetail{
		ID:                   user.ID,
		Name:                 user.Name,
		Department:           user.Department,
		MeetingHours:         meetingHours,
		AfterHoursPercentage: percent(stats.afterHoursCount, stats.meetings),
		FocusBlocks:          stats.focusBlocks,
		CalendarSummary:      calendarSummary(meetingHours),
		RecentAlerts:         recentAlerts,
		RecentFiles:          recentFiles,
		SentimentTrend:       trend,
	}
	return
}

func calendarSummary(meetingHours int) string {
	switch {
	case meetingHours > overloadedMeetingLoad:
		return highLoadSummary
	case meetingHours < underloadedMeetingLoad:
		return lowLoadSummary
	default:
		return balancedLoadSummary
	}
}
