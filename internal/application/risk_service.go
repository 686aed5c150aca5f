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
	harassmentFeedLimit       = 10
	harassmentScoreThreshold  = -0.5
	harassmentHighThreshold   = -0.7
	securityActivitySample    = 5
	securityActivityThreshold = 3
	securityActivityBonus     = 10
)

var securityBaseScores = map[Severity]int{
	SeverityHigh:   75,
	SeverityMedium: 50,
	SeverityLow:    25,
}

// RiskService builds the complaint, harassment and security feeds.
type RiskService struct {
	reporter
}

// NewRiskService constructs a RiskService.
func NewRiskService(repos Repositories, now func() time.Time, loc *time.Location) *RiskService {
	return NewRiskServiceWithLogger(repos, now, loc, nil)
}

// NewRiskServiceWithLogger constructs a RiskService with a specified logger.
func NewRiskServiceWithLogger(repos Repositories, now func() time.Time, loc *time.Location, logger *slog.Logger) *RiskService {
	return &RiskService{reporter: newReporter("RiskService", repos, now, loc, logger)}
}

// Complaints counts complaint alerts per week of the year. Resolved complaints are included.
func (s *RiskService) Complaints(ctx context.Context) (periods []ComplaintPeriod, err error) {
	if s == nil {
		err = fmt.Errorf("RiskService is nil")
		return
	}
	if s.repos.Alerts == nil {
		err = fmt.Errorf("alert store not configured")
		return
	}
	logger := s.loggerWith(ctx, "Complaints")
	defer func() { s.logOutcome(ctx, logger, err, "periods", len(periods)) }()

	var complaints []RiskAlert
	if complaints, err = s.repos.Alerts.ListAlerts(ctx, AlertQuery{Type: AlertTypeComplaint}); err != nil {
		err = fmt.Errorf("list complaints: %w", err)
		return
	}

	counts := make(map[int]int)
	for _, c := range complaints {
		counts[weekOfYear(c.Timestamp, s.loc)]++
	}
	weeks := make([]int, 0, len(counts))
	for week := range counts {
		weeks = append(weeks, week)
	}
	sort.Ints(weeks)

	periods = make([]ComplaintPeriod, 0, len(weeks))
	for _, week := range weeks {
		periods = append(periods, ComplaintPeriod{Period: fmt.Sprintf("Week %d", week), Count: counts[week]})
	}
	return
}

// weekOfYear is ceil(whole days since January 1 / 7), so January 1 itself is week 0.
func weekOfYear(ts time.Time, loc *time.Location) int {
	local := ts.In(loc)
	jan1 := time.Date(local.Year(), time.January, 1, 0, 0, 0, 0, loc)
	days := math.Floor(local.Sub(jan1).Hours() / 24)
	return int(math.Ceil(days / 7))
}

// Harassment lists the newest messages flagged negative or scored below the harassment threshold.
func (s *RiskService) Harassment(ctx context.Context) (items []HarassmentItem, err error) {
	if s == nil {
		err = fmt.Errorf("RiskService is nil")
		return
	}
	if s.repos.Messages == nil {
		err = fmt.Errorf("message reader not configured")
		return
	}
	logger := s.loggerWith(ctx, "Harassment")
	defer func() { s.logOutcome(ctx, logger, err, "count", len(items)) }()

	threshold := harassmentScoreThreshold
	var messages []Message
	messages, err = s.repos.Messages.ListMessages(ctx, MessageQuery{
		NegativeOrBelow: &threshold,
		Descending:      true,
		Limit:           harassmentFeedLimit,
	})
	if err != nil {
		err = fmt.Errorf("list flagged messages: %w", err)
		return
	}

	var users map[string]User
	if users, _, err = s.usersByID(ctx, UserQuery{}); err != nil {
		return
	}

	items = make([]HarassmentItem, 0, len(messages))
	for _, m := range messages {
		items = append(items, HarassmentItem{
			ID:             m.ID,
			Sender:         nameOf(users, m.SenderID),
			Receiver:       nameOf(users, m.ReceiverID),
			Content:        m.Content,
			Timestamp:      formatTimestamp(m.SentAt),
			SentimentScore: m.SentimentScore,
			Severity:       harassmentSeverity(m.SentimentScore),
		})
	}
	return
}

func harassmentSeverity(score float64) Severity {
	switch {
	case score < harassmentHighThreshold:
		return SeverityHigh
	case score < harassmentScoreThreshold:
		return SeverityMedium
	default:
		return SeverityLow
	}
}

// Security scores each employee with unresolved security alerts.
func (s *RiskService) Security(ctx context.Context) (items []SecurityRiskItem, err error) {
	if s == nil {
		err = fmt.Errorf("RiskService is nil")
		return
	}
	if s.repos.Alerts == nil || s.repos.Files == nil {
		err = fmt.Errorf("security readers not configured")
		return
	}
	logger := s.loggerWith(ctx, "Security")
	defer func() { s.logOutcome(ctx, logger, err, "count", len(items)) }()

	var alerts []RiskAlert
	alerts, err = s.repos.Alerts.ListAlerts(ctx, AlertQuery{
		Type:           AlertTypeSecurity,
		UnresolvedOnly: true,
		Descending:     true,
	})
	if err != nil {
		err = fmt.Errorf("list security alerts: %w", err)
		return
	}

	// Alerts arrive newest first, so a strict comparison keeps the newest among equal severities.
	worst := make(map[string]RiskAlert)
	order := make([]string, 0)
	for _, a := range alerts {
		current, ok := worst[a.EmployeeID]
		if !ok {
			order = append(order, a.EmployeeID)
			worst[a.EmployeeID] = a
			continue
		}
		if a.Severity.Rank() > current.Severity.Rank() {
			worst[a.EmployeeID] = a
		}
	}

	var users map[string]User
	if users, _, err = s.usersByID(ctx, UserQuery{}); err != nil {
		return
	}

	items = make([]SecurityRiskItem, 0, len(order))
	for _, employeeID := range order {
		alert := worst[employeeID]
		var recent []FileActivity
		recent, err = s.repos.Files.ListFileActivities(ctx, FileActivityQuery{UserID: employeeID, Limit: securityActivitySample})
		if err != nil {
			err = fmt.Errorf("list file activities for %s: %w", employeeID, err)
			return
		}
		description := alert.Description
		if description == "" {
			description = "No specific activity detected"
		}
		items = append(items, SecurityRiskItem{
			ID:                  employeeID,
			EmployeeID:          employeeID,
			EmployeeName:        nameOf(users, employeeID),
			RiskLevel:           alert.Severity,
			RiskScore:           securityScore(alert.Severity, len(recent)),
			ActivityDescription: description,
			Timestamp:           formatTimestamp(alert.Timestamp),
		})
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].RiskScore > items[j].RiskScore })
	return
}

func securityScore(severity Severity, recentActivities int) int {
	score := securityBaseScores[severity]
	if recentActivities > securityActivityThreshold {
		score += securityActivityBonus
	}
	return score
}
