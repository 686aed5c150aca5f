package application

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

const flaggedSentimentThreshold = -0.5

// AlertService exposes alert drill-down and the resolution workflow.
type AlertService struct {
	reporter
}

// NewAlertService constructs an AlertService.
func NewAlertService(repos Repositories, now func() time.Time, loc *time.Location) *AlertService {
	return NewAlertServiceWithLogger(repos, now, loc, nil)
}

// NewAlertServiceWithLogger constructs an AlertService with a specified logger.
func NewAlertServiceWithLogger(repos Repositories, now func() time.Time, loc *time.Location, logger *slog.Logger) *AlertService {
	return &AlertService{reporter: newReporter("AlertService", repos, now, loc, logger)}
}

// AlertDetail returns an alert together with its flagged message thread.
func (s *AlertService) AlertDetail(ctx context.Context, alertID string) (detail AlertDetail, err error) {
	if s == nil {
		err = fmt.Errorf("AlertService is nil")
		return
	}
	if s.repos.Alerts == nil {
		err = fmt.Errorf("alert store not configured")
		return
	}

	alertID = strings.TrimSpace(alertID)
	logger := s.loggerWith(ctx, "AlertDetail", "alert_id", alertID)
	defer func() { s.logOutcome(ctx, logger, err, "messages", len(detail.Messages)) }()

	var alert RiskAlert
	alert, err = s.getAlert(ctx, alertID)
	if err != nil {
		return
	}

	var flagged []Message
	flagged, err = s.repos.Alerts.ListFlaggedMessages(ctx, alert.ID)
	if err != nil {
		err = fmt.Errorf("list flagged messages: %w", err)
		return
	}

	var users map[string]User
	users, _, err = s.usersByID(ctx, UserQuery{})
	if err != nil {
		return
	}

	employeeName := nameOf(users, alert.EmployeeID)
	participants := []string{employeeName}
	seen := map[string]bool{alert.EmployeeID: true}
	addParticipant := func(id string) {
		if id == "" || seen[id] {
			return
		}
		seen[id] = true
		participants = append(participants, nameOf(users, id))
	}

	messages := make([]AlertMessage, 0, len(flagged))
	for _, m := range flagged {
		addParticipant(m.SenderID)
		addParticipant(m.ReceiverID)
		messages = append(messages, AlertMessage{
			ID:        m.ID,
			Sender:    nameOf(users, m.SenderID),
			Receiver:  nameOf(users, m.ReceiverID),
			Content:   m.Content,
			Timestamp: formatTimestamp(m.SentAt),
			IsFlagged: m.SentimentScore < flaggedSentimentThreshold,
		})
	}

	detail = toAlertDetail(alert, employeeName, s.clock(), s.loc)
	detail.Participants = participants
	detail.Messages = messages
	return
}

// ResolveAlert marks an alert resolved. Only administrators may resolve
// alerts; resolving an already resolved alert leaves it untouched.
func (s *AlertService) ResolveAlert(ctx context.Context, principal Principal, alertID string) (detail AlertDetail, err error) {
	if s == nil {
		err = fmt.Errorf("AlertService is nil")
		return
	}
	if s.repos.Alerts == nil {
		err = fmt.Errorf("alert store not configured")
		return
	}

	alertID = strings.TrimSpace(alertID)
	logger := s.loggerWith(ctx, "ResolveAlert", "alert_id", alertID, "principal_id", principal.UserID)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "alert resolution failed", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "alert resolved")
	}()

	if !principal.IsAdmin {
		err = ErrUnauthorized
		return
	}

	var alert RiskAlert
	alert, err = s.getAlert(ctx, alertID)
	if err != nil {
		return
	}

	now := s.clock()
	if !alert.IsResolved {
		alert, err = s.repos.Alerts.ResolveAlert(ctx, alert.ID, now)
		if err != nil {
			if isNotFound(err) {
				err = notFound("alert", alertID, "Alert not found")
				return
			}
			err = fmt.Errorf("resolve alert: %w", err)
			return
		}
	}

	employeeName := "Unknown"
	if s.repos.Users != nil {
		if user, lookupErr := s.repos.Users.GetUser(ctx, alert.EmployeeID); lookupErr == nil {
			employeeName = user.Name
		}
	}

	detail = toAlertDetail(alert, employeeName, now, s.loc)
	return
}

func (s *AlertService) getAlert(ctx context.Context, alertID string) (RiskAlert, error) {
	if alertID == "" {
		return RiskAlert{}, notFound("alert", "", "Alert not found")
	}
	alert, err := s.repos.Alerts.GetAlert(ctx, alertID)
	if err != nil {
		if isNotFound(err) {
			return RiskAlert{}, notFound("alert", alertID, "Alert not found")
		}
		return RiskAlert{}, fmt.Errorf("get alert: %w", err)
	}
	return alert, nil
}

func toAlertDetail(alert RiskAlert, employeeName string, now time.Time, loc *time.Location) AlertDetail {
	detail := AlertDetail{
		ID:           alert.ID,
		Title:        alert.Title,
		Description:  alert.Description,
		Type:         alert.Type,
		EmployeeID:   alert.EmployeeID,
		EmployeeName: employeeName,
		Participants: []string{employeeName},
		Messages:     []AlertMessage{},
		Severity:     alert.Severity,
		Timestamp:    elapsedLabel(alert.Timestamp, now, loc),
		IsResolved:   alert.IsResolved,
	}
	if alert.ResolvedAt != nil {
		resolved := formatTimestamp(*alert.ResolvedAt)
		detail.ResolvedAt = &resolved
	}
	return detail
}
