package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/workplace-insights/internal/persistence"
)

const alertColumns = `id, employee_id, type, severity, title, description, is_resolved, resolved_at, timestamp`

// AlertRepository implements persistence.AlertRepository using SQLite
type AlertRepository struct {
	pool   *ConnectionPool
	helper *QueryHelper
	mapper *ErrorMapper
}

// NewAlertRepository creates a new SQLite risk alert repository
func NewAlertRepository(pool *ConnectionPool) *AlertRepository {
	return &AlertRepository{
		pool:   pool,
		helper: NewQueryHelper(pool),
		mapper: NewErrorMapper(),
	}
}

// CreateAlert stores an alert together with its flagged message links
func (r *AlertRepository) CreateAlert(ctx context.Context, alert persistence.RiskAlert, messageIDs []string) error {
	if alert.ID == "" || alert.EmployeeID == "" {
		return persistence.ErrConstraintViolation
	}

	return r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		_, err := r.helper.ExecTx(ctx, tx,
			`INSERT INTO risk_alerts (`+alertColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			alert.ID,
			alert.EmployeeID,
			alert.Type,
			alert.Severity,
			alert.Title,
			alert.Description,
			alert.IsResolved,
			formatNullableTime(alert.ResolvedAt),
			formatTime(alert.Timestamp),
		)
		if err != nil {
			return r.mapper.MapError(err)
		}

		for i, messageID := range messageIDs {
			if _, err := r.helper.ExecTx(ctx, tx,
				`INSERT INTO alert_messages (alert_id, message_id, position) VALUES (?, ?, ?)`,
				alert.ID, messageID, i,
			); err != nil {
				return r.mapper.MapError(err)
			}
		}
		return nil
	})
}

// GetAlert retrieves an alert by ID
func (r *AlertRepository) GetAlert(ctx context.Context, id string) (persistence.RiskAlert, error) {
	if id == "" {
		return persistence.RiskAlert{}, persistence.ErrNotFound
	}

	alert, err := scanAlert(r.helper.QueryRow(ctx, `SELECT `+alertColumns+` FROM risk_alerts WHERE id = ?`, id))
	if err != nil {
		return persistence.RiskAlert{}, r.mapper.MapError(err)
	}
	return alert, nil
}

// ListAlerts returns alerts matching filter ordered by timestamp
func (r *AlertRepository) ListAlerts(ctx context.Context, filter persistence.AlertFilter) ([]persistence.RiskAlert, error) {
	var cond conditions
	if filter.EmployeeID != "" {
		cond.add("employee_id = ?", filter.EmployeeID)
	}
	if filter.Type != "" {
		cond.add("type = ?", filter.Type)
	}
	if filter.UnresolvedOnly {
		cond.add("is_resolved = 0")
	}

	order := " ORDER BY timestamp ASC, id ASC"
	if filter.Descending {
		order = " ORDER BY timestamp DESC, id DESC"
	}

	query := `SELECT ` + alertColumns + ` FROM risk_alerts` + cond.where() + order + ` LIMIT ?`
	rows, err := r.helper.Query(ctx, query, append(cond.args, sqlLimit(filter.Limit))...)
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	alerts, err := scanAll(rows, scanAlert)
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	return alerts, nil
}

// ListAlertMessages returns the messages linked to an alert in link order
func (r *AlertRepository) ListAlertMessages(ctx context.Context, alertID string) ([]persistence.Message, error) {
	query := `
		SELECT m.id, m.sender_id, m.receiver_id, m.content, m.sentiment_score,
		       m.is_positive, m.is_negative, m.is_neutral, m.channel, m.sent_at
		FROM alert_messages am
		JOIN messages m ON m.id = am.message_id
		WHERE am.alert_id = ?
		ORDER BY am.position ASC
	`
	rows, err := r.helper.Query(ctx, query, alertID)
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	return collectMessages(rows, r.mapper)
}

// ResolveAlert marks an alert resolved. Resolving twice keeps the first resolution time.
func (r *AlertRepository) ResolveAlert(ctx context.Context, id string, resolvedAt time.Time) (persistence.RiskAlert, error) {
	if id == "" {
		return persistence.RiskAlert{}, persistence.ErrNotFound
	}

	var resolved persistence.RiskAlert
	err := r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		if _, err := r.helper.ExecTx(ctx, tx,
			`UPDATE risk_alerts SET is_resolved = 1, resolved_at = ? WHERE id = ? AND is_resolved = 0`,
			formatTime(resolvedAt), id,
		); err != nil {
			return r.mapper.MapError(err)
		}

		var err error
		resolved, err = scanAlert(r.helper.QueryRowTx(ctx, tx, `SELECT `+alertColumns+` FROM risk_alerts WHERE id = ?`, id))
		if err != nil {
			return r.mapper.MapError(err)
		}
		return nil
	})
	if err != nil {
		return persistence.RiskAlert{}, fmt.Errorf("resolve alert %s: %w", id, err)
	}
	return resolved, nil
}

func scanAlert(row rowScanner) (persistence.RiskAlert, error) {
	var alert persistence.RiskAlert
	var resolvedAt sql.NullString
	var timestamp string

	if err := row.Scan(
		&alert.ID,
		&alert.EmployeeID,
		&alert.Type,
		&alert.Severity,
		&alert.Title,
		&alert.Description,
		&alert.IsResolved,
		&resolvedAt,
		&timestamp,
	); err != nil {
		return persistence.RiskAlert{}, err
	}

	var err error
	if alert.ResolvedAt, err = parseNullableTime("resolved_at", resolvedAt); err != nil {
		return persistence.RiskAlert{}, err
	}
	if alert.Timestamp, err = parseTime("timestamp", timestamp); err != nil {
		return persistence.RiskAlert{}, err
	}
	return alert, nil
}
