package sqlite

import (
	"context"

	"github.com/example/workplace-insights/internal/persistence"
)

// MetricsRepository implements persistence.MetricsRepository using SQLite
type MetricsRepository struct {
	helper *QueryHelper
	mapper *ErrorMapper
}

// NewMetricsRepository creates a new SQLite metrics repository
func NewMetricsRepository(pool *ConnectionPool) *MetricsRepository {
	return &MetricsRepository{
		helper: NewQueryHelper(pool),
		mapper: NewErrorMapper(),
	}
}

// UpsertPerformance stores or replaces the performance snapshot of a user
func (r *MetricsRepository) UpsertPerformance(ctx context.Context, data persistence.PerformanceData) error {
	if data.UserID == "" {
		return persistence.ErrConstraintViolation
	}

	query := `
		INSERT INTO performance_data (user_id, respond_time, task_completion_rate, communication_volume,
			negativity_score, meeting_attendance, overdue_tasks)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			respond_time = excluded.respond_time,
			task_completion_rate = excluded.task_completion_rate,
			communication_volume = excluded.communication_volume,
			negativity_score = excluded.negativity_score,
			meeting_attendance = excluded.meeting_attendance,
			overdue_tasks = excluded.overdue_tasks
	`
	_, err := r.helper.Exec(ctx, query,
		data.UserID,
		data.RespondTime,
		data.TaskCompletionRate,
		data.CommunicationVolume,
		data.NegativityScore,
		data.MeetingAttendance,
		data.OverdueTasks,
	)
	if err != nil {
		return r.mapper.MapError(err)
	}
	return nil
}

// UpsertRetention stores or replaces the retention snapshot of a user
func (r *MetricsRepository) UpsertRetention(ctx context.Context, data persistence.RetentionData) error {
	if data.UserID == "" {
		return persistence.ErrConstraintViolation
	}

	query := `
		INSERT INTO retention_data (user_id, retention_risk, complaint_count, calendar_overload,
			positive_language, negative_language, meeting_load)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			retention_risk = excluded.retention_risk,
			complaint_count = excluded.complaint_count,
			calendar_overload = excluded.calendar_overload,
			positive_language = excluded.positive_language,
			negative_language = excluded.negative_language,
			meeting_load = excluded.meeting_load
	`
	_, err := r.helper.Exec(ctx, query,
		data.UserID,
		data.RetentionRisk,
		data.ComplaintCount,
		data.CalendarOverload,
		data.PositiveLanguage,
		data.NegativeLanguage,
		data.MeetingLoad,
	)
	if err != nil {
		return r.mapper.MapError(err)
	}
	return nil
}

// ListPerformance returns every performance snapshot ordered by user
func (r *MetricsRepository) ListPerformance(ctx context.Context) ([]persistence.PerformanceData, error) {
	rows, err := r.helper.Query(ctx, `
		SELECT user_id, respond_time, task_completion_rate, communication_volume,
		       negativity_score, meeting_attendance, overdue_tasks
		FROM performance_data
		ORDER BY user_id ASC
	`)
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	defer rows.Close()

	out := make([]persistence.PerformanceData, 0)
	for rows.Next() {
		var data persistence.PerformanceData
		if err := rows.Scan(
			&data.UserID,
			&data.RespondTime,
			&data.TaskCompletionRate,
			&data.CommunicationVolume,
			&data.NegativityScore,
			&data.MeetingAttendance,
			&data.OverdueTasks,
		); err != nil {
			return nil, r.mapper.MapError(err)
		}
		out = append(out, data)
	}
	if err := rows.Err(); err != nil {
		return nil, r.mapper.MapError(err)
	}
	return out, nil
}

const retentionColumns = `user_id, retention_risk, complaint_count, calendar_overload, positive_language, negative_language, meeting_load`

// ListRetention returns every retention snapshot ordered by user
func (r *MetricsRepository) ListRetention(ctx context.Context) ([]persistence.RetentionData, error) {
	rows, err := r.helper.Query(ctx, `SELECT `+retentionColumns+` FROM retention_data ORDER BY user_id ASC`)
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	out, err := scanAll(rows, scanRetention)
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	return out, nil
}

// GetRetention returns the retention snapshot of one user
func (r *MetricsRepository) GetRetention(ctx context.Context, userID string) (persistence.RetentionData, error) {
	data, err := scanRetention(r.helper.QueryRow(ctx, `SELECT `+retentionColumns+` FROM retention_data WHERE user_id = ?`, userID))
	if err != nil {
		return persistence.RetentionData{}, r.mapper.MapError(err)
	}
	return data, nil
}

func scanRetention(row rowScanner) (persistence.RetentionData, error) {
	var data persistence.RetentionData
	err := row.Scan(
		&data.UserID,
		&data.RetentionRisk,
		&data.ComplaintCount,
		&data.CalendarOverload,
		&data.PositiveLanguage,
		&data.NegativeLanguage,
		&data.MeetingLoad,
	)
	return data, err
}

// CreateGlynacScore inserts one dated composite score
func (r *MetricsRepository) CreateGlynacScore(ctx context.Context, score persistence.GlynacScore) error {
	if score.ID == "" || score.Date.IsZero() {
		return persistence.ErrConstraintViolation
	}

	_, err := r.helper.Exec(ctx, `
		INSERT INTO glynac_scores (id, date, overall_score, communication_score, workload_score, wellbeing_score)
		VALUES (?, ?, ?, ?, ?, ?)
	`, score.ID, formatTime(score.Date), score.Overall, score.Communication, score.Workload, score.Wellbeing)
	if err != nil {
		return r.mapper.MapError(err)
	}
	return nil
}

// LatestGlynacScores returns up to limit scores, most recent first
func (r *MetricsRepository) LatestGlynacScores(ctx context.Context, limit int) ([]persistence.GlynacScore, error) {
	rows, err := r.helper.Query(ctx, `
		SELECT id, date, overall_score, communication_score, workload_score, wellbeing_score
		FROM glynac_scores
		ORDER BY date DESC
		LIMIT ?
	`, sqlLimit(limit))
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	defer rows.Close()

	scores := make([]persistence.GlynacScore, 0)
	for rows.Next() {
		var score persistence.GlynacScore
		var date string
		if err := rows.Scan(&score.ID, &date, &score.Overall, &score.Communication, &score.Workload, &score.Wellbeing); err != nil {
			return nil, r.mapper.MapError(err)
		}
		if score.Date, err = parseTime("date", date); err != nil {
			return nil, err
		}
		scores = append(scores, score)
	}
	if err := rows.Err(); err != nil {
		return nil, r.mapper.MapError(err)
	}
	return scores, nil
}
