package sqlite

import (
	"context"

	"github.com/example/workplace-insights/internal/persistence"
)

const calendarColumns = `id, user_id, title, start_time, end_time, is_focus_time, is_recurring, is_optional`

// CalendarRepository implements persistence.CalendarRepository using SQLite
type CalendarRepository struct {
	helper *QueryHelper
	mapper *ErrorMapper
}

// NewCalendarRepository creates a new SQLite calendar repository
func NewCalendarRepository(pool *ConnectionPool) *CalendarRepository {
	return &CalendarRepository{
		helper: NewQueryHelper(pool),
		mapper: NewErrorMapper(),
	}
}

// CreateCalendarItem inserts a calendar item
func (r *CalendarRepository) CreateCalendarItem(ctx context.Context, item persistence.CalendarItem) error {
	if item.ID == "" || item.UserID == "" || item.End.Before(item.Start) {
		return persistence.ErrConstraintViolation
	}

	_, err := r.helper.Exec(ctx,
		`INSERT INTO calendar_items (`+calendarColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		item.ID,
		item.UserID,
		item.Title,
		formatTime(item.Start),
		formatTime(item.End),
		item.IsFocusTime,
		item.IsRecurring,
		item.IsOptional,
	)
	if err != nil {
		return r.mapper.MapError(err)
	}
	return nil
}

// ListCalendarItems returns calendar items matching filter ordered by start time
func (r *CalendarRepository) ListCalendarItems(ctx context.Context, filter persistence.CalendarFilter) ([]persistence.CalendarItem, error) {
	var cond conditions
	if filter.UserID != "" {
		cond.add("user_id = ?", filter.UserID)
	}
	if filter.StartsAfter != nil {
		cond.add("start_time >= ?", formatTime(*filter.StartsAfter))
	}
	if filter.StartsBefore != nil {
		cond.add("start_time < ?", formatTime(*filter.StartsBefore))
	}

	query := `SELECT ` + calendarColumns + ` FROM calendar_items` + cond.where() + ` ORDER BY start_time ASC, id ASC`
	rows, err := r.helper.Query(ctx, query, cond.args...)
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	defer rows.Close()

	items := make([]persistence.CalendarItem, 0)
	for rows.Next() {
		var item persistence.CalendarItem
		var start, end string
		if err := rows.Scan(
			&item.ID,
			&item.UserID,
			&item.Title,
			&start,
			&end,
			&item.IsFocusTime,
			&item.IsRecurring,
			&item.IsOptional,
		); err != nil {
			return nil, r.mapper.MapError(err)
		}
		if item.Start, err = parseTime("start_time", start); err != nil {
			return nil, err
		}
		if item.End, err = parseTime("end_time", end); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, r.mapper.MapError(err)
	}
	return items, nil
}
