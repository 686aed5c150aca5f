package application

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/example/workplace-insights/internal/logging"
)

const (
	isoTimestampLayout = "2006-01-02T15:04:05.000Z07:00"
	longDateLayout     = "Monday, January 2, 2006"
	monthKeyLayout     = "2006-01"
	monthLabelLayout   = "Jan"
)

// reporter carries the dependencies shared by the read-only reporting services.
type reporter struct {
	name   string
	repos  Repositories
	now    func() time.Time
	loc    *time.Location
	logger *slog.Logger
}

func newReporter(name string, repos Repositories, now func() time.Time, loc *time.Location, logger *slog.Logger) reporter {
	if now == nil {
		now = time.Now
	}
	if loc == nil {
		loc = time.UTC
	}
	return reporter{name: name, repos: repos, now: now, loc: loc, logger: logging.OrDefault(logger)}
}

func (r reporter) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, r.logger, r.name, operation, attrs...)
}

func (r reporter) clock() time.Time {
	return r.now().In(r.loc)
}

// logOutcome is deferred by report operations to emit a single completion record.
func (r reporter) logOutcome(ctx context.Context, logger *slog.Logger, err error, attrs ...any) {
	if err != nil {
		logFailure(ctx, logger, "report failed", err)
		return
	}
	logger.DebugContext(ctx, "report generated", attrs...)
}

func (r reporter) usersByID(ctx context.Context, query UserQuery) (map[string]User, []User, error) {
	if r.repos.Users == nil {
		return nil, nil, fmt.Errorf("user reader not configured")
	}
	users, err := r.repos.Users.ListUsers(ctx, query)
	if err != nil {
		return nil, nil, fmt.Errorf("list users: %w", err)
	}
	index := make(map[string]User, len(users))
	for _, user := range users {
		index[user.ID] = user
	}
	return index, users, nil
}

func nameOf(users map[string]User, id string) string {
	if user, ok := users[id]; ok && user.Name != "" {
		return user.Name
	}
	return "Unknown"
}

func roundInt(v float64) int {
	return int(math.Round(v))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func percent(count, total int) int {
	if total <= 0 {
		return 0
	}
	return roundInt(float64(count) / float64(total) * 100)
}

// calendarDaysBetween counts midnights crossed from a to b in loc.
func calendarDaysBetween(a, b time.Time, loc *time.Location) int {
	ay, am, ad := a.In(loc).Date()
	by, bm, bd := b.In(loc).Date()
	from := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	to := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(to.Sub(from).Hours() / 24)
}

func elapsedLabel(ts, now time.Time, loc *time.Location) string {
	days := calendarDaysBetween(ts, now, loc)
	switch {
	case days <= 0:
		return "Today"
	case days == 1:
		return "Yesterday"
	default:
		return fmt.Sprintf("%d days ago", days)
	}
}

// monthStarts returns the first instant of the last n calendar months ending
// with the month containing now, oldest first.
func monthStarts(now time.Time, n int, loc *time.Location) []time.Time {
	local := now.In(loc)
	current := time.Date(local.Year(), local.Month(), 1, 0, 0, 0, 0, loc)
	starts := make([]time.Time, 0, n)
	for i := n - 1; i >= 0; i-- {
		starts = append(starts, current.AddDate(0, -i, 0))
	}
	return starts
}

func monthKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(monthKeyLayout)
}

func monthLabel(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(monthLabelLayout)
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(isoTimestampLayout)
}

// sentimentTally counts precomputed sentiment flags.
type sentimentTally struct {
	positive int
	neutral  int
	negative int
	total    int
}

func (s *sentimentTally) add(m Message) {
	if m.IsPositive {
		s.positive++
	}
	if m.IsNeutral {
		s.neutral++
	}
	if m.IsNegative {
		s.negative++
	}
	s.total++
}

func (s sentimentTally) point(label string) SentimentPoint {
	return SentimentPoint{
		Month:    label,
		Positive: percent(s.positive, s.total),
		Neutral:  percent(s.neutral, s.total),
		Negative: percent(s.negative, s.total),
	}
}

// dominant classifies a tally: positive or negative only when strictly ahead of both others.
func (s sentimentTally) dominant() string {
	switch {
	case s.positive > s.negative && s.positive > s.neutral:
		return "positive"
	case s.negative > s.positive && s.negative > s.neutral:
		return "negative"
	default:
		return "neutral"
	}
}

// monthlySentiment buckets messages into the months starting at starts.
func monthlySentiment(messages []Message, starts []time.Time, loc *time.Location) []sentimentTally {
	index := make(map[string]int, len(starts))
	for i, start := range starts {
		index[monthKey(start, loc)] = i
	}
	tallies := make([]sentimentTally, len(starts))
	for _, m := range messages {
		if i, ok := index[monthKey(m.SentAt, loc)]; ok {
			tallies[i].add(m)
		}
	}
	return tallies
}

const (
	workdayStartHour = 9
	workdayEndHour   = 18
)

// isAfterHours reports meetings that start before 09:00 or end after 18:00 local time.
func isAfterHours(item CalendarItem, loc *time.Location) bool {
	start := item.Start.In(loc)
	end := item.End.In(loc)
	if start.Hour() < workdayStartHour {
		return true
	}
	if end.YearDay() != start.YearDay() || end.Year() != start.Year() {
		return true
	}
	endMinutes := end.Hour()*60 + end.Minute()
	return endMinutes > workdayEndHour*60
}

func hoursOf(item CalendarItem) float64 {
	if item.End.Before(item.Start) {
		return 0
	}
	return item.End.Sub(item.Start).Hours()
}

// calendarStats summarises one user's calendar items.
type calendarStats struct {
	meetings        int
	focusBlocks     int
	meetingHours    float64
	afterHoursCount int
}

func summarizeCalendar(items []CalendarItem, loc *time.Location) calendarStats {
	var stats calendarStats
	for _, item := range items {
		if item.IsFocusTime {
			stats.focusBlocks++
			continue
		}
		stats.meetings++
		stats.meetingHours += hoursOf(item)
		if isAfterHours(item, loc) {
			stats.afterHoursCount++
		}
	}
	return stats
}

func pastTense(action string) string {
	switch action {
	case "view":
		return "viewed"
	case "edit":
		return "edited"
	case "download":
		return "downloaded"
	case "share":
		return "shared"
	case "":
		return ""
	}
	if action[len(action)-1] == 'e' {
		return action + "d"
	}
	return action + "ed"
}
