package application

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"
)

const (
	performanceTopN           = 5
	dragNegativityThreshold   = 15
	dragResponseTimeThreshold = 2.0
	dragBubbleSize            = 100
	meetingOverloadThreshold  = 25
	defaultResponseBenchmark  = 2.5
	defaultTaskCompletionRate = 75
	defaultAvgResponseTime    = 4
	defaultMeetingOverload    = 5
)

// PerformanceService ranks employees on performance metrics.
type PerformanceService struct {
	reporter
}

// NewPerformanceService constructs a PerformanceService.
func NewPerformanceService(repos Repositories, now func() time.Time, loc *time.Location) *PerformanceService {
	return NewPerformanceServiceWithLogger(repos, now, loc, nil)
}

// NewPerformanceServiceWithLogger constructs a PerformanceService with a specified logger.
func NewPerformanceServiceWithLogger(repos Repositories, now func() time.Time, loc *time.Location, logger *slog.Logger) *PerformanceService {
	return &PerformanceService{reporter: newReporter("PerformanceService", repos, now, loc, logger)}
}

type namedPerformance struct {
	name string
	data PerformanceData
}

func (s *PerformanceService) load(ctx context.Context) ([]namedPerformance, error) {
	if s.repos.Metrics == nil {
		return nil, fmt.Errorf("metrics reader not configured")
	}
	records, err := s.repos.Metrics.ListPerformance(ctx)
	if err != nil {
		return nil, fmt.Errorf("list performance: %w", err)
	}
	users, _, err := s.usersByID(ctx, UserQuery{})
	if err != nil {
		return nil, err
	}
	rows := make([]namedPerformance, 0, len(records))
	for _, r := range records {
		rows = append(rows, namedPerformance{name: nameOf(users, r.UserID), data: r})
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].name < rows[j].name })
	return rows, nil
}

// Drags returns employees whose negativity or response time exceeds the drag thresholds.
func (s *PerformanceService) Drags(ctx context.Context) (drags []PerformanceDrag, err error) {
	if s == nil {
		err = fmt.Errorf("PerformanceService is nil")
		return
	}
	logger := s.loggerWith(ctx, "Drags")
	defer func() { s.logOutcome(ctx, logger, err, "count", len(drags)) }()

	var rows []namedPerformance
	if rows, err = s.load(ctx); err != nil {
		return
	}

	drags = make([]PerformanceDrag, 0, len(rows))
	for _, row := range rows {
		negativity := roundInt(row.data.NegativityScore * 100)
		if negativity <= dragNegativityThreshold && row.data.RespondTime <= dragResponseTimeThreshold {
			continue
		}
		drags = append(drags, PerformanceDrag{
			Employee:     row.name,
			Negativity:   negativity,
			ResponseTime: row.data.RespondTime,
			Size:         dragBubbleSize,
		})
	}
	return
}

// Efficiency averages task completion and response time and scores meeting overload on a 0-10 scale.
func (s *PerformanceService) Efficiency(ctx context.Context) (report EfficiencyReport, err error) {
	if s == nil {
		err = fmt.Errorf("PerformanceService is nil")
		return
	}
	if s.repos.Calendar == nil {
		err = fmt.Errorf("calendar reader not configured")
		return
	}
	logger := s.loggerWith(ctx, "Efficiency")
	defer func() { s.logOutcome(ctx, logger, err, "task_completion", report.TaskCompletionRate) }()

	var rows []namedPerformance
	if rows, err = s.load(ctx); err != nil {
		return
	}
	if len(rows) == 0 {
		report = EfficiencyReport{
			TaskCompletionRate: defaultTaskCompletionRate,
			AvgResponseTime:    defaultAvgResponseTime,
			MeetingOverload:    defaultMeetingOverload,
		}
		return
	}

	var taskTotal, responseTotal float64
	for _, row := range rows {
		taskTotal += row.data.TaskCompletionRate
		responseTotal += row.data.RespondTime
	}

	var users []User
	if _, users, err = s.usersByID(ctx, UserQuery{}); err != nil {
		return
	}
	var items []CalendarItem
	items, err = s.repos.Calendar.ListCalendarItems(ctx, CalendarQuery{})
	if err != nil {
		err = fmt.Errorf("list calendar items: %w", err)
		return
	}
	meetings := make(map[string]int)
	for _, item := range items {
		if !item.IsFocusTime {
			meetings[item.UserID]++
		}
	}
	overloaded := 0
	for _, user := range users {
		if meetings[user.ID] > meetingOverloadThreshold {
			overloaded++
		}
	}

	report = EfficiencyReport{
		TaskCompletionRate: roundInt(taskTotal / float64(len(rows))),
		AvgResponseTime:    round1(responseTotal / float64(len(rows))),
	}
	if len(users) > 0 {
		report.MeetingOverload = roundInt(float64(overloaded) / float64(len(users)) * 10)
	}
	return
}

// ResponseTimes ranks the slowest responders against the organisation benchmark.
func (s *PerformanceService) ResponseTimes(ctx context.Context) (items []ResponseTimeItem, err error) {
	if s == nil {
		err = fmt.Errorf("PerformanceService is nil")
		return
	}
	logger := s.loggerWith(ctx, "ResponseTimes")
	defer func() { s.logOutcome(ctx, logger, err, "count", len(items)) }()

	var rows []namedPerformance
	if rows, err = s.load(ctx); err != nil {
		return
	}

	var total float64
	var counted int
	for _, row := range rows {
		if row.data.RespondTime > 0 {
			total += row.data.RespondTime
			counted++
		}
	}
	benchmark := defaultResponseBenchmark
	if counted > 0 {
		benchmark = round1(total / float64(counted))
	}

	sort.SliceStable(rows, func(i, j int) bool { return rows[i].data.RespondTime > rows[j].data.RespondTime })
	items = make([]ResponseTimeItem, 0, performanceTopN)
	for _, row := range topN(rows, performanceTopN) {
		items = append(items, ResponseTimeItem{Employee: row.name, AvgResponse: row.data.RespondTime, Benchmark: benchmark})
	}
	return
}

// NegativeCommunication ranks employees by the share of negative language.
func (s *PerformanceService) NegativeCommunication(ctx context.Context) (items []NegativeCommunicationItem, err error) {
	if s == nil {
		err = fmt.Errorf("PerformanceService is nil")
		return
	}
	logger := s.loggerWith(ctx, "NegativeCommunication")
	defer func() { s.logOutcome(ctx, logger, err, "count", len(items)) }()

	var rows []namedPerformance
	if rows, err = s.load(ctx); err != nil {
		return
	}

	sort.SliceStable(rows, func(i, j int) bool { return rows[i].data.NegativityScore > rows[j].data.NegativityScore })
	items = make([]NegativeCommunicationItem, 0, performanceTopN)
	for _, row := range topN(rows, performanceTopN) {
		items = append(items, NegativeCommunicationItem{
			Employee:           row.name,
			NegativePercentage: roundInt(row.data.NegativityScore * 100),
		})
	}
	return
}

// OverdueTasks ranks employees by overdue task count.
func (s *PerformanceService) OverdueTasks(ctx context.Context) (items []OverdueTaskItem, err error) {
	if s == nil {
		err = fmt.Errorf("PerformanceService is nil")
		return
	}
	logger := s.loggerWith(ctx, "OverdueTasks")
	defer func() { s.logOutcome(ctx, logger, err, "count", len(items)) }()

	var rows []namedPerformance
	if rows, err = s.load(ctx); err != nil {
		return
	}

	sort.SliceStable(rows, func(i, j int) bool { return rows[i].data.OverdueTasks > rows[j].data.OverdueTasks })
	items = make([]OverdueTaskItem, 0, performanceTopN)
	for _, row := range topN(rows, performanceTopN) {
		items = append(items, OverdueTaskItem{Employee: row.name, Count: row.data.OverdueTasks})
	}
	return
}

func topN[T any](rows []T, n int) []T {
	if len(rows) > n {
		return rows[:n]
	}
	return rows
}
