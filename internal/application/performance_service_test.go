package application

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func performanceFixture() *memStore {
	store := &memStore{
		users: baseUsers(),
		performance: []PerformanceData{
			{UserID: "u-sarah", RespondTime: 4.2, TaskCompletionRate: 82, NegativityScore: 0.35, OverdueTasks: 3},
			{UserID: "u-james", RespondTime: 5.8, TaskCompletionRate: 70, NegativityScore: 0.45, OverdueTasks: 7},
			{UserID: "u-emily", RespondTime: 1.5, TaskCompletionRate: 95, NegativityScore: 0.05, OverdueTasks: 0},
		},
	}
	for i := 0; i < 26; i++ {
		store.calendar = append(store.calendar, meeting(fmt.Sprintf("c%d", i), "u-sarah", at(i, 10), 1))
	}
	store.calendar = append(store.calendar, focus("f1", "u-james", at(1, 9)))
	return store
}

func TestPerformanceService_Drags(t *testing.T) {
	svc := NewPerformanceService(performanceFixture().repos(), nowFunc, time.UTC)
	drags, err := svc.Drags(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []PerformanceDrag{
		{Employee: "James Wilson", Negativity: 45, ResponseTime: 5.8, Size: 100},
		{Employee: "Sarah Johnson", Negativity: 35, ResponseTime: 4.2, Size: 100},
	}, drags)
}

func TestPerformanceService_Efficiency(t *testing.T) {
	t.Run("averages stored metrics", func(t *testing.T) {
		svc := NewPerformanceService(performanceFixture().repos(), nowFunc, time.UTC)
		report, err := svc.Efficiency(context.Background())
		require.NoError(t, err)
		assert.Equal(t, EfficiencyReport{TaskCompletionRate: 82, AvgResponseTime: 3.8, MeetingOverload: 3}, report)
	})

	t.Run("defaults without metrics", func(t *testing.T) {
		svc := NewPerformanceService((&memStore{users: baseUsers()}).repos(), nowFunc, time.UTC)
		report, err := svc.Efficiency(context.Background())
		require.NoError(t, err)
		assert.Equal(t, EfficiencyReport{TaskCompletionRate: 75, AvgResponseTime: 4, MeetingOverload: 5}, report)
	})
}

func TestPerformanceService_Rankings(t *testing.T) {
	svc := NewPerformanceService(performanceFixture().repos(), nowFunc, time.UTC)
	ctx := context.Background()

	responses, err := svc.ResponseTimes(ctx)
	require.NoError(t, err)
	assert.Equal(t, []ResponseTimeItem{
		{Employee: "James Wilson", AvgResponse: 5.8, Benchmark: 3.8},
		{Employee: "Sarah Johnson", AvgResponse: 4.2, Benchmark: 3.8},
		{Employee: "Emily Rodriguez", AvgResponse: 1.5, Benchmark: 3.8},
	}, responses)

	negative, err := svc.NegativeCommunication(ctx)
	require.NoError(t, err)
	assert.Equal(t, []NegativeCommunicationItem{
		{Employee: "James Wilson", NegativePercentage: 45},
		{Employee: "Sarah Johnson", NegativePercentage: 35},
		{Employee: "Emily Rodriguez", NegativePercentage: 5},
	}, negative)

	overdue, err := svc.OverdueTasks(ctx)
	require.NoError(t, err)
	assert.Equal(t, []OverdueTaskItem{
		{Employee: "James Wilson", Count: 7},
		{Employee: "Sarah Johnson", Count: 3},
		{Employee: "Emily Rodriguez", Count: 0},
	}, overdue)
}

func TestPerformanceService_RankingsKeepTopFive(t *testing.T) {
	store := &memStore{}
	for i := 0; i < 8; i++ {
		id := fmt.Sprintf("u%d", i)
		store.users = append(store.users, User{ID: id, Name: fmt.Sprintf("Employee %d", i)})
		store.performance = append(store.performance, PerformanceData{UserID: id, RespondTime: float64(i), NegativityScore: float64(i) / 10, OverdueTasks: i})
	}
	svc := NewPerformanceService(store.repos(), nowFunc, time.UTC)

	responses, err := svc.ResponseTimes(context.Background())
	require.NoError(t, err)
	require.Len(t, responses, 5)
	assert.Equal(t, "Employee 7", responses[0].Employee)
	// Zero response times are ignored by the benchmark: (1+...+7)/7.
	assert.Equal(t, 4.0, responses[0].Benchmark)
	for i := 1; i < len(responses); i++ {
		assert.GreaterOrEqual(t, responses[i-1].AvgResponse, responses[i].AvgResponse)
	}

	overdue, err := svc.OverdueTasks(context.Background())
	require.NoError(t, err)
	assert.Len(t, overdue, 5)
	assert.Equal(t, 3, overdue[4].Count)
}

func TestPerformanceService_ResponseBenchmarkDefault(t *testing.T) {
	store := &memStore{
		users:       baseUsers(),
		performance: []PerformanceData{{UserID: "u-sarah"}},
	}
	items, err := NewPerformanceService(store.repos(), nowFunc, time.UTC).ResponseTimes(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 2.5, items[0].Benchmark)
}
