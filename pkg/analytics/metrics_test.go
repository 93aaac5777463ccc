package analytics

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teampulse/teampulse/pkg/errors"
)

func metricsFixture() *fakeStore {
	return &fakeStore{
		teams: []Team{
			{ID: "team-1", OwnerID: testOwner, Name: "Platform", MemberIDs: []string{"emp-a", "emp-b"}},
		},
		employees: []Employee{
			{ID: "emp-a", OwnerID: testOwner, Name: "Ana", TeamID: "team-1"},
			{ID: "emp-b", OwnerID: testOwner, Name: "Ben", TeamID: "team-1"},
		},
	}
}

func TestTeamMetricsVelocity(t *testing.T) {
	tests := []struct {
		name      string
		created   int
		completed int
		want      float64
	}{
		{"half done", 4, 2, 0.5},
		{"completion only week", 0, 3, 1},
		{"zero activity week", 0, 0, 0},
		{"over-delivery", 2, 4, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := metricsFixture()
			for i := 0; i < tt.created; i++ {
				store.actions = append(store.actions, Action{
					ID: fmt.Sprintf("created-%d", i), OwnerID: testOwner, TeamID: "team-1",
					Title: "new work", Status: ActionStatusPending, CreatedAt: daysAgo(1),
				})
			}
			for i := 0; i < tt.completed; i++ {
				store.actions = append(store.actions, Action{
					ID: fmt.Sprintf("done-%d", i), OwnerID: testOwner, TeamID: "team-1",
					Title: "old work", Status: ActionStatusCompleted,
					CreatedAt: daysAgo(30), CompletedAt: timePtr(daysAgo(1)),
				})
			}

			engine := New(store, WithClock(testClock))
			result, err := engine.TeamMetrics(context.Background(), testOwner, "team-1", Window{})
			require.NoError(t, err)
			assert.InDelta(t, tt.want, result.Snapshot.VelocityScore, 1e-9)
		})
	}
}

func TestTeamMetricsHealthPenalties(t *testing.T) {
	store := metricsFixture()
	// Open blocker and an overdue action.
	store.actions = []Action{
		{
			ID: "a-1", OwnerID: testOwner, TeamID: "team-1", Title: "stuck",
			Status: ActionStatusInProgress, IsBlocker: true, CreatedAt: daysAgo(10),
		},
		{
			ID: "a-2", OwnerID: testOwner, TeamID: "team-1", Title: "late",
			Status: ActionStatusPending, CreatedAt: daysAgo(10), DueDate: timePtr(daysAgo(3)),
		},
	}
	// Mood 3 average in the window.
	store.oneOnOnes = []OneOnOne{
		{ID: "o-1", OwnerID: testOwner, EmployeeID: "emp-a", Date: daysAgo(1), Mood: 3},
	}

	engine := New(store, WithClock(testClock))
	result, err := engine.TeamMetrics(context.Background(), testOwner, "team-1", Window{})
	require.NoError(t, err)

	// 100 - (5-3)*10 mood - 10 blocker - 5 overdue = 65
	assert.InDelta(t, 65.0, result.Snapshot.HealthScore, 1e-9)
	assert.Equal(t, 1, result.Snapshot.BlockerCount)
	assert.Equal(t, 1, result.Snapshot.OverdueActions)
	require.NotNil(t, result.Snapshot.AvgMood)
	assert.InDelta(t, 3.0, *result.Snapshot.AvgMood, 1e-9)
}

func TestTeamMetricsScoresStayClamped(t *testing.T) {
	store := metricsFixture()
	// Pile on far more penalty than 100 points.
	for i := 0; i < 50; i++ {
		store.actions = append(store.actions, Action{
			ID: fmt.Sprintf("b-%d", i), OwnerID: testOwner, TeamID: "team-1",
			Title: "blocked", Status: ActionStatusPending, IsBlocker: true,
			CreatedAt: daysAgo(60), DueDate: timePtr(daysAgo(30)),
		})
	}
	// Flood of one-on-ones far past the expected count.
	for i := 0; i < 40; i++ {
		store.oneOnOnes = append(store.oneOnOnes, OneOnOne{
			ID: fmt.Sprintf("o-%d", i), OwnerID: testOwner, EmployeeID: "emp-a",
			Date: daysAgo(1), Mood: 1,
		})
	}

	engine := New(store, WithClock(testClock))
	result, err := engine.TeamMetrics(context.Background(), testOwner, "team-1", Window{})
	require.NoError(t, err)

	assert.GreaterOrEqual(t, result.Snapshot.HealthScore, 0.0)
	assert.LessOrEqual(t, result.Snapshot.HealthScore, 100.0)
	assert.GreaterOrEqual(t, result.Snapshot.EngagementScore, 0.0)
	assert.LessOrEqual(t, result.Snapshot.EngagementScore, 100.0)
	assert.Equal(t, 0.0, result.Snapshot.HealthScore)
	assert.Equal(t, 100.0, result.Snapshot.EngagementScore)
}

func TestTeamMetricsEngagementBiWeeklyTarget(t *testing.T) {
	// Two members, one one-on-one this period: expected = 1, score = 100.
	store := metricsFixture()
	store.oneOnOnes = []OneOnOne{
		{ID: "o-1", OwnerID: testOwner, EmployeeID: "emp-a", Date: daysAgo(1), Mood: 4},
	}

	engine := New(store, WithClock(testClock))
	result, err := engine.TeamMetrics(context.Background(), testOwner, "team-1", Window{})
	require.NoError(t, err)
	assert.InDelta(t, 100.0, result.Snapshot.EngagementScore, 1e-9)
	assert.Equal(t, 1, result.Snapshot.OneOnOnesConducted)
}

func TestTeamMetricsEngagementMemberlessTeam(t *testing.T) {
	store := metricsFixture()
	store.teams = []Team{{ID: "team-1", OwnerID: testOwner, Name: "Empty"}}

	engine := New(store, WithClock(testClock))
	result, err := engine.TeamMetrics(context.Background(), testOwner, "team-1", Window{})
	require.NoError(t, err)
	assert.InDelta(t, 100.0, result.Snapshot.EngagementScore, 1e-9)
}

func TestTeamMetricsAvgCompletionDays(t *testing.T) {
	store := metricsFixture()
	store.actions = []Action{
		{
			ID: "a-1", OwnerID: testOwner, TeamID: "team-1", Title: "quick",
			Status: ActionStatusCompleted, CreatedAt: daysAgo(4), CompletedAt: timePtr(daysAgo(2)),
		},
		{
			ID: "a-2", OwnerID: testOwner, TeamID: "team-1", Title: "slow",
			Status: ActionStatusCompleted, CreatedAt: daysAgo(10), CompletedAt: timePtr(daysAgo(2)),
		},
	}

	engine := New(store, WithClock(testClock))
	result, err := engine.TeamMetrics(context.Background(), testOwner, "team-1", Window{})
	require.NoError(t, err)
	require.NotNil(t, result.Snapshot.AvgCompletionDays)
	// (2 + 8) / 2 = 5 whole days
	assert.InDelta(t, 5.0, *result.Snapshot.AvgCompletionDays, 1e-9)
}

func TestTeamMetricsNoCompletionsLeavesAvgUnset(t *testing.T) {
	store := metricsFixture()
	store.actions = []Action{{
		ID: "a-1", OwnerID: testOwner, TeamID: "team-1", Title: "open",
		Status: ActionStatusPending, CreatedAt: daysAgo(1),
	}}

	engine := New(store, WithClock(testClock))
	result, err := engine.TeamMetrics(context.Background(), testOwner, "team-1", Window{})
	require.NoError(t, err)
	assert.Nil(t, result.Snapshot.AvgCompletionDays)
	assert.Nil(t, result.Snapshot.AvgMood)
}

func TestTeamMetricsSnapshotAppended(t *testing.T) {
	store := metricsFixture()
	engine := New(store, WithClock(testClock))

	_, err := engine.TeamMetrics(context.Background(), testOwner, "team-1", Window{})
	require.NoError(t, err)
	_, err = engine.TeamMetrics(context.Background(), testOwner, "team-1", Window{})
	require.NoError(t, err)

	assert.Len(t, store.snapshots, 2, "each computation appends a new row")
}

func TestTeamMetricsPersistFailureStillReturnsFigures(t *testing.T) {
	store := metricsFixture()
	store.saveErr = fmt.Errorf("disk full")

	engine := New(store, WithClock(testClock))
	result, err := engine.TeamMetrics(context.Background(), testOwner, "team-1", Window{})
	require.NoError(t, err, "persistence failure must not surface to the caller")
	require.NotNil(t, result.Snapshot)
}

func TestTeamMetricsTrendAgainstPriorSnapshot(t *testing.T) {
	store := metricsFixture()
	store.snapshots = []MetricsSnapshot{{
		ID: "prior", OwnerID: testOwner, TeamID: "team-1",
		HealthScore: 50, CreatedAt: daysAgo(7),
	}}
	// No penalties this week: health 100 > 50 * 1.2.

	engine := New(store, WithClock(testClock))
	result, err := engine.TeamMetrics(context.Background(), testOwner, "team-1", Window{})
	require.NoError(t, err)
	assert.Equal(t, TrendUp, result.Trend)
}

func TestTeamMetricsRejectsBadInput(t *testing.T) {
	engine := New(metricsFixture(), WithClock(testClock))

	_, err := engine.TeamMetrics(context.Background(), testOwner, "no-such-team", Window{})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidInput))

	_, err = engine.TeamMetrics(context.Background(), testOwner, "team-1", Window{
		Start: testNow, End: daysAgo(7),
	})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidWindow))
}

func TestCurrentWeekStartsMonday(t *testing.T) {
	window := CurrentWeek(testNow) // testNow is a Friday
	assert.Equal(t, time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC), window.Start)
	assert.True(t, window.Contains(testNow))

	// A Sunday belongs to the week that started six days earlier.
	sunday := time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC)
	window = CurrentWeek(sunday)
	assert.Equal(t, time.Monday, window.Start.Weekday())
	assert.True(t, window.Contains(sunday))
}
