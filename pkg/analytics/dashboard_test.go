package analytics

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dashboardFixture() *fakeStore {
	return &fakeStore{
		teams: []Team{
			{ID: "team-1", OwnerID: testOwner, Name: "Platform", MemberIDs: []string{"emp-a"}},
			{ID: "team-2", OwnerID: testOwner, Name: "Product", MemberIDs: []string{"emp-b"}},
		},
		employees: []Employee{
			{ID: "emp-a", OwnerID: testOwner, Name: "Ana", TeamID: "team-1"},
			{ID: "emp-b", OwnerID: testOwner, Name: "Ben", TeamID: "team-2"},
		},
		areas: []WorkArea{
			{ID: "area-1", OwnerID: testOwner, Name: "Infra"},
			{ID: "area-2", OwnerID: testOwner, Name: "Mobile"},
		},
	}
}

// eventAt builds an in-window event of the given length.
func eventAt(id, teamID, areaID string, hoursAgo, durationMinutes int) Event {
	start := testNow.Add(-time.Duration(hoursAgo) * time.Hour)
	return Event{
		ID: id, OwnerID: testOwner, TeamID: teamID, WorkAreaID: areaID,
		Title: "session", StartTime: start,
		EndTime: start.Add(time.Duration(durationMinutes) * time.Minute),
	}
}

func TestDashboardTimeAllocationSumsToHundred(t *testing.T) {
	store := dashboardFixture()
	store.events = []Event{
		eventAt("e-1", "team-1", "area-1", 4, 90),
		eventAt("e-2", "team-1", "area-2", 8, 60),
		eventAt("e-3", "team-2", "", 20, 30), // no work area: Unassigned
	}

	engine := New(store, WithClock(testClock))
	dashboard, err := engine.Dashboard(context.Background(), testOwner, Window{})
	require.NoError(t, err)

	require.Len(t, dashboard.TimeAllocation, 3)

	var total float64
	names := make([]string, 0, 3)
	for _, bucket := range dashboard.TimeAllocation {
		total += bucket.Percent
		names = append(names, bucket.Name)
	}
	assert.InDelta(t, 100.0, total, 0.5, "percentages sum to 100 within rounding")
	assert.Contains(t, names, UnassignedBucketName)

	// Largest share first.
	assert.Equal(t, "Infra", dashboard.TimeAllocation[0].Name)
	assert.Equal(t, 90, dashboard.TimeAllocation[0].Minutes)
	assert.InDelta(t, 50.0, dashboard.TimeAllocation[0].Percent, 0.1)
}

func TestDashboardTimeAllocationEmptyWindow(t *testing.T) {
	engine := New(dashboardFixture(), WithClock(testClock))
	dashboard, err := engine.Dashboard(context.Background(), testOwner, Window{})
	require.NoError(t, err)
	assert.Empty(t, dashboard.TimeAllocation)
}

func TestDashboardDanglingAreaFoldsIntoUnassigned(t *testing.T) {
	store := dashboardFixture()
	store.events = []Event{
		eventAt("e-1", "team-1", "area-deleted", 4, 60),
		eventAt("e-2", "team-1", "", 8, 60),
	}

	engine := New(store, WithClock(testClock))
	dashboard, err := engine.Dashboard(context.Background(), testOwner, Window{})
	require.NoError(t, err)

	require.Len(t, dashboard.TimeAllocation, 1)
	bucket := dashboard.TimeAllocation[0]
	assert.Equal(t, UnassignedBucketName, bucket.Name)
	assert.Equal(t, 120, bucket.Minutes)
	assert.InDelta(t, 100.0, bucket.Percent, 0.5)
}

func TestDashboardTotalsAndBreakdowns(t *testing.T) {
	store := dashboardFixture()
	store.actions = []Action{
		{
			ID: "a-1", OwnerID: testOwner, TeamID: "team-1", WorkAreaID: "area-1",
			EmployeeID: "emp-a", Title: "open work", Status: ActionStatusPending,
			CreatedAt: testNow.Add(-2 * time.Hour),
		},
		{
			ID: "a-2", OwnerID: testOwner, TeamID: "team-1", WorkAreaID: "area-1",
			Title: "done work", Status: ActionStatusCompleted,
			CreatedAt: daysAgo(10), CompletedAt: timePtr(testNow.Add(-1 * time.Hour)),
		},
		{
			ID: "a-3", OwnerID: testOwner, TeamID: "team-2", Title: "blocked",
			Status: ActionStatusInProgress, IsBlocker: true,
			CreatedAt: daysAgo(20), DueDate: timePtr(daysAgo(5)),
		},
	}
	store.events = []Event{eventAt("e-1", "team-1", "area-1", 4, 60)}
	store.oneOnOnes = []OneOnOne{
		{ID: "o-1", OwnerID: testOwner, EmployeeID: "emp-a", Date: testNow.Add(-3 * time.Hour), Mood: 4},
	}

	engine := New(store, WithClock(testClock))
	dashboard, err := engine.Dashboard(context.Background(), testOwner, Window{})
	require.NoError(t, err)

	assert.Equal(t, 2, dashboard.Totals.OpenActions)
	assert.Equal(t, 1, dashboard.Totals.CreatedThisPeriod)
	assert.Equal(t, 1, dashboard.Totals.CompletedThisPeriod)
	assert.Equal(t, 1, dashboard.Totals.BlockerCount)
	assert.Equal(t, 1, dashboard.Totals.OverdueActions)
	assert.Equal(t, 1, dashboard.Totals.MeetingsHeld)
	assert.Equal(t, 1, dashboard.Totals.OneOnOnesConducted)

	require.Len(t, dashboard.TeamBreakdown, 2)
	assert.Equal(t, "team-1", dashboard.TeamBreakdown[0].ID)
	assert.Equal(t, "Platform", dashboard.TeamBreakdown[0].Name)
	assert.Equal(t, 2, dashboard.TeamBreakdown[0].Total)
	assert.Equal(t, 1, dashboard.TeamBreakdown[0].Completed)

	require.Len(t, dashboard.WorkAreaBreakdown, 1)
	assert.Equal(t, "area-1", dashboard.WorkAreaBreakdown[0].ID)

	require.Len(t, dashboard.EmployeeBreakdown, 1)
	assert.Equal(t, "emp-a", dashboard.EmployeeBreakdown[0].ID)
}

func TestDashboardCompletionTrendUsesTighterBand(t *testing.T) {
	store := dashboardFixture()
	previous := CurrentWeek(testNow).Previous()

	// 5 completed last week, 6 this week. The snapshot band (1.2x) would
	// call that stable; the dashboard's tighter 1.1x band reads it as up.
	for i := 0; i < 5; i++ {
		when := previous.Start.Add(time.Duration(i+1) * 12 * time.Hour)
		store.actions = append(store.actions, Action{
			ID: "prev-" + string(rune('a'+i)), OwnerID: testOwner, TeamID: "team-1",
			Title: "last week", Status: ActionStatusCompleted,
			CreatedAt: when.Add(-24 * time.Hour), CompletedAt: timePtr(when),
		})
	}
	for i := 0; i < 6; i++ {
		when := testNow.Add(-time.Duration(i+1) * time.Hour)
		store.actions = append(store.actions, Action{
			ID: "cur-" + string(rune('a'+i)), OwnerID: testOwner, TeamID: "team-1",
			Title: "this week", Status: ActionStatusCompleted,
			CreatedAt: daysAgo(3), CompletedAt: timePtr(when),
		})
	}

	engine := New(store, WithClock(testClock))
	dashboard, err := engine.Dashboard(context.Background(), testOwner, Window{})
	require.NoError(t, err)
	assert.Equal(t, TrendUp, dashboard.CompletionTrend)
}

func TestDashboardBoundaryCompletionCountsOnce(t *testing.T) {
	window := CurrentWeek(testNow)
	assert.True(t, window.Contains(window.Start))
	assert.False(t, window.Previous().Contains(window.Start), "boundary instant belongs to one window only")

	store := dashboardFixture()
	store.actions = []Action{{
		ID: "edge", OwnerID: testOwner, TeamID: "team-1", Title: "boundary",
		Status:    ActionStatusCompleted,
		CreatedAt: window.Start.Add(-48 * time.Hour), CompletedAt: timePtr(window.Start),
	}}

	engine := New(store, WithClock(testClock))
	dashboard, err := engine.Dashboard(context.Background(), testOwner, Window{})
	require.NoError(t, err)

	// Double-counting the completion into the prior period would read
	// 1 vs 1 and flatten the trend to stable.
	assert.Equal(t, 1, dashboard.Totals.CompletedThisPeriod)
	assert.Equal(t, TrendUp, dashboard.CompletionTrend)
}

func TestDashboardScopedToOwner(t *testing.T) {
	store := dashboardFixture()
	store.actions = []Action{{
		ID: "foreign", OwnerID: "someone-else", TeamID: "team-1",
		Title: "not yours", Status: ActionStatusPending, CreatedAt: daysAgo(1),
	}}

	engine := New(store, WithClock(testClock))
	dashboard, err := engine.Dashboard(context.Background(), testOwner, Window{})
	require.NoError(t, err)
	assert.Equal(t, 0, dashboard.Totals.OpenActions)
}
