package analytics

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teampulse/teampulse/pkg/errors"
)

func insightsFixture() *fakeStore {
	return &fakeStore{
		teams: []Team{
			{ID: "team-1", OwnerID: testOwner, Name: "Platform"},
		},
		employees: []Employee{
			{ID: "emp-a", OwnerID: testOwner, Name: "Ana", TeamID: "team-1"},
			{ID: "emp-b", OwnerID: testOwner, Name: "Ben", TeamID: "team-1"},
		},
		areas: []WorkArea{
			{ID: "area-1", OwnerID: testOwner, Name: "Infra"},
		},
	}
}

func TestInsightsRegularCheckIns(t *testing.T) {
	store := insightsFixture()
	// 3 one-on-ones with Ana, 2 with Ben.
	for i := 0; i < 3; i++ {
		store.oneOnOnes = append(store.oneOnOnes, OneOnOne{
			ID: fmt.Sprintf("o-a-%d", i), OwnerID: testOwner, EmployeeID: "emp-a",
			EmployeeName: "Ana", Date: daysAgo(i*7 + 1), Mood: 4,
		})
	}
	for i := 0; i < 2; i++ {
		store.oneOnOnes = append(store.oneOnOnes, OneOnOne{
			ID: fmt.Sprintf("o-b-%d", i), OwnerID: testOwner, EmployeeID: "emp-b",
			EmployeeName: "Ben", Date: daysAgo(i*7 + 3), Mood: 3,
		})
	}

	engine := New(store, WithClock(testClock))
	report, err := engine.Insights(context.Background(), testOwner, 0)
	require.NoError(t, err)

	people := report.Insights[CategoryPeople]
	require.Len(t, people, 1, "exactly one Regular Check-ins item")

	item := people[0]
	assert.Equal(t, "regular-check-ins", item.ID)
	assert.Equal(t, 5, item.Frequency)
	assert.Len(t, item.Evidence, 5)
	assert.NotEmpty(t, item.Tips)
	require.NotNil(t, item.LastActivityDate)
	assert.Equal(t, daysAgo(1), *item.LastActivityDate)
	// Most recent first.
	assert.Equal(t, "One-on-one with Ana", item.Evidence[0].Title)
}

func TestInsightsCheckInEvidenceCappedAtTen(t *testing.T) {
	store := insightsFixture()
	for i := 0; i < 14; i++ {
		store.oneOnOnes = append(store.oneOnOnes, OneOnOne{
			ID: fmt.Sprintf("o-%d", i), OwnerID: testOwner, EmployeeID: "emp-a",
			Date: daysAgo(i + 1), Mood: 4,
		})
	}

	engine := New(store, WithClock(testClock))
	report, err := engine.Insights(context.Background(), testOwner, 0)
	require.NoError(t, err)

	item := report.Insights[CategoryPeople][0]
	assert.Equal(t, 14, item.Frequency)
	assert.Len(t, item.Evidence, 10)
}

func TestInsightsTeamEventThreshold(t *testing.T) {
	store := insightsFixture()
	store.teams = append(store.teams, Team{ID: "team-2", OwnerID: testOwner, Name: "Product"})
	// team-1 crosses the threshold; team-2 has a single event and does not.
	store.events = []Event{
		{ID: "e-1", OwnerID: testOwner, TeamID: "team-1", Title: "Retro", StartTime: daysAgo(3), EndTime: daysAgo(3).Add(3600e9)},
		{ID: "e-2", OwnerID: testOwner, TeamID: "team-1", Title: "Planning", StartTime: daysAgo(10), EndTime: daysAgo(10).Add(3600e9)},
		{ID: "e-3", OwnerID: testOwner, TeamID: "team-2", Title: "Kickoff", StartTime: daysAgo(5), EndTime: daysAgo(5).Add(3600e9)},
	}

	engine := New(store, WithClock(testClock))
	report, err := engine.Insights(context.Background(), testOwner, 0)
	require.NoError(t, err)

	teamDev := report.Insights[CategoryTeamDev]
	require.Len(t, teamDev, 1)
	assert.Equal(t, "team-rituals:team-1", teamDev[0].ID)
	assert.Equal(t, 2, teamDev[0].Frequency)
	assert.Equal(t, "Retro", teamDev[0].Evidence[0].Title, "most recent event first")
}

func TestInsightsAreaBelowThresholdProducesNoItem(t *testing.T) {
	store := insightsFixture()
	for i := 0; i < 2; i++ {
		store.actions = append(store.actions, Action{
			ID: fmt.Sprintf("a-%d", i), OwnerID: testOwner, WorkAreaID: "area-1",
			Title: "task", Status: ActionStatusPending, CreatedAt: daysAgo(i + 1),
		})
	}

	engine := New(store, WithClock(testClock))
	report, err := engine.Insights(context.Background(), testOwner, 0)
	require.NoError(t, err)
	assert.Empty(t, report.Insights[CategoryDelivery], "two actions are below the three-action threshold")
}

func TestInsightsDeliveryItemCountsCompleted(t *testing.T) {
	store := insightsFixture()
	for i := 0; i < 4; i++ {
		action := Action{
			ID: fmt.Sprintf("a-%d", i), OwnerID: testOwner, WorkAreaID: "area-1",
			Title: fmt.Sprintf("task %d", i), Status: ActionStatusPending, CreatedAt: daysAgo(i + 1),
		}
		if i < 2 {
			action.Status = ActionStatusCompleted
			action.CompletedAt = timePtr(daysAgo(i))
		}
		store.actions = append(store.actions, action)
	}

	engine := New(store, WithClock(testClock))
	report, err := engine.Insights(context.Background(), testOwner, 0)
	require.NoError(t, err)

	delivery := report.Insights[CategoryDelivery]
	require.Len(t, delivery, 1)
	assert.Equal(t, "delivery-focus:area-1", delivery[0].ID)
	assert.Equal(t, 4, delivery[0].Frequency)
	assert.Contains(t, delivery[0].Description, "2 completed")
}

func TestInsightsStrategyDecisionsAndCrossTeam(t *testing.T) {
	store := insightsFixture()
	store.teams = append(store.teams, Team{ID: "team-2", OwnerID: testOwner, Name: "Product"})
	store.actions = []Action{
		{
			ID: "d-1", OwnerID: testOwner, TeamID: "team-1", Title: "Choose database",
			Type: ActionTypeDecision, Status: ActionStatusCompleted,
			CreatedAt: daysAgo(5), CompletedAt: timePtr(daysAgo(4)),
		},
	}

	engine := New(store, WithClock(testClock))
	report, err := engine.Insights(context.Background(), testOwner, 0)
	require.NoError(t, err)

	strategy := report.Insights[CategoryStrategy]
	require.Len(t, strategy, 2)

	assert.Equal(t, "decision-making", strategy[0].ID)
	assert.Equal(t, 1, strategy[0].Frequency)
	require.Len(t, strategy[0].Evidence, 1)

	assert.Equal(t, "cross-team-coordination", strategy[1].ID)
	assert.Empty(t, strategy[1].Evidence, "structural fact, not an activity list")
	assert.Equal(t, 2, strategy[1].Frequency)
}

func TestInsightsSingleTeamNoCoordinationItem(t *testing.T) {
	engine := New(insightsFixture(), WithClock(testClock))
	report, err := engine.Insights(context.Background(), testOwner, 0)
	require.NoError(t, err)
	assert.Empty(t, report.Insights[CategoryStrategy])
}

func TestInsightsEmptyDataStillReturnsSummary(t *testing.T) {
	engine := New(&fakeStore{}, WithClock(testClock))
	report, err := engine.Insights(context.Background(), testOwner, 0)
	require.NoError(t, err)

	assert.Equal(t, InsightSummary{}, report.Summary)
	for _, category := range []InsightCategory{CategoryPeople, CategoryTeamDev, CategoryDelivery, CategoryStrategy} {
		items, ok := report.Insights[category]
		assert.True(t, ok, "category %s always present", category)
		assert.Empty(t, items)
	}
}

func TestInsightsIdempotent(t *testing.T) {
	store := insightsFixture()
	store.teams = append(store.teams, Team{ID: "team-2", OwnerID: testOwner, Name: "Product"})
	for i := 0; i < 6; i++ {
		store.oneOnOnes = append(store.oneOnOnes, OneOnOne{
			ID: fmt.Sprintf("o-%d", i), OwnerID: testOwner, EmployeeID: "emp-a",
			Date: daysAgo(i*5 + 1), Mood: 4,
		})
		store.actions = append(store.actions, Action{
			ID: fmt.Sprintf("a-%d", i), OwnerID: testOwner, WorkAreaID: "area-1",
			TeamID: "team-1", Title: fmt.Sprintf("task %d", i),
			Type: ActionTypeDecision, Status: ActionStatusPending, CreatedAt: daysAgo(i + 1),
		})
		store.events = append(store.events, Event{
			ID: fmt.Sprintf("e-%d", i), OwnerID: testOwner, TeamID: "team-1",
			Title: fmt.Sprintf("session %d", i), StartTime: daysAgo(i + 1),
			EndTime: daysAgo(i + 1).Add(3600e9),
		})
	}

	engine := New(store, WithClock(testClock))
	first, err := engine.Insights(context.Background(), testOwner, 0)
	require.NoError(t, err)
	second, err := engine.Insights(context.Background(), testOwner, 0)
	require.NoError(t, err)

	assert.Equal(t, first.Insights, second.Insights, "identical contents, ordering and evidence")
	assert.Equal(t, first.Summary, second.Summary)
}

func TestInsightsRejectsNegativeMonths(t *testing.T) {
	engine := New(insightsFixture(), WithClock(testClock))
	_, err := engine.Insights(context.Background(), testOwner, -1)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidInput))
}
