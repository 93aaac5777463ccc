package analytics

import (
	"context"
	"fmt"
	"sort"

	"github.com/teampulse/teampulse/pkg/errors"
	"github.com/teampulse/teampulse/pkg/logging"
)

// Classification thresholds. Single occurrences are noise, not patterns.
const (
	teamEventThreshold  = 2
	areaActionThreshold = 3

	checkInEvidenceCap = 10
	evidenceCap        = 5

	defaultInsightMonths = 3
)

// Insights classifies the owner's trailing activity into the fixed
// four-category responsibility taxonomy. months <= 0 selects the default
// trailing window of 3 months. The computation is deterministic and
// idempotent over an unchanged record set.
func (e *Engine) Insights(ctx context.Context, ownerID string, months int) (*InsightReport, error) {
	if ownerID == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "owner id is required")
	}
	if months < 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "months must be positive").
			WithContext("months", months)
	}
	if months == 0 {
		months = defaultInsightMonths
	}

	now := e.now()
	window := TrailingMonths(now, months)

	actions, err := e.store.ListActions(ctx, ownerID, ActionFilter{CreatedWithin: &window})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeStorageRead, "list actions")
	}
	events, err := e.store.ListEvents(ctx, ownerID, EventFilter{Within: &window})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeStorageRead, "list events")
	}
	oneOnOnes, err := e.store.ListOneOnOnes(ctx, ownerID, OneOnOneFilter{Within: &window})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeStorageRead, "list one-on-ones")
	}
	teams, err := e.store.ListTeams(ctx, ownerID)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeStorageRead, "list teams")
	}
	areas, err := e.store.ListWorkAreas(ctx, ownerID)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeStorageRead, "list work areas")
	}

	report := &InsightReport{
		Insights: map[InsightCategory][]InsightItem{
			CategoryPeople:   {},
			CategoryTeamDev:  {},
			CategoryDelivery: {},
			CategoryStrategy: {},
		},
		Summary: summarize(actions, events, oneOnOnes),
	}

	if item := checkInInsight(oneOnOnes, months); item != nil {
		report.Insights[CategoryPeople] = append(report.Insights[CategoryPeople], *item)
	}
	report.Insights[CategoryTeamDev] = append(report.Insights[CategoryTeamDev], teamRitualInsights(events, teamsAsNames(teams))...)
	report.Insights[CategoryDelivery] = append(report.Insights[CategoryDelivery], deliveryInsights(actions, areasAsNames(areas))...)
	report.Insights[CategoryStrategy] = append(report.Insights[CategoryStrategy], strategyInsights(actions, teams)...)

	e.log.Info(logging.CategoryEngine, "insights_categorized", "categorized activity", map[string]any{
		"owner_id":    ownerID,
		"actions":     len(actions),
		"events":      len(events),
		"one_on_ones": len(oneOnOnes),
	})

	return report, nil
}

func summarize(actions []Action, events []Event, oneOnOnes []OneOnOne) InsightSummary {
	teams := make(map[string]struct{})
	employees := make(map[string]struct{})
	areas := make(map[string]struct{})

	for _, a := range actions {
		if a.TeamID != "" {
			teams[a.TeamID] = struct{}{}
		}
		if a.EmployeeID != "" {
			employees[a.EmployeeID] = struct{}{}
		}
		if a.WorkAreaID != "" {
			areas[a.WorkAreaID] = struct{}{}
		}
	}
	for _, ev := range events {
		if ev.TeamID != "" {
			teams[ev.TeamID] = struct{}{}
		}
		if ev.WorkAreaID != "" {
			areas[ev.WorkAreaID] = struct{}{}
		}
	}
	for _, o := range oneOnOnes {
		if o.EmployeeID != "" {
			employees[o.EmployeeID] = struct{}{}
		}
	}

	return InsightSummary{
		ActionCount:      len(actions),
		EventCount:       len(events),
		OneOnOneCount:    len(oneOnOnes),
		TeamsTouched:     len(teams),
		EmployeesTouched: len(employees),
		WorkAreasTouched: len(areas),
	}
}

// checkInInsight emits the single "Regular Check-ins" item under People
// when any one-on-ones exist, with evidence capped at the 10 most recent.
func checkInInsight(oneOnOnes []OneOnOne, months int) *InsightItem {
	if len(oneOnOnes) == 0 {
		return nil
	}

	sorted := make([]OneOnOne, len(oneOnOnes))
	copy(sorted, oneOnOnes)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.After(sorted[j].Date)
	})

	evidence := make([]InsightEvidence, 0, checkInEvidenceCap)
	for _, o := range sorted {
		if len(evidence) == checkInEvidenceCap {
			break
		}
		title := "One-on-one"
		if o.EmployeeName != "" {
			title = "One-on-one with " + o.EmployeeName
		}
		evidence = append(evidence, InsightEvidence{
			SourceType: RecordKindOneOnOne,
			SourceID:   o.ID,
			Title:      title,
			Date:       o.Date,
		})
	}

	last := sorted[0].Date
	return &InsightItem{
		ID:               insightRegularCheckIns,
		Title:            "Regular Check-ins",
		Description:      fmt.Sprintf("Conducted %d one-on-ones over the last %d months.", len(oneOnOnes), months),
		Category:         CategoryPeople,
		Evidence:         evidence,
		Frequency:        len(oneOnOnes),
		LastActivityDate: &last,
		Tips:             tipsFor(insightRegularCheckIns),
	}
}

// teamRitualInsights emits one Team Development item per team with at least
// two events in the window, evidence capped at the 5 most recent.
func teamRitualInsights(events []Event, teamNames map[string]string) []InsightItem {
	byTeam := make(map[string][]Event)
	for _, ev := range events {
		if ev.TeamID == "" {
			continue
		}
		byTeam[ev.TeamID] = append(byTeam[ev.TeamID], ev)
	}

	teamIDs := make([]string, 0, len(byTeam))
	for id, evs := range byTeam {
		if len(evs) >= teamEventThreshold {
			teamIDs = append(teamIDs, id)
		}
	}
	// Deterministic item order: busiest team first, then id.
	sort.Slice(teamIDs, func(i, j int) bool {
		if len(byTeam[teamIDs[i]]) != len(byTeam[teamIDs[j]]) {
			return len(byTeam[teamIDs[i]]) > len(byTeam[teamIDs[j]])
		}
		return teamIDs[i] < teamIDs[j]
	})

	items := make([]InsightItem, 0, len(teamIDs))
	for _, teamID := range teamIDs {
		evs := byTeam[teamID]
		sort.SliceStable(evs, func(i, j int) bool {
			return evs[i].StartTime.After(evs[j].StartTime)
		})

		name := teamNames[teamID]
		if name == "" {
			name = evs[0].TeamName
		}

		evidence := make([]InsightEvidence, 0, evidenceCap)
		for _, ev := range evs {
			if len(evidence) == evidenceCap {
				break
			}
			evidence = append(evidence, InsightEvidence{
				SourceType: RecordKindEvent,
				SourceID:   ev.ID,
				Title:      ev.Title,
				Date:       ev.StartTime,
			})
		}

		last := evs[0].StartTime
		items = append(items, InsightItem{
			ID:               insightTeamRituals + ":" + teamID,
			Title:            fmt.Sprintf("Invested in %s", name),
			Description:      fmt.Sprintf("Held %d sessions with %s.", len(evs), name),
			Category:         CategoryTeamDev,
			Evidence:         evidence,
			Frequency:        len(evs),
			LastActivityDate: &last,
			Tips:             tipsFor(insightTeamRituals),
		})
	}
	return items
}

// deliveryInsights emits one Delivery & Execution item per work area with at
// least three actions, noting how many of them completed.
func deliveryInsights(actions []Action, areaNames map[string]string) []InsightItem {
	byArea := make(map[string][]Action)
	for _, a := range actions {
		if a.WorkAreaID == "" {
			continue
		}
		byArea[a.WorkAreaID] = append(byArea[a.WorkAreaID], a)
	}

	areaIDs := make([]string, 0, len(byArea))
	for id, as := range byArea {
		if len(as) >= areaActionThreshold {
			areaIDs = append(areaIDs, id)
		}
	}
	sort.Slice(areaIDs, func(i, j int) bool {
		if len(byArea[areaIDs[i]]) != len(byArea[areaIDs[j]]) {
			return len(byArea[areaIDs[i]]) > len(byArea[areaIDs[j]])
		}
		return areaIDs[i] < areaIDs[j]
	})

	items := make([]InsightItem, 0, len(areaIDs))
	for _, areaID := range areaIDs {
		as := byArea[areaID]
		sort.SliceStable(as, func(i, j int) bool {
			return as[i].CreatedAt.After(as[j].CreatedAt)
		})

		name := areaNames[areaID]
		if name == "" {
			name = as[0].WorkAreaName
		}

		var completed int
		for _, a := range as {
			if a.Status == ActionStatusCompleted {
				completed++
			}
		}

		evidence := make([]InsightEvidence, 0, evidenceCap)
		for _, a := range as {
			if len(evidence) == evidenceCap {
				break
			}
			evidence = append(evidence, InsightEvidence{
				SourceType: RecordKindAction,
				SourceID:   a.ID,
				Title:      a.Title,
				Date:       a.CreatedAt,
			})
		}

		last := as[0].CreatedAt
		items = append(items, InsightItem{
			ID:               insightDeliveryFocus + ":" + areaID,
			Title:            fmt.Sprintf("Driving %s", name),
			Description:      fmt.Sprintf("Worked %d actions in %s, %d completed.", len(as), name, completed),
			Category:         CategoryDelivery,
			Evidence:         evidence,
			Frequency:        len(as),
			LastActivityDate: &last,
			Tips:             tipsFor(insightDeliveryFocus),
		})
	}
	return items
}

// strategyInsights emits the aggregate decision-making item when any
// decision-type actions exist, and a Cross-Team Coordination item when more
// than one team is managed. The coordination item carries no evidence; it
// records a structural fact, not an activity list.
func strategyInsights(actions []Action, teams []Team) []InsightItem {
	var items []InsightItem

	var decisions []Action
	for _, a := range actions {
		if a.Type == ActionTypeDecision {
			decisions = append(decisions, a)
		}
	}
	if len(decisions) > 0 {
		sort.SliceStable(decisions, func(i, j int) bool {
			return decisions[i].CreatedAt.After(decisions[j].CreatedAt)
		})

		evidence := make([]InsightEvidence, 0, evidenceCap)
		for _, a := range decisions {
			if len(evidence) == evidenceCap {
				break
			}
			evidence = append(evidence, InsightEvidence{
				SourceType: RecordKindAction,
				SourceID:   a.ID,
				Title:      a.Title,
				Date:       a.CreatedAt,
			})
		}

		last := decisions[0].CreatedAt
		items = append(items, InsightItem{
			ID:               insightDecisionMaking,
			Title:            "Decision Making",
			Description:      fmt.Sprintf("Recorded %d decisions.", len(decisions)),
			Category:         CategoryStrategy,
			Evidence:         evidence,
			Frequency:        len(decisions),
			LastActivityDate: &last,
			Tips:             tipsFor(insightDecisionMaking),
		})
	}

	if len(teams) > 1 {
		items = append(items, InsightItem{
			ID:          insightCrossTeamCoord,
			Title:       "Cross-Team Coordination",
			Description: fmt.Sprintf("Managing %d teams in parallel.", len(teams)),
			Category:    CategoryStrategy,
			Evidence:    []InsightEvidence{},
			Frequency:   len(teams),
			Tips:        tipsFor(insightCrossTeamCoord),
		})
	}

	return items
}
