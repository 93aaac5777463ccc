package analytics

import (
	"context"
	"math"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/teampulse/teampulse/pkg/errors"
	"github.com/teampulse/teampulse/pkg/logging"
)

// Dashboard computes the owner-level aggregate figure set for the window:
// totals, per-team / per-work-area / per-employee breakdowns, and the
// time-allocation percentage table. A zero window defaults to the current
// Monday-start week.
func (e *Engine) Dashboard(ctx context.Context, ownerID string, window Window) (*Dashboard, error) {
	if ownerID == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "owner id is required")
	}

	now := e.now()
	if window.Start.IsZero() && window.End.IsZero() {
		window = CurrentWeek(now)
	}
	if err := window.Validate(); err != nil {
		return nil, err
	}

	previous := window.Previous()

	var (
		actions   []Action
		events    []Event
		oneOnOnes []OneOnOne
		teams     []Team
		employees []Employee
		areas     []WorkArea
	)

	// The loads are independent read-only queries; run them concurrently.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		actions, err = e.store.ListActions(gctx, ownerID, ActionFilter{})
		return err
	})
	g.Go(func() (err error) {
		events, err = e.store.ListEvents(gctx, ownerID, EventFilter{Within: &window})
		return err
	})
	g.Go(func() (err error) {
		oneOnOnes, err = e.store.ListOneOnOnes(gctx, ownerID, OneOnOneFilter{Within: &window})
		return err
	})
	g.Go(func() (err error) {
		teams, err = e.store.ListTeams(gctx, ownerID)
		return err
	})
	g.Go(func() (err error) {
		employees, err = e.store.ListEmployees(gctx, ownerID)
		return err
	})
	g.Go(func() (err error) {
		areas, err = e.store.ListWorkAreas(gctx, ownerID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeStorageRead, "load dashboard records")
	}

	dashboard := &Dashboard{
		OwnerID:     ownerID,
		PeriodStart: window.Start,
		PeriodEnd:   window.End,
	}

	// Breakdown accumulators keyed by stable entity id; converted to
	// ordered slices only at the output boundary.
	teamStats := make(map[string]*BreakdownEntry)
	areaStats := make(map[string]*BreakdownEntry)
	employeeStats := make(map[string]*BreakdownEntry)

	var prevCompleted int
	for _, action := range actions {
		open := action.Open()
		completedInWindow := action.CompletedAt != nil && window.Contains(*action.CompletedAt)
		if action.CompletedAt != nil && previous.Contains(*action.CompletedAt) {
			prevCompleted++
		}

		if open {
			dashboard.Totals.OpenActions++
			if action.IsBlocker {
				dashboard.Totals.BlockerCount++
			}
			if action.OverdueAt(now) {
				dashboard.Totals.OverdueActions++
			}
		}
		if window.Contains(action.CreatedAt) {
			dashboard.Totals.CreatedThisPeriod++
		}
		if completedInWindow {
			dashboard.Totals.CompletedThisPeriod++
		}

		// Breakdowns count actions relevant to the window: created in it,
		// completed in it, or still open.
		if !open && !completedInWindow && !window.Contains(action.CreatedAt) {
			continue
		}
		if action.TeamID != "" {
			bumpBreakdown(teamStats, action.TeamID, action.TeamName, open, completedInWindow)
		}
		if action.WorkAreaID != "" {
			bumpBreakdown(areaStats, action.WorkAreaID, action.WorkAreaName, open, completedInWindow)
		}
		if action.EmployeeID != "" {
			bumpBreakdown(employeeStats, action.EmployeeID, action.EmployeeName, open, completedInWindow)
		}
	}

	dashboard.Totals.MeetingsHeld = len(events)
	dashboard.Totals.OneOnOnesConducted = len(oneOnOnes)

	// Backfill names for entities with no action activity so breakdown
	// rows always carry a display name.
	fillMissingNames(teamStats, teamsAsNames(teams))
	fillMissingNames(areaStats, areasAsNames(areas))
	fillMissingNames(employeeStats, employeesAsNames(employees))

	dashboard.TeamBreakdown = orderedBreakdown(teamStats)
	dashboard.WorkAreaBreakdown = orderedBreakdown(areaStats)
	dashboard.EmployeeBreakdown = orderedBreakdown(employeeStats)
	dashboard.TimeAllocation = timeAllocation(events, areas)
	dashboard.CompletionTrend = classifyTrend(
		float64(dashboard.Totals.CompletedThisPeriod),
		float64(prevCompleted),
		dashboardTrendBand,
	)

	e.log.Info(logging.CategoryEngine, "dashboard_computed", "computed dashboard aggregates", map[string]any{
		"owner_id": ownerID,
		"actions":  len(actions),
		"events":   len(events),
	})

	return dashboard, nil
}

// timeAllocation buckets event duration by work area as a percentage of all
// event time in the window. Unattributed time lands in the explicit
// "Unassigned" bucket; percentages sum to 100 whenever any time exists.
func timeAllocation(events []Event, areas []WorkArea) []AllocationBucket {
	areaNames := areasAsNames(areas)

	minutes := make(map[string]int)
	var totalMinutes int
	for _, event := range events {
		m := int(event.Duration().Minutes())
		minutes[event.WorkAreaID] += m
		totalMinutes += m
	}

	if totalMinutes == 0 {
		return []AllocationBucket{}
	}

	buckets := make([]AllocationBucket, 0, len(minutes))
	for areaID, m := range minutes {
		name := UnassignedBucketName
		if areaID != "" {
			var ok bool
			if name, ok = areaNames[areaID]; !ok {
				name = UnassignedBucketName
				areaID = ""
			}
		}
		buckets = append(buckets, AllocationBucket{
			WorkAreaID: areaID,
			Name:       name,
			Minutes:    m,
			Percent:    roundPercent(float64(m) / float64(totalMinutes) * 100),
		})
	}

	// Merge duplicate Unassigned rows produced by dangling area ids.
	buckets = mergeUnassigned(buckets)

	sort.Slice(buckets, func(i, j int) bool {
		if buckets[i].Minutes != buckets[j].Minutes {
			return buckets[i].Minutes > buckets[j].Minutes
		}
		return buckets[i].Name < buckets[j].Name
	})
	return buckets
}

func mergeUnassigned(buckets []AllocationBucket) []AllocationBucket {
	merged := make([]AllocationBucket, 0, len(buckets))
	var unassigned *AllocationBucket
	for _, b := range buckets {
		if b.WorkAreaID == "" {
			if unassigned == nil {
				first := b
				unassigned = &first
			} else {
				unassigned.Minutes += b.Minutes
				unassigned.Percent = roundPercent(unassigned.Percent + b.Percent)
			}
			continue
		}
		merged = append(merged, b)
	}
	if unassigned != nil {
		merged = append(merged, *unassigned)
	}
	return merged
}

func roundPercent(v float64) float64 {
	return math.Round(v*10) / 10
}

func bumpBreakdown(stats map[string]*BreakdownEntry, id, name string, open, completed bool) {
	entry, ok := stats[id]
	if !ok {
		entry = &BreakdownEntry{ID: id, Name: name}
		stats[id] = entry
	}
	if entry.Name == "" {
		entry.Name = name
	}
	entry.Total++
	if open {
		entry.Open++
	}
	if completed {
		entry.Completed++
	}
}

// orderedBreakdown converts the id-keyed accumulator to a deterministic
// slice: busiest first, then name.
func orderedBreakdown(stats map[string]*BreakdownEntry) []BreakdownEntry {
	out := make([]BreakdownEntry, 0, len(stats))
	for _, entry := range stats {
		out = append(out, *entry)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Total != out[j].Total {
			return out[i].Total > out[j].Total
		}
		return out[i].Name < out[j].Name
	})
	return out
}

func fillMissingNames(stats map[string]*BreakdownEntry, names map[string]string) {
	for id, entry := range stats {
		if entry.Name == "" {
			entry.Name = names[id]
		}
	}
}

func teamsAsNames(teams []Team) map[string]string {
	names := make(map[string]string, len(teams))
	for _, t := range teams {
		names[t.ID] = t.Name
	}
	return names
}

func areasAsNames(areas []WorkArea) map[string]string {
	names := make(map[string]string, len(areas))
	for _, a := range areas {
		names[a.ID] = a.Name
	}
	return names
}

func employeesAsNames(employees []Employee) map[string]string {
	names := make(map[string]string, len(employees))
	for _, e := range employees {
		names[e.ID] = e.Name
	}
	return names
}
