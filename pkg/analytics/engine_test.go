package analytics

import (
	"context"
	"time"
)

// fakeStore is an in-memory Store with the same filter semantics as the
// SQLite implementation.
type fakeStore struct {
	actions   []Action
	events    []Event
	oneOnOnes []OneOnOne
	rules     []CadenceRule
	teams     []Team
	employees []Employee
	areas     []WorkArea
	snapshots []MetricsSnapshot

	readErr error
	saveErr error
}

// testNow is a fixed Friday noon used across the engine tests; the current
// Monday-start week runs from Aug 24 through Aug 31.
var testNow = time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)

func testClock() time.Time { return testNow }

func (f *fakeStore) ListActions(_ context.Context, ownerID string, filter ActionFilter) ([]Action, error) {
	if f.readErr != nil {
		return nil, f.readErr
	}
	var out []Action
	for _, a := range f.actions {
		if a.OwnerID != ownerID {
			continue
		}
		if filter.TeamID != "" && a.TeamID != filter.TeamID {
			continue
		}
		if filter.WorkAreaID != "" && a.WorkAreaID != filter.WorkAreaID {
			continue
		}
		if filter.CreatedWithin != nil && !filter.CreatedWithin.Contains(a.CreatedAt) {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func (f *fakeStore) ListEvents(_ context.Context, ownerID string, filter EventFilter) ([]Event, error) {
	if f.readErr != nil {
		return nil, f.readErr
	}
	var out []Event
	for _, e := range f.events {
		if e.OwnerID != ownerID {
			continue
		}
		if filter.TeamID != "" && e.TeamID != filter.TeamID {
			continue
		}
		if filter.Within != nil && !filter.Within.Contains(e.StartTime) {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (f *fakeStore) ListOneOnOnes(_ context.Context, ownerID string, filter OneOnOneFilter) ([]OneOnOne, error) {
	if f.readErr != nil {
		return nil, f.readErr
	}
	teamOf := make(map[string]string)
	for _, emp := range f.employees {
		teamOf[emp.ID] = emp.TeamID
	}
	var out []OneOnOne
	for _, o := range f.oneOnOnes {
		if o.OwnerID != ownerID {
			continue
		}
		if filter.EmployeeID != "" && o.EmployeeID != filter.EmployeeID {
			continue
		}
		if filter.TeamID != "" && teamOf[o.EmployeeID] != filter.TeamID {
			continue
		}
		if filter.Within != nil && !filter.Within.Contains(o.Date) {
			continue
		}
		out = append(out, o)
	}
	return out, nil
}

func (f *fakeStore) ListActiveCadenceRules(_ context.Context, ownerID string) ([]CadenceRule, error) {
	if f.readErr != nil {
		return nil, f.readErr
	}
	var out []CadenceRule
	for _, r := range f.rules {
		if r.OwnerID == ownerID && r.IsActive {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeStore) ListTeams(_ context.Context, ownerID string) ([]Team, error) {
	if f.readErr != nil {
		return nil, f.readErr
	}
	var out []Team
	for _, t := range f.teams {
		if t.OwnerID == ownerID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeStore) ListEmployees(_ context.Context, ownerID string) ([]Employee, error) {
	if f.readErr != nil {
		return nil, f.readErr
	}
	var out []Employee
	for _, e := range f.employees {
		if e.OwnerID == ownerID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeStore) ListWorkAreas(_ context.Context, ownerID string) ([]WorkArea, error) {
	if f.readErr != nil {
		return nil, f.readErr
	}
	var out []WorkArea
	for _, a := range f.areas {
		if a.OwnerID == ownerID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeStore) SaveSnapshot(_ context.Context, snapshot *MetricsSnapshot) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.snapshots = append(f.snapshots, *snapshot)
	return nil
}

func (f *fakeStore) LatestSnapshotBefore(_ context.Context, ownerID, teamID string, before time.Time) (*MetricsSnapshot, error) {
	if f.readErr != nil {
		return nil, f.readErr
	}
	var latest *MetricsSnapshot
	for i := range f.snapshots {
		s := f.snapshots[i]
		if s.OwnerID != ownerID || s.TeamID != teamID || !s.CreatedAt.Before(before) {
			continue
		}
		if latest == nil || s.CreatedAt.After(latest.CreatedAt) {
			latest = &f.snapshots[i]
		}
	}
	return latest, nil
}

func daysAgo(n int) time.Time {
	return testNow.AddDate(0, 0, -n)
}

func timePtr(t time.Time) *time.Time { return &t }
