package analytics

import (
	"context"
	"time"

	"github.com/teampulse/teampulse/pkg/errors"
)

// Window is a half-open-ish inclusive query window [Start, End].
type Window struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Validate rejects malformed windows before any computation begins.
func (w Window) Validate() error {
	if w.Start.IsZero() || w.End.IsZero() {
		return errors.New(errors.ErrCodeInvalidWindow, "window start and end are required")
	}
	if w.End.Before(w.Start) {
		return errors.New(errors.ErrCodeInvalidWindow, "window end precedes start").
			WithContext("start", w.Start.Format(time.RFC3339)).
			WithContext("end", w.End.Format(time.RFC3339))
	}
	return nil
}

// Contains reports whether t falls inside the window.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// Duration returns the window length.
func (w Window) Duration() time.Duration {
	return w.End.Sub(w.Start)
}

// Previous returns the window of equal length immediately before this one.
// Its end sits one instant before Start so a boundary timestamp lands in
// exactly one of the two windows.
func (w Window) Previous() Window {
	d := w.Duration()
	return Window{Start: w.Start.Add(-d), End: w.Start.Add(-time.Nanosecond)}
}

// CurrentWeek returns the Monday-start week containing now, in now's
// location. The default scoring window.
func CurrentWeek(now time.Time) Window {
	weekday := int(now.Weekday())
	if weekday == 0 {
		weekday = 7 // Sunday belongs to the week that started the previous Monday
	}
	year, month, day := now.Date()
	midnight := time.Date(year, month, day, 0, 0, 0, 0, now.Location())
	start := midnight.AddDate(0, 0, -(weekday - 1))
	return Window{Start: start, End: start.AddDate(0, 0, 7)}
}

// TrailingMonths returns the window covering the past n months up to now.
func TrailingMonths(now time.Time, n int) Window {
	return Window{Start: now.AddDate(0, -n, 0), End: now}
}

// ActionFilter narrows an action listing. Zero values mean "no constraint".
type ActionFilter struct {
	TeamID     string
	WorkAreaID string
	// CreatedWithin limits results to actions created inside the window.
	CreatedWithin *Window
}

// EventFilter narrows an event listing by team and start-time window.
type EventFilter struct {
	TeamID string
	Within *Window
}

// OneOnOneFilter narrows a one-on-one listing. TeamID filters through the
// employee's team membership.
type OneOnOneFilter struct {
	EmployeeID string
	TeamID     string
	Within     *Window
}

// Store is the read-side contract the engine computes over, plus the
// append-only snapshot history. The concrete implementation lives in
// pkg/storage; everything here must be reproducible from source records.
type Store interface {
	ListActions(ctx context.Context, ownerID string, filter ActionFilter) ([]Action, error)
	ListEvents(ctx context.Context, ownerID string, filter EventFilter) ([]Event, error)
	ListOneOnOnes(ctx context.Context, ownerID string, filter OneOnOneFilter) ([]OneOnOne, error)
	ListActiveCadenceRules(ctx context.Context, ownerID string) ([]CadenceRule, error)
	ListTeams(ctx context.Context, ownerID string) ([]Team, error)
	ListEmployees(ctx context.Context, ownerID string) ([]Employee, error)
	ListWorkAreas(ctx context.Context, ownerID string) ([]WorkArea, error)

	// SaveSnapshot appends one computed snapshot to the history. Callers
	// treat failures as non-fatal.
	SaveSnapshot(ctx context.Context, snapshot *MetricsSnapshot) error
	// LatestSnapshotBefore returns the most recent snapshot for the team
	// created before the given time, or nil when the history is empty.
	LatestSnapshotBefore(ctx context.Context, ownerID, teamID string, before time.Time) (*MetricsSnapshot, error)
}
