package analytics

import (
	"context"
	"sort"
	"time"

	"github.com/teampulse/teampulse/pkg/errors"
	"github.com/teampulse/teampulse/pkg/logging"
)

// DueCadenceItems evaluates the owner's active cadence rules against
// historical activity and returns the subset that are due, ordered
// most-overdue first. Ties keep rule input order.
func (e *Engine) DueCadenceItems(ctx context.Context, ownerID string) ([]DueItem, error) {
	if ownerID == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "owner id is required")
	}

	rules, err := e.store.ListActiveCadenceRules(ctx, ownerID)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeStorageRead, "list cadence rules")
	}
	if len(rules) == 0 {
		return []DueItem{}, nil
	}

	employees, err := e.store.ListEmployees(ctx, ownerID)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeStorageRead, "list employees")
	}
	teams, err := e.store.ListTeams(ctx, ownerID)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeStorageRead, "list teams")
	}
	areas, err := e.store.ListWorkAreas(ctx, ownerID)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeStorageRead, "list work areas")
	}

	employeeNames := make(map[string]string, len(employees))
	for _, emp := range employees {
		employeeNames[emp.ID] = emp.Name
	}
	teamNames := make(map[string]string, len(teams))
	for _, team := range teams {
		teamNames[team.ID] = team.Name
	}
	areaNames := make(map[string]string, len(areas))
	for _, area := range areas {
		areaNames[area.ID] = area.Name
	}

	lastCheckIns, err := e.latestOneOnOneDates(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	now := e.now()
	due := make([]DueItem, 0, len(rules))
	for _, rule := range rules {
		targetName, ok := resolveTargetName(rule, employeeNames, teamNames, areaNames)
		if !ok {
			// Target reference no longer resolves (deleted employee,
			// team, or area). Excluded, never an error.
			continue
		}

		item := evaluateRule(rule, targetName, lastCheckIns, now)
		if item != nil {
			due = append(due, *item)
		}
	}

	sort.SliceStable(due, func(i, j int) bool {
		return due[i].DaysOverdue > due[j].DaysOverdue
	})

	e.log.Info(logging.CategoryEngine, "cadence_evaluated", "evaluated cadence rules", map[string]any{
		"owner_id": ownerID,
		"rules":    len(rules),
		"due":      len(due),
	})

	return due, nil
}

// evaluateRule decides whether a single rule is due at now. Returns nil when
// the rule is not yet due.
func evaluateRule(rule CadenceRule, targetName string, lastCheckIns map[string]time.Time, now time.Time) *DueItem {
	frequency := rule.FrequencyDays
	if frequency < 1 {
		// Non-positive frequencies are rejected at rule creation, but an
		// old row could still carry one. Treat as always due.
		frequency = 0
	}

	var lastOccurrence *time.Time
	if rule.Type == RuleTypeRecurringCheckIn && rule.TargetType == TargetTypeEmployee {
		if last, ok := lastCheckIns[rule.TargetID]; ok {
			lastOccurrence = &last
		}
	}
	// Other rule types have no natural occurrence source and default to
	// "never observed".

	var daysSince int
	if lastOccurrence != nil {
		daysSince = wholeDaysBetween(*lastOccurrence, now)
	} else {
		// Never-observed rules surface immediately instead of being
		// silently skipped.
		daysSince = frequency + 1
	}

	if daysSince < frequency {
		return nil
	}

	overdue := daysSince - frequency
	if overdue < 0 {
		overdue = 0
	}

	return &DueItem{
		Rule:           rule,
		TargetName:     targetName,
		DaysSinceLast:  daysSince,
		DaysOverdue:    overdue,
		LastOccurrence: lastOccurrence,
	}
}

// resolveTargetName maps a rule target to a display name. Global rules
// resolve to the literal "All".
func resolveTargetName(rule CadenceRule, employees, teams, areas map[string]string) (string, bool) {
	switch rule.TargetType {
	case TargetTypeGlobal:
		return "All", true
	case TargetTypeEmployee:
		name, ok := employees[rule.TargetID]
		return name, ok
	case TargetTypeTeam:
		name, ok := teams[rule.TargetID]
		return name, ok
	case TargetTypeWorkArea:
		name, ok := areas[rule.TargetID]
		return name, ok
	default:
		return "", false
	}
}

// latestOneOnOneDates returns the most recent one-on-one date per employee.
func (e *Engine) latestOneOnOneDates(ctx context.Context, ownerID string) (map[string]time.Time, error) {
	oneOnOnes, err := e.store.ListOneOnOnes(ctx, ownerID, OneOnOneFilter{})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeStorageRead, "list one-on-ones")
	}
	latest := make(map[string]time.Time)
	for _, o := range oneOnOnes {
		if current, ok := latest[o.EmployeeID]; !ok || o.Date.After(current) {
			latest[o.EmployeeID] = o.Date
		}
	}
	return latest, nil
}

// wholeDaysBetween returns the integer day difference between two instants.
func wholeDaysBetween(from, to time.Time) int {
	if to.Before(from) {
		return 0
	}
	return int(to.Sub(from).Hours() / 24)
}
