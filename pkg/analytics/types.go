// Package analytics implements the engagement analytics engine: cadence
// evaluation, team metrics scoring, and insight categorization over a
// read-only view of the activity store.
package analytics

import "time"

// RecordKind discriminates the closed set of activity record variants.
type RecordKind string

const (
	RecordKindAction   RecordKind = "action"
	RecordKindEvent    RecordKind = "event"
	RecordKindOneOnOne RecordKind = "one_on_one"
)

// ActivityRecord is the common read-side contract shared by actions, events
// and one-on-ones. The engine only ever consumes these; it never creates or
// mutates them.
type ActivityRecord interface {
	RecordKind() RecordKind
	RecordOwner() string
	OccurredAt() time.Time
}

// Action statuses
const (
	ActionStatusPending    = "pending"
	ActionStatusInProgress = "in_progress"
	ActionStatusCompleted  = "completed"
	ActionStatusCancelled  = "cancelled"
)

// ActionTypeDecision marks actions that record a decision; the insight
// categorizer files these under Strategy & Culture.
const ActionTypeDecision = "decision"

// Action is a tracked work item.
type Action struct {
	ID          string     `json:"id"`
	OwnerID     string     `json:"ownerId"`
	TeamID      string     `json:"teamId,omitempty"`
	WorkAreaID  string     `json:"workAreaId,omitempty"`
	EmployeeID  string     `json:"employeeId,omitempty"`
	Title       string     `json:"title"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority,omitempty"`
	Type        string     `json:"type,omitempty"`
	IsBlocker   bool       `json:"isBlocker"`
	CreatedAt   time.Time  `json:"createdAt"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	DueDate     *time.Time `json:"dueDate,omitempty"`

	// Joined reference names, resolved by the store.
	TeamName     string `json:"teamName,omitempty"`
	WorkAreaName string `json:"workAreaName,omitempty"`
	EmployeeName string `json:"employeeName,omitempty"`
}

func (a Action) RecordKind() RecordKind { return RecordKindAction }
func (a Action) RecordOwner() string    { return a.OwnerID }
func (a Action) OccurredAt() time.Time  { return a.CreatedAt }

// Open reports whether the action still counts against the team's plate.
func (a Action) Open() bool {
	return a.Status == ActionStatusPending || a.Status == ActionStatusInProgress
}

// OverdueAt reports whether the action is open with a due date in the past.
func (a Action) OverdueAt(now time.Time) bool {
	return a.Open() && a.DueDate != nil && a.DueDate.Before(now)
}

// Event is a calendar entry (meeting, ritual, social).
type Event struct {
	ID            string    `json:"id"`
	OwnerID       string    `json:"ownerId"`
	TeamID        string    `json:"teamId,omitempty"`
	WorkAreaID    string    `json:"workAreaId,omitempty"`
	Title         string    `json:"title"`
	StartTime     time.Time `json:"startTime"`
	EndTime       time.Time `json:"endTime"`
	EventType     string    `json:"eventType,omitempty"`
	EventCategory string    `json:"eventCategory,omitempty"`
	Participants  []string  `json:"participants,omitempty"`

	TeamName     string `json:"teamName,omitempty"`
	WorkAreaName string `json:"workAreaName,omitempty"`
}

func (e Event) RecordKind() RecordKind { return RecordKindEvent }
func (e Event) RecordOwner() string    { return e.OwnerID }
func (e Event) OccurredAt() time.Time  { return e.StartTime }

// Duration returns the event length, never negative.
func (e Event) Duration() time.Duration {
	d := e.EndTime.Sub(e.StartTime)
	if d < 0 {
		return 0
	}
	return d
}

// OneOnOne is a recorded one-on-one conversation with an employee.
// Mood is on a 1..5 scale.
type OneOnOne struct {
	ID         string    `json:"id"`
	OwnerID    string    `json:"ownerId"`
	EmployeeID string    `json:"employeeId"`
	Date       time.Time `json:"date"`
	Mood       int       `json:"mood"`
	Topics     []string  `json:"topics,omitempty"`
	FollowUps  []string  `json:"followUps,omitempty"`

	EmployeeName string `json:"employeeName,omitempty"`
}

func (o OneOnOne) RecordKind() RecordKind { return RecordKindOneOnOne }
func (o OneOnOne) RecordOwner() string    { return o.OwnerID }
func (o OneOnOne) OccurredAt() time.Time  { return o.Date }

// Cadence rule types
const (
	RuleTypeRecurringCheckIn = "recurring_check_in"
	RuleTypeRetrospective    = "retrospective"
	RuleTypeSocial           = "social"
	RuleTypeCareerChat       = "career_chat"
	RuleTypeCustom           = "custom"
)

// Cadence rule target types
const (
	TargetTypeEmployee = "employee"
	TargetTypeTeam     = "team"
	TargetTypeWorkArea = "work_area"
	TargetTypeGlobal   = "global"
)

// CadenceRule is a user-defined recurrence policy evaluated against
// historical activity.
type CadenceRule struct {
	ID            string    `json:"id"`
	OwnerID       string    `json:"ownerId"`
	Type          string    `json:"type"`
	Name          string    `json:"name"`
	FrequencyDays int       `json:"frequencyDays"`
	TargetType    string    `json:"targetType"`
	TargetID      string    `json:"targetId,omitempty"`
	IsActive      bool      `json:"isActive"`
	CreatedAt     time.Time `json:"createdAt"`
}

// Team is a reference entity. MemberIDs holds the employee ids currently on
// the team.
type Team struct {
	ID        string   `json:"id"`
	OwnerID   string   `json:"ownerId"`
	Name      string   `json:"name"`
	Color     string   `json:"color,omitempty"`
	MemberIDs []string `json:"memberIds,omitempty"`
}

// Employee is a reference entity.
type Employee struct {
	ID      string `json:"id"`
	OwnerID string `json:"ownerId"`
	Name    string `json:"name"`
	Role    string `json:"role,omitempty"`
	TeamID  string `json:"teamId,omitempty"`
}

// WorkArea is a reference entity.
type WorkArea struct {
	ID      string `json:"id"`
	OwnerID string `json:"ownerId"`
	Name    string `json:"name"`
	Color   string `json:"color,omitempty"`
}

// DueItem is one overdue (or due-today) obligation produced by the cadence
// evaluator. It exists only per query and is always re-derivable.
type DueItem struct {
	Rule           CadenceRule `json:"rule"`
	TargetName     string      `json:"resolvedTargetName"`
	DaysSinceLast  int         `json:"daysSinceLastOccurrence"`
	DaysOverdue    int         `json:"daysOverdue"`
	LastOccurrence *time.Time  `json:"lastOccurrenceDate,omitempty"`
}

// MetricsSnapshot is one scored period for one team. Snapshots are appended
// to a history table and never mutated after creation.
type MetricsSnapshot struct {
	ID                  string    `json:"id"`
	OwnerID             string    `json:"ownerId"`
	TeamID              string    `json:"teamId"`
	PeriodStart         time.Time `json:"periodStart"`
	PeriodEnd           time.Time `json:"periodEnd"`
	OpenActions         int       `json:"openActions"`
	CreatedThisPeriod   int       `json:"createdThisPeriod"`
	CompletedThisPeriod int       `json:"completedThisPeriod"`
	OverdueActions      int       `json:"overdueActions"`
	BlockerCount        int       `json:"blockerCount"`
	AvgCompletionDays   *float64  `json:"avgCompletionDays,omitempty"`
	AvgMood             *float64  `json:"avgMood,omitempty"`
	MeetingsHeld        int       `json:"meetingsHeld"`
	OneOnOnesConducted  int       `json:"oneOnOnesConducted"`
	VelocityScore       float64   `json:"velocityScore"`
	HealthScore         float64   `json:"healthScore"`
	EngagementScore     float64   `json:"engagementScore"`
	CreatedAt           time.Time `json:"createdAt"`
}

// TeamMetricsResult pairs a freshly computed snapshot with its trend versus
// the previous snapshot on record.
type TeamMetricsResult struct {
	Snapshot  *MetricsSnapshot `json:"snapshot"`
	Trend     Trend            `json:"trend"`
	Narration string           `json:"narration,omitempty"`
}

// BreakdownEntry is one row of a per-entity aggregate in the dashboard.
type BreakdownEntry struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Total     int    `json:"total"`
	Completed int    `json:"completed"`
	Open      int    `json:"open"`
}

// AllocationBucket is one row of the time-allocation table. Events without
// a work area are reported under the explicit "Unassigned" bucket.
type AllocationBucket struct {
	WorkAreaID string  `json:"workAreaId,omitempty"`
	Name       string  `json:"name"`
	Minutes    int     `json:"minutes"`
	Percent    float64 `json:"percent"`
}

// UnassignedBucketName labels event time not attributed to any work area.
const UnassignedBucketName = "Unassigned"

// DashboardTotals are the raw counts across the whole owner scope.
type DashboardTotals struct {
	OpenActions         int `json:"openActions"`
	CreatedThisPeriod   int `json:"createdThisPeriod"`
	CompletedThisPeriod int `json:"completedThisPeriod"`
	OverdueActions      int `json:"overdueActions"`
	BlockerCount        int `json:"blockerCount"`
	MeetingsHeld        int `json:"meetingsHeld"`
	OneOnOnesConducted  int `json:"oneOnOnesConducted"`
}

// Dashboard is the owner-level aggregate figure set.
type Dashboard struct {
	OwnerID           string             `json:"ownerId"`
	PeriodStart       time.Time          `json:"periodStart"`
	PeriodEnd         time.Time          `json:"periodEnd"`
	Totals            DashboardTotals    `json:"totals"`
	TeamBreakdown     []BreakdownEntry   `json:"teamBreakdown"`
	WorkAreaBreakdown []BreakdownEntry   `json:"workAreaBreakdown"`
	EmployeeBreakdown []BreakdownEntry   `json:"employeeBreakdown"`
	TimeAllocation    []AllocationBucket `json:"timeAllocation"`
	CompletionTrend   Trend              `json:"completionTrend"`
}

// InsightCategory is one of the four fixed responsibility categories.
type InsightCategory string

const (
	CategoryPeople   InsightCategory = "people_individual_care"
	CategoryTeamDev  InsightCategory = "team_development"
	CategoryDelivery InsightCategory = "delivery_execution"
	CategoryStrategy InsightCategory = "strategy_culture"
)

// InsightEvidence is one supporting activity reference on an insight item.
type InsightEvidence struct {
	SourceType RecordKind `json:"sourceType"`
	SourceID   string     `json:"sourceId"`
	Title      string     `json:"title"`
	Date       time.Time  `json:"date"`
}

// InsightItem is a categorized, evidence-backed observation paired with
// static coaching tips. Recomputed fresh on every request; never persisted.
type InsightItem struct {
	ID               string            `json:"id"`
	Title            string            `json:"title"`
	Description      string            `json:"description"`
	Category         InsightCategory   `json:"category"`
	Evidence         []InsightEvidence `json:"evidence"`
	Frequency        int               `json:"frequency"`
	LastActivityDate *time.Time        `json:"lastActivityDate,omitempty"`
	Tips             []string          `json:"tips"`
}

// InsightSummary carries the raw totals behind a categorization run. It is
// always returned, even when every category is empty.
type InsightSummary struct {
	ActionCount      int `json:"actionCount"`
	EventCount       int `json:"eventCount"`
	OneOnOneCount    int `json:"oneOnOneCount"`
	TeamsTouched     int `json:"teamsTouched"`
	EmployeesTouched int `json:"employeesTouched"`
	WorkAreasTouched int `json:"workAreasTouched"`
}

// InsightReport maps each fixed category to its items. Category slices may
// legitimately be empty but are always present in the output.
type InsightReport struct {
	Insights  map[InsightCategory][]InsightItem `json:"insights"`
	Summary   InsightSummary                    `json:"summary"`
	Narration string                            `json:"narration,omitempty"`
}
