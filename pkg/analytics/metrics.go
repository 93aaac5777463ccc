package analytics

import (
	"context"

	"github.com/teampulse/teampulse/pkg/errors"
	"github.com/teampulse/teampulse/pkg/logging"
)

// Scoring constants. The bi-weekly one-on-one target (members / 2 expected
// per week) matches the original scoring and is kept as-is; tunable rather
// than derived.
const (
	moodPenaltyPerPoint    = 10.0
	blockerPenalty         = 10.0
	overduePenalty         = 5.0
	expectedCheckInDivisor = 2.0
)

// TeamMetrics computes one MetricsSnapshot for the team over the window and
// appends it to the snapshot history. A zero window defaults to the current
// Monday-start week. Persistence failure degrades to "computed but not
// recorded" and is never surfaced to the caller.
func (e *Engine) TeamMetrics(ctx context.Context, ownerID, teamID string, window Window) (*TeamMetricsResult, error) {
	if ownerID == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "owner id is required")
	}
	if teamID == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "team id is required")
	}

	now := e.now()
	if window.Start.IsZero() && window.End.IsZero() {
		window = CurrentWeek(now)
	}
	if err := window.Validate(); err != nil {
		return nil, err
	}

	teams, err := e.store.ListTeams(ctx, ownerID)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeStorageRead, "list teams")
	}
	var team *Team
	for i := range teams {
		if teams[i].ID == teamID {
			team = &teams[i]
			break
		}
	}
	if team == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "unknown team").WithContext("team_id", teamID)
	}

	actions, err := e.store.ListActions(ctx, ownerID, ActionFilter{TeamID: teamID})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeStorageRead, "list actions")
	}
	events, err := e.store.ListEvents(ctx, ownerID, EventFilter{TeamID: teamID, Within: &window})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeStorageRead, "list events")
	}
	oneOnOnes, err := e.store.ListOneOnOnes(ctx, ownerID, OneOnOneFilter{TeamID: teamID, Within: &window})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeStorageRead, "list one-on-ones")
	}

	snapshot := &MetricsSnapshot{
		OwnerID:            ownerID,
		TeamID:             teamID,
		PeriodStart:        window.Start,
		PeriodEnd:          window.End,
		MeetingsHeld:       len(events),
		OneOnOnesConducted: len(oneOnOnes),
		CreatedAt:          now,
	}

	var completionDayTotal int
	var completedWithDates int
	for _, action := range actions {
		if action.Open() {
			snapshot.OpenActions++
			if action.IsBlocker {
				snapshot.BlockerCount++
			}
			if action.OverdueAt(now) {
				snapshot.OverdueActions++
			}
		}
		if window.Contains(action.CreatedAt) {
			snapshot.CreatedThisPeriod++
		}
		if action.CompletedAt != nil && window.Contains(*action.CompletedAt) {
			snapshot.CompletedThisPeriod++
			completionDayTotal += wholeDaysBetween(action.CreatedAt, *action.CompletedAt)
			completedWithDates++
		}
	}

	if completedWithDates > 0 {
		avg := float64(completionDayTotal) / float64(completedWithDates)
		snapshot.AvgCompletionDays = &avg
	}

	var moodTotal int
	var moodCount int
	for _, o := range oneOnOnes {
		if o.Mood >= 1 {
			moodTotal += o.Mood
			moodCount++
		}
	}
	if moodCount > 0 {
		avg := float64(moodTotal) / float64(moodCount)
		snapshot.AvgMood = &avg
	}

	snapshot.VelocityScore = velocityScore(snapshot.CreatedThisPeriod, snapshot.CompletedThisPeriod)
	snapshot.HealthScore = healthScore(snapshot.AvgMood, snapshot.BlockerCount, snapshot.OverdueActions)
	snapshot.EngagementScore = engagementScore(len(team.MemberIDs), snapshot.OneOnOnesConducted)

	trend := TrendStable
	prior, err := e.store.LatestSnapshotBefore(ctx, ownerID, teamID, now)
	if err != nil {
		// Trend history is best-effort; a read failure leaves the trend
		// stable rather than failing the computation.
		e.log.Warn(logging.CategoryEngine, "snapshot_history_unavailable", err.Error(), map[string]any{
			"team_id": teamID,
		})
	} else if prior != nil {
		trend = classifyTrend(snapshot.HealthScore, prior.HealthScore, snapshotTrendBand)
	}

	if err := e.store.SaveSnapshot(ctx, snapshot); err != nil {
		e.log.Error(logging.CategoryStorage, "snapshot_persist_failed", err.Error(), map[string]any{
			"owner_id": ownerID,
			"team_id":  teamID,
		})
	}

	e.log.Info(logging.CategoryEngine, "team_metrics_scored", "computed team metrics", map[string]any{
		"team_id":    teamID,
		"health":     snapshot.HealthScore,
		"velocity":   snapshot.VelocityScore,
		"engagement": snapshot.EngagementScore,
	})

	return &TeamMetricsResult{Snapshot: snapshot, Trend: trend}, nil
}

// velocityScore is completed/created for the period. Completion-only weeks
// score 1; zero-activity weeks score 0 rather than reading as failures.
func velocityScore(created, completed int) float64 {
	if created > 0 {
		return float64(completed) / float64(created)
	}
	if completed > 0 {
		return 1
	}
	return 0
}

// healthScore starts at 100 and is penalized by low mood, open blockers and
// overdue actions, clamped to [0, 100].
func healthScore(avgMood *float64, blockers, overdue int) float64 {
	score := 100.0
	if avgMood != nil {
		score -= (5 - *avgMood) * moodPenaltyPerPoint
	}
	score -= float64(blockers) * blockerPenalty
	score -= float64(overdue) * overduePenalty
	return clamp(score, 0, 100)
}

// engagementScore is the actual-to-expected one-on-one ratio, capped at 100.
// A memberless team is trivially fully engaged.
func engagementScore(memberCount, conducted int) float64 {
	expected := float64(memberCount) / expectedCheckInDivisor
	if expected == 0 {
		return 100
	}
	score := float64(conducted) / expected * 100
	if score > 100 {
		return 100
	}
	return score
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
