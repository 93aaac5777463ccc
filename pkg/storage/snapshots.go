package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/teampulse/teampulse/pkg/analytics"
	"github.com/teampulse/teampulse/pkg/telemetry"
)

// SaveSnapshot appends one computed snapshot to the history. Snapshot ids
// are ULIDs so the history sorts lexicographically by creation time.
func (s *Store) SaveSnapshot(ctx context.Context, snapshot *analytics.MetricsSnapshot) error {
	if snapshot.ID == "" {
		snapshot.ID = ulid.Make().String()
	}
	if snapshot.CreatedAt.IsZero() {
		snapshot.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO metrics_snapshots (id, owner_id, team_id, period_start, period_end,
		                               open_actions, created_this_period, completed_this_period,
		                               overdue_actions, blocker_count, avg_completion_days, avg_mood,
		                               meetings_held, one_on_ones_conducted,
		                               velocity_score, health_score, engagement_score, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, query,
		snapshot.ID,
		snapshot.OwnerID,
		snapshot.TeamID,
		snapshot.PeriodStart,
		snapshot.PeriodEnd,
		snapshot.OpenActions,
		snapshot.CreatedThisPeriod,
		snapshot.CompletedThisPeriod,
		snapshot.OverdueActions,
		snapshot.BlockerCount,
		nullFloat(snapshot.AvgCompletionDays),
		nullFloat(snapshot.AvgMood),
		snapshot.MeetingsHeld,
		snapshot.OneOnOnesConducted,
		snapshot.VelocityScore,
		snapshot.HealthScore,
		snapshot.EngagementScore,
		snapshot.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert snapshot: %w", err)
	}
	telemetry.SnapshotWrites.Inc()
	return nil
}

// LatestSnapshotBefore returns the most recent snapshot for the team created
// strictly before the given time, or nil when the history is empty.
func (s *Store) LatestSnapshotBefore(ctx context.Context, ownerID, teamID string, before time.Time) (*analytics.MetricsSnapshot, error) {
	query := `
		SELECT id, owner_id, team_id, period_start, period_end,
		       open_actions, created_this_period, completed_this_period,
		       overdue_actions, blocker_count, avg_completion_days, avg_mood,
		       meetings_held, one_on_ones_conducted,
		       velocity_score, health_score, engagement_score, created_at
		FROM metrics_snapshots
		WHERE owner_id = ? AND team_id = ? AND created_at < ?
		ORDER BY created_at DESC, id DESC
		LIMIT 1
	`
	var snap analytics.MetricsSnapshot
	var avgCompletion, avgMood sql.NullFloat64
	err := s.db.QueryRowContext(ctx, query, ownerID, teamID, before).Scan(
		&snap.ID,
		&snap.OwnerID,
		&snap.TeamID,
		&snap.PeriodStart,
		&snap.PeriodEnd,
		&snap.OpenActions,
		&snap.CreatedThisPeriod,
		&snap.CompletedThisPeriod,
		&snap.OverdueActions,
		&snap.BlockerCount,
		&avgCompletion,
		&avgMood,
		&snap.MeetingsHeld,
		&snap.OneOnOnesConducted,
		&snap.VelocityScore,
		&snap.HealthScore,
		&snap.EngagementScore,
		&snap.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query latest snapshot: %w", err)
	}

	snap.AvgCompletionDays = scanNullFloat(avgCompletion)
	snap.AvgMood = scanNullFloat(avgMood)
	return &snap, nil
}

// nullFloat maps a nil pointer to NULL.
func nullFloat(f *float64) any {
	if f == nil {
		return nil
	}
	return *f
}
