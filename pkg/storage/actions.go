package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/teampulse/teampulse/pkg/analytics"
)

// CreateAction inserts a new action. A missing id is assigned a UUID.
func (s *Store) CreateAction(ctx context.Context, action *analytics.Action) error {
	if action.ID == "" {
		action.ID = uuid.NewString()
	}
	if action.CreatedAt.IsZero() {
		action.CreatedAt = time.Now()
	}
	if action.Status == "" {
		action.Status = analytics.ActionStatusPending
	}

	query := `
		INSERT INTO actions (id, owner_id, team_id, work_area_id, employee_id, title, status,
		                     priority, action_type, is_blocker, created_at, completed_at, due_date)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, query,
		action.ID,
		action.OwnerID,
		nullString(action.TeamID),
		nullString(action.WorkAreaID),
		nullString(action.EmployeeID),
		action.Title,
		action.Status,
		nullString(action.Priority),
		nullString(action.Type),
		action.IsBlocker,
		action.CreatedAt,
		nullTime(action.CompletedAt),
		nullTime(action.DueDate),
	)
	if err != nil {
		return fmt.Errorf("insert action: %w", err)
	}
	return nil
}

// UpdateActionStatus moves an action through its lifecycle, stamping
// completed_at when it reaches a terminal completed state.
func (s *Store) UpdateActionStatus(ctx context.Context, id, status string) error {
	var completedAt any
	if status == analytics.ActionStatusCompleted {
		completedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx,
		`UPDATE actions SET status = ?, completed_at = ? WHERE id = ?`,
		status, completedAt, id,
	)
	if err != nil {
		return fmt.Errorf("update action status: %w", err)
	}
	return nil
}

// ListActions returns the owner's actions matching the filter, newest first,
// with team/work-area/employee names joined in.
func (s *Store) ListActions(ctx context.Context, ownerID string, filter analytics.ActionFilter) ([]analytics.Action, error) {
	query := `
		SELECT a.id, a.owner_id,
		       COALESCE(a.team_id, ''), COALESCE(a.work_area_id, ''), COALESCE(a.employee_id, ''),
		       a.title, a.status, COALESCE(a.priority, ''), COALESCE(a.action_type, ''),
		       a.is_blocker, a.created_at, a.completed_at, a.due_date,
		       COALESCE(t.name, ''), COALESCE(w.name, ''), COALESCE(e.name, '')
		FROM actions a
		LEFT JOIN teams t ON t.id = a.team_id
		LEFT JOIN work_areas w ON w.id = a.work_area_id
		LEFT JOIN employees e ON e.id = a.employee_id
		WHERE a.owner_id = ?
	`
	args := []any{ownerID}

	if filter.TeamID != "" {
		query += " AND a.team_id = ?"
		args = append(args, filter.TeamID)
	}
	if filter.WorkAreaID != "" {
		query += " AND a.work_area_id = ?"
		args = append(args, filter.WorkAreaID)
	}
	if filter.CreatedWithin != nil {
		query += " AND a.created_at >= ? AND a.created_at <= ?"
		args = append(args, filter.CreatedWithin.Start, filter.CreatedWithin.End)
	}
	query += " ORDER BY a.created_at DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query actions: %w", err)
	}
	defer rows.Close()

	actions := make([]analytics.Action, 0)
	for rows.Next() {
		var a analytics.Action
		var completedAt, dueDate sql.NullTime
		if err := rows.Scan(
			&a.ID,
			&a.OwnerID,
			&a.TeamID,
			&a.WorkAreaID,
			&a.EmployeeID,
			&a.Title,
			&a.Status,
			&a.Priority,
			&a.Type,
			&a.IsBlocker,
			&a.CreatedAt,
			&completedAt,
			&dueDate,
			&a.TeamName,
			&a.WorkAreaName,
			&a.EmployeeName,
		); err != nil {
			return nil, fmt.Errorf("scan action: %w", err)
		}
		a.CompletedAt = scanNullTime(completedAt)
		a.DueDate = scanNullTime(dueDate)
		actions = append(actions, a)
	}

	return actions, rows.Err()
}
