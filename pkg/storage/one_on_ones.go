package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/teampulse/teampulse/pkg/analytics"
)

// CreateOneOnOne inserts a recorded one-on-one conversation.
func (s *Store) CreateOneOnOne(ctx context.Context, record *analytics.OneOnOne) error {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.Mood == 0 {
		record.Mood = 3
	}

	topics, err := marshalList(record.Topics)
	if err != nil {
		return fmt.Errorf("encode topics: %w", err)
	}
	followUps, err := marshalList(record.FollowUps)
	if err != nil {
		return fmt.Errorf("encode follow-ups: %w", err)
	}

	query := `
		INSERT INTO one_on_ones (id, owner_id, employee_id, date, mood, topics, follow_ups)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err = s.db.ExecContext(ctx, query,
		record.ID,
		record.OwnerID,
		record.EmployeeID,
		record.Date,
		record.Mood,
		topics,
		followUps,
	)
	if err != nil {
		return fmt.Errorf("insert one-on-one: %w", err)
	}
	return nil
}

// ListOneOnOnes returns the owner's one-on-ones matching the filter, most
// recent first. A TeamID filter resolves through the employee's current team.
func (s *Store) ListOneOnOnes(ctx context.Context, ownerID string, filter analytics.OneOnOneFilter) ([]analytics.OneOnOne, error) {
	query := `
		SELECT o.id, o.owner_id, o.employee_id, o.date, o.mood, o.topics, o.follow_ups,
		       COALESCE(e.name, '')
		FROM one_on_ones o
		LEFT JOIN employees e ON e.id = o.employee_id
		WHERE o.owner_id = ?
	`
	args := []any{ownerID}

	if filter.EmployeeID != "" {
		query += " AND o.employee_id = ?"
		args = append(args, filter.EmployeeID)
	}
	if filter.TeamID != "" {
		query += " AND e.team_id = ?"
		args = append(args, filter.TeamID)
	}
	if filter.Within != nil {
		query += " AND o.date >= ? AND o.date <= ?"
		args = append(args, filter.Within.Start, filter.Within.End)
	}
	query += " ORDER BY o.date DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query one-on-ones: %w", err)
	}
	defer rows.Close()

	records := make([]analytics.OneOnOne, 0)
	for rows.Next() {
		var o analytics.OneOnOne
		var topics, followUps sql.NullString
		if err := rows.Scan(
			&o.ID,
			&o.OwnerID,
			&o.EmployeeID,
			&o.Date,
			&o.Mood,
			&topics,
			&followUps,
			&o.EmployeeName,
		); err != nil {
			return nil, fmt.Errorf("scan one-on-one: %w", err)
		}
		if o.Topics, err = unmarshalList(topics); err != nil {
			return nil, fmt.Errorf("decode topics for one-on-one %s: %w", o.ID, err)
		}
		if o.FollowUps, err = unmarshalList(followUps); err != nil {
			return nil, fmt.Errorf("decode follow-ups for one-on-one %s: %w", o.ID, err)
		}
		records = append(records, o)
	}

	return records, rows.Err()
}
