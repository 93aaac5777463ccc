package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/teampulse/teampulse/pkg/analytics"
)

// CreateEvent inserts a calendar event. Participants are stored as a JSON
// array in a TEXT column.
func (s *Store) CreateEvent(ctx context.Context, event *analytics.Event) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}

	participants, err := marshalList(event.Participants)
	if err != nil {
		return fmt.Errorf("encode participants: %w", err)
	}

	query := `
		INSERT INTO events (id, owner_id, team_id, work_area_id, title, start_time, end_time,
		                    event_type, event_category, participants)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = s.db.ExecContext(ctx, query,
		event.ID,
		event.OwnerID,
		nullString(event.TeamID),
		nullString(event.WorkAreaID),
		event.Title,
		event.StartTime,
		event.EndTime,
		nullString(event.EventType),
		nullString(event.EventCategory),
		participants,
	)
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

// ListEvents returns the owner's events matching the filter, most recent
// start time first. Window bounds are inclusive on both ends.
func (s *Store) ListEvents(ctx context.Context, ownerID string, filter analytics.EventFilter) ([]analytics.Event, error) {
	query := `
		SELECT e.id, e.owner_id,
		       COALESCE(e.team_id, ''), COALESCE(e.work_area_id, ''),
		       e.title, e.start_time, e.end_time,
		       COALESCE(e.event_type, ''), COALESCE(e.event_category, ''), e.participants,
		       COALESCE(t.name, ''), COALESCE(w.name, '')
		FROM events e
		LEFT JOIN teams t ON t.id = e.team_id
		LEFT JOIN work_areas w ON w.id = e.work_area_id
		WHERE e.owner_id = ?
	`
	args := []any{ownerID}

	if filter.TeamID != "" {
		query += " AND e.team_id = ?"
		args = append(args, filter.TeamID)
	}
	if filter.Within != nil {
		query += " AND e.start_time >= ? AND e.start_time <= ?"
		args = append(args, filter.Within.Start, filter.Within.End)
	}
	query += " ORDER BY e.start_time DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	events := make([]analytics.Event, 0)
	for rows.Next() {
		var e analytics.Event
		var participants sql.NullString
		if err := rows.Scan(
			&e.ID,
			&e.OwnerID,
			&e.TeamID,
			&e.WorkAreaID,
			&e.Title,
			&e.StartTime,
			&e.EndTime,
			&e.EventType,
			&e.EventCategory,
			&participants,
			&e.TeamName,
			&e.WorkAreaName,
		); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		if e.Participants, err = unmarshalList(participants); err != nil {
			return nil, fmt.Errorf("decode participants for event %s: %w", e.ID, err)
		}
		events = append(events, e)
	}

	return events, rows.Err()
}

// marshalList encodes a string slice for a TEXT column, NULL when empty.
func marshalList(items []string) (any, error) {
	if len(items) == 0 {
		return nil, nil
	}
	data, err := json.Marshal(items)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// unmarshalList decodes a JSON array TEXT column, nil when NULL or empty.
func unmarshalList(col sql.NullString) ([]string, error) {
	if !col.Valid || col.String == "" {
		return nil, nil
	}
	var items []string
	if err := json.Unmarshal([]byte(col.String), &items); err != nil {
		return nil, err
	}
	return items, nil
}
