package storage

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/teampulse/teampulse/pkg/analytics"
)

// CreateTeam inserts a reference team.
func (s *Store) CreateTeam(ctx context.Context, team *analytics.Team) error {
	if team.ID == "" {
		team.ID = uuid.NewString()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO teams (id, owner_id, name, color) VALUES (?, ?, ?, ?)`,
		team.ID, team.OwnerID, team.Name, nullString(team.Color),
	)
	if err != nil {
		return fmt.Errorf("insert team: %w", err)
	}
	return nil
}

// CreateEmployee inserts a reference employee.
func (s *Store) CreateEmployee(ctx context.Context, employee *analytics.Employee) error {
	if employee.ID == "" {
		employee.ID = uuid.NewString()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO employees (id, owner_id, name, role, team_id) VALUES (?, ?, ?, ?, ?)`,
		employee.ID, employee.OwnerID, employee.Name,
		nullString(employee.Role), nullString(employee.TeamID),
	)
	if err != nil {
		return fmt.Errorf("insert employee: %w", err)
	}
	return nil
}

// CreateWorkArea inserts a reference work area.
func (s *Store) CreateWorkArea(ctx context.Context, area *analytics.WorkArea) error {
	if area.ID == "" {
		area.ID = uuid.NewString()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO work_areas (id, owner_id, name, color) VALUES (?, ?, ?, ?)`,
		area.ID, area.OwnerID, area.Name, nullString(area.Color),
	)
	if err != nil {
		return fmt.Errorf("insert work area: %w", err)
	}
	return nil
}

// ListTeams returns the owner's teams by name, with member ids populated
// from current employee assignments.
func (s *Store) ListTeams(ctx context.Context, ownerID string) ([]analytics.Team, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, owner_id, name, COALESCE(color, '') FROM teams WHERE owner_id = ? ORDER BY name, id`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("query teams: %w", err)
	}
	defer rows.Close()

	teams := make([]analytics.Team, 0)
	index := make(map[string]int)
	for rows.Next() {
		var t analytics.Team
		if err := rows.Scan(&t.ID, &t.OwnerID, &t.Name, &t.Color); err != nil {
			return nil, fmt.Errorf("scan team: %w", err)
		}
		index[t.ID] = len(teams)
		teams = append(teams, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	members, err := s.db.QueryContext(ctx,
		`SELECT team_id, id FROM employees WHERE owner_id = ? AND team_id IS NOT NULL ORDER BY id`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("query team members: %w", err)
	}
	defer members.Close()

	for members.Next() {
		var teamID, employeeID string
		if err := members.Scan(&teamID, &employeeID); err != nil {
			return nil, fmt.Errorf("scan team member: %w", err)
		}
		if i, ok := index[teamID]; ok {
			teams[i].MemberIDs = append(teams[i].MemberIDs, employeeID)
		}
	}

	return teams, members.Err()
}

// ListEmployees returns the owner's employees by name.
func (s *Store) ListEmployees(ctx context.Context, ownerID string) ([]analytics.Employee, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, owner_id, name, COALESCE(role, ''), COALESCE(team_id, '')
		 FROM employees WHERE owner_id = ? ORDER BY name, id`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("query employees: %w", err)
	}
	defer rows.Close()

	employees := make([]analytics.Employee, 0)
	for rows.Next() {
		var e analytics.Employee
		if err := rows.Scan(&e.ID, &e.OwnerID, &e.Name, &e.Role, &e.TeamID); err != nil {
			return nil, fmt.Errorf("scan employee: %w", err)
		}
		employees = append(employees, e)
	}

	return employees, rows.Err()
}

// ListWorkAreas returns the owner's work areas by name.
func (s *Store) ListWorkAreas(ctx context.Context, ownerID string) ([]analytics.WorkArea, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, owner_id, name, COALESCE(color, '') FROM work_areas WHERE owner_id = ? ORDER BY name, id`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("query work areas: %w", err)
	}
	defer rows.Close()

	areas := make([]analytics.WorkArea, 0)
	for rows.Next() {
		var w analytics.WorkArea
		if err := rows.Scan(&w.ID, &w.OwnerID, &w.Name, &w.Color); err != nil {
			return nil, fmt.Errorf("scan work area: %w", err)
		}
		areas = append(areas, w)
	}

	return areas, rows.Err()
}
