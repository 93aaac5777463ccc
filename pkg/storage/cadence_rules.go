package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/teampulse/teampulse/pkg/analytics"
)

// CreateCadenceRule inserts a cadence rule. New rules start active.
func (s *Store) CreateCadenceRule(ctx context.Context, rule *analytics.CadenceRule) error {
	if rule.ID == "" {
		rule.ID = uuid.NewString()
	}
	if rule.CreatedAt.IsZero() {
		rule.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO cadence_rules (id, owner_id, rule_type, name, frequency_days,
		                           target_type, target_id, is_active, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, query,
		rule.ID,
		rule.OwnerID,
		rule.Type,
		rule.Name,
		rule.FrequencyDays,
		rule.TargetType,
		nullString(rule.TargetID),
		rule.IsActive,
		rule.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert cadence rule: %w", err)
	}
	return nil
}

// SetCadenceRuleActive toggles a rule without deleting its history.
func (s *Store) SetCadenceRuleActive(ctx context.Context, id string, active bool) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE cadence_rules SET is_active = ? WHERE id = ?`,
		active, id,
	)
	if err != nil {
		return fmt.Errorf("update cadence rule: %w", err)
	}
	return nil
}

// ListActiveCadenceRules returns the owner's active rules in creation order.
func (s *Store) ListActiveCadenceRules(ctx context.Context, ownerID string) ([]analytics.CadenceRule, error) {
	query := `
		SELECT id, owner_id, rule_type, name, frequency_days,
		       target_type, COALESCE(target_id, ''), is_active, created_at
		FROM cadence_rules
		WHERE owner_id = ? AND is_active = TRUE
		ORDER BY created_at, id
	`
	rows, err := s.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("query cadence rules: %w", err)
	}
	defer rows.Close()

	rules := make([]analytics.CadenceRule, 0)
	for rows.Next() {
		var r analytics.CadenceRule
		if err := rows.Scan(
			&r.ID,
			&r.OwnerID,
			&r.Type,
			&r.Name,
			&r.FrequencyDays,
			&r.TargetType,
			&r.TargetID,
			&r.IsActive,
			&r.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan cadence rule: %w", err)
		}
		rules = append(rules, r)
	}

	return rules, rows.Err()
}
