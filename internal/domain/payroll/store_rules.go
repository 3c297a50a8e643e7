package payroll

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"
)

const ruleColumns = `id, name, COALESCE(description, ''), priority, conditions, actions, is_active, COALESCE(created_by_id, 0), created_at, updated_at`

func scanRule(row pgx.Row) (PayRule, error) {
	var rule PayRule
	var conditionsJSON, actionsJSON []byte
	if err := row.Scan(&rule.ID, &rule.Name, &rule.Description, &rule.Priority,
		&conditionsJSON, &actionsJSON, &rule.IsActive, &rule.CreatedByID,
		&rule.CreatedAt, &rule.UpdatedAt); err != nil {
		return PayRule{}, err
	}
	if err := json.Unmarshal(conditionsJSON, &rule.Conditions); err != nil {
		return PayRule{}, fmt.Errorf("decode conditions for rule %d: %w", rule.ID, err)
	}
	if err := json.Unmarshal(actionsJSON, &rule.Actions); err != nil {
		return PayRule{}, fmt.Errorf("decode actions for rule %d: %w", rule.ID, err)
	}
	return rule, nil
}

func (s *Store) ListRules(ctx context.Context, status string, limit, offset int) ([]PayRule, int, error) {
	where := ""
	args := []any{}
	switch status {
	case CodeStatusActive:
		where = " WHERE is_active = true"
	case CodeStatusInactive:
		where = " WHERE is_active = false"
	}

	var total int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM pay_rules"+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := "SELECT " + ruleColumns + " FROM pay_rules" + where +
		" ORDER BY priority ASC, created_at DESC" +
		" LIMIT $" + strconv.Itoa(len(args)+1) + " OFFSET $" + strconv.Itoa(len(args)+2)
	args = append(args, limit, offset)

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var rules []PayRule
	for rows.Next() {
		rule, err := scanRule(rows)
		if err != nil {
			return nil, 0, err
		}
		rules = append(rules, rule)
	}
	return rules, total, rows.Err()
}

func (s *Store) GetRule(ctx context.Context, id int64) (PayRule, error) {
	rule, err := scanRule(s.DB.QueryRow(ctx,
		"SELECT "+ruleColumns+" FROM pay_rules WHERE id = $1", id))
	if errors.Is(err, pgx.ErrNoRows) {
		return PayRule{}, fmt.Errorf("%w: id %d", ErrRuleNotFound, id)
	}
	return rule, err
}

func (s *Store) RuleNameExists(ctx context.Context, name string, excludeID int64) (bool, error) {
	var exists bool
	err := s.DB.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM pay_rules WHERE name = $1 AND id <> $2)",
		name, excludeID).Scan(&exists)
	return exists, err
}

func (s *Store) CreateRule(ctx context.Context, rule PayRule) (PayRule, error) {
	conditionsJSON, err := json.Marshal(rule.Conditions)
	if err != nil {
		return PayRule{}, err
	}
	actionsJSON, err := json.Marshal(rule.Actions)
	if err != nil {
		return PayRule{}, err
	}

	err = s.DB.QueryRow(ctx, `
    INSERT INTO pay_rules (name, description, priority, conditions, actions, is_active, created_by_id)
    VALUES ($1,$2,$3,$4,$5,$6,NULLIF($7, 0))
    RETURNING id, created_at, updated_at
  `, rule.Name, rule.Description, rule.Priority, conditionsJSON, actionsJSON, rule.IsActive, rule.CreatedByID).
		Scan(&rule.ID, &rule.CreatedAt, &rule.UpdatedAt)
	if err != nil {
		return PayRule{}, err
	}
	return rule, nil
}

func (s *Store) UpdateRule(ctx context.Context, rule PayRule) error {
	conditionsJSON, err := json.Marshal(rule.Conditions)
	if err != nil {
		return err
	}
	actionsJSON, err := json.Marshal(rule.Actions)
	if err != nil {
		return err
	}

	_, err = s.DB.Exec(ctx, `
    UPDATE pay_rules
    SET name = $1, description = $2, priority = $3, conditions = $4, actions = $5, is_active = $6, updated_at = now()
    WHERE id = $7
  `, rule.Name, rule.Description, rule.Priority, conditionsJSON, actionsJSON, rule.IsActive, rule.ID)
	return err
}

func (s *Store) DeleteRule(ctx context.Context, id int64) error {
	tag, err := s.DB.Exec(ctx, "DELETE FROM pay_rules WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: id %d", ErrRuleNotFound, id)
	}
	return nil
}

func (s *Store) SetRuleActive(ctx context.Context, id int64, active bool) error {
	tag, err := s.DB.Exec(ctx,
		"UPDATE pay_rules SET is_active = $1, updated_at = now() WHERE id = $2", active, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: id %d", ErrRuleNotFound, id)
	}
	return nil
}

// UpdateRulePriorities applies a reorder in one transaction so a partial
// update never leaves the display order half-shuffled.
func (s *Store) UpdateRulePriorities(ctx context.Context, orders []RuleOrder) error {
	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for _, order := range orders {
		if _, err := tx.Exec(ctx,
			"UPDATE pay_rules SET priority = $1, updated_at = now() WHERE id = $2",
			order.Priority, order.ID); err != nil {
			return fmt.Errorf("reorder rule %d: %w", order.ID, err)
		}
	}
	return tx.Commit(ctx)
}

func (s *Store) FindActiveRules(ctx context.Context) ([]PayRule, error) {
	rows, err := s.DB.Query(ctx,
		"SELECT "+ruleColumns+" FROM pay_rules WHERE is_active = true ORDER BY priority ASC, created_at DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rules []PayRule
	for rows.Next() {
		rule, err := scanRule(rows)
		if err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}
	return rules, rows.Err()
}

func (s *Store) CountCalculationsUsingRule(ctx context.Context, ruleID int64) (int, error) {
	var count int
	err := s.DB.QueryRow(ctx,
		"SELECT COUNT(DISTINCT calculation_id) FROM pay_calculation_rules WHERE rule_id = $1",
		ruleID).Scan(&count)
	return count, err
}
