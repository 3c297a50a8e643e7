package payroll

import (
	"context"
	"fmt"
	"strings"
)

type CreateRuleInput struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Priority    int        `json:"priority"`
	Conditions  Conditions `json:"conditions"`
	Actions     Actions    `json:"actions"`
}

type UpdateRuleInput struct {
	Name        *string     `json:"name,omitempty"`
	Description *string     `json:"description,omitempty"`
	Priority    *int        `json:"priority,omitempty"`
	IsActive    *bool       `json:"is_active,omitempty"`
	Conditions  *Conditions `json:"conditions,omitempty"`
	Actions     *Actions    `json:"actions,omitempty"`
}

func (s *Service) ListRules(ctx context.Context, status string, limit, offset int) ([]PayRule, int, error) {
	return s.store.ListRules(ctx, status, limit, offset)
}

func (s *Service) GetRule(ctx context.Context, id int64) (PayRule, error) {
	return s.store.GetRule(ctx, id)
}

func (s *Service) CreateRule(ctx context.Context, input CreateRuleInput, createdBy int64) (PayRule, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return PayRule{}, ErrRuleNameRequired
	}
	if input.Conditions.Empty() {
		return PayRule{}, ErrNoConditions
	}
	if input.Actions.Empty() {
		return PayRule{}, ErrNoActions
	}

	exists, err := s.store.RuleNameExists(ctx, name, 0)
	if err != nil {
		return PayRule{}, fmt.Errorf("check rule name: %w", err)
	}
	if exists {
		return PayRule{}, fmt.Errorf("%w: %q", ErrDuplicateRuleName, name)
	}

	rule := PayRule{
		Name:        name,
		Description: input.Description,
		Priority:    input.Priority,
		Conditions:  input.Conditions,
		Actions:     input.Actions,
		IsActive:    true,
		CreatedByID: createdBy,
	}
	return s.store.CreateRule(ctx, rule)
}

func (s *Service) UpdateRule(ctx context.Context, id int64, input UpdateRuleInput) (PayRule, error) {
	rule, err := s.store.GetRule(ctx, id)
	if err != nil {
		return PayRule{}, err
	}

	if input.Conditions != nil {
		if input.Conditions.Empty() {
			return PayRule{}, ErrNoConditions
		}
		rule.Conditions = *input.Conditions
	}
	if input.Actions != nil {
		if input.Actions.Empty() {
			return PayRule{}, ErrNoActions
		}
		rule.Actions = *input.Actions
	}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return PayRule{}, ErrRuleNameRequired
		}
		if name != rule.Name {
			exists, err := s.store.RuleNameExists(ctx, name, id)
			if err != nil {
				return PayRule{}, fmt.Errorf("check rule name: %w", err)
			}
			if exists {
				return PayRule{}, fmt.Errorf("%w: %q", ErrDuplicateRuleName, name)
			}
		}
		rule.Name = name
	}
	if input.Description != nil {
		rule.Description = *input.Description
	}
	if input.Priority != nil {
		rule.Priority = *input.Priority
	}
	if input.IsActive != nil {
		rule.IsActive = *input.IsActive
	}

	if err := s.store.UpdateRule(ctx, rule); err != nil {
		return PayRule{}, fmt.Errorf("update rule %d: %w", id, err)
	}
	return s.store.GetRule(ctx, id)
}

// DeleteRule refuses to remove a rule that saved calculations still reference;
// deactivation is the sanctioned path for retiring such rules.
func (s *Service) DeleteRule(ctx context.Context, id int64) error {
	rule, err := s.store.GetRule(ctx, id)
	if err != nil {
		return err
	}

	count, err := s.store.CountCalculationsUsingRule(ctx, id)
	if err != nil {
		return fmt.Errorf("count calculations for rule %d: %w", id, err)
	}
	if count > 0 {
		return fmt.Errorf("%w: cannot delete rule %q - it has been used in %d pay calculations, consider deactivating instead", ErrRuleInUse, rule.Name, count)
	}

	return s.store.DeleteRule(ctx, id)
}

func (s *Service) ToggleRule(ctx context.Context, id int64) (PayRule, error) {
	rule, err := s.store.GetRule(ctx, id)
	if err != nil {
		return PayRule{}, err
	}
	if err := s.store.SetRuleActive(ctx, id, !rule.IsActive); err != nil {
		return PayRule{}, fmt.Errorf("toggle rule %d: %w", id, err)
	}
	rule.IsActive = !rule.IsActive
	return rule, nil
}

// ReorderRules updates priorities atomically. Priority is advisory display
// ordering only; the engine applies every matching rule regardless.
func (s *Service) ReorderRules(ctx context.Context, orders []RuleOrder) error {
	if len(orders) == 0 {
		return nil
	}
	return s.store.UpdateRulePriorities(ctx, orders)
}
