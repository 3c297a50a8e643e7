package payroll

import (
	"context"
	"fmt"
	"strings"
)

type CreatePayCodeInput struct {
	Code          string         `json:"code"`
	Description   string         `json:"description"`
	IsAbsenceCode bool           `json:"is_absence_code"`
	Configuration map[string]any `json:"configuration,omitempty"`
}

type UpdatePayCodeInput struct {
	Description   *string        `json:"description,omitempty"`
	IsActive      *bool          `json:"is_active,omitempty"`
	Configuration map[string]any `json:"configuration,omitempty"`
}

func (s *Service) ListPayCodes(ctx context.Context, codeType, status string, limit, offset int) ([]PayCode, int, error) {
	return s.store.ListPayCodes(ctx, codeType, status, limit, offset)
}

// GetPayCode returns the code and the number of time entries referencing it.
func (s *Service) GetPayCode(ctx context.Context, id int64) (PayCode, int, error) {
	code, err := s.store.GetPayCode(ctx, id)
	if err != nil {
		return PayCode{}, 0, err
	}
	usage, err := s.store.CountEntriesUsingPayCode(ctx, id)
	if err != nil {
		return PayCode{}, 0, fmt.Errorf("count entries for pay code %d: %w", id, err)
	}
	return code, usage, nil
}

func (s *Service) CreatePayCode(ctx context.Context, input CreatePayCodeInput, createdBy int64) (PayCode, error) {
	code := strings.ToUpper(strings.TrimSpace(input.Code))
	if code == "" {
		return PayCode{}, ErrPayCodeRequired
	}

	exists, err := s.store.PayCodeExists(ctx, code)
	if err != nil {
		return PayCode{}, fmt.Errorf("check pay code: %w", err)
	}
	if exists {
		return PayCode{}, fmt.Errorf("%w: %q", ErrDuplicatePayCode, code)
	}

	payCode := PayCode{
		Code:          code,
		Description:   input.Description,
		IsAbsenceCode: input.IsAbsenceCode,
		Configuration: input.Configuration,
		IsActive:      true,
		CreatedByID:   createdBy,
	}
	return s.store.CreatePayCode(ctx, payCode)
}

func (s *Service) UpdatePayCode(ctx context.Context, id int64, input UpdatePayCodeInput) (PayCode, error) {
	code, err := s.store.GetPayCode(ctx, id)
	if err != nil {
		return PayCode{}, err
	}

	if input.Description != nil {
		code.Description = *input.Description
	}
	if input.IsActive != nil {
		code.IsActive = *input.IsActive
	}
	if input.Configuration != nil {
		code.Configuration = input.Configuration
	}

	if err := s.store.UpdatePayCode(ctx, code); err != nil {
		return PayCode{}, fmt.Errorf("update pay code %d: %w", id, err)
	}
	return s.store.GetPayCode(ctx, id)
}

// DeletePayCode refuses to remove a code still referenced by time entries.
func (s *Service) DeletePayCode(ctx context.Context, id int64) error {
	code, err := s.store.GetPayCode(ctx, id)
	if err != nil {
		return err
	}

	usage, err := s.store.CountEntriesUsingPayCode(ctx, id)
	if err != nil {
		return fmt.Errorf("count entries for pay code %d: %w", id, err)
	}
	if usage > 0 {
		return fmt.Errorf("%w: cannot delete pay code %q - it is used in %d time entries, consider deactivating instead", ErrPayCodeInUse, code.Code, usage)
	}

	return s.store.DeletePayCode(ctx, id)
}

func (s *Service) TogglePayCode(ctx context.Context, id int64) (PayCode, error) {
	code, err := s.store.GetPayCode(ctx, id)
	if err != nil {
		return PayCode{}, err
	}
	if err := s.store.SetPayCodeActive(ctx, id, !code.IsActive); err != nil {
		return PayCode{}, fmt.Errorf("toggle pay code %d: %w", id, err)
	}
	code.IsActive = !code.IsActive
	return code, nil
}

// AbsenceCodes returns active absence codes with their configuration
// flattened for scheduling screens.
func (s *Service) AbsenceCodes(ctx context.Context) ([]AbsenceCode, error) {
	codes, err := s.store.ListAbsenceCodes(ctx)
	if err != nil {
		return nil, fmt.Errorf("list absence codes: %w", err)
	}

	out := make([]AbsenceCode, 0, len(codes))
	for _, code := range codes {
		out = append(out, AbsenceCode{
			ID:                 code.ID,
			Code:               code.Code,
			Description:        code.Description,
			IsPaid:             configBool(code.Configuration, "is_paid"),
			RequiresApproval:   configBool(code.Configuration, "requires_approval"),
			MaxHoursPerDay:     configNumber(code.Configuration, "max_hours_per_day"),
			MaxConsecutiveDays: configNumber(code.Configuration, "max_consecutive_days"),
		})
	}
	return out, nil
}

func configBool(config map[string]any, key string) bool {
	value, ok := config[key].(bool)
	return ok && value
}

func configNumber(config map[string]any, key string) *float64 {
	if value, ok := config[key].(float64); ok {
		return &value
	}
	return nil
}
