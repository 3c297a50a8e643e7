package payroll

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

const payCodeColumns = `id, code, COALESCE(description, ''), is_absence_code, is_active, configuration, COALESCE(created_by_id, 0), created_at, updated_at`

func scanPayCode(row pgx.Row) (PayCode, error) {
	var code PayCode
	var configJSON []byte
	if err := row.Scan(&code.ID, &code.Code, &code.Description, &code.IsAbsenceCode,
		&code.IsActive, &configJSON, &code.CreatedByID, &code.CreatedAt, &code.UpdatedAt); err != nil {
		return PayCode{}, err
	}
	if len(configJSON) > 0 {
		if err := json.Unmarshal(configJSON, &code.Configuration); err != nil {
			code.Configuration = map[string]any{}
		}
	}
	return code, nil
}

func (s *Store) ListPayCodes(ctx context.Context, codeType, status string, limit, offset int) ([]PayCode, int, error) {
	where := " WHERE 1=1"
	switch codeType {
	case CodeTypeAbsence:
		where += " AND is_absence_code = true"
	case CodeTypePayroll:
		where += " AND is_absence_code = false"
	}
	switch status {
	case CodeStatusActive:
		where += " AND is_active = true"
	case CodeStatusInactive:
		where += " AND is_active = false"
	}

	var total int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM pay_codes"+where).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := "SELECT " + payCodeColumns + " FROM pay_codes" + where +
		" ORDER BY code ASC LIMIT $1 OFFSET $2"
	rows, err := s.DB.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var codes []PayCode
	for rows.Next() {
		code, err := scanPayCode(rows)
		if err != nil {
			return nil, 0, err
		}
		codes = append(codes, code)
	}
	return codes, total, rows.Err()
}

func (s *Store) GetPayCode(ctx context.Context, id int64) (PayCode, error) {
	code, err := scanPayCode(s.DB.QueryRow(ctx,
		"SELECT "+payCodeColumns+" FROM pay_codes WHERE id = $1", id))
	if errors.Is(err, pgx.ErrNoRows) {
		return PayCode{}, fmt.Errorf("%w: id %d", ErrPayCodeNotFound, id)
	}
	return code, err
}

func (s *Store) PayCodeExists(ctx context.Context, code string) (bool, error) {
	var exists bool
	err := s.DB.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM pay_codes WHERE code = $1)", code).Scan(&exists)
	return exists, err
}

func (s *Store) CreatePayCode(ctx context.Context, code PayCode) (PayCode, error) {
	var configJSON []byte
	if code.Configuration != nil {
		payload, err := json.Marshal(code.Configuration)
		if err != nil {
			return PayCode{}, err
		}
		configJSON = payload
	}

	err := s.DB.QueryRow(ctx, `
    INSERT INTO pay_codes (code, description, is_absence_code, is_active, configuration, created_by_id)
    VALUES ($1,$2,$3,$4,$5,NULLIF($6, 0))
    RETURNING id, created_at, updated_at
  `, code.Code, code.Description, code.IsAbsenceCode, code.IsActive, configJSON, code.CreatedByID).
		Scan(&code.ID, &code.CreatedAt, &code.UpdatedAt)
	if err != nil {
		return PayCode{}, err
	}
	return code, nil
}

func (s *Store) UpdatePayCode(ctx context.Context, code PayCode) error {
	var configJSON []byte
	if code.Configuration != nil {
		payload, err := json.Marshal(code.Configuration)
		if err != nil {
			return err
		}
		configJSON = payload
	}

	_, err := s.DB.Exec(ctx, `
    UPDATE pay_codes
    SET description = $1, is_active = $2, configuration = $3, updated_at = now()
    WHERE id = $4
  `, code.Description, code.IsActive, configJSON, code.ID)
	return err
}

func (s *Store) DeletePayCode(ctx context.Context, id int64) error {
	tag, err := s.DB.Exec(ctx, "DELETE FROM pay_codes WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: id %d", ErrPayCodeNotFound, id)
	}
	return nil
}

func (s *Store) SetPayCodeActive(ctx context.Context, id int64, active bool) error {
	tag, err := s.DB.Exec(ctx,
		"UPDATE pay_codes SET is_active = $1, updated_at = now() WHERE id = $2", active, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: id %d", ErrPayCodeNotFound, id)
	}
	return nil
}

func (s *Store) CountEntriesUsingPayCode(ctx context.Context, id int64) (int, error) {
	var count int
	err := s.DB.QueryRow(ctx,
		"SELECT COUNT(1) FROM time_entries WHERE pay_code_id = $1 OR absence_pay_code_id = $1",
		id).Scan(&count)
	return count, err
}

func (s *Store) ListAbsenceCodes(ctx context.Context) ([]PayCode, error) {
	rows, err := s.DB.Query(ctx,
		"SELECT "+payCodeColumns+" FROM pay_codes WHERE is_absence_code = true AND is_active = true ORDER BY code ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var codes []PayCode
	for rows.Next() {
		code, err := scanPayCode(rows)
		if err != nil {
			return nil, err
		}
		codes = append(codes, code)
	}
	return codes, rows.Err()
}
