package payroll

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// SaveCalculation inserts one employee's record plus its rule references in a
// single transaction. Records are additive: there is no upsert, and re-running
// a period creates new rows.
func (s *Store) SaveCalculation(ctx context.Context, calc Calculation, ruleIDs []int64) (Calculation, error) {
	componentsJSON, err := json.Marshal(calc.PayComponents)
	if err != nil {
		return Calculation{}, err
	}

	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return Calculation{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	err = tx.QueryRow(ctx, `
    INSERT INTO pay_calculations
      (user_id, time_entry_id, pay_period_start, pay_period_end,
       total_hours, regular_hours, overtime_hours, double_time_hours,
       total_allowances, pay_components, calculated_by_id, calculated_at)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,NULLIF($11, 0),now())
    RETURNING id, calculated_at
  `, calc.UserID, calc.TimeEntryID, calc.PayPeriodStart, calc.PayPeriodEnd,
		calc.TotalHours, calc.RegularHours, calc.OvertimeHours, calc.DoubleTimeHours,
		calc.TotalAllowances, componentsJSON, calc.CalculatedByID).
		Scan(&calc.ID, &calc.CalculatedAt)
	if err != nil {
		return Calculation{}, err
	}

	for _, ruleID := range ruleIDs {
		if _, err := tx.Exec(ctx, `
      INSERT INTO pay_calculation_rules (calculation_id, rule_id)
      VALUES ($1,$2)
    `, calc.ID, ruleID); err != nil {
			return Calculation{}, fmt.Errorf("reference rule %d: %w", ruleID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return Calculation{}, err
	}
	return calc, nil
}

const calculationColumns = `id, user_id, time_entry_id, pay_period_start, pay_period_end,
  COALESCE(total_hours, 0), COALESCE(regular_hours, 0), COALESCE(overtime_hours, 0),
  COALESCE(double_time_hours, 0), COALESCE(total_allowances, 0),
  pay_components, COALESCE(calculated_by_id, 0), calculated_at`

func scanCalculation(row pgx.Row) (Calculation, error) {
	var calc Calculation
	var componentsJSON []byte
	if err := row.Scan(&calc.ID, &calc.UserID, &calc.TimeEntryID,
		&calc.PayPeriodStart, &calc.PayPeriodEnd,
		&calc.TotalHours, &calc.RegularHours, &calc.OvertimeHours,
		&calc.DoubleTimeHours, &calc.TotalAllowances,
		&componentsJSON, &calc.CalculatedByID, &calc.CalculatedAt); err != nil {
		return Calculation{}, err
	}
	if len(componentsJSON) > 0 {
		if err := json.Unmarshal(componentsJSON, &calc.PayComponents); err != nil {
			return Calculation{}, fmt.Errorf("decode components for calculation %d: %w", calc.ID, err)
		}
	}
	return calc, nil
}

func (s *Store) GetStatementData(ctx context.Context, calculationID int64) (StatementData, error) {
	row := s.DB.QueryRow(ctx, `
    SELECT c.id, c.user_id, c.time_entry_id, c.pay_period_start, c.pay_period_end,
           COALESCE(c.total_hours, 0), COALESCE(c.regular_hours, 0), COALESCE(c.overtime_hours, 0),
           COALESCE(c.double_time_hours, 0), COALESCE(c.total_allowances, 0),
           c.pay_components, COALESCE(c.calculated_by_id, 0), c.calculated_at, COALESCE(u.username, '')
    FROM pay_calculations c
    JOIN users u ON c.user_id = u.id
    WHERE c.id = $1
  `, calculationID)

	var data StatementData
	var componentsJSON []byte
	err := row.Scan(&data.ID, &data.UserID, &data.TimeEntryID,
		&data.PayPeriodStart, &data.PayPeriodEnd,
		&data.TotalHours, &data.RegularHours, &data.OvertimeHours,
		&data.DoubleTimeHours, &data.TotalAllowances,
		&componentsJSON, &data.CalculatedByID, &data.CalculatedAt, &data.Username)
	if errors.Is(err, pgx.ErrNoRows) {
		return StatementData{}, fmt.Errorf("%w: id %d", ErrCalculationNotFound, calculationID)
	}
	if err != nil {
		return StatementData{}, err
	}
	if len(componentsJSON) > 0 {
		if err := json.Unmarshal(componentsJSON, &data.PayComponents); err != nil {
			return StatementData{}, fmt.Errorf("decode components for calculation %d: %w", calculationID, err)
		}
	}
	return data, nil
}

func (s *Store) ListCalculations(ctx context.Context, employeeID int64, limit, offset int) ([]Calculation, int, error) {
	where := ""
	countArgs := []any{}
	if employeeID > 0 {
		where = " WHERE user_id = $1"
		countArgs = append(countArgs, employeeID)
	}

	var total int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM pay_calculations"+where, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args := append([]any{}, countArgs...)
	query := "SELECT " + calculationColumns + " FROM pay_calculations" + where +
		" ORDER BY calculated_at DESC" +
		fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var calculations []Calculation
	for rows.Next() {
		calc, err := scanCalculation(rows)
		if err != nil {
			return nil, 0, err
		}
		calculations = append(calculations, calc)
	}
	return calculations, total, rows.Err()
}
