package payroll

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/shopspring/decimal"
)

// Calculate runs the payroll batch for a period: load closed entries, group
// by employee, evaluate every entry against every active rule, reconcile,
// summarize, roll up, and optionally persist one record per employee.
func (s *Service) Calculate(ctx context.Context, req CalculateRequest) (BatchResult, error) {
	if !req.Privileged {
		return BatchResult{}, ErrNotAuthorized
	}

	// The end boundary is inclusive of the entire end date.
	windowEnd := req.PeriodEnd.AddDate(0, 0, 1)
	entries, err := s.store.FindClosedEntries(ctx, req.PeriodStart, windowEnd, req.EmployeeIDs)
	if err != nil {
		return BatchResult{}, fmt.Errorf("load time entries: %w", err)
	}
	if len(entries) == 0 {
		return BatchResult{}, ErrNoTimeEntries
	}

	rules, err := s.store.FindActiveRules(ctx)
	if err != nil {
		return BatchResult{}, fmt.Errorf("load pay rules: %w", err)
	}

	byEmployee := make(map[int64][]TimeEntry)
	for _, entry := range entries {
		byEmployee[entry.UserID] = append(byEmployee[entry.UserID], entry)
	}
	userIDs := make([]int64, 0, len(byEmployee))
	for userID := range byEmployee {
		userIDs = append(userIDs, userID)
	}
	sort.Slice(userIDs, func(i, j int) bool { return userIDs[i] < userIDs[j] })

	result := BatchResult{
		EmployeeResults: make(map[int64]EmployeeResult, len(userIDs)),
	}
	for _, userID := range userIDs {
		roles, err := s.store.RolesOf(ctx, userID)
		if err != nil {
			return BatchResult{}, fmt.Errorf("resolve roles for employee %d: %w", userID, err)
		}

		employee := CalculateEmployee(byEmployee[userID], rules, RuleContext{
			UserRoles:    roles,
			TotalEntries: len(byEmployee[userID]),
		})
		result.EmployeeResults[userID] = employee
		result.Summary.Add(employee.Summary)
	}
	result.EmployeeCount = len(userIDs)

	if req.SaveResults {
		result.Persistence = s.persistResults(ctx, req, userIDs, byEmployee, result.EmployeeResults)
	}

	if s.metrics != nil {
		failed := result.Persistence != nil && result.Persistence.FailureReason != ""
		s.metrics.RecordBatch(result.EmployeeCount, failed)
	}
	return result, nil
}

// persistResults writes one calculation per employee, each in its own
// transaction. A failure stops further writes but keeps prior commits; the
// report names what was saved, what failed, and what was never attempted.
func (s *Service) persistResults(ctx context.Context, req CalculateRequest, userIDs []int64, byEmployee map[int64][]TimeEntry, results map[int64]EmployeeResult) *PersistenceReport {
	report := &PersistenceReport{}

	for i, userID := range userIDs {
		employee := results[userID]
		calc := Calculation{
			UserID:          userID,
			TimeEntryID:     byEmployee[userID][0].ID,
			PayPeriodStart:  req.PeriodStart,
			PayPeriodEnd:    req.PeriodEnd,
			TotalHours:      employee.TotalHours,
			RegularHours:    employee.Summary.RegularHours,
			OvertimeHours:   employee.Summary.OvertimeHours,
			DoubleTimeHours: employee.Summary.DoubleTimeHours,
			TotalAllowances: roundMoney(employee.Summary.TotalAllowances),
			PayComponents:   employee.PayComponents,
			CalculatedByID:  req.CalculatedBy,
		}

		saved, err := s.store.SaveCalculation(ctx, calc, employee.AppliedRuleIDs)
		if err != nil {
			report.FailedEmployeeID = userID
			report.FailureReason = err.Error()
			if i+1 < len(userIDs) {
				report.SkippedEmployeeIDs = append(report.SkippedEmployeeIDs, userIDs[i+1:]...)
			}
			slog.Warn("payroll persistence halted",
				"employee", userID,
				"saved", len(report.Saved),
				"skipped", len(report.SkippedEmployeeIDs),
				"err", err)
			break
		}
		report.Saved = append(report.Saved, saved)
	}

	return report
}

func (s *Service) ListCalculations(ctx context.Context, employeeID int64, limit, offset int) ([]Calculation, int, error) {
	return s.store.ListCalculations(ctx, employeeID, limit, offset)
}

// roundMoney normalizes a currency amount to two decimals before it is
// persisted or rendered.
func roundMoney(value float64) float64 {
	rounded, _ := decimal.NewFromFloat(value).Round(2).Float64()
	return rounded
}
