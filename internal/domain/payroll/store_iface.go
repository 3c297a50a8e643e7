package payroll

import (
	"context"
	"time"
)

// RuleOrder is one entry of a priority reorder request.
type RuleOrder struct {
	ID       int64 `json:"id"`
	Priority int   `json:"priority"`
}

// StatementData is everything a calculation statement needs in one load.
type StatementData struct {
	Calculation
	Username string
}

type StoreAPI interface {
	ListRules(ctx context.Context, status string, limit, offset int) ([]PayRule, int, error)
	GetRule(ctx context.Context, id int64) (PayRule, error)
	RuleNameExists(ctx context.Context, name string, excludeID int64) (bool, error)
	CreateRule(ctx context.Context, rule PayRule) (PayRule, error)
	UpdateRule(ctx context.Context, rule PayRule) error
	DeleteRule(ctx context.Context, id int64) error
	SetRuleActive(ctx context.Context, id int64, active bool) error
	UpdateRulePriorities(ctx context.Context, orders []RuleOrder) error
	FindActiveRules(ctx context.Context) ([]PayRule, error)
	CountCalculationsUsingRule(ctx context.Context, ruleID int64) (int, error)

	ListPayCodes(ctx context.Context, codeType, status string, limit, offset int) ([]PayCode, int, error)
	GetPayCode(ctx context.Context, id int64) (PayCode, error)
	PayCodeExists(ctx context.Context, code string) (bool, error)
	CreatePayCode(ctx context.Context, code PayCode) (PayCode, error)
	UpdatePayCode(ctx context.Context, code PayCode) error
	DeletePayCode(ctx context.Context, id int64) error
	SetPayCodeActive(ctx context.Context, id int64, active bool) error
	CountEntriesUsingPayCode(ctx context.Context, id int64) (int, error)
	ListAbsenceCodes(ctx context.Context) ([]PayCode, error)

	FindClosedEntries(ctx context.Context, start, end time.Time, employeeIDs []int64) ([]TimeEntry, error)
	RolesOf(ctx context.Context, userID int64) ([]string, error)

	SaveCalculation(ctx context.Context, calc Calculation, ruleIDs []int64) (Calculation, error)
	GetStatementData(ctx context.Context, calculationID int64) (StatementData, error)
	ListCalculations(ctx context.Context, employeeID int64, limit, offset int) ([]Calculation, int, error)
}
