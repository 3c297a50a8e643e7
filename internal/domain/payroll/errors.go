package payroll

import "errors"

var (
	ErrNotAuthorized = errors.New("only privileged users can calculate payroll")

	ErrNoTimeEntries = errors.New("no time entries found for the selected criteria")

	ErrRuleNotFound        = errors.New("pay rule not found")
	ErrDuplicateRuleName   = errors.New("pay rule name already exists")
	ErrNoConditions        = errors.New("at least one condition must be specified")
	ErrNoActions           = errors.New("at least one action must be specified")
	ErrRuleNameRequired    = errors.New("pay rule name is required")
	ErrRuleInUse           = errors.New("pay rule is referenced by saved calculations")
	ErrPayCodeNotFound     = errors.New("pay code not found")
	ErrDuplicatePayCode    = errors.New("pay code already exists")
	ErrPayCodeRequired     = errors.New("pay code is required")
	ErrPayCodeInUse        = errors.New("pay code is used by time entries")
	ErrCalculationNotFound = errors.New("pay calculation not found")
)
