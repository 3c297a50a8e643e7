package payroll

const (
	StatusClosed = "Closed"

	ComponentTypeHours        = "hours"
	ComponentTypeAllowance    = "allowance"
	ComponentTypeDifferential = "differential"
	ComponentTypeRegular      = "regular"

	// RegularComponentName is the synthesized fallback component that absorbs
	// hours no rule claimed.
	RegularComponentName = "regular_hours"
	DefaultRuleName      = "default"

	// Summary bucket multipliers. Bucketing is by exact equality (and >= for
	// double time); multipliers between buckets land in none of them.
	MultiplierRegular    = 1.0
	MultiplierOvertime   = 1.5
	MultiplierDoubleTime = 2.0

	CodeStatusActive   = "active"
	CodeStatusInactive = "inactive"
	CodeTypeAbsence    = "absence"
	CodeTypePayroll    = "payroll"
)
