package payroll

import "time"

// TimeEntry is read-only input from the time & attendance subsystem. Only
// Closed entries with both timestamps participate in calculations; the store
// pre-filters, but EntryHours re-derives defensively.
type TimeEntry struct {
	ID           int64      `json:"id"`
	UserID       int64      `json:"user_id"`
	Username     string     `json:"username"`
	ClockInTime  time.Time  `json:"clock_in_time"`
	ClockOutTime *time.Time `json:"clock_out_time"`
	Status       string     `json:"status"`
}

// TimeRange is an hour-of-day window. Start > End spans midnight, e.g. 22..6.
type TimeRange struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Conditions are AND-ed; absent clauses are vacuously true. A rule with no
// clauses at all is rejected at creation time, not here.
type Conditions struct {
	DayOfWeek         []int      `json:"day_of_week,omitempty"`
	TimeRange         *TimeRange `json:"time_range,omitempty"`
	OvertimeThreshold *float64   `json:"overtime_threshold,omitempty"`
	EmployeeIDs       []int64    `json:"employee_ids,omitempty"`
	Roles             []string   `json:"roles,omitempty"`
}

func (c Conditions) Empty() bool {
	return len(c.DayOfWeek) == 0 &&
		c.TimeRange == nil &&
		c.OvertimeThreshold == nil &&
		len(c.EmployeeIDs) == 0 &&
		len(c.Roles) == 0
}

// Actions are independent; a rule may emit up to three components per entry.
type Actions struct {
	PayMultiplier     *float64 `json:"pay_multiplier,omitempty"`
	ComponentName     string   `json:"component_name,omitempty"`
	FlatAllowance     *float64 `json:"flat_allowance,omitempty"`
	AllowanceName     string   `json:"allowance_name,omitempty"`
	ShiftDifferential *float64 `json:"shift_differential,omitempty"`
	DifferentialName  string   `json:"differential_name,omitempty"`
}

func (a Actions) Empty() bool {
	return a.PayMultiplier == nil && a.FlatAllowance == nil && a.ShiftDifferential == nil
}

type PayRule struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Priority    int        `json:"priority"`
	Conditions  Conditions `json:"conditions"`
	Actions     Actions    `json:"actions"`
	IsActive    bool       `json:"is_active"`
	CreatedByID int64      `json:"created_by_id"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type PayCode struct {
	ID            int64          `json:"id"`
	Code          string         `json:"code"`
	Description   string         `json:"description"`
	IsAbsenceCode bool           `json:"is_absence_code"`
	IsActive      bool           `json:"is_active"`
	Configuration map[string]any `json:"configuration,omitempty"`
	CreatedByID   int64          `json:"created_by_id"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

// AbsenceCode is the scheduling-facing view of an active absence pay code,
// with its configuration flattened.
type AbsenceCode struct {
	ID                 int64    `json:"id"`
	Code               string   `json:"code"`
	Description        string   `json:"description"`
	IsPaid             bool     `json:"is_paid"`
	RequiresApproval   bool     `json:"requires_approval"`
	MaxHoursPerDay     *float64 `json:"max_hours_per_day,omitempty"`
	MaxConsecutiveDays *float64 `json:"max_consecutive_days,omitempty"`
}

// Component is one named bucket of hours or money inside an employee's
// period. RuleName is set on per-rule deltas; RulesApplied accumulates on the
// merged component.
type Component struct {
	Hours        float64  `json:"hours,omitempty"`
	Amount       float64  `json:"amount,omitempty"`
	Multiplier   float64  `json:"multiplier,omitempty"`
	Differential float64  `json:"differential,omitempty"`
	Type         string   `json:"type,omitempty"`
	RuleName     string   `json:"rule_name,omitempty"`
	RulesApplied []string `json:"rules_applied,omitempty"`
}

type Summary struct {
	RegularHours       float64 `json:"regular_hours"`
	OvertimeHours      float64 `json:"overtime_hours"`
	DoubleTimeHours    float64 `json:"double_time_hours"`
	TotalAllowances    float64 `json:"total_allowances"`
	ShiftDifferentials float64 `json:"shift_differentials"`
}

func (s *Summary) Add(other Summary) {
	s.RegularHours += other.RegularHours
	s.OvertimeHours += other.OvertimeHours
	s.DoubleTimeHours += other.DoubleTimeHours
	s.TotalAllowances += other.TotalAllowances
	s.ShiftDifferentials += other.ShiftDifferentials
}

// RuleContext is the employee-level context a rule is matched against.
type RuleContext struct {
	UserRoles    []string
	TotalEntries int
}

type EmployeeResult struct {
	UserID        int64                 `json:"user_id"`
	Username      string                `json:"username"`
	TotalHours    float64               `json:"total_hours"`
	PayComponents map[string]*Component `json:"pay_components"`
	Summary       Summary               `json:"summary"`

	// AppliedRuleIDs feeds the calculation->rule reference table; it is not
	// part of the serialized result.
	AppliedRuleIDs []int64 `json:"-"`
}

// Calculation is the persisted record of one employee's period result.
// Records are additive facts: created once per batch run, never updated.
type Calculation struct {
	ID              int64                 `json:"id"`
	UserID          int64                 `json:"user_id"`
	TimeEntryID     int64                 `json:"time_entry_id"`
	PayPeriodStart  time.Time             `json:"pay_period_start"`
	PayPeriodEnd    time.Time             `json:"pay_period_end"`
	TotalHours      float64               `json:"total_hours"`
	RegularHours    float64               `json:"regular_hours"`
	OvertimeHours   float64               `json:"overtime_hours"`
	DoubleTimeHours float64               `json:"double_time_hours"`
	TotalAllowances float64               `json:"total_allowances"`
	PayComponents   map[string]*Component `json:"pay_components"`
	CalculatedByID  int64                 `json:"calculated_by_id"`
	CalculatedAt    time.Time             `json:"calculated_at"`
}

type CalculateRequest struct {
	PeriodStart  time.Time
	PeriodEnd    time.Time
	EmployeeIDs  []int64
	SaveResults  bool
	CalculatedBy int64
	Privileged   bool
}

// PersistenceReport makes partial persistence inspectable: employees saved
// before a failure stay committed, the failing employee is named, and the
// remainder is listed as skipped rather than silently dropped.
type PersistenceReport struct {
	Saved              []Calculation `json:"saved"`
	FailedEmployeeID   int64         `json:"failed_employee_id,omitempty"`
	FailureReason      string        `json:"failure_reason,omitempty"`
	SkippedEmployeeIDs []int64       `json:"skipped_employee_ids,omitempty"`
}

type BatchResult struct {
	EmployeeResults map[int64]EmployeeResult `json:"employee_results"`
	Summary         Summary                  `json:"summary"`
	EmployeeCount   int                      `json:"employee_count"`
	Persistence     *PersistenceReport       `json:"persistence,omitempty"`
}
