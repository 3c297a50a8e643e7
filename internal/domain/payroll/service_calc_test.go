package payroll

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// fakeStore is an in-memory StoreAPI for exercising the service layer
// without a database.
type fakeStore struct {
	rules        []PayRule
	rulesByID    map[int64]PayRule
	nextRuleID   int64
	ruleUsage    map[int64]int
	codes        map[int64]PayCode
	nextCodeID   int64
	codeUsage    map[int64]int
	entries      []TimeEntry
	roles        map[int64][]string
	rolesErr     error
	saved        []Calculation
	savedRuleIDs map[int64][]int64
	failSaveFor  int64
	calculations []Calculation

	gotStart, gotEnd time.Time
	gotEmployeeIDs   []int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		rulesByID:    make(map[int64]PayRule),
		ruleUsage:    make(map[int64]int),
		codes:        make(map[int64]PayCode),
		codeUsage:    make(map[int64]int),
		roles:        make(map[int64][]string),
		savedRuleIDs: make(map[int64][]int64),
	}
}

func (f *fakeStore) ListRules(_ context.Context, status string, limit, offset int) ([]PayRule, int, error) {
	return f.rules, len(f.rules), nil
}

func (f *fakeStore) GetRule(_ context.Context, id int64) (PayRule, error) {
	rule, ok := f.rulesByID[id]
	if !ok {
		return PayRule{}, ErrRuleNotFound
	}
	return rule, nil
}

func (f *fakeStore) RuleNameExists(_ context.Context, name string, excludeID int64) (bool, error) {
	for _, rule := range f.rulesByID {
		if rule.Name == name && rule.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) CreateRule(_ context.Context, rule PayRule) (PayRule, error) {
	f.nextRuleID++
	rule.ID = f.nextRuleID
	rule.CreatedAt = time.Now()
	rule.UpdatedAt = rule.CreatedAt
	f.rulesByID[rule.ID] = rule
	f.rules = append(f.rules, rule)
	return rule, nil
}

func (f *fakeStore) UpdateRule(_ context.Context, rule PayRule) error {
	if _, ok := f.rulesByID[rule.ID]; !ok {
		return ErrRuleNotFound
	}
	f.rulesByID[rule.ID] = rule
	return nil
}

func (f *fakeStore) DeleteRule(_ context.Context, id int64) error {
	if _, ok := f.rulesByID[id]; !ok {
		return ErrRuleNotFound
	}
	delete(f.rulesByID, id)
	return nil
}

func (f *fakeStore) SetRuleActive(_ context.Context, id int64, active bool) error {
	rule, ok := f.rulesByID[id]
	if !ok {
		return ErrRuleNotFound
	}
	rule.IsActive = active
	f.rulesByID[id] = rule
	return nil
}

func (f *fakeStore) UpdateRulePriorities(_ context.Context, orders []RuleOrder) error {
	for _, order := range orders {
		rule, ok := f.rulesByID[order.ID]
		if !ok {
			return ErrRuleNotFound
		}
		rule.Priority = order.Priority
		f.rulesByID[order.ID] = rule
	}
	return nil
}

func (f *fakeStore) FindActiveRules(_ context.Context) ([]PayRule, error) {
	var active []PayRule
	for _, rule := range f.rules {
		if current, ok := f.rulesByID[rule.ID]; ok && current.IsActive {
			active = append(active, current)
		}
	}
	return active, nil
}

func (f *fakeStore) CountCalculationsUsingRule(_ context.Context, ruleID int64) (int, error) {
	return f.ruleUsage[ruleID], nil
}

func (f *fakeStore) ListPayCodes(_ context.Context, codeType, status string, limit, offset int) ([]PayCode, int, error) {
	var out []PayCode
	for _, code := range f.codes {
		out = append(out, code)
	}
	return out, len(out), nil
}

func (f *fakeStore) GetPayCode(_ context.Context, id int64) (PayCode, error) {
	code, ok := f.codes[id]
	if !ok {
		return PayCode{}, ErrPayCodeNotFound
	}
	return code, nil
}

func (f *fakeStore) PayCodeExists(_ context.Context, code string) (bool, error) {
	for _, existing := range f.codes {
		if existing.Code == code {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) CreatePayCode(_ context.Context, code PayCode) (PayCode, error) {
	f.nextCodeID++
	code.ID = f.nextCodeID
	code.CreatedAt = time.Now()
	code.UpdatedAt = code.CreatedAt
	f.codes[code.ID] = code
	return code, nil
}

func (f *fakeStore) UpdatePayCode(_ context.Context, code PayCode) error {
	if _, ok := f.codes[code.ID]; !ok {
		return ErrPayCodeNotFound
	}
	f.codes[code.ID] = code
	return nil
}

func (f *fakeStore) DeletePayCode(_ context.Context, id int64) error {
	if _, ok := f.codes[id]; !ok {
		return ErrPayCodeNotFound
	}
	delete(f.codes, id)
	return nil
}

func (f *fakeStore) SetPayCodeActive(_ context.Context, id int64, active bool) error {
	code, ok := f.codes[id]
	if !ok {
		return ErrPayCodeNotFound
	}
	code.IsActive = active
	f.codes[id] = code
	return nil
}

func (f *fakeStore) CountEntriesUsingPayCode(_ context.Context, id int64) (int, error) {
	return f.codeUsage[id], nil
}

func (f *fakeStore) ListAbsenceCodes(_ context.Context) ([]PayCode, error) {
	var out []PayCode
	for _, code := range f.codes {
		if code.IsAbsenceCode && code.IsActive {
			out = append(out, code)
		}
	}
	return out, nil
}

func (f *fakeStore) FindClosedEntries(_ context.Context, start, end time.Time, employeeIDs []int64) ([]TimeEntry, error) {
	f.gotStart, f.gotEnd = start, end
	f.gotEmployeeIDs = employeeIDs
	return f.entries, nil
}

func (f *fakeStore) RolesOf(_ context.Context, userID int64) ([]string, error) {
	if f.rolesErr != nil {
		return nil, f.rolesErr
	}
	return f.roles[userID], nil
}

func (f *fakeStore) SaveCalculation(_ context.Context, calc Calculation, ruleIDs []int64) (Calculation, error) {
	if f.failSaveFor != 0 && calc.UserID == f.failSaveFor {
		return Calculation{}, errors.New("insert failed: connection reset")
	}
	calc.ID = int64(len(f.saved) + 1)
	calc.CalculatedAt = time.Now()
	f.saved = append(f.saved, calc)
	f.savedRuleIDs[calc.ID] = ruleIDs
	return calc, nil
}

func (f *fakeStore) GetStatementData(_ context.Context, calculationID int64) (StatementData, error) {
	for _, calc := range f.saved {
		if calc.ID == calculationID {
			return StatementData{Calculation: calc, Username: "worker"}, nil
		}
	}
	return StatementData{}, ErrCalculationNotFound
}

func (f *fakeStore) ListCalculations(_ context.Context, employeeID int64, limit, offset int) ([]Calculation, int, error) {
	return f.calculations, len(f.calculations), nil
}

var _ StoreAPI = (*fakeStore)(nil)

func periodRequest() CalculateRequest {
	return CalculateRequest{
		PeriodStart:  time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC),
		PeriodEnd:    time.Date(2026, 1, 11, 0, 0, 0, 0, time.UTC),
		CalculatedBy: 99,
		Privileged:   true,
	}
}

func TestCalculateRequiresPrivilege(t *testing.T) {
	service := NewService(newFakeStore(), nil, t.TempDir())

	req := periodRequest()
	req.Privileged = false
	_, err := service.Calculate(context.Background(), req)
	require.ErrorIs(t, err, ErrNotAuthorized)
}

func TestCalculateNoEntries(t *testing.T) {
	service := NewService(newFakeStore(), nil, t.TempDir())

	_, err := service.Calculate(context.Background(), periodRequest())
	require.ErrorIs(t, err, ErrNoTimeEntries)
}

func TestCalculateWindowEndIsInclusive(t *testing.T) {
	store := newFakeStore()
	store.entries = []TimeEntry{entry(1, monday9am, 8)}
	service := NewService(store, nil, t.TempDir())

	req := periodRequest()
	_, err := service.Calculate(context.Background(), req)
	require.NoError(t, err)

	require.Equal(t, req.PeriodStart, store.gotStart)
	require.Equal(t, req.PeriodEnd.AddDate(0, 0, 1), store.gotEnd,
		"entries clocked in on the end date itself must be loaded")
}

func TestCalculateWeekendScenario(t *testing.T) {
	saturday := time.Date(2026, 1, 10, 8, 0, 0, 0, time.UTC)

	store := newFakeStore()
	store.entries = []TimeEntry{
		entry(1, monday9am, 8),
		entry(1, saturday, 10),
	}
	store.roles[1] = []string{"Employee"}
	_, err := store.CreateRule(context.Background(), PayRule{
		Name:       "Weekend",
		IsActive:   true,
		Conditions: Conditions{DayOfWeek: []int{0, 6}},
		Actions:    Actions{PayMultiplier: floatPtr(1.5), ComponentName: "weekend_hours"},
	})
	require.NoError(t, err)

	service := NewService(store, nil, t.TempDir())
	result, err := service.Calculate(context.Background(), periodRequest())
	require.NoError(t, err)

	require.Equal(t, 1, result.EmployeeCount)
	employee := result.EmployeeResults[1]
	require.Equal(t, 18.0, employee.TotalHours)
	require.Equal(t, 10.0, employee.PayComponents["weekend_hours"].Hours)
	require.Equal(t, 8.0, employee.PayComponents[RegularComponentName].Hours)
	require.Equal(t, 8.0, result.Summary.RegularHours)
	require.Equal(t, 10.0, result.Summary.OvertimeHours)
	require.Nil(t, result.Persistence)
}

func TestCalculateRollsUpAcrossEmployees(t *testing.T) {
	store := newFakeStore()
	store.entries = []TimeEntry{
		entry(1, monday9am, 8),
		entry(2, monday9am, 6),
	}
	service := NewService(store, nil, t.TempDir())

	result, err := service.Calculate(context.Background(), periodRequest())
	require.NoError(t, err)

	require.Equal(t, 2, result.EmployeeCount)
	require.Equal(t, 14.0, result.Summary.RegularHours)
	require.Equal(t, 8.0, result.EmployeeResults[1].TotalHours)
	require.Equal(t, 6.0, result.EmployeeResults[2].TotalHours)
}

func TestCalculateRoleConditionUsesStoreRoles(t *testing.T) {
	store := newFakeStore()
	store.entries = []TimeEntry{
		entry(1, monday9am, 8),
		entry(2, monday9am, 8),
	}
	store.roles[1] = []string{"Manager"}
	store.roles[2] = []string{"Employee"}
	_, err := store.CreateRule(context.Background(), PayRule{
		Name:       "Manager Allowance",
		IsActive:   true,
		Conditions: Conditions{Roles: []string{"Manager"}},
		Actions:    Actions{FlatAllowance: floatPtr(50), AllowanceName: "duty_allowance"},
	})
	require.NoError(t, err)

	service := NewService(store, nil, t.TempDir())
	result, err := service.Calculate(context.Background(), periodRequest())
	require.NoError(t, err)

	require.NotNil(t, result.EmployeeResults[1].PayComponents["duty_allowance"])
	require.Nil(t, result.EmployeeResults[2].PayComponents["duty_allowance"])
	require.Equal(t, 50.0, result.Summary.TotalAllowances)
}

func TestCalculatePersistsPerEmployee(t *testing.T) {
	store := newFakeStore()
	store.entries = []TimeEntry{
		entry(1, monday9am, 8),
		entry(2, monday9am, 6),
	}
	_, err := store.CreateRule(context.Background(), PayRule{
		Name:       "Long Shift",
		IsActive:   true,
		Conditions: Conditions{OvertimeThreshold: floatPtr(7)},
		Actions:    Actions{PayMultiplier: floatPtr(1.5), ComponentName: "overtime"},
	})
	require.NoError(t, err)

	service := NewService(store, nil, t.TempDir())
	req := periodRequest()
	req.SaveResults = true
	result, err := service.Calculate(context.Background(), req)
	require.NoError(t, err)

	require.NotNil(t, result.Persistence)
	require.Len(t, result.Persistence.Saved, 2)
	require.Empty(t, result.Persistence.FailureReason)
	require.Empty(t, result.Persistence.SkippedEmployeeIDs)

	first := store.saved[0]
	require.Equal(t, int64(1), first.UserID)
	require.Equal(t, int64(99), first.CalculatedByID)
	require.Equal(t, req.PeriodStart, first.PayPeriodStart)
	require.Equal(t, req.PeriodEnd, first.PayPeriodEnd)
	require.Equal(t, []int64{1}, store.savedRuleIDs[first.ID],
		"the applied rule must be referenced by the saved calculation")

	second := store.saved[1]
	require.Equal(t, int64(2), second.UserID)
	require.Empty(t, store.savedRuleIDs[second.ID],
		"employee 2 worked under the threshold, no rule reference expected")
}

func TestCalculatePersistenceReportOnPartialFailure(t *testing.T) {
	store := newFakeStore()
	store.entries = []TimeEntry{
		entry(1, monday9am, 8),
		entry(2, monday9am, 8),
		entry(3, monday9am, 8),
	}
	store.failSaveFor = 2
	service := NewService(store, nil, t.TempDir())

	req := periodRequest()
	req.SaveResults = true
	result, err := service.Calculate(context.Background(), req)
	require.NoError(t, err, "a persistence failure is reported, not returned")

	report := result.Persistence
	require.NotNil(t, report)
	require.Len(t, report.Saved, 1)
	require.Equal(t, int64(1), report.Saved[0].UserID)
	require.Equal(t, int64(2), report.FailedEmployeeID)
	require.Contains(t, report.FailureReason, "connection reset")
	require.Equal(t, []int64{3}, report.SkippedEmployeeIDs)

	// Employee 1's record stays committed.
	require.Len(t, store.saved, 1)
}

func TestCalculateRolesLookupFailure(t *testing.T) {
	store := newFakeStore()
	store.entries = []TimeEntry{entry(7, monday9am, 8)}
	store.rolesErr = errors.New("db down")
	service := NewService(store, nil, t.TempDir())

	_, err := service.Calculate(context.Background(), periodRequest())
	require.Error(t, err)
	require.Contains(t, err.Error(), "resolve roles for employee 7")
}
