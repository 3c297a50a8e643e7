package payroll

import (
	"sort"
	"strings"
)

// EntryHours returns the entry's worked time in fractional hours, or 0 when
// either timestamp is missing. Callers are expected to pre-filter to Closed
// entries; this re-derives defensively.
func EntryHours(entry TimeEntry) float64 {
	if entry.ClockInTime.IsZero() || entry.ClockOutTime == nil || entry.ClockOutTime.IsZero() {
		return 0
	}
	return entry.ClockOutTime.Sub(entry.ClockInTime).Hours()
}

// MatchesConditions reports whether the entry satisfies every present clause.
// Absent clauses are vacuously true.
func MatchesConditions(entry TimeEntry, conds Conditions, rctx RuleContext) bool {
	if len(conds.DayOfWeek) > 0 {
		day := int(entry.ClockInTime.Weekday())
		if !containsInt(conds.DayOfWeek, day) {
			return false
		}
	}

	if conds.TimeRange != nil {
		hour := entry.ClockInTime.Hour()
		start, end := conds.TimeRange.Start, conds.TimeRange.End
		if start > end {
			// Overnight window, e.g. 22..6 spans midnight.
			if !(hour >= start || hour < end) {
				return false
			}
		} else if !(hour >= start && hour < end) {
			return false
		}
	}

	// The threshold applies to this entry's own hours, not a running daily or
	// weekly total, and is strict: exactly-threshold entries do not match.
	if conds.OvertimeThreshold != nil {
		if EntryHours(entry) <= *conds.OvertimeThreshold {
			return false
		}
	}

	if len(conds.EmployeeIDs) > 0 && !containsInt64(conds.EmployeeIDs, entry.UserID) {
		return false
	}

	if len(conds.Roles) > 0 && !intersects(conds.Roles, rctx.UserRoles) {
		return false
	}

	return true
}

// ApplyActions expands a matched rule into named component deltas, one per
// present action clause. Keys never collide within a single rule; collisions
// across rules are summed by MergeComponents.
func ApplyActions(entry TimeEntry, actions Actions, ruleName string) map[string]Component {
	deltas := make(map[string]Component)
	hours := EntryHours(entry)

	if actions.PayMultiplier != nil {
		name := actions.ComponentName
		if name == "" {
			name = slugify(ruleName)
		}
		deltas[name] = Component{
			Hours:      hours,
			Multiplier: *actions.PayMultiplier,
			Type:       ComponentTypeHours,
			RuleName:   ruleName,
		}
	}

	if actions.FlatAllowance != nil {
		name := actions.AllowanceName
		if name == "" {
			name = slugify(ruleName) + "_allowance"
		}
		deltas[name] = Component{
			Amount:   *actions.FlatAllowance,
			Type:     ComponentTypeAllowance,
			RuleName: ruleName,
		}
	}

	if actions.ShiftDifferential != nil {
		name := actions.DifferentialName
		if name == "" {
			name = slugify(ruleName) + "_diff"
		}
		deltas[name] = Component{
			Hours:        hours,
			Differential: *actions.ShiftDifferential,
			Type:         ComponentTypeDifferential,
			RuleName:     ruleName,
		}
	}

	return deltas
}

// MergeComponents folds per-rule deltas into the employee's running component
// map. First sight of a key copies multiplier/differential/type; hours and
// amounts accumulate additively, so merge order never changes totals.
func MergeComponents(into map[string]*Component, deltas map[string]Component) {
	for name, delta := range deltas {
		existing, ok := into[name]
		if !ok {
			existing = &Component{
				Multiplier:   delta.Multiplier,
				Differential: delta.Differential,
				Type:         delta.Type,
			}
			into[name] = existing
		}
		existing.Hours += delta.Hours
		existing.Amount += delta.Amount
		if delta.RuleName != "" {
			existing.RulesApplied = append(existing.RulesApplied, delta.RuleName)
		}
	}
}

// ReconcileRegularHours synthesizes a regular-pay component for hours no rule
// claimed, so every worked hour shows up in at least one component. Runs once
// per employee after all entries are merged.
func ReconcileRegularHours(components map[string]*Component, totalHours float64) {
	for _, component := range components {
		if component.Type == ComponentTypeRegular {
			return
		}
	}

	accounted := 0.0
	for _, component := range components {
		if component.Type == ComponentTypeHours {
			accounted += component.Hours
		}
	}

	leftover := totalHours - accounted
	if leftover > 0 {
		components[RegularComponentName] = &Component{
			Hours:        leftover,
			Multiplier:   MultiplierRegular,
			Type:         ComponentTypeRegular,
			RulesApplied: []string{DefaultRuleName},
		}
	}
}

// Summarize buckets components into the period summary. Hours bucket by exact
// multiplier (1.0 / 1.5 / >=2.0); in-between multipliers land in no hours
// bucket, intentionally preserved as-is.
func Summarize(components map[string]*Component) Summary {
	var summary Summary

	for _, component := range components {
		multiplier := component.Multiplier
		if multiplier == 0 {
			multiplier = MultiplierRegular
		}

		switch {
		case component.Type == ComponentTypeRegular || multiplier == MultiplierRegular:
			summary.RegularHours += component.Hours
		case multiplier == MultiplierOvertime:
			summary.OvertimeHours += component.Hours
		case multiplier >= MultiplierDoubleTime:
			summary.DoubleTimeHours += component.Hours
		}

		if component.Type == ComponentTypeAllowance {
			summary.TotalAllowances += component.Amount
		}

		if component.Differential != 0 {
			summary.ShiftDifferentials += component.Differential * component.Hours
		}
	}

	return summary
}

// CalculateEmployee runs the full per-employee pipeline: every entry against
// every rule (all matching rules apply; priority does not short-circuit),
// then reconciliation and summarization.
func CalculateEmployee(entries []TimeEntry, rules []PayRule, rctx RuleContext) EmployeeResult {
	components := make(map[string]*Component)
	applied := make(map[int64]struct{})
	var totalHours float64

	for _, entry := range entries {
		totalHours += EntryHours(entry)

		for _, rule := range rules {
			if !MatchesConditions(entry, rule.Conditions, rctx) {
				continue
			}
			MergeComponents(components, ApplyActions(entry, rule.Actions, rule.Name))
			applied[rule.ID] = struct{}{}
		}
	}

	ReconcileRegularHours(components, totalHours)

	result := EmployeeResult{
		TotalHours:    totalHours,
		PayComponents: components,
		Summary:       Summarize(components),
	}
	if len(entries) > 0 {
		result.UserID = entries[0].UserID
		result.Username = entries[0].Username
	}
	for id := range applied {
		result.AppliedRuleIDs = append(result.AppliedRuleIDs, id)
	}
	sort.Slice(result.AppliedRuleIDs, func(i, j int) bool {
		return result.AppliedRuleIDs[i] < result.AppliedRuleIDs[j]
	})
	return result
}

func slugify(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), "_")
}

func containsInt(values []int, want int) bool {
	for _, v := range values {
		if v == want {
			return true
		}
	}
	return false
}

func containsInt64(values []int64, want int64) bool {
	for _, v := range values {
		if v == want {
			return true
		}
	}
	return false
}

func intersects(a, b []string) bool {
	for _, x := range a {
		for _, y := range b {
			if x == y {
				return true
			}
		}
	}
	return false
}
