package rules

import (
	"slices"
	"time"
)

// DefaultStrictField is the field name whose conditions are excluded from
// the OR-fallback gate: a rule whose other conditions hold but whose
// conditions on this field fail may still produce its alternate outcome.
// The name is a compatibility holdover from the ticketing rule format this
// engine replaces, where age checks were the only strict-only conditions.
const DefaultStrictField = "age"

// Engine evaluates rule sets against input records. It holds no state
// between calls beyond its clock; every evaluation is a pure read over the
// rule set, the record, and the current instant. Safe for concurrent use as
// long as callers treat each RuleSet as an immutable snapshot.
type Engine struct {
	now         func() time.Time
	strictField string
}

// NewEngine returns an engine on the wall clock.
func NewEngine() *Engine {
	return NewEngineAt(time.Now)
}

// NewEngineAt returns an engine with an injected clock. Tests and replay
// tooling pin the clock to make expiry decisions deterministic.
func NewEngineAt(now func() time.Time) *Engine {
	return &Engine{now: now, strictField: DefaultStrictField}
}

var defaultEngine = NewEngine()

// EvaluateRules evaluates the rule set against the record on the wall clock.
func EvaluateRules(rs *RuleSet, rec Record) ValidationResult {
	return defaultEngine.Evaluate(rs, rec)
}

// IsRuleExpired reports whether the rule's time limit has elapsed on the
// wall clock.
func IsRuleExpired(rule *Rule) bool {
	return defaultEngine.IsRuleExpired(rule)
}

// EvaluateCondition reports whether one comparison holds for the record.
//
// A field missing from the record never satisfies any operator. Ordered
// operators compare numbers numerically and text lexicographically; any
// other pairing is not satisfied. Equality and inequality are exact
// kind-and-value checks, so a number field compared to a text literal is
// false for == and true for !=. The true/false operators ignore the literal
// and assert the field's boolean directly. Unknown operators are not
// satisfied. The function never panics and has no side effects.
func EvaluateCondition(cond Condition, rec Record) bool {
	got, ok := rec[cond.Field]
	if !ok || !got.IsValid() {
		return false
	}

	switch cond.Operator {
	case OpGreater:
		c, ok := got.Compare(cond.Value)
		return ok && c > 0
	case OpLess:
		c, ok := got.Compare(cond.Value)
		return ok && c < 0
	case OpGreaterEqual:
		c, ok := got.Compare(cond.Value)
		return ok && c >= 0
	case OpLessEqual:
		c, ok := got.Compare(cond.Value)
		return ok && c <= 0
	case OpEqual:
		return got.Equal(cond.Value)
	case OpNotEqual:
		return !got.Equal(cond.Value)
	case OpTrue:
		b, ok := got.Bool()
		return ok && b
	case OpFalse:
		b, ok := got.Bool()
		return ok && !b
	}

	// Unsupported operator: not satisfied.
	return false
}

// IsRuleExpired reports whether the rule's time limit has elapsed. A rule
// with no time limit, a disabled one, a missing expiry date, or an expiry
// date that does not parse is never expired.
func (e *Engine) IsRuleExpired(rule *Rule) bool {
	if rule == nil || rule.TimeLimit == nil || !rule.TimeLimit.Enabled || rule.TimeLimit.ExpiryDate == "" {
		return false
	}
	expiry, ok := parseExpiry(rule.TimeLimit.ExpiryDate)
	if !ok {
		return false
	}
	return e.now().After(expiry)
}

// Evaluate applies the rule set to the record and returns the first matching
// outcome in supersession order, or the terminal no-match result.
//
// Per rule, in order: a post-expiry rule is skipped while its parent is
// still in force; an expired rule that names a post-expiry replacement is
// skipped in its favour; otherwise the rule's conditions outside the strict
// field are evaluated, and when they all hold the full set decides between
// the primary outcome and, if configured, the alternate OR outcome. Missing
// fields, unknown operators, and dangling references all resolve to "not
// satisfied" and fall through; evaluation never fails partway.
func (e *Engine) Evaluate(rs *RuleSet, rec Record) ValidationResult {
	for _, rule := range supersessionOrder(rs.Rules) {
		// A post-expiry rule defers to its parent until the parent's
		// time limit has elapsed. A parent that cannot be found does
		// not block the replacement.
		if rule.IsPostExpiryRule && rule.ParentRuleID != "" {
			if parent := rs.FindRule(rule.ParentRuleID); parent != nil && !e.IsRuleExpired(parent) {
				continue
			}
		}

		// An expired rule that names a replacement has handed off.
		if rule.TimeLimit != nil && rule.TimeLimit.Enabled &&
			rule.TimeLimit.PostExpiryRuleID != "" && e.IsRuleExpired(&rule) {
			continue
		}

		if !e.conditionsHold(rule.Conditions, rec, false) {
			continue
		}

		if e.conditionsHold(rule.Conditions, rec, true) {
			result := ValidationResult{
				IsValid: true,
				Outcome: rule.Outcome,
				Message: rule.Outcome,
			}
			if rule.TimeLimit != nil && rule.TimeLimit.Enabled {
				result.TimeStatus = &TimeStatus{
					Expired:    e.IsRuleExpired(&rule),
					ExpiryDate: rule.TimeLimit.ExpiryDate,
				}
			}
			return result
		}

		if rule.UseOrOutcome && rule.OrOutcome != "" {
			return ValidationResult{
				IsValid:     true,
				Outcome:     rule.OrOutcome,
				Message:     rule.OrOutcome,
				IsOrOutcome: true,
			}
		}
	}

	return ValidationResult{Message: "No matching rules found"}
}

// conditionsHold reports whether the conditions are satisfied by the record.
// With includeStrict false, conditions on the strict field are left out of
// the conjunction; an empty conjunction holds vacuously.
func (e *Engine) conditionsHold(conds []Condition, rec Record, includeStrict bool) bool {
	for _, c := range conds {
		if !includeStrict && c.Field == e.strictField {
			continue
		}
		if !EvaluateCondition(c, rec) {
			return false
		}
	}
	return true
}

// supersessionOrder returns a copy of the rule list with every post-expiry
// rule placed after its parent. The sort is stable, so ties keep their
// original order and the parent is always considered first.
func supersessionOrder(src []Rule) []Rule {
	ordered := slices.Clone(src)
	slices.SortStableFunc(ordered, func(a, b Rule) int {
		if a.IsPostExpiryRule && a.ParentRuleID != "" && a.ParentRuleID == b.ID {
			return 1
		}
		if b.IsPostExpiryRule && b.ParentRuleID != "" && b.ParentRuleID == a.ID {
			return -1
		}
		return 0
	})
	return ordered
}

// expiryLayouts are tried in order; the first match wins. Rule authors feed
// ISO-8601 timestamps, with or without zone and time-of-day.
var expiryLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func parseExpiry(s string) (time.Time, bool) {
	for _, layout := range expiryLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
