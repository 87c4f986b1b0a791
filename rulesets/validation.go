package rulesets

import (
	"fmt"
	"regexp"

	"github.com/ruleflow/ruleflow/rules"
)

// Authoring-surface ceilings. Evaluation itself has no size limits; these
// keep a single stored document from growing without bound.
const (
	maxFields            = 200
	maxRules             = 100
	maxConditionsPerRule = 50
)

var validIdentifier = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// ValidateRuleSet validates a rule set at the authoring boundary. The
// evaluation engine never validates: it fails closed on anything malformed.
// This check exists so the authoring surface can reject documents that
// would silently never match, before they are stored.
// Returns an error if validation fails, nil if the rule set is valid.
func ValidateRuleSet(rs *rules.RuleSet) error {
	if rs == nil {
		return fmt.Errorf("rule set cannot be nil")
	}
	if rs.Name == "" {
		return fmt.Errorf("rule set name cannot be empty")
	}

	if len(rs.Fields) == 0 {
		return fmt.Errorf("rule set must declare at least one field")
	}
	if len(rs.Fields) > maxFields {
		return fmt.Errorf("rule set declares %d fields, maximum allowed is %d", len(rs.Fields), maxFields)
	}
	if len(rs.Rules) > maxRules {
		return fmt.Errorf("rule set contains %d rules, maximum allowed is %d", len(rs.Rules), maxRules)
	}

	fieldNames := make(map[string]bool, len(rs.Fields))
	for _, field := range rs.Fields {
		if err := validateIdentifier(field.Name); err != nil {
			return fmt.Errorf("invalid field name %q: %w", field.Name, err)
		}
		if fieldNames[field.Name] {
			return fmt.Errorf("duplicate field name %q", field.Name)
		}
		fieldNames[field.Name] = true

		if !field.Type.Valid() {
			return fmt.Errorf("field %q has invalid type %q (must be one of: number, text, boolean)", field.Name, field.Type)
		}
	}

	ruleIDs := make(map[string]bool, len(rs.Rules))
	for i := range rs.Rules {
		rule := &rs.Rules[i]
		if rule.ID == "" {
			return fmt.Errorf("rule %q has empty ID", rule.Name)
		}
		if ruleIDs[rule.ID] {
			return fmt.Errorf("duplicate rule ID %q", rule.ID)
		}
		ruleIDs[rule.ID] = true

		if err := validateRule(rs, rule, fieldNames); err != nil {
			return err
		}
	}

	return nil
}

func validateRule(rs *rules.RuleSet, rule *rules.Rule, fieldNames map[string]bool) error {
	if rule.Outcome == "" {
		return fmt.Errorf("rule %q has empty outcome", rule.ID)
	}
	if rule.UseOrOutcome && rule.OrOutcome == "" {
		return fmt.Errorf("rule %q enables the OR outcome but does not provide one", rule.ID)
	}

	if len(rule.Conditions) > maxConditionsPerRule {
		return fmt.Errorf("rule %q has %d conditions, maximum allowed is %d", rule.ID, len(rule.Conditions), maxConditionsPerRule)
	}
	for _, cond := range rule.Conditions {
		if !fieldNames[cond.Field] {
			return fmt.Errorf("rule %q references undeclared field %q", rule.ID, cond.Field)
		}
		if !cond.Operator.Valid() {
			return fmt.Errorf("rule %q has invalid operator %q (must be one of: >, <, >=, <=, ==, !=, true, false)", rule.ID, cond.Operator)
		}
	}

	// Post-expiry linkage must be bidirectional: the parent names the
	// replacement, the replacement names the parent.
	if rule.TimeLimit != nil && rule.TimeLimit.PostExpiryRuleID != "" {
		post := rs.FindRule(rule.TimeLimit.PostExpiryRuleID)
		if post == nil {
			return fmt.Errorf("rule %q names missing post-expiry rule %q", rule.ID, rule.TimeLimit.PostExpiryRuleID)
		}
		if !post.IsPostExpiryRule {
			return fmt.Errorf("rule %q names %q as post-expiry replacement, but it is not flagged as one", rule.ID, post.ID)
		}
		if post.ParentRuleID != rule.ID {
			return fmt.Errorf("post-expiry rule %q does not reference %q as its parent", post.ID, rule.ID)
		}
	}

	// A post-expiry rule never carries its own enabled time limit.
	if rule.IsPostExpiryRule {
		if rule.TimeLimit != nil && rule.TimeLimit.Enabled {
			return fmt.Errorf("post-expiry rule %q must not have an enabled time limit", rule.ID)
		}
		if rule.ParentRuleID == "" {
			return fmt.Errorf("post-expiry rule %q has no parent rule reference", rule.ID)
		}
	}

	return nil
}

// validateIdentifier validates a field name: 1-100 characters, starting with
// a letter or underscore, followed by letters, digits, or underscores.
func validateIdentifier(name string) error {
	if len(name) == 0 {
		return fmt.Errorf("identifier cannot be empty")
	}
	if len(name) > 100 {
		return fmt.Errorf("identifier length %d exceeds maximum of 100 characters", len(name))
	}
	if !validIdentifier.MatchString(name) {
		return fmt.Errorf("must match pattern ^[a-zA-Z_][a-zA-Z0-9_]*$ (start with letter or underscore, followed by letters, digits, or underscores)")
	}
	return nil
}
