// Package flowchart renders a rule set as a human-readable text flow:
// start, declared inputs, one decision per rule in list order, and the
// terminal no-match node. It is a read-only view and never evaluates
// anything.
package flowchart

import (
	"fmt"
	"strings"

	"github.com/ruleflow/ruleflow/rules"
)

// Render returns the textual flow chart for the rule set.
func Render(rs *rules.RuleSet) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s\n", rs.Name)
	b.WriteString("[Start]\n")

	b.WriteString("  |\n")
	b.WriteString("[Inputs]\n")
	for _, field := range rs.Fields {
		fmt.Fprintf(&b, "  * %s (%s)\n", field.Label, field.Type)
	}

	for _, rule := range rs.Rules {
		b.WriteString("  |\n")
		fmt.Fprintf(&b, "<%s>\n", rule.Name)
		for _, cond := range rule.Conditions {
			fmt.Fprintf(&b, "  ? %s %s %s\n", fieldLabel(rs, cond.Field), cond.Operator, cond.Value)
		}
		fmt.Fprintf(&b, "  yes -> [%s]\n", rule.Outcome)
		if rule.UseOrOutcome && rule.OrOutcome != "" {
			fmt.Fprintf(&b, "  or  -> [%s]\n", rule.OrOutcome)
		}
		if rule.TimeLimit != nil && rule.TimeLimit.Enabled {
			fmt.Fprintf(&b, "  until %s", rule.TimeLimit.ExpiryDate)
			if rule.TimeLimit.PostExpiryRuleID != "" {
				fmt.Fprintf(&b, ", then %s", ruleName(rs, rule.TimeLimit.PostExpiryRuleID))
			}
			b.WriteString("\n")
		}
		if rule.IsPostExpiryRule {
			fmt.Fprintf(&b, "  takes over from %s\n", ruleName(rs, rule.ParentRuleID))
		}
	}

	b.WriteString("  |\n")
	b.WriteString("[No Match Found]\n")

	return b.String()
}

// fieldLabel prefers the declared display label, falling back to the raw
// field name for dangling references.
func fieldLabel(rs *rules.RuleSet, name string) string {
	for _, f := range rs.Fields {
		if f.Name == name {
			return f.Label
		}
	}
	return name
}

func ruleName(rs *rules.RuleSet, id string) string {
	if rule := rs.FindRule(id); rule != nil {
		return rule.Name
	}
	return id
}
