package rulesets

import (
	"fmt"
	"strings"
	"testing"

	"github.com/ruleflow/ruleflow/rules"
)

func validRuleSet() *rules.RuleSet {
	return &rules.RuleSet{
		ID:   "rs-1",
		Name: "Theatre Seating",
		Fields: []rules.Field{
			{Name: "ticketPrice", Type: rules.FieldNumber, Label: "Ticket Price"},
			{Name: "age", Type: rules.FieldNumber, Label: "Age"},
			{Name: "isMember", Type: rules.FieldBoolean, Label: "Member"},
		},
		Rules: []rules.Rule{
			{
				ID:   "front-rows",
				Name: "Front Rows",
				Conditions: []rules.Condition{
					{Field: "ticketPrice", Operator: rules.OpGreaterEqual, Value: rules.Number(80)},
					{Field: "age", Operator: rules.OpGreaterEqual, Value: rules.Number(18)},
				},
				Outcome: "Front Rows",
				TimeLimit: &rules.TimeLimit{
					Enabled:          true,
					ExpiryDate:       "2030-01-01T00:00:00Z",
					PostExpiryRuleID: "front-rows-post",
				},
			},
			{
				ID:   "front-rows-post",
				Name: "Front Rows (Post Expiry)",
				Conditions: []rules.Condition{
					{Field: "ticketPrice", Operator: rules.OpGreaterEqual, Value: rules.Number(80)},
				},
				Outcome:          "Front Rows",
				IsPostExpiryRule: true,
				ParentRuleID:     "front-rows",
			},
		},
	}
}

func TestValidateRuleSetAccepts(t *testing.T) {
	if err := ValidateRuleSet(validRuleSet()); err != nil {
		t.Fatalf("ValidateRuleSet() rejected a valid rule set: %v", err)
	}
}

func TestValidateRuleSetRejects(t *testing.T) {
	testCases := []struct {
		name    string
		mutate  func(rs *rules.RuleSet)
		wantErr string
	}{
		{
			"empty name",
			func(rs *rules.RuleSet) { rs.Name = "" },
			"name cannot be empty",
		},
		{
			"no fields",
			func(rs *rules.RuleSet) { rs.Fields = nil },
			"at least one field",
		},
		{
			"duplicate field name",
			func(rs *rules.RuleSet) { rs.Fields = append(rs.Fields, rules.Field{Name: "age", Type: rules.FieldNumber}) },
			"duplicate field name",
		},
		{
			"bad field identifier",
			func(rs *rules.RuleSet) { rs.Fields[0].Name = "ticket price" },
			"invalid field name",
		},
		{
			"bad field type",
			func(rs *rules.RuleSet) { rs.Fields[0].Type = "decimal" },
			"invalid type",
		},
		{
			"empty rule ID",
			func(rs *rules.RuleSet) { rs.Rules[0].ID = "" },
			"empty ID",
		},
		{
			"duplicate rule ID",
			func(rs *rules.RuleSet) { rs.Rules[1].ID = rs.Rules[0].ID },
			"duplicate rule ID",
		},
		{
			"empty outcome",
			func(rs *rules.RuleSet) { rs.Rules[0].Outcome = "" },
			"empty outcome",
		},
		{
			"or outcome enabled but missing",
			func(rs *rules.RuleSet) { rs.Rules[0].UseOrOutcome = true },
			"does not provide one",
		},
		{
			"condition on undeclared field",
			func(rs *rules.RuleSet) { rs.Rules[0].Conditions[0].Field = "score" },
			"undeclared field",
		},
		{
			"invalid operator",
			func(rs *rules.RuleSet) { rs.Rules[0].Conditions[0].Operator = "===" },
			"invalid operator",
		},
		{
			"dangling post-expiry reference",
			func(rs *rules.RuleSet) { rs.Rules[0].TimeLimit.PostExpiryRuleID = "ghost" },
			"missing post-expiry rule",
		},
		{
			"replacement not flagged post-expiry",
			func(rs *rules.RuleSet) { rs.Rules[1].IsPostExpiryRule = false; rs.Rules[1].ParentRuleID = "" },
			"not flagged",
		},
		{
			"replacement names wrong parent",
			func(rs *rules.RuleSet) { rs.Rules[1].ParentRuleID = "someone-else" },
			"does not reference",
		},
		{
			"post-expiry rule with enabled time limit",
			func(rs *rules.RuleSet) {
				rs.Rules[1].TimeLimit = &rules.TimeLimit{Enabled: true, ExpiryDate: "2031-01-01T00:00:00Z"}
			},
			"must not have an enabled time limit",
		},
		{
			"post-expiry rule without parent reference",
			func(rs *rules.RuleSet) {
				rs.Rules[0].TimeLimit = nil
				rs.Rules[1].ParentRuleID = ""
			},
			"no parent rule reference",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rs := validRuleSet()
			tc.mutate(rs)

			err := ValidateRuleSet(rs)
			if err == nil {
				t.Fatal("ValidateRuleSet() should have rejected the rule set")
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("error %q does not mention %q", err, tc.wantErr)
			}
		})
	}
}

func TestValidateRuleSetNil(t *testing.T) {
	if err := ValidateRuleSet(nil); err == nil {
		t.Fatal("ValidateRuleSet(nil) should return error")
	}
}

func TestValidateRuleSetSizeCeilings(t *testing.T) {
	rs := validRuleSet()
	for i := 0; i < maxFields; i++ {
		rs.Fields = append(rs.Fields, rules.Field{Name: fmt.Sprintf("extra_%d", i), Type: rules.FieldText})
	}
	if err := ValidateRuleSet(rs); err == nil || !strings.Contains(err.Error(), "maximum") {
		t.Errorf("field ceiling not enforced, err = %v", err)
	}
}
