package rules

import "time"

// FieldType declares the shape of one input slot.
type FieldType string

const (
	FieldNumber  FieldType = "number"
	FieldText    FieldType = "text"
	FieldBoolean FieldType = "boolean"
)

// Valid reports whether t is one of the supported field types.
func (t FieldType) Valid() bool {
	switch t {
	case FieldNumber, FieldText, FieldBoolean:
		return true
	}
	return false
}

// Operator is a comparison applied between a field's runtime value and a
// condition literal. The "true"/"false" operators assert a boolean field
// directly and ignore the literal.
type Operator string

const (
	OpGreater      Operator = ">"
	OpLess         Operator = "<"
	OpGreaterEqual Operator = ">="
	OpLessEqual    Operator = "<="
	OpEqual        Operator = "=="
	OpNotEqual     Operator = "!="
	OpTrue         Operator = "true"
	OpFalse        Operator = "false"
)

// Valid reports whether op is one of the supported operators.
func (op Operator) Valid() bool {
	switch op {
	case OpGreater, OpLess, OpGreaterEqual, OpLessEqual,
		OpEqual, OpNotEqual, OpTrue, OpFalse:
		return true
	}
	return false
}

// Field is a named, typed slot in the input record.
type Field struct {
	Name  string    `json:"name" yaml:"name"`
	Type  FieldType `json:"type" yaml:"type"`
	Label string    `json:"label" yaml:"label"`
}

// Condition is one comparison between a field's runtime value and a literal.
// The field reference is a non-owning link; a dangling reference resolves to
// "not satisfied" at evaluation time, never an error.
type Condition struct {
	Field    string   `json:"field" yaml:"field"`
	Operator Operator `json:"operator" yaml:"operator"`
	Value    Value    `json:"value" yaml:"value"`
}

// TimeLimit bounds a rule's validity. ExpiryDate is kept as the ISO-8601
// string it arrives with so that an unparsable timestamp is representable;
// such a rule is treated as never expired.
type TimeLimit struct {
	Enabled          bool   `json:"enabled" yaml:"enabled"`
	ExpiryDate       string `json:"expiryDate" yaml:"expiryDate"`
	PostExpiryRuleID string `json:"postExpiryRuleId,omitempty" yaml:"postExpiryRuleId,omitempty"`
}

// Rule maps a conjunction of conditions to an outcome, with an optional
// alternate OR outcome. A rule with IsPostExpiryRule set is a clone of its
// parent that takes over once the parent's time limit has elapsed; it never
// carries a time limit of its own.
type Rule struct {
	ID               string      `json:"id" yaml:"id"`
	Name             string      `json:"name" yaml:"name"`
	Conditions       []Condition `json:"conditions" yaml:"conditions"`
	Outcome          string      `json:"outcome" yaml:"outcome"`
	UseOrOutcome     bool        `json:"useOrOutcome,omitempty" yaml:"useOrOutcome,omitempty"`
	OrOutcome        string      `json:"orOutcome,omitempty" yaml:"orOutcome,omitempty"`
	TimeLimit        *TimeLimit  `json:"timeLimit,omitempty" yaml:"timeLimit,omitempty"`
	IsPostExpiryRule bool        `json:"isPostExpiryRule,omitempty" yaml:"isPostExpiryRule,omitempty"`
	ParentRuleID     string      `json:"parentRuleId,omitempty" yaml:"parentRuleId,omitempty"`
}

// RuleSet is the root aggregate: the declared input fields plus the ordered
// rule list. Evaluation order follows list order except for post-expiry
// supersession. CreatedAt/UpdatedAt are persistence metadata and play no
// part in evaluation.
type RuleSet struct {
	ID          string    `json:"id" yaml:"id"`
	Name        string    `json:"name" yaml:"name"`
	Description string    `json:"description" yaml:"description"`
	Fields      []Field   `json:"fields" yaml:"fields"`
	Rules       []Rule    `json:"rules" yaml:"rules"`
	CreatedAt   time.Time `json:"createdAt,omitempty" yaml:"createdAt,omitempty"`
	UpdatedAt   time.Time `json:"updatedAt,omitempty" yaml:"updatedAt,omitempty"`
}

// FindRule returns the rule with the given ID from the original list order,
// or nil when no such rule exists.
func (rs *RuleSet) FindRule(id string) *Rule {
	for i := range rs.Rules {
		if rs.Rules[i].ID == id {
			return &rs.Rules[i]
		}
	}
	return nil
}

// Record is the input supplied at evaluation time: field name to value.
type Record map[string]Value

// TimeStatus reports the matched rule's time-limit state at evaluation time.
type TimeStatus struct {
	Expired    bool   `json:"expired" yaml:"expired"`
	ExpiryDate string `json:"expiryDate" yaml:"expiryDate"`
}

// ValidationResult is the outcome of evaluating a rule set against a record.
// Produced fresh on every call; never shares state with prior results.
type ValidationResult struct {
	IsValid     bool        `json:"isValid" yaml:"isValid"`
	Outcome     string      `json:"outcome,omitempty" yaml:"outcome,omitempty"`
	Message     string      `json:"message" yaml:"message"`
	IsOrOutcome bool        `json:"isOrOutcome" yaml:"isOrOutcome"`
	TimeStatus  *TimeStatus `json:"timeStatus,omitempty" yaml:"timeStatus,omitempty"`
}
