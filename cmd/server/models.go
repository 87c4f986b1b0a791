package main

import (
	"github.com/ruleflow/ruleflow/rules"
)

// API request and response models

// EvaluateRequest is the body of the stateless evaluation endpoint: the
// full rule-set document plus the input record.
type EvaluateRequest struct {
	RuleSet *rules.RuleSet `json:"ruleSet"`
	Record  rules.Record   `json:"record"`
}

// EvaluateRecordRequest is the body when evaluating a stored rule set.
type EvaluateRecordRequest struct {
	Record rules.Record `json:"record"`
}

// EvaluateResponse wraps the validation result with timing.
type EvaluateResponse struct {
	Result         rules.ValidationResult `json:"result"`
	EvaluationTime string                 `json:"evaluationTime"`
}

// RuleSetsListResponse is the response for listing rule sets.
type RuleSetsListResponse struct {
	RuleSets []*rules.RuleSet `json:"ruleSets"`
}
