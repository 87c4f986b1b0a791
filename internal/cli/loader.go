package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ruleflow/ruleflow/rules"
)

// LoadRuleSet reads a rule-set document from a JSON or YAML file, chosen by
// extension (.yaml/.yml for YAML, anything else JSON).
func LoadRuleSet(path string) (*rules.RuleSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rule set file: %w", err)
	}

	var rs rules.RuleSet
	if err := unmarshalByExt(path, data, &rs); err != nil {
		return nil, fmt.Errorf("failed to parse rule set %s: %w", path, err)
	}
	return &rs, nil
}

// LoadRecord reads an input record from a JSON or YAML file.
func LoadRecord(path string) (rules.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read record file: %w", err)
	}

	var rec rules.Record
	if err := unmarshalByExt(path, data, &rec); err != nil {
		return nil, fmt.Errorf("failed to parse record %s: %w", path, err)
	}
	return rec, nil
}

func unmarshalByExt(path string, data []byte, v any) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Unmarshal(data, v)
	default:
		return json.Unmarshal(data, v)
	}
}
