package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ruleflow/ruleflow/rules"
)

var (
	recordPath string
	atInstant  string
)

var evalCmd = &cobra.Command{
	Use:   "eval <ruleset-file>",
	Short: "Evaluate a record against a rule-set file",
	Long: `Evaluates the record against the rule set and prints the validation
result as JSON.

The --at flag pins the evaluation clock to an RFC3339 instant, which makes
time-limited rules reproducible:

  ruleflow eval seating.yaml --record visitor.json
  ruleflow eval seating.yaml --record visitor.json --at 2025-06-15T12:00:00Z`,
	Args: cobra.ExactArgs(1),
	RunE: runEval,
}

func init() {
	rootCmd.AddCommand(evalCmd)

	evalCmd.Flags().StringVar(&recordPath, "record", "", "path to the input record file (required)")
	evalCmd.Flags().StringVar(&atInstant, "at", "", "evaluate as of this RFC3339 instant instead of now")
	evalCmd.MarkFlagRequired("record")
}

func runEval(cmd *cobra.Command, args []string) error {
	rs, err := LoadRuleSet(args[0])
	if err != nil {
		return err
	}

	rec, err := LoadRecord(recordPath)
	if err != nil {
		return err
	}

	engine := rules.NewEngine()
	if atInstant != "" {
		at, err := time.Parse(time.RFC3339, atInstant)
		if err != nil {
			return fmt.Errorf("invalid --at instant: %w", err)
		}
		engine = rules.NewEngineAt(func() time.Time { return at })
	}

	result := engine.Evaluate(rs, rec)

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}
