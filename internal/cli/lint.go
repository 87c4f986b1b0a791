package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ruleflow/ruleflow/rulesets"
)

var lintCmd = &cobra.Command{
	Use:   "lint <ruleset-file>",
	Short: "Check a rule-set file for authoring mistakes",
	Long: `Runs the authoring-boundary validation over a rule-set file:
undeclared field references, unknown operators and types, broken
post-expiry linkage, and size ceilings. The evaluation engine itself
tolerates all of these by failing closed; lint catches them before a
rule silently never matches.`,
	Args: cobra.ExactArgs(1),
	RunE: runLint,
}

func init() {
	rootCmd.AddCommand(lintCmd)
}

func runLint(cmd *cobra.Command, args []string) error {
	rs, err := LoadRuleSet(args[0])
	if err != nil {
		return err
	}

	if err := rulesets.ValidateRuleSet(rs); err != nil {
		return fmt.Errorf("rule set is invalid: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s: ok (%d fields, %d rules)\n", args[0], len(rs.Fields), len(rs.Rules))
	return nil
}
