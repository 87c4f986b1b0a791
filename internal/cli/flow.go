package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ruleflow/ruleflow/flowchart"
)

var flowCmd = &cobra.Command{
	Use:   "flow <ruleset-file>",
	Short: "Print a rule set's decision flow as text",
	Args:  cobra.ExactArgs(1),
	RunE:  runFlow,
}

func init() {
	rootCmd.AddCommand(flowCmd)
}

func runFlow(cmd *cobra.Command, args []string) error {
	rs, err := LoadRuleSet(args[0])
	if err != nil {
		return err
	}

	fmt.Fprint(cmd.OutOrStdout(), flowchart.Render(rs))
	return nil
}
