// Package cli implements the ruleflow command-line tool: offline
// evaluation, linting, and flow rendering of rule-set files.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/ruleflow/ruleflow/internal/logger"
)

var rootCmd = &cobra.Command{
	Use:   "ruleflow",
	Short: "Evaluate and inspect rule-set files",
	Long: `ruleflow works on rule-set documents stored as JSON or YAML files:
evaluate a record against a rule set, lint a rule set for authoring
mistakes, or print its decision flow as text.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.Init()
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
