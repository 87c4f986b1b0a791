package main

import (
	"os"

	"github.com/ruleflow/ruleflow/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
