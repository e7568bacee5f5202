package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "themis",
	Short: "Mercator Themis - rule-based decision service",
	Long: `Mercator Themis is a rule-based decision service built on MRL, a small
infix rule-expression language.

It answers allow/deny questions ("may user X do Y on resource Z?") by
evaluating named rules against request contexts, providing:
  - An infix rule language with AND/OR/NOT, comparisons, and set membership
  - Hot-reloaded YAML rulesets with compile-time validation
  - A persistent audit log of every decision
  - Prometheus metrics and structured logging

For more information, visit: https://github.com/mercator-hq/themis`,
	Version: Version,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Global persistent flags (available to all subcommands)
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "config.yaml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
