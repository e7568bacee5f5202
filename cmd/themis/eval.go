package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"mercator-hq/themis/pkg/mrl"
)

var evalFlags struct {
	rule    string
	verbose bool
}

var evalCmd = &cobra.Command{
	Use:   "eval [key=value ...]",
	Short: "Evaluate a rule expression against a context",
	Long: `Evaluate a single MRL rule expression against a context built from
key=value arguments.

Values that parse as numbers are treated as numbers; everything else is a
string. The command prints "allow" or "deny" and exits 0 either way; a
non-zero exit means the expression failed to parse.

Examples:
  # Simple comparison
  themis eval --rule "age >= 18" age=20

  # Boolean combinators and set membership
  themis eval --rule "(role = admin) OR (country IN {DE, FR})" role=user country=DE

  # Show the parsed expression tree alongside the result
  themis eval --rule "a = 1 AND b = 2" a=1 b=2 --show-tree`,
	RunE: evalRule,
}

func init() {
	rootCmd.AddCommand(evalCmd)

	evalCmd.Flags().StringVarP(&evalFlags.rule, "rule", "r", "", "rule expression to evaluate (required)")
	evalCmd.Flags().BoolVar(&evalFlags.verbose, "show-tree", false, "print the parsed expression")
	evalCmd.MarkFlagRequired("rule")
}

func evalRule(cmd *cobra.Command, args []string) error {
	expr, err := mrl.Parse(evalFlags.rule)
	if err != nil {
		return fmt.Errorf("invalid rule: %w", err)
	}

	input := make(map[string]any, len(args))
	for _, arg := range args {
		key, value, found := strings.Cut(arg, "=")
		if !found || key == "" {
			return fmt.Errorf("invalid context argument %q: expected key=value", arg)
		}
		if n, err := strconv.ParseFloat(value, 64); err == nil {
			input[key] = n
		} else {
			input[key] = value
		}
	}

	if evalFlags.verbose {
		fmt.Printf("expression: %s\n", expr)
	}

	if mrl.Evaluate(expr, input) {
		fmt.Println("allow")
	} else {
		fmt.Println("deny")
	}
	return nil
}
