package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"mercator-hq/themis/pkg/policy/engine/source"
)

var lintFlags struct {
	file   string
	dir    string
	format string
}

var lintCmd = &cobra.Command{
	Use:   "lint",
	Short: "Validate ruleset files",
	Long: `Validate ruleset YAML files, compiling every rule expression.

The lint command reports YAML syntax errors, structural problems (missing
names, duplicates), and MRL syntax errors in rule expressions. All broken
rules in a file are reported together.

Examples:
  # Lint a single file
  themis lint --file rules.yaml

  # Lint a directory of rulesets
  themis lint --dir rulesets/

  # JSON output for CI/CD
  themis lint --file rules.yaml --format json`,
	RunE: lintRuleSets,
}

func init() {
	rootCmd.AddCommand(lintCmd)

	lintCmd.Flags().StringVarP(&lintFlags.file, "file", "f", "", "ruleset file to validate")
	lintCmd.Flags().StringVarP(&lintFlags.dir, "dir", "d", "", "directory of ruleset files")
	lintCmd.Flags().StringVar(&lintFlags.format, "format", "text", "output format: text, json")
}

// LintResult is the validation outcome for one ruleset file.
type LintResult struct {
	File  string `json:"file"`
	Valid bool   `json:"valid"`
	Rules int    `json:"rules,omitempty"`
	Error string `json:"error,omitempty"`
}

func lintRuleSets(cmd *cobra.Command, args []string) error {
	if lintFlags.file == "" && lintFlags.dir == "" {
		return fmt.Errorf("either --file or --dir must be specified")
	}

	var files []string
	if lintFlags.file != "" {
		files = append(files, lintFlags.file)
	}
	if lintFlags.dir != "" {
		for _, pattern := range []string{"*.yaml", "*.yml"} {
			matches, err := filepath.Glob(filepath.Join(lintFlags.dir, pattern))
			if err != nil {
				return fmt.Errorf("failed to list ruleset files: %w", err)
			}
			files = append(files, matches...)
		}
	}
	if len(files) == 0 {
		return fmt.Errorf("no ruleset files found")
	}

	results := make([]LintResult, 0, len(files))
	failed := false
	for _, file := range files {
		result := lintFile(file)
		if !result.Valid {
			failed = true
		}
		results = append(results, result)
	}

	if lintFlags.format == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(results); err != nil {
			return err
		}
	} else {
		for _, r := range results {
			if r.Valid {
				fmt.Printf("✓ %s (%d rules)\n", r.File, r.Rules)
			} else {
				fmt.Printf("✗ %s\n  %s\n", r.File, r.Error)
			}
		}
	}

	if failed {
		return fmt.Errorf("validation failed")
	}
	return nil
}

func lintFile(path string) LintResult {
	rs, err := source.NewFileSource(path).Load(context.Background())
	if err != nil {
		return LintResult{File: path, Valid: false, Error: err.Error()}
	}
	return LintResult{File: path, Valid: true, Rules: rs.Len()}
}
