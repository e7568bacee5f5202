// Mercator Themis is a rule-based decision service.
//
// It evaluates MRL rule expressions ("role = admin OR dept IN {finance,
// legal}") against request contexts and answers allow/deny questions over
// HTTP, with hot-reloaded YAML rulesets, a persistent audit log of every
// decision, and Prometheus metrics.
//
// Usage:
//
//	# Start the decision server with default configuration
//	themis run
//
//	# Start with a custom configuration file
//	themis run --config /path/to/config.yaml
//
//	# Evaluate a single rule expression from the command line
//	themis eval --rule "age >= 18 AND country IN {DE, FR}" age=20 country=DE
//
//	# Validate a ruleset file
//	themis lint --file rules.yaml
//
//	# Show version information
//	themis version
package main

func main() {
	Execute()
}
