// Package source provides ruleset sources for the policy engine.
//
// FileSource reads a YAML ruleset file and compiles every rule with the
// MRL parser; MemorySource serves a ruleset compiled from in-memory rule
// text. Both report all broken rules of a load in one joined error, so a
// single lint pass surfaces every problem at once.
package source
