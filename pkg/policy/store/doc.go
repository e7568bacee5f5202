// Package store persists ruleset revision history in SQLite.
//
// Every successful ruleset load can be recorded as a Revision (raw source,
// version, rule count, load time), giving operators an answer to "which
// rules were in force at time T" without reaching for the Git history of
// the ruleset file.
package store
