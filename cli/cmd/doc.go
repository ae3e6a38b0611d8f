// Package cmd implements the coral subcommands: run, tokens, ast, repl and
// init. Commands receive the [context.Context] and the output [io.Writer]
// bound by the root parser, so they can be driven directly from tests.
package cmd

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory (REPL history, profiles).
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path to
	// the YAML configuration file.
	ConfigIdentifier = "config"

	// HistoryIdentifier is the kong variable identifier containing the path
	// to the REPL history file.
	HistoryIdentifier = "history"
)
