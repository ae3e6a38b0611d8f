// Package cli contains the command line interface for coral.
//
// # Commands
//
//	coral [run] [-D NAME=EXPR]... [FILE|-]...   run scripts (the default)
//	coral tokens [-F text|json|yaml] [FILE|-]   print the token stream
//	coral ast [-F text|json|yaml] [FILE|-]      print the syntax tree
//	coral repl [FILE]                           start an interactive session
//	coral init [-f]                             write the configuration file
//
// # Configuration
//
// Flags may be set in a YAML file in the user configuration directory
// (for example ~/.config/coral/config.yaml). Keys are flag names; nested
// mappings join their keys with "-":
//
//	log:
//	  level: debug
//	  format: text
//	max-depth: 200
//
// Command-line flags override config file values. The init command writes
// the current global flags to this file.
//
// # Logging Options
//
//   - --log-level: minimum level (trace, debug, info, warn, error)
//   - --log-format: json or text
//   - --log-time-layout: rfc3339, kitchen, none, or any Go time layout
//   - --log-caller: include the source location of each record
//   - --[no-]log-pretty: colorized output
//
// Logs are written to stderr. Program output goes to stdout.
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof -o coral .
//
//   - --pprof-mode: cpu, mem, allocs, heap, mutex, block, goroutine,
//     thread, trace or clock
//   - --pprof-dir: profile output directory (default ~/.cache/coral/pprof)
package cli
