// Package log is a small structured logging layer over [log/slog].
//
// A [Logger] is an immutable value built by [Make] from functional options.
// The zero Logger discards everything, which lets libraries accept a Logger
// in their options without requiring callers to configure one.
//
//	logger := log.Make(os.Stderr, log.WithLevel(log.LevelDebug))
//	logger.Info("compiled", slog.Int("statements", 12))
//
// # Levels
//
// In addition to the four [log/slog] levels the package defines
// [LevelTrace], used for per-call diagnostics that are too noisy for
// [LevelDebug]. Level names are accepted case-insensitively by
// [ParseLevel] and [Level.UnmarshalText].
//
// # Output
//
// Records are written as JSON ([FormatJSON], the default) or as key=value
// text ([FormatText]). With [WithPretty] both formats are colorized and the
// JSON form is indented. Timestamps follow [WithTimeLayout], which accepts
// the names of the [time] package layouts.
//
// # Package-level logger
//
// The functions [Debug], [Info], [Warn] and [Error] (and their Context
// variants) write through a process-wide logger that [Config] reconfigures
// and [SetDefault] replaces. Context-unaware functions use
// [DefaultContextProvider].
package log
