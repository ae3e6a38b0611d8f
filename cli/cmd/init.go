package cmd

import (
	"context"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/coral/log"
	"github.com/ardnew/coral/profile"
)

const defaultConfigIndent = 2

// ignoredFlags are never written to the configuration file.
var ignoredFlags = []string{"help", "version", profile.Tag}

// Init writes the current global flag values to the configuration file.
type Init struct {
	Force bool `help:"Overwrite an existing configuration file" short:"f"`
}

// Run executes the init command.
func (i *Init) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	ktx := kongContextFrom(ctx)
	if ktx == nil {
		return ErrNoConfig
	}

	path := ktx.Model.Vars()[ConfigIdentifier]
	if path == "" {
		return ErrNoConfig
	}

	if _, err := os.Stat(path); err == nil && !i.Force {
		return ErrWriteConfig.
			With(slog.String("file", path), slog.Bool("exists", true)).
			Wrap(ErrFileExists)
	}

	var values yaml.MapSlice

	for _, flag := range ktx.Model.Flags {
		if flag.Hidden || slices.ContainsFunc(ignoredFlags, func(prefix string) bool {
			return strings.HasPrefix(flag.Name, prefix)
		}) {
			continue
		}

		if v, ok := configValue(ktx.FlagValue(flag)); ok {
			values = append(values, yaml.MapItem{Key: flag.Name, Value: v})
		}
	}

	data, err := yaml.MarshalContext(ctx, values, yaml.Indent(defaultConfigIndent))
	if err != nil {
		return ErrYAMLMarshal.Wrap(err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return ErrWriteConfig.With(slog.String("file", path)).Wrap(err)
	}

	log.DebugContext(ctx, "initialized configuration file",
		slog.String("path", path),
		slog.Int("flags", len(values)),
	)

	return nil
}

// configValue returns the YAML representation of a flag value. Unset
// values are omitted.
func configValue(v any) (any, bool) {
	switch v := v.(type) {
	case nil:
		return nil, false
	case string:
		return v, v != ""
	case []string:
		return v, len(v) > 0
	case bool, int, int64, uint, uint64, float64:
		return v, true
	case interface{ String() string }:
		return v.String(), true
	default:
		return v, true
	}
}
