package cli

import (
	"context"
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/coral/pkg"
)

// ErrConfig is returned when the configuration file is not a YAML mapping.
var ErrConfig = pkg.NewError("invalid configuration")

// resolveYAML returns a [kong.ConfigurationLoader] for YAML config files.
//
// The document is a mapping from flag names to values. Nested mappings are
// joined to their parent key with "-", so both of these set --log-level:
//
//	log-level: debug
//
//	log:
//	  level: debug
//
// Underscores may be used in place of hyphens. Command-line flags override
// config file values.
func resolveYAML(ctx context.Context) kong.ConfigurationLoader {
	return func(r io.Reader) (kong.Resolver, error) {
		var doc map[string]any

		err := yaml.NewDecoder(r).DecodeContext(ctx, &doc)
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, ErrConfig.Wrap(err)
		}

		c := make(config)
		c.flatten("", doc)

		return c, nil
	}
}

// config implements [kong.Resolver] over a flattened YAML document.
type config map[string]any

func (c config) flatten(prefix string, m map[string]any) {
	for k, v := range m {
		key := strings.ReplaceAll(k, "_", "-")
		if prefix != "" {
			key = prefix + "-" + key
		}

		switch v := v.(type) {
		case map[string]any:
			c.flatten(key, v)
		case []any:
			list := make([]string, 0, len(v))
			for _, e := range v {
				list = append(list, scalar(e))
			}

			c[key] = list
		case nil:
		default:
			c[key] = scalar(v)
		}
	}
}

// scalar renders a YAML scalar the way it would be written on the command
// line.
func scalar(v any) string {
	switch v := v.(type) {
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		b, err := yaml.Marshal(v)
		if err != nil {
			return ""
		}

		return strings.TrimSpace(string(b))
	}
}

// Validate implements [kong.Resolver].
func (config) Validate(*kong.Application) error { return nil }

// Resolve implements [kong.Resolver].
func (c config) Resolve(_ *kong.Context, _ *kong.Path, flag *kong.Flag) (any, error) {
	if v, ok := c[flag.Name]; ok {
		return v, nil
	}

	return nil, nil
}
