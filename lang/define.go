package lang

// This file implements host definitions: bindings of the form NAME=EXPR that
// are evaluated with expr-lang before a program runs and bound in its root
// namespace. The expression environment exposes the process environment,
// PATH-list helpers and every non-function binding already visible.

import (
	"log/slog"
	"os"
	"strings"

	"github.com/ardnew/mung"
	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/ardnew/coral/lang/lexer"
	"github.com/ardnew/coral/lang/token"
)

// Define evaluates a definition "NAME=EXPR" and binds the result to NAME in
// ns. If environ is nil, os.Environ() supplies the env() function.
func Define(ns *Namespace, definition string, environ []string) error {
	name, source, ok := strings.Cut(definition, "=")
	name, source = strings.TrimSpace(name), strings.TrimSpace(source)

	if !ok || source == "" {
		return ErrDefine.Wrapf("expected NAME=EXPR, got %q", definition)
	}

	if !isIdentifier(name) {
		return ErrDefine.Wrapf("%q is not an identifier", name)
	}

	env := defineEnv(ns, buildProcessEnvMap(environ))

	program, err := expr.Compile(source, expr.Env(env))
	if err != nil {
		return ErrDefine.Wrap(err).
			With(slog.String("name", name), slog.String("source", source))
	}

	result, err := vm.Run(program, env)
	if err != nil {
		return ErrDefine.Wrap(err).
			With(slog.String("name", name), slog.String("source", source))
	}

	v, err := FromNative(result)
	if err != nil {
		return err
	}

	ns.Define(name, v)

	return nil
}

// isIdentifier reports whether s lexes as exactly one identifier token.
func isIdentifier(s string) bool {
	toks, err := lexer.Tokenize(s)

	return err == nil && len(toks) == 1 && toks[0].Kind == token.Identifier
}

func defineEnv(ns *Namespace, processEnv map[string]string) map[string]any {
	env := map[string]any{
		"env": envFunc(processEnv),
		"mung": map[string]any{
			"prefix":   mungPrefix,
			"prefixif": mungPrefixIf,
		},
	}

	for name, v := range ns.All() {
		if native, ok := ToNative(v); ok {
			env[name] = native
		}
	}

	return env
}

// ToNative converts v to the corresponding Go value. Functions have no
// native form.
func ToNative(v Value) (any, bool) {
	switch v := v.(type) {
	case Integer:
		return int64(v), true
	case Float:
		return float64(v), true
	case String:
		return string(v), true
	case Boolean:
		return bool(v), true
	case Null:
		return nil, true
	}

	return nil, false
}

// FromNative converts a Go scalar to a [Value].
func FromNative(x any) (Value, error) {
	switch x := x.(type) {
	case nil:
		return Null{}, nil
	case Value:
		return x, nil
	case bool:
		return Boolean(x), nil
	case string:
		return String(x), nil
	case int:
		return Integer(x), nil
	case int8:
		return Integer(x), nil
	case int16:
		return Integer(x), nil
	case int32:
		return Integer(x), nil
	case int64:
		return Integer(x), nil
	case uint:
		return Integer(x), nil
	case uint8:
		return Integer(x), nil
	case uint16:
		return Integer(x), nil
	case uint32:
		return Integer(x), nil
	case uint64:
		return Integer(x), nil
	case float32:
		return Float(x), nil
	case float64:
		return Float(x), nil
	}

	return nil, ErrDefine.Wrapf("unsupported result type %T", x)
}

func mungPrefix(key string, prefix ...string) string {
	return mung.Make(
		mung.WithSubjectItems(key),
		mung.WithDelim(string(os.PathListSeparator)),
		mung.WithPrefixItems(prefix...),
	).String()
}

func mungPrefixIf(
	key string,
	predicate func(string) bool,
	prefix ...string,
) string {
	return mung.Make(
		mung.WithSubjectItems(key),
		mung.WithDelim(string(os.PathListSeparator)),
		mung.WithPrefixItems(prefix...),
		mung.WithFilter(predicate),
	).String()
}

// buildProcessEnvMap converts a "KEY=VALUE" string slice to a map.
// If envList is nil, os.Environ() is used.
func buildProcessEnvMap(envList []string) map[string]string {
	if envList == nil {
		envList = os.Environ()
	}

	result := make(map[string]string, len(envList))

	for _, entry := range envList {
		key, value, ok := strings.Cut(entry, "=")
		if ok {
			result[key] = value
		}
	}

	return result
}

// envFunc returns the env() function that reads the process environment.
func envFunc(processEnv map[string]string) func(string) string {
	return func(key string) string {
		return processEnv[key]
	}
}
