package repl

import (
	"context"
	"log/slog"
	"strings"

	"github.com/ardnew/coral/lang"
	"github.com/ardnew/coral/log"
)

// moduleName names the modules compiled from REPL input.
const moduleName = "repl"

// Session evaluates input against a namespace that persists between inputs.
// It records the source of every input that ran successfully, which the
// edit command opens as a script.
type Session struct {
	ns       *lang.Namespace
	logger   log.Logger
	maxDepth int
	source   []string
}

// NewSession returns a Session over ns. A nil ns starts from an empty root
// namespace.
func NewSession(ns *lang.Namespace, logger log.Logger, maxDepth int) *Session {
	if ns == nil {
		ns = lang.NewRootNamespace()
	}

	return &Session{ns: ns, logger: logger, maxDepth: maxDepth}
}

// Namespace returns the namespace inputs are evaluated in.
func (s *Session) Namespace() *lang.Namespace { return s.ns }

// Source returns the accumulated source of all successful inputs.
func (s *Session) Source() string {
	if len(s.source) == 0 {
		return ""
	}

	return strings.Join(s.source, "\n") + "\n"
}

// terminate appends the statement terminator that interactive input may
// omit.
func terminate(input string) string {
	input = strings.TrimSpace(input)
	if input == "" || strings.HasSuffix(input, ";") || strings.HasSuffix(input, "}") {
		return input
	}

	return input + ";"
}

// Eval runs input and returns everything it printed. When input is a single
// expression statement, the value of the expression is appended to the
// output unless it is null.
func (s *Session) Eval(ctx context.Context, input string) (string, error) {
	src := terminate(input)
	if src == "" {
		return "", nil
	}

	var out strings.Builder

	opts := []lang.Option{
		lang.WithName(moduleName),
		lang.WithCache(false),
		lang.WithMaxDepth(s.maxDepth),
		lang.WithOutput(&out),
		lang.WithLogger(s.logger),
	}

	prog, err := lang.Compile(ctx, src, opts...)
	if err != nil {
		return "", err
	}

	if x, ok := singleExpression(prog.Module); ok {
		v, err := lang.Eval(ctx, x, s.ns, opts...)
		if err != nil {
			return out.String(), err
		}

		if _, null := v.(lang.Null); !null {
			out.WriteString(v.Display())
			out.WriteByte('\n')
		}
	} else if err := prog.Run(ctx, s.ns); err != nil {
		return out.String(), err
	}

	s.source = append(s.source, src)

	s.logger.TraceContext(ctx, "repl eval",
		slog.Int("output_bytes", out.Len()),
		slog.Int("binding_count", len(s.ns.Names())),
	)

	return out.String(), nil
}

// Replace runs src in a fresh root namespace and, if it succeeds, makes
// that namespace and source the session state.
func (s *Session) Replace(ctx context.Context, src string) (string, error) {
	next := NewSession(nil, s.logger, s.maxDepth)

	var out strings.Builder

	prog, err := lang.Compile(ctx, src,
		lang.WithName(moduleName),
		lang.WithCache(false),
		lang.WithMaxDepth(s.maxDepth),
		lang.WithOutput(&out),
		lang.WithLogger(s.logger),
	)
	if err != nil {
		return "", err
	}

	if err := prog.Run(ctx, next.ns); err != nil {
		return out.String(), err
	}

	s.ns = next.ns
	s.source = nil

	if src = strings.TrimSpace(src); src != "" {
		s.source = []string{src}
	}

	return out.String(), nil
}

func singleExpression(m *lang.Module) (lang.Expression, bool) {
	if m == nil || len(m.Body) != 1 {
		return nil, false
	}

	stmt, ok := m.Body[0].(*lang.ExprStatement)
	if !ok {
		return nil, false
	}

	return stmt.X, true
}
