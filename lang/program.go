package lang

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/ardnew/coral/lang/lexer"
	"github.com/ardnew/coral/lang/token"
	"github.com/ardnew/coral/log"
)

// DefaultModuleName names a [Module] compiled without [WithName].
const DefaultModuleName = "main"

// DefaultMaxDepth is the default limit on nested function calls.
// Zero means unlimited. Users may modify this before compiling to change the
// default.
var DefaultMaxDepth = 0

// Program is a compiled coral module ready to run.
type Program struct {
	Module *Module
	Tokens []token.Token

	opts   optionsKey // configuration options
	out    io.Writer  // destination of print statements
	logger log.Logger // structured logger (outside optionsKey, doesn't affect cache)
}

// optionsKey holds the options that affect compilation.
// This type is gob-encodable for cache key hashing.
type optionsKey struct {
	name     string
	maxDepth int
	noCache  bool
}

// Option configures compiling or running a [Program].
type Option func(*Program)

// WithName sets the module name.
func WithName(name string) Option {
	return func(p *Program) {
		p.opts.name = name
	}
}

// WithMaxDepth limits the depth of nested function calls. A call beyond the
// limit fails with [ErrMaxDepthExceeded]. Zero or less disables the limit.
func WithMaxDepth(depth int) Option {
	return func(p *Program) {
		p.opts.maxDepth = depth
	}
}

// WithCache enables or disables the global program cache.
func WithCache(enable bool) Option {
	return func(p *Program) {
		p.opts.noCache = !enable
	}
}

// WithOutput sets the writer that print statements write to.
// The default is os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(p *Program) {
		p.out = w
	}
}

// WithLogger sets the structured logger for trace-level debugging.
// If not provided, the logger is zero-valued and all logging is a no-op.
func WithLogger(logger log.Logger) Option {
	return func(p *Program) {
		p.logger = logger
	}
}

// applyDefaults sets default option values on a Program.
func applyDefaults(p *Program) {
	p.opts.name = DefaultModuleName
	p.opts.maxDepth = DefaultMaxDepth
	p.out = os.Stdout
}

// applyOptions applies functional options to a Program.
func applyOptions(p *Program, opts ...Option) {
	for _, opt := range opts {
		opt(p)
	}
}

func newProgram(opts ...Option) *Program {
	p := new(Program)

	applyDefaults(p)
	applyOptions(p, opts...)

	return p
}

// Compile tokenizes and parses src into a Program.
//
// Compiled modules are cached by source and options unless disabled with
// [WithCache]. The syntax tree is never modified by running it, so a cached
// module is shared by every Program compiled from the same input.
func Compile(ctx context.Context, src string, opts ...Option) (*Program, error) {
	p := newProgram(opts...)

	p.logger.TraceContext(ctx, "compile start",
		slog.Int("source_length", len(src)),
		slog.String("module", p.opts.name),
	)

	var err error

	if p.opts.noCache {
		err = p.compile(ctx, src)
	} else {
		err = p.compileCached(ctx, src)
	}

	if err != nil {
		return nil, err
	}

	return p, nil
}

// Name returns the module name.
func (p *Program) Name() string { return p.opts.name }

func (p *Program) compile(ctx context.Context, src string) error {
	toks, err := lexer.Tokenize(src)
	if err != nil {
		return err
	}

	p.logger.TraceContext(ctx, "lex complete", slog.Int("token_count", len(toks)))

	body, err := Parse(token.NewStream(toks))
	if err != nil {
		return err
	}

	p.logger.TraceContext(ctx, "parse complete",
		slog.Int("statement_count", len(body)))

	p.Tokens = toks
	p.Module = &Module{Name: p.opts.name, Body: body}

	return nil
}

// Run executes the program in ns. A nil ns runs in a new root namespace.
//
// Cancellation of ctx is observed between top-level statements.
func (p *Program) Run(ctx context.Context, ns *Namespace) error {
	if ns == nil {
		ns = NewRootNamespace()
	}

	if _, err := p.evaluator(ctx).module(p.Module, ns); err != nil {
		return err
	}

	p.logger.TraceContext(ctx, "run complete",
		slog.String("module", p.Module.Name),
		slog.Int("binding_count", len(ns.Names())),
	)

	return nil
}

func (p *Program) evaluator(ctx context.Context) *evaluator {
	return &evaluator{
		ctx:      ctx,
		out:      p.out,
		logger:   p.logger,
		maxDepth: p.opts.maxDepth,
	}
}
