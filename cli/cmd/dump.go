package cmd

import (
	"context"
	"io"
	"log/slog"

	"github.com/ardnew/coral/lang"
	"github.com/ardnew/coral/lang/lexer"
	"github.com/ardnew/coral/pkg"
)

// DumpOptions selects how [Tokens] and [AST] render their output.
type DumpOptions struct {
	Format string `default:"text" enum:"text,json,yaml" help:"Output format (${enum})"     short:"F"`
	Indent int    `default:"2"                          help:"Indent width for nested output" short:"i"`
}

type formatFunc func(*lang.Program, context.Context, io.Writer, int) error

func (d DumpOptions) write(
	ctx context.Context,
	out io.Writer,
	prog *lang.Program,
	text, json, yaml formatFunc,
) error {
	fn := text

	switch d.Format {
	case "json":
		fn = json
	case "yaml":
		fn = yaml
	}

	return fn(prog, ctx, out, d.Indent)
}

// Tokens prints the token stream of a script. Only lexing is performed, so
// scripts with syntax errors can still be inspected.
type Tokens struct {
	DumpOptions `embed:""`

	File string `arg:"" default:"-" help:"Script file, or '-' for stdin" name:"file"`
}

// Run executes the tokens command.
func (t *Tokens) Run(ctx context.Context, out io.Writer) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	_, src, err := readSource(t.File)
	if err != nil {
		return err
	}

	toks, err := lexer.Tokenize(src)
	if err != nil {
		return pkg.AsError(err).With(slog.String("file", t.File))
	}

	return t.write(ctx, out, &lang.Program{Tokens: toks},
		(*lang.Program).FormatTokens,
		(*lang.Program).FormatTokensJSON,
		(*lang.Program).FormatTokensYAML,
	)
}

// AST prints the syntax tree of a script.
type AST struct {
	DumpOptions `embed:""`

	File string `arg:"" default:"-" help:"Script file, or '-' for stdin" name:"file"`
}

// Run executes the ast command.
func (a *AST) Run(ctx context.Context, out io.Writer) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	name, src, err := readSource(a.File)
	if err != nil {
		return err
	}

	prog, err := lang.Compile(ctx, src,
		lang.WithName(name),
		lang.WithCache(false),
	)
	if err != nil {
		return pkg.AsError(err).With(slog.String("file", a.File))
	}

	return a.write(ctx, out, prog,
		(*lang.Program).Format,
		(*lang.Program).FormatJSON,
		(*lang.Program).FormatYAML,
	)
}

// readSource returns the module name and contents of a single script.
func readSource(path string) (name, text string, err error) {
	sources, err := OpenSources([]string{path})
	if err != nil {
		return "", "", err
	}

	defer closeSources(sources)

	data, err := io.ReadAll(sources[0])
	if err != nil {
		return "", "", ErrOpenSource.Wrap(err).With(slog.String("file", path))
	}

	return sources[0].Name, string(data), nil
}
