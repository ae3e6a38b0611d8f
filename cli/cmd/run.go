package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/ardnew/coral/lang"
	"github.com/ardnew/coral/log"
	"github.com/ardnew/coral/pkg"
)

// Run executes coral scripts. All files share one root namespace and run in
// the order given, so earlier files can define functions for later ones.
type Run struct {
	Files    []string `arg:""         default:"-" help:"Script files, or '-' for stdin"                 name:"file"`
	Define   []string `help:"Bind NAME=EXPR in the root namespace before running" placeholder:"NAME=EXPR" short:"D"`
	MaxDepth int      `default:"0"    help:"Maximum function call depth (0 is unlimited)"`
	Cache    bool     `default:"true" help:"Reuse compiled programs for identical sources"  negatable:""`
}

// Run executes the run command.
func (r *Run) Run(ctx context.Context, out io.Writer) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	ns := lang.NewRootNamespace()

	for _, def := range r.Define {
		if err := lang.Define(ns, def, os.Environ()); err != nil {
			return err
		}
	}

	sources, err := OpenSources(r.Files)
	if err != nil {
		return err
	}

	defer closeSources(sources)

	logger := log.Default().With(slog.String("command", "run"))

	for _, src := range sources {
		prog, err := lang.CompileReader(ctx, src,
			lang.WithName(src.Name),
			lang.WithMaxDepth(r.MaxDepth),
			lang.WithCache(r.Cache),
			lang.WithOutput(out),
			lang.WithLogger(logger),
		)
		if err != nil {
			return pkg.AsError(err).With(slog.String("file", src.Path))
		}

		if err := prog.Run(ctx, ns); err != nil {
			return pkg.AsError(err).With(slog.String("file", src.Path))
		}

		log.DebugContext(ctx, "script complete",
			slog.String("module", prog.Name()),
			slog.String("file", src.Path),
		)
	}

	return nil
}
