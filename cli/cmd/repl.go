package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/ardnew/coral/cli/cmd/repl"
	"github.com/ardnew/coral/lang"
	"github.com/ardnew/coral/log"
	"github.com/ardnew/coral/pkg"
)

// REPL starts an interactive session. A script given as argument is run
// first, and its bindings are available at the prompt.
type REPL struct {
	File     string   `arg:""         help:"Script to run before the first prompt"                   optional:"" type:"existingfile"`
	Define   []string `help:"Bind NAME=EXPR in the session namespace" placeholder:"NAME=EXPR" short:"D"`
	MaxDepth int      `default:"0"    help:"Maximum function call depth (0 is unlimited)"`
	History  string   `default:"${history}" help:"History file (empty to disable)"`
}

// Run executes the repl command.
func (r *REPL) Run(ctx context.Context, out io.Writer) error {
	logger := log.Default().With(slog.String("command", "repl"))
	session := repl.NewSession(nil, logger, r.MaxDepth)

	for _, def := range r.Define {
		if err := lang.Define(session.Namespace(), def, os.Environ()); err != nil {
			return err
		}
	}

	if r.File != "" {
		if err := r.preload(ctx, session, out); err != nil {
			return err
		}
	}

	return repl.Run(ctx, session, r.History, logger)
}

func (r *REPL) preload(ctx context.Context, session *repl.Session, out io.Writer) error {
	_, src, err := readSource(r.File)
	if err != nil {
		return err
	}

	printed, err := session.Replace(ctx, src)
	if _, werr := io.WriteString(out, printed); err == nil {
		err = werr
	}

	if err != nil {
		return pkg.AsError(err).With(slog.String("file", r.File))
	}

	return nil
}
