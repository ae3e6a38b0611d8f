package repl

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/ardnew/coral/log"
)

const defaultEditor = "vi"

// editCommand implements [tea.ExecCommand] for the edit-run-retry loop. It
// writes the session source to a temp file, opens the user's editor, and
// replays the result in a fresh namespace. On failure the user is prompted
// to re-edit; declining returns [ErrEditDeclined].
type editCommand struct {
	session *Session
	ctxFunc func() context.Context
	logger  log.Logger
	stdin   io.Reader
	stdout  io.Writer
	stderr  io.Writer

	// output is what the replayed source printed.
	output   string
	replaced bool
}

func (c *editCommand) SetStdin(r io.Reader)  { c.stdin = r }
func (c *editCommand) SetStdout(w io.Writer) { c.stdout = w }
func (c *editCommand) SetStderr(w io.Writer) { c.stderr = w }

func (c *editCommand) Run() error {
	ctx := c.ctxFunc()

	f, err := os.CreateTemp("", "coral-repl-*.cor")
	if err != nil {
		return ErrEditor.Wrap(err)
	}

	path := f.Name()

	defer os.Remove(path)

	content := c.session.Source()

	_, err = f.WriteString(content)
	if cerr := f.Close(); err == nil {
		err = cerr
	}

	if err != nil {
		return ErrEditor.Wrap(err)
	}

	in := bufio.NewScanner(c.stdin)

	for {
		if err := runEditor(ctx, c.stdin, c.stdout, c.stderr, path); err != nil {
			return ErrEditor.Wrap(err).With(slog.String("path", path))
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return ErrEditor.Wrap(err)
		}

		src := string(data)
		if strings.TrimSpace(src) == "" {
			return nil
		}

		out, runErr := c.session.Replace(ctx, src)

		c.logger.TraceContext(ctx, "editor replay attempt",
			slog.Int("content_length", len(src)),
			slog.Bool("success", runErr == nil),
		)

		if runErr == nil {
			c.output = out
			c.replaced = true

			return nil
		}

		fmt.Fprintf(c.stderr, "\nerror: %s\n", runErr)
		fmt.Fprint(c.stdout, "Re-edit? [Y/n] ")

		if !in.Scan() {
			return ErrEditDeclined
		}

		switch strings.ToLower(strings.TrimSpace(in.Text())) {
		case "n", "no":
			return ErrEditDeclined
		}
	}
}

// runEditor runs $EDITOR on path, falling back to vi.
func runEditor(
	ctx context.Context,
	stdin io.Reader,
	stdout, stderr io.Writer,
	path string,
) error {
	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = defaultEditor
	}

	args := strings.Fields(editor)

	cmd := exec.CommandContext(ctx, args[0], append(args[1:], path)...)
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	return cmd.Run()
}
