package cmd

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"
)

type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, _ := ctx.Value(contextKey{}).(*kong.Context)

	return ktx
}

// stdinSource is the special source indicator for reading from stdin.
const stdinSource = "-"

// stdin is read for the "-" source.
var stdin io.Reader = os.Stdin

// Source is an opened script input.
type Source struct {
	io.Reader

	// Name is used as the module name: the base file name without its
	// extension, or "stdin".
	Name string
	// Path is the resolved file path, or "-" for stdin.
	Path string

	closer io.Closer
}

// Close closes the underlying file. Closing stdin is a no-op.
func (s Source) Close() error {
	if s.closer == nil {
		return nil
	}

	return s.closer.Close()
}

// fileKey uniquely identifies a file by its device and inode numbers, so
// that a file named twice (through a symlink or a relative path) is read
// once.
type fileKey struct {
	dev uint64
	ino uint64
}

// OpenSources opens each path in order. Duplicate files are skipped and all
// occurrences of "-" collapse into a single stdin source placed last. On
// error every source opened so far is closed.
func OpenSources(paths []string) (sources []Source, err error) {
	defer func() {
		if err != nil {
			closeSources(sources)
			sources = nil
		}
	}()

	seen := make(map[fileKey]struct{})
	hasStdin := false

	for _, path := range paths {
		if path == stdinSource {
			hasStdin = true

			continue
		}

		src, dup, err := openUniqueFile(path, seen)
		if err != nil {
			return sources, ErrOpenSource.Wrap(err).With(slog.String("file", path))
		}

		if !dup {
			sources = append(sources, src)
		}
	}

	if hasStdin {
		sources = append(sources, Source{Reader: stdin, Name: "stdin", Path: stdinSource})
	}

	return sources, nil
}

func closeSources(sources []Source) error {
	var errs []error

	for _, s := range sources {
		errs = append(errs, s.Close())
	}

	return errors.Join(errs...)
}

// openUniqueFile opens path unless its device and inode are already in seen.
func openUniqueFile(path string, seen map[fileKey]struct{}) (src Source, dup bool, err error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return src, false, err
	}

	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return src, false, err
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return src, false, err
	}

	if key, ok := makeFileKey(info); ok {
		if _, exists := seen[key]; exists {
			return src, true, nil
		}

		seen[key] = struct{}{}
	}

	file, err := os.Open(resolved)
	if err != nil {
		return src, false, err
	}

	base := filepath.Base(resolved)

	return Source{
		Reader: file,
		Name:   strings.TrimSuffix(base, filepath.Ext(base)),
		Path:   resolved,
		closer: file,
	}, false, nil
}

// makeFileKey returns false if info carries no *syscall.Stat_t.
func makeFileKey(info os.FileInfo) (key fileKey, ok bool) {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return key, false
	}

	return fileKey{dev: uint64(stat.Dev), ino: stat.Ino}, true
}
