package cli

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"github.com/ardnew/coral/cli/cmd/repl"
	"github.com/ardnew/coral/pkg"
)

const baseConfig = "config.yaml"

var defaultDirMode os.FileMode = 0o700

// basePrefix names the config and cache subdirectories: the executable's
// base name without extension, with leading dots removed. A dlv debug
// binary uses the package name instead.
var basePrefix = sync.OnceValue(func() string {
	id := os.Args[0]
	if exe, err := os.Executable(); err == nil {
		id = exe
	}

	id = filepath.Base(id)
	id = strings.TrimSuffix(id, filepath.Ext(id))

	for rex, rep := range map[*regexp.Regexp]string{
		regexp.MustCompile(`^__debug_bin\d+$`): pkg.Name,
		regexp.MustCompile(`^\.+`):             "",
	} {
		id = rex.ReplaceAllString(id, rep)
	}

	if id == "" {
		id = pkg.Name
	}

	return id
})

// userDir joins basePrefix to the directory returned by base, falling back
// to fallback under the home directory and then to the working directory.
func userDir(base func() (string, error), fallback string) string {
	dir, err := base()
	if err != nil {
		if dir, err = os.UserHomeDir(); err == nil {
			dir = filepath.Join(dir, fallback)
		} else if dir, err = os.Getwd(); err != nil {
			dir = "."
		}
	}

	return filepath.Join(dir, basePrefix())
}

var (
	configDir = sync.OnceValue(func() string { return userDir(os.UserConfigDir, ".config") })
	cacheDir  = sync.OnceValue(func() string { return userDir(os.UserCacheDir, ".cache") })
)

// configPath joins elem to the configuration directory.
func configPath(elem ...string) string {
	return filepath.Join(append([]string{configDir()}, elem...)...)
}

// historyPath is the default REPL history file.
func historyPath() string { return repl.HistoryFile(cacheDir()) }

// mkdirAllRequired creates the configuration and cache directories.
func mkdirAllRequired() error {
	for _, dir := range []string{configDir(), cacheDir()} {
		if err := os.MkdirAll(dir, defaultDirMode); err != nil {
			return err
		}
	}

	return nil
}
