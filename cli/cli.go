package cli

import (
	"context"
	"io"
	"os"

	"github.com/alecthomas/kong"

	"github.com/ardnew/coral/cli/cmd"
	"github.com/ardnew/coral/pkg"
)

// CLI is the top-level command-line interface for coral.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`

	Version kong.VersionFlag `help:"Print version and exit" short:"V"`

	Run    cmd.Run    `cmd:"" default:"withargs" help:"Run scripts"`
	Tokens cmd.Tokens `cmd:""                    help:"Print the token stream of a script"`
	AST    cmd.AST    `cmd:"" name:"ast"         help:"Print the syntax tree of a script"`
	REPL   cmd.REPL   `cmd:"" name:"repl"        help:"Start an interactive session"`
	Init   cmd.Init   `cmd:""                    help:"Write the current flags to the configuration file"`
}

// Run executes the coral CLI with the given context and arguments, writing
// program output to os.Stdout. The exit function is called by the parser
// for --help, --version and usage errors.
func Run(ctx context.Context, exit func(code int), args ...string) error {
	return run(ctx, os.Stdout, exit, args...)
}

func run(ctx context.Context, out io.Writer, exit func(code int), args ...string) error {
	var cli CLI

	if err := mkdirAllRequired(); err != nil {
		return err
	}

	configFilePath := configPath(baseConfig)

	vars := kong.Vars{
		"version":             pkg.Version,
		cmd.ConfigIdentifier:  configFilePath,
		cmd.CacheIdentifier:   cacheDir(),
		cmd.HistoryIdentifier: historyPath(),
	}.
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Pprof.vars())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// TextUnmarshaler on logFormat and logLevel applies those flags as kong
	// meets them; the early scan also covers boolean flags.
	cli.Log.scan(args)

	parser, err := kong.New(&cli,
		kong.Name(pkg.Name),
		kong.Description(pkg.Description),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.Writers(out, os.Stderr),
		kong.ExplicitGroups([]kong.Group{cli.Log.group(), cli.Pprof.group()}),
		kong.BindSingletonProvider(func() context.Context { return ctx }),
		kong.BindTo(out, (*io.Writer)(nil)),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			Summary:             true,
			Tree:                true,
			NoExpandSubcommands: true,
		}),
		kong.Configuration(resolveYAML(ctx), configFilePath),
		vars,
	)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	ctx = cmd.WithContext(ctx, ktx)

	cli.Log.start(ctx)

	defer cli.Pprof.start(ctx)()

	return ktx.Run(ctx)
}
