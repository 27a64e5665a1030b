package cli

import (
	"context"
	"log/slog"

	"github.com/alecthomas/kong"

	"github.com/ardnew/sulfur/cli/cmd"
	"github.com/ardnew/sulfur/lang"
	"github.com/ardnew/sulfur/log"
	"github.com/ardnew/sulfur/pkg"
)

// CLI is the top-level command-line interface for sulfur.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`

	Include      []string          `help:"Directory searched for scripts named without a path (repeatable)." placeholder:"DIR"       short:"I" type:"path"`
	Define       map[string]string `help:"Bind a global constant to the value of an expression."           placeholder:"NAME=EXPR" short:"D"`
	MaxCallDepth int               `default:"0"                                                            help:"Maximum depth of nested function calls; 0 is unlimited."`

	Run  cmd.Run  `cmd:"" default:"withargs" help:"Run scripts"`
	Fmt  cmd.Fmt  `cmd:""                    help:"Format a script"`
	Repl cmd.Repl `cmd:""                    help:"Start an interactive session"`
	Init cmd.Init `cmd:""                    help:"Initialize configuration file"`
}

// Run executes the sulfur CLI with the given context and arguments.
// The exit function is called with the appropriate exit code upon completion.
func Run(
	ctx context.Context,
	exit func(code int),
	args ...string,
) error {
	var cli CLI

	err := mkdirAllRequired()
	if err != nil {
		return err
	}

	configFilePath := configPath(baseConfig)

	vars := kong.Vars{
		cmd.ConfigIdentifier: configFilePath,
		cmd.CacheIdentifier:  cacheDir(),
	}.
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Pprof.vars())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Pre-scan for logger flags to ensure early configuration regardless of
	// flag position. This also catches boolean flags like --log-pretty, which
	// have no TextUnmarshaler.
	cli.Log.scan(args)

	parser, err := kong.New(&cli,
		kong.Name(pkg.Name),
		kong.Description(pkg.Description),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.ExplicitGroups(
			[]kong.Group{cli.Log.group(), cli.Pprof.group()},
		),
		kong.BindSingletonProvider(func() context.Context {
			return ctx
		}),
		kong.ConfigureHelp(
			kong.HelpOptions{
				Compact:             true,
				Summary:             true,
				Tree:                true,
				FlagsLast:           false,
				NoAppSummary:        false,
				NoExpandSubcommands: true,
			}),
		kong.Configuration(resolveYAML(ctx), configFilePath+cmd.ConfigExt[cmd.ConfigYAML]),
		kong.Configuration(resolveSulfur(ctx, cmd.ConfigIdentifier), configFilePath+cmd.ConfigExt[cmd.ConfigSulfur]),
		vars,
	)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	// Finalize logger configuration with all parsed values including
	// TimeLayout and Caller which don't use TextUnmarshaler.
	cli.Log.start(ctx)

	rt, err := cli.runtime()
	if err != nil {
		return err
	}

	ctx = cmd.WithContext(ctx, ktx)
	ctx = cmd.WithRuntime(ctx, rt)

	// [pprofConfig.start] is no-op unless built with tag pprof and enabled.
	stop, err := cli.Pprof.start(ctx)
	if err != nil {
		return err
	}
	defer stop()

	return ktx.Run(ctx, &cli)
}

// runtime builds the interpreter settings shared by every command from the
// global flags.
func (c *CLI) runtime() (cmd.Runtime, error) {
	globals, err := defines(c.Define)
	if err != nil {
		return cmd.Runtime{}, err
	}

	rt := cmd.Runtime{
		Globals:    globals,
		SearchPath: searchPath(c.Include...),
		CacheDir:   cacheDir(),
	}

	if c.MaxCallDepth > 0 {
		rt.Options = append(rt.Options, lang.WithMaxCallDepth(c.MaxCallDepth))
	}

	log.Debug("runtime",
		slog.Int("globals", len(rt.Globals)),
		slog.Any("search_path", rt.SearchPath),
		slog.Int("max_call_depth", c.MaxCallDepth),
	)

	return rt, nil
}
