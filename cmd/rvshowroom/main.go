package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/readyverse/rvshowroom/internal/app"
	"github.com/readyverse/rvshowroom/internal/deeplink"
	"github.com/readyverse/rvshowroom/internal/scheme"
)

const usage = `usage: rvshowroom [flags] [command] [args]

Without a command the showroom browser starts. A rvshowroom:// argument is
opened in the browser; this is how the registered URL handler launches it.

commands:
  list [-genre G | -track T | -search Q | -featured] [-json]
  get [-json] ID...
  open [-timeout D] URL
  register | unregister | status

flags:
`

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	cancel()
	os.Exit(code)
}

// errUsage marks errors that should print the usage text.
var errUsage = errors.New("invalid usage")

type globalFlags struct {
	configPath  string
	envFile     string
	prefsPath   string
	metricsAddr string
	pollSeconds int
	logOutput   io.Writer // CLI commands log here
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("rvshowroom", flag.ContinueOnError)
	fs.SetOutput(stderr)
	g := globalFlags{logOutput: stderr}
	fs.StringVar(&g.configPath, "config", "", "config file path (default ~/.config/rvshowroom/config.toml)")
	fs.StringVar(&g.envFile, "env", "", "dotenv file loaded before the config (default ./.env)")
	fs.StringVar(&g.prefsPath, "prefs", "", "preferences file path (default ~/.config/rvshowroom/prefs.toml)")
	fs.StringVar(&g.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address")
	fs.IntVar(&g.pollSeconds, "poll", 0, "list refresh interval in seconds (default 15)")
	fs.Usage = func() {
		_, _ = fmt.Fprint(stderr, usage)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	err := dispatch(ctx, g, fs.Args(), stdout)
	switch {
	case err == nil:
		return 0
	case errors.Is(err, errUsage):
		_, _ = fmt.Fprintf(stderr, "rvshowroom: %v\n", err)
		fs.Usage()
		return 2
	case errors.Is(err, context.Canceled):
		return 130
	default:
		_, _ = fmt.Fprintf(stderr, "rvshowroom: %v\n", err)
		return 1
	}
}

func dispatch(ctx context.Context, g globalFlags, args []string, stdout io.Writer) error {
	if len(args) == 0 {
		return runBrowser(ctx, g, "")
	}

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "list":
		return runList(ctx, g, rest, stdout)
	case "get":
		return runGet(ctx, g, rest, stdout)
	case "open":
		return runOpen(ctx, g, rest, stdout)
	case "register", "unregister", "status":
		if len(rest) > 0 {
			return fmt.Errorf("%w: %s takes no arguments", errUsage, cmd)
		}
		r, err := scheme.New(scheme.Options{})
		if err != nil {
			return err
		}
		return app.Scheme(cmd, r, stdout)
	default:
		if link, ok := deeplink.ExtractFromArgs(args); ok {
			return runBrowser(ctx, g, link)
		}
		return fmt.Errorf("%w: unknown command %q", errUsage, cmd)
	}
}

func runBrowser(ctx context.Context, g globalFlags, link string) error {
	return app.Run(ctx, app.Options{
		ConfigPath:  g.configPath,
		EnvFile:     g.envFile,
		PrefsPath:   g.prefsPath,
		PollEvery:   g.pollSeconds,
		MetricsAddr: g.metricsAddr,
		DeepLink:    link,
	})
}

// commandEnv builds the environment for CLI commands. They log to stderr
// instead of the log file.
func commandEnv(g globalFlags) (*app.Env, error) {
	return app.NewEnv(app.EnvOptions{
		ConfigPath:  g.configPath,
		EnvFile:     g.envFile,
		LogOutput:   g.logOutput,
		MetricsAddr: g.metricsAddr,
	})
}

func runList(ctx context.Context, g globalFlags, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	var opts app.ListOptions
	fs.StringVar(&opts.Genre, "genre", "", "only showrooms of this genre")
	fs.StringVar(&opts.Track, "track", "", "only showrooms on this publishing track")
	fs.StringVar(&opts.Search, "search", "", "free-text search")
	fs.BoolVar(&opts.Featured, "featured", false, "only featured showrooms")
	fs.BoolVar(&opts.JSON, "json", false, "print JSON")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: list: %v", errUsage, err)
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("%w: list takes no arguments", errUsage)
	}

	env, err := commandEnv(g)
	if err != nil {
		return err
	}
	defer func() { _ = env.Close() }()
	return app.List(ctx, env.Client, opts, stdout)
}

func runGet(ctx context.Context, g globalFlags, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("get", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	asJSON := fs.Bool("json", false, "print JSON")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: get: %v", errUsage, err)
	}
	if fs.NArg() == 0 {
		return fmt.Errorf("%w: get needs at least one showroom id", errUsage)
	}

	env, err := commandEnv(g)
	if err != nil {
		return err
	}
	defer func() { _ = env.Close() }()
	return app.Get(ctx, env.Client, fs.Args(), *asJSON, stdout)
}

func runOpen(ctx context.Context, g globalFlags, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("open", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	timeout := fs.Duration("timeout", 30*time.Second, "how long to wait for the showroom")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: open: %v", errUsage, err)
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("%w: open needs exactly one deep link", errUsage)
	}

	env, err := commandEnv(g)
	if err != nil {
		return err
	}
	defer func() { _ = env.Close() }()
	return app.Open(ctx, env.Dispatcher, fs.Arg(0), *timeout, stdout)
}
