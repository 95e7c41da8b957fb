package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/idilsaglam/todo-client/internal/cli"
	"github.com/idilsaglam/todo-client/internal/config"
	"github.com/idilsaglam/todo-client/internal/logging"
	"github.com/idilsaglam/todo-client/internal/notesapi"
	"github.com/idilsaglam/todo-client/internal/query"
	"github.com/idilsaglam/todo-client/internal/todos"
	"github.com/idilsaglam/todo-client/internal/ui"
)

func main() {
	code := run(os.Args[1:])
	if code != 0 {
		fmt.Fprintln(os.Stderr)
	}
	os.Exit(code)
}

func run(argv []string) int {
	// Root flags (apply to every subcommand)
	fs := pflag.NewFlagSet("todo", pflag.ContinueOnError)
	fs.SetInterspersed(false)
	fs.Usage = func() { cli.PrintHelp(os.Stderr) }
	configPath := fs.String("config", "", "TOML config file")
	apiURL := fs.String("api", "", "notes API base URL")
	theme := fs.String("theme", "", "color theme")
	route := fs.String("route", "", "starting path for the interactive list")
	logLevel := fs.String("log-level", "", "log level")
	logFormat := fs.String("log-format", "", "log format")
	logFile := fs.String("log-file", "", "log destination")
	if err := fs.Parse(argv); err != nil {
		if err == pflag.ErrHelp {
			return 0
		}
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	override := func(name string, dst *string, v string) {
		if fs.Changed(name) {
			*dst = v
		}
	}
	override("api", &cfg.APIURL, *apiURL)
	override("theme", &cfg.Theme, *theme)
	override("route", &cfg.Route, *route)
	override("log-level", &cfg.Log.Level, *logLevel)
	override("log-format", &cfg.Log.Format, *logFormat)
	override("log-file", &cfg.Log.File, *logFile)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		return 2
	}

	// Hand the remaining args to the CLI runner.
	args := fs.Args()
	if len(args) == 0 {
		cli.PrintHelp(os.Stderr)
		return 2
	}

	logOut, err := logging.Open(cfg.Log.File)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer logOut.Close()
	logger := logging.New(logOut, cfg.LogOptions())

	th, _ := ui.ThemeByName(cfg.Theme)
	client, err := notesapi.New(cfg.APIURL, notesapi.WithLogger(logger))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	cache := query.New()
	defer cache.Close()
	vm := todos.New(client, cache, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Debug("starting", "cmd", args[0], "api", cfg.APIURL)
	return cli.Run(ctx, args, vm, cli.Options{Theme: th, Route: cfg.Route})
}
