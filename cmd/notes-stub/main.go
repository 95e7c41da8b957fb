// notes-stub serves an in-memory notes API on the same paths as the
// real todo server, so the client can be run without it.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"github.com/idilsaglam/todo-client/internal/logging"
	"github.com/idilsaglam/todo-client/internal/notestub"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()

	addr := ":5150"
	if port := os.Getenv("PORT"); port != "" {
		addr = ":" + port
	}

	fs := pflag.NewFlagSet("notes-stub", pflag.ContinueOnError)
	fs.StringVar(&addr, "addr", addr, "listen address")
	dataPath := fs.String("data", "", "JSON file to persist notes in (memory only if empty)")
	level := fs.String("log-level", "info", "log level")
	if err := fs.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	opts := logging.DefaultOptions()
	opts.Prefix = "notes-stub"
	lvl, err := logging.ParseLevel(*level)
	if err != nil {
		return err
	}
	opts.Level = lvl
	logger := logging.New(os.Stderr, opts)

	store := notestub.NewMemoryStore()
	if *dataPath != "" {
		if store, err = notestub.OpenStore(*dataPath); err != nil {
			return err
		}
	}

	e := notestub.New(store, logger)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", addr, "api", notestub.Prefix+"/notes")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
