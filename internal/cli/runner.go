package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/idilsaglam/todo-client/internal/config"
	"github.com/idilsaglam/todo-client/internal/notesapi"
	"github.com/idilsaglam/todo-client/internal/todos"
	"github.com/idilsaglam/todo-client/internal/tui"
	"github.com/idilsaglam/todo-client/internal/ui"
)

// Options tune output and the interactive program.
type Options struct {
	Theme ui.Theme
	Route string
	Out   io.Writer
	Err   io.Writer

	// Interactive runs the `ui` subcommand. Defaults to tui.Run.
	Interactive func(context.Context, *todos.ViewModel, tui.Options) error
}

func (o *Options) defaults() {
	if o.Out == nil {
		o.Out = os.Stdout
	}
	if o.Err == nil {
		o.Err = os.Stderr
	}
	if o.Interactive == nil {
		o.Interactive = tui.Run
	}
	if o.Theme.Name == "" {
		o.Theme, _ = ui.ThemeByName(ui.DefaultTheme)
	}
}

// Run dispatches subcommands and returns an exit code (0 ok, 1 error, 2 usage).
func Run(ctx context.Context, args []string, vm *todos.ViewModel, opt Options) int {
	opt.defaults()
	if len(args) == 0 {
		PrintHelp(opt.Err)
		return 2
	}
	cmd, a := args[0], args[1:]

	switch cmd {
	case "help", "-h", "--help":
		PrintHelp(opt.Out)
		return 0

	case "ui":
		if len(a) > 1 {
			ui.Fail(opt.Err, opt.Theme, "usage: todo ui [path]")
			return 2
		}
		route := opt.Route
		if len(a) == 1 {
			route = a[0]
		}
		return doInteractive(ctx, vm, route, opt)

	case "ls":
		if len(a) != 0 {
			ui.Fail(opt.Err, opt.Theme, "usage: todo ls")
			return 2
		}
		return doList(ctx, vm, opt)

	case "add":
		if len(a) < 2 {
			ui.Fail(opt.Err, opt.Theme, "usage: todo add <title> <content...>")
			return 2
		}
		return doAdd(ctx, vm, a[0], strings.Join(a[1:], " "), opt)

	case "rm":
		if len(a) != 1 {
			ui.Fail(opt.Err, opt.Theme, "usage: todo rm <id>")
			return 2
		}
		id, err := strconv.Atoi(a[0])
		if err != nil {
			ui.Fail(opt.Err, opt.Theme, "rm: not a number: "+a[0])
			return 2
		}
		return doRemove(ctx, vm, id, opt)
	}

	ui.Fail(opt.Err, opt.Theme, "unknown subcommand: "+cmd)
	fmt.Fprintln(opt.Err)
	PrintHelp(opt.Err)
	return 2
}

// PrintHelp writes usage to w.
func PrintHelp(w io.Writer) {
	fmt.Fprintf(w, `todo - client for a remote todo list

Usage:
  todo [flags] <subcommand> [args]

Subcommands:
  ui [path]                  Interactive list (path defaults to /)
  ls                         Print the list once
  add <title> <content...>   Create a todo
  rm <id>                    Delete the todo with the given id

Flags:
  --api URL          notes API base (default %s)
  --config PATH      TOML config file
  --theme NAME       %s
  --log-level LEVEL  debug, info, warn, error
  --log-format FMT   text, json, logfmt
  --log-file PATH    diagnostic log ("-" for stderr)

Examples:
  todo ui
  todo add "Buy milk" "two litres"
  todo ls
  todo rm 3
`, config.DefaultAPIURL, strings.Join(ui.ThemeNames(), ", "))
}

// -------------- subcommand impls ----------------

func doInteractive(ctx context.Context, vm *todos.ViewModel, route string, opt Options) int {
	if err := opt.Interactive(ctx, vm, tui.Options{Theme: opt.Theme, Route: route}); err != nil {
		ui.Fail(opt.Err, opt.Theme, "ui: "+err.Error())
		return 1
	}
	return 0
}

func doList(ctx context.Context, vm *todos.ViewModel, opt Options) int {
	st := vm.Load(ctx)
	if st.Kind != todos.Ready {
		ui.Fail(opt.Err, opt.Theme, ui.LoadErrorText)
		return 1
	}

	header := fmt.Sprintf("%s  %s %d",
		opt.Theme.Title.Render(ui.AppTitle),
		opt.Theme.Accent.Render("Total"), len(st.Todos))
	lines := []string{header, ""}
	if len(st.Todos) == 0 {
		lines = append(lines, opt.Theme.Muted.Render("no items"))
	}
	for _, t := range st.Todos {
		lines = append(lines, fmt.Sprintf("%s %s", opt.Theme.Muted.Render(fmt.Sprintf("%3d.", t.ID)), ui.Row(opt.Theme, t)))
	}
	lines = append(lines, "", opt.Theme.Muted.Render(`Tip: add with todo add "Buy milk" "two litres"`))
	fmt.Fprintln(opt.Out, ui.Panel(opt.Theme, strings.Join(lines, "\n")))
	return 0
}

func doAdd(ctx context.Context, vm *todos.ViewModel, title, content string, opt Options) int {
	form := vm.Form()
	form.UpdateTitle(title)
	form.UpdateContent(content)
	if !form.CanSubmit() {
		ui.Fail(opt.Err, opt.Theme, "add: title and content must not be empty")
		return 2
	}
	if err := vm.Submit(ctx); err != nil {
		ui.Fail(opt.Err, opt.Theme, "add: "+describe(err))
		return 1
	}
	ui.OK(opt.Out, opt.Theme, "added")
	return 0
}

func doRemove(ctx context.Context, vm *todos.ViewModel, id int, opt Options) int {
	if err := vm.RequestDelete(ctx, id); err != nil {
		ui.Fail(opt.Err, opt.Theme, "rm: "+describe(err))
		return 1
	}
	ui.OK(opt.Out, opt.Theme, "removed")
	return 0
}

func describe(err error) string {
	var terr *notesapi.TransportError
	if errors.As(err, &terr) && terr.StatusCode != 0 {
		return fmt.Sprintf("server answered %d", terr.StatusCode)
	}
	return err.Error()
}
