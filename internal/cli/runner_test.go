package cli

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/idilsaglam/todo-client/internal/logging"
	"github.com/idilsaglam/todo-client/internal/notesapi"
	"github.com/idilsaglam/todo-client/internal/notestub"
	"github.com/idilsaglam/todo-client/internal/query"
	"github.com/idilsaglam/todo-client/internal/todos"
	"github.com/idilsaglam/todo-client/internal/tui"
	"github.com/idilsaglam/todo-client/internal/ui"
)

type harness struct {
	vm    *todos.ViewModel
	store *notestub.Store
	out   bytes.Buffer
	err   bytes.Buffer
	opt   Options
}

func newHarness(t *testing.T, handler http.Handler) *harness {
	t.Helper()
	h := &harness{store: notestub.NewMemoryStore()}
	if handler == nil {
		handler = notestub.New(h.store, logging.Discard())
	}
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := notesapi.New(srv.URL + notestub.Prefix)
	if err != nil {
		t.Fatal(err)
	}
	cache := query.New()
	t.Cleanup(cache.Close)
	h.vm = todos.New(client, cache, logging.Discard())

	theme, err := ui.ThemeByName("mono")
	if err != nil {
		t.Fatal(err)
	}
	h.opt = Options{Theme: theme, Out: &h.out, Err: &h.err}
	return h
}

func (h *harness) run(args ...string) int {
	h.out.Reset()
	h.err.Reset()
	return Run(context.Background(), args, h.vm, h.opt)
}

func TestUsageErrors(t *testing.T) {
	h := newHarness(t, nil)
	tests := [][]string{
		nil,
		{"bogus"},
		{"add"},
		{"add", "only-title"},
		{"rm"},
		{"rm", "abc"},
		{"ls", "extra"},
		{"ui", "/a", "/b"},
	}
	for _, args := range tests {
		if code := h.run(args...); code != 2 {
			t.Errorf("Run(%q) = %d, want 2 (stderr %q)", args, code, h.err.String())
		}
	}
}

func TestHelp(t *testing.T) {
	h := newHarness(t, nil)
	if code := h.run("help"); code != 0 {
		t.Fatalf("help = %d", code)
	}
	if !strings.Contains(h.out.String(), "Subcommands:") {
		t.Errorf("help output: %q", h.out.String())
	}
}

func TestAddListRemove(t *testing.T) {
	h := newHarness(t, nil)

	if code := h.run("add", "Buy milk", "two", "litres"); code != 0 {
		t.Fatalf("add = %d (%s)", code, h.err.String())
	}
	if !strings.Contains(h.out.String(), "✔ added") {
		t.Errorf("add output %q", h.out.String())
	}
	notes := h.store.List()
	if len(notes) != 1 || notes[0].Title != "Buy milk" || notes[0].Content != "two litres" {
		t.Fatalf("store = %+v", notes)
	}

	if code := h.run("ls"); code != 0 {
		t.Fatalf("ls = %d (%s)", code, h.err.String())
	}
	if !strings.Contains(h.out.String(), "[x] Buy milk/two litres") {
		t.Errorf("ls output:\n%s", h.out.String())
	}

	if code := h.run("rm", "1"); code != 0 {
		t.Fatalf("rm = %d (%s)", code, h.err.String())
	}
	if n := len(h.store.List()); n != 0 {
		t.Errorf("store has %d notes after rm", n)
	}
	if code := h.run("ls"); code != 0 || !strings.Contains(h.out.String(), "no items") {
		t.Errorf("ls after rm = %d:\n%s", code, h.out.String())
	}
}

func TestAddEmptyTitleIsUsageError(t *testing.T) {
	h := newHarness(t, nil)
	if code := h.run("add", "", "content"); code != 2 {
		t.Errorf("add with empty title = %d, want 2", code)
	}
	if n := len(h.store.List()); n != 0 {
		t.Errorf("note created: %d", n)
	}
}

func TestRemoveUnknownFails(t *testing.T) {
	h := newHarness(t, nil)
	if code := h.run("rm", "42"); code != 1 {
		t.Errorf("rm unknown = %d, want 1", code)
	}
	if !strings.Contains(h.err.String(), "404") {
		t.Errorf("stderr = %q", h.err.String())
	}
}

func TestListServerDown(t *testing.T) {
	h := newHarness(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	if code := h.run("ls"); code != 1 {
		t.Errorf("ls = %d, want 1", code)
	}
	if !strings.Contains(h.err.String(), "Could not get todo list from the server") {
		t.Errorf("stderr = %q", h.err.String())
	}
}

func TestInteractiveReceivesRoute(t *testing.T) {
	h := newHarness(t, nil)
	var got tui.Options
	h.opt.Route = "/"
	h.opt.Interactive = func(_ context.Context, vm *todos.ViewModel, opts tui.Options) error {
		got = opts
		return nil
	}
	if code := h.run("ui", "/unknown"); code != 0 {
		t.Fatalf("ui = %d", code)
	}
	if got.Route != "/unknown" || got.Theme.Name != "mono" {
		t.Errorf("tui options = %+v", got)
	}

	h.opt.Interactive = func(context.Context, *todos.ViewModel, tui.Options) error {
		return errors.New("no tty")
	}
	if code := h.run("ui"); code != 1 {
		t.Errorf("ui failure = %d, want 1", code)
	}
}

func TestDescribe(t *testing.T) {
	if got := describe(&notesapi.TransportError{StatusCode: 500}); got != "server answered 500" {
		t.Errorf("describe = %q", got)
	}
	if got := describe(errors.New("dial tcp: refused")); got != "dial tcp: refused" {
		t.Errorf("describe = %q", got)
	}
}
