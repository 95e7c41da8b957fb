// Package ui renders the screens. Every function here is a pure
// function of its arguments.
package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/idilsaglam/todo-client/internal/model"
	"github.com/idilsaglam/todo-client/internal/todos"
)

// Fixed copy shown by the screens.
const (
	AppTitle        = "Loco Todo List"
	LoadingText     = "isLoading..."
	LoadErrorText   = "Could not get todo list from the server"
	NotFoundText    = "Sorry, this page not found"
	NotFoundLink    = "Go to the todo list page"
	AddButtonLabel  = "Add"
	ruleWidth       = 40
	formLabelWidth  = 9
	defaultRowWidth = 80
)

// Header is the page chrome shared by every screen.
func Header(t Theme) string {
	return t.Title.Render(AppTitle) + "\n" + t.Muted.Render(strings.Repeat(t.Rule, ruleWidth))
}

// FormView is the add form as the screen needs it: the rendered inputs
// and which control has focus.
type FormView struct {
	Title      string
	Content    string
	AddFocused bool
}

// Form renders the add form.
func Form(t Theme, f FormView) string {
	label := lipgloss.NewStyle().Width(formLabelWidth)
	button := "[ " + AddButtonLabel + " ]"
	if f.AddFocused {
		button = t.Selected.Render(button)
	} else {
		button = t.Accent.Render(button)
	}
	return strings.Join([]string{
		label.Render("Title") + f.Title,
		label.Render("Content") + f.Content,
		button,
	}, "\n")
}

// Loading is the placeholder shown until the first list arrives.
func Loading(t Theme) string {
	return t.Muted.Render(LoadingText)
}

// LoadError replaces the list when it could not be fetched.
func LoadError(t Theme) string {
	return t.Error.Render(LoadErrorText)
}

// Row renders one todo: delete control, then title/content.
func Row(t Theme, todo model.Todo) string {
	return fmt.Sprintf("%s %s/%s", t.Error.Render(t.DeleteControl), todo.Title, todo.Content)
}

// Rows renders the list in order; the row at cursor is marked. Pass a
// negative cursor for no selection.
func Rows(t Theme, list []model.Todo, cursor int) string {
	lines := make([]string, 0, len(list))
	for i, todo := range list {
		prefix := "  "
		if i == cursor {
			prefix = t.Selected.Render(t.Cursor)
		}
		lines = append(lines, prefix+truncate(Row(t, todo), defaultRowWidth))
	}
	return strings.Join(lines, "\n")
}

// ListBody picks the rendering for the list state.
func ListBody(t Theme, st todos.ListState, cursor int) string {
	switch st.Kind {
	case todos.Failed:
		return LoadError(t)
	case todos.Ready:
		return Rows(t, st.Todos, cursor)
	default:
		return Loading(t)
	}
}

// Index is the index route: the add form above the list body. The form
// stays usable in every list state.
func Index(t Theme, f FormView, st todos.ListState, cursor int) string {
	return Header(t) + "\n\n" + Form(t, f) + "\n\n" + ListBody(t, st, cursor)
}

// NotFound is shown for every route other than the index.
func NotFound(t Theme, path string, linkFocused bool) string {
	link := t.Link.Render(NotFoundLink)
	if linkFocused {
		link = t.Selected.Render(t.Cursor) + link
	}
	return Header(t) + "\n\n" +
		t.Title.Render(NotFoundText) + "\n" +
		t.Muted.Render(path) + "\n\n" +
		link
}

// Panel draws a framed box around content.
func Panel(t Theme, content string) string {
	return lipgloss.NewStyle().
		Border(t.Border).
		BorderForeground(t.BorderColor).
		Padding(0, 1).
		Render(content)
}

// OK prints a success status line.
func OK(w io.Writer, t Theme, msg string) {
	fmt.Fprintln(w, t.Success.Render("✔ "+msg))
}

// Fail prints a failure status line.
func Fail(w io.Writer, t Theme, msg string) {
	fmt.Fprintln(w, t.Error.Render("✖ "+msg))
}

func truncate(s string, width int) string {
	if lipgloss.Width(s) <= width {
		return s
	}
	r := []rune(s)
	for len(r) > 0 && lipgloss.Width(string(r))+3 > width {
		r = r[:len(r)-1]
	}
	return string(r) + "..."
}
