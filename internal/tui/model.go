// Package tui is the interactive todo client. It routes between the
// index and not-found screens, drives the view-model from key presses,
// and reloads the list whenever the query cache invalidates it.
package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/idilsaglam/todo-client/internal/todos"
	"github.com/idilsaglam/todo-client/internal/ui"
)

type focus int

const (
	focusList focus = iota
	focusTitle
	focusContent
	focusAdd
)

// listLoadedMsg carries the list state after a read.
type listLoadedMsg struct{ state todos.ListState }

// invalidatedMsg reports that the todo list was invalidated.
type invalidatedMsg struct{}

// mutationMsg reports a finished create or delete. Failures are already
// logged by the view-model and are not shown.
type mutationMsg struct {
	op  string
	err error
}

// Options configure the program.
type Options struct {
	Theme ui.Theme
	Route string
}

// Model is the bubbletea model.
type Model struct {
	ctx    context.Context
	vm     *todos.ViewModel
	theme  ui.Theme
	keys   keyMap
	help   help.Model
	wake   <-chan struct{}
	unsub  func()
	route  string
	screen Screen

	list   todos.ListState
	cursor int
	focus  focus

	title   textinput.Model
	content textinput.Model

	prompting bool
	prompt    textinput.Model
}

// New builds the model and subscribes to invalidations of the list.
// Call Close when the program ends.
func New(ctx context.Context, vm *todos.ViewModel, opts Options) Model {
	wake, unsub := vm.Cache().Subscribe(todos.QueryKey)
	route := opts.Route
	if route == "" {
		route = IndexPath
	}
	m := Model{
		ctx:    ctx,
		vm:     vm,
		theme:  opts.Theme,
		keys:   defaultKeys(),
		help:   help.New(),
		wake:   wake,
		unsub:  unsub,
		route:  route,
		screen: Resolve(route),
		list:   vm.State(),
		focus:  focusList,
	}
	m.title = newInput("title")
	m.content = newInput("content")
	m.prompt = newInput("/")
	m.prompt.Prompt = ": "
	return m
}

func newInput(placeholder string) textinput.Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = placeholder
	ti.CharLimit = 200
	return ti
}

// Close drops the invalidation subscription.
func (m Model) Close() {
	if m.unsub != nil {
		m.unsub()
	}
}

// Init mounts the current route and starts listening for invalidations.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.waitForInvalidation()}
	if m.screen == ScreenIndex {
		cmds = append(cmds, m.load())
	}
	return tea.Batch(cmds...)
}

func (m Model) load() tea.Cmd {
	ctx, vm := m.ctx, m.vm
	return func() tea.Msg {
		return listLoadedMsg{state: vm.Load(ctx)}
	}
}

func (m Model) waitForInvalidation() tea.Cmd {
	wake := m.wake
	return func() tea.Msg {
		if _, ok := <-wake; !ok {
			return nil
		}
		return invalidatedMsg{}
	}
}

func (m Model) submit() tea.Cmd {
	if !m.vm.Form().CanSubmit() {
		return nil
	}
	ctx, vm := m.ctx, m.vm
	return func() tea.Msg {
		return mutationMsg{op: "create", err: vm.Submit(ctx)}
	}
}

func (m Model) remove() tea.Cmd {
	if m.list.Kind != todos.Ready || m.cursor < 0 || m.cursor >= len(m.list.Todos) {
		return nil
	}
	id := m.list.Todos[m.cursor].ID
	ctx, vm := m.ctx, m.vm
	return func() tea.Msg {
		return mutationMsg{op: "delete", err: vm.RequestDelete(ctx, id)}
	}
}

// navigate switches routes. Entering the index re-mounts the list, which
// fetches only if the cache entry is not fresh.
func (m Model) navigate(path string) (Model, tea.Cmd) {
	m.route = path
	m.screen = Resolve(path)
	if m.screen != ScreenIndex {
		return m, nil
	}
	m.list = m.vm.State()
	return m, m.load()
}

func (m Model) setFocus(f focus) (Model, tea.Cmd) {
	m.focus = f
	m.title.Blur()
	m.content.Blur()
	var cmd tea.Cmd
	switch f {
	case focusTitle:
		cmd = m.title.Focus()
	case focusContent:
		cmd = m.content.Focus()
	}
	return m, cmd
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		return m, nil

	case listLoadedMsg:
		m.list = msg.state
		m.clampCursor()
		return m, nil

	case invalidatedMsg:
		cmds := []tea.Cmd{m.waitForInvalidation()}
		if m.screen == ScreenIndex {
			cmds = append(cmds, m.load())
		}
		return m, tea.Batch(cmds...)

	case mutationMsg:
		if msg.op == "create" && msg.err == nil {
			title, content := m.vm.Form().Values()
			m.title.SetValue(title)
			m.content.SetValue(content)
		}
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.ForceQuit) {
			return m, tea.Quit
		}
		if m.prompting {
			return m.updatePrompt(msg)
		}
		if m.screen == ScreenNotFound {
			return m.updateNotFound(msg)
		}
		return m.updateIndex(msg)
	}

	var cmd tea.Cmd
	switch m.focus {
	case focusTitle:
		m.title, cmd = m.title.Update(msg)
	case focusContent:
		m.content, cmd = m.content.Update(msg)
	}
	return m, cmd
}

func (m Model) updatePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Submit):
		path := normalize(m.prompt.Value())
		m.prompting = false
		m.prompt.SetValue("")
		m.prompt.Blur()
		return m.navigate(path)
	case key.Matches(msg, m.keys.Leave):
		m.prompting = false
		m.prompt.SetValue("")
		m.prompt.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.prompt, cmd = m.prompt.Update(msg)
	return m, cmd
}

func (m Model) openPrompt() (tea.Model, tea.Cmd) {
	m.prompting = true
	m.prompt.SetValue("")
	cmd := m.prompt.Focus()
	return m, cmd
}

func (m Model) updateNotFound(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Follow):
		return m.navigate(IndexPath)
	case key.Matches(msg, m.keys.GoTo):
		return m.openPrompt()
	case key.Matches(msg, m.keys.Quit), key.Matches(msg, m.keys.Leave):
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) updateIndex(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Next):
		return m.setFocus((m.focus + 1) % 4)
	case key.Matches(msg, m.keys.Prev):
		return m.setFocus((m.focus + 3) % 4)
	}

	switch m.focus {
	case focusTitle, focusContent:
		switch {
		case key.Matches(msg, m.keys.Submit):
			return m, m.submit()
		case key.Matches(msg, m.keys.Leave):
			return m.setFocus(focusList)
		}
		var cmd tea.Cmd
		if m.focus == focusTitle {
			m.title, cmd = m.title.Update(msg)
			m.vm.Form().UpdateTitle(m.title.Value())
		} else {
			m.content, cmd = m.content.Update(msg)
			m.vm.Form().UpdateContent(m.content.Value())
		}
		return m, cmd

	case focusAdd:
		switch {
		case key.Matches(msg, m.keys.Submit), msg.String() == " ":
			return m, m.submit()
		case key.Matches(msg, m.keys.Leave):
			return m.setFocus(focusList)
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit), key.Matches(msg, m.keys.Leave):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.list.Todos)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Delete):
		return m, m.remove()
	case key.Matches(msg, m.keys.Add):
		return m.setFocus(focusTitle)
	case key.Matches(msg, m.keys.GoTo):
		return m.openPrompt()
	}
	return m, nil
}

func (m *Model) clampCursor() {
	if m.cursor >= len(m.list.Todos) {
		m.cursor = len(m.list.Todos) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m Model) View() string {
	var body string
	if m.screen == ScreenNotFound {
		body = ui.NotFound(m.theme, m.route, !m.prompting)
	} else {
		cursor := -1
		if m.focus == focusList {
			cursor = m.cursor
		}
		form := ui.FormView{
			Title:      m.title.View(),
			Content:    m.content.View(),
			AddFocused: m.focus == focusAdd,
		}
		body = ui.Index(m.theme, form, m.list, cursor)
	}
	if m.prompting {
		body += "\n\n" + m.prompt.View()
	}
	body += "\n\n" + m.help.View(m.helpKeys())
	return ui.Panel(m.theme, body)
}

// Run starts the program on the terminal and blocks until it exits.
func Run(ctx context.Context, vm *todos.ViewModel, opts Options) error {
	m := New(ctx, vm, opts)
	defer m.Close()
	_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}
