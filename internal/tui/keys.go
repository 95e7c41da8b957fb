package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up, Down   key.Binding
	Next, Prev key.Binding
	Add        key.Binding
	Delete     key.Binding
	Submit     key.Binding
	Leave      key.Binding
	GoTo       key.Binding
	Follow     key.Binding
	Quit       key.Binding
	ForceQuit  key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Next:      key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next field")),
		Prev:      key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev field")),
		Add:       key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
		Delete:    key.NewBinding(key.WithKeys("x", "d", "delete"), key.WithHelp("x", "delete")),
		Submit:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "submit")),
		Leave:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back to list")),
		GoTo:      key.NewBinding(key.WithKeys(":"), key.WithHelp(":", "go to path")),
		Follow:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open link")),
		Quit:      key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
		ForceQuit: key.NewBinding(key.WithKeys("ctrl+c")),
	}
}

// helpKeys adapts the bindings that apply to the current focus to
// bubbles/help.
type helpKeys []key.Binding

func (h helpKeys) ShortHelp() []key.Binding  { return h }
func (h helpKeys) FullHelp() [][]key.Binding { return [][]key.Binding{h} }

func (m Model) helpKeys() helpKeys {
	k := m.keys
	switch {
	case m.prompting:
		return helpKeys{k.Submit, k.Leave}
	case m.screen == ScreenNotFound:
		return helpKeys{k.Follow, k.GoTo, k.Quit}
	case m.focus == focusList:
		return helpKeys{k.Up, k.Down, k.Delete, k.Add, k.Next, k.GoTo, k.Quit}
	default:
		return helpKeys{k.Submit, k.Next, k.Prev, k.Leave}
	}
}
