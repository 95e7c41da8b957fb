package ui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme bundles palette, glyphs and borders. Renderers take a Theme
// instead of reading a global.
type Theme struct {
	Name string

	Title, Muted, Accent, Success, Error, Selected, Link lipgloss.Style

	Border        lipgloss.Border
	BorderColor   lipgloss.TerminalColor
	DeleteControl string
	Cursor        string
	Rule          string
}

var themes = map[string]func() Theme{
	"classic": classic,
	"neon":    neon,
	"mono":    mono,
}

// DefaultTheme is used when none is configured.
const DefaultTheme = "classic"

// ThemeNames lists the known themes, sorted.
func ThemeNames() []string {
	names := make([]string, 0, len(themes))
	for n := range themes {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// ThemeByName returns the named theme. Names are case-insensitive.
func ThemeByName(name string) (Theme, error) {
	if name == "" {
		name = DefaultTheme
	}
	mk, ok := themes[strings.ToLower(name)]
	if !ok {
		return Theme{}, fmt.Errorf("unknown theme %q (want one of %s)", name, strings.Join(ThemeNames(), ", "))
	}
	return mk(), nil
}

func classic() Theme {
	return Theme{
		Name:          "classic",
		Title:         lipgloss.NewStyle().Bold(true),
		Muted:         lipgloss.NewStyle().Faint(true),
		Accent:        lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
		Success:       lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		Error:         lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		Selected:      lipgloss.NewStyle().Bold(true).Reverse(true),
		Link:          lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Underline(true),
		Border:        lipgloss.RoundedBorder(),
		BorderColor:   lipgloss.Color("8"),
		DeleteControl: "[x]",
		Cursor:        "> ",
		Rule:          "─",
	}
}

func neon() Theme {
	return Theme{
		Name:          "neon",
		Title:         lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("13")),
		Muted:         lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Accent:        lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
		Success:       lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		Error:         lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		Selected:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11")),
		Link:          lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Underline(true),
		Border:        lipgloss.DoubleBorder(),
		BorderColor:   lipgloss.Color("13"),
		DeleteControl: "✖",
		Cursor:        "▸ ",
		Rule:          "═",
	}
}

// mono has no colors or attributes at all.
func mono() Theme {
	plain := lipgloss.NewStyle()
	return Theme{
		Name:          "mono",
		Title:         plain,
		Muted:         plain,
		Accent:        plain,
		Success:       plain,
		Error:         plain,
		Selected:      plain,
		Link:          plain,
		Border:        lipgloss.NormalBorder(),
		BorderColor:   lipgloss.NoColor{},
		DeleteControl: "[x]",
		Cursor:        "> ",
		Rule:          "-",
	}
}
