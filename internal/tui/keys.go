package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"

	"github.com/hyunsol/croquis/internal/store"
)

type keyMap struct {
	Start  key.Binding
	New    key.Binding
	Delete key.Binding
	Export key.Binding
	Tab1   key.Binding
	Tab2   key.Binding
	Tab3   key.Binding
	Tab4   key.Binding
	Tab5   key.Binding
	Tab6   key.Binding
	Tab7   key.Binding
	Tab    key.Binding
	Help   key.Binding
	Enter  key.Binding
	Back   key.Binding
	Up     key.Binding
	Down   key.Binding
	Left   key.Binding
	Right  key.Binding
	Quit   key.Binding
}

var keys = keyMap{
	Start: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "start session"),
	),
	New: key.NewBinding(
		key.WithKeys("n"),
		key.WithHelp("n", "new"),
	),
	Delete: key.NewBinding(
		key.WithKeys("d"),
		key.WithHelp("d", "delete"),
	),
	Export: key.NewBinding(
		key.WithKeys("e"),
		key.WithHelp("e", "export"),
	),
	Tab1: key.NewBinding(
		key.WithKeys("1"),
		key.WithHelp("1", "dashboard"),
	),
	Tab2: key.NewBinding(
		key.WithKeys("2"),
		key.WithHelp("2", "decks"),
	),
	Tab3: key.NewBinding(
		key.WithKeys("3"),
		key.WithHelp("3", "session"),
	),
	Tab4: key.NewBinding(
		key.WithKeys("4"),
		key.WithHelp("4", "history"),
	),
	Tab5: key.NewBinding(
		key.WithKeys("5"),
		key.WithHelp("5", "alarms"),
	),
	Tab6: key.NewBinding(
		key.WithKeys("6"),
		key.WithHelp("6", "reports"),
	),
	Tab7: key.NewBinding(
		key.WithKeys("7"),
		key.WithHelp("7", "settings"),
	),
	Tab: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "next view"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "select"),
	),
	Back: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "back"),
	),
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down"),
	),
	Left: key.NewBinding(
		key.WithKeys("left", "h"),
		key.WithHelp("←/h", "left"),
	),
	Right: key.NewBinding(
		key.WithKeys("right", "l"),
		key.WithHelp("→/l", "right"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Start, k.New, k.Export, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Start, k.New, k.Delete, k.Export},
		{k.Tab1, k.Tab2, k.Tab3, k.Tab4},
		{k.Tab5, k.Tab6, k.Tab7, k.Tab},
		{k.Up, k.Down, k.Enter, k.Back, k.Quit},
	}
}

// sessionKeyMap is built from the user's stored shortcuts, so the session
// view honors rebinds like the desktop builds did.
type sessionKeyMap struct {
	Next     key.Binding
	Previous key.Binding
	Pause    key.Binding
	Stop     key.Binding
}

func newSessionKeyMap(cfg store.Settings) sessionKeyMap {
	defaults := store.DefaultSettings().Shortcuts
	get := func(action string) string {
		if v, ok := cfg.Shortcuts[action]; ok && v != "" {
			return v
		}
		return defaults[action]
	}
	return sessionKeyMap{
		Next:     key.NewBinding(key.WithKeys(shortcutKey(get(store.ActionNextImage))), key.WithHelp(strings.ToLower(get(store.ActionNextImage)), "next")),
		Previous: key.NewBinding(key.WithKeys(shortcutKey(get(store.ActionPreviousImage))), key.WithHelp(strings.ToLower(get(store.ActionPreviousImage)), "previous")),
		Pause:    key.NewBinding(key.WithKeys(shortcutKey(get(store.ActionTogglePause))), key.WithHelp(strings.ToLower(get(store.ActionTogglePause)), "pause")),
		Stop:     key.NewBinding(key.WithKeys(shortcutKey(get(store.ActionStopCroquis))), key.WithHelp(strings.ToLower(get(store.ActionStopCroquis)), "stop")),
	}
}

// shortcutKey translates a stored shortcut name ("Space", "Left", "P") to
// the key string the terminal reports.
func shortcutKey(name string) string {
	switch name {
	case "Space":
		return " "
	case "Escape":
		return "esc"
	case "Return", "Enter":
		return "enter"
	case "Left", "Right", "Up", "Down", "Tab", "Backspace", "Home", "End":
		return strings.ToLower(name)
	}
	return strings.ToLower(name)
}
