package ui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

func isQuit(msg tea.KeyMsg) bool {
	switch msg.String() {
	case "q", "esc", "ctrl+c":
		return true
	}
	return false
}

type keyMap struct {
	Pause    key.Binding
	Restart  key.Binding
	More     key.Binding
	Less     key.Binding
	Spectrum key.Binding
	Quit     key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Pause:    key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "pause")),
		Restart:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "restart")),
		More:     key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "more terms")),
		Less:     key.NewBinding(key.WithKeys("-", "_"), key.WithHelp("-", "fewer terms")),
		Spectrum: key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "spectrum")),
		Quit:     key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Pause, k.Restart, k.More, k.Less, k.Spectrum, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Pause, k.Restart},
		{k.More, k.Less, k.Spectrum},
		{k.Quit},
	}
}
