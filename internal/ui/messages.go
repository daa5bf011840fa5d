package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/olivier-w/epicycles/internal/fourier"
	"github.com/olivier-w/epicycles/internal/shapes"
)

type frameMsg time.Time

// pathReloadedMsg carries the shape re-read after its file changed.
type pathReloadedMsg struct {
	path fourier.Path
	err  error
}

func frameCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

func watchCmd(w *shapes.Watcher, done <-chan struct{}, source, id string) tea.Cmd {
	if w == nil {
		return nil
	}
	return func() tea.Msg {
		select {
		case <-w.Events():
			p, err := shapes.Open(source, id)
			return pathReloadedMsg{path: p, err: err}
		case <-done:
			return nil
		}
	}
}
