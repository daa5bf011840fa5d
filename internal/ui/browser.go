package ui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/olivier-w/epicycles/internal/shapes"
)

// BrowserResult holds the outcome of the shape browser.
type BrowserResult struct {
	Path      string
	Cancelled bool
}

// BrowserSelectedMsg is sent by an embedded browser when a shape is chosen.
type BrowserSelectedMsg struct {
	Path string
}

// BrowserCancelledMsg is sent by an embedded browser when the user quits.
type BrowserCancelledMsg struct{}

type fileItem struct {
	name string
	ext  string
}

func (i fileItem) Title() string       { return i.name }
func (i fileItem) Description() string { return i.ext }
func (i fileItem) FilterValue() string { return i.name }

type shapeItem struct{ name string }

func (i shapeItem) Title() string       { return i.name }
func (i shapeItem) Description() string { return "built-in shape" }
func (i shapeItem) FilterValue() string { return i.name }

// BrowserModel is the Bubbletea model for the shape picker. It lists the
// built-in shapes followed by the SVG files of the working directory.
type BrowserModel struct {
	list     list.Model
	embedded bool
	result   *BrowserResult
	err      error
}

// NewBrowser creates a standalone browser that quits the program once a
// choice is made; read it back with Result.
func NewBrowser() BrowserModel {
	return newBrowser(false)
}

// NewEmbeddedBrowser creates a browser that reports its choice as a
// message to the enclosing model instead of quitting.
func NewEmbeddedBrowser() BrowserModel {
	return newBrowser(true)
}

func newBrowser(embedded bool) BrowserModel {
	entries, err := os.ReadDir(".")
	if err != nil {
		return BrowserModel{err: fmt.Errorf("cannot read directory: %w", err), embedded: embedded}
	}

	var items []list.Item
	for _, name := range shapes.BuiltinNames() {
		items = append(items, shapeItem{name: name})
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if !shapes.IsSupportedExt(ext) {
			continue
		}
		name := strings.TrimSuffix(e.Name(), filepath.Ext(e.Name()))
		items = append(items, fileItem{name: name, ext: filepath.Ext(e.Name())})
	}

	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.
		Foreground(lipgloss.AdaptiveColor{Light: "#333333", Dark: "#FFFFFF"}).
		BorderLeftForeground(lipgloss.AdaptiveColor{Light: "#555555", Dark: "#AAAAAA"})
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.
		Foreground(lipgloss.AdaptiveColor{Light: "#666666", Dark: "#888888"}).
		BorderLeftForeground(lipgloss.AdaptiveColor{Light: "#555555", Dark: "#AAAAAA"})

	l := list.New(items, delegate, 80, 20)
	l.Title = "epicycles"
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.Styles.Title = headerStyle

	return BrowserModel{list: l, embedded: embedded}
}

// HasError returns true if the browser could not be initialized.
func (m BrowserModel) HasError() bool {
	return m.err != nil
}

// Error returns the initialization error, if any.
func (m BrowserModel) Error() error {
	return m.err
}

// Result returns the browser result after the program finishes.
func (m BrowserModel) Result() BrowserResult {
	if m.result != nil {
		return *m.result
	}
	return BrowserResult{Cancelled: true}
}

func (m BrowserModel) Init() tea.Cmd {
	return tea.SetWindowTitle("epicycles")
}

func (m BrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		// Don't intercept keys when filtering
		if m.list.FilterState() == list.Filtering {
			break
		}

		switch msg.String() {
		case "enter":
			switch item := m.list.SelectedItem().(type) {
			case shapeItem:
				return m.choose(item.name)
			case fileItem:
				return m.choose(item.name + item.ext)
			}
		case "q", "esc", "ctrl+c":
			return m.cancel()
		}

	case tea.WindowSizeMsg:
		m.list.SetWidth(msg.Width)
		m.list.SetHeight(msg.Height)
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m BrowserModel) choose(path string) (tea.Model, tea.Cmd) {
	if m.embedded {
		return m, func() tea.Msg { return BrowserSelectedMsg{Path: path} }
	}
	m.result = &BrowserResult{Path: path}
	return m, tea.Sequence(tea.SetWindowTitle(""), tea.Quit)
}

func (m BrowserModel) cancel() (tea.Model, tea.Cmd) {
	if m.embedded {
		return m, func() tea.Msg { return BrowserCancelledMsg{} }
	}
	m.result = &BrowserResult{Cancelled: true}
	return m, tea.Sequence(tea.SetWindowTitle(""), tea.Quit)
}

func (m BrowserModel) View() string {
	return m.list.View()
}
