package main

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/olivier-w/epicycles/internal/config"
	"github.com/olivier-w/epicycles/internal/ui"
)

type startupPhase uint8

const (
	phaseBrowse startupPhase = iota
	phaseOpening
)

type startupResolvedMsg struct {
	model ui.Model
	err   error
}

type startupModel struct {
	browser ui.BrowserModel
	phase   startupPhase
	errMsg  string
	opening string
	width   int
	height  int
	spinner spinner.Model

	cfg    *config.Config
	log    *zap.Logger
	pathID string
}

func newStartupModel(cfg *config.Config, log *zap.Logger, pathID string) startupModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#555555", Dark: "#AAAAAA"})

	if cfg == nil {
		cfg = config.Default()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return startupModel{
		browser: ui.NewEmbeddedBrowser(),
		phase:   phaseBrowse,
		spinner: s,
		cfg:     cfg,
		log:     log,
		pathID:  pathID,
	}
}

func (m startupModel) Init() tea.Cmd {
	return tea.Batch(m.browser.Init(), m.spinner.Tick)
}

func (m startupModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.phase == phaseBrowse {
			return m.updateBrowser(msg)
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		if m.phase == phaseOpening {
			return m, cmd
		}
		return m, nil

	case ui.BrowserCancelledMsg:
		return m, tea.Sequence(tea.SetWindowTitle(""), tea.Quit)

	case ui.BrowserSelectedMsg:
		m.phase = phaseOpening
		m.errMsg = ""
		m.opening = msg.Path
		return m, tea.Batch(
			m.spinner.Tick,
			openSelectionCmd(msg.Path, m.pathID, m.cfg, m.log),
		)

	case startupResolvedMsg:
		if msg.err != nil {
			m.log.Warn("open failed", zap.String("shape", m.opening), zap.Error(msg.err))
			m.phase = phaseBrowse
			m.errMsg = msg.err.Error()
			return m, nil
		}

		cmds := []tea.Cmd{msg.model.Init()}
		if m.width > 0 || m.height > 0 {
			w, h := m.width, m.height
			cmds = append(cmds, func() tea.Msg {
				return tea.WindowSizeMsg{Width: w, Height: h}
			})
		}
		return msg.model, tea.Batch(cmds...)

	case tea.KeyMsg:
		if m.phase == phaseOpening && startupIsQuit(msg) {
			return m, tea.Sequence(tea.SetWindowTitle(""), tea.Quit)
		}
	}

	if m.phase == phaseBrowse {
		return m.updateBrowser(msg)
	}
	return m, nil
}

func (m startupModel) updateBrowser(msg tea.Msg) (tea.Model, tea.Cmd) {
	model, cmd := m.browser.Update(msg)
	if browser, ok := model.(ui.BrowserModel); ok {
		m.browser = browser
	}
	return m, cmd
}

func (m startupModel) View() string {
	header := startupPad.Render(startupHeaderStyle.Render("epicycles"))
	if m.phase == phaseOpening {
		status := m.spinner.View() + " " + startupStatusStyle.Render("Opening "+m.opening+"...")
		return "\n" + lipgloss.JoinVertical(lipgloss.Left,
			header, "",
			startupPad.Render(status), "",
			startupPad.Render(startupHelpStyle.Render("q quit")),
		) + "\n"
	}

	switch {
	case m.browser.HasError():
		return "\n" + lipgloss.JoinVertical(lipgloss.Left,
			header, "", startupPad.Render(startupErrorStyle.Render(m.browser.Error().Error())),
		) + "\n"
	case m.errMsg != "":
		return "\n" + lipgloss.JoinVertical(lipgloss.Left,
			header, "",
			startupPad.Render(startupErrorStyle.Render(m.errMsg)), "",
			startupPad.Render(m.browser.View()),
		)
	default:
		return m.browser.View()
	}
}

// openSelectionCmd loads the chosen shape off the UI goroutine.
func openSelectionCmd(path, pathID string, cfg *config.Config, log *zap.Logger) tea.Cmd {
	return func() tea.Msg {
		model, err := buildAnimationModel(path, pathID, cfg, log)
		return startupResolvedMsg{model: model, err: err}
	}
}

func startupIsQuit(msg tea.KeyMsg) bool {
	switch msg.String() {
	case "q", "esc", "ctrl+c":
		return true
	}
	return false
}

var (
	startupPad         = lipgloss.NewStyle().PaddingLeft(2)
	startupHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFFFFF"))
	startupStatusStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#444444", Dark: "#BBBBBB"})
	startupHelpStyle   = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#999999", Dark: "#666666"})
	startupErrorStyle  = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#A00000", Dark: "#FF8080"})
)
