package ui

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/olivier-w/epicycles/internal/canvas"
	"github.com/olivier-w/epicycles/internal/config"
	"github.com/olivier-w/epicycles/internal/epicycle"
	"github.com/olivier-w/epicycles/internal/fourier"
	"github.com/olivier-w/epicycles/internal/shapes"
	"github.com/olivier-w/epicycles/internal/util"
)

const (
	// Lines around the canvas: header, banner, status, error and help plus
	// the blank lines between them.
	reservedRows = 9
	minCols      = 10
	minRows      = 4
)

// Options describes the shape being animated.
type Options struct {
	Title string
	// Source is the file the shape was read from, empty for built-ins.
	Source  string
	PathID  string
	Config  *config.Config
	Log     *zap.Logger
	Watcher *shapes.Watcher
}

// Model is the Bubbletea model for the epicycle animation screen.
type Model struct {
	cfg     *config.Config
	log     *zap.Logger
	title   string
	source  string
	pathID  string
	path    fourier.Path
	watcher *shapes.Watcher
	done    chan struct{}

	sched  *epicycle.LoopScheduler
	screen *canvas.Braille
	anim   *epicycle.Animator
	ctl    *epicycle.Controller
	terms  int
	paused bool

	width        int
	height       int
	keys         keyMap
	help         help.Model
	progress     progress.Model
	spectrum     spectrumPanel
	showSpectrum bool
	banner       *Typewriter
	errMsg       string
	quitting     bool
}

// New creates the animation screen for p. The canvas and the animation
// are built once the first window size arrives.
func New(p fourier.Path, opts Options) Model {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	now := time.Now()
	return Model{
		cfg:     cfg,
		log:     log,
		title:   opts.Title,
		source:  opts.Source,
		pathID:  opts.PathID,
		path:    p,
		watcher: opts.Watcher,
		done:    make(chan struct{}),
		sched:   epicycle.NewLoopScheduler(now),
		terms:   cfg.Animation.Analyzer.Terms,
		keys:    newKeyMap(),
		help:    help.New(),
		progress: progress.New(
			progress.WithScaledGradient("#2E7D32", "#7CFC7C"),
			progress.WithoutPercentage(),
		),
		spectrum: newSpectrumPanel(int(math.Round(cfg.Animation.FrameRate))),
		banner:   NewTypewriter(cfg.Banner, now),
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		frameCmd(m.cfg.Animation.FrameInterval()),
		tea.SetWindowTitle(windowTitle(m.title, false)),
		watchCmd(m.watcher, m.done, m.source, m.pathID),
	)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	return m.handleMsg(msg)
}

func (m Model) handleMsg(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = max(msg.Width/3, 10)
		m.help.Width = msg.Width
		m.layout()
		return m, nil

	case frameMsg:
		if m.quitting {
			return m, nil
		}
		now := time.Time(msg)
		m.sched.Paint(now)
		m.banner.Advance(now)
		if m.showSpectrum && m.anim != nil {
			m.spectrum.update(m.anim.Model())
		}
		return m, frameCmd(m.cfg.Animation.FrameInterval())

	case pathReloadedMsg:
		if m.quitting {
			return m, nil
		}
		if msg.err != nil {
			m.errMsg = fmt.Sprintf("Reload failed: %v", msg.err)
			m.log.Warn("shape reload failed", zap.String("source", m.source), zap.Error(msg.err))
		} else {
			m.log.Info("shape reloaded", zap.String("source", m.source))
			m.errMsg = ""
			m.path = msg.path
			m.rebuild()
		}
		return m, watchCmd(m.watcher, m.done, m.source, m.pathID)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case isQuit(msg):
		m.shutdown()
		return m, tea.Sequence(tea.SetWindowTitle(""), tea.Quit)

	case key.Matches(msg, m.keys.Pause):
		if m.anim == nil {
			return m, nil
		}
		if m.paused {
			m.paused = false
			m.start()
		} else {
			m.paused = true
			m.stop()
		}
		return m, tea.SetWindowTitle(windowTitle(m.title, m.paused))

	case key.Matches(msg, m.keys.Restart):
		m.paused = false
		m.rebuild()
		return m, tea.SetWindowTitle(windowTitle(m.title, false))

	case key.Matches(msg, m.keys.More):
		m.setTerms(m.terms + max(1, m.terms/4))

	case key.Matches(msg, m.keys.Less):
		m.setTerms(m.terms - max(1, m.terms/5))

	case key.Matches(msg, m.keys.Spectrum):
		m.showSpectrum = !m.showSpectrum
		m.layout()
	}
	return m, nil
}

func (m *Model) setTerms(n int) {
	if m.anim == nil {
		return
	}
	m.anim.SetTerms(max(n, 1))
	m.terms = m.anim.Model().Terms
	m.log.Debug("terms changed", zap.Int("terms", m.terms))
}

// canvasCells is the braille area left by the surrounding text.
func (m Model) canvasCells() (cols, rows int) {
	cols = m.width - 4
	if m.showSpectrum {
		cols -= spectrumWidth + 1
	}
	return cols, m.height - reservedRows
}

// layout fits the canvas to the window. The first fit builds the
// animation; later ones resize the canvas at once and let the controller
// rebuild the model after the resize settles.
func (m *Model) layout() {
	cols, rows := m.canvasCells()
	if cols < minCols || rows < minRows {
		return
	}
	if m.screen == nil {
		m.screen = canvas.NewBraille(cols, rows)
		m.rebuild()
		return
	}
	if c, r := m.screen.Cells(); c == cols && r == rows {
		return
	}
	m.screen.Resize(cols, rows)
	w, h := m.screen.Size()
	switch {
	case m.ctl != nil:
		m.ctl.Resize(w, h)
	case m.anim != nil:
		if err := m.anim.Resize(context.Background(), w, h); err != nil {
			m.errMsg = err.Error()
			return
		}
		m.anim.Draw(m.screen)
	}
}

// rebuild analyzes the path from scratch and starts a fresh animation.
func (m *Model) rebuild() {
	if m.screen == nil {
		return
	}
	m.stop()
	cfg := m.cfg.Animation
	cfg.Analyzer.Terms = m.terms
	w, h := m.screen.Size()
	anim, err := epicycle.NewAnimator(context.Background(), cfg, m.path, w, h)
	if err != nil {
		m.anim = nil
		m.errMsg = err.Error()
		m.log.Error("building animation failed", zap.Error(err))
		return
	}
	m.anim = anim
	m.terms = anim.Model().Terms
	if !m.paused {
		m.start()
	}
}

// start runs the animation on the current canvas. A resize dropped by a
// stopped controller is applied first.
func (m *Model) start() {
	w, h := m.screen.Size()
	if aw, ah := m.anim.Size(); aw != float64(w) || ah != float64(h) {
		if err := m.anim.Resize(context.Background(), w, h); err != nil {
			m.errMsg = err.Error()
			return
		}
	}
	ctl, err := epicycle.Start(m.anim, m.screen, m.sched, m.log)
	if err != nil {
		m.errMsg = err.Error()
		return
	}
	m.ctl = ctl
}

func (m *Model) stop() {
	if m.ctl != nil {
		m.ctl.Stop()
		m.ctl = nil
	}
}

func (m *Model) shutdown() {
	if m.quitting {
		return
	}
	m.quitting = true
	m.stop()
	close(m.done)
	if m.watcher != nil {
		if err := m.watcher.Close(); err != nil {
			m.log.Warn("closing watcher", zap.Error(err))
		}
	}
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString("\n  ")
	b.WriteString(headerStyle.Render("epicycles"))
	if m.title != "" {
		b.WriteString("  ")
		b.WriteString(titleStyle.Render(m.title))
	}
	b.WriteString("\n  ")
	b.WriteString(bannerStyle.Render(m.banner.Text() + "▌"))
	b.WriteString("\n\n")

	body := m.canvasView()
	if m.showSpectrum && m.screen != nil {
		body = lipgloss.JoinHorizontal(lipgloss.Top, body, " ", m.spectrum.view())
	}
	b.WriteString(indentBlock(body, "  "))
	b.WriteString("\n\n  ")
	b.WriteString(m.statusLine())
	b.WriteString("\n")
	if m.errMsg != "" {
		b.WriteString("  ")
		b.WriteString(errorStyle.Render(m.errMsg))
	}
	b.WriteString("\n\n  ")
	b.WriteString(m.help.View(m.keys))
	b.WriteString("\n")

	return padToHeight(b.String(), m.height)
}

func (m Model) canvasView() string {
	if m.screen == nil {
		if m.width == 0 {
			return statusStyle.Render("waiting for window size...")
		}
		return statusStyle.Render("terminal too small")
	}
	return m.screen.Render()
}

func (m Model) statusLine() string {
	if m.anim == nil {
		return statusStyle.Render("no animation")
	}

	icon, phase := "▶", m.anim.Phase().String()
	if m.paused {
		icon, phase = "❚❚", "paused"
	}
	left := statusStyle.Render(fmt.Sprintf("%s  %-8s  %s", icon, phase,
		renderTerms(m.terms, len(m.anim.Spectrum()))))

	cfg := m.anim.Config()
	cycle := time.Duration(cfg.DurationSeconds * float64(time.Second))
	elapsed := time.Duration(m.anim.Clock().Epicycle / (2 * math.Pi) * float64(cycle))
	if m.anim.Phase() != epicycle.PhaseTracing {
		elapsed = 0
	}
	bar := m.progress.ViewAs(clampRatio(elapsed.Seconds(), cycle.Seconds()))
	times := timeStyle.Render(util.FormatCycleTime(elapsed) + " / " + util.FormatCycleTime(cycle))
	return left + "  " + bar + "  " + times
}

func windowTitle(title string, paused bool) string {
	if title == "" {
		title = "epicycles"
	}
	if paused {
		return "⏸ " + title + " — epicycles"
	}
	return "▶ " + title + " — epicycles"
}

func indentBlock(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i := range lines {
		if lines[i] != "" {
			lines[i] = prefix + lines[i]
		}
	}
	return strings.Join(lines, "\n")
}

// padToHeight appends blank lines so the frame always covers the window,
// which keeps stale rows from a taller previous frame off the screen.
func padToHeight(s string, height int) string {
	lines := strings.Count(s, "\n")
	if lines >= height {
		return s
	}
	return s + strings.Repeat("\n", height-lines)
}
