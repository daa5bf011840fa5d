package main

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/olivier-w/epicycles/internal/config"
	"github.com/olivier-w/epicycles/internal/shapes"
	"github.com/olivier-w/epicycles/internal/ui"
)

func TestStartupModelSelectionEntersOpeningPhase(t *testing.T) {
	model, cmd := newStartupModel(nil, nil, "").Update(ui.BrowserSelectedMsg{Path: "heart"})
	if cmd == nil {
		t.Fatal("expected opening command")
	}

	startup, ok := model.(startupModel)
	if !ok {
		t.Fatalf("expected startupModel, got %T", model)
	}
	if startup.phase != phaseOpening {
		t.Fatalf("expected phaseOpening, got %v", startup.phase)
	}
	if startup.opening != "heart" {
		t.Fatalf("expected heart to be opening, got %q", startup.opening)
	}
}

func TestStartupModelErrorReturnsToBrowsePhase(t *testing.T) {
	m := newStartupModel(nil, nil, "")
	m.phase = phaseOpening

	model, cmd := m.Update(startupResolvedMsg{err: errors.New("boom")})
	if cmd != nil {
		t.Fatal("expected no command on error return")
	}

	startup := model.(startupModel)
	if startup.phase != phaseBrowse {
		t.Fatalf("expected phaseBrowse, got %v", startup.phase)
	}
	if startup.errMsg != "boom" {
		t.Fatalf("expected error message, got %q", startup.errMsg)
	}
}

func TestStartupModelHandsOffToAnimation(t *testing.T) {
	m := newStartupModel(nil, nil, "")
	next, _ := m.Update(tea.WindowSizeMsg{Width: 90, Height: 30})
	m = next.(startupModel)
	m.phase = phaseOpening

	p, err := shapes.Builtin("circle")
	if err != nil {
		t.Fatal(err)
	}
	resolved := ui.New(p, ui.Options{Title: "circle", Config: config.Default()})

	model, cmd := m.Update(startupResolvedMsg{model: resolved})
	if _, ok := model.(ui.Model); !ok {
		t.Fatalf("expected ui.Model, got %T", model)
	}
	if cmd == nil {
		t.Fatal("expected init and size commands")
	}
}

func TestStartupModelQuitWhileOpening(t *testing.T) {
	m := newStartupModel(nil, nil, "")
	m.phase = phaseOpening

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
}

func TestOpenSelectionCmdReportsUnknownShape(t *testing.T) {
	msg := openSelectionCmd("nope", "", config.Default(), nil)()
	resolved, ok := msg.(startupResolvedMsg)
	if !ok {
		t.Fatalf("expected startupResolvedMsg, got %T", msg)
	}
	if !errors.Is(resolved.err, shapes.ErrUnsupportedShape) {
		t.Fatalf("expected unsupported shape error, got %v", resolved.err)
	}
}

func TestStartupModelViews(t *testing.T) {
	m := newStartupModel(nil, nil, "")
	m.phase = phaseOpening
	m.opening = "heart"
	if view := m.View(); !strings.Contains(view, "Opening heart") {
		t.Fatalf("expected opening status, got %q", view)
	}

	m.phase = phaseBrowse
	m.errMsg = "bad svg"
	if view := m.View(); !strings.Contains(view, "bad svg") {
		t.Fatalf("expected error above the browser, got %q", view)
	}
}
