package ui

import (
	"time"

	"github.com/olivier-w/epicycles/internal/config"
)

type typeState uint8

const (
	typeTyping typeState = iota
	typeHolding
	typeDeleting
	typeGap
)

// Typewriter cycles through messages, typing each one out, holding it,
// deleting it and pausing before the next. It is advanced by wall time so
// it can share the frame tick.
type Typewriter struct {
	msgs  [][]rune
	cfg   config.BannerConfig
	idx   int
	shown int
	state typeState
	next  time.Time
}

// NewTypewriter starts typing the first message at now.
func NewTypewriter(cfg config.BannerConfig, now time.Time) *Typewriter {
	def := config.Default().Banner
	if cfg.TypeDelay <= 0 {
		cfg.TypeDelay = def.TypeDelay
	}
	if cfg.DeleteDelay <= 0 {
		cfg.DeleteDelay = def.DeleteDelay
	}
	t := &Typewriter{cfg: cfg}
	for _, m := range cfg.Messages {
		if m != "" {
			t.msgs = append(t.msgs, []rune(m))
		}
	}
	t.next = now.Add(cfg.TypeDelay)
	return t
}

// Advance applies every step that has come due by now.
func (t *Typewriter) Advance(now time.Time) {
	if len(t.msgs) == 0 {
		return
	}
	for !now.Before(t.next) {
		t.step()
	}
}

func (t *Typewriter) step() {
	msg := t.msgs[t.idx]
	switch t.state {
	case typeTyping:
		t.shown++
		if t.shown >= len(msg) {
			t.state = typeHolding
		}
		t.next = t.next.Add(t.cfg.TypeDelay)
	case typeHolding:
		t.state = typeDeleting
		t.next = t.next.Add(t.cfg.Hold + t.cfg.DeleteDelay)
	case typeDeleting:
		t.shown--
		if t.shown <= 0 {
			t.shown = 0
			t.state = typeGap
		}
		t.next = t.next.Add(t.cfg.DeleteDelay)
	case typeGap:
		t.idx = (t.idx + 1) % len(t.msgs)
		t.state = typeTyping
		t.next = t.next.Add(t.cfg.Gap + t.cfg.TypeDelay)
	}
}

// Text is the currently visible part of the message.
func (t *Typewriter) Text() string {
	if len(t.msgs) == 0 {
		return ""
	}
	return string(t.msgs[t.idx][:t.shown])
}
