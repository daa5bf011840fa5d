package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/harmonica"

	"github.com/olivier-w/epicycles/internal/fourier"
)

const (
	spectrumRows     = 10
	spectrumBarWidth = 14
	// spectrumWidth is the panel's outer width including border and padding.
	spectrumWidth = spectrumBarWidth + 6 + 4
)

type springField struct {
	spring harmonica.Spring
	pos    []float64
	vel    []float64
}

func newSpringField(fps int, frequency, damping float64) springField {
	return springField{spring: harmonica.NewSpring(harmonica.FPS(fps), frequency, damping)}
}

func (s *springField) resize(n int) {
	if len(s.pos) == n {
		return
	}
	s.pos = make([]float64, n)
	s.vel = make([]float64, n)
}

func (s *springField) step(i int, target float64) float64 {
	p, v := s.spring.Update(s.pos[i], s.vel[i], target)
	s.pos[i] = p
	s.vel[i] = v
	return p
}

// spectrumPanel shows the strongest components of the active model as
// bars that ease toward their relative amplitude.
type spectrumPanel struct {
	springs springField
	labels  []int
	levels  []float64
}

func newSpectrumPanel(fps int) spectrumPanel {
	return spectrumPanel{springs: newSpringField(fps, 6, 0.7)}
}

// update moves every bar one spring step toward the model's amplitudes.
func (p *spectrumPanel) update(m *fourier.Model) {
	if m == nil {
		return
	}
	n := min(spectrumRows, len(m.Components))
	p.springs.resize(n)
	p.labels = p.labels[:0]
	p.levels = p.levels[:0]
	if n == 0 {
		return
	}
	peak := m.Components[0].Amp
	for i := range n {
		c := m.Components[i]
		target := 0.0
		if peak > 0 {
			target = c.Amp / peak
		}
		p.labels = append(p.labels, m.Wavenumber(c))
		p.levels = append(p.levels, p.springs.step(i, target))
	}
}

func (p spectrumPanel) view() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("spectrum"))
	for i, k := range p.labels {
		b.WriteString("\n")
		b.WriteString(timeStyle.Render(fmt.Sprintf("%+5d ", k)))
		b.WriteString(barStyle.Render(renderLevelBar(p.levels[i], spectrumBarWidth)))
	}
	return panelStyle.Render(b.String())
}
