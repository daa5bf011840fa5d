package shapes

import (
	"fmt"
	"math"
	"strconv"

	"github.com/jbeda/geom"
)

const (
	// flatness is the maximum control point distance from the chord, in
	// path units, before a curve segment is drawn as a line.
	flatness     = 0.02
	maxCurveBend = 16
)

// ParsePathData flattens SVG path data ("M 0 0 L 10 0 ...") into a
// polyline. All path commands are supported in absolute and relative form.
func ParsePathData(d string) (*Polyline, error) {
	p := pathParser{lex: pathLexer{s: d}, pl: &Polyline{}}
	if err := p.parse(); err != nil {
		return nil, err
	}
	return p.pl, nil
}

type pathLexer struct {
	s string
	i int
}

func (l *pathLexer) skipSep() {
	for l.i < len(l.s) {
		switch l.s[l.i] {
		case ' ', '\t', '\n', '\r', '\f', ',':
			l.i++
		default:
			return
		}
	}
}

func (l *pathLexer) done() bool {
	l.skipSep()
	return l.i >= len(l.s)
}

// command returns the next command letter, if the next token is one.
func (l *pathLexer) command() (byte, bool) {
	l.skipSep()
	if l.i >= len(l.s) {
		return 0, false
	}
	c := l.s[l.i]
	if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') {
		l.i++
		return c, true
	}
	return 0, false
}

func (l *pathLexer) number() (float64, error) {
	l.skipSep()
	start := l.i
	if l.i < len(l.s) && (l.s[l.i] == '+' || l.s[l.i] == '-') {
		l.i++
	}
	digits := l.digits()
	if l.i < len(l.s) && l.s[l.i] == '.' {
		l.i++
		digits += l.digits()
	}
	if digits == 0 {
		l.i = start
		return 0, fmt.Errorf("expected number at offset %d", start)
	}
	if l.i < len(l.s) && (l.s[l.i] == 'e' || l.s[l.i] == 'E') {
		mark := l.i
		l.i++
		if l.i < len(l.s) && (l.s[l.i] == '+' || l.s[l.i] == '-') {
			l.i++
		}
		if l.digits() == 0 {
			l.i = mark
		}
	}
	v, err := strconv.ParseFloat(l.s[start:l.i], 64)
	if err != nil {
		return 0, fmt.Errorf("number at offset %d: %w", start, err)
	}
	return v, nil
}

func (l *pathLexer) digits() int {
	n := 0
	for l.i < len(l.s) && l.s[l.i] >= '0' && l.s[l.i] <= '9' {
		l.i++
		n++
	}
	return n
}

// flag reads an arc flag, which may be packed against the next number.
func (l *pathLexer) flag() (bool, error) {
	l.skipSep()
	if l.i < len(l.s) {
		switch l.s[l.i] {
		case '0':
			l.i++
			return false, nil
		case '1':
			l.i++
			return true, nil
		}
	}
	return false, fmt.Errorf("expected arc flag at offset %d", l.i)
}

// startsNumber reports whether another argument follows for an implicitly
// repeated command.
func (l *pathLexer) startsNumber() bool {
	l.skipSep()
	if l.i >= len(l.s) {
		return false
	}
	c := l.s[l.i]
	return c == '+' || c == '-' || c == '.' || (c >= '0' && c <= '9')
}

type pathParser struct {
	lex  pathLexer
	pl   *Polyline
	ctrl geom.Coord // last control point, for S and T reflection
	prev byte       // last command, upper case
}

func (p *pathParser) parse() error {
	cmd, ok := p.lex.command()
	if !ok {
		if p.lex.done() {
			return nil
		}
		return fmt.Errorf("path data must start with a command")
	}
	for {
		if err := p.run(cmd); err != nil {
			return fmt.Errorf("command %c: %w", cmd, err)
		}
		if p.lex.done() {
			return nil
		}
		next, ok := p.lex.command()
		if !ok {
			return fmt.Errorf("unexpected %q at offset %d", p.lex.s[p.lex.i], p.lex.i)
		}
		cmd = next
	}
}

func (p *pathParser) point(rel bool) (geom.Coord, error) {
	x, err := p.lex.number()
	if err != nil {
		return geom.Coord{}, err
	}
	y, err := p.lex.number()
	if err != nil {
		return geom.Coord{}, err
	}
	pt := geom.Coord{X: x, Y: y}
	if rel {
		pt = pt.Plus(p.pl.Current())
	}
	return pt, nil
}

// run executes cmd and any implicit repetitions of it.
func (p *pathParser) run(cmd byte) error {
	rel := cmd >= 'a'
	upper := cmd &^ 0x20
	for first := true; first || (upper != 'Z' && p.lex.startsNumber()); first = false {
		if err := p.step(upper, rel, first); err != nil {
			return err
		}
	}
	return nil
}

func (p *pathParser) step(cmd byte, rel, first bool) error {
	cur := p.pl.Current()
	switch cmd {
	case 'M':
		pt, err := p.point(rel)
		if err != nil {
			return err
		}
		if first {
			p.pl.MoveTo(pt)
		} else {
			// Extra coordinate pairs after a move are line segments.
			p.pl.LineTo(pt)
		}
		p.ctrl = pt
	case 'L':
		pt, err := p.point(rel)
		if err != nil {
			return err
		}
		p.pl.LineTo(pt)
		p.ctrl = pt
	case 'H', 'V':
		v, err := p.lex.number()
		if err != nil {
			return err
		}
		pt := cur
		switch {
		case cmd == 'H' && rel:
			pt.X += v
		case cmd == 'H':
			pt.X = v
		case rel:
			pt.Y += v
		default:
			pt.Y = v
		}
		p.pl.LineTo(pt)
		p.ctrl = pt
	case 'C', 'S':
		var c1 geom.Coord
		if cmd == 'C' {
			var err error
			if c1, err = p.point(rel); err != nil {
				return err
			}
		} else {
			c1 = p.reflect('C', 'S')
		}
		c2, err := p.point(rel)
		if err != nil {
			return err
		}
		end, err := p.point(rel)
		if err != nil {
			return err
		}
		p.cubic(cur, c1, c2, end)
		p.ctrl = c2
	case 'Q', 'T':
		var q geom.Coord
		if cmd == 'Q' {
			var err error
			if q, err = p.point(rel); err != nil {
				return err
			}
		} else {
			q = p.reflect('Q', 'T')
		}
		end, err := p.point(rel)
		if err != nil {
			return err
		}
		c1 := cur.Plus(q.Minus(cur).Times(2.0 / 3))
		c2 := end.Plus(q.Minus(end).Times(2.0 / 3))
		p.cubic(cur, c1, c2, end)
		p.ctrl = q
	case 'A':
		if err := p.arc(cur, rel); err != nil {
			return err
		}
	case 'Z':
		p.pl.Close()
		p.ctrl = p.pl.Current()
	default:
		return fmt.Errorf("unknown command")
	}
	p.prev = cmd
	return nil
}

// reflect mirrors the previous control point about the current point when
// the previous command was one of the given pair.
func (p *pathParser) reflect(a, b byte) geom.Coord {
	cur := p.pl.Current()
	if p.prev != a && p.prev != b {
		return cur
	}
	return cur.Times(2).Minus(p.ctrl)
}

func (p *pathParser) cubic(p0, p1, p2, p3 geom.Coord) {
	flattenCubic(p0, p1, p2, p3, 0, p.pl)
}

func flattenCubic(p0, p1, p2, p3 geom.Coord, depth int, pl *Polyline) {
	if depth >= maxCurveBend || (distToLine(p1, p0, p3) <= flatness && distToLine(p2, p0, p3) <= flatness) {
		pl.LineTo(p3)
		return
	}
	m01 := mid(p0, p1)
	m12 := mid(p1, p2)
	m23 := mid(p2, p3)
	m012 := mid(m01, m12)
	m123 := mid(m12, m23)
	m0123 := mid(m012, m123)
	flattenCubic(p0, m01, m012, m0123, depth+1, pl)
	flattenCubic(m0123, m123, m23, p3, depth+1, pl)
}

func mid(a, b geom.Coord) geom.Coord {
	return a.Plus(b).Times(0.5)
}

func distToLine(p, a, b geom.Coord) float64 {
	d := b.Minus(a)
	if d.X == 0 && d.Y == 0 {
		return p.DistanceFrom(a)
	}
	t := ((p.X-a.X)*d.X + (p.Y-a.Y)*d.Y) / (d.X*d.X + d.Y*d.Y)
	return p.DistanceFrom(a.Plus(d.Times(t)))
}

// arc flattens an elliptical arc using the endpoint to center conversion
// from the SVG implementation notes.
func (p *pathParser) arc(cur geom.Coord, rel bool) error {
	var args [3]float64
	for i := range args {
		v, err := p.lex.number()
		if err != nil {
			return err
		}
		args[i] = v
	}
	large, err := p.lex.flag()
	if err != nil {
		return err
	}
	sweep, err := p.lex.flag()
	if err != nil {
		return err
	}
	end, err := p.point(rel)
	if err != nil {
		return err
	}
	p.ctrl = end
	for _, pt := range arcPoints(cur, end, math.Abs(args[0]), math.Abs(args[1]), args[2]*math.Pi/180, large, sweep) {
		p.pl.LineTo(pt)
	}
	return nil
}

func arcPoints(from, to geom.Coord, rx, ry, phi float64, large, sweep bool) []geom.Coord {
	if from == to {
		return nil
	}
	if rx == 0 || ry == 0 {
		return []geom.Coord{to}
	}
	sinPhi, cosPhi := math.Sincos(phi)
	dx, dy := (from.X-to.X)/2, (from.Y-to.Y)/2
	x1 := cosPhi*dx + sinPhi*dy
	y1 := -sinPhi*dx + cosPhi*dy

	if lambda := x1*x1/(rx*rx) + y1*y1/(ry*ry); lambda > 1 {
		s := math.Sqrt(lambda)
		rx, ry = rx*s, ry*s
	}
	num := rx*rx*ry*ry - rx*rx*y1*y1 - ry*ry*x1*x1
	den := rx*rx*y1*y1 + ry*ry*x1*x1
	coef := math.Sqrt(math.Max(0, num/den))
	if large == sweep {
		coef = -coef
	}
	cx1 := coef * rx * y1 / ry
	cy1 := -coef * ry * x1 / rx
	cx := cosPhi*cx1 - sinPhi*cy1 + (from.X+to.X)/2
	cy := sinPhi*cx1 + cosPhi*cy1 + (from.Y+to.Y)/2

	ux, uy := (x1-cx1)/rx, (y1-cy1)/ry
	vx, vy := (-x1-cx1)/rx, (-y1-cy1)/ry
	theta := math.Atan2(uy, ux)
	delta := math.Atan2(ux*vy-uy*vx, ux*vx+uy*vy)
	if !sweep && delta > 0 {
		delta -= 2 * math.Pi
	} else if sweep && delta < 0 {
		delta += 2 * math.Pi
	}

	r := math.Max(rx, ry)
	step := 2 * math.Acos(math.Max(-1, 1-flatness/r))
	n := int(math.Ceil(math.Abs(delta) / step))
	n = max(1, min(n, 512))

	pts := make([]geom.Coord, 0, n)
	for i := 1; i <= n; i++ {
		a := theta + delta*float64(i)/float64(n)
		sin, cos := math.Sincos(a)
		pts = append(pts, geom.Coord{
			X: cx + rx*cosPhi*cos - ry*sinPhi*sin,
			Y: cy + rx*sinPhi*cos + ry*cosPhi*sin,
		})
	}
	pts[len(pts)-1] = to
	return pts
}
