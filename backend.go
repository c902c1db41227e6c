package freepants

import "math"

// Paint selects how a circle is painted.
type Paint uint8

const (
	// Outline strokes the circle with the stroke colour.
	Outline Paint = iota
	// Filled fills the circle with the fill colour and strokes it.
	Filled
	// Dotted fills and strokes the circle with the stroke colour.
	Dotted
)

// Arc is a circular arc around Center. The arc runs clockwise on screen from
// Start to End, or counter-clockwise from End to Start when Reverse is set.
type Arc struct {
	Center     Point
	Radius     float64
	Start, End float64
	Reverse    bool
}

// At returns the point of the circle at angle t.
func (a Arc) At(t float64) Point {
	return Point{
		X: a.Center.X + a.Radius*math.Cos(t),
		Y: a.Center.Y + a.Radius*math.Sin(t),
	}
}

// From returns the point where drawing of the arc starts.
func (a Arc) From() Point {
	if a.Reverse {
		return a.At(a.End)
	}
	return a.At(a.Start)
}

// To returns the point where drawing of the arc ends.
func (a Arc) To() Point {
	if a.Reverse {
		return a.At(a.Start)
	}
	return a.At(a.End)
}

// Sweep returns the angle swept, in [0, 2π].
func (a Arc) Sweep() float64 {
	if a.End-a.Start >= 2*math.Pi {
		return 2 * math.Pi
	}
	d := math.Mod(a.End-a.Start, 2*math.Pi)
	if d < 0 {
		d += 2 * math.Pi
	}
	if d == 0 && a.End != a.Start {
		d = 2 * math.Pi
	}
	return d
}

// Backend is the drawing vocabulary shared by every rendering target. All
// coordinates are already rounded by the caller, so every backend draws the
// same geometry.
type Backend interface {
	// Reset discards everything drawn so far.
	Reset()
	Circle(c Point, r float64, st Style, p Paint)
	Line(from, to Point, st Style)
	Arc(a Arc, st Style)
	Curve(from, c1, c2, to Point, st Style)

	BeginPath(p Point)
	MoveTo(p Point)
	LineTo(p Point)
	ArcTo(a Arc)
	CurveTo(c1, c2, p Point)
	// ClosePath closes the open path and strokes it, filling it as well when fill is set.
	ClosePath(st Style, fill bool)
	// EndPath strokes the open path without closing it.
	EndPath(st Style)

	Text(at Point, s string, size, rotation float64, st Style)
	// Finish completes the document once the render is over.
	Finish()
}

// fanout forwards every call to all of its backends, in order.
type fanout []Backend

func (f fanout) Reset() {
	for _, b := range f {
		b.Reset()
	}
}

func (f fanout) Circle(c Point, r float64, st Style, p Paint) {
	for _, b := range f {
		b.Circle(c, r, st, p)
	}
}

func (f fanout) Line(from, to Point, st Style) {
	for _, b := range f {
		b.Line(from, to, st)
	}
}

func (f fanout) Arc(a Arc, st Style) {
	for _, b := range f {
		b.Arc(a, st)
	}
}

func (f fanout) Curve(from, c1, c2, to Point, st Style) {
	for _, b := range f {
		b.Curve(from, c1, c2, to, st)
	}
}

func (f fanout) BeginPath(p Point) {
	for _, b := range f {
		b.BeginPath(p)
	}
}

func (f fanout) MoveTo(p Point) {
	for _, b := range f {
		b.MoveTo(p)
	}
}

func (f fanout) LineTo(p Point) {
	for _, b := range f {
		b.LineTo(p)
	}
}

func (f fanout) ArcTo(a Arc) {
	for _, b := range f {
		b.ArcTo(a)
	}
}

func (f fanout) CurveTo(c1, c2, p Point) {
	for _, b := range f {
		b.CurveTo(c1, c2, p)
	}
}

func (f fanout) ClosePath(st Style, fill bool) {
	for _, b := range f {
		b.ClosePath(st, fill)
	}
}

func (f fanout) EndPath(st Style) {
	for _, b := range f {
		b.EndPath(st)
	}
}

func (f fanout) Text(at Point, s string, size, rotation float64, st Style) {
	for _, b := range f {
		b.Text(at, s, size, rotation, st)
	}
}

func (f fanout) Finish() {
	for _, b := range f {
		b.Finish()
	}
}
