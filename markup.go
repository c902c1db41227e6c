package freepants

import (
	"fmt"
	"math"
	"strings"

	"github.com/LafeLabs/freepants/utils"
)

// Markup builds an SVG document out of the drawing calls.
type Markup struct {
	width, height int
	font          string

	body strings.Builder
	path strings.Builder
	open bool
}

// NewMarkup returns an empty document of the given size.
func NewMarkup(width, height int, font string) *Markup {
	return &Markup{width: width, height: height, font: font}
}

func (m *Markup) header() string {
	return fmt.Sprintf(`<svg width="%d" height="%d" viewBox="0 0 %d %d" xmlns="http://www.w3.org/2000/svg">`+"\n",
		m.width, m.height, m.width, m.height)
}

// String returns the complete document, every element drawn so far included.
func (m *Markup) String() string {
	return m.header() + m.body.String() + "</svg>\n"
}

// Body returns the elements drawn so far, without the document envelope.
func (m *Markup) Body() string { return m.body.String() }

func (m *Markup) Reset() {
	m.body.Reset()
	m.path.Reset()
	m.open = false
}

// Finish does nothing: String assembles the document on every call.
func (m *Markup) Finish() {}

func num(v float64) string { return utils.FormatFloat(roundLen(v)) }

func pt(p Point) string { return num(p.X) + " " + num(p.Y) }

func strokeAttrs(st Style) string {
	return fmt.Sprintf(`stroke="%s" stroke-width="%s"`, st.Stroke, num(st.Width))
}

func (m *Markup) Circle(c Point, r float64, st Style, p Paint) {
	fill := "none"
	switch p {
	case Filled:
		fill = st.Fill
	case Dotted:
		fill = st.Stroke
	}
	fmt.Fprintf(&m.body, `<circle cx="%s" cy="%s" r="%s" %s fill="%s"/>`+"\n",
		num(c.X), num(c.Y), num(r), strokeAttrs(st), fill)
}

func (m *Markup) Line(from, to Point, st Style) {
	fmt.Fprintf(&m.body, `<line x1="%s" y1="%s" x2="%s" y2="%s" %s/>`+"\n",
		num(from.X), num(from.Y), num(to.X), num(to.Y), strokeAttrs(st))
}

// arcCommands writes the elliptical arc commands drawing a from its first
// point. A full turn is split in two halves, which a single command cannot draw.
func arcCommands(a Arc) string {
	sweep := a.Sweep()
	flag := 1
	if a.Reverse {
		flag = 0
	}
	r := num(a.Radius)
	if sweep >= 2*math.Pi-1e-9 {
		start := a.Start
		if a.Reverse {
			start = a.End
		}
		mid := a.At(start + math.Pi)
		if a.Reverse {
			mid = a.At(start - math.Pi)
		}
		return fmt.Sprintf("A %s %s 0 0 %d %s A %s %s 0 0 %d %s", r, r, flag, pt(mid), r, r, flag, pt(a.From()))
	}
	large := 0
	if sweep > math.Pi {
		large = 1
	}
	return fmt.Sprintf("A %s %s 0 %d %d %s", r, r, large, flag, pt(a.To()))
}

func (m *Markup) Arc(a Arc, st Style) {
	fmt.Fprintf(&m.body, `<path d="M %s %s" fill="none" %s/>`+"\n", pt(a.From()), arcCommands(a), strokeAttrs(st))
}

func (m *Markup) Curve(from, c1, c2, to Point, st Style) {
	fmt.Fprintf(&m.body, `<path d="M %s C %s %s %s" fill="none" %s/>`+"\n", pt(from), pt(c1), pt(c2), pt(to), strokeAttrs(st))
}

func (m *Markup) BeginPath(p Point) {
	m.path.Reset()
	m.path.WriteString("M " + pt(p))
	m.open = true
}

func (m *Markup) segment(s string) {
	if !m.open {
		return
	}
	m.path.WriteString(" " + s)
}

func (m *Markup) MoveTo(p Point)          { m.segment("M " + pt(p)) }
func (m *Markup) LineTo(p Point)          { m.segment("L " + pt(p)) }
func (m *Markup) CurveTo(c1, c2, p Point) { m.segment("C " + pt(c1) + " " + pt(c2) + " " + pt(p)) }

// ArcTo joins the current point to the start of the arc with a straight line.
func (m *Markup) ArcTo(a Arc) {
	m.segment("L " + pt(a.From()) + " " + arcCommands(a))
}

func (m *Markup) ClosePath(st Style, fill bool) {
	f := "none"
	if fill {
		f = st.Fill
	}
	m.flush(" Z", st, f)
}

func (m *Markup) EndPath(st Style) {
	m.flush("", st, "none")
}

func (m *Markup) flush(end string, st Style, fill string) {
	if !m.open {
		return
	}
	fmt.Fprintf(&m.body, `<path d="%s%s" %s fill="%s"/>`+"\n", m.path.String(), end, strokeAttrs(st), fill)
	m.path.Reset()
	m.open = false
}

func (m *Markup) Text(at Point, s string, size, rotation float64, st Style) {
	transform := ""
	if rotation != 0 {
		transform = fmt.Sprintf(` transform="rotate(%s %s %s)"`, num(rotation*180/math.Pi), num(at.X), num(at.Y))
	}
	fmt.Fprintf(&m.body, `<text x="%s" y="%s" fill="%s" font-size="%spx" font-family="%s"%s>%s</text>`+"\n",
		num(at.X), num(at.Y), st.Stroke, num(size), m.font, transform, escapeText(s))
}
