package freepants

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

var testStyle = Style{Stroke: "black", Fill: "red", Width: 2}

func TestMarkup_Document(t *testing.T) {
	assert := assert.New(t)
	m := NewMarkup(200, 100, "Arial")

	m.Line(Point{0, 0}, Point{10.125, 20}, testStyle)
	assert.Equal("<line x1=\"0\" y1=\"0\" x2=\"10.13\" y2=\"20\" stroke=\"black\" stroke-width=\"2\"/>\n", m.Body())
	m.Finish()
	assert.Equal("<svg width=\"200\" height=\"100\" viewBox=\"0 0 200 100\" xmlns=\"http://www.w3.org/2000/svg\">\n"+
		m.Body()+"</svg>\n", m.String())

	m.Reset()
	assert.Empty(m.Body())
	assert.NotContains(m.String(), "<line")
}

func TestMarkup_Circles(t *testing.T) {
	assert := assert.New(t)
	m := NewMarkup(100, 100, "Arial")

	m.Circle(Point{5, 5}, 3, testStyle, Outline)
	m.Circle(Point{5, 5}, 3, testStyle, Filled)
	m.Circle(Point{5, 5}, 2, testStyle, Dotted)
	lines := strings.Split(strings.TrimSpace(m.Body()), "\n")
	assert.Equal([]string{
		`<circle cx="5" cy="5" r="3" stroke="black" stroke-width="2" fill="none"/>`,
		`<circle cx="5" cy="5" r="3" stroke="black" stroke-width="2" fill="red"/>`,
		`<circle cx="5" cy="5" r="2" stroke="black" stroke-width="2" fill="black"/>`,
	}, lines)
}

func TestMarkup_Paths(t *testing.T) {
	assert := assert.New(t)
	m := NewMarkup(100, 100, "Arial")

	// Segments without an open path are dropped.
	m.LineTo(Point{1, 1})
	m.EndPath(testStyle)
	assert.Empty(m.Body())

	m.BeginPath(Point{0, 0})
	m.LineTo(Point{10, 0})
	m.MoveTo(Point{10, 10})
	m.CurveTo(Point{1, 2}, Point{3, 4}, Point{5, 6})
	m.ClosePath(testStyle, true)
	assert.Equal(`<path d="M 0 0 L 10 0 M 10 10 C 1 2 3 4 5 6 Z" stroke="black" stroke-width="2" fill="red"/>`+"\n", m.Body())

	m.Reset()
	m.BeginPath(Point{0, 0})
	m.LineTo(Point{10, 0})
	m.ClosePath(testStyle, false)
	assert.Contains(m.Body(), `Z" stroke="black" stroke-width="2" fill="none"/>`)
}

func TestMarkup_Arcs(t *testing.T) {
	assert := assert.New(t)
	m := NewMarkup(100, 100, "Arial")

	quarter := Arc{Center: Point{50, 50}, Radius: 10, Start: 0, End: math.Pi / 2}
	m.Arc(quarter, testStyle)
	assert.Equal(`<path d="M 60 50 A 10 10 0 0 1 50 60" fill="none" stroke="black" stroke-width="2"/>`+"\n", m.Body())

	m.Reset()
	quarter.Reverse = true
	m.BeginPath(Point{40, 40})
	m.ArcTo(quarter)
	m.EndPath(testStyle)
	assert.Equal(`<path d="M 40 40 L 50 60 A 10 10 0 0 0 60 50" stroke="black" stroke-width="2" fill="none"/>`+"\n", m.Body())

	m.Reset()
	m.Arc(Arc{Center: Point{50, 50}, Radius: 10, Start: 0, End: 3 * math.Pi / 2}, testStyle)
	assert.Contains(m.Body(), "A 10 10 0 1 1 50 40")

	// A full turn needs two commands.
	m.Reset()
	m.Arc(Arc{Center: Point{50, 50}, Radius: 10, Start: -math.Pi, End: math.Pi}, testStyle)
	assert.Contains(m.Body(), `d="M 40 50 A 10 10 0 0 1 60 50 A 10 10 0 0 1 40 50"`)
}

func TestMarkup_Text(t *testing.T) {
	assert := assert.New(t)
	m := NewMarkup(100, 100, "Courier")

	m.Text(Point{10, 20}, `a<b & "c"`, 12, 0, testStyle)
	assert.Equal(`<text x="10" y="20" fill="black" font-size="12px" font-family="Courier">a&lt;b &amp; "c"</text>`+"\n", m.Body())

	m.Reset()
	m.Text(Point{10, 20}, "x", 12.5, math.Pi/2, testStyle)
	assert.Contains(m.Body(), `font-size="12.5px" font-family="Courier" transform="rotate(90 10 20)">x</text>`)
}

func TestArc_Sweep(t *testing.T) {
	assert := assert.New(t)

	assert.InDelta(math.Pi, Arc{Start: -math.Pi, End: 0}.Sweep(), 1e-12)
	assert.InDelta(2*math.Pi, Arc{Start: 0, End: 2 * math.Pi}.Sweep(), 1e-12)
	assert.InDelta(2*math.Pi, Arc{Start: 0, End: 5 * math.Pi}.Sweep(), 1e-12)
	assert.InDelta(3*math.Pi/2, Arc{Start: math.Pi, End: math.Pi / 2}.Sweep(), 1e-12)
	assert.Equal(0.0, Arc{Start: 1, End: 1}.Sweep())

	a := Arc{Center: Point{0, 0}, Radius: 1, Start: 0, End: math.Pi / 2}
	assert.InDelta(1, a.From().X, 1e-12)
	assert.InDelta(1, a.To().Y, 1e-12)
	a.Reverse = true
	assert.InDelta(1, a.From().Y, 1e-12)
}
