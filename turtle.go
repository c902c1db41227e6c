package freepants

import (
	"math"

	"github.com/LafeLabs/freepants/utils"
)

// Point is a canvas position in pixels, y pointing down.
type Point struct {
	X, Y float64
}

// Round returns the point snapped to whole pixels.
func (p Point) Round() Point {
	return Point{X: utils.Round(p.X), Y: utils.Round(p.Y)}
}

// Turtle is the geometric register set of the machine.
type Turtle struct {
	X, Y    float64
	Heading float64
	Step    float64
	Angle   float64
	Scale   float64
	Style   int
	Word    string
	PenDown bool
}

// Snapshot is the saved copy of the non-style turtle registers.
type Snapshot struct {
	X, Y    float64
	Heading float64
	Step    float64
	Angle   float64
	Scale   float64
}

// Pos returns the pen position.
func (t *Turtle) Pos() Point { return Point{X: t.X, Y: t.Y} }

// Ahead returns the point one step away from the pen along heading+offset.
func (t *Turtle) Ahead(offset float64) Point {
	return Point{
		X: t.X + t.Step*math.Cos(t.Heading+offset),
		Y: t.Y + t.Step*math.Sin(t.Heading+offset),
	}
}

// Move advances the pen one step along heading+offset, backwards when sign is negative.
func (t *Turtle) Move(offset, sign float64) {
	t.X += sign * t.Step * math.Cos(t.Heading+offset)
	t.Y += sign * t.Step * math.Sin(t.Heading+offset)
}

// Save stores the geometric registers.
func (t *Turtle) Save() Snapshot {
	return Snapshot{X: t.X, Y: t.Y, Heading: t.Heading, Step: t.Step, Angle: t.Angle, Scale: t.Scale}
}

// Load restores the geometric registers from a snapshot.
func (t *Turtle) Load(s Snapshot) {
	t.X, t.Y = s.X, s.Y
	t.Heading = s.Heading
	t.Step = s.Step
	t.Angle = s.Angle
	t.Scale = s.Scale
}

// View holds the canvas framing which persists across renders: origin,
// base heading and unit length.
type View struct {
	Width, Height int
	X0, Y0        float64
	Heading       float64
	Unit          float64
	PanStep       float64
}

const (
	viewTurn = math.Pi / 10
	viewZoom = 1.1
)

// NewView returns the default framing for the configuration.
func NewView(cfg Config) View {
	w, h := float64(cfg.Width), float64(cfg.Height)
	return View{
		Width:   cfg.Width,
		Height:  cfg.Height,
		X0:      0.5 * w,
		Y0:      0.5 * h,
		Heading: -math.Pi / 2,
		Unit:    cfg.UnitRatio * w,
		PanStep: cfg.ViewStep,
	}
}

// Apply performs one view-control action.
func (v *View) Apply(kind uint8) {
	switch kind {
	case PanUp:
		v.Y0 -= v.PanStep
	case PanDown:
		v.Y0 += v.PanStep
	case PanLeft:
		v.X0 -= v.PanStep
	case PanRight:
		v.X0 += v.PanStep
	case RotateLeft:
		v.Heading -= viewTurn
	case RotateRight:
		v.Heading += viewTurn
	case ZoomOut:
		v.zoom(1 / viewZoom)
	case ZoomIn:
		v.zoom(viewZoom)
	}
}

// zoom scales the unit, keeping the canvas centre fixed.
func (v *View) zoom(f float64) {
	cx, cy := 0.5*float64(v.Width), 0.5*float64(v.Height)
	v.Unit *= f
	v.X0 = cx + (v.X0-cx)*f
	v.Y0 = cy + (v.Y0-cy)*f
}

// Origin returns the turtle as reset at the given origin.
func (v View) Origin(x, y float64) Turtle {
	return Turtle{
		X:       x,
		Y:       y,
		Heading: v.Heading,
		Step:    v.Unit,
		Angle:   math.Pi / 2,
		Scale:   2,
		PenDown: true,
	}
}

// roundLen rounds a length to hundredths of a pixel.
func roundLen(v float64) float64 {
	return math.Round(v*100) / 100
}
