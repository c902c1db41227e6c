package freepants

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"

	"github.com/LafeLabs/freepants/utils"
)

const (
	curveSteps = 24
	// minHalfWidth keeps hairlines visible.
	minHalfWidth = 0.5
)

type subpath struct {
	pts    []Point
	closed bool
}

// Raster draws onto an NRGBA canvas. Strokes are outlined into polygons and
// filled with the same rasterizer as the shapes themselves.
type Raster struct {
	img    *image.NRGBA
	bg     color.NRGBA
	z      *vector.Rasterizer
	colors map[string]color.NRGBA
	faces  map[float64]font.Face

	path []subpath
	cur  Point
}

// NewRaster returns a canvas of the given size cleared to the background colour.
func NewRaster(width, height int, background string) (*Raster, error) {
	bg, err := utils.ParseColor(background)
	if err != nil {
		return nil, err
	}
	r := &Raster{
		img:    image.NewNRGBA(image.Rect(0, 0, width, height)),
		bg:     bg,
		z:      vector.NewRasterizer(width, height),
		colors: make(map[string]color.NRGBA),
		faces:  make(map[float64]font.Face),
	}
	r.Reset()
	return r, nil
}

// Image returns the canvas.
func (r *Raster) Image() *image.NRGBA { return r.img }

// Reset clears the canvas to the background colour.
func (r *Raster) Reset() {
	draw.Draw(r.img, r.img.Bounds(), image.NewUniform(r.bg), image.Point{}, draw.Src)
	r.path = nil
}

func (r *Raster) color(name string) color.NRGBA {
	if c, ok := r.colors[name]; ok {
		return c
	}
	// Unknown names paint black, as a canvas keeps its previous style.
	c, err := utils.ParseColor(name)
	if err != nil {
		c = color.NRGBA{A: 0xff}
	}
	r.colors[name] = c
	return c
}

func (r *Raster) Circle(c Point, radius float64, st Style, p Paint) {
	ring := circlePoints(c, radius)
	switch p {
	case Filled:
		r.fill([]subpath{{pts: ring, closed: true}}, r.color(st.Fill))
	case Dotted:
		r.fill([]subpath{{pts: ring, closed: true}}, r.color(st.Stroke))
	}
	r.stroke([]subpath{{pts: ring, closed: true}}, st)
}

func (r *Raster) Line(from, to Point, st Style) {
	r.stroke([]subpath{{pts: []Point{from, to}}}, st)
}

func (r *Raster) Arc(a Arc, st Style) {
	r.stroke([]subpath{{pts: arcPoints(a)}}, st)
}

func (r *Raster) Curve(from, c1, c2, to Point, st Style) {
	r.stroke([]subpath{{pts: cubicPoints(from, c1, c2, to)}}, st)
}

func (r *Raster) BeginPath(p Point) {
	r.path = []subpath{{pts: []Point{p}}}
	r.cur = p
}

func (r *Raster) MoveTo(p Point) {
	if n := len(r.path); n > 0 && len(r.path[n-1].pts) == 1 {
		r.path[n-1].pts[0] = p
	} else {
		r.path = append(r.path, subpath{pts: []Point{p}})
	}
	r.cur = p
}

func (r *Raster) lineTo(pts ...Point) {
	if len(r.path) == 0 {
		r.path = []subpath{{pts: []Point{r.cur}}}
	}
	last := &r.path[len(r.path)-1]
	last.pts = append(last.pts, pts...)
	r.cur = pts[len(pts)-1]
}

func (r *Raster) LineTo(p Point) {
	r.lineTo(p)
}

func (r *Raster) ArcTo(a Arc) {
	r.lineTo(arcPoints(a)...)
}

func (r *Raster) CurveTo(c1, c2, p Point) {
	pts := cubicPoints(r.cur, c1, c2, p)
	r.lineTo(pts[1:]...)
}

func (r *Raster) ClosePath(st Style, fill bool) {
	if len(r.path) > 0 {
		r.path[len(r.path)-1].closed = true
	}
	if fill {
		r.fill(r.path, r.color(st.Fill))
	}
	r.stroke(r.path, st)
	r.path = nil
}

func (r *Raster) EndPath(st Style) {
	r.stroke(r.path, st)
	r.path = nil
}

func (r *Raster) Finish() {}

// Text draws s with its baseline starting at the anchor, turned clockwise
// around the anchor by rotation radians.
func (r *Raster) Text(at Point, s string, size, rotation float64, st Style) {
	if s == "" || size <= 0 {
		return
	}
	face, err := r.face(size)
	if err != nil {
		return
	}
	src := image.NewUniform(r.color(st.Stroke))
	if rotation == 0 {
		d := &font.Drawer{Dst: r.img, Src: src, Face: face, Dot: fixed.P(int(at.X), int(at.Y))}
		d.DrawString(s)
		return
	}

	// Draw into a square scratch canvas centred on the anchor, rotate it and
	// paste it back centred on the anchor.
	m := face.Metrics()
	reach := utils.Max(font.MeasureString(face, s).Ceil(), (m.Ascent+m.Descent).Ceil()) + 2
	tmp := image.NewNRGBA(image.Rect(0, 0, 2*reach, 2*reach))
	d := &font.Drawer{Dst: tmp, Src: src, Face: face, Dot: fixed.P(reach, reach)}
	d.DrawString(s)

	rot := imaging.Rotate(tmp, -rotation*180/math.Pi, color.Transparent)
	b := rot.Bounds()
	off := image.Pt(int(math.Round(at.X))-b.Dx()/2, int(math.Round(at.Y))-b.Dy()/2)
	draw.Draw(r.img, b.Add(off), rot, b.Min, draw.Over)
}

func (r *Raster) face(size float64) (font.Face, error) {
	size = roundLen(size)
	if f, ok := r.faces[size]; ok {
		return f, nil
	}
	f, err := newRegularFace(size)
	if err != nil {
		return nil, err
	}
	r.faces[size] = f
	return f, nil
}

// stroke outlines every subpath with quads along its segments and discs at
// its vertices, which gives round joins and caps.
func (r *Raster) stroke(paths []subpath, st Style) {
	if st.Width <= 0 || len(paths) == 0 {
		return
	}
	hw := utils.Max(st.Width/2, minHalfWidth)
	b := r.img.Bounds()
	r.z.Reset(b.Dx(), b.Dy())
	drawn := false
	for _, sp := range paths {
		pts := sp.pts
		if sp.closed && len(pts) > 2 {
			pts = append(pts[:len(pts):len(pts)], pts[0])
		}
		for i := 0; i+1 < len(pts); i++ {
			a, c := pts[i], pts[i+1]
			dx, dy := c.X-a.X, c.Y-a.Y
			l := math.Hypot(dx, dy)
			if l == 0 {
				continue
			}
			nx, ny := -dy/l*hw, dx/l*hw
			r.polygon([]Point{
				{a.X + nx, a.Y + ny},
				{c.X + nx, c.Y + ny},
				{c.X - nx, c.Y - ny},
				{a.X - nx, a.Y - ny},
			})
			drawn = true
		}
		for _, p := range pts {
			r.polygon(circlePoints(p, hw))
			drawn = true
		}
	}
	if drawn {
		r.z.Draw(r.img, b, image.NewUniform(r.color(st.Stroke)), image.Point{})
	}
}

func (r *Raster) fill(paths []subpath, c color.NRGBA) {
	b := r.img.Bounds()
	r.z.Reset(b.Dx(), b.Dy())
	drawn := false
	for _, sp := range paths {
		if len(sp.pts) < 3 {
			continue
		}
		r.polygon(sp.pts)
		drawn = true
	}
	if drawn {
		r.z.Draw(r.img, b, image.NewUniform(c), image.Point{})
	}
}

// polygon adds a closed polygon to the rasterizer with a fixed winding, so
// overlapping outlines add up instead of cancelling out.
func (r *Raster) polygon(pts []Point) {
	if len(pts) < 3 {
		return
	}
	area := 0.0
	for i := range pts {
		j := (i + 1) % len(pts)
		area += pts[i].X*pts[j].Y - pts[j].X*pts[i].Y
	}
	if area > 0 {
		rev := make([]Point, len(pts))
		for i, p := range pts {
			rev[len(pts)-1-i] = p
		}
		pts = rev
	}
	r.z.MoveTo(float32(pts[0].X), float32(pts[0].Y))
	for _, p := range pts[1:] {
		r.z.LineTo(float32(p.X), float32(p.Y))
	}
	r.z.ClosePath()
}

func circlePoints(c Point, radius float64) []Point {
	return arcPoints(Arc{Center: c, Radius: radius, Start: 0, End: 2 * math.Pi})[1:]
}

// arcPoints flattens the arc in drawing order.
func arcPoints(a Arc) []Point {
	sweep := a.Sweep()
	n := int(math.Ceil(sweep * math.Max(a.Radius, 1) / 2))
	n = utils.Clamp(n, 8, 360)
	from, dir := a.Start, 1.0
	if a.Reverse {
		from, dir = a.End, -1.0
	}
	pts := make([]Point, n+1)
	for i := 0; i <= n; i++ {
		pts[i] = a.At(from + dir*sweep*float64(i)/float64(n))
	}
	return pts
}

func cubicPoints(p0, p1, p2, p3 Point) []Point {
	pts := make([]Point, curveSteps+1)
	for i := 0; i <= curveSteps; i++ {
		t := float64(i) / curveSteps
		u := 1 - t
		a, b, c, d := u*u*u, 3*u*u*t, 3*u*t*t, t*t*t
		pts[i] = Point{
			X: a*p0.X + b*p1.X + c*p2.X + d*p3.X,
			Y: a*p0.Y + b*p1.Y + c*p2.Y + d*p3.Y,
		}
	}
	return pts
}
