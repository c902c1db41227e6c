package freepants

import (
	"image/color"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LafeLabs/freepants/utils"
)

func newTestRaster(t *testing.T) *Raster {
	t.Helper()
	r, err := NewRaster(100, 100, "white")
	require.NoError(t, err)
	return r
}

var white = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}

// near reports whether two colours differ by at most a rounding step per channel.
func near(a, b color.NRGBA) bool {
	d := func(x, y uint8) bool { return utils.Abs(int(x)-int(y)) <= 2 }
	return d(a.R, b.R) && d(a.G, b.G) && d(a.B, b.B) && d(a.A, b.A)
}

func TestRaster_Background(t *testing.T) {
	assert := assert.New(t)

	r := newTestRaster(t)
	assert.Equal(white, r.Image().NRGBAAt(0, 0))
	assert.Equal(white, r.Image().NRGBAAt(99, 99))

	r, err := NewRaster(10, 10, "none")
	require.NoError(t, err)
	assert.Equal(uint8(0), r.Image().NRGBAAt(5, 5).A)

	_, err = NewRaster(10, 10, "#zz")
	assert.Error(err)
}

func TestRaster_Shapes(t *testing.T) {
	assert := assert.New(t)
	r := newTestRaster(t)
	st := Style{Stroke: "red", Fill: "blue", Width: 2}

	r.Circle(Point{50, 50}, 20, st, Filled)
	assert.True(near(color.NRGBA{B: 0xff, A: 0xff}, r.Image().NRGBAAt(50, 50)))
	assert.True(near(color.NRGBA{R: 0xff, A: 0xff}, r.Image().NRGBAAt(69, 50)))
	assert.Equal(white, r.Image().NRGBAAt(5, 5))

	r.Reset()
	r.Circle(Point{50, 50}, 20, st, Outline)
	assert.Equal(white, r.Image().NRGBAAt(50, 50))
	assert.True(near(color.NRGBA{R: 0xff, A: 0xff}, r.Image().NRGBAAt(30, 50)))

	r.Reset()
	r.Line(Point{10, 20}, Point{90, 20}, st)
	assert.True(near(color.NRGBA{R: 0xff, A: 0xff}, r.Image().NRGBAAt(50, 20)))
	assert.Equal(white, r.Image().NRGBAAt(50, 30))
}

func TestRaster_Paths(t *testing.T) {
	assert := assert.New(t)
	r := newTestRaster(t)
	st := Style{Stroke: "black", Fill: "green", Width: 1}

	r.BeginPath(Point{20, 20})
	r.LineTo(Point{80, 20})
	r.LineTo(Point{80, 80})
	r.LineTo(Point{20, 80})
	r.ClosePath(st, true)
	green := r.Image().NRGBAAt(50, 50)
	assert.True(near(color.NRGBA{G: 0x80, A: 0xff}, green))

	// An open path is only stroked.
	r.Reset()
	r.BeginPath(Point{20, 20})
	r.LineTo(Point{80, 20})
	r.LineTo(Point{80, 80})
	r.EndPath(st)
	assert.Equal(white, r.Image().NRGBAAt(60, 40))
	assert.NotEqual(white, r.Image().NRGBAAt(50, 20))
}

func TestRaster_ArcsAndCurves(t *testing.T) {
	r := newTestRaster(t)
	st := Style{Stroke: "black", Fill: "black", Width: 3}

	r.Arc(Arc{Center: Point{50, 50}, Radius: 30, Start: -math.Pi, End: 0}, st)
	assert.NotEqual(t, white, r.Image().NRGBAAt(50, 20))
	assert.Equal(t, white, r.Image().NRGBAAt(50, 80))

	r.Reset()
	r.Curve(Point{10, 90}, Point{10, 10}, Point{90, 10}, Point{90, 90}, st)
	assert.NotEqual(t, white, r.Image().NRGBAAt(10, 90))
	assert.Equal(t, white, r.Image().NRGBAAt(50, 70))
}

func TestRaster_Text(t *testing.T) {
	assert := assert.New(t)
	r := newTestRaster(t)
	st := Style{Stroke: "black", Width: 1}

	inked := func() int {
		n := 0
		b := r.Image().Bounds()
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				if r.Image().NRGBAAt(x, y) != white {
					n++
				}
			}
		}
		return n
	}

	r.Text(Point{10, 60}, "Hello", 24, 0, st)
	assert.Greater(inked(), 0)

	r.Reset()
	r.Text(Point{50, 50}, "Hello", 24, math.Pi/2, st)
	assert.Greater(inked(), 0)

	r.Reset()
	r.Text(Point{50, 50}, "", 24, 0, st)
	assert.Equal(0, inked())
}
