package freepants

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

// recorder is a Backend remembering the drawing calls it receives.
type recorder struct {
	calls            []string
	texts            []string
	resets, finishes int
}

func (r *recorder) add(format string, args ...any) {
	r.calls = append(r.calls, fmt.Sprintf(format, args...))
}

func (r *recorder) Reset() {
	r.calls, r.texts = nil, nil
	r.resets++
}

func (r *recorder) Finish() { r.finishes++ }

func (r *recorder) Circle(c Point, radius float64, st Style, p Paint) {
	r.add("circle %v %v %d", c, radius, p)
}
func (r *recorder) Line(from, to Point, st Style)          { r.add("line %v %v", from, to) }
func (r *recorder) Arc(a Arc, st Style)                    { r.add("arc %v", a.Center) }
func (r *recorder) Curve(from, c1, c2, to Point, st Style) { r.add("curve %v %v", from, to) }
func (r *recorder) BeginPath(p Point)                      { r.add("begin %v", p) }
func (r *recorder) MoveTo(p Point)                         { r.add("move %v", p) }
func (r *recorder) LineTo(p Point)                         { r.add("lineto %v", p) }
func (r *recorder) ArcTo(a Arc)                            { r.add("arcto %v", a.Center) }
func (r *recorder) CurveTo(c1, c2, p Point)                { r.add("curveto %v", p) }
func (r *recorder) ClosePath(st Style, fill bool)          { r.add("close %v", fill) }
func (r *recorder) EndPath(st Style)                       { r.add("end") }

func (r *recorder) Text(at Point, s string, size, rotation float64, st Style) {
	r.add("text %v", at)
	r.texts = append(r.texts, s)
}

func newTestVM(t *testing.T, space *AddressSpace, cfg Config) (*VM, *recorder) {
	t.Helper()
	vm, err := NewVM(space, cfg)
	require.NoError(t, err)
	rec := &recorder{}
	vm.Attach(rec)
	return vm, rec
}

func bootstrapVM(t *testing.T) (*VM, *recorder) {
	t.Helper()
	space, err := Bootstrap()
	require.NoError(t, err)
	return newTestVM(t, space, DefaultConfig())
}
