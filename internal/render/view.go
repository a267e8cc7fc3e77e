package render

import (
	"math"

	"github.com/inamate/sketchpad/internal/geom"
)

// View maps canvas coordinates to screen coordinates. It is a 2D affine
// matrix laid out as [a, b, c, d, e, f]:
//
//	| a  c  e |
//	| b  d  f |
//	| 0  0  1 |
type View [6]float64

// Identity is the view that draws the canvas unscaled at the origin.
func Identity() View {
	return View{1, 0, 0, 1, 0, 0}
}

// Pan returns a view translated by (tx, ty).
func Pan(tx, ty float64) View {
	return View{1, 0, 0, 1, tx, ty}
}

// Zoom returns a view scaled uniformly by s around the origin.
func Zoom(s float64) View {
	return View{s, 0, 0, s, 0, 0}
}

// Then returns the view that applies v first and next afterwards.
func (v View) Then(next View) View {
	return View{
		next[0]*v[0] + next[2]*v[1],
		next[1]*v[0] + next[3]*v[1],
		next[0]*v[2] + next[2]*v[3],
		next[1]*v[2] + next[3]*v[3],
		next[0]*v[4] + next[2]*v[5] + next[4],
		next[1]*v[4] + next[3]*v[5] + next[5],
	}
}

// Apply maps a canvas point to the screen.
func (v View) Apply(x, y float64) (float64, float64) {
	return v[0]*x + v[2]*y + v[4], v[1]*x + v[3]*y + v[5]
}

// ApplyRect maps a canvas rect and returns the screen rect enclosing it.
func (v View) ApplyRect(r geom.Rect) geom.Rect {
	x0, y0 := v.Apply(r.X, r.Y)
	x1, y1 := v.Apply(r.X+r.Width, r.Y)
	x2, y2 := v.Apply(r.X+r.Width, r.Y+r.Height)
	x3, y3 := v.Apply(r.X, r.Y+r.Height)

	minX, minY := min(x0, x1, x2, x3), min(y0, y1, y2, y3)
	return geom.Rect{
		X:      minX,
		Y:      minY,
		Width:  max(x0, x1, x2, x3) - minX,
		Height: max(y0, y1, y2, y3) - minY,
	}
}

// Invert returns the view mapping screen points back to the canvas, or
// Identity when v is singular.
func (v View) Invert() View {
	det := v[0]*v[3] - v[1]*v[2]
	if det == 0 {
		return Identity()
	}

	inv := 1.0 / det
	return View{
		v[3] * inv,
		-v[1] * inv,
		-v[2] * inv,
		v[0] * inv,
		(v[2]*v[5] - v[3]*v[4]) * inv,
		(v[1]*v[4] - v[0]*v[5]) * inv,
	}
}

// IsIdentity checks if this is the identity view (within epsilon).
func (v View) IsIdentity() bool {
	const eps = 1e-10
	id := Identity()
	for i := range v {
		if math.Abs(v[i]-id[i]) >= eps {
			return false
		}
	}
	return true
}

// Slice returns the matrix for JSON output, or nil for the identity.
func (v View) Slice() []float64 {
	if v.IsIdentity() {
		return nil
	}
	return []float64{v[0], v[1], v[2], v[3], v[4], v[5]}
}
