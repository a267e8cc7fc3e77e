package shape

import (
	"math"

	"github.com/inamate/sketchpad/internal/geom"
	"github.com/inamate/sketchpad/internal/svg"
)

// Rect keeps the two corners as placed; they are normalized only when read.
type Rect struct {
	base
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
	X2 float64 `json:"x2"`
	Y2 float64 `json:"y2"`
}

func NewRect(x, y float64, st Style) *Rect {
	return &Rect{base: base{Paint: st}, X1: x, Y1: y, X2: x, Y2: y}
}

func (r *Rect) Kind() Kind { return KindRect }

func (r *Rect) Anchor() geom.Point { return geom.Pt(r.X1, r.Y1) }

// Bounds returns the normalized box.
func (r *Rect) Bounds() geom.Rect {
	return geom.RectFromCorners(r.X1, r.Y1, r.X2, r.Y2)
}

func (r *Rect) Render(s Surface) {
	s.Rect(r.X1, r.Y1, r.X2, r.Y2, r.Paint)
}

func (r *Rect) EncodeSVG(w *svg.Writer) error {
	w.Rect(math.Min(r.X1, r.X2), math.Min(r.Y1, r.Y2), math.Abs(r.X2-r.X1), math.Abs(r.Y2-r.Y1), r.svgPaint())
	return nil
}

func (r *Rect) SetLastPoint(x, y float64) {
	r.X2, r.Y2 = x, y
}

func (r *Rect) Translate(dx, dy float64) {
	r.X1 += dx
	r.Y1 += dy
	r.X2 += dx
	r.Y2 += dy
}

func (r *Rect) TranslateTo(x, y float64) { translateTo(r, x, y) }

func (r *Rect) Clone() Shape {
	c := *r
	return &c
}
