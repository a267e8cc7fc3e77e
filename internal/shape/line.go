package shape

import (
	"github.com/inamate/sketchpad/internal/geom"
	"github.com/inamate/sketchpad/internal/svg"
)

type Line struct {
	base
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
	X2 float64 `json:"x2"`
	Y2 float64 `json:"y2"`
}

// NewLine starts a zero-length line at (x, y).
func NewLine(x, y float64, st Style) *Line {
	return &Line{base: base{Paint: st}, X1: x, Y1: y, X2: x, Y2: y}
}

func (l *Line) Kind() Kind { return KindLine }

func (l *Line) Anchor() geom.Point { return geom.Pt(l.X1, l.Y1) }

func (l *Line) Render(s Surface) {
	s.Line(l.X1, l.Y1, l.X2, l.Y2, l.Paint)
}

func (l *Line) EncodeSVG(w *svg.Writer) error {
	w.Line(l.X1, l.Y1, l.X2, l.Y2, l.svgPaint())
	return nil
}

func (l *Line) SetLastPoint(x, y float64) {
	l.X2, l.Y2 = x, y
}

func (l *Line) Translate(dx, dy float64) {
	l.X1 += dx
	l.Y1 += dy
	l.X2 += dx
	l.Y2 += dy
}

// TranslateTo moves the start point to (x, y).
func (l *Line) TranslateTo(x, y float64) {
	l.Translate(x-l.X1, y-l.Y1)
}

func (l *Line) Clone() Shape {
	c := *l
	return &c
}
