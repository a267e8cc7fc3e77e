package shape

import (
	"math"

	"github.com/inamate/sketchpad/internal/geom"
	"github.com/inamate/sketchpad/internal/svg"
)

type Circle struct {
	base
	X float64 `json:"x"`
	Y float64 `json:"y"`
	R float64 `json:"r"`
}

// NewCircle centers a unit circle on (x, y); dragging sets the radius.
func NewCircle(x, y float64, st Style) *Circle {
	return &Circle{base: base{Paint: st}, X: x, Y: y, R: 1}
}

func (c *Circle) Kind() Kind { return KindCircle }

func (c *Circle) Anchor() geom.Point { return geom.Pt(c.X, c.Y) }

func (c *Circle) Render(s Surface) {
	s.Oval(c.X-c.R, c.Y-c.R, c.X+c.R, c.Y+c.R, c.Paint)
}

func (c *Circle) EncodeSVG(w *svg.Writer) error {
	w.Circle(c.X, c.Y, c.R, c.svgPaint())
	return nil
}

func (c *Circle) SetLastPoint(x, y float64) {
	c.R = math.Hypot(x-c.X, y-c.Y)
}

func (c *Circle) Translate(dx, dy float64) {
	c.X += dx
	c.Y += dy
}

func (c *Circle) TranslateTo(x, y float64) { translateTo(c, x, y) }

func (c *Circle) Clone() Shape {
	cp := *c
	return &cp
}

type Ellipse struct {
	base
	CX float64 `json:"cx"`
	CY float64 `json:"cy"`
	RX float64 `json:"rx"`
	RY float64 `json:"ry"`
}

func NewEllipse(x, y float64, st Style) *Ellipse {
	return &Ellipse{base: base{Paint: st}, CX: x, CY: y, RX: 1, RY: 1}
}

func (e *Ellipse) Kind() Kind { return KindEllipse }

func (e *Ellipse) Anchor() geom.Point { return geom.Pt(e.CX, e.CY) }

func (e *Ellipse) Render(s Surface) {
	s.Oval(e.CX-e.RX, e.CY-e.RY, e.CX+e.RX, e.CY+e.RY, e.Paint)
}

func (e *Ellipse) EncodeSVG(w *svg.Writer) error {
	w.Ellipse(e.CX, e.CY, e.RX, e.RY, e.svgPaint())
	return nil
}

// SetLastPoint makes (x, y) a corner of the ellipse's bounding box.
func (e *Ellipse) SetLastPoint(x, y float64) {
	e.RX = math.Abs(e.CX - x)
	e.RY = math.Abs(e.CY - y)
}

func (e *Ellipse) Translate(dx, dy float64) {
	e.CX += dx
	e.CY += dy
}

func (e *Ellipse) TranslateTo(x, y float64) { translateTo(e, x, y) }

func (e *Ellipse) Clone() Shape {
	c := *e
	return &c
}
