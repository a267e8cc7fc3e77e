package shape

import (
	"fmt"

	"github.com/inamate/sketchpad/internal/geom"
	"github.com/inamate/sketchpad/internal/svg"
)

// vertices is the geometry shared by Polygon and Polyline: an anchor vertex
// followed by flat x,y pairs. A freshly created shape holds its anchor twice,
// the second copy being the point that drag moves.
type vertices struct {
	X      float64   `json:"x"`
	Y      float64   `json:"y"`
	Points []float64 `json:"points"`
}

func newVertices(x, y float64) vertices {
	return vertices{X: x, Y: y, Points: []float64{x, y}}
}

func (v *vertices) path() []geom.Point {
	pts := make([]geom.Point, 0, 1+len(v.Points)/2)
	pts = append(pts, geom.Pt(v.X, v.Y))
	for i := 0; i+1 < len(v.Points); i += 2 {
		pts = append(pts, geom.Pt(v.Points[i], v.Points[i+1]))
	}
	return pts
}

func (v *vertices) setLast(x, y float64) {
	n := len(v.Points)
	if n < 2 {
		v.Points = append(v.Points[:0], x, y)
		return
	}
	v.Points[n-2], v.Points[n-1] = x, y
}

func (v *vertices) add(x, y float64) {
	v.Points = append(v.Points, x, y)
}

func (v *vertices) translate(dx, dy float64) {
	v.X += dx
	v.Y += dy
	for i := 0; i+1 < len(v.Points); i += 2 {
		v.Points[i] += dx
		v.Points[i+1] += dy
	}
}

func (v vertices) clone() vertices {
	v.Points = append([]float64(nil), v.Points...)
	return v
}

func checkPoints(points []float64) error {
	if len(points) < 4 || len(points)%2 != 0 {
		return fmt.Errorf("%w: got %d", ErrBadPoints, len(points))
	}
	return nil
}

// checkReadPoints is the reader's looser rule: the anchor plus at least one
// more pair. Such a shape loads but is not written back.
func checkReadPoints(points []float64) error {
	if len(points) == 0 || len(points)%2 != 0 {
		return fmt.Errorf("%w: got %d", ErrBadPoints, len(points))
	}
	return nil
}

// Polygon is a closed outline.
type Polygon struct {
	base
	vertices
}

func NewPolygon(x, y float64, st Style) *Polygon {
	return &Polygon{base: base{Paint: st}, vertices: newVertices(x, y)}
}

func (p *Polygon) Kind() Kind { return KindPolygon }

func (p *Polygon) Anchor() geom.Point { return geom.Pt(p.X, p.Y) }

func (p *Polygon) Render(s Surface) {
	s.Path(p.path(), true, p.Paint)
}

func (p *Polygon) EncodeSVG(w *svg.Writer) error {
	if !w.Polygon(p.X, p.Y, p.Points, p.svgPaint()) {
		return fmt.Errorf("polygon: %w", checkPoints(p.Points))
	}
	return nil
}

func (p *Polygon) SetLastPoint(x, y float64) { p.setLast(x, y) }

func (p *Polygon) AddPoint(x, y float64) { p.add(x, y) }

func (p *Polygon) Translate(dx, dy float64) { p.translate(dx, dy) }

func (p *Polygon) TranslateTo(x, y float64) { translateTo(p, x, y) }

func (p *Polygon) Clone() Shape {
	return &Polygon{base: p.base, vertices: p.vertices.clone()}
}

// Polyline is an open chain of segments.
type Polyline struct {
	base
	vertices
}

func NewPolyline(x, y float64, st Style) *Polyline {
	return &Polyline{base: base{Paint: st}, vertices: newVertices(x, y)}
}

func (p *Polyline) Kind() Kind { return KindPolyline }

func (p *Polyline) Anchor() geom.Point { return geom.Pt(p.X, p.Y) }

func (p *Polyline) Render(s Surface) {
	s.Path(p.path(), false, p.Paint)
}

func (p *Polyline) EncodeSVG(w *svg.Writer) error {
	if !w.Polyline(p.X, p.Y, p.Points, p.svgPaint()) {
		return fmt.Errorf("polyline: %w", checkPoints(p.Points))
	}
	return nil
}

func (p *Polyline) SetLastPoint(x, y float64) { p.setLast(x, y) }

func (p *Polyline) AddPoint(x, y float64) { p.add(x, y) }

func (p *Polyline) Translate(dx, dy float64) { p.translate(dx, dy) }

func (p *Polyline) TranslateTo(x, y float64) { translateTo(p, x, y) }

func (p *Polyline) Clone() Shape {
	return &Polyline{base: p.base, vertices: p.vertices.clone()}
}
