package shape

import (
	"fmt"

	"github.com/inamate/sketchpad/internal/svg"
)

// FromElement rebuilds a shape from a parsed SVG element. Elements that do
// not describe a drawable shape (impossible or rotated arcs, short point
// lists) return an error and no shape.
func FromElement(el svg.Element) (Shape, error) {
	p := el.Attributes()
	st := StyleFromPaint(p)

	var s Shape
	switch e := el.(type) {
	case svg.Circle:
		s = &Circle{base: base{Paint: st}, X: e.CX, Y: e.CY, R: e.R}
	case svg.Ellipse:
		s = &Ellipse{base: base{Paint: st}, CX: e.CX, CY: e.CY, RX: e.RX, RY: e.RY}
	case svg.Line:
		s = &Line{base: base{Paint: st}, X1: e.X1, Y1: e.Y1, X2: e.X2, Y2: e.Y2}
	case svg.Arc:
		a, err := ArcFromSVG(e.MX, e.MY, e.RX, e.RY, e.Rotation, e.LargeArc, e.Sweep, e.X, e.Y, st)
		if err != nil {
			return nil, err
		}
		s = a
	case svg.Polygon:
		if err := checkReadPoints(e.Points); err != nil {
			return nil, fmt.Errorf("polygon: %w", err)
		}
		s = &Polygon{base: base{Paint: st}, vertices: vertices{X: e.X, Y: e.Y, Points: e.Points}}
	case svg.Polyline:
		if err := checkReadPoints(e.Points); err != nil {
			return nil, fmt.Errorf("polyline: %w", err)
		}
		s = &Polyline{base: base{Paint: st}, vertices: vertices{X: e.X, Y: e.Y, Points: e.Points}}
	case svg.Rect:
		s = &Rect{base: base{Paint: st}, X1: e.X, Y1: e.Y, X2: e.X + e.Width, Y2: e.Y + e.Height}
	case svg.Text:
		s = &Text{base: base{Paint: st}, X: e.X, Y: e.Y, Text: e.Text}
	default:
		return nil, fmt.Errorf("%w: <%s>", ErrUnknownKind, el.Tag())
	}

	s.SetAttributeID(p.ID)
	return s, nil
}
