// Package shape implements the drawable primitives of a sketch.
//
// Every variant owns its geometry and a Style value. Shapes draw themselves
// onto a Surface and encode themselves into an svg.Writer; FromElement goes
// the other way.
package shape

import (
	"errors"
	"fmt"

	"github.com/inamate/sketchpad/internal/geom"
	"github.com/inamate/sketchpad/internal/svg"
)

var (
	ErrUnknownKind    = errors.New("unknown shape kind")
	ErrBadPoints      = errors.New("point list needs an even count of at least four values")
	ErrUnsupportedArc = errors.New("only unrotated circular arcs are supported")
	ErrImpossibleArc  = errors.New("arc radius is smaller than half the chord")
)

type Kind string

const (
	KindLine     Kind = "line"
	KindRect     Kind = "rect"
	KindCircle   Kind = "circle"
	KindEllipse  Kind = "ellipse"
	KindArc      Kind = "arc"
	KindPolygon  Kind = "polygon"
	KindPolyline Kind = "polyline"
	KindText     Kind = "text"
)

// Surface receives draw calls. Angles are in degrees, clockwise on screen;
// a negative sweep runs counterclockwise. Boxes are given as two corners in
// any order.
type Surface interface {
	Line(x1, y1, x2, y2 float64, st Style)
	Rect(x1, y1, x2, y2 float64, st Style)
	Oval(x1, y1, x2, y2 float64, st Style)
	Arc(x1, y1, x2, y2, startAngle, sweepAngle float64, st Style)
	Path(points []geom.Point, closed bool, st Style)
	Text(s string, x, y float64, st Style)
}

// Shape is implemented by the eight variants of this package.
type Shape interface {
	Kind() Kind
	// Anchor is the point TranslateTo moves to the requested position.
	Anchor() geom.Point
	Style() Style
	Render(s Surface)
	EncodeSVG(w *svg.Writer) error
	// SetLastPoint moves the most recently placed point (drag preview).
	SetLastPoint(x, y float64)
	// AddPoint extends multi-click shapes; the others ignore it.
	AddPoint(x, y float64)
	Translate(dx, dy float64)
	TranslateTo(x, y float64)
	Clone() Shape
	SetAttributeID(id string)
	AttributeID() string
	// SetPayload replaces variant specific data. Only Text accepts one (a string).
	SetPayload(data any)
}

// base holds what every variant carries.
type base struct {
	Paint Style  `json:"style"`
	ID    string `json:"id,omitempty"`
}

func (b *base) Style() Style { return b.Paint }
func (b *base) SetAttributeID(id string) { b.ID = id }
func (b *base) AttributeID() string { return b.ID }
func (b *base) AddPoint(x, y float64) {}
func (b *base) SetPayload(data any) {}
func (b *base) svgPaint() svg.Paint { return b.Paint.paint(b.ID) }

// translateTo moves s so that its anchor lands on (x, y).
func translateTo(s Shape, x, y float64) {
	a := s.Anchor()
	s.Translate(x-a.X, y-a.Y)
}

// New creates a shape of the given kind from a first click at (x, y).
func New(kind Kind, x, y float64, st Style) (Shape, error) {
	switch kind {
	case KindLine:
		return NewLine(x, y, st), nil
	case KindRect:
		return NewRect(x, y, st), nil
	case KindCircle:
		return NewCircle(x, y, st), nil
	case KindEllipse:
		return NewEllipse(x, y, st), nil
	case KindArc:
		return NewArc(x, y, st), nil
	case KindPolygon:
		return NewPolygon(x, y, st), nil
	case KindPolyline:
		return NewPolyline(x, y, st), nil
	case KindText:
		return NewText(x, y, st), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
}
