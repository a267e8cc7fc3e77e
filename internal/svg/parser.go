package svg

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Element is one recognized child of the root <svg>.
type Element interface {
	Tag() string
	Attributes() Paint
}

type Circle struct {
	Paint
	CX, CY, R float64
}

type Ellipse struct {
	Paint
	CX, CY, RX, RY float64
}

type Line struct {
	Paint
	X1, Y1, X2, Y2 float64
}

// Arc is a <path> reduced to its single move and arc command.
type Arc struct {
	Paint
	MX, MY   float64
	RX, RY   float64
	Rotation float64
	LargeArc bool
	Sweep    bool
	X, Y     float64
}

// Polygon holds the first vertex in X, Y and the remaining ones as flat pairs in Points.
type Polygon struct {
	Paint
	X, Y   float64
	Points []float64
}

type Polyline struct {
	Paint
	X, Y   float64
	Points []float64
}

type Rect struct {
	Paint
	X, Y, Width, Height float64
}

type Text struct {
	Paint
	X, Y float64
	Text string
}

func (Circle) Tag() string { return TagCircle }
func (Ellipse) Tag() string { return TagEllipse }
func (Line) Tag() string { return TagLine }
func (Arc) Tag() string { return TagPath }
func (Polygon) Tag() string { return TagPolygon }
func (Polyline) Tag() string { return TagPolyline }
func (Rect) Tag() string { return TagRect }
func (Text) Tag() string { return TagText }

// Document describes the outcome of a parse.
type Document struct {
	Width, Height float64
	HasSize       bool

	// Elements counts the recognized elements delivered to the callback.
	Elements int
	// Skipped lists recognized elements that could not be decoded.
	Skipped []error
}

type rawElement struct {
	XMLName xml.Name
	Attrs   []xml.Attr `xml:",any,attr"`
	Text    string     `xml:",chardata"`
}

type attrs []xml.Attr

func (a attrs) get(name string) (string, bool) {
	for _, at := range a {
		if at.Name.Local == name && at.Name.Space == "" {
			return at.Value, true
		}
	}
	return "", false
}

func (a attrs) number(name string) (float64, error) {
	s, ok := a.get(name)
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrMissingAttr, name)
	}
	v, err := parseNumber(s)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", name, err)
	}
	return v, nil
}

func (a attrs) optNumber(name string, def float64) (float64, error) {
	if _, ok := a.get(name); !ok {
		return def, nil
	}
	return a.number(name)
}

func (a attrs) numbers(names ...string) ([]float64, error) {
	out := make([]float64, len(names))
	for i, name := range names {
		v, err := a.number(name)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// Parse streams the direct children of the root <svg> element to fn, in
// document order. Unknown elements and anything nested below the first level
// are ignored. A recognized element with missing or malformed attributes is
// skipped and recorded in Document.Skipped; only a non-svg root or broken XML
// fails the whole parse.
func Parse(r io.Reader, fn func(Element)) (*Document, error) {
	dec := xml.NewDecoder(r)

	doc, err := readRoot(dec)
	if err != nil {
		return nil, err
	}

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("decode svg: %w", io.ErrUnexpectedEOF)
		}
		if err != nil {
			return nil, fmt.Errorf("decode svg: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			var raw rawElement
			if err := dec.DecodeElement(&raw, &t); err != nil {
				return nil, fmt.Errorf("decode <%s>: %w", t.Name.Local, err)
			}
			el, known, err := decodeElement(raw)
			if !known {
				continue
			}
			if err != nil {
				doc.Skipped = append(doc.Skipped, fmt.Errorf("<%s> #%d: %w", raw.XMLName.Local, doc.Elements+len(doc.Skipped), err))
				continue
			}
			doc.Elements++
			fn(el)
		case xml.EndElement:
			return doc, nil
		}
	}
}

func readRoot(dec *xml.Decoder) (*Document, error) {
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty document", ErrNotSVG)
		}
		if err != nil {
			return nil, fmt.Errorf("decode svg: %w", err)
		}

		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		if start.Name.Local != "svg" {
			return nil, fmt.Errorf("%w: <%s>", ErrNotSVG, start.Name.Local)
		}

		doc := &Document{}
		a := attrs(start.Attr)
		w, errW := a.number("width")
		h, errH := a.number("height")
		if errW == nil && errH == nil {
			doc.Width, doc.Height, doc.HasSize = w, h, true
		}
		return doc, nil
	}
}

func decodeElement(raw rawElement) (Element, bool, error) {
	a := attrs(raw.Attrs)

	var (
		el  Element
		err error
	)
	switch raw.XMLName.Local {
	case TagCircle:
		el, err = decodeCircle(a)
	case TagEllipse:
		el, err = decodeEllipse(a)
	case TagLine:
		el, err = decodeLine(a)
	case TagPath:
		el, err = decodeArc(a)
	case TagPolygon:
		var pl Polyline
		pl, err = decodePoly(a)
		el = Polygon(pl)
	case TagPolyline:
		el, err = decodePoly(a)
	case TagRect:
		el, err = decodeRect(a)
	case TagText:
		el, err = decodeText(a, raw.Text)
	default:
		return nil, false, nil
	}
	if err != nil {
		return nil, true, err
	}
	return el, true, nil
}

func decodePaint(a attrs) (Paint, error) {
	p := DefaultPaint

	if s, ok := a.get("stroke"); ok && s != "none" {
		rgb, err := parseColor(s)
		if err != nil {
			return p, fmt.Errorf("stroke: %w", err)
		}
		p.Stroke = p.Stroke&0xff000000 | rgb
	}
	op, err := a.optNumber("stroke-opacity", 1)
	if err != nil {
		return p, err
	}
	p.Stroke = alpha(op)<<24 | p.Stroke&0xffffff

	if p.StrokeWidth, err = a.optNumber("stroke-width", DefaultPaint.StrokeWidth); err != nil {
		return p, err
	}
	p.StrokeWidth = max(p.StrokeWidth, 0)

	if s, ok := a.get("fill"); ok && strings.HasPrefix(strings.TrimSpace(s), "#") {
		rgb, err := parseColor(s)
		if err != nil {
			return p, fmt.Errorf("fill: %w", err)
		}
		op, err := a.optNumber("fill-opacity", 1)
		if err != nil {
			return p, err
		}
		p.Fill = true
		p.FillColor = alpha(op)<<24 | rgb
	}

	if p.FontSize, err = a.optNumber("font-size", DefaultPaint.FontSize); err != nil {
		return p, err
	}
	p.FontSize = max(p.FontSize, 0)
	p.ID, _ = a.get(AttrID)
	return p, nil
}

func decodeCircle(a attrs) (Circle, error) {
	v, err := a.numbers("cx", "cy", "r")
	if err != nil {
		return Circle{}, err
	}
	p, err := decodePaint(a)
	if err != nil {
		return Circle{}, err
	}
	return Circle{Paint: p, CX: v[0], CY: v[1], R: max(v[2], 0)}, nil
}

func decodeEllipse(a attrs) (Ellipse, error) {
	v, err := a.numbers("cx", "cy", "rx", "ry")
	if err != nil {
		return Ellipse{}, err
	}
	p, err := decodePaint(a)
	if err != nil {
		return Ellipse{}, err
	}
	return Ellipse{Paint: p, CX: v[0], CY: v[1], RX: max(v[2], 0), RY: max(v[3], 0)}, nil
}

func decodeLine(a attrs) (Line, error) {
	v, err := a.numbers("x1", "y1", "x2", "y2")
	if err != nil {
		return Line{}, err
	}
	p, err := decodePaint(a)
	if err != nil {
		return Line{}, err
	}
	return Line{Paint: p, X1: v[0], Y1: v[1], X2: v[2], Y2: v[3]}, nil
}

func decodeArc(a attrs) (Arc, error) {
	d, ok := a.get("d")
	if !ok {
		return Arc{}, fmt.Errorf("%w: d", ErrMissingAttr)
	}
	arc, err := parseArcPath(d)
	if err != nil {
		return Arc{}, err
	}
	if arc.Paint, err = decodePaint(a); err != nil {
		return Arc{}, err
	}
	return arc, nil
}

func decodePoly(a attrs) (Polyline, error) {
	s, ok := a.get("points")
	if !ok {
		return Polyline{}, fmt.Errorf("%w: points", ErrMissingAttr)
	}
	pts, err := parsePoints(s)
	if err != nil {
		return Polyline{}, err
	}
	p, err := decodePaint(a)
	if err != nil {
		return Polyline{}, err
	}
	return Polyline{Paint: p, X: pts[0], Y: pts[1], Points: pts[2:]}, nil
}

func decodeRect(a attrs) (Rect, error) {
	v, err := a.numbers("x", "y", "width", "height")
	if err != nil {
		return Rect{}, err
	}
	p, err := decodePaint(a)
	if err != nil {
		return Rect{}, err
	}
	return Rect{Paint: p, X: v[0], Y: v[1], Width: v[2], Height: v[3]}, nil
}

func decodeText(a attrs, text string) (Text, error) {
	v, err := a.numbers("x", "y", "font-size")
	if err != nil {
		return Text{}, err
	}
	p, err := decodePaint(a)
	if err != nil {
		return Text{}, err
	}
	return Text{Paint: p, X: v[0], Y: v[1], Text: text}, nil
}
