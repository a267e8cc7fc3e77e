package svg

import (
	"encoding/xml"
	"fmt"
	"io"
)

type node struct {
	name  string
	attrs []xml.Attr
	text  *string
}

func (n *node) set(name, value string) {
	n.attrs = append(n.attrs, xml.Attr{Name: xml.Name{Local: name}, Value: value})
}

func (n *node) setNumber(name string, v float64) {
	n.set(name, formatNumber(v))
}

// Writer collects elements in document order and encodes them on WriteTo.
// Elements are emitted in the order they were added.
type Writer struct {
	width, height float64
	sized         bool
	nodes         []*node
}

// NewWriter creates an empty document without explicit size.
func NewWriter() *Writer {
	return &Writer{}
}

// SetSize records the document width and height. Negative values leave the size unset.
func (w *Writer) SetSize(width, height float64) {
	if width < 0 || height < 0 {
		w.sized = false
		return
	}
	w.width, w.height, w.sized = width, height, true
}

// Len returns the number of elements added so far.
func (w *Writer) Len() int {
	return len(w.nodes)
}

func (w *Writer) add(name string) *node {
	n := &node{name: name}
	w.nodes = append(w.nodes, n)
	return n
}

func (w *Writer) stroke(n *node, p Paint) {
	n.set("stroke", colorCode(p.Stroke))
	n.set("stroke-opacity", opacity(p.Stroke))
	n.setNumber("stroke-width", p.StrokeWidth)
}

func (w *Writer) fill(n *node, p Paint) {
	if !p.Fill {
		n.set("fill", "none")
		return
	}
	n.set("fill", colorCode(p.FillColor))
	n.set("fill-opacity", opacity(p.FillColor))
}

func (w *Writer) finish(n *node, p Paint) {
	if p.ID != "" {
		n.set(AttrID, p.ID)
	}
}

// Circle adds a <circle>.
func (w *Writer) Circle(cx, cy, r float64, p Paint) {
	n := w.add(TagCircle)
	n.setNumber("cx", cx)
	n.setNumber("cy", cy)
	n.setNumber("r", r)
	w.stroke(n, p)
	w.fill(n, p)
	w.finish(n, p)
}

// Ellipse adds an <ellipse>.
func (w *Writer) Ellipse(cx, cy, rx, ry float64, p Paint) {
	n := w.add(TagEllipse)
	n.setNumber("cx", cx)
	n.setNumber("cy", cy)
	n.setNumber("rx", rx)
	n.setNumber("ry", ry)
	w.stroke(n, p)
	w.fill(n, p)
	w.finish(n, p)
}

// Line adds a <line>. Lines are never filled.
func (w *Writer) Line(x1, y1, x2, y2 float64, p Paint) {
	n := w.add(TagLine)
	n.setNumber("x1", x1)
	n.setNumber("y1", y1)
	n.setNumber("x2", x2)
	n.setNumber("y2", y2)
	w.stroke(n, p)
	p.Fill = false
	w.fill(n, p)
	w.finish(n, p)
}

// Arc adds a <path> holding one elliptical-arc command from (mx, my) to (x, y).
func (w *Writer) Arc(mx, my, rx, ry, rotation float64, largeArc, sweep bool, x, y float64, p Paint) {
	n := w.add(TagPath)
	d := fmt.Sprintf("M%s,%s A%s,%s %s %s,%s %s,%s",
		formatNumber(mx), formatNumber(my),
		formatNumber(rx), formatNumber(ry),
		formatNumber(rotation),
		formatFlag(largeArc), formatFlag(sweep),
		formatNumber(x), formatNumber(y))
	n.set("d", d)
	w.stroke(n, p)
	w.fill(n, p)
	w.finish(n, p)
}

// Polygon adds a <polygon> starting at (x, y) followed by the x,y pairs in points.
// It reports false and adds nothing when points holds fewer than two pairs or
// an odd number of values.
func (w *Writer) Polygon(x, y float64, points []float64, p Paint) bool {
	return w.poly(TagPolygon, x, y, points, p)
}

// Polyline is Polygon without the implicit closing segment.
func (w *Writer) Polyline(x, y float64, points []float64, p Paint) bool {
	return w.poly(TagPolyline, x, y, points, p)
}

func (w *Writer) poly(name string, x, y float64, points []float64, p Paint) bool {
	if len(points) < 4 || len(points)%2 != 0 {
		return false
	}

	buf := make([]byte, 0, 16*(len(points)+2))
	buf = append(buf, formatNumber(x)...)
	buf = append(buf, ',')
	buf = append(buf, formatNumber(y)...)
	for i := 0; i < len(points); i += 2 {
		buf = append(buf, ' ')
		buf = append(buf, formatNumber(points[i])...)
		buf = append(buf, ',')
		buf = append(buf, formatNumber(points[i+1])...)
	}

	n := w.add(name)
	n.set("points", string(buf))
	w.stroke(n, p)
	w.fill(n, p)
	w.finish(n, p)
	return true
}

// Rect adds a <rect>.
func (w *Writer) Rect(x, y, width, height float64, p Paint) {
	n := w.add(TagRect)
	n.setNumber("x", x)
	n.setNumber("y", y)
	n.setNumber("width", width)
	n.setNumber("height", height)
	w.stroke(n, p)
	w.fill(n, p)
	w.finish(n, p)
}

// Text adds a <text> whose fill is the fill color for filled paint and the
// stroke color otherwise. Runs of spaces are preserved.
func (w *Writer) Text(x, y float64, s string, p Paint) {
	n := w.add(TagText)
	n.setNumber("x", x)
	n.setNumber("y", y)
	w.stroke(n, p)
	if !p.Fill {
		p.Fill, p.FillColor = true, p.Stroke
	}
	w.fill(n, p)
	n.setNumber("font-size", p.FontSize)
	n.attrs = append(n.attrs, xml.Attr{Name: xml.Name{Local: "xml:space"}, Value: "preserve"})
	w.finish(n, p)
	n.text = &s
}

// WriteTo encodes the document as indented XML.
func (w *Writer) WriteTo(out io.Writer) (int64, error) {
	cw := &countingWriter{w: out}
	enc := xml.NewEncoder(cw)
	enc.Indent("", "  ")

	if err := enc.EncodeToken(xml.ProcInst{Target: "xml", Inst: []byte(`version="1.0" encoding="UTF-8"`)}); err != nil {
		return cw.n, fmt.Errorf("encode header: %w", err)
	}

	root := xml.StartElement{
		Name: xml.Name{Local: "svg"},
		Attr: []xml.Attr{
			{Name: xml.Name{Local: "xmlns"}, Value: nsSVG},
			{Name: xml.Name{Local: "version"}, Value: "1.1"},
			{Name: xml.Name{Local: "xmlns:xlink"}, Value: nsXLink},
		},
	}
	if w.sized {
		root.Attr = append(root.Attr,
			xml.Attr{Name: xml.Name{Local: "width"}, Value: formatNumber(w.width)},
			xml.Attr{Name: xml.Name{Local: "height"}, Value: formatNumber(w.height)},
		)
	}
	if err := enc.EncodeToken(root); err != nil {
		return cw.n, fmt.Errorf("encode svg: %w", err)
	}

	for _, n := range w.nodes {
		start := xml.StartElement{Name: xml.Name{Local: n.name}, Attr: n.attrs}
		if err := enc.EncodeToken(start); err != nil {
			return cw.n, fmt.Errorf("encode <%s>: %w", n.name, err)
		}
		if n.text != nil {
			if err := enc.EncodeToken(xml.CharData(*n.text)); err != nil {
				return cw.n, fmt.Errorf("encode <%s> text: %w", n.name, err)
			}
		}
		if err := enc.EncodeToken(start.End()); err != nil {
			return cw.n, fmt.Errorf("encode </%s>: %w", n.name, err)
		}
	}

	if err := enc.EncodeToken(root.End()); err != nil {
		return cw.n, fmt.Errorf("encode /svg: %w", err)
	}
	if err := enc.Flush(); err != nil {
		return cw.n, fmt.Errorf("flush: %w", err)
	}
	if _, err := io.WriteString(cw, "\n"); err != nil {
		return cw.n, fmt.Errorf("flush: %w", err)
	}
	return cw.n, nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
