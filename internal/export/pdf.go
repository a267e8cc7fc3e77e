// Package export writes a drawing to downloadable formats: the SVG dialect
// of the svg package and PDF.
package export

import (
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"

	"github.com/inamate/sketchpad/internal/geom"
	"github.com/inamate/sketchpad/internal/render"
	"github.com/inamate/sketchpad/internal/shape"
	"github.com/inamate/sketchpad/internal/sketch"
)

// pageMargin is added around the drawing when the page is sized from its bounds.
const pageMargin = 10

const fontFamily = "Helvetica"

// PDF is a shape.Surface drawing onto a single gofpdf page. Units are
// points, so one canvas pixel maps to one point.
type PDF struct {
	pdf       *gofpdf.Fpdf
	origin    geom.Point
	translate func(string) string
}

// NewPDF creates a one page document of the given size whose top left corner
// shows the canvas point origin.
func NewPDF(width, height float64, origin geom.Point) *PDF {
	p := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: width, Ht: height},
	})
	p.SetMargins(0, 0, 0)
	p.SetAutoPageBreak(false, 0)
	p.AddPage()
	p.SetLineCapStyle("round")
	p.SetLineJoinStyle("round")
	p.SetFont(fontFamily, "", 12)

	return &PDF{
		pdf:       p,
		origin:    origin,
		translate: p.UnicodeTranslatorFromDescriptor(""),
	}
}

// WriteTo finishes the document and writes it to w.
func (d *PDF) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}
	if err := d.pdf.Output(cw); err != nil {
		return cw.n, fmt.Errorf("write pdf: %w", err)
	}
	return cw.n, nil
}

func (d *PDF) Line(x1, y1, x2, y2 float64, st shape.Style) {
	d.stroke(st)
	ax, ay := d.pt(x1, y1)
	bx, by := d.pt(x2, y2)
	d.pdf.Line(ax, ay, bx, by)
}

func (d *PDF) Rect(x1, y1, x2, y2 float64, st shape.Style) {
	b := geom.RectFromCorners(x1, y1, x2, y2)
	x, y := d.pt(b.X, b.Y)
	d.pdf.Rect(x, y, b.Width, b.Height, d.paint(st))
}

func (d *PDF) Oval(x1, y1, x2, y2 float64, st shape.Style) {
	b := geom.RectFromCorners(x1, y1, x2, y2)
	cx, cy := d.pt(b.Center())
	d.pdf.Ellipse(cx, cy, b.Width/2, b.Height/2, 0, d.paint(st))
}

// Arc angles run clockwise on the canvas and counterclockwise in gofpdf, so
// both are negated.
func (d *PDF) Arc(x1, y1, x2, y2, startAngle, sweepAngle float64, st shape.Style) {
	b := geom.RectFromCorners(x1, y1, x2, y2)
	cx, cy := d.pt(b.Center())
	d.stroke(st)
	d.pdf.Arc(cx, cy, b.Width/2, b.Height/2, 0, -startAngle, -startAngle-sweepAngle, "D")
}

func (d *PDF) Path(points []geom.Point, closed bool, st shape.Style) {
	if len(points) == 0 {
		return
	}
	style := "D"
	if closed {
		style = d.paint(st)
	} else {
		d.stroke(st)
	}

	d.pdf.MoveTo(d.pt(points[0].X, points[0].Y))
	for _, p := range points[1:] {
		d.pdf.LineTo(d.pt(p.X, p.Y))
	}
	if closed {
		d.pdf.ClosePath()
	}
	d.pdf.DrawPath(style)
}

func (d *PDF) Text(s string, x, y float64, st shape.Style) {
	if s == "" {
		return
	}
	c := st.StrokeColor
	if st.Filled() {
		c = st.FillColor
	}
	r, g, b := c.RGB()
	d.pdf.SetTextColor(int(r), int(g), int(b))
	d.pdf.SetAlpha(c.Opacity(), "Normal")
	d.pdf.SetFontSize(st.FontSize)
	px, py := d.pt(x, y)
	d.pdf.Text(px, py, d.translate(s))
}

// pt maps a canvas point to page coordinates.
func (d *PDF) pt(x, y float64) (float64, float64) {
	return x - d.origin.X, y - d.origin.Y
}

func (d *PDF) stroke(st shape.Style) {
	r, g, b := st.StrokeColor.RGB()
	d.pdf.SetDrawColor(int(r), int(g), int(b))
	d.pdf.SetLineWidth(st.StrokeWidth)
	d.pdf.SetAlpha(st.StrokeColor.Opacity(), "Normal")
}

// paint sets up stroke and, for filled styles, fill and returns the gofpdf
// style string. Only closed outlines go through it.
func (d *PDF) paint(st shape.Style) string {
	d.stroke(st)
	if !st.Filled() {
		return "D"
	}
	r, g, b := st.FillColor.RGB()
	d.pdf.SetFillColor(int(r), int(g), int(b))
	d.pdf.SetAlpha(st.FillColor.Opacity(), "Normal")
	return "F"
}

// WritePDF renders the visible shapes of m to a PDF. The page has the
// canvas size when one is set, else it fits the drawing plus a margin.
func WritePDF(w io.Writer, m *sketch.Manager) (int64, error) {
	width, height := m.CanvasSize()
	var origin geom.Point
	if width < 0 || height < 0 {
		rec := render.NewRecorder()
		m.Render(rec)
		b := render.Bounds(rec.Commands()).Expand(pageMargin)
		origin = geom.Pt(b.X, b.Y)
		width, height = b.Width, b.Height
	}
	// gofpdf rejects empty pages
	width, height = max(width, 1), max(height, 1)

	doc := NewPDF(width, height, origin)
	m.Render(doc)
	return doc.WriteTo(w)
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
