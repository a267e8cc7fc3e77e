package shape

import (
	"bytes"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inamate/sketchpad/internal/geom"
	"github.com/inamate/sketchpad/internal/svg"
)

var testStyle = Style{StrokeColor: 0xffff00ff, StrokeWidth: 20, FillStyle: Stroke}

// callLog records draw calls as strings.
type callLog struct {
	calls []string
}

func (c *callLog) Line(x1, y1, x2, y2 float64, st Style) {
	c.calls = append(c.calls, fmt.Sprintf("line %g %g %g %g", x1, y1, x2, y2))
}

func (c *callLog) Rect(x1, y1, x2, y2 float64, st Style) {
	c.calls = append(c.calls, fmt.Sprintf("rect %g %g %g %g", x1, y1, x2, y2))
}

func (c *callLog) Oval(x1, y1, x2, y2 float64, st Style) {
	c.calls = append(c.calls, fmt.Sprintf("oval %g %g %g %g", x1, y1, x2, y2))
}

func (c *callLog) Arc(x1, y1, x2, y2, start, sweep float64, st Style) {
	c.calls = append(c.calls, fmt.Sprintf("arc %g %g %g %g %g %g", x1, y1, x2, y2, start, sweep))
}

func (c *callLog) Path(points []geom.Point, closed bool, st Style) {
	c.calls = append(c.calls, fmt.Sprintf("path %v %t", points, closed))
}

func (c *callLog) Text(s string, x, y float64, st Style) {
	c.calls = append(c.calls, fmt.Sprintf("text %q %g %g", s, x, y))
}

func TestNew(t *testing.T) {
	for _, kind := range []Kind{KindLine, KindRect, KindCircle, KindEllipse, KindArc, KindPolygon, KindPolyline, KindText} {
		s, err := New(kind, 3, 4, testStyle)
		require.NoError(t, err, kind)
		assert.Equal(t, kind, s.Kind())
		assert.Equal(t, testStyle, s.Style())
	}

	_, err := New("spiral", 0, 0, testStyle)
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestSetLastPoint(t *testing.T) {
	l := NewLine(1, 1, testStyle)
	l.SetLastPoint(5, 6)
	assert.Equal(t, geom.Pt(1, 1), l.Anchor())
	assert.Equal(t, 5.0, l.X2)
	assert.Equal(t, 6.0, l.Y2)

	c := NewCircle(0, 0, testStyle)
	assert.Equal(t, 1.0, c.R)
	c.SetLastPoint(3, 4)
	assert.Equal(t, 5.0, c.R)

	e := NewEllipse(10, 10, testStyle)
	e.SetLastPoint(4, 13)
	assert.Equal(t, 6.0, e.RX)
	assert.Equal(t, 3.0, e.RY)

	txt := NewText(2, 3, testStyle)
	txt.SetLastPoint(50, 50)
	assert.Equal(t, geom.Pt(2, 3), txt.Anchor())
	assert.Equal(t, DefaultText, txt.Text)
}

func TestPolygon_Points(t *testing.T) {
	p := NewPolygon(0, 0, testStyle)
	assert.Equal(t, []float64{0, 0}, p.Points)

	p.SetLastPoint(10, 0)
	p.AddPoint(10, 10)
	p.SetLastPoint(5, 10)
	assert.Equal(t, []float64{10, 0, 5, 10}, p.Points)

	var log callLog
	p.Render(&log)
	require.Len(t, log.calls, 1)
	assert.Equal(t, "path [{0 0} {10 0} {5 10}] true", log.calls[0])

	pl := NewPolyline(0, 0, testStyle)
	pl.SetLastPoint(1, 1)
	pl.Render(&log)
	assert.Equal(t, "path [{0 0} {1 1}] false", log.calls[1])
}

func TestTranslateTo(t *testing.T) {
	r := NewRect(10, 10, testStyle)
	r.SetLastPoint(0, 0)
	r.TranslateTo(100, 100)
	assert.Equal(t, geom.Rect{X: 90, Y: 90, Width: 10, Height: 10}, r.Bounds())

	l := NewLine(1, 2, testStyle)
	l.SetLastPoint(4, 6)
	l.TranslateTo(0, 0)
	assert.Equal(t, &Line{base: base{Paint: testStyle}, X1: 0, Y1: 0, X2: 3, Y2: 4}, l)

	p := NewPolygon(1, 1, testStyle)
	p.SetLastPoint(2, 2)
	p.TranslateTo(11, 21)
	assert.Equal(t, geom.Pt(11, 21), p.Anchor())
	assert.Equal(t, []float64{12, 22}, p.Points)

	a := NewArc(0, 0, testStyle)
	a.SetLastPoint(2, 0)
	a.TranslateTo(5, 5)
	assert.Equal(t, geom.Pt(5, 5), a.Anchor())
	assert.Equal(t, geom.Pt(4, 5), a.Start)
	assert.Equal(t, geom.Pt(6, 5), a.End)
}

func TestClone_Independent(t *testing.T) {
	p := NewPolygon(0, 0, testStyle)
	p.SetLastPoint(1, 0)
	p.AddPoint(1, 1)
	p.SetAttributeID("poly")

	c := p.Clone().(*Polygon)
	c.Translate(5, 5)
	c.SetAttributeID("copy")

	assert.Equal(t, []float64{1, 0, 1, 1}, p.Points)
	assert.Equal(t, "poly", p.AttributeID())
	assert.Equal(t, []float64{6, 5, 6, 6}, c.Points)
	assert.Equal(t, testStyle, c.Style())
}

func TestSetPayload(t *testing.T) {
	txt := NewText(0, 0, testStyle)
	txt.SetPayload(42)
	assert.Equal(t, DefaultText, txt.Text)
	txt.SetPayload("hello")
	assert.Equal(t, "hello", txt.Text)

	c := NewCircle(0, 0, testStyle)
	c.SetPayload("ignored")
	assert.Equal(t, NewCircle(0, 0, testStyle), c)
}

func encodeDecode(t *testing.T, shapes ...Shape) []Shape {
	t.Helper()
	w := svg.NewWriter()
	for _, s := range shapes {
		require.NoError(t, s.EncodeSVG(w))
	}
	var buf bytes.Buffer
	_, err := w.WriteTo(&buf)
	require.NoError(t, err)

	var out []Shape
	doc, err := svg.Parse(&buf, func(el svg.Element) {
		s, err := FromElement(el)
		require.NoError(t, err)
		out = append(out, s)
	})
	require.NoError(t, err)
	require.Empty(t, doc.Skipped)
	return out
}

func TestSVGRoundTrip(t *testing.T) {
	filled := Style{StrokeColor: 0xff112233, StrokeWidth: 0, FillStyle: Fill, FillColor: 0x80445566, FontSize: 60}

	line := NewLine(1, 2, testStyle)
	line.SetLastPoint(3, 4)
	line.SetAttributeID("l1")
	rect := NewRect(10, 10, filled)
	rect.SetLastPoint(0, 5)
	circle := NewCircle(5, 5, testStyle)
	circle.SetLastPoint(5, 8)
	ellipse := NewEllipse(0, 0, testStyle)
	ellipse.SetLastPoint(4, 2)
	poly := NewPolygon(0, 0, testStyle)
	poly.SetLastPoint(10, 0)
	poly.AddPoint(10, 10)
	polyline := NewPolyline(1, 1, testStyle)
	polyline.SetLastPoint(2, 3)
	polyline.AddPoint(4, 1)
	text := NewText(7, 8, filled)
	text.SetPayload("hi there")

	out := encodeDecode(t, line, rect, circle, ellipse, poly, polyline, text)
	require.Len(t, out, 7)

	assert.Equal(t, line, out[0])
	assert.Equal(t, geom.Rect{X: 0, Y: 5, Width: 10, Height: 5}, out[1].(*Rect).Bounds())
	assert.Equal(t, filled.FillColor, out[1].Style().FillColor)
	assert.Equal(t, circle, out[2])
	assert.Equal(t, ellipse, out[3])
	assert.Equal(t, poly, out[4])
	assert.Equal(t, polyline, out[5])

	gotText := out[6].(*Text)
	assert.Equal(t, "hi there", gotText.Text)
	assert.Equal(t, geom.Pt(7, 8), gotText.Anchor())
	assert.Equal(t, 60.0, gotText.Style().FontSize)
}

func TestPolygon_EncodeRejectsShortList(t *testing.T) {
	p := NewPolygon(0, 0, testStyle)
	w := svg.NewWriter()
	assert.ErrorIs(t, p.EncodeSVG(w), ErrBadPoints)
	assert.Equal(t, 0, w.Len())

	_, err := FromElement(svg.Polygon{Paint: svg.DefaultPaint, X: 0, Y: 0})
	assert.ErrorIs(t, err, ErrBadPoints)
	_, err = FromElement(svg.Polyline{Paint: svg.DefaultPaint, Points: []float64{1, 1, 2}})
	assert.ErrorIs(t, err, ErrBadPoints)
}

func TestFromElement_TwoVertices(t *testing.T) {
	s, err := FromElement(svg.Polygon{Paint: svg.DefaultPaint, X: 0, Y: 0, Points: []float64{10, 10}})
	require.NoError(t, err)
	p, ok := s.(*Polygon)
	require.True(t, ok)
	assert.Equal(t, []float64{10, 10}, p.Points)

	// loads, but the writer still wants three vertices
	w := svg.NewWriter()
	assert.ErrorIs(t, p.EncodeSVG(w), ErrBadPoints)

	s, err = FromElement(svg.Polyline{Paint: svg.DefaultPaint, X: 0, Y: 0, Points: []float64{10, 10}})
	require.NoError(t, err)
	assert.Equal(t, KindPolyline, s.Kind())
}

func TestFromElement_Paint(t *testing.T) {
	s, err := FromElement(svg.Circle{
		Paint: svg.Paint{Stroke: 0x80ff0000, StrokeWidth: 3, Fill: true, FillColor: 0xff00ff00, ID: "c"},
		CX:    1,
		CY:    2,
		R:     3,
	})
	require.NoError(t, err)
	assert.Equal(t, Style{StrokeColor: 0x80ff0000, StrokeWidth: 3, FillStyle: Fill, FillColor: 0xff00ff00}, s.Style())
	assert.Equal(t, "c", s.AttributeID())
}

func TestList_JSON(t *testing.T) {
	arc := NewArc(0, 0, testStyle)
	arc.SetLastPoint(2, 0)
	arc.AddPoint(1, 1)
	poly := NewPolygon(0, 0, testStyle)
	poly.AddPoint(3, 3)
	text := NewText(1, 1, testStyle)
	text.SetPayload("snap")
	text.SetAttributeID("t")

	in := List{arc, poly, text, NewLine(1, 1, testStyle)}
	data, err := json.Marshal(in)
	require.NoError(t, err)

	var out List
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, in, out)

	err = json.Unmarshal([]byte(`[{"kind":"blob","shape":{}}]`), &out)
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestColor(t *testing.T) {
	c := Color(0x80ff0010)
	assert.Equal(t, uint8(0x80), c.Alpha())
	assert.Equal(t, "#ff0010", c.Hex())
	assert.Equal(t, "rgba(255,0,16,0.502)", c.CSS())
	assert.Equal(t, Style{StrokeColor: 7, FillColor: 7, StrokeWidth: 2}, Style{StrokeColor: 1, FillColor: 2, StrokeWidth: 2}.WithColor(7))
}
