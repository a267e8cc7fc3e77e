package render

import (
	"math"
	"unicode/utf8"

	"github.com/inamate/sketchpad/internal/geom"
	"github.com/inamate/sketchpad/internal/shape"
)

// glyphAdvance approximates the advance of one character as a share of the
// font size, for text boxes.
const glyphAdvance = 0.6

// Recorder is a shape.Surface that appends a DrawCommand per draw call.
// It also implements sketch.ShapeMarker so every command carries the index
// of the shape that issued it.
type Recorder struct {
	commands []DrawCommand
	shape    int
	undone   bool
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Commands returns the recorded buffer in painter's order.
func (r *Recorder) Commands() []DrawCommand {
	return r.commands
}

// Reset drops the recorded commands so the recorder can be reused.
func (r *Recorder) Reset() {
	r.commands = r.commands[:0]
	r.shape, r.undone = 0, false
}

func (r *Recorder) MarkShape(index int, undone bool) {
	r.shape, r.undone = index, undone
}

func (r *Recorder) Line(x1, y1, x2, y2 float64, st shape.Style) {
	r.path(st, false, geom.RectFromCorners(x1, y1, x2, y2),
		PathCommand{"M", x1, y1},
		PathCommand{"L", x2, y2},
	)
}

func (r *Recorder) Rect(x1, y1, x2, y2 float64, st shape.Style) {
	b := geom.RectFromCorners(x1, y1, x2, y2)
	r.path(st, st.Filled(), b,
		PathCommand{"M", b.X, b.Y},
		PathCommand{"L", b.X + b.Width, b.Y},
		PathCommand{"L", b.X + b.Width, b.Y + b.Height},
		PathCommand{"L", b.X, b.Y + b.Height},
		PathCommand{"Z"},
	)
}

func (r *Recorder) Oval(x1, y1, x2, y2 float64, st shape.Style) {
	b := geom.RectFromCorners(x1, y1, x2, y2)
	cx, cy := b.Center()
	r.path(st, st.Filled(), b,
		PathCommand{"E", cx, cy, b.Width / 2, b.Height / 2, 0.0, 2 * math.Pi, false},
		PathCommand{"Z"},
	)
}

// Arc angles are degrees, clockwise on screen; a negative sweep draws
// anticlockwise.
func (r *Recorder) Arc(x1, y1, x2, y2, startAngle, sweepAngle float64, st shape.Style) {
	b := geom.RectFromCorners(x1, y1, x2, y2)
	cx, cy := b.Center()
	rx, ry := b.Width/2, b.Height/2
	start := geom.Radians(startAngle)
	end := geom.Radians(startAngle + sweepAngle)
	r.path(st, false, arcBounds(cx, cy, rx, ry, start, end),
		PathCommand{"E", cx, cy, rx, ry, start, end, sweepAngle < 0},
	)
}

func (r *Recorder) Path(points []geom.Point, closed bool, st shape.Style) {
	if len(points) == 0 {
		return
	}
	path := make([]PathCommand, 0, len(points)+1)
	b := geom.Rect{X: points[0].X, Y: points[0].Y}
	for i, p := range points {
		op := "L"
		if i == 0 {
			op = "M"
		}
		path = append(path, PathCommand{op, p.X, p.Y})
		b = b.Union(geom.Rect{X: p.X, Y: p.Y})
	}
	if closed {
		path = append(path, PathCommand{"Z"})
	}
	r.path(st, closed && st.Filled(), b, path...)
}

func (r *Recorder) Text(s string, x, y float64, st shape.Style) {
	color := st.StrokeColor
	if st.Filled() {
		color = st.FillColor
	}
	width := glyphAdvance * st.FontSize * float64(utf8.RuneCountInString(s))
	r.commands = append(r.commands, DrawCommand{
		Op:       "text",
		Shape:    r.shape,
		Undone:   r.undone,
		Text:     s,
		X:        x,
		Y:        y,
		FontSize: st.FontSize,
		Fill:     color.CSS(),
		Bounds:   geom.Rect{X: x, Y: y - st.FontSize, Width: width, Height: st.FontSize},
	})
}

func (r *Recorder) path(st shape.Style, filled bool, b geom.Rect, path ...PathCommand) {
	c := DrawCommand{
		Op:          "path",
		Shape:       r.shape,
		Undone:      r.undone,
		Path:        path,
		Stroke:      st.StrokeColor.CSS(),
		StrokeWidth: st.StrokeWidth,
		Bounds:      b,
	}
	if filled {
		c.Fill = st.FillColor.CSS()
	}
	r.commands = append(r.commands, c)
}

// arcBounds returns the box of the elliptical arc from start to end
// (radians, either direction): its end points plus every axis extreme the
// arc passes.
func arcBounds(cx, cy, rx, ry, start, end float64) geom.Rect {
	if start > end {
		start, end = end, start
	}
	at := func(t float64) geom.Rect {
		return geom.Rect{X: cx + rx*math.Cos(t), Y: cy + ry*math.Sin(t)}
	}

	b := at(start).Union(at(end))
	for k := math.Ceil(start / (math.Pi / 2)); k*math.Pi/2 <= end; k++ {
		b = b.Union(at(k * math.Pi / 2))
	}
	return b
}
