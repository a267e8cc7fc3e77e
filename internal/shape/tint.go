package shape

import "github.com/inamate/sketchpad/internal/geom"

// Tinted returns a Surface that forwards every call to s with both stroke and
// fill replaced by c. Shape styles are left untouched.
func Tinted(s Surface, c Color) Surface {
	return tinted{dst: s, color: c}
}

type tinted struct {
	dst   Surface
	color Color
}

func (t tinted) Line(x1, y1, x2, y2 float64, st Style) {
	t.dst.Line(x1, y1, x2, y2, st.WithColor(t.color))
}

func (t tinted) Rect(x1, y1, x2, y2 float64, st Style) {
	t.dst.Rect(x1, y1, x2, y2, st.WithColor(t.color))
}

func (t tinted) Oval(x1, y1, x2, y2 float64, st Style) {
	t.dst.Oval(x1, y1, x2, y2, st.WithColor(t.color))
}

func (t tinted) Arc(x1, y1, x2, y2, startAngle, sweepAngle float64, st Style) {
	t.dst.Arc(x1, y1, x2, y2, startAngle, sweepAngle, st.WithColor(t.color))
}

func (t tinted) Path(points []geom.Point, closed bool, st Style) {
	t.dst.Path(points, closed, st.WithColor(t.color))
}

func (t tinted) Text(s string, x, y float64, st Style) {
	t.dst.Text(s, x, y, st.WithColor(t.color))
}
