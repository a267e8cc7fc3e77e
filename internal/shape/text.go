package shape

import (
	"github.com/inamate/sketchpad/internal/geom"
	"github.com/inamate/sketchpad/internal/svg"
)

// DefaultText is shown until the host supplies a string.
const DefaultText = "text"

type Text struct {
	base
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Text string  `json:"text"`
}

func NewText(x, y float64, st Style) *Text {
	return &Text{base: base{Paint: st}, X: x, Y: y, Text: DefaultText}
}

func (t *Text) Kind() Kind { return KindText }

func (t *Text) Anchor() geom.Point { return geom.Pt(t.X, t.Y) }

func (t *Text) Render(s Surface) {
	s.Text(t.Text, t.X, t.Y, t.Paint)
}

func (t *Text) EncodeSVG(w *svg.Writer) error {
	w.Text(t.X, t.Y, t.Text, t.svgPaint())
	return nil
}

// SetLastPoint does nothing: text is placed with a single click.
func (t *Text) SetLastPoint(x, y float64) {}

func (t *Text) Translate(dx, dy float64) {
	t.X += dx
	t.Y += dy
}

func (t *Text) TranslateTo(x, y float64) { translateTo(t, x, y) }

// SetPayload replaces the text when data is a string.
func (t *Text) SetPayload(data any) {
	if s, ok := data.(string); ok {
		t.Text = s
	}
}

func (t *Text) Clone() Shape {
	c := *t
	return &c
}
