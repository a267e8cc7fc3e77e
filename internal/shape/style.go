package shape

import (
	"fmt"

	"github.com/inamate/sketchpad/internal/svg"
)

// Color is a 32-bit 0xAARRGGBB value.
type Color uint32

// Alpha returns the alpha channel.
func (c Color) Alpha() uint8 {
	return uint8(c >> 24)
}

// RGB returns the color channels without alpha.
func (c Color) RGB() (r, g, b uint8) {
	return uint8(c >> 16), uint8(c >> 8), uint8(c)
}

// Opacity returns the alpha channel scaled to [0, 1].
func (c Color) Opacity() float64 {
	return float64(c.Alpha()) / 0xff
}

// Hex formats the color as #rrggbb, dropping alpha.
func (c Color) Hex() string {
	r, g, b := c.RGB()
	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}

// CSS formats the color as a CSS rgba() value.
func (c Color) CSS() string {
	r, g, b := c.RGB()
	return fmt.Sprintf("rgba(%d,%d,%d,%.3g)", r, g, b, c.Opacity())
}

// FillStyle selects whether a closed shape is outlined or filled.
type FillStyle string

const (
	Stroke FillStyle = "stroke"
	Fill   FillStyle = "fill"
)

// Style is the paint carried by every shape. It is a plain value: assigning
// it copies it, so shapes never share paint.
type Style struct {
	StrokeColor Color     `json:"strokeColor"`
	StrokeWidth float64   `json:"strokeWidth"`
	FillStyle   FillStyle `json:"fillStyle"`
	FillColor   Color     `json:"fillColor"`
	FontSize    float64   `json:"fontSize"`
}

// Filled reports whether the style fills the interior.
func (s Style) Filled() bool {
	return s.FillStyle == Fill
}

// WithColor returns a copy of s drawn entirely in c.
func (s Style) WithColor(c Color) Style {
	s.StrokeColor = c
	s.FillColor = c
	return s
}

func (s Style) paint(id string) svg.Paint {
	return svg.Paint{
		Stroke:      uint32(s.StrokeColor),
		StrokeWidth: s.StrokeWidth,
		Fill:        s.Filled(),
		FillColor:   uint32(s.FillColor),
		FontSize:    s.FontSize,
		ID:          id,
	}
}

// StyleFromPaint maps parsed SVG presentation attributes to a Style.
func StyleFromPaint(p svg.Paint) Style {
	st := Style{
		StrokeColor: Color(p.Stroke),
		StrokeWidth: p.StrokeWidth,
		FillStyle:   Stroke,
		FontSize:    p.FontSize,
	}
	if p.Fill {
		st.FillStyle = Fill
		st.FillColor = Color(p.FillColor)
	}
	return st
}
