// Package svg reads and writes the small SVG dialect used to save sketches.
//
// The dialect is a flat <svg> root whose direct children are circle, ellipse,
// line, path (a single circular arc), polygon, polyline, rect and text
// elements. Anything else is ignored on read and never produced on write.
package svg

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	pstrconv "github.com/tdewolff/parse/v2/strconv"
)

const (
	nsSVG   = "http://www.w3.org/2000/svg"
	nsXLink = "http://www.w3.org/1999/xlink"
)

// Element names of the dialect.
const (
	TagCircle   = "circle"
	TagEllipse  = "ellipse"
	TagLine     = "line"
	TagPath     = "path"
	TagPolygon  = "polygon"
	TagPolyline = "polyline"
	TagRect     = "rect"
	TagText     = "text"
)

// AttrID is the attribute carrying the optional shape identifier.
const AttrID = "id"

var (
	ErrNotSVG      = errors.New("root element is not svg")
	ErrMissingAttr = errors.New("missing attribute")
	ErrBadNumber   = errors.New("malformed number")
	ErrBadPoints   = errors.New("malformed points list")
	ErrBadPath     = errors.New("unsupported path data")
)

// Paint is the presentation state written with every element.
// Colors are 0xAARRGGBB.
type Paint struct {
	Stroke      uint32
	StrokeWidth float64
	Fill        bool // fill with FillColor; otherwise fill="none"
	FillColor   uint32
	FontSize    float64
	ID          string
}

// Attributes returns the paint of an element.
func (p Paint) Attributes() Paint {
	return p
}

// DefaultPaint is what the reader assumes for attributes a document omits.
var DefaultPaint = Paint{
	Stroke:      0xff000000,
	StrokeWidth: 1,
}

func colorCode(c uint32) string {
	r := (c >> 16) & 0xff
	g := (c >> 8) & 0xff
	b := c & 0xff
	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}

func opacity(c uint32) string {
	a := (c >> 24) & 0xff
	return formatNumber(float64(a) / 0xff)
}

// parseColor reads #rrggbb (or #rgb). Values beyond 0xffffff are clamped.
func parseColor(s string) (uint32, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "#") {
		return 0, fmt.Errorf("%w: color %q", ErrBadNumber, s)
	}
	hex := s[1:]
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	v, err := strconv.ParseUint(hex, 16, 64)
	if errors.Is(err, strconv.ErrRange) {
		v = 0xffffff
	} else if err != nil {
		return 0, fmt.Errorf("%w: color %q", ErrBadNumber, s)
	}
	if v > 0xffffff {
		v = 0xffffff
	}
	return uint32(v), nil
}

// alpha converts an opacity in [0, 1] to an 8-bit alpha, clamping out-of-range input.
func alpha(opacity float64) uint32 {
	a := math.Round(255 * opacity)
	if a > 255 {
		a = 255
	}
	if a < 0 || math.IsNaN(a) {
		a = 0
	}
	return uint32(a)
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatFlag(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

// parseNumber parses a complete attribute value as a float.
func parseNumber(s string) (float64, error) {
	b := []byte(strings.TrimSpace(s))
	if len(b) == 0 {
		return 0, fmt.Errorf("%w: empty value", ErrBadNumber)
	}
	v, n := pstrconv.ParseFloat(b)
	if n != len(b) || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %q", ErrBadNumber, s)
	}
	return v, nil
}
