package shape

import (
	"fmt"
	"math"

	"github.com/inamate/sketchpad/internal/geom"
	"github.com/inamate/sketchpad/internal/svg"
)

// ArcState is the construction phase of an Arc.
type ArcState string

const (
	// PlacingChord: dragging moves the end point; the arc is the semicircle over the chord.
	PlacingChord ArcState = "placingChord"
	// ShapingArc: dragging moves a third point the arc must pass through.
	ShapingArc ArcState = "shapingArc"
)

const (
	radiusTolerance     = 0.01
	semicircleTolerance = 0.01
)

// Arc is a circular arc between Start and End. The box (X1, Y1)-(X2, Y2)
// bounds the full circle; StartAngle and SweepAngle (degrees) select the
// rendered part of it. LargeArc and Sweep are the SVG flags.
type Arc struct {
	base
	X1         float64    `json:"x1"`
	Y1         float64    `json:"y1"`
	X2         float64    `json:"x2"`
	Y2         float64    `json:"y2"`
	StartAngle float64    `json:"startAngle"`
	SweepAngle float64    `json:"sweepAngle"`
	Start      geom.Point `json:"start"`
	End        geom.Point `json:"end"`
	LargeArc   bool       `json:"largeArc"`
	Sweep      bool       `json:"sweep"`
	State      ArcState   `json:"state"`
}

// NewArc starts an arc whose chord is the single point (x, y).
func NewArc(x, y float64, st Style) *Arc {
	a := &Arc{
		base:  base{Paint: st},
		Start: geom.Pt(x, y),
		State: PlacingChord,
	}
	a.placeChord(x, y)
	a.StartAngle = 90
	a.SweepAngle = 180
	a.LargeArc = true
	a.Sweep = false
	return a
}

// ArcFromSVG rebuilds an arc from an SVG arc command from (mx, my) to (x, y).
// Only unrotated circular arcs are accepted.
func ArcFromSVG(mx, my, rx, ry, rotation float64, largeArc, sweep bool, x, y float64, st Style) (*Arc, error) {
	if rotation != 0 {
		return nil, fmt.Errorf("%w: rotation %v", ErrUnsupportedArc, rotation)
	}
	if math.Abs(rx-ry) > radiusTolerance {
		return nil, fmt.Errorf("%w: rx %v ry %v", ErrUnsupportedArc, rx, ry)
	}

	start, end := geom.Pt(mx, my), geom.Pt(x, y)
	r := rx
	chord2 := geom.Dist2(start, end)

	// The three point solver is singular for a half circle; build it from the chord.
	if math.Abs(chord2-4*r*r) < semicircleTolerance {
		a := NewArc(mx, my, st)
		a.placeChord(x, y)
		if sweep {
			mid := geom.Midpoint(start, end)
			a.StartAngle = geom.Degrees(geom.Angle(mid, start, math.Sqrt(chord2)/2))
		}
		a.LargeArc, a.Sweep = largeArc, sweep
		return a, nil
	}

	if chord2 == 0 || r*r < chord2/4 {
		return nil, fmt.Errorf("%w: r %v chord %v", ErrImpossibleArc, r, math.Sqrt(chord2))
	}

	// Center from the endpoint parameterization (rx = ry, no rotation).
	mid := geom.Midpoint(start, end)
	half := start.Sub(end).Scale(0.5)
	d := math.Sqrt(chord2) / 2
	h := math.Sqrt(r*r - d*d)
	sign := -1.0
	if largeArc != sweep {
		sign = 1
	}
	center := mid.Add(geom.Pt(half.Y, -half.X).Scale(sign * h / d))

	// A point halfway along the arc pins down the circle for the three point solver.
	t1 := math.Atan2(start.Y-center.Y, start.X-center.X)
	t2 := math.Atan2(end.Y-center.Y, end.X-center.X)
	delta := t2 - t1
	if !sweep && delta > 0 {
		delta -= 2 * math.Pi
	} else if sweep && delta < 0 {
		delta += 2 * math.Pi
	}
	tm := t1 + delta/2
	q := geom.Pt(center.X+r*math.Cos(tm), center.Y+r*math.Sin(tm))

	a := NewArc(mx, my, st)
	a.placeChord(x, y)
	a.State = ShapingArc
	if !a.shapeCircle(q.X, q.Y) {
		return nil, fmt.Errorf("%w: degenerate circle", ErrImpossibleArc)
	}
	a.LargeArc, a.Sweep = largeArc, sweep
	return a, nil
}

func (a *Arc) Kind() Kind { return KindArc }

// Anchor is the center of the arc's circle.
func (a *Arc) Anchor() geom.Point {
	return geom.Pt((a.X1+a.X2)/2, (a.Y1+a.Y2)/2)
}

// Radius of the arc's circle.
func (a *Arc) Radius() float64 {
	return math.Abs(a.X2-a.X1) / 2
}

func (a *Arc) Render(s Surface) {
	s.Arc(a.X1, a.Y1, a.X2, a.Y2, a.StartAngle, a.SweepAngle, a.Paint)
}

func (a *Arc) EncodeSVG(w *svg.Writer) error {
	rx := math.Abs(a.X1-a.X2) / 2
	ry := math.Abs(a.Y1-a.Y2) / 2
	w.Arc(a.Start.X, a.Start.Y, rx, ry, 0, a.LargeArc, a.Sweep, a.End.X, a.End.Y, a.svgPaint())
	return nil
}

func (a *Arc) SetLastPoint(x, y float64) {
	switch a.State {
	case PlacingChord:
		a.placeChord(x, y)
	case ShapingArc:
		a.shapeCircle(x, y)
	}
}

// AddPoint fixes the chord and bends the arc through (x, y).
func (a *Arc) AddPoint(x, y float64) {
	a.State = ShapingArc
	a.shapeCircle(x, y)
}

func (a *Arc) Translate(dx, dy float64) {
	a.X1 += dx
	a.Y1 += dy
	a.X2 += dx
	a.Y2 += dy
	a.Start.X += dx
	a.Start.Y += dy
	a.End.X += dx
	a.End.Y += dy
}

func (a *Arc) TranslateTo(x, y float64) { translateTo(a, x, y) }

func (a *Arc) Clone() Shape {
	c := *a
	return &c
}

// placeChord makes Start-(x, y) the diameter of the circle. The angles keep
// their previous values while the chord has zero length.
func (a *Arc) placeChord(x, y float64) {
	p := geom.Pt(x, y)
	c := geom.Midpoint(a.Start, p)
	r := geom.Dist(a.Start, p) / 2

	a.X1, a.Y1 = c.X-r, c.Y-r
	a.X2, a.Y2 = c.X+r, c.Y+r
	a.End = p

	if r == 0 {
		return
	}
	a.StartAngle = geom.Degrees(geom.Angle(c, p, r))
}

// shapeCircle fits the circle through Start, (x, y) and End and derives the
// rendered span and SVG flags. Collinear points leave the arc unchanged.
func (a *Arc) shapeCircle(x, y float64) bool {
	q := geom.Pt(x, y)
	c, r, ok := geom.CircleThrough(a.Start, q, a.End)
	if !ok || r == 0 {
		return false
	}

	a.X1, a.Y1 = c.X-r, c.Y-r
	a.X2, a.Y2 = c.X+r, c.Y+r

	radP := geom.Angle(c, a.Start, r)
	radQ := geom.Angle(c, q, r)
	radR := geom.Angle(c, a.End, r)

	switch {
	case (radP <= radQ && radQ <= radR) || (radR <= radQ && radQ <= radP):
		a.StartAngle = geom.Degrees(radP)
		a.SweepAngle = geom.Degrees(radR - radP)
	case radR > radP:
		a.StartAngle = geom.Degrees(radR)
		a.SweepAngle = geom.Degrees(2*math.Pi - (radR - radP))
	default:
		a.StartAngle = geom.Degrees(radP)
		a.SweepAngle = geom.Degrees(2*math.Pi - (radP - radR))
	}

	diffPQ := geom.AngleDiff(radP, radQ)
	diffPR := geom.AngleDiff(radP, radR)
	a.Sweep = diffPQ <= diffPR
	a.LargeArc = (diffPR >= math.Pi) != !a.Sweep
	return true
}
