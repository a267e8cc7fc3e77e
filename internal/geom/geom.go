// Package geom holds the plane geometry used by shape construction: perpendicular
// bisectors, line intersection, the circle through three points and angle helpers.
//
// Coordinates follow the screen convention (Y grows downward). Angles are in radians,
// measured from the positive x-axis and increasing clockwise on screen.
package geom

import "math"

// Point is a position on the canvas.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Pt is shorthand for Point{x, y}.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Add returns p translated by q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns p - q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Scale returns p multiplied by f.
func (p Point) Scale(f float64) Point {
	return Point{X: p.X * f, Y: p.Y * f}
}

// Equal reports whether p and q are the same point within eps.
func (p Point) Equal(q Point, eps float64) bool {
	return math.Abs(p.X-q.X) <= eps && math.Abs(p.Y-q.Y) <= eps
}

// Dist2 returns the squared distance between p and q.
func Dist2(p, q Point) float64 {
	dx, dy := p.X-q.X, p.Y-q.Y
	return dx*dx + dy*dy
}

// Dist returns the distance between p and q.
func Dist(p, q Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// Midpoint returns the point halfway between p and q.
func Midpoint(p, q Point) Point {
	return Point{X: (p.X + q.X) / 2, Y: (p.Y + q.Y) / 2}
}

// Line is either y = Slope*x + Intercept or, when Vertical is set, x = X.
type Line struct {
	Slope     float64
	Intercept float64
	Vertical  bool
	X         float64
}

// At evaluates a non-vertical line at x.
func (l Line) At(x float64) float64 {
	return l.Slope*x + l.Intercept
}

// Bisector returns the perpendicular bisector of the segment p-q.
// A horizontal segment yields a vertical bisector through the midpoint.
func Bisector(p, q Point) Line {
	if p.Y == q.Y {
		return Line{Vertical: true, X: (p.X + q.X) / 2}
	}
	a := (p.X - q.X) / (q.Y - p.Y)
	b := ((p.Y + q.Y) - a*(p.X+q.X)) / 2
	return Line{Slope: a, Intercept: b}
}

// Intersect returns the crossing point of two lines. ok is false when the
// lines are parallel (or coincide), including two vertical lines.
func Intersect(l, m Line) (Point, bool) {
	switch {
	case l.Vertical && m.Vertical:
		return Point{}, false
	case l.Vertical:
		return Point{X: l.X, Y: m.At(l.X)}, true
	case m.Vertical:
		return Point{X: m.X, Y: l.At(m.X)}, true
	}

	den := l.Slope - m.Slope
	if den == 0 {
		return Point{}, false
	}
	x := (m.Intercept - l.Intercept) / den
	y := (l.Slope*m.Intercept - l.Intercept*m.Slope) / den
	return Point{X: x, Y: y}, true
}

// CircleThrough returns the center and radius of the unique circle through p, q and r.
// ok is false when the points are collinear or coincide.
func CircleThrough(p, q, r Point) (center Point, radius float64, ok bool) {
	if p == q || q == r || p == r {
		return Point{}, 0, false
	}

	c, ok := Intersect(Bisector(p, q), Bisector(q, r))
	if !ok || !finite(c.X) || !finite(c.Y) {
		return Point{}, 0, false
	}
	return c, Dist(c, p), true
}

// Angle returns the angle of p seen from center on a circle of radius r,
// in [0, 2π]. For points above the center (smaller y) the acos result is
// reflected to 2π - acos, so the angle grows clockwise on screen.
func Angle(center, p Point, r float64) float64 {
	cos := (p.X - center.X) / r
	rad := math.Acos(clamp(cos, -1, 1))
	if center.Y > p.Y {
		rad = 2*math.Pi - rad
	}
	return rad
}

// AngleDiff returns the angle swept going from a1 to a2 in the increasing
// direction. Both inputs are expected in [0, 2π]; the result is in [0, 2π].
func AngleDiff(a1, a2 float64) float64 {
	diff := a2 - a1
	if diff < 0 {
		diff += 2 * math.Pi
	} else if diff > 2*math.Pi {
		diff -= 2 * math.Pi
	}
	return diff
}

// Degrees converts radians to degrees.
func Degrees(rad float64) float64 {
	return rad * 180 / math.Pi
}

// Radians converts degrees to radians.
func Radians(deg float64) float64 {
	return deg * math.Pi / 180
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
