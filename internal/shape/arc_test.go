package shape

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inamate/sketchpad/internal/geom"
)

const tol = 1e-9

func assertPoint(t *testing.T, want, got geom.Point, delta float64) {
	t.Helper()
	assert.InDelta(t, want.X, got.X, delta, "x")
	assert.InDelta(t, want.Y, got.Y, delta, "y")
}

func TestArc_New(t *testing.T) {
	a := NewArc(3, 4, testStyle)
	assert.Equal(t, PlacingChord, a.State)
	assert.Equal(t, geom.Pt(3, 4), a.Start)
	assert.Equal(t, geom.Pt(3, 4), a.End)
	assert.Equal(t, 90.0, a.StartAngle)
	assert.Equal(t, 180.0, a.SweepAngle)
	assert.True(t, a.LargeArc)
	assert.False(t, a.Sweep)
}

func TestArc_PlacingChord(t *testing.T) {
	testCases := []struct {
		name   string
		x, y   float64
		box    [4]float64
		startA float64
	}{
		{"below", 0, 2, [4]float64{-1, 0, 1, 2}, 90},
		{"right", 2, 0, [4]float64{0, -1, 2, 1}, 0},
		{"above", 0, -2, [4]float64{-1, -2, 1, 0}, 270},
		{"left", -2, 0, [4]float64{-2, -1, 0, 1}, 180},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			a := NewArc(0, 0, testStyle)
			a.SetLastPoint(tc.x, tc.y)
			assert.InDelta(t, tc.box[0], a.X1, tol)
			assert.InDelta(t, tc.box[1], a.Y1, tol)
			assert.InDelta(t, tc.box[2], a.X2, tol)
			assert.InDelta(t, tc.box[3], a.Y2, tol)
			assert.InDelta(t, tc.startA, a.StartAngle, tol)
			assert.Equal(t, 180.0, a.SweepAngle)
			assert.Equal(t, geom.Pt(tc.x, tc.y), a.End)
			assert.Equal(t, PlacingChord, a.State)
		})
	}
}

// The chord (0,0)-(2,0) bent through a point one unit off its middle is a
// half circle around (1,0). With y growing downward, (1,1) lies below the
// chord and is reached by decreasing angles from the start (sweep 0); (1,-1)
// lies above and is reached by increasing angles (sweep 1).
func TestArc_ThroughThreePoints(t *testing.T) {
	testCases := []struct {
		name             string
		q                geom.Point
		large, sweep     bool
		startAngle, span float64
	}{
		{"bulge below", geom.Pt(1, 1), false, false, 180, -180},
		{"bulge above", geom.Pt(1, -1), true, true, 180, 180},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			a := NewArc(0, 0, testStyle)
			a.SetLastPoint(2, 0)
			a.AddPoint(tc.q.X, tc.q.Y)

			assert.Equal(t, ShapingArc, a.State)
			assertPoint(t, geom.Pt(1, 0), a.Anchor(), tol)
			assert.InDelta(t, 1, a.Radius(), tol)
			assert.Equal(t, tc.large, a.LargeArc, "large-arc flag")
			assert.Equal(t, tc.sweep, a.Sweep, "sweep flag")
			assert.InDelta(t, tc.startAngle, a.StartAngle, tol)
			assert.InDelta(t, tc.span, a.SweepAngle, tol)

			// the written arc must pass through the shaping point again
			back, err := ArcFromSVG(0, 0, a.Radius(), a.Radius(), 0, a.LargeArc, a.Sweep, 2, 0, testStyle)
			require.NoError(t, err)
			mid := geom.Radians(back.StartAngle + back.SweepAngle/2)
			c := back.Anchor()
			assertPoint(t, tc.q, geom.Pt(c.X+math.Cos(mid), c.Y+math.Sin(mid)), 1e-6)
		})
	}
}

func TestArc_CollinearIsIgnored(t *testing.T) {
	a := NewArc(0, 0, testStyle)
	a.SetLastPoint(2, 0)
	a.AddPoint(1, 1)
	before := a.Clone()

	a.SetLastPoint(1, 0)
	assert.Equal(t, before, a)

	a.SetLastPoint(3, 0)
	assert.Equal(t, before, a)
}

func TestArc_ShapingAfterAddPoint(t *testing.T) {
	a := NewArc(-5, 0, testStyle)
	a.SetLastPoint(3, 4)
	a.AddPoint(0, 5)
	assertPoint(t, geom.Pt(0, 0), a.Anchor(), tol)
	assert.InDelta(t, 5, a.Radius(), tol)
	assert.InDelta(t, 180, a.StartAngle, tol)
	assert.InDelta(t, -(180 - geom.Degrees(math.Atan2(4, 3))), a.SweepAngle, 1e-9)
	assert.False(t, a.LargeArc)
	assert.False(t, a.Sweep)

	// dragging moves the third point, the chord stays
	a.SetLastPoint(5, 0)
	assertPoint(t, geom.Pt(0, 0), a.Anchor(), tol)
	assert.Equal(t, geom.Pt(3, 4), a.End)
	assert.True(t, a.LargeArc)
	assert.True(t, a.Sweep)
}

func TestArcFromSVG(t *testing.T) {
	testCases := []struct {
		name         string
		large, sweep bool
		center       geom.Point
		span         float64
	}{
		{"minor decreasing", false, false, geom.Pt(0, 0), -126.86989764584402},
		{"major increasing", true, true, geom.Pt(0, 0), 233.13010235415598},
		{"minor increasing", false, true, geom.Pt(-2, 4), 126.86989764584402},
		{"major decreasing", true, false, geom.Pt(-2, 4), -233.13010235415598},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			a, err := ArcFromSVG(-5, 0, 5, 5, 0, tc.large, tc.sweep, 3, 4, testStyle)
			require.NoError(t, err)
			assert.Equal(t, ShapingArc, a.State)
			assertPoint(t, tc.center, a.Anchor(), 1e-6)
			assert.InDelta(t, 5, a.Radius(), 1e-6)
			assert.InDelta(t, math.Abs(tc.span), math.Abs(a.SweepAngle), 1e-6)
			assert.Equal(t, tc.large, a.LargeArc)
			assert.Equal(t, tc.sweep, a.Sweep)
			assert.Equal(t, geom.Pt(-5, 0), a.Start)
			assert.Equal(t, geom.Pt(3, 4), a.End)
		})
	}
}

func TestArcFromSVG_Semicircle(t *testing.T) {
	a, err := ArcFromSVG(0, 0, 1, 1, 0, true, false, 2, 0, testStyle)
	require.NoError(t, err)
	assert.Equal(t, PlacingChord, a.State)
	assertPoint(t, geom.Pt(1, 0), a.Anchor(), tol)
	assert.InDelta(t, 0, a.StartAngle, tol)
	assert.Equal(t, 180.0, a.SweepAngle)

	a, err = ArcFromSVG(0, 0, 1, 1, 0, false, true, 2, 0, testStyle)
	require.NoError(t, err)
	assert.InDelta(t, 180, a.StartAngle, tol)
	assert.False(t, a.LargeArc)
	assert.True(t, a.Sweep)
}

func TestArcFromSVG_Rejects(t *testing.T) {
	_, err := ArcFromSVG(0, 0, 1, 1, 30, false, false, 1, 1, testStyle)
	assert.ErrorIs(t, err, ErrUnsupportedArc)

	_, err = ArcFromSVG(0, 0, 1, 2, 0, false, false, 1, 1, testStyle)
	assert.ErrorIs(t, err, ErrUnsupportedArc)

	_, err = ArcFromSVG(0, 0, 0.5, 0.5, 0, false, false, 2, 0, testStyle)
	assert.ErrorIs(t, err, ErrImpossibleArc)

	_, err = ArcFromSVG(1, 1, 3, 3, 0, false, false, 1, 1, testStyle)
	assert.ErrorIs(t, err, ErrImpossibleArc)
}

func TestArc_SVGRoundTrip(t *testing.T) {
	shaped := NewArc(-5, 0, testStyle)
	shaped.SetLastPoint(3, 4)
	shaped.AddPoint(5, 0)
	chord := NewArc(10, 10, testStyle)
	chord.SetLastPoint(14, 13)
	bent := NewArc(0, 0, testStyle)
	bent.SetLastPoint(2, 0)
	bent.AddPoint(1, 1)

	in := []*Arc{shaped, chord, bent}
	shapes := make([]Shape, len(in))
	for i, a := range in {
		shapes[i] = a
	}
	out := encodeDecode(t, shapes...)
	require.Len(t, out, len(in))

	for i, want := range in {
		got, ok := out[i].(*Arc)
		require.True(t, ok)
		assertPoint(t, want.Start, got.Start, 1e-9)
		assertPoint(t, want.End, got.End, 1e-9)
		assert.Equal(t, want.LargeArc, got.LargeArc, "arc %d", i)
		assert.Equal(t, want.Sweep, got.Sweep, "arc %d", i)
		assert.InDelta(t, want.Radius(), got.Radius(), 1e-2, "arc %d", i)
		assertPoint(t, want.Anchor(), got.Anchor(), 1e-6)
	}
}
