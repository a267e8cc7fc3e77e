package render

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inamate/sketchpad/internal/geom"
	"github.com/inamate/sketchpad/internal/shape"
	"github.com/inamate/sketchpad/internal/sketch"
)

var (
	_ shape.Surface      = (*Recorder)(nil)
	_ sketch.ShapeMarker = (*Recorder)(nil)
)

var testStyle = shape.Style{StrokeColor: 0xffff0000, StrokeWidth: 4, FillStyle: shape.Stroke}

func assertRect(t *testing.T, want, got geom.Rect) {
	t.Helper()
	assert.InDelta(t, want.X, got.X, 1e-9, "x")
	assert.InDelta(t, want.Y, got.Y, 1e-9, "y")
	assert.InDelta(t, want.Width, got.Width, 1e-9, "width")
	assert.InDelta(t, want.Height, got.Height, 1e-9, "height")
}

func TestRecorder_Line(t *testing.T) {
	r := NewRecorder()
	r.MarkShape(3, false)
	r.Line(10, 20, 0, 5, testStyle)

	cmds := r.Commands()
	require.Len(t, cmds, 1)
	c := cmds[0]
	assert.Equal(t, "path", c.Op)
	assert.Equal(t, 3, c.Shape)
	assert.Equal(t, []PathCommand{{"M", 10.0, 20.0}, {"L", 0.0, 5.0}}, c.Path)
	assert.Equal(t, "rgba(255,0,0,1)", c.Stroke)
	assert.Empty(t, c.Fill)
	assert.Equal(t, 4.0, c.StrokeWidth)
	assert.Equal(t, geom.Rect{X: 0, Y: 5, Width: 10, Height: 15}, c.Bounds)
}

func TestRecorder_FillOnlyForClosedShapes(t *testing.T) {
	filled := testStyle
	filled.FillStyle = shape.Fill
	filled.FillColor = 0x8000ff00

	r := NewRecorder()
	r.Rect(5, 5, 0, 0, filled)
	r.Path([]geom.Point{{X: 0, Y: 0}, {X: 4, Y: 0}, {X: 4, Y: 4}}, true, filled)
	r.Path([]geom.Point{{X: 0, Y: 0}, {X: 4, Y: 4}}, false, filled)
	r.Arc(0, 0, 2, 2, 0, 90, filled)

	cmds := r.Commands()
	require.Len(t, cmds, 4)
	assert.Equal(t, "rgba(0,255,0,0.502)", cmds[0].Fill)
	assert.Equal(t, PathCommand{"M", 0.0, 0.0}, cmds[0].Path[0])
	assert.Equal(t, PathCommand{"Z"}, cmds[0].Path[4])
	assert.NotEmpty(t, cmds[1].Fill)
	assert.Empty(t, cmds[2].Fill)
	assert.Empty(t, cmds[3].Fill)
}

func TestRecorder_Arc(t *testing.T) {
	testCases := []struct {
		name         string
		start, sweep float64
		anticlock    bool
		bounds       geom.Rect
	}{
		{"quarter clockwise", 0, 90, false, geom.Rect{X: 1, Y: 1, Width: 1, Height: 1}},
		{"half anticlockwise", 180, -180, true, geom.Rect{X: 0, Y: 1, Width: 2, Height: 1}},
		{"three quarters", 90, 270, false, geom.Rect{X: 0, Y: 0, Width: 2, Height: 2}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			r := NewRecorder()
			r.Arc(0, 0, 2, 2, tc.start, tc.sweep, testStyle)
			c := r.Commands()[0]
			require.Len(t, c.Path, 1)
			e := c.Path[0]
			assert.Equal(t, "E", e[0])
			assert.Equal(t, 1.0, e[1])
			assert.Equal(t, 1.0, e[2])
			assert.InDelta(t, geom.Radians(tc.start), e[5], 1e-12)
			assert.InDelta(t, geom.Radians(tc.start+tc.sweep), e[6], 1e-12)
			assert.Equal(t, tc.anticlock, e[7])
			assertRect(t, tc.bounds, c.Bounds)
		})
	}
}

func TestRecorder_Text(t *testing.T) {
	st := shape.Style{StrokeColor: 0xff0000ff, FillStyle: shape.Fill, FillColor: 0xff00ff00, FontSize: 10}
	r := NewRecorder()
	r.MarkShape(1, true)
	r.Text("abc", 5, 20, st)

	c := r.Commands()[0]
	assert.Equal(t, "text", c.Op)
	assert.True(t, c.Undone)
	assert.Equal(t, "rgba(0,255,0,1)", c.Fill)
	assertRect(t, geom.Rect{X: 5, Y: 10, Width: 18, Height: 10}, c.Bounds)

	st.FillStyle = shape.Stroke
	r.Text("abc", 5, 20, st)
	assert.Equal(t, "rgba(0,0,255,1)", r.Commands()[1].Fill)
}

func TestRecorder_Reset(t *testing.T) {
	r := NewRecorder()
	r.MarkShape(2, true)
	r.Line(0, 0, 1, 1, testStyle)
	r.Reset()
	assert.Empty(t, r.Commands())
	r.Line(0, 0, 1, 1, testStyle)
	assert.Equal(t, 0, r.Commands()[0].Shape)
	assert.False(t, r.Commands()[0].Undone)
}

func TestRenderManager(t *testing.T) {
	m := sketch.NewManager(sketch.WithStyle(testStyle))
	m.SelectTool(1) // rect
	m.Start(0, 0)
	m.Drag(10, 10)
	m.Start(20, 20)
	m.Drag(30, 30)
	m.Start(40, 40)
	m.Drag(50, 50)
	require.True(t, m.Undo())

	r := NewRecorder()
	m.RenderHighlightLast(r)
	cmds := r.Commands()
	require.Len(t, cmds, 2)
	assert.Equal(t, 0, cmds[0].Shape)
	assert.Equal(t, sketch.NoHighlightColor.CSS(), cmds[0].Stroke)
	assert.Equal(t, 1, cmds[1].Shape)
	assert.Equal(t, sketch.HighlightColor.CSS(), cmds[1].Stroke)

	r.Reset()
	m.RenderUndone(r)
	require.Len(t, r.Commands(), 1)
	assert.True(t, r.Commands()[0].Undone)
	assert.Equal(t, sketch.UndoneColor.CSS(), r.Commands()[0].Stroke)

	// the manager's own styles are untouched by the tinted passes
	r.Reset()
	m.Render(r)
	assert.Equal(t, testStyle.StrokeColor.CSS(), r.Commands()[0].Stroke)
	assert.Equal(t, geom.Rect{X: 0, Y: 0, Width: 30, Height: 30}, Bounds(r.Commands()))
}

func TestHitTest(t *testing.T) {
	r := NewRecorder()
	r.MarkShape(0, false)
	r.Rect(0, 0, 100, 100, testStyle)
	r.MarkShape(1, false)
	r.Rect(50, 50, 60, 60, testStyle)
	r.MarkShape(0, true)
	r.Rect(0, 0, 200, 200, testStyle)
	cmds := r.Commands()

	testCases := []struct {
		name  string
		x, y  float64
		shape int
		hit   bool
	}{
		{"topmost wins", 55, 55, 1, true},
		{"below", 10, 10, 0, true},
		{"stroke edge", 101.5, 50, 0, true},
		{"undone ignored", 150, 150, -1, false},
		{"outside", -10, 50, -1, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := HitTest(cmds, tc.x, tc.y, 0)
			assert.Equal(t, tc.hit, ok)
			assert.Equal(t, tc.shape, got)
		})
	}

	got, ok := HitTest(cmds, 104, 50, 2)
	assert.True(t, ok)
	assert.Equal(t, 0, got)

	got, ok = HitTestScreen(cmds, Zoom(2), 110, 110, 0)
	assert.True(t, ok)
	assert.Equal(t, 1, got)
}

func TestBounds_Empty(t *testing.T) {
	assert.Equal(t, geom.Rect{}, Bounds(nil))
}

func TestView(t *testing.T) {
	v := Zoom(2).Then(Pan(10, 5))
	x, y := v.Apply(3, 4)
	assert.Equal(t, 16.0, x)
	assert.Equal(t, 13.0, y)

	x, y = v.Invert().Apply(16, 13)
	assert.InDelta(t, 3, x, 1e-12)
	assert.InDelta(t, 4, y, 1e-12)

	assert.Equal(t, geom.Rect{X: 10, Y: 5, Width: 4, Height: 2}, v.ApplyRect(geom.Rect{Width: 2, Height: 1}))
	assert.True(t, Identity().IsIdentity())
	assert.Nil(t, Identity().Slice())
	assert.Equal(t, []float64{2, 0, 0, 2, 10, 5}, v.Slice())
	assert.Equal(t, Identity(), View{}.Invert())
}

func TestFrame_JSON(t *testing.T) {
	data, err := json.Marshal(NewFrame(nil, Identity()))
	require.NoError(t, err)
	assert.JSONEq(t, `{"commands":[]}`, string(data))

	s, err := DrawCommandsToJSON(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", s)

	r := NewRecorder()
	r.Oval(0, 0, 4, 2, testStyle)
	s, err = DrawCommandsToJSON(r.Commands())
	require.NoError(t, err)

	var back []map[string]any
	require.NoError(t, json.Unmarshal([]byte(s), &back))
	require.Len(t, back, 1)
	path := back[0]["path"].([]any)
	assert.Equal(t, []any{"E", 2.0, 1.0, 2.0, 1.0, 0.0, 2 * math.Pi, false}, path[0])
}
