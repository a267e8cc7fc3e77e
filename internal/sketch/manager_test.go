package sketch

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inamate/sketchpad/internal/geom"
	"github.com/inamate/sketchpad/internal/shape"
)

const (
	toolLine = iota
	toolRect
	toolCircle
	toolArc
	toolEllipse
	toolPolyline
	toolPolygon
	toolText
)

func kinds(m *Manager) []shape.Kind {
	var out []shape.Kind
	for _, s := range m.active {
		out = append(out, s.Kind())
	}
	return out
}

func TestTools(t *testing.T) {
	m := NewManager()
	tools := m.Tools()
	require.Len(t, tools, 8)
	assert.Equal(t, shape.KindLine, tools[toolLine].Kind)
	assert.Equal(t, shape.KindArc, tools[toolArc].Kind)
	assert.Equal(t, shape.KindText, tools[toolText].Kind)
	assert.True(t, tools[toolPolygon].MultiClick)
	assert.False(t, tools[toolCircle].MultiClick)
}

func TestSelectTool_OutOfRange(t *testing.T) {
	m := NewManager()
	m.SelectTool(toolRect)
	m.SelectTool(-1)
	m.SelectTool(8)
	assert.Equal(t, toolRect, m.Tool())
}

func TestStart_SingleClickTools(t *testing.T) {
	m := NewManager()
	m.Start(0, 0)
	m.Drag(10, 10)
	assert.False(t, m.Editing())

	m.SelectTool(toolCircle)
	m.Start(5, 5)
	m.Drag(5, 8)
	m.Start(50, 50)

	assert.Equal(t, []shape.Kind{shape.KindLine, shape.KindCircle, shape.KindCircle}, kinds(m))
	assert.Equal(t, 3.0, m.active[1].(*shape.Circle).R)
}

func TestStart_MultiClickExtendsTail(t *testing.T) {
	m := NewManager()
	m.SelectTool(toolPolygon)
	m.Start(0, 0)
	assert.True(t, m.Editing())
	m.Drag(10, 0)
	m.Start(10, 10)
	m.Drag(0, 10)
	m.FinishEdit()
	m.FinishEdit()

	require.Equal(t, 1, m.Len())
	poly := m.active[0].(*shape.Polygon)
	assert.Equal(t, []float64{10, 0, 0, 10}, poly.Points)

	// after finishing, the next press starts a new polygon
	m.Start(20, 20)
	assert.Equal(t, 2, m.Len())
}

func TestStart_SwitchingToolEndsEdit(t *testing.T) {
	m := NewManager()
	m.SelectTool(toolPolyline)
	m.Start(0, 0)
	m.SelectTool(toolPolyline)
	assert.False(t, m.Editing())
	m.Start(1, 1)
	assert.Equal(t, 2, m.Len())
}

func TestStart_Arc(t *testing.T) {
	m := NewManager()
	m.SelectTool(toolArc)
	m.Start(0, 0)
	m.Drag(2, 0)
	m.Start(1, 1)
	m.Drag(1, -1)

	require.Equal(t, 1, m.Len())
	arc := m.active[0].(*shape.Arc)
	assert.Equal(t, shape.ShapingArc, arc.State)
	assert.InDelta(t, 1, arc.Radius(), 1e-9)
	assert.True(t, arc.Sweep)
}

func TestStart_Text(t *testing.T) {
	requested := 0
	m := NewManager(WithTextRequest(func() { requested++ }))
	m.SelectTool(toolText)
	m.Start(10, 20)
	assert.Equal(t, 1, requested)
	assert.False(t, m.Editing())

	m.SetText("hello")
	txt := m.active[0].(*shape.Text)
	assert.Equal(t, "hello", txt.Text)
	assert.Equal(t, DefaultTextStyle(), txt.Style())

	m.SelectTool(toolLine)
	m.Start(0, 0)
	m.SetText("ignored")
	assert.Equal(t, 1, requested)
	assert.Equal(t, DefaultStyle(), m.active[1].Style())
}

func TestMove(t *testing.T) {
	m := NewManager()
	m.SelectTool(toolCircle)
	m.Start(0, 0)

	m.BeginMove(100, 100)
	m.ContinueMove(110, 100)
	m.ContinueMove(110, 130)
	assert.Equal(t, geom.Pt(10, 30), m.active[0].Anchor())
}

func TestMove_Empty(t *testing.T) {
	m := NewManager()
	m.BeginMove(0, 0)
	m.ContinueMove(5, 5)
	m.Drag(1, 1)
	m.DuplicateAt(3, 3)
	assert.Equal(t, 0, m.Len())
}

func TestDuplicateAt(t *testing.T) {
	m := NewManager()
	m.Start(1, 2)
	m.Drag(4, 6)
	m.Start(0, 0)
	m.Drag(1, 1)
	require.True(t, m.Undo())
	require.True(t, m.CanRedo())

	m.DuplicateAt(10, 10)
	assert.True(t, m.CanRedo(), "duplicating keeps the redo history")
	require.Equal(t, 2, m.Len())

	orig := m.active[0].(*shape.Line)
	dup := m.active[1].(*shape.Line)
	assert.Equal(t, geom.Pt(1, 2), orig.Anchor())
	assert.Equal(t, geom.Pt(10, 10), dup.Anchor())
	assert.Equal(t, 13.0, dup.X2)
	assert.Equal(t, 14.0, dup.Y2)

	// the copy is independent
	m.ContinueMove(5, 5)
	assert.Equal(t, geom.Pt(1, 2), orig.Anchor())
}

func TestUndoRedo(t *testing.T) {
	const n = 5
	m := NewManager()
	for i := 0; i < n; i++ {
		m.Start(float64(i), 0)
	}
	before := m.Shapes()

	for k := 0; k <= n; k++ {
		t.Run(fmt.Sprintf("undo %d", k), func(t *testing.T) {
			for i := 0; i < k; i++ {
				require.True(t, m.Undo())
			}
			assert.Equal(t, n-k, m.Len())
			assert.Equal(t, k > 0, m.CanRedo())
			for i := 0; i < k; i++ {
				require.True(t, m.Redo())
			}
			assert.False(t, m.Redo())
			assert.Equal(t, before, m.Shapes())
		})
	}
}

func TestUndo_Empty(t *testing.T) {
	m := NewManager()
	assert.False(t, m.CanUndo())
	assert.False(t, m.Undo())
	assert.False(t, m.Redo())
}

func TestUndo_ClearsEditing(t *testing.T) {
	m := NewManager()
	m.SelectTool(toolPolygon)
	m.Start(0, 0)
	m.Start(1, 1)
	require.True(t, m.Editing())
	m.Redo()
	assert.False(t, m.Editing())
}

func TestStart_ClearsRedo(t *testing.T) {
	m := NewManager()
	m.Start(0, 0)
	m.Start(1, 1)
	m.Undo()
	m.Undo()
	assert.Equal(t, 2, m.UndoneLen())

	m.Start(2, 2)
	assert.False(t, m.CanRedo())
	assert.Equal(t, 1, m.Len())
}

func TestClear(t *testing.T) {
	m := NewManager()
	m.Start(0, 0)
	m.Start(1, 1)
	m.Clear()
	assert.Equal(t, 0, m.Len())
	assert.Equal(t, 2, m.UndoneLen())
	require.True(t, m.Redo())
	assert.Equal(t, geom.Pt(0, 0), m.active[0].Anchor())
}

func drawSample(m *Manager) {
	m.Start(0, 0)
	m.Drag(10, 10)
	m.SelectTool(toolRect)
	m.Start(5, 5)
	m.Drag(15, 20)
	m.SelectTool(toolArc)
	m.Start(0, 0)
	m.Drag(4, 0)
	m.Start(2, 1)
	m.FinishEdit()
	m.SelectTool(toolPolyline)
	m.Start(0, 0)
	m.Drag(1, 1)
	m.Start(2, 0)
	m.FinishEdit()
	m.SelectTool(toolText)
	m.Start(30, 30)
	m.SetText("note")
}

func TestSerialize_RoundTrip(t *testing.T) {
	m := NewManager()
	m.SetCanvasSize(320, 240)
	drawSample(m)

	var buf bytes.Buffer
	require.NoError(t, m.Serialize(&buf))
	assert.Contains(t, buf.String(), `width="320" height="240"`)

	loaded := NewManager()
	require.NoError(t, loaded.Deserialize(bytes.NewReader(buf.Bytes())))
	require.Equal(t, m.Len(), loaded.Len())
	assert.Equal(t, kinds(m), kinds(loaded))
	w, h := loaded.CanvasSize()
	assert.Equal(t, 320.0, w)
	assert.Equal(t, 240.0, h)

	for i := range m.active {
		assert.InDelta(t, m.active[i].Anchor().X, loaded.active[i].Anchor().X, 1e-6, "shape %d", i)
		assert.InDelta(t, m.active[i].Anchor().Y, loaded.active[i].Anchor().Y, 1e-6, "shape %d", i)
	}
	assert.Equal(t, "note", loaded.active[4].(*shape.Text).Text)
}

func TestSerialize_NoSize(t *testing.T) {
	m := NewManager()
	var buf bytes.Buffer
	require.NoError(t, m.Serialize(&buf))
	assert.NotContains(t, buf.String(), "width=")
}

func TestSerialize_PartialSave(t *testing.T) {
	m := NewManager()
	m.SelectTool(toolPolygon)
	m.Start(0, 0)
	m.FinishEdit()
	m.SelectTool(toolCircle)
	m.Start(5, 5)

	var buf bytes.Buffer
	err := m.Serialize(&buf)
	assert.ErrorIs(t, err, ErrPartialSave)
	assert.ErrorIs(t, err, shape.ErrBadPoints)
	assert.Contains(t, buf.String(), "<circle")
	assert.NotContains(t, buf.String(), "<polygon")
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestSerialize_WriterError(t *testing.T) {
	m := NewManager()
	m.Start(0, 0)
	err := m.Serialize(failingWriter{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}

func TestDeserialize_SkipsBadElements(t *testing.T) {
	m := NewManager()
	m.Start(0, 0)
	m.Undo()

	doc := `<svg>
  <circle r="1"/>
  <path d="M0,0 A0.5,0.5 0 0,1 4,0"/>
  <path d="M0,0 A1,1 45 0,1 1,1"/>
  <line x1="0" y1="0" x2="1" y2="1"/>
</svg>`
	err := m.Deserialize(strings.NewReader(doc))
	assert.ErrorIs(t, err, ErrPartialLoad)
	assert.ErrorIs(t, err, shape.ErrImpossibleArc)
	assert.ErrorIs(t, err, shape.ErrUnsupportedArc)
	assert.Equal(t, []shape.Kind{shape.KindLine}, kinds(m))
	assert.False(t, m.CanRedo(), "loading drops the redo history")
}

func TestDeserialize_TwoVertexPolylines(t *testing.T) {
	m := NewManager()
	doc := `<svg><polygon points="0,0 10,10"/><polyline points="0,0 10,10"/></svg>`
	require.NoError(t, m.Deserialize(strings.NewReader(doc)))
	assert.Equal(t, []shape.Kind{shape.KindPolygon, shape.KindPolyline}, kinds(m))
}

func TestDeserialize_BadDocument(t *testing.T) {
	m := NewManager()
	m.Start(0, 0)
	err := m.Deserialize(strings.NewReader(`<html/>`))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrPartialLoad)
	assert.Equal(t, 1, m.Len())
}

func TestSnapshot(t *testing.T) {
	m := NewManager()
	drawSample(m)
	m.SelectTool(toolPolygon)
	m.Start(0, 0)
	m.Start(3, 3)
	m.SetCanvasSize(640, 480)

	var buf bytes.Buffer
	require.NoError(t, m.SaveSnapshot(&buf))

	restored := NewManager()
	require.NoError(t, restored.RestoreSnapshot(&buf))
	assert.Equal(t, m.active, restored.active)
	assert.Equal(t, 0, restored.UndoneLen())
	assert.True(t, restored.Editing())
	assert.Equal(t, toolPolygon, restored.Tool())
	w, h := restored.CanvasSize()
	assert.Equal(t, 640.0, w)
	assert.Equal(t, 480.0, h)

	err := restored.RestoreSnapshot(strings.NewReader("{"))
	require.Error(t, err)
	assert.Equal(t, m.Len(), restored.Len())
}

func TestSnapshot_KeepsHistory(t *testing.T) {
	m := NewManager()
	drawSample(m)
	m.Undo()
	m.Undo()

	var buf bytes.Buffer
	require.NoError(t, m.SaveSnapshot(&buf))

	restored := NewManager()
	require.NoError(t, restored.RestoreSnapshot(&buf))
	assert.Equal(t, m.active, restored.active)
	assert.Equal(t, m.undone, restored.undone)
	assert.False(t, restored.Editing())

	require.True(t, restored.Redo())
	assert.Equal(t, shape.KindPolyline, restored.active[restored.Len()-1].Kind())
}
