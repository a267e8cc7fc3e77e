package sketch

import "github.com/inamate/sketchpad/internal/shape"

// ShapeMarker is implemented by surfaces that want to know which shape the
// following draw calls belong to. undone is set during RenderUndone, where
// index counts from the most recently undone shape.
type ShapeMarker interface {
	MarkShape(index int, undone bool)
}

func mark(s shape.Surface, index int, undone bool) {
	if mk, ok := s.(ShapeMarker); ok {
		mk.MarkShape(index, undone)
	}
}

// Render draws the visible shapes in order with their own styles.
func (m *Manager) Render(s shape.Surface) {
	for i, sh := range m.active {
		mark(s, i, false)
		sh.Render(s)
	}
}

// RenderHighlightLast draws the tail shape in HighlightColor and the others
// in NoHighlightColor, in draw order.
func (m *Manager) RenderHighlightLast(s shape.Surface) {
	if len(m.active) == 0 {
		return
	}
	dim := shape.Tinted(s, NoHighlightColor)
	last := len(m.active) - 1
	for i, sh := range m.active[:last] {
		mark(s, i, false)
		sh.Render(dim)
	}
	mark(s, last, false)
	m.active[last].Render(shape.Tinted(s, HighlightColor))
}

// RenderUndone draws the undone shapes in UndoneColor, most recently undone first.
func (m *Manager) RenderUndone(s shape.Surface) {
	dim := shape.Tinted(s, UndoneColor)
	for i := len(m.undone) - 1; i >= 0; i-- {
		mark(s, len(m.undone)-1-i, true)
		m.undone[i].Render(dim)
	}
}
