// Package sketch owns a drawing: the ordered shape collection, its undo and
// redo history and the interactive edit protocol that turns pointer gestures
// into shape changes.
//
// A Manager is not safe for concurrent use. Hosts that share one between
// goroutines must serialize access.
package sketch

import (
	"errors"

	"github.com/inamate/sketchpad/internal/shape"
)

var (
	// ErrPartialLoad is returned when a document parsed but some of its
	// elements could not be turned into shapes. The others were loaded.
	ErrPartialLoad = errors.New("some elements were skipped")
	// ErrPartialSave is returned when some shapes could not be written.
	ErrPartialSave = errors.New("some shapes were not written")
)

const (
	DefaultColor       shape.Color = 0xffff00ff
	HighlightColor     shape.Color = DefaultColor
	NoHighlightColor   shape.Color = 0x30ff00ff
	UndoneColor        shape.Color = 0x20000000
	DefaultStrokeWidth             = 20
	DefaultTextSize                = 60
)

// DefaultStyle is the paint of newly drawn shapes.
func DefaultStyle() shape.Style {
	return shape.Style{
		StrokeColor: DefaultColor,
		StrokeWidth: DefaultStrokeWidth,
		FillStyle:   shape.Stroke,
	}
}

// DefaultTextStyle is the paint of newly placed text.
func DefaultTextStyle() shape.Style {
	return shape.Style{
		StrokeColor: DefaultColor,
		FillStyle:   shape.Fill,
		FillColor:   DefaultColor,
		FontSize:    DefaultTextSize,
	}
}

// Tool is an entry of the tool table.
type Tool struct {
	Name string     `json:"name"`
	Kind shape.Kind `json:"kind"`
	// MultiClick tools keep extending the same shape on every Start until the
	// edit is finished.
	MultiClick bool `json:"multiClick"`
}

var defaultTools = []Tool{
	{Name: "line", Kind: shape.KindLine},
	{Name: "rect", Kind: shape.KindRect},
	{Name: "circle", Kind: shape.KindCircle},
	{Name: "arc", Kind: shape.KindArc, MultiClick: true},
	{Name: "ellipse", Kind: shape.KindEllipse},
	{Name: "polyline", Kind: shape.KindPolyline, MultiClick: true},
	{Name: "polygon", Kind: shape.KindPolygon, MultiClick: true},
	{Name: "text", Kind: shape.KindText},
}

// Option configures a Manager.
type Option func(*Manager)

// WithStyle sets the paint copied into every new non-text shape.
func WithStyle(st shape.Style) Option {
	return func(m *Manager) { m.style = st }
}

// WithTextStyle sets the paint copied into every new text shape.
func WithTextStyle(st shape.Style) Option {
	return func(m *Manager) { m.textStyle = st }
}

// WithTextRequest registers fn to be called after a text shape is placed, so
// the host can ask for its content and pass it to SetText.
func WithTextRequest(fn func()) Option {
	return func(m *Manager) { m.onTextRequest = fn }
}

// Manager holds the shapes of one drawing.
type Manager struct {
	tools []Tool
	tool  int

	style         shape.Style
	textStyle     shape.Style
	onTextRequest func()

	// Output size, negative when unset
	width, height float64

	active  []shape.Shape // draw order
	undone  []shape.Shape // last undone at the end
	editing bool

	// Reference point of an ongoing move
	baseX, baseY float64
}

// NewManager creates an empty drawing with the line tool selected.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		tools:     defaultTools,
		style:     DefaultStyle(),
		textStyle: DefaultTextStyle(),
		width:     -1,
		height:    -1,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// --- Tools ---

// Tools returns the tool table. Indexes into it are what SelectTool takes.
func (m *Manager) Tools() []Tool {
	return append([]Tool(nil), m.tools...)
}

// SelectTool switches the tool used by the next Start and ends any edit in
// progress. Out of range indexes are ignored.
func (m *Manager) SelectTool(index int) {
	if index < 0 || index >= len(m.tools) {
		return
	}
	m.tool = index
	m.editing = false
}

// Tool returns the index of the selected tool.
func (m *Manager) Tool() int {
	return m.tool
}

// --- Edit protocol ---

// Start handles a pointer press at (x, y). While a multi-click shape of the
// selected kind is being edited the point is added to it; otherwise a new
// shape is created, which discards the redo history.
func (m *Manager) Start(x, y float64) {
	tool := m.tools[m.tool]

	if tail := m.tail(); m.editing && tail != nil && tail.Kind() == tool.Kind {
		tail.AddPoint(x, y)
		return
	}

	st := m.style
	if tool.Kind == shape.KindText {
		st = m.textStyle
	}
	s, err := shape.New(tool.Kind, x, y, st)
	if err != nil {
		return
	}

	m.editing = tool.MultiClick
	m.active = append(m.active, s)
	m.undone = nil

	if tool.Kind == shape.KindText && m.onTextRequest != nil {
		m.onTextRequest()
	}
}

// Drag moves the last placed point of the tail shape.
func (m *Manager) Drag(x, y float64) {
	if tail := m.tail(); tail != nil {
		tail.SetLastPoint(x, y)
	}
}

// FinishEdit ends the multi-click edit in progress, if any.
func (m *Manager) FinishEdit() {
	m.editing = false
}

// Editing reports whether the tail shape is still being extended.
func (m *Manager) Editing() bool {
	return m.editing
}

// BeginMove records the reference point for ContinueMove.
func (m *Manager) BeginMove(x, y float64) {
	m.baseX, m.baseY = x, y
}

// ContinueMove translates the tail shape by the distance from the reference
// point to (x, y) and makes (x, y) the new reference.
func (m *Manager) ContinueMove(x, y float64) {
	tail := m.tail()
	if tail == nil {
		return
	}
	tail.Translate(x-m.baseX, y-m.baseY)
	m.baseX, m.baseY = x, y
}

// DuplicateAt appends a copy of the tail shape with its anchor moved to
// (x, y). The redo history is kept.
func (m *Manager) DuplicateAt(x, y float64) {
	tail := m.tail()
	if tail == nil {
		return
	}
	c := tail.Clone()
	c.TranslateTo(x, y)
	m.active = append(m.active, c)
}

// SetText replaces the content of the tail shape. Only text shapes use it.
func (m *Manager) SetText(text string) {
	if tail := m.tail(); tail != nil {
		tail.SetPayload(text)
	}
}

// SetAttributeID sets the identifier written with the tail shape.
func (m *Manager) SetAttributeID(id string) {
	if tail := m.tail(); tail != nil {
		tail.SetAttributeID(id)
	}
}

// --- History ---

// Undo moves the tail shape to the redo history. It reports false when there
// is nothing to undo.
func (m *Manager) Undo() bool {
	m.editing = false
	n := len(m.active)
	if n == 0 {
		return false
	}
	m.undone = append(m.undone, m.active[n-1])
	m.active[n-1] = nil
	m.active = m.active[:n-1]
	return true
}

// Redo restores the most recently undone shape. It reports false when there
// is nothing to redo.
func (m *Manager) Redo() bool {
	m.editing = false
	n := len(m.undone)
	if n == 0 {
		return false
	}
	m.active = append(m.active, m.undone[n-1])
	m.undone[n-1] = nil
	m.undone = m.undone[:n-1]
	return true
}

func (m *Manager) CanUndo() bool { return len(m.active) > 0 }

func (m *Manager) CanRedo() bool { return len(m.undone) > 0 }

// Clear undoes every shape. They stay available to Redo.
func (m *Manager) Clear() {
	for m.Undo() {
	}
}

// --- Queries ---

// Len returns the number of visible shapes.
func (m *Manager) Len() int {
	return len(m.active)
}

// UndoneLen returns the number of shapes available to Redo.
func (m *Manager) UndoneLen() int {
	return len(m.undone)
}

// Shapes returns copies of the visible shapes in draw order.
func (m *Manager) Shapes() []shape.Shape {
	out := make([]shape.Shape, len(m.active))
	for i, s := range m.active {
		out[i] = s.Clone()
	}
	return out
}

// SetCanvasSize sets the size written to SVG output. A negative value omits it.
func (m *Manager) SetCanvasSize(width, height float64) {
	m.width, m.height = width, height
}

// CanvasSize returns the size set by SetCanvasSize.
func (m *Manager) CanvasSize() (float64, float64) {
	return m.width, m.height
}

func (m *Manager) tail() shape.Shape {
	if len(m.active) == 0 {
		return nil
	}
	return m.active[len(m.active)-1]
}
