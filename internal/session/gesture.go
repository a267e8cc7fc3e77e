package session

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/inamate/sketchpad/internal/render"
	"github.com/inamate/sketchpad/internal/sketch"
)

var ErrUnknownGesture = errors.New("unknown gesture")

// Mode selects the render pass used for a frame.
type Mode string

const (
	ModePlain     Mode = "plain"
	ModeHighlight Mode = "highlight"
	ModeUndone    Mode = "undone"
)

// ParseMode maps a query value to a Mode; empty means plain.
func ParseMode(s string) (Mode, bool) {
	switch Mode(s) {
	case "", ModePlain:
		return ModePlain, true
	case ModeHighlight, ModeUndone:
		return Mode(s), true
	}
	return "", false
}

// Frame renders m in the given mode. The undone mode draws the dimmed redo
// history underneath the visible shapes.
func Frame(m *sketch.Manager, mode Mode) []render.DrawCommand {
	rec := render.NewRecorder()
	switch mode {
	case ModeHighlight:
		m.RenderHighlightLast(rec)
	case ModeUndone:
		m.RenderUndone(rec)
		m.Render(rec)
	default:
		m.Render(rec)
	}
	return rec.Commands()
}

// Gesture is one edit request: a message type and its decoded payload.
type Gesture struct {
	Type    string
	Payload json.RawMessage
}

// moving reports whether the gesture is part of a move, which renders with
// the tail highlighted when that preference is on.
func (g Gesture) moving() bool {
	return g.Type == TypeGestureMoveBegin || g.Type == TypeGestureMove || g.Type == TypeGestureDuplicate
}

// Apply performs g on m.
func Apply(m *sketch.Manager, g Gesture) error {
	switch g.Type {
	case TypeGestureTool:
		var p ToolPayload
		if err := decode(g, &p); err != nil {
			return err
		}
		m.SelectTool(p.Index)

	case TypeGestureStart, TypeGestureDrag, TypeGestureMoveBegin, TypeGestureMove, TypeGestureDuplicate:
		var p PointPayload
		if err := decode(g, &p); err != nil {
			return err
		}
		switch g.Type {
		case TypeGestureStart:
			m.Start(p.X, p.Y)
		case TypeGestureDrag:
			m.Drag(p.X, p.Y)
		case TypeGestureMoveBegin:
			m.BeginMove(p.X, p.Y)
		case TypeGestureMove:
			m.ContinueMove(p.X, p.Y)
		case TypeGestureDuplicate:
			m.DuplicateAt(p.X, p.Y)
		}

	case TypeGestureFinish:
		m.FinishEdit()
	case TypeGestureUndo:
		m.Undo()
	case TypeGestureRedo:
		m.Redo()
	case TypeGestureClear:
		m.Clear()

	case TypeGestureText:
		var p TextPayload
		if err := decode(g, &p); err != nil {
			return err
		}
		m.SetText(p.Text)

	case TypeGestureID:
		var p IDPayload
		if err := decode(g, &p); err != nil {
			return err
		}
		m.SetAttributeID(p.ID)

	case TypeGestureSize:
		var p SizePayload
		if err := decode(g, &p); err != nil {
			return err
		}
		m.SetCanvasSize(p.Width, p.Height)

	default:
		return fmt.Errorf("%w: %q", ErrUnknownGesture, g.Type)
	}
	return nil
}

func decode(g Gesture, v any) error {
	if len(g.Payload) == 0 {
		return fmt.Errorf("%s: missing payload", g.Type)
	}
	if err := json.Unmarshal(g.Payload, v); err != nil {
		return fmt.Errorf("%s: %w", g.Type, err)
	}
	return nil
}
