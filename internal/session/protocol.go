package session

import (
	"encoding/json"

	"github.com/inamate/sketchpad/internal/render"
	"github.com/inamate/sketchpad/internal/shape"
	"github.com/inamate/sketchpad/internal/sketch"
)

type Message struct {
	Type      string          `json:"type"`
	SessionID string          `json:"sessionId,omitempty"`
	ClientID  string          `json:"clientId,omitempty"`
	Seq       int64           `json:"seq,omitempty"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

const (
	// Connection
	TypeWelcome = "welcome"
	TypeError   = "error"

	// Server → client
	TypeRender = "render"

	// Client → server
	TypeGestureTool      = "gesture.tool"
	TypeGestureStart     = "gesture.start"
	TypeGestureDrag      = "gesture.drag"
	TypeGestureFinish    = "gesture.finish"
	TypeGestureMoveBegin = "gesture.move.begin"
	TypeGestureMove      = "gesture.move"
	TypeGestureDuplicate = "gesture.duplicate"
	TypeGestureUndo      = "gesture.undo"
	TypeGestureRedo      = "gesture.redo"
	TypeGestureClear     = "gesture.clear"
	TypeGestureText      = "gesture.text"
	TypeGestureID        = "gesture.id"
	TypeGestureSize      = "gesture.size"
)

// PointPayload carries a canvas position.
type PointPayload struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type ToolPayload struct {
	Index int `json:"index"`
}

type TextPayload struct {
	Text string `json:"text"`
}

type IDPayload struct {
	ID string `json:"id"`
}

type SizePayload struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

type WelcomePayload struct {
	ClientID string `json:"clientId"`
	State    State  `json:"state"`
}

// RenderPayload is pushed to every client of a session after a change.
type RenderPayload struct {
	Mode  Mode         `json:"mode"`
	Frame render.Frame `json:"frame"`
	State State        `json:"state"`
}

// State summarizes a drawing for clients.
type State struct {
	Tools   []sketch.Tool `json:"tools"`
	Tool    int           `json:"tool"`
	CanUndo bool          `json:"canUndo"`
	CanRedo bool          `json:"canRedo"`
	Editing bool          `json:"editing"`
	Width   float64       `json:"width"`
	Height  float64       `json:"height"`
	Shapes  shape.List    `json:"shapes"`
}

// StateOf captures the state of m. The shapes are copies.
func StateOf(m *sketch.Manager) State {
	w, h := m.CanvasSize()
	return State{
		Tools:   m.Tools(),
		Tool:    m.Tool(),
		CanUndo: m.CanUndo(),
		CanRedo: m.CanRedo(),
		Editing: m.Editing(),
		Width:   w,
		Height:  h,
		Shapes:  m.Shapes(),
	}
}
