// Package render records shape draw calls as a command buffer a browser
// canvas can replay, and answers geometric queries (bounds, hit tests) over
// such buffers.
package render

import (
	"encoding/json"

	"github.com/inamate/sketchpad/internal/geom"
)

// DrawCommand represents a single drawing operation for the frontend to execute.
// The frontend receives a list of these and executes them on a Canvas2D context.
type DrawCommand struct {
	Op          string        `json:"op"`                    // Operation: "path" or "text"
	Shape       int           `json:"shape"`                 // Index of the shape that issued it
	Undone      bool          `json:"undone,omitempty"`      // Shape comes from the redo history
	Path        []PathCommand `json:"path,omitempty"`        // Path data for "path" ops
	Text        string        `json:"text,omitempty"`        // Content for "text" ops
	X           float64       `json:"x,omitempty"`           // Text baseline origin
	Y           float64       `json:"y,omitempty"`           //
	FontSize    float64       `json:"fontSize,omitempty"`    // Text size
	Fill        string        `json:"fill,omitempty"`        // Fill color
	Stroke      string        `json:"stroke,omitempty"`      // Stroke color
	StrokeWidth float64       `json:"strokeWidth,omitempty"` // Stroke width
	Bounds      geom.Rect     `json:"bounds"`                // Canvas-space box, stroke excluded
}

// PathCommand represents a single path segment for rendering.
// Format matches Canvas2D: ["M", x, y], ["L", x, y], ["Z"] and
// ["E", cx, cy, rx, ry, startRad, endRad, anticlockwise] for ellipse arcs.
type PathCommand []any

// Frame is a render result as sent to clients.
type Frame struct {
	Transform []float64     `json:"transform,omitempty"` // [a, b, c, d, e, f] view matrix
	Commands  []DrawCommand `json:"commands"`
}

// NewFrame pairs a command buffer with the view it should be drawn under.
func NewFrame(cmds []DrawCommand, v View) Frame {
	if cmds == nil {
		cmds = []DrawCommand{}
	}
	return Frame{Transform: v.Slice(), Commands: cmds}
}

// DrawCommandsToJSON serializes draw commands to JSON.
func DrawCommandsToJSON(commands []DrawCommand) (string, error) {
	if commands == nil {
		return "[]", nil
	}
	data, err := json.Marshal(commands)
	if err != nil {
		return "[]", err
	}
	return string(data), nil
}

// Bounds returns the combined canvas-space box of the given commands.
// The zero Rect means there was nothing to measure.
func Bounds(cmds []DrawCommand) geom.Rect {
	var result geom.Rect
	first := true
	for _, c := range cmds {
		if c.Bounds.IsEmpty() {
			continue
		}
		if first {
			result = c.Bounds
			first = false
		} else {
			result = result.Union(c.Bounds)
		}
	}
	return result
}

// HitTest returns the shape index of the topmost visible command whose box,
// grown by half its stroke width plus tolerance, contains the canvas point
// (x, y). Commands of undone shapes never match.
func HitTest(cmds []DrawCommand, x, y, tolerance float64) (int, bool) {
	// Last drawn is on top
	for i := len(cmds) - 1; i >= 0; i-- {
		c := cmds[i]
		if c.Undone {
			continue
		}
		if c.Bounds.Expand(c.StrokeWidth/2 + tolerance).Contains(x, y) {
			return c.Shape, true
		}
	}
	return -1, false
}

// HitTestScreen is HitTest for a point given in screen coordinates of v.
func HitTestScreen(cmds []DrawCommand, v View, x, y, tolerance float64) (int, bool) {
	cx, cy := v.Invert().Apply(x, y)
	return HitTest(cmds, cx, cy, tolerance)
}
