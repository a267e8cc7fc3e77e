//go:build js && wasm

package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"syscall/js"

	"github.com/inamate/sketchpad/internal/render"
	"github.com/inamate/sketchpad/internal/sketch"
)

var m *sketch.Manager

func main() {
	m = sketch.NewManager(sketch.WithTextRequest(func() {
		if fn := js.Global().Get("sketchTextRequested"); fn.Type() == js.TypeFunction {
			fn.Invoke()
		}
	}))

	api := js.Global().Get("Object").New()

	// --- Commands (frontend → backend) ---
	api.Set("selectTool", js.FuncOf(selectTool))
	api.Set("start", js.FuncOf(pointCommand(m.Start)))
	api.Set("drag", js.FuncOf(pointCommand(m.Drag)))
	api.Set("finishEdit", js.FuncOf(command(m.FinishEdit)))
	api.Set("beginMove", js.FuncOf(pointCommand(m.BeginMove)))
	api.Set("move", js.FuncOf(pointCommand(m.ContinueMove)))
	api.Set("duplicate", js.FuncOf(pointCommand(m.DuplicateAt)))
	api.Set("undo", js.FuncOf(func(this js.Value, args []js.Value) interface{} { return js.ValueOf(m.Undo()) }))
	api.Set("redo", js.FuncOf(func(this js.Value, args []js.Value) interface{} { return js.ValueOf(m.Redo()) }))
	api.Set("clear", js.FuncOf(command(m.Clear)))
	api.Set("setText", js.FuncOf(stringCommand(m.SetText)))
	api.Set("setId", js.FuncOf(stringCommand(m.SetAttributeID)))
	api.Set("setCanvasSize", js.FuncOf(setCanvasSize))
	api.Set("loadSVG", js.FuncOf(loadSVG))
	api.Set("restoreSnapshot", js.FuncOf(restoreSnapshot))

	// --- Queries (frontend ← backend) ---
	api.Set("render", js.FuncOf(renderFrame))
	api.Set("hitTest", js.FuncOf(hitTest))
	api.Set("getState", js.FuncOf(getState))
	api.Set("toSVG", js.FuncOf(toSVG))
	api.Set("saveSnapshot", js.FuncOf(saveSnapshot))

	js.Global().Set("sketchpad", api)
	js.Global().Set("sketchpadWasmReady", js.ValueOf(true))

	// Keep Go runtime alive
	select {}
}

func command(fn func()) func(js.Value, []js.Value) interface{} {
	return func(this js.Value, args []js.Value) interface{} {
		fn()
		return nil
	}
}

func pointCommand(fn func(x, y float64)) func(js.Value, []js.Value) interface{} {
	return func(this js.Value, args []js.Value) interface{} {
		if len(args) < 2 {
			return nil
		}
		fn(args[0].Float(), args[1].Float())
		return nil
	}
}

func stringCommand(fn func(string)) func(js.Value, []js.Value) interface{} {
	return func(this js.Value, args []js.Value) interface{} {
		if len(args) < 1 {
			return nil
		}
		fn(args[0].String())
		return nil
	}
}

func result(err error) interface{} {
	if err != nil {
		return js.ValueOf(map[string]interface{}{"error": err.Error()})
	}
	return js.ValueOf(map[string]interface{}{"ok": true})
}

func selectTool(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return nil
	}
	m.SelectTool(args[0].Int())
	return nil
}

func setCanvasSize(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return nil
	}
	m.SetCanvasSize(args[0].Float(), args[1].Float())
	return nil
}

func loadSVG(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return js.ValueOf(map[string]interface{}{"error": "missing SVG text"})
	}
	return result(m.Deserialize(strings.NewReader(args[0].String())))
}

func restoreSnapshot(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return js.ValueOf(map[string]interface{}{"error": "missing snapshot JSON"})
	}
	return result(m.RestoreSnapshot(strings.NewReader(args[0].String())))
}

// --- Query Handlers ---

// frame records the drawing; mode is "plain", "highlight" or "undone".
func frame(mode string) []render.DrawCommand {
	rec := render.NewRecorder()
	switch mode {
	case "highlight":
		m.RenderHighlightLast(rec)
	case "undone":
		m.RenderUndone(rec)
		m.Render(rec)
	default:
		m.Render(rec)
	}
	return rec.Commands()
}

func renderFrame(this js.Value, args []js.Value) interface{} {
	mode := ""
	if len(args) > 0 && args[0].Type() == js.TypeString {
		mode = args[0].String()
	}
	data, err := json.Marshal(render.NewFrame(frame(mode), render.Identity()))
	if err != nil {
		return js.ValueOf("{}")
	}
	return js.ValueOf(string(data))
}

func hitTest(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return js.ValueOf(-1)
	}
	index, ok := render.HitTest(frame("plain"), args[0].Float(), args[1].Float(), 4)
	if !ok {
		return js.ValueOf(-1)
	}
	return js.ValueOf(index)
}

func getState(this js.Value, args []js.Value) interface{} {
	w, h := m.CanvasSize()
	data, err := json.Marshal(map[string]interface{}{
		"tools":   m.Tools(),
		"tool":    m.Tool(),
		"canUndo": m.CanUndo(),
		"canRedo": m.CanRedo(),
		"editing": m.Editing(),
		"width":   w,
		"height":  h,
	})
	if err != nil {
		return js.ValueOf("{}")
	}
	return js.ValueOf(string(data))
}

func toSVG(this js.Value, args []js.Value) interface{} {
	var buf bytes.Buffer
	err := m.Serialize(&buf)
	out := map[string]interface{}{"svg": buf.String()}
	if err != nil {
		out["error"] = err.Error()
	}
	return js.ValueOf(out)
}

func saveSnapshot(this js.Value, args []js.Value) interface{} {
	var buf bytes.Buffer
	if err := m.SaveSnapshot(&buf); err != nil {
		return js.ValueOf(map[string]interface{}{"error": err.Error()})
	}
	return js.ValueOf(buf.String())
}
