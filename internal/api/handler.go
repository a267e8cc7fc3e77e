// Package api exposes sessions over HTTP: one route per drawing operation,
// render and hit-test queries, SVG/PDF export, SVG import and snapshots.
package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/inamate/sketchpad/internal/auth"
	"github.com/inamate/sketchpad/internal/geom"
	"github.com/inamate/sketchpad/internal/render"
	"github.com/inamate/sketchpad/internal/session"
	"github.com/inamate/sketchpad/internal/sketch"
	"github.com/inamate/sketchpad/internal/store"
)

const (
	maxImportSize  = 10 << 20 // 10MB
	maxGestureSize = 64 << 10
	hitTolerance   = 4
)

type Handler struct {
	hub  *session.Hub
	auth *auth.Service
}

func NewHandler(hub *session.Hub, authService *auth.Service) *Handler {
	return &Handler{hub: hub, auth: authService}
}

type createResponse struct {
	SessionID string `json:"sessionId"`
	Token     string `json:"token"`
}

type hitResponse struct {
	Hit   bool `json:"hit"`
	Index int  `json:"index"`
}

type importResponse struct {
	Skipped bool          `json:"skipped"`
	Error   string        `json:"error,omitempty"`
	State   session.State `json:"state"`
}

// Create starts a session and returns it with its token.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	id := h.hub.Create()
	token, err := h.auth.IssueToken(id)
	if err != nil {
		slog.Error("issue session token", "session", id, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}
	writeJSON(w, http.StatusCreated, createResponse{SessionID: id, Token: token})
}

// Gesture returns a handler applying one gesture type with the request body
// as payload, answering with the new state.
func (h *Handler) Gesture(typ string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := sessionID(r)
		payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxGestureSize))
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
			return
		}

		err = h.hub.Gesture(r.Context(), id, session.Gesture{Type: typ, Payload: payload})
		if err != nil {
			if errors.Is(err, session.ErrNotFound) {
				handleError(w, err)
				return
			}
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		h.writeState(w, r, id, http.StatusOK)
	}
}

func (h *Handler) State(w http.ResponseWriter, r *http.Request) {
	h.writeState(w, r, sessionID(r), http.StatusOK)
}

// Render returns the draw commands of the session. mode selects the pass;
// zoom, panX and panY set the view matrix sent along.
func (h *Handler) Render(w http.ResponseWriter, r *http.Request) {
	mode, ok := session.ParseMode(r.URL.Query().Get("mode"))
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "mode must be plain, highlight or undone"})
		return
	}
	view, err := viewFromQuery(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	var frame render.Frame
	err = h.hub.View(r.Context(), sessionID(r), func(m *sketch.Manager) error {
		frame = render.NewFrame(session.Frame(m, mode), view)
		return nil
	})
	if err != nil {
		handleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, frame)
}

// HitTest reports the topmost visible shape under the screen point (x, y).
func (h *Handler) HitTest(w http.ResponseWriter, r *http.Request) {
	x, errX := strconv.ParseFloat(r.URL.Query().Get("x"), 64)
	y, errY := strconv.ParseFloat(r.URL.Query().Get("y"), 64)
	if errX != nil || errY != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "x and y are required numbers"})
		return
	}
	view, err := viewFromQuery(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	var resp hitResponse
	err = h.hub.View(r.Context(), sessionID(r), func(m *sketch.Manager) error {
		resp.Index, resp.Hit = render.HitTestScreen(session.Frame(m, session.ModePlain), view, x, y, hitTolerance)
		return nil
	})
	if err != nil {
		handleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Bounds returns the box enclosing the visible shapes.
func (h *Handler) Bounds(w http.ResponseWriter, r *http.Request) {
	var b geom.Rect
	err := h.hub.View(r.Context(), sessionID(r), func(m *sketch.Manager) error {
		b = render.Bounds(session.Frame(m, session.ModePlain))
		return nil
	})
	if err != nil {
		handleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

// Import loads an SVG document from the request body. Elements that cannot
// be loaded are reported but do not fail the request.
func (h *Handler) Import(w http.ResponseWriter, r *http.Request) {
	id := sessionID(r)
	body := http.MaxBytesReader(w, r.Body, maxImportSize)

	err := h.hub.Import(r.Context(), id, body)
	resp := importResponse{}
	switch {
	case err == nil:
	case errors.Is(err, sketch.ErrPartialLoad):
		resp.Skipped = true
		resp.Error = err.Error()
		slog.Warn("import skipped elements", "session", id, "error", err)
	case errors.Is(err, session.ErrNotFound):
		handleError(w, err)
		return
	default:
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	err = h.hub.View(r.Context(), id, func(m *sketch.Manager) error {
		resp.State = session.StateOf(m)
		return nil
	})
	if err != nil {
		handleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Snapshot saves the session to the store.
func (h *Handler) Snapshot(w http.ResponseWriter, r *http.Request) {
	snap, err := h.hub.Save(r.Context(), sessionID(r))
	if err != nil {
		handleError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, snap)
}

// Restore replaces the drawing with the latest saved snapshot.
func (h *Handler) Restore(w http.ResponseWriter, r *http.Request) {
	id := sessionID(r)
	if _, err := h.hub.Restore(r.Context(), id); err != nil {
		handleError(w, err)
		return
	}
	h.writeState(w, r, id, http.StatusOK)
}

// WebSocket attaches a gesture client to the session.
func (h *Handler) WebSocket(originPatterns []string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.hub.ServeWS(w, r, sessionID(r), originPatterns)
	}
}

func (h *Handler) writeState(w http.ResponseWriter, r *http.Request, id string, status int) {
	var st session.State
	err := h.hub.View(r.Context(), id, func(m *sketch.Manager) error {
		st = session.StateOf(m)
		return nil
	})
	if err != nil {
		handleError(w, err)
		return
	}
	writeJSON(w, status, st)
}

func sessionID(r *http.Request) string {
	return mux.Vars(r)[auth.SessionVar]
}

// viewFromQuery builds the view from the optional zoom, panX and panY
// parameters.
func viewFromQuery(r *http.Request) (render.View, error) {
	q := r.URL.Query()
	zoom, panX, panY := 1.0, 0.0, 0.0
	for _, p := range []struct {
		name string
		dst  *float64
	}{{"zoom", &zoom}, {"panX", &panX}, {"panY", &panY}} {
		s := q.Get(p.name)
		if s == "" {
			continue
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return render.View{}, errors.New(p.name + " must be a number")
		}
		*p.dst = v
	}
	if zoom <= 0 {
		return render.View{}, errors.New("zoom must be positive")
	}
	return render.Zoom(zoom).Then(render.Pan(panX, panY)), nil
}

func handleError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, session.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "session not found"})
	case errors.Is(err, store.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no snapshot saved"})
	case errors.Is(err, store.ErrCorrupt):
		slog.Error("corrupt snapshot", "error", err)
		writeJSON(w, http.StatusConflict, map[string]string{"error": "snapshot is corrupt"})
	default:
		slog.Error("service error", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
