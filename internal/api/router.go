package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/inamate/sketchpad/internal/auth"
	"github.com/inamate/sketchpad/internal/export"
	"github.com/inamate/sketchpad/internal/session"
)

type Deps struct {
	Hub            *session.Hub
	Auth           *auth.Service
	AllowedOrigins []string
}

// NewRouter wires every route. CORS wraps the router itself so preflight
// requests are answered even though no route matches OPTIONS.
func NewRouter(d Deps) http.Handler {
	h := NewHandler(d.Hub, d.Auth)
	authHandler := auth.NewHandler(d.Auth)
	exportHandler := export.NewHandler(d.Hub)

	r := mux.NewRouter()

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "sessions": d.Hub.Len()})
	}).Methods("GET")

	r.HandleFunc("/api/sessions", h.Create).Methods("POST")

	// Session routes, authorized by the session token
	s := r.PathPrefix("/api/sessions/{" + auth.SessionVar + "}").Subrouter()
	s.Use(d.Auth.AuthMiddleware)

	s.HandleFunc("/token", authHandler.Refresh).Methods("POST")
	s.HandleFunc("", h.State).Methods("GET")
	s.HandleFunc("/render", h.Render).Methods("GET")
	s.HandleFunc("/hit", h.HitTest).Methods("GET")
	s.HandleFunc("/bounds", h.Bounds).Methods("GET")

	for path, typ := range map[string]string{
		"/tool":       session.TypeGestureTool,
		"/start":      session.TypeGestureStart,
		"/drag":       session.TypeGestureDrag,
		"/finish":     session.TypeGestureFinish,
		"/move/begin": session.TypeGestureMoveBegin,
		"/move":       session.TypeGestureMove,
		"/duplicate":  session.TypeGestureDuplicate,
		"/undo":       session.TypeGestureUndo,
		"/redo":       session.TypeGestureRedo,
		"/clear":      session.TypeGestureClear,
		"/text":       session.TypeGestureText,
		"/id":         session.TypeGestureID,
		"/size":       session.TypeGestureSize,
	} {
		s.HandleFunc(path, h.Gesture(typ)).Methods("POST")
	}

	s.HandleFunc("/import.svg", h.Import).Methods("PUT")
	s.HandleFunc("/export.svg", exportHandler.ExportSVG).Methods("GET")
	s.HandleFunc("/export.pdf", exportHandler.ExportPDF).Methods("GET")
	s.HandleFunc("/snapshot", h.Snapshot).Methods("POST")
	s.HandleFunc("/restore", h.Restore).Methods("POST")

	// Browsers cannot set headers on websocket upgrades; the token comes in
	// the query string.
	ws := r.PathPrefix("/ws/sessions/{" + auth.SessionVar + "}").Subrouter()
	ws.Use(d.Auth.AuthMiddleware)
	ws.HandleFunc("", h.WebSocket(OriginPatterns(d.AllowedOrigins)))

	var handler http.Handler = r
	handler = CORS(d.AllowedOrigins)(handler)
	handler = Logger(handler)
	handler = Recovery(handler)
	return handler
}
