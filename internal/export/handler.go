package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/inamate/sketchpad/internal/session"
	"github.com/inamate/sketchpad/internal/sketch"
)

// Sessions gives serialized access to the drawing of a session.
type Sessions interface {
	View(ctx context.Context, id string, fn func(*sketch.Manager) error) error
}

type Handler struct {
	sessions Sessions
}

func NewHandler(sessions Sessions) *Handler {
	return &Handler{sessions: sessions}
}

// ExportSVG serves the visible shapes as an SVG download. Shapes that cannot
// be written are left out and reported in the X-Skipped-Shapes header.
func (h *Handler) ExportSVG(w http.ResponseWriter, r *http.Request) {
	h.export(w, r, "svg", "image/svg+xml", func(buf io.Writer, m *sketch.Manager) error {
		return m.Serialize(buf)
	})
}

// ExportPDF serves the visible shapes as a one page PDF download.
func (h *Handler) ExportPDF(w http.ResponseWriter, r *http.Request) {
	h.export(w, r, "pdf", "application/pdf", func(buf io.Writer, m *sketch.Manager) error {
		_, err := WritePDF(buf, m)
		return err
	})
}

func (h *Handler) export(w http.ResponseWriter, r *http.Request, format, contentType string, write func(io.Writer, *sketch.Manager) error) {
	id := mux.Vars(r)["sessionId"]
	name := fileName(r.URL.Query().Get("name"))

	var buf bytes.Buffer
	partial := false
	err := h.sessions.View(r.Context(), id, func(m *sketch.Manager) error {
		err := write(&buf, m)
		if errors.Is(err, sketch.ErrPartialSave) {
			partial = true
			return nil
		}
		return err
	})
	switch {
	case errors.Is(err, session.ErrNotFound):
		http.Error(w, "session not found", http.StatusNotFound)
		return
	case err != nil:
		slog.Error("export failed", "session", id, "format", format, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if partial {
		slog.Warn("export skipped shapes", "session", id, "format", format)
		w.Header().Set("X-Skipped-Shapes", "true")
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.%s"`, name, format))
	size := buf.Len()
	w.Header().Set("Content-Length", strconv.Itoa(size))
	if _, err := buf.WriteTo(w); err != nil {
		slog.Debug("export write aborted", "session", id, "error", err)
		return
	}

	slog.Info("export complete", "session", id, "format", format, "size", size)
}

// fileName keeps letters, digits, '-' and '_' of name and replaces the rest.
func fileName(name string) string {
	if name == "" {
		return "sketch"
	}
	return strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			return r
		}
		return '-'
	}, name)
}
