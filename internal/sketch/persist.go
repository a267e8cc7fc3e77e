package sketch

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/inamate/sketchpad/internal/shape"
	"github.com/inamate/sketchpad/internal/svg"
)

// Serialize writes the visible shapes as an SVG document. Shapes that cannot
// be expressed in SVG (a polygon with fewer than three vertices) are left out
// and reported through ErrPartialSave after the document has been written.
// Errors from w are returned as is, wrapped.
func (m *Manager) Serialize(w io.Writer) error {
	sw := svg.NewWriter()
	if m.width >= 0 && m.height >= 0 {
		sw.SetSize(m.width, m.height)
	}

	var errs []error
	for i, s := range m.active {
		if err := s.EncodeSVG(sw); err != nil {
			errs = append(errs, fmt.Errorf("shape %d: %w", i, err))
		}
	}

	if _, err := sw.WriteTo(w); err != nil {
		return fmt.Errorf("write svg: %w", err)
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrPartialSave, errors.Join(errs...))
	}
	return nil
}

// Deserialize appends the shapes of an SVG document to the drawing and drops
// the redo history. A malformed document leaves the drawing untouched. The
// document size is adopted when no canvas size is set.
// Elements that do not yield a shape are skipped; if any were, the error
// wraps ErrPartialLoad while the rest of the document is still loaded.
func (m *Manager) Deserialize(r io.Reader) error {
	var (
		loaded []shape.Shape
		errs   []error
	)
	doc, err := svg.Parse(r, func(el svg.Element) {
		s, err := shape.FromElement(el)
		if err != nil {
			errs = append(errs, fmt.Errorf("<%s>: %w", el.Tag(), err))
			return
		}
		loaded = append(loaded, s)
	})
	if err != nil {
		return fmt.Errorf("parse svg: %w", err)
	}

	m.active = append(m.active, loaded...)
	m.undone = nil
	m.editing = false
	if doc.HasSize && (m.width < 0 || m.height < 0) {
		m.width, m.height = doc.Width, doc.Height
	}

	errs = append(doc.Skipped, errs...)
	if len(errs) > 0 {
		total := doc.Elements + len(doc.Skipped)
		return fmt.Errorf("%w: %d of %d: %w", ErrPartialLoad, len(errs), total, errors.Join(errs...))
	}
	return nil
}

type snapshot struct {
	Active  shape.List  `json:"active"`
	Undone  shape.List  `json:"undone"`
	Editing bool        `json:"editing"`
	Tool    int         `json:"tool"`
	Canvas  *canvasSize `json:"canvas,omitempty"`
}

type canvasSize struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// SaveSnapshot writes the complete drawing state, history included.
func (m *Manager) SaveSnapshot(w io.Writer) error {
	snap := snapshot{Active: m.active, Undone: m.undone, Editing: m.editing, Tool: m.tool}
	if m.width >= 0 && m.height >= 0 {
		snap.Canvas = &canvasSize{Width: m.width, Height: m.height}
	}
	if err := json.NewEncoder(w).Encode(snap); err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return nil
}

// RestoreSnapshot replaces the drawing state with one written by SaveSnapshot.
// On error the drawing is unchanged.
func (m *Manager) RestoreSnapshot(r io.Reader) error {
	var snap snapshot
	if err := json.NewDecoder(r).Decode(&snap); err != nil {
		return fmt.Errorf("decode snapshot: %w", err)
	}
	m.active = snap.Active
	m.undone = snap.Undone
	m.editing = snap.Editing
	if snap.Tool >= 0 && snap.Tool < len(m.tools) {
		m.tool = snap.Tool
	}
	m.width, m.height = -1, -1
	if snap.Canvas != nil {
		m.width, m.height = snap.Canvas.Width, snap.Canvas.Height
	}
	return nil
}
