package shape

import (
	"encoding/json"
	"fmt"
)

type envelope struct {
	Kind  Kind            `json:"kind"`
	Shape json.RawMessage `json:"shape"`
}

// List is an ordered shape collection with a JSON encoding that keeps each
// element's variant.
type List []Shape

func (l List) MarshalJSON() ([]byte, error) {
	out := make([]envelope, 0, len(l))
	for i, s := range l {
		data, err := json.Marshal(s)
		if err != nil {
			return nil, fmt.Errorf("marshal shape %d: %w", i, err)
		}
		out = append(out, envelope{Kind: s.Kind(), Shape: data})
	}
	return json.Marshal(out)
}

func (l *List) UnmarshalJSON(data []byte) error {
	var in []envelope
	if err := json.Unmarshal(data, &in); err != nil {
		return fmt.Errorf("unmarshal shapes: %w", err)
	}

	out := make(List, 0, len(in))
	for i, e := range in {
		s, err := zero(e.Kind)
		if err != nil {
			return fmt.Errorf("shape %d: %w", i, err)
		}
		if err := json.Unmarshal(e.Shape, s); err != nil {
			return fmt.Errorf("unmarshal shape %d (%s): %w", i, e.Kind, err)
		}
		out = append(out, s)
	}
	*l = out
	return nil
}

func zero(kind Kind) (Shape, error) {
	switch kind {
	case KindLine:
		return &Line{}, nil
	case KindRect:
		return &Rect{}, nil
	case KindCircle:
		return &Circle{}, nil
	case KindEllipse:
		return &Ellipse{}, nil
	case KindArc:
		return &Arc{}, nil
	case KindPolygon:
		return &Polygon{}, nil
	case KindPolyline:
		return &Polyline{}, nil
	case KindText:
		return &Text{}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
}
