package svg

import (
	"fmt"

	pstrconv "github.com/tdewolff/parse/v2/strconv"
)

// scanner walks number lists as found in points and d attributes.
type scanner struct {
	b []byte
	i int
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f'
}

// skip consumes whitespace and at most one comma.
func (s *scanner) skip() {
	for s.i < len(s.b) && isSpace(s.b[s.i]) {
		s.i++
	}
	if s.i < len(s.b) && s.b[s.i] == ',' {
		s.i++
		for s.i < len(s.b) && isSpace(s.b[s.i]) {
			s.i++
		}
	}
}

func (s *scanner) done() bool {
	s.skip()
	return s.i >= len(s.b)
}

func (s *scanner) command(c byte) bool {
	s.skip()
	if s.i < len(s.b) && s.b[s.i] == c {
		s.i++
		return true
	}
	return false
}

func (s *scanner) number() (float64, bool) {
	s.skip()
	if s.i >= len(s.b) {
		return 0, false
	}
	v, n := pstrconv.ParseFloat(s.b[s.i:])
	if n == 0 {
		return 0, false
	}
	s.i += n
	return v, true
}

func (s *scanner) flag() (bool, bool) {
	s.skip()
	if s.i >= len(s.b) {
		return false, false
	}
	switch s.b[s.i] {
	case '0':
		s.i++
		return false, true
	case '1':
		s.i++
		return true, true
	}
	return false, false
}

// parseArcPath accepts exactly "M x y A rx ry rotation large sweep x y" with
// absolute commands and comma or whitespace separators.
func parseArcPath(d string) (Arc, error) {
	s := &scanner{b: []byte(d)}
	var arc Arc

	if !s.command('M') {
		return arc, fmt.Errorf("%w: %q must start with M", ErrBadPath, d)
	}
	var ok1, ok2 bool
	arc.MX, ok1 = s.number()
	arc.MY, ok2 = s.number()
	if !ok1 || !ok2 {
		return arc, fmt.Errorf("%w: %q: bad move-to", ErrBadPath, d)
	}

	if !s.command('A') {
		return arc, fmt.Errorf("%w: %q: expected A", ErrBadPath, d)
	}
	nums := [3]float64{}
	for i := range nums {
		v, ok := s.number()
		if !ok {
			return arc, fmt.Errorf("%w: %q: bad arc radii", ErrBadPath, d)
		}
		nums[i] = v
	}
	arc.RX, arc.RY, arc.Rotation = nums[0], nums[1], nums[2]

	var okL, okS bool
	arc.LargeArc, okL = s.flag()
	arc.Sweep, okS = s.flag()
	if !okL || !okS {
		return arc, fmt.Errorf("%w: %q: bad arc flags", ErrBadPath, d)
	}

	arc.X, ok1 = s.number()
	arc.Y, ok2 = s.number()
	if !ok1 || !ok2 {
		return arc, fmt.Errorf("%w: %q: bad arc end point", ErrBadPath, d)
	}

	if !s.done() {
		return arc, fmt.Errorf("%w: %q: trailing data", ErrBadPath, d)
	}
	return arc, nil
}

// parsePoints reads a flat list of coordinates. It needs an even count and at
// least two vertices.
func parsePoints(points string) ([]float64, error) {
	s := &scanner{b: []byte(points)}
	var out []float64
	for !s.done() {
		v, ok := s.number()
		if !ok {
			return nil, fmt.Errorf("%w: bad number at offset %d", ErrBadPoints, s.i)
		}
		out = append(out, v)
	}
	if len(out) < 4 || len(out)%2 != 0 {
		return nil, fmt.Errorf("%w: %d values", ErrBadPoints, len(out))
	}
	return out, nil
}
