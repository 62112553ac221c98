package dot

import (
	"math"
	"strconv"
	"strings"

	errs "github.com/matzehuels/dotlayout/pkg/errors"
)

// attrType is the declared type of a layout attribute.
type attrType int

const (
	typeString attrType = iota
	typeNumber
	typePoint
	typeRect
)

// typeOf is the attribute type table. Keys not listed are strings; pos and
// label are handled before the table is consulted.
func typeOf(key string) attrType {
	switch key {
	case AttrSize, AttrLP:
		return typePoint
	case AttrBB:
		return typeRect
	case AttrWidth, AttrHeight:
		return typeNumber
	}
	return typeString
}

// Attr is a coerced attribute.
type Attr struct {
	Key   string
	Value Value
}

// Coerce converts a raw attribute value into typed attributes.
//
// Most keys yield a single attribute. An edge pos carrying arrow prefixes
// ("s,x,y" and "e,x,y" before the control points) also yields startArrow
// and endArrow points; these come first in the result, so applying the
// attributes in order leaves pos as the last write.
//
// The "s,x,y" start-arrow prefix goes beyond the plain "e," form: Graphviz
// writes it for edges with dir=both or dir=back, and without it such
// splines would fail with NUMBER_FORMAT on their first token.
func Coerce(key, raw string) ([]Attr, error) {
	switch key {
	case AttrPos:
		return coercePos(raw)
	case AttrLabel:
		return []Attr{{Key: key, Value: String(unescapeLabel(raw))}}, nil
	}

	var v Value
	switch typeOf(key) {
	case typePoint:
		p, err := parsePoint(raw)
		if err != nil {
			return nil, err
		}
		v = PointValue(p)
	case typeRect:
		r, err := parseRect(raw)
		if err != nil {
			return nil, err
		}
		v = RectValue(r)
	case typeNumber:
		f, err := parseFloat(raw)
		if err != nil {
			return nil, err
		}
		v = Number(f)
	default:
		v = String(raw)
	}
	return []Attr{{Key: key, Value: v}}, nil
}

// coercePos parses a spline or node position, peeling off arrow prefixes.
func coercePos(raw string) ([]Attr, error) {
	var out []Attr

	if strings.HasPrefix(raw, "s,") {
		p, rest, err := splitArrow(raw)
		if err != nil {
			return nil, err
		}
		out = append(out, Attr{Key: AttrStartArrow, Value: PointValue(p)})
		raw = rest
	}
	if strings.HasPrefix(raw, "e") {
		p, rest, err := splitArrow(raw)
		if err != nil {
			return nil, err
		}
		out = append(out, Attr{Key: AttrEndArrow, Value: PointValue(p)})
		raw = rest
	}

	pts, err := parsePoints(raw)
	if err != nil {
		return nil, err
	}
	return append(out, Attr{Key: AttrPos, Value: Points(pts...)}), nil
}

// splitArrow splits "<s|e>,<x>,<y> <rest>" into the arrow point and rest.
func splitArrow(raw string) (Point, string, error) {
	if len(raw) < 2 || raw[1] != ',' {
		return Point{}, "", errs.New(errs.ErrCodeMalformedSpline, "spline %q: arrow prefix must be %c,<x>,<y>", raw, raw[0])
	}

	ws := 2
	for ws < len(raw) && !isSpace(raw[ws]) {
		ws++
	}
	rest := raw[ws:]
	for rest != "" && isSpace(rest[0]) {
		rest = rest[1:]
	}
	if rest == "" {
		return Point{}, "", errs.New(errs.ErrCodeMalformedSpline, "spline %q: no control points after arrow", raw)
	}

	p, err := parsePoint(raw[2:ws])
	if err != nil {
		return Point{}, "", errs.Wrap(errs.ErrCodeMalformedSpline, err, "spline %q: bad arrow point", raw)
	}
	return p, rest, nil
}

// parsePoints parses space-separated "x,y" tokens.
func parsePoints(raw string) ([]Point, error) {
	tokens := strings.Split(raw, " ")
	pts := make([]Point, 0, len(tokens))
	for _, tok := range tokens {
		p, err := parsePoint(tok)
		if err != nil {
			return nil, err
		}
		pts = append(pts, p)
	}
	return pts, nil
}

func parsePoint(raw string) (Point, error) {
	parts := strings.Split(raw, ",")
	if len(parts) != 2 {
		return Point{}, errs.New(errs.ErrCodeNumberFormat, "point %q: want 2 components, got %d", raw, len(parts))
	}
	x, err := parseFloat(parts[0])
	if err != nil {
		return Point{}, err
	}
	y, err := parseFloat(parts[1])
	if err != nil {
		return Point{}, err
	}
	return Point{X: x, Y: y}, nil
}

func parseRect(raw string) (Rect, error) {
	var r Rect
	parts := strings.Split(raw, ",")
	if len(parts) != len(r) {
		return r, errs.New(errs.ErrCodeNumberFormat, "rect %q: want %d components, got %d", raw, len(r), len(parts))
	}
	for i, s := range parts {
		f, err := parseFloat(s)
		if err != nil {
			return r, err
		}
		r[i] = f
	}
	return r, nil
}

// parseFloat parses a finite float, ignoring surrounding whitespace.
func parseFloat(raw string) (float64, error) {
	s := strings.TrimSpace(raw)
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, errs.Wrap(errs.ErrCodeNumberFormat, err, "invalid number %q", raw)
	}
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, errs.New(errs.ErrCodeNumberFormat, "non-finite number %q", raw)
	}
	return f, nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// unescapeLabel replaces \" with " and \\ with \. Other escapes, such as
// the \N node-name placeholder, are kept as written.
func unescapeLabel(raw string) string {
	if !strings.Contains(raw, `\`) {
		return raw
	}
	var b strings.Builder
	b.Grow(len(raw))
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		if c == '\\' && i+1 < len(raw) && (raw[i+1] == '"' || raw[i+1] == '\\') {
			i++
			c = raw[i]
		}
		b.WriteByte(c)
	}
	return b.String()
}
