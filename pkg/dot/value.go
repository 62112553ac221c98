package dot

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Kind identifies which field of a [Value] is populated.
type Kind int

const (
	KindString Kind = iota
	KindNumber
	KindPoint
	KindRect
	KindPoints
)

var kindNames = [...]string{
	KindString: "string",
	KindNumber: "number",
	KindPoint:  "point",
	KindRect:   "rect",
	KindPoints: "points",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Point is a 2D coordinate in layout units (points, y axis pointing up).
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Rect is a bounding box as laid out by Graphviz: llx, lly, urx, ury.
type Rect [4]float64

// Width returns the horizontal extent of the rectangle.
func (r Rect) Width() float64 { return r[2] - r[0] }

// Height returns the vertical extent of the rectangle.
func (r Rect) Height() float64 { return r[3] - r[1] }

// Value is a typed attribute value. Exactly one payload field is meaningful,
// selected by Kind.
type Value struct {
	Kind   Kind
	Str    string
	Num    float64
	Pt     Point
	Rect   Rect
	Points []Point
}

// String returns a string value.
func String(s string) Value { return Value{Kind: KindString, Str: s} }

// Number returns a numeric value.
func Number(f float64) Value { return Value{Kind: KindNumber, Num: f} }

// PointValue returns a point value.
func PointValue(p Point) Value { return Value{Kind: KindPoint, Pt: p} }

// RectValue returns a rectangle value.
func RectValue(r Rect) Value { return Value{Kind: KindRect, Rect: r} }

// Points returns a point-sequence value.
func Points(ps ...Point) Value { return Value{Kind: KindPoints, Points: ps} }

// Raw renders the value the way it would appear in DOT source, unquoted.
func (v Value) Raw() string {
	switch v.Kind {
	case KindNumber:
		return formatFloat(v.Num)
	case KindPoint:
		return formatFloat(v.Pt.X) + "," + formatFloat(v.Pt.Y)
	case KindRect:
		return fmt.Sprintf("%s,%s,%s,%s",
			formatFloat(v.Rect[0]), formatFloat(v.Rect[1]), formatFloat(v.Rect[2]), formatFloat(v.Rect[3]))
	case KindPoints:
		var buf bytes.Buffer
		for i, p := range v.Points {
			if i > 0 {
				buf.WriteByte(' ')
			}
			buf.WriteString(formatFloat(p.X) + "," + formatFloat(p.Y))
		}
		return buf.String()
	default:
		return v.Str
	}
}

// MarshalJSON encodes numbers as JSON numbers, points as {"x","y"} objects,
// rectangles as 4-element arrays and point sequences as arrays of points.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case KindNumber:
		return json.Marshal(v.Num)
	case KindPoint:
		return json.Marshal(v.Pt)
	case KindRect:
		return json.Marshal(v.Rect)
	case KindPoints:
		if v.Points == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(v.Points)
	default:
		return json.Marshal(v.Str)
	}
}

// UnmarshalJSON restores a Value from the encoding produced by MarshalJSON.
// The kind is inferred from the JSON shape, so no key context is needed.
func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return fmt.Errorf("missing value")
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = String(s)
	case '{':
		var p Point
		if err := json.Unmarshal(data, &p); err != nil {
			return err
		}
		*v = PointValue(p)
	case '[':
		var elems []json.RawMessage
		if err := json.Unmarshal(data, &elems); err != nil {
			return err
		}
		if len(elems) == 0 || bytes.HasPrefix(bytes.TrimSpace(elems[0]), []byte("{")) {
			ps := make([]Point, 0, len(elems))
			if err := json.Unmarshal(data, &ps); err != nil {
				return err
			}
			*v = Points(ps...)
			return nil
		}
		var r Rect
		if len(elems) != len(r) {
			return fmt.Errorf("rect needs %d components, got %d", len(r), len(elems))
		}
		if err := json.Unmarshal(data, &r); err != nil {
			return err
		}
		*v = RectValue(r)
	default:
		var f float64
		if err := json.Unmarshal(data, &f); err != nil {
			return fmt.Errorf("unsupported value %s: %w", data, err)
		}
		*v = Number(f)
	}
	return nil
}
