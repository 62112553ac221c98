package dot

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	errs "github.com/matzehuels/dotlayout/pkg/errors"
)

func TestCoerce(t *testing.T) {
	tests := []struct {
		name     string
		key, raw string
		want     []Attr
		wantCode errs.Code
	}{
		{
			name: "String",
			key:  "color", raw: "red",
			want: []Attr{{Key: "color", Value: String("red")}},
		},
		{
			name: "StringKeepsEscapes",
			key:  "tooltip", raw: `a\"b`,
			want: []Attr{{Key: "tooltip", Value: String(`a\"b`)}},
		},
		{
			name: "Number",
			key:  "width", raw: "0.75",
			want: []Attr{{Key: "width", Value: Number(0.75)}},
		},
		{
			name: "NumberWithWhitespace",
			key:  "height", raw: " 0.5\n",
			want: []Attr{{Key: "height", Value: Number(0.5)}},
		},
		{
			name: "Point",
			key:  "lp", raw: "27,-9.5",
			want: []Attr{{Key: "lp", Value: PointValue(Point{X: 27, Y: -9.5})}},
		},
		{
			name: "Size",
			key:  "size", raw: "7.5,10",
			want: []Attr{{Key: "size", Value: PointValue(Point{X: 7.5, Y: 10})}},
		},
		{
			name: "Rect",
			key:  "bb", raw: "0,0,54,108",
			want: []Attr{{Key: "bb", Value: RectValue(Rect{0, 0, 54, 108})}},
		},
		{
			name: "NodePos",
			key:  "pos", raw: "27,90",
			want: []Attr{{Key: "pos", Value: Points(Point{27, 90})}},
		},
		{
			name: "Spline",
			key:  "pos", raw: "1,2 3,4 5,6 7,8",
			want: []Attr{{Key: "pos", Value: Points(Point{1, 2}, Point{3, 4}, Point{5, 6}, Point{7, 8})}},
		},
		{
			name: "EndArrow",
			key:  "pos", raw: "e,10,20 1,2 3,4",
			want: []Attr{
				{Key: "endArrow", Value: PointValue(Point{10, 20})},
				{Key: "pos", Value: Points(Point{1, 2}, Point{3, 4})},
			},
		},
		{
			name: "FractionalEndArrow",
			key:  "pos", raw: "e,27,36.104 27,71.697",
			want: []Attr{
				{Key: "endArrow", Value: PointValue(Point{27, 36.104})},
				{Key: "pos", Value: Points(Point{27, 71.697})},
			},
		},
		{
			name: "StartAndEndArrow",
			key:  "pos", raw: "s,1,1 e,9,9 2,2 3,3",
			want: []Attr{
				{Key: "startArrow", Value: PointValue(Point{1, 1})},
				{Key: "endArrow", Value: PointValue(Point{9, 9})},
				{Key: "pos", Value: Points(Point{2, 2}, Point{3, 3})},
			},
		},
		{
			name: "StartArrowOnly",
			key:  "pos", raw: "s,1,2 3,4 5,6",
			want: []Attr{
				{Key: "startArrow", Value: PointValue(Point{1, 2})},
				{Key: "pos", Value: Points(Point{3, 4}, Point{5, 6})},
			},
		},
		{
			name: "LabelUnescaped",
			key:  "label", raw: `a\"b\\c`,
			want: []Attr{{Key: "label", Value: String(`a"b\c`)}},
		},
		{
			name: "LabelOtherEscapesKept",
			key:  "label", raw: `\N\l`,
			want: []Attr{{Key: "label", Value: String(`\N\l`)}},
		},
		{
			name: "BadNumber",
			key:  "width", raw: "wide",
			wantCode: errs.ErrCodeNumberFormat,
		},
		{
			name: "NonFinite",
			key:  "width", raw: "NaN",
			wantCode: errs.ErrCodeNumberFormat,
		},
		{
			name: "BadPointComponent",
			key:  "pos", raw: "x,1",
			wantCode: errs.ErrCodeNumberFormat,
		},
		{
			name: "PointTooManyComponents",
			key:  "lp", raw: "1,2,3",
			wantCode: errs.ErrCodeNumberFormat,
		},
		{
			name: "RectTooFewComponents",
			key:  "bb", raw: "0,0,54",
			wantCode: errs.ErrCodeNumberFormat,
		},
		{
			name: "EmptyPos",
			key:  "pos", raw: "",
			wantCode: errs.ErrCodeNumberFormat,
		},
		{
			name: "DoubleSpaceInSpline",
			key:  "pos", raw: "1,2  3,4",
			wantCode: errs.ErrCodeNumberFormat,
		},
		{
			name: "ArrowWithoutPoints",
			key:  "pos", raw: "e,10,20",
			wantCode: errs.ErrCodeMalformedSpline,
		},
		{
			name: "ArrowTrailingSpace",
			key:  "pos", raw: "e,10,20 ",
			wantCode: errs.ErrCodeMalformedSpline,
		},
		{
			name: "ArrowNoComma",
			key:  "pos", raw: "e10,20 1,2",
			wantCode: errs.ErrCodeMalformedSpline,
		},
		{
			name: "ArrowBadPoint",
			key:  "pos", raw: "e,x,20 1,2",
			wantCode: errs.ErrCodeMalformedSpline,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Coerce(tt.key, tt.raw)
			if tt.wantCode != "" {
				if err == nil {
					t.Fatalf("Coerce(%q, %q) = %v, want %s error", tt.key, tt.raw, got, tt.wantCode)
				}
				if code := errs.GetCode(err); code != tt.wantCode {
					t.Errorf("code = %v, want %v (err: %v)", code, tt.wantCode, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Coerce(%q, %q) error: %v", tt.key, tt.raw, err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Coerce(%q, %q) mismatch (-want +got):\n%s", tt.key, tt.raw, diff)
			}
		})
	}
}

func TestPointRoundTrip(t *testing.T) {
	for _, p := range []Point{{0, 0}, {1.5, -2.25}, {1e-9, 123456.789}, {-0.1, 0.3}} {
		raw := PointValue(p).Raw()
		got, err := parsePoint(raw)
		if err != nil {
			t.Fatalf("parsePoint(%q): %v", raw, err)
		}
		if got != p {
			t.Errorf("parsePoint(%q) = %v, want %v", raw, got, p)
		}
	}
}

func TestTypeTable(t *testing.T) {
	tests := map[string]attrType{
		"size":   typePoint,
		"lp":     typePoint,
		"bb":     typeRect,
		"width":  typeNumber,
		"height": typeNumber,
		"color":  typeString,
		"xlp":    typeString,
	}
	for key, want := range tests {
		if got := typeOf(key); got != want {
			t.Errorf("typeOf(%q) = %v, want %v", key, got, want)
		}
	}
}
