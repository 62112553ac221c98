package dot

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func scanAll(src string) []Statement {
	var out []Statement
	sc := NewScanner(src)
	for sc.Scan() {
		out = append(out, sc.Statement())
	}
	return out
}

func TestScanner(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []Statement
	}{
		{
			name: "Empty",
			src:  "",
			want: nil,
		},
		{
			name: "NoStatements",
			src:  "digraph G {\n\ta -> b;\n}\n",
			want: nil,
		},
		{
			name: "GraphvizOutput",
			src: "digraph G {\n" +
				"\tgraph [bb=\"0,0,54,108\"];\n" +
				"\tnode [label=\"\\N\"];\n" +
				"\ta\t[height=0.5, pos=\"27,90\"];\n" +
				"\ta -> b\t[pos=\"e,27,36.104 27,71.697 27,63.983\"];\n" +
				"}\n",
			want: []Statement{
				{Label: "graph", Attrs: `bb="0,0,54,108"`},
				{Label: "node", Attrs: `label="\N"`},
				{Label: "a", Attrs: `height=0.5, pos="27,90"`},
				{Label: "a -> b", Attrs: `pos="e,27,36.104 27,71.697 27,63.983"`},
			},
		},
		{
			name: "BracketInsideQuotes",
			src:  `a [label="x]y", pos="1,1"]`,
			want: []Statement{{Label: "a", Attrs: `label="x]y", pos="1,1"`}},
		},
		{
			name: "EscapedQuoteInsideQuotes",
			src:  `a [label="say \"]\"", pos="1,1"]`,
			want: []Statement{{Label: "a", Attrs: `label="say \"]\"", pos="1,1"`}},
		},
		{
			name: "MultiLineBody",
			src:  "\ta\t[height=0.5,\n\t\tpos=\"27,90\",\n\t\twidth=0.75];\n",
			want: []Statement{{Label: "a", Attrs: "height=0.5,\n\t\tpos=\"27,90\",\n\t\twidth=0.75"}},
		},
		{
			name: "SeveralOnOneLine",
			src:  `a [pos="1,1"]; b [pos="2,2"];`,
			want: []Statement{
				{Label: "a", Attrs: `pos="1,1"`},
				{Label: "; b", Attrs: `pos="2,2"`},
			},
		},
		{
			name: "NeedsWhitespaceBeforeBracket",
			src:  `a[pos="1,1"]`,
			want: nil,
		},
		{
			name: "UnterminatedQuote",
			src:  "a [label=\"oops]\nb [pos=\"2,2\"]",
			want: []Statement{{Label: "b", Attrs: `pos="2,2"`}},
		},
		{
			name: "UnterminatedList",
			src:  `a [pos="1,1"`,
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := scanAll(tt.src)
			if diff := cmp.Diff(tt.want, got, cmpopts.IgnoreFields(Statement{}, "Offset")); diff != "" {
				t.Errorf("statements mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestScannerOffset(t *testing.T) {
	src := "x\n\tb [pos=\"1,1\"]"
	got := scanAll(src)
	if len(got) != 1 {
		t.Fatalf("got %d statements, want 1", len(got))
	}
	if got[0].Offset != 3 {
		t.Errorf("Offset = %d, want 3", got[0].Offset)
	}
	if src[got[0].Offset:got[0].Offset+1] != "b" {
		t.Errorf("Offset does not point at label")
	}
}

func TestScannerExhausted(t *testing.T) {
	sc := NewScanner(`a [pos="1,1"]`)
	if !sc.Scan() {
		t.Fatal("first Scan() = false, want true")
	}
	if sc.Scan() {
		t.Error("second Scan() = true, want false")
	}
	if sc.Scan() {
		t.Error("Scan() after exhaustion = true, want false")
	}
}

func TestJoinContinuations(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"abc", "abc"},
		{"pos=\"1,2 3,\\\n4\"", "pos=\"1,2 3,4\""},
		{"a\\\r\nb", "ab"},
		{"keep \\N", "keep \\N"},
	}
	for _, tt := range tests {
		if got := JoinContinuations(tt.in); got != tt.want {
			t.Errorf("JoinContinuations(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
