package dot

import "strings"

// Statement is one `<label> [<attrs>]` occurrence in the source.
type Statement struct {
	// Label is the text before the attribute list: a node ID, an edge
	// "a -> b", or one of the keywords graph, digraph and node.
	Label string

	// Attrs is the raw text between the brackets, escapes untouched.
	Attrs string

	// Offset is the byte offset of the label in the scanned source.
	Offset int
}

// Scanner finds statements in annotated DOT source. Successive calls to
// [Scanner.Scan] step through the statements left to right without
// overlap, in the manner of bufio.Scanner. A Scanner cannot be rewound.
//
// A statement is a label of characters other than '[', '\n' and '\t',
// followed by whitespace and a bracketed attribute list. The label is the
// shortest such run, so it never ends in whitespace. Inside the brackets
// a ']' only closes the list when it is outside a double-quoted segment;
// quoted segments honour backslash escapes.
//
// Statements without an attribute list (for example a bare "a -> b;") are
// not reported.
type Scanner struct {
	src  string
	pos  int
	stmt Statement

	// failedOpen is the offset of a '[' whose attribute list is known to be
	// unterminated. Every label candidate in the same run reaches the same
	// bracket, so it is checked once.
	failedOpen int
}

// NewScanner returns a Scanner reading from src. The source is expected to
// have its line continuations already joined (see [JoinContinuations]).
func NewScanner(src string) *Scanner {
	return &Scanner{src: src, failedOpen: -1}
}

// Scan advances to the next statement. It returns false once the source is
// exhausted.
func (s *Scanner) Scan() bool {
	for start := s.pos; start < len(s.src); start++ {
		if !isLabelByte(s.src[start]) {
			continue
		}
		if stmt, end, ok := s.matchAt(start); ok {
			s.stmt = stmt
			s.pos = end
			return true
		}
	}
	s.pos = len(s.src)
	return false
}

// Statement returns the statement found by the most recent call to Scan.
func (s *Scanner) Statement() Statement {
	return s.stmt
}

// matchAt tries to match a statement whose label begins at start. It
// returns the statement and the offset just past its closing bracket.
func (s *Scanner) matchAt(start int) (Statement, int, bool) {
	src := s.src
	for p := start + 1; p <= len(src); p++ {
		// The label may not extend over p-1 unless that byte is a label byte.
		if !isLabelByte(src[p-1]) {
			return Statement{}, 0, false
		}
		if p == len(src) || !isSpace(src[p]) {
			continue
		}

		ws := p
		for ws < len(src) && isSpace(src[ws]) {
			ws++
		}
		if ws == len(src) || src[ws] != '[' {
			continue
		}

		if ws == s.failedOpen {
			return Statement{}, 0, false
		}
		end, ok := scanAttrBody(src, ws+1)
		if !ok {
			s.failedOpen = ws
			return Statement{}, 0, false
		}
		return Statement{
			Label:  src[start:p],
			Attrs:  src[ws+1 : end],
			Offset: start,
		}, end + 1, true
	}
	return Statement{}, 0, false
}

// scanAttrBody returns the offset of the ']' that closes an attribute list
// whose body begins at from.
func scanAttrBody(src string, from int) (int, bool) {
	for i := from; i < len(src); i++ {
		switch src[i] {
		case ']':
			return i, true
		case '"':
			end, ok := scanQuoted(src, i)
			if !ok {
				return 0, false
			}
			i = end
		}
	}
	return 0, false
}

// scanQuoted returns the offset of the closing quote of the quoted segment
// opening at src[open].
func scanQuoted(src string, open int) (int, bool) {
	for i := open + 1; i < len(src); i++ {
		switch src[i] {
		case '\\':
			i++
		case '"':
			return i, true
		}
	}
	return 0, false
}

func isLabelByte(c byte) bool {
	return c != '[' && c != '\n' && c != '\t'
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\f', '\v':
		return true
	}
	return false
}

// JoinContinuations removes backslash-newline line continuations, which
// Graphviz inserts to wrap long attribute values.
func JoinContinuations(src string) string {
	if !strings.Contains(src, "\\\n") && !strings.Contains(src, "\\\r\n") {
		return src
	}
	r := strings.NewReplacer("\\\r\n", "", "\\\n", "")
	return r.Replace(src)
}
