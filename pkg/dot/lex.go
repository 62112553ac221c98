package dot

import (
	"strings"

	errs "github.com/matzehuels/dotlayout/pkg/errors"
)

// Pair is one key=value entry of an attribute list. Raw holds the value
// text with surrounding quotes removed and escapes left in place.
type Pair struct {
	Key    string
	Raw    string
	Quoted bool
}

// Pairs splits an attribute-list body into key=value pairs in source order.
//
// A key is a run of characters other than '=', ',' and whitespace,
// immediately followed by '='. A value is either a double-quoted string,
// which may contain backslash escapes, or a bare run of characters other
// than ',' and '"' with surrounding whitespace trimmed, so b=\tx yields
// "x" rather than "\tx" (Graphviz never writes padded bare values). Text
// that does not fit this grammar is skipped.
// Duplicate keys are all reported; the caller applies them in order.
func Pairs(body string) []Pair {
	pairs, _ := lexPairs(body, false)
	return pairs
}

// StrictPairs is like [Pairs] but fails with MALFORMED_STATEMENT when the
// body contains anything besides pairs, commas, semicolons and whitespace.
func StrictPairs(body string) ([]Pair, error) {
	return lexPairs(body, true)
}

func lexPairs(body string, strict bool) ([]Pair, error) {
	var pairs []Pair
	gap := 0 // start of text not consumed by a pair

	for i := 0; i < len(body); {
		keyEnd := i
		for keyEnd < len(body) && isKeyByte(body[keyEnd]) {
			keyEnd++
		}
		if keyEnd == i || keyEnd == len(body) || body[keyEnd] != '=' {
			// No key can start anywhere inside this run either.
			i = max(keyEnd, i+1)
			continue
		}

		if strict {
			if err := checkGap(body, gap, i); err != nil {
				return nil, err
			}
		}

		p, next := lexValue(body, keyEnd+1)
		p.Key = body[i:keyEnd]
		pairs = append(pairs, p)
		i, gap = next, next
	}

	if strict {
		if err := checkGap(body, gap, len(body)); err != nil {
			return nil, err
		}
	}
	return pairs, nil
}

// lexValue reads the value starting at from and returns the offset after it.
func lexValue(body string, from int) (Pair, int) {
	if from < len(body) && body[from] == '"' {
		if end, ok := scanQuotedValue(body, from); ok {
			return Pair{Raw: body[from+1 : end], Quoted: true}, end + 1
		}
		// An unterminated quote leaves an empty bare value.
		return Pair{}, from
	}

	end := from
	for end < len(body) && body[end] != ',' && body[end] != '"' {
		end++
	}
	return Pair{Raw: strings.TrimSpace(body[from:end])}, end
}

// scanQuotedValue finds the closing quote of a quoted value. Unlike the
// statement scanner, an escape never swallows a newline.
func scanQuotedValue(body string, open int) (int, bool) {
	for i := open + 1; i < len(body); i++ {
		switch body[i] {
		case '\\':
			if i+1 >= len(body) || body[i+1] == '\n' {
				return 0, false
			}
			i++
		case '"':
			return i, true
		}
	}
	return 0, false
}

func checkGap(body string, from, to int) error {
	if from >= to {
		return nil
	}
	junk := strings.TrimFunc(body[from:to], func(r rune) bool {
		return r == ',' || r == ';' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
	if junk != "" {
		return errs.New(errs.ErrCodeMalformedStatement, "unexpected text %q in attribute list", junk)
	}
	return nil
}

func isKeyByte(c byte) bool {
	return c != '=' && c != ',' && !isSpace(c)
}
