package format

import (
	"fmt"
	"strconv"
	"unicode"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokNumber
	tokIdent
	tokPlus
	tokMinus
	tokStar
	tokLessEqual
	tokGreaterEqual
	tokEqual
)

func (k tokenKind) String() string {
	switch k {
	case tokEOF:
		return "end of expression"
	case tokNumber:
		return "number"
	case tokIdent:
		return "identifier"
	case tokPlus:
		return "'+'"
	case tokMinus:
		return "'-'"
	case tokStar:
		return "'*'"
	case tokLessEqual:
		return "'<='"
	case tokGreaterEqual:
		return "'>='"
	case tokEqual:
		return "'='"
	}
	return "token(" + strconv.Itoa(int(k)) + ")"
}

type token struct {
	kind  tokenKind
	text  string
	value float64
	pos   int
}

// tokenize splits a linear expression or constraint body into tokens. The
// returned slice always ends with a tokEOF token.
func tokenize(src string) ([]token, error) {
	var tokens []token
	runes := []rune(src)
	for i := 0; i < len(runes); {
		r := runes[i]
		switch {
		case unicode.IsSpace(r):
			i++
		case r == '+':
			tokens = append(tokens, token{kind: tokPlus, text: "+", pos: i})
			i++
		case r == '-':
			tokens = append(tokens, token{kind: tokMinus, text: "-", pos: i})
			i++
		case r == '*':
			tokens = append(tokens, token{kind: tokStar, text: "*", pos: i})
			i++
		case r == '=':
			tokens = append(tokens, token{kind: tokEqual, text: "=", pos: i})
			i++
		case r == '<' || r == '>':
			if i+1 >= len(runes) || runes[i+1] != '=' {
				return nil, fmt.Errorf("unexpected %q at column %d (only <= and >= are supported)", r, i+1)
			}
			kind := tokLessEqual
			if r == '>' {
				kind = tokGreaterEqual
			}
			tokens = append(tokens, token{kind: kind, text: string(runes[i : i+2]), pos: i})
			i += 2
		case unicode.IsDigit(r) || r == '.':
			start := i
			i = scanNumber(runes, i)
			text := string(runes[start:i])
			v, err := strconv.ParseFloat(text, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid number %q at column %d", text, start+1)
			}
			tokens = append(tokens, token{kind: tokNumber, text: text, value: v, pos: start})
		case r == '_' || unicode.IsLetter(r):
			start := i
			for i < len(runes) && (runes[i] == '_' || unicode.IsLetter(runes[i]) || unicode.IsDigit(runes[i])) {
				i++
			}
			tokens = append(tokens, token{kind: tokIdent, text: string(runes[start:i]), pos: start})
		default:
			return nil, fmt.Errorf("unexpected %q at column %d", r, i+1)
		}
	}
	return append(tokens, token{kind: tokEOF, pos: len(runes)}), nil
}

// scanNumber returns the index just past the number starting at i:
// digits, an optional fraction and an optional exponent.
func scanNumber(runes []rune, i int) int {
	for i < len(runes) && unicode.IsDigit(runes[i]) {
		i++
	}
	if i < len(runes) && runes[i] == '.' {
		i++
		for i < len(runes) && unicode.IsDigit(runes[i]) {
			i++
		}
	}
	if i < len(runes) && (runes[i] == 'e' || runes[i] == 'E') {
		j := i + 1
		if j < len(runes) && (runes[j] == '+' || runes[j] == '-') {
			j++
		}
		if j < len(runes) && unicode.IsDigit(runes[j]) {
			for j < len(runes) && unicode.IsDigit(runes[j]) {
				j++
			}
			i = j
		}
	}
	return i
}
