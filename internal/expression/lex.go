package expression

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

type token struct {
	text string
	kind tokenKind
	pos  int
}

func (t token) String() string {
	return t.kind.String() + ":" + t.text + "@" + strconv.Itoa(t.pos)
}

type tokenKind int

const (
	tokenNone tokenKind = iota
	// tokenEOF indicates the end of the input.
	tokenEOF
	// tokenNum is an integer or real literal.
	tokenNum
	// tokenIdent is a constant, variable, or function name.
	tokenIdent
	// tokenOp is an operator.
	tokenOp
	// tokenOpen is an open bracket, e.g. (.
	tokenOpen
	// tokenClose is a close bracket, e.g. ).
	tokenClose
)

func (k tokenKind) String() string {
	switch k {
	case tokenNone:
		return "None"
	case tokenEOF:
		return "EOF"
	case tokenNum:
		return "Num"
	case tokenIdent:
		return "Ident"
	case tokenOp:
		return "Op"
	case tokenOpen:
		return "Open"
	case tokenClose:
		return "Close"
	default:
		return "tokenKind(" + strconv.Itoa(int(k)) + ")"
	}
}

// OpenBrackets and CloseBrackets contain the runes which group expressions.
// A bracket in rune position k in OpenBrackets must be matched with the
// bracket in rune position k in CloseBrackets.
const (
	OpenBrackets  = "([{"
	CloseBrackets = ")]}"
)

// operatorGlyphs maps every rune the keypad or a pasted expression may use
// for an operator to its canonical ASCII form.
var operatorGlyphs = map[rune]string{
	'+': "+",
	'➕': "+",
	'＋': "+",
	'-': "-",
	'−': "-",
	'–': "-",
	'—': "-",
	'*': "*",
	'×': "*",
	'✕': "*",
	'∗': "*",
	'·': "*",
	'/': "/",
	'÷': "/",
	'^': "^",
	'%': "%",
}

// identAliases canonicalizes identifier spellings. Qualified math.* names are
// accepted because older keypads inserted them directly.
var identAliases = map[string]string{
	"π":          "pi",
	"pi":         "pi",
	"PI":         "pi",
	"Pi":         "pi",
	"math.pi":    "pi",
	"e":          "e",
	"math.e":     "e",
	"math.sqrt":  "sqrt",
	"math.sin":   "sin",
	"math.cos":   "cos",
	"math.tan":   "tan",
	"math.exp":   "exp",
	"math.log10": "log",
	"math.log":   "ln",
}

func canonicalIdent(name string) string {
	if c, ok := identAliases[name]; ok {
		return c
	}
	return name
}

type lexer struct {
	src []rune
	i   int
}

// lex scans an entire display expression into canonical tokens. The final
// token is always EOF unless an error is returned.
func lex(src string) ([]token, error) {
	l := lexer{src: []rune(src)}
	var toks []token
	for {
		tok, err := l.next()
		if err != nil {
			return nil, err
		}
		toks = append(toks, tok)
		if tok.kind == tokenEOF {
			return toks, nil
		}
	}
}

func (l *lexer) peek(k int) rune {
	if l.i+k >= len(l.src) {
		return utf8.RuneError
	}
	return l.src[l.i+k]
}

func (l *lexer) next() (token, error) {
	for l.i < len(l.src) && unicode.IsSpace(l.src[l.i]) {
		l.i++
	}
	tok := token{pos: l.i + 1}
	if l.i >= len(l.src) {
		tok.kind = tokenEOF
		return tok, nil
	}
	r := l.src[l.i]
	switch {
	case isDigit(r), r == '.':
		text, err := l.scanNum()
		if err != nil {
			return tok, err
		}
		tok.text = text
		tok.kind = tokenNum
		return tok, nil
	case r == '_', unicode.IsLetter(r):
		tok.text = canonicalIdent(l.scanIdent())
		tok.kind = tokenIdent
		return tok, nil
	case r == '*' && l.peek(1) == '*':
		l.i += 2
		tok.text = "^"
		tok.kind = tokenOp
		return tok, nil
	}
	l.i++
	if op, ok := operatorGlyphs[r]; ok {
		tok.text = op
		tok.kind = tokenOp
		return tok, nil
	}
	if k := strings.IndexRune(OpenBrackets, r); k >= 0 {
		tok.text = string(r)
		tok.kind = tokenOpen
		return tok, nil
	}
	if k := strings.IndexRune(CloseBrackets, r); k >= 0 {
		tok.text = string(r)
		tok.kind = tokenClose
		return tok, nil
	}
	return tok, &LexError{Text: string(r), Col: tok.pos}
}

// scanNum scans digits, an optional fraction, and an optional exponent. An e
// that is not followed by exponent digits is left for the identifier scanner
// so that 2e means 2 times e.
func (l *lexer) scanNum() (string, error) {
	start := l.i
	dig := false
	for l.i < len(l.src) && isDigit(l.src[l.i]) {
		l.i++
		dig = true
	}
	if l.i < len(l.src) && l.src[l.i] == '.' {
		l.i++
		for l.i < len(l.src) && isDigit(l.src[l.i]) {
			l.i++
			dig = true
		}
		if l.i < len(l.src) && l.src[l.i] == '.' {
			return "", &LexError{Text: string(l.src[start : l.i+1]), Kind: "number", Col: start + 1}
		}
	}
	if !dig {
		return "", &LexError{Text: string(l.src[start:l.i]), Kind: "number", Col: start + 1}
	}
	if r := l.peek(0); r == 'e' || r == 'E' {
		k := 1
		if s := l.peek(1); s == '+' || s == '-' {
			k = 2
		}
		if isDigit(l.peek(k)) {
			l.i += k
			for l.i < len(l.src) && isDigit(l.src[l.i]) {
				l.i++
			}
		}
	}
	return string(l.src[start:l.i]), nil
}

func (l *lexer) scanIdent() string {
	start := l.i
	for l.i < len(l.src) {
		r := l.src[l.i]
		switch {
		case r == '_', unicode.IsLetter(r), isDigit(r):
			l.i++
		case r == '.' && l.i+1 < len(l.src) && unicode.IsLetter(l.src[l.i+1]):
			// Qualified names such as math.pi.
			l.i++
		default:
			return string(l.src[start:l.i])
		}
	}
	return string(l.src[start:l.i])
}

func isDigit(r rune) bool {
	return '0' <= r && r <= '9'
}

// LexError indicates an invalid token. It implements InputError.
type LexError struct {
	// Text is the invalid token or rune.
	Text string
	// Kind is the type of token the lexer was scanning, "number" or empty if a
	// token kind hadn't been decided.
	Kind string
	// Col is the 1-based rune column where the token starts.
	Col int
}

func (err *LexError) Error() string {
	if err.Kind == "" {
		return errpos(err.Col, "invalid token "+strconv.Quote(err.Text))
	}
	return errpos(err.Col, "invalid "+err.Kind+" token "+strconv.Quote(err.Text))
}

func (err *LexError) Pos() int {
	return err.Col
}
