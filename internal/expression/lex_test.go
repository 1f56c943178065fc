package expression

import (
	"errors"
	"reflect"
	"testing"
)

func TestLex(t *testing.T) {
	cases := []struct {
		src    string
		tokens []token
		err    bool
	}{
		// spaces
		{"", nil, false},
		{" \t \r\n ", nil, false},
		// numbers
		{"0", []token{{text: "0", kind: tokenNum, pos: 1}}, false},
		{"9876543210", []token{{text: "9876543210", kind: tokenNum, pos: 1}}, false},
		{"1 0", []token{{text: "1", kind: tokenNum, pos: 1}, {text: "0", kind: tokenNum, pos: 3}}, false},
		{"1.0", []token{{text: "1.0", kind: tokenNum, pos: 1}}, false},
		{".5", []token{{text: ".5", kind: tokenNum, pos: 1}}, false},
		{"1e3", []token{{text: "1e3", kind: tokenNum, pos: 1}}, false},
		{"1E-3", []token{{text: "1E-3", kind: tokenNum, pos: 1}}, false},
		{"2e", []token{{text: "2", kind: tokenNum, pos: 1}, {text: "e", kind: tokenIdent, pos: 2}}, false},
		{"2e+", []token{{text: "2", kind: tokenNum, pos: 1}, {text: "e", kind: tokenIdent, pos: 2}, {text: "+", kind: tokenOp, pos: 3}}, false},
		{"1.1.1", nil, true},
		{".", nil, true},
		// identifiers
		{"π", []token{{text: "pi", kind: tokenIdent, pos: 1}}, false},
		{"2π", []token{{text: "2", kind: tokenNum, pos: 1}, {text: "pi", kind: tokenIdent, pos: 2}}, false},
		{"math.e", []token{{text: "e", kind: tokenIdent, pos: 1}}, false},
		{"math.log(", []token{{text: "ln", kind: tokenIdent, pos: 1}, {text: "(", kind: tokenOpen, pos: 9}}, false},
		{"math.log10", []token{{text: "log", kind: tokenIdent, pos: 1}}, false},
		{"sqrt(", []token{{text: "sqrt", kind: tokenIdent, pos: 1}, {text: "(", kind: tokenOpen, pos: 5}}, false},
		// operators
		{"1×2", []token{{text: "1", kind: tokenNum, pos: 1}, {text: "*", kind: tokenOp, pos: 2}, {text: "2", kind: tokenNum, pos: 3}}, false},
		{"÷−–➕", []token{{text: "/", kind: tokenOp, pos: 1}, {text: "-", kind: tokenOp, pos: 2}, {text: "-", kind: tokenOp, pos: 3}, {text: "+", kind: tokenOp, pos: 4}}, false},
		{"2**3", []token{{text: "2", kind: tokenNum, pos: 1}, {text: "^", kind: tokenOp, pos: 2}, {text: "3", kind: tokenNum, pos: 4}}, false},
		{"a--b", []token{{text: "a", kind: tokenIdent, pos: 1}, {text: "-", kind: tokenOp, pos: 2}, {text: "-", kind: tokenOp, pos: 3}, {text: "b", kind: tokenIdent, pos: 4}}, false},
		// brackets
		{"[]", []token{{text: "[", kind: tokenOpen, pos: 1}, {text: "]", kind: tokenClose, pos: 2}}, false},
		{"{}", []token{{text: "{", kind: tokenOpen, pos: 1}, {text: "}", kind: tokenClose, pos: 2}}, false},
		// erroneous symbols
		{"$", nil, true},
		{"a$", nil, true},
		{"2 # 3", nil, true},
	}

	for _, c := range cases {
		got, err := lex(c.src)
		if c.err {
			var le *LexError
			if !errors.As(err, &le) {
				t.Errorf("lexing %q: expected LexError, got %v", c.src, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("lexing %q: unexpected error %v", c.src, err)
			continue
		}
		if n := len(got); n == 0 || got[n-1].kind != tokenEOF {
			t.Errorf("lexing %q: missing EOF token in %v", c.src, got)
			continue
		}
		got = got[:len(got)-1]
		if len(got) == 0 {
			got = nil
		}
		if !reflect.DeepEqual(got, c.tokens) {
			t.Errorf("lexing %q: want %v, got %v", c.src, c.tokens, got)
		}
	}
}

func TestLexErrorPosition(t *testing.T) {
	_, err := lex("12 + $")
	var le *LexError
	if !errors.As(err, &le) {
		t.Fatalf("expected LexError, got %v", err)
	}
	if le.Pos() != 6 {
		t.Errorf("wrong position: want 6, got %d", le.Pos())
	}
	if le.Text != "$" {
		t.Errorf("wrong text: want %q, got %q", "$", le.Text)
	}
}
