package expression

import "strings"

// sum     = product { ('+' | '-') product }
// product = unary { ('*' | '/' | '%') unary | power }
// unary   = ('+' | '-') unary | power
// power   = primary [ '^' unary ]
// primary = num | name | func Group | Group
// Group   = '(' sum ')' | '[' sum ']' | '{' sum '}'
//
// The bare "power" alternative of product is implicit multiplication. It only
// applies when the next token is a name or an open bracket, so "2π" and
// "3(4+1)" multiply but "2 3" is rejected.

// Expr is a parsed expression that can be evaluated with a context.
type Expr struct {
	// n is the root node of the expression.
	n *node
}

type parser struct {
	toks []token
	i    int
}

// Parse parses a display expression. Glyph operators, π and qualified math.*
// names are recognized during lexing, so src is read exactly once.
func Parse(src string) (*Expr, error) {
	toks, err := lex(src)
	if err != nil {
		return nil, err
	}
	return parseTokens(toks)
}

func parseTokens(toks []token) (*Expr, error) {
	p := parser{toks: toks}
	n, err := p.parseSum()
	if err != nil {
		return nil, err
	}
	if tok := p.peek(); tok.kind != tokenEOF {
		return nil, itShouldNotHaveEndedThisWay(tok, -1)
	}
	return &Expr{n: n}, nil
}

// Normalize rewrites a display expression into its canonical ASCII form:
// operator glyphs become + - * / % ^, π becomes pi, qualified math.* names
// lose their prefix. The result is a fixed point of Normalize. Only lexical
// errors are reported; the result need not parse.
func Normalize(src string) (string, error) {
	toks, err := lex(src)
	if err != nil {
		return "", err
	}
	return joinTokens(toks), nil
}

// joinTokens writes canonical token text so that it lexes back to the same
// tokens: adjacent numbers and names are separated by a space, and so are two
// multiplications, which would otherwise read as "**".
func joinTokens(toks []token) string {
	var b strings.Builder
	var prev token
	for i, tok := range toks {
		if tok.kind == tokenEOF {
			break
		}
		if i > 0 && needsSpace(prev, tok) {
			b.WriteByte(' ')
		}
		b.WriteString(tok.text)
		prev = tok
	}
	return b.String()
}

func needsSpace(prev, tok token) bool {
	word := func(t token) bool { return t.kind == tokenNum || t.kind == tokenIdent }
	if word(prev) && word(tok) {
		return true
	}
	return prev.kind == tokenOp && prev.text == "*" && tok.kind == tokenOp && tok.text == "*"
}

func (p *parser) peek() token {
	return p.toks[p.i]
}

func (p *parser) next() token {
	tok := p.toks[p.i]
	if tok.kind != tokenEOF {
		p.i++
	}
	return tok
}

func isOp(tok token, ops ...string) bool {
	if tok.kind != tokenOp {
		return false
	}
	for _, op := range ops {
		if tok.text == op {
			return true
		}
	}
	return false
}

func (p *parser) parseSum() (*node, error) {
	n, err := p.parseProduct()
	if err != nil {
		return nil, err
	}
	for {
		tok := p.peek()
		if !isOp(tok, "+", "-") {
			return n, nil
		}
		p.next()
		rhs, err := p.parseProduct()
		if err != nil {
			return nil, err
		}
		kind := nodeAdd
		if tok.text == "-" {
			kind = nodeSub
		}
		n = &node{kind: kind, left: n, right: rhs}
	}
}

var productOps = map[string]nodeKind{
	"*": nodeMul,
	"/": nodeDiv,
	"%": nodeMod,
}

func (p *parser) parseProduct() (*node, error) {
	n, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		tok := p.peek()
		switch {
		case isOp(tok, "*", "/", "%"):
			p.next()
			rhs, err := p.parseUnary()
			if err != nil {
				return nil, err
			}
			n = &node{kind: productOps[tok.text], left: n, right: rhs}
		case tok.kind == tokenIdent, tok.kind == tokenOpen:
			rhs, err := p.parsePower()
			if err != nil {
				return nil, err
			}
			n = &node{kind: nodeMul, left: n, right: rhs}
		default:
			return n, nil
		}
	}
}

func (p *parser) parseUnary() (*node, error) {
	tok := p.peek()
	if isOp(tok, "+", "-") {
		p.next()
		rhs, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		if tok.text == "-" {
			return &node{kind: nodeNeg, left: rhs}, nil
		}
		return &node{kind: nodeNop, left: rhs}, nil
	}
	return p.parsePower()
}

func (p *parser) parsePower() (*node, error) {
	base, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	if !isOp(p.peek(), "^") {
		return base, nil
	}
	p.next()
	// Parsing the exponent as a unary term makes ^ right-associative and
	// allows 2^-1.
	exp, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	return &node{kind: nodePow, left: base, right: exp}, nil
}

func (p *parser) parsePrimary() (*node, error) {
	tok := p.peek()
	switch tok.kind {
	case tokenNum:
		p.next()
		num, err := parseNumber(tok.text)
		if err != nil {
			if le, ok := err.(*LexError); ok {
				le.Col = tok.pos
			}
			return nil, err
		}
		return &node{kind: nodeNum, num: num}, nil
	case tokenIdent:
		p.next()
		if _, ok := globalfuncs[tok.text]; !ok {
			return &node{kind: nodeName, name: tok.text}, nil
		}
		if p.peek().kind != tokenOpen {
			return nil, &CallError{Col: tok.pos, Func: tok.text}
		}
		arg, err := p.parseGroup()
		if err != nil {
			return nil, err
		}
		return &node{kind: nodeCall, name: tok.text, left: arg}, nil
	case tokenOpen:
		return p.parseGroup()
	case tokenOp:
		return nil, &OperatorError{Col: tok.pos, Operator: tok.text, Unary: true}
	case tokenClose:
		return nil, &BracketError{Col: tok.pos, Right: tok.text}
	case tokenEOF:
		return nil, &EmptyExpressionError{Col: tok.pos}
	default:
		panic("expression: unknown token: " + tok.String())
	}
}

// parseGroup parses a bracketed subexpression starting at an open bracket.
func (p *parser) parseGroup() (*node, error) {
	open := p.next()
	match := strings.Index(OpenBrackets, open.text)
	switch tok := p.peek(); tok.kind {
	case tokenClose:
		if tok.text == closeFor(match) {
			return nil, &EmptyExpressionError{Col: tok.pos, End: tok.text}
		}
		return nil, &BracketError{Col: tok.pos, Left: open.text, Right: tok.text}
	case tokenEOF:
		return nil, &BracketError{Col: tok.pos, Left: open.text}
	}
	n, err := p.parseSum()
	if err != nil {
		return nil, err
	}
	end := p.next()
	if end.kind != tokenClose || end.text != closeFor(match) {
		return nil, itShouldNotHaveEndedThisWay(end, match)
	}
	return n, nil
}

// closeFor returns the close bracket matching the open bracket at byte
// index k of OpenBrackets.
func closeFor(k int) string {
	if k < 0 {
		return ""
	}
	return CloseBrackets[k : k+1]
}

func openFor(k int) string {
	if k < 0 {
		return ""
	}
	return OpenBrackets[k : k+1]
}

// itShouldNotHaveEndedThisWay returns an error appropriate for an unexpected
// token at the end of a subexpression. match is the open bracket index that
// the expression should have matched, or -1 if none.
func itShouldNotHaveEndedThisWay(tok token, match int) error {
	switch tok.kind {
	case tokenEOF:
		return &BracketError{Col: tok.pos, Left: openFor(match)}
	case tokenClose:
		return &BracketError{Col: tok.pos, Left: openFor(match), Right: tok.text}
	default:
		return &UnexpectedTokenError{Col: tok.pos, Text: tok.text}
	}
}

// String creates a string representation of the parsed expression, with
// alternating round and square brackets grouping each term.
func (e *Expr) String() string {
	return e.n.String()
}
