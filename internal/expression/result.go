package expression

import (
	"fmt"
	"strings"
)

// ErrorMarker is the display value of a failed evaluation.
const ErrorMarker = "Error"

// Result is the outcome of Evaluate: an empty display, a number, or the
// error marker.
type Result struct {
	// Expression is the display expression that was evaluated.
	Expression string
	// Normalized is the canonical form of Expression, empty if it did not
	// lex.
	Normalized string
	// Value is the canonicalized result when Err is nil and the input was
	// not blank.
	Value Number
	// Err is the reason evaluation failed.
	Err error

	empty bool
}

// Evaluate parses, evaluates and canonicalizes a display expression. Blank
// input gives an empty Result. Every failure, including a panic inside the
// evaluator, is reported through Result.Err; Evaluate itself never panics.
func Evaluate(src string, opts ...Option) (res Result) {
	res.Expression = src
	if strings.TrimSpace(src) == "" {
		res.empty = true
		return res
	}
	defer func() {
		if r := recover(); r != nil {
			res.Value = Number{}
			res.Err = fmt.Errorf("evaluating %q: %v", src, r)
		}
	}()
	toks, err := lex(src)
	if err != nil {
		res.Err = err
		return res
	}
	res.Normalized = joinTokens(toks)
	e, err := parseTokens(toks)
	if err != nil {
		res.Err = err
		return res
	}
	v, err := NewContext(opts...).Eval(e)
	if err != nil {
		res.Err = err
		return res
	}
	res.Value = v.Canonical()
	return res
}

// IsEmpty reports whether the evaluated expression was blank.
func (r Result) IsEmpty() bool {
	return r.empty
}

// OK reports whether the result holds a number.
func (r Result) OK() bool {
	return !r.empty && r.Err == nil
}

// Display returns the text shown on the calculator: "" for blank input, the
// error marker on failure, or the formatted number.
func (r Result) Display() string {
	switch {
	case r.empty:
		return ""
	case r.Err != nil:
		return ErrorMarker
	default:
		return r.Value.String()
	}
}

func (r Result) String() string {
	return r.Display()
}
