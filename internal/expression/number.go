package expression

import (
	"math"
	"math/big"
	"strconv"
)

// MaxIntBits bounds exact integer results. Larger integers are reported as an
// OverflowError instead of being computed.
const MaxIntBits = 1 << 16

// SignificantDigits is the precision to which double results are rounded
// before display.
const SignificantDigits = 12

// Number is a calculator value. It is either an exact integer or a double.
// The zero value is the double 0.
type Number struct {
	i *big.Int
	f float64
}

// Int returns an exact integer Number.
func Int(x int64) Number {
	return Number{i: big.NewInt(x)}
}

// BigInt returns an exact integer Number holding a copy of x.
func BigInt(x *big.Int) Number {
	return Number{i: new(big.Int).Set(x)}
}

// Float returns a double Number.
func Float(f float64) Number {
	return Number{f: f}
}

// parseNumber converts a number token. Tokens without a fraction or exponent
// are exact integers; leading zeros are allowed.
func parseNumber(s string) (Number, error) {
	isInt := true
	for _, r := range s {
		if !isDigit(r) {
			isInt = false
			break
		}
	}
	if isInt {
		i, ok := new(big.Int).SetString(s, 10)
		if !ok {
			return Number{}, &LexError{Text: s, Kind: "number"}
		}
		if i.BitLen() > MaxIntBits {
			return Number{}, &OverflowError{Op: "literal"}
		}
		return Number{i: i}, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		// ParseFloat reports out of range for literals like 1e999.
		return Number{}, &OverflowError{Op: "literal"}
	}
	return Number{f: f}, nil
}

// ParseNumber reads a single numeric literal with an optional leading minus,
// the form Number.String produces. Anything else, such as an expression, is
// rejected.
func ParseNumber(s string) (Number, error) {
	toks, err := lex(s)
	if err != nil {
		return Number{}, err
	}
	negative := false
	if toks[0].kind == tokenOp && toks[0].text == "-" {
		negative = true
		toks = toks[1:]
	}
	switch {
	case toks[0].kind == tokenEOF:
		return Number{}, &EmptyExpressionError{Col: toks[0].pos}
	case toks[0].kind != tokenNum:
		return Number{}, &UnexpectedTokenError{Col: toks[0].pos, Text: toks[0].text}
	case toks[1].kind != tokenEOF:
		return Number{}, &UnexpectedTokenError{Col: toks[1].pos, Text: toks[1].text}
	}
	n, err := parseNumber(toks[0].text)
	if err != nil {
		return Number{}, err
	}
	if negative {
		n = neg(n)
	}
	return n, nil
}

// IsInt reports whether n is an exact integer.
func (n Number) IsInt() bool {
	return n.i != nil
}

// Float64 returns n as a double. Integers that do not fit in a double return
// an OverflowError.
func (n Number) Float64() (float64, error) {
	if n.i == nil {
		return n.f, nil
	}
	if n.i.IsInt64() {
		return float64(n.i.Int64()), nil
	}
	f, _ := new(big.Float).SetInt(n.i).Float64()
	if math.IsInf(f, 0) {
		return 0, &OverflowError{Op: "int to float conversion"}
	}
	return f, nil
}

// Sign returns -1, 0, or +1 depending on the sign of n.
func (n Number) Sign() int {
	if n.i != nil {
		return n.i.Sign()
	}
	switch {
	case n.f < 0:
		return -1
	case n.f > 0:
		return 1
	default:
		return 0
	}
}

// Canonical rounds a double to SignificantDigits significant digits so that
// binary artifacts such as 0.30000000000000004 disappear. Integers are
// returned unchanged.
func (n Number) Canonical() Number {
	if n.i != nil || math.IsInf(n.f, 0) || math.IsNaN(n.f) {
		return n
	}
	s := strconv.FormatFloat(n.f, 'g', SignificantDigits, 64)
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return n
	}
	return Number{f: f}
}

// String formats n for the calculator display. Integers are written in full.
// Integral doubles below 1e16 are written without a fraction, other doubles
// in their shortest decimal form, switching to exponent notation outside
// [1e-4, 1e16).
func (n Number) String() string {
	if n.i != nil {
		return n.i.String()
	}
	f := n.f
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 0):
		if f < 0 {
			return "-Inf"
		}
		return "Inf"
	case f == 0:
		return "0"
	}
	a := math.Abs(f)
	if a >= 1e-4 && a < 1e16 {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// MarshalText implements encoding.TextMarshaler using the display format.
func (n Number) MarshalText() ([]byte, error) {
	return []byte(n.String()), nil
}

// finite checks a double result, turning infinities and NaN into an
// OverflowError.
func finite(op string, f float64) (Number, error) {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return Number{}, &OverflowError{Op: op}
	}
	return Number{f: f}, nil
}

// floats converts both operands to doubles.
func floats(a, b Number) (float64, float64, error) {
	x, err := a.Float64()
	if err != nil {
		return 0, 0, err
	}
	y, err := b.Float64()
	if err != nil {
		return 0, 0, err
	}
	return x, y, nil
}

func checkBits(op string, i *big.Int) (Number, error) {
	if i.BitLen() > MaxIntBits {
		return Number{}, &OverflowError{Op: op}
	}
	return Number{i: i}, nil
}

func add(a, b Number) (Number, error) {
	if a.i != nil && b.i != nil {
		return checkBits("+", new(big.Int).Add(a.i, b.i))
	}
	x, y, err := floats(a, b)
	if err != nil {
		return Number{}, err
	}
	return finite("+", x+y)
}

func sub(a, b Number) (Number, error) {
	if a.i != nil && b.i != nil {
		return checkBits("-", new(big.Int).Sub(a.i, b.i))
	}
	x, y, err := floats(a, b)
	if err != nil {
		return Number{}, err
	}
	return finite("-", x-y)
}

func mul(a, b Number) (Number, error) {
	if a.i != nil && b.i != nil {
		if a.i.BitLen()+b.i.BitLen() > MaxIntBits+1 {
			return Number{}, &OverflowError{Op: "*"}
		}
		return checkBits("*", new(big.Int).Mul(a.i, b.i))
	}
	x, y, err := floats(a, b)
	if err != nil {
		return Number{}, err
	}
	return finite("*", x*y)
}

// quo is true division. The result is always a double.
func quo(a, b Number) (Number, error) {
	if b.Sign() == 0 {
		return Number{}, &DomainError{X: b.String(), Func: "/"}
	}
	if a.i != nil && b.i != nil {
		// Divide exactly first so that huge integer quotients keep precision.
		r, _ := new(big.Rat).SetFrac(a.i, b.i).Float64()
		return finite("/", r)
	}
	x, y, err := floats(a, b)
	if err != nil {
		return Number{}, err
	}
	return finite("/", x/y)
}

// Percent divides n by 100 and canonicalizes the quotient.
func Percent(n Number) (Number, error) {
	v, err := quo(n, Int(100))
	if err != nil {
		return Number{}, err
	}
	return v.Canonical(), nil
}

// mod is the floored modulo: the result takes the sign of the divisor.
func mod(a, b Number) (Number, error) {
	if b.Sign() == 0 {
		return Number{}, &DomainError{X: b.String(), Func: "%"}
	}
	if a.i != nil && b.i != nil {
		r := new(big.Int).Rem(a.i, b.i)
		if r.Sign() != 0 && r.Sign() != b.i.Sign() {
			r.Add(r, b.i)
		}
		return Number{i: r}, nil
	}
	x, y, err := floats(a, b)
	if err != nil {
		return Number{}, err
	}
	r := math.Mod(x, y)
	if r != 0 && (r < 0) != (y < 0) {
		r += y
	}
	return finite("%", r)
}

func pow(a, b Number) (Number, error) {
	if a.i != nil && b.i != nil && b.i.Sign() >= 0 {
		if a.i.BitLen() > 1 {
			// |a| >= 2 grows by at least one bit per factor.
			if !b.i.IsInt64() || b.i.Int64() > MaxIntBits || int64(a.i.BitLen()-1)*b.i.Int64() > MaxIntBits {
				return Number{}, &OverflowError{Op: "^"}
			}
		}
		return checkBits("^", new(big.Int).Exp(a.i, b.i, nil))
	}
	x, y, err := floats(a, b)
	if err != nil {
		return Number{}, err
	}
	switch {
	case x == 0 && y < 0:
		return Number{}, &DomainError{X: b.String(), Func: "0^"}
	case x < 0 && y != math.Trunc(y):
		return Number{}, &DomainError{X: a.String(), Func: "^"}
	}
	return finite("^", math.Pow(x, y))
}

func neg(a Number) Number {
	if a.i != nil {
		return Number{i: new(big.Int).Neg(a.i)}
	}
	return Number{f: -a.f}
}
