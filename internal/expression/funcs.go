package expression

import (
	"math"
	"strconv"
)

// Func is a unary function of the calculator. It receives the evaluation
// context so that trigonometric functions can honor the angle unit.
type Func func(ctx *Context, x float64) (float64, error)

// globalfuncs is the closed set of functions the parser recognizes.
var globalfuncs = map[string]Func{
	"sin":  trig("sin", math.Sin, sinQuadrant),
	"cos":  trig("cos", math.Cos, cosQuadrant),
	"tan":  tan,
	"sqrt": sqrt,
	"log":  logarithm("log", math.Log10),
	"ln":   logarithm("ln", math.Log),
	"exp":  exp,
}

// constants are the names every context resolves.
var constants = map[string]Number{
	"pi": Float(math.Pi),
	"e":  Float(math.E),
}

func sqrt(ctx *Context, x float64) (float64, error) {
	if x < 0 {
		return 0, &DomainError{X: fmtf(x), Func: "sqrt"}
	}
	return math.Sqrt(x), nil
}

func exp(ctx *Context, x float64) (float64, error) {
	return math.Exp(x), nil
}

func logarithm(name string, f func(float64) float64) Func {
	return func(ctx *Context, x float64) (float64, error) {
		if x <= 0 {
			return 0, &DomainError{X: fmtf(x), Func: name}
		}
		return f(x), nil
	}
}

// quadrant returns k when x is exactly k*90 degrees, reduced to [0, 4).
func quadrant(x float64) (int, bool) {
	q := x / 90
	if q != math.Trunc(q) || math.Abs(q) > 1<<52 {
		return 0, false
	}
	k := int(math.Mod(q, 4))
	if k < 0 {
		k += 4
	}
	return k, true
}

var (
	sinQuadrant = [4]float64{0, 1, 0, -1}
	cosQuadrant = [4]float64{1, 0, -1, 0}
)

// trig wraps sin or cos. In degree mode, exact multiples of 90 degrees return
// exact values instead of the rounding noise of math.Sin(math.Pi).
func trig(name string, f func(float64) float64, exact [4]float64) Func {
	return func(ctx *Context, x float64) (float64, error) {
		if math.IsInf(x, 0) {
			return 0, &DomainError{X: fmtf(x), Func: name}
		}
		if ctx.angle == Degrees {
			if k, ok := quadrant(x); ok {
				return exact[k], nil
			}
		}
		return f(ctx.radians(x)), nil
	}
}

// asymptote is how close cos may be to zero before tan is undefined.
const asymptote = 1e-12

func tan(ctx *Context, x float64) (float64, error) {
	if math.IsInf(x, 0) {
		return 0, &DomainError{X: fmtf(x), Func: "tan"}
	}
	if ctx.angle == Degrees {
		if k, ok := quadrant(x); ok {
			if k%2 == 1 {
				return 0, &DomainError{X: fmtf(x), Func: "tan"}
			}
			return 0, nil
		}
	}
	r := ctx.radians(x)
	if math.Abs(math.Cos(r)) < asymptote {
		return 0, &DomainError{X: fmtf(x), Func: "tan"}
	}
	return math.Tan(r), nil
}

func fmtf(x float64) string {
	return strconv.FormatFloat(x, 'g', -1, 64)
}
